package types

import (
	"bytes"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/holiman/uint256"
)

// Event topics on the deposit surface. The host ledger emits one event per
// qualifying value transfer; the state engine indexes each as a leaf.
const (
	TopicBurn   = uint64(0xb0)
	TopicChange = uint64(0xc0)
)

// DepositEvent is anything the commitment tree can index as a leaf.
type DepositEvent interface {
	Topic() uint64
	Commitment() common.Hash
}

// BurnEvent records a standard deposit: value sent from Sender to a
// burn address derived from a secret.
type BurnEvent struct {
	Sender      common.Address
	BurnAddress common.Address
	Value       *uint256.Int
}

func (ev *BurnEvent) Topic() uint64 { return TopicBurn }

func (ev *BurnEvent) Commitment() common.Hash {
	return DepositCommitment(ev.Sender, ev.BurnAddress, ev.Value)
}

// ChangeEvent records a change deposit. Only the salted value hash is
// disclosed; amount and salt stay with the withdrawer.
type ChangeEvent struct {
	SaltedHash common.Hash
}

func (ev *ChangeEvent) Topic() uint64 { return TopicChange }

func (ev *ChangeEvent) Commitment() common.Hash {
	return ChangeCommitment(ev.SaltedHash)
}

// EncodeDepositEvent serializes an event with its topic tag prefix.
func EncodeDepositEvent(ev DepositEvent) ([]byte, error) {
	switch e := ev.(type) {
	case *BurnEvent:
		return rlp.EncodeToBytes([]interface{}{
			e.Topic(), e.Sender, e.BurnAddress, e.Value.ToBig(),
		})
	case *ChangeEvent:
		return rlp.EncodeToBytes([]interface{}{
			e.Topic(), e.SaltedHash,
		})
	default:
		return nil, fmt.Errorf("unknown deposit event type %T", ev)
	}
}

// DecodeDepositEvent parses an event by its topic tag.
func DecodeDepositEvent(bz []byte) (DepositEvent, error) {
	s := rlp.NewStream(bytes.NewReader(bz), uint64(len(bz)))
	if _, err := s.List(); err != nil {
		return nil, err
	}
	topic, err := s.Uint64()
	if err != nil {
		return nil, err
	}

	switch topic {
	case TopicBurn:
		var temp struct {
			Sender      common.Address
			BurnAddress common.Address
			Value       *big.Int
		}
		if err := s.Decode(&temp.Sender); err != nil {
			return nil, err
		}
		if err := s.Decode(&temp.BurnAddress); err != nil {
			return nil, err
		}
		if err := s.Decode(&temp.Value); err != nil {
			return nil, err
		}
		value, overflow := uint256.FromBig(temp.Value)
		if overflow {
			return nil, fmt.Errorf("burn value overflows uint256")
		}
		return &BurnEvent{
			Sender:      temp.Sender,
			BurnAddress: temp.BurnAddress,
			Value:       value,
		}, nil

	case TopicChange:
		var saltedHash common.Hash
		if err := s.Decode(&saltedHash); err != nil {
			return nil, err
		}
		return &ChangeEvent{SaltedHash: saltedHash}, nil

	default:
		return nil, fmt.Errorf("unknown deposit event topic %#x", topic)
	}
}
