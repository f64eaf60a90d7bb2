// Package node hosts the append-only ledger state of the proof-of-burn
// engine and its withdrawal state transition.
//
// The ledger owns the canonical commitment tree, the root history and the
// nullifier registry, all threaded in explicitly (no package globals) so
// their lifecycle matches the host chain's state. Withdrawals are processed
// one at a time under a single writer lock, mirroring a single-writer
// ledger: registry and tree mutations must be linearizable to preserve the
// at-most-once mint invariant. Reads stay concurrent.
package node

import (
	"errors"
	"fmt"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/sha3"

	"github.com/kysee/wormhole/merkle"
	"github.com/kysee/wormhole/registry"
	"github.com/kysee/wormhole/types"
	"github.com/kysee/wormhole/verifier"
)

// HoldingAddress is the dedicated identity value is minted at before being
// forwarded to a claim's recipient.
var HoldingAddress = func() common.Address {
	hasher := sha3.NewLegacyKeccak256()
	hasher.Write([]byte("wormhole.holding.v1"))
	sum := hasher.Sum(nil)
	return common.BytesToAddress(sum[12:])
}()

// MintHook performs the actual value creation and transfer on the host
// ledger: mint amount at the holding identity, forward it to recipient.
// A hook error aborts the withdrawal before any engine state is touched.
type MintHook interface {
	Mint(holding, recipient common.Address, amount *uint256.Int) error
}

// MintFunc adapts a function to the MintHook interface.
type MintFunc func(holding, recipient common.Address, amount *uint256.Int) error

func (f MintFunc) Mint(holding, recipient common.Address, amount *uint256.Int) error {
	return f(holding, recipient, amount)
}

// Ledger is the state-transition engine: the canonical deposit log, the
// spent-nullifier registry, and the validator gluing them together.
type Ledger struct {
	cfg    Config
	logger zerolog.Logger

	mu       sync.Mutex
	tree     *merkle.Tree
	history  *RootHistory
	registry *registry.Registry
	vf       verifier.Verifier
	mint     MintHook
}

func NewLedger(cfg Config, vf verifier.Verifier, mint MintHook, logger zerolog.Logger) *Ledger {
	l := &Ledger{
		cfg:      cfg,
		logger:   logger.With().Str("module", "wormhole").Logger(),
		tree:     merkle.New(cfg.Depth),
		history:  NewRootHistory(),
		registry: registry.New(),
		vf:       vf,
		mint:     mint,
	}
	// the empty root is a valid historical root
	l.history.Record(l.tree.Root())
	return l
}

// ApplyDepositEvent indexes one qualifying host-ledger event as a leaf of
// the canonical tree and records the new root.
func (l *Ledger) ApplyDepositEvent(ev types.DepositEvent) (uint64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	idx, err := l.tree.Append(ev.Commitment())
	if err != nil {
		return 0, err
	}
	l.history.Record(l.tree.Root())

	l.logger.Debug().
		Uint64("topic", ev.Topic()).
		Uint64("index", idx).
		Hex("commitment", ev.Commitment().Bytes()).
		Msg("deposit indexed")
	return idx, nil
}

// ProcessWithdrawal validates a withdrawal claim against the current state
// and, if every check passes, applies the mint, the nullifier flip and the
// change-commitment append as one unit. Any rejection leaves registry and
// tree state untouched. Returns the minted amount and its recipient.
func (l *Ledger) ProcessWithdrawal(claim *types.WithdrawalClaim, proof []byte) (*uint256.Int, common.Address, error) {
	if claim == nil || claim.WithdrawValue == nil {
		return nil, common.Address{}, fmt.Errorf("%w: malformed claim", types.ErrProofInvalid)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	// 1. the proof stands in for every private-input relation: commitment
	// opening, both memberships, nullifier derivation, the anti-collision
	// gate, conservation and the change hash
	if err := l.vf.Verify(claim, proof); err != nil {
		return l.reject(claim, err)
	}

	// 2. replay / double-mint protection
	if l.registry.IsSpent(claim.Nullifier) {
		return l.reject(claim, types.ErrAlreadySpent)
	}

	// 3. the claimed root must be one this tree actually produced
	if !l.history.KnownRoot(claim.MainRoot) {
		return l.reject(claim, types.ErrUnknownHistoricalRoot)
	}

	// 4. public value bound; the private side of conservation was checked
	// inside the proof relation in step 1
	if claim.WithdrawValue.Gt(l.cfg.DepositCeiling) {
		return l.reject(claim, fmt.Errorf("%w: withdraw value %s exceeds ceiling %s",
			types.ErrConservationViolation, claim.WithdrawValue.Dec(), l.cfg.DepositCeiling.Dec()))
	}

	// the change append must not be able to fail after the mint
	if claim.HasChange() && l.tree.Size() >= l.tree.Capacity() {
		return l.reject(claim, merkle.ErrTreeFull)
	}

	// 5. apply. The mint hook is the only fallible effect, so it runs
	// first; MarkSpent and Append cannot fail after the checks above while
	// the writer lock is held.
	if err := l.mint.Mint(HoldingAddress, claim.Recipient, claim.WithdrawValue); err != nil {
		return l.reject(claim, fmt.Errorf("mint hook: %w", err))
	}
	if err := l.registry.MarkSpent(claim.Nullifier); err != nil {
		return l.reject(claim, err)
	}
	if claim.HasChange() {
		if _, err := l.tree.Append(claim.ChangeCommitment); err != nil {
			return l.reject(claim, err)
		}
		l.history.Record(l.tree.Root())
	}

	l.logger.Info().
		Hex("nullifier", claim.Nullifier.Bytes()).
		Str("value", claim.WithdrawValue.Dec()).
		Hex("recipient", claim.Recipient.Bytes()).
		Bool("change", claim.HasChange()).
		Msg("withdrawal accepted")
	return claim.WithdrawValue, claim.Recipient, nil
}

// ProcessWithdrawalTx unwraps the host tx envelope and processes its claim.
// Fee fields, call data and the access list are routing data and stay
// untouched here.
func (l *Ledger) ProcessWithdrawalTx(tx *types.WithdrawalTx) (*uint256.Int, common.Address, error) {
	if tx == nil || tx.Claim == nil {
		return nil, common.Address{}, fmt.Errorf("%w: empty withdrawal tx", types.ErrProofInvalid)
	}
	return l.ProcessWithdrawal(tx.Claim, tx.Proof)
}

func (l *Ledger) reject(claim *types.WithdrawalClaim, err error) (*uint256.Int, common.Address, error) {
	// AlreadySpent must stay tellable apart from ProofInvalid here even
	// though the on-chain effect is the same: one is an attempted replay,
	// the other a bad proof.
	l.logger.Warn().
		Str("reason", rejectReason(err)).
		Hex("nullifier", claim.Nullifier.Bytes()).
		Hex("main_root", claim.MainRoot.Bytes()).
		Err(err).
		Msg("withdrawal rejected")
	return nil, common.Address{}, err
}

func rejectReason(err error) string {
	switch {
	case errors.Is(err, types.ErrAlreadySpent):
		return "already_spent"
	case errors.Is(err, types.ErrUnknownHistoricalRoot):
		return "unknown_root"
	case errors.Is(err, types.ErrConservationViolation):
		return "conservation_violation"
	case errors.Is(err, types.ErrMalformedBranch):
		return "malformed_branch"
	case errors.Is(err, types.ErrProofInvalid):
		return "proof_invalid"
	default:
		return "internal"
	}
}
