package escrow

import (
	"sync"

	"github.com/google/uuid"
	trustee "github.com/iov-one/trustee"
	"github.com/iov-one/trustee/coin"
	"github.com/iov-one/trustee/errors"
	"github.com/iov-one/trustee/orm"
	"github.com/iov-one/trustee/x/ledger"
	"github.com/sirupsen/logrus"
)

// DefaultMaxRecipients caps the payout fan-out of a single release. The cap
// bounds per-release work, it is not a correctness limit.
const DefaultMaxRecipients = 4

// Receipt documents a completed release.
type Receipt struct {
	ID         string
	Key        Key
	Asset      coin.Asset
	Payouts    []Payout
	ReleasedAt trustee.UnixTime
}

// Option configures the engine.
type Option func(*Engine)

// WithMaxRecipients overrides the payout fan-out cap.
func WithMaxRecipients(n int) Option {
	return func(e *Engine) {
		e.maxRecipients = n
	}
}

// WithLogger replaces the default logger.
func WithLogger(l logrus.FieldLogger) Option {
	return func(e *Engine) {
		e.logger = l
	}
}

// Engine drives the escrow lifecycle: Open locks funds in a holding
// account, Release verifies a signature quorum and pays out, Get looks up a
// record. Mutating operations serialize on one store-level lock: escrows on
// distinct keys still share wallet state (several escrows draw on the same
// buyer), so the read-validate-write span must never interleave. A failed
// call leaves both the record and all balances untouched.
type Engine struct {
	bucket        orm.ModelBucket
	ledger        ledger.Controller
	logger        logrus.FieldLogger
	maxRecipients int
	mu            sync.RWMutex
}

// NewEngine returns an escrow engine paying out through the given ledger.
func NewEngine(ctrl ledger.Controller, opts ...Option) *Engine {
	e := &Engine{
		bucket:        NewBucket(),
		ledger:        ctrl,
		logger:        logrus.StandardLogger(),
		maxRecipients: DefaultMaxRecipients,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Open creates a new escrow record and moves the amount from the buyer into
// the holding account, both or neither. It fails with ErrDuplicate when a
// record already exists under the derived key and with
// ledger.ErrInsufficientFunds when the buyer cannot fund the amount.
func (e *Engine) Open(ctx trustee.Context, db trustee.CacheableKVStore, msg *CreateMsg) (Key, error) {
	if err := msg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid create")
	}

	var unlock trustee.UnixTime
	if msg.UnlockDelay > 0 {
		now, err := trustee.BlockTime(ctx)
		if err != nil {
			return nil, err
		}
		unlock = trustee.AsUnixTime(now).Add(msg.UnlockDelay)
	}

	key := NewKey(msg.Asset, msg.Buyer, msg.Seller, msg.Moderator, msg.UniqueID)
	e.mu.Lock()
	defer e.mu.Unlock()

	cache := db.CacheWrap()
	defer cache.Discard()

	if e.bucket.Has(cache, key) {
		return nil, errors.Wrapf(errors.ErrDuplicate, "escrow %s", key)
	}

	esc := &Escrow{
		Buyer:              msg.Buyer,
		Seller:             msg.Seller,
		Moderator:          msg.Moderator,
		UniqueID:           msg.UniqueID,
		RequiredSignatures: msg.RequiredSignatures,
		UnlockTime:         unlock,
		Asset:              msg.Asset,
		Amount:             msg.Amount,
		Address:            HoldingAddress(msg.Asset, key),
	}

	// Fund the holding account with Debit+Credit rather than Move: the
	// holding account never exists before open, so a strict-accounts
	// ledger must not get a say here.
	if err := e.ledger.Debit(cache, msg.Buyer, msg.Asset, msg.Amount); err != nil {
		return nil, errors.Wrap(err, "fund escrow")
	}
	if err := e.ledger.Credit(cache, esc.Address, msg.Asset, msg.Amount); err != nil {
		return nil, errors.Wrap(err, "fund escrow")
	}

	if err := e.bucket.Put(cache, key, esc); err != nil {
		return nil, errors.Wrap(err, "store escrow")
	}
	if err := cache.Write(); err != nil {
		return nil, errors.Wrap(err, "commit")
	}

	e.logger.WithFields(logrus.Fields{
		"key":    key.String(),
		"asset":  msg.Asset.String(),
		"amount": msg.Amount,
		"quorum": msg.RequiredSignatures,
		"unlock": unlock,
	}).Info("escrow opened")

	return key, nil
}

// Get returns the escrow stored under the key, or ErrNotFound. Absence is a
// normal outcome the caller is expected to handle.
func (e *Engine) Get(db trustee.ReadOnlyKVStore, key Key) (*Escrow, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	var esc Escrow
	if err := e.bucket.One(db, key, &esc); err != nil {
		return nil, err
	}
	return &esc, nil
}

// Release pays out the full escrowed amount to the given recipients and
// deletes the record, provided the signatures satisfy the quorum rule.
//
// Before the unlock time the signatures must cover the configured quorum of
// distinct authorized signers, buyer included. From the unlock time on a
// single seller signature suffices. The payout amounts must sum to exactly
// the escrowed amount.
//
// The call is all-or-nothing: on any failure the record and every balance
// stay exactly as they were, so the caller may retry with more signatures.
// Two racing calls on the same key are serialized and the loser observes
// ErrNotFound.
func (e *Engine) Release(ctx trustee.Context, db trustee.CacheableKVStore, key Key, payouts []Payout, signatures []Signature) (*Receipt, error) {
	// A missing clock is a host wiring failure. Surface it before touching
	// anything, even for escrows that never consult the unlock time.
	now, err := trustee.BlockTime(ctx)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	var esc Escrow
	if err := e.bucket.One(db, key, &esc); err != nil {
		return nil, err
	}

	if err := e.validatePayouts(&esc, payouts); err != nil {
		return nil, err
	}
	if err := e.checkQuorum(ctx, &esc, payouts, signatures); err != nil {
		return nil, err
	}

	cache := db.CacheWrap()
	defer cache.Discard()

	for i, p := range payouts {
		err := e.ledger.Move(cache, esc.Address, p.Recipient, esc.Asset, p.Amount)
		switch {
		case err == nil:
		case ledger.ErrMissingAccount.Is(err):
			return nil, errors.Wrapf(err, "payout %d", i)
		default:
			return nil, errors.Wrapf(ErrTransferFailed, "payout %d to %s: %s", i, p.Recipient, err)
		}
	}

	// The exact-sum check above means the holding account is drained at
	// this point. Should it ever carry anything extra, that belongs to
	// the buyer, not to whoever releases.
	if rest, err := e.ledger.Balance(cache, esc.Address, esc.Asset); err != nil {
		return nil, err
	} else if rest > 0 {
		if err := e.ledger.Move(cache, esc.Address, esc.Buyer, esc.Asset, rest); err != nil {
			return nil, errors.Wrapf(ErrTransferFailed, "refund residual: %s", err)
		}
	}

	if err := e.ledger.CloseAccount(cache, esc.Address); err != nil {
		return nil, errors.Wrap(err, "close holding account")
	}
	if err := e.bucket.Delete(cache, key); err != nil {
		return nil, errors.Wrap(err, "delete escrow")
	}
	if err := cache.Write(); err != nil {
		return nil, errors.Wrap(err, "commit")
	}

	receipt := &Receipt{
		ID:         uuid.NewString(),
		Key:        key,
		Asset:      esc.Asset,
		Payouts:    payouts,
		ReleasedAt: trustee.AsUnixTime(now),
	}

	e.logger.WithFields(logrus.Fields{
		"receipt": receipt.ID,
		"key":     key.String(),
		"asset":   esc.Asset.String(),
		"amount":  esc.Amount,
		"payouts": len(payouts),
	}).Info("escrow released")

	return receipt, nil
}

func (e *Engine) validatePayouts(esc *Escrow, payouts []Payout) error {
	if len(payouts) == 0 {
		return errors.Wrap(errors.ErrEmpty, "no payouts")
	}
	if len(payouts) > e.maxRecipients {
		return errors.Wrapf(errors.ErrInput, "%d payouts exceed the maximum of %d", len(payouts), e.maxRecipients)
	}
	amounts := make([]uint64, len(payouts))
	for i, p := range payouts {
		if err := p.Validate(); err != nil {
			return errors.Wrapf(err, "payout %d", i)
		}
		// paying the holding account to itself must never count as a
		// disbursement
		if p.Recipient.Equals(esc.Address) {
			return errors.Wrapf(errors.ErrInput, "payout %d recipient is the holding account", i)
		}
		amounts[i] = p.Amount
	}
	total, err := coin.Sum(amounts...)
	if err != nil {
		return err
	}
	if total != esc.Amount {
		return errors.Wrapf(errors.ErrAmount, "payouts sum to %d, escrow holds %d", total, esc.Amount)
	}
	return nil
}

// checkQuorum verifies every signature over the canonical payout message
// and checks the resulting signer set against the release rule in effect.
func (e *Engine) checkQuorum(ctx trustee.Context, esc *Escrow, payouts []Payout, signatures []Signature) error {
	if len(signatures) == 0 {
		return errors.Wrap(ErrInsufficientSignatures, "no signatures")
	}

	msg, err := ReleasePayload(esc.UniqueID, payouts)
	if err != nil {
		return err
	}

	// Every presented signature must verify and must belong to a party of
	// this escrow. Duplicates are fine, they just never count twice.
	signed := make(map[string]bool, len(signatures))
	for i, sig := range signatures {
		if err := sig.Validate(); err != nil {
			return errors.Wrapf(ErrInvalidSignature, "signature %d: %s", i, err)
		}
		if !sig.Pubkey.Verify(msg, sig.Signature) {
			return errors.Wrapf(ErrInvalidSignature, "signature %d does not verify", i)
		}
		addr := sig.Pubkey.Address()
		if !e.authorized(esc, addr) {
			return errors.Wrapf(ErrUnauthorizedSigner, "signature %d by %s", i, addr)
		}
		signed[string(addr)] = true
	}

	// A zero unlock time means the seller fallback was never armed.
	if !esc.UnlockTime.IsZero() && trustee.IsExpired(ctx, esc.UnlockTime) {
		if !signed[string(esc.Seller)] {
			return errors.Wrap(ErrInsufficientSignatures, "seller signature required after unlock")
		}
		return nil
	}

	if n := uint32(len(signed)); n < esc.RequiredSignatures {
		return errors.Wrapf(ErrInsufficientSignatures, "have %d of %d", n, esc.RequiredSignatures)
	}
	if !signed[string(esc.Buyer)] {
		return errors.Wrap(ErrInsufficientSignatures, "buyer signature required before unlock")
	}
	return nil
}

func (e *Engine) authorized(esc *Escrow, addr trustee.Address) bool {
	for _, s := range esc.signers() {
		if s.Equals(addr) {
			return true
		}
	}
	return false
}
