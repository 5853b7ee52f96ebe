package ledger

import (
	trustee "github.com/iov-one/trustee"
	"github.com/iov-one/trustee/coin"
	"github.com/iov-one/trustee/errors"
	"github.com/iov-one/trustee/orm"
)

var (
	// ErrInsufficientFunds is returned when a debit exceeds the balance.
	ErrInsufficientFunds = errors.Register(1030, "insufficient funds")

	// ErrMissingAccount is returned when a fungible token transfer targets
	// an address without a balance slot for that token and the controller
	// policy forbids creating one on the fly.
	ErrMissingAccount = errors.Register(1031, "recipient account missing")
)

// CoinMover is the transfer capability the escrow engine consumes.
type CoinMover interface {
	// Move transfers the given amount of one asset between two wallets.
	// It either fully succeeds or has no effect.
	Move(db trustee.KVStore, src, dest trustee.Address, asset coin.Asset, amount uint64) error
}

// Controller is the full ledger surface: transfers plus issuance and
// balance queries.
type Controller interface {
	CoinMover

	// Credit adds funds to an address, creating the wallet if needed.
	Credit(db trustee.KVStore, dest trustee.Address, asset coin.Asset, amount uint64) error

	// Debit removes funds from an address, deleting the wallet when it
	// becomes empty.
	Debit(db trustee.KVStore, src trustee.Address, asset coin.Asset, amount uint64) error

	// Balance returns the amount of the given asset held by an address.
	// An address without a wallet holds zero of everything.
	Balance(db trustee.ReadOnlyKVStore, addr trustee.Address, asset coin.Asset) (uint64, error)

	// CloseAccount removes an empty wallet record, releasing its storage.
	// Closing a wallet that still holds funds is an error.
	CloseAccount(db trustee.KVStore, addr trustee.Address) error
}

// Option configures the controller.
type Option func(*BaseController)

// WithStrictAccounts makes fungible token transfers fail with
// ErrMissingAccount when the recipient has no balance slot for that token,
// instead of creating one transparently.
func WithStrictAccounts() Option {
	return func(c *BaseController) {
		c.autoCreate = false
	}
}

// BaseController implements the ledger. By default recipient wallets are
// created transparently on first credit.
type BaseController struct {
	bucket     orm.ModelBucket
	autoCreate bool
}

var _ Controller = (*BaseController)(nil)

// NewController returns a ledger controller with all options applied.
func NewController(opts ...Option) *BaseController {
	c := &BaseController{
		bucket:     NewBucket(),
		autoCreate: true,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Move transfers the given amount from src to dest.
// If src doesn't exist, or doesn't have sufficient coins, it fails.
func (c *BaseController) Move(db trustee.KVStore, src, dest trustee.Address, asset coin.Asset, amount uint64) error {
	if amount == 0 {
		return errors.Wrap(errors.ErrAmount, "zero transfer")
	}
	// src and dest load as two independent wallet structs, so a transfer
	// onto itself would double the balance on save
	if src.Equals(dest) {
		return errors.Wrap(errors.ErrInput, "transfer to self")
	}
	if err := asset.Validate(); err != nil {
		return errors.Wrap(err, "asset")
	}

	sender, err := c.wallet(db, src)
	if err != nil {
		return err
	}
	if sender == nil || sender.Amount(asset) < amount {
		return errors.Wrapf(ErrInsufficientFunds, "%s has %d, needs %d", src, walletAmount(sender, asset), amount)
	}

	recipient, err := c.wallet(db, dest)
	if err != nil {
		return err
	}
	if recipient == nil {
		if !asset.IsNative() && !c.autoCreate {
			return errors.Wrapf(ErrMissingAccount, "no %s account for %s", asset, dest)
		}
		recipient = &Wallet{}
	}

	// all checks done, mutate both wallets
	if err := sender.Subtract(asset, amount); err != nil {
		return err
	}
	if err := recipient.Add(asset, amount); err != nil {
		return err
	}

	if err := c.save(db, src, sender); err != nil {
		return err
	}
	return c.save(db, dest, recipient)
}

// Credit attempts to add the given amount of the asset to
// the destination address. Fails if it overflows the wallet.
func (c *BaseController) Credit(db trustee.KVStore, dest trustee.Address, asset coin.Asset, amount uint64) error {
	if amount == 0 {
		return errors.Wrap(errors.ErrAmount, "zero credit")
	}
	recipient, err := c.wallet(db, dest)
	if err != nil {
		return err
	}
	if recipient == nil {
		recipient = &Wallet{}
	}
	if err := recipient.Add(asset, amount); err != nil {
		return err
	}
	return c.save(db, dest, recipient)
}

// Debit removes the given amount from the source address.
func (c *BaseController) Debit(db trustee.KVStore, src trustee.Address, asset coin.Asset, amount uint64) error {
	if amount == 0 {
		return errors.Wrap(errors.ErrAmount, "zero debit")
	}
	sender, err := c.wallet(db, src)
	if err != nil {
		return err
	}
	if sender == nil || sender.Amount(asset) < amount {
		return errors.Wrapf(ErrInsufficientFunds, "%s has %d, needs %d", src, walletAmount(sender, asset), amount)
	}
	if err := sender.Subtract(asset, amount); err != nil {
		return err
	}
	return c.save(db, src, sender)
}

// Balance returns the amount of the given asset held by an address.
func (c *BaseController) Balance(db trustee.ReadOnlyKVStore, addr trustee.Address, asset coin.Asset) (uint64, error) {
	wallet, err := c.wallet(db, addr)
	if err != nil {
		return 0, err
	}
	if wallet == nil {
		return 0, nil
	}
	return wallet.Amount(asset), nil
}

// CloseAccount removes an empty wallet record.
func (c *BaseController) CloseAccount(db trustee.KVStore, addr trustee.Address) error {
	wallet, err := c.wallet(db, addr)
	if err != nil {
		return err
	}
	if wallet == nil {
		// already gone, closing is idempotent
		return nil
	}
	if !wallet.IsEmpty() {
		return errors.Wrap(errors.ErrState, "cannot close a funded account")
	}
	return c.bucket.Delete(db, walletKey(addr))
}

// wallet loads the wallet of an address, nil if there is none.
func (c *BaseController) wallet(db trustee.ReadOnlyKVStore, addr trustee.Address) (*Wallet, error) {
	var w Wallet
	switch err := c.bucket.One(db, walletKey(addr), &w); {
	case err == nil:
		return &w, nil
	case errors.ErrNotFound.Is(err):
		return nil, nil
	default:
		return nil, err
	}
}

// save stores the wallet, deleting the record instead when it is empty so
// that drained wallets do not accumulate.
func (c *BaseController) save(db trustee.KVStore, addr trustee.Address, w *Wallet) error {
	if w.IsEmpty() {
		if c.bucket.Has(db, walletKey(addr)) {
			return c.bucket.Delete(db, walletKey(addr))
		}
		return nil
	}
	return c.bucket.Put(db, walletKey(addr), w)
}

func walletAmount(w *Wallet, asset coin.Asset) uint64 {
	if w == nil {
		return 0
	}
	return w.Amount(asset)
}
