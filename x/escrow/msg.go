package escrow

import (
	"time"

	trustee "github.com/iov-one/trustee"
	"github.com/iov-one/trustee/coin"
	"github.com/iov-one/trustee/crypto"
	"github.com/iov-one/trustee/errors"
)

// CreateMsg describes a new escrow to open.
type CreateMsg struct {
	Buyer  trustee.Address
	Seller trustee.Address
	// Moderator is optional; leave nil for a two-party escrow.
	Moderator trustee.Address
	// UniqueID disambiguates multiple escrows between the same parties.
	UniqueID []byte
	// RequiredSignatures is the quorum needed to release before the
	// unlock time.
	RequiredSignatures uint32
	// UnlockDelay is how long after opening the seller-only release path
	// becomes available. Zero disables the seller fallback entirely.
	UnlockDelay time.Duration
	Asset       coin.Asset
	Amount      uint64
}

// Validate makes sure that this is sensible
func (m *CreateMsg) Validate() error {
	if err := m.Buyer.Validate(); err != nil {
		return errors.Wrap(err, "buyer")
	}
	if err := m.Seller.Validate(); err != nil {
		return errors.Wrap(err, "seller")
	}
	if m.Moderator != nil {
		if err := m.Moderator.Validate(); err != nil {
			return errors.Wrap(err, "moderator")
		}
	}
	if err := validateUniqueID(m.UniqueID); err != nil {
		return err
	}
	if m.RequiredSignatures < 1 {
		return errors.Wrap(errors.ErrInput, "at least one signature must be required")
	}
	maxSigners := uint32(2)
	if m.Moderator != nil {
		maxSigners = 3
	}
	if m.RequiredSignatures > maxSigners {
		return errors.Wrapf(errors.ErrInput, "cannot require %d signatures from %d signers", m.RequiredSignatures, maxSigners)
	}
	if m.UnlockDelay < 0 {
		return errors.Wrap(errors.ErrInput, "negative unlock delay")
	}
	if err := m.Asset.Validate(); err != nil {
		return errors.Wrap(err, "asset")
	}
	if m.Amount == 0 {
		return errors.Wrap(errors.ErrAmount, "amount must be positive")
	}
	return nil
}

// Payout is one (recipient, amount) leg of a release.
type Payout struct {
	Recipient trustee.Address
	Amount    uint64
}

// Validate makes sure that this is sensible
func (p Payout) Validate() error {
	if err := p.Recipient.Validate(); err != nil {
		return errors.Wrap(err, "recipient")
	}
	if p.Amount == 0 {
		return errors.Wrap(errors.ErrAmount, "zero payout")
	}
	return nil
}

// Signature is a detached ed25519 signature together with the public key
// that produced it. The signed message is the canonical payout message, see
// ReleasePayload.
type Signature struct {
	Pubkey    *crypto.PublicKey
	Signature *crypto.Signature
}

// Validate makes sure that this is sensible
func (s Signature) Validate() error {
	if err := s.Pubkey.Validate(); err != nil {
		return err
	}
	if s.Signature == nil || len(s.Signature.Ed25519) == 0 {
		return errors.Wrap(errors.ErrEmpty, "signature")
	}
	return nil
}
