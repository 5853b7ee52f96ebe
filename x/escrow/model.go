package escrow

import (
	trustee "github.com/iov-one/trustee"
	"github.com/iov-one/trustee/coin"
	"github.com/iov-one/trustee/errors"
	"github.com/iov-one/trustee/orm"
	"github.com/tendermint/go-amino"
)

// BucketName is where the escrow records live.
const BucketName = "escrows"

var cdc = amino.NewCodec()

// Escrow is one open escrow record. Once written it is immutable: a release
// either deletes it whole or leaves it untouched.
type Escrow struct {
	Buyer  trustee.Address
	Seller trustee.Address
	// Moderator is nil when the escrow has no third party.
	Moderator trustee.Address
	UniqueID  []byte
	// RequiredSignatures is the quorum needed before the unlock time.
	RequiredSignatures uint32
	// UnlockTime is when the seller-only release path opens up. Zero means
	// the escrow never unlocks and the quorum rule applies forever.
	UnlockTime trustee.UnixTime
	Asset      coin.Asset
	Amount     uint64
	// Address is the holding account carrying the escrowed funds.
	Address trustee.Address
}

var _ orm.Model = (*Escrow)(nil)

func (e *Escrow) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(e)
}

func (e *Escrow) Unmarshal(raw []byte) error {
	return cdc.UnmarshalBinaryBare(raw, e)
}

// Validate ensures the escrow is valid
func (e *Escrow) Validate() error {
	if err := e.Buyer.Validate(); err != nil {
		return errors.Wrap(err, "buyer")
	}
	if err := e.Seller.Validate(); err != nil {
		return errors.Wrap(err, "seller")
	}
	if e.Moderator != nil {
		if err := e.Moderator.Validate(); err != nil {
			return errors.Wrap(err, "moderator")
		}
	}
	if err := validateUniqueID(e.UniqueID); err != nil {
		return err
	}
	if e.RequiredSignatures < 1 {
		return errors.Wrap(errors.ErrInput, "at least one signature must be required")
	}
	if n := uint32(len(e.signers())); e.RequiredSignatures > n {
		return errors.Wrapf(errors.ErrInput, "cannot require %d signatures from %d signers", e.RequiredSignatures, n)
	}
	if e.UnlockTime != 0 {
		if err := e.UnlockTime.Validate(); err != nil {
			return errors.Wrap(err, "unlock time")
		}
	}
	if err := e.Asset.Validate(); err != nil {
		return errors.Wrap(err, "asset")
	}
	if e.Amount == 0 {
		return errors.Wrap(errors.ErrAmount, "empty escrow")
	}
	if err := e.Address.Validate(); err != nil {
		return errors.Wrap(err, "address")
	}
	return nil
}

// Key derives the lookup key of this record.
func (e *Escrow) Key() Key {
	return NewKey(e.Asset, e.Buyer, e.Seller, e.Moderator, e.UniqueID)
}

// signers returns the parties whose signatures may count toward the quorum.
func (e *Escrow) signers() []trustee.Address {
	s := []trustee.Address{e.Buyer, e.Seller}
	if e.Moderator != nil {
		s = append(s, e.Moderator)
	}
	return s
}

// NewBucket returns the bucket holding all escrow records.
func NewBucket() orm.ModelBucket {
	return orm.NewModelBucket(BucketName, &Escrow{})
}
