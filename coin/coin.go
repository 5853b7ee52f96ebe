package coin

import (
	"fmt"
	"math"

	trustee "github.com/iov-one/trustee"
	"github.com/iov-one/trustee/errors"
)

// AssetKind enumerates the kinds of value the engine can hold. Amounts are
// always integers in the smallest unit of the asset.
type AssetKind uint8

const (
	// Native is the built-in coin of the host ledger.
	Native AssetKind = 1
	// Fungible is a token identified by its issuing contract/mint address.
	Fungible AssetKind = 2
)

// Asset is a tagged descriptor of what is being held. For a Fungible asset
// the Token field carries the token identifier, for Native it must be empty.
type Asset struct {
	Kind  AssetKind
	Token trustee.Address
}

// NativeAsset returns the descriptor of the host ledger built-in coin.
func NativeAsset() Asset {
	return Asset{Kind: Native}
}

// TokenAsset returns the descriptor of a fungible token.
func TokenAsset(token trustee.Address) Asset {
	return Asset{Kind: Fungible, Token: token}
}

// IsNative returns true for the host ledger built-in coin.
func (a Asset) IsNative() bool {
	return a.Kind == Native
}

// Equals checks if two descriptors reference the same asset.
func (a Asset) Equals(o Asset) bool {
	return a.Kind == o.Kind && a.Token.Equals(o.Token)
}

// Validate returns an error if the descriptor is malformed.
func (a Asset) Validate() error {
	switch a.Kind {
	case Native:
		if len(a.Token) != 0 {
			return errors.Wrap(errors.ErrInput, "native asset cannot carry a token id")
		}
	case Fungible:
		if err := a.Token.Validate(); err != nil {
			return errors.Wrap(err, "token")
		}
	default:
		return errors.Wrapf(errors.ErrInput, "unknown asset kind %d", a.Kind)
	}
	return nil
}

func (a Asset) String() string {
	if a.IsNative() {
		return "native"
	}
	return fmt.Sprintf("token:%s", a.Token)
}

// Add returns a+b or an overflow error. Amounts are unsigned, so there is no
// underflow case here.
func Add(a, b uint64) (uint64, error) {
	if a > math.MaxUint64-b {
		return 0, errors.Wrapf(errors.ErrOverflow, "%d + %d", a, b)
	}
	return a + b, nil
}

// Sub returns a-b or an error if the result would be negative.
func Sub(a, b uint64) (uint64, error) {
	if b > a {
		return 0, errors.Wrapf(errors.ErrAmount, "cannot subtract %d from %d", b, a)
	}
	return a - b, nil
}

// Sum adds up all given amounts, failing on overflow.
func Sum(amounts ...uint64) (uint64, error) {
	var total uint64
	for _, a := range amounts {
		var err error
		if total, err = Add(total, a); err != nil {
			return 0, err
		}
	}
	return total, nil
}
