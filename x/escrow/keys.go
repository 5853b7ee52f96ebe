package escrow

import (
	trustee "github.com/iov-one/trustee"
	"github.com/iov-one/trustee/coin"
	"github.com/iov-one/trustee/errors"
)

// UniqueIDLength is the width of the caller supplied nonce that
// disambiguates escrows between the same parties.
const UniqueIDLength = 20

// Key identifies an escrow record. It is an address derived from the escrow
// parties, the asset kind and the unique id, so the same parties can run
// many escrows side by side and a native escrow can never collide with a
// token escrow.
type Key = trustee.Address

const extensionName = "escrow"

// Condition binds the full identity of an escrow into a condition. The data
// section is buyer || seller || moderator-marker || unique_id where the
// moderator marker is a single 0x00 byte when no moderator is set and
// 0x01 || moderator when one is. The marker byte keeps an absent moderator
// distinguishable from any real account identifier.
func Condition(asset coin.Asset, buyer, seller, moderator trustee.Address, uniqueID []byte) trustee.Condition {
	data := make([]byte, 0, 2*trustee.AddressLength+1+trustee.AddressLength+UniqueIDLength)
	data = append(data, buyer...)
	data = append(data, seller...)
	if moderator == nil {
		data = append(data, 0x00)
	} else {
		data = append(data, 0x01)
		data = append(data, moderator...)
	}
	data = append(data, uniqueID...)
	return trustee.NewCondition(extensionName, assetNamespace(asset), data)
}

// NewKey derives the lookup key of an escrow record.
func NewKey(asset coin.Asset, buyer, seller, moderator trustee.Address, uniqueID []byte) Key {
	return Condition(asset, buyer, seller, moderator, uniqueID).Address()
}

// HoldingCondition derives the account that holds the escrowed funds while
// the record is open. The asset kind byte keeps the token sub-account of a
// token escrow distinct from a native holding account with the same key.
func HoldingCondition(asset coin.Asset, key Key) trustee.Condition {
	data := append([]byte{byte(asset.Kind)}, key...)
	return trustee.NewCondition(extensionName, "hold", data)
}

// HoldingAddress is a shortcut for HoldingCondition(asset, key).Address().
func HoldingAddress(asset coin.Asset, key Key) trustee.Address {
	return HoldingCondition(asset, key).Address()
}

func assetNamespace(asset coin.Asset) string {
	if asset.IsNative() {
		return "native"
	}
	return "token"
}

func validateUniqueID(uniqueID []byte) error {
	if len(uniqueID) != UniqueIDLength {
		return errors.Wrapf(errors.ErrInput, "unique id must be %d bytes, got %d", UniqueIDLength, len(uniqueID))
	}
	return nil
}
