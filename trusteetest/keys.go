// Package trusteetest provides helpers for building test fixtures: fresh
// ed25519 keys, conditions and addresses.
package trusteetest

import (
	trustee "github.com/iov-one/trustee"
	"github.com/iov-one/trustee/crypto"
)

func NewKey() crypto.Signer {
	return crypto.GenPrivKeyEd25519()
}

func NewCondition() trustee.Condition {
	return NewKey().PublicKey().Condition()
}

func NewAddress() trustee.Address {
	return NewCondition().Address()
}
