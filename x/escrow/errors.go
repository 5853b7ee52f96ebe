package escrow

import (
	"github.com/iov-one/trustee/errors"
)

// escrow extension takes error codes 1010-1020
var (
	// ErrInsufficientSignatures is returned when a release does not carry
	// enough valid signatures from distinct authorized signers.
	ErrInsufficientSignatures = errors.Register(1010, "insufficient signatures")

	// ErrInvalidSignature is returned when a signature is malformed or
	// does not verify against its public key.
	ErrInvalidSignature = errors.Register(1011, "invalid signature")

	// ErrUnauthorizedSigner is returned when a signature verifies but the
	// signer is not a party of the escrow.
	ErrUnauthorizedSigner = errors.Register(1012, "unauthorized signer")

	// ErrTransferFailed is returned when the ledger rejected a payout.
	ErrTransferFailed = errors.Register(1013, "asset transfer failed")
)
