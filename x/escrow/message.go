package escrow

import (
	"encoding/binary"

	trustee "github.com/iov-one/trustee"
	"github.com/iov-one/trustee/errors"
)

// ReleasePayload builds the canonical byte message that every authorizing
// party must sign to release an escrow:
//
//	unique_id || recipient_1 || amount_1 || recipient_2 || amount_2 || ...
//
// Recipients are fixed-width addresses, amounts 8 byte little-endian. The
// payout order is significant: reordering the payouts changes the message.
// The raw message is what gets signed, there is no intermediate hash.
func ReleasePayload(uniqueID []byte, payouts []Payout) ([]byte, error) {
	if err := validateUniqueID(uniqueID); err != nil {
		return nil, err
	}
	if len(payouts) == 0 {
		return nil, errors.Wrap(errors.ErrEmpty, "no payouts")
	}
	msg := make([]byte, 0, UniqueIDLength+len(payouts)*(trustee.AddressLength+8))
	msg = append(msg, uniqueID...)
	for i, p := range payouts {
		if err := p.Recipient.Validate(); err != nil {
			return nil, errors.Wrapf(err, "payout %d recipient", i)
		}
		var amount [8]byte
		binary.LittleEndian.PutUint64(amount[:], p.Amount)
		msg = append(msg, p.Recipient...)
		msg = append(msg, amount[:]...)
	}
	return msg, nil
}
