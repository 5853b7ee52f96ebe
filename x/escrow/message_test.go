package escrow

import (
	"bytes"
	"encoding/binary"
	"testing"

	trustee "github.com/iov-one/trustee"
	"github.com/iov-one/trustee/errors"
	"github.com/iov-one/trustee/trusteetest"
	"github.com/iov-one/trustee/trusteetest/assert"
)

func TestReleasePayload(t *testing.T) {
	uniqueID := bytes.Repeat([]byte{7}, UniqueIDLength)

	recipients := make([]trustee.Address, 4)
	for i := range recipients {
		recipients[i] = trusteetest.NewAddress()
	}

	for n := 1; n <= len(recipients); n++ {
		payouts := make([]Payout, n)
		for i := range payouts {
			payouts[i] = Payout{Recipient: recipients[i], Amount: uint64(i+1) * 1000}
		}

		msg, err := ReleasePayload(uniqueID, payouts)
		assert.Nil(t, err)

		wantLen := UniqueIDLength + n*(trustee.AddressLength+8)
		assert.Equal(t, wantLen, len(msg))
		assert.Equal(t, uniqueID, msg[:UniqueIDLength])

		for i, p := range payouts {
			off := UniqueIDLength + i*(trustee.AddressLength+8)
			assert.Equal(t, []byte(p.Recipient), msg[off:off+trustee.AddressLength])
			assert.Equal(t, p.Amount, binary.LittleEndian.Uint64(msg[off+trustee.AddressLength:off+trustee.AddressLength+8]))
		}

		// identical inputs must produce identical bytes
		again, err := ReleasePayload(uniqueID, payouts)
		assert.Nil(t, err)
		assert.Equal(t, msg, again)
	}
}

func TestReleasePayloadOrderMatters(t *testing.T) {
	uniqueID := bytes.Repeat([]byte{1}, UniqueIDLength)
	a := Payout{Recipient: trusteetest.NewAddress(), Amount: 700000}
	b := Payout{Recipient: trusteetest.NewAddress(), Amount: 300000}

	ab, err := ReleasePayload(uniqueID, []Payout{a, b})
	assert.Nil(t, err)
	ba, err := ReleasePayload(uniqueID, []Payout{b, a})
	assert.Nil(t, err)

	if bytes.Equal(ab, ba) {
		t.Fatal("reordered payouts must change the message")
	}
}

func TestReleasePayloadRejectsBadInput(t *testing.T) {
	good := Payout{Recipient: trusteetest.NewAddress(), Amount: 1}

	_, err := ReleasePayload(make([]byte, UniqueIDLength-1), []Payout{good})
	assert.IsErr(t, errors.ErrInput, err)

	_, err = ReleasePayload(make([]byte, UniqueIDLength), nil)
	assert.IsErr(t, errors.ErrEmpty, err)

	short := Payout{Recipient: []byte{1, 2, 3}, Amount: 1}
	_, err = ReleasePayload(make([]byte, UniqueIDLength), []Payout{short})
	assert.IsErr(t, errors.ErrInput, err)
}
