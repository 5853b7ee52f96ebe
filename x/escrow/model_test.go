package escrow

import (
	"bytes"
	"testing"
	"time"

	trustee "github.com/iov-one/trustee"
	"github.com/iov-one/trustee/coin"
	"github.com/iov-one/trustee/errors"
	"github.com/iov-one/trustee/trusteetest"
	"github.com/iov-one/trustee/trusteetest/assert"
)

func validEscrow() *Escrow {
	buyer := trusteetest.NewAddress()
	seller := trusteetest.NewAddress()
	uniqueID := bytes.Repeat([]byte{3}, UniqueIDLength)
	key := NewKey(coin.NativeAsset(), buyer, seller, nil, uniqueID)
	return &Escrow{
		Buyer:              buyer,
		Seller:             seller,
		UniqueID:           uniqueID,
		RequiredSignatures: 2,
		UnlockTime:         trustee.AsUnixTime(time.Unix(1700000000, 0)),
		Asset:              coin.NativeAsset(),
		Amount:             1000,
		Address:            HoldingAddress(coin.NativeAsset(), key),
	}
}

func TestEscrowValidate(t *testing.T) {
	cases := map[string]struct {
		mod     func(*Escrow)
		wantErr *errors.Error
	}{
		"valid":               {mod: func(e *Escrow) {}, wantErr: nil},
		"zero unlock is fine": {mod: func(e *Escrow) { e.UnlockTime = 0 }, wantErr: nil},
		"with moderator": {
			mod:     func(e *Escrow) { e.Moderator = trusteetest.NewAddress(); e.RequiredSignatures = 3 },
			wantErr: nil,
		},
		"missing buyer":  {mod: func(e *Escrow) { e.Buyer = nil }, wantErr: errors.ErrInput},
		"short seller":   {mod: func(e *Escrow) { e.Seller = e.Seller[:4] }, wantErr: errors.ErrInput},
		"bad unique id":  {mod: func(e *Escrow) { e.UniqueID = e.UniqueID[:5] }, wantErr: errors.ErrInput},
		"zero quorum":    {mod: func(e *Escrow) { e.RequiredSignatures = 0 }, wantErr: errors.ErrInput},
		"quorum too big": {mod: func(e *Escrow) { e.RequiredSignatures = 3 }, wantErr: errors.ErrInput},
		"zero amount":    {mod: func(e *Escrow) { e.Amount = 0 }, wantErr: errors.ErrAmount},
		"bad asset": {
			mod:     func(e *Escrow) { e.Asset = coin.Asset{Kind: 9} },
			wantErr: errors.ErrInput,
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			esc := validEscrow()
			tc.mod(esc)
			err := esc.Validate()
			if tc.wantErr == nil {
				assert.Nil(t, err)
			} else {
				assert.IsErr(t, tc.wantErr, err)
			}
		})
	}
}

func TestEscrowSerialization(t *testing.T) {
	esc := validEscrow()
	esc.Moderator = trusteetest.NewAddress()

	raw, err := esc.Marshal()
	assert.Nil(t, err)

	var got Escrow
	assert.Nil(t, got.Unmarshal(raw))
	assert.Equal(t, esc, &got)
}

func TestCreateMsgValidate(t *testing.T) {
	valid := func() *CreateMsg {
		return &CreateMsg{
			Buyer:              trusteetest.NewAddress(),
			Seller:             trusteetest.NewAddress(),
			UniqueID:           bytes.Repeat([]byte{1}, UniqueIDLength),
			RequiredSignatures: 2,
			UnlockDelay:        time.Hour,
			Asset:              coin.NativeAsset(),
			Amount:             5,
		}
	}

	assert.Nil(t, valid().Validate())

	m := valid()
	m.UnlockDelay = -time.Second
	assert.IsErr(t, errors.ErrInput, m.Validate())

	m = valid()
	m.RequiredSignatures = 3
	assert.IsErr(t, errors.ErrInput, m.Validate())

	// a moderator makes a third signer available
	m = valid()
	m.Moderator = trusteetest.NewAddress()
	m.RequiredSignatures = 3
	assert.Nil(t, m.Validate())

	m = valid()
	m.Asset = coin.TokenAsset(trusteetest.NewAddress())
	assert.Nil(t, m.Validate())
}
