package trustee_test

import (
	"encoding/json"
	"fmt"
	"testing"

	trustee "github.com/iov-one/trustee"
	"github.com/iov-one/trustee/errors"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConditionParsing(t *testing.T) {
	Convey("a condition round-trips through its sections", t, func() {
		cond := trustee.NewCondition("escrow", "native", []byte("some-binary-data"))

		ext, typ, data, err := cond.Parse()
		So(err, ShouldBeNil)
		So(ext, ShouldEqual, "escrow")
		So(typ, ShouldEqual, "native")
		So(data, ShouldResemble, []byte("some-binary-data"))

		So(cond.Validate(), ShouldBeNil)
	})

	Convey("garbage does not parse", t, func() {
		_, _, _, err := trustee.Condition("foobar").Parse()
		So(errors.ErrInput.Is(err), ShouldBeTrue)
		So(trustee.Condition("foobar").Validate(), ShouldNotBeNil)
	})
}

func TestConditionAddress(t *testing.T) {
	a := trustee.NewCondition("escrow", "native", []byte("one")).Address()
	b := trustee.NewCondition("escrow", "token", []byte("one")).Address()

	require.NoError(t, a.Validate())
	require.Len(t, []byte(a), trustee.AddressLength)

	// different namespaces never derive the same address
	assert.False(t, a.Equals(b))

	// derivation is stable
	again := trustee.NewCondition("escrow", "native", []byte("one")).Address()
	assert.True(t, a.Equals(again))
}

func TestAddressPrinting(t *testing.T) {
	addr := trustee.Address([]byte("ABCD123456LHB"))
	assert.Equal(t, fmt.Sprintf("%X", []byte(addr)), addr.String())
	assert.Equal(t, "(nil)", trustee.Address(nil).String())
}

func TestAddressUnmarshalJSON(t *testing.T) {
	cond := trustee.NewCondition("foo", "bar", []byte("conditiondata"))

	cases := map[string]struct {
		json     string
		wantErr  *errors.Error
		wantAddr trustee.Address
	}{
		"hex decoding": {
			json:     fmt.Sprintf("%q", "hex:"+cond.Address().String()),
			wantAddr: cond.Address(),
		},
		"default decoding is hex": {
			json:     fmt.Sprintf("%q", cond.Address().String()),
			wantAddr: cond.Address(),
		},
		"cond decoding": {
			json:     `"cond:foo/bar/636f6e646974696f6e64617461"`,
			wantAddr: cond.Address(),
		},
		"invalid condition format": {
			json:    `"cond:foo/636f6e646974696f6e64617461"`,
			wantErr: errors.ErrInput,
		},
		"invalid condition data": {
			json:    `"cond:foo/bar/zzzzz"`,
			wantErr: errors.ErrInput,
		},
		"wrong address length": {
			json:    `"6865782d61646472"`,
			wantErr: errors.ErrInput,
		},
		"unknown format": {
			json:    `"foobar:xxx"`,
			wantErr: errors.ErrType,
		},
		"zero address": {
			json:     `""`,
			wantAddr: nil,
		},
		"zero hex address": {
			json:     `"hex:"`,
			wantAddr: nil,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			var a trustee.Address
			err := json.Unmarshal([]byte(tc.json), &a)
			if !tc.wantErr.Is(err) {
				t.Fatalf("got error: %+v", err)
			}
			if err == nil && !a.Equals(tc.wantAddr) {
				t.Fatalf("want %s, got %s", tc.wantAddr, a)
			}
		})
	}
}

func TestAddressBech32(t *testing.T) {
	addr := trustee.NewCondition("foo", "bar", []byte("data")).Address()

	enc, err := addr.Bech32("trst")
	require.NoError(t, err)

	raw, err := json.Marshal("bech32:" + enc)
	require.NoError(t, err)

	var got trustee.Address
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.True(t, addr.Equals(got))
}
