package ledger

import (
	"math"
	"testing"

	"github.com/iov-one/trustee/coin"
	"github.com/iov-one/trustee/errors"
	"github.com/iov-one/trustee/store"
	"github.com/iov-one/trustee/trusteetest"
	. "github.com/smartystreets/goconvey/convey"
)

func TestController(t *testing.T) {
	Convey("Test moving funds between wallets", t, func() {
		alice := trusteetest.NewAddress()
		bob := trusteetest.NewAddress()
		native := coin.NativeAsset()
		token := coin.TokenAsset(trusteetest.NewAddress())

		kv := store.MemStore()
		ctrl := NewController()

		Convey("With a funded source wallet", func() {
			So(ctrl.Credit(kv, alice, native, 1000), ShouldBeNil)

			Convey("Full transfer drains the wallet", func() {
				So(ctrl.Move(kv, alice, bob, native, 1000), ShouldBeNil)

				got, err := ctrl.Balance(kv, bob, native)
				So(err, ShouldBeNil)
				So(got, ShouldEqual, 1000)

				got, err = ctrl.Balance(kv, alice, native)
				So(err, ShouldBeNil)
				So(got, ShouldEqual, 0)

				Convey("And the drained wallet record is gone", func() {
					So(NewBucket().Has(kv, walletKey(alice)), ShouldBeFalse)
				})
			})

			Convey("Partial transfer keeps the remainder", func() {
				So(ctrl.Move(kv, alice, bob, native, 300), ShouldBeNil)

				got, err := ctrl.Balance(kv, alice, native)
				So(err, ShouldBeNil)
				So(got, ShouldEqual, 700)
			})

			Convey("Transfer above the balance fails", func() {
				err := ctrl.Move(kv, alice, bob, native, 1001)
				So(ErrInsufficientFunds.Is(err), ShouldBeTrue)

				got, err := ctrl.Balance(kv, alice, native)
				So(err, ShouldBeNil)
				So(got, ShouldEqual, 1000)
			})

			Convey("Transfer to self is rejected and cannot mint", func() {
				err := ctrl.Move(kv, alice, alice, native, 100)
				So(errors.ErrInput.Is(err), ShouldBeTrue)

				got, err := ctrl.Balance(kv, alice, native)
				So(err, ShouldBeNil)
				So(got, ShouldEqual, 1000)
			})

			Convey("Zero transfer fails", func() {
				err := ctrl.Move(kv, alice, bob, native, 0)
				So(errors.ErrAmount.Is(err), ShouldBeTrue)
			})

			Convey("Transfer of an asset not held fails", func() {
				err := ctrl.Move(kv, alice, bob, token, 1)
				So(ErrInsufficientFunds.Is(err), ShouldBeTrue)
			})
		})

		Convey("Moving from a wallet that does not exist fails", func() {
			err := ctrl.Move(kv, alice, bob, native, 1)
			So(ErrInsufficientFunds.Is(err), ShouldBeTrue)
		})

		Convey("With strict accounts", func() {
			strict := NewController(WithStrictAccounts())
			So(strict.Credit(kv, alice, token, 50), ShouldBeNil)
			So(strict.Credit(kv, alice, native, 50), ShouldBeNil)

			Convey("Token transfer to an unknown recipient fails", func() {
				err := strict.Move(kv, alice, bob, token, 50)
				So(ErrMissingAccount.Is(err), ShouldBeTrue)
			})

			Convey("Token transfer to an existing recipient works", func() {
				So(strict.Credit(kv, bob, token, 1), ShouldBeNil)
				So(strict.Move(kv, alice, bob, token, 50), ShouldBeNil)

				got, err := strict.Balance(kv, bob, token)
				So(err, ShouldBeNil)
				So(got, ShouldEqual, 51)
			})

			Convey("Native transfer to an unknown recipient still works", func() {
				So(strict.Move(kv, alice, bob, native, 50), ShouldBeNil)
			})
		})
	})
}

func TestControllerCreditDebit(t *testing.T) {
	Convey("Test issuing and withdrawing funds", t, func() {
		alice := trusteetest.NewAddress()
		native := coin.NativeAsset()

		kv := store.MemStore()
		ctrl := NewController()

		Convey("Credit creates the wallet", func() {
			So(ctrl.Credit(kv, alice, native, 10), ShouldBeNil)
			So(NewBucket().Has(kv, walletKey(alice)), ShouldBeTrue)

			Convey("Credits accumulate", func() {
				So(ctrl.Credit(kv, alice, native, 5), ShouldBeNil)
				got, err := ctrl.Balance(kv, alice, native)
				So(err, ShouldBeNil)
				So(got, ShouldEqual, 15)
			})

			Convey("Credit overflow is rejected", func() {
				err := ctrl.Credit(kv, alice, native, math.MaxUint64)
				So(errors.ErrOverflow.Is(err), ShouldBeTrue)
			})

			Convey("Debit withdraws", func() {
				So(ctrl.Debit(kv, alice, native, 4), ShouldBeNil)
				got, err := ctrl.Balance(kv, alice, native)
				So(err, ShouldBeNil)
				So(got, ShouldEqual, 6)
			})

			Convey("Debit above the balance fails", func() {
				err := ctrl.Debit(kv, alice, native, 11)
				So(ErrInsufficientFunds.Is(err), ShouldBeTrue)
			})
		})

		Convey("Debit from a missing wallet fails", func() {
			err := ctrl.Debit(kv, alice, native, 1)
			So(ErrInsufficientFunds.Is(err), ShouldBeTrue)
		})

		Convey("Balance of a missing wallet is zero", func() {
			got, err := ctrl.Balance(kv, alice, native)
			So(err, ShouldBeNil)
			So(got, ShouldEqual, 0)
		})
	})
}

func TestControllerCloseAccount(t *testing.T) {
	Convey("Test closing wallet records", t, func() {
		alice := trusteetest.NewAddress()
		native := coin.NativeAsset()

		kv := store.MemStore()
		ctrl := NewController()

		Convey("Closing a missing wallet is a no-op", func() {
			So(ctrl.CloseAccount(kv, alice), ShouldBeNil)
		})

		Convey("Closing a funded wallet fails", func() {
			So(ctrl.Credit(kv, alice, native, 1), ShouldBeNil)
			err := ctrl.CloseAccount(kv, alice)
			So(errors.ErrState.Is(err), ShouldBeTrue)
		})
	})
}
