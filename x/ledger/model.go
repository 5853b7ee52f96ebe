package ledger

import (
	"sort"

	trustee "github.com/iov-one/trustee"
	"github.com/iov-one/trustee/coin"
	"github.com/iov-one/trustee/errors"
	"github.com/iov-one/trustee/orm"
	"github.com/tendermint/go-amino"
)

// BucketName is where we store the balances
const BucketName = "wallets"

var cdc = amino.NewCodec()

// Balance is the amount of a single asset inside a wallet.
type Balance struct {
	Asset  coin.Asset
	Amount uint64
}

// Wallet holds the balances of one address. Balances are kept sorted by
// asset identity so that serialization is deterministic.
type Wallet struct {
	Balances []Balance
}

var _ orm.Model = (*Wallet)(nil)

func (w *Wallet) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(w)
}

func (w *Wallet) Unmarshal(raw []byte) error {
	return cdc.UnmarshalBinaryBare(raw, w)
}

// Validate ensures the wallet is well formed: known assets, no zero
// balances, no duplicates, deterministic order.
func (w *Wallet) Validate() error {
	for i, b := range w.Balances {
		if err := b.Asset.Validate(); err != nil {
			return errors.Wrap(err, "asset")
		}
		if b.Amount == 0 {
			return errors.Wrap(errors.ErrAmount, "zero balance must be pruned")
		}
		if i > 0 && assetKey(w.Balances[i-1].Asset) >= assetKey(b.Asset) {
			return errors.Wrap(errors.ErrState, "balances out of order")
		}
	}
	return nil
}

// Amount returns the balance of the given asset, zero for a wallet that
// never held it.
func (w *Wallet) Amount(asset coin.Asset) uint64 {
	for _, b := range w.Balances {
		if b.Asset.Equals(asset) {
			return b.Amount
		}
	}
	return 0
}

// Add increases the balance of the given asset, failing on overflow.
func (w *Wallet) Add(asset coin.Asset, amount uint64) error {
	for i, b := range w.Balances {
		if b.Asset.Equals(asset) {
			total, err := coin.Add(b.Amount, amount)
			if err != nil {
				return err
			}
			w.Balances[i].Amount = total
			return nil
		}
	}
	w.Balances = append(w.Balances, Balance{Asset: asset, Amount: amount})
	sort.Slice(w.Balances, func(i, j int) bool {
		return assetKey(w.Balances[i].Asset) < assetKey(w.Balances[j].Asset)
	})
	return nil
}

// Subtract decreases the balance of the given asset. The balance entry is
// pruned when it drops to zero.
func (w *Wallet) Subtract(asset coin.Asset, amount uint64) error {
	for i, b := range w.Balances {
		if !b.Asset.Equals(asset) {
			continue
		}
		rest, err := coin.Sub(b.Amount, amount)
		if err != nil {
			return err
		}
		if rest == 0 {
			w.Balances = append(w.Balances[:i], w.Balances[i+1:]...)
		} else {
			w.Balances[i].Amount = rest
		}
		return nil
	}
	return errors.Wrapf(errors.ErrAmount, "wallet does not hold %s", asset)
}

// IsEmpty returns true if the wallet holds nothing at all.
func (w *Wallet) IsEmpty() bool {
	return len(w.Balances) == 0
}

// assetKey gives a total order over assets for deterministic storage.
func assetKey(a coin.Asset) string {
	return string(rune(a.Kind)) + string(a.Token)
}

// NewBucket returns the bucket where all the wallets live.
func NewBucket() orm.ModelBucket {
	return orm.NewModelBucket(BucketName, &Wallet{})
}

// walletKey maps an address to its bucket key.
func walletKey(addr trustee.Address) []byte {
	return addr
}
