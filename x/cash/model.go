package cash

import (
	"github.com/covault/covault"
	"github.com/covault/covault/coin"
	"github.com/covault/covault/errors"
	"github.com/covault/covault/orm"
)

// BucketName is where we store the balances.
const BucketName = "cash"

// Set is the value persisted for every wallet: the coins it holds.
type Set struct {
	Coins coin.Coins `cbor:"1,keyasint" json:"coins"`
}

var _ orm.CloneableData = (*Set)(nil)

// Marshal serializes the set into its canonical binary form.
func (s *Set) Marshal() ([]byte, error) {
	return orm.MarshalBinary(s)
}

// Unmarshal restores the set from its binary form.
func (s *Set) Unmarshal(raw []byte) error {
	return orm.UnmarshalBinary(raw, s)
}

// Validate requires that all coins are sorted, unique and non-zero.
func (s *Set) Validate() error {
	return s.Coins.Validate()
}

// Copy makes a new set with the same coins.
func (s *Set) Copy() orm.CloneableData {
	return &Set{
		Coins: s.Coins.Clone(),
	}
}

// Wallet is the actual object that we want to pass around in our code.
// It contains a set of coins, as well as the address. It is connected
// to the Bucket to easily manipulate state.
//
// Wallet is a type-safe wrapper around orm.SimpleObj.
type Wallet struct {
	key   []byte
	value *Set
}

var _ orm.Object = (*Wallet)(nil)

// NewWallet creates an empty wallet with this address.
func NewWallet(key covault.Address) *Wallet {
	return &Wallet{
		key:   key,
		value: new(Set),
	}
}

// Value gets the value stored in the object.
func (w Wallet) Value() covault.Persistent {
	return w.value
}

// Key returns the key to store the object under.
func (w Wallet) Key() []byte {
	return w.key
}

// Validate makes sure the fields aren't empty, and delegates to the
// value validator.
func (w Wallet) Validate() error {
	if len(w.key) == 0 {
		return errors.Wrap(errors.ErrEmpty, "missing key")
	}
	return w.value.Validate()
}

// SetKey may be used to update the wallet key.
func (w *Wallet) SetKey(key []byte) {
	w.key = key
}

// Clone will make a copy of this object.
func (w *Wallet) Clone() orm.Object {
	res := &Wallet{
		value: w.value.Copy().(*Set),
	}
	// only copy key if non-nil
	if len(w.key) > 0 {
		res.key = append([]byte(nil), w.key...)
	}
	return res
}

// Coins returns the coins stored in the wallet.
func (w Wallet) Coins() coin.Coins {
	return w.value.Coins
}

// Add modifies the wallet to add coin c.
func (w *Wallet) Add(c coin.Coin) error {
	cs, err := w.Coins().Add(c)
	if err != nil {
		return err
	}
	w.value.Coins = cs
	return nil
}

// Subtract modifies the wallet to remove coin c.
func (w *Wallet) Subtract(c coin.Coin) error {
	return w.Add(c.Negative())
}

// Bucket is a type-safe wrapper around orm.Bucket.
type Bucket struct {
	orm.Bucket
}

// NewBucket initializes a cash.Bucket with the default name.
func NewBucket() Bucket {
	return Bucket{
		Bucket: orm.NewBucket(BucketName, NewWallet(nil)),
	}
}

// Get loads the wallet at this address, nil if none was saved yet.
func (b Bucket) Get(db covault.ReadOnlyKVStore, key covault.Address) (*Wallet, error) {
	obj, err := b.Bucket.Get(db, key)
	if err != nil {
		return nil, err
	}
	if obj == nil {
		return nil, nil
	}
	return obj.(*Wallet), nil
}

// GetOrCreate loads the wallet at this address, or returns a fresh
// empty one bound to it.
func (b Bucket) GetOrCreate(db covault.ReadOnlyKVStore, key covault.Address) (*Wallet, error) {
	wallet, err := b.Get(db, key)
	if err != nil {
		return nil, err
	}
	if wallet == nil {
		wallet = NewWallet(key)
	}
	return wallet, nil
}

// Save persists the wallet. A wallet drained to zero is removed from
// the store entirely, so the state holds no empty records.
func (b Bucket) Save(db covault.KVStore, wallet *Wallet) error {
	if wallet.Coins().IsEmpty() {
		return b.Bucket.Delete(db, wallet.Key())
	}
	return b.Bucket.Save(db, wallet)
}

// RegisterQuery will register this bucket as "/wallets".
func RegisterQuery(qr covault.QueryRouter) {
	NewBucket().Register("wallets", qr)
}
