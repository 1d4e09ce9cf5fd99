package treasury_test

import (
	"testing"

	"github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/strikevault/core/address"
	"github.com/strikevault/core/asset"
	"github.com/strikevault/core/store"
	"github.com/strikevault/core/treasury"
	"github.com/strikevault/core/verr"
)

func openTestStore(t *testing.T) *store.Store {
	st, err := store.Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func TestCreditAndDebit(t *testing.T) {
	st := openTestStore(t)
	l := treasury.NewLedger(st, 0)
	var vault address.Address

	err := st.Update(func(txn *badger.Txn) error {
		return l.Credit(txn, vault, asset.NewNative(), 1000)
	})
	require.NoError(t, err)

	var bal uint64
	err = st.Update(func(txn *badger.Txn) error {
		var err error
		bal, err = l.Balance(txn, vault, asset.NewNative())
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, uint64(1000), bal)

	err = st.Update(func(txn *badger.Txn) error {
		return l.Debit(txn, vault, asset.NewNative(), 400)
	})
	require.NoError(t, err)

	err = st.Update(func(txn *badger.Txn) error {
		var err error
		bal, err = l.Balance(txn, vault, asset.NewNative())
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, uint64(600), bal)
}

func TestDebitRejectsInsufficientFunds(t *testing.T) {
	st := openTestStore(t)
	l := treasury.NewLedger(st, 0)
	var vault address.Address

	err := st.Update(func(txn *badger.Txn) error {
		return l.Debit(txn, vault, asset.NewNative(), 1)
	})
	require.Error(t, err)
	assert.True(t, verr.Is(err, verr.InsufficientFunds))
}

func TestDebitRejectsBreachOfRentExemptMinimum(t *testing.T) {
	st := openTestStore(t)
	l := treasury.NewLedger(st, 100)
	var vault address.Address

	err := st.Update(func(txn *badger.Txn) error {
		return l.Credit(txn, vault, asset.NewNative(), 150)
	})
	require.NoError(t, err)

	err = st.Update(func(txn *badger.Txn) error {
		return l.Debit(txn, vault, asset.NewNative(), 100)
	})
	require.Error(t, err, "leaves only 50, below the 100 rent-exempt minimum")
	assert.True(t, verr.Is(err, verr.InsufficientFunds))
}

func TestTokenBalanceIsNotSubjectToRentExemptMinimum(t *testing.T) {
	st := openTestStore(t)
	l := treasury.NewLedger(st, 100)
	var vault address.Address
	mint := [32]byte{1}
	key := asset.NewToken(mint)

	err := st.Update(func(txn *badger.Txn) error {
		return l.Register(txn, vault, key)
	})
	require.NoError(t, err)

	err = st.Update(func(txn *badger.Txn) error {
		return l.Credit(txn, vault, key, 50)
	})
	require.NoError(t, err)

	err = st.Update(func(txn *badger.Txn) error {
		return l.Debit(txn, vault, key, 50)
	})
	require.NoError(t, err)
}

func TestCreditAndDebitRejectUnregisteredTokenMint(t *testing.T) {
	st := openTestStore(t)
	l := treasury.NewLedger(st, 0)
	var vault address.Address
	key := asset.NewToken([32]byte{2})

	err := st.Update(func(txn *badger.Txn) error {
		return l.Credit(txn, vault, key, 10)
	})
	require.Error(t, err)
	assert.True(t, verr.Is(err, verr.TokenAccountNotFound))

	err = st.Update(func(txn *badger.Txn) error {
		return l.Debit(txn, vault, key, 10)
	})
	require.Error(t, err)
	assert.True(t, verr.Is(err, verr.TokenAccountNotFound))

	err = st.Update(func(txn *badger.Txn) error {
		return l.Register(txn, vault, key)
	})
	require.NoError(t, err)

	err = st.Update(func(txn *badger.Txn) error {
		return l.Credit(txn, vault, key, 10)
	})
	require.NoError(t, err, "credit succeeds once the mint is registered")
}

func TestRegisterIsIdempotentAndPreservesBalance(t *testing.T) {
	st := openTestStore(t)
	l := treasury.NewLedger(st, 0)
	var vault address.Address
	key := asset.NewToken([32]byte{3})

	err := st.Update(func(txn *badger.Txn) error {
		if err := l.Register(txn, vault, key); err != nil {
			return err
		}
		return l.Credit(txn, vault, key, 75)
	})
	require.NoError(t, err)

	err = st.Update(func(txn *badger.Txn) error {
		return l.Register(txn, vault, key)
	})
	require.NoError(t, err)

	var bal uint64
	err = st.Update(func(txn *badger.Txn) error {
		var err error
		bal, err = l.Balance(txn, vault, key)
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, uint64(75), bal, "re-registering an already-tracked mint must not reset its balance")
}
