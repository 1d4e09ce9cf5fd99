package dispatch_test

import (
	"testing"

	"github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/strikevault/core/address"
	"github.com/strikevault/core/asset"
	"github.com/strikevault/core/dispatch"
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

func TestRunRejectsEmptyList(t *testing.T) {
	st := openTestStore(t)
	l := treasury.NewLedger(st, 0)
	var vault address.Address

	err := st.Update(func(txn *badger.Txn) error {
		return dispatch.Run(txn, l, vault, nil, dispatch.Out)
	})
	require.Error(t, err)
	assert.True(t, verr.Is(err, verr.NoWithdrawalsProvided))
}

func TestRunRejectsZeroAmount(t *testing.T) {
	st := openTestStore(t)
	l := treasury.NewLedger(st, 0)
	var vault address.Address

	err := st.Update(func(txn *badger.Txn) error {
		return dispatch.Run(txn, l, vault, []asset.Amount{{Asset: asset.NewNative(), Amount: 0}}, dispatch.In)
	})
	require.Error(t, err)
	assert.True(t, verr.Is(err, verr.InvalidAmount))
}

func TestRunExecutesInOrderAndAtomically(t *testing.T) {
	st := openTestStore(t)
	l := treasury.NewLedger(st, 0)
	var vault address.Address

	err := st.Update(func(txn *badger.Txn) error {
		return dispatch.Run(txn, l, vault, []asset.Amount{
			{Asset: asset.NewNative(), Amount: 500},
		}, dispatch.In)
	})
	require.NoError(t, err)

	// second entry fails (insufficient funds); first entry's debit inside
	// the same call must not be committed since the whole Update aborts.
	err = st.Update(func(txn *badger.Txn) error {
		return dispatch.Run(txn, l, vault, []asset.Amount{
			{Asset: asset.NewNative(), Amount: 100},
			{Asset: asset.NewNative(), Amount: 10_000},
		}, dispatch.Out)
	})
	require.Error(t, err)
	assert.True(t, verr.Is(err, verr.InsufficientFunds))

	var bal uint64
	err = st.Update(func(txn *badger.Txn) error {
		var err error
		bal, err = l.Balance(txn, vault, asset.NewNative())
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, uint64(500), bal, "aborted transaction must leave balance unchanged")
}
