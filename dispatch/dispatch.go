// Package dispatch executes a ticket's list of asset transfers atomically
// and in ticket order, grounded on original_source's withdraw.rs/deposit.rs
// transfer logic and bulk_withdraw.rs's "validate all, then execute all"
// structure.
package dispatch

import (
	"github.com/dgraph-io/badger/v4"

	"github.com/strikevault/core/address"
	"github.com/strikevault/core/asset"
	"github.com/strikevault/core/treasury"
	"github.com/strikevault/core/verr"
)

// Direction says whether a batch of AssetAmounts moves into or out of a
// vault's treasury.
type Direction int

const (
	In Direction = iota
	Out
)

// Run executes amounts against vault's treasury in the given direction, in
// the order given. Any individual transfer failing aborts the whole batch;
// because every mutation happens inside the caller's badger transaction,
// an aborted dispatch leaves no partial effect once the transaction itself
// is discarded.
func Run(txn *badger.Txn, ledger *treasury.Ledger, vault address.Address, amounts []asset.Amount, dir Direction) error {
	if len(amounts) == 0 {
		if dir == In {
			return verr.New(verr.NoDepositsProvided, "no deposits provided")
		}
		return verr.New(verr.NoWithdrawalsProvided, "no withdrawals provided")
	}

	for _, a := range amounts {
		if a.Amount == 0 {
			return verr.New(verr.InvalidAmount, "amount must be non-zero")
		}
		var err error
		if dir == In {
			err = ledger.Credit(txn, vault, a.Asset, a.Amount)
		} else {
			err = ledger.Debit(txn, vault, a.Asset, a.Amount)
		}
		if err != nil {
			return err
		}
	}
	return nil
}
