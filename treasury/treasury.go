// Package treasury tracks each vault's per-asset balance and enforces the
// rent-exempt minimum the native balance must never drop below, grounded
// on original_source's treasury PDA (a data-less lamport-holding account)
// and its rent-exempt checks in instructions/withdraw.rs.
package treasury

import (
	"encoding/hex"
	"encoding/json"

	"github.com/dgraph-io/badger/v4"
	"github.com/shopspring/decimal"

	"github.com/strikevault/core/address"
	"github.com/strikevault/core/asset"
	"github.com/strikevault/core/store"
	"github.com/strikevault/core/verr"
)

// Ledger persists a balance per (vault, asset) pair.
type Ledger struct {
	st            *store.Store
	rentExemptMin uint64
}

func NewLedger(st *store.Store, rentExemptMinimumLamports uint64) *Ledger {
	return &Ledger{st: st, rentExemptMin: rentExemptMinimumLamports}
}

func assetHex(a asset.Key) string {
	return hex.EncodeToString(a.AppendTo(nil))
}

func balanceKey(vault address.Address, a asset.Key) []byte {
	return store.KeyTreasury(hex.EncodeToString(vault.Bytes()), assetHex(a))
}

func (l *Ledger) Balance(txn *badger.Txn, vault address.Address, a asset.Key) (uint64, error) {
	item, err := txn.Get(balanceKey(vault, a))
	if err == badger.ErrKeyNotFound {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	var bal uint64
	err = item.Value(func(val []byte) error {
		return json.Unmarshal(val, &bal)
	})
	return bal, err
}

func (l *Ledger) setBalance(txn *badger.Txn, vault address.Address, a asset.Key, bal uint64) error {
	data, err := json.Marshal(bal)
	if err != nil {
		return err
	}
	return txn.Set(balanceKey(vault, a), data)
}

// hasRow reports whether a balance row already exists for (vault, a),
// distinguishing "tracked, balance zero" from "never registered".
func (l *Ledger) hasRow(txn *badger.Txn, vault address.Address, a asset.Key) (bool, error) {
	_, err := txn.Get(balanceKey(vault, a))
	if err == badger.ErrKeyNotFound {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Register creates a zero-balance row for a token mint, the ledger-side
// counterpart of a vault's associated token account. Idempotent: calling
// it against an already-tracked mint is a no-op. The native asset needs
// no registration — its row is created lazily on first Credit.
func (l *Ledger) Register(txn *badger.Txn, vault address.Address, a asset.Key) error {
	exists, err := l.hasRow(txn, vault, a)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	return l.setBalance(txn, vault, a, 0)
}

// requireTrackedTokenAccount enforces that a vault-owned token account was
// created via Register before any token transfer touches that mint — the
// Go-native counterpart of the trailing source/destination token accounts
// spec.md §4.5 requires for SPL transfers. The native asset has no such
// account and is exempt.
func (l *Ledger) requireTrackedTokenAccount(txn *badger.Txn, vault address.Address, a asset.Key) error {
	if a.Kind == asset.Native {
		return nil
	}
	exists, err := l.hasRow(txn, vault, a)
	if err != nil {
		return err
	}
	if !exists {
		return verr.New(verr.TokenAccountNotFound, "vault has no tracked token account for this mint")
	}
	return nil
}

// Credit increases vault's balance of asset by amount.
func (l *Ledger) Credit(txn *badger.Txn, vault address.Address, a asset.Key, amount uint64) error {
	if amount == 0 {
		return verr.New(verr.InvalidAmount, "amount must be non-zero")
	}
	if err := l.requireTrackedTokenAccount(txn, vault, a); err != nil {
		return err
	}
	bal, err := l.Balance(txn, vault, a)
	if err != nil {
		return err
	}
	next := bal + amount
	if next < bal {
		return verr.New(verr.Overflow, "credit overflows balance")
	}
	return l.setBalance(txn, vault, a, next)
}

// Debit decreases vault's balance of asset by amount. For the native
// asset, the resulting balance must not fall below the rent-exempt
// minimum.
func (l *Ledger) Debit(txn *badger.Txn, vault address.Address, a asset.Key, amount uint64) error {
	if amount == 0 {
		return verr.New(verr.InvalidAmount, "amount must be non-zero")
	}
	if err := l.requireTrackedTokenAccount(txn, vault, a); err != nil {
		return err
	}
	bal, err := l.Balance(txn, vault, a)
	if err != nil {
		return err
	}
	if amount > bal {
		return verr.New(verr.InsufficientFunds, "debit exceeds balance")
	}
	next := bal - amount
	if a.Kind == asset.Native && next < l.rentExemptMin {
		return verr.New(verr.InsufficientFunds, "debit would breach rent-exempt minimum")
	}
	return l.setBalance(txn, vault, a, next)
}

// Humanize formats a raw integer amount as a decimal string for log lines
// and emitted events, matching the precision-safe formatting
// shopspring/decimal provides over float64.
func Humanize(amount uint64, decimals int32) string {
	d := decimal.New(int64(amount), -decimals)
	return d.String()
}
