// Package nonce implements the replay-protection ledger: a one-shot record
// per (namespace, vault, request id) keyed so the user-path and admin-path
// namespaces can never collide, grounded on original_source's NonceAccount
// (instructions/accounts.rs) and its per-instruction used-flag checks.
package nonce

import (
	"encoding/hex"

	"github.com/dgraph-io/badger/v4"

	"github.com/strikevault/core/address"
	"github.com/strikevault/core/store"
	"github.com/strikevault/core/verr"
)

const (
	NamespaceUser  = "nonce"
	NamespaceAdmin = "admin_nonce"
)

// Ledger reserves request ids, one-shot, per namespace.
type Ledger struct {
	st *store.Store
}

func NewLedger(st *store.Store) *Ledger {
	return &Ledger{st: st}
}

// Reserve marks (namespace, vault, requestID) used inside the given
// transaction, failing with NonceAlreadyUsed if it was already reserved.
// Callers run this inside the same store.Update as the state mutation it
// guards, so a conflicting concurrent reservation and the mutation commit
// or abort together.
func (l *Ledger) Reserve(txn *badger.Txn, namespace string, vault address.Address, requestID uint64) error {
	key := store.KeyNonce(namespace, hex.EncodeToString(vault.Bytes()), requestID)
	_, err := txn.Get(key)
	if err == nil {
		return verr.New(verr.NonceAlreadyUsed, "request id already used in this namespace")
	}
	if err != badger.ErrKeyNotFound {
		return err
	}
	return txn.Set(key, []byte{1})
}

// IsUsed reports whether (namespace, vault, requestID) has already been
// reserved, without mutating state.
func (l *Ledger) IsUsed(namespace string, vault address.Address, requestID uint64) (bool, error) {
	key := store.KeyNonce(namespace, hex.EncodeToString(vault.Bytes()), requestID)
	_, found, err := l.st.Get(key)
	return found, err
}
