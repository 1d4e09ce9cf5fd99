// Package vaultstate owns a vault's configuration: authority, threshold,
// signer set, and asset whitelist, grounded on original_source's Vault
// account (instructions/accounts.rs) and its initialize/admin/asset
// handlers.
package vaultstate

import (
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/dgraph-io/badger/v4"

	"github.com/strikevault/core/address"
	"github.com/strikevault/core/asset"
	"github.com/strikevault/core/store"
	"github.com/strikevault/core/vaultcrypto"
	"github.com/strikevault/core/verr"
)

// Vault is the persistent configuration record for one vault.
type Vault struct {
	Address    address.Address          `json:"address"`
	VaultSeed  []byte                    `json:"vaultSeed"`
	Authority  address.Address           `json:"authority"`
	NetworkID  uint64                    `json:"networkId"`
	MThreshold uint8                     `json:"mThreshold"`
	Signers    []vaultcrypto.Fingerprint `json:"signers"`
	Assets     []asset.Key               `json:"assets"`
	Bump       byte                      `json:"bump"`
	Version    uint64                    `json:"version"` // bumped on every mutating admin op
}

func (v *Vault) HasSigner(fp vaultcrypto.Fingerprint) bool {
	for _, s := range v.Signers {
		if s == fp {
			return true
		}
	}
	return false
}

// RequireVersion gates an operation behind a minimum vault schema version,
// for handlers introduced after a vault may already exist on disk.
func (v *Vault) RequireVersion(min uint64) error {
	if v.Version < min {
		return verr.New(verr.RequiresMigration, "vault state predates this operation and must be migrated first")
	}
	return nil
}

func (v *Vault) HasAsset(k asset.Key) bool {
	for _, a := range v.Assets {
		if a.Equal(k) {
			return true
		}
	}
	return false
}

// validateSignerSet enforces initialize/rotate_validators' shared signer
// rules: 1 <= m <= len(signers) <= maxSigners, no duplicates.
func validateSignerSet(signers []vaultcrypto.Fingerprint, mThreshold uint8, maxSigners int) error {
	if len(signers) == 0 || len(signers) > maxSigners {
		return verr.New(verr.InvalidSignersCount, fmt.Sprintf("signer count must be in [1, %d]", maxSigners))
	}
	if mThreshold == 0 || int(mThreshold) > len(signers) {
		return verr.New(verr.InvalidThreshold, "threshold must be in [1, len(signers)]")
	}
	seen := make(map[vaultcrypto.Fingerprint]struct{}, len(signers))
	for _, s := range signers {
		if _, dup := seen[s]; dup {
			return verr.New(verr.DuplicateSigner, "duplicate signer in set")
		}
		seen[s] = struct{}{}
	}
	return nil
}

// Store persists Vault records keyed by their derived address, bounding
// signer sets and whitelist sizes according to the configured limits.
type Store struct {
	st                   *store.Store
	maxSigners           int
	maxWhitelistedAssets int
}

func NewStore(st *store.Store, maxSigners, maxWhitelistedAssets int) *Store {
	return &Store{st: st, maxSigners: maxSigners, maxWhitelistedAssets: maxWhitelistedAssets}
}

func vaultKey(addr address.Address) []byte {
	return store.KeyVault(hex.EncodeToString(addr.Bytes()))
}

// Initialize creates a brand new vault record. Fails if vaultSeed's length
// is outside [1, 32] or the signer set is invalid. Whitelist starts empty.
func (s *Store) Initialize(txn *badger.Txn, programID [32]byte, authority address.Address, vaultSeed []byte, networkID uint64, mThreshold uint8, signers []vaultcrypto.Fingerprint) (*Vault, error) {
	if len(vaultSeed) == 0 || len(vaultSeed) > 32 {
		return nil, verr.New(verr.InvalidVault, "vault seed length must be in [1, 32]")
	}
	if err := validateSignerSet(signers, mThreshold, s.maxSigners); err != nil {
		return nil, err
	}

	addr, bump := address.Derive(programID, []byte("vault"), vaultSeed)
	v := &Vault{
		Address:    addr,
		VaultSeed:  append([]byte(nil), vaultSeed...),
		Authority:  authority,
		NetworkID:  networkID,
		MThreshold: mThreshold,
		Signers:    append([]vaultcrypto.Fingerprint(nil), signers...),
		Assets:     nil,
		Bump:       bump,
		Version:    1,
	}
	return v, s.put(txn, v)
}

func (s *Store) put(txn *badger.Txn, v *Vault) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return txn.Set(vaultKey(v.Address), data)
}

// Get loads a vault by address.
func (s *Store) Get(txn *badger.Txn, addr address.Address) (*Vault, error) {
	item, err := txn.Get(vaultKey(addr))
	if err == badger.ErrKeyNotFound {
		return nil, verr.New(verr.InvalidVault, "vault does not exist")
	}
	if err != nil {
		return nil, err
	}
	var v Vault
	err = item.Value(func(val []byte) error {
		return json.Unmarshal(val, &v)
	})
	return &v, err
}

// AddAsset is idempotent: adding an already-whitelisted asset is a no-op.
// Fails with WhitelistFull if the vault has already reached
// maxWhitelistedAssets distinct entries.
func (s *Store) AddAsset(txn *badger.Txn, v *Vault, a asset.Key) (*Vault, error) {
	if v.HasAsset(a) {
		return v, nil
	}
	if len(v.Assets) >= s.maxWhitelistedAssets {
		return nil, verr.New(verr.WhitelistFull, fmt.Sprintf("vault already whitelists %d assets", s.maxWhitelistedAssets))
	}
	v.Assets = append(v.Assets, a)
	v.Version++
	return v, s.put(txn, v)
}

// RemoveAsset succeeds whether or not the asset was present; callers log
// "not found" themselves on the no-op path. Removal never touches balances
// already held for that asset.
func (s *Store) RemoveAsset(txn *badger.Txn, v *Vault, a asset.Key) (*Vault, error) {
	for i, have := range v.Assets {
		if have.Equal(a) {
			v.Assets = append(v.Assets[:i], v.Assets[i+1:]...)
			v.Version++
			return v, s.put(txn, v)
		}
	}
	return v, nil
}

// RotateValidators atomically replaces the signer set and threshold.
func (s *Store) RotateValidators(txn *badger.Txn, v *Vault, newSigners []vaultcrypto.Fingerprint, newThreshold uint8) (*Vault, error) {
	if err := validateSignerSet(newSigners, newThreshold, s.maxSigners); err != nil {
		return nil, err
	}
	v.Signers = append([]vaultcrypto.Fingerprint(nil), newSigners...)
	v.MThreshold = newThreshold
	v.Version++
	return v, s.put(txn, v)
}
