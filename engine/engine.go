// Package engine wires the vault's components behind the ten instruction
// handlers: several sub-components behind one API surface, each handler
// running a fixed sequence of checks before any effect is committed.
package engine

import (
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/strikevault/core/address"
	"github.com/strikevault/core/asset"
	"github.com/strikevault/core/config"
	"github.com/strikevault/core/dispatch"
	"github.com/strikevault/core/events"
	"github.com/strikevault/core/logs"
	"github.com/strikevault/core/nonce"
	"github.com/strikevault/core/sigcheck"
	"github.com/strikevault/core/store"
	"github.com/strikevault/core/ticket"
	"github.com/strikevault/core/treasury"
	"github.com/strikevault/core/vaultcrypto"
	"github.com/strikevault/core/vaultstate"
	"github.com/strikevault/core/verr"
)

// Engine owns the persistent store and wires every component reachable
// from the ten handler methods below.
type Engine struct {
	ProgramID [32]byte
	cfg       config.EngineConfig

	st       *store.Store
	vaults   *vaultstate.Store
	treasury *treasury.Ledger
	nonces   *nonce.Ledger
	bus      *events.Bus
}

// New opens the store at cfg.DataDir and wires every sub-component.
func New(programID [32]byte, cfg config.EngineConfig) (*Engine, error) {
	st, err := store.Open(cfg.DataDir)
	if err != nil {
		store.LogOpenError(cfg.DataDir, err)
		return nil, err
	}
	return &Engine{
		ProgramID: programID,
		cfg:       cfg,
		st:        st,
		vaults:    vaultstate.NewStore(st, cfg.Limits.MaxSigners, cfg.Limits.MaxWhitelistedAssets),
		treasury:  treasury.NewLedger(st, cfg.Rent.ExemptMinimumLamports),
		nonces:    nonce.NewLedger(st),
		bus:       events.NewBus(),
	}, nil
}

func (e *Engine) Close() error { return e.st.Close() }

// Events returns the bus handlers emit to; callers subscribe before
// issuing any instruction.
func (e *Engine) Events() *events.Bus { return e.bus }

func now() int64 { return time.Now().Unix() }

func checkExpiry(expiry int64) error {
	if expiry < now() {
		return verr.New(verr.TicketExpired, "ticket has expired")
	}
	return nil
}

func checkNetwork(ticketNetwork, vaultNetwork uint64) error {
	if ticketNetwork != vaultNetwork {
		return verr.New(verr.InvalidNetwork, "ticket network id does not match vault")
	}
	return nil
}

func checkVault(ticketVault, thisVault address.Address) error {
	if ticketVault != thisVault {
		return verr.New(verr.InvalidVault, "ticket vault does not match target vault")
	}
	return nil
}

// humanizeAmounts renders each amount via treasury.Humanize for inclusion
// in emitted Deposit/Withdraw event data; native units carry no fixed
// decimal count in this design, so amounts are rendered whole (decimals=0).
func humanizeAmounts(amounts []asset.Amount) []string {
	out := make([]string, len(amounts))
	for i, a := range amounts {
		out[i] = treasury.Humanize(a.Amount, 0)
	}
	return out
}

// logShardCount buckets per-vault log lines for external log-aggregation
// partitioning; it has no bearing on storage layout or security.
const logShardCount = 16

func vaultShard(addr address.Address) uint32 {
	return store.ShardLabel(addr.Bytes(), logShardCount)
}

// Initialize creates a new vault. See vaultstate.Store.Initialize for the
// validation rules.
func (e *Engine) Initialize(authority address.Address, vaultSeed []byte, networkID uint64, mThreshold uint8, signers []vaultcrypto.Fingerprint) (*vaultstate.Vault, error) {
	var v *vaultstate.Vault
	err := e.st.Update(func(txn *badger.Txn) error {
		var err error
		v, err = e.vaults.Initialize(txn, e.ProgramID, authority, vaultSeed, networkID, mThreshold, signers)
		return err
	})
	if err != nil {
		return nil, err
	}
	logs.SetContext(v.Address.String())
	logs.Info("vault initialized: authority=%s threshold=%d signers=%d shard=%d", authority.String(), mThreshold, len(signers), vaultShard(v.Address))
	return v, nil
}

// Deposit credits the vault's treasury. User-initiated, unsigned, but the
// caller may never be the vault's own authority (admins must use the
// signed AdminDeposit path).
func (e *Engine) Deposit(caller, vaultAddr address.Address, requestID uint64, deposits []asset.Amount) error {
	return e.st.Update(func(txn *badger.Txn) error {
		v, err := e.vaults.Get(txn, vaultAddr)
		if err != nil {
			return err
		}
		if caller == v.Authority {
			return verr.New(verr.AdminDepositShouldBeSigned, "admin must use the signed deposit path")
		}
		for _, d := range deposits {
			if !v.HasAsset(d.Asset) {
				return verr.New(verr.AssetNotWhitelisted, "deposit asset not whitelisted")
			}
		}
		if err := dispatch.Run(txn, e.treasury, vaultAddr, deposits, dispatch.In); err != nil {
			return err
		}
		e.bus.Emit(events.BaseEvent{EventType: events.Deposit, EventData: events.DepositData{RequestID: requestID, Amounts: humanizeAmounts(deposits)}})
		return nil
	})
}

// Withdraw is the user threshold-signed withdrawal path: m = vault.MThreshold,
// user-namespace nonce.
func (e *Engine) Withdraw(t *ticket.Withdrawal, sigs []sigcheck.Signature, recipient address.Address) error {
	return e.withdraw(t, sigs, recipient, nonce.NamespaceUser, false)
}

// AdminWithdraw is identical to Withdraw but uses the admin-namespace
// nonce and requires every current signer, not just the threshold.
func (e *Engine) AdminWithdraw(t *ticket.Withdrawal, sigs []sigcheck.Signature, recipient address.Address) error {
	return e.withdraw(t, sigs, recipient, nonce.NamespaceAdmin, true)
}

func (e *Engine) withdraw(t *ticket.Withdrawal, sigs []sigcheck.Signature, recipient address.Address, namespace string, unanimous bool) error {
	return e.st.Update(func(txn *badger.Txn) error {
		v, err := e.vaults.Get(txn, t.Vault)
		if err != nil {
			return err
		}
		if err := checkVault(t.Vault, v.Address); err != nil {
			return err
		}
		if err := checkNetwork(t.NetworkID, v.NetworkID); err != nil {
			return err
		}
		if err := checkExpiry(t.Expiry); err != nil {
			return err
		}
		if t.Recipient != recipient {
			return verr.New(verr.InvalidRecipient, "recipient does not match ticket")
		}

		if unanimous {
			if _, err := sigcheck.ValidateUnanimous(t, sigs, v.Signers); err != nil {
				return err
			}
		} else {
			if _, err := sigcheck.Validate(t, sigs, v.Signers, int(v.MThreshold)); err != nil {
				return err
			}
		}

		if err := e.nonces.Reserve(txn, namespace, v.Address, t.RequestID); err != nil {
			return err
		}
		if err := dispatch.Run(txn, e.treasury, v.Address, t.Withdrawals, dispatch.Out); err != nil {
			return err
		}
		e.bus.Emit(events.BaseEvent{EventType: events.Withdraw, EventData: events.WithdrawData{RequestID: t.RequestID, Amounts: humanizeAmounts(t.Withdrawals)}})
		return nil
	})
}

// BulkWithdraw batches several Withdrawal-shaped sub-requests into one
// atomically-executed ticket, rejecting if any two sub-tickets share a
// request id or if the batch exceeds cfg.Limits.MaxBulkTickets.
// See DESIGN.md open-question #4 for the domain separator's derivation.
func (e *Engine) BulkWithdraw(bulk *ticket.BulkWithdrawal, sigs []sigcheck.Signature, vaultAddr address.Address) error {
	if len(bulk.Tickets) == 0 {
		return verr.New(verr.NoWithdrawalsProvided, "no withdrawals provided")
	}
	if len(bulk.Tickets) > e.cfg.Limits.MaxBulkTickets {
		return verr.New(verr.TooManyTickets, "bulk batch exceeds the configured limit")
	}
	seen := make(map[uint64]struct{}, len(bulk.Tickets))
	for _, sub := range bulk.Tickets {
		if _, dup := seen[sub.RequestID]; dup {
			return verr.New(verr.DuplicateRequestId, "duplicate request id within bulk batch")
		}
		seen[sub.RequestID] = struct{}{}
	}

	return e.st.Update(func(txn *badger.Txn) error {
		v, err := e.vaults.Get(txn, vaultAddr)
		if err != nil {
			return err
		}
		if err := v.RequireVersion(1); err != nil {
			return err
		}
		if err := checkNetwork(bulk.NetworkID, v.NetworkID); err != nil {
			return err
		}
		if err := checkExpiry(bulk.Expiry); err != nil {
			return err
		}
		if _, err := sigcheck.Validate(bulk, sigs, v.Signers, int(v.MThreshold)); err != nil {
			return err
		}

		for _, sub := range bulk.Tickets {
			if err := checkVault(sub.Vault, v.Address); err != nil {
				return err
			}
			if dupKey, dup := asset.DuplicateKey(sub.Withdrawals); dup {
				return verr.New(verr.DuplicateAsset, "asset "+assetHex(dupKey)+" withdrawn twice in the same sub-ticket")
			}
			if err := e.nonces.Reserve(txn, nonce.NamespaceUser, v.Address, sub.RequestID); err != nil {
				return err
			}
		}
		for _, sub := range bulk.Tickets {
			if err := dispatch.Run(txn, e.treasury, v.Address, sub.Withdrawals, dispatch.Out); err != nil {
				return err
			}
			e.bus.Emit(events.BaseEvent{EventType: events.Withdraw, EventData: events.WithdrawData{RequestID: sub.RequestID, Amounts: humanizeAmounts(sub.Withdrawals)}})
		}
		return nil
	})
}

// AdminDeposit credits the treasury on the caller's behalf. The ticket's
// User field is forced to caller before the digest is recomputed, so a
// signature is only valid for the caller that actually invokes it (see
// DESIGN.md open-question #1). Requires only one valid signer, a weaker
// witness-only bar than the unanimous AdminWithdraw path.
func (e *Engine) AdminDeposit(t *ticket.AdminDeposit, sigs []sigcheck.Signature, caller address.Address) error {
	t.User = caller
	return e.st.Update(func(txn *badger.Txn) error {
		v, err := e.vaults.Get(txn, t.Vault)
		if err != nil {
			return err
		}
		if err := checkVault(t.Vault, v.Address); err != nil {
			return err
		}
		if err := checkNetwork(t.NetworkID, v.NetworkID); err != nil {
			return err
		}
		if err := checkExpiry(t.Expiry); err != nil {
			return err
		}
		if _, err := sigcheck.Validate(t, sigs, v.Signers, 1); err != nil {
			return err
		}
		if err := e.nonces.Reserve(txn, nonce.NamespaceAdmin, v.Address, t.RequestID); err != nil {
			return err
		}
		if err := dispatch.Run(txn, e.treasury, v.Address, t.Deposits, dispatch.In); err != nil {
			return err
		}
		e.bus.Emit(events.BaseEvent{EventType: events.Deposit, EventData: events.DepositData{RequestID: t.RequestID, Amounts: humanizeAmounts(t.Deposits)}})
		return nil
	})
}

// AddAsset and RemoveAsset share preconditions: threshold-signed,
// admin-namespace nonce, caller must be vault.Authority.
func (e *Engine) AddAsset(t *ticket.AddAsset, sigs []sigcheck.Signature, caller address.Address) error {
	return e.st.Update(func(txn *badger.Txn) error {
		v, err := e.adminPrecheck(txn, t.Vault, t.NetworkID, t.Expiry, caller, t.RequestID)
		if err != nil {
			return err
		}
		if _, err := sigcheck.Validate(t, sigs, v.Signers, int(v.MThreshold)); err != nil {
			return err
		}
		if err := e.nonces.Reserve(txn, nonce.NamespaceAdmin, v.Address, t.RequestID); err != nil {
			return err
		}
		if _, err := e.vaults.AddAsset(txn, v, t.Asset); err != nil {
			return err
		}
		e.bus.Emit(events.BaseEvent{EventType: events.AssetAdded, EventData: events.AssetAddedData{AssetKeyHex: assetHex(t.Asset)}})
		return nil
	})
}

func (e *Engine) RemoveAsset(t *ticket.RemoveAsset, sigs []sigcheck.Signature, caller address.Address) error {
	return e.st.Update(func(txn *badger.Txn) error {
		v, err := e.adminPrecheck(txn, t.Vault, t.NetworkID, t.Expiry, caller, t.RequestID)
		if err != nil {
			return err
		}
		if _, err := sigcheck.Validate(t, sigs, v.Signers, int(v.MThreshold)); err != nil {
			return err
		}
		if err := e.nonces.Reserve(txn, nonce.NamespaceAdmin, v.Address, t.RequestID); err != nil {
			return err
		}
		if !v.HasAsset(t.Asset) {
			logs.Info("remove_asset: asset not found, treating as benign success")
		}
		if _, err := e.vaults.RemoveAsset(txn, v, t.Asset); err != nil {
			return err
		}
		e.bus.Emit(events.BaseEvent{EventType: events.AssetRemoved, EventData: events.AssetRemovedData{AssetKeyHex: assetHex(t.Asset)}})
		return nil
	})
}

// RotateValidators validates against the current signer set before
// atomically replacing it with the new one.
func (e *Engine) RotateValidators(t *ticket.RotateValidators, sigs []sigcheck.Signature, caller address.Address) error {
	return e.st.Update(func(txn *badger.Txn) error {
		v, err := e.adminPrecheck(txn, t.Vault, t.NetworkID, t.Expiry, caller, t.RequestID)
		if err != nil {
			return err
		}
		if _, err := sigcheck.Validate(t, sigs, v.Signers, int(v.MThreshold)); err != nil {
			return err
		}
		if err := e.nonces.Reserve(txn, nonce.NamespaceAdmin, v.Address, t.RequestID); err != nil {
			return err
		}
		if _, err := e.vaults.RotateValidators(txn, v, t.Signers, t.MThreshold); err != nil {
			return err
		}
		e.bus.Emit(events.BaseEvent{EventType: events.ValidatorsRotated, EventData: events.ValidatorsRotatedData{
			NewSignerCount: len(t.Signers), NewThreshold: t.MThreshold,
		}})
		return nil
	})
}

// CreateVaultTokenAccount registers a mint as addressable in the treasury
// ledger. Idempotent: an already-registered mint is a benign success,
// mirroring original_source's associated-token-account creation. Every
// subsequent Credit/Debit against that mint requires this to have run
// first, or it fails with TokenAccountNotFound.
func (e *Engine) CreateVaultTokenAccount(vaultAddr address.Address, caller address.Address, mint [32]byte) error {
	return e.st.Update(func(txn *badger.Txn) error {
		v, err := e.vaults.Get(txn, vaultAddr)
		if err != nil {
			return err
		}
		if caller != v.Authority {
			return verr.New(verr.UnauthorizedUser, "only the vault authority may create a token account")
		}
		return e.treasury.Register(txn, vaultAddr, asset.NewToken(mint))
	})
}

func (e *Engine) adminPrecheck(txn *badger.Txn, vaultAddr address.Address, ticketNetwork uint64, expiry int64, caller address.Address, requestID uint64) (*vaultstate.Vault, error) {
	v, err := e.vaults.Get(txn, vaultAddr)
	if err != nil {
		return nil, err
	}
	if caller != v.Authority {
		return nil, verr.New(verr.UnauthorizedUser, "caller is not the vault authority")
	}
	if err := checkNetwork(ticketNetwork, v.NetworkID); err != nil {
		return nil, err
	}
	if err := checkExpiry(expiry); err != nil {
		return nil, err
	}
	return v, nil
}

func assetHex(a asset.Key) string {
	b := a.AppendTo(nil)
	const hexdigits = "0123456789abcdef"
	out := make([]byte, len(b)*2)
	for i, c := range b {
		out[i*2] = hexdigits[c>>4]
		out[i*2+1] = hexdigits[c&0xF]
	}
	return string(out)
}
