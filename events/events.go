// Package events defines the structured log events this engine emits: the
// five event kinds the vault handlers produce.
package events

import "github.com/strikevault/core/logs"

type Type string

const (
	Deposit           Type = "vault.deposit"
	Withdraw          Type = "vault.withdraw"
	AssetAdded        Type = "vault.asset_added"
	AssetRemoved      Type = "vault.asset_removed"
	ValidatorsRotated Type = "vault.validators_rotated"
)

type Event interface {
	Type() Type
	Data() interface{}
}

type BaseEvent struct {
	EventType Type
	EventData interface{}
}

func (e BaseEvent) Type() Type        { return e.EventType }
func (e BaseEvent) Data() interface{} { return e.EventData }

type DepositData struct {
	RequestID uint64   `json:"requestId"`
	Amounts   []string `json:"amounts"` // human-readable, see treasury.Humanize
}

type WithdrawData struct {
	RequestID uint64   `json:"requestId"`
	Amounts   []string `json:"amounts"` // human-readable, see treasury.Humanize
}

type AssetAddedData struct {
	AssetKeyHex string `json:"assetKey"`
}

type AssetRemovedData struct {
	AssetKeyHex string `json:"assetKey"`
}

type ValidatorsRotatedData struct {
	NewSignerCount int  `json:"newSignerCount"`
	NewThreshold   byte `json:"newThreshold"`
}

// Bus fans events out to subscribers; Emit always also writes a structured
// log line so an external indexer tailing logs sees the same stream a
// subscriber would.
type Bus struct {
	subscribers []func(Event)
}

func NewBus() *Bus { return &Bus{} }

func (b *Bus) Subscribe(fn func(Event)) {
	b.subscribers = append(b.subscribers, fn)
}

func (b *Bus) Emit(e Event) {
	logs.Info("event %s: %+v", e.Type(), e.Data())
	for _, fn := range b.subscribers {
		fn(e)
	}
}
