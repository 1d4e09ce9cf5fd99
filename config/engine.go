package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// EngineConfig is the top-level configuration for a vault engine process.
type EngineConfig struct {
	NetworkID uint64       `json:"networkId"` // process network id, logged at startup; tickets are checked against each vault's own NetworkID
	DataDir   string       `json:"dataDir"`   // badger data directory
	LogLevel  string       `json:"logLevel"`  // trace|debug|verbose|info|warn|error
	Limits    LimitsConfig `json:"limits"`
	Rent      RentConfig   `json:"rent"`
}

// LimitsConfig bounds structural sizes enforced by vault state mutations.
type LimitsConfig struct {
	MaxSigners           int `json:"maxSigners"`           // hard cap on len(vault.Signers)
	MaxWhitelistedAssets int `json:"maxWhitelistedAssets"` // hard cap on len(vault.Assets)
	MaxBulkTickets       int `json:"maxBulkTickets"`       // hard cap on a BulkWithdrawal batch size
}

// RentConfig mirrors the rent-exempt-minimum behavior of the original
// account model: a vault's native treasury balance may not be drawn below
// this floor. Token balances have no floor.
type RentConfig struct {
	ExemptMinimumLamports uint64 `json:"exemptMinimumLamports"`
}

// DefaultEngineConfig returns the defaults used when no config file exists.
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		NetworkID: 101,
		DataDir:   "./data",
		LogLevel:  "info",
		Limits: LimitsConfig{
			MaxSigners:           10,
			MaxWhitelistedAssets: 32,
			MaxBulkTickets:       16,
		},
		Rent: RentConfig{
			ExemptMinimumLamports: 890880,
		},
	}
}

// LoadEngineConfig loads an EngineConfig from a JSON file, falling back to
// defaults if the file does not exist.
func LoadEngineConfig(path string) (EngineConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultEngineConfig(), nil
		}
		return EngineConfig{}, fmt.Errorf("failed to read engine config: %w", err)
	}

	cfg := DefaultEngineConfig()
	if err := json.Unmarshal(data, &cfg); err != nil {
		return EngineConfig{}, fmt.Errorf("failed to parse engine config: %w", err)
	}

	return cfg, nil
}

// LogLevelValue maps a LogLevel string onto logs.Level* ints, defaulting to
// info for an unrecognized value.
func LogLevelValue(level string) int {
	switch level {
	case "trace":
		return 0
	case "debug":
		return 1
	case "verbose":
		return 2
	case "warn", "warning":
		return 4
	case "error":
		return 5
	default:
		return 3 // info
	}
}
