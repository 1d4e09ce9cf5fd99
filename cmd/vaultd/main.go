// Command vaultd runs a standalone vault engine: a single process that
// owns one badger data directory and dispatches instruction calls against
// it.
package main

import (
	"flag"
	"os"

	"github.com/strikevault/core/config"
	"github.com/strikevault/core/engine"
	"github.com/strikevault/core/logs"
	"github.com/strikevault/core/vaultcrypto"
)

func main() {
	var (
		dataDir    = flag.String("data", "./data", "badger data directory")
		configFile = flag.String("config", "", "engine config file path")
		networkID  = flag.Uint64("network", 0, "override configured network id (0 = use config)")
	)
	flag.Parse()

	cfg, err := config.LoadEngineConfig(*configFile)
	if err != nil {
		logs.Error("failed to load config: %v", err)
		os.Exit(1)
	}
	if *dataDir != "" {
		cfg.DataDir = *dataDir
	}
	if *networkID != 0 {
		cfg.NetworkID = *networkID
	}
	logs.SetLevel(config.LogLevelValue(cfg.LogLevel))

	programID := vaultcrypto.Keccak256([]byte("strikevault-core-v1"))
	eng, err := engine.New(programID, cfg)
	if err != nil {
		logs.Error("failed to start engine: %v", err)
		os.Exit(1)
	}
	defer eng.Close()

	logs.Info("vaultd started: dataDir=%s networkId=%d", cfg.DataDir, cfg.NetworkID)
	select {}
}
