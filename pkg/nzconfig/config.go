// Package nzconfig holds the library-embedding configuration used by the
// reference CLI. Security-relevant parameters (KDF cost knobs, the
// cryptographic suite) are pinned in pkg/cryptosuite and are not
// configurable here.
package nzconfig

import "os"

// Config holds the environment-derived settings the demo CLI needs to
// construct and persist a facade.
type Config struct {
	Mnemonic  string
	ChainID   string
	StateFile string
}

// Load reads NZCORE_MNEMONIC, NZCORE_CHAIN_ID, and NZCORE_STATE_FILE from
// the environment, falling back to sensible local defaults for anything
// unset except the mnemonic, which has none.
func Load() *Config {
	stateFile := os.Getenv("NZCORE_STATE_FILE")
	if stateFile == "" {
		stateFile = "nzcore-state.json"
	}

	return &Config{
		Mnemonic:  os.Getenv("NZCORE_MNEMONIC"),
		ChainID:   os.Getenv("NZCORE_CHAIN_ID"),
		StateFile: stateFile,
	}
}
