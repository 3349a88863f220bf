package main

import (
	"fmt"
	"io"

	"github.com/nzcore-labs/nzcore"
	"github.com/nzcore-labs/nzcore/pkg/nzconfig"
)

// runInit implements `nzcore-demo init`. It derives an identity from
// NZCORE_MNEMONIC, constructs a fresh chain, and persists its initial
// exported state to NZCORE_STATE_FILE.
func runInit(cfg *nzconfig.Config, args []string, stdout, stderr io.Writer) int {
	if cfg.Mnemonic == "" {
		_, _ = fmt.Fprintln(stderr, "Error: NZCORE_MNEMONIC must be set")
		return 2
	}

	f, err := nzcore.Create(cfg.Mnemonic, nzcore.Options{ChainID: cfg.ChainID})
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: failed to derive identity: %v\n", err)
		return 1
	}

	blob, err := f.ExportState()
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: failed to export state: %v\n", err)
		return 1
	}

	if err := writeStateFile(cfg.StateFile, blob); err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: failed to persist state: %v\n", err)
		return 1
	}

	fmt.Fprintf(stdout, "chain_id:       %s\n", f.GetChainID())
	fmt.Fprintf(stdout, "public_key:     %s\n", f.GetPublicKeyHex())
	fmt.Fprintf(stdout, "state_file:     %s\n", cfg.StateFile)
	return 0
}
