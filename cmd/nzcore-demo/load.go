package main

import (
	"fmt"
	"os"

	"github.com/nzcore-labs/nzcore"
	"github.com/nzcore-labs/nzcore/pkg/nzconfig"
)

// loadFacade derives a facade from NZCORE_MNEMONIC and, if a state file
// already exists, restores its chain state from it.
func loadFacade(cfg *nzconfig.Config) (*nzcore.Facade, error) {
	if cfg.Mnemonic == "" {
		return nil, fmt.Errorf("NZCORE_MNEMONIC must be set")
	}

	f, err := nzcore.Create(cfg.Mnemonic, nzcore.Options{ChainID: cfg.ChainID})
	if err != nil {
		return nil, fmt.Errorf("derive identity: %w", err)
	}

	if _, err := os.Stat(cfg.StateFile); err == nil {
		blob, err := readStateFile(cfg.StateFile)
		if err != nil {
			return nil, fmt.Errorf("read state file: %w", err)
		}
		if err := f.ImportState(blob); err != nil {
			return nil, fmt.Errorf("import state: %w", err)
		}
	}

	return f, nil
}

// saveFacade exports and durably persists f's chain state to cfg.StateFile.
func saveFacade(cfg *nzconfig.Config, f *nzcore.Facade) error {
	blob, err := f.ExportState()
	if err != nil {
		return fmt.Errorf("export state: %w", err)
	}
	return writeStateFile(cfg.StateFile, blob)
}
