package nzconfig_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nzcore-labs/nzcore/pkg/nzconfig"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("NZCORE_MNEMONIC", "")
	t.Setenv("NZCORE_CHAIN_ID", "")
	t.Setenv("NZCORE_STATE_FILE", "")

	cfg := nzconfig.Load()

	assert.Equal(t, "", cfg.Mnemonic)
	assert.Equal(t, "", cfg.ChainID)
	assert.Equal(t, "nzcore-state.json", cfg.StateFile)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("NZCORE_MNEMONIC", "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about")
	t.Setenv("NZCORE_CHAIN_ID", "deadbeef")
	t.Setenv("NZCORE_STATE_FILE", "/tmp/state.json")

	cfg := nzconfig.Load()

	assert.Contains(t, cfg.Mnemonic, "abandon")
	assert.Equal(t, "deadbeef", cfg.ChainID)
	assert.Equal(t, "/tmp/state.json", cfg.StateFile)
}
