package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/nzcore-labs/nzcore/pkg/nzconfig"
)

// runShow implements `nzcore-demo show`, printing the chain's summary and
// its documents as JSON.
func runShow(cfg *nzconfig.Config, args []string, stdout, stderr io.Writer) int {
	f, err := loadFacade(cfg)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	snapshot := f.GetChainState()
	out, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: failed to marshal chain state: %v\n", err)
		return 1
	}
	fmt.Fprintln(stdout, string(out))

	if forks := f.DetectFork(); len(forks) > 0 {
		forkJSON, _ := json.MarshalIndent(forks, "", "  ")
		fmt.Fprintf(stderr, "WARNING: %d fork(s) detected:\n%s\n", len(forks), string(forkJSON))
	}
	return 0
}
