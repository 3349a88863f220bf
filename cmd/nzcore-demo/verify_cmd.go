package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/nzcore-labs/nzcore/pkg/nzconfig"
)

// runVerify implements `nzcore-demo verify <doc-id>`: runs the three-layer
// validator against the named document and prints the result.
//
// Exit codes:
//
//	0 = verification passed
//	1 = verification failed or document not found
//	2 = usage error
func runVerify(cfg *nzconfig.Config, args []string, stdout, stderr io.Writer) int {
	if len(args) < 1 {
		_, _ = fmt.Fprintln(stderr, "Usage: nzcore-demo verify <doc-id>")
		return 2
	}
	docID := args[0]

	f, err := loadFacade(cfg)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	snapshot := f.GetChainState()
	for _, doc := range snapshot.Documents {
		if doc.ID == docID {
			result := f.VerifyDocument(doc)
			out, _ := json.MarshalIndent(result, "", "  ")
			fmt.Fprintln(stdout, string(out))
			if !result.Final {
				return 1
			}
			return 0
		}
	}

	_, _ = fmt.Fprintf(stderr, "Error: document %q not found in chain\n", docID)
	return 1
}
