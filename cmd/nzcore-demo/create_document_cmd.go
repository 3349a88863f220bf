package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"

	"github.com/nzcore-labs/nzcore/pkg/nzconfig"
)

// runCreateDocument implements `nzcore-demo create-document --type <type> [--payload <json>]`.
func runCreateDocument(cfg *nzconfig.Config, args []string, stdout, stderr io.Writer) int {
	cmd := flag.NewFlagSet("create-document", flag.ContinueOnError)
	cmd.SetOutput(stderr)

	var (
		docType     string
		payloadJSON string
	)
	cmd.StringVar(&docType, "type", "", "Document type (REQUIRED)")
	cmd.StringVar(&payloadJSON, "payload", "", "Payload as a JSON object (optional)")

	if err := cmd.Parse(args); err != nil {
		return 2
	}
	if docType == "" {
		_, _ = fmt.Fprintln(stderr, "Error: --type is required")
		return 2
	}

	var payload map[string]interface{}
	if payloadJSON != "" {
		if err := json.Unmarshal([]byte(payloadJSON), &payload); err != nil {
			_, _ = fmt.Fprintf(stderr, "Error: --payload is not valid JSON: %v\n", err)
			return 2
		}
	}

	f, err := loadFacade(cfg)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	doc, err := f.CreateDocument(docType, payload)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: failed to create document: %v\n", err)
		return 1
	}

	if err := saveFacade(cfg, f); err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: failed to persist state: %v\n", err)
		return 1
	}

	out, _ := json.MarshalIndent(doc, "", "  ")
	fmt.Fprintln(stdout, string(out))
	return 0
}
