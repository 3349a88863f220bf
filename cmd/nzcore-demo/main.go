// Command nzcore-demo is a thin reference CLI wiring the nzcore facade to a
// local, fsync'd state file. It is not part of the library's public
// surface; it exists to exercise create_facade, create_document,
// verify_document, and export_state/import_state end to end.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/nzcore-labs/nzcore/pkg/nzconfig"
)

func main() {
	os.Exit(Run(os.Args, os.Stdout, os.Stderr))
}

// Run is the CLI entrypoint, factored out for testability.
func Run(args []string, stdout, stderr io.Writer) int {
	if len(args) < 2 {
		printUsage(stdout)
		return 2
	}

	cfg := nzconfig.Load()

	switch args[1] {
	case "init":
		return runInit(cfg, args[2:], stdout, stderr)
	case "create-document":
		return runCreateDocument(cfg, args[2:], stdout, stderr)
	case "show":
		return runShow(cfg, args[2:], stdout, stderr)
	case "verify":
		return runVerify(cfg, args[2:], stdout, stderr)
	case "help", "--help", "-h":
		printUsage(stdout)
		return 0
	default:
		_, _ = fmt.Fprintf(stderr, "Unknown command: %s\n", args[1])
		printUsage(stderr)
		return 2
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "nzcore-demo — reference CLI for the nzcore root-of-trust library")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "USAGE:")
	fmt.Fprintln(w, "  nzcore-demo <command> [flags]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "COMMANDS:")
	fmt.Fprintln(w, "  init                 Derive an identity and initialize chain state")
	fmt.Fprintln(w, "  create-document      Create, sign, and append a document")
	fmt.Fprintln(w, "  show                 Print the current chain state")
	fmt.Fprintln(w, "  verify <doc-id>      Verify one document in the chain")
	fmt.Fprintln(w, "  help                 Show this help")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "ENVIRONMENT:")
	fmt.Fprintln(w, "  NZCORE_MNEMONIC      BIP-39 mnemonic (required for init)")
	fmt.Fprintln(w, "  NZCORE_CHAIN_ID      Optional chain id override")
	fmt.Fprintln(w, "  NZCORE_STATE_FILE    Path to the state file (default nzcore-state.json)")
}
