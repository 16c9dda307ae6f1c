// mailmerge is a CLI mail-merge pipeline: bind CSV records to a template,
// render reviewable per-record previews, then deliver the results over
// SMTP or as mailbox drafts.
//
// Usage:
//
//	mailmerge generate -csv <file> -template <file> -layout <file> -output <dir>
//	                                Render previews + sidecars for every record
//	mailmerge regenerate <dir>      Rerender previews after hand edits
//	mailmerge send <dir>            Send pending jobs over the configured transport
//	mailmerge upload-drafts <dir>   Upload pending jobs to Gmail drafts
//
// The directory argument is always the sidecar root of a generate run.
// Jobs already dispatched live under <dir>/sent and are never reprocessed.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/dmitrymomot/mailmerge/pkg/engine"
	"github.com/dmitrymomot/mailmerge/pkg/engine/markdown"
	"github.com/dmitrymomot/mailmerge/pkg/logger"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	cmd, args := os.Args[1], os.Args[2:]

	log := logger.New(logger.Config{Level: logLevel()})

	var err error
	switch cmd {
	case "help", "--help", "-h":
		printUsage()
		return
	case "version", "--version", "-v":
		fmt.Printf("mailmerge version %s\n", version)
		return
	case "generate":
		err = cmdGenerate(args, log)
	case "regenerate":
		err = cmdRegenerate(args, log)
	case "send":
		err = cmdSend(args, log)
	case "upload-drafts":
		err = cmdUploadDrafts(args, log)
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", cmd)
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		log.Error("command failed", slog.String("command", cmd), slog.String("reason", err.Error()))
		os.Exit(1)
	}
}

// buildRegistry lists every engine this binary ships. Unknown engine names
// coming from sidecars fail with a typed error instead of a nil lookup.
func buildRegistry() *engine.Registry {
	registry := engine.NewRegistry()
	registry.Register(markdown.Name, markdown.Factory)
	return registry
}

func logLevel() slog.Leveler {
	if os.Getenv("MAILMERGE_DEBUG") != "" {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}

func printUsage() {
	fmt.Fprint(os.Stderr, `mailmerge: CSV to email pipeline with reviewable previews

Commands:
  generate       Render previews + sidecars from a CSV and a template
  regenerate     Rerender previews after hand edits
  send           Send pending jobs (SMTP or Resend)
  upload-drafts  Upload pending jobs to Gmail drafts
  version        Print version

Run "mailmerge <command> -h" for command flags.
Transport credentials come from the config file (-config) or environment;
see the example config in the repository README.
`)
}
