// Package main provides templatectl, the maintenance tool for the Unraid
// template repository.
//
// Usage:
//
//	templatectl <command> [flags] <templates-dir>
//
// Commands:
//
//	validate <templates-dir>  - Check every template against the quality rules
//	update <templates-dir>    - Pull upstream compose changes into templates
//	index <templates-dir>     - Render the GitHub Pages index from templates
//	version                   - Show version
//
// Each command accepts -config pointing at a YAML config file; settings can
// also come from TEMPLATECTL_* environment variables.
package main

import (
	"fmt"
	"os"
)

// Version information (set by build)
var (
	Version   = "dev"
	BuildTime = "unknown"
)

// Exit codes.
const (
	ExitSuccess          = 0
	ExitUsageError       = 1
	ExitConfigError      = 2
	ExitValidationFailed = 3
	ExitUpdateFailed     = 4
	ExitIndexFailed      = 5
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) < 1 {
		usage()
		return ExitUsageError
	}

	cmd := args[0]
	rest := args[1:]

	switch cmd {
	case "validate":
		return validateCmd(rest)
	case "update":
		return updateCmd(rest)
	case "index":
		return indexCmd(rest)
	case "version":
		fmt.Printf("templatectl %s (built %s)\n", Version, BuildTime)
		return ExitSuccess
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n\n", cmd)
		usage()
		return ExitUsageError
	}
}

func usage() {
	fmt.Fprint(os.Stderr, `usage: templatectl <command> [flags] <templates-dir>

commands:
  validate <templates-dir>  check every template against the quality rules
  update <templates-dir>    pull upstream compose changes into templates
  index <templates-dir>     render the GitHub Pages index from templates
  version                   show version

flags:
  -config <file>            path to YAML config file
`)
}
