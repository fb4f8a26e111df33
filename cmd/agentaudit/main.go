// Package main is the entry point for the agentaudit CLI.
package main

import (
	"fmt"
	"os"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

// run executes the CLI and returns the process exit code: 0 clean, 1
// findings retained, 2 error.
func run(args []string) int {
	if len(args) == 0 {
		printUsage()
		return 2
	}

	command := args[0]
	rest := args[1:]

	switch command {
	case "audit":
		return runAudit(rest)
	case "scan":
		return runScan(rest)
	case "discover":
		return runDiscover(rest)
	case "lookup":
		return runLookup(rest)
	case "version", "--version", "-v":
		fmt.Printf("agentaudit %s (commit: %s, built: %s)\n", version, commit, date)
		return 0
	case "help", "--help", "-h":
		printUsage()
		return 0
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", command)
		printUsage()
		return 2
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, "Usage: agentaudit <command> [flags]\n\n")
	fmt.Fprintf(os.Stderr, "Commands:\n")
	fmt.Fprintf(os.Stderr, "  audit <source>   Run the full C1-C5 pipeline, including the LLM audit\n")
	fmt.Fprintf(os.Stderr, "  scan <source>    Run C1 collection + C3 pattern scan only, no LLM call\n")
	fmt.Fprintf(os.Stderr, "  discover         List MCP endpoints configured in .agentaudit.yaml\n")
	fmt.Fprintf(os.Stderr, "  lookup <name>    Query the AgentAudit registry for a prior report\n")
	fmt.Fprintf(os.Stderr, "  version          Print version and exit\n")
}
