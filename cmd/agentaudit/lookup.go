package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/agentaudit-dev/agentaudit-cli/internal/apperr"
)

// runLookup would query the AgentAudit registry for a prior report on name.
// The registry's network transport lives in a separate service: this build
// never makes that call and says so plainly instead of silently returning
// empty results.
func runLookup(args []string) int {
	fs := flag.NewFlagSet("lookup", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "Usage: agentaudit lookup <name>")
		return 2
	}

	err := apperr.Newf(apperr.KindInput, "registry lookup for %q is not implemented in this build", fs.Arg(0)).
		WithHint("the AgentAudit registry is a separate network service; run a local audit instead")
	return reportErr(err)
}
