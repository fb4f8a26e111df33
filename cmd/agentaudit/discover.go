package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/agentaudit-dev/agentaudit-cli/internal/apperr"
	"github.com/agentaudit-dev/agentaudit-cli/internal/config"
)

// runDiscover surfaces the MCP endpoints a project has declared in its own
// .agentaudit.yaml. It never probes a network: actually reaching out to an
// MCP server to enumerate its tools belongs to a collaborating registry
// service, not this build.
func runDiscover(args []string) int {
	fs := flag.NewFlagSet("discover", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return 2
	}

	root := "."
	if fs.NArg() > 0 {
		root = fs.Arg(0)
	}

	cfg, err := config.Load(root)
	if err != nil {
		return reportErr(apperr.Wrap(apperr.KindInput, "loading .agentaudit.yaml", err))
	}

	if len(cfg.Discover.Endpoints) == 0 {
		fmt.Println("no MCP endpoints declared under discover.endpoints in .agentaudit.yaml")
		return 0
	}

	for _, ep := range cfg.Discover.Endpoints {
		fmt.Fprintf(os.Stdout, "%s\t%s\t%s\n", ep.Name, ep.Transport, ep.Target)
	}
	return 0
}
