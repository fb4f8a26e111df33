package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/agentaudit-dev/agentaudit-cli/core/collector"
	"github.com/agentaudit-dev/agentaudit-cli/core/findings"
	"github.com/agentaudit-dev/agentaudit-cli/core/patterns"
	"github.com/agentaudit-dev/agentaudit-cli/core/policy"
	"github.com/agentaudit-dev/agentaudit-cli/core/report"
	"github.com/agentaudit-dev/agentaudit-cli/internal/apperr"
	"github.com/agentaudit-dev/agentaudit-cli/internal/config"
)

// runScan runs source collection plus the pattern scan only — no LLM call,
// no tool-poisoning pass. --deep re-dispatches to the full audit pipeline.
func runScan(args []string) int {
	fs := flag.NewFlagSet("scan", flag.ContinueOnError)
	var (
		deepFlag      bool
		formatFlag    string
		listRulesFlag bool
	)
	fs.BoolVar(&deepFlag, "deep", false, "forward to the full audit pipeline")
	fs.StringVar(&formatFlag, "format", "json", "output format: json or sarif")
	fs.BoolVar(&listRulesFlag, "list-rules", false, "print the merged rule catalog and exit")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	if listRulesFlag {
		listRules()
		return 0
	}

	if deepFlag {
		return runAudit(withoutDeepFlag(args))
	}

	if fs.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "Usage: agentaudit scan <source> [flags]")
		return 2
	}

	root, err := resolveSource(fs.Arg(0))
	if err != nil {
		return reportErr(err)
	}

	cfg, err := config.Load(root)
	if err != nil {
		return reportErr(apperr.Wrap(apperr.KindInput, "loading .agentaudit.yaml", err))
	}

	coll, err := collector.Collect(root)
	if err != nil {
		return reportErr(apperr.Wrap(apperr.KindCollection, "collecting source", err))
	}

	fset := findings.NewFindingSet()
	fset.AddAll(patterns.New().ScanFiles(coll.Files))

	riskScore, resultStr, maxSeverity := enrichAndRecompute(fset, coll.Files, cfg.Suppress)

	r := report.Build(fset, riskScore, resultStr, maxSeverity)
	r.PackageType = string(coll.Profile.Kind)
	r.PackageVersion = coll.Profile.Version
	r.ToolVersion = version
	r.SourceHash = collector.SourceHash(coll.Files)

	policyResult := policy.Evaluate(policy.Config{}, r.FindingsCount, r.MaxSeverity)
	fmt.Println(policyResult.Summary)

	outDir := cfg.Output.Directory
	if outDir == "" {
		outDir = "."
	}
	format := formatFlag
	if formatFlag == "json" && cfg.Output.Format != "" {
		format = cfg.Output.Format
	}
	if err := writeReport(r, format, outDir, ""); err != nil {
		return reportErr(err)
	}

	return policyResult.ExitCode
}

// withoutDeepFlag strips --deep (and its =value form, though it takes none)
// before re-dispatching to runAudit, which knows nothing about scan's flags.
func withoutDeepFlag(args []string) []string {
	out := make([]string, 0, len(args))
	for _, a := range args {
		if a == "--deep" || a == "-deep" || strings.HasPrefix(a, "--deep=") {
			continue
		}
		out = append(out, a)
	}
	return out
}
