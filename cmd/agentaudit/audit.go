package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/agentaudit-dev/agentaudit-cli/assist"
	"github.com/agentaudit-dev/agentaudit-cli/core/catalog"
	"github.com/agentaudit-dev/agentaudit-cli/core/collector"
	"github.com/agentaudit-dev/agentaudit-cli/core/enrich"
	"github.com/agentaudit-dev/agentaudit-cli/core/findings"
	"github.com/agentaudit-dev/agentaudit-cli/core/patterns"
	"github.com/agentaudit-dev/agentaudit-cli/core/policy"
	"github.com/agentaudit-dev/agentaudit-cli/core/report"
	"github.com/agentaudit-dev/agentaudit-cli/core/report/sarif"
	"github.com/agentaudit-dev/agentaudit-cli/core/toolpoison"
	"github.com/agentaudit-dev/agentaudit-cli/internal/apperr"
	"github.com/agentaudit-dev/agentaudit-cli/internal/config"
	"github.com/agentaudit-dev/agentaudit-cli/internal/logging"
)

func runAudit(args []string) int {
	fs := flag.NewFlagSet("audit", flag.ContinueOnError)
	var (
		modelFlag    string
		modelsFlag   string
		verifyFlag   string
		noVerify     bool
		formatFlag   string
		noUpload     bool
		debugFlag    bool
	)
	fs.StringVar(&modelFlag, "model", "", "explicit model override")
	fs.StringVar(&modelsFlag, "models", "", "comma-separated models for a multi-model audit")
	fs.StringVar(&verifyFlag, "verify", "", "verification mode: self, cross, or an explicit model id")
	fs.BoolVar(&noVerify, "no-verify", false, "skip the adversarial verification pass")
	fs.StringVar(&formatFlag, "format", "json", "output format: json or sarif")
	fs.BoolVar(&noUpload, "no-upload", false, "do not upload the report to the registry")
	fs.BoolVar(&debugFlag, "debug", false, "enable debug logging and a debug report preview")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "Usage: agentaudit audit <source> [flags]")
		return 2
	}

	logger := logging.New(logging.Options{Debug: debugFlag, JSON: logging.FormatFromEnv()})

	root, err := resolveSource(fs.Arg(0))
	if err != nil {
		return reportErr(err)
	}

	cfg, err := config.Load(root)
	if err != nil {
		return reportErr(apperr.Wrap(apperr.KindInput, "loading .agentaudit.yaml", err))
	}

	if modelFlag == "" && cfg.Audit.DefaultModel != "" {
		modelFlag = cfg.Audit.DefaultModel
	}
	if verifyFlag == "" {
		verifyFlag = cfg.Audit.VerifyMode
	}
	preferred := cfg.Audit.PreferredProvider

	logger.Info("collecting source", "root", root)
	coll, err := collector.Collect(root)
	if err != nil {
		return reportErr(apperr.Wrap(apperr.KindCollection, "collecting source", err))
	}

	baseFindings := runDeterministicAnalyzers(coll)

	opts := assist.Options{
		Preferred:    preferred,
		VerifyMode:   verifyFlag,
		NoVerify:     noVerify,
		BaseFindings: baseFindings,
	}
	if modelsFlag != "" {
		opts.Models = strings.Split(modelsFlag, ",")
	} else if modelFlag != "" {
		opts.Models = []string{modelFlag}
	}

	logger.Info("starting audit", "models", opts.Models)
	reports, consensus, err := assist.Audit(context.Background(), coll.Files, opts)
	if err != nil {
		return reportErr(err)
	}

	if consensus != nil {
		logger.Info("multi-model consensus",
			"risk_min", consensus.RiskMin, "risk_max", consensus.RiskMax,
			"unanimous", consensus.Unanimous)
	}

	outDir := cfg.Output.Directory
	if outDir == "" {
		outDir = "."
	}
	format := formatFlag
	if formatFlag == "json" && cfg.Output.Format != "" {
		format = cfg.Output.Format
	}

	worstExit := 0
	for i, r := range reports {
		r.ToolVersion = version
		r.SourceHash = collector.SourceHash(coll.Files)

		result := policy.Evaluate(policy.Config{}, r.FindingsCount, r.MaxSeverity)
		if result.ExitCode > worstExit {
			worstExit = result.ExitCode
		}
		fmt.Println(result.Summary)

		suffix := ""
		if len(reports) > 1 {
			suffix = fmt.Sprintf(".%d", i)
		}
		if err := writeReport(r, format, outDir, suffix); err != nil {
			return reportErr(err)
		}
		if debugFlag {
			if data, err := r.DebugJSON(); err == nil {
				logger.Debug("report preview", "json", string(data))
			}
		}
	}

	if !noUpload {
		logger.Debug("upload skipped: registry network transport is an external collaborator")
	}

	return worstExit
}

// runDeterministicAnalyzers runs C2 and C3 over a collection and returns
// their findings concatenated C2-then-C3 (tool-poisoning findings ordered by
// tool then category, pattern findings ordered by file then rule); the two
// passes are independent and share no mutable state.
func runDeterministicAnalyzers(coll *collector.Collection) []findings.Finding {
	toolPoisonFindings, _ := toolpoison.Detect(coll.Tools)
	patternFindings := patterns.New().ScanFiles(coll.Files)

	all := make([]findings.Finding, 0, len(toolPoisonFindings)+len(patternFindings))
	all = append(all, toolPoisonFindings...)
	all = append(all, patternFindings...)
	return all
}

func writeReport(r *report.Report, format, outDir, suffix string) error {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return apperr.Wrap(apperr.KindInput, "creating output directory", err)
	}

	for _, f := range strings.Split(format, ",") {
		switch strings.TrimSpace(f) {
		case "json":
			path := filepath.Join(outDir, "agentaudit-report"+suffix+".json")
			if err := r.WriteToFile(path); err != nil {
				return apperr.Wrap(apperr.KindInput, "writing JSON report", err)
			}
		case "sarif":
			fset := findings.NewFindingSet()
			fset.AddAll(r.Findings)
			reporter := sarif.NewReporter(r.ToolVersion)
			path := filepath.Join(outDir, "agentaudit-report"+suffix+".sarif")
			if err := reporter.WriteToFile(fset, path); err != nil {
				return apperr.Wrap(apperr.KindInput, "writing SARIF report", err)
			}
		default:
			return apperr.Newf(apperr.KindInput, "unknown output format %q", f)
		}
	}
	return nil
}

func reportErr(err error) int {
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	if ae, ok := err.(*apperr.Error); ok {
		return ae.Kind.ExitCode()
	}
	return 2
}

// listRules prints the merged rule catalog for the --list-rules debug helper.
func listRules() {
	for id, meta := range catalog.Catalog() {
		fmt.Printf("%s\t%s\t%s\t%s\n", id, meta.Severity, meta.Category, meta.Title)
	}
}

func enrichAndRecompute(fset *findings.FindingSet, files []collector.FileEntry, suppressions []config.SuppressionEntry) (int, string, findings.Severity) {
	enrich.ApplySuppressions(fset, suppressions)
	fset.Deduplicate()
	enrich.Enrich(fset, files)
	return enrich.Recompute(fset)
}
