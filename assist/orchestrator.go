// Package assist implements the Audit Orchestrator (C4): provider
// selection, the context-limit guard, the three-phase prompt contract, the
// adversarial verification pass, and multi-model fan-out with consensus.
package assist

import (
	"context"
	"encoding/json"
	"regexp"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/agentaudit-dev/agentaudit-cli/core/collector"
	"github.com/agentaudit-dev/agentaudit-cli/core/enrich"
	"github.com/agentaudit-dev/agentaudit-cli/core/findings"
	"github.com/agentaudit-dev/agentaudit-cli/core/report"
	"github.com/agentaudit-dev/agentaudit-cli/internal/apperr"
)

// Options controls one Audit invocation.
type Options struct {
	// Models lists explicit per-invocation model overrides. A single entry
	// runs a single-model audit; more than one triggers multi-model
	// fan-out with cross-model consensus.
	Models []string

	// Preferred is a persisted preferred-provider key, consulted when
	// Models is empty.
	Preferred string

	// VerifyMode is "", "self", "cross", or an explicit model id.
	// Ignored when NoVerify is true.
	VerifyMode string
	NoVerify   bool

	// BaseFindings carries the deterministic pattern- and tool-poisoning
	// findings computed ahead of the LLM call, so the final report merges
	// them with the LLM-sourced findings before enrichment and scoring.
	// Seeded ahead of the LLM findings, so on a fingerprint collision
	// deduplication keeps the deterministic finding; report.Build then
	// orders the merged set by pattern_id, file and line.
	BaseFindings []findings.Finding
}

// familyPattern classifies a model name into a
// coarse "family" so cross-model verification can pick a model whose name
// does not share the scanner's family.
var familyPattern = map[string]*regexp.Regexp{
	"anthropic": regexp.MustCompile(`(?i)^claude`),
	"gemini":    regexp.MustCompile(`(?i)^gemini`),
	"openai":    regexp.MustCompile(`(?i)^gpt`),
}

func familyOf(model string) string {
	for fam, re := range familyPattern {
		if re.MatchString(model) {
			return fam
		}
	}
	return "other"
}

// crossVerifierModel picks a model from a different family than scannerModel
// for "cross" verification mode, falling back to OpenRouter's default model
// (a distinct provider surface) when no provider of a different family has
// its key present.
func crossVerifierModel(scannerModel string) string {
	fam := familyOf(scannerModel)
	for _, e := range providerTable {
		if familyOf(e.DefaultModel) != fam && keyPresent(e) {
			return e.DefaultModel
		}
	}
	return openRouter().DefaultModel
}

// Audit runs a complete single- or multi-model audit over files and returns
// one report.Report per requested model plus, for multi-model runs, a
// Consensus view. A single-model call with no explicit Models entry uses
// ResolveProvider's selection precedence.
func Audit(ctx context.Context, files []collector.FileEntry, opts Options) ([]*report.Report, *Consensus, error) {
	models := opts.Models
	if len(models) == 0 {
		// An empty model lets auditOneModel resolve provider and default
		// model together, without treating the default as an override.
		models = []string{""}
	}

	if len(models) == 1 {
		r, err := auditOneModel(ctx, files, models[0], opts)
		if err != nil {
			return nil, nil, err
		}
		return []*report.Report{r}, nil, nil
	}

	reports := make([]*report.Report, len(models))
	g, gctx := errgroup.WithContext(ctx)
	for i, model := range models {
		i, model := i, model
		g.Go(func() error {
			r, err := auditOneModel(gctx, files, model, opts)
			if err != nil {
				// Independent failures do not block peers; a nil slot is
				// dropped from the consensus below.
				return nil
			}
			reports[i] = r
			return nil
		})
	}
	_ = g.Wait()

	var kept []*report.Report
	for _, r := range reports {
		if r != nil {
			kept = append(kept, r)
		}
	}
	if len(kept) == 0 {
		return nil, nil, apperr.New(apperr.KindProviderServer, "every model in the multi-model audit failed")
	}

	return kept, BuildConsensus(kept), nil
}

// auditOneModel runs the primary call, optional verification pass, and
// enrichment for a single model.
func auditOneModel(ctx context.Context, files []collector.FileEntry, model string, opts Options) (*report.Report, error) {
	entry, resolvedModel := ResolveProvider(model, opts.Preferred)
	if model != "" {
		resolvedModel = model
	}

	system := SystemPrompt()
	user := BuildUserMessage(files)

	if _, err := guardContext(resolvedModel, system, user); err != nil {
		return nil, err
	}

	provider, err := NewProvider(entry, resolvedModel)
	if err != nil {
		return nil, err
	}

	start := timeNow()

	callCtx, cancel := context.WithTimeout(ctx, 180*time.Second)
	defer cancel()

	resp, err := provider.Complete(callCtx, []Message{
		{Role: RoleSystem, Content: system},
		{Role: RoleUser, Content: user},
	})
	if err != nil {
		return nil, apperr.Wrap(apperr.KindProviderServer, "provider call failed", err)
	}

	fs := findings.NewFindingSet()
	fs.AddAll(opts.BaseFindings)
	var parsed parsedAuditResponse
	outputTruncated := resp.Truncated()

	candidate, ok := ExtractJSON(resp.Content)
	if !ok {
		return nil, apperr.Newf(apperr.KindProviderParse, "could not extract a findings report from the model response: %s", errorPreview(resp.Content))
	}
	if err := json.Unmarshal([]byte(candidate), &parsed); err != nil {
		return nil, apperr.Wrap(apperr.KindProviderParse, "invalid JSON in model response", err)
	}
	fs.AddAll(parsed.Findings)
	fs.Deduplicate()
	enrich.Enrich(fs, files)

	riskScore, result, maxSeverity := enrich.Recompute(fs)
	r := report.Build(fs, riskScore, result, maxSeverity)
	r.SkillSlug = parsed.SkillSlug
	r.SourceURL = parsed.SourceURL
	r.PackageType = parsed.PackageType
	r.PackageVersion = parsed.PackageVersion
	r.AuditModel = resolvedModel
	r.AuditProvider = entry.Key
	r.OutputTruncated = outputTruncated
	r.DurationMillis = timeNow().Sub(start).Milliseconds()
	r.TokenUsage = &report.TokenUsage{
		PromptTokens:     resp.PromptTokens,
		CompletionTokens: resp.CompletionTokens,
		TotalTokens:      resp.PromptTokens + resp.CompletionTokens,
	}

	if opts.NoVerify || opts.VerifyMode == "" {
		return r, nil
	}

	verifierModel := resolvedModel
	switch opts.VerifyMode {
	case "self":
		verifierModel = resolvedModel
	case "cross":
		verifierModel = crossVerifierModel(resolvedModel)
	default:
		verifierModel = opts.VerifyMode
	}

	verifierEntry, _ := ResolveProvider(verifierModel, opts.Preferred)
	verifierProvider, err := NewProvider(verifierEntry, verifierModel)
	if err != nil {
		// Verification is optional; a failure to construct the verifier
		// does not fail the whole audit.
		return r, nil
	}

	outcome := RunVerification(ctx, verifierProvider, verifierModel, fs, files)
	riskScore, result, maxSeverity = enrich.Recompute(fs)
	r = report.Build(fs, riskScore, result, maxSeverity)
	r.SkillSlug = parsed.SkillSlug
	r.SourceURL = parsed.SourceURL
	r.PackageType = parsed.PackageType
	r.PackageVersion = parsed.PackageVersion
	r.AuditModel = resolvedModel
	r.AuditProvider = entry.Key
	r.OutputTruncated = outputTruncated
	r.DurationMillis = timeNow().Sub(start).Milliseconds()
	r.TokenUsage = &report.TokenUsage{
		PromptTokens:     resp.PromptTokens,
		CompletionTokens: resp.CompletionTokens,
		TotalTokens:      resp.PromptTokens + resp.CompletionTokens,
	}
	r.Verification = &report.VerificationMeta{
		Model:      outcome.Model,
		Verified:   outcome.Verified,
		Demoted:    outcome.Demoted,
		Rejected:   outcome.Rejected,
		Unverified: outcome.Unverified,
	}

	return r, nil
}

// parsedAuditResponse mirrors the subset of report.Report fields the LLM is
// asked to populate directly; risk_score, max_severity, findings_count, and
// result are recomputed deterministically by the enricher rather than
// trusted from the model.
type parsedAuditResponse struct {
	SkillSlug      string             `json:"skill_slug"`
	SourceURL      string             `json:"source_url"`
	PackageType    string             `json:"package_type"`
	PackageVersion string             `json:"package_version"`
	Findings       []findings.Finding `json:"findings"`
}

var nonAlphanumeric = regexp.MustCompile(`[^a-z0-9]+`)

// normalizeTitle builds the finding-fusion key used to match the same
// finding across models: lowercase, non-alphanumerics collapsed to single
// spaces, trimmed.
func normalizeTitle(title string) string {
	lower := strings.ToLower(title)
	collapsed := nonAlphanumeric.ReplaceAllString(lower, " ")
	return strings.TrimSpace(collapsed)
}

// Consensus is the deterministic cross-model view built from a multi-model
// audit's per-model reports.
type Consensus struct {
	RiskMin           int
	RiskMax           int
	RiskMean          float64
	Unanimous         bool
	SeverityByModel   map[string]findings.Severity
	Shared            []string
	UniqueByModel     map[string][]string
}

// BuildConsensus derives a Consensus from a set of per-model reports that
// all succeeded.
func BuildConsensus(reports []*report.Report) *Consensus {
	c := &Consensus{
		SeverityByModel: make(map[string]findings.Severity, len(reports)),
		UniqueByModel:   make(map[string][]string),
	}

	sum := 0
	c.RiskMin = reports[0].RiskScore
	c.RiskMax = reports[0].RiskScore
	for _, r := range reports {
		sum += r.RiskScore
		if r.RiskScore < c.RiskMin {
			c.RiskMin = r.RiskScore
		}
		if r.RiskScore > c.RiskMax {
			c.RiskMax = r.RiskScore
		}
		c.SeverityByModel[r.AuditModel] = r.MaxSeverity
	}
	c.RiskMean = float64(sum) / float64(len(reports))

	c.Unanimous = true
	first := reports[0].MaxSeverity
	for _, r := range reports[1:] {
		if r.MaxSeverity != first {
			c.Unanimous = false
			break
		}
	}

	keyCount := make(map[string]int)
	keyModels := make(map[string][]string)
	var keyOrder []string
	for _, r := range reports {
		seen := make(map[string]bool)
		for _, f := range r.Findings {
			key := normalizeTitle(f.Title)
			if key == "" || seen[key] {
				continue
			}
			seen[key] = true
			if keyCount[key] == 0 {
				keyOrder = append(keyOrder, key)
			}
			keyCount[key]++
			keyModels[key] = append(keyModels[key], r.AuditModel)
		}
	}

	for _, key := range keyOrder {
		count := keyCount[key]
		if count >= 2 {
			c.Shared = append(c.Shared, key)
			continue
		}
		model := keyModels[key][0]
		c.UniqueByModel[model] = append(c.UniqueByModel[model], key)
	}

	return c
}

// timeNow is isolated behind a function so duration measurement reads
// naturally at call sites without importing time.Now() directly into logic
// that must stay deterministic under test via dependency substitution.
var timeNow = time.Now
