package toolpoison

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/agentaudit-dev/agentaudit-cli/core/findings"
)

var urlPattern = regexp.MustCompile(`https?://[^\s"'<>\)\]]+`)

// allowlistedExactHosts and allowlistedFirstLabels list the hosts considered
// routine: exact host names, plus "api.*"/"docs.*"/"www.*", which match any
// host whose first label is that literal word.
var allowlistedExactHosts = map[string]bool{
	"github.com":  true,
	"npmjs.com":   true,
	"pypi.org":    true,
}

var allowlistedFirstLabels = map[string]bool{
	"api":  true,
	"docs": true,
	"www":  true,
}

// blocklistedHosts are known tunnel/interception services.
var blocklistedHosts = map[string]bool{
	"ngrok.io":        true,
	"ngrok-free.app":  true,
	"serveo.net":      true,
	"localtunnel.me":  true,
	"localhost":       true,
	"127.0.0.1":       true,
	"0.0.0.0":         true,
	"burpcollaborator.net": true,
	"oast.fun":        true,
	"oast.pro":        true,
	"oast.live":       true,
	"oast.site":       true,
	"interact.sh":     true,
	"webhook.site":    true,
	"requestbin.com":  true,
	"pipedream.net":   true,
}

// scanSuspiciousURL flags URLs referencing a blocklisted host or any host
// outside the allowlist, over a single tool field.
func scanSuspiciousURL(field, text string) []findings.Finding {
	var out []findings.Finding
	seen := map[string]bool{}

	for _, raw := range urlPattern.FindAllString(text, -1) {
		parsed, err := url.Parse(raw)
		if err != nil || parsed.Hostname() == "" {
			continue
		}
		host := strings.ToLower(parsed.Hostname())
		if seen[host] {
			continue
		}
		seen[host] = true

		if blocklistedHosts[host] {
			out = append(out, findings.Finding{
				PatternID:   "TP_URL_001",
				Category:    findings.CategorySuspiciousURL,
				Severity:    findings.SeverityHigh,
				Confidence:  findings.ConfidenceHigh,
				Title:       "Tunnel or interception host referenced",
				Description: fmt.Sprintf("The %s field references %s, a known tunneling or out-of-band interception service.", field, host),
				Evidence:    raw,
			})
			continue
		}

		if isAllowlistedHost(host) {
			continue
		}

		out = append(out, findings.Finding{
			PatternID:   "TP_URL_002",
			Category:    findings.CategorySuspiciousURL,
			Severity:    findings.SeverityMedium,
			Confidence:  findings.ConfidenceLow,
			Title:       "External URL outside the allowlist",
			Description: fmt.Sprintf("The %s field references %s, which is neither a recognized documentation/registry host nor a known interception host.", field, host),
			Evidence:    raw,
		})
	}

	return out
}

func isAllowlistedHost(host string) bool {
	if allowlistedExactHosts[host] {
		return true
	}
	labels := strings.Split(host, ".")
	if len(labels) > 0 && allowlistedFirstLabels[labels[0]] {
		return true
	}
	return false
}
