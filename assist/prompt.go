package assist

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/agentaudit-dev/agentaudit-cli/core/collector"
)

// systemPromptAsset is the three-phase UNDERSTAND/DETECT/CLASSIFY prompt,
// loaded from disk at build time and treated as an opaque blob: the
// orchestrator never parses or reimplements its phases, only the JSON shape
// of the response it asks for.
//
//go:embed assets/system_prompt.md
var systemPromptAsset string

// SystemPrompt returns the audit system prompt.
func SystemPrompt() string {
	return systemPromptAsset
}

// userPreamble introduces the file listing that follows.
const userPreamble = "Audit the following package. Every file in the collected source tree is included below, each preceded by a ### FILE marker giving its path.\n\n"

// BuildUserMessage concatenates the preamble with every collected file as a
// `### FILE: <path>` marker followed by a fenced content block.
func BuildUserMessage(files []collector.FileEntry) string {
	var b strings.Builder
	b.WriteString(userPreamble)
	for _, f := range files {
		fmt.Fprintf(&b, "### FILE: %s\n```\n%s\n```\n\n", f.Path, f.Content)
	}
	return b.String()
}
