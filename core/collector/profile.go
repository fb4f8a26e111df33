package collector

import (
	"path/filepath"
	"regexp"
	"strings"
)

// mcpSDKFingerprints are well-known substrings that identify a file as part
// of an MCP server implementation: Go, npm, and pip SDK import paths and
// decorator names, matched as literal substrings rather than parsed as Go,
// JS, or Python import syntax (see DESIGN.md).
var mcpSDKFingerprints = []string{
	"github.com/mark3labs/mcp-go",
	"@modelcontextprotocol/sdk",
	"modelcontextprotocol",
	"\"mcp\"",
	"from mcp import",
	"from mcp.server",
	"import mcp",
	"FastMCP",
}

var cliFrameworkFingerprints = []string{
	"#!/usr/bin/env", "#!/bin/sh", "#!/bin/bash",
	"click.command", "argparse.ArgumentParser", "cobra.Command",
	"yargs(", "commander.Command",
}

// extensionLanguage maps file extensions to a dominant-language label.
var extensionLanguage = map[string]string{
	".py": "python", ".js": "javascript", ".jsx": "javascript",
	".ts": "typescript", ".tsx": "typescript", ".go": "go",
	".rb": "ruby", ".java": "java", ".rs": "rust", ".c": "c", ".cpp": "c++",
	".cs": "c#", ".sh": "shell", ".php": "php", ".kt": "kotlin",
}

var manifestFiles = []string{"package.json", "pyproject.toml", "setup.py", "setup.cfg", "Cargo.toml"}

var versionPatterns = map[string]*regexp.Regexp{
	"package.json":   regexp.MustCompile(`"version"\s*:\s*"([^"]+)"`),
	"pyproject.toml": regexp.MustCompile(`(?m)^version\s*=\s*"([^"]+)"`),
	"setup.py":       regexp.MustCompile(`version\s*=\s*["']([^"']+)["']`),
	"setup.cfg":      regexp.MustCompile(`(?m)^version\s*=\s*(.+)$`),
	"Cargo.toml":     regexp.MustCompile(`(?m)^version\s*=\s*"([^"]+)"`),
}

// toolNamePatterns extract candidate tool names from MCP-bearing source.
// Each pattern's first capture group is the candidate name.
var toolNamePatterns = []*regexp.Regexp{
	regexp.MustCompile(`@mcp\.tool\(\s*\)\s*\n\s*(?:async\s+)?def\s+(\w+)`),
	regexp.MustCompile(`@(?:server|mcp)\.tool\(\s*["']([\w.-]+)["']`),
	regexp.MustCompile(`\.(?:registerTool|register_tool)\(\s*["']([\w.-]+)["']`),
	regexp.MustCompile(`Tool\(\s*name\s*=\s*["']([\w.-]+)["']`),
	regexp.MustCompile(`\{\s*name\s*:\s*["']([\w.-]+)["']\s*,\s*description\s*:`),
}

var promptNamePatterns = []*regexp.Regexp{
	regexp.MustCompile(`@mcp\.prompt\(\s*\)\s*\n\s*(?:async\s+)?def\s+(\w+)`),
	regexp.MustCompile(`@(?:server|mcp)\.prompt\(\s*["']([\w.-]+)["']`),
	regexp.MustCompile(`\.(?:registerPrompt|register_prompt)\(\s*["']([\w.-]+)["']`),
	regexp.MustCompile(`Prompt\(\s*name\s*=\s*["']([\w.-]+)["']`),
}

// identifierNoise is a blocklist of common but meaningless captured names.
var identifierNoise = map[string]bool{
	"self": true, "cls": true, "args": true, "kwargs": true, "name": true,
	"tool": true, "func": true, "function": true, "test": true, "main": true,
	"init": true, "index": true,
}

// DeriveProfile infers the Package Profile from a collected file set.
func DeriveProfile(files []FileEntry) PackageProfile {
	profile := PackageProfile{Kind: KindUnknown}

	langCounts := map[string]int{}
	hasMCP := false
	hasSkillMD := false
	hasCLISignal := false
	toolNames := map[string]bool{}
	promptNames := map[string]bool{}

	for _, f := range files {
		ext := strings.ToLower(filepath.Ext(f.Path))
		if lang, ok := extensionLanguage[ext]; ok {
			langCounts[lang]++
		}

		if filepath.Base(f.Path) == "SKILL.md" {
			hasSkillMD = true
		}

		fileHasMCP := false
		for _, fp := range mcpSDKFingerprints {
			if strings.Contains(f.Content, fp) {
				fileHasMCP = true
				break
			}
		}
		if fileHasMCP {
			hasMCP = true
		}
		if !hasCLISignal {
			for _, fp := range cliFrameworkFingerprints {
				if strings.Contains(f.Content, fp) {
					hasCLISignal = true
					break
				}
			}
		}

		if fileHasMCP {
			for _, re := range toolNamePatterns {
				for _, m := range re.FindAllStringSubmatch(f.Content, -1) {
					addCandidateName(toolNames, m[1])
				}
			}
			for _, re := range promptNamePatterns {
				for _, m := range re.FindAllStringSubmatch(f.Content, -1) {
					addCandidateName(promptNames, m[1])
				}
			}
		}
	}

	switch {
	case hasMCP:
		profile.Kind = KindMCPServer
	case hasSkillMD:
		profile.Kind = KindAgentSkill
	case hasCLISignal:
		profile.Kind = KindCLITool
	default:
		profile.Kind = KindLibrary
	}

	profile.Language = dominantLanguage(langCounts)
	profile.Version = extractVersion(files)
	profile.ToolNames = keysSorted(toolNames)
	profile.PromptNames = keysSorted(promptNames)
	profile.SuggestedEntry = suggestEntry(files)

	return profile
}

func addCandidateName(set map[string]bool, name string) {
	if len(name) < 3 || len(name) > 49 {
		return
	}
	if identifierNoise[strings.ToLower(name)] {
		return
	}
	set[name] = true
}

func dominantLanguage(counts map[string]int) string {
	best, bestCount := "", 0
	for lang, c := range counts {
		if c > bestCount || (c == bestCount && lang < best) {
			best, bestCount = lang, c
		}
	}
	return best
}

func extractVersion(files []FileEntry) string {
	byName := map[string]string{}
	for _, f := range files {
		byName[filepath.Base(f.Path)] = f.Content
	}
	for _, name := range manifestFiles {
		content, ok := byName[name]
		if !ok {
			continue
		}
		re := versionPatterns[name]
		m := re.FindStringSubmatch(content)
		if len(m) > 1 {
			return strings.Trim(strings.TrimSpace(m[1]), `"'`)
		}
	}
	return ""
}

func suggestEntry(files []FileEntry) string {
	candidates := []string{"main.py", "index.js", "index.ts", "server.py", "server.js", "main.go", "__main__.py"}
	byPath := map[string]bool{}
	for _, f := range files {
		byPath[f.Path] = true
	}
	for _, c := range candidates {
		if byPath[c] {
			return c
		}
	}
	for _, f := range files {
		if filepath.Base(f.Path) == "__main__.py" || filepath.Base(f.Path) == "main.py" {
			return f.Path
		}
	}
	return ""
}

func keysSorted(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	// Simple insertion sort keeps this allocation-free for small sets and
	// matches the deterministic-output requirement without importing sort
	// for a handful of entries.
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j-1] > out[j]; j-- {
			out[j-1], out[j] = out[j], out[j-1]
		}
	}
	return out
}
