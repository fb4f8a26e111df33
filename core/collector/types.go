// Package collector implements the Source Collector (C1): bounded,
// symlink-safe traversal of a package tree, file classification, and
// Package Profile / Tool Definition extraction.
package collector

// FileEntry is a single collected file: its repo-relative path, its UTF-8
// decoded content, and its byte length.
type FileEntry struct {
	Path    string
	Content string
	Size    int
}

// PackageKind is the closed set of package shapes C1 can infer.
type PackageKind string

const (
	KindMCPServer  PackageKind = "mcp-server"
	KindAgentSkill PackageKind = "agent-skill"
	KindCLITool    PackageKind = "cli-tool"
	KindLibrary    PackageKind = "library"
	KindUnknown    PackageKind = "unknown"
)

// PackageProfile summarises the shape of a collected package.
type PackageProfile struct {
	Kind             PackageKind
	Language         string
	Version          string
	ToolNames        []string
	PromptNames      []string
	SuggestedEntry   string
}

// Property describes one entry of a Tool Definition's inputSchema.properties
// map. It may itself carry a nested schema.
type Property struct {
	Type        string
	Description string
	Default     any
	Enum        []string
	Items       *Property
	Properties  map[string]Property
}

// InputSchema is the recursive JSON-shaped schema carried by a Tool
// Definition.
type InputSchema struct {
	Type                 string
	Properties           map[string]Property
	AdditionalProperties bool
	Required             []string
	Items                *Property
	Enum                 []string
}

// ToolDefinition is a single MCP tool: name, description, and input schema.
// This is a bespoke type rather than an import of a third-party MCP SDK's
// Go struct — see DESIGN.md for why mark3labs/mcp-go's Go API is not used
// directly.
type ToolDefinition struct {
	Name        string
	Description string
	InputSchema InputSchema
}

// Collection is the full output of C1: the file set plus the derived
// Package Profile and any Tool Definitions extracted from MCP-bearing files.
type Collection struct {
	Files   []FileEntry
	Profile PackageProfile
	Tools   []ToolDefinition
}
