package collector

import (
	"encoding/json"
	"path/filepath"
	"strings"

	"github.com/agentaudit-dev/agentaudit-cli/internal/jsonscan"
)

// rawTool mirrors the wire shape of an MCP tool manifest entry. Field names
// match the JSON keys an MCP server's own manifest or declarative literal
// would use (the same shape mark3labs/mcp-go serialises as, per the MCP
// wire spec), even though the library's Go types are not imported directly.
type rawTool struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	InputSchema *rawSchema     `json:"inputSchema"`
}

type rawSchema struct {
	Type                 string                `json:"type"`
	Properties           map[string]rawProperty `json:"properties"`
	AdditionalProperties any                   `json:"additionalProperties"`
	Required             []string              `json:"required"`
}

type rawProperty struct {
	Type        string      `json:"type"`
	Description string      `json:"description"`
	Default     any         `json:"default"`
	Enum        []string    `json:"enum"`
}

// ExtractToolDefinitions recovers Tool Definitions from the collected file
// set. Two extraction paths are attempted: JSON manifests (mcp.json,
// tools.json, or any *.json file carrying a top-level "tools" array), which
// is the reliable path; and declarative object literals embedded in source
// files, extracted with the shared balanced-brace scanner, which is a
// best-effort fallback for servers that declare tools inline.
func ExtractToolDefinitions(files []FileEntry) []ToolDefinition {
	var tools []ToolDefinition
	seen := map[string]bool{}

	for _, f := range files {
		if strings.ToLower(filepath.Ext(f.Path)) == ".json" {
			for _, t := range extractFromJSONManifest(f.Content) {
				if seen[t.Name] {
					continue
				}
				seen[t.Name] = true
				tools = append(tools, t)
			}
		}
	}

	for _, f := range files {
		if strings.ToLower(filepath.Ext(f.Path)) == ".json" {
			continue
		}
		for _, t := range extractFromLiterals(f.Content) {
			if seen[t.Name] {
				continue
			}
			seen[t.Name] = true
			tools = append(tools, t)
		}
	}

	return tools
}

func extractFromJSONManifest(content string) []ToolDefinition {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal([]byte(content), &doc); err != nil {
		return nil
	}

	raw, ok := doc["tools"]
	if !ok {
		// Some manifests (tools.json) are themselves a bare array.
		var arr []rawTool
		if err := json.Unmarshal([]byte(content), &arr); err == nil && len(arr) > 0 {
			return toolsFromRaw(arr)
		}
		return nil
	}

	var arr []rawTool
	if err := json.Unmarshal(raw, &arr); err != nil {
		return nil
	}
	return toolsFromRaw(arr)
}

func extractFromLiterals(content string) []ToolDefinition {
	var out []ToolDefinition
	for _, block := range jsonscan.FindBalancedObjects(content) {
		if !strings.Contains(block, "\"name\"") {
			continue
		}
		var rt rawTool
		if err := json.Unmarshal([]byte(block), &rt); err != nil {
			continue
		}
		if rt.Name == "" {
			continue
		}
		out = append(out, toolFromRaw(rt))
	}
	return out
}

func toolsFromRaw(arr []rawTool) []ToolDefinition {
	out := make([]ToolDefinition, 0, len(arr))
	for _, rt := range arr {
		if rt.Name == "" {
			continue
		}
		out = append(out, toolFromRaw(rt))
	}
	return out
}

func toolFromRaw(rt rawTool) ToolDefinition {
	t := ToolDefinition{Name: rt.Name, Description: rt.Description}
	if rt.InputSchema != nil {
		t.InputSchema = schemaFromRaw(*rt.InputSchema)
	}
	return t
}

func schemaFromRaw(rs rawSchema) InputSchema {
	s := InputSchema{
		Type:     rs.Type,
		Required: rs.Required,
	}
	if b, ok := rs.AdditionalProperties.(bool); ok {
		s.AdditionalProperties = b
	}
	if len(rs.Properties) > 0 {
		s.Properties = make(map[string]Property, len(rs.Properties))
		for name, p := range rs.Properties {
			s.Properties[name] = Property{
				Type:        p.Type,
				Description: p.Description,
				Default:     p.Default,
				Enum:        p.Enum,
			}
		}
	}
	return s
}
