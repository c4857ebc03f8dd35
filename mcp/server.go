// Package mcp provides the MCP (Model Context Protocol) server for strayscan.
package mcp

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/strayscan/strayscan/internal/analysis"
)

// Server represents the MCP server. It runs one scan per tool call; no state
// is carried between calls.
type Server struct {
	server *mcp.Server
}

// Tool represents an MCP tool.
type Tool struct {
	Name        string
	Description string
	InputSchema *jsonschema.Schema
}

// Resource represents an MCP resource.
type Resource struct {
	URI         string
	Name        string
	Description string
	MimeType    string
}

// NewServer creates a new MCP server.
func NewServer() *Server {
	s := &Server{}

	s.server = mcp.NewServer(&mcp.Implementation{
		Name:    "strayscan",
		Version: "0.1.0",
	}, nil)

	return s
}

// ListTools returns all registered tools.
func (s *Server) ListTools() []Tool {
	return []Tool{
		{
			Name:        "scan_orphans",
			Description: "Scan a project tree and return orphan files and likely entry points as JSON.",
			InputSchema: &jsonschema.Schema{
				Type: "object",
				Properties: map[string]*jsonschema.Schema{
					"path":   {Type: "string", Description: "Path to the project root"},
					"ignore": {Type: "string", Description: "Comma-separated glob patterns to ignore"},
				},
				Required: []string{"path"},
			},
		},
		{
			Name:        "scan_summary",
			Description: "Scan a project tree and return a short human-readable summary of the dependency graph.",
			InputSchema: &jsonschema.Schema{
				Type: "object",
				Properties: map[string]*jsonschema.Schema{
					"path": {Type: "string", Description: "Path to the project root"},
				},
				Required: []string{"path"},
			},
		},
	}
}

// ListResources returns all registered resources.
func (s *Server) ListResources() []Resource {
	return []Resource{
		{
			URI:         "strayscan://whitelist",
			Name:        "Entry Point Whitelist",
			Description: "Filename patterns that mark conventionally unreferenced files",
			MimeType:    "text/plain",
		},
		{
			URI:         "strayscan://rules",
			Name:        "Scan Rules",
			Description: "Recognized extensions and skipped directories",
			MimeType:    "text/plain",
		},
	}
}

// CallTool executes a tool with the given arguments.
func (s *Server) CallTool(ctx context.Context, name string, args map[string]any) (string, error) {
	switch name {
	case "scan_orphans":
		path, _ := args["path"].(string)
		ignore, _ := args["ignore"].(string)
		return handleScanOrphans(ctx, path, ignore)
	case "scan_summary":
		path, _ := args["path"].(string)
		return handleScanSummary(ctx, path)
	default:
		return "", fmt.Errorf("unknown tool: %s", name)
	}
}

// ReadResource reads a resource by URI.
func (s *Server) ReadResource(ctx context.Context, uri string) (string, error) {
	switch uri {
	case "strayscan://whitelist":
		return getWhitelist(), nil
	case "strayscan://rules":
		return getRules(), nil
	default:
		return "", fmt.Errorf("unknown resource: %s", uri)
	}
}

func handleScanOrphans(ctx context.Context, path, ignore string) (string, error) {
	result, err := runScan(ctx, path, ignore)
	if err != nil {
		return "", err
	}

	report := map[string]any{
		"orphans":             result.Orphans,
		"likely_entry_points": result.EntryPoints,
		"count":               len(result.Orphans),
	}
	out, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func handleScanSummary(ctx context.Context, path string) (string, error) {
	result, err := runScan(ctx, path, "")
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Scanned %d files: %d resolved references, %d unique edges.\n",
		result.TotalFiles, result.References, len(result.Edges))
	fmt.Fprintf(&sb, "Orphans: %d\n", len(result.Orphans))
	for _, f := range result.Orphans {
		fmt.Fprintf(&sb, "  - %s\n", f)
	}
	fmt.Fprintf(&sb, "Likely entry points: %d\n", len(result.EntryPoints))
	for _, f := range result.EntryPoints {
		fmt.Fprintf(&sb, "  - %s\n", f)
	}
	return sb.String(), nil
}

func runScan(ctx context.Context, path, ignore string) (*analysis.Result, error) {
	if path == "" {
		path = "."
	}

	cfg := analysis.DefaultConfig()
	if ignore != "" {
		for _, p := range strings.Split(ignore, ",") {
			p = strings.TrimSpace(p)
			if p != "" {
				cfg.IgnorePatterns = append(cfg.IgnorePatterns, p)
			}
		}
	}

	return analysis.Run(ctx, path, cfg, nil)
}

func getWhitelist() string {
	cfg := analysis.DefaultConfig()

	var sb strings.Builder
	sb.WriteString("Entry point filename patterns (case-insensitive, checked in order):\n")
	for _, p := range cfg.EntryPointPatterns {
		fmt.Fprintf(&sb, "  %s\n", p)
	}
	return sb.String()
}

func getRules() string {
	cfg := analysis.DefaultConfig()

	var sb strings.Builder
	sb.WriteString("Recognized extensions:\n")
	for _, ext := range cfg.Extensions {
		fmt.Fprintf(&sb, "  %s (%s)\n", ext, cfg.Dialects[ext])
	}
	sb.WriteString("Skipped directories:\n")
	for _, d := range cfg.SkipDirs {
		fmt.Fprintf(&sb, "  %s\n", d)
	}
	return sb.String()
}

// Run starts the MCP server with stdio transport.
func (s *Server) Run(ctx context.Context, stdin io.Reader, stdout io.Writer) error {
	if stdin == nil || stdout == nil {
		return fmt.Errorf("stdin and stdout must not be nil")
	}

	reader := bufio.NewReader(stdin)
	encoder := json.NewEncoder(stdout)
	// Note: Do NOT use SetIndent - MCP protocol requires compact JSON (one line per message)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		line, err := reader.ReadBytes('\n')
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}

		var req map[string]any
		if err := json.Unmarshal(line, &req); err != nil {
			continue
		}

		resp := s.handleRequest(ctx, req)
		if err := encoder.Encode(resp); err != nil {
			return err
		}
	}
}

func (s *Server) handleRequest(ctx context.Context, req map[string]any) map[string]any {
	method, _ := req["method"].(string)
	id := req["id"]

	switch method {
	case "initialize":
		return s.handleInitialize(id)
	case "tools/list":
		return s.handleToolsList(id)
	case "tools/call":
		return s.handleToolsCall(ctx, id, req)
	case "resources/list":
		return s.handleResourcesList(id)
	case "resources/read":
		return s.handleResourcesRead(ctx, id, req)
	default:
		return errorResponse(id, -32601, "Method not found: "+method)
	}
}

func (s *Server) handleInitialize(id any) map[string]any {
	return map[string]any{
		"jsonrpc": "2.0",
		"id":      id,
		"result": map[string]any{
			"protocolVersion": "2024-11-05",
			"serverInfo": map[string]any{
				"name":    "strayscan",
				"version": "0.1.0",
			},
			"capabilities": map[string]any{
				"tools": map[string]any{
					"listChanged": false,
				},
				"resources": map[string]any{
					"listChanged": false,
				},
			},
		},
	}
}

func (s *Server) handleToolsList(id any) map[string]any {
	tools := s.ListTools()
	toolList := make([]map[string]any, len(tools))
	for i, tool := range tools {
		schema, _ := json.Marshal(tool.InputSchema)
		var schemaMap map[string]any
		_ = json.Unmarshal(schema, &schemaMap)

		toolList[i] = map[string]any{
			"name":        tool.Name,
			"description": tool.Description,
			"inputSchema": schemaMap,
		}
	}

	return map[string]any{
		"jsonrpc": "2.0",
		"id":      id,
		"result": map[string]any{
			"tools": toolList,
		},
	}
}

func (s *Server) handleToolsCall(ctx context.Context, id any, req map[string]any) map[string]any {
	params, _ := req["params"].(map[string]any)
	if params == nil {
		return errorResponse(id, -32602, "Invalid params")
	}

	name, _ := params["name"].(string)
	args, _ := params["arguments"].(map[string]any)

	result, err := s.CallTool(ctx, name, args)
	if err != nil {
		return errorResponse(id, -32000, err.Error())
	}

	return map[string]any{
		"jsonrpc": "2.0",
		"id":      id,
		"result": map[string]any{
			"content": []map[string]any{
				{
					"type": "text",
					"text": result,
				},
			},
		},
	}
}

func (s *Server) handleResourcesList(id any) map[string]any {
	resources := s.ListResources()
	resourceList := make([]map[string]any, len(resources))
	for i, res := range resources {
		resourceList[i] = map[string]any{
			"uri":         res.URI,
			"name":        res.Name,
			"description": res.Description,
			"mimeType":    res.MimeType,
		}
	}

	return map[string]any{
		"jsonrpc": "2.0",
		"id":      id,
		"result": map[string]any{
			"resources": resourceList,
		},
	}
}

func (s *Server) handleResourcesRead(ctx context.Context, id any, req map[string]any) map[string]any {
	params, _ := req["params"].(map[string]any)
	if params == nil {
		return errorResponse(id, -32602, "Invalid params")
	}

	uri, _ := params["uri"].(string)

	content, err := s.ReadResource(ctx, uri)
	if err != nil {
		return errorResponse(id, -32000, err.Error())
	}

	return map[string]any{
		"jsonrpc": "2.0",
		"id":      id,
		"result": map[string]any{
			"contents": []map[string]any{
				{
					"uri":  uri,
					"text": content,
				},
			},
		},
	}
}

func errorResponse(id any, code int, message string) map[string]any {
	return map[string]any{
		"jsonrpc": "2.0",
		"id":      id,
		"error": map[string]any{
			"code":    code,
			"message": message,
		},
	}
}
