// Package cmd provides CLI command implementations for strayscan.
package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/fatih/color"

	"github.com/strayscan/strayscan/internal/analysis"
	"github.com/strayscan/strayscan/mcp"
)

// Version is set at build time via ldflags.
var Version = "dev"

// ScanCmd analyzes a project tree for orphan source files.
type ScanCmd struct {
	Path    string `arg:"" optional:"" default:"." help:"Path to project root"`
	Format  string `help:"Output format (json|text)" enum:"json,text" default:"text"`
	Ignore  string `help:"Comma-separated glob patterns to ignore"`
	Workers int    `help:"Extraction worker count (default: CPU count)"`
}

// Run executes the scan command.
func (c *ScanCmd) Run() error {
	ctx := context.Background()

	cfg := analysis.DefaultConfig()
	cfg.IgnorePatterns = splitPatterns(c.Ignore)
	cfg.Workers = c.Workers

	warn := color.New(color.FgYellow)
	cfg.Warn = func(format string, args ...any) {
		warn.Fprintf(os.Stderr, "warning: "+format+"\n", args...)
	}

	var progress analysis.ProgressCallback
	if c.Format == "text" {
		progress = func(phase string, pct float64) {
			fmt.Fprintf(os.Stderr, "\r\033[K%s (%.0f%%)", phase, pct*100)
		}
	}

	result, err := analysis.Run(ctx, c.Path, cfg, progress)
	if err != nil {
		return fmt.Errorf("running scan: %w", err)
	}

	if c.Format == "text" {
		fmt.Fprintln(os.Stderr)
		return renderText(os.Stdout, result)
	}
	return renderJSON(os.Stdout, result)
}

// jsonReport is the JSON output contract consumed by downstream tooling.
type jsonReport struct {
	Orphans           []string `json:"orphans"`
	LikelyEntryPoints []string `json:"likely_entry_points"`
	Count             int      `json:"count"`
}

func renderJSON(w io.Writer, result *analysis.Result) error {
	report := jsonReport{
		Orphans:           result.Orphans,
		LikelyEntryPoints: result.EntryPoints,
		Count:             len(result.Orphans),
	}
	if report.Orphans == nil {
		report.Orphans = []string{}
	}
	if report.LikelyEntryPoints == nil {
		report.LikelyEntryPoints = []string{}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

func renderText(w io.Writer, result *analysis.Result) error {
	fmt.Fprintf(w, "Found %d potential orphan files.\n", len(result.Orphans))
	fmt.Fprintln(w, strings.Repeat("-", 60))

	if len(result.EntryPoints) > 0 {
		fmt.Fprintln(w, "\nLikely Entry Points (Whitelisted):")
		for _, f := range result.EntryPoints {
			fmt.Fprintf(w, "  [OK] %s\n", f)
		}
	}

	fmt.Fprintln(w, "\nPotential Orphans (No Inbound References):")
	if len(result.Orphans) == 0 {
		fmt.Fprintln(w, "  (None found)")
	} else {
		for _, f := range result.Orphans {
			fmt.Fprintf(w, "  [?] %s\n", f)
		}
	}

	fmt.Fprintln(w, "\n"+strings.Repeat("-", 60))
	fmt.Fprintf(w, "Scanned %d files, %d resolved references, %d unique edges in %.2fs\n",
		result.TotalFiles, result.References, len(result.Edges), result.DurationSecs)
	fmt.Fprintln(w, "Tip: Verify these files are truly unused before deleting.")
	return nil
}

func splitPatterns(raw string) []string {
	if raw == "" {
		return nil
	}

	var patterns []string
	for _, p := range strings.Split(raw, ",") {
		p = strings.TrimSpace(p)
		if p != "" {
			patterns = append(patterns, p)
		}
	}
	return patterns
}

// MCPCmd starts the MCP server on stdio.
type MCPCmd struct{}

// Run executes the mcp command.
func (c *MCPCmd) Run() error {
	server := mcp.NewServer()

	// Note: No output to stderr - MCP server uses stdio for JSON-RPC only
	return server.Run(context.Background(), os.Stdin, os.Stdout)
}

// CLI is the root Kong command structure.
type CLI struct {
	Version kong.VersionFlag `help:"Show version information"`

	// Commands
	Scan ScanCmd `cmd:"" default:"withargs" help:"Find orphan source files in a project tree"`
	MCP  MCPCmd  `cmd:"" help:"Start MCP server (stdio transport)"`
}

// NewCLI creates a new CLI instance.
func NewCLI() *CLI {
	return &CLI{}
}

// Execute parses command-line arguments and executes the selected command.
func (c *CLI) Execute(args []string) error {
	kongCtx := kong.Parse(c,
		kong.Name("strayscan"),
		kong.Description("Source dependency analyzer that finds orphan files"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": Version,
		},
	)

	return kongCtx.Run()
}
