// Package analysis wires the scan pipeline end to end: index, extract,
// resolve, aggregate, classify, assemble.
package analysis

import "github.com/strayscan/strayscan/internal/index"

// Config carries the complete rule set for one scan. Values are fixed at
// construction time and never mutated by the pipeline, so concurrent scans
// cannot interfere with each other.
type Config struct {
	// Extensions lists recognized source extensions in resolution
	// fallback order (lowercase, with leading dot).
	Extensions []string

	// Dialects maps each recognized extension to its dialect family.
	Dialects map[string]index.Dialect

	// SkipDirs are directory basenames never descended into.
	SkipDirs []string

	// EntryPointPatterns are case-insensitive filename regexes marking
	// files that are conventionally unreferenced, checked in order.
	EntryPointPatterns []string

	// IgnorePatterns are glob patterns matched against slash-separated
	// root-relative paths.
	IgnorePatterns []string

	// Workers bounds the extraction pool. Zero or negative means one
	// worker per CPU.
	Workers int

	// Warn receives non-fatal diagnostics. Nil discards them.
	Warn func(format string, args ...any)
}

// DefaultConfig returns the built-in rule set.
func DefaultConfig() Config {
	return Config{
		Extensions: []string{".js", ".jsx", ".ts", ".tsx", ".mjs", ".cjs", ".py", ".go"},
		Dialects: map[string]index.Dialect{
			".js":  index.DialectJavaScript,
			".jsx": index.DialectJavaScript,
			".mjs": index.DialectJavaScript,
			".cjs": index.DialectJavaScript,
			".ts":  index.DialectTypeScript,
			".tsx": index.DialectTypeScript,
			".py":  index.DialectPython,
			".go":  index.DialectGo,
		},
		SkipDirs: []string{
			"node_modules", "vendor", "venv", ".venv", "__pycache__", ".git",
			"dist", "build", ".next", "target", "bin", "obj", ".idea", ".vscode",
			"coverage", "test", "tests",
		},
		EntryPointPatterns: []string{
			`^index\.(js|ts|jsx|tsx)$`,
			`^main\.(js|ts|py|go)$`,
			`^server\.(js|ts)$`,
			`^app\.(js|ts)$`,
			`^cli\.(js|ts|py)$`,
			`^setup\.py$`,
			`^manage\.py$`,
			`^vite\.config\.`,
			`^webpack\.config\.`,
			`^jest\.config\.`,
			`^tsconfig\.json$`,
			`^package\.json$`,
			`^go\.mod$`,
			`^requirements\.txt$`,
		},
	}
}

func (c Config) warnf(format string, args ...any) {
	if c.Warn != nil {
		c.Warn(format, args...)
	}
}

func (c Config) skipDirSet() map[string]struct{} {
	set := make(map[string]struct{}, len(c.SkipDirs))
	for _, d := range c.SkipDirs {
		set[d] = struct{}{}
	}
	return set
}
