package index

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gobwas/glob"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultWalkOptions() WalkOptions {
	return WalkOptions{
		Dialects: map[string]Dialect{
			".js": DialectJavaScript,
			".ts": DialectTypeScript,
			".py": DialectPython,
			".go": DialectGo,
		},
		SkipDirs: map[string]struct{}{
			"node_modules": {},
			"vendor":       {},
			"__pycache__":  {},
		},
	}
}

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for path, content := range files {
		fullPath := filepath.Join(root, path)
		require.NoError(t, os.MkdirAll(filepath.Dir(fullPath), 0o755))
		require.NoError(t, os.WriteFile(fullPath, []byte(content), 0o644))
	}
}

func TestBuild(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	writeTree(t, tmpDir, map[string]string{
		"main.py":                 "print('hello')",
		"utils/helper.py":         "def helper(): pass",
		"src/app.ts":              "export const app = 1;",
		"src/lib/app.ts":          "export const app = 2;",
		"README.md":               "# README",
		"node_modules/react/x.js": "module.exports = {};",
		".hidden/secret.py":       "x = 1",
		"__pycache__/helper.pyc":  "binary",
		"vendor/lib/vendored.go":  "package lib",
	})

	idx, err := Build(tmpDir, defaultWalkOptions())
	require.NoError(t, err)

	t.Run("IndexesSupportedFiles", func(t *testing.T) {
		assert.Equal(t, 4, idx.Len())
		assert.NotNil(t, idx.Lookup(filepath.Join(tmpDir, "main.py")))
		assert.NotNil(t, idx.Lookup(filepath.Join(tmpDir, "utils", "helper.py")))
	})

	t.Run("SkipsUnsupportedExtensions", func(t *testing.T) {
		for _, f := range idx.Files() {
			assert.NotContains(t, f.RelPath, "README")
		}
	})

	t.Run("PrunesSkipDirs", func(t *testing.T) {
		for _, f := range idx.Files() {
			assert.NotContains(t, f.RelPath, "node_modules/")
			assert.NotContains(t, f.RelPath, "vendor/")
		}
	})

	t.Run("PrunesHiddenDirs", func(t *testing.T) {
		for _, f := range idx.Files() {
			assert.NotContains(t, f.RelPath, ".hidden/")
		}
	})

	t.Run("DetectsDialect", func(t *testing.T) {
		f := idx.Lookup(filepath.Join(tmpDir, "main.py"))
		require.NotNil(t, f)
		assert.Equal(t, DialectPython, f.Dialect)

		f = idx.Lookup(filepath.Join(tmpDir, "src", "app.ts"))
		require.NotNil(t, f)
		assert.Equal(t, DialectTypeScript, f.Dialect)
	})

	t.Run("RelPathsAreSlashSeparated", func(t *testing.T) {
		f := idx.Lookup(filepath.Join(tmpDir, "utils", "helper.py"))
		require.NotNil(t, f)
		assert.Equal(t, "utils/helper.py", f.RelPath)
	})

	t.Run("BasenameAndStemLookups", func(t *testing.T) {
		byBase := idx.ByBase("app.ts")
		assert.Len(t, byBase, 2)

		byStem := idx.ByStem("app")
		assert.Len(t, byStem, 2)

		// Walk order is preserved for ambiguity tie-breaks.
		assert.Equal(t, "src/app.ts", byStem[0].RelPath)
		assert.Equal(t, "src/lib/app.ts", byStem[1].RelPath)
	})

	t.Run("NoDuplicateRegistrations", func(t *testing.T) {
		seen := make(map[string]bool)
		for _, f := range idx.Files() {
			assert.False(t, seen[f.Path], "file %s registered twice", f.RelPath)
			seen[f.Path] = true
		}
	})
}

func TestBuild_IgnorePatterns(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	writeTree(t, tmpDir, map[string]string{
		"keep.py":          "x = 1",
		"generated/out.py": "x = 2",
		"skip_me.py":       "x = 3",
	})

	opts := defaultWalkOptions()
	opts.Ignore = []glob.Glob{
		glob.MustCompile("generated/**", '/'),
		glob.MustCompile("skip_*.py", '/'),
	}

	idx, err := Build(tmpDir, opts)
	require.NoError(t, err)

	assert.Equal(t, 1, idx.Len())
	assert.Equal(t, "keep.py", idx.Files()[0].RelPath)
}

func TestBuild_Gitignore(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	writeTree(t, tmpDir, map[string]string{
		".gitignore":   "generated.py\nout/\n",
		"main.py":      "x = 1",
		"generated.py": "x = 2",
		"out/thing.py": "x = 3",
	})

	idx, err := Build(tmpDir, defaultWalkOptions())
	require.NoError(t, err)

	assert.Equal(t, 1, idx.Len())
	assert.Equal(t, "main.py", idx.Files()[0].RelPath)
}

func TestBuild_Preconditions(t *testing.T) {
	t.Parallel()

	t.Run("MissingRoot", func(t *testing.T) {
		_, err := Build(filepath.Join(t.TempDir(), "does-not-exist"), defaultWalkOptions())
		assert.Error(t, err)
	})

	t.Run("RootIsFile", func(t *testing.T) {
		tmpDir := t.TempDir()
		filePath := filepath.Join(tmpDir, "file.py")
		require.NoError(t, os.WriteFile(filePath, []byte("x = 1"), 0o644))

		_, err := Build(filePath, defaultWalkOptions())
		assert.ErrorContains(t, err, "not a directory")
	})

	t.Run("UnreadableRoot", func(t *testing.T) {
		if os.Geteuid() == 0 {
			t.Skip("permission bits do not apply to root")
		}

		tmpDir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "main.py"), []byte("x = 1"), 0o644))
		require.NoError(t, os.Chmod(tmpDir, 0o000))
		t.Cleanup(func() { _ = os.Chmod(tmpDir, 0o755) })

		_, err := Build(tmpDir, defaultWalkOptions())
		assert.Error(t, err)
	})

	t.Run("EmptyRoot", func(t *testing.T) {
		idx, err := Build(t.TempDir(), defaultWalkOptions())
		require.NoError(t, err)
		assert.Equal(t, 0, idx.Len())
	})
}

func TestStemOf(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		base     string
		expected string
	}{
		{"Simple", "main.py", "main"},
		{"NoExtension", "Makefile", "Makefile"},
		{"MultipleDots", "vite.config.ts", "vite.config"},
		{"Index", "index.js", "index"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, stemOf(tt.base))
		})
	}
}
