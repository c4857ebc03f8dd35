package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/strayscan/strayscan/internal/analysis"
)

func TestScanCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("ScanProject", func(t *testing.T) {
		tmpDir := t.TempDir()

		files := map[string]string{
			"main.py":   "from utils import helper\n",
			"utils.py":  "def helper(): pass\n",
			"orphan.py": "x = 1\n",
		}
		for path, content := range files {
			err := os.WriteFile(filepath.Join(tmpDir, path), []byte(content), 0o644)
			require.NoError(t, err)
		}

		cmd := &ScanCmd{
			Path:   tmpDir,
			Format: "json",
		}

		err := cmd.Run()
		assert.NoError(t, err)
	})

	t.Run("InvalidPath", func(t *testing.T) {
		cmd := &ScanCmd{
			Path:   "/nonexistent/path",
			Format: "json",
		}

		err := cmd.Run()
		assert.Error(t, err)
	})

	t.Run("NotADirectory", func(t *testing.T) {
		tmpFile := filepath.Join(t.TempDir(), "file.py")
		err := os.WriteFile(tmpFile, []byte("x = 1"), 0o644)
		require.NoError(t, err)

		cmd := &ScanCmd{
			Path:   tmpFile,
			Format: "json",
		}

		err = cmd.Run()
		assert.Error(t, err)
	})

	t.Run("InvalidIgnorePattern", func(t *testing.T) {
		cmd := &ScanCmd{
			Path:   t.TempDir(),
			Format: "json",
			Ignore: "[unclosed",
		}

		err := cmd.Run()
		assert.Error(t, err)
	})
}

func TestRenderJSON(t *testing.T) {
	t.Parallel()

	t.Run("Contract", func(t *testing.T) {
		var buf bytes.Buffer
		result := &analysis.Result{
			Orphans:     []string{"a.py", "b.js"},
			EntryPoints: []string{"main.py"},
		}

		err := renderJSON(&buf, result)
		require.NoError(t, err)

		var report map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &report))

		assert.Equal(t, []any{"a.py", "b.js"}, report["orphans"])
		assert.Equal(t, []any{"main.py"}, report["likely_entry_points"])
		assert.Equal(t, float64(2), report["count"])
	})

	t.Run("EmptyListsNotNull", func(t *testing.T) {
		var buf bytes.Buffer

		err := renderJSON(&buf, &analysis.Result{})
		require.NoError(t, err)

		out := buf.String()
		assert.NotContains(t, out, "null")
		assert.Contains(t, out, `"orphans": []`)
		assert.Contains(t, out, `"likely_entry_points": []`)
		assert.Contains(t, out, `"count": 0`)
	})
}

func TestRenderText(t *testing.T) {
	t.Parallel()

	t.Run("WithOrphans", func(t *testing.T) {
		var buf bytes.Buffer
		result := &analysis.Result{
			Orphans:     []string{"stray.py"},
			EntryPoints: []string{"main.py"},
			TotalFiles:  3,
			References:  1,
		}

		err := renderText(&buf, result)
		require.NoError(t, err)

		out := buf.String()
		assert.Contains(t, out, "Found 1 potential orphan files.")
		assert.Contains(t, out, "[OK] main.py")
		assert.Contains(t, out, "[?] stray.py")
		assert.Contains(t, out, "Tip: Verify these files are truly unused before deleting.")
	})

	t.Run("NoOrphans", func(t *testing.T) {
		var buf bytes.Buffer

		err := renderText(&buf, &analysis.Result{TotalFiles: 2})
		require.NoError(t, err)

		out := buf.String()
		assert.Contains(t, out, "Found 0 potential orphan files.")
		assert.Contains(t, out, "(None found)")
	})
}

func TestSplitPatterns(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		raw      string
		expected []string
	}{
		{"Empty", "", nil},
		{"Single", "generated/**", []string{"generated/**"}},
		{"Multiple", "a/**,b/*.py", []string{"a/**", "b/*.py"}},
		{"TrimsWhitespace", " a/** , b/*.py ", []string{"a/**", "b/*.py"}},
		{"DropsEmptySegments", "a/**,,", []string{"a/**"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, splitPatterns(tt.raw))
		})
	}
}
