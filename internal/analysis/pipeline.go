package analysis

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"sync"
	"time"

	"github.com/gobwas/glob"

	"github.com/strayscan/strayscan/internal/depgraph"
	"github.com/strayscan/strayscan/internal/extract"
	"github.com/strayscan/strayscan/internal/index"
	"github.com/strayscan/strayscan/internal/resolve"
)

// ProgressCallback is called with phase name and progress (0.0-1.0).
type ProgressCallback func(phase string, progress float64)

// Run executes the scan pipeline against root and returns the assembled
// result.
//
// The pipeline is a single linear pass: build the index, extract and resolve
// references across a worker pool, merge per-worker counts, classify the
// zero-in-degree subset, assemble. A missing or unreadable root is the only
// fatal condition; per-file failures degrade to "contributes no outbound
// edges" with a warning.
func Run(ctx context.Context, root string, cfg Config, progress ProgressCallback) (*Result, error) {
	start := time.Now()

	classifier, err := newEntryPointClassifier(cfg.EntryPointPatterns)
	if err != nil {
		return nil, err
	}

	ignore, err := compileIgnorePatterns(cfg.IgnorePatterns)
	if err != nil {
		return nil, err
	}

	report(progress, "Indexing files", 0.0)
	idx, err := index.Build(root, index.WalkOptions{
		Dialects: cfg.Dialects,
		SkipDirs: cfg.skipDirSet(),
		Ignore:   ignore,
		Warn:     cfg.Warn,
	})
	if err != nil {
		return nil, err
	}
	report(progress, "Indexing files", 1.0)

	report(progress, "Resolving references", 0.0)
	builder := depgraph.NewBuilder(idx)
	if err := runExtraction(ctx, idx, cfg, builder); err != nil {
		return nil, err
	}
	report(progress, "Resolving references", 1.0)

	report(progress, "Classifying files", 0.0)
	var orphans, entryPoints []string
	for _, f := range builder.ZeroInDegree(idx) {
		if classifier.IsEntryPoint(f.Base) {
			entryPoints = append(entryPoints, f.RelPath)
		} else {
			orphans = append(orphans, f.RelPath)
		}
	}
	report(progress, "Classifying files", 1.0)

	return assemble(idx, builder, orphans, entryPoints, time.Since(start)), nil
}

// runExtraction fans the indexed files out to a bounded worker pool. Each
// worker reads, extracts, and resolves independently against the immutable
// index, accumulating into a private partial table; partials are merged
// under a single lock once per worker. Cancelling the context stops
// scheduling new files and abandons the run.
func runExtraction(ctx context.Context, idx *index.FileIndex, cfg Config, builder *depgraph.Builder) error {
	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if n := idx.Len(); workers > n {
		workers = n
	}
	if workers == 0 {
		return nil
	}

	resolver := resolve.New(idx, cfg.Extensions)
	jobs := make(chan *index.SourceFile)

	var wg sync.WaitGroup
	var mu sync.Mutex

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			extractors := extract.NewSet()
			partial := depgraph.NewPartial()

			for f := range jobs {
				extractor := extractors.For(f.Dialect)
				if extractor == nil {
					continue
				}

				content, err := os.ReadFile(f.Path)
				if err != nil {
					cfg.warnf("reading %s: %v", f.RelPath, err)
					continue
				}

				for _, ref := range extractor.References(content) {
					if dep := resolver.Resolve(f, ref); dep != nil {
						partial.Add(f, dep)
					}
				}
			}

			mu.Lock()
			builder.Merge(partial)
			mu.Unlock()
		}()
	}

schedule:
	for _, f := range idx.Files() {
		select {
		case <-ctx.Done():
			break schedule
		case jobs <- f:
		}
	}
	close(jobs)
	wg.Wait()

	return ctx.Err()
}

func compileIgnorePatterns(patterns []string) ([]glob.Glob, error) {
	compiled := make([]glob.Glob, 0, len(patterns))
	for _, p := range patterns {
		if p == "" {
			continue
		}
		g, err := glob.Compile(p, '/')
		if err != nil {
			return nil, fmt.Errorf("compiling ignore pattern %q: %w", p, err)
		}
		compiled = append(compiled, g)
	}
	return compiled, nil
}

func report(progress ProgressCallback, phase string, pct float64) {
	if progress != nil {
		progress(phase, pct)
	}
}
