package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/agenticinfraops/infraviz/pkg/cache"
	"github.com/agenticinfraops/infraviz/pkg/catalog"
	"github.com/agenticinfraops/infraviz/pkg/errors"
	"github.com/agenticinfraops/infraviz/pkg/observability"
)

// Runner encapsulates pipeline execution with caching.
// Both the CLI and the preview server use it so cache keys stay consistent.
//
// The Runner is stateless except for the cache and logger. Multiple
// goroutines can safely use the same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Render renders entries into opts.OutputDir and writes the run manifest.
// Results are returned in the order of entries. The first failure cancels
// the remaining work and is returned wrapped with the entry name.
func (r *Runner) Render(ctx context.Context, entries []catalog.Entry, opts Options) ([]Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return nil, errors.Wrap(errors.ErrCodeOutputFailed, err, "create output directory %s", opts.OutputDir)
	}

	start := time.Now()
	results := make([]Result, len(entries))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Parallel)
	for i, e := range entries {
		g.Go(func() error {
			hooks := observability.Pipeline()
			hooks.OnRenderStart(gctx, e.Name)
			start := time.Now()
			res, err := r.renderEntry(gctx, e, opts)
			hooks.OnRenderComplete(gctx, e.Name, len(res.Files), time.Since(start), err)
			if err != nil {
				return fmt.Errorf("%s: %w", e.Name, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	m := NewManifest(results)
	if err := m.Write(opts.OutputDir); err != nil {
		return nil, err
	}

	opts.Logger.Debug("render complete",
		"entries", len(entries),
		"files", len(m.Files),
		"run", m.RunID,
		"duration", time.Since(start).Round(time.Millisecond))
	return results, nil
}

// renderEntry builds one entry and writes its selected outputs.
func (r *Runner) renderEntry(ctx context.Context, e catalog.Entry, opts Options) (Result, error) {
	start := time.Now()
	res := Result{Entry: e.Name}

	outputs := opts.Selected(e)
	if len(outputs) == 0 {
		opts.Logger.Debug("no outputs selected", "entry", e.Name, "formats", opts.Formats)
		return res, nil
	}

	src, err := e.Build(opts.Params)
	if err != nil {
		return Result{}, err
	}

	// CacheHit covers cached formats only; DOT text is never cached.
	cached, hits := 0, 0
	for _, out := range outputs {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		if err := errors.ValidateOutputFilename(out.File); err != nil {
			return Result{}, err
		}
		dpi := out.DPI(opts.Resolutions)

		data, hit, err := r.artifact(ctx, src, out.Format, dpi, opts)
		if err != nil {
			return Result{}, fmt.Errorf("render %s: %w", out.File, err)
		}
		if out.Format != FormatDOT {
			cached++
			if hit {
				hits++
			}
		}

		path := filepath.Join(opts.OutputDir, out.File)
		if err := os.WriteFile(path, data, 0644); err != nil {
			return Result{}, errors.Wrap(errors.ErrCodeOutputFailed, err, "write %s", path)
		}
		res.Files = append(res.Files, File{
			Path:   out.File,
			Entry:  e.Name,
			Format: out.Format,
			DPI:    dpi,
			Size:   len(data),
			SHA256: cache.Hash(data),
		})
		opts.Logger.Debug("wrote output", "file", path, "bytes", len(data), "cached", hit)
	}

	res.CacheHit = cached > 0 && hits == cached
	res.Duration = time.Since(start)
	opts.Logger.Debug("rendered", "entry", e.Name, "files", len(res.Files), "cached", res.CacheHit,
		"duration", res.Duration.Round(time.Millisecond))
	return res, nil
}

// Artifact renders one output of a built source through the cache.
// It reports whether the bytes came from the cache.
func (r *Runner) Artifact(ctx context.Context, src catalog.Source, format string, dpi float64, opts Options) ([]byte, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}
	if err := ValidateFormat(format); err != nil {
		return nil, false, err
	}
	return r.artifact(ctx, src, format, dpi, opts)
}

func (r *Runner) artifact(ctx context.Context, src catalog.Source, format string, dpi float64, opts Options) ([]byte, bool, error) {
	// DOT text is the source itself; caching it would only duplicate it.
	if format == FormatDOT {
		data, err := RenderSource(ctx, src, format, dpi)
		return data, false, err
	}

	hooks := observability.Cache()
	key := r.Keyer.ArtifactKey(src.Key(), cache.ArtifactKeyOpts{Format: format, DPI: dpi})
	if !opts.Refresh {
		data, hit, err := r.Cache.Get(ctx, key)
		if err != nil {
			opts.Logger.Warn("cache read failed", "error", err)
		} else if hit {
			hooks.OnCacheHit(ctx, format)
			return data, true, nil
		}
	}
	hooks.OnCacheMiss(ctx, format)

	data, err := RenderSource(ctx, src, format, dpi)
	if err != nil {
		return nil, false, err
	}

	ttl := opts.TTL
	if ttl == 0 {
		ttl = cache.DefaultTTL
	}
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		opts.Logger.Warn("cache write failed", "error", err)
	} else {
		hooks.OnCacheSet(ctx, format, len(data))
	}
	return data, false, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
