package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/agenticinfraops/infraviz/pkg/cache"
	"github.com/agenticinfraops/infraviz/pkg/canvas"
	"github.com/agenticinfraops/infraviz/pkg/catalog"
	"github.com/agenticinfraops/infraviz/pkg/errors"
	"github.com/agenticinfraops/infraviz/pkg/observability"
)

func tinyFigure(fill string) *canvas.Figure {
	fig := canvas.New(1, 0.5, "#FFFFFF")
	fig.Add(canvas.Rect{X: 0.1, Y: 0.1, W: 0.8, H: 0.3, Fill: fill})
	return fig
}

func tinyEntry(name, fill string) catalog.Entry {
	return catalog.Entry{
		Name:   name,
		Family: catalog.FamilyInfographic,
		Outputs: []catalog.Output{
			{File: name + ".png", Format: catalog.FormatPNG, Res: catalog.ResWeb},
			{File: name + ".svg", Format: catalog.FormatSVG},
		},
		Build: func(catalog.Params) (catalog.Source, error) {
			return catalog.Source{Figure: tinyFigure(fill)}, nil
		},
	}
}

// countingCache wraps a cache and counts hits and sets.
type countingCache struct {
	cache.Cache
	mu   sync.Mutex
	hits int
	sets int
}

func (c *countingCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, hit, err := c.Cache.Get(ctx, key)
	c.mu.Lock()
	if hit {
		c.hits++
	}
	c.mu.Unlock()
	return data, hit, err
}

func (c *countingCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	c.mu.Lock()
	c.sets++
	c.mu.Unlock()
	return c.Cache.Set(ctx, key, data, ttl)
}

func newTestRunner(t *testing.T) (*Runner, *countingCache) {
	t.Helper()
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	cc := &countingCache{Cache: fc}
	return NewRunner(cc, nil, nil), cc
}

func TestRunnerRender(t *testing.T) {
	ctx := context.Background()
	r, _ := newTestRunner(t)
	dir := filepath.Join(t.TempDir(), "out")

	entries := []catalog.Entry{tinyEntry("alpha", "#0078D4"), tinyEntry("beta", "#D13438")}
	results, err := r.Render(ctx, entries, Options{OutputDir: dir})
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}

	if len(results) != 2 || results[0].Entry != "alpha" || results[1].Entry != "beta" {
		t.Fatalf("results out of order: %+v", results)
	}
	for _, res := range results {
		if len(res.Files) != 2 {
			t.Errorf("%s: wrote %d files, want 2", res.Entry, len(res.Files))
		}
		if res.CacheHit {
			t.Errorf("%s: first run should not hit the cache", res.Entry)
		}
		for _, f := range res.Files {
			data, err := os.ReadFile(filepath.Join(dir, f.Path))
			if err != nil {
				t.Fatalf("read %s: %v", f.Path, err)
			}
			if cache.Hash(data) != f.SHA256 || len(data) != f.Size {
				t.Errorf("%s: recorded hash or size does not match the file", f.Path)
			}
		}
	}
	if got := results[0].Files[0]; got.Format != FormatPNG || got.DPI != 150 {
		t.Errorf("png output = %+v, want web DPI 150", got)
	}

	m, err := ReadManifest(dir)
	if err != nil {
		t.Fatalf("ReadManifest: %v", err)
	}
	if len(m.Files) != 4 {
		t.Errorf("manifest lists %d files, want 4", len(m.Files))
	}
	if m.RunID == "" || m.Version == "" || m.GeneratedAt.IsZero() {
		t.Errorf("manifest header incomplete: %+v", m)
	}
	if m.Files[0].Path != "alpha.png" || m.Files[3].Path != "beta.svg" {
		t.Errorf("manifest not sorted by path: %v, %v", m.Files[0].Path, m.Files[3].Path)
	}
}

func TestRunnerRenderUsesCache(t *testing.T) {
	ctx := context.Background()
	r, cc := newTestRunner(t)
	dir := t.TempDir()
	entries := []catalog.Entry{tinyEntry("alpha", "#0078D4")}

	if _, err := r.Render(ctx, entries, Options{OutputDir: dir}); err != nil {
		t.Fatal(err)
	}
	first, err := ReadManifest(dir)
	if err != nil {
		t.Fatal(err)
	}

	results, err := r.Render(ctx, entries, Options{OutputDir: dir})
	if err != nil {
		t.Fatal(err)
	}
	if !results[0].CacheHit {
		t.Error("second run should be served from the cache")
	}
	if cc.hits != 2 || cc.sets != 2 {
		t.Errorf("cache hits=%d sets=%d, want 2 and 2", cc.hits, cc.sets)
	}

	second, err := ReadManifest(dir)
	if err != nil {
		t.Fatal(err)
	}
	if first.RunID == second.RunID {
		t.Error("every run should get a new run id")
	}
	if first.Files[0].SHA256 != second.Files[0].SHA256 {
		t.Error("cached output differs from the rendered one")
	}

	results, err = r.Render(ctx, entries, Options{OutputDir: dir, Refresh: true})
	if err != nil {
		t.Fatal(err)
	}
	if results[0].CacheHit {
		t.Error("Refresh should bypass the cache")
	}
}

func TestRunnerRenderFormatFilter(t *testing.T) {
	r, _ := newTestRunner(t)
	dir := t.TempDir()

	results, err := r.Render(context.Background(),
		[]catalog.Entry{tinyEntry("alpha", "#0078D4")},
		Options{OutputDir: dir, Formats: []string{FormatSVG}})
	if err != nil {
		t.Fatal(err)
	}
	if len(results[0].Files) != 1 || results[0].Files[0].Path != "alpha.svg" {
		t.Errorf("files = %+v, want only alpha.svg", results[0].Files)
	}
	if _, err := os.Stat(filepath.Join(dir, "alpha.png")); !os.IsNotExist(err) {
		t.Error("filtered format should not be written")
	}
}

func TestRunnerRenderBuildError(t *testing.T) {
	r, _ := newTestRunner(t)
	broken := tinyEntry("broken", "#000000")
	broken.Build = func(catalog.Params) (catalog.Source, error) {
		return catalog.Source{}, errors.New(errors.ErrCodeInvalidInput, "bad dataset")
	}

	_, err := r.Render(context.Background(),
		[]catalog.Entry{tinyEntry("alpha", "#0078D4"), broken},
		Options{OutputDir: t.TempDir(), Parallel: 1})
	if err == nil {
		t.Fatal("Render() should fail")
	}
	if !strings.HasPrefix(err.Error(), "broken: ") {
		t.Errorf("error %q should name the entry", err)
	}
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("error code = %s, want INVALID_INPUT", errors.GetCode(err))
	}
}

func TestRunnerRenderBadFilename(t *testing.T) {
	r, _ := newTestRunner(t)
	e := tinyEntry("alpha", "#0078D4")
	e.Outputs = []catalog.Output{{File: "../escape.svg", Format: catalog.FormatSVG}}

	_, err := r.Render(context.Background(), []catalog.Entry{e}, Options{OutputDir: t.TempDir()})
	if !errors.Is(err, errors.ErrCodeInvalidPath) {
		t.Errorf("error = %v, want INVALID_PATH", err)
	}
}

func TestRunnerRenderCancelled(t *testing.T) {
	r, _ := newTestRunner(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := r.Render(ctx, []catalog.Entry{tinyEntry("alpha", "#0078D4")}, Options{OutputDir: t.TempDir()})
	if err == nil || !strings.Contains(err.Error(), context.Canceled.Error()) {
		t.Errorf("error = %v, want context canceled", err)
	}
}

func TestRunnerArtifact(t *testing.T) {
	ctx := context.Background()
	r, _ := newTestRunner(t)
	src := catalog.Source{Figure: tinyFigure("#00B294")}

	data, hit, err := r.Artifact(ctx, src, FormatSVG, 0, Options{})
	if err != nil || hit {
		t.Fatalf("first Artifact: hit %v, err %v", hit, err)
	}
	again, hit, err := r.Artifact(ctx, src, FormatSVG, 0, Options{})
	if err != nil || !hit {
		t.Fatalf("second Artifact: hit %v, err %v", hit, err)
	}
	if string(data) != string(again) {
		t.Error("cached artifact differs")
	}

	if _, _, err := r.Artifact(ctx, src, "gif", 0, Options{}); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("bad format error = %v", err)
	}
}

func TestRunnerRenderHooks(t *testing.T) {
	counters := &observability.Counters{}
	observability.SetPipelineHooks(counters)
	observability.SetCacheHooks(counters)
	t.Cleanup(observability.Reset)

	ctx := context.Background()
	r, _ := newTestRunner(t)
	entries := []catalog.Entry{tinyEntry("alpha", "#0078D4"), tinyEntry("beta", "#D13438")}

	for range 2 {
		if _, err := r.Render(ctx, entries, Options{OutputDir: t.TempDir()}); err != nil {
			t.Fatal(err)
		}
	}

	if got := counters.Rendered.Load(); got != 4 {
		t.Errorf("rendered = %d, want 4", got)
	}
	if got := counters.Files.Load(); got != 8 {
		t.Errorf("files = %d, want 8", got)
	}
	if hits, misses := counters.CacheHits.Load(), counters.CacheMisses.Load(); hits != 4 || misses != 4 {
		t.Errorf("cache hits/misses = %d/%d, want 4/4", hits, misses)
	}
	if counters.CacheBytes.Load() == 0 {
		t.Error("cache writes not counted")
	}
}

func TestRunnerRenderGraphsInParallel(t *testing.T) {
	ctx := context.Background()
	r, _ := newTestRunner(t)
	entries, err := catalog.Filter(catalog.FamilyWorkflow)
	if err != nil {
		t.Fatal(err)
	}
	dir := t.TempDir()
	opts := Options{OutputDir: dir, Parallel: 4}

	results, err := r.Render(ctx, entries, opts)
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	for _, res := range results {
		if len(res.Files) != 3 {
			t.Errorf("%s: wrote %d files, want dot, png and svg", res.Entry, len(res.Files))
		}
		if res.CacheHit {
			t.Errorf("%s: first run should not hit the cache", res.Entry)
		}
		for _, f := range res.Files {
			data, err := os.ReadFile(filepath.Join(dir, f.Path))
			if err != nil {
				t.Fatal(err)
			}
			if f.Format == FormatSVG && !strings.Contains(string(data), "<svg") {
				t.Errorf("%s: not an SVG document", f.Path)
			}
		}
	}

	results, err = r.Render(ctx, entries, opts)
	if err != nil {
		t.Fatalf("second Render() error: %v", err)
	}
	for _, res := range results {
		if !res.CacheHit {
			t.Errorf("%s: second run should be served from the cache", res.Entry)
		}
	}
}

func TestRunnerRenderDOTOnlyIsNotCached(t *testing.T) {
	r, _ := newTestRunner(t)
	e, err := catalog.Lookup("workflow_numbered")
	if err != nil {
		t.Fatal(err)
	}
	opts := Options{OutputDir: t.TempDir(), Formats: []string{FormatDOT}}
	for range 2 {
		results, err := r.Render(context.Background(), []catalog.Entry{e}, opts)
		if err != nil {
			t.Fatal(err)
		}
		if results[0].CacheHit {
			t.Error("DOT-only output should not report a cache hit")
		}
	}
}
