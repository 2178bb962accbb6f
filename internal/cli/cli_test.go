package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/agenticinfraops/infraviz/pkg/artifacts"
	"github.com/agenticinfraops/infraviz/pkg/catalog"
	"github.com/agenticinfraops/infraviz/pkg/errors"
	"github.com/agenticinfraops/infraviz/pkg/pipeline"
)

// newTestCLI isolates a CLI from the user's config and cache directories.
// Command output is captured in the returned buffer.
func newTestCLI(t *testing.T) (*CLI, *bytes.Buffer) {
	t.Helper()
	tmp := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmp, "config"))
	t.Setenv("XDG_CACHE_HOME", filepath.Join(tmp, "cache"))
	t.Chdir(tmp)

	var out bytes.Buffer
	c := New(io.Discard, LogInfo)
	c.Out = &out
	return c, &out
}

func execute(t *testing.T, c *CLI, args ...string) error {
	t.Helper()
	root := c.RootCommand()
	root.SetArgs(args)
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	return root.ExecuteContext(context.Background())
}

func TestLookupEntries(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		want     []string
		wantCode errors.Code
	}{
		{"single", []string{"roi-calculator"}, []string{"roi-calculator"}, ""},
		{"order kept", []string{"waf-scorecard", "03-des-diagram"}, []string{"waf-scorecard", "03-des-diagram"}, ""},
		{"repeats dropped", []string{"workflow_themed", "workflow_themed"}, []string{"workflow_themed"}, ""},
		{"unknown", []string{"nope"}, nil, errors.ErrCodeNotFound},
		{"path", []string{"../roi-calculator"}, nil, errors.ErrCodeInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entries, err := lookupEntries(tt.args)
			if tt.wantCode != "" {
				if !errors.Is(err, tt.wantCode) {
					t.Fatalf("lookupEntries(%v) error = %v, want code %s", tt.args, err, tt.wantCode)
				}
				return
			}
			if err != nil {
				t.Fatalf("lookupEntries(%v) error: %v", tt.args, err)
			}
			var got []string
			for _, e := range entries {
				got = append(got, e.Name)
			}
			if !slices.Equal(got, tt.want) {
				t.Errorf("lookupEntries(%v) = %v, want %v", tt.args, got, tt.want)
			}
		})
	}
}

func TestSelectEntries(t *testing.T) {
	c, _ := newTestCLI(t)

	all, err := c.selectEntries(nil, renderFlags{all: true})
	if err != nil {
		t.Fatalf("--all: %v", err)
	}
	if len(all) != len(catalog.Names()) {
		t.Errorf("--all selected %d entries, want %d", len(all), len(catalog.Names()))
	}

	fam, err := c.selectEntries(nil, renderFlags{family: catalog.FamilyArchitecture})
	if err != nil {
		t.Fatalf("--family: %v", err)
	}
	for _, e := range fam {
		if e.Family != catalog.FamilyArchitecture {
			t.Errorf("--family architecture selected %s (%s)", e.Name, e.Family)
		}
	}

	invalid := []struct {
		name  string
		args  []string
		flags renderFlags
	}{
		{"nothing", nil, renderFlags{}},
		{"all with names", []string{"roi-calculator"}, renderFlags{all: true}},
		{"family with names", []string{"roi-calculator"}, renderFlags{family: "workflow"}},
		{"unknown family", nil, renderFlags{family: "charts"}},
	}
	for _, tt := range invalid {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := c.selectEntries(tt.args, tt.flags); !errors.Is(err, errors.ErrCodeInvalidInput) {
				t.Errorf("selectEntries error = %v, want INVALID_INPUT", err)
			}
		})
	}
}

func TestRenderOptionsFlagsOverrideConfig(t *testing.T) {
	c, _ := newTestCLI(t)
	if err := os.WriteFile("infraviz.toml", []byte(`
output_dir = "from-config"
parallel = 2
formats = ["png"]
`), 0644); err != nil {
		t.Fatal(err)
	}

	cmd := c.RootCommand()
	render, _, err := cmd.Find([]string{"render"})
	if err != nil {
		t.Fatal(err)
	}
	render.SetContext(context.Background())
	if err := cmd.PersistentPreRunE(render, nil); err != nil {
		t.Fatalf("load config: %v", err)
	}

	opts, err := c.renderOptions(render, renderFlags{})
	if err != nil {
		t.Fatal(err)
	}
	if opts.OutputDir != "from-config" || opts.Parallel != 2 || !slices.Equal(opts.Formats, []string{"png"}) {
		t.Errorf("config not applied: dir=%q parallel=%d formats=%v", opts.OutputDir, opts.Parallel, opts.Formats)
	}

	if err := render.Flags().Set("format", "svg, DOT"); err != nil {
		t.Fatal(err)
	}
	opts, err = c.renderOptions(render, renderFlags{output: "from-flag", parallel: 8, formats: "svg, DOT"})
	if err != nil {
		t.Fatal(err)
	}
	if opts.OutputDir != "from-flag" || opts.Parallel != 8 || !slices.Equal(opts.Formats, []string{"svg", "dot"}) {
		t.Errorf("flags not applied: dir=%q parallel=%d formats=%v", opts.OutputDir, opts.Parallel, opts.Formats)
	}

	if _, err := c.renderOptions(render, renderFlags{formats: "gif"}); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("renderOptions with gif error = %v, want INVALID_FORMAT", err)
	}
}

func TestRenderCommandWritesFiles(t *testing.T) {
	c, _ := newTestCLI(t)
	outDir := t.TempDir()

	err := execute(t, c, "render", "workflow_simple_v2", "workflow_numbered", "-f", "dot", "-o", outDir, "--no-cache")
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	for _, name := range []string{"workflow_simple_v2.dot", "workflow_numbered.dot", pipeline.ManifestFile} {
		if _, err := os.Stat(filepath.Join(outDir, name)); err != nil {
			t.Errorf("missing %s: %v", name, err)
		}
	}
	if _, err := os.Stat(filepath.Join(outDir, "workflow_simple_v2.png")); !os.IsNotExist(err) {
		t.Error("png written despite --format dot")
	}

	m, err := pipeline.ReadManifest(outDir)
	if err != nil {
		t.Fatal(err)
	}
	if len(m.Files) != 2 {
		t.Errorf("manifest lists %d files, want 2", len(m.Files))
	}
	data, _ := os.ReadFile(filepath.Join(outDir, "workflow_numbered.dot"))
	if !strings.HasPrefix(string(data), "digraph") {
		t.Errorf("workflow_numbered.dot does not start with digraph: %.40q", data)
	}
}

func TestRenderCommandErrors(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		wantCode errors.Code
	}{
		{"unknown diagram", []string{"render", "missing-diagram"}, errors.ErrCodeNotFound},
		{"bad format", []string{"render", "roi-calculator", "-f", "gif"}, errors.ErrCodeInvalidFormat},
		{"no selection", []string{"render"}, errors.ErrCodeInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestCLI(t)
			if err := execute(t, c, tt.args...); !errors.Is(err, tt.wantCode) {
				t.Errorf("%v error = %v, want code %s", tt.args, err, tt.wantCode)
			}
		})
	}
}

func TestListCommand(t *testing.T) {
	c, out := newTestCLI(t)
	if err := execute(t, c, "list"); err != nil {
		t.Fatal(err)
	}
	for _, name := range catalog.Names() {
		if !strings.Contains(out.String(), name) {
			t.Errorf("list output missing %s", name)
		}
	}
	if !strings.Contains(out.String(), "roi-calculator-web.png") {
		t.Error("list output missing output file names")
	}
}

func TestListCommandFamily(t *testing.T) {
	c, out := newTestCLI(t)
	if err := execute(t, c, "list", "--family", "infographic"); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "waf-scorecard") {
		t.Error("infographic list missing waf-scorecard")
	}
	if strings.Contains(out.String(), "workflow_themed") {
		t.Error("infographic list contains a workflow graph")
	}
}

func TestDotCommand(t *testing.T) {
	c, out := newTestCLI(t)
	if err := execute(t, c, "dot", "workflow_themed"); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out.String(), "digraph") {
		t.Errorf("dot output = %.40q, want a digraph", out.String())
	}

	c, _ = newTestCLI(t)
	if err := execute(t, c, "dot", "roi-calculator"); !errors.Is(err, errors.ErrCodeUnsupported) {
		t.Errorf("dot roi-calculator error = %v, want UNSUPPORTED", err)
	}
}

func TestCachePathCommand(t *testing.T) {
	c, out := newTestCLI(t)
	if err := execute(t, c, "cache", "path"); err != nil {
		t.Fatal(err)
	}
	want, _ := cacheDir()
	if got := strings.TrimSpace(out.String()); got != want {
		t.Errorf("cache path = %q, want %q", got, want)
	}
}

func TestConfigErrorStopsCommand(t *testing.T) {
	c, _ := newTestCLI(t)
	if err := execute(t, c, "--config", "missing.toml", "list"); !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("missing config error = %v, want FILE_NOT_FOUND", err)
	}
}

func TestCompleteDiagramNames(t *testing.T) {
	got, _ := completeDiagramNames(nil, []string{"workflow_numbered"}, "workflow_")
	if len(got) == 0 {
		t.Fatal("no completions for workflow_")
	}
	for _, g := range got {
		if !strings.HasPrefix(g, "workflow_") {
			t.Errorf("completion %q does not match prefix", g)
		}
		if strings.HasPrefix(g, "workflow_numbered\t") {
			t.Error("completion repeats an argument already given")
		}
	}
}

// writeArtifactRepo lays out templates, agents and one set of artifacts that
// pass validation under root.
func writeArtifactRepo(t *testing.T, root string) {
	t.Helper()
	write := func(name, body string) {
		p := filepath.Join(root, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte(body), 0644); err != nil {
			t.Fatal(err)
		}
	}
	write(artifacts.StandardsDoc, "Start from the .template.md files.\n")
	for _, a := range artifacts.Wave1 {
		doc := strings.Join(a.Headings, "\n\ntext\n\n") + "\n"
		write(a.Template, doc)
		write(artifacts.OutputDir+"/app/"+a.Name, doc)
		if a.Agent != "" {
			write(a.Agent, "Follow ../templates/"+filepath.Base(a.Template)+"\n")
		}
	}
}

func TestValidateCommand(t *testing.T) {
	t.Setenv("STRICTNESS", "")
	c, out := newTestCLI(t)
	root := t.TempDir()
	writeArtifactRepo(t, root)

	if err := execute(t, c, "validate", "--root", root); err != nil {
		t.Fatalf("validate error: %v\n%s", err, out.String())
	}
	if !strings.Contains(out.String(), "Validation passed") || !strings.Contains(out.String(), "4 artifacts") {
		t.Errorf("output = %q", out.String())
	}
}

func TestValidateCommandFindings(t *testing.T) {
	req := artifacts.Wave1[0]
	missing := strings.Join(req.Headings[:len(req.Headings)-1], "\n\n") + "\n"

	tests := []struct {
		name     string
		args     []string
		env      string
		wantCode errors.Code
		wantOut  string
	}{
		{"relaxed warns", []string{"--github"}, "", "", "::warning file=agent-output/app/01-requirements.md,line=1"},
		{"standard fails", []string{"--github", "--strictness", "standard"}, "", errors.ErrCodeInvalidInput, "::error file=agent-output/app/01-requirements.md"},
		{"env selects standard", []string{"--github"}, "standard", errors.ErrCodeInvalidInput, "::error "},
		{"flag overrides env", []string{"--github", "--strictness", "relaxed"}, "standard", "", "::warning "},
		{"bad strictness", []string{"--strictness", "strict"}, "", errors.ErrCodeInvalidInput, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("STRICTNESS", tt.env)
			c, out := newTestCLI(t)
			root := t.TempDir()
			writeArtifactRepo(t, root)
			p := filepath.Join(root, artifacts.OutputDir, "app", req.Name)
			if err := os.WriteFile(p, []byte(missing), 0644); err != nil {
				t.Fatal(err)
			}

			err := execute(t, c, append([]string{"validate", "--root", root}, tt.args...)...)
			if tt.wantCode == "" && err != nil {
				t.Fatalf("validate error: %v", err)
			}
			if tt.wantCode != "" && !errors.Is(err, tt.wantCode) {
				t.Fatalf("validate error = %v, want %s", err, tt.wantCode)
			}
			if !strings.Contains(out.String(), tt.wantOut) {
				t.Errorf("output = %q, want %q", out.String(), tt.wantOut)
			}
		})
	}
}

func TestValidateCommandMissingRoot(t *testing.T) {
	c, _ := newTestCLI(t)
	err := execute(t, c, "validate", "--root", filepath.Join(t.TempDir(), "nope"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("error = %v, want FILE_NOT_FOUND", err)
	}
}
