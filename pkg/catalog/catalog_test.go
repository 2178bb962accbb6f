package catalog

import (
	"slices"
	"strings"
	"testing"

	"github.com/agenticinfraops/infraviz/pkg/errors"
)

func TestNames(t *testing.T) {
	want := []string{
		"03-des-diagram", "07-ab-diagram",
		"workflow_numbered", "workflow_simple_v2", "workflow_detailed", "workflow_themed", "workflow_simple",
		"roi-calculator", "waf-scorecard", "workflow-4step", "workflow-7step", "workflow-7step-dark",
	}
	if got := Names(); !slices.Equal(got, want) {
		t.Errorf("Names() = %v, want %v", got, want)
	}
}

func TestLookup(t *testing.T) {
	e, err := Lookup("roi-calculator")
	if err != nil {
		t.Fatalf("Lookup() error: %v", err)
	}
	if e.Family != FamilyInfographic {
		t.Errorf("Family = %s, want %s", e.Family, FamilyInfographic)
	}

	_, err = Lookup("nope")
	if !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("Lookup(nope) error = %v, want NOT_FOUND", err)
	}
}

func TestFilter(t *testing.T) {
	tests := []struct {
		family  string
		count   int
		wantErr bool
	}{
		{FamilyArchitecture, 2, false},
		{FamilyWorkflow, 5, false},
		{FamilyInfographic, 5, false},
		{"charts", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.family, func(t *testing.T) {
			got, err := Filter(tt.family)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Filter() error = %v, wantErr %v", err, tt.wantErr)
			}
			if len(got) != tt.count {
				t.Errorf("Filter() returned %d entries, want %d", len(got), tt.count)
			}
			for _, e := range got {
				if e.Family != tt.family {
					t.Errorf("%s has family %s", e.Name, e.Family)
				}
			}
		})
	}
}

func TestOutputs(t *testing.T) {
	tests := []struct {
		name  string
		files []string
	}{
		{"03-des-diagram", []string{"03-des-diagram.png"}},
		{"workflow_numbered", []string{"workflow_numbered.dot", "workflow_numbered.png", "workflow_numbered.svg"}},
		{"roi-calculator", []string{"roi-calculator.png", "roi-calculator-web.png"}},
		{"waf-scorecard", []string{"waf-scorecard.png", "waf-scorecard-web.png"}},
		{"workflow-4step", []string{"workflow-4step.png", "workflow-4step-web.png", "workflow-4step.pdf"}},
		{"workflow-7step", []string{"workflow-diagram.png", "workflow-diagram-web.png", "workflow-diagram.pdf"}},
		{"workflow-7step-dark", []string{"workflow-diagram-dark.png", "workflow-diagram-dark-web.png"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, err := Lookup(tt.name)
			if err != nil {
				t.Fatal(err)
			}
			var files []string
			for _, o := range e.Outputs {
				files = append(files, o.File)
			}
			if !slices.Equal(files, tt.files) {
				t.Errorf("files = %v, want %v", files, tt.files)
			}
		})
	}
}

func TestOutputFilesUnique(t *testing.T) {
	seen := make(map[string]string)
	for _, e := range Entries() {
		for _, o := range e.Outputs {
			if prev, dup := seen[o.File]; dup {
				t.Errorf("%s written by both %s and %s", o.File, prev, e.Name)
			}
			seen[o.File] = e.Name
			if !strings.HasSuffix(o.File, "."+o.Format) {
				t.Errorf("%s: extension does not match format %s", o.File, o.Format)
			}
			if (o.Format == FormatPNG) != (o.Res != ResNone) {
				t.Errorf("%s: raster outputs need a resolution and only they do", o.File)
			}
		}
	}
}

func TestOutputDPI(t *testing.T) {
	r := DefaultResolutions
	tests := []struct {
		res  Res
		want float64
	}{
		{ResNone, 0},
		{ResPrint, 300},
		{ResWeb, 150},
		{ResScreen, 96},
	}
	for _, tt := range tests {
		if got := (Output{Res: tt.res}).DPI(r); got != tt.want {
			t.Errorf("DPI(%d) = %v, want %v", tt.res, got, tt.want)
		}
	}
}

func TestBuildAll(t *testing.T) {
	p := DefaultParams()
	for _, e := range Entries() {
		t.Run(e.Name, func(t *testing.T) {
			src, err := e.Build(p)
			if err != nil {
				t.Fatalf("Build() error: %v", err)
			}
			if (src.Graph != nil) == (src.Figure != nil) {
				t.Fatal("exactly one of Graph and Figure must be set")
			}
			if e.IsGraph() != (src.Graph != nil) {
				t.Errorf("IsGraph() = %v but Graph set = %v", e.IsGraph(), src.Graph != nil)
			}
			if src.Graph != nil {
				if err := src.Graph.Validate(); err != nil {
					t.Errorf("graph invalid: %v", err)
				}
			}

			again, _ := e.Build(p)
			if src.Key() == "" || src.Key() != again.Key() {
				t.Errorf("Key() not stable: %q vs %q", src.Key(), again.Key())
			}
		})
	}
}

func TestBuildParams(t *testing.T) {
	e, err := Lookup("waf-scorecard")
	if err != nil {
		t.Fatal(err)
	}

	base, err := e.Build(DefaultParams())
	if err != nil {
		t.Fatal(err)
	}
	p := DefaultParams()
	p.Pillars[3].Score = 9
	changed, err := e.Build(p)
	if err != nil {
		t.Fatal(err)
	}
	if base.Key() == changed.Key() {
		t.Error("changing a pillar score should change the source key")
	}

	p.Pillars[3].Score = 42
	if _, err := e.Build(p); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("Build() with bad score error = %v, want INVALID_INPUT", err)
	}
}

func TestFormats(t *testing.T) {
	e, _ := Lookup("roi-calculator")
	if got := e.Formats(); !slices.Equal(got, []string{FormatPNG}) {
		t.Errorf("Formats() = %v", got)
	}
	e, _ = Lookup("workflow_themed")
	if got := e.Formats(); !slices.Equal(got, []string{FormatDOT, FormatPNG, FormatSVG}) {
		t.Errorf("Formats() = %v", got)
	}
}

func TestSourceKeyEmpty(t *testing.T) {
	if k := (Source{}).Key(); k != "" {
		t.Errorf("empty source key = %q", k)
	}
}
