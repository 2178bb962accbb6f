package catalog

import (
	"slices"

	"github.com/agenticinfraops/infraviz/pkg/architecture"
	"github.com/agenticinfraops/infraviz/pkg/canvas"
	"github.com/agenticinfraops/infraviz/pkg/cache"
	"github.com/agenticinfraops/infraviz/pkg/dot"
	"github.com/agenticinfraops/infraviz/pkg/errors"
	"github.com/agenticinfraops/infraviz/pkg/infographic"
	"github.com/agenticinfraops/infraviz/pkg/workflow"
)

// Diagram families.
const (
	FamilyArchitecture = "architecture"
	FamilyWorkflow     = "workflow"
	FamilyInfographic  = "infographic"
)

// Families lists the known families in display order.
var Families = []string{FamilyArchitecture, FamilyWorkflow, FamilyInfographic}

// Output formats.
const (
	FormatPNG = "png"
	FormatSVG = "svg"
	FormatPDF = "pdf"
	FormatDOT = "dot"
)

// Res names the resolution class of a raster output.
type Res int

const (
	ResNone   Res = iota // vector or text output
	ResPrint             // presentation quality
	ResWeb               // web quality
	ResScreen            // Graphviz default
)

// Resolutions maps each resolution class to a DPI.
type Resolutions struct {
	Print  float64
	Web    float64
	Screen float64
}

// DefaultResolutions are the DPIs the diagrams were published at.
var DefaultResolutions = Resolutions{Print: 300, Web: 150, Screen: 96}

// Output is one file written for an entry.
type Output struct {
	File   string
	Format string
	Res    Res
}

// DPI returns the resolution of o under r, or 0 for non-raster outputs.
func (o Output) DPI(r Resolutions) float64 {
	switch o.Res {
	case ResPrint:
		return r.Print
	case ResWeb:
		return r.Web
	case ResScreen:
		return r.Screen
	}
	return 0
}

// Params carries the datasets a user may override.
type Params struct {
	ROI     infographic.ROIInputs
	Pillars []infographic.Pillar
}

// DefaultParams returns the published datasets.
func DefaultParams() Params {
	return Params{
		ROI:     infographic.DefaultROIInputs(),
		Pillars: infographic.DefaultPillars(),
	}
}

// Source is a built diagram. Exactly one of Graph and Figure is set.
type Source struct {
	Graph  *dot.Graph
	Figure *canvas.Figure
}

// Key returns a content hash of the source. Equal keys render to equal bytes.
func (s Source) Key() string {
	if s.Graph != nil {
		return cache.Hash([]byte("dot\n" + s.Graph.String()))
	}
	if s.Figure != nil {
		return cache.Hash([]byte("figure\n" + s.Figure.Fingerprint()))
	}
	return ""
}

// Entry is one diagram of the catalog.
type Entry struct {
	Name        string
	Family      string
	Description string
	Outputs     []Output
	Build       func(Params) (Source, error)
}

// Formats returns the distinct output formats of e in output order.
func (e Entry) Formats() []string {
	var out []string
	for _, o := range e.Outputs {
		if !slices.Contains(out, o.Format) {
			out = append(out, o.Format)
		}
	}
	return out
}

// IsGraph reports whether e is laid out by Graphviz.
func (e Entry) IsGraph() bool { return e.Family != FamilyInfographic }

// Entries returns every entry in catalog order.
func Entries() []Entry {
	return slices.Clone(entries)
}

// Names returns the entry names in catalog order.
func Names() []string {
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name
	}
	return names
}

// Lookup returns the entry called name.
func Lookup(name string) (Entry, error) {
	for _, e := range entries {
		if e.Name == name {
			return e, nil
		}
	}
	return Entry{}, errors.New(errors.ErrCodeNotFound, "unknown diagram %q", name)
}

// Filter returns the entries of a family.
func Filter(family string) ([]Entry, error) {
	if !slices.Contains(Families, family) {
		return nil, errors.New(errors.ErrCodeInvalidInput,
			"unknown family %q (must be one of: architecture, workflow, infographic)", family)
	}
	var out []Entry
	for _, e := range entries {
		if e.Family == family {
			out = append(out, e)
		}
	}
	return out, nil
}

func architectureEntry(name, desc string, build func() *architecture.Diagram) Entry {
	return Entry{
		Name:        name,
		Family:      FamilyArchitecture,
		Description: desc,
		Outputs:     []Output{{name + ".png", FormatPNG, ResScreen}},
		Build: func(Params) (Source, error) {
			g, err := build().ToGraph()
			if err != nil {
				return Source{}, err
			}
			return Source{Graph: g}, nil
		},
	}
}

func workflowEntry(name, desc string, build func() *dot.Graph) Entry {
	return Entry{
		Name:        name,
		Family:      FamilyWorkflow,
		Description: desc,
		Outputs: []Output{
			{name + ".dot", FormatDOT, ResNone},
			{name + ".png", FormatPNG, ResWeb},
			{name + ".svg", FormatSVG, ResNone},
		},
		Build: func(Params) (Source, error) {
			return Source{Graph: build()}, nil
		},
	}
}

func infographicEntry(name, file, desc string, pdf bool, build func(Params) (*canvas.Figure, error)) Entry {
	outputs := []Output{
		{file + ".png", FormatPNG, ResPrint},
		{file + "-web.png", FormatPNG, ResWeb},
	}
	if pdf {
		outputs = append(outputs, Output{file + ".pdf", FormatPDF, ResNone})
	}
	return Entry{
		Name:        name,
		Family:      FamilyInfographic,
		Description: desc,
		Outputs:     outputs,
		Build: func(p Params) (Source, error) {
			fig, err := build(p)
			if err != nil {
				return Source{}, err
			}
			return Source{Figure: fig}, nil
		},
	}
}

func static(f func() *canvas.Figure) func(Params) (*canvas.Figure, error) {
	return func(Params) (*canvas.Figure, error) { return f(), nil }
}

var entries = []Entry{
	architectureEntry("03-des-diagram", "Static Web App with Azure SQL, design phase",
		architecture.StaticWebAppDesign),
	architectureEntry("07-ab-diagram", "Static Web App with Azure SQL, as built",
		architecture.StaticWebAppAsBuilt),

	workflowEntry("workflow_numbered", "Seven steps with numbered agents and tool sidecars",
		workflow.Numbered),
	workflowEntry("workflow_simple_v2", "Seven steps as a single left-to-right chain",
		workflow.Simple),
	workflowEntry("workflow_detailed", "Seven steps with agent names and artifacts",
		workflow.Detailed),
	workflowEntry("workflow_themed", "Seven steps grouped into phase clusters",
		workflow.Themed),
	workflowEntry("workflow_simple", "Seven steps with a governance side branch",
		workflow.ThemedSimple),

	infographicEntry("roi-calculator", "roi-calculator", "Copilot ROI metrics, task savings and annual value", false,
		func(p Params) (*canvas.Figure, error) { return infographic.ROICalculator(p.ROI) }),
	infographicEntry("waf-scorecard", "waf-scorecard", "Well-Architected pillar radar and scores", false,
		func(p Params) (*canvas.Figure, error) { return infographic.WAFScorecard(p.Pillars) }),
	infographicEntry("workflow-4step", "workflow-4step", "Four core agent cards with optional integrations", true,
		static(infographic.Workflow4)),
	infographicEntry("workflow-7step", "workflow-diagram", "Seven agent cards with automatic integrations", true,
		static(infographic.Workflow7)),
	infographicEntry("workflow-7step-dark", "workflow-diagram-dark", "Seven-step workflow for dark slides", false,
		static(infographic.Workflow7Dark)),
}
