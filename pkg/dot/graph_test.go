package dot

import (
	"strings"
	"testing"

	"github.com/agenticinfraops/infraviz/pkg/errors"
)

func sampleGraph() *Graph {
	g := New("Sample")
	g.Attrs = Attrs{"rankdir": "LR", "bgcolor": "#1a1a2e"}
	g.NodeAttrs = Attrs{"shape": "box", "style": "filled,rounded"}
	g.EdgeAttrs = Attrs{"color": "#64748b"}
	g.AddNode("a", Attrs{"label": "1. Plan\n@plan"})
	c := g.AddCluster("step2", Attrs{"label": "Step 2", "style": "rounded"})
	c.AddNode("b", nil)
	inner := c.AddCluster("governance", Attrs{"label": "Governance"})
	inner.AddNode("c", Attrs{"label": "Policy"})
	g.AddEdge("a", "b", Attrs{"style": "dashed"})
	g.AddEdge("c", "b", nil)
	g.SameRank("b", "c")
	return g
}

func TestString(t *testing.T) {
	got := sampleGraph().String()

	checks := []string{
		`digraph "Sample" {`,
		`graph [bgcolor="#1a1a2e", rankdir="LR"];`,
		`node [shape="box", style="filled,rounded"];`,
		`edge [color="#64748b"];`,
		`"a" [label="1. Plan\n@plan"];`,
		`subgraph "cluster_step2" {`,
		`label="Step 2";`,
		`subgraph "cluster_governance" {`,
		`"b";`,
		`"a" -> "b" [style="dashed"];`,
		`"c" -> "b";`,
		`{ rank=same; "b"; "c"; }`,
	}
	for _, want := range checks {
		if !strings.Contains(got, want) {
			t.Errorf("String() missing %q\n%s", want, got)
		}
	}
}

func TestStringDeterministic(t *testing.T) {
	first := sampleGraph().String()
	for i := 0; i < 20; i++ {
		if got := sampleGraph().String(); got != first {
			t.Fatalf("String() not deterministic:\n%s\nvs\n%s", first, got)
		}
	}
}

func TestStringClusterNesting(t *testing.T) {
	got := sampleGraph().String()
	outer := strings.Index(got, `subgraph "cluster_step2"`)
	inner := strings.Index(got, `subgraph "cluster_governance"`)
	if outer < 0 || inner < outer {
		t.Errorf("nested cluster should follow its parent:\n%s", got)
	}
}

func TestQuote(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"plain", `"plain"`},
		{"two\nlines", `"two\nlines"`},
		{`say "hi"`, `"say \"hi\""`},
		{"<<b>bold</b>>", "<<b>bold</b>>"},
		{"<", `"<"`},
	}
	for _, tt := range tests {
		if got := quote(tt.in); got != tt.want {
			t.Errorf("quote(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestAddChain(t *testing.T) {
	g := New("chain")
	for _, id := range []string{"s1", "s2", "s3"} {
		g.AddNode(id, nil)
	}
	g.AddChain(Attrs{"style": "dashed"}, "s1", "s2", "s3")

	if len(g.Edges) != 2 {
		t.Fatalf("AddChain() edges = %d, want 2", len(g.Edges))
	}
	if g.Edges[1].From != "s2" || g.Edges[1].To != "s3" {
		t.Errorf("second edge = %s -> %s, want s2 -> s3", g.Edges[1].From, g.Edges[1].To)
	}
	for _, e := range g.Edges {
		if e.Attrs["style"] != "dashed" {
			t.Errorf("edge %s -> %s missing shared attrs", e.From, e.To)
		}
	}
}

func TestNodeIDs(t *testing.T) {
	got := sampleGraph().NodeIDs()
	want := []string{"a", "b", "c"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("NodeIDs() = %v, want %v", got, want)
	}
}

func TestNodeLookup(t *testing.T) {
	g := sampleGraph()
	n, ok := g.Node("c")
	if !ok {
		t.Fatal("Node(c) not found")
	}
	if n.Attrs["label"] != "Policy" {
		t.Errorf("Node(c) label = %q, want Policy", n.Attrs["label"])
	}
	if _, ok := g.Node("missing"); ok {
		t.Error("Node(missing) should not be found")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(g *Graph)
		wantErr bool
	}{
		{"valid", func(g *Graph) {}, false},
		{"undeclared edge target", func(g *Graph) { g.AddEdge("a", "step6a", nil) }, true},
		{"undeclared edge source", func(g *Graph) { g.AddEdge("step6b", "a", nil) }, true},
		{"undeclared rank member", func(g *Graph) { g.SameRank("opt6a", "opt6b") }, true},
		{"duplicate node", func(g *Graph) { g.AddNode("c", nil) }, true},
		{"empty id", func(g *Graph) { g.AddNode("", nil) }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := sampleGraph()
			tt.mutate(g)
			err := g.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, errors.ErrCodeInvalidGraph) {
				t.Errorf("Validate() code = %s, want %s", errors.GetCode(err), errors.ErrCodeInvalidGraph)
			}
		})
	}
}

func TestWith(t *testing.T) {
	g := sampleGraph()
	cp := g.With(Attrs{"dpi": "150", "rankdir": "TB"})

	if cp.Attrs["dpi"] != "150" || cp.Attrs["rankdir"] != "TB" {
		t.Errorf("With() attrs = %v", cp.Attrs)
	}
	if _, ok := g.Attrs["dpi"]; ok {
		t.Error("With() must not modify the original graph")
	}
	if g.Attrs["rankdir"] != "LR" {
		t.Errorf("original rankdir = %q, want LR", g.Attrs["rankdir"])
	}
}
