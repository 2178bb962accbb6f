package architecture

import (
	"fmt"
	"html"
	"maps"
	"strings"

	"github.com/agenticinfraops/infraviz/pkg/dot"
	"github.com/agenticinfraops/infraviz/pkg/errors"
)

// Node is a resource in the diagram.
type Node struct {
	ID    string
	Kind  Kind
	Label string
}

// Cluster groups nodes and nested clusters under a label.
type Cluster struct {
	Label    string
	Nodes    []Node
	Clusters []Cluster
}

// Edge connects two nodes. Undirected edges draw without arrowheads.
type Edge struct {
	From       string
	To         string
	Label      string
	Style      string
	Color      string
	Undirected bool
}

// Diagram is a clustered architecture diagram.
type Diagram struct {
	Title      string
	Filename   string
	Direction  string
	GraphAttrs dot.Attrs
	Nodes      []Node
	Clusters   []Cluster
	Edges      []Edge
}

// Directions accepted by [Diagram.ToGraph].
var Directions = map[string]bool{"LR": true, "RL": true, "TB": true, "BT": true}

// Cluster background colors by nesting depth.
var clusterFills = []string{"#E5F5FD", "#EBF3E7", "#ECE8F6", "#FDF7E3"}

var (
	defaultGraphAttrs = dot.Attrs{
		"pad":       "2.0",
		"splines":   "ortho",
		"nodesep":   "0.60",
		"ranksep":   "0.75",
		"fontname":  "Sans-Serif",
		"fontsize":  "15",
		"fontcolor": "#2D3436",
		"labelloc":  "t",
	}
	defaultNodeAttrs = dot.Attrs{
		"style":    "rounded,filled",
		"fontname": "Sans-Serif",
		"fontsize": "11",
		"penwidth": "0",
		"margin":   "0.2,0.1",
		"width":    "1.6",
		"height":   "0.9",
	}
	defaultEdgeAttrs = dot.Attrs{
		"color":     "#7B8894",
		"fontname":  "Sans-Serif",
		"fontsize":  "10",
		"fontcolor": "#2D3436",
	}
)

// ToGraph converts the diagram to a validated Graphviz graph.
func (d *Diagram) ToGraph() (*dot.Graph, error) {
	dir := d.Direction
	if dir == "" {
		dir = "LR"
	}
	if !Directions[dir] {
		return nil, errors.New(errors.ErrCodeInvalidInput, "diagram %s: invalid direction %q", d.Filename, d.Direction)
	}

	name := d.Filename
	if name == "" {
		name = d.Title
	}
	g := dot.New(name)
	g.Attrs = maps.Clone(defaultGraphAttrs)
	g.Attrs["rankdir"] = dir
	if d.Title != "" {
		g.Attrs["label"] = d.Title
	}
	maps.Copy(g.Attrs, d.GraphAttrs)
	g.NodeAttrs = maps.Clone(defaultNodeAttrs)
	g.EdgeAttrs = maps.Clone(defaultEdgeAttrs)

	for _, n := range d.Nodes {
		attrs, err := nodeAttrs(n)
		if err != nil {
			return nil, err
		}
		g.AddNode(n.ID, attrs)
	}
	for i, c := range d.Clusters {
		if err := addCluster(g.AddCluster(fmt.Sprintf("c%d", i), nil), c, 0); err != nil {
			return nil, err
		}
	}
	for _, e := range d.Edges {
		g.AddEdge(e.From, e.To, edgeAttrs(e))
	}

	if err := g.Validate(); err != nil {
		return nil, err
	}
	return g, nil
}

func addCluster(dc *dot.Cluster, c Cluster, depth int) error {
	dc.Attrs = dot.Attrs{
		"label":     c.Label,
		"style":     "rounded,filled",
		"labeljust": "l",
		"pencolor":  "#AEB6BE",
		"fontname":  "Sans-Serif",
		"fontsize":  "12",
		"bgcolor":   clusterFills[depth%len(clusterFills)],
	}
	for _, n := range c.Nodes {
		attrs, err := nodeAttrs(n)
		if err != nil {
			return err
		}
		dc.AddNode(n.ID, attrs)
	}
	for i, sub := range c.Clusters {
		if err := addCluster(dc.AddCluster(fmt.Sprintf("%s_%d", dc.Name, i), nil), sub, depth+1); err != nil {
			return err
		}
	}
	return nil
}

func nodeAttrs(n Node) (dot.Attrs, error) {
	if !n.Kind.valid() {
		return nil, errors.New(errors.ErrCodeInvalidInput, "node %s: unknown kind %d", n.ID, int(n.Kind))
	}
	s := kindStyles[n.Kind]
	return dot.Attrs{
		"label":     nodeLabel(n),
		"shape":     s.shape,
		"fillcolor": s.fill,
		"fontcolor": s.font,
	}, nil
}

// nodeLabel renders an HTML-like label: the kind caption in small caps above
// the node's own lines.
func nodeLabel(n Node) string {
	var b strings.Builder
	b.WriteString(`<<font point-size="8">`)
	b.WriteString(html.EscapeString(strings.ToUpper(n.Kind.Caption())))
	b.WriteString(`</font>`)
	for _, line := range strings.Split(n.Label, "\n") {
		b.WriteString(`<br/>`)
		b.WriteString(html.EscapeString(line))
	}
	b.WriteString(`>`)
	return b.String()
}

func edgeAttrs(e Edge) dot.Attrs {
	attrs := dot.Attrs{}
	if e.Label != "" {
		attrs["xlabel"] = e.Label
	}
	if e.Style != "" {
		attrs["style"] = e.Style
	}
	if e.Color != "" {
		attrs["color"] = e.Color
	}
	if e.Undirected {
		attrs["dir"] = "none"
	}
	return attrs
}
