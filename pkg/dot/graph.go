package dot

import (
	"bytes"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/agenticinfraops/infraviz/pkg/errors"
)

// Attrs is a set of Graphviz attributes.
type Attrs map[string]string

// Node is a declared graph node.
type Node struct {
	ID    string
	Attrs Attrs
}

// Edge connects two declared nodes.
type Edge struct {
	From  string
	To    string
	Attrs Attrs
}

// Cluster is a subgraph drawn as a box around its nodes.
// Name is emitted with the "cluster_" prefix Graphviz requires.
type Cluster struct {
	Name     string
	Attrs    Attrs
	Nodes    []Node
	Clusters []*Cluster
}

// Rank lists node ids that share a rank.
type Rank []string

// Graph is a directed Graphviz graph.
type Graph struct {
	Name      string
	Attrs     Attrs
	NodeAttrs Attrs
	EdgeAttrs Attrs
	Nodes     []Node
	Clusters  []*Cluster
	Edges     []Edge
	Ranks     []Rank
}

// New returns an empty graph with the given name.
func New(name string) *Graph {
	return &Graph{Name: name}
}

// AddNode declares a top-level node.
func (g *Graph) AddNode(id string, attrs Attrs) {
	g.Nodes = append(g.Nodes, Node{ID: id, Attrs: attrs})
}

// AddEdge adds an edge between two nodes.
func (g *Graph) AddEdge(from, to string, attrs Attrs) {
	g.Edges = append(g.Edges, Edge{From: from, To: to, Attrs: attrs})
}

// AddChain adds an edge between each consecutive pair of ids, all sharing attrs.
func (g *Graph) AddChain(attrs Attrs, ids ...string) {
	for i := 1; i < len(ids); i++ {
		g.AddEdge(ids[i-1], ids[i], attrs)
	}
}

// AddCluster appends a top-level cluster and returns it.
func (g *Graph) AddCluster(name string, attrs Attrs) *Cluster {
	c := &Cluster{Name: name, Attrs: attrs}
	g.Clusters = append(g.Clusters, c)
	return c
}

// SameRank groups ids on one rank.
func (g *Graph) SameRank(ids ...string) {
	g.Ranks = append(g.Ranks, Rank(ids))
}

// AddNode declares a node inside the cluster.
func (c *Cluster) AddNode(id string, attrs Attrs) {
	c.Nodes = append(c.Nodes, Node{ID: id, Attrs: attrs})
}

// AddCluster nests a cluster and returns it.
func (c *Cluster) AddCluster(name string, attrs Attrs) *Cluster {
	sub := &Cluster{Name: name, Attrs: attrs}
	c.Clusters = append(c.Clusters, sub)
	return sub
}

// NodeIDs returns every declared node id, clusters included, in declaration order.
func (g *Graph) NodeIDs() []string {
	var ids []string
	for _, n := range g.Nodes {
		ids = append(ids, n.ID)
	}
	for _, c := range g.Clusters {
		ids = c.appendIDs(ids)
	}
	return ids
}

func (c *Cluster) appendIDs(ids []string) []string {
	for _, n := range c.Nodes {
		ids = append(ids, n.ID)
	}
	for _, sub := range c.Clusters {
		ids = sub.appendIDs(ids)
	}
	return ids
}

// Node returns the declared node with the given id.
func (g *Graph) Node(id string) (Node, bool) {
	var found Node
	var ok bool
	g.walkNodes(func(n Node) {
		if !ok && n.ID == id {
			found, ok = n, true
		}
	})
	return found, ok
}

func (g *Graph) walkNodes(fn func(Node)) {
	for _, n := range g.Nodes {
		fn(n)
	}
	var walk func(c *Cluster)
	walk = func(c *Cluster) {
		for _, n := range c.Nodes {
			fn(n)
		}
		for _, sub := range c.Clusters {
			walk(sub)
		}
	}
	for _, c := range g.Clusters {
		walk(c)
	}
}

// Validate checks that node ids are unique and non-empty and that every edge
// endpoint and rank member refers to a declared node.
func (g *Graph) Validate() error {
	declared := make(map[string]bool)
	for _, id := range g.NodeIDs() {
		if id == "" {
			return errors.New(errors.ErrCodeInvalidGraph, "graph %s: node with empty id", g.Name)
		}
		if declared[id] {
			return errors.New(errors.ErrCodeInvalidGraph, "graph %s: node %q declared twice", g.Name, id)
		}
		declared[id] = true
	}
	for _, e := range g.Edges {
		for _, id := range []string{e.From, e.To} {
			if !declared[id] {
				return errors.New(errors.ErrCodeInvalidGraph,
					"graph %s: edge %s -> %s references undeclared node %q", g.Name, e.From, e.To, id)
			}
		}
	}
	for i, r := range g.Ranks {
		for _, id := range r {
			if !declared[id] {
				return errors.New(errors.ErrCodeInvalidGraph,
					"graph %s: rank group %d references undeclared node %q", g.Name, i, id)
			}
		}
	}
	return nil
}

// With returns a shallow copy of g whose graph attributes are overridden by attrs.
func (g *Graph) With(attrs Attrs) *Graph {
	cp := *g
	cp.Attrs = make(Attrs, len(g.Attrs)+len(attrs))
	maps.Copy(cp.Attrs, g.Attrs)
	maps.Copy(cp.Attrs, attrs)
	return &cp
}

// String serializes the graph to DOT.
func (g *Graph) String() string {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "digraph %s {\n", quote(g.Name))
	if len(g.Attrs) > 0 {
		fmt.Fprintf(&buf, "  graph [%s];\n", fmtAttrs(g.Attrs))
	}
	if len(g.NodeAttrs) > 0 {
		fmt.Fprintf(&buf, "  node [%s];\n", fmtAttrs(g.NodeAttrs))
	}
	if len(g.EdgeAttrs) > 0 {
		fmt.Fprintf(&buf, "  edge [%s];\n", fmtAttrs(g.EdgeAttrs))
	}

	if len(g.Nodes) > 0 {
		buf.WriteString("\n")
	}
	for _, n := range g.Nodes {
		writeNode(&buf, n, "  ")
	}
	for _, c := range g.Clusters {
		buf.WriteString("\n")
		writeCluster(&buf, c, "  ")
	}

	if len(g.Edges) > 0 {
		buf.WriteString("\n")
	}
	for _, e := range g.Edges {
		fmt.Fprintf(&buf, "  %s -> %s", quote(e.From), quote(e.To))
		if len(e.Attrs) > 0 {
			fmt.Fprintf(&buf, " [%s]", fmtAttrs(e.Attrs))
		}
		buf.WriteString(";\n")
	}

	if len(g.Ranks) > 0 {
		buf.WriteString("\n")
	}
	for _, r := range g.Ranks {
		buf.WriteString("  { rank=same;")
		for _, id := range r {
			fmt.Fprintf(&buf, " %s;", quote(id))
		}
		buf.WriteString(" }\n")
	}

	buf.WriteString("}\n")
	return buf.String()
}

func writeNode(buf *bytes.Buffer, n Node, indent string) {
	fmt.Fprintf(buf, "%s%s", indent, quote(n.ID))
	if len(n.Attrs) > 0 {
		fmt.Fprintf(buf, " [%s]", fmtAttrs(n.Attrs))
	}
	buf.WriteString(";\n")
}

func writeCluster(buf *bytes.Buffer, c *Cluster, indent string) {
	fmt.Fprintf(buf, "%ssubgraph %s {\n", indent, quote("cluster_"+c.Name))
	inner := indent + "  "
	for _, k := range slices.Sorted(maps.Keys(c.Attrs)) {
		fmt.Fprintf(buf, "%s%s=%s;\n", inner, k, quote(c.Attrs[k]))
	}
	for _, n := range c.Nodes {
		writeNode(buf, n, inner)
	}
	for _, sub := range c.Clusters {
		writeCluster(buf, sub, inner)
	}
	fmt.Fprintf(buf, "%s}\n", indent)
}

func fmtAttrs(attrs Attrs) string {
	parts := make([]string, 0, len(attrs))
	for _, k := range slices.Sorted(maps.Keys(attrs)) {
		parts = append(parts, k+"="+quote(attrs[k]))
	}
	return strings.Join(parts, ", ")
}

// quote renders an ID or attribute value. HTML-like labels pass through
// unquoted; everything else becomes a quoted string.
func quote(s string) string {
	if len(s) > 1 && s[0] == '<' && s[len(s)-1] == '>' {
		return s
	}
	return fmt.Sprintf("%q", s)
}
