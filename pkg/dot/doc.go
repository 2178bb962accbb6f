// Package dot models Graphviz graphs and renders them.
//
// Graphs are built as typed values ([Graph], [Node], [Edge], [Cluster],
// [Rank]) instead of formatted strings, so the same graph can be validated,
// hashed for caching, written as a .dot file and rendered:
//
//	g := dot.New("Workflow")
//	g.Attrs = dot.Attrs{"rankdir": "LR", "bgcolor": "#1a1a2e"}
//	g.AddNode("plan", dot.Attrs{"label": "1. Plan"})
//	g.AddNode("architect", dot.Attrs{"label": "2. Architect"})
//	g.AddEdge("plan", "architect", nil)
//
//	if err := g.Validate(); err != nil {
//	    return err
//	}
//	svg, err := dot.RenderSVG(ctx, g)
//
// # Serialization
//
// [Graph.String] is deterministic: attributes are sorted by key while nodes,
// clusters, edges and rank groups keep insertion order. Two graphs that
// describe the same drawing produce identical text, which is what the render
// cache keys on.
//
// # Validation
//
// Graphviz silently creates any node that an edge or rank group mentions.
// [Graph.Validate] treats such references as errors instead, so a typo in a
// node id fails the build rather than producing an unlabeled box.
//
// # Rendering
//
// Layout runs in-process through go-graphviz (Graphviz compiled to WASM), so
// no system Graphviz is required. SVG and PNG come straight from Graphviz;
// PDF goes through rsvg-convert via [render.ToPDF].
package dot
