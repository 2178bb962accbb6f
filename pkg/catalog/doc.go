// Package catalog lists every diagram infraviz can render.
//
// An [Entry] pairs a diagram builder with the files it is written to. Graph
// entries build a [dot.Graph] that Graphviz lays out; infographic entries
// build a fixed-coordinate [canvas.Figure]. Both are wrapped in a [Source] so
// the pipeline can cache and render them the same way.
//
//	e, err := catalog.Lookup("roi-calculator")
//	src, err := e.Build(catalog.DefaultParams())
package catalog
