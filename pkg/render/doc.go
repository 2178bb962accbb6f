// Package render converts SVG documents to PDF.
//
// # Overview
//
// Both diagram engines produce SVG first: Graphviz graphs through
// go-graphviz and infographics through the canvas SVG sink. PDF output is
// produced by the external rsvg-convert tool from librsvg:
//
//	pdf, err := render.ToPDF(ctx, svg)
//
// When the tool is missing, conversions fail with a TOOL_MISSING error that
// tells the user how to install it. [Available] lets callers and tests check
// up front.
package render
