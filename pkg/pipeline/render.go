package pipeline

import (
	"context"

	"github.com/agenticinfraops/infraviz/pkg/canvas/sink"
	"github.com/agenticinfraops/infraviz/pkg/catalog"
	"github.com/agenticinfraops/infraviz/pkg/dot"
	"github.com/agenticinfraops/infraviz/pkg/errors"
)

// RenderSource renders src in one format. dpi applies to PNG only.
func RenderSource(ctx context.Context, src catalog.Source, format string, dpi float64) ([]byte, error) {
	if err := ValidateFormat(format); err != nil {
		return nil, err
	}
	switch {
	case src.Graph != nil:
		return renderGraph(ctx, src.Graph, format, dpi)
	case src.Figure != nil:
		return renderFigure(ctx, src, format, dpi)
	}
	return nil, errors.New(errors.ErrCodeInternal, "empty diagram source")
}

func renderGraph(ctx context.Context, g *dot.Graph, format string, dpi float64) ([]byte, error) {
	switch format {
	case FormatSVG:
		return dot.RenderSVG(ctx, g)
	case FormatPNG:
		return dot.RenderPNG(ctx, g, dpi)
	case FormatPDF:
		return dot.RenderPDF(ctx, g)
	case FormatDOT:
		if err := g.Validate(); err != nil {
			return nil, err
		}
		return []byte(g.String()), nil
	}
	return nil, errors.New(errors.ErrCodeUnsupported, "unsupported graph format: %s", format)
}

func renderFigure(ctx context.Context, src catalog.Source, format string, dpi float64) ([]byte, error) {
	switch format {
	case FormatSVG:
		return sink.RenderSVG(src.Figure), nil
	case FormatPNG:
		return sink.RenderPNG(src.Figure, dpi)
	case FormatPDF:
		return sink.RenderPDF(ctx, src.Figure)
	}
	return nil, errors.New(errors.ErrCodeUnsupported, "%s output is only available for Graphviz diagrams", format)
}
