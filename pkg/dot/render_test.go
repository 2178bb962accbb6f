package dot

import (
	"bytes"
	"context"
	"image"
	_ "image/png"
	"strings"
	"testing"

	"golang.org/x/sync/errgroup"

	"github.com/agenticinfraops/infraviz/pkg/errors"
	"github.com/agenticinfraops/infraviz/pkg/render"
)

func TestNormalizeViewBox(t *testing.T) {
	tests := []struct {
		name string
		svg  string
		want string
	}{
		{
			name: "with viewBox",
			svg:  `<svg viewBox="10 20 800 600" xmlns="http://www.w3.org/2000/svg">content</svg>`,
			want: `<svg xmlns="http://www.w3.org/2000/svg" xmlns:xlink="http://www.w3.org/1999/xlink" viewBox="0 0 800.00 600.00" width="800" height="600">content</svg>`,
		},
		{
			name: "no viewBox",
			svg:  `<svg xmlns="http://www.w3.org/2000/svg">content</svg>`,
			want: `<svg xmlns="http://www.w3.org/2000/svg">content</svg>`,
		},
		{
			name: "zero dimensions",
			svg:  `<svg viewBox="0 0 0 0">content</svg>`,
			want: `<svg viewBox="0 0 0 0">content</svg>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := normalizeViewBox([]byte(tt.svg))
			if string(got) != tt.want {
				t.Errorf("normalizeViewBox() = %q, want %q", string(got), tt.want)
			}
		})
	}
}

func simpleGraph() *Graph {
	g := New("G")
	g.AddNode("a", Attrs{"label": "Plan"})
	g.AddNode("b", Attrs{"label": "Deploy"})
	g.AddEdge("a", "b", nil)
	return g
}

func TestRenderSVG(t *testing.T) {
	svg, err := RenderSVG(context.Background(), simpleGraph())
	if err != nil {
		t.Fatalf("RenderSVG() error: %v", err)
	}
	if !strings.Contains(string(svg), "<svg") {
		t.Error("RenderSVG() output missing <svg> tag")
	}
	if !strings.Contains(string(svg), "Deploy") {
		t.Error("RenderSVG() output missing node label")
	}
}

func TestRenderSVG_Undeclared(t *testing.T) {
	g := simpleGraph()
	g.AddEdge("b", "ghost", nil)
	_, err := RenderSVG(context.Background(), g)
	if !errors.Is(err, errors.ErrCodeInvalidGraph) {
		t.Errorf("RenderSVG() error = %v, want %s", err, errors.ErrCodeInvalidGraph)
	}
}

func TestRenderDOT_InvalidSyntax(t *testing.T) {
	_, err := renderDOT(context.Background(), `not valid DOT {{{`, "svg")
	if err == nil {
		t.Error("renderDOT() should return error for invalid DOT")
	}
}

func TestRenderPNG(t *testing.T) {
	data, err := RenderPNG(context.Background(), simpleGraph(), 150)
	if err != nil {
		t.Fatalf("RenderPNG() error: %v", err)
	}
	if _, format, err := image.DecodeConfig(bytes.NewReader(data)); err != nil || format != "png" {
		t.Errorf("RenderPNG() output not a png: format=%q err=%v", format, err)
	}
}

func TestRenderPNG_InvalidDPI(t *testing.T) {
	_, err := RenderPNG(context.Background(), simpleGraph(), -1)
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("RenderPNG(dpi=-1) error = %v, want %s", err, errors.ErrCodeInvalidInput)
	}
}

func TestRenderPDF(t *testing.T) {
	if !render.Available() {
		t.Skip("rsvg-convert not installed")
	}
	pdf, err := RenderPDF(context.Background(), simpleGraph())
	if err != nil {
		t.Fatalf("RenderPDF() error: %v", err)
	}
	if !bytes.HasPrefix(pdf, []byte("%PDF")) {
		t.Error("RenderPDF() output is not a PDF document")
	}
}

func TestRenderConcurrent(t *testing.T) {
	var g errgroup.Group
	for i := range 8 {
		g.Go(func() error {
			if i%2 == 0 {
				_, err := RenderPNG(context.Background(), simpleGraph(), 96)
				return err
			}
			svg, err := RenderSVG(context.Background(), simpleGraph())
			if err == nil && !strings.Contains(string(svg), "Deploy") {
				t.Errorf("RenderSVG() output missing node label")
			}
			return err
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatalf("concurrent render error: %v", err)
	}
}

func TestRenderCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := RenderSVG(ctx, simpleGraph()); err == nil {
		t.Error("RenderSVG() with canceled context should fail")
	}
}
