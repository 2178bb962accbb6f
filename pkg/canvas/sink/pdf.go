package sink

import (
	"context"

	"github.com/agenticinfraops/infraviz/pkg/canvas"
	"github.com/agenticinfraops/infraviz/pkg/render"
)

// RenderPDF renders the figure as PDF via SVG conversion.
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPDF(ctx context.Context, fig *canvas.Figure) ([]byte, error) {
	return render.ToPDF(ctx, RenderSVG(fig))
}
