package infographic

import (
	"github.com/agenticinfraops/infraviz/pkg/canvas"
	"github.com/agenticinfraops/infraviz/pkg/palette"
)

// Workflow7Dark draws the seven-step workflow for dark slides: the four main
// agents in a row, with design artifacts branching above and post-build
// artifacts to the right.
func Workflow7Dark() *canvas.Figure {
	th := palette.Midnight
	fig := canvas.New(16, 9, th.Background)

	fig.Add(
		text(8, 8.3, "Agentic InfraOps", 28, th.Text, bold),
		text(8, 7.7, "7-Step Agent Workflow", 14, th.TextSecondary, italic),
	)

	const (
		stepW = 2.0
		stepH = 0.9
		mainY = 4.5
		gap   = 0.4
		x0    = 1.0
	)
	steps := []struct {
		num, title, agent, color string
	}{
		{"1", "① Plan", "project-planner", th.Cyan},
		{"2", "② Architect", "azure-principal-architect", th.Orange},
		{"4", "④ Plan Infrastructure", "bicep-plan", th.Green},
		{"5", "⑤ Generate Code", "bicep-implement", th.Pink},
	}
	pos := make(map[string]canvas.Point, len(steps))
	for i, s := range steps {
		x := x0 + float64(i)*(stepW+gap+0.8)
		pos[s.num] = canvas.Pt(x+stepW/2, mainY)
		fig.Add(
			canvas.Rect{
				X: x, Y: mainY - stepH/2, W: stepW, H: stepH, Pad: 0.02, Radius: 0.15,
				Fill: s.color, Stroke: canvas.Stroke{Color: s.color, Width: 2},
			},
			text(x+stepW/2, mainY+0.15, s.title, 11, th.Text, bold),
			text(x+stepW/2, mainY-0.2, s.agent, 8, th.Text, mono),
		)
		if i < len(steps)-1 {
			ax := x + stepW + 0.1
			fig.Add(canvas.Arrow{
				From: canvas.Pt(ax, mainY), To: canvas.Pt(ax+gap+0.6, mainY),
				Color: s.color, Width: 2.5, HeadSize: 15,
			})
		}
	}

	box := func(cx, cy, w, h float64, fill, label string, size float64, opts ...textOpt) {
		fig.Add(
			canvas.Rect{
				X: cx - w/2, Y: cy - h/2, W: w, H: h, Pad: 0.02, Radius: 0.1,
				Fill: fill, Stroke: canvas.Stroke{Color: fill, Width: 2},
			},
			text(cx, cy, label, size, th.Text, opts...),
		)
	}

	// Pre-build artifacts branch off step 2 and feed step 4.
	pre := canvas.Pt(7.0, 6.2)
	diag := canvas.Pt(4.5, 7.0)
	adr := canvas.Pt(4.5, 5.8)
	box(pre.X, pre.Y, 2.4, 0.8, th.PurpleLight, "③ Pre-Build Artifacts\n(optional)", 9, bold)
	box(diag.X, diag.Y, 2.2, 0.7, th.Teal, "-design diagram\ndiagram-generator", 8)
	box(adr.X, adr.Y, 2.2, 0.7, th.Teal, "-design ADR\nadr-generator", 8)

	s2, s4, s5 := pos["2"], pos["4"], pos["5"]
	fig.Add(
		dashed(th.Orange, s2.Add(0, 0.5), diag.Add(0, -0.4)),
		dashed(th.Orange, s2.Add(0, 0.5), adr.Add(0, -0.4)),
		dashed(th.Teal, diag.Add(1.1, 0), pre.Add(-1.2, 0.2)),
		dashed(th.Teal, adr.Add(1.1, 0), pre.Add(-1.2, -0.2)),
		dashed(th.PurpleLight, pre.Add(1.2, -0.4), s4.Add(0, 0.5)),
	)

	gov := canvas.Pt(s4.X, 3.0)
	box(gov.X, gov.Y, 2.4, 0.7, th.Teal, "Governance Discovery\nAzure Policy", 8)
	fig.Add(dashed(th.Teal, gov.Add(0, 0.35), s4.Add(0, -0.5)))

	// Post-build artifacts follow step 5.
	post := canvas.Pt(14.5, 4.5)
	abDiag := canvas.Pt(12.5, 3.2)
	abADR := canvas.Pt(12.5, 2.0)
	box(post.X, post.Y, 2.4, 0.8, th.OrangeLight, "⑥ Post-Build Artifacts\n(optional)", 9, bold)
	fig.Add(canvas.Arrow{
		From: s5.Add(1.0, 0), To: post.Add(-1.3, 0),
		Color: th.Pink, Width: 2.5, HeadSize: 15,
	})
	box(abDiag.X, abDiag.Y, 2.2, 0.7, th.Purple, "-asbuilt diagram\ndiagram-generator", 8)
	box(abADR.X, abADR.Y, 2.2, 0.7, th.Teal, "-asbuilt ADR\nadr-generator", 8)
	fig.Add(
		dashed(th.OrangeLight, post.Add(-0.5, -0.5), abDiag.Add(1.1, 0.35)),
		dashed(th.Purple, abDiag.Add(0, -0.35), abADR.Add(0, 0.35)),
	)

	fig.Add(text(8, 0.4, footer, 10, th.TextSecondary, italic))
	return fig
}
