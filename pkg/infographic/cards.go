package infographic

import (
	"strings"

	"github.com/agenticinfraops/infraviz/pkg/canvas"
	"github.com/agenticinfraops/infraviz/pkg/palette"
)

// Card is one step of a workflow card row.
type Card struct {
	Num      string
	Title    string
	Subtitle string
	Agent    string
	Desc     []string
	Fill     string
	Border   string
	Icon     string
}

// BuiltIn reports whether the step runs a built-in agent.
func (c Card) BuiltIn() bool { return strings.Contains(c.Agent, "Built-in") }

// Integration is a tool box drawn under the card row.
type Integration struct {
	Name string
	Desc string
	X    float64
}

type cardRow struct {
	width, height float64
	y, gap, x0    float64
}

func (r cardRow) left(i int) float64   { return r.x0 + float64(i)*(r.width+r.gap) }
func (r cardRow) center(i int) float64 { return r.left(i) + r.width/2 }
func (r cardRow) bottom() float64      { return r.y - r.height/2 }

// FourStepCards are the core agents from plan to implementation.
func FourStepCards() []Card {
	return []Card{
		{"1", "@plan", "Requirements", "Built-in Plan Agent",
			[]string{"Gather requirements", "Create implementation plan", "Cost estimation"},
			palette.Step1, palette.Step1Border, "📋"},
		{"2", "azure-principal-\narchitect", "Architecture", "Custom Agent",
			[]string{"WAF assessment", "Security review", "NO CODE output"},
			palette.Step2, palette.Step2Border, "🏗️"},
		{"3", "bicep-plan", "Planning", "Custom Agent",
			[]string{"AVM module selection", "Resource dependencies", "Implementation plan"},
			palette.Step3, palette.Step3Border, "📝"},
		{"4", "bicep-implement", "Implementation", "Custom Agent",
			[]string{"Generate Bicep code", "Validate with lint", "Deploy-ready templates"},
			palette.Step4, palette.Step4Border, "⚙️"},
	}
}

// SevenStepCards cover the full workflow including design and as-built artifacts.
func SevenStepCards() []Card {
	return []Card{
		{"1", "project-\nplanner", "Requirements", "Custom Agent",
			[]string{"Gather requirements", "NFR capture"},
			palette.Step1, palette.Step1Border, "📋"},
		{"2", "azure-principal-\narchitect", "Architecture", "Custom Agent",
			[]string{"WAF assessment", "NO CODE output"},
			palette.Step2, palette.Step2Border, "🏗️"},
		{"3", "Design\nArtifacts", "-des suffix", "Optional",
			[]string{"Design diagrams", "Decision ADRs"},
			palette.DesignFill, palette.DesignBorder, "📊"},
		{"4", "bicep-plan", "Planning", "Custom Agent",
			[]string{"Governance discovery", "AVM modules"},
			palette.Step3, palette.Step3Border, "📝"},
		{"5", "bicep-\nimplement", "Implementation", "Custom Agent",
			[]string{"Generate Bicep", "Validate & deploy"},
			palette.Step4, palette.Step4Border, "⚙️"},
		{"6", "deploy", "To Azure", "Custom Agent",
			[]string{"What-if analysis", "Deploy resources"},
			palette.DeployFill, palette.DeployBorder, "🚀"},
		{"7", "workload-docs\n+ diagrams", "As-Built", "Custom Agents",
			[]string{"Runbooks, inventory", "As-built diagrams"},
			palette.DocsFill, palette.DocsBorder, "📚"},
	}
}

// Workflow4 draws the four core agent cards with the optional integrations
// used during the architecture phase.
func Workflow4() *canvas.Figure {
	row := cardRow{width: 3.0, height: 2.8, y: 4.2, gap: 0.5, x0: 0.8}
	return cardFigure(FourStepCards(), row,
		"Optional Integrations (During Architecture Phase)",
		[]Integration{
			{"💰 Azure Pricing MCP", "Real-time cost estimates", 3.5},
			{"📊 diagram-generator", "Architecture visualization", 8},
			{"📝 adr-generator", "Decision documentation", 12.5},
		},
		[]int{1},
	)
}

// Workflow7 draws all seven step cards with the integrations that run
// automatically in steps 2, 4 and 5.
func Workflow7() *canvas.Figure {
	row := cardRow{width: 2.2, height: 2.6, y: 4.2, gap: 0.35, x0: 0.6}
	return cardFigure(SevenStepCards(), row,
		"Automatic Integrations",
		[]Integration{
			{"💰 Azure Pricing MCP", "Real-time costs (Steps 2, 4)", 4},
			{"🔒 Azure Policy", "Governance discovery (Step 4)", 8},
			{"✅ Bicep Validation", "Build & lint (Step 5)", 12},
		},
		[]int{1, 3, 4},
	)
}

// cardFigure lays out cards left to right with approve arrows between them,
// then the integration boxes joined to the cards at connect by dashed lines.
func cardFigure(cards []Card, row cardRow, integrationsTitle string, integrations []Integration, connect []int) *canvas.Figure {
	fig := canvas.New(16, 9, palette.White)
	fig.Add(
		text(8, 8.3, "Agentic InfraOps", 28, palette.Primary, bold),
		text(8, 7.7, "Azure infrastructure engineered by agents", 14, palette.Dark, italic),
	)

	for i, c := range cards {
		x := row.left(i)
		cx := row.center(i)
		top := row.y + row.height/2
		agentColor := palette.Purple
		if c.BuiltIn() {
			agentColor = palette.Primary
		}

		fig.Add(
			canvas.Rect{
				X: x, Y: row.bottom(), W: row.width, H: row.height, Pad: 0.05, Radius: 0.2,
				Fill: c.Fill, Stroke: canvas.Stroke{Color: c.Border, Width: 3},
			},
			canvas.Circle{
				Center: canvas.Pt(x+0.35, top-0.35), R: 0.25, Fill: c.Border,
				Stroke: canvas.Stroke{Color: palette.White, Width: 2},
			},
			text(x+0.35, top-0.35, c.Num, 14, palette.White, bold),
			text(cx, row.y+0.9, c.Icon, 24, palette.Dark),
			text(cx, row.y+0.35, c.Title, 11, c.Border, bold, mono),
			text(cx, row.y-0.15, c.Subtitle, 12, palette.Dark, bold),
			text(cx, row.y-0.5, c.Agent, 8, agentColor, badge(palette.White, agentColor, 1)),
		)
		for j, d := range c.Desc {
			fig.Add(text(x+0.25, row.y-0.85-float64(j)*0.3, "• "+d, 9, palette.Dark, left))
		}

		if i < len(cards)-1 {
			ax := x + row.width + 0.08
			fig.Add(
				canvas.Arrow{
					From: canvas.Pt(ax, row.y), To: canvas.Pt(ax+row.gap-0.16, row.y),
					Color: palette.Primary, Width: 3, HeadSize: 20,
				},
				text(ax+row.gap/2-0.04, row.y+0.35, "✓ Approve", 8, palette.Success, bold),
			)
		}
	}

	fig.Add(text(8, 1.9, integrationsTitle, 12, palette.Dark, bold))
	for _, in := range integrations {
		fig.Add(
			canvas.Rect{
				X: in.X - 1.5, Y: 0.6, W: 3.0, H: 1.0, Pad: 0.05, Radius: 0.15,
				Fill: palette.Light, Stroke: canvas.Stroke{Color: palette.Secondary, Width: 2, Dashed: true},
			},
			text(in.X, 1.25, in.Name, 10, palette.Primary, bold),
			text(in.X, 0.9, in.Desc, 9, palette.Dark),
		)
	}

	const bus = 2.3
	for _, in := range integrations {
		fig.Add(dashed(palette.Secondary, canvas.Pt(in.X, 1.6), canvas.Pt(in.X, bus)))
	}
	if len(integrations) > 0 {
		first, last := integrations[0].X, integrations[len(integrations)-1].X
		fig.Add(dashed(palette.Secondary, canvas.Pt(first, bus), canvas.Pt(last, bus)))
	}
	for _, i := range connect {
		cx := row.center(i)
		fig.Add(dashed(palette.Secondary, canvas.Pt(cx, bus), canvas.Pt(cx, row.bottom())))
	}

	fig.Add(text(8, 0.2, footer, 10, palette.Dark, italic))
	return fig
}
