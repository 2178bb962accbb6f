package infographic

import (
	"fmt"
	"math"
	"strconv"

	"github.com/agenticinfraops/infraviz/pkg/canvas"
	"github.com/agenticinfraops/infraviz/pkg/errors"
	"github.com/agenticinfraops/infraviz/pkg/palette"
)

// MaxScore is the top of the pillar scale.
const MaxScore = 10

// Pillar is one Well-Architected Framework pillar and its score.
type Pillar struct {
	Name  string `toml:"name"`
	Score int    `toml:"score"`
	Color string `toml:"color"`
	Icon  string `toml:"icon"`
}

// DefaultPillars returns the scores of generated infrastructure.
func DefaultPillars() []Pillar {
	return []Pillar{
		{"Security", 9, palette.Security, "🔒"},
		{"Reliability", 8, palette.Reliability, "🛡️"},
		{"Performance", 8, palette.Performance, "⚡"},
		{"Cost Optimization", 7, palette.Cost, "💰"},
		{"Operational Excellence", 8, palette.Operations, "⚙️"},
	}
}

// OverallScore is the mean pillar score.
func OverallScore(pillars []Pillar) float64 {
	if len(pillars) == 0 {
		return 0
	}
	var sum int
	for _, p := range pillars {
		sum += p.Score
	}
	return float64(sum) / float64(len(pillars))
}

// RadarPoint places value on axis i of n. Axis 0 points straight up and the
// rest follow clockwise; value == maxValue lands on the outer ring.
func RadarPoint(center canvas.Point, radius float64, i, n int, value, maxValue float64) canvas.Point {
	theta := math.Pi/2 - 2*math.Pi*float64(i)/float64(n)
	r := value / maxValue * radius
	return canvas.Pt(center.X+r*math.Cos(theta), center.Y+r*math.Sin(theta))
}

// Fixed label anchors around the radar, clockwise from the top.
var pillarLabelAt = []canvas.Point{
	{X: 6, Y: 6.3},
	{X: 9.5, Y: 4.5},
	{X: 8.5, Y: 1.5},
	{X: 3.5, Y: 1.5},
	{X: 2.5, Y: 4.5},
}

// ValidatePillars rejects pillar sets the layout cannot draw.
func ValidatePillars(pillars []Pillar) error {
	if len(pillars) != len(pillarLabelAt) {
		return errors.New(errors.ErrCodeInvalidInput, "waf: need %d pillars, got %d", len(pillarLabelAt), len(pillars))
	}
	for _, p := range pillars {
		if p.Score < 0 || p.Score > MaxScore {
			return errors.New(errors.ErrCodeInvalidInput, "waf: pillar %q score %d outside 0..%d", p.Name, p.Score, MaxScore)
		}
		if _, err := palette.Parse(p.Color); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidInput, err, "waf: pillar %q", p.Name)
		}
	}
	return nil
}

// WAFScorecard draws the pillar radar chart with score badges, the overall
// score and the legend.
func WAFScorecard(pillars []Pillar) (*canvas.Figure, error) {
	if err := ValidatePillars(pillars); err != nil {
		return nil, err
	}
	fig := canvas.New(12, 8, palette.White)

	fig.Add(
		text(6, 7.5, "Well-Architected Framework Alignment", 20, palette.Primary, bold),
		text(6, 7.0, "Agentic InfraOps generates WAF-aligned infrastructure", 11, palette.Dark, italic),
	)

	addRadar(fig, pillars)

	for i, p := range pillars {
		at := pillarLabelAt[i]
		fig.Add(
			text(at.X, at.Y, p.Icon+" "+p.Name, 10, p.Color, bold),
			text(at.X, at.Y-0.35, fmt.Sprintf("%d/10", p.Score), 9, palette.Dark, badge(palette.White, p.Color, 1.5)),
		)
	}

	fig.Add(
		canvas.Circle{
			Center: canvas.Pt(10.5, 6.5), R: 0.8, Fill: palette.Primary,
			Stroke: canvas.Stroke{Color: palette.White, Width: 3},
		},
		text(10.5, 6.7, fmt.Sprintf("%.1f", OverallScore(pillars)), 24, palette.White, bold),
		text(10.5, 6.2, "/10", 12, palette.White),
		text(10.5, 5.5, "Overall WAF\nScore", 9, palette.Primary, bold),
	)

	fig.Add(text(1.5, 6.5, "Score Legend", 10, palette.Dark, bold))
	legend := []struct {
		score, label, color string
	}{
		{"9-10", "Excellent", palette.Success},
		{"7-8", "Good", palette.Primary},
		{"5-6", "Needs Work", palette.Warning},
		{"1-4", "Critical", palette.Danger},
	}
	for i, l := range legend {
		y := 6.0 - float64(i)*0.4
		fig.Add(
			canvas.Rect{X: 0.5, Y: y - 0.12, W: 0.4, H: 0.24, Pad: 0.02, Radius: 0.05, Fill: l.color},
			text(1.1, y, l.score+": "+l.label, 8, palette.Dark, left),
		)
	}

	fig.Add(
		text(6, 0.3, "Generated by Agentic InfraOps  •  "+footer, 9, palette.Dark, italic),
		text(10.5, 0.5, "🏛️ Azure Well-Architected", 8, palette.Primary, bold),
	)
	return fig, nil
}

// Radar geometry: the polar plot occupies the middle half of the page width
// and is drawn as a circle inscribed in that area.
var (
	radarCenter = canvas.Pt(6, 4.0)
	radarRadius = 2.8
)

const markerRadius = 3.0 / canvas.PointsPerUnit

func addRadar(fig *canvas.Figure, pillars []Pillar) {
	n := len(pillars)
	ring := func(v float64) []canvas.Point {
		pts := make([]canvas.Point, n)
		for i := range pts {
			pts[i] = RadarPoint(radarCenter, radarRadius, i, n, v, MaxScore)
		}
		return pts
	}
	outer := ring(MaxScore)
	scores := make([]canvas.Point, n)
	for i, p := range pillars {
		scores[i] = RadarPoint(radarCenter, radarRadius, i, n, float64(p.Score), MaxScore)
	}

	fig.Add(
		canvas.Polygon{Points: outer, Fill: palette.Light, FillAlpha: 0.1},
		canvas.Polygon{Points: scores, Fill: palette.Primary, FillAlpha: 0.25},
	)

	grid := canvas.Stroke{Color: palette.Light, Width: 0.5}
	for v := 2; v <= MaxScore; v += 2 {
		fig.Add(canvas.Circle{Center: radarCenter, R: radarRadius * float64(v) / MaxScore, Stroke: grid})
	}
	for _, p := range outer {
		fig.Add(canvas.Line{Points: []canvas.Point{radarCenter, p}, Stroke: grid})
	}

	fig.Add(canvas.Line{Points: closed(outer), Stroke: canvas.Stroke{Color: palette.Light, Width: 1}, Alpha: 0.5})
	for _, p := range outer {
		fig.Add(canvas.Circle{Center: p, R: markerRadius, Fill: palette.Light, Alpha: 0.5})
	}
	fig.Add(canvas.Line{Points: closed(scores), Stroke: canvas.Stroke{Color: palette.Primary, Width: 3}})
	for _, p := range scores {
		fig.Add(canvas.Circle{Center: p, R: markerRadius, Fill: palette.Primary})
	}
	for i, p := range pillars {
		fig.Add(canvas.Circle{
			Center: scores[i], R: 2 * markerRadius, Fill: p.Color,
			Stroke: canvas.Stroke{Color: palette.White, Width: 2},
		})
	}

	fig.Add(canvas.Circle{Center: radarCenter, R: radarRadius, Stroke: canvas.Stroke{Color: palette.Dark, Width: 0.8}})

	// Radial tick labels sit along the 67.5 degree line, as on a default polar axis.
	angle := 67.5 * math.Pi / 180
	for v := 2; v <= MaxScore; v += 2 {
		r := radarRadius * float64(v) / MaxScore
		at := canvas.Pt(radarCenter.X+r*math.Cos(angle), radarCenter.Y+r*math.Sin(angle))
		fig.Add(text(at.X, at.Y, strconv.Itoa(v), 8, palette.Dark))
	}
}

func closed(pts []canvas.Point) []canvas.Point {
	out := make([]canvas.Point, 0, len(pts)+1)
	out = append(out, pts...)
	return append(out, pts[0])
}
