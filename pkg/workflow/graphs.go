package workflow

import (
	"fmt"

	"github.com/agenticinfraops/infraviz/pkg/dot"
	"github.com/agenticinfraops/infraviz/pkg/palette"
)

const sansFont = "Segoe UI, Arial, sans-serif"

var theme = palette.Slide

// Numbered is the horizontal numbered workflow with optional tool satellites.
func Numbered() *dot.Graph {
	g := dot.New("AgenticInfraOps")
	g.Attrs = dot.Attrs{
		"bgcolor":   theme.DarkBg,
		"fontcolor": "white",
		"fontname":  sansFont,
		"pad":       "0.8",
		"splines":   "ortho",
		"nodesep":   "0.5",
		"ranksep":   "0.9",
		"rankdir":   "LR",
		"dpi":       "150",
		"newrank":   "true",
	}
	g.NodeAttrs = darkNodeAttrs("11", "0.2,0.12")
	g.EdgeAttrs = dot.Attrs{
		"color":     theme.Gray,
		"fontcolor": theme.LightGray,
		"fontname":  sansFont,
		"fontsize":  "9",
		"penwidth":  "2",
		"arrowsize": "0.7",
	}

	widths := map[int]string{1: "1.5", 2: "2.4"}
	for _, s := range Steps {
		width := widths[s.Number]
		if width == "" {
			width = "2.0"
		}
		attrs := dot.Attrs{
			"label":     fmt.Sprintf("%d. %s\n%s", s.Number, s.Title, s.Subtitle()),
			"fillcolor": s.Color,
			"width":     width,
		}
		if s.Optional {
			attrs["style"] = s.Style()
		}
		g.AddNode(stepID(s), attrs)
	}
	addTools(g, designTools("step3"), "9")
	g.AddNode("step4opt", dot.Attrs{"label": "🔒 Governance\nAzure Policy", "fillcolor": theme.Cyan, "fontsize": "9"})
	addTools(g, asBuiltTools("step7"), "9")

	g.AddEdge("step1", "step2", dot.Attrs{"color": theme.Blue, "penwidth": "2.5"})
	g.AddEdge("step2", "step3", dot.Attrs{"color": theme.Orange, "style": "dashed", "penwidth": "2"})
	g.AddEdge("step2", "step4", dot.Attrs{"color": theme.Orange, "penwidth": "2.5"})
	g.AddEdge("step3", "step4", dot.Attrs{"color": theme.Purple, "style": "dashed", "penwidth": "2"})
	g.AddEdge("step4", "step5", dot.Attrs{"color": theme.Green, "penwidth": "2.5"})
	g.AddEdge("step5", "step6", dot.Attrs{"color": theme.Pink, "style": "dashed", "penwidth": "2"})

	// Step 7 hangs off the chain; only its as-built tools connect to it.
	for _, t := range designTools("step3") {
		g.AddEdge(t.id, "step3", dot.Attrs{"style": "dashed", "color": t.color, "dir": "back"})
	}
	g.AddEdge("step4opt", "step4", dot.Attrs{"style": "dashed", "color": theme.Cyan, "dir": "back"})
	for _, t := range asBuiltTools("step7") {
		g.AddEdge(t.id, "step7", dot.Attrs{"style": "dashed", "color": t.color, "dir": "back"})
	}

	g.SameRank("step3a", "step3b")
	g.SameRank("step4opt")
	g.SameRank("step7a", "step7b")
	g.AddEdge("step3a", "step3b", dot.Attrs{"style": "invis"})
	g.AddEdge("step7a", "step7b", dot.Attrs{"style": "invis"})
	return g
}

// Simple is the compact horizontal strip used in READMEs.
func Simple() *dot.Graph {
	g := dot.New("SimpleWorkflow")
	g.Attrs = dot.Attrs{
		"bgcolor":   theme.DarkBg,
		"fontcolor": "white",
		"fontname":  sansFont,
		"pad":       "0.4",
		"splines":   "ortho",
		"nodesep":   "0.35",
		"ranksep":   "0.4",
		"rankdir":   "LR",
		"dpi":       "150",
	}
	g.NodeAttrs = darkNodeAttrs("10", "0.12,0.08")
	g.EdgeAttrs = dot.Attrs{
		"color":     theme.Gray,
		"penwidth":  "2",
		"arrowsize": "0.6",
	}

	for _, s := range Steps {
		attrs := dot.Attrs{
			"label":     fmt.Sprintf("%d. %s", s.Number, s.Short),
			"fillcolor": s.Color,
		}
		if s.Optional {
			attrs["style"] = s.Style()
		}
		g.AddNode(fmt.Sprintf("s%d", s.Number), attrs)
	}

	dashed := dot.Attrs{"style": "dashed"}
	g.AddChain(dashed, "s1", "s2", "s3")
	g.AddEdge("s2", "s4", nil)
	g.AddEdge("s3", "s4", dashed)
	g.AddChain(dashed, "s4", "s5", "s6", "s7")
	return g
}

// Detailed is the widescreen variant with circled step numbers.
func Detailed() *dot.Graph {
	g := dot.New("DetailedWorkflow")
	g.Attrs = dot.Attrs{
		"bgcolor":   theme.DarkBg,
		"fontcolor": "white",
		"fontname":  sansFont,
		"pad":       "1.0",
		"splines":   "ortho",
		"nodesep":   "0.45",
		"ranksep":   "1.0",
		"rankdir":   "LR",
		"dpi":       "150",
		"newrank":   "true",
	}
	g.NodeAttrs = darkNodeAttrs("11", "0.25,0.15")
	g.EdgeAttrs = dot.Attrs{
		"color":     theme.Gray,
		"fontcolor": theme.LightGray,
		"fontname":  sansFont,
		"fontsize":  "9",
		"penwidth":  "2.5",
		"arrowsize": "0.8",
	}

	widths := map[int]string{1: "1.6", 2: "2.4"}
	for _, s := range Steps {
		width := widths[s.Number]
		if width == "" {
			width = "2.0"
		}
		attrs := dot.Attrs{
			"label":     fmt.Sprintf("%s %s\n%s", s.Circled(), s.Title, s.Subtitle()),
			"fillcolor": s.Color,
			"width":     width,
			"height":    "0.6",
		}
		if s.Optional {
			attrs["style"] = s.Style()
		}
		g.AddNode(stepID(s), attrs)
	}
	addTools(g, designTools("opt3"), "10")
	g.AddNode("opt4gov", dot.Attrs{"label": "🔒 Governance Discovery\nAzure Policy", "fillcolor": theme.Cyan, "fontsize": "10"})
	addTools(g, asBuiltTools("opt7"), "10")

	flow := []struct {
		from, to, color string
		optional        bool
	}{
		{"step1", "step2", theme.Blue, false},
		{"step2", "step3", theme.Orange, true},
		{"step2", "step4", theme.Orange, false},
		{"step3", "step4", theme.Purple, true},
		{"step4", "step5", theme.Green, false},
		{"step5", "step6", theme.Pink, false},
		{"step6", "step7", theme.Coral, true},
	}
	for _, e := range flow {
		attrs := dot.Attrs{"color": e.color, "penwidth": "3"}
		if e.optional {
			attrs["penwidth"] = "2"
			attrs["style"] = "dashed"
		}
		g.AddEdge(e.from, e.to, attrs)
	}

	back := func(from, to, color string) {
		g.AddEdge(from, to, dot.Attrs{
			"style":     "dashed",
			"color":     color,
			"arrowhead": "none",
			"arrowtail": "normal",
			"dir":       "back",
		})
	}
	for _, t := range designTools("opt3") {
		back(t.id, "step3", t.color)
	}
	back("opt4gov", "step4", theme.Cyan)
	for _, t := range asBuiltTools("opt7") {
		back(t.id, "step7", t.color)
	}

	g.SameRank("opt3a", "opt3b")
	g.SameRank("opt4gov")
	g.SameRank("opt7a", "opt7b")
	g.AddEdge("opt3a", "opt3b", dot.Attrs{"style": "invis", "weight": "10"})
	g.AddEdge("opt7a", "opt7b", dot.Attrs{"style": "invis", "weight": "10"})
	return g
}

// Themed is the top-to-bottom layout with one card cluster per step.
func Themed() *dot.Graph {
	g := dot.New("AgenticInfraOps")
	g.Attrs = dot.Attrs{
		"bgcolor":   theme.DarkBg,
		"fontcolor": "white",
		"fontname":  "Segoe UI",
		"fontsize":  "16",
		"pad":       "0.5",
		"splines":   "ortho",
		"nodesep":   "0.6",
		"ranksep":   "0.8",
		"rankdir":   "TB",
		"dpi":       "150",
	}
	g.NodeAttrs = dot.Attrs{
		"fontname":  "Segoe UI",
		"fontsize":  "11",
		"fontcolor": "white",
		"style":     "filled,rounded",
		"shape":     "box",
		"penwidth":  "0",
		"margin":    "0.25,0.15",
	}
	g.EdgeAttrs = dot.Attrs{
		"color":     theme.Gray,
		"fontcolor": theme.LightGray,
		"fontname":  "Segoe UI",
		"fontsize":  "9",
		"penwidth":  "2",
		"arrowsize": "0.8",
	}
	g.AddNode("title", dot.Attrs{"label": "", "shape": "none", "height": "0.1"})

	card := func(s Step, label string) *dot.Cluster {
		attrs := dot.Attrs{
			"label":     fmt.Sprintf("Step %d: %s", s.Number, label),
			"fontcolor": "white",
			"fontname":  "Segoe UI Semibold",
			"fontsize":  "12",
			"bgcolor":   theme.CardBg,
			"style":     "rounded",
			"pencolor":  theme.CardPen,
			"penwidth":  "2",
		}
		if s.Optional {
			attrs["label"] = fmt.Sprintf("Step %d: %s (Optional)", s.Number, label)
			attrs["fontcolor"] = theme.LightGray
			attrs["style"] = "rounded,dashed"
		}
		return g.AddCluster(fmt.Sprintf("step%d", s.Number), attrs)
	}

	card(Steps[0], "Requirements").AddNode("plan", dot.Attrs{"label": "@plan\n(built-in)", "fillcolor": theme.Blue})
	card(Steps[1], "Architecture").AddNode("architect", dot.Attrs{"label": "azure-principal-architect\n(NO CODE)", "fillcolor": theme.Orange})

	design := card(Steps[2], "Design Artifacts")
	design.AddNode("diagrams_design", dot.Attrs{"label": "📊 diagram-generator\n(-des)", "fillcolor": theme.Purple})
	design.AddNode("adr_design", dot.Attrs{"label": "📝 adr-generator\n(-des)", "fillcolor": theme.Teal})

	planning := card(Steps[3], "Planning")
	planning.AddNode("bicep_plan", dot.Attrs{"label": "bicep-plan\n(plan only)", "fillcolor": theme.Green})
	planning.AddCluster("governance", dot.Attrs{
		"label":     "Governance Discovery",
		"fontcolor": theme.LightGray,
		"fontsize":  "10",
		"bgcolor":   theme.CardPen,
		"style":     "rounded,dashed",
		"pencolor":  theme.SubPen,
	}).AddNode("policy", dot.Attrs{"label": "🔒 Azure Policy\n(constraints)", "fillcolor": theme.Cyan})

	card(Steps[4], "Implementation").AddNode("bicep_implement", dot.Attrs{"label": "bicep-implement\n(code generation)", "fillcolor": theme.Pink})
	card(Steps[5], "Deploy").AddNode("deploy", dot.Attrs{"label": "🚀 Deploy\nDeploy Agent", "fillcolor": theme.Coral})

	asBuilt := card(Steps[6], "As-Built Artifacts")
	asBuilt.AddNode("diagrams_asbuilt", dot.Attrs{"label": "📊 diagram-generator\n(-ab)", "fillcolor": theme.Purple})
	asBuilt.AddNode("adr_asbuilt", dot.Attrs{"label": "📝 adr-generator\n(-ab)", "fillcolor": theme.Teal})

	labelled := func(from, to, label, color, fontcolor string, dashed bool) {
		attrs := dot.Attrs{"color": color}
		if label != "" {
			attrs["xlabel"] = label
			attrs["fontcolor"] = fontcolor
		}
		if dashed {
			attrs["style"] = "dashed"
		}
		g.AddEdge(from, to, attrs)
	}
	labelled("plan", "architect", "requirements", theme.Blue, theme.Blue, false)
	labelled("architect", "diagrams_design", "optional", theme.Orange, theme.LightGray, true)
	labelled("architect", "bicep_plan", "architecture", theme.Orange, theme.Orange, false)
	labelled("diagrams_design", "bicep_plan", "", theme.Purple, "", true)
	labelled("adr_design", "bicep_plan", "", theme.Teal, "", true)
	labelled("policy", "bicep_plan", "constraints", theme.Cyan, theme.Cyan, true)
	labelled("bicep_plan", "bicep_implement", "plan", theme.Green, theme.Green, false)
	labelled("bicep_implement", "deploy", "code", theme.Pink, theme.Pink, false)
	labelled("deploy", "diagrams_asbuilt", "optional", theme.Coral, theme.LightGray, true)

	g.SameRank("plan")
	g.SameRank("architect")
	g.SameRank("diagrams_design", "adr_design")
	g.SameRank("bicep_plan", "policy")
	g.SameRank("bicep_implement")
	g.SameRank("diagrams_asbuilt", "adr_asbuilt")
	return g
}

// ThemedSimple is the horizontal agent strip with curved edges.
func ThemedSimple() *dot.Graph {
	g := dot.New("SimpleWorkflow")
	g.Attrs = dot.Attrs{
		"bgcolor":   theme.DarkBg,
		"fontcolor": "white",
		"fontname":  "Segoe UI",
		"pad":       "0.4",
		"splines":   "curved",
		"nodesep":   "0.4",
		"ranksep":   "0.5",
		"rankdir":   "LR",
		"dpi":       "150",
	}
	g.NodeAttrs = dot.Attrs{
		"fontname":  "Segoe UI",
		"fontsize":  "11",
		"fontcolor": "white",
		"style":     "filled,rounded",
		"shape":     "box",
		"penwidth":  "0",
		"margin":    "0.2,0.15",
	}
	g.EdgeAttrs = dot.Attrs{
		"color":     theme.Gray,
		"fontcolor": theme.LightGray,
		"fontname":  "Segoe UI",
		"fontsize":  "9",
		"penwidth":  "2",
		"arrowsize": "0.7",
	}

	g.AddNode("plan", dot.Attrs{"label": "@plan", "fillcolor": theme.Blue})
	g.AddNode("architect", dot.Attrs{"label": "azure-principal-\narchitect", "fillcolor": theme.Orange})
	g.AddNode("design_artifacts", dot.Attrs{"label": "Design\nArtifacts", "fillcolor": theme.Purple, "style": "filled,rounded,dashed"})
	g.AddNode("bicep_plan", dot.Attrs{"label": "bicep-plan", "fillcolor": theme.Green})
	g.AddNode("bicep_implement", dot.Attrs{"label": "bicep-implement", "fillcolor": theme.Pink})
	g.AddNode("deploy", dot.Attrs{"label": "Deploy", "fillcolor": theme.Coral})
	g.AddNode("asbuilt_artifacts", dot.Attrs{"label": "As-Built\nArtifacts", "fillcolor": theme.Cyan, "style": "filled,rounded,dashed"})
	g.AddNode("governance", dot.Attrs{"label": "🔒 Governance", "fillcolor": theme.Cyan})

	dashed := dot.Attrs{"style": "dashed"}
	g.AddEdge("plan", "architect", nil)
	g.AddEdge("architect", "design_artifacts", dashed)
	g.AddEdge("architect", "bicep_plan", nil)
	g.AddEdge("design_artifacts", "bicep_plan", dashed)
	g.AddEdge("bicep_plan", "bicep_implement", nil)
	g.AddEdge("bicep_implement", "deploy", nil)
	g.AddEdge("deploy", "asbuilt_artifacts", dashed)
	g.AddEdge("governance", "bicep_plan", dot.Attrs{"style": "dashed", "constraint": "false"})

	g.SameRank("governance")
	return g
}

func stepID(s Step) string {
	return fmt.Sprintf("step%d", s.Number)
}

func darkNodeAttrs(fontsize, margin string) dot.Attrs {
	return dot.Attrs{
		"fontname":  sansFont,
		"fontsize":  fontsize,
		"fontcolor": "white",
		"style":     "filled,rounded",
		"shape":     "box",
		"penwidth":  "0",
		"margin":    margin,
	}
}

func addTools(g *dot.Graph, tools []tool, fontsize string) {
	for _, t := range tools {
		g.AddNode(t.id, dot.Attrs{"label": t.label, "fillcolor": t.color, "fontsize": fontsize})
	}
}
