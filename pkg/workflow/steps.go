package workflow

import (
	"fmt"

	"github.com/agenticinfraops/infraviz/pkg/palette"
)

// Step is one stage of the workflow.
type Step struct {
	Number   int
	Title    string
	Short    string
	Agent    string
	Color    string
	Optional bool
}

// Steps lists the workflow in order.
var Steps = []Step{
	{1, "Plan", "Plan", "@plan", palette.Slide.Blue, false},
	{2, "Architect", "Architect", "azure-principal-architect", palette.Slide.Orange, false},
	{3, "Design Artifacts", "Design\nArtifacts", "", palette.Slide.Purple, true},
	{4, "Plan Infrastructure", "Plan Infra", "bicep-plan", palette.Slide.Green, false},
	{5, "Generate Code", "Generate", "bicep-implement", palette.Slide.Pink, false},
	{6, "Deploy", "Deploy", "Deploy Agent", palette.Slide.Coral, false},
	{7, "As-Built Artifacts", "As-Built\nArtifacts", "", palette.Slide.Coral, true},
}

// Subtitle is the second label line: the agent, or "(optional)".
func (s Step) Subtitle() string {
	if s.Optional {
		return "(optional)"
	}
	return s.Agent
}

// Style returns the node style; optional steps are dashed.
func (s Step) Style() string {
	if s.Optional {
		return "filled,rounded,dashed"
	}
	return "filled,rounded"
}

// Circled returns the step number as an enclosed numeral (①..⑳).
func (s Step) Circled() string {
	if s.Number < 1 || s.Number > 20 {
		return fmt.Sprintf("(%d)", s.Number)
	}
	return string(rune('①' + s.Number - 1))
}

// tool is an optional helper agent attached to a step.
type tool struct {
	id    string
	label string
	color string
}

func designTools(prefix string) []tool {
	return []tool{
		{prefix + "a", "📊 -des diagram\ndiagram-generator", palette.Slide.Purple},
		{prefix + "b", "📝 -des ADR\nadr-generator", palette.Slide.Teal},
	}
}

func asBuiltTools(prefix string) []tool {
	return []tool{
		{prefix + "a", "📊 -ab diagram\ndiagram-generator", palette.Slide.Purple},
		{prefix + "b", "📝 -ab ADR\nadr-generator", palette.Slide.Teal},
	}
}
