// Package workflow builds the Graphviz renderings of the seven-step agentic
// infrastructure workflow: plan, architect, design artifacts, plan
// infrastructure, generate code, deploy and as-built artifacts.
//
// All graphs are derived from the shared [Steps] table and drawn in the
// slide-deck palette ([palette.Slide]):
//
//   - [Numbered]: horizontal, numbered steps with optional tool satellites
//   - [Simple]: compact horizontal strip for READMEs
//   - [Detailed]: widescreen variant with circled step numbers
//   - [Themed]: top-to-bottom layout with one card cluster per step
//   - [ThemedSimple]: horizontal agent strip with curved edges
package workflow
