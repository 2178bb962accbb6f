// Package infographic builds the fixed-layout marketing figures: the ROI
// calculator, the Well-Architected Framework scorecard and the agent
// workflow cards in light and dark themes.
//
// Every figure is a [canvas.Figure] whose coordinates are inches on a
// presentation-sized page with y pointing up. The numbers shown on a figure
// come from small pure functions ([ROIInputs.Annual], [TaskSaving.Savings],
// [OverallScore], [RadarPoint]) so they can be tested without rendering.
package infographic
