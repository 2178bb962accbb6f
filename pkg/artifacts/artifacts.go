// Package artifacts checks the Wave 1 planning documents written by the
// agents against their templates.
//
// Each artifact (requirements, architecture assessment, implementation plan,
// deployment summary) has a fixed sequence of H2 headings. The validator
// checks that the templates carry that sequence, that every agent links its
// template instead of embedding a copy, and that the artifacts found under
// agent-output/ keep the headings in order.
package artifacts

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/agenticinfraops/infraviz/pkg/errors"
)

// OutputDir is the directory scanned for generated artifacts.
const OutputDir = "agent-output"

// StandardsDoc is the markdown standard that should point agents at templates.
const StandardsDoc = ".github/instructions/markdown.instructions.md"

// Annotation titles.
const (
	TitleDrift   = "Artifact Template Drift"
	TitleMissing = "Missing Template or Agent"
)

// Artifact describes one Wave 1 document.
type Artifact struct {
	Name     string   // file name suffix, e.g. "01-requirements.md"
	Headings []string // required H2 headings in order; the last one is the anchor
	Optional []string // headings allowed after the anchor
	Agent    string   // agent definition that writes it, empty when manual
	Template string
}

// Anchor returns the last required heading.
func (a Artifact) Anchor() string { return a.Headings[len(a.Headings)-1] }

// Wave1 lists the artifacts in workflow order.
var Wave1 = []Artifact{
	{
		Name: "01-requirements.md",
		Headings: []string{
			"## Project Overview",
			"## Functional Requirements",
			"## Non-Functional Requirements (NFRs)",
			"## Compliance & Security Requirements",
			"## Cost Constraints",
			"## Operational Requirements",
			"## Regional Preferences",
		},
		Optional: []string{"## Summary for Architecture Assessment"},
		Agent:    ".github/agents/project-planner.agent.md",
		Template: ".github/templates/01-requirements.template.md",
	},
	{
		Name: "02-architecture-assessment.md",
		Headings: []string{
			"## Requirements Validation ✅",
			"## Executive Summary",
			"## WAF Pillar Assessment",
			"## Resource SKU Recommendations",
			"## Architecture Decision Summary",
			"## Implementation Handoff",
			"## Approval Gate",
		},
		Agent:    ".github/agents/azure-principal-architect.agent.md",
		Template: ".github/templates/02-architecture-assessment.template.md",
	},
	{
		Name: "04-implementation-plan.md",
		Headings: []string{
			"## Overview",
			"## Resource Inventory",
			"## Module Structure",
			"## Implementation Tasks",
			"## Dependency Graph",
			"## Naming Conventions",
			"## Security Configuration",
			"## Estimated Implementation Time",
			"## Approval Gate",
		},
		Agent:    ".github/agents/bicep-plan.agent.md",
		Template: ".github/templates/04-implementation-plan.template.md",
	},
	{
		Name: "06-deployment-summary.md",
		Headings: []string{
			"## Deployment Details",
			"## Deployed Resources",
			"## Outputs (Expected)",
			"## To Actually Deploy",
			"## Post-Deployment Tasks",
		},
		Template: ".github/templates/06-deployment-summary.template.md",
	},
}

// Match returns the artifact a file is an instance of, matched by name suffix.
func Match(file string) (Artifact, bool) {
	for _, a := range Wave1 {
		if strings.HasSuffix(file, a.Name) {
			return a, true
		}
	}
	return Artifact{}, false
}

// Strictness selects how artifact drift is reported.
type Strictness string

const (
	// Relaxed reports missing artifact headings as warnings.
	Relaxed Strictness = "relaxed"
	// Standard fails on missing artifact headings and warns on extra ones.
	Standard Strictness = "standard"
)

// ParseStrictness parses a strictness name. An empty string means Relaxed.
func ParseStrictness(s string) (Strictness, error) {
	switch Strictness(strings.ToLower(strings.TrimSpace(s))) {
	case "", Relaxed:
		return Relaxed, nil
	case Standard:
		return Standard, nil
	}
	return "", errors.New(errors.ErrCodeInvalidInput,
		"unknown strictness %q (must be relaxed or standard)", s)
}

// Level is the severity of a finding.
type Level int

const (
	LevelWarning Level = iota
	LevelError
)

func (l Level) String() string {
	if l == LevelError {
		return "error"
	}
	return "warning"
}

// Finding is one reported problem.
type Finding struct {
	Level   Level
	Title   string
	File    string
	Line    int
	Message string
}

var commandEscaper = strings.NewReplacer("%", "%25", "\r", "%0D", "\n", "%0A")

// Annotation formats f as a GitHub Actions workflow command, for example
// "::error file=a.md,line=1,title=Artifact Template Drift::message".
func (f Finding) Annotation() string {
	var props []string
	if f.File != "" {
		props = append(props, "file="+f.File)
	}
	if f.Line > 0 {
		props = append(props, "line="+strconv.Itoa(f.Line))
	}
	if f.Title != "" {
		props = append(props, "title="+commandEscaper.Replace(f.Title))
	}

	var b strings.Builder
	b.WriteString("::")
	b.WriteString(f.Level.String())
	if len(props) > 0 {
		b.WriteString(" ")
		b.WriteString(strings.Join(props, ","))
	}
	b.WriteString("::")
	b.WriteString(commandEscaper.Replace(f.Message))
	return b.String()
}

// Report collects the findings of a run.
type Report struct {
	Strictness Strictness
	Artifacts  []string // artifact files that were checked
	Findings   []Finding
}

// Errors returns the number of error findings.
func (r *Report) Errors() int { return r.count(LevelError) }

// Warnings returns the number of warning findings.
func (r *Report) Warnings() int { return r.count(LevelWarning) }

// Failed reports whether any finding is an error.
func (r *Report) Failed() bool { return r.Errors() > 0 }

func (r *Report) count(l Level) int {
	n := 0
	for _, f := range r.Findings {
		if f.Level == l {
			n++
		}
	}
	return n
}

func (r *Report) add(l Level, title, file, format string, args ...any) {
	if title == "" {
		title = TitleDrift
	}
	line := 0
	if file != "" {
		line = 1
	}
	r.Findings = append(r.Findings, Finding{
		Level:   l,
		Title:   title,
		File:    file,
		Line:    line,
		Message: fmt.Sprintf(format, args...),
	})
}
