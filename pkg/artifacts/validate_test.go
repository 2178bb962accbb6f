package artifacts

import (
	"slices"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/agenticinfraops/infraviz/pkg/errors"
)

func document(headings ...string) string {
	var b strings.Builder
	b.WriteString("# Title\n\nIntro.\n\n")
	for _, h := range headings {
		b.WriteString(h + "\n\nBody.\n\n")
	}
	return b.String()
}

// validTree returns a repository in which every check passes.
func validTree() fstest.MapFS {
	fsys := fstest.MapFS{
		StandardsDoc: {Data: []byte("Start every artifact from its .template.md file.\n")},
	}
	for _, a := range Wave1 {
		fsys[a.Template] = &fstest.MapFile{Data: []byte(document(a.Headings...))}
		if a.Agent != "" {
			link := relativeLink(a.Agent, a.Template)
			fsys[a.Agent] = &fstest.MapFile{Data: []byte("Use the [template](" + link + ").\n")}
		}
		fsys[OutputDir+"/static-webapp/"+a.Name] = &fstest.MapFile{Data: []byte(document(a.Headings...))}
	}
	return fsys
}

func messages(r *Report, level Level) []string {
	var out []string
	for _, f := range r.Findings {
		if f.Level == level {
			out = append(out, f.Message)
		}
	}
	return out
}

func TestValidateClean(t *testing.T) {
	r, err := Validate(validTree(), Standard)
	if err != nil {
		t.Fatal(err)
	}
	if len(r.Findings) != 0 {
		t.Errorf("findings = %+v, want none", r.Findings)
	}
	if len(r.Artifacts) != len(Wave1) {
		t.Errorf("checked %d artifacts, want %d", len(r.Artifacts), len(Wave1))
	}
	if !slices.IsSorted(r.Artifacts) {
		t.Errorf("artifacts not in lexical order: %v", r.Artifacts)
	}
}

func TestValidateFindings(t *testing.T) {
	req := Wave1[0]
	reqFile := OutputDir + "/static-webapp/" + req.Name
	reordered := slices.Clone(req.Headings)
	reordered[0], reordered[1] = reordered[1], reordered[0]

	tests := []struct {
		name       string
		strictness Strictness
		mutate     func(fstest.MapFS)
		level      Level
		contains   string
	}{
		{
			name:   "missing template",
			mutate: func(fsys fstest.MapFS) { delete(fsys, req.Template) },
			level:  LevelError, contains: "Missing template file",
		},
		{
			name: "template heading missing",
			mutate: func(fsys fstest.MapFS) {
				fsys[req.Template] = &fstest.MapFile{Data: []byte(document(req.Headings[1:]...))}
			},
			level: LevelError, contains: "missing required H2 headings: ## Project Overview",
		},
		{
			name: "template out of order",
			mutate: func(fsys fstest.MapFS) {
				fsys[req.Template] = &fstest.MapFile{Data: []byte(document(reordered...))}
			},
			level: LevelError, contains: "Expected '## Project Overview' at position 1",
		},
		{
			name: "template extra heading",
			mutate: func(fsys fstest.MapFS) {
				fsys[req.Template] = &fstest.MapFile{Data: []byte(document(append(slices.Clone(req.Headings), "## Notes")...))}
			},
			level: LevelWarning, contains: "extra H2 headings: ## Notes",
		},
		{
			name:   "missing agent",
			mutate: func(fsys fstest.MapFS) { delete(fsys, req.Agent) },
			level:  LevelError, contains: "Missing agent file",
		},
		{
			name: "agent without template link",
			mutate: func(fsys fstest.MapFS) {
				fsys[req.Agent] = &fstest.MapFile{Data: []byte("Write the requirements.\n")}
			},
			level: LevelError, contains: "must reference template ../templates/01-requirements.template.md",
		},
		{
			name: "agent embeds skeleton",
			mutate: func(fsys fstest.MapFS) {
				body := "See ../templates/01-requirements.template.md\n\n```markdown\n" +
					strings.Join(req.Headings[:3], "\n") + "\n```\n"
				fsys[req.Agent] = &fstest.MapFile{Data: []byte(body)}
			},
			level: LevelError, contains: "embed a 01-requirements.md skeleton (found 3 headings",
		},
		{
			name:   "missing standards",
			mutate: func(fsys fstest.MapFS) { delete(fsys, StandardsDoc) },
			level:  LevelWarning, contains: "Standards file not found",
		},
		{
			name: "standards without templates",
			mutate: func(fsys fstest.MapFS) {
				fsys[StandardsDoc] = &fstest.MapFile{Data: []byte("Use sentence case.\n")}
			},
			level: LevelWarning, contains: "should reference template-first approach",
		},
		{
			name: "no artifacts",
			mutate: func(fsys fstest.MapFS) {
				for name := range fsys {
					if strings.HasPrefix(name, OutputDir+"/") {
						delete(fsys, name)
					}
				}
			},
			level: LevelWarning, contains: "No Wave 1 artifacts found",
		},
		{
			name:       "artifact heading missing relaxed",
			strictness: Relaxed,
			mutate: func(fsys fstest.MapFS) {
				fsys[reqFile] = &fstest.MapFile{Data: []byte(document(req.Headings[:6]...))}
			},
			level: LevelWarning, contains: "missing required H2 headings: ## Regional Preferences",
		},
		{
			name:       "artifact heading missing standard",
			strictness: Standard,
			mutate: func(fsys fstest.MapFS) {
				fsys[reqFile] = &fstest.MapFile{Data: []byte(document(req.Headings[:6]...))}
			},
			level: LevelError, contains: "missing required H2 headings: ## Regional Preferences",
		},
		{
			name: "artifact out of order",
			mutate: func(fsys fstest.MapFS) {
				fsys[reqFile] = &fstest.MapFile{Data: []byte(document(reordered...))}
			},
			level: LevelError, contains: "'## Project Overview' should come before '## Functional Requirements'",
		},
		{
			name: "optional before anchor",
			mutate: func(fsys fstest.MapFS) {
				h := append([]string{req.Optional[0]}, req.Headings...)
				fsys[reqFile] = &fstest.MapFile{Data: []byte(document(h...))}
			},
			level: LevelWarning, contains: "before anchor '## Regional Preferences'",
		},
		{
			name:       "artifact extra heading standard",
			strictness: Standard,
			mutate: func(fsys fstest.MapFS) {
				fsys[reqFile] = &fstest.MapFile{Data: []byte(document(append(slices.Clone(req.Headings), "## Appendix")...))}
			},
			level: LevelWarning, contains: "contains extra H2 headings: ## Appendix",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fsys := validTree()
			tt.mutate(fsys)
			strictness := tt.strictness
			if strictness == "" {
				strictness = Relaxed
			}

			r, err := Validate(fsys, strictness)
			if err != nil {
				t.Fatal(err)
			}
			got := messages(r, tt.level)
			if !slices.ContainsFunc(got, func(m string) bool { return strings.Contains(m, tt.contains) }) {
				t.Errorf("%s findings = %q, want one containing %q", tt.level, got, tt.contains)
			}
			if r.Failed() != (tt.level == LevelError) {
				t.Errorf("Failed() = %v with findings %+v", r.Failed(), r.Findings)
			}
		})
	}
}

func TestValidateRelaxedIgnoresExtraArtifactHeadings(t *testing.T) {
	req := Wave1[0]
	fsys := validTree()
	fsys[OutputDir+"/static-webapp/"+req.Name] = &fstest.MapFile{
		Data: []byte(document(append(slices.Clone(req.Headings), "## Appendix")...)),
	}
	r, err := Validate(fsys, Relaxed)
	if err != nil {
		t.Fatal(err)
	}
	if len(r.Findings) != 0 {
		t.Errorf("findings = %+v, want none in relaxed mode", r.Findings)
	}
}

func TestHeadings(t *testing.T) {
	text := "# Title\r\n\n## One  \r\n\n### Sub\n\n##Two\n\n## Compliance & Security\n\n" +
		"```markdown\n## Inside fence\n```\n\n## Requirements Validation ✅\n"
	want := []string{"## One", "## Compliance & Security", "## Requirements Validation ✅"}
	if got := Headings(text); !slices.Equal(got, want) {
		t.Errorf("Headings() = %q, want %q", got, want)
	}
}

func TestFencedBlocks(t *testing.T) {
	text := "intro\n\n```markdown\n## A\n## B\n```\n\ntext\n\n```\nplain\n```\n"
	want := []string{"## A\n## B", "plain"}
	if got := FencedBlocks(text); !slices.Equal(got, want) {
		t.Errorf("FencedBlocks() = %q, want %q", got, want)
	}
}

func TestAnnotation(t *testing.T) {
	tests := []struct {
		name string
		f    Finding
		want string
	}{
		{
			name: "full",
			f:    Finding{Level: LevelError, Title: TitleDrift, File: "a.md", Line: 1, Message: "bad"},
			want: "::error file=a.md,line=1,title=Artifact Template Drift::bad",
		},
		{
			name: "no location",
			f:    Finding{Level: LevelWarning, Message: "none found"},
			want: "::warning::none found",
		},
		{
			name: "escaped",
			f:    Finding{Level: LevelWarning, Title: "50%", Message: "line one\nline two\r"},
			want: "::warning title=50%25::line one%0Aline two%0D",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.f.Annotation(); got != tt.want {
				t.Errorf("Annotation() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseStrictness(t *testing.T) {
	tests := []struct {
		in   string
		want Strictness
		ok   bool
	}{
		{"", Relaxed, true},
		{"relaxed", Relaxed, true},
		{"Standard", Standard, true},
		{"strict", "", false},
	}
	for _, tt := range tests {
		got, err := ParseStrictness(tt.in)
		if tt.ok && (err != nil || got != tt.want) {
			t.Errorf("ParseStrictness(%q) = %q, %v; want %q", tt.in, got, err, tt.want)
		}
		if !tt.ok && !errors.Is(err, errors.ErrCodeInvalidInput) {
			t.Errorf("ParseStrictness(%q) error = %v, want INVALID_INPUT", tt.in, err)
		}
	}
}

func TestMatch(t *testing.T) {
	if a, ok := Match("agent-output/app/04-implementation-plan.md"); !ok || a.Anchor() != "## Approval Gate" {
		t.Errorf("Match() = %+v, %v", a, ok)
	}
	if _, ok := Match("README.md"); ok {
		t.Error("Match(README.md) should not match")
	}
}
