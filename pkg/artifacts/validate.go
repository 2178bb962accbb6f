package artifacts

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/ast"
	"github.com/gomarkdown/markdown/parser"
)

// Validate checks the templates, agents, standards document and generated
// artifacts in fsys, which is rooted at the repository.
// Problems are returned as findings; the error is for unreadable files only.
func Validate(fsys fs.FS, strictness Strictness) (*Report, error) {
	v := &validator{fsys: fsys, report: &Report{Strictness: strictness}}

	for _, a := range Wave1 {
		if err := v.template(a); err != nil {
			return nil, err
		}
	}
	if err := v.agents(); err != nil {
		return nil, err
	}
	if err := v.standards(); err != nil {
		return nil, err
	}

	files, err := Find(fsys)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		v.report.add(LevelWarning, "", "",
			"No Wave 1 artifacts found in %s/ (expected for new workflow).", OutputDir)
	}
	for _, file := range files {
		if err := v.artifact(file); err != nil {
			return nil, err
		}
	}
	v.report.Artifacts = files
	return v.report, nil
}

// Find returns the Wave 1 artifacts under OutputDir in lexical order.
// A missing directory yields no artifacts.
func Find(fsys fs.FS) ([]string, error) {
	var files []string
	err := fs.WalkDir(fsys, OutputDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if p == OutputDir && errors.Is(err, fs.ErrNotExist) {
				return fs.SkipAll
			}
			return err
		}
		if d.Type().IsRegular() {
			if _, ok := Match(d.Name()); ok {
				files = append(files, p)
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", OutputDir, err)
	}
	return files, nil
}

type validator struct {
	fsys   fs.FS
	report *Report
}

func (v *validator) exists(name string) bool {
	_, err := fs.Stat(v.fsys, name)
	return err == nil
}

func (v *validator) read(name string) (string, error) {
	data, err := fs.ReadFile(v.fsys, name)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", name, err)
	}
	return string(data), nil
}

// template checks that a template carries every required heading in order.
func (v *validator) template(a Artifact) error {
	if !v.exists(a.Template) {
		v.report.add(LevelError, "", a.Template, "Missing template file: %s", a.Template)
		return nil
	}
	text, err := v.read(a.Template)
	if err != nil {
		return err
	}

	h2 := Headings(text)
	var found []string
	for _, h := range h2 {
		if slices.Contains(a.Headings, h) {
			found = append(found, h)
		}
	}
	if missing := absent(a.Headings, h2); len(missing) > 0 {
		v.report.add(LevelError, "", a.Template, "Template %s is missing required H2 headings: %s",
			a.Template, strings.Join(missing, ", "))
		return nil
	}
	for i, want := range a.Headings {
		if i >= len(found) || found[i] != want {
			got := ""
			if i < len(found) {
				got = found[i]
			}
			v.report.add(LevelError, "", a.Template,
				"Template %s has headings out of order. Expected '%s' at position %d, found '%s'.",
				a.Template, want, i+1, got)
			break
		}
	}

	if extra := absent(h2, append(slices.Clone(a.Headings), a.Optional...)); len(extra) > 0 {
		v.report.add(LevelWarning, "", a.Template, "Template %s contains extra H2 headings: %s",
			a.Template, strings.Join(extra, ", "))
	}
	return nil
}

// agents checks that every agent links its template and does not embed a
// copy of the artifact skeleton in a code fence.
func (v *validator) agents() error {
	for _, a := range Wave1 {
		if a.Agent == "" {
			continue
		}
		if !v.exists(a.Agent) {
			v.report.add(LevelError, TitleMissing, a.Agent, "Missing agent file: %s", a.Agent)
			continue
		}
		text, err := v.read(a.Agent)
		if err != nil {
			return err
		}

		rel := relativeLink(a.Agent, a.Template)
		if !strings.Contains(text, rel) {
			v.report.add(LevelError, "", a.Agent, "Agent %s must reference template %s", a.Agent, rel)
		}

		for _, block := range FencedBlocks(text) {
			n := 0
			for _, h := range a.Headings {
				if strings.Contains(block, h) {
					n++
				}
			}
			if n >= 3 {
				v.report.add(LevelError, "", a.Agent,
					"Agent %s appears to embed a %s skeleton (found %d headings in a fenced block).",
					a.Agent, a.Name, n)
				break
			}
		}
	}
	return nil
}

// standards checks that the markdown standard mentions templates.
func (v *validator) standards() error {
	if !v.exists(StandardsDoc) {
		v.report.add(LevelWarning, TitleMissing, StandardsDoc, "Standards file not found: %s", StandardsDoc)
		return nil
	}
	text, err := v.read(StandardsDoc)
	if err != nil {
		return err
	}
	if !strings.Contains(text, "template") {
		v.report.add(LevelWarning, "", StandardsDoc,
			"Standards file %s should reference template-first approach", StandardsDoc)
	}
	return nil
}

// artifact checks one generated document.
func (v *validator) artifact(file string) error {
	a, ok := Match(path.Base(file))
	if !ok {
		return nil
	}
	text, err := v.read(file)
	if err != nil {
		return err
	}
	h2 := Headings(text)
	standard := v.report.Strictness == Standard

	if missing := absent(a.Headings, h2); len(missing) > 0 {
		level := LevelWarning
		if standard {
			level = LevelError
		}
		v.report.add(level, "", file, "Artifact %s is missing required H2 headings: %s",
			file, strings.Join(missing, ", "))
	}

	var present []string
	for _, h := range a.Headings {
		if slices.Contains(h2, h) {
			present = append(present, h)
		}
	}
	for i := 0; i+1 < len(present); i++ {
		if slices.Index(h2, present[i]) > slices.Index(h2, present[i+1]) {
			v.report.add(LevelError, "", file,
				"Artifact %s has required headings out of order: '%s' should come before '%s'.",
				file, present[i], present[i+1])
			break
		}
	}

	if anchor := slices.Index(h2, a.Anchor()); anchor != -1 {
		for _, opt := range a.Optional {
			if pos := slices.Index(h2, opt); pos != -1 && pos < anchor {
				v.report.add(LevelWarning, "", file,
					"Artifact %s has optional heading '%s' before anchor '%s' (consider moving it).",
					file, opt, a.Anchor())
			}
		}
	}

	if standard {
		if extra := absent(h2, append(slices.Clone(a.Headings), a.Optional...)); len(extra) > 0 {
			v.report.add(LevelWarning, "", file, "Artifact %s contains extra H2 headings: %s",
				file, strings.Join(extra, ", "))
		}
	}
	return nil
}

// parse builds the markdown AST of text.
func parse(text string) ast.Node {
	p := parser.NewWithExtensions(parser.CommonExtensions)
	return markdown.Parse(markdown.NormalizeNewlines([]byte(text)), p)
}

// Headings returns the H2 headings of a markdown document in order, written
// as "## " plus the heading text. Headings inside code fences are skipped.
func Headings(text string) []string {
	var out []string
	ast.WalkFunc(parse(text), func(node ast.Node, entering bool) ast.WalkStatus {
		h, ok := node.(*ast.Heading)
		if !ok || !entering {
			return ast.GoToNext
		}
		if h.Level == 2 {
			out = append(out, "## "+strings.TrimSpace(plainText(h)))
		}
		return ast.SkipChildren
	})
	return out
}

// plainText concatenates the literal text below node.
func plainText(node ast.Node) string {
	var b strings.Builder
	ast.WalkFunc(node, func(n ast.Node, entering bool) ast.WalkStatus {
		if leaf := n.AsLeaf(); entering && leaf != nil {
			b.Write(leaf.Literal)
		}
		return ast.GoToNext
	})
	return b.String()
}

// FencedBlocks returns the contents of the fenced code blocks of a markdown
// document.
func FencedBlocks(text string) []string {
	var blocks []string
	ast.WalkFunc(parse(text), func(node ast.Node, entering bool) ast.WalkStatus {
		if cb, ok := node.(*ast.CodeBlock); ok && entering && cb.IsFenced {
			blocks = append(blocks, strings.TrimSuffix(string(cb.Literal), "\n"))
		}
		return ast.GoToNext
	})
	return blocks
}

// relativeLink returns the path of target as linked from the file from.
func relativeLink(from, target string) string {
	rel, err := filepath.Rel(filepath.FromSlash(path.Dir(from)), filepath.FromSlash(target))
	if err != nil {
		return target
	}
	return filepath.ToSlash(rel)
}

// absent returns the items of want that are not in have, in order.
func absent(want, have []string) []string {
	var out []string
	for _, w := range want {
		if !slices.Contains(have, w) {
			out = append(out, w)
		}
	}
	return out
}
