// Package validate lints skill packs: required frontmatter keys, impact
// levels, reference integrity, orphaned rule files, and anchor collisions.
// Hard failures are aggregated into a single error; style-level findings
// come back as warnings so CI can choose how strict to be.
package validate

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"github.com/yuin/goldmark"
	meta "github.com/yuin/goldmark-meta"
	"github.com/yuin/goldmark/parser"

	"github.com/skillmd/skillmd/pkg/markdown"
	"github.com/skillmd/skillmd/pkg/skillset"
)

var validImpacts = map[string]bool{
	"CRITICAL": true,
	"HIGH":     true,
	"MEDIUM":   true,
	"LOW":      true,
}

// Report holds the findings for one skill pack.
type Report struct {
	Skill    skillset.Skill
	Warnings []string
	errs     *multierror.Error
}

// Err returns the aggregated hard failures, or nil when the pack is clean.
func (r *Report) Err() error {
	return r.errs.ErrorOrNil()
}

func (r *Report) errorf(format string, args ...any) {
	r.errs = multierror.Append(r.errs, fmt.Errorf(format, args...))
}

func (r *Report) warnf(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// Check validates a single skill pack. A missing SKILL.md is returned as an
// error directly; everything else lands in the report.
func Check(skill skillset.Skill) (*Report, error) {
	report := &Report{Skill: skill}

	doc, err := skillset.LoadDocument(skill.SkillFile)
	if err != nil {
		return nil, err
	}

	checkSkillFrontmatter(report, skill, doc)

	sections := markdown.SplitSections(doc.Body, markdown.SectionPattern)
	if len(sections) == 0 {
		report.warnf("%s: no numbered sections found", skillset.SkillFileName)
	}

	referenced := map[string]bool{}
	anchors := map[string]string{}
	for _, sec := range sections {
		if prev, dup := anchors[sec.Anchor]; dup {
			report.warnf("anchor collision: %q and %q both slug to #%s", prev, sec.Title, sec.Anchor)
		}
		anchors[sec.Anchor] = sec.Title

		for _, ref := range markdown.ExtractRefs(sec.Body, skillset.RulesDirName+"/") {
			referenced[ref.File] = true
			checkRule(report, skill, sec, ref, anchors)
		}
	}

	checkOrphans(report, skill, referenced)
	return report, nil
}

// checkSkillFrontmatter verifies required keys and that the frontmatter
// block is well-formed YAML as a stricter markdown parser sees it.
func checkSkillFrontmatter(report *Report, skill skillset.Skill, doc *skillset.Document) {
	if doc.Frontmatter.Get("name") == "" {
		report.errorf("%s: frontmatter is missing 'name'", skillset.SkillFileName)
	}
	if doc.Frontmatter.Get("description") == "" {
		report.errorf("%s: frontmatter is missing 'description'", skillset.SkillFileName)
	}

	raw, err := os.ReadFile(skill.SkillFile)
	if err != nil {
		report.errs = multierror.Append(report.errs, errors.Wrap(err, "failed to re-read skill document"))
		return
	}

	md := goldmark.New(goldmark.WithExtensions(meta.Meta))
	pctx := parser.NewContext()
	if err := md.Convert(raw, io.Discard, parser.WithContext(pctx)); err != nil {
		report.errorf("%s: markdown does not parse: %v", skillset.SkillFileName, err)
		return
	}
	if _, err := meta.TryGet(pctx); err != nil {
		report.warnf("%s: frontmatter is not valid YAML (%v); values are treated as literal strings", skillset.SkillFileName, err)
	}
}

func checkRule(report *Report, skill skillset.Skill, sec markdown.Section, ref markdown.Ref, anchors map[string]string) {
	relPath := skillset.RulesDirName + "/" + ref.File

	data, err := os.ReadFile(filepath.Join(skill.RulesDir, filepath.FromSlash(ref.File)))
	if err != nil {
		report.errorf("section %q references %s, which does not exist", sec.Title, relPath)
		return
	}

	fm, body := markdown.ParseFrontmatter(string(data))
	title := fm.Get("title")
	if title == "" {
		title = ref.Title
		report.warnf("%s: frontmatter is missing 'title'; the link text %q will be used", relPath, ref.Title)
	}
	if impact := fm.Get("impact"); impact != "" && !validImpacts[impact] {
		report.errorf("%s: invalid impact %q (want CRITICAL, HIGH, MEDIUM, or LOW)", relPath, impact)
	}
	if strings.TrimSpace(body) == "" {
		report.warnf("%s: rule has no body content", relPath)
	}

	anchor := markdown.Slug(title)
	if prev, dup := anchors[anchor]; dup {
		report.warnf("anchor collision: %q and %q both slug to #%s", prev, title, anchor)
	}
	anchors[anchor] = title
}

// checkOrphans flags markdown files in rules/ that no section references.
func checkOrphans(report *Report, skill skillset.Skill, referenced map[string]bool) {
	entries, err := os.ReadDir(skill.RulesDir)
	if err != nil {
		// No rules directory is only worth mentioning when rules are expected.
		if len(referenced) > 0 {
			report.errs = multierror.Append(report.errs, errors.Wrapf(err, "failed to read rules directory %s", skill.RulesDir))
		}
		return
	}

	var orphans []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".md") {
			continue
		}
		if !referenced[entry.Name()] {
			orphans = append(orphans, entry.Name())
		}
	}
	sort.Strings(orphans)
	for _, name := range orphans {
		report.warnf("%s/%s is not referenced by any section", skillset.RulesDirName, name)
	}
}
