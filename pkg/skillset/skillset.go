// Package skillset discovers skill packs and loads their top-level
// documents. A skill pack is a directory under <root>/skills/<name>/
// containing a SKILL.md, a rules/ subdirectory of referenced rule files,
// and the generated AGENTS.md output.
package skillset

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/pkg/errors"

	"github.com/skillmd/skillmd/pkg/markdown"
)

const (
	// SkillFileName is the top-level source document of a skill pack.
	SkillFileName = "SKILL.md"
	// OutputFileName is the generated consolidated document.
	OutputFileName = "AGENTS.md"
	// RulesDirName is the subdirectory holding individual rule files.
	RulesDirName = "rules"

	skillsDirName = "skills"
)

// Skill identifies one skill pack and its conventional paths.
type Skill struct {
	Name       string
	Dir        string
	SkillFile  string
	RulesDir   string
	OutputFile string
}

// Document is a loaded SKILL.md: ordered frontmatter plus the remaining body.
type Document struct {
	Frontmatter markdown.Frontmatter
	Body        string
}

// Discovery finds skill packs under a root directory.
type Discovery struct {
	skillsDir string
}

// Option configures a Discovery.
type Option func(*Discovery)

// WithRoot sets the project root; skills are expected under <root>/skills.
func WithRoot(root string) Option {
	return func(d *Discovery) {
		d.skillsDir = filepath.Join(root, skillsDirName)
	}
}

// WithSkillsDir sets the skills directory directly, bypassing the
// conventional <root>/skills layout.
func WithSkillsDir(dir string) Option {
	return func(d *Discovery) {
		d.skillsDir = dir
	}
}

// NewDiscovery creates a Discovery rooted at the current directory unless
// configured otherwise.
func NewDiscovery(opts ...Option) *Discovery {
	d := &Discovery{skillsDir: skillsDirName}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// SkillsDir returns the directory scanned for skill packs.
func (d *Discovery) SkillsDir() string {
	return d.skillsDir
}

func (d *Discovery) skill(name string) Skill {
	dir := filepath.Join(d.skillsDir, name)
	return Skill{
		Name:       name,
		Dir:        dir,
		SkillFile:  filepath.Join(dir, SkillFileName),
		RulesDir:   filepath.Join(dir, RulesDirName),
		OutputFile: filepath.Join(dir, OutputFileName),
	}
}

// Discover returns every skill pack under the skills directory, sorted by
// name. Directories without a SKILL.md are ignored. A missing skills
// directory yields an empty result, not an error.
func (d *Discovery) Discover() ([]Skill, error) {
	entries, err := os.ReadDir(d.skillsDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, "failed to read skills directory %s", d.skillsDir)
	}

	var skills []Skill
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		s := d.skill(entry.Name())
		if _, err := os.Stat(s.SkillFile); err != nil {
			continue
		}
		skills = append(skills, s)
	}

	sort.Slice(skills, func(i, j int) bool { return skills[i].Name < skills[j].Name })
	return skills, nil
}

// Get returns the named skill pack, or an error if it has no SKILL.md.
func (d *Discovery) Get(name string) (Skill, error) {
	s := d.skill(name)
	if _, err := os.Stat(s.SkillFile); err != nil {
		return Skill{}, errors.Wrapf(err, "skill '%s' not found under %s", name, d.skillsDir)
	}
	return s, nil
}

// LoadDocument reads and parses a skill document. A missing or unreadable
// file is an error; a skill pack without its top-level document is unusable.
func LoadDocument(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read skill document %s", path)
	}

	fm, body := markdown.ParseFrontmatter(string(data))
	return &Document{Frontmatter: fm, Body: body}, nil
}
