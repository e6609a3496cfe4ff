package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/skillmd/skillmd/pkg/logger"
	"github.com/skillmd/skillmd/pkg/presenter"
	"github.com/skillmd/skillmd/pkg/skillset"
)

// WatchConfig holds configuration for the watch command.
type WatchConfig struct {
	DebounceTime int
}

// NewWatchConfig creates a WatchConfig with default values.
func NewWatchConfig() *WatchConfig {
	return &WatchConfig{
		DebounceTime: 300,
	}
}

// Validate validates the WatchConfig and returns an error if invalid.
func (c *WatchConfig) Validate() error {
	if c.DebounceTime < 0 {
		return fmt.Errorf("debounce time cannot be negative: %d", c.DebounceTime)
	}
	return nil
}

// skillEvent is a qualifying filesystem event attributed to one skill pack.
type skillEvent struct {
	Skill skillset.Skill
	Path  string
	Op    fsnotify.Op
	Time  time.Time
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch skill packs and rebuild AGENTS.md on change",
	Long: `Watch performs one full build immediately, then monitors every skill's
SKILL.md and rules/ directory. A change to the source document, or to any
markdown file under rules/, triggers a rebuild of that skill. Rebuilds are
debounced and run one at a time; a failing rebuild is logged and the watch
keeps running. Stop with Ctrl-C.`,
	Run: func(cmd *cobra.Command, _ []string) {
		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		config := getWatchConfigFromFlags(cmd)
		if err := config.Validate(); err != nil {
			presenter.Error(err, "Invalid configuration")
			os.Exit(1)
		}

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
		go func() {
			<-sigCh
			presenter.Warning("Cancellation requested, shutting down...")
			cancel()
		}()

		skills, err := resolveSkills(nil)
		if err != nil {
			presenter.Error(err, "Failed to locate skills")
			os.Exit(1)
		}

		// Initial build. Failures here are logged but do not stop the watch;
		// the previous output file, if any, is left untouched.
		for _, skill := range skills {
			rebuild(ctx, skill)
		}

		runWatchLoop(ctx, skills, config)
	},
}

func init() {
	defaults := NewWatchConfig()
	watchCmd.Flags().IntP("debounce", "d", defaults.DebounceTime, "Debounce time in milliseconds for file change events")
	rootCmd.AddCommand(watchCmd)
}

func getWatchConfigFromFlags(cmd *cobra.Command) *WatchConfig {
	config := NewWatchConfig()
	if debounce, err := cmd.Flags().GetInt("debounce"); err == nil {
		config.DebounceTime = debounce
	}
	return config
}

func runWatchLoop(ctx context.Context, skills []skillset.Skill, config *WatchConfig) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		presenter.Error(err, "Failed to create file watcher")
		logger.G(ctx).WithError(err).Fatal("Failed to create file watcher")
	}
	defer watcher.Close()

	for _, skill := range skills {
		if err := watcher.Add(skill.Dir); err != nil {
			presenter.Error(err, fmt.Sprintf("Failed to watch %s", skill.Dir))
			logger.G(ctx).WithError(err).Fatal("Failed to watch skill directory")
		}
		if _, err := os.Stat(skill.RulesDir); err == nil {
			if err := watchRulesTree(ctx, watcher, skill.RulesDir); err != nil {
				presenter.Error(err, fmt.Sprintf("Failed to watch %s", skill.RulesDir))
				logger.G(ctx).WithError(err).Fatal("Failed to watch rules directory")
			}
		}
	}

	events := make(chan skillEvent)
	debounced := make(chan skillEvent)
	go debounceSkillEvents(ctx, events, debounced, time.Duration(config.DebounceTime)*time.Millisecond)

	// Single rebuild worker: rebuilds are serialized so two overlapping
	// builds can never interleave writes to the same output file.
	go func() {
		for {
			select {
			case event, ok := <-debounced:
				if !ok {
					return
				}
				presenter.Info(fmt.Sprintf("Change detected: %s (%s)", event.Path, event.Op))
				logger.G(ctx).WithFields(map[string]interface{}{
					"skill":     event.Skill.Name,
					"file":      event.Path,
					"operation": event.Op.String(),
				}).Debug("File change detected")
				rebuild(ctx, event.Skill)
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
					continue
				}

				// A directory created under rules/ after startup starts
				// getting watched as soon as it appears.
				if event.Op&fsnotify.Create != 0 {
					if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
						for _, skill := range skills {
							if withinDir(skill.RulesDir, event.Name) {
								_ = watchRulesTree(ctx, watcher, event.Name)
							}
						}
						continue
					}
				}

				skill, ok := matchSkill(skills, event.Name)
				if !ok || !shouldRebuild(skill, event.Name) {
					continue
				}
				select {
				case events <- skillEvent{
					Skill: skill,
					Path:  event.Name,
					Op:    event.Op,
					Time:  time.Now(),
				}:
				case <-ctx.Done():
					return
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				presenter.Error(err, "File watcher error")
				logger.G(ctx).WithError(err).Error("Error watching files")
			case <-ctx.Done():
				return
			}
		}
	}()

	presenter.Info("Watching for file changes... Press Ctrl+C to stop")
	logger.G(ctx).WithField("skills", len(skills)).Info("File watcher initialized")

	<-ctx.Done()
}

// watchRulesTree adds dir and every directory beneath it to the watcher.
// fsnotify watches are not recursive, so each nested rules/ subdirectory
// needs its own watch for its files to produce events.
func watchRulesTree(ctx context.Context, watcher *fsnotify.Watcher, dir string) error {
	return filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			logger.G(ctx).WithField("directory", path).Debug("Adding directory to watcher")
			return watcher.Add(path)
		}
		return nil
	})
}

// withinDir reports whether path is dir itself or a descendant of it.
func withinDir(dir, path string) bool {
	rel, err := filepath.Rel(dir, filepath.Clean(path))
	return err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// rebuild runs one build for a skill, reporting but swallowing failures so
// the watch loop keeps running.
func rebuild(ctx context.Context, skill skillset.Skill) {
	res, err := buildSkill(ctx, skill)
	if err != nil {
		presenter.Error(err, fmt.Sprintf("Failed to build skill '%s'", skill.Name))
		logger.G(ctx).WithError(err).WithField("skill", skill.Name).Error("Build failed")
		return
	}
	reportBuild(skill, res)
}

// matchSkill attributes an event path to the skill pack that owns it.
func matchSkill(skills []skillset.Skill, path string) (skillset.Skill, bool) {
	for _, skill := range skills {
		if withinDir(skill.Dir, path) {
			return skill, true
		}
	}
	return skillset.Skill{}, false
}

// shouldRebuild reports whether a change to path warrants rebuilding the
// skill: the source document itself, or a markdown file under rules/.
// Everything else is ignored, including the generated output file, which
// keeps the build's own write from re-triggering the watcher.
func shouldRebuild(skill skillset.Skill, path string) bool {
	clean := filepath.Clean(path)
	if clean == filepath.Clean(skill.SkillFile) {
		return true
	}
	if !withinDir(skill.RulesDir, clean) {
		return false
	}

	rel, err := filepath.Rel(skill.RulesDir, clean)
	if err != nil {
		return false
	}
	matched, err := doublestar.Match("**/*.md", filepath.ToSlash(rel))
	return err == nil && matched
}

// debounceSkillEvents coalesces rapid successive events per skill so one
// save storm yields one rebuild.
func debounceSkillEvents(ctx context.Context, input <-chan skillEvent, output chan<- skillEvent, delay time.Duration) {
	pending := make(map[string]*time.Timer)

	for {
		select {
		case event, ok := <-input:
			if !ok {
				for _, timer := range pending {
					timer.Stop()
				}
				return
			}
			if timer, exists := pending[event.Skill.Name]; exists {
				timer.Stop()
				delete(pending, event.Skill.Name)
			}

			eventCopy := event
			pending[event.Skill.Name] = time.AfterFunc(delay, func() {
				select {
				case output <- eventCopy:
				case <-ctx.Done():
				}
			})
		case <-ctx.Done():
			for _, timer := range pending {
				timer.Stop()
			}
			return
		}
	}
}
