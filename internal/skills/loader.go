package skills

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
)

const skillFilePattern = "**/*.jsonc"

// loadDir registers every *.jsonc skill under dir, recursively. Invalid or
// duplicate definitions are logged and skipped. Caller holds r.mu.
func (r *Registry) loadDir(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			slog.Debug("skills directory not found, skipping", "dir", dir)
			return nil
		}
		return fmt.Errorf("stat skills dir %s: %w", dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("skills dir %s is not a directory", dir)
	}

	matches, err := doublestar.Glob(os.DirFS(dir), skillFilePattern, doublestar.WithFilesOnly())
	if err != nil {
		return fmt.Errorf("glob skills dir %s: %w", dir, err)
	}

	loaded := 0
	for _, rel := range matches {
		path := filepath.Join(dir, filepath.FromSlash(rel))
		skill, err := LoadSkillFile(path)
		if err != nil {
			slog.Warn("failed to load skill", "path", path, "error", err)
			continue
		}
		if err := r.register(skill); err != nil {
			slog.Warn("failed to register skill", "id", skill.ID, "path", path, "error", err)
			continue
		}
		loaded++
	}

	slog.Debug("skills directory loaded", "dir", dir, "loaded", loaded, "files", len(matches))
	return nil
}
