package source

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/gobwas/glob"
	"github.com/municipales2026/importer/pkg/importer"
)

// Locate returns the file in dir whose name matches pattern.
// When several files match, the lexicographically last one wins and a warning is logged.
func Locate(dir, pattern string, logger importer.Logger) (string, error) {
	g, err := glob.Compile(pattern)
	if err != nil {
		return "", fmt.Errorf("invalid source pattern %q: %w: %w", pattern, importer.ErrInvalidConfig, err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: directory %s does not exist (pattern: %s)", importer.ErrSourceNotFound, dir, pattern)
		}
		return "", fmt.Errorf("%w: cannot list %s: %w", importer.ErrSourceNotFound, dir, err)
	}

	var matches []string
	for _, entry := range entries {
		if entry.IsDir() || !g.Match(entry.Name()) {
			continue
		}
		matches = append(matches, entry.Name())
	}

	if len(matches) == 0 {
		return "", fmt.Errorf("%w in %s (pattern: %s)", importer.ErrSourceNotFound, dir, pattern)
	}

	sort.Strings(matches)
	chosen := matches[len(matches)-1]
	if len(matches) > 1 {
		logger.Warn("%d files match %s, using the most recent: %s", len(matches), pattern, chosen)
	}

	return filepath.Join(dir, chosen), nil
}
