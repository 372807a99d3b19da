package check

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/convergehq/statecheck/internal/config"
)

// Discovery locates unit directories and their test files in the agent's
// search roots.
type Discovery struct {
	log   logrus.FieldLogger
	roots []string
}

// NewDiscovery creates a discovery over the given roots, highest priority
// first.
func NewDiscovery(log logrus.FieldLogger, roots []string) *Discovery {
	return &Discovery{
		log:   log.WithField("component", "check_discovery"),
		roots: roots,
	}
}

// FindUnitDir walks the roots in priority order for a directory named
// after the unit that directly contains the reserved tests subdirectory.
// The first match wins. A unit without tests is not a match, so a shadow
// of the same name without tests does not mask a lower-priority root.
func (d *Discovery) FindUnitDir(unit string) (string, bool) {
	for _, root := range d.roots {
		if _, err := os.Stat(root); err != nil {
			d.log.WithField("root", root).Debug("search root not present, skipping")
			continue
		}

		var found string

		walkErr := filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !entry.IsDir() || entry.Name() != unit {
				return nil
			}

			testsDir := filepath.Join(path, config.TestsDirname)
			if info, statErr := os.Stat(testsDir); statErr == nil && info.IsDir() {
				found = path
				return fs.SkipAll
			}

			return nil
		})
		if walkErr != nil {
			d.log.WithError(walkErr).WithField("root", root).Warn("error walking search root")
			continue
		}

		if found != "" {
			d.log.WithFields(logrus.Fields{
				"unit": unit,
				"dir":  found,
			}).Debug("found unit test directory")

			return found, true
		}
	}

	return "", false
}

// GatherTestFiles collects every test file under the unit's reserved
// subdirectory, recursively, in lexical order.
func (d *Discovery) GatherTestFiles(unitDir string) ([]string, error) {
	testsRoot := filepath.Join(unitDir, config.TestsDirname)

	files := make([]string, 0)

	err := filepath.WalkDir(testsRoot, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() {
			return nil
		}
		if strings.HasSuffix(entry.Name(), config.TestFileSuffix) {
			files = append(files, path)
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("gathering test files in %s: %w", testsRoot, err)
	}

	return files, nil
}

// NormalizeUnits reduces compound dotted unit names to their top-level
// component and deduplicates, preserving first-occurrence order. The top
// file may activate "apache.vhosts" and "apache.modules"; both resolve to
// the apache unit's test tree, which should run once.
func NormalizeUnits(units []string) []string {
	seen := make(map[string]struct{}, len(units))
	out := make([]string, 0, len(units))

	for _, unit := range units {
		name, _, _ := strings.Cut(unit, ".")
		if name == "" {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}

		seen[name] = struct{}{}
		out = append(out, name)
	}

	return out
}
