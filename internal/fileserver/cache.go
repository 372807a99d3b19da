// Package fileserver syncs configured file roots into the agent's local file cache.
package fileserver

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/convergehq/statecheck/internal/config"
)

// Cache copies the configured file roots into the cache directory tree the
// discovery walks. Roots are applied in order; on a path conflict the first
// root wins. Sync adds and overwrites, it never prunes.
type Cache struct {
	log         logrus.FieldLogger
	cacheDir    string
	environment string
	roots       []string
}

// SyncStats summarizes one cache sync.
type SyncStats struct {
	Files    int
	Bytes    int64
	Skipped  int
	Duration time.Duration
}

// New creates a cache for the given roots. An empty environment syncs into
// the base environment.
func New(log logrus.FieldLogger, cacheDir, environment string, roots []string) *Cache {
	if environment == "" {
		environment = config.BaseEnvironment
	}

	return &Cache{
		log:         log.WithField("component", "fileserver_cache"),
		cacheDir:    cacheDir,
		environment: environment,
		roots:       roots,
	}
}

// TargetDir returns the directory this cache syncs into.
func (c *Cache) TargetDir() string {
	return filepath.Join(c.cacheDir, config.FilesDirname, c.environment)
}

// Sync copies every configured root into the target directory.
// Missing roots are skipped with a warning.
func (c *Cache) Sync(ctx context.Context) (*SyncStats, error) {
	start := time.Now()
	target := c.TargetDir()

	if err := os.MkdirAll(target, 0o755); err != nil {
		return nil, fmt.Errorf("creating cache target %s: %w", target, err)
	}

	stats := &SyncStats{}
	seen := make(map[string]struct{})

	for _, root := range c.roots {
		if _, err := os.Stat(root); err != nil {
			if os.IsNotExist(err) {
				c.log.WithField("root", root).Warn("file root does not exist, skipping")
				continue
			}
			return nil, fmt.Errorf("checking file root %s: %w", root, err)
		}

		if err := c.syncRoot(ctx, root, target, seen, stats); err != nil {
			return nil, err
		}
	}

	stats.Duration = time.Since(start)
	c.log.WithFields(logrus.Fields{
		"files":    stats.Files,
		"bytes":    stats.Bytes,
		"skipped":  stats.Skipped,
		"target":   target,
		"duration": stats.Duration,
	}).Info("cache sync complete")

	return stats, nil
}

// syncRoot copies one root's regular files into the target, honoring paths
// already claimed by an earlier root.
func (c *Cache) syncRoot(ctx context.Context, root, target string, seen map[string]struct{}, stats *SyncStats) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("walking %s: %w", root, err)
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if d.IsDir() || !d.Type().IsRegular() {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return fmt.Errorf("relativizing %s: %w", path, err)
		}

		if _, claimed := seen[rel]; claimed {
			stats.Skipped++
			c.log.WithFields(logrus.Fields{
				"path": rel,
				"root": root,
			}).Debug("path already synced from earlier root")
			return nil
		}
		seen[rel] = struct{}{}

		written, err := copyFile(path, filepath.Join(target, rel))
		if err != nil {
			return fmt.Errorf("caching %s: %w", rel, err)
		}

		stats.Files++
		stats.Bytes += written

		return nil
	})
}

// copyFile copies src to dst, creating parent directories and overwriting
// any previously cached content.
func copyFile(src, dst string) (int64, error) {
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return 0, err
	}

	in, err := os.Open(src)
	if err != nil {
		return 0, err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return 0, err
	}

	written, err := io.Copy(out, in)
	if err != nil {
		out.Close()
		return written, err
	}

	return written, out.Close()
}
