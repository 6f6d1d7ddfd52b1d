package dev

import (
	"path/filepath"

	"github.com/rokoui/roko/internal/config"
)

// CollectWatchPaths returns the deduplicated directories roko dev polls:
// the template include roots and the static directory.
func CollectWatchPaths(cfg *config.Config) []string {
	paths := append(cfg.IncludePaths(), cfg.StaticPath())

	unique := make([]string, 0, len(paths))
	seen := make(map[string]struct{}, len(paths))
	for _, path := range paths {
		if path == "" {
			continue
		}
		clean := filepath.Clean(path)
		if _, ok := seen[clean]; ok {
			continue
		}
		seen[clean] = struct{}{}
		unique = append(unique, clean)
	}

	return unique
}

// isWithinDir reports whether path is dir or lies below it.
func isWithinDir(path, dir string) bool {
	if dir == "" {
		return false
	}
	rel, err := filepath.Rel(filepath.Clean(dir), filepath.Clean(path))
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !hasParentPrefix(rel))
}

func hasParentPrefix(rel string) bool {
	return len(rel) >= 3 && rel[:3] == ".."+string(filepath.Separator)
}
