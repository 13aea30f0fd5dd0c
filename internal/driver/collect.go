package driver

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"mmdfmt/internal/project"
)

// collectSourceFiles expands paths into a sorted, de-duplicated file list.
// Directories are walked recursively and filtered by the manifest's
// extensions and exclude patterns; explicitly named files are always kept.
func collectSourceFiles(ctx context.Context, paths []string, m project.Manifest) ([]string, error) {
	var files []string
	seen := make(map[string]struct{})
	addFile := func(path string) {
		path = filepath.Clean(path)
		if _, ok := seen[path]; ok {
			return
		}
		seen[path] = struct{}{}
		files = append(files, path)
	}

	for _, p := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		info, err := os.Stat(p)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			addFile(p)
			continue
		}
		err = filepath.WalkDir(p, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if err := ctx.Err(); err != nil {
				return err
			}
			if d.IsDir() {
				if path != p && m.Excluded(path) {
					return filepath.SkipDir
				}
				return nil
			}
			if m.HasExtension(path) && !m.Excluded(path) {
				addFile(path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	sort.Strings(files)
	return files, nil
}
