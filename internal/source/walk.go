package source

import (
	"io/fs"
	"path/filepath"
	"slices"
	"strings"
)

// DefaultExtensions are the script suffixes linted when a directory is given.
var DefaultExtensions = []string{".js"}

// ListScripts returns every file under dir whose extension is in exts,
// sorted for a deterministic order. node_modules and dot directories are skipped.
func ListScripts(dir string, exts []string) ([]string, error) {
	if len(exts) == 0 {
		exts = DefaultExtensions
	}
	var files []string

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			name := d.Name()
			if path != dir && (name == "node_modules" || strings.HasPrefix(name, ".")) {
				return filepath.SkipDir
			}
			return nil
		}
		if slices.Contains(exts, strings.ToLower(filepath.Ext(path))) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	slices.Sort(files)
	return files, nil
}
