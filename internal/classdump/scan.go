package classdump

import (
	"fmt"
	"io/fs"
	"path"
	"path/filepath"
	"strings"
)

// Extensions lists the file suffixes recognized as class dumps
var Extensions = []string{".yaml", ".yml", ".json"}

// ScanDirectory walks the root directory and finds class dump files.
// Directories matching an exclude pattern are skipped.
func ScanDirectory(root string, excludePatterns []string) ([]string, error) {
	var files []string

	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			if d.Name() == ".git" || d.Name() == ".svn" {
				return filepath.SkipDir
			}

			relPath, _ := filepath.Rel(root, p)
			relPath = filepath.ToSlash(relPath)
			for _, pat := range excludePatterns {
				if matchGlob(relPath, pat) {
					return filepath.SkipDir
				}
			}
			return nil
		}

		if IsDumpFile(p) {
			files = append(files, p)
		}
		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("scan failed: %w", err)
	}

	return files, nil
}

// IsDumpFile reports whether the path has a class dump extension
func IsDumpFile(p string) bool {
	ext := strings.ToLower(filepath.Ext(p))
	for _, e := range Extensions {
		if ext == e {
			return true
		}
	}
	return false
}

// matchGlob matches a slash-separated relative path. Patterns with "**"
// match the remaining fragment anywhere in the path.
func matchGlob(relPath, pattern string) bool {
	if strings.Contains(pattern, "**") {
		clean := strings.Trim(strings.ReplaceAll(pattern, "**", ""), "/")
		return clean != "" && strings.Contains(relPath, clean)
	}
	ok, _ := path.Match(pattern, relPath)
	return ok
}
