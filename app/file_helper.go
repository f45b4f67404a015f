package app

import (
	"path/filepath"

	ignore "github.com/sabhiram/go-gitignore"
)

// FileHelper selects specification files from a changed-file list.
type FileHelper struct{}

// NewFileHelper creates a new FileHelper
func NewFileHelper() *FileHelper {
	return &FileHelper{}
}

// SelectSpecFiles filters the changed files down to the ones a run
// should process. Include patterns are globs matched against the base
// name or the full path; exclude patterns use gitignore syntax. Newly
// added files are always removed: they have no counterpart on the
// target branch, so a report never carries findings for them.
func (h *FileHelper) SelectSpecFiles(changed, newFiles, includePatterns, excludePatterns []string) []string {
	excluded := ignore.CompileIgnoreLines(excludePatterns...)

	isNew := make(map[string]bool, len(newFiles))
	for _, path := range newFiles {
		isNew[path] = true
	}

	var files []string
	for _, path := range changed {
		if isNew[path] {
			continue
		}
		if !matchesInclude(path, includePatterns) {
			continue
		}
		if excluded.MatchesPath(path) {
			continue
		}
		files = append(files, path)
	}
	return files
}

// matchesInclude reports whether path matches any include pattern.
// An empty pattern list includes everything.
func matchesInclude(path string, patterns []string) bool {
	if len(patterns) == 0 {
		return true
	}
	for _, pattern := range patterns {
		if matched, _ := filepath.Match(pattern, filepath.Base(path)); matched {
			return true
		}
		if matched, _ := filepath.Match(pattern, path); matched {
			return true
		}
	}
	return false
}
