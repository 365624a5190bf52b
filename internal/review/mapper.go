package review

import (
	gopath "path"
	"strings"

	zglob "github.com/mattn/go-zglob"

	"github.com/pullscout/pkg/models"
)

// MapComments converts a hunk's suggestions into publishable comments
// anchored to the owning file. Suggestions for a file with no usable
// target path are dropped, not errors. No range validation happens here.
func MapComments(file *models.FileDiff, suggestions []models.Suggestion) []models.DraftComment {
	if !file.HasTargetPath() {
		return nil
	}

	comments := make([]models.DraftComment, 0, len(suggestions))
	for _, suggestion := range suggestions {
		comments = append(comments, models.DraftComment{
			Body: suggestion.Comment,
			Path: file.ToPath,
			Line: suggestion.LineNumber,
		})
	}
	return comments
}

// Excluded reports whether the path matches any of the exclusion globs.
// Patterns support ** segments; unparsable patterns never match. A
// pattern ending in /** covers every depth below the matched directory,
// which zglob alone does not: "vendor/**" must exclude
// "vendor/lib/lib.go", not just "vendor/lib.go".
func Excluded(path string, patterns []string) bool {
	for _, pattern := range patterns {
		if ok, err := zglob.Match(pattern, path); err == nil && ok {
			return true
		}

		base, found := strings.CutSuffix(pattern, "/**")
		if !found {
			continue
		}
		for dir := gopath.Dir(path); dir != "." && dir != "/"; dir = gopath.Dir(dir) {
			if ok, err := zglob.Match(base, dir); err == nil && ok {
				return true
			}
		}
	}
	return false
}
