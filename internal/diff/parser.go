// Package diff parses unified diff text into per-file, per-hunk structures
// with dual (original/final) line numbering.
package diff

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/pullscout/pkg/models"
)

var (
	hunkHeaderRe = regexp.MustCompile(`^@@ -(\d+)(?:,(\d+))? \+(\d+)(?:,(\d+))? @@`)
	gitHeaderRe  = regexp.MustCompile(`^diff --git a/(.+) b/(.+)$`)
)

// Parser parses git unified diff output into structured data.
type Parser struct{}

// NewParser creates a new diff parser.
func NewParser() *Parser {
	return &Parser{}
}

// Parse parses a full unified diff into an ordered slice of FileDiff.
// A malformed diff is an error; callers treat it as fatal for the run.
func (p *Parser) Parse(diffText string) ([]*models.FileDiff, error) {
	if strings.TrimSpace(diffText) == "" {
		return nil, nil
	}

	sections := splitByFile(diffText)
	if len(sections) == 0 {
		return nil, fmt.Errorf("no file sections found in diff")
	}

	result := make([]*models.FileDiff, 0, len(sections))
	for _, section := range sections {
		fd, err := p.parseFileSection(section)
		if err != nil {
			return nil, err
		}
		result = append(result, fd)
	}

	return result, nil
}

// splitByFile splits a unified diff into per-file sections on the
// "diff --git" marker.
func splitByFile(diffText string) []string {
	parts := strings.Split(diffText, "diff --git ")

	result := make([]string, 0, len(parts))
	for i, part := range parts {
		if i == 0 {
			// Preamble before the first file header is ignored.
			continue
		}
		result = append(result, "diff --git "+part)
	}
	return result
}

// parseFileSection parses one file's header lines and hunks.
func (p *Parser) parseFileSection(section string) (*models.FileDiff, error) {
	lines := strings.Split(section, "\n")

	fd := &models.FileDiff{}
	if m := gitHeaderRe.FindStringSubmatch(lines[0]); m != nil {
		fd.FromPath = m[1]
		fd.ToPath = m[2]
	} else {
		return nil, fmt.Errorf("malformed file header: %q", lines[0])
	}

	bodyStart := len(lines)
	for i, line := range lines[1:] {
		switch {
		case strings.HasPrefix(line, "--- "):
			if from := strings.TrimPrefix(line, "--- "); from == models.DevNull {
				fd.IsNew = true
			}
		case strings.HasPrefix(line, "+++ "):
			to := strings.TrimPrefix(line, "+++ ")
			if to == models.DevNull {
				fd.IsDeleted = true
				fd.ToPath = ""
			} else {
				fd.ToPath = strings.TrimPrefix(to, "b/")
			}
		case strings.HasPrefix(line, "rename from "):
			fd.IsRenamed = true
			fd.FromPath = strings.TrimPrefix(line, "rename from ")
		case strings.HasPrefix(line, "rename to "):
			fd.IsRenamed = true
			fd.ToPath = strings.TrimPrefix(line, "rename to ")
		case strings.HasPrefix(line, "deleted file mode "):
			fd.IsDeleted = true
		case strings.HasPrefix(line, "new file mode "):
			fd.IsNew = true
		case strings.HasPrefix(line, "@@ "):
			bodyStart = i + 1
		}
		if bodyStart < len(lines) {
			break
		}
	}
	if fd.IsDeleted {
		fd.ToPath = ""
	}

	// Binary files and mode-only changes carry no hunks; they pass through
	// with an empty hunk list.
	if bodyStart >= len(lines) {
		return fd, nil
	}

	hunks, err := p.parseHunks(lines[bodyStart:])
	if err != nil {
		return nil, fmt.Errorf("file %s: %w", fd.FromPath, err)
	}
	fd.Hunks = hunks

	return fd, nil
}

// parseHunks walks hunk bodies tracking old/new line counters from each @@
// header, producing one Line per body line with dual numbering.
func (p *Parser) parseHunks(lines []string) ([]models.Hunk, error) {
	var hunks []models.Hunk
	var current *models.Hunk
	var content strings.Builder
	oldLine, newLine := 0, 0

	flush := func() {
		if current != nil {
			current.Content = strings.TrimSuffix(content.String(), "\n")
			hunks = append(hunks, *current)
			current = nil
			content.Reset()
		}
	}

	for _, line := range lines {
		if m := hunkHeaderRe.FindStringSubmatch(line); m != nil {
			flush()
			oldStart, _ := strconv.Atoi(m[1])
			oldCount := atoiDefault(m[2], 1)
			newStart, _ := strconv.Atoi(m[3])
			newCount := atoiDefault(m[4], 1)

			current = &models.Hunk{
				Header:   line,
				OldStart: oldStart,
				OldCount: oldCount,
				NewStart: newStart,
				NewCount: newCount,
			}
			content.WriteString(line + "\n")
			oldLine, newLine = oldStart, newStart
			continue
		}

		if line == "" {
			// Whitespace-stripping tooling renders blank context lines
			// with no leading space. While the header counts are still
			// unexhausted this is such a context line; afterwards it is
			// the trailing artifact of splitting on newlines.
			if current == nil || hunkExhausted(current, oldLine, newLine) {
				continue
			}
			line = " "
		}
		if current == nil {
			return nil, fmt.Errorf("diff body line before hunk header: %q", line)
		}

		content.WriteString(line + "\n")

		dl := models.Line{Content: line}
		switch {
		case strings.HasPrefix(line, "+"):
			dl.NewNumber = newLine
			newLine++
		case strings.HasPrefix(line, "-"):
			dl.OldNumber = oldLine
			oldLine++
		case strings.HasPrefix(line, `\`):
			// "\ No newline at end of file" has no line numbers.
		default:
			dl.OldNumber = oldLine
			dl.NewNumber = newLine
			oldLine++
			newLine++
		}
		current.Lines = append(current.Lines, dl)
	}
	flush()

	return hunks, nil
}

// hunkExhausted reports whether both side counters have consumed the
// line counts announced by the hunk header.
func hunkExhausted(h *models.Hunk, oldLine, newLine int) bool {
	return oldLine >= h.OldStart+h.OldCount && newLine >= h.NewStart+h.NewCount
}

func atoiDefault(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}
