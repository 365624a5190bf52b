// Package prompts renders the per-hunk review instruction sent to the model.
//
// Prompts are deterministic: identical inputs always produce byte-identical
// strings. Nothing here reads clocks, counters, or random sources.
package prompts

import (
	"fmt"
	"strings"

	"github.com/pullscout/pkg/models"
)

const systemInstruction = `Your task is to review pull requests. Instructions:
- Provide the response as a raw JSON array matching: [{"lineNumber": <number>, "reviewComment": "<comment>"}]
- Only reference line numbers that appear in the numbered changed lines below.
- Do not give positive comments or compliments.
- Provide comments and suggestions ONLY if there is something to improve; otherwise return an empty array.
- Write the comment in GitHub Markdown format.
- Use the given description only for the overall context and only comment the code.
- IMPORTANT: NEVER suggest adding comments to the code.`

// Builder assembles review prompts for single hunks.
type Builder struct{}

// NewBuilder creates a new prompt builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Build renders the instruction string for reviewing one hunk of one file.
func (b *Builder) Build(pr models.PullRequest, file *models.FileDiff, hunk models.Hunk) string {
	var p strings.Builder

	p.WriteString(systemInstruction)
	p.WriteString("\n\n")

	fmt.Fprintf(&p, "Review the following code diff in the file %q and take the pull request title and description into account when writing the response.\n\n", file.ToPath)

	fmt.Fprintf(&p, "Pull request title: %s\n\n", pr.Title)
	p.WriteString("Pull request description:\n\n---\n")
	p.WriteString(pr.Description)
	p.WriteString("\n---\n\n")

	p.WriteString("Git diff to review:\n\n```diff\n")
	p.WriteString(hunk.Content)
	p.WriteString("\n```\n\n")

	p.WriteString("Changed lines with resolved line numbers:\n\n")
	p.WriteString(NumberedLines(hunk))

	return p.String()
}

// NumberedLines re-renders every hunk body line prefixed with its resolved
// anchor number (final-version number when present, else original-version).
func NumberedLines(hunk models.Hunk) string {
	var out strings.Builder
	for _, line := range hunk.Lines {
		fmt.Fprintf(&out, "%d %s\n", line.AnchorNumber(), line.Content)
	}
	return out.String()
}
