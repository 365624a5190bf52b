// Package review drives the per-hunk analysis pipeline: prompt building,
// model invocation, and mapping of suggestions into publishable comments.
package review

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/pullscout/internal/prompts"
	"github.com/pullscout/pkg/models"
)

// ModelReviewer obtains suggestions for a single hunk's prompt. The bool
// is false when the hunk produced no usable result; implementations must
// never let transport or parse failures escape.
type ModelReviewer interface {
	Review(ctx context.Context, prompt string) ([]models.Suggestion, bool)
}

// Service orchestrates analysis across every file and hunk of a change.
type Service struct {
	reviewer ModelReviewer
	builder  *prompts.Builder
	exclude  []string
}

// NewService creates the analysis orchestrator. exclude is the configured
// list of path glob patterns filtered out of analysis.
func NewService(reviewer ModelReviewer, exclude []string) *Service {
	return &Service{
		reviewer: reviewer,
		builder:  prompts.NewBuilder(),
		exclude:  exclude,
	}
}

// Analyze iterates retained files in parser order and hunks within each
// file, accumulating comments into one ordered collection. A hunk with no
// result contributes zero comments and never stops iteration.
func (s *Service) Analyze(ctx context.Context, pr models.PullRequest, files []*models.FileDiff) []models.DraftComment {
	var comments []models.DraftComment

	for _, file := range files {
		if !file.HasTargetPath() {
			log.Debug().Str("from", file.FromPath).Msg("Skipping file with no target path")
			continue
		}
		if Skippable(file.ToPath) {
			log.Debug().Str("path", file.ToPath).Msg("Skipping non-reviewable file type")
			continue
		}
		if Excluded(file.ToPath, s.exclude) {
			log.Debug().Str("path", file.ToPath).Msg("Skipping excluded file")
			continue
		}

		for i, hunk := range file.Hunks {
			prompt := s.builder.Build(pr, file, hunk)

			suggestions, ok := s.reviewer.Review(ctx, prompt)
			if !ok {
				log.Warn().
					Str("path", file.ToPath).
					Int("hunk", i).
					Msg("No result for hunk, continuing")
				continue
			}

			kept := filterToHunk(file.ToPath, hunk, suggestions)
			comments = append(comments, MapComments(file, kept)...)
		}
	}

	return comments
}

// filterToHunk drops suggestions whose line is not an anchorable line of
// the originating hunk. The hosting service rejects out-of-range anchors,
// so they are removed before publication rather than at submission time.
func filterToHunk(path string, hunk models.Hunk, suggestions []models.Suggestion) []models.Suggestion {
	anchors := make(map[int]bool, len(hunk.Lines))
	for _, line := range hunk.Lines {
		if n := line.AnchorNumber(); n > 0 {
			anchors[n] = true
		}
	}

	kept := suggestions[:0:0]
	for _, suggestion := range suggestions {
		if !anchors[suggestion.LineNumber] {
			log.Warn().
				Str("path", path).
				Int("line", suggestion.LineNumber).
				Msg("Dropping suggestion outside hunk line range")
			continue
		}
		kept = append(kept, suggestion)
	}
	return kept
}
