// Package batch splits the accumulated comment collection into bounded
// review batches and submits them with staggered timing to stay under the
// hosting service's rate limits.
package batch

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/pullscout/pkg/models"
)

// Submitter performs one review-creation call for a single batch.
type Submitter interface {
	CreateReview(ctx context.Context, batch models.ReviewBatch) error
}

// Publisher partitions comments and drives the staggered submission of the
// resulting batches.
type Publisher struct {
	submitter Submitter
	size      int
	interval  time.Duration
}

// NewPublisher creates a publisher with a fixed batch size and a fixed
// inter-batch interval.
func NewPublisher(submitter Submitter, size int, interval time.Duration) *Publisher {
	if size <= 0 {
		size = 20
	}
	return &Publisher{submitter: submitter, size: size, interval: interval}
}

// Partition splits comments into contiguous groups of at most size,
// preserving order. Zero comments produce zero groups.
func Partition(comments []models.DraftComment, size int) [][]models.DraftComment {
	if len(comments) == 0 || size <= 0 {
		return nil
	}

	groups := make([][]models.DraftComment, 0, (len(comments)+size-1)/size)
	for start := 0; start < len(comments); start += size {
		end := start + size
		if end > len(comments) {
			end = len(comments)
		}
		groups = append(groups, comments[start:end])
	}
	return groups
}

// Publish submits every batch as a comment-only review. Submissions are
// paced one interval apart and run as a task set behind a join barrier:
// Publish returns only after every batch has completed, with per-batch
// failures logged and counted rather than aborting the rest.
func (p *Publisher) Publish(ctx context.Context, pr models.PullRequest, comments []models.DraftComment) error {
	groups := Partition(comments, p.size)
	if len(groups) == 0 {
		log.Info().Msg("No comments to publish")
		return nil
	}

	log.Info().
		Int("comments", len(comments)).
		Int("batches", len(groups)).
		Dur("interval", p.interval).
		Msg("Publishing review batches")

	every := rate.Inf
	if p.interval > 0 {
		every = rate.Every(p.interval)
	}
	limiter := rate.NewLimiter(every, 1)

	var wg sync.WaitGroup
	failures := make(chan int, len(groups))

	for i, group := range groups {
		if err := limiter.Wait(ctx); err != nil {
			// Cancelled mid-stagger; unsubmitted batches count as failed.
			for j := i; j < len(groups); j++ {
				failures <- j
			}
			log.Warn().Err(err).Int("batch", i).Msg("Publication cancelled before batch dispatch")
			break
		}

		wg.Add(1)
		go func(index int, b models.ReviewBatch) {
			defer wg.Done()
			if err := p.submitter.CreateReview(ctx, b); err != nil {
				log.Error().
					Err(err).
					Int("batch", index).
					Int("comments", len(b.Comments)).
					Msg("Batch submission failed")
				failures <- index
				return
			}
			log.Debug().Int("batch", index).Int("comments", len(b.Comments)).Msg("Batch submitted")
		}(i, models.ReviewBatch{
			PullRequest: pr,
			Comments:    group,
			Event:       models.ReviewEventComment,
		})
	}

	wg.Wait()
	close(failures)

	failed := 0
	for range failures {
		failed++
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d review batches failed", failed, len(groups))
	}
	return nil
}
