package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	"github.com/pullscout/internal/batch"
	"github.com/pullscout/internal/config"
	"github.com/pullscout/internal/diff"
	"github.com/pullscout/internal/github"
	"github.com/pullscout/internal/llm"
	"github.com/pullscout/internal/logging"
	"github.com/pullscout/internal/review"
)

// RunCommand returns the run command, the Actions entrypoint: it reads the
// triggering event payload and drives one full review pass.
func RunCommand() *cli.Command {
	return &cli.Command{
		Name:  "run",
		Usage: "Review the pull request described by an Actions event payload",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "event",
				Aliases: []string{"e"},
				Usage:   "Path to the event payload `FILE`",
				EnvVars: []string{"GITHUB_EVENT_PATH"},
			},
			&cli.BoolFlag{
				Name:    "dry-run",
				Aliases: []string{"d"},
				Usage:   "Analyze without posting comments",
			},
			&cli.DurationFlag{
				Name:  "timeout",
				Usage: "Overall run timeout",
				Value: 15 * time.Minute,
			},
		},
		Action: runReview,
	}
}

func runReview(c *cli.Context) error {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logging.Setup(cfg.Log.Level)

	event, err := github.ParseEventFile(c.String("event"))
	if err != nil {
		return err
	}

	if !event.Supported() {
		// Not an error: other actions simply do not trigger a review.
		log.Info().Str("action", event.Action).Msg("Unsupported event action, nothing to do")
		return nil
	}

	pr, err := event.Coordinates()
	if err != nil {
		return err
	}
	log.Info().
		Str("repo", pr.FullName()).
		Int("number", pr.Number).
		Str("action", event.Action).
		Msg("Starting review run")

	ctx, cancel := context.WithTimeout(c.Context, c.Duration("timeout"))
	defer cancel()

	client := github.NewClient(cfg.GitHub.Token)

	pr, err = client.PullRequestDetails(ctx, pr)
	if err != nil {
		return err
	}

	var diffText string
	switch event.Action {
	case github.ActionOpened:
		diffText, err = client.PullRequestDiff(ctx, pr)
	case github.ActionSynchronize:
		diffText, err = client.CompareDiff(ctx, pr, event.Before, event.After)
	}
	if err != nil {
		return err
	}

	files, err := diff.NewParser().Parse(diffText)
	if err != nil {
		return fmt.Errorf("failed to parse diff: %w", err)
	}
	if len(files) == 0 {
		log.Info().Msg("Empty diff, nothing to review")
		return nil
	}

	model, err := llm.NewClient(ctx, llm.Options{
		Provider:    llm.Provider(cfg.AI.Provider),
		APIKey:      cfg.AI.APIKey,
		BaseURL:     cfg.AI.BaseURL,
		Model:       cfg.AI.Model,
		MaxTokens:   cfg.AI.MaxTokens,
		Temperature: cfg.AI.Temperature,
	})
	if err != nil {
		return err
	}

	service := review.NewService(model, cfg.Review.Exclude)
	comments := service.Analyze(ctx, pr, files)
	log.Info().Int("comments", len(comments)).Msg("Analysis complete")

	if c.Bool("dry-run") {
		for _, comment := range comments {
			log.Info().Str("path", comment.Path).Int("line", comment.Line).Msg(comment.Body)
		}
		return nil
	}

	publisher := batch.NewPublisher(client, cfg.Review.BatchSize, cfg.Review.BatchInterval)
	return publisher.Publish(ctx, pr, comments)
}
