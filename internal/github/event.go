package github

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/pullscout/pkg/models"
)

// Supported pull request event actions.
const (
	ActionOpened      = "opened"
	ActionSynchronize = "synchronize"
)

// Event is the subset of the Actions pull_request event payload the run
// needs: coordinates, the triggering action, and the commit range for
// synchronize events.
type Event struct {
	Action string `json:"action"`
	Before string `json:"before"`
	After  string `json:"after"`

	PullRequest struct {
		Number int    `json:"number"`
		Title  string `json:"title"`
		Body   string `json:"body"`
	} `json:"pull_request"`

	Repository struct {
		FullName string `json:"full_name"`
		Name     string `json:"name"`
		Owner    struct {
			Login string `json:"login"`
		} `json:"owner"`
	} `json:"repository"`
}

// ParseEventFile reads and decodes the event payload written by the runner
// (GITHUB_EVENT_PATH). An unreadable or undecodable payload is fatal.
func ParseEventFile(path string) (*Event, error) {
	if path == "" {
		return nil, fmt.Errorf("event payload path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read event payload: %w", err)
	}

	var event Event
	if err := json.Unmarshal(data, &event); err != nil {
		return nil, fmt.Errorf("failed to decode event payload: %w", err)
	}

	return &event, nil
}

// Supported reports whether the event action triggers a review.
func (e *Event) Supported() bool {
	return e.Action == ActionOpened || e.Action == ActionSynchronize
}

// Coordinates extracts the pull request identity from the payload. The
// title and description are taken from the payload and refreshed from the
// API during metadata retrieval.
func (e *Event) Coordinates() (models.PullRequest, error) {
	owner := e.Repository.Owner.Login
	repo := e.Repository.Name
	if owner == "" || repo == "" {
		parts := strings.SplitN(e.Repository.FullName, "/", 2)
		if len(parts) != 2 {
			return models.PullRequest{}, fmt.Errorf("event payload has no usable repository identity")
		}
		owner, repo = parts[0], parts[1]
	}
	if e.PullRequest.Number == 0 {
		return models.PullRequest{}, fmt.Errorf("event payload has no pull request number")
	}

	return models.PullRequest{
		Owner:       owner,
		Repo:        repo,
		Number:      e.PullRequest.Number,
		Title:       e.PullRequest.Title,
		Description: e.PullRequest.Body,
	}, nil
}
