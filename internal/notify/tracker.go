package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/oxrse/surgery-booking-backend/internal/pkg/apperror"
)

var ErrTrackerUnavailable = apperror.New(http.StatusBadGateway, apperror.KindUnavailable, "issue tracker unavailable")

const defaultGitHubBaseURL = "https://api.github.com"

// Tracker files a record of a booking so the team can triage it.
type Tracker interface {
	FileIssue(ctx context.Context, title, body string) error
}

// GitHubTracker files bookings as issues in a GitHub repository.
type GitHubTracker struct {
	httpClient *http.Client
	baseURL    string
	owner      string
	repo       string
	token      string
}

func NewGitHubTracker(httpClient *http.Client, owner, repo, token string) *GitHubTracker {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &GitHubTracker{
		httpClient: httpClient,
		baseURL:    defaultGitHubBaseURL,
		owner:      owner,
		repo:       repo,
		token:      token,
	}
}

type issueRequest struct {
	Title     string   `json:"title"`
	Body      string   `json:"body"`
	Assignees []string `json:"assignees"`
}

func (t *GitHubTracker) FileIssue(ctx context.Context, title, body string) error {
	payload, err := json.Marshal(issueRequest{Title: title, Body: body, Assignees: []string{}})
	if err != nil {
		return fmt.Errorf("failed to encode issue: %w", err)
	}

	url := fmt.Sprintf("%s/repos/%s/%s/issues", t.baseURL, t.owner, t.repo)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+t.token)

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return ErrTrackerUnavailable
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		respBody, _ := io.ReadAll(resp.Body)
		return apperror.Wrap(
			fmt.Errorf("issue creation rejected with status %d: %s", resp.StatusCode, string(respBody)),
			http.StatusBadGateway, apperror.KindUnavailable, "issue tracker unavailable",
		)
	}
	return nil
}

// NoopTracker is used when no tracker repository is configured.
type NoopTracker struct{}

func (NoopTracker) FileIssue(ctx context.Context, title, body string) error {
	return nil
}
