package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileIssue(t *testing.T) {
	var gotPath, gotAuth string
	var gotBody issueRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	tracker := NewGitHubTracker(srv.Client(), "oxrse", "surgery-bookings", "tok123")
	tracker.baseURL = srv.URL

	err := tracker.FileIssue(context.Background(), "Surgery booking: Ada", "Help with packaging")
	require.NoError(t, err)

	assert.Equal(t, "/repos/oxrse/surgery-bookings/issues", gotPath)
	assert.Equal(t, "Bearer tok123", gotAuth)
	assert.Equal(t, "Surgery booking: Ada", gotBody.Title)
	assert.Equal(t, "Help with packaging", gotBody.Body)
	assert.NotNil(t, gotBody.Assignees)
}

func TestFileIssueNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"Bad credentials"}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	tracker := NewGitHubTracker(srv.Client(), "oxrse", "surgery-bookings", "bad")
	tracker.baseURL = srv.URL

	err := tracker.FileIssue(context.Background(), "t", "b")
	assert.ErrorContains(t, err, "issue tracker unavailable")
}

func TestFileIssueTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	tracker := NewGitHubTracker(nil, "oxrse", "surgery-bookings", "tok")
	tracker.baseURL = srv.URL

	err := tracker.FileIssue(context.Background(), "t", "b")
	assert.ErrorIs(t, err, ErrTrackerUnavailable)
}

func TestNoopTracker(t *testing.T) {
	assert.NoError(t, NoopTracker{}.FileIssue(context.Background(), "t", "b"))
}
