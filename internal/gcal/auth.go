package gcal

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

// NewServiceAccountService builds a calendar client authenticated with a
// service-account key file.
func NewServiceAccountService(ctx context.Context, credentialsFile string) (*calendar.Service, error) {
	svc, err := calendar.NewService(ctx,
		option.WithCredentialsFile(credentialsFile),
		option.WithScopes(calendar.CalendarScope),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create calendar service: %w", err)
	}
	return svc, nil
}

// NewOAuthService builds a calendar client from an OAuth client secret file
// and a previously cached user token. Obtaining the initial token (the consent
// flow) is out of scope; the store must already hold one.
func NewOAuthService(ctx context.Context, credentialsFile string, store TokenStore) (*calendar.Service, error) {
	b, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read client secret file: %w", err)
	}

	cfg, err := google.ConfigFromJSON(b, calendar.CalendarEventsScope, calendar.CalendarReadonlyScope)
	if err != nil {
		return nil, fmt.Errorf("failed to parse client secret file: %w", err)
	}

	tok, err := store.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load cached token: %w", err)
	}

	// Persist refreshed tokens so the next process start does not need a new
	// consent flow.
	src := &persistingTokenSource{
		src:   cfg.TokenSource(ctx, tok),
		store: store,
		last:  tok,
	}

	svc, err := calendar.NewService(ctx, option.WithTokenSource(src))
	if err != nil {
		return nil, fmt.Errorf("failed to create calendar service: %w", err)
	}
	return svc, nil
}
