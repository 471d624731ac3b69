/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

// Package platform talks to the remote publishing platform: it lists the
// publish times already reserved there and commits newly assigned slots one
// at a time. The scheduler core never calls the platform directly.
package platform

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
)

// WireTimeLayout is the platform's timestamp format: RFC 3339 with a fixed
// millisecond suffix.
const WireTimeLayout = "2006-01-02T15:04:05.000Z"

// ScheduledUpload is one reservation as the platform reports it. PublishAt
// stays a string until normalization so a malformed entry can be dropped
// without failing the whole fetch.
type ScheduledUpload struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	PublishAt string `json:"publish_at"`
}

// Client is the boundary contract with the publishing platform.
type Client interface {
	// FetchScheduledUploads returns every upload that already has a publish
	// time reserved on the platform.
	FetchScheduledUploads(ctx context.Context) ([]ScheduledUpload, error)

	// ScheduleUpload commits one publish time for an already-uploaded item.
	ScheduleUpload(ctx context.Context, externalID string, publishAt time.Time) error
}

// HTTPClient implements Client over the platform's REST API.
type HTTPClient struct {
	http   *resty.Client
	logger zerolog.Logger
}

// NewHTTPClient builds a platform client for the given base URL. The token is
// sent as a bearer credential on every request.
func NewHTTPClient(baseURL, token string, logger zerolog.Logger) *HTTPClient {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(30 * time.Second).
		SetRetryCount(0) // commit retries are the caller's decision, not the transport's

	if token != "" {
		client.SetAuthToken(token)
	}

	return &HTTPClient{
		http:   client,
		logger: logger.With().Str("component", "platform_client").Logger(),
	}
}

// FetchScheduledUploads lists reservations currently held on the platform.
func (c *HTTPClient) FetchScheduledUploads(ctx context.Context) ([]ScheduledUpload, error) {
	var out struct {
		Uploads []ScheduledUpload `json:"uploads"`
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("status", "scheduled").
		SetResult(&out).
		Get("/api/v1/uploads")
	if err != nil {
		return nil, fmt.Errorf("fetch scheduled uploads: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("fetch scheduled uploads: platform returned %s", resp.Status())
	}

	c.logger.Debug().Int("count", len(out.Uploads)).Msg("fetched scheduled uploads")
	return out.Uploads, nil
}

// ScheduleUpload commits a publish time for one upload.
func (c *HTTPClient) ScheduleUpload(ctx context.Context, externalID string, publishAt time.Time) error {
	body := map[string]string{
		"publish_at": publishAt.UTC().Format(WireTimeLayout),
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(body).
		SetPathParam("id", externalID).
		Post("/api/v1/uploads/{id}/schedule")
	if err != nil {
		return fmt.Errorf("schedule upload %s: %w", externalID, err)
	}
	if resp.IsError() {
		return fmt.Errorf("schedule upload %s: platform returned %s", externalID, resp.Status())
	}

	c.logger.Info().
		Str("external_id", externalID).
		Time("publish_at", publishAt).
		Msg("committed publish slot")
	return nil
}
