package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/desertthunder/daysync/internal/shared"
	"github.com/go-resty/resty/v2"
)

const (
	embedHost    = "https://open.spotify.com"
	embedTimeout = 10 * time.Second
	embedAgent   = "Mozilla/5.0 (compatible; daysync)"
)

// EmbedClient fetches the public embed page of a playlist.
type EmbedClient struct {
	client *resty.Client
}

// NewEmbedClient creates an embed client for host. An empty host uses open.spotify.com.
func NewEmbedClient(host string) *EmbedClient {
	if host == "" {
		host = embedHost
	}

	client := resty.New().
		SetBaseURL(strings.TrimRight(host, "/")).
		SetTimeout(embedTimeout).
		SetHeader("User-Agent", embedAgent).
		SetHeader("Accept", "text/html")

	return &EmbedClient{client: client}
}

// FetchEmbed returns the raw HTML body of the embed page for embedID.
func (c *EmbedClient) FetchEmbed(ctx context.Context, embedID string) ([]byte, error) {
	if strings.TrimSpace(embedID) == "" {
		return nil, fmt.Errorf("%w: embed id is required", shared.ErrMissingArgument)
	}

	resp, err := c.client.R().
		SetContext(ctx).
		SetPathParam("id", embedID).
		Get("/embed/playlist/{id}")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrTransport, err)
	}

	if !resp.IsSuccess() {
		return nil, &shared.HTTPError{
			Method:     resp.Request.Method,
			URL:        "/embed/playlist/" + embedID,
			StatusCode: resp.StatusCode(),
			Body:       shared.Truncate(strings.TrimSpace(resp.String()), 256),
		}
	}

	return resp.Body(), nil
}
