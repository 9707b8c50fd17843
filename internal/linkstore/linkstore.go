// Package linkstore publishes structured recommendation payloads to the
// companion website and returns the short link to append to replies.
package linkstore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/lueurxax/mention-bot/internal/platform/observability"
	"github.com/lueurxax/mention-bot/internal/plugin"
)

const (
	publishPath    = "/api/recommendations"
	requestTimeout = 10 * time.Second
)

type Client struct {
	httpClient *http.Client
	websiteURL string
	logger     *zerolog.Logger
}

func NewClient(websiteURL string, logger *zerolog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: requestTimeout},
		websiteURL: websiteURL,
		logger:     logger,
	}
}

type publishRequest struct {
	Destination string        `json:"destination"`
	Hotel       *hotelItem    `json:"hotel,omitempty"`
	Activity    *activityItem `json:"activity,omitempty"`
	SearchURL   string        `json:"searchUrl,omitempty"`
}

type hotelItem struct {
	Name   string  `json:"name"`
	Price  string  `json:"price,omitempty"`
	Rating float64 `json:"rating,omitempty"`
}

type activityItem struct {
	Title string `json:"title"`
	Price string `json:"price,omitempty"`
}

// Publish stores the payload and returns the website URL for it. Every
// failure falls back to the plugin's own action URL so the reply still
// carries a usable link.
func (c *Client) Publish(ctx context.Context, data *plugin.StorableData) string {
	if data == nil {
		return ""
	}

	if c.websiteURL == "" {
		return data.ActionURL
	}

	url, err := c.publish(ctx, data)
	if err != nil {
		observability.LinkStoreRequests.WithLabelValues("fallback").Inc()
		c.logger.Warn().Err(err).Msg("Link store publish failed, using action URL")

		return data.ActionURL
	}

	observability.LinkStoreRequests.WithLabelValues("ok").Inc()

	return url
}

func (c *Client) publish(ctx context.Context, data *plugin.StorableData) (string, error) {
	payload := publishRequest{
		Destination: data.Title,
		SearchURL:   data.ActionURL,
	}

	if data.PrimaryItem != nil {
		payload.Hotel = &hotelItem{
			Name:   data.PrimaryItem.Name,
			Price:  data.PrimaryItem.Price,
			Rating: data.PrimaryItem.Rating,
		}
	}

	if data.SecondaryItem != nil {
		payload.Activity = &activityItem{
			Title: data.SecondaryItem.Title,
			Price: data.SecondaryItem.Price,
		}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("encoding recommendation: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.websiteURL+publishPath, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}

	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return "", fmt.Errorf("request failed with status %d", resp.StatusCode)
	}

	var result struct {
		URL string `json:"url"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("decoding response: %w", err)
	}

	if result.URL == "" {
		return "", errors.New("response did not contain a url")
	}

	return result.URL, nil
}
