// Package stream maintains the long-lived filtered-stream connection and
// dispatches decoded tweet payloads to registered handlers, reconnecting with
// exponential backoff when the connection drops.
package stream

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"math/rand"
	"net/http"
	"net/url"
	"strings"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/lueurxax/mention-bot/internal/core/domain"
	"github.com/lueurxax/mention-bot/internal/platform/observability"
)

const (
	tweetFields = "author_id,conversation_id,created_at,in_reply_to_user_id,referenced_tweets,attachments"
	expansions  = "author_id,referenced_tweets.id,in_reply_to_user_id,attachments.media_keys"
	userFields  = "name,username"
	mediaFields = "type,url,preview_image_url,width,height,alt_text"

	provisioningDelay = time.Minute
	jitterMax         = time.Second

	scannerBufSize = 1 << 20
)

// ErrMaxRetriesExceeded is returned when the reconnect budget is exhausted.
var ErrMaxRetriesExceeded = errors.New("stream reconnect retries exhausted")

// Handler consumes one stream payload. Handler errors are logged and never
// tear down the connection.
type Handler func(ctx context.Context, event *domain.StreamEvent) error

type Config struct {
	BaseURL     string
	BearerToken string
	MaxRetries  int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
}

type Client struct {
	cfg        Config
	httpClient *http.Client
	handlers   []Handler
	started    atomic.Bool
	running    atomic.Bool
	logger     *zerolog.Logger
	jitter     func() time.Duration
}

func NewClient(cfg Config, logger *zerolog.Logger) *Client {
	return &Client{
		cfg: cfg,
		// no client timeout: the stream connection is expected to stay open
		httpClient: &http.Client{},
		logger:     logger,
		jitter: func() time.Duration {
			return time.Duration(rand.Float64() * float64(jitterMax)) //nolint:gosec // jitter does not need crypto randomness
		},
	}
}

// OnEvent registers a handler. Handlers run sequentially in registration
// order for every payload.
func (c *Client) OnEvent(h Handler) {
	c.handlers = append(c.handlers, h)
}

// Ready reports whether the stream connection is currently up.
func (c *Client) Ready() bool {
	return c.running.Load()
}

// Connect opens the stream and blocks, reconnecting on failures, until the
// context is cancelled or the retry budget is exhausted. A second call while
// a loop is already running is a no-op.
func (c *Client) Connect(ctx context.Context) error {
	if !c.started.CompareAndSwap(false, true) {
		c.logger.Warn().Msg("Stream already connected, ignoring")

		return nil
	}

	defer c.started.Store(false)

	retryCount := 0

	for {
		connected, err := c.consume(ctx)

		c.running.Store(false)

		if ctx.Err() != nil {
			return ctx.Err()
		}

		// a session that actually connected earns a fresh retry budget
		if connected {
			retryCount = 0
		}

		retryCount++
		if retryCount > c.cfg.MaxRetries {
			return fmt.Errorf("%w after %d attempts: %v", ErrMaxRetriesExceeded, retryCount-1, err)
		}

		delay, reason := c.reconnectDelay(retryCount, err)
		observability.StreamReconnects.WithLabelValues(reason).Inc()

		c.logger.Warn().
			Err(err).
			Int("attempt", retryCount).
			Dur("delay", delay).
			Msg("Stream disconnected, reconnecting")

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}
}

func (c *Client) consume(ctx context.Context) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.streamURL(), nil)
	if err != nil {
		return false, fmt.Errorf("creating stream request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.cfg.BearerToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false, fmt.Errorf("connecting to stream: %w", err)
	}

	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

		return false, fmt.Errorf("stream connection failed with status %d: %s", resp.StatusCode, string(body))
	}

	c.running.Store(true)

	c.logger.Info().Msg("Connected to filtered stream")

	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, scannerBufSize), scannerBufSize)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			// keep-alive heartbeat
			continue
		}

		var event domain.StreamEvent
		if err := json.Unmarshal([]byte(line), &event); err != nil {
			observability.StreamEventsDropped.WithLabelValues("parse_error").Inc()
			c.logger.Warn().Err(err).Msg("Skipping malformed stream payload")

			continue
		}

		if event.Data.ID == "" {
			observability.StreamEventsDropped.WithLabelValues("no_data").Inc()
			continue
		}

		c.dispatch(ctx, &event)
	}

	if err := scanner.Err(); err != nil {
		return true, fmt.Errorf("reading stream: %w", err)
	}

	return true, errors.New("stream closed by server")
}

func (c *Client) dispatch(ctx context.Context, event *domain.StreamEvent) {
	for _, h := range c.handlers {
		if err := h(ctx, event); err != nil {
			c.logger.Error().Err(err).Str("tweet_id", event.Data.ID).Msg("Stream handler failed")
		}
	}
}

// reconnectDelay classifies the disconnect and picks the wait before the next
// attempt. Provisioning errors mean the subscription is still being set up
// server-side and get a fixed long wait.
func (c *Client) reconnectDelay(retryCount int, err error) (time.Duration, string) {
	if err != nil && strings.Contains(strings.ToLower(err.Error()), "provision") {
		return provisioningDelay, "provisioning"
	}

	backoff := float64(c.cfg.BaseDelay) * math.Pow(2, float64(retryCount-1))
	delay := time.Duration(backoff) + c.jitter()

	if delay > c.cfg.MaxDelay {
		delay = c.cfg.MaxDelay
	}

	return delay, "backoff"
}

func (c *Client) streamURL() string {
	params := url.Values{}
	params.Set("tweet.fields", tweetFields)
	params.Set("expansions", expansions)
	params.Set("user.fields", userFields)
	params.Set("media.fields", mediaFields)

	return c.cfg.BaseURL + "/tweets/search/stream?" + params.Encode()
}
