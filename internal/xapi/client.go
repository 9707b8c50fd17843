// Package xapi is the X API v2 HTTP client: bearer-token reads (lookups,
// search, stream rules) and OAuth 1.0a signed writes (posting replies).
package xapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/lueurxax/mention-bot/internal/core/domain"
)

const (
	requestTimeout = 30 * time.Second

	tweetFields = "author_id,conversation_id,created_at,in_reply_to_user_id,referenced_tweets,attachments"
	expansions  = "author_id,referenced_tweets.id,in_reply_to_user_id,attachments.media_keys"
	userFields  = "name,username"
	mediaFields = "type,url,preview_image_url,width,height,alt_text"
)

type Client struct {
	httpClient  *http.Client
	baseURL     string
	bearerToken string
	signer      *OAuth1Signer
	logger      *zerolog.Logger
}

func NewClient(baseURL, bearerToken string, signer *OAuth1Signer, logger *zerolog.Logger) *Client {
	return &Client{
		httpClient:  &http.Client{Timeout: requestTimeout},
		baseURL:     baseURL,
		bearerToken: bearerToken,
		signer:      signer,
		logger:      logger,
	}
}

// TweetResponse is the envelope of single-tweet lookups.
type TweetResponse struct {
	Data     domain.Tweet      `json:"data"`
	Includes *domain.Includes  `json:"includes,omitempty"`
	Errors   []domain.APIError `json:"errors,omitempty"`
}

// SearchResponse is the envelope of recent-search requests.
type SearchResponse struct {
	Data     []domain.Tweet   `json:"data"`
	Includes *domain.Includes `json:"includes,omitempty"`
	Meta     *SearchMeta      `json:"meta,omitempty"`
}

type SearchMeta struct {
	ResultCount int    `json:"result_count"`
	NextToken   string `json:"next_token,omitempty"`
}

// PostTweetResponse is the envelope of tweet creation.
type PostTweetResponse struct {
	Data struct {
		ID   string `json:"id"`
		Text string `json:"text"`
	} `json:"data"`
}

// GetTweet fetches one tweet with author, referenced tweets, and media
// expansions.
func (c *Client) GetTweet(ctx context.Context, id string) (*TweetResponse, error) {
	params := url.Values{}
	params.Set("tweet.fields", tweetFields)
	params.Set("expansions", expansions)
	params.Set("user.fields", userFields)
	params.Set("media.fields", mediaFields)

	var resp TweetResponse
	if err := c.bearerRequest(ctx, http.MethodGet, "/tweets/"+id+"?"+params.Encode(), nil, &resp); err != nil {
		return nil, fmt.Errorf("fetching tweet %s: %w", id, err)
	}

	return &resp, nil
}

// SearchRecent runs a recent-search query with the same expansions as tweet
// lookups.
func (c *Client) SearchRecent(ctx context.Context, query string, maxResults int) (*SearchResponse, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("max_results", strconv.Itoa(maxResults))
	params.Set("tweet.fields", tweetFields)
	params.Set("expansions", expansions)
	params.Set("user.fields", userFields)
	params.Set("media.fields", mediaFields)

	var resp SearchResponse
	if err := c.bearerRequest(ctx, http.MethodGet, "/tweets/search/recent?"+params.Encode(), nil, &resp); err != nil {
		return nil, fmt.Errorf("searching tweets: %w", err)
	}

	return &resp, nil
}

// GetUserByUsername resolves a handle to a user object.
func (c *Client) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	var resp struct {
		Data domain.User `json:"data"`
	}

	if err := c.bearerRequest(ctx, http.MethodGet, "/users/by/username/"+username, nil, &resp); err != nil {
		return nil, fmt.Errorf("fetching user %s: %w", username, err)
	}

	if resp.Data.ID == "" {
		return nil, fmt.Errorf("user %s not found", username)
	}

	return &resp.Data, nil
}

// GetStreamRules lists the current filtered-stream rules.
func (c *Client) GetStreamRules(ctx context.Context) (*domain.RulesResponse, error) {
	var resp domain.RulesResponse
	if err := c.bearerRequest(ctx, http.MethodGet, "/tweets/search/stream/rules", nil, &resp); err != nil {
		return nil, fmt.Errorf("fetching stream rules: %w", err)
	}

	return &resp, nil
}

// AddStreamRules installs new filtered-stream rules.
func (c *Client) AddStreamRules(ctx context.Context, rules []domain.StreamRule) (*domain.RulesResponse, error) {
	body := map[string]any{"add": rules}

	var resp domain.RulesResponse
	if err := c.bearerRequest(ctx, http.MethodPost, "/tweets/search/stream/rules", body, &resp); err != nil {
		return nil, fmt.Errorf("adding stream rules: %w", err)
	}

	return &resp, nil
}

// DeleteStreamRules removes the rules with the given ids.
func (c *Client) DeleteStreamRules(ctx context.Context, ids []string) (*domain.RulesResponse, error) {
	body := map[string]any{"delete": map[string]any{"ids": ids}}

	var resp domain.RulesResponse
	if err := c.bearerRequest(ctx, http.MethodPost, "/tweets/search/stream/rules", body, &resp); err != nil {
		return nil, fmt.Errorf("deleting stream rules: %w", err)
	}

	return &resp, nil
}

// PostTweet publishes a reply. Nullcast posts keep the reply out of public
// timelines while still reaching the conversation.
func (c *Client) PostTweet(ctx context.Context, text, replyToID string, nullcast bool) (*PostTweetResponse, error) {
	body := map[string]any{"text": text}

	if replyToID != "" {
		body["reply"] = map[string]string{"in_reply_to_tweet_id": replyToID}
	}

	if nullcast {
		body["nullcast"] = true
	}

	var resp PostTweetResponse
	if err := c.oauth1Request(ctx, http.MethodPost, "/tweets", body, &resp); err != nil {
		return nil, fmt.Errorf("posting tweet: %w", err)
	}

	return &resp, nil
}

func (c *Client) bearerRequest(ctx context.Context, method, path string, body, out any) error {
	req, err := c.newRequest(ctx, method, path, body)
	if err != nil {
		return err
	}

	req.Header.Set("Authorization", "Bearer "+c.bearerToken)

	return c.do(req, out)
}

func (c *Client) oauth1Request(ctx context.Context, method, path string, body, out any) error {
	req, err := c.newRequest(ctx, method, path, body)
	if err != nil {
		return err
	}

	header, err := c.signer.AuthorizationHeader(method, c.baseURL+path)
	if err != nil {
		return fmt.Errorf("signing request: %w", err)
	}

	req.Header.Set("Authorization", header)

	return c.do(req, out)
}

func (c *Client) newRequest(ctx context.Context, method, path string, body any) (*http.Request, error) {
	var reader io.Reader

	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encoding request body: %w", err)
		}

		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return req, nil
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}

	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response body: %w", err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		c.logger.Debug().
			Int("status", resp.StatusCode).
			Str("path", req.URL.Path).
			Str("body", string(data)).
			Msg("X API request failed")

		return fmt.Errorf("request failed with status %d: %s", resp.StatusCode, string(data))
	}

	if out == nil {
		return nil
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}

	return nil
}
