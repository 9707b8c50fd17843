// Package grok runs conversation threads through the Grok chat completion API
// with plugin tool calling and turns the final message into a bot response.
package grok

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/sashabaranov/go-openai"
	"golang.org/x/time/rate"

	"github.com/lueurxax/mention-bot/internal/core/domain"
	"github.com/lueurxax/mention-bot/internal/platform/observability"
	"github.com/lueurxax/mention-bot/internal/plugin"
)

// ErrCircuitBreakerOpen indicates the circuit breaker is open.
var ErrCircuitBreakerOpen = errors.New("circuit breaker is open")

// ErrAPIKeyMissing indicates the Grok API key was not configured.
var ErrAPIKeyMissing = errors.New("grok api key is not configured")

const (
	circuitBreakerThreshold = 5
	circuitBreakerTimeout   = 1 * time.Minute
	rateLimiterBurst        = 5

	maxToolIterations = 5
	maxImages         = 4
	temperature       = 0.7

	userPromptTemplate = "Here's the conversation thread:\n\n%s\n\nPlease respond appropriately. Use the available tools if needed."
	imageNote          = "\n\nThe user has shared image(s) - please analyze them to understand their request better."

	errRateLimiter = "rate limiter wait failed: %w"
)

type registry interface {
	SystemPrompt() (string, error)
	Tools() ([]plugin.Tool, error)
	ExecuteTool(ctx context.Context, call plugin.ToolCall) plugin.ToolResult
	FormatResponse(message string, results []plugin.ToolResult) plugin.Response
}

type Client struct {
	client      *openai.Client
	model       string
	registry    registry
	logger      *zerolog.Logger
	rateLimiter *rate.Limiter

	// Circuit breaker state
	consecutiveFailures int
	circuitOpenUntil    time.Time
	mu                  sync.Mutex
}

func NewClient(apiKey, baseURL, model string, rps int, reg registry, logger *zerolog.Logger) (*Client, error) {
	if apiKey == "" {
		return nil, ErrAPIKeyMissing
	}

	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = baseURL

	return &Client{
		client:      openai.NewClientWithConfig(cfg),
		model:       model,
		registry:    reg,
		logger:      logger,
		rateLimiter: rate.NewLimiter(rate.Limit(float64(rps)), rateLimiterBurst),
	}, nil
}

func (c *Client) checkCircuit() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if time.Now().Before(c.circuitOpenUntil) {
		return fmt.Errorf("%w until %v", ErrCircuitBreakerOpen, c.circuitOpenUntil)
	}

	return nil
}

func (c *Client) recordSuccess() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.consecutiveFailures = 0
}

func (c *Client) recordFailure() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.consecutiveFailures++
	if c.consecutiveFailures >= circuitBreakerThreshold {
		c.circuitOpenUntil = time.Now().Add(circuitBreakerTimeout)
		c.logger.Warn().
			Int("consecutive_failures", c.consecutiveFailures).
			Time("open_until", c.circuitOpenUntil).
			Msg("Circuit breaker opened")
	}
}

// ProcessThread sends the rendered thread to the model, resolves tool calls
// against the active plugin, and returns the formatted response.
func (c *Client) ProcessThread(ctx context.Context, thread *domain.ConversationThread) (plugin.Response, error) {
	systemPrompt, err := c.registry.SystemPrompt()
	if err != nil {
		return plugin.Response{}, err
	}

	tools, err := c.registry.Tools()
	if err != nil {
		return plugin.Response{}, err
	}

	messages := []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
		c.userMessage(thread),
	}

	request := openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: temperature,
	}

	if len(tools) > 0 {
		request.Tools = convertTools(tools)
		request.ToolChoice = "auto"
	}

	choice, err := c.complete(ctx, &request)
	if err != nil {
		return plugin.Response{}, err
	}

	var results []plugin.ToolResult

	iterations := 0

	for choice.FinishReason == openai.FinishReasonToolCalls && iterations < maxToolIterations {
		request.Messages = append(request.Messages, choice.Message)

		for _, call := range choice.Message.ToolCalls {
			var args map[string]any
			if err := json.Unmarshal([]byte(call.Function.Arguments), &args); err != nil {
				return plugin.Response{}, fmt.Errorf("decoding tool arguments for %s: %w", call.Function.Name, err)
			}

			result := c.registry.ExecuteTool(ctx, plugin.ToolCall{
				Name:      call.Function.Name,
				Arguments: args,
			})

			results = append(results, result)

			payload, err := json.Marshal(result)
			if err != nil {
				return plugin.Response{}, fmt.Errorf("encoding tool result for %s: %w", call.Function.Name, err)
			}

			request.Messages = append(request.Messages, openai.ChatCompletionMessage{
				Role:       openai.ChatMessageRoleTool,
				Content:    string(payload),
				ToolCallID: call.ID,
			})
		}

		iterations++

		choice, err = c.complete(ctx, &request)
		if err != nil {
			return plugin.Response{}, err
		}
	}

	observability.LLMToolIterations.Observe(float64(iterations))

	return c.registry.FormatResponse(sanitize(choice.Message.Content), results), nil
}

func (c *Client) complete(ctx context.Context, request *openai.ChatCompletionRequest) (*openai.ChatCompletionChoice, error) {
	if err := c.checkCircuit(); err != nil {
		return nil, err
	}

	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf(errRateLimiter, err)
	}

	start := time.Now()

	resp, err := c.client.CreateChatCompletion(ctx, *request)

	observability.LLMRequestDuration.WithLabelValues(c.model).Observe(time.Since(start).Seconds())

	if err != nil {
		c.recordFailure()

		return nil, fmt.Errorf("chat completion failed: %w", err)
	}

	c.recordSuccess()

	if len(resp.Choices) == 0 {
		return nil, errors.New("chat completion returned no choices")
	}

	return &resp.Choices[0], nil
}

func (c *Client) userMessage(thread *domain.ConversationThread) openai.ChatCompletionMessage {
	text := fmt.Sprintf(userPromptTemplate, renderThread(thread))

	images := thread.ImageURLs()
	if len(images) > maxImages {
		images = images[:maxImages]
	}

	if len(images) == 0 {
		return openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: text}
	}

	parts := []openai.ChatMessagePart{
		{Type: openai.ChatMessagePartTypeText, Text: text + imageNote},
	}

	for _, url := range images {
		parts = append(parts, openai.ChatMessagePart{
			Type: openai.ChatMessagePartTypeImageURL,
			ImageURL: &openai.ChatMessageImageURL{
				URL:    url,
				Detail: openai.ImageURLDetailAuto,
			},
		})
	}

	return openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, MultiContent: parts}
}

func renderThread(thread *domain.ConversationThread) string {
	lines := make([]string, 0, len(thread.Tweets))

	for _, tweet := range thread.Tweets {
		username := "user"
		if p := thread.ParticipantByID(tweet.AuthorID); p != nil && p.Username != "" {
			username = p.Username
		}

		lines = append(lines, "@"+username+": "+tweet.Text)
	}

	return strings.Join(lines, "\n")
}

func convertTools(tools []plugin.Tool) []openai.Tool {
	converted := make([]openai.Tool, 0, len(tools))

	for _, t := range tools {
		converted = append(converted, openai.Tool{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        t.Name,
				Description: t.Description,
				Parameters:  t.Parameters,
			},
		})
	}

	return converted
}
