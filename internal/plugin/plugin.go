// Package plugin defines the contract between the bot framework and its
// domain plugins, plus the registry that activates and drives them.
package plugin

import (
	"context"

	"github.com/sashabaranov/go-openai/jsonschema"
)

// Config is passed to a plugin at activation time.
type Config struct {
	BotUsername string
	WebsiteURL  string
	SandboxMode bool
}

// Tool describes one function the plugin exposes to the model.
type Tool struct {
	Name        string
	Description string
	Parameters  jsonschema.Definition
}

// ToolCall is a single function invocation requested by the model, with
// arguments already decoded from JSON.
type ToolCall struct {
	Name      string
	Arguments map[string]any
}

// ToolResult is the outcome of one tool execution. Data is marshaled back to
// the model verbatim.
type ToolResult struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// PrimaryItem is the headline entry of a stored recommendation.
type PrimaryItem struct {
	Name   string  `json:"name"`
	Price  string  `json:"price,omitempty"`
	Rating float64 `json:"rating,omitempty"`
}

// SecondaryItem is the supporting entry of a stored recommendation.
type SecondaryItem struct {
	Title string `json:"title"`
	Price string `json:"price,omitempty"`
}

// StorableData is the plugin-agnostic payload published to the website when a
// reply carries structured results.
type StorableData struct {
	Title         string         `json:"title"`
	Subtitle      string         `json:"subtitle,omitempty"`
	PrimaryItem   *PrimaryItem   `json:"primaryItem,omitempty"`
	SecondaryItem *SecondaryItem `json:"secondaryItem,omitempty"`
	ActionURL     string         `json:"actionUrl,omitempty"`
	Metadata      map[string]any `json:"metadata,omitempty"`
}

// Response is what the framework hands to the reply composer after a mention
// has been through the model.
type Response struct {
	Message   string
	HasData   bool
	Data      *StorableData
	DirectURL string
}

// Plugin is the minimal surface every domain plugin implements.
type Plugin interface {
	ID() string
	Name() string
	Description() string
	Version() string
	SystemPrompt() string
	Tools() []Tool
	Initialize(ctx context.Context, cfg Config) error
	ExecuteTool(ctx context.Context, call ToolCall) (*ToolResult, error)
}

// ResponseFormatter lets a plugin shape the final bot response itself instead
// of the framework default.
type ResponseFormatter interface {
	FormatResponse(message string, results []ToolResult) Response
}

// DataExtractor lets a plugin pull a storable payload out of its tool results.
type DataExtractor interface {
	ExtractStorableData(results []ToolResult, finalMessage string) *StorableData
}

// Shutdowner is implemented by plugins that hold resources needing cleanup.
type Shutdowner interface {
	Shutdown(ctx context.Context) error
}
