package plugin

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/lueurxax/mention-bot/internal/platform/observability"
)

var (
	ErrPluginNotFound = errors.New("plugin not found")
	ErrNoActivePlugin = errors.New("no active plugin")
)

// Registry holds the registered plugins and drives the one that is active.
// Registration and activation happen during startup; after that the registry
// is read-only and safe for concurrent use.
type Registry struct {
	plugins map[string]Plugin
	order   []string
	active  Plugin
	logger  *zerolog.Logger
	now     func() time.Time

	// optional capabilities of the active plugin, resolved at activation
	formatter ResponseFormatter
	extractor DataExtractor
	closer    Shutdowner
}

func NewRegistry(logger *zerolog.Logger) *Registry {
	return &Registry{
		plugins: make(map[string]Plugin),
		logger:  logger,
		now:     time.Now,
	}
}

// Register adds a plugin. A duplicate id overwrites the previous registration
// with a warning.
func (r *Registry) Register(p Plugin) {
	if _, exists := r.plugins[p.ID()]; exists {
		r.logger.Warn().Str("plugin", p.ID()).Msg("Plugin already registered, overwriting")
	} else {
		r.order = append(r.order, p.ID())
	}

	r.plugins[p.ID()] = p
}

// Activate initializes the named plugin and makes it the active one. Any
// previously active plugin is shut down first; if initialization fails no
// plugin is left active.
func (r *Registry) Activate(ctx context.Context, id string, cfg Config) error {
	p, ok := r.plugins[id]
	if !ok {
		return fmt.Errorf("%w: %q (available: %s)", ErrPluginNotFound, id, strings.Join(r.availableIDs(), ", "))
	}

	if r.active != nil {
		if err := r.Shutdown(ctx); err != nil {
			r.logger.Warn().Err(err).Msg("Previous plugin shutdown failed")
		}
	}

	if err := p.Initialize(ctx, cfg); err != nil {
		return fmt.Errorf("initializing plugin %q: %w", id, err)
	}

	r.active = p
	r.formatter, _ = p.(ResponseFormatter)
	r.extractor, _ = p.(DataExtractor)
	r.closer, _ = p.(Shutdowner)

	r.logger.Info().
		Str("plugin", p.ID()).
		Str("name", p.Name()).
		Str("version", p.Version()).
		Msg("Plugin activated")

	return nil
}

func (r *Registry) Active() Plugin {
	return r.active
}

// SystemPrompt returns the active plugin's prompt with the framework rules
// appended.
func (r *Registry) SystemPrompt() (string, error) {
	if r.active == nil {
		return "", ErrNoActivePlugin
	}

	return r.active.SystemPrompt() + frameworkRules(r.now()), nil
}

// Tools returns the active plugin's tool definitions.
func (r *Registry) Tools() ([]Tool, error) {
	if r.active == nil {
		return nil, ErrNoActivePlugin
	}

	return r.active.Tools(), nil
}

// ExecuteTool runs one tool call on the active plugin. Plugin failures are
// folded into the result so the model sees them instead of the loop aborting.
func (r *Registry) ExecuteTool(ctx context.Context, call ToolCall) ToolResult {
	if r.active == nil {
		return ToolResult{Success: false, Error: ErrNoActivePlugin.Error()}
	}

	result, err := r.active.ExecuteTool(ctx, call)
	if err != nil {
		r.logger.Warn().Err(err).Str("tool", call.Name).Msg("Tool execution failed")
		recordExecution(call.Name, false)

		return ToolResult{Success: false, Error: err.Error()}
	}

	if result == nil {
		recordExecution(call.Name, false)

		return ToolResult{Success: false, Error: "tool returned no result"}
	}

	recordExecution(call.Name, result.Success)

	return *result
}

// FormatResponse builds the bot response from the model's final message and
// the collected tool results, deferring to the plugin when it formats its own.
func (r *Registry) FormatResponse(message string, results []ToolResult) Response {
	if r.formatter != nil {
		return r.formatter.FormatResponse(message, results)
	}

	anySuccess := false

	for _, res := range results {
		if res.Success {
			anySuccess = true
			break
		}
	}

	resp := Response{
		Message: message,
		HasData: len(results) > 0 && anySuccess,
	}

	if r.extractor != nil && resp.HasData {
		resp.Data = r.extractor.ExtractStorableData(results, message)
	}

	return resp
}

// Shutdown releases the active plugin's resources and clears it.
func (r *Registry) Shutdown(ctx context.Context) error {
	if r.active == nil {
		return nil
	}

	var err error

	if r.closer != nil {
		err = r.closer.Shutdown(ctx)
	}

	r.active = nil
	r.formatter = nil
	r.extractor = nil
	r.closer = nil

	return err
}

func (r *Registry) availableIDs() []string {
	ids := make([]string, 0, len(r.plugins))
	for id := range r.plugins {
		ids = append(ids, id)
	}

	sort.Strings(ids)

	return ids
}

func frameworkRules(now time.Time) string {
	return "\n\nIMPORTANT RULES (enforced by framework):\n" +
		"- Today's date is: " + now.Format("2006-01-02") + "\n" +
		"- Twitter has a 280 character limit\n" +
		"- When providing data/recommendations that will include a link, keep your response under 200 characters\n" +
		"- When having a conversation without links, keep responses under 280 characters\n" +
		"- Be concise - every character counts on Twitter"
}

func recordExecution(tool string, success bool) {
	status := "ok"
	if !success {
		status = "error"
	}

	observability.ToolExecutions.WithLabelValues(tool, status).Inc()
}
