// Package app wires the bot's dependencies together and runs them.
package app

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/lueurxax/mention-bot/internal/bot"
	"github.com/lueurxax/mention-bot/internal/conversation"
	"github.com/lueurxax/mention-bot/internal/grok"
	"github.com/lueurxax/mention-bot/internal/linkstore"
	"github.com/lueurxax/mention-bot/internal/platform/config"
	"github.com/lueurxax/mention-bot/internal/platform/observability"
	"github.com/lueurxax/mention-bot/internal/plugin"
	"github.com/lueurxax/mention-bot/internal/plugins/market"
	"github.com/lueurxax/mention-bot/internal/plugins/opentable"
	"github.com/lueurxax/mention-bot/internal/plugins/travel"
	"github.com/lueurxax/mention-bot/internal/reply"
	"github.com/lueurxax/mention-bot/internal/stream"
	"github.com/lueurxax/mention-bot/internal/xapi"
)

// App holds the application dependencies and runs the mention loop.
type App struct {
	cfg      *config.Config
	logger   *zerolog.Logger
	registry *plugin.Registry
	stream   *stream.Client
	bot      *bot.Bot
}

// New builds the full dependency graph: X API client, plugin registry, Grok
// client, reply pipeline, conversation service and stream client.
func New(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) (*App, error) {
	signer := xapi.NewOAuth1Signer(cfg.XAPIKey, cfg.XAPISecret, cfg.XAccessToken, cfg.XAccessTokenSecret)
	api := xapi.NewClient(cfg.XAPIBaseURL, cfg.XBearerToken, signer, logger)

	registry := plugin.NewRegistry(logger)
	registry.Register(market.New())
	registry.Register(opentable.New())
	registry.Register(travel.New())

	pluginCfg := plugin.Config{
		BotUsername: cfg.BotUsername,
		WebsiteURL:  cfg.WebsiteURL,
		SandboxMode: cfg.PluginSandboxMode,
	}

	if err := registry.Activate(ctx, cfg.BotPlugin, pluginCfg); err != nil {
		return nil, fmt.Errorf("activating plugin: %w", err)
	}

	grokClient, err := grok.NewClient(cfg.GrokAPIKey, cfg.GrokBaseURL, cfg.GrokModel, cfg.RateLimitRPS, registry, logger)
	if err != nil {
		return nil, fmt.Errorf("creating grok client: %w", err)
	}

	links := linkstore.NewClient(cfg.WebsiteURL, logger)
	composer := reply.NewComposer(links)
	guard := reply.NewGuard()
	conversations := conversation.NewService(api, logger)

	streamClient := stream.NewClient(stream.Config{
		BaseURL:     cfg.XAPIBaseURL,
		BearerToken: cfg.XBearerToken,
		MaxRetries:  cfg.StreamMaxRetries,
		BaseDelay:   cfg.StreamBaseDelay,
		MaxDelay:    cfg.StreamMaxDelay,
	}, logger)

	// replies are always nullcast so they answer the mention without landing on the timeline
	mentionBot := bot.New(api, conversations, grokClient, composer, guard, cfg.BotUsername, true, logger)

	return &App{
		cfg:      cfg,
		logger:   logger,
		registry: registry,
		stream:   streamClient,
		bot:      mentionBot,
	}, nil
}

// Run syncs the stream rules and consumes the filtered stream until the
// context is cancelled.
func (a *App) Run(ctx context.Context) error {
	if err := a.bot.Setup(ctx); err != nil {
		return fmt.Errorf("bot setup: %w", err)
	}

	a.stream.OnEvent(a.bot.HandleMention)

	defer func() {
		if err := a.registry.Shutdown(context.Background()); err != nil {
			a.logger.Warn().Err(err).Msg("plugin shutdown error")
		}
	}()

	a.logger.Info().
		Str("plugin", a.cfg.BotPlugin).
		Str("username", a.cfg.BotUsername).
		Msg("listening for mentions")

	return a.stream.Connect(ctx)
}

// StartHealthServer starts the health check and metrics server. Readiness
// follows the stream connection state.
func (a *App) StartHealthServer(ctx context.Context) error {
	return observability.NewServer(a.stream, a.cfg.HealthPort, a.logger).Start(ctx)
}
