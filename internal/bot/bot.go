// Package bot ties the stream, conversation, model and reply layers together:
// it owns the mention lifecycle from stream event to posted reply.
package bot

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/lueurxax/mention-bot/internal/core/domain"
	"github.com/lueurxax/mention-bot/internal/platform/observability"
	"github.com/lueurxax/mention-bot/internal/platform/retry"
	"github.com/lueurxax/mention-bot/internal/plugin"
	"github.com/lueurxax/mention-bot/internal/reply"
	"github.com/lueurxax/mention-bot/internal/xapi"
)

const mentionRuleTag = "bot-mention"

const (
	skipReasonSelf      = "self"
	skipReasonDuplicate = "duplicate"
	skipReasonEmpty     = "empty_reply"

	statusOK    = "ok"
	statusError = "error"
)

type streamAPI interface {
	GetUserByUsername(ctx context.Context, username string) (*domain.User, error)
	GetStreamRules(ctx context.Context) (*domain.RulesResponse, error)
	AddStreamRules(ctx context.Context, rules []domain.StreamRule) (*domain.RulesResponse, error)
	DeleteStreamRules(ctx context.Context, ids []string) (*domain.RulesResponse, error)
	PostTweet(ctx context.Context, text, replyToID string, nullcast bool) (*xapi.PostTweetResponse, error)
}

type threadFetcher interface {
	FetchThread(ctx context.Context, mentionID string) (*domain.ConversationThread, error)
}

type threadProcessor interface {
	ProcessThread(ctx context.Context, thread *domain.ConversationThread) (plugin.Response, error)
}

type replyComposer interface {
	Compose(ctx context.Context, resp plugin.Response) string
}

type Bot struct {
	api       streamAPI
	threads   threadFetcher
	processor threadProcessor
	composer  replyComposer
	guard     *reply.Guard
	logger    *zerolog.Logger

	username  string
	userID    string
	nullcast  bool
	retryConf retry.Config
}

func New(
	api streamAPI,
	threads threadFetcher,
	processor threadProcessor,
	composer replyComposer,
	guard *reply.Guard,
	username string,
	nullcast bool,
	logger *zerolog.Logger,
) *Bot {
	return &Bot{
		api:       api,
		threads:   threads,
		processor: processor,
		composer:  composer,
		guard:     guard,
		logger:    logger,
		username:  username,
		nullcast:  nullcast,
		retryConf: retry.DefaultConfig(),
	}
}

// Setup resolves the bot's own user ID and replaces the filtered-stream rules
// with a single rule matching mentions of the bot.
func (b *Bot) Setup(ctx context.Context) error {
	if err := retry.Do(ctx, b.retryConf, b.fetchUserID); err != nil {
		return fmt.Errorf("resolving bot user: %w", err)
	}

	if err := retry.Do(ctx, b.retryConf, b.syncRules); err != nil {
		return fmt.Errorf("syncing stream rules: %w", err)
	}

	return nil
}

// UserID is the resolved X user ID of the bot account, empty before Setup.
func (b *Bot) UserID() string {
	return b.userID
}

func (b *Bot) fetchUserID(ctx context.Context) error {
	user, err := b.api.GetUserByUsername(ctx, b.username)
	if err != nil {
		return err
	}

	b.userID = user.ID
	b.logger.Info().Str("username", b.username).Str("user_id", user.ID).Msg("resolved bot user")

	return nil
}

func (b *Bot) syncRules(ctx context.Context) error {
	existing, err := b.api.GetStreamRules(ctx)
	if err != nil {
		return fmt.Errorf("fetching stream rules: %w", err)
	}

	if len(existing.Data) > 0 {
		ids := make([]string, 0, len(existing.Data))
		for _, rule := range existing.Data {
			ids = append(ids, rule.ID)
		}

		if _, err = b.api.DeleteStreamRules(ctx, ids); err != nil {
			return fmt.Errorf("deleting stream rules: %w", err)
		}

		b.logger.Debug().Int("count", len(ids)).Msg("deleted existing stream rules")
	}

	result, err := b.api.AddStreamRules(ctx, []domain.StreamRule{
		{Value: "@" + b.username, Tag: mentionRuleTag},
	})
	if err != nil {
		return fmt.Errorf("adding stream rule: %w", err)
	}

	for _, apiErr := range result.Errors {
		b.logger.Warn().Str("title", apiErr.Title).Str("detail", apiErr.Detail).Msg("stream rule error")
	}

	if result.Meta != nil && result.Meta.Summary != nil {
		b.logger.Info().
			Int("created", result.Meta.Summary.Created).
			Int("invalid", result.Meta.Summary.Invalid).
			Msg("stream rules synced")
	} else {
		b.logger.Info().Msg("stream rules synced")
	}

	return nil
}

// HandleMention is the stream handler: it reconstructs the conversation, runs
// the model and posts the reply. The guard is marked before posting so a slow
// duplicate event cannot race a second reply in.
func (b *Bot) HandleMention(ctx context.Context, event *domain.StreamEvent) error {
	observability.MentionsReceived.Inc()

	mention := event.Data

	if mention.AuthorID == b.userID {
		observability.MentionsSkipped.WithLabelValues(skipReasonSelf).Inc()
		return nil
	}

	if b.guard.HasReplied(mention.ID) {
		observability.MentionsSkipped.WithLabelValues(skipReasonDuplicate).Inc()
		b.logger.Debug().Str("tweet_id", mention.ID).Msg("already replied, skipping")

		return nil
	}

	b.logger.Info().Str("tweet_id", mention.ID).Str("author_id", mention.AuthorID).Msg("processing mention")

	thread, err := b.threads.FetchThread(ctx, mention.ID)
	if err != nil {
		observability.MentionsProcessed.WithLabelValues(statusError).Inc()
		return fmt.Errorf("fetching thread for %s: %w", mention.ID, err)
	}

	resp, err := b.processor.ProcessThread(ctx, thread)
	if err != nil {
		observability.MentionsProcessed.WithLabelValues(statusError).Inc()
		return fmt.Errorf("processing thread for %s: %w", mention.ID, err)
	}

	text := b.composer.Compose(ctx, resp)
	if text == "" {
		observability.MentionsSkipped.WithLabelValues(skipReasonEmpty).Inc()
		b.logger.Warn().Str("tweet_id", mention.ID).Msg("model produced no reply text")

		return nil
	}

	b.guard.MarkReplied(mention.ID)

	posted, err := b.api.PostTweet(ctx, text, mention.ID, b.nullcast)
	if err != nil {
		b.guard.Unmark(mention.ID)
		observability.RepliesPosted.WithLabelValues(statusError).Inc()
		observability.MentionsProcessed.WithLabelValues(statusError).Inc()

		return fmt.Errorf("posting reply to %s: %w", mention.ID, err)
	}

	observability.RepliesPosted.WithLabelValues(statusOK).Inc()
	observability.MentionsProcessed.WithLabelValues(statusOK).Inc()

	b.logger.Info().
		Str("tweet_id", mention.ID).
		Str("reply_id", posted.Data.ID).
		Int("thread_len", len(thread.Tweets)).
		Msg("reply posted")

	return nil
}
