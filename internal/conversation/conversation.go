// Package conversation rebuilds the full thread around a mention so the model
// sees what was actually said before it answers.
package conversation

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/lueurxax/mention-bot/internal/core/domain"
	"github.com/lueurxax/mention-bot/internal/platform/observability"
	"github.com/lueurxax/mention-bot/internal/xapi"
)

const searchMaxResults = 100

type tweetAPI interface {
	GetTweet(ctx context.Context, id string) (*xapi.TweetResponse, error)
	SearchRecent(ctx context.Context, query string, maxResults int) (*xapi.SearchResponse, error)
}

type Service struct {
	api    tweetAPI
	logger *zerolog.Logger
}

func NewService(api tweetAPI, logger *zerolog.Logger) *Service {
	return &Service{api: api, logger: logger}
}

// FetchThread assembles the conversation around the mention. Only the mention
// lookup itself is fatal; every supplementary fetch degrades to whatever was
// already collected.
func (s *Service) FetchThread(ctx context.Context, mentionID string) (*domain.ConversationThread, error) {
	start := time.Now()
	defer func() {
		observability.ConversationFetchDuration.Observe(time.Since(start).Seconds())
	}()

	mention, err := s.api.GetTweet(ctx, mentionID)
	if err != nil {
		return nil, fmt.Errorf("fetching mention tweet: %w", err)
	}

	acc := newAccumulator()
	acc.addTweet(mention.Data)
	acc.addIncludes(mention.Includes)

	conversationID := mention.Data.ConversationID

	if conversationID != "" && conversationID != mentionID {
		root, err := s.api.GetTweet(ctx, conversationID)
		if err != nil {
			s.logger.Warn().Err(err).Str("conversation_id", conversationID).Msg("Could not fetch conversation root")
		} else {
			acc.addTweet(root.Data)
			acc.addIncludes(root.Includes)
		}
	}

	for _, ref := range mention.Data.ReferencedTweets {
		if ref.Type != domain.RefTypeRepliedTo || ref.ID == conversationID {
			continue
		}

		parent, err := s.api.GetTweet(ctx, ref.ID)
		if err != nil {
			s.logger.Warn().Err(err).Str("tweet_id", ref.ID).Msg("Could not fetch parent tweet")
			continue
		}

		acc.addTweet(parent.Data)
		acc.addIncludes(parent.Includes)
	}

	if conversationID != "" {
		results, err := s.api.SearchRecent(ctx, "conversation_id:"+conversationID, searchMaxResults)
		if err != nil {
			s.logger.Warn().Err(err).Str("conversation_id", conversationID).Msg("Conversation search failed")
		} else {
			for _, tweet := range results.Data {
				acc.addTweet(tweet)
			}

			acc.addIncludes(results.Includes)
		}
	}

	return acc.thread(conversationID), nil
}

// accumulator dedups tweets, users, and media collected across the fetches.
type accumulator struct {
	tweets    map[string]domain.Tweet
	tweetIDs  []string
	users     map[string]domain.User
	userIDs   []string
	media     map[string]domain.Media
	mediaKeys []string
}

func newAccumulator() *accumulator {
	return &accumulator{
		tweets: make(map[string]domain.Tweet),
		users:  make(map[string]domain.User),
		media:  make(map[string]domain.Media),
	}
}

func (a *accumulator) addTweet(t domain.Tweet) {
	if t.ID == "" {
		return
	}

	if _, seen := a.tweets[t.ID]; !seen {
		a.tweetIDs = append(a.tweetIDs, t.ID)
	}

	a.tweets[t.ID] = t
}

func (a *accumulator) addIncludes(inc *domain.Includes) {
	if inc == nil {
		return
	}

	for _, u := range inc.Users {
		if _, seen := a.users[u.ID]; !seen {
			a.userIDs = append(a.userIDs, u.ID)
		}

		a.users[u.ID] = u
	}

	for _, t := range inc.Tweets {
		a.addTweet(t)
	}

	for _, m := range inc.Media {
		if _, seen := a.media[m.MediaKey]; !seen {
			a.mediaKeys = append(a.mediaKeys, m.MediaKey)
		}

		a.media[m.MediaKey] = m
	}
}

func (a *accumulator) thread(conversationID string) *domain.ConversationThread {
	tweets := make([]domain.Tweet, 0, len(a.tweetIDs))
	for _, id := range a.tweetIDs {
		tweets = append(tweets, a.tweets[id])
	}

	// chronological order; tweets without a timestamp sort first
	sort.SliceStable(tweets, func(i, j int) bool {
		return tweets[i].CreatedAt.Before(tweets[j].CreatedAt)
	})

	users := make([]domain.User, 0, len(a.userIDs))
	for _, id := range a.userIDs {
		users = append(users, a.users[id])
	}

	media := make([]domain.Media, 0, len(a.mediaKeys))
	for _, key := range a.mediaKeys {
		media = append(media, a.media[key])
	}

	thread := &domain.ConversationThread{
		Tweets:       tweets,
		Participants: users,
		Media:        media,
	}

	for i := range tweets {
		if tweets[i].ID == conversationID {
			thread.OriginalTweet = &tweets[i]
			break
		}
	}

	return thread
}
