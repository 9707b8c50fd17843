package bot

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lueurxax/mention-bot/internal/core/domain"
	"github.com/lueurxax/mention-bot/internal/platform/retry"
	"github.com/lueurxax/mention-bot/internal/plugin"
	"github.com/lueurxax/mention-bot/internal/reply"
	"github.com/lueurxax/mention-bot/internal/xapi"
)

type postCall struct {
	text     string
	replyTo  string
	nullcast bool
}

type fakeAPI struct {
	user     *domain.User
	userErrs []error

	rules      *domain.RulesResponse
	deletedIDs []string
	added      []domain.StreamRule

	posts   []postCall
	postErr error
}

func (f *fakeAPI) GetUserByUsername(_ context.Context, _ string) (*domain.User, error) {
	if len(f.userErrs) > 0 {
		err := f.userErrs[0]
		f.userErrs = f.userErrs[1:]

		return nil, err
	}

	return f.user, nil
}

func (f *fakeAPI) GetStreamRules(_ context.Context) (*domain.RulesResponse, error) {
	return f.rules, nil
}

func (f *fakeAPI) AddStreamRules(_ context.Context, rules []domain.StreamRule) (*domain.RulesResponse, error) {
	f.added = append(f.added, rules...)

	return &domain.RulesResponse{
		Meta: &domain.RulesMeta{Summary: &domain.RulesSummary{Created: len(rules)}},
	}, nil
}

func (f *fakeAPI) DeleteStreamRules(_ context.Context, ids []string) (*domain.RulesResponse, error) {
	f.deletedIDs = append(f.deletedIDs, ids...)

	return &domain.RulesResponse{}, nil
}

func (f *fakeAPI) PostTweet(_ context.Context, text, replyToID string, nullcast bool) (*xapi.PostTweetResponse, error) {
	if f.postErr != nil {
		return nil, f.postErr
	}

	f.posts = append(f.posts, postCall{text: text, replyTo: replyToID, nullcast: nullcast})

	resp := &xapi.PostTweetResponse{}
	resp.Data.ID = "reply-1"
	resp.Data.Text = text

	return resp, nil
}

type fakeFetcher struct {
	thread *domain.ConversationThread
	err    error
	calls  int
}

func (f *fakeFetcher) FetchThread(_ context.Context, _ string) (*domain.ConversationThread, error) {
	f.calls++

	return f.thread, f.err
}

type fakeProcessor struct {
	resp plugin.Response
	err  error
}

func (f *fakeProcessor) ProcessThread(_ context.Context, _ *domain.ConversationThread) (plugin.Response, error) {
	return f.resp, f.err
}

type fakeComposer struct {
	text string
}

func (f *fakeComposer) Compose(_ context.Context, _ plugin.Response) string {
	return f.text
}

func newTestBot(api *fakeAPI, fetcher *fakeFetcher, processor *fakeProcessor, composer *fakeComposer) *Bot {
	logger := zerolog.Nop()

	b := New(api, fetcher, processor, composer, reply.NewGuard(), "predictbot", true, &logger)
	b.retryConf = retry.Config{MaxRetries: 2, InitialDelay: time.Millisecond}

	return b
}

func sampleThread() *domain.ConversationThread {
	return &domain.ConversationThread{
		Tweets: []domain.Tweet{{ID: "t1", Text: "@predictbot will it rain?", AuthorID: "alice"}},
	}
}

func TestSetup_SyncsRules(t *testing.T) {
	api := &fakeAPI{
		user: &domain.User{ID: "bot-1", Username: "predictbot"},
		rules: &domain.RulesResponse{
			Data: []domain.StreamRule{{ID: "r1", Value: "@oldbot"}, {ID: "r2", Value: "stale"}},
		},
	}
	b := newTestBot(api, &fakeFetcher{}, &fakeProcessor{}, &fakeComposer{})

	require.NoError(t, b.Setup(context.Background()))

	assert.Equal(t, "bot-1", b.UserID())
	assert.Equal(t, []string{"r1", "r2"}, api.deletedIDs)

	require.Len(t, api.added, 1)
	assert.Equal(t, "@predictbot", api.added[0].Value)
	assert.Equal(t, "bot-mention", api.added[0].Tag)
}

func TestSetup_RetriesTransientUserLookup(t *testing.T) {
	api := &fakeAPI{
		user:     &domain.User{ID: "bot-1"},
		userErrs: []error{errors.New("request failed with status 429: rate limit")},
		rules:    &domain.RulesResponse{},
	}
	b := newTestBot(api, &fakeFetcher{}, &fakeProcessor{}, &fakeComposer{})

	require.NoError(t, b.Setup(context.Background()))
	assert.Equal(t, "bot-1", b.UserID())
}

func TestHandleMention_PostsReply(t *testing.T) {
	api := &fakeAPI{}
	fetcher := &fakeFetcher{thread: sampleThread()}
	processor := &fakeProcessor{resp: plugin.Response{Message: "Looks likely."}}
	composer := &fakeComposer{text: "Looks likely."}

	b := newTestBot(api, fetcher, processor, composer)
	b.userID = "bot-1"

	event := &domain.StreamEvent{Data: domain.Tweet{ID: "t1", AuthorID: "alice"}}
	require.NoError(t, b.HandleMention(context.Background(), event))

	require.Len(t, api.posts, 1)
	assert.Equal(t, "Looks likely.", api.posts[0].text)
	assert.Equal(t, "t1", api.posts[0].replyTo)
	assert.True(t, api.posts[0].nullcast)

	assert.True(t, b.guard.HasReplied("t1"))
}

func TestHandleMention_SkipsOwnTweets(t *testing.T) {
	api := &fakeAPI{}
	fetcher := &fakeFetcher{thread: sampleThread()}

	b := newTestBot(api, fetcher, &fakeProcessor{}, &fakeComposer{text: "hi"})
	b.userID = "bot-1"

	event := &domain.StreamEvent{Data: domain.Tweet{ID: "t2", AuthorID: "bot-1"}}
	require.NoError(t, b.HandleMention(context.Background(), event))

	assert.Zero(t, fetcher.calls)
	assert.Empty(t, api.posts)
}

func TestHandleMention_SkipsDuplicates(t *testing.T) {
	api := &fakeAPI{}
	fetcher := &fakeFetcher{thread: sampleThread()}

	b := newTestBot(api, fetcher, &fakeProcessor{resp: plugin.Response{Message: "hi"}}, &fakeComposer{text: "hi"})
	b.userID = "bot-1"

	event := &domain.StreamEvent{Data: domain.Tweet{ID: "t1", AuthorID: "alice"}}
	require.NoError(t, b.HandleMention(context.Background(), event))
	require.NoError(t, b.HandleMention(context.Background(), event))

	assert.Len(t, api.posts, 1)
	assert.Equal(t, 1, fetcher.calls)
}

func TestHandleMention_EmptyReplyIsNotPosted(t *testing.T) {
	api := &fakeAPI{}

	b := newTestBot(api, &fakeFetcher{thread: sampleThread()}, &fakeProcessor{}, &fakeComposer{text: ""})
	b.userID = "bot-1"

	event := &domain.StreamEvent{Data: domain.Tweet{ID: "t1", AuthorID: "alice"}}
	require.NoError(t, b.HandleMention(context.Background(), event))

	assert.Empty(t, api.posts)
	assert.False(t, b.guard.HasReplied("t1"))
}

func TestHandleMention_PostFailureUnmarksGuard(t *testing.T) {
	api := &fakeAPI{postErr: errors.New("request failed with status 500: boom")}

	b := newTestBot(api, &fakeFetcher{thread: sampleThread()}, &fakeProcessor{resp: plugin.Response{Message: "hi"}}, &fakeComposer{text: "hi"})
	b.userID = "bot-1"

	event := &domain.StreamEvent{Data: domain.Tweet{ID: "t1", AuthorID: "alice"}}
	err := b.HandleMention(context.Background(), event)
	require.Error(t, err)

	// a failed post frees the mention for the next attempt
	assert.False(t, b.guard.HasReplied("t1"))
}

func TestHandleMention_FetchErrorPropagates(t *testing.T) {
	api := &fakeAPI{}

	b := newTestBot(api, &fakeFetcher{err: errors.New("gone")}, &fakeProcessor{}, &fakeComposer{text: "hi"})
	b.userID = "bot-1"

	event := &domain.StreamEvent{Data: domain.Tweet{ID: "t1", AuthorID: "alice"}}
	require.Error(t, b.HandleMention(context.Background(), event))
	assert.Empty(t, api.posts)
}
