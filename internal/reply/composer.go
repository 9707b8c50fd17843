// Package reply turns bot responses into postable tweets and guards against
// replying to the same mention twice.
package reply

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/lueurxax/mention-bot/internal/plugin"
)

const (
	maxTweetLen   = 280
	linkSeparator = "\n\n"
	ellipsis      = "…"
)

type linkStore interface {
	Publish(ctx context.Context, data *plugin.StorableData) string
}

type Composer struct {
	store linkStore
}

func NewComposer(store linkStore) *Composer {
	return &Composer{store: store}
}

// Compose fits the response into the tweet limit. Responses with structured
// data get a stored recommendation link appended; the text is trimmed to make
// room for it.
func (c *Composer) Compose(ctx context.Context, resp plugin.Response) string {
	if resp.HasData && resp.Data != nil {
		if url := c.store.Publish(ctx, resp.Data); url != "" {
			return withLink(resp.Message, url)
		}
	}

	if resp.DirectURL != "" {
		return withLink(resp.Message, resp.DirectURL)
	}

	return truncate(resp.Message, maxTweetLen)
}

func withLink(message, url string) string {
	budget := maxTweetLen - len(linkSeparator) - utf8.RuneCountInString(url)

	return truncate(message, budget) + linkSeparator + url
}

func truncate(s string, maxLen int) string {
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}

	runes := []rune(s)

	return strings.TrimSpace(string(runes[:maxLen-1])) + ellipsis
}
