// Package domain defines the wire-level data model shared across the bot:
// tweets, users, media attachments, stream payloads, and conversation threads.
// Field tags follow the X API v2 JSON shapes.
package domain

import "time"

// Referenced tweet relationship types as the X API reports them.
const (
	RefTypeRepliedTo = "replied_to"
	RefTypeQuoted    = "quoted"
	RefTypeRetweeted = "retweeted"
)

// Media attachment types.
const (
	MediaTypePhoto       = "photo"
	MediaTypeVideo       = "video"
	MediaTypeAnimatedGIF = "animated_gif"
)

type Tweet struct {
	ID               string            `json:"id"`
	Text             string            `json:"text"`
	AuthorID         string            `json:"author_id,omitempty"`
	ConversationID   string            `json:"conversation_id,omitempty"`
	InReplyToUserID  string            `json:"in_reply_to_user_id,omitempty"`
	CreatedAt        time.Time         `json:"created_at,omitempty"`
	ReferencedTweets []ReferencedTweet `json:"referenced_tweets,omitempty"`
	Attachments      *Attachments      `json:"attachments,omitempty"`
}

type ReferencedTweet struct {
	Type string `json:"type"`
	ID   string `json:"id"`
}

type Attachments struct {
	MediaKeys []string `json:"media_keys,omitempty"`
}

type User struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username"`
}

// Media carries one attachment from an expanded API response. URL is set for
// photos, PreviewImageURL for videos and gifs.
type Media struct {
	MediaKey        string `json:"media_key"`
	Type            string `json:"type"`
	URL             string `json:"url,omitempty"`
	PreviewImageURL string `json:"preview_image_url,omitempty"`
	Width           int    `json:"width,omitempty"`
	Height          int    `json:"height,omitempty"`
	AltText         string `json:"alt_text,omitempty"`
}

// ImageURL returns the URL usable as model input for this attachment, or ""
// when the attachment has no usable still image.
func (m Media) ImageURL() string {
	if m.Type == MediaTypePhoto {
		return m.URL
	}

	return m.PreviewImageURL
}

// Includes is the expansion envelope attached to lookup, search, and stream
// responses.
type Includes struct {
	Users  []User  `json:"users,omitempty"`
	Tweets []Tweet `json:"tweets,omitempty"`
	Media  []Media `json:"media,omitempty"`
}

// StreamEvent is one newline-delimited payload from the filtered stream.
type StreamEvent struct {
	Data          Tweet          `json:"data"`
	Includes      *Includes      `json:"includes,omitempty"`
	MatchingRules []MatchingRule `json:"matching_rules,omitempty"`
}

type MatchingRule struct {
	ID  string `json:"id"`
	Tag string `json:"tag,omitempty"`
}

// StreamRule is a filtered-stream matching rule. ID is assigned by the API.
type StreamRule struct {
	ID    string `json:"id,omitempty"`
	Value string `json:"value"`
	Tag   string `json:"tag,omitempty"`
}

type RulesResponse struct {
	Data   []StreamRule `json:"data,omitempty"`
	Meta   *RulesMeta   `json:"meta,omitempty"`
	Errors []APIError   `json:"errors,omitempty"`
}

type RulesMeta struct {
	Sent    string        `json:"sent"`
	Summary *RulesSummary `json:"summary,omitempty"`
}

type RulesSummary struct {
	Created    int `json:"created"`
	NotCreated int `json:"not_created"`
	Valid      int `json:"valid"`
	Invalid    int `json:"invalid"`
}

type APIError struct {
	Title  string `json:"title"`
	Detail string `json:"detail"`
	Type   string `json:"type"`
}

// ConversationThread is a reconstructed thread: every fetched tweet of the
// conversation in chronological order, the users seen across all fetches, and
// the media table for resolving attachment keys.
type ConversationThread struct {
	Tweets        []Tweet
	Participants  []User
	OriginalTweet *Tweet
	Media         []Media
}

// ParticipantByID returns the participant with the given id, or nil.
func (t *ConversationThread) ParticipantByID(id string) *User {
	for i := range t.Participants {
		if t.Participants[i].ID == id {
			return &t.Participants[i]
		}
	}

	return nil
}

// ImageURLs resolves attachment media keys to image URLs in message order,
// skipping attachments without a usable still image and deduplicating.
func (t *ConversationThread) ImageURLs() []string {
	if len(t.Media) == 0 {
		return nil
	}

	byKey := make(map[string]string, len(t.Media))

	for _, m := range t.Media {
		if url := m.ImageURL(); url != "" {
			byKey[m.MediaKey] = url
		}
	}

	var urls []string

	seen := make(map[string]bool)

	for _, tweet := range t.Tweets {
		if tweet.Attachments == nil {
			continue
		}

		for _, key := range tweet.Attachments.MediaKeys {
			url, ok := byKey[key]
			if !ok || seen[url] {
				continue
			}

			seen[url] = true
			urls = append(urls, url)
		}
	}

	return urls
}
