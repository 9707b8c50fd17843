package reply

import (
	"sync"

	"github.com/lueurxax/mention-bot/internal/platform/observability"
)

const defaultGuardCapacity = 10000

// Guard remembers which mentions already got a reply. The set is bounded:
// when it fills up, the oldest half is evicted in insertion order.
type Guard struct {
	mu       sync.Mutex
	seen     map[string]struct{}
	order    []string
	capacity int
}

func NewGuard() *Guard {
	return NewGuardWithCapacity(defaultGuardCapacity)
}

func NewGuardWithCapacity(capacity int) *Guard {
	return &Guard{
		seen:     make(map[string]struct{}, capacity),
		capacity: capacity,
	}
}

func (g *Guard) HasReplied(tweetID string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	_, ok := g.seen[tweetID]

	return ok
}

// MarkReplied records the tweet id, evicting the oldest half of the set when
// the capacity is reached.
func (g *Guard) MarkReplied(tweetID string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.seen[tweetID]; ok {
		return
	}

	if len(g.order) >= g.capacity {
		half := len(g.order) / 2
		for _, old := range g.order[:half] {
			delete(g.seen, old)
		}

		g.order = append(g.order[:0:0], g.order[half:]...)
	}

	g.seen[tweetID] = struct{}{}
	g.order = append(g.order, tweetID)

	observability.ReplyGuardSize.Set(float64(len(g.order)))
}

// Unmark forgets the tweet id so a failed post can be retried on a later
// mention of the same tweet.
func (g *Guard) Unmark(tweetID string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.seen[tweetID]; !ok {
		return
	}

	delete(g.seen, tweetID)

	for i, id := range g.order {
		if id == tweetID {
			g.order = append(g.order[:i], g.order[i+1:]...)
			break
		}
	}

	observability.ReplyGuardSize.Set(float64(len(g.order)))
}

func (g *Guard) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()

	return len(g.order)
}
