// Package market is the prediction-market plugin: it turns claims made in a
// thread into YES/NO markets with seeded odds.
package market

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sashabaranov/go-openai/jsonschema"

	"github.com/lueurxax/mention-bot/internal/plugin"
)

const (
	pluginID      = "prediction-market"
	marketIDLen   = 8
	maxSearchHits = 5

	// question prefixes shorter than this are too generic to count as a
	// duplicate of an existing market
	similarPrefixLen = 30

	statusOpen = "open"
)

var categories = []string{
	"politics", "economics", "sports", "technology",
	"entertainment", "science", "world-events", "crypto", "other",
}

var categoryDisplay = map[string]string{
	"politics":      "Politics",
	"economics":     "Economics",
	"sports":        "Sports",
	"technology":    "Tech",
	"entertainment": "Entertainment",
	"science":       "Science",
	"world-events":  "World Events",
	"crypto":        "Crypto",
	"other":         "Other",
}

type Plugin struct {
	websiteURL string
	sandbox    bool
	rand       func() float64
	now        func() time.Time
}

func New() *Plugin {
	return &Plugin{
		rand: rand.Float64, //nolint:gosec // sandbox odds do not need crypto randomness
		now:  time.Now,
	}
}

func (p *Plugin) ID() string          { return pluginID }
func (p *Plugin) Name() string        { return "Prediction Market Bot" }
func (p *Plugin) Description() string { return "A bot that creates prediction markets from tweets and claims." }
func (p *Plugin) Version() string     { return "1.0.0" }

func (p *Plugin) Initialize(_ context.Context, cfg plugin.Config) error {
	p.websiteURL = cfg.WebsiteURL
	p.sandbox = cfg.SandboxMode

	return nil
}

func (p *Plugin) SystemPrompt() string {
	return systemPrompt
}

func (p *Plugin) Tools() []plugin.Tool {
	categoryEnum := jsonschema.Definition{
		Type:        jsonschema.String,
		Description: "Category for the market",
		Enum:        categories,
	}

	return []plugin.Tool{
		{
			Name:        "create_market",
			Description: "Create a new prediction market. Use this when a user asks you to create a market for a claim or prediction.",
			Parameters: jsonschema.Definition{
				Type: jsonschema.Object,
				Properties: map[string]jsonschema.Definition{
					"question": {
						Type:        jsonschema.String,
						Description: `The prediction market question, framed as a YES/NO question (e.g., "Will China invade Taiwan by end of 2026?")`,
					},
					"description": {
						Type:        jsonschema.String,
						Description: "Additional context or resolution criteria for the market",
					},
					"category": categoryEnum,
					"resolution_date": {
						Type:        jsonschema.String,
						Description: "When the market should resolve, in YYYY-MM-DD format",
					},
					"source_claim": {
						Type:        jsonschema.String,
						Description: "The original claim or prediction from the tweet that inspired this market",
					},
				},
				Required: []string{"question", "category", "resolution_date"},
			},
		},
		{
			Name:        "search_markets",
			Description: "Search for existing prediction markets on a topic. Use this to check if a similar market already exists.",
			Parameters: jsonschema.Definition{
				Type: jsonschema.Object,
				Properties: map[string]jsonschema.Definition{
					"query": {
						Type:        jsonschema.String,
						Description: "Search query to find related markets",
					},
					"category": {
						Type:        jsonschema.String,
						Description: "Optional category filter",
						Enum:        categories,
					},
				},
				Required: []string{"query"},
			},
		},
	}
}

func (p *Plugin) ExecuteTool(_ context.Context, call plugin.ToolCall) (*plugin.ToolResult, error) {
	switch call.Name {
	case "create_market":
		return p.createMarket(call.Arguments)
	case "search_markets":
		return p.searchMarkets(call.Arguments)
	default:
		return &plugin.ToolResult{Success: false, Error: "Unknown tool: " + call.Name}, nil
	}
}

func (p *Plugin) createMarket(args map[string]any) (*plugin.ToolResult, error) {
	question, ok := args["question"].(string)
	if !ok || question == "" {
		return nil, errors.New("create_market requires a question")
	}

	if similar := p.findSimilar(question); similar != nil {
		return &plugin.ToolResult{
			Success: true,
			Data: &marketResult{
				Type:    "existing_market",
				Market:  p.marketView(similar),
				Message: "A similar market already exists",
			},
		}, nil
	}

	yes := p.initialProbability(question)

	m := &market{
		ID:             "mkt-" + newMarketID(),
		Question:       question,
		Description:    stringArg(args, "description"),
		Category:       stringArg(args, "category"),
		ResolutionDate: stringArg(args, "resolution_date"),
		CreatedAt:      p.now().Format("2006-01-02"),
		YesProbability: yes,
		NoProbability:  1 - yes,
		Volume:         500 + int(p.rand()*5000),
		Traders:        10 + int(p.rand()*50),
		SourceClaim:    stringArg(args, "source_claim"),
		Status:         statusOpen,
	}

	view := p.marketView(m)
	view.VolumeFormatted = "$" + groupThousands(m.Volume)

	return &plugin.ToolResult{
		Success: true,
		Data:    &marketResult{Type: "new_market", Market: view},
	}, nil
}

func (p *Plugin) searchMarkets(args map[string]any) (*plugin.ToolResult, error) {
	query, ok := args["query"].(string)
	if !ok || query == "" {
		return nil, errors.New("search_markets requires a query")
	}

	query = strings.ToLower(query)
	categoryFilter := stringArg(args, "category")

	var views []marketView

	total := 0

	for _, m := range seedMarkets() {
		matchesQuery := strings.Contains(strings.ToLower(m.Question), query) ||
			strings.Contains(strings.ToLower(m.Description), query)
		if !matchesQuery || (categoryFilter != "" && m.Category != categoryFilter) {
			continue
		}

		total++

		if len(views) < maxSearchHits {
			views = append(views, *p.marketView(&m))
		}
	}

	return &plugin.ToolResult{
		Success: true,
		Data: &marketResult{
			Type:         "search_results",
			Query:        query,
			Category:     categoryFilter,
			Markets:      views,
			TotalResults: total,
		},
	}, nil
}

// findSimilar treats two markets as duplicates when either question contains
// the first 30 characters of the other.
func (p *Plugin) findSimilar(question string) *market {
	lower := strings.ToLower(question)

	for _, m := range seedMarkets() {
		existing := strings.ToLower(m.Question)

		if strings.Contains(existing, prefix(lower, similarPrefixLen)) ||
			strings.Contains(lower, prefix(existing, similarPrefixLen)) {
			return &m
		}
	}

	return nil
}

func (p *Plugin) initialProbability(question string) float64 {
	lower := strings.ToLower(question)

	switch {
	case strings.Contains(lower, "invade"), strings.Contains(lower, "war"), strings.Contains(lower, "nuclear"):
		return 0.05 + p.rand()*0.15
	case strings.Contains(lower, "rate cut"), strings.Contains(lower, "growth"):
		return 0.45 + p.rand()*0.25
	case strings.Contains(lower, "bitcoin"), strings.Contains(lower, "btc"), strings.Contains(lower, "crypto"):
		return 0.40 + p.rand()*0.35
	default:
		return 0.30 + p.rand()*0.40
	}
}

func (p *Plugin) ExtractStorableData(results []plugin.ToolResult, _ string) *plugin.StorableData {
	for _, result := range results {
		if !result.Success || result.Data == nil {
			continue
		}

		data, ok := result.Data.(*marketResult)
		if !ok {
			continue
		}

		if (data.Type == "new_market" || data.Type == "existing_market") && data.Market != nil {
			m := data.Market
			kind := "market_created"

			if data.Type == "existing_market" {
				kind = "market_existing"
			}

			return &plugin.StorableData{
				Title:    m.Question,
				Subtitle: m.CategoryDisplay + " · Resolves " + m.ResolutionDateFormatted,
				PrimaryItem: &plugin.PrimaryItem{
					Name:   "YES",
					Price:  m.YesProbabilityFormatted,
					Rating: m.YesProbability,
				},
				SecondaryItem: &plugin.SecondaryItem{
					Title: m.VolumeFormatted + " volume",
					Price: fmt.Sprintf("%d traders", m.Traders),
				},
				ActionURL: m.URL,
				Metadata: map[string]any{
					"type":            kind,
					"market_id":       m.ID,
					"question":        m.Question,
					"category":        m.Category,
					"resolution_date": m.ResolutionDate,
					"yes_probability": m.YesProbability,
					"status":          m.Status,
				},
			}
		}

		if data.Type == "search_results" && len(data.Markets) > 0 {
			m := data.Markets[0]

			return &plugin.StorableData{
				Title:    m.Question,
				Subtitle: m.CategoryDisplay + " · " + m.VolumeFormatted + " volume",
				PrimaryItem: &plugin.PrimaryItem{
					Name:   "YES",
					Price:  m.YesProbabilityFormatted,
					Rating: m.YesProbability,
				},
				SecondaryItem: &plugin.SecondaryItem{
					Title: fmt.Sprintf("%d related markets", data.TotalResults),
					Price: m.ResolutionDateFormatted,
				},
				ActionURL: m.URL,
				Metadata: map[string]any{
					"type":          "search_result",
					"market_id":     m.ID,
					"question":      m.Question,
					"total_results": data.TotalResults,
				},
			}
		}
	}

	return nil
}

func (p *Plugin) marketView(m *market) *marketView {
	return &marketView{
		ID:                      m.ID,
		Question:                m.Question,
		Description:             m.Description,
		Category:                m.Category,
		CategoryDisplay:         displayCategory(m.Category),
		ResolutionDate:          m.ResolutionDate,
		ResolutionDateFormatted: formatDate(m.ResolutionDate),
		YesProbability:          m.YesProbability,
		YesProbabilityFormatted: formatProbability(m.YesProbability),
		NoProbability:           m.NoProbability,
		Volume:                  m.Volume,
		VolumeFormatted:         fmt.Sprintf("$%.0fK", float64(m.Volume)/1000),
		Traders:                 m.Traders,
		SourceClaim:             m.SourceClaim,
		Status:                  m.Status,
		URL:                     p.marketURL(m.ID),
	}
}

func (p *Plugin) marketURL(id string) string {
	return p.websiteURL + "/r/" + id
}

func newMarketID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:marketIDLen]
}

func stringArg(args map[string]any, key string) string {
	s, _ := args[key].(string)
	return s
}

func prefix(s string, n int) string {
	if len(s) > n {
		return s[:n]
	}

	return s
}

func displayCategory(category string) string {
	if display, ok := categoryDisplay[category]; ok {
		return display
	}

	return category
}

func formatProbability(prob float64) string {
	return fmt.Sprintf("%.0f%%", prob*100)
}

func formatDate(dateStr string) string {
	date, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		return dateStr
	}

	return date.Format("Jan 2, 2006")
}

func groupThousands(n int) string {
	s := fmt.Sprintf("%d", n)

	var b strings.Builder

	for i, digit := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}

		b.WriteRune(digit)
	}

	return b.String()
}
