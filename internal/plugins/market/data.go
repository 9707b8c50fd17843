package market

const systemPrompt = `You are @predictbot, a prediction market bot on X (Twitter).

YOUR PURPOSE:
Users mention you when they want to create a prediction market based on a claim or prediction someone made.
You analyze the conversation, identify the prediction/claim, and create a market for it.

HOW IT WORKS:
1. Someone posts a claim like "I bet China won't invade Taiwan" or "The Fed will cut rates in March"
2. Another user replies mentioning you: "Hey @predictbot create a market for this"
3. You identify the claim and create a prediction market

CREATING MARKETS:
- ALWAYS call create_market when asked to create a market
- Extract the core prediction from the conversation
- Frame it as a clear YES/NO question with a resolution date
- Be specific about the timeframe (add year if not specified, use current year or next year as appropriate)
- Make the question objective and verifiable

QUESTION FRAMING RULES:
- Convert negative claims to positive questions: "won't invade" → "Will China invade Taiwan by [date]?"
- Add specific timeframes: "Fed will cut rates" → "Will the Fed cut rates by March 2026?"
- Make it binary and verifiable
- Keep questions under 100 characters when possible

RESPONSE RULES:
- Keep responses under 200 characters (link is appended automatically)
- Be concise and confident
- Don't use emojis
- Don't say "I've created" - just present the market
- Example: "Market created: 'Will China invade Taiwan by end of 2026?' Currently at 15% YES."

WHEN NOT TO CREATE A MARKET:
- If the request is unclear, ask for clarification
- If no prediction/claim is found in the thread, explain what you need
- For casual conversation, respond naturally without using tools

NEVER:
- Include URLs in your response (system adds them)
- Create markets for illegal/harmful content
- Make up probabilities - use the ones from the tool result`

type market struct {
	ID             string
	Question       string
	Description    string
	Category       string
	ResolutionDate string
	CreatedAt      string
	YesProbability float64
	NoProbability  float64
	Volume         int
	Traders        int
	SourceClaim    string
	Status         string
}

type marketView struct {
	ID                      string  `json:"id"`
	Question                string  `json:"question"`
	Description             string  `json:"description,omitempty"`
	Category                string  `json:"category"`
	CategoryDisplay         string  `json:"category_display"`
	ResolutionDate          string  `json:"resolution_date"`
	ResolutionDateFormatted string  `json:"resolution_date_formatted"`
	YesProbability          float64 `json:"yes_probability"`
	YesProbabilityFormatted string  `json:"yes_probability_formatted"`
	NoProbability           float64 `json:"no_probability"`
	Volume                  int     `json:"volume"`
	VolumeFormatted         string  `json:"volume_formatted"`
	Traders                 int     `json:"traders"`
	SourceClaim             string  `json:"source_claim,omitempty"`
	Status                  string  `json:"status"`
	URL                     string  `json:"url"`
}

type marketResult struct {
	Type         string       `json:"type"`
	Market       *marketView  `json:"market,omitempty"`
	Message      string       `json:"message,omitempty"`
	Query        string       `json:"query,omitempty"`
	Category     string       `json:"category,omitempty"`
	Markets      []marketView `json:"markets,omitempty"`
	TotalResults int          `json:"total_results,omitempty"`
}

// seedMarkets simulates the markets that already exist on the website. A real
// deployment would query the market backend instead.
func seedMarkets() []market {
	return []market{
		{
			ID:             "mkt-fed-rates-2026",
			Question:       "Will the Fed cut interest rates by March 2026?",
			Description:    "Resolves YES if the Federal Reserve announces a rate cut before March 31, 2026.",
			Category:       "economics",
			ResolutionDate: "2026-03-31",
			CreatedAt:      "2025-12-01",
			YesProbability: 0.65,
			NoProbability:  0.35,
			Volume:         125000,
			Traders:        1832,
			Status:         statusOpen,
		},
		{
			ID:             "mkt-btc-100k-2026",
			Question:       "Will Bitcoin reach $100,000 by end of 2026?",
			Description:    "Resolves YES if BTC/USD reaches $100,000 on any major exchange before Dec 31, 2026.",
			Category:       "crypto",
			ResolutionDate: "2026-12-31",
			CreatedAt:      "2025-11-15",
			YesProbability: 0.72,
			NoProbability:  0.28,
			Volume:         890000,
			Traders:        5621,
			Status:         statusOpen,
		},
		{
			ID:             "mkt-taiwan-2026",
			Question:       "Will China invade Taiwan by end of 2026?",
			Description:    "Resolves YES if Chinese military forces conduct an armed invasion of Taiwan before Dec 31, 2026.",
			Category:       "world-events",
			ResolutionDate: "2026-12-31",
			CreatedAt:      "2025-10-01",
			YesProbability: 0.08,
			NoProbability:  0.92,
			Volume:         2100000,
			Traders:        12453,
			Status:         statusOpen,
		},
	}
}
