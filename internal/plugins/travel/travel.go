// Package travel is the Expedia travel plugin: it recommends hotels, vacation
// rentals, rental cars and activities for a destination.
package travel

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/sashabaranov/go-openai/jsonschema"

	"github.com/lueurxax/mention-bot/internal/plugin"
)

const (
	pluginID = "expedia"

	maxItems = 3

	maxHotelAmenities = 3

	defaultGuests      = 2
	defaultTravelers   = 2
	defaultAffiliateID = "xbot-framework"

	expediaHomeURL = "https://www.expedia.com"
)

const systemPrompt = `You are a helpful travel assistant bot on X (Twitter). Users mention you with travel-related questions.

IMPORTANT: You operate in TWO modes:

## MODE 1: CONVERSATIONAL (default)
For general travel questions, advice, tips, or when the user is just chatting:
- Answer helpfully and conversationally
- Do NOT use the search tools
- Do NOT provide specific hotel/price recommendations
- Just have a natural conversation about travel
- Examples: "What's the best time to visit Japan?", "Is Paris worth visiting?", "Any tips for traveling with kids?"

## MODE 2: RECOMMENDATIONS
ONLY when the user explicitly asks for specific recommendations, bookings, hotels, or places to stay:
- Use the search tools to find real options
- Provide specific recommendations with prices
- Examples: "Find me a hotel in Miami", "I need recommendations for Austin", "Where should I stay in NYC?"

CRITICAL RESPONSE RULES:
- Keep responses under 180 characters when using tools
- Keep responses under 270 characters for conversation
- Be concise! Every character counts
- DO NOT include "[link]" or any placeholder text - the system automatically appends URLs
- DO NOT say "More details:" or "Click here:" - just end your message naturally
- Never use emojis

Example good response: "In Miami, stay at Fontainebleau for $289/night. Try the Everglades Airboat Tour for $49!"
Example bad response: "In Miami, stay at Fontainebleau for $289/night. More details: [link]"

Guidelines for recommendations:
- If dates aren't specified, use reasonable defaults (1-2 weeks from now, 3-night stay)
- Consider preferences: "romantic" → boutique hotels, "family" → vacation rentals, "budget" → affordable options`

type hotelItem struct {
	Name          string   `json:"name"`
	PricePerNight int      `json:"price_per_night"`
	TotalPrice    int      `json:"total_price"`
	Rating        float64  `json:"rating,omitempty"`
	Amenities     []string `json:"amenities"`
	BookingURL    string   `json:"booking_url"`
}

type rentalItem struct {
	Name          string  `json:"name"`
	PropertyType  string  `json:"property_type"`
	Bedrooms      int     `json:"bedrooms"`
	Sleeps        int     `json:"sleeps"`
	PricePerNight int     `json:"price_per_night"`
	TotalPrice    int     `json:"total_price"`
	Rating        float64 `json:"rating,omitempty"`
	BookingURL    string  `json:"booking_url"`
}

type carItem struct {
	Company     string   `json:"company"`
	CarType     string   `json:"car_type"`
	CarName     string   `json:"car_name"`
	PricePerDay int      `json:"price_per_day"`
	TotalPrice  int      `json:"total_price"`
	Features    []string `json:"features"`
	BookingURL  string   `json:"booking_url"`
}

type activityItem struct {
	Title      string  `json:"title"`
	Price      string  `json:"price"`
	Duration   string  `json:"duration,omitempty"`
	Rating     float64 `json:"rating,omitempty"`
	BookingURL string  `json:"booking_url"`
}

type hotelsResult struct {
	Type        string      `json:"type"`
	Destination string      `json:"destination"`
	Items       []hotelItem `json:"items"`
}

type rentalsResult struct {
	Type        string       `json:"type"`
	Destination string       `json:"destination"`
	Items       []rentalItem `json:"items"`
}

type carsResult struct {
	Type     string    `json:"type"`
	Location string    `json:"location"`
	Items    []carItem `json:"items"`
}

type activitiesResult struct {
	Type        string         `json:"type"`
	Destination string         `json:"destination"`
	Items       []activityItem `json:"items"`
}

type Plugin struct {
	affiliateID string
	sandbox     bool
}

func New() *Plugin {
	return &Plugin{affiliateID: defaultAffiliateID}
}

func (p *Plugin) ID() string   { return pluginID }
func (p *Plugin) Name() string { return "Expedia Travel Bot" }
func (p *Plugin) Description() string {
	return "A travel assistant that helps users find hotels, vacation rentals, car rentals, and activities powered by Expedia Group APIs."
}
func (p *Plugin) Version() string { return "1.0.0" }

func (p *Plugin) Initialize(_ context.Context, cfg plugin.Config) error {
	p.sandbox = cfg.SandboxMode

	return nil
}

func (p *Plugin) SystemPrompt() string {
	return systemPrompt
}

func (p *Plugin) Tools() []plugin.Tool {
	return []plugin.Tool{
		{
			Name:        "search_hotels",
			Description: "Search for hotels in a destination. Use this when the user wants hotel recommendations.",
			Parameters: jsonschema.Definition{
				Type: jsonschema.Object,
				Properties: map[string]jsonschema.Definition{
					"destination": {
						Type:        jsonschema.String,
						Description: `The city or destination to search for hotels (e.g., "Miami", "New York", "Paris")`,
					},
					"checkin": {
						Type:        jsonschema.String,
						Description: "Check-in date in YYYY-MM-DD format",
					},
					"checkout": {
						Type:        jsonschema.String,
						Description: "Check-out date in YYYY-MM-DD format",
					},
					"guests": {
						Type:        jsonschema.Number,
						Description: "Number of guests (default: 2)",
					},
				},
				Required: []string{"destination", "checkin", "checkout"},
			},
		},
		{
			Name:        "search_vacation_rentals",
			Description: "Search for vacation rentals (Vrbo) like houses, condos, villas. Use for family trips or groups wanting more space.",
			Parameters: jsonschema.Definition{
				Type: jsonschema.Object,
				Properties: map[string]jsonschema.Definition{
					"destination": {
						Type:        jsonschema.String,
						Description: "The city or destination to search",
					},
					"checkin": {
						Type:        jsonschema.String,
						Description: "Check-in date in YYYY-MM-DD format",
					},
					"checkout": {
						Type:        jsonschema.String,
						Description: "Check-out date in YYYY-MM-DD format",
					},
					"guests": {
						Type:        jsonschema.Number,
						Description: "Number of guests",
					},
					"bedrooms": {
						Type:        jsonschema.Number,
						Description: "Minimum number of bedrooms needed",
					},
				},
				Required: []string{"destination", "checkin", "checkout"},
			},
		},
		{
			Name:        "search_car_rentals",
			Description: "Search for rental cars. Use when users need transportation at their destination.",
			Parameters: jsonschema.Definition{
				Type: jsonschema.Object,
				Properties: map[string]jsonschema.Definition{
					"location": {
						Type:        jsonschema.String,
						Description: `Pickup location (city or airport code like "LAX", "Miami")`,
					},
					"pickup_date": {
						Type:        jsonschema.String,
						Description: "Pickup date in YYYY-MM-DD format",
					},
					"dropoff_date": {
						Type:        jsonschema.String,
						Description: "Drop-off date in YYYY-MM-DD format",
					},
				},
				Required: []string{"location", "pickup_date", "dropoff_date"},
			},
		},
		{
			Name:        "search_activities",
			Description: "Search for things to do, tours, and activities at a destination.",
			Parameters: jsonschema.Definition{
				Type: jsonschema.Object,
				Properties: map[string]jsonschema.Definition{
					"destination": {
						Type:        jsonschema.String,
						Description: "The city or destination to search for activities",
					},
					"start_date": {
						Type:        jsonschema.String,
						Description: "Start date in YYYY-MM-DD format",
					},
					"end_date": {
						Type:        jsonschema.String,
						Description: "End date in YYYY-MM-DD format",
					},
					"travelers": {
						Type:        jsonschema.Number,
						Description: "Number of travelers",
					},
				},
				Required: []string{"destination", "start_date", "end_date"},
			},
		},
	}
}

func (p *Plugin) ExecuteTool(_ context.Context, call plugin.ToolCall) (*plugin.ToolResult, error) {
	switch call.Name {
	case "search_hotels":
		return p.searchHotels(call.Arguments)
	case "search_vacation_rentals":
		return p.searchVacationRentals(call.Arguments)
	case "search_car_rentals":
		return p.searchCarRentals(call.Arguments)
	case "search_activities":
		return p.searchActivities(call.Arguments)
	default:
		return &plugin.ToolResult{Success: false, Error: "Unknown tool: " + call.Name}, nil
	}
}

func (p *Plugin) searchHotels(args map[string]any) (*plugin.ToolResult, error) {
	destination, ok := args["destination"].(string)
	if !ok || destination == "" {
		return nil, errors.New("search_hotels requires a destination")
	}

	checkin := stringArg(args, "checkin")
	checkout := stringArg(args, "checkout")
	nights := calculateNights(checkin, checkout)

	// sandbox inventory has no bookable property IDs, so every hotel links
	// to the destination search page
	searchURL := p.hotelSearchURL(destination, checkin, checkout)

	data := lookupInventory(destination)

	var items []hotelItem

	for _, h := range data.hotels {
		if len(items) == maxItems {
			break
		}

		amenities := h.Amenities
		if len(amenities) > maxHotelAmenities {
			amenities = amenities[:maxHotelAmenities]
		}

		items = append(items, hotelItem{
			Name:          h.Name,
			PricePerNight: h.PricePerNight,
			TotalPrice:    h.PricePerNight * nights,
			Rating:        h.GuestRating,
			Amenities:     amenities,
			BookingURL:    searchURL,
		})
	}

	return &plugin.ToolResult{
		Success: true,
		Data:    &hotelsResult{Type: "hotels", Destination: destination, Items: items},
	}, nil
}

func (p *Plugin) searchVacationRentals(args map[string]any) (*plugin.ToolResult, error) {
	destination, ok := args["destination"].(string)
	if !ok || destination == "" {
		return nil, errors.New("search_vacation_rentals requires a destination")
	}

	nights := calculateNights(stringArg(args, "checkin"), stringArg(args, "checkout"))
	guests := intArg(args, "guests", defaultGuests)
	bedrooms := intArg(args, "bedrooms", 0)
	searchURL := p.vrboSearchURL(destination)

	data := lookupInventory(destination)

	var items []rentalItem

	for _, r := range data.rentals {
		if len(items) == maxItems {
			break
		}

		if r.Sleeps < guests || r.Bedrooms < bedrooms {
			continue
		}

		items = append(items, rentalItem{
			Name:          r.Name,
			PropertyType:  r.PropertyType,
			Bedrooms:      r.Bedrooms,
			Sleeps:        r.Sleeps,
			PricePerNight: r.PricePerNight,
			TotalPrice:    r.PricePerNight * nights,
			Rating:        r.Rating,
			BookingURL:    searchURL,
		})
	}

	return &plugin.ToolResult{
		Success: true,
		Data:    &rentalsResult{Type: "vacation_rentals", Destination: destination, Items: items},
	}, nil
}

func (p *Plugin) searchCarRentals(args map[string]any) (*plugin.ToolResult, error) {
	location, ok := args["location"].(string)
	if !ok || location == "" {
		return nil, errors.New("search_car_rentals requires a location")
	}

	pickupDate := stringArg(args, "pickup_date")
	dropoffDate := stringArg(args, "dropoff_date")
	days := calculateNights(pickupDate, dropoffDate)
	searchURL := p.carSearchURL(location, pickupDate, dropoffDate)

	data := lookupInventory(location)

	var items []carItem

	for _, c := range data.cars {
		if len(items) == maxItems {
			break
		}

		items = append(items, carItem{
			Company:     c.Supplier,
			CarType:     c.Category,
			CarName:     c.Description,
			PricePerDay: c.PricePerDay,
			TotalPrice:  c.PricePerDay * days,
			Features:    c.Features,
			BookingURL:  searchURL,
		})
	}

	return &plugin.ToolResult{
		Success: true,
		Data:    &carsResult{Type: "car_rentals", Location: location, Items: items},
	}, nil
}

func (p *Plugin) searchActivities(args map[string]any) (*plugin.ToolResult, error) {
	destination, ok := args["destination"].(string)
	if !ok || destination == "" {
		return nil, errors.New("search_activities requires a destination")
	}

	data := lookupInventory(destination)

	var items []activityItem

	for _, a := range data.activities {
		if len(items) == maxItems {
			break
		}

		items = append(items, activityItem{
			Title:      a.Title,
			Price:      a.PriceFormatted,
			Duration:   a.Duration,
			Rating:     a.Rating,
			BookingURL: p.activityURL(a.ID, a.Title),
		})
	}

	return &plugin.ToolResult{
		Success: true,
		Data:    &activitiesResult{Type: "activities", Destination: destination, Items: items},
	}, nil
}

// ExtractStorableData folds all tool results into one recommendation card. A
// hotel hit takes the headline slot and the action link, an activity hit
// fills the second slot.
func (p *Plugin) ExtractStorableData(results []plugin.ToolResult, _ string) *plugin.StorableData {
	var (
		destination string
		hotel       *hotelItem
		act         *activityItem
	)

	actionURL := expediaHomeURL

	for _, result := range results {
		if !result.Success || result.Data == nil {
			continue
		}

		switch data := result.Data.(type) {
		case *hotelsResult:
			destination = data.Destination

			if hotel == nil && len(data.Items) > 0 {
				hotel = &data.Items[0]
				actionURL = hotel.BookingURL
			}
		case *rentalsResult:
			destination = data.Destination
		case *carsResult:
			destination = data.Location
		case *activitiesResult:
			destination = data.Destination

			if act == nil && len(data.Items) > 0 {
				act = &data.Items[0]
				if hotel == nil {
					actionURL = act.BookingURL
				}
			}
		}
	}

	if hotel == nil && act == nil {
		return nil
	}

	title := destination
	if title == "" {
		title = "Travel Recommendations"
	}

	stored := &plugin.StorableData{Title: title, ActionURL: actionURL}

	if hotel != nil {
		stored.PrimaryItem = &plugin.PrimaryItem{
			Name:   hotel.Name,
			Price:  fmt.Sprintf("$%d/night", hotel.PricePerNight),
			Rating: hotel.Rating,
		}
	}

	if act != nil {
		stored.SecondaryItem = &plugin.SecondaryItem{
			Title: act.Title,
			Price: act.Price,
		}
	}

	return stored
}

func (p *Plugin) hotelSearchURL(destination, checkin, checkout string) string {
	params := url.Values{}
	params.Set("destination", destination)
	params.Set("affcid", p.affiliateID)

	if checkin != "" {
		params.Set("startDate", checkin)
	}

	if checkout != "" {
		params.Set("endDate", checkout)
	}

	return expediaHomeURL + "/Hotel-Search?" + params.Encode()
}

func (p *Plugin) vrboSearchURL(destination string) string {
	params := url.Values{}
	params.Set("destination", destination)
	params.Set("affcid", p.affiliateID)

	return "https://www.vrbo.com/search?" + params.Encode()
}

func (p *Plugin) carSearchURL(location, pickupDate, dropoffDate string) string {
	params := url.Values{}
	params.Set("locn", location)
	params.Set("date1", pickupDate)
	params.Set("date2", dropoffDate)
	params.Set("affcid", p.affiliateID)

	return expediaHomeURL + "/carsearch?" + params.Encode()
}

var slugPattern = regexp.MustCompile("[^a-z0-9]+")

const maxSlugLen = 50

func (p *Plugin) activityURL(id, title string) string {
	slug := slugPattern.ReplaceAllString(strings.ToLower(title), "-")
	if len(slug) > maxSlugLen {
		slug = slug[:maxSlugLen]
	}

	return fmt.Sprintf("%s/things-to-do/%s.a%s.activity-details?affcid=%s", expediaHomeURL, slug, id, p.affiliateID)
}

func stringArg(args map[string]any, key string) string {
	s, _ := args[key].(string)
	return s
}

func intArg(args map[string]any, key string, def int) int {
	switch v := args[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	default:
		return def
	}
}
