// Package opentable is the restaurant reservation plugin: it searches a
// sandbox OpenTable inventory and books tables.
package opentable

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai/jsonschema"

	"github.com/lueurxax/mention-bot/internal/plugin"
)

const (
	pluginID = "opentable"

	maxSearchResults = 4
	maxShownTimes    = 4

	// a slot counts as available when its hour is within this many hours of
	// the requested time
	availabilityWindowHours = 2

	defaultTime      = "19:00"
	defaultPartySize = 2

	confirmationChars = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	confirmationLen   = 6
)

// timezoneCities maps substrings of a city name to a timezone abbreviation.
// Order matters, first match wins.
var timezoneCities = []struct {
	zone   string
	cities []string
}{
	{"ET", []string{"new york", "nyc", "manhattan", "brooklyn", "miami", "atlanta", "boston", "philadelphia", "washington dc", "dc"}},
	{"CT", []string{"chicago", "houston", "dallas", "austin", "san antonio", "nashville", "new orleans", "minneapolis"}},
	{"MT", []string{"denver", "phoenix", "salt lake", "albuquerque"}},
	{"PT", []string{"los angeles", "la", "san francisco", "sf", "seattle", "portland", "san diego", "las vegas", "honolulu"}},
	{"HT", []string{"honolulu", "hawaii", "maui"}},
}

type Plugin struct {
	sandbox bool
	rand    func() float64
	now     func() time.Time
}

func New() *Plugin {
	return &Plugin{
		rand: rand.Float64, //nolint:gosec // confirmation numbers do not need crypto randomness
		now:  time.Now,
	}
}

func (p *Plugin) ID() string   { return pluginID }
func (p *Plugin) Name() string { return "OpenTable Reservation Bot" }
func (p *Plugin) Description() string {
	return "A restaurant assistant that helps users find restaurants and make reservations powered by OpenTable."
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
			Name:        "search_restaurants",
			Description: "Search for restaurants by location, cuisine, date, time, and party size. Use this to find available restaurants.",
			Parameters: jsonschema.Definition{
				Type: jsonschema.Object,
				Properties: map[string]jsonschema.Definition{
					"location": {
						Type:        jsonschema.String,
						Description: `City or neighborhood (e.g., "New York", "Manhattan", "San Francisco")`,
					},
					"cuisine": {
						Type:        jsonschema.String,
						Description: `Type of cuisine (e.g., "Italian", "Japanese", "Steakhouse", "Mexican")`,
					},
					"date": {
						Type:        jsonschema.String,
						Description: "Date for reservation in YYYY-MM-DD format",
					},
					"time": {
						Type:        jsonschema.String,
						Description: `Preferred time in HH:MM format (24-hour), e.g., "19:00" for 7 PM`,
					},
					"party_size": {
						Type:        jsonschema.Number,
						Description: "Number of guests (1-20)",
					},
				},
				Required: []string{"location"},
			},
		},
		{
			Name:        "make_reservation",
			Description: "Make a reservation at a specific restaurant. Use this after the user confirms which restaurant they want.",
			Parameters: jsonschema.Definition{
				Type: jsonschema.Object,
				Properties: map[string]jsonschema.Definition{
					"restaurant_id": {
						Type:        jsonschema.String,
						Description: "The restaurant ID from search results",
					},
					"restaurant_name": {
						Type:        jsonschema.String,
						Description: "Name of the restaurant",
					},
					"date": {
						Type:        jsonschema.String,
						Description: "Date for reservation in YYYY-MM-DD format",
					},
					"time": {
						Type:        jsonschema.String,
						Description: "Time for reservation in HH:MM format (24-hour)",
					},
					"party_size": {
						Type:        jsonschema.Number,
						Description: "Number of guests",
					},
					"special_requests": {
						Type:        jsonschema.String,
						Description: "Any special requests (birthday, anniversary, dietary restrictions)",
					},
				},
				Required: []string{"restaurant_id", "restaurant_name", "date", "time", "party_size"},
			},
		},
		{
			Name:        "check_availability",
			Description: "Check available time slots for a specific restaurant.",
			Parameters: jsonschema.Definition{
				Type: jsonschema.Object,
				Properties: map[string]jsonschema.Definition{
					"restaurant_id": {
						Type:        jsonschema.String,
						Description: "The restaurant ID",
					},
					"date": {
						Type:        jsonschema.String,
						Description: "Date to check in YYYY-MM-DD format",
					},
					"party_size": {
						Type:        jsonschema.Number,
						Description: "Number of guests",
					},
				},
				Required: []string{"restaurant_id", "date", "party_size"},
			},
		},
	}
}

func (p *Plugin) ExecuteTool(_ context.Context, call plugin.ToolCall) (*plugin.ToolResult, error) {
	switch call.Name {
	case "search_restaurants":
		return p.searchRestaurants(call.Arguments)
	case "check_availability":
		return p.checkAvailability(call.Arguments)
	case "make_reservation":
		return p.makeReservation(call.Arguments)
	default:
		return &plugin.ToolResult{Success: false, Error: "Unknown tool: " + call.Name}, nil
	}
}

func (p *Plugin) searchRestaurants(args map[string]any) (*plugin.ToolResult, error) {
	location, ok := args["location"].(string)
	if !ok || location == "" {
		return nil, errors.New("search_restaurants requires a location")
	}

	cuisine := stringArg(args, "cuisine")

	date := stringArg(args, "date")
	if date == "" {
		date = p.now().Format("2006-01-02")
	}

	reqTime := stringArg(args, "time")
	if reqTime == "" {
		reqTime = defaultTime
	}

	partySize := intArg(args, "party_size", defaultPartySize)

	reqHour := hourOf(reqTime)

	var views []restaurantView

	for _, r := range getRestaurants(location, cuisine) {
		if !hasSlotNear(r.AvailableTimes, reqHour) {
			continue
		}

		times := r.AvailableTimes
		if len(times) > maxShownTimes {
			times = times[:maxShownTimes]
		}

		views = append(views, restaurantView{
			ID:             r.ID,
			Name:           r.Name,
			Cuisine:        r.Cuisine,
			Neighborhood:   r.Neighborhood,
			City:           r.City,
			Rating:         r.Rating,
			Reviews:        r.Reviews,
			PriceRange:     r.PriceRange,
			AvailableTimes: formatAvailableTimes(times),
		})

		if len(views) == maxSearchResults {
			break
		}
	}

	return &plugin.ToolResult{
		Success: true,
		Data: &searchResult{
			Type:          "restaurants",
			Location:      location,
			Timezone:      timezoneForCity(location),
			Cuisine:       cuisine,
			Date:          date,
			Time:          reqTime,
			TimeFormatted: formatTime(reqTime, ""),
			PartySize:     partySize,
			Restaurants:   views,
		},
	}, nil
}

func (p *Plugin) checkAvailability(args map[string]any) (*plugin.ToolResult, error) {
	restaurantID, ok := args["restaurant_id"].(string)
	if !ok || restaurantID == "" {
		return nil, errors.New("check_availability requires a restaurant_id")
	}

	r := findRestaurant(restaurantID)
	if r == nil {
		return &plugin.ToolResult{Success: false, Error: "Restaurant not found"}, nil
	}

	return &plugin.ToolResult{
		Success: true,
		Data: &availabilityResult{
			Type:           "availability",
			RestaurantID:   restaurantID,
			RestaurantName: r.Name,
			City:           r.City,
			Timezone:       timezoneForCity(r.City),
			Date:           stringArg(args, "date"),
			PartySize:      intArg(args, "party_size", defaultPartySize),
			AvailableTimes: formatAvailableTimes(r.AvailableTimes),
		},
	}, nil
}

func (p *Plugin) makeReservation(args map[string]any) (*plugin.ToolResult, error) {
	restaurantID, ok := args["restaurant_id"].(string)
	if !ok || restaurantID == "" {
		return nil, errors.New("make_reservation requires a restaurant_id")
	}

	r := findRestaurant(restaurantID)
	if r == nil {
		// the model occasionally books a restaurant the sandbox never
		// returned, honour it with plausible details
		r = &restaurant{
			ID:         restaurantID,
			Name:       stringArg(args, "restaurant_name"),
			Cuisine:    "Restaurant",
			Rating:     4.5,
			Reviews:    100,
			PriceRange: "$$$",
		}
	}

	date := stringArg(args, "date")
	resTime := stringArg(args, "time")

	return &plugin.ToolResult{
		Success: true,
		Data: &reservationResult{
			Type:               "reservation",
			ConfirmationNumber: p.confirmationNumber(),
			Restaurant: reservedRestaurant{
				ID:           r.ID,
				Name:         r.Name,
				Cuisine:      r.Cuisine,
				Neighborhood: r.Neighborhood,
				City:         r.City,
				Address:      r.Address,
				Phone:        r.Phone,
				Rating:       r.Rating,
				PriceRange:   r.PriceRange,
			},
			Date:            date,
			DateFormatted:   formatDate(date),
			Time:            resTime,
			TimeFormatted:   formatTime(resTime, r.City),
			Timezone:        timezoneForCity(r.City),
			PartySize:       intArg(args, "party_size", defaultPartySize),
			SpecialRequests: stringArg(args, "special_requests"),
		},
	}, nil
}

func (p *Plugin) ExtractStorableData(results []plugin.ToolResult, finalMessage string) *plugin.StorableData {
	// reservation confirmations beat search results
	for _, result := range results {
		if !result.Success || result.Data == nil {
			continue
		}

		data, ok := result.Data.(*reservationResult)
		if !ok {
			continue
		}

		location := data.Restaurant.Neighborhood
		if location == "" {
			location = data.Restaurant.Cuisine
		}

		return &plugin.StorableData{
			Title:    data.Restaurant.Name,
			Subtitle: data.DateFormatted + " at " + data.TimeFormatted,
			PrimaryItem: &plugin.PrimaryItem{
				Name:   fmt.Sprintf("Table for %d", data.PartySize),
				Price:  data.Restaurant.PriceRange,
				Rating: data.Restaurant.Rating,
			},
			SecondaryItem: &plugin.SecondaryItem{
				Title: "Confirmation: " + data.ConfirmationNumber,
				Price: location,
			},
			ActionURL: restaurantURL(data.Restaurant.ID),
			Metadata: map[string]any{
				"type":                "reservation",
				"confirmation_number": data.ConfirmationNumber,
				"restaurant":          data.Restaurant,
				"date":                data.Date,
				"date_formatted":      data.DateFormatted,
				"time":                data.Time,
				"time_formatted":      data.TimeFormatted,
				"timezone":            data.Timezone,
				"party_size":          data.PartySize,
				"special_requests":    data.SpecialRequests,
			},
		}
	}

	for _, result := range results {
		if !result.Success || result.Data == nil {
			continue
		}

		data, ok := result.Data.(*searchResult)
		if !ok || len(data.Restaurants) == 0 {
			continue
		}

		selected := pickMentioned(data.Restaurants, finalMessage)

		neighborhood := selected.Neighborhood
		if neighborhood == "" {
			neighborhood = data.Location
		}

		return &plugin.StorableData{
			Title:    selected.Name,
			Subtitle: selected.Cuisine + " · " + neighborhood,
			PrimaryItem: &plugin.PrimaryItem{
				Name:   selected.Name,
				Price:  selected.PriceRange,
				Rating: selected.Rating,
			},
			SecondaryItem: &plugin.SecondaryItem{
				Title: selected.Cuisine,
				Price: selected.Neighborhood,
			},
			ActionURL: restaurantURL(selected.ID),
			Metadata: map[string]any{
				"type":       "search",
				"restaurant": selected,
				"search_params": map[string]any{
					"location":   data.Location,
					"cuisine":    data.Cuisine,
					"date":       data.Date,
					"time":       data.Time,
					"party_size": data.PartySize,
				},
			},
		}
	}

	return nil
}

func (p *Plugin) confirmationNumber() string {
	var b strings.Builder

	b.WriteString("OT-")

	for i := 0; i < confirmationLen; i++ {
		b.WriteByte(confirmationChars[int(p.rand()*float64(len(confirmationChars)))])
	}

	return b.String()
}

// getRestaurants resolves a location to its inventory, falling back to a
// partial city match and then to the defaults.
func getRestaurants(location, cuisine string) []restaurant {
	normalized := strings.ToLower(strings.TrimSpace(location))

	restaurants, ok := restaurantData[normalized]
	if !ok {
		for city, data := range restaurantData {
			if strings.Contains(normalized, city) || strings.Contains(city, normalized) {
				restaurants = data
				break
			}
		}
	}

	if restaurants == nil {
		restaurants = defaultRestaurants
	}

	if cuisine != "" {
		cuisineLower := strings.ToLower(cuisine)

		var filtered []restaurant

		for _, r := range restaurants {
			if strings.Contains(strings.ToLower(r.Cuisine), cuisineLower) {
				filtered = append(filtered, r)
			}
		}

		if len(filtered) > 0 {
			return filtered
		}
	}

	return restaurants
}

func restaurantURL(id string) string {
	return "https://www.opentable.com/r/" + id
}

func findRestaurant(id string) *restaurant {
	for _, restaurants := range restaurantData {
		for i := range restaurants {
			if restaurants[i].ID == id {
				return &restaurants[i]
			}
		}
	}

	for i := range defaultRestaurants {
		if defaultRestaurants[i].ID == id {
			return &defaultRestaurants[i]
		}
	}

	return nil
}

// pickMentioned returns the search hit whose name appears in the model's
// reply, defaulting to the first hit.
func pickMentioned(restaurants []restaurantView, message string) restaurantView {
	if message == "" {
		return restaurants[0]
	}

	messageNorm := normalizeForMatch(message)

	for _, r := range restaurants {
		if strings.Contains(messageNorm, normalizeForMatch(r.Name)) {
			return r
		}
	}

	return restaurants[0]
}

var (
	apostrophes = regexp.MustCompile("[’'`]")
	nonAlnum    = regexp.MustCompile(`[^a-z0-9\s]`)
	multiSpaces = regexp.MustCompile(`\s+`)
)

func normalizeForMatch(s string) string {
	s = strings.ToLower(s)
	s = apostrophes.ReplaceAllString(s, "")
	s = nonAlnum.ReplaceAllString(s, " ")
	s = multiSpaces.ReplaceAllString(s, " ")

	return strings.TrimSpace(s)
}

func hasSlotNear(times []string, reqHour int) bool {
	for _, t := range times {
		diff := hourOf(t) - reqHour
		if diff < 0 {
			diff = -diff
		}

		if diff <= availabilityWindowHours {
			return true
		}
	}

	return false
}

func hourOf(t string) int {
	hour, _ := strconv.Atoi(strings.SplitN(t, ":", 2)[0])
	return hour
}

func timezoneForCity(city string) string {
	cityLower := strings.ToLower(city)

	for _, tz := range timezoneCities {
		for _, c := range tz.cities {
			if strings.Contains(cityLower, c) {
				return tz.zone
			}
		}
	}

	return ""
}

// formatTime renders a 24-hour HH:MM as 12-hour with AM/PM, appending the
// city's timezone abbreviation when a city is given.
func formatTime(t, city string) string {
	parts := strings.SplitN(t, ":", 2)
	if len(parts) != 2 {
		return t
	}

	hours, err := strconv.Atoi(parts[0])
	if err != nil {
		return t
	}

	minutes, err := strconv.Atoi(parts[1])
	if err != nil {
		return t
	}

	period := "AM"
	if hours >= 12 {
		period = "PM"
	}

	hour12 := hours % 12
	if hour12 == 0 {
		hour12 = 12
	}

	timeStr := fmt.Sprintf("%d:%02d %s", hour12, minutes, period)

	if city != "" {
		if tz := timezoneForCity(city); tz != "" {
			return timeStr + " " + tz
		}
	}

	return timeStr
}

func formatAvailableTimes(times []string) []string {
	formatted := make([]string, len(times))

	for i, t := range times {
		formatted[i] = formatTime(t, "")
	}

	return formatted
}

func formatDate(dateStr string) string {
	date, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		return dateStr
	}

	return date.Format("Mon, Jan 2")
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
