package opentable

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lueurxax/mention-bot/internal/plugin"
)

func newTestPlugin(t *testing.T) *Plugin {
	t.Helper()

	p := New()
	p.rand = func() float64 { return 0.5 }
	p.now = func() time.Time { return time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC) }

	require.NoError(t, p.Initialize(context.Background(), plugin.Config{SandboxMode: true}))

	return p
}

func TestSearchRestaurants_Defaults(t *testing.T) {
	p := newTestPlugin(t)

	result, err := p.ExecuteTool(context.Background(), plugin.ToolCall{
		Name:      "search_restaurants",
		Arguments: map[string]any{"location": "New York"},
	})
	require.NoError(t, err)
	require.True(t, result.Success)

	data, ok := result.Data.(*searchResult)
	require.True(t, ok)

	assert.Equal(t, "restaurants", data.Type)
	assert.Equal(t, "2026-02-01", data.Date)
	assert.Equal(t, "19:00", data.Time)
	assert.Equal(t, "7:00 PM", data.TimeFormatted)
	assert.Equal(t, 2, data.PartySize)
	assert.Equal(t, "ET", data.Timezone)

	require.Len(t, data.Restaurants, 4)
	assert.Equal(t, "Carbone", data.Restaurants[0].Name)
	assert.Equal(t, []string{"5:30 PM", "6:00 PM", "7:30 PM", "8:00 PM"}, data.Restaurants[0].AvailableTimes)
}

func TestSearchRestaurants_CuisineFilter(t *testing.T) {
	p := newTestPlugin(t)

	result, err := p.ExecuteTool(context.Background(), plugin.ToolCall{
		Name:      "search_restaurants",
		Arguments: map[string]any{"location": "new york", "cuisine": "Japanese", "party_size": float64(4)},
	})
	require.NoError(t, err)

	data, ok := result.Data.(*searchResult)
	require.True(t, ok)

	require.Len(t, data.Restaurants, 1)
	assert.Equal(t, "Sushi Nakazawa", data.Restaurants[0].Name)
	assert.Equal(t, 4, data.PartySize)
}

func TestSearchRestaurants_PartialCityMatch(t *testing.T) {
	p := newTestPlugin(t)

	result, err := p.ExecuteTool(context.Background(), plugin.ToolCall{
		Name:      "search_restaurants",
		Arguments: map[string]any{"location": "San Francisco Bay Area"},
	})
	require.NoError(t, err)

	data, ok := result.Data.(*searchResult)
	require.True(t, ok)

	assert.Equal(t, "PT", data.Timezone)
	require.NotEmpty(t, data.Restaurants)
	assert.Equal(t, "San Francisco", data.Restaurants[0].City)
}

func TestSearchRestaurants_UnknownCityUsesDefaults(t *testing.T) {
	p := newTestPlugin(t)

	result, err := p.ExecuteTool(context.Background(), plugin.ToolCall{
		Name:      "search_restaurants",
		Arguments: map[string]any{"location": "Springfield"},
	})
	require.NoError(t, err)

	data, ok := result.Data.(*searchResult)
	require.True(t, ok)

	require.Len(t, data.Restaurants, 2)
	assert.Equal(t, "Trattoria Roma", data.Restaurants[0].Name)
	assert.Equal(t, "The Local Kitchen", data.Restaurants[1].Name)
}

func TestSearchRestaurants_TimeWindowFilters(t *testing.T) {
	p := newTestPlugin(t)

	result, err := p.ExecuteTool(context.Background(), plugin.ToolCall{
		Name:      "search_restaurants",
		Arguments: map[string]any{"location": "chicago", "time": "11:00"},
	})
	require.NoError(t, err)

	data, ok := result.Data.(*searchResult)
	require.True(t, ok)

	// only one restaurant serves lunch
	require.Len(t, data.Restaurants, 1)
	assert.Equal(t, "Giordano's", data.Restaurants[0].Name)
}

func TestSearchRestaurants_MissingLocation(t *testing.T) {
	p := newTestPlugin(t)

	_, err := p.ExecuteTool(context.Background(), plugin.ToolCall{
		Name:      "search_restaurants",
		Arguments: map[string]any{},
	})
	require.Error(t, err)
}

func TestCheckAvailability(t *testing.T) {
	p := newTestPlugin(t)

	result, err := p.ExecuteTool(context.Background(), plugin.ToolCall{
		Name: "check_availability",
		Arguments: map[string]any{
			"restaurant_id": "ot-alinea-chi",
			"date":          "2026-02-14",
			"party_size":    float64(2),
		},
	})
	require.NoError(t, err)
	require.True(t, result.Success)

	data, ok := result.Data.(*availabilityResult)
	require.True(t, ok)

	assert.Equal(t, "availability", data.Type)
	assert.Equal(t, "Alinea", data.RestaurantName)
	assert.Equal(t, "Chicago", data.City)
	assert.Equal(t, "CT", data.Timezone)
	assert.Equal(t, []string{"5:00 PM", "8:00 PM"}, data.AvailableTimes)
}

func TestCheckAvailability_NotFound(t *testing.T) {
	p := newTestPlugin(t)

	result, err := p.ExecuteTool(context.Background(), plugin.ToolCall{
		Name: "check_availability",
		Arguments: map[string]any{
			"restaurant_id": "ot-nowhere",
			"date":          "2026-02-14",
			"party_size":    float64(2),
		},
	})
	require.NoError(t, err)

	assert.False(t, result.Success)
	assert.Equal(t, "Restaurant not found", result.Error)
}

func TestMakeReservation_KnownRestaurant(t *testing.T) {
	p := newTestPlugin(t)

	result, err := p.ExecuteTool(context.Background(), plugin.ToolCall{
		Name: "make_reservation",
		Arguments: map[string]any{
			"restaurant_id":    "ot-carbone-nyc",
			"restaurant_name":  "Carbone",
			"date":             "2026-02-14",
			"time":             "19:30",
			"party_size":       float64(4),
			"special_requests": "anniversary",
		},
	})
	require.NoError(t, err)
	require.True(t, result.Success)

	data, ok := result.Data.(*reservationResult)
	require.True(t, ok)

	assert.Equal(t, "reservation", data.Type)
	assert.Equal(t, "OT-SSSSSS", data.ConfirmationNumber)
	assert.Equal(t, "Carbone", data.Restaurant.Name)
	assert.Equal(t, "181 Thompson St", data.Restaurant.Address)
	assert.Equal(t, "Sat, Feb 14", data.DateFormatted)
	assert.Equal(t, "7:30 PM ET", data.TimeFormatted)
	assert.Equal(t, "ET", data.Timezone)
	assert.Equal(t, 4, data.PartySize)
	assert.Equal(t, "anniversary", data.SpecialRequests)
}

func TestMakeReservation_UnknownRestaurantSynthesized(t *testing.T) {
	p := newTestPlugin(t)

	result, err := p.ExecuteTool(context.Background(), plugin.ToolCall{
		Name: "make_reservation",
		Arguments: map[string]any{
			"restaurant_id":   "ot-mystery",
			"restaurant_name": "Mystery Diner",
			"date":            "2026-03-01",
			"time":            "18:00",
			"party_size":      float64(2),
		},
	})
	require.NoError(t, err)
	require.True(t, result.Success)

	data, ok := result.Data.(*reservationResult)
	require.True(t, ok)

	assert.Equal(t, "Mystery Diner", data.Restaurant.Name)
	assert.Equal(t, "Restaurant", data.Restaurant.Cuisine)
	assert.Equal(t, 4.5, data.Restaurant.Rating)
	assert.Equal(t, "$$$", data.Restaurant.PriceRange)
	assert.Equal(t, "6:00 PM", data.TimeFormatted)
	assert.Empty(t, data.Timezone)
}

func TestExecuteTool_Unknown(t *testing.T) {
	p := newTestPlugin(t)

	result, err := p.ExecuteTool(context.Background(), plugin.ToolCall{Name: "order_takeout"})
	require.NoError(t, err)

	assert.False(t, result.Success)
	assert.Equal(t, "Unknown tool: order_takeout", result.Error)
}

func TestTimezoneForCity(t *testing.T) {
	tests := []struct {
		city string
		want string
	}{
		{"New York", "ET"},
		{"Atlanta", "ET"},
		{"Dallas", "CT"},
		{"Denver", "MT"},
		{"Seattle", "PT"},
		{"downtown Los Angeles", "PT"},
		{"Tokyo", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.city, func(t *testing.T) {
			assert.Equal(t, tt.want, timezoneForCity(tt.city))
		})
	}
}

func TestFormatTime(t *testing.T) {
	tests := []struct {
		name string
		in   string
		city string
		want string
	}{
		{"evening", "19:00", "", "7:00 PM"},
		{"after midnight", "00:30", "", "12:30 AM"},
		{"noon", "12:05", "", "12:05 PM"},
		{"with timezone", "9:00", "Chicago", "9:00 AM CT"},
		{"unknown timezone", "9:00", "Tokyo", "9:00 AM"},
		{"malformed", "late", "", "late"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, formatTime(tt.in, tt.city))
		})
	}
}

func TestFormatDate(t *testing.T) {
	assert.Equal(t, "Fri, Dec 25", formatDate("2026-12-25"))
	assert.Equal(t, "sometime", formatDate("sometime"))
}

func TestExtractStorableData_ReservationBeatsSearch(t *testing.T) {
	p := newTestPlugin(t)

	search, err := p.ExecuteTool(context.Background(), plugin.ToolCall{
		Name:      "search_restaurants",
		Arguments: map[string]any{"location": "new york"},
	})
	require.NoError(t, err)

	reservation, err := p.ExecuteTool(context.Background(), plugin.ToolCall{
		Name: "make_reservation",
		Arguments: map[string]any{
			"restaurant_id":   "ot-carbone-nyc",
			"restaurant_name": "Carbone",
			"date":            "2026-02-14",
			"time":            "19:30",
			"party_size":      float64(4),
		},
	})
	require.NoError(t, err)

	data := p.ExtractStorableData([]plugin.ToolResult{*search, *reservation}, "Booked!")
	require.NotNil(t, data)

	assert.Equal(t, "Carbone", data.Title)
	assert.Equal(t, "Sat, Feb 14 at 7:30 PM ET", data.Subtitle)

	require.NotNil(t, data.PrimaryItem)
	assert.Equal(t, "Table for 4", data.PrimaryItem.Name)
	assert.Equal(t, "$$$$", data.PrimaryItem.Price)
	assert.Equal(t, 4.8, data.PrimaryItem.Rating)

	require.NotNil(t, data.SecondaryItem)
	assert.Equal(t, "Confirmation: OT-SSSSSS", data.SecondaryItem.Title)
	assert.Equal(t, "Greenwich Village", data.SecondaryItem.Price)

	assert.Equal(t, "https://www.opentable.com/r/ot-carbone-nyc", data.ActionURL)
	assert.Equal(t, "reservation", data.Metadata["type"])
}

func TestExtractStorableData_SearchPicksMentionedRestaurant(t *testing.T) {
	p := newTestPlugin(t)

	search, err := p.ExecuteTool(context.Background(), plugin.ToolCall{
		Name:      "search_restaurants",
		Arguments: map[string]any{"location": "new york", "cuisine": "Italian"},
	})
	require.NoError(t, err)

	data := p.ExtractStorableData([]plugin.ToolResult{*search}, "Try L'Artusi in the West Village, great pasta.")
	require.NotNil(t, data)

	assert.Equal(t, "L'Artusi", data.Title)
	assert.Equal(t, "Italian · West Village", data.Subtitle)
	assert.Equal(t, "https://www.opentable.com/r/ot-lartusi-nyc", data.ActionURL)
	assert.Equal(t, "search", data.Metadata["type"])
}

func TestExtractStorableData_SearchFallsBackToFirst(t *testing.T) {
	p := newTestPlugin(t)

	search, err := p.ExecuteTool(context.Background(), plugin.ToolCall{
		Name:      "search_restaurants",
		Arguments: map[string]any{"location": "chicago"},
	})
	require.NoError(t, err)

	data := p.ExtractStorableData([]plugin.ToolResult{*search}, "Plenty of options downtown.")
	require.NotNil(t, data)
	assert.Equal(t, "Alinea", data.Title)
}

func TestExtractStorableData_NoUsableResults(t *testing.T) {
	p := newTestPlugin(t)

	assert.Nil(t, p.ExtractStorableData(nil, ""))
	assert.Nil(t, p.ExtractStorableData([]plugin.ToolResult{{Success: false, Error: "boom"}}, "msg"))
}
