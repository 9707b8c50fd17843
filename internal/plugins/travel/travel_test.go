package travel

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lueurxax/mention-bot/internal/plugin"
)

func newTestPlugin(t *testing.T) *Plugin {
	t.Helper()

	p := New()
	require.NoError(t, p.Initialize(context.Background(), plugin.Config{SandboxMode: true}))

	return p
}

func TestSearchHotels_Miami(t *testing.T) {
	p := newTestPlugin(t)

	result, err := p.ExecuteTool(context.Background(), plugin.ToolCall{
		Name: "search_hotels",
		Arguments: map[string]any{
			"destination": "Miami",
			"checkin":     "2026-03-10",
			"checkout":    "2026-03-13",
		},
	})
	require.NoError(t, err)
	require.True(t, result.Success)

	data, ok := result.Data.(*hotelsResult)
	require.True(t, ok)

	assert.Equal(t, "hotels", data.Type)
	assert.Equal(t, "Miami", data.Destination)

	require.Len(t, data.Items, 3)

	first := data.Items[0]
	assert.Equal(t, "Fontainebleau Miami Beach", first.Name)
	assert.Equal(t, 289, first.PricePerNight)
	assert.Equal(t, 867, first.TotalPrice)
	assert.Equal(t, 8.6, first.Rating)
	assert.Equal(t, []string{"Pool", "Spa", "Beach Access"}, first.Amenities)
	assert.Contains(t, first.BookingURL, "https://www.expedia.com/Hotel-Search?")
	assert.Contains(t, first.BookingURL, "destination=Miami")
	assert.Contains(t, first.BookingURL, "affcid=xbot-framework")
	assert.Contains(t, first.BookingURL, "startDate=2026-03-10")
}

func TestSearchHotels_MissingDestination(t *testing.T) {
	p := newTestPlugin(t)

	_, err := p.ExecuteTool(context.Background(), plugin.ToolCall{
		Name:      "search_hotels",
		Arguments: map[string]any{"checkin": "2026-03-10", "checkout": "2026-03-13"},
	})
	require.Error(t, err)
}

func TestSearchHotels_AliasResolution(t *testing.T) {
	p := newTestPlugin(t)

	result, err := p.ExecuteTool(context.Background(), plugin.ToolCall{
		Name: "search_hotels",
		Arguments: map[string]any{
			"destination": "South Beach",
			"checkin":     "2026-03-10",
			"checkout":    "2026-03-11",
		},
	})
	require.NoError(t, err)

	data, ok := result.Data.(*hotelsResult)
	require.True(t, ok)

	require.NotEmpty(t, data.Items)
	assert.Equal(t, "Fontainebleau Miami Beach", data.Items[0].Name)
}

func TestSearchHotels_UnknownDestinationUsesDefaults(t *testing.T) {
	p := newTestPlugin(t)

	result, err := p.ExecuteTool(context.Background(), plugin.ToolCall{
		Name: "search_hotels",
		Arguments: map[string]any{
			"destination": "Reykjavik",
			"checkin":     "2026-03-10",
			"checkout":    "2026-03-13",
		},
	})
	require.NoError(t, err)

	data, ok := result.Data.(*hotelsResult)
	require.True(t, ok)

	require.Len(t, data.Items, 2)
	assert.Equal(t, "Grand Hotel & Resort", data.Items[0].Name)
}

func TestSearchVacationRentals_FiltersByCapacity(t *testing.T) {
	p := newTestPlugin(t)

	result, err := p.ExecuteTool(context.Background(), plugin.ToolCall{
		Name: "search_vacation_rentals",
		Arguments: map[string]any{
			"destination": "Miami",
			"checkin":     "2026-03-10",
			"checkout":    "2026-03-13",
			"guests":      float64(4),
			"bedrooms":    float64(2),
		},
	})
	require.NoError(t, err)

	data, ok := result.Data.(*rentalsResult)
	require.True(t, ok)

	// the one-bedroom studio sleeps two and is filtered out
	require.Len(t, data.Items, 1)
	assert.Equal(t, "Luxury Oceanfront Condo with Stunning Views", data.Items[0].Name)
	assert.Equal(t, 975, data.Items[0].TotalPrice)
	assert.Contains(t, data.Items[0].BookingURL, "https://www.vrbo.com/search?")
}

func TestSearchCarRentals(t *testing.T) {
	p := newTestPlugin(t)

	result, err := p.ExecuteTool(context.Background(), plugin.ToolCall{
		Name: "search_car_rentals",
		Arguments: map[string]any{
			"location":     "Miami",
			"pickup_date":  "2026-03-10",
			"dropoff_date": "2026-03-12",
		},
	})
	require.NoError(t, err)

	data, ok := result.Data.(*carsResult)
	require.True(t, ok)

	assert.Equal(t, "car_rentals", data.Type)
	require.Len(t, data.Items, 3)

	first := data.Items[0]
	assert.Equal(t, "Hertz", first.Company)
	assert.Equal(t, "Economy", first.CarType)
	assert.Equal(t, "Nissan Versa or similar", first.CarName)
	assert.Equal(t, 90, first.TotalPrice)
	assert.Contains(t, first.BookingURL, "https://www.expedia.com/carsearch?")
	assert.Contains(t, first.BookingURL, "locn=Miami")
}

func TestSearchActivities_AliasedDestination(t *testing.T) {
	p := newTestPlugin(t)

	result, err := p.ExecuteTool(context.Background(), plugin.ToolCall{
		Name: "search_activities",
		Arguments: map[string]any{
			"destination": "Maui",
			"start_date":  "2026-03-10",
			"end_date":    "2026-03-13",
		},
	})
	require.NoError(t, err)

	data, ok := result.Data.(*activitiesResult)
	require.True(t, ok)

	require.Len(t, data.Items, 3)

	first := data.Items[0]
	assert.Equal(t, "Snorkeling Tour to Molokini Crater", first.Title)
	assert.Equal(t, "$129/person", first.Price)
	assert.Equal(t, "https://www.expedia.com/things-to-do/snorkeling-tour-to-molokini-crater.aact-hi-001.activity-details?affcid=xbot-framework", first.BookingURL)
}

func TestExecuteTool_Unknown(t *testing.T) {
	p := newTestPlugin(t)

	result, err := p.ExecuteTool(context.Background(), plugin.ToolCall{Name: "book_flight"})
	require.NoError(t, err)

	assert.False(t, result.Success)
	assert.Equal(t, "Unknown tool: book_flight", result.Error)
}

func TestCalculateNights(t *testing.T) {
	tests := []struct {
		name     string
		checkin  string
		checkout string
		want     int
	}{
		{"three nights", "2026-03-10", "2026-03-13", 3},
		{"same day", "2026-03-10", "2026-03-10", 1},
		{"malformed checkin", "soon", "2026-03-13", 3},
		{"malformed checkout", "2026-03-10", "later", 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, calculateNights(tt.checkin, tt.checkout))
		})
	}
}

func TestExtractStorableData_HotelAndActivity(t *testing.T) {
	p := newTestPlugin(t)

	hotels, err := p.ExecuteTool(context.Background(), plugin.ToolCall{
		Name: "search_hotels",
		Arguments: map[string]any{
			"destination": "Miami",
			"checkin":     "2026-03-10",
			"checkout":    "2026-03-13",
		},
	})
	require.NoError(t, err)

	activities, err := p.ExecuteTool(context.Background(), plugin.ToolCall{
		Name: "search_activities",
		Arguments: map[string]any{
			"destination": "Miami",
			"start_date":  "2026-03-10",
			"end_date":    "2026-03-13",
		},
	})
	require.NoError(t, err)

	data := p.ExtractStorableData([]plugin.ToolResult{*hotels, *activities}, "")
	require.NotNil(t, data)

	assert.Equal(t, "Miami", data.Title)

	require.NotNil(t, data.PrimaryItem)
	assert.Equal(t, "Fontainebleau Miami Beach", data.PrimaryItem.Name)
	assert.Equal(t, "$289/night", data.PrimaryItem.Price)
	assert.Equal(t, 8.6, data.PrimaryItem.Rating)

	require.NotNil(t, data.SecondaryItem)
	assert.Equal(t, "Everglades Airboat Tour & Wildlife Show", data.SecondaryItem.Title)
	assert.Equal(t, "$49/person", data.SecondaryItem.Price)

	// the action link points at the hotel search, not the activity
	assert.Contains(t, data.ActionURL, "Hotel-Search")
}

func TestExtractStorableData_ActivityOnly(t *testing.T) {
	p := newTestPlugin(t)

	activities, err := p.ExecuteTool(context.Background(), plugin.ToolCall{
		Name: "search_activities",
		Arguments: map[string]any{
			"destination": "Miami",
			"start_date":  "2026-03-10",
			"end_date":    "2026-03-13",
		},
	})
	require.NoError(t, err)

	data := p.ExtractStorableData([]plugin.ToolResult{*activities}, "")
	require.NotNil(t, data)

	assert.Nil(t, data.PrimaryItem)
	require.NotNil(t, data.SecondaryItem)
	assert.Contains(t, data.ActionURL, "things-to-do")
}

func TestExtractStorableData_NoBookableResults(t *testing.T) {
	p := newTestPlugin(t)

	cars, err := p.ExecuteTool(context.Background(), plugin.ToolCall{
		Name: "search_car_rentals",
		Arguments: map[string]any{
			"location":     "Miami",
			"pickup_date":  "2026-03-10",
			"dropoff_date": "2026-03-12",
		},
	})
	require.NoError(t, err)

	assert.Nil(t, p.ExtractStorableData([]plugin.ToolResult{*cars}, ""))
	assert.Nil(t, p.ExtractStorableData(nil, ""))
}
