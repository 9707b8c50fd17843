package opentable

const systemPrompt = `You are a restaurant reservation assistant on X (Twitter).

ABSOLUTE RULE - TOOL USAGE IS MANDATORY:
You MUST call search_restaurants EVERY SINGLE TIME you suggest a restaurant.
- First suggestion? Call search_restaurants.
- User says "no"? Call search_restaurants AGAIN.
- User asks for something different? Call search_restaurants AGAIN.
- User asks for details? Call search_restaurants AGAIN.
- EVERY response that mentions a restaurant name MUST have a tool call first.
- NO EXCEPTIONS. NEVER suggest a restaurant without calling the tool first.

RESTAURANT NAMES - USE EXACT NAMES ONLY:
- After calling search_restaurants, pick ONE restaurant from the results
- Use the EXACT name returned by the tool - copy it precisely
- NEVER make up or modify restaurant names

RESERVATIONS:
- ONLY call make_reservation when user explicitly confirms (yes, book it, etc.)
- The confirmation number comes from the tool result

TIME FORMATTING:
- ALWAYS display times in 12-hour format with AM/PM (e.g., "7:00 PM" not "19:00")
- Infer timezone from the city (NYC = ET, LA/SF = PT, Chicago = CT, Denver = MT, etc.)
- Include timezone abbreviation when confirming reservations (e.g., "7:00 PM ET")
- If user's timezone is unclear and differs from restaurant location, ask to confirm

CONVERSATION STYLE:
- Be efficient - fulfill requests in the minimum steps possible
- Only ask clarifying questions when truly necessary (ambiguous time, missing party size, etc.)
- If user says "tonight at 7" - assume 7 PM, don't ask AM/PM
- If user provides a city, use that city's timezone
- Smart defaults: assume dinner (6-8 PM) if no time given, party of 2 if not specified

RESPONSE LIMITS:
- Max 150 characters when using tools (link gets appended automatically)
- Max 250 characters for general conversation

FLOW:
1. User wants restaurant → CALL search_restaurants → pick ONE from results
2. User says "no" or "different" → CALL search_restaurants AGAIN → pick different one
3. User confirms booking → CALL make_reservation → confirm with details

NEVER:
- Suggest a restaurant WITHOUT calling search_restaurants first
- Remember or reuse restaurants from previous messages
- Include URLs in your response - system adds them
- List multiple options - pick ONE best match
- Use 24-hour/military time format - ALWAYS use 12-hour with AM/PM`

type restaurant struct {
	ID             string
	Name           string
	Cuisine        string
	Neighborhood   string
	City           string
	Rating         float64
	Reviews        int
	PriceRange     string
	Address        string
	Phone          string
	AvailableTimes []string
}

// restaurantView is the shape search results expose to the model.
type restaurantView struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Cuisine        string   `json:"cuisine"`
	Neighborhood   string   `json:"neighborhood"`
	City           string   `json:"city"`
	Rating         float64  `json:"rating"`
	Reviews        int      `json:"reviews"`
	PriceRange     string   `json:"price_range"`
	AvailableTimes []string `json:"available_times"`
}

type searchResult struct {
	Type          string           `json:"type"`
	Location      string           `json:"location"`
	Timezone      string           `json:"timezone,omitempty"`
	Cuisine       string           `json:"cuisine,omitempty"`
	Date          string           `json:"date"`
	Time          string           `json:"time"`
	TimeFormatted string           `json:"time_formatted"`
	PartySize     int              `json:"party_size"`
	Restaurants   []restaurantView `json:"restaurants"`
}

type availabilityResult struct {
	Type           string   `json:"type"`
	RestaurantID   string   `json:"restaurant_id"`
	RestaurantName string   `json:"restaurant_name"`
	City           string   `json:"city"`
	Timezone       string   `json:"timezone,omitempty"`
	Date           string   `json:"date"`
	PartySize      int      `json:"party_size"`
	AvailableTimes []string `json:"available_times"`
}

type reservedRestaurant struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Cuisine      string  `json:"cuisine"`
	Neighborhood string  `json:"neighborhood"`
	City         string  `json:"city"`
	Address      string  `json:"address"`
	Phone        string  `json:"phone"`
	Rating       float64 `json:"rating"`
	PriceRange   string  `json:"price_range"`
}

type reservationResult struct {
	Type               string             `json:"type"`
	ConfirmationNumber string             `json:"confirmation_number"`
	Restaurant         reservedRestaurant `json:"restaurant"`
	Date               string             `json:"date"`
	DateFormatted      string             `json:"date_formatted"`
	Time               string             `json:"time"`
	TimeFormatted      string             `json:"time_formatted"`
	Timezone           string             `json:"timezone,omitempty"`
	PartySize          int                `json:"party_size"`
	SpecialRequests    string             `json:"special_requests,omitempty"`
}

// restaurantData simulates the OpenTable inventory per city. A real
// deployment would call the OpenTable API instead.
var restaurantData = map[string][]restaurant{
	"new york": {
		{ID: "ot-carbone-nyc", Name: "Carbone", Cuisine: "Italian", Neighborhood: "Greenwich Village", City: "New York", Rating: 4.8, Reviews: 2847, PriceRange: "$$$$", Address: "181 Thompson St", Phone: "(212) 254-3000", AvailableTimes: []string{"17:30", "18:00", "19:30", "20:00", "21:00"}},
		{ID: "ot-lartusi-nyc", Name: "L'Artusi", Cuisine: "Italian", Neighborhood: "West Village", City: "New York", Rating: 4.7, Reviews: 3215, PriceRange: "$$$", Address: "228 W 10th St", Phone: "(212) 255-5757", AvailableTimes: []string{"17:00", "18:00", "19:00", "20:00", "21:00"}},
		{ID: "ot-rubirosa-nyc", Name: "Rubirosa", Cuisine: "Italian", Neighborhood: "Nolita", City: "New York", Rating: 4.6, Reviews: 4521, PriceRange: "$$", Address: "235 Mulberry St", Phone: "(212) 965-0500", AvailableTimes: []string{"17:00", "18:00", "19:00", "20:00", "21:00"}},
		{ID: "ot-sushi-nakazawa-nyc", Name: "Sushi Nakazawa", Cuisine: "Japanese", Neighborhood: "West Village", City: "New York", Rating: 4.9, Reviews: 1893, PriceRange: "$$$$", Address: "23 Commerce St", Phone: "(212) 924-2212", AvailableTimes: []string{"17:30", "18:00", "20:00", "20:30"}},
		{ID: "ot-le-bernardin-nyc", Name: "Le Bernardin", Cuisine: "French", Neighborhood: "Midtown", City: "New York", Rating: 4.9, Reviews: 3421, PriceRange: "$$$$", Address: "155 W 51st St", Phone: "(212) 554-1515", AvailableTimes: []string{"17:00", "18:30", "19:00", "20:30"}},
		{ID: "ot-balthazar-nyc", Name: "Balthazar", Cuisine: "French Bistro", Neighborhood: "SoHo", City: "New York", Rating: 4.5, Reviews: 8765, PriceRange: "$$$", Address: "80 Spring St", Phone: "(212) 965-1414", AvailableTimes: []string{"12:00", "18:00", "19:00", "20:00", "21:00"}},
		{ID: "ot-peter-luger-nyc", Name: "Peter Luger", Cuisine: "Steakhouse", Neighborhood: "Williamsburg", City: "New York", Rating: 4.5, Reviews: 7832, PriceRange: "$$$$", Address: "178 Broadway", Phone: "(718) 387-7400", AvailableTimes: []string{"17:00", "18:00", "19:00", "20:00", "21:00"}},
		{ID: "ot-cosme-nyc", Name: "Cosme", Cuisine: "Mexican", Neighborhood: "Flatiron", City: "New York", Rating: 4.6, Reviews: 3892, PriceRange: "$$$", Address: "35 E 21st St", Phone: "(212) 913-9659", AvailableTimes: []string{"17:30", "18:30", "19:30", "20:30"}},
		{ID: "ot-gramercy-nyc", Name: "Gramercy Tavern", Cuisine: "American", Neighborhood: "Gramercy", City: "New York", Rating: 4.7, Reviews: 4532, PriceRange: "$$$", Address: "42 E 20th St", Phone: "(212) 477-0777", AvailableTimes: []string{"17:00", "18:00", "19:00", "20:00", "21:00"}},
	},
	"san francisco": {
		{ID: "ot-flour-water-sf", Name: "Flour + Water", Cuisine: "Italian", Neighborhood: "Mission", City: "San Francisco", Rating: 4.7, Reviews: 4521, PriceRange: "$$$", Address: "2401 Harrison St", Phone: "(415) 826-7000", AvailableTimes: []string{"17:30", "18:30", "19:30", "20:30"}},
		{ID: "ot-atelier-sf", Name: "Atelier Crenn", Cuisine: "French", Neighborhood: "Cow Hollow", City: "San Francisco", Rating: 4.9, Reviews: 1243, PriceRange: "$$$$", Address: "3127 Fillmore St", Phone: "(415) 440-0460", AvailableTimes: []string{"17:30", "20:00"}},
		{ID: "ot-omakase-sf", Name: "Omakase", Cuisine: "Japanese", Neighborhood: "SOMA", City: "San Francisco", Rating: 4.8, Reviews: 1543, PriceRange: "$$$$", Address: "665 Townsend St", Phone: "(415) 865-0633", AvailableTimes: []string{"18:00", "20:30"}},
		{ID: "ot-mister-jius-sf", Name: "Mister Jiu's", Cuisine: "Chinese", Neighborhood: "Chinatown", City: "San Francisco", Rating: 4.7, Reviews: 1987, PriceRange: "$$$", Address: "28 Waverly Pl", Phone: "(415) 857-9688", AvailableTimes: []string{"17:30", "18:30", "19:30", "20:30"}},
		{ID: "ot-nopalito-sf", Name: "Nopalito", Cuisine: "Mexican", Neighborhood: "Inner Sunset", City: "San Francisco", Rating: 4.6, Reviews: 3214, PriceRange: "$$", Address: "1224 9th Ave", Phone: "(415) 233-9966", AvailableTimes: []string{"11:30", "17:30", "18:30", "19:30", "20:30"}},
		{ID: "ot-house-prime-sf", Name: "House of Prime Rib", Cuisine: "Steakhouse", Neighborhood: "Nob Hill", City: "San Francisco", Rating: 4.6, Reviews: 6543, PriceRange: "$$$", Address: "1906 Van Ness Ave", Phone: "(415) 885-4605", AvailableTimes: []string{"17:00", "18:00", "19:00", "20:00"}},
	},
	"chicago": {
		{ID: "ot-alinea-chi", Name: "Alinea", Cuisine: "American", Neighborhood: "Lincoln Park", City: "Chicago", Rating: 4.9, Reviews: 2134, PriceRange: "$$$$", Address: "1723 N Halsted St", Phone: "(312) 867-0110", AvailableTimes: []string{"17:00", "20:00"}},
		{ID: "ot-girl-goat-chi", Name: "Girl & The Goat", Cuisine: "American", Neighborhood: "West Loop", City: "Chicago", Rating: 4.7, Reviews: 5432, PriceRange: "$$$", Address: "809 W Randolph St", Phone: "(312) 492-6262", AvailableTimes: []string{"17:00", "18:00", "19:00", "20:00", "21:00"}},
		{ID: "ot-frontera-chi", Name: "Frontera Grill", Cuisine: "Mexican", Neighborhood: "River North", City: "Chicago", Rating: 4.6, Reviews: 4521, PriceRange: "$$$", Address: "445 N Clark St", Phone: "(312) 661-1434", AvailableTimes: []string{"17:00", "18:00", "19:00", "20:00"}},
		{ID: "ot-giordanos-chi", Name: "Giordano's", Cuisine: "Italian", Neighborhood: "Loop", City: "Chicago", Rating: 4.4, Reviews: 8932, PriceRange: "$$", Address: "130 E Randolph St", Phone: "(312) 616-1200", AvailableTimes: []string{"11:00", "17:00", "18:00", "19:00", "20:00"}},
	},
}

// defaultRestaurants cover locations the sandbox inventory does not know.
var defaultRestaurants = []restaurant{
	{
		ID:             "ot-default-italian",
		Name:           "Trattoria Roma",
		Cuisine:        "Italian",
		Neighborhood:   "Downtown",
		City:           "City Center",
		Rating:         4.5,
		Reviews:        1234,
		PriceRange:     "$$$",
		Address:        "123 Main St",
		Phone:          "(555) 123-4567",
		AvailableTimes: []string{"17:00", "18:00", "19:00", "20:00", "21:00"},
	},
	{
		ID:             "ot-default-american",
		Name:           "The Local Kitchen",
		Cuisine:        "American",
		Neighborhood:   "Downtown",
		City:           "City Center",
		Rating:         4.4,
		Reviews:        2345,
		PriceRange:     "$$",
		Address:        "456 Oak Ave",
		Phone:          "(555) 234-5678",
		AvailableTimes: []string{"11:00", "12:00", "17:00", "18:00", "19:00", "20:00"},
	},
}
