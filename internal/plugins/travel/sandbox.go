package travel

import (
	"strings"
	"time"
)

type hotel struct {
	ID            string
	Name          string
	StarRating    float64
	GuestRating   float64
	ReviewCount   int
	Address       string
	City          string
	PricePerNight int
	Amenities     []string
}

type rental struct {
	ID            string
	Name          string
	PropertyType  string
	Bedrooms      int
	Bathrooms     int
	Sleeps        int
	PricePerNight int
	Rating        float64
	ReviewCount   int
	Amenities     []string
}

type car struct {
	ID          string
	Supplier    string
	Category    string
	Description string
	Passengers  int
	Bags        int
	PricePerDay int
	Features    []string
	Pickup      string
}

type activity struct {
	ID             string
	Title          string
	Description    string
	Duration       string
	Price          int
	PriceFormatted string
	Rating         float64
	ReviewCount    int
}

type inventory struct {
	hotels     []hotel
	rentals    []rental
	cars       []car
	activities []activity
}

// destinationData simulates the Expedia inventory per destination. A real
// deployment would call the Rapid, Vrbo, Cars and Activities APIs instead.
var destinationData = map[string]inventory{
	"miami": {
		hotels: []hotel{
			{ID: "7595", Name: "Fontainebleau Miami Beach", StarRating: 4.5, GuestRating: 8.6, ReviewCount: 12453, Address: "4441 Collins Ave", City: "Miami Beach", PricePerNight: 289, Amenities: []string{"Pool", "Spa", "Beach Access", "Restaurant", "Fitness Center"}},
			{ID: "1424757", Name: "The Setai Miami Beach", StarRating: 5, GuestRating: 9.2, ReviewCount: 3421, Address: "2001 Collins Ave", City: "Miami Beach", PricePerNight: 695, Amenities: []string{"Private Beach", "Spa", "Infinity Pool", "Fine Dining", "Butler Service"}},
			{ID: "13498", Name: "Hilton Miami Downtown", StarRating: 4, GuestRating: 8.2, ReviewCount: 5632, Address: "1601 Biscayne Blvd", City: "Miami", PricePerNight: 179, Amenities: []string{"Pool", "Restaurant", "Fitness Center", "Business Center", "WiFi"}},
		},
		rentals: []rental{
			{ID: "vrbo-123456", Name: "Luxury Oceanfront Condo with Stunning Views", PropertyType: "Condo", Bedrooms: 2, Bathrooms: 2, Sleeps: 6, PricePerNight: 325, Rating: 4.9, ReviewCount: 156, Amenities: []string{"Ocean View", "Pool", "Kitchen", "Parking", "WiFi", "A/C"}},
			{ID: "vrbo-234567", Name: "South Beach Art Deco Studio - Walk to Everything", PropertyType: "Apartment", Bedrooms: 1, Bathrooms: 1, Sleeps: 2, PricePerNight: 149, Rating: 4.7, ReviewCount: 89, Amenities: []string{"Kitchen", "WiFi", "A/C", "Washer/Dryer"}},
		},
		cars: []car{
			{ID: "car-001", Supplier: "Hertz", Category: "Economy", Description: "Nissan Versa or similar", Passengers: 5, Bags: 2, PricePerDay: 45, Features: []string{"Unlimited Mileage", "Free Cancellation", "A/C"}, Pickup: "Miami International Airport (MIA)"},
			{ID: "car-002", Supplier: "Enterprise", Category: "Convertible", Description: "Ford Mustang Convertible or similar", Passengers: 4, Bags: 2, PricePerDay: 89, Features: []string{"Unlimited Mileage", "Free Cancellation", "Convertible Top"}, Pickup: "Miami International Airport (MIA)"},
			{ID: "car-003", Supplier: "Budget", Category: "SUV", Description: "Toyota RAV4 or similar", Passengers: 5, Bags: 4, PricePerDay: 65, Features: []string{"Unlimited Mileage", "Free Cancellation", "A/C", "Bluetooth"}, Pickup: "Miami International Airport (MIA)"},
		},
		activities: []activity{
			{ID: "act-miami-001", Title: "Everglades Airboat Tour & Wildlife Show", Description: "Experience the thrill of an airboat ride through the Everglades and see alligators up close", Duration: "4 hours", Price: 49, PriceFormatted: "$49/person", Rating: 4.7, ReviewCount: 2341},
			{ID: "act-miami-002", Title: "Miami Beach Art Deco Walking Tour", Description: "Explore the iconic Art Deco Historic District with an expert guide", Duration: "2 hours", Price: 35, PriceFormatted: "$35/person", Rating: 4.8, ReviewCount: 892},
			{ID: "act-miami-003", Title: "Little Havana Food & Culture Tour", Description: "Taste authentic Cuban cuisine and learn about Miami's vibrant Cuban heritage", Duration: "3 hours", Price: 69, PriceFormatted: "$69/person", Rating: 4.9, ReviewCount: 1567},
		},
	},
	"hawaii": {
		hotels: []hotel{
			{ID: "334440", Name: "Four Seasons Resort Maui at Wailea", StarRating: 5, GuestRating: 9.4, ReviewCount: 4521, Address: "3900 Wailea Alanui Dr", City: "Wailea", PricePerNight: 895, Amenities: []string{"Private Beach", "Spa", "Multiple Pools", "Fine Dining", "Golf"}},
			{ID: "5765", Name: "Hyatt Regency Waikiki Beach Resort", StarRating: 4, GuestRating: 8.5, ReviewCount: 8932, Address: "2424 Kalakaua Ave", City: "Honolulu", PricePerNight: 329, Amenities: []string{"Beach Access", "Pool", "Spa", "Restaurant", "Ocean View"}},
			{ID: "5791", Name: "Outrigger Reef Waikiki Beach Resort", StarRating: 4, GuestRating: 8.3, ReviewCount: 6234, Address: "2169 Kalia Rd", City: "Honolulu", PricePerNight: 275, Amenities: []string{"Beachfront", "Pool", "Restaurant", "Luau", "WiFi"}},
		},
		rentals: []rental{
			{ID: "vrbo-hi-001", Name: "Oceanfront Villa with Private Pool in Kona", PropertyType: "Villa", Bedrooms: 4, Bathrooms: 3, Sleeps: 10, PricePerNight: 599, Rating: 4.9, ReviewCount: 87, Amenities: []string{"Private Pool", "Ocean View", "Full Kitchen", "BBQ", "Parking"}},
			{ID: "vrbo-hi-002", Name: "Cozy Maui Cottage Steps from Beach", PropertyType: "Cottage", Bedrooms: 1, Bathrooms: 1, Sleeps: 2, PricePerNight: 189, Rating: 4.8, ReviewCount: 213, Amenities: []string{"Beach Access", "Kitchen", "Lanai", "WiFi", "Parking"}},
		},
		cars: []car{
			{ID: "car-hi-001", Supplier: "Avis", Category: "Jeep", Description: "Jeep Wrangler or similar", Passengers: 4, Bags: 2, PricePerDay: 95, Features: []string{"Unlimited Mileage", "4WD", "Convertible Top", "A/C"}, Pickup: "Honolulu International Airport (HNL)"},
			{ID: "car-hi-002", Supplier: "National", Category: "Midsize", Description: "Toyota Camry or similar", Passengers: 5, Bags: 3, PricePerDay: 55, Features: []string{"Unlimited Mileage", "Free Cancellation", "A/C", "Bluetooth"}, Pickup: "Honolulu International Airport (HNL)"},
		},
		activities: []activity{
			{ID: "act-hi-001", Title: "Snorkeling Tour to Molokini Crater", Description: "Snorkel in crystal-clear waters at the famous Molokini Crater marine preserve", Duration: "5 hours", Price: 129, PriceFormatted: "$129/person", Rating: 4.8, ReviewCount: 3421},
			{ID: "act-hi-002", Title: "Road to Hana Adventure Tour", Description: "Experience the breathtaking Road to Hana with waterfalls, beaches, and tropical rainforest", Duration: "11 hours", Price: 189, PriceFormatted: "$189/person", Rating: 4.9, ReviewCount: 2156},
			{ID: "act-hi-003", Title: "Traditional Hawaiian Luau Experience", Description: "Enjoy an authentic luau with traditional food, music, and hula dancing", Duration: "4 hours", Price: 159, PriceFormatted: "$159/person", Rating: 4.6, ReviewCount: 4532},
		},
	},
}

// defaultInventory covers destinations the sandbox does not know.
var defaultInventory = inventory{
	hotels: []hotel{
		{ID: "default-001", Name: "Grand Hotel & Resort", StarRating: 4, GuestRating: 8.5, ReviewCount: 2341, Address: "123 Main Street", City: "City Center", PricePerNight: 199, Amenities: []string{"Pool", "Spa", "Restaurant", "Fitness Center", "WiFi"}},
		{ID: "default-002", Name: "Comfort Inn & Suites", StarRating: 3, GuestRating: 8.0, ReviewCount: 1532, Address: "456 Oak Avenue", City: "City Center", PricePerNight: 109, Amenities: []string{"Free Breakfast", "Pool", "WiFi", "Parking"}},
	},
	rentals: []rental{
		{ID: "vrbo-default-001", Name: "Charming Downtown Apartment", PropertyType: "Apartment", Bedrooms: 2, Bathrooms: 1, Sleeps: 4, PricePerNight: 150, Rating: 4.7, ReviewCount: 89, Amenities: []string{"Kitchen", "WiFi", "Washer/Dryer", "A/C"}},
	},
	cars: []car{
		{ID: "car-default-001", Supplier: "Hertz", Category: "Economy", Description: "Toyota Corolla or similar", Passengers: 5, Bags: 2, PricePerDay: 39, Features: []string{"Unlimited Mileage", "Free Cancellation", "A/C"}, Pickup: "Airport"},
		{ID: "car-default-002", Supplier: "Enterprise", Category: "SUV", Description: "Ford Explorer or similar", Passengers: 7, Bags: 4, PricePerDay: 69, Features: []string{"Unlimited Mileage", "Free Cancellation", "A/C", "4WD"}, Pickup: "Airport"},
	},
	activities: []activity{
		{ID: "act-default-001", Title: "City Highlights Walking Tour", Description: "Discover the best attractions and hidden gems with a knowledgeable local guide", Duration: "3 hours", Price: 45, PriceFormatted: "$45/person", Rating: 4.7, ReviewCount: 567},
		{ID: "act-default-002", Title: "Food & Culture Experience", Description: "Taste local cuisine and learn about the area's culinary traditions", Duration: "3.5 hours", Price: 75, PriceFormatted: "$75/person", Rating: 4.8, ReviewCount: 342},
	},
}

var destinationAliases = map[string]string{
	"miami beach":     "miami",
	"south beach":     "miami",
	"fort lauderdale": "miami",
	"cancun":          "miami",
	"orlando":         "miami",
	"tampa":           "miami",
	"waikiki":         "hawaii",
	"honolulu":        "hawaii",
	"maui":            "hawaii",
	"oahu":            "hawaii",
}

// lookupInventory resolves a destination to its sandbox inventory, trying the
// alias table, then a partial match, before falling back to the defaults.
func lookupInventory(destination string) inventory {
	normalized := strings.ToLower(strings.TrimSpace(destination))

	if canonical, ok := destinationAliases[normalized]; ok {
		normalized = canonical
	}

	if data, ok := destinationData[normalized]; ok {
		return data
	}

	for key, data := range destinationData {
		if strings.Contains(normalized, key) || strings.Contains(key, normalized) {
			return data
		}
	}

	for alias, canonical := range destinationAliases {
		if strings.Contains(normalized, alias) {
			return destinationData[canonical]
		}
	}

	return defaultInventory
}

const defaultNights = 3

func calculateNights(checkin, checkout string) int {
	start, err := time.Parse("2006-01-02", checkin)
	if err != nil {
		return defaultNights
	}

	end, err := time.Parse("2006-01-02", checkout)
	if err != nil {
		return defaultNights
	}

	nights := int(end.Sub(start).Hours() / 24)
	if nights < 1 {
		return 1
	}

	return nights
}
