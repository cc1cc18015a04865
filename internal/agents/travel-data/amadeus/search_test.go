// internal/agents/travel-data/amadeus/search_test.go
package amadeus

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const flightOffersBody = `{"data": [
	{
		"id": "1",
		"price": {"currency": "USD", "total": "400.00", "grandTotal": "412.50"},
		"itineraries": [{
			"duration": "PT9H",
			"segments": [{
				"departure": {"iataCode": "DTW", "at": "2025-06-01T18:00:00"},
				"arrival": {"iataCode": "BCN", "at": "2025-06-02T09:00:00"},
				"carrierCode": "DL",
				"number": "168",
				"duration": "PT9H"
			}]
		}]
	},
	{
		"id": "2",
		"price": {"currency": "USD", "grandTotal": "call us"},
		"itineraries": []
	},
	{
		"id": "3",
		"price": {"currency": "USD", "total": "380"},
		"itineraries": []
	}
]}`

func TestClient_FindFlights(t *testing.T) {
	fake := newFakeAmadeus(t)
	fake.handle("/v2/shopping/flight-offers", http.StatusOK, flightOffersBody)
	client := NewClient(createTestConfig(fake.server.URL), NewTestLogger(t))

	offers := client.FindFlights(context.Background(), "DTW", "BCN", "2025-06-01", "")

	require.Len(t, offers, 2, "offer with unparsable price is skipped")
	assert.Equal(t, "1", offers[0].ID)
	assert.Equal(t, 412.5, offers[0].TotalPrice)
	require.Len(t, offers[0].Itineraries, 1)
	seg := offers[0].Itineraries[0].Segments[0]
	assert.Equal(t, "DTW", seg.DepartureAirport)
	assert.Equal(t, "BCN", seg.ArrivalAirport)
	assert.Equal(t, "DL", seg.CarrierCode)
	assert.Equal(t, "168", seg.FlightNumber)
	assert.Equal(t, 380.0, offers[1].TotalPrice, "falls back to total when grandTotal is absent")

	q := fake.lastQueries["/v2/shopping/flight-offers"]
	assert.Equal(t, "DTW", q["originLocationCode"])
	assert.Equal(t, "BCN", q["destinationLocationCode"])
	assert.Equal(t, "2025-06-01", q["departureDate"])
	assert.Equal(t, "1", q["adults"])
	assert.Equal(t, "5", q["max"])
	_, hasReturn := q["returnDate"]
	assert.False(t, hasReturn, "one-way search omits returnDate")
}

func TestClient_FindFlights_RoundTripAndMissingInputs(t *testing.T) {
	fake := newFakeAmadeus(t)
	fake.handle("/v2/shopping/flight-offers", http.StatusOK, `{"data": []}`)
	client := NewClient(createTestConfig(fake.server.URL), NewTestLogger(t))

	offers := client.FindFlights(context.Background(), "DTW", "BCN", "2025-06-01", "2025-06-08")
	assert.NotNil(t, offers)
	assert.Empty(t, offers)
	assert.Equal(t, "2025-06-08", fake.lastQueries["/v2/shopping/flight-offers"]["returnDate"])

	assert.Empty(t, client.FindFlights(context.Background(), "DTW", "", "2025-06-01", ""))
}

func TestClient_GetHotelsInCity(t *testing.T) {
	fake := newFakeAmadeus(t)
	fake.handle("/v1/reference-data/locations/hotels/by-city", http.StatusOK, `{"data": [
		{"hotelId": "HBBCN001", "name": "HOTEL ARTS"},
		{"hotelId": "", "name": "NO ID"},
		{"hotelId": "HBBCN002"}
	]}`)
	client := NewClient(createTestConfig(fake.server.URL), NewTestLogger(t))

	hotels := client.GetHotelsInCity(context.Background(), "BCN", 10)

	require.Len(t, hotels, 2)
	assert.Equal(t, "HOTEL ARTS (HBBCN001)", hotels[0].Label())
	assert.Equal(t, "Unknown Hotel (HBBCN002)", hotels[1].Label())

	q := fake.lastQueries["/v1/reference-data/locations/hotels/by-city"]
	assert.Equal(t, "BCN", q["cityCode"])
	assert.Equal(t, "10", q["radius"])
	assert.Equal(t, "KM", q["radiusUnit"])
}

func TestClient_GetHotelOffers(t *testing.T) {
	fake := newFakeAmadeus(t)
	fake.handle("/v3/shopping/hotel-offers", http.StatusOK, `{"data": [{
		"hotel": {"hotelId": "HBBCN001", "name": "HOTEL ARTS"},
		"available": true,
		"offers": [
			{"id": "OFF1", "price": {"currency": "EUR", "total": "150.00"}},
			{"id": "OFF2", "price": {"currency": "EUR", "total": "n/a"}}
		]
	}]}`)
	client := NewClient(createTestConfig(fake.server.URL), NewTestLogger(t))

	groups := client.GetHotelOffers(context.Background(), []string{"HBBCN001"}, "2025-06-02", "")

	require.Len(t, groups, 1)
	require.Len(t, groups[0].Offers, 2)
	assert.Equal(t, 150.0, groups[0].Offers[0].TotalPrice)
	assert.Equal(t, 0.0, groups[0].Offers[1].TotalPrice, "unparsable price becomes 0")
	assert.Equal(t, "Offer ID: OFF1 - Price: $150.00", groups[0].Offers[0].Label())

	q := fake.lastQueries["/v3/shopping/hotel-offers"]
	assert.Equal(t, "HBBCN001", q["hotelIds"])
	assert.Equal(t, "2025-06-02", q["checkInDate"])
	_, hasCheckout := q["checkOutDate"]
	assert.False(t, hasCheckout)
}

func TestClient_FindActivities(t *testing.T) {
	fake := newFakeAmadeus(t)
	fake.handle("/v1/shopping/activities", http.StatusOK, `{"data": [
		{"id": "A1", "name": "Sagrada Familia tour", "price": {"amount": "35.00", "currencyCode": "EUR"}},
		{"id": "A2", "name": "Gothic Quarter walk", "price": {}}
	]}`)
	client := NewClient(createTestConfig(fake.server.URL), NewTestLogger(t))

	acts := client.FindActivities(context.Background(), 41.3874, 2.1686, 5)

	require.Len(t, acts, 2)
	assert.Equal(t, "Sagrada Familia tour ($35.00)", acts[0].Label())
	assert.Nil(t, acts[1].PriceAmount)
	assert.Equal(t, "Gothic Quarter walk ($??)", acts[1].Label())

	q := fake.lastQueries["/v1/shopping/activities"]
	assert.Equal(t, "41.3874", q["latitude"])
	assert.Equal(t, "2.1686", q["longitude"])
	assert.Equal(t, "5", q["radius"])
}
