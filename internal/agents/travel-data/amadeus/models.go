// internal/agents/travel-data/amadeus/models.go
package amadeus

// Wire types for the Amadeus self-service APIs. Only the fields the wizard
// reads are declared.

type locationsResponse struct {
	Data []struct {
		SubType  string `json:"subType"`
		Name     string `json:"name"`
		IATACode string `json:"iataCode"`
	} `json:"data"`
}

type flightOffersResponse struct {
	Data []struct {
		ID    string `json:"id"`
		Price struct {
			Currency   string `json:"currency"`
			Total      string `json:"total"`
			GrandTotal string `json:"grandTotal"`
		} `json:"price"`
		Itineraries []struct {
			Duration string `json:"duration"`
			Segments []struct {
				Departure   flightEndpoint `json:"departure"`
				Arrival     flightEndpoint `json:"arrival"`
				CarrierCode string         `json:"carrierCode"`
				Number      string         `json:"number"`
				Duration    string         `json:"duration"`
			} `json:"segments"`
		} `json:"itineraries"`
	} `json:"data"`
}

type flightEndpoint struct {
	IATACode string `json:"iataCode"`
	At       string `json:"at"`
}

type hotelsByCityResponse struct {
	Data []struct {
		HotelID string `json:"hotelId"`
		Name    string `json:"name"`
	} `json:"data"`
}

type hotelOffersResponse struct {
	Data []struct {
		Hotel struct {
			HotelID string `json:"hotelId"`
			Name    string `json:"name"`
		} `json:"hotel"`
		Available bool `json:"available"`
		Offers    []struct {
			ID    string `json:"id"`
			Price struct {
				Currency string `json:"currency"`
				Total    string `json:"total"`
			} `json:"price"`
		} `json:"offers"`
	} `json:"data"`
}

type activitiesResponse struct {
	Data []struct {
		ID    string `json:"id"`
		Name  string `json:"name"`
		Price struct {
			Amount       string `json:"amount"`
			CurrencyCode string `json:"currencyCode"`
		} `json:"price"`
	} `json:"data"`
}

type errorResponse struct {
	Errors []struct {
		Status int    `json:"status"`
		Code   int    `json:"code"`
		Title  string `json:"title"`
		Detail string `json:"detail"`
	} `json:"errors"`
}
