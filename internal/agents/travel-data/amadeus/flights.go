// internal/agents/travel-data/amadeus/flights.go
package amadeus

import (
	"context"
	"strconv"

	"travelbot/internal/models"
)

// FindFlights returns up to MaxFlightOffers priced offers from origin to
// dest. returnDate may be empty for a one-way search. Offers without a
// parsable total price are skipped.
func (c *Client) FindFlights(ctx context.Context, origin, dest, departDate, returnDate string) []models.FlightOffer {
	offers := []models.FlightOffer{}
	if origin == "" || dest == "" || departDate == "" {
		return offers
	}

	c.call(ctx, "flight_offers", func(ctx context.Context) (int, error) {
		q := urlValues(map[string]string{
			"originLocationCode":      origin,
			"destinationLocationCode": dest,
			"departureDate":           departDate,
			"returnDate":              returnDate,
			"adults":                  strconv.Itoa(c.adults()),
			"max":                     strconv.Itoa(c.maxFlightOffers()),
		})

		var resp flightOffersResponse
		if err := c.getJSON(ctx, "/v2/shopping/flight-offers", q, &resp); err != nil {
			return 0, err
		}

		for _, raw := range resp.Data {
			total := raw.Price.GrandTotal
			if total == "" {
				total = raw.Price.Total
			}
			price, ok := parsePrice(total)
			if !ok {
				c.logger.Warn("skipping flight offer with unparsable price", map[string]interface{}{
					"offerId": raw.ID,
					"price":   total,
				})
				continue
			}

			offer := models.FlightOffer{
				ID:         raw.ID,
				TotalPrice: price,
				Currency:   raw.Price.Currency,
			}
			for _, it := range raw.Itineraries {
				itin := models.Itinerary{Duration: it.Duration}
				for _, seg := range it.Segments {
					itin.Segments = append(itin.Segments, models.Segment{
						DepartureAirport: seg.Departure.IATACode,
						DepartureTime:    seg.Departure.At,
						ArrivalAirport:   seg.Arrival.IATACode,
						ArrivalTime:      seg.Arrival.At,
						Duration:         seg.Duration,
						CarrierCode:      seg.CarrierCode,
						FlightNumber:     seg.Number,
					})
				}
				offer.Itineraries = append(offer.Itineraries, itin)
			}
			offers = append(offers, offer)
		}
		return len(offers), nil
	})

	return offers
}

func (c *Client) adults() int {
	if c.config.Adults > 0 {
		return c.config.Adults
	}
	return 1
}

func (c *Client) maxFlightOffers() int {
	if c.config.MaxFlightOffers > 0 {
		return c.config.MaxFlightOffers
	}
	return 5
}
