// internal/agents/travel-data/amadeus/hotels.go
package amadeus

import (
	"context"
	"strconv"
	"strings"

	"travelbot/internal/models"
)

// GetHotelsInCity lists hotels within radiusKM of a city code.
func (c *Client) GetHotelsInCity(ctx context.Context, cityCode string, radiusKM int) []models.Hotel {
	hotels := []models.Hotel{}
	if cityCode == "" {
		return hotels
	}
	if radiusKM <= 0 {
		radiusKM = 10
	}

	c.call(ctx, "hotels_by_city", func(ctx context.Context) (int, error) {
		q := urlValues(map[string]string{
			"cityCode":   cityCode,
			"radius":     strconv.Itoa(radiusKM),
			"radiusUnit": "KM",
		})

		var resp hotelsByCityResponse
		if err := c.getJSON(ctx, "/v1/reference-data/locations/hotels/by-city", q, &resp); err != nil {
			return 0, err
		}
		for _, h := range resp.Data {
			if h.HotelID == "" {
				continue
			}
			hotels = append(hotels, models.Hotel{HotelID: h.HotelID, Name: h.Name})
		}
		return len(hotels), nil
	})

	return hotels
}

// GetHotelOffers returns priced offers for the given hotels. checkOut may be
// empty. A price that cannot be parsed is reported as 0 rather than dropping
// the offer.
func (c *Client) GetHotelOffers(ctx context.Context, hotelIDs []string, checkIn, checkOut string) []models.HotelOffers {
	results := []models.HotelOffers{}
	if len(hotelIDs) == 0 || checkIn == "" {
		return results
	}

	c.call(ctx, "hotel_offers", func(ctx context.Context) (int, error) {
		q := urlValues(map[string]string{
			"hotelIds":     strings.Join(hotelIDs, ","),
			"checkInDate":  checkIn,
			"checkOutDate": checkOut,
			"adults":       strconv.Itoa(c.adults()),
		})

		var resp hotelOffersResponse
		if err := c.getJSON(ctx, "/v3/shopping/hotel-offers", q, &resp); err != nil {
			return 0, err
		}

		count := 0
		for _, entry := range resp.Data {
			group := models.HotelOffers{
				HotelID:   entry.Hotel.HotelID,
				HotelName: entry.Hotel.Name,
				Offers:    []models.HotelOffer{},
			}
			for _, o := range entry.Offers {
				price, ok := parsePrice(o.Price.Total)
				if !ok {
					price = 0
				}
				group.Offers = append(group.Offers, models.HotelOffer{
					OfferID:    o.ID,
					HotelID:    entry.Hotel.HotelID,
					TotalPrice: price,
					Currency:   o.Price.Currency,
				})
			}
			count += len(group.Offers)
			results = append(results, group)
		}
		return count, nil
	})

	return results
}
