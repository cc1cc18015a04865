// internal/agents/travel-data/amadeus/airports.go
package amadeus

import (
	"context"
	"net/url"
	"strings"
)

// GuessAirportCode returns the IATA code best matching a city name, or ""
// when nothing matches. A CITY entry wins over an AIRPORT entry because the
// same code then works for both flight and hotel searches.
func (c *Client) GuessAirportCode(ctx context.Context, cityName string) string {
	cityName = strings.TrimSpace(cityName)
	if cityName == "" {
		return ""
	}

	var code string
	c.call(ctx, "airport_lookup", func(ctx context.Context) (int, error) {
		q := url.Values{}
		q.Set("subType", "AIRPORT,CITY")
		q.Set("keyword", cityName)

		var resp locationsResponse
		if err := c.getJSON(ctx, "/v1/reference-data/locations", q, &resp); err != nil {
			return 0, err
		}

		for _, loc := range resp.Data {
			if loc.IATACode == "" {
				continue
			}
			if strings.EqualFold(loc.SubType, "CITY") {
				code = loc.IATACode
				break
			}
			if code == "" {
				code = loc.IATACode
			}
		}
		if code == "" {
			return 0, nil
		}
		return 1, nil
	})

	return strings.ToUpper(code)
}
