// internal/agents/travel-data/amadeus/activities.go
package amadeus

import (
	"context"
	"strconv"

	"travelbot/internal/models"
)

// FindActivities lists tours and activities within radiusKM of a point.
// Activities without a quoted price are kept with a nil PriceAmount.
func (c *Client) FindActivities(ctx context.Context, lat, lon, radiusKM float64) []models.Activity {
	activities := []models.Activity{}
	if radiusKM <= 0 {
		radiusKM = 5
	}

	c.call(ctx, "activities", func(ctx context.Context) (int, error) {
		q := urlValues(map[string]string{
			"latitude":  strconv.FormatFloat(lat, 'f', -1, 64),
			"longitude": strconv.FormatFloat(lon, 'f', -1, 64),
			"radius":    strconv.FormatFloat(radiusKM, 'f', -1, 64),
		})

		var resp activitiesResponse
		if err := c.getJSON(ctx, "/v1/shopping/activities", q, &resp); err != nil {
			return 0, err
		}
		for _, a := range resp.Data {
			act := models.Activity{ID: a.ID, Name: a.Name, Currency: a.Price.CurrencyCode}
			if amount, ok := parsePrice(a.Price.Amount); ok {
				act.PriceAmount = &amount
			}
			activities = append(activities, act)
		}
		return len(activities), nil
	})

	return activities
}
