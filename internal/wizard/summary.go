// internal/wizard/summary.go
package wizard

import (
	"fmt"
	"strings"

	"travelbot/internal/models"
)

// Summary is the trip-so-far shown beside every step and on the review step.
type Summary struct {
	Origin      string              `json:"origin,omitempty"`
	Destination string              `json:"destination,omitempty"`
	DepartDate  string              `json:"departDate,omitempty"`
	ReturnDate  string              `json:"returnDate,omitempty"`
	Flight      *models.FlightOffer `json:"flight,omitempty"`
	HotelOffer  *models.HotelOffer  `json:"hotelOffer,omitempty"`
	Activities  []models.Activity   `json:"activities,omitempty"`
	Total       float64             `json:"total"`
}

func Summarize(s *State) Summary {
	return Summary{
		Origin:      s.OriginCode,
		Destination: s.DestinationCode,
		DepartDate:  s.DepartDate,
		ReturnDate:  s.ReturnDate,
		Flight:      s.ChosenFlight,
		HotelOffer:  s.ChosenHotelOffer,
		Activities:  s.ChosenActivities,
		Total:       s.Total(),
	}
}

// Text renders the summary as plain lines, skipping anything not chosen yet.
func (sum Summary) Text() string {
	var b strings.Builder
	line := func(format string, args ...interface{}) {
		fmt.Fprintf(&b, format, args...)
		b.WriteByte('\n')
	}

	line("Current Summary:")
	if sum.Origin != "" {
		line("Origin Airport: %s", sum.Origin)
	}
	if sum.Destination != "" {
		line("Destination Airport: %s", sum.Destination)
	}
	if sum.DepartDate != "" {
		line("Departure: %s", sum.DepartDate)
	}
	if sum.ReturnDate != "" {
		line("Return: %s", sum.ReturnDate)
	}
	if sum.Flight != nil {
		line("Chosen Flight: %s", sum.Flight.Summary())
	}
	if sum.HotelOffer != nil {
		line("Chosen Hotel Offer: %s", sum.HotelOffer.Label())
	}
	if len(sum.Activities) > 0 {
		line("Chosen Activities:")
		for _, a := range sum.Activities {
			line(" - %s", a.Label())
		}
	}
	line("Total Price: $%.2f", sum.Total)

	return strings.TrimRight(b.String(), "\n")
}
