// internal/wizard/state.go
package wizard

import (
	"strings"

	"travelbot/internal/models"
)

// State is everything one traveller has chosen so far. It is owned by a
// single session and only the Machine's confirm actions change it.
type State struct {
	SessionID        string                 `json:"sessionId"`
	Step             Step                   `json:"step"`
	OriginCode       string                 `json:"originCode"`
	DestinationCode  string                 `json:"destinationCode"`
	RawLocation      string                 `json:"rawLocation"`
	ParsedLocation   *models.ParsedLocation `json:"parsedLocation,omitempty"`
	City             string                 `json:"city"`
	CoordinateSearch string                 `json:"coordinateSearch"`
	DepartDate       string                 `json:"departDate"`
	ReturnDate       string                 `json:"returnDate"`
	ChosenFlight     *models.FlightOffer    `json:"chosenFlight,omitempty"`
	ChosenHotelOffer *models.HotelOffer     `json:"chosenHotelOffer,omitempty"`
	ChosenActivities []models.Activity      `json:"chosenActivities"`
	Ledger           Ledger                 `json:"ledger"`
}

func NewState(sessionID string) *State {
	return &State{
		SessionID:        sessionID,
		Step:             StepDestination,
		ChosenActivities: []models.Activity{},
	}
}

// Total is the running price shown alongside every step: the ledger slot
// of the current step.
func (s *State) Total() float64 {
	return s.Ledger.At(s.Step)
}

// coordinateSearch renders a location as "<city> <state>, <country>" for
// geocoding, leaving out whatever parts are empty.
func coordinateSearch(loc models.ParsedLocation) string {
	head := strings.TrimSpace(strings.Join(nonEmpty(loc.City, loc.State), " "))
	return strings.Join(nonEmpty(head, strings.TrimSpace(loc.Country)), ", ")
}

func nonEmpty(parts ...string) []string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
