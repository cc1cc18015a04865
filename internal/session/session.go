// internal/session/session.go
package session

import (
	"strings"
	"time"

	"travelbot/internal/models"
	"travelbot/internal/wizard"
)

// Logger interface definition
type Logger interface {
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
	With(fields map[string]interface{}) Logger
}

// Options are the choices last shown to the traveller. Confirm actions
// refer to them by id, so a client can only pick something it was offered.
type Options struct {
	Location         *models.ParsedLocation `json:"location,omitempty"`
	DestinationGuess string                 `json:"destinationGuess,omitempty"`
	Flights          []models.FlightOffer   `json:"flights,omitempty"`
	Hotels           []models.Hotel         `json:"hotels,omitempty"`
	HotelOffers      []models.HotelOffer    `json:"hotelOffers,omitempty"`
	Activities       []models.Activity      `json:"activities,omitempty"`
}

// Session is everything persisted between two requests of one traveller.
type Session struct {
	ID           string               `json:"id"`
	State        *wizard.State        `json:"state"`
	Conversation *models.Conversation `json:"conversation"`
	Options      Options              `json:"options"`
	CreatedAt    time.Time            `json:"createdAt"`
	UpdatedAt    time.Time            `json:"updatedAt"`
}

func New(id string) *Session {
	now := time.Now().UTC()
	return &Session{
		ID:           id,
		State:        wizard.NewState(id),
		Conversation: models.NewConversation(),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// Remember stores what a step view offered. Only the options belonging to
// that view's step are replaced.
func (o *Options) Remember(v *wizard.View) {
	switch v.Step {
	case wizard.StepLocation:
		o.Location = v.ParsedLocation
	case wizard.StepAirports:
		o.DestinationGuess = v.DestinationGuess
	case wizard.StepFlights:
		o.Flights = v.Flights
	case wizard.StepHotels:
		o.Hotels = v.Hotels
		o.HotelOffers = nil
	case wizard.StepActivities:
		o.Activities = v.Activities
	}
}

func (o Options) FindFlight(id string) (models.FlightOffer, bool) {
	for _, f := range o.Flights {
		if f.ID == id {
			return f, true
		}
	}
	return models.FlightOffer{}, false
}

func (o Options) FindHotelOffer(id string) (models.HotelOffer, bool) {
	for _, h := range o.HotelOffers {
		if h.OfferID == id {
			return h, true
		}
	}
	return models.HotelOffer{}, false
}

// FindActivities resolves names against the offered activities. The second
// return lists names that were not offered.
func (o Options) FindActivities(names []string) ([]models.Activity, []string) {
	byName := make(map[string]models.Activity, len(o.Activities))
	for _, a := range o.Activities {
		byName[strings.TrimSpace(a.Name)] = a
	}

	var found []models.Activity
	var missing []string
	for _, n := range names {
		if a, ok := byName[strings.TrimSpace(n)]; ok {
			found = append(found, a)
		} else {
			missing = append(missing, n)
		}
	}
	return found, missing
}
