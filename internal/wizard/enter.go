// internal/wizard/enter.go
package wizard

import (
	"context"
	"fmt"
	"time"

	apperrors "travelbot/internal/common/errors"
	"travelbot/internal/models"
)

// Messages shown by step entry. Blocking ones stop the step until the
// traveller goes back.
const (
	MsgEnterLocation       = "Please enter a location."
	MsgMissingAirportCodes = "Missing airport codes. Go back and fix."
	MsgNoFlights           = "No flights found or an error occurred."
	MsgNoDestinationCode   = "No destination code. Go back."
	MsgNoHotels            = "No hotels found or an error occurred."
	MsgNoHotelOffers       = "No offers for that hotel or an error occurred."
	MsgGeocodeFailed       = "Could not geocode your destination. Try again or skip activities."
	MsgNoActivities        = "No activities found or an error occurred."
	MsgAllStepsComplete    = "All steps complete!"
)

// View is what entering a step produced: the data to choose from plus any
// messages. Building a View never changes State.
type View struct {
	Step     Step     `json:"step"`
	StepName string   `json:"stepName"`
	Title    string   `json:"title"`
	Messages []string `json:"messages"`
	Warning  string   `json:"warning,omitempty"`
	Blocking string   `json:"blocking,omitempty"`

	Origin           string                 `json:"origin,omitempty"`
	DestinationGuess string                 `json:"destinationGuess,omitempty"`
	ParsedLocation   *models.ParsedLocation `json:"parsedLocation,omitempty"`
	DepartDate       string                 `json:"departDate,omitempty"`
	ReturnDate       string                 `json:"returnDate,omitempty"`
	Flights          []models.FlightOffer   `json:"flights,omitempty"`
	Hotels           []models.Hotel         `json:"hotels,omitempty"`
	Activities       []models.Activity      `json:"activities,omitempty"`
	Geo              *models.GeoPoint       `json:"geo,omitempty"`
	Summary          *Summary               `json:"summary,omitempty"`
	Total            float64                `json:"total"`
}

// Enter runs the entry action of the current step. Remote lookups are
// issued on every call; nothing is cached between visits.
func (m *Machine) Enter(ctx context.Context, s *State, conv *models.Conversation) *View {
	started := time.Now()
	if m.config.StepTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.config.StepTimeout)
		defer cancel()
	}

	v := &View{
		Step:     s.Step,
		StepName: s.Step.String(),
		Title:    s.Step.Title(),
		Messages: []string{},
	}

	switch s.Step {
	case StepDestination:
		v.Origin = m.originFor(s)
		v.Messages = append(v.Messages, fmt.Sprintf("Origin is assumed to be %s.", v.Origin))
	case StepLocation:
		m.enterLocation(ctx, s, conv, v)
	case StepAirports:
		v.Origin = m.originFor(s)
		if s.City != "" {
			v.DestinationGuess = m.airports.GuessAirportCode(ctx, s.City)
		}
	case StepDates:
		v.DepartDate = s.DepartDate
		v.ReturnDate = s.ReturnDate
	case StepFlights:
		m.enterFlights(ctx, s, v)
	case StepHotels:
		m.enterHotels(ctx, s, v)
	case StepActivities:
		m.enterActivities(ctx, s, v)
	case StepReview:
		v.Messages = append(v.Messages, MsgAllStepsComplete)
	}

	summary := Summarize(s)
	v.Summary = &summary
	v.Total = s.Total()

	m.obs.RecordStepEntered(ctx, s.Step.String(), v.Blocking != "")
	m.obs.RecordStepDuration(ctx, s.Step.String(), time.Since(started))
	return v
}

func (m *Machine) enterLocation(ctx context.Context, s *State, conv *models.Conversation, v *View) {
	if s.RawLocation == "" {
		v.Blocking = MsgEnterLocation
		return
	}
	loc := m.parser.ParseLocation(ctx, conv, s.RawLocation)
	v.ParsedLocation = &loc
	if loc.Clarifications != "" {
		v.Warning = "Clarifications: " + loc.Clarifications
	}
}

func (m *Machine) enterFlights(ctx context.Context, s *State, v *View) {
	if s.OriginCode == "" || s.DestinationCode == "" {
		v.Blocking = MsgMissingAirportCodes
		return
	}
	v.Flights = m.travel.FindFlights(ctx, s.OriginCode, s.DestinationCode, s.DepartDate, s.ReturnDate)
	if len(v.Flights) == 0 {
		v.Messages = append(v.Messages, MsgNoFlights)
	}
}

func (m *Machine) enterHotels(ctx context.Context, s *State, v *View) {
	if s.DestinationCode == "" {
		v.Blocking = MsgNoDestinationCode
		return
	}
	v.Messages = append(v.Messages, "Searching hotels by city code: "+s.DestinationCode)
	v.Hotels = m.travel.GetHotelsInCity(ctx, s.DestinationCode, m.config.HotelRadiusKM)
	if len(v.Hotels) == 0 {
		v.Messages = append(v.Messages, MsgNoHotels)
	}
}

func (m *Machine) enterActivities(ctx context.Context, s *State, v *View) {
	geo := m.geocoder.GeocodePlace(ctx, s.CoordinateSearch)
	if geo == nil {
		v.Warning = MsgGeocodeFailed
		return
	}
	v.Geo = geo
	v.Activities = m.travel.FindActivities(ctx, geo.Latitude, geo.Longitude, m.config.ActivityRadiusKM)
	if len(v.Activities) == 0 {
		v.Messages = append(v.Messages, MsgNoActivities)
	}
}

// HotelOffers lists the offers for one hotel using the stored dates. It is
// a lookup only and does not change State.
func (m *Machine) HotelOffers(ctx context.Context, s *State, hotelID string) ([]models.HotelOffer, error) {
	if s.Step != StepHotels {
		return nil, apperrors.NewInvalidTransitionError("hotel_offers", int(s.Step))
	}
	if s.DestinationCode == "" {
		return nil, apperrors.NewMissingPreconditionError(MsgNoDestinationCode)
	}
	if hotelID == "" {
		return nil, apperrors.NewSelectionRequiredError("hotel", hotelID)
	}
	if m.config.StepTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.config.StepTimeout)
		defer cancel()
	}

	offers := []models.HotelOffer{}
	for _, group := range m.travel.GetHotelOffers(ctx, []string{hotelID}, s.DepartDate, s.ReturnDate) {
		offers = append(offers, group.Offers...)
	}
	return offers, nil
}

// ParseDates asks the parser to prefill the date step from free text.
func (m *Machine) ParseDates(ctx context.Context, s *State, conv *models.Conversation, text string) (models.ParsedDateRange, error) {
	if s.Step != StepDates {
		return models.ParsedDateRange{}, apperrors.NewInvalidTransitionError("parse_dates", int(s.Step))
	}
	return m.parser.ParseDates(ctx, conv, text), nil
}

func (m *Machine) originFor(s *State) string {
	if s.OriginCode != "" {
		return s.OriginCode
	}
	return m.config.DefaultOrigin
}
