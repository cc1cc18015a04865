// internal/wizard/machine.go
package wizard

import (
	"context"
	"regexp"
	"strconv"
	"strings"
	"time"

	apperrors "travelbot/internal/common/errors"
	"travelbot/internal/common/metrics"
	"travelbot/internal/common/observability"
	"travelbot/internal/models"
)

// Action names, used for metrics, audit events and the HTTP front end.
const (
	ActionSubmitDestination = "submit_destination"
	ActionConfirmLocation   = "confirm_location"
	ActionConfirmAirports   = "confirm_airports"
	ActionSubmitDates       = "submit_dates"
	ActionConfirmFlight     = "confirm_flight"
	ActionConfirmHotelOffer = "confirm_hotel_offer"
	ActionConfirmActivities = "confirm_activities"
	ActionGoBack            = "go_back"
)

const isoDate = "2006-01-02"

var airportCodeExpr = regexp.MustCompile(`^[A-Z]{3}$`)

// Logger interface definition
type Logger interface {
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
	With(fields map[string]interface{}) Logger
}

// Parser turns free text into structured location and date fields.
type Parser interface {
	ParseLocation(ctx context.Context, conv *models.Conversation, raw string) models.ParsedLocation
	ParseDates(ctx context.Context, conv *models.Conversation, raw string) models.ParsedDateRange
}

// AirportLookup guesses an IATA code for a city. "" means no guess.
type AirportLookup interface {
	GuessAirportCode(ctx context.Context, cityName string) string
}

// TravelData searches priced travel inventory. Failures come back as empty
// results.
type TravelData interface {
	FindFlights(ctx context.Context, origin, dest, departDate, returnDate string) []models.FlightOffer
	GetHotelsInCity(ctx context.Context, cityCode string, radiusKM int) []models.Hotel
	GetHotelOffers(ctx context.Context, hotelIDs []string, checkIn, checkOut string) []models.HotelOffers
	FindActivities(ctx context.Context, lat, lon, radiusKM float64) []models.Activity
}

// Geocoder resolves a free-text place to coordinates, or nil.
type Geocoder interface {
	GeocodePlace(ctx context.Context, query string) *models.GeoPoint
}

type Dependencies struct {
	Parser        Parser
	Airports      AirportLookup
	Travel        TravelData
	Geocoder      Geocoder
	Observability *observability.Observability
}

// Machine drives the booking wizard. Enter and the lookup helpers only read
// State; the confirm actions are the only functions that change it, and
// each one first checks the step it applies to.
type Machine struct {
	config   *Config
	parser   Parser
	airports AirportLookup
	travel   TravelData
	geocoder Geocoder
	obs      *observability.Observability
	logger   Logger
}

func NewMachine(config *Config, deps Dependencies, log Logger) *Machine {
	return &Machine{
		config:   config,
		parser:   deps.Parser,
		airports: deps.Airports,
		travel:   deps.Travel,
		geocoder: deps.Geocoder,
		obs:      deps.Observability,
		logger: log.With(map[string]interface{}{
			"component": "wizard",
		}),
	}
}

// DefaultOrigin is the origin airport assumed until the traveller changes it.
func (m *Machine) DefaultOrigin() string {
	return m.config.DefaultOrigin
}

// SubmitDestination records the free-text destination and moves 0 → 1.
func (m *Machine) SubmitDestination(s *State, raw string) error {
	if err := m.expect(s, ActionSubmitDestination, StepDestination); err != nil {
		return err
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return m.reject(s, ActionSubmitDestination,
			apperrors.NewValidationFailedError("Please enter a location.", "destination is empty"))
	}

	s.RawLocation = raw
	if s.OriginCode == "" {
		s.OriginCode = m.config.DefaultOrigin
	}
	m.advance(s, ActionSubmitDestination, StepLocation)
	return nil
}

// ConfirmLocation accepts a parsed location and moves 1 → 2. Any location
// is accepted, including the empty one a failed parse produces: the
// airports step then has nothing to guess from and the flight search blocks
// until a destination code is entered.
func (m *Machine) ConfirmLocation(s *State, loc models.ParsedLocation) error {
	if err := m.expect(s, ActionConfirmLocation, StepLocation); err != nil {
		return err
	}
	loc.City = strings.TrimSpace(loc.City)
	loc.State = strings.TrimSpace(loc.State)
	loc.Country = strings.TrimSpace(loc.Country)

	s.ParsedLocation = &loc
	s.City = loc.City
	s.CoordinateSearch = coordinateSearch(loc)
	m.advance(s, ActionConfirmLocation, StepAirports)
	return nil
}

// ConfirmAirports stores the origin and destination codes and moves 2 → 3.
// An empty origin falls back to the default; an empty destination is
// accepted and blocks the flight search later.
func (m *Machine) ConfirmAirports(s *State, origin, dest string) error {
	if err := m.expect(s, ActionConfirmAirports, StepAirports); err != nil {
		return err
	}
	origin = strings.ToUpper(strings.TrimSpace(origin))
	dest = strings.ToUpper(strings.TrimSpace(dest))
	if origin == "" {
		origin = m.config.DefaultOrigin
	}
	for _, code := range []string{origin, dest} {
		if code != "" && !airportCodeExpr.MatchString(code) {
			return m.reject(s, ActionConfirmAirports,
				apperrors.NewValidationFailedError("Airport codes are three letters.", "code: "+code))
		}
	}

	s.OriginCode = origin
	s.DestinationCode = dest
	m.advance(s, ActionConfirmAirports, StepDates)
	return nil
}

// SubmitDates stores the travel dates and moves 3 → 4. A return date equal
// to the departure date means no return leg. A return date before departure
// is stored as given and left for the flight provider to judge.
func (m *Machine) SubmitDates(s *State, depart, ret string) error {
	if err := m.expect(s, ActionSubmitDates, StepDates); err != nil {
		return err
	}
	depart = strings.TrimSpace(depart)
	ret = strings.TrimSpace(ret)

	departAt, err := time.Parse(isoDate, depart)
	if err != nil {
		return m.reject(s, ActionSubmitDates,
			apperrors.NewValidationFailedError("Departure date must be YYYY-MM-DD.", "departDate: "+depart))
	}
	if ret != "" {
		retAt, err := time.Parse(isoDate, ret)
		if err != nil {
			return m.reject(s, ActionSubmitDates,
				apperrors.NewValidationFailedError("Return date must be YYYY-MM-DD.", "returnDate: "+ret))
		}
		if retAt.Equal(departAt) {
			ret = ""
		}
	}

	s.DepartDate = depart
	s.ReturnDate = ret
	m.advance(s, ActionSubmitDates, StepFlights)
	return nil
}

// ConfirmFlight records the chosen offer and moves 4 → 5 with
// ledger[5] = ledger[4] + offer price.
func (m *Machine) ConfirmFlight(s *State, offer models.FlightOffer) error {
	if err := m.expect(s, ActionConfirmFlight, StepFlights); err != nil {
		return err
	}
	if offer.ID == "" {
		return m.reject(s, ActionConfirmFlight, apperrors.NewSelectionRequiredError("flight", offer.ID))
	}

	s.ChosenFlight = &offer
	s.Ledger.set(StepHotels, s.Ledger.At(StepFlights)+offer.TotalPrice)
	m.advance(s, ActionConfirmFlight, StepHotels)
	return nil
}

// ConfirmHotelOffer records the chosen offer and moves 5 → 6. ledger[5] is
// overwritten with ledger[4] + offer price, replacing the flight figure.
func (m *Machine) ConfirmHotelOffer(s *State, offer models.HotelOffer) error {
	if err := m.expect(s, ActionConfirmHotelOffer, StepHotels); err != nil {
		return err
	}
	if offer.OfferID == "" {
		return m.reject(s, ActionConfirmHotelOffer, apperrors.NewSelectionRequiredError("hotelOffer", offer.OfferID))
	}

	s.ChosenHotelOffer = &offer
	s.Ledger.set(StepHotels, s.Ledger.At(StepFlights)+offer.TotalPrice)
	m.advance(s, ActionConfirmHotelOffer, StepActivities)
	return nil
}

// ConfirmActivities records the chosen activities (possibly none) and moves
// 6 → 7. Activities are kept once per name and add nothing to the price.
func (m *Machine) ConfirmActivities(s *State, acts []models.Activity) error {
	if err := m.expect(s, ActionConfirmActivities, StepActivities); err != nil {
		return err
	}

	seen := make(map[string]bool, len(acts))
	chosen := make([]models.Activity, 0, len(acts))
	for _, a := range acts {
		key := strings.TrimSpace(a.Name)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		chosen = append(chosen, a)
	}

	s.ChosenActivities = chosen
	s.Ledger.set(StepReview, s.Ledger.At(StepActivities))
	m.advance(s, ActionConfirmActivities, StepReview)
	return nil
}

// GoBack moves to an earlier step without touching any recorded choice.
func (m *Machine) GoBack(s *State, to Step) error {
	if s.Step == StepDestination || !to.Valid() || to >= s.Step {
		return m.reject(s, ActionGoBack, apperrors.NewInvalidTransitionError(
			ActionGoBack+" to "+strconv.Itoa(int(to)), int(s.Step)))
	}
	m.advance(s, ActionGoBack, to)
	return nil
}

func (m *Machine) expect(s *State, action string, want Step) error {
	if s.Step != want {
		return m.reject(s, action, apperrors.NewInvalidTransitionError(action, int(s.Step)))
	}
	return nil
}

func (m *Machine) reject(s *State, action string, err *apperrors.StandardError) error {
	metrics.WizardRejections.WithLabelValues(action, string(err.Code)).Inc()
	m.logger.Warn("wizard action rejected", map[string]interface{}{
		"sessionId": s.SessionID,
		"action":    action,
		"step":      s.Step.String(),
		"code":      string(err.Code),
		"details":   err.Details,
	})
	return err
}

func (m *Machine) advance(s *State, action string, to Step) {
	from := s.Step
	s.Step = to
	metrics.WizardTransitions.WithLabelValues(action, from.String(), to.String()).Inc()
	m.logger.Info("wizard step changed", map[string]interface{}{
		"sessionId": s.SessionID,
		"action":    action,
		"from":      from.String(),
		"to":        to.String(),
		"total":     s.Total(),
	})
}
