package models

import (
	"fmt"
	"strings"
)

// ParsedLocation is the structured form of a free-text destination.
type ParsedLocation struct {
	City           string `json:"city"`
	State          string `json:"state"`
	Country        string `json:"country"`
	Clarifications string `json:"clarifications"`
}

// ParsedDateRange is the structured form of a free-text date description.
// Dates are ISO (YYYY-MM-DD) or empty.
type ParsedDateRange struct {
	StartDate      string `json:"startDate"`
	EndDate        string `json:"endDate"`
	Clarifications string `json:"clarifications"`
}

type Segment struct {
	DepartureAirport string `json:"departureAirport"`
	DepartureTime    string `json:"departureTime"`
	ArrivalAirport   string `json:"arrivalAirport"`
	ArrivalTime      string `json:"arrivalTime"`
	Duration         string `json:"duration"`
	CarrierCode      string `json:"carrierCode"`
	FlightNumber     string `json:"flightNumber"`
}

type Itinerary struct {
	Duration string    `json:"duration,omitempty"`
	Segments []Segment `json:"segments"`
}

// FlightOffer is a priced, bookable flight itinerary set.
type FlightOffer struct {
	ID          string      `json:"id"`
	TotalPrice  float64     `json:"totalPrice"`
	Currency    string      `json:"currency,omitempty"`
	Itineraries []Itinerary `json:"itineraries"`
}

// SummaryLines renders the offer as a headline plus one line per segment.
func (f FlightOffer) SummaryLines() []string {
	lines := []string{fmt.Sprintf("Flight %s - $%.2f", f.ID, f.TotalPrice)}
	for i, itin := range f.Itineraries {
		lines = append(lines, fmt.Sprintf("Itinerary %d:", i+1))
		for j, seg := range itin.Segments {
			lines = append(lines, fmt.Sprintf(
				"  - Segment %d: %s (%s) → %s (%s), %s, Airline %s, Flight %s",
				j+1, seg.DepartureAirport, seg.DepartureTime,
				seg.ArrivalAirport, seg.ArrivalTime,
				seg.Duration, seg.CarrierCode, seg.FlightNumber,
			))
		}
	}
	return lines
}

func (f FlightOffer) Summary() string {
	return strings.Join(f.SummaryLines(), "\n")
}

type Hotel struct {
	HotelID string `json:"hotelId"`
	Name    string `json:"name"`
}

func (h Hotel) Label() string {
	name := h.Name
	if name == "" {
		name = "Unknown Hotel"
	}
	return fmt.Sprintf("%s (%s)", name, h.HotelID)
}

// HotelOffer is a priced stay at one hotel.
type HotelOffer struct {
	OfferID    string  `json:"offerId"`
	HotelID    string  `json:"hotelId"`
	TotalPrice float64 `json:"totalPrice"`
	Currency   string  `json:"currency,omitempty"`
}

func (o HotelOffer) Label() string {
	return fmt.Sprintf("Offer ID: %s - Price: $%.2f", o.OfferID, o.TotalPrice)
}

// HotelOffers groups the offers returned for one hotel.
type HotelOffers struct {
	HotelID   string       `json:"hotelId"`
	HotelName string       `json:"hotelName,omitempty"`
	Offers    []HotelOffer `json:"offers"`
}

// Activity is a bookable tour or attraction. PriceAmount is nil when the
// provider did not quote one.
type Activity struct {
	ID          string   `json:"id,omitempty"`
	Name        string   `json:"name"`
	PriceAmount *float64 `json:"priceAmount"`
	Currency    string   `json:"currency,omitempty"`
}

func (a Activity) Label() string {
	name := a.Name
	if name == "" {
		name = "Unknown Activity"
	}
	if a.PriceAmount == nil {
		return fmt.Sprintf("%s ($??)", name)
	}
	return fmt.Sprintf("%s ($%.2f)", name, *a.PriceAmount)
}

// GeoPoint is the top geocoding match for a free-text query.
type GeoPoint struct {
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	DisplayName string  `json:"displayName"`
}
