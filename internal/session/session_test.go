// internal/session/session_test.go
package session

import (
	"testing"

	"travelbot/internal/models"
	"travelbot/internal/wizard"

	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	s := New("abc")

	assert.Equal(t, "abc", s.ID)
	assert.Equal(t, "abc", s.State.SessionID)
	assert.Equal(t, wizard.StepDestination, s.State.Step)
	assert.Equal(t, 0, s.Conversation.Len())
	assert.False(t, s.CreatedAt.IsZero())
}

func TestOptions_Remember(t *testing.T) {
	var o Options

	o.Remember(&wizard.View{Step: wizard.StepFlights, Flights: []models.FlightOffer{{ID: "1"}}})
	o.HotelOffers = []models.HotelOffer{{OfferID: "OLD"}}
	o.Remember(&wizard.View{Step: wizard.StepHotels, Hotels: []models.Hotel{{HotelID: "H1"}}})
	o.Remember(&wizard.View{Step: wizard.StepReview})

	assert.Len(t, o.Flights, 1, "other steps keep their options")
	assert.Len(t, o.Hotels, 1)
	assert.Nil(t, o.HotelOffers, "re-entering hotels forgets old offers")
}

func TestOptions_Find(t *testing.T) {
	o := Options{
		Flights:     []models.FlightOffer{{ID: "1", TotalPrice: 400}},
		HotelOffers: []models.HotelOffer{{OfferID: "OFF1", TotalPrice: 150}},
		Activities:  []models.Activity{{Name: "Gothic Quarter walk"}, {Name: "Sagrada Familia tour"}},
	}

	f, ok := o.FindFlight("1")
	assert.True(t, ok)
	assert.Equal(t, 400.0, f.TotalPrice)
	_, ok = o.FindFlight("2")
	assert.False(t, ok)

	h, ok := o.FindHotelOffer("OFF1")
	assert.True(t, ok)
	assert.Equal(t, 150.0, h.TotalPrice)

	found, missing := o.FindActivities([]string{"Sagrada Familia tour", "Bungee", " Gothic Quarter walk "})
	assert.Len(t, found, 2)
	assert.Equal(t, []string{"Bungee"}, missing)
}
