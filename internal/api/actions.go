package api

import (
	"strings"

	apperrors "travelbot/internal/common/errors"
	"travelbot/internal/models"
	"travelbot/internal/session"
	"travelbot/internal/wizard"
)

// apply maps one validated action onto the wizard. Flight, hotel offer and
// activity choices are resolved against the options this session was last
// shown; an id that was never offered reaches the wizard as an empty choice.
func (h *Handler) apply(sess *session.Session, action string, payload map[string]interface{}) error {
	s := sess.State

	switch action {
	case wizard.ActionSubmitDestination:
		return h.machine.SubmitDestination(s, str(payload, "location"))

	case wizard.ActionConfirmLocation:
		loc := models.ParsedLocation{
			City:    str(payload, "city"),
			State:   str(payload, "state"),
			Country: str(payload, "country"),
		}
		if offered := sess.Options.Location; offered != nil {
			loc.Clarifications = offered.Clarifications
		}
		return h.machine.ConfirmLocation(s, loc)

	case wizard.ActionConfirmAirports:
		return h.machine.ConfirmAirports(s, str(payload, "origin"), str(payload, "destination"))

	case wizard.ActionSubmitDates:
		return h.machine.SubmitDates(s, str(payload, "departDate"), str(payload, "returnDate"))

	case wizard.ActionConfirmFlight:
		offer, _ := sess.Options.FindFlight(str(payload, "flightId"))
		return h.machine.ConfirmFlight(s, offer)

	case wizard.ActionConfirmHotelOffer:
		offer, _ := sess.Options.FindHotelOffer(str(payload, "offerId"))
		return h.machine.ConfirmHotelOffer(s, offer)

	case wizard.ActionConfirmActivities:
		names := strs(payload, "activities")
		acts, missing := sess.Options.FindActivities(names)
		if len(missing) > 0 && s.Step == wizard.StepActivities {
			return apperrors.NewSelectionRequiredError("activity", strings.Join(missing, ", "))
		}
		return h.machine.ConfirmActivities(s, acts)

	case wizard.ActionGoBack:
		step, _ := payload["step"].(float64)
		return h.machine.GoBack(s, wizard.Step(int(step)))
	}

	return apperrors.NewValidationFailedError("Unknown action", "type: "+action)
}

func str(payload map[string]interface{}, key string) string {
	v, _ := payload[key].(string)
	return v
}

func strs(payload map[string]interface{}, key string) []string {
	raw, _ := payload[key].([]interface{})
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
