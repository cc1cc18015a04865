// internal/wizard/step.go
package wizard

import "fmt"

// Step is a wizard position. The flow is linear forward with free movement
// back to any earlier step.
type Step int

const (
	StepDestination Step = iota
	StepLocation
	StepAirports
	StepDates
	StepFlights
	StepHotels
	StepActivities
	StepReview
)

// StepCount is the number of wizard steps.
const StepCount = 8

var stepNames = [StepCount]string{
	"destination",
	"location",
	"airports",
	"dates",
	"flights",
	"hotels",
	"activities",
	"review",
}

var stepTitles = [StepCount]string{
	"Destination",
	"Confirm your location",
	"Confirm airport codes",
	"Travel dates",
	"Flight search & selection",
	"Hotels in destination city",
	"Activities",
	"Review your trip",
}

func (s Step) Valid() bool {
	return s >= StepDestination && s <= StepReview
}

func (s Step) String() string {
	if !s.Valid() {
		return fmt.Sprintf("step(%d)", int(s))
	}
	return stepNames[s]
}

func (s Step) Title() string {
	if !s.Valid() {
		return ""
	}
	return stepTitles[s]
}
