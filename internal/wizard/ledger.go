// internal/wizard/ledger.go
package wizard

// Ledger holds the running trip price recorded against each step index.
// Slots are written only by confirm actions; an unwritten slot is 0.
type Ledger [StepCount]float64

// At returns the price recorded for step, or 0 for an out-of-range step.
func (l Ledger) At(step Step) float64 {
	if !step.Valid() {
		return 0
	}
	return l[step]
}

func (l *Ledger) set(step Step, v float64) {
	if step.Valid() {
		l[step] = v
	}
}
