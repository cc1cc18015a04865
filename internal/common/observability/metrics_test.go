package observability

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestObservability_RecordsWithoutPanicking(t *testing.T) {
	obs := New("travelbot-test")
	defer obs.Shutdown()

	ctx := context.Background()
	assert.NotPanics(t, func() {
		obs.RecordStepEntered(ctx, "flights", false)
		obs.RecordStepEntered(ctx, "flights", true)
		obs.RecordStepDuration(ctx, "flights", 120*time.Millisecond)
	})
}

func TestObservability_ZeroAndNilAreNoOps(t *testing.T) {
	var zero Observability
	var nilObs *Observability

	ctx := context.Background()
	assert.NotPanics(t, func() {
		zero.RecordStepEntered(ctx, "review", false)
		zero.RecordStepDuration(ctx, "review", time.Second)
		zero.Shutdown()
		nilObs.RecordStepEntered(ctx, "review", false)
		nilObs.Shutdown()
	})
}
