package observability

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObservability_NilIsNoOp(t *testing.T) {
	var obs *Observability
	ctx := context.Background()

	assert.NotPanics(t, func() {
		obs.RecordJobProcessed(ctx, "calculate-qscore", "completed")
		obs.RecordJobDuration(ctx, "calculate-qscore", time.Second, "completed")
		obs.RecordScore(ctx, 82, "B", "default")
	})
	assert.NoError(t, obs.Shutdown(ctx))
}

func TestObservability_RecordAndShutdown(t *testing.T) {
	obs, err := New("qscore-workers-test")
	require.NoError(t, err)
	ctx := context.Background()

	obs.RecordJobProcessed(ctx, "calculate-qscore", "completed")
	obs.RecordJobDuration(ctx, "calculate-qscore", 250*time.Millisecond, "completed")
	obs.RecordScore(ctx, 82, "B", "default")

	assert.NoError(t, obs.Shutdown(ctx))
}
