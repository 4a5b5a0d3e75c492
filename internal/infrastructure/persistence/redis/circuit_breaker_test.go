package redis

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCircuitBreaker(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }

	t.Run("TripsAfterMaxFailures", func(t *testing.T) {
		cb := NewCircuitBreaker(3, time.Minute)
		cb.now = clock

		for i := 0; i < 2; i++ {
			cb.RecordFailure()
			assert.True(t, cb.AllowRequest())
		}
		cb.RecordFailure()

		assert.Equal(t, CircuitOpen, cb.State())
		assert.False(t, cb.AllowRequest())
	})

	t.Run("HalfOpensAfterTimeout", func(t *testing.T) {
		current := now
		cb := NewCircuitBreaker(1, time.Minute)
		cb.now = func() time.Time { return current }

		cb.RecordFailure()
		assert.False(t, cb.AllowRequest())

		current = current.Add(2 * time.Minute)
		assert.True(t, cb.AllowRequest())
		assert.Equal(t, CircuitHalfOpen, cb.State())

		cb.RecordSuccess()
		assert.Equal(t, CircuitClosed, cb.State())
	})

	t.Run("FailedProbeReopens", func(t *testing.T) {
		current := now
		cb := NewCircuitBreaker(5, time.Minute)
		cb.now = func() time.Time { return current }

		for i := 0; i < 5; i++ {
			cb.RecordFailure()
		}
		current = current.Add(2 * time.Minute)
		assert.True(t, cb.AllowRequest())

		cb.RecordFailure()
		assert.Equal(t, CircuitOpen, cb.State())
		assert.False(t, cb.AllowRequest())
	})

	t.Run("SuccessResetsFailures", func(t *testing.T) {
		cb := NewCircuitBreaker(2, time.Minute)
		cb.now = clock

		cb.RecordFailure()
		cb.RecordSuccess()
		cb.RecordFailure()

		assert.Equal(t, CircuitClosed, cb.State())
	})
}
