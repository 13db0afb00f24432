package order

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTransitionEffect(t *testing.T) {
	valid := []struct {
		from   OrderStatus
		to     OrderStatus
		effect stockEffect
	}{
		{StatusDraft, StatusConfirmed, effectReserve},
		{StatusDraft, StatusCancelled, effectNone},
		{StatusConfirmed, StatusProcessing, effectNone},
		{StatusConfirmed, StatusShipped, effectDeduct},
		{StatusConfirmed, StatusCompleted, effectDeduct},
		{StatusConfirmed, StatusCancelled, effectRelease},
		{StatusProcessing, StatusShipped, effectDeduct},
		{StatusProcessing, StatusCompleted, effectDeduct},
		{StatusProcessing, StatusCancelled, effectRelease},
		{StatusShipped, StatusCompleted, effectDeduct},
		{StatusShipped, StatusCancelled, effectRelease},
	}

	for _, tc := range valid {
		t.Run(string(tc.from)+" to "+string(tc.to), func(t *testing.T) {
			effect, err := transitionEffect(tc.from, tc.to)
			assert.NoError(t, err)
			assert.Equal(t, tc.effect, effect)
		})
	}

	all := []OrderStatus{
		StatusDraft, StatusConfirmed, StatusProcessing,
		StatusShipped, StatusCompleted, StatusCancelled,
	}

	validSet := make(map[[2]OrderStatus]bool)
	for _, tc := range valid {
		validSet[[2]OrderStatus{tc.from, tc.to}] = true
	}

	// Everything outside the table, self-transitions included, is rejected.
	for _, from := range all {
		for _, to := range all {
			if validSet[[2]OrderStatus{from, to}] {
				continue
			}
			t.Run(string(from)+" to "+string(to)+" rejected", func(t *testing.T) {
				_, err := transitionEffect(from, to)
				assert.ErrorIs(t, err, ErrInvalidTransition)
			})
		}
	}
}

func TestIsReserving(t *testing.T) {
	assert.False(t, IsReserving(StatusDraft))
	assert.True(t, IsReserving(StatusConfirmed))
	assert.True(t, IsReserving(StatusProcessing))
	assert.True(t, IsReserving(StatusShipped))
	assert.False(t, IsReserving(StatusCompleted))
	assert.False(t, IsReserving(StatusCancelled))
}

func TestValidStatus(t *testing.T) {
	for _, s := range []OrderStatus{
		StatusDraft, StatusConfirmed, StatusProcessing,
		StatusShipped, StatusCompleted, StatusCancelled,
	} {
		assert.True(t, ValidStatus(s), string(s))
	}
	assert.False(t, ValidStatus(OrderStatus("PENDING")))
	assert.False(t, ValidStatus(OrderStatus("")))
}
