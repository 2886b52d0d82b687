package enums

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBookingStatusTransitions(t *testing.T) {
	t.Parallel()

	assert.True(t, BookingStatusPending.CanTransitionTo(BookingStatusConfirmed))
	assert.True(t, BookingStatusPending.CanTransitionTo(BookingStatusCancelled))
	assert.True(t, BookingStatusConfirmed.CanTransitionTo(BookingStatusCompleted))
	assert.True(t, BookingStatusConfirmed.CanTransitionTo(BookingStatusCancelled))

	assert.False(t, BookingStatusPending.CanTransitionTo(BookingStatusCompleted))
	assert.False(t, BookingStatusCancelled.CanTransitionTo(BookingStatusPending))
	assert.False(t, BookingStatusCompleted.CanTransitionTo(BookingStatusCancelled))
}

func TestBookingStatusTerminal(t *testing.T) {
	t.Parallel()

	assert.True(t, BookingStatusCancelled.IsTerminal())
	assert.True(t, BookingStatusCompleted.IsTerminal())
	assert.False(t, BookingStatusPending.IsTerminal())
	assert.False(t, BookingStatus("bogus").IsTerminal())
}

func TestParseBookingStatus(t *testing.T) {
	t.Parallel()

	status, err := ParseBookingStatus("confirmed")
	require.NoError(t, err)
	assert.Equal(t, BookingStatusConfirmed, status)

	_, err = ParseBookingStatus("shipped")
	assert.Error(t, err)
}

func TestParseActorRole(t *testing.T) {
	t.Parallel()

	role, err := ParseActorRole("vendor")
	require.NoError(t, err)
	assert.Equal(t, ActorRoleVendor, role)

	_, err = ParseActorRole("admin")
	assert.Error(t, err)
}
