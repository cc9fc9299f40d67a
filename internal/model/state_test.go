package model

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransitionLegalEdges(t *testing.T) {
	cases := []struct {
		from   TicketState
		action TicketAction
		want   TicketState
	}{
		{StateAvailable, ActionReserve, StateReserved},
		{StateReserved, ActionConfirm, StatePurchased},
		{StateReserved, ActionDecline, StateAvailable},
		{StatePurchased, ActionDecline, StateAvailable},
	}
	for _, c := range cases {
		got, err := Transition(c.from, c.action)
		require.NoError(t, err, "%s + %s", c.from, c.action)
		assert.Equal(t, c.want, got)
	}
}

func TestTransitionIllegalEdges(t *testing.T) {
	cases := []struct {
		from   TicketState
		action TicketAction
	}{
		{StateAvailable, ActionConfirm},
		{StateAvailable, ActionDecline},
		{StateReserved, ActionReserve},
		{StatePurchased, ActionReserve},
		{StatePurchased, ActionConfirm},
	}
	for _, c := range cases {
		_, err := Transition(c.from, c.action)
		require.Error(t, err, "%s + %s", c.from, c.action)

		var invalid *InvalidTransitionError
		require.True(t, errors.As(err, &invalid))
		assert.Equal(t, c.from, invalid.From)
		assert.Equal(t, c.action, invalid.Action)
	}
}

func TestTicketStateString(t *testing.T) {
	assert.Equal(t, "AVAILABLE", StateAvailable.String())
	assert.Equal(t, "RESERVED", StateReserved.String())
	assert.Equal(t, "PURCHASED", StatePurchased.String())
	assert.Equal(t, "TicketState(9)", TicketState(9).String())
}
