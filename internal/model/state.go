package model

import "fmt"

// TicketState is the lifecycle state of a ticket. Values match the legacy
// integer encoding so existing rows keep their meaning.
type TicketState int

const (
	StateAvailable TicketState = 1
	StateReserved  TicketState = 2
	StatePurchased TicketState = 3
)

func (s TicketState) String() string {
	switch s {
	case StateAvailable:
		return "AVAILABLE"
	case StateReserved:
		return "RESERVED"
	case StatePurchased:
		return "PURCHASED"
	}
	return fmt.Sprintf("TicketState(%d)", int(s))
}

// TicketAction is an operation that moves a ticket between states.
type TicketAction string

const (
	ActionReserve TicketAction = "reserve"
	ActionConfirm TicketAction = "confirm"
	ActionDecline TicketAction = "decline"
)

// transitions is the legal edge set: AVAILABLE -reserve-> RESERVED,
// RESERVED -confirm-> PURCHASED, RESERVED -decline-> AVAILABLE. Declining a
// purchased ticket is the admin rollback path; it only happens together with
// removal of the purchase record.
var transitions = map[TicketState]map[TicketAction]TicketState{
	StateAvailable: {ActionReserve: StateReserved},
	StateReserved: {
		ActionConfirm: StatePurchased,
		ActionDecline: StateAvailable,
	},
	StatePurchased: {ActionDecline: StateAvailable},
}

// InvalidTransitionError reports an action applied to a ticket in a state that
// does not permit it.
type InvalidTransitionError struct {
	From   TicketState
	Action TicketAction
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("ticket state %s does not allow action %q", e.From, e.Action)
}

// Transition returns the state a ticket moves to when action is applied in
// state from, or an InvalidTransitionError. All state mutation goes through
// this table; callers never write ticket states directly.
func Transition(from TicketState, action TicketAction) (TicketState, error) {
	if next, ok := transitions[from][action]; ok {
		return next, nil
	}
	return 0, &InvalidTransitionError{From: from, Action: action}
}
