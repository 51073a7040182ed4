package statemachine

import (
	"fmt"

	"foodhub-api/models"
)

// transitions is the authoritative state machine definition: every order
// status mapped to the set of statuses it may move to. Consulted once per
// transition request.
var transitions = map[models.OrderStatus][]models.OrderStatus{
	models.StatusPending:        {models.StatusConfirmed, models.StatusCancelled},
	models.StatusConfirmed:      {models.StatusPreparing, models.StatusCancelled},
	models.StatusPreparing:      {models.StatusOutForDelivery, models.StatusCancelled},
	models.StatusOutForDelivery: {models.StatusDelivered},
	models.StatusDelivered:      {},
	models.StatusCancelled:      {},
}

// NextStates returns the statuses reachable from the given one.
func NextStates(from models.OrderStatus) []models.OrderStatus {
	return transitions[from]
}

// IsTerminal reports whether a status has no outgoing transitions.
func IsTerminal(s models.OrderStatus) bool {
	next, ok := transitions[s]
	return ok && len(next) == 0
}

// IsValidStatus reports whether s is a known order status.
func IsValidStatus(s models.OrderStatus) bool {
	_, ok := transitions[s]
	return ok
}

// CanTransition checks whether an order may move from one status to
// another, naming both statuses in the error when it may not.
func CanTransition(from, to models.OrderStatus) error {
	for _, next := range transitions[from] {
		if next == to {
			return nil
		}
	}
	return fmt.Errorf("cannot change status from %s to %s", from, to)
}
