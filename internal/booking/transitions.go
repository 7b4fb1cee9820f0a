package booking

import "github.com/example/carshare/internal/models"

// allowedTransitions is the booking state machine as a directed graph.
// Needs Approval is the only non-terminal state; Approved and Declined
// accept no further transitions.
var allowedTransitions = map[models.BookingStatus][]models.BookingStatus{
	models.StatusNeedsApproval: {models.StatusApproved, models.StatusDeclined},
	models.StatusApproved:      {},
	models.StatusDeclined:      {},
}

// CanTransition reports whether from -> to is a legal status change.
func CanTransition(from, to models.BookingStatus) bool {
	for _, s := range allowedTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}
