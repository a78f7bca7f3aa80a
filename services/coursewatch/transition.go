package coursewatch

import "seatwatch-backend/lib/scrapers/globalsearch"

// TransitionPolicy decides which status changes subscribers hear about.
type TransitionPolicy struct {
	// NotifyWaitList also reports moves into and out of the wait list.
	NotifyWaitList bool
}

// Interesting reports whether a change from old to current should be
// notified. A change is interesting when it gains or loses an open seat, or
// touches the wait list when NotifyWaitList is set.
func (p TransitionPolicy) Interesting(old, current globalsearch.Status) bool {
	if old == current {
		return false
	}
	if old == globalsearch.StatusOpen || current == globalsearch.StatusOpen {
		return true
	}
	return p.NotifyWaitList &&
		(old == globalsearch.StatusWaitList || current == globalsearch.StatusWaitList)
}
