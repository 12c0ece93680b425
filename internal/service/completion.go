package service

import (
	"snapfolio/internal/domain"
)

// AllUploadsComplete decides whether the upload phase of an event is finished:
// every assigned photographer has signalled done. An event with no assigned
// photographers has nothing to wait for, so the empty set counts as complete.
//
// The decision is pure and is always fed a fresh read of the assignment set.
// Photographers may be added or removed between calls, so callers never cache
// a count; they re-read and re-evaluate after every mutating operation. The
// answer is a best-effort snapshot, not a linearizable check; convergence
// comes from re-evaluation on every markDone, not from atomicity.
func AllUploadsComplete(assignments []domain.PhotographerAssignment) bool {
	for _, a := range assignments {
		if !a.UploadsComplete {
			return false
		}
	}
	return true
}
