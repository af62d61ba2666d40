package events

import "time"

type Status string

const (
	StatusUpcoming Status = "UPCOMING"
	StatusActive   Status = "ACTIVE"
	StatusEnded    Status = "ENDED"
)

// activeWindow is how long after its start an event counts as running.
const activeWindow = 24 * time.Hour

// DeriveStatus reports where an event starting at startsAt stands at now.
func DeriveStatus(startsAt, now time.Time) Status {
	switch {
	case now.Before(startsAt):
		return StatusUpcoming
	case now.Before(startsAt.Add(activeWindow)):
		return StatusActive
	default:
		return StatusEnded
	}
}
