package models

// Availability is the technician's working state.
type Availability string

const (
	AvailabilityFree    Availability = "FREE"
	AvailabilityOnJob   Availability = "ONJOB"
	AvailabilityOffline Availability = "OFFLINE"
)

var availabilityTransitions = map[Availability][]Availability{
	AvailabilityFree:    {AvailabilityOnJob, AvailabilityOffline},
	AvailabilityOnJob:   {AvailabilityFree, AvailabilityOffline},
	AvailabilityOffline: {AvailabilityFree},
}

// CanTransitionTo reports whether moving from a to next is allowed.
func (a Availability) CanTransitionTo(next Availability) bool {
	for _, allowed := range availabilityTransitions[a] {
		if allowed == next {
			return true
		}
	}
	return false
}
