package scheduling

import "techmate/models"

type Outcome string

const (
	OutcomeCreated Outcome = "created"
	OutcomeSkipped Outcome = "skipped"
	OutcomeFailed  Outcome = "failed"
)

// SkipReason explains why an activity produced no interval.
type SkipReason string

const (
	SkipNoTechnician SkipReason = "no_technician"
	SkipUrgent       SkipReason = "urgent"
	SkipMissingTime  SkipReason = "missing_time"
	SkipInvertedTime SkipReason = "inverted_time"
)

// CreateResult is the outcome of CreateIntervalForActivity.
type CreateResult struct {
	Outcome  Outcome                  `json:"outcome"`
	Interval *models.ScheduleInterval `json:"interval,omitempty"`
	Reason   SkipReason               `json:"reason,omitempty"`
	Err      error                    `json:"-"`
}

func Created(iv *models.ScheduleInterval) CreateResult {
	return CreateResult{Outcome: OutcomeCreated, Interval: iv}
}

func Skipped(reason SkipReason) CreateResult {
	return CreateResult{Outcome: OutcomeSkipped, Reason: reason}
}

func Failed(err error) CreateResult {
	return CreateResult{Outcome: OutcomeFailed, Err: err}
}
