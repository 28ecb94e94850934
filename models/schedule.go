package models

import "time"

// ScheduleType identifies the activity that produced a schedule interval.
type ScheduleType string

const (
	ScheduleTypeBooking  ScheduleType = "BOOKING"
	ScheduleTypeWarranty ScheduleType = "WARRANTY"
)

// ScheduleStatus is stored on every interval. The conflict query does not read it.
type ScheduleStatus string

const (
	ScheduleStatusAvailable   ScheduleStatus = "AVAILABLE"
	ScheduleStatusUnavailable ScheduleStatus = "UNAVAILABLE"
)

// ScheduleInterval is a technician's time commitment over [StartTime, EndTime).
// A nil EndTime marks an open-ended commitment.
type ScheduleInterval struct {
	ID                string         `bson:"id" json:"id"`
	TechnicianID      string         `bson:"technicianId" json:"technicianId"`
	ScheduleType      ScheduleType   `bson:"scheduleType" json:"scheduleType"`
	ScheduleStatus    ScheduleStatus `bson:"scheduleStatus" json:"scheduleStatus"`
	StartTime         time.Time      `bson:"startTime" json:"startTime"`
	EndTime           *time.Time     `bson:"endTime" json:"endTime"`
	BookingID         string         `bson:"bookingId,omitempty" json:"bookingId,omitempty"`
	BookingWarrantyID string         `bson:"bookingWarrantyId,omitempty" json:"bookingWarrantyId,omitempty"`
	Note              string         `bson:"note,omitempty" json:"note,omitempty"`
	CreatedAt         time.Time      `bson:"createdAt" json:"createdAt"`
}

// IsOpenEnded reports whether the interval has no end time.
func (iv ScheduleInterval) IsOpenEnded() bool {
	return iv.EndTime == nil
}

// ActivityID returns whichever back-reference is populated.
func (iv ScheduleInterval) ActivityID() string {
	if iv.BookingID != "" {
		return iv.BookingID
	}
	return iv.BookingWarrantyID
}

// EnrichedInterval pairs an interval with presentation metadata of the activity behind it.
type EnrichedInterval struct {
	ScheduleInterval `bson:",inline"`
	Activity         *ActivitySummary `json:"activity,omitempty"`
}
