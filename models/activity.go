package models

import "time"

// ActivityKind distinguishes bookings from warranty visits.
type ActivityKind string

const (
	ActivityKindBooking  ActivityKind = "BOOKING"
	ActivityKindWarranty ActivityKind = "WARRANTY"
)

// ActivitySchedule carries the time commitment of a booking lifecycle activity.
type ActivitySchedule struct {
	StartTime       *time.Time `json:"startTime"`
	ExpectedEndTime *time.Time `json:"expectedEndTime"`
}

// ActivitySnapshot is what the booking lifecycle service hands over when a
// technician gets assigned to an activity.
type ActivitySnapshot struct {
	ActivityID   string           `json:"activityId" binding:"required"`
	Kind         ActivityKind     `json:"kind"`
	TechnicianID string           `json:"technicianId"`
	IsUrgent     bool             `json:"isUrgent"`
	Schedule     ActivitySchedule `json:"schedule"`
	Code         string           `json:"code"`
}

// ActivitySummary is the read-side view of a booking or warranty used to
// decorate schedule intervals.
type ActivitySummary struct {
	ID           string    `bson:"id" json:"id"`
	Code         string    `bson:"code" json:"code"`
	Status       string    `bson:"status" json:"status"`
	CustomerName string    `bson:"customerName,omitempty" json:"customerName,omitempty"`
	Address      string    `bson:"address,omitempty" json:"address,omitempty"`
	CreatedAt    time.Time `bson:"createdAt" json:"createdAt"`
}
