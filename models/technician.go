package models

import "time"

type TechnicianStatus string

const (
	TechnicianStatusApproved  TechnicianStatus = "APPROVED"
	TechnicianStatusPending   TechnicianStatus = "PENDING"
	TechnicianStatusRejected  TechnicianStatus = "REJECTED"
	TechnicianStatusSuspended TechnicianStatus = "SUSPENDED"
)

// Technician is owned by the onboarding service; this engine only writes
// Availability and Balance.
type Technician struct {
	ID           string           `bson:"id" json:"id"`
	FullName     string           `bson:"fullName" json:"fullName"`
	Status       TechnicianStatus `bson:"status" json:"status"`
	Availability Availability     `bson:"availability" json:"availability"`
	Balance      float64          `bson:"balance" json:"balance"`
	UpdatedAt    time.Time        `bson:"updatedAt" json:"updatedAt"`
}
