package models

import "time"

// CommissionPackage is the catalogue entry a technician subscribes to.
type CommissionPackage struct {
	ID             string    `bson:"id" json:"id"`
	Name           string    `bson:"name" json:"name"`
	Description    string    `bson:"description,omitempty" json:"description,omitempty"`
	Price          float64   `bson:"price" json:"price"`
	CommissionRate float64   `bson:"commissionRate" json:"commissionRate"`
	IsActive       bool      `bson:"isActive" json:"isActive"`
	CreatedAt      time.Time `bson:"createdAt" json:"createdAt"`
}
