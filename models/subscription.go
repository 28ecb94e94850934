package models

import "time"

type SubscriptionStatus string

const (
	SubscriptionActive    SubscriptionStatus = "ACTIVE"
	SubscriptionExpired   SubscriptionStatus = "EXPIRED"
	SubscriptionCancelled SubscriptionStatus = "CANCELLED"
)

var subscriptionTransitions = map[SubscriptionStatus][]SubscriptionStatus{
	SubscriptionActive: {SubscriptionExpired, SubscriptionCancelled},
}

// CanTransitionTo reports whether moving from s to next is allowed. EXPIRED
// and CANCELLED are terminal.
func (s SubscriptionStatus) CanTransitionTo(next SubscriptionStatus) bool {
	for _, allowed := range subscriptionTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

type PaymentMethod string

const (
	PaymentMethodBalance PaymentMethod = "BALANCE"
	PaymentMethodCard    PaymentMethod = "CARD"
	PaymentMethodCash    PaymentMethod = "CASH"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentMethodBalance, PaymentMethodCard, PaymentMethodCash:
		return true
	}
	return false
}

// PaymentRecord is one entry of a subscription's append-only payment history.
type PaymentRecord struct {
	ID        string        `bson:"id" json:"id"`
	Amount    float64       `bson:"amount" json:"amount"`
	PaidAt    time.Time     `bson:"paidAt" json:"paidAt"`
	Method    PaymentMethod `bson:"method" json:"method"`
	Reference string        `bson:"reference,omitempty" json:"reference,omitempty"` // card charge id
}

type TechnicianSubscription struct {
	ID             string             `bson:"id" json:"id"`
	TechnicianID   string             `bson:"technicianId" json:"technicianId"`
	PackageID      string             `bson:"packageId" json:"packageId"`
	StartDate      time.Time          `bson:"startDate" json:"startDate"`
	EndDate        time.Time          `bson:"endDate" json:"endDate"`
	Status         SubscriptionStatus `bson:"status" json:"status"`
	PaymentHistory []PaymentRecord    `bson:"paymentHistory" json:"paymentHistory"`
	CreatedAt      time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// SubscriptionDetails is a subscription with its package resolved.
type SubscriptionDetails struct {
	TechnicianSubscription `bson:",inline"`
	Package                *CommissionPackage `json:"package,omitempty"`
}

// ChargeRequest is handed to the card payment gateway.
type ChargeRequest struct {
	TechnicianID    string
	Amount          float64
	Currency        string
	PaymentMethodID string
	Description     string
	IdempotencyKey  string
	Metadata        map[string]string
}
