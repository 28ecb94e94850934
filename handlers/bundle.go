package handlers

import (
	"github.com/gin-gonic/gin"
)

// HandlerBundle groups all endpoint handlers into one struct.
type HandlerBundle struct {
	// Schedule endpoints
	GetConflictsHandler            gin.HandlerFunc
	GetIntervalsHandler            gin.HandlerFunc
	CreateActivityIntervalHandler  gin.HandlerFunc
	DeleteActivityIntervalsHandler gin.HandlerFunc

	// Subscription endpoints
	SubscribeHandler           gin.HandlerFunc
	RenewSubscriptionHandler   gin.HandlerFunc
	CurrentSubscriptionHandler gin.HandlerFunc
	SubscriptionHistoryHandler gin.HandlerFunc
	CancelSubscriptionHandler  gin.HandlerFunc

	// Admin endpoints
	ReconcileHandler gin.HandlerFunc
	HealthHandler    gin.HandlerFunc
}

// NewHandlerBundle wires the handler methods into a bundle.
func NewHandlerBundle(schedule *ScheduleHandler, subs *SubscriptionHandler, admin *AdminHandler) *HandlerBundle {
	return &HandlerBundle{
		GetConflictsHandler:            schedule.GetConflictsHandler,
		GetIntervalsHandler:            schedule.GetIntervalsHandler,
		CreateActivityIntervalHandler:  schedule.CreateActivityIntervalHandler,
		DeleteActivityIntervalsHandler: schedule.DeleteActivityIntervalsHandler,

		SubscribeHandler:           subs.SubscribeHandler,
		RenewSubscriptionHandler:   subs.RenewHandler,
		CurrentSubscriptionHandler: subs.CurrentHandler,
		SubscriptionHistoryHandler: subs.HistoryHandler,
		CancelSubscriptionHandler:  subs.CancelHandler,

		ReconcileHandler: admin.ReconcileHandler,
		HealthHandler:    admin.HealthHandler,
	}
}
