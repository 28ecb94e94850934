package handlers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"techmate/models"
	"techmate/services/scheduling"
	"techmate/utils"
)

// ScheduleService is the part of scheduling.SchedulingFacade exposed over HTTP.
type ScheduleService interface {
	FindConflicts(ctx context.Context, technicianID string, windowStart, windowEnd time.Time) ([]models.ScheduleInterval, error)
	IntervalsInRange(ctx context.Context, technicianID string, start, end time.Time) ([]models.EnrichedInterval, error)
	CreateIntervalForActivity(ctx context.Context, snap models.ActivitySnapshot) scheduling.CreateResult
	DeleteIntervalsForActivity(ctx context.Context, activityID string) (int64, error)
	DeleteIntervalsForWarranty(ctx context.Context, warrantyID string) (int64, error)
}

type ScheduleHandler struct {
	Service ScheduleService
}

func NewScheduleHandler(svc ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{Service: svc}
}

// GetConflictsHandler lists the intervals overlapping [start, end).
func (h *ScheduleHandler) GetConflictsHandler(c *gin.Context) {
	start, end, err := parseWindow(c)
	if err != nil {
		utils.JSONAppError(c, err)
		return
	}
	conflicts, err := h.Service.FindConflicts(c.Request.Context(), c.Param("id"), start, end)
	if err != nil {
		utils.JSONAppError(c, err)
		return
	}
	if conflicts == nil {
		conflicts = []models.ScheduleInterval{}
	}
	c.JSON(http.StatusOK, gin.H{"conflicts": conflicts})
}

// GetIntervalsHandler lists the technician's intervals with their booking details.
func (h *ScheduleHandler) GetIntervalsHandler(c *gin.Context) {
	start, end, err := parseWindow(c)
	if err != nil {
		utils.JSONAppError(c, err)
		return
	}
	intervals, err := h.Service.IntervalsInRange(c.Request.Context(), c.Param("id"), start, end)
	if err != nil {
		utils.JSONAppError(c, err)
		return
	}
	if intervals == nil {
		intervals = []models.EnrichedInterval{}
	}
	c.JSON(http.StatusOK, gin.H{"intervals": intervals})
}

// CreateActivityIntervalHandler blocks the assigned technician's time for a
// booking or warranty visit.
func (h *ScheduleHandler) CreateActivityIntervalHandler(c *gin.Context) {
	var snap models.ActivitySnapshot
	if err := c.ShouldBindJSON(&snap); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	res := h.Service.CreateIntervalForActivity(c.Request.Context(), snap)
	switch res.Outcome {
	case scheduling.OutcomeCreated:
		c.JSON(http.StatusCreated, res)
	case scheduling.OutcomeSkipped:
		getLogger(c).Info("activity produced no interval",
			zap.String("activityId", snap.ActivityID),
			zap.String("reason", string(res.Reason)))
		c.JSON(http.StatusOK, res)
	default:
		utils.JSONAppError(c, res.Err)
	}
}

// DeleteActivityIntervalsHandler releases the time held for an activity.
// ?kind=WARRANTY targets warranty visits.
func (h *ScheduleHandler) DeleteActivityIntervalsHandler(c *gin.Context) {
	activityID := c.Param("activityId")

	var (
		deleted int64
		err     error
	)
	switch models.ActivityKind(c.DefaultQuery("kind", string(models.ActivityKindBooking))) {
	case models.ActivityKindBooking:
		deleted, err = h.Service.DeleteIntervalsForActivity(c.Request.Context(), activityID)
	case models.ActivityKindWarranty:
		deleted, err = h.Service.DeleteIntervalsForWarranty(c.Request.Context(), activityID)
	default:
		err = fmt.Errorf("%w: kind must be BOOKING or WARRANTY", utils.ErrInvalidInput)
	}
	if err != nil {
		utils.JSONAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": deleted})
}

func parseWindow(c *gin.Context) (time.Time, time.Time, error) {
	start, err := time.Parse(time.RFC3339, c.Query("start"))
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: start must be RFC3339", utils.ErrInvalidInput)
	}
	end, err := time.Parse(time.RFC3339, c.Query("end"))
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: end must be RFC3339", utils.ErrInvalidInput)
	}
	return start, end, nil
}
