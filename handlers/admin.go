package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"techmate/utils"
)

// SweepEnqueuer queues a manual reconciliation run.
type SweepEnqueuer interface {
	Enqueue(ctx context.Context, job string) (taskID string, alreadyQueued bool, err error)
}

// AdminHandler encapsulates operator endpoints.
type AdminHandler struct {
	Sweeps SweepEnqueuer
	Health func() utils.HealthStatus
}

func NewAdminHandler(sweeps SweepEnqueuer, health func() utils.HealthStatus) *AdminHandler {
	return &AdminHandler{Sweeps: sweeps, Health: health}
}

// ReconcileHandler queues the sweep named by :job ("availability" or
// "subscriptions") outside its regular schedule.
func (ah *AdminHandler) ReconcileHandler(c *gin.Context) {
	job := c.Param("job")
	taskID, alreadyQueued, err := ah.Sweeps.Enqueue(c.Request.Context(), job)
	if err != nil {
		utils.JSONAppError(c, err)
		return
	}
	if alreadyQueued {
		c.JSON(http.StatusOK, gin.H{"job": job, "alreadyQueued": true})
		return
	}
	getLogger(c).Info("manual sweep queued", zap.String("job", job), zap.String("taskId", taskID))
	c.JSON(http.StatusAccepted, gin.H{"job": job, "taskId": taskID})
}

// HealthHandler reports the latest dependency health snapshot.
func (ah *AdminHandler) HealthHandler(c *gin.Context) {
	status := ah.Health()
	code := http.StatusOK
	if !status.Mongo {
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, status)
}
