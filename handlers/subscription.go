package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"techmate/middleware"
	"techmate/models"
	"techmate/services/subscription"
	"techmate/utils"
)

type SubscriptionHandler struct {
	Service subscription.SubscriptionService
}

func NewSubscriptionHandler(svc subscription.SubscriptionService) *SubscriptionHandler {
	return &SubscriptionHandler{Service: svc}
}

type paymentInput struct {
	PaymentMethod models.PaymentMethod `json:"paymentMethod" binding:"required"`
	CardToken     string               `json:"cardToken"`
}

// SubscribeHandler puts the authenticated technician on a commission package.
func (h *SubscriptionHandler) SubscribeHandler(c *gin.Context) {
	var input struct {
		PackageID string `json:"packageId" binding:"required"`
		paymentInput
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	sub, err := h.Service.Subscribe(c.Request.Context(), c.GetString(middleware.TechnicianIDKey), input.PackageID,
		input.PaymentMethod, subscription.WithCardToken(input.CardToken))
	if err != nil {
		utils.JSONAppError(c, err)
		return
	}
	c.JSON(http.StatusCreated, sub)
}

func (h *SubscriptionHandler) RenewHandler(c *gin.Context) {
	var input paymentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	sub, err := h.Service.Renew(c.Request.Context(), c.GetString(middleware.TechnicianIDKey),
		input.PaymentMethod, subscription.WithCardToken(input.CardToken))
	if err != nil {
		utils.JSONAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, sub)
}

// CurrentHandler returns {"subscription": null} when nothing is active.
func (h *SubscriptionHandler) CurrentHandler(c *gin.Context) {
	details, err := h.Service.CurrentSubscription(c.Request.Context(), c.GetString(middleware.TechnicianIDKey))
	if err != nil {
		utils.JSONAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"subscription": details})
}

func (h *SubscriptionHandler) HistoryHandler(c *gin.Context) {
	subs, err := h.Service.PaymentHistory(c.Request.Context(), c.GetString(middleware.TechnicianIDKey))
	if err != nil {
		utils.JSONAppError(c, err)
		return
	}
	if subs == nil {
		subs = []models.TechnicianSubscription{}
	}
	c.JSON(http.StatusOK, gin.H{"subscriptions": subs})
}

func (h *SubscriptionHandler) CancelHandler(c *gin.Context) {
	sub, err := h.Service.Cancel(c.Request.Context(), c.GetString(middleware.TechnicianIDKey))
	if err != nil {
		utils.JSONAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, sub)
}
