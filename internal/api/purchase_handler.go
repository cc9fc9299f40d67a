package api

import (
	"net/http"
	"strconv"
	"time"

	"rifadesk/internal/service"
	"rifadesk/internal/wompi"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// PurchaseHandler drives the reserve/confirm/decline workflow.
type PurchaseHandler struct {
	purchaseService *service.PurchaseService
	gateway         *wompi.Client
	logger          *logrus.Logger
}

// NewPurchaseHandler creates a PurchaseHandler.
func NewPurchaseHandler(db *gorm.DB, logger *logrus.Logger, gateway *wompi.Client, reservationTTL time.Duration) *PurchaseHandler {
	return &PurchaseHandler{
		purchaseService: service.NewPurchaseService(db, logger, reservationTTL),
		gateway:         gateway,
		logger:          logger,
	}
}

// Reserve reserves tickets for a purchaser. A purchase reference is minted
// when the caller does not supply one, so back-office sales get correlated
// the same way storefront checkouts do.
// POST /api/lotteries/:lottery_id/purchases
func (h *PurchaseHandler) Reserve(c *gin.Context) {
	lotteryID, err := strconv.ParseUint(c.Param("lottery_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "lottery_id must be numeric"})
		return
	}
	var in service.ReserveInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}
	if in.PurchaseReference == "" {
		in.PurchaseReference = h.gateway.GeneratePurchaseReference()
	}
	clients, err := h.purchaseService.Reserve(c.Request.Context(), lotteryID, in)
	if err != nil {
		h.logger.WithError(err).Error("Reserve failed")
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"purchase_reference": in.PurchaseReference,
		"clients":            clients,
	})
}

// Verify confirms a client's ticket purchase. Repeating the call is a no-op
// on the purchase record.
// POST /api/clients/:client_id/verify
func (h *PurchaseHandler) Verify(c *gin.Context) {
	clientID, err := strconv.ParseUint(c.Param("client_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "client_id must be numeric"})
		return
	}
	purchase, err := h.purchaseService.Confirm(c.Request.Context(), clientID)
	if err != nil {
		h.logger.WithError(err).Error("Verify failed")
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":  "Ticket purchase verified successfully.",
		"purchase": purchase,
	})
}

// Decline releases a client's ticket back to AVAILABLE and removes the
// purchase attempt with everything it owns.
// POST /api/clients/:client_id/decline
func (h *PurchaseHandler) Decline(c *gin.Context) {
	clientID, err := strconv.ParseUint(c.Param("client_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "client_id must be numeric"})
		return
	}
	if err := h.purchaseService.Decline(c.Request.Context(), clientID); err != nil {
		h.logger.WithError(err).Error("Decline failed")
		c.JSON(errStatus(err), gin.H{"success": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
