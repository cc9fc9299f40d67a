package api

import (
	"net/http"
	"strconv"

	"rifadesk/internal/repository"
	"rifadesk/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// PaymentHandler serves payment recording, balances and seller bills.
type PaymentHandler struct {
	paymentService *service.PaymentService
	billingService *service.BillingService
	logger         *logrus.Logger
}

// NewPaymentHandler creates a PaymentHandler.
func NewPaymentHandler(db *gorm.DB, logger *logrus.Logger) *PaymentHandler {
	payments := repository.NewPaymentRepository(db)
	clients := repository.NewClientRepository(db)
	return &PaymentHandler{
		paymentService: service.NewPaymentService(payments, clients, logger),
		billingService: service.NewBillingService(payments, clients, logger),
		logger:         logger,
	}
}

// RecordPayment appends one abono against a client.
// POST /api/clients/:client_id/payments
func (h *PaymentHandler) RecordPayment(c *gin.Context) {
	clientID, err := strconv.ParseUint(c.Param("client_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "client_id must be numeric"})
		return
	}
	var in service.RecordPaymentInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}
	payment, err := h.paymentService.RecordPayment(c.Request.Context(), clientID, in)
	if err != nil {
		h.logger.WithError(err).Error("RecordPayment failed")
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, payment)
}

// ClientBalance returns what a client has paid and what remains due.
// GET /api/clients/:client_id/balance
func (h *PaymentHandler) ClientBalance(c *gin.Context) {
	clientID, err := strconv.ParseUint(c.Param("client_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "client_id must be numeric"})
		return
	}
	balance, err := h.paymentService.ClientBalance(c.Request.Context(), clientID)
	if err != nil {
		h.logger.WithError(err).Error("ClientBalance failed")
		respondError(c, err)
		return
	}
	due, err := h.paymentService.AmountDue(c.Request.Context(), clientID)
	if err != nil {
		h.logger.WithError(err).Error("ClientBalance failed")
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"balance": balance, "amount_due": due})
}

// balanceRequest selects the days a settlement covers.
type balanceRequest struct {
	Dates []string `json:"dates" binding:"required"`
}

// SellerPaymentBalance aggregates the seller's payments on the given days.
// POST /api/sellers/:seller_id/payment-balance
func (h *PaymentHandler) SellerPaymentBalance(c *gin.Context) {
	sellerID, err := strconv.ParseUint(c.Param("seller_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "seller_id must be numeric"})
		return
	}
	var req balanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}
	payments, err := h.billingService.PaymentsByDates(c.Request.Context(), sellerID, req.Dates)
	if err != nil {
		h.logger.WithError(err).Error("SellerPaymentBalance failed")
		respondError(c, err)
		return
	}
	balance, err := h.billingService.GenerateBalance(c.Request.Context(), payments)
	if err != nil {
		h.logger.WithError(err).Error("SellerPaymentBalance failed")
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "data": balance})
}

// GenerateSellerBill snapshots the balance for the given days into a bill.
// POST /api/sellers/:seller_id/bill
func (h *PaymentHandler) GenerateSellerBill(c *gin.Context) {
	sellerID, err := strconv.ParseUint(c.Param("seller_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "seller_id must be numeric"})
		return
	}
	var req balanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}
	payments, err := h.billingService.PaymentsByDates(c.Request.Context(), sellerID, req.Dates)
	if err != nil {
		h.logger.WithError(err).Error("GenerateSellerBill failed")
		respondError(c, err)
		return
	}
	if len(payments) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "Payments are required."})
		return
	}
	balance, err := h.billingService.GenerateBalance(c.Request.Context(), payments)
	if err != nil {
		h.logger.WithError(err).Error("GenerateSellerBill failed")
		respondError(c, err)
		return
	}
	bill, err := h.billingService.GenerateSellerBill(c.Request.Context(), sellerID, balance)
	if err != nil {
		h.logger.WithError(err).Error("GenerateSellerBill failed")
		respondError(c, err)
		return
	}
	serialized, err := h.billingService.SerializeSellerBill(c.Request.Context(), bill.ID)
	if err != nil {
		h.logger.WithError(err).Error("GenerateSellerBill failed")
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"data":    gin.H{"bill": serialized},
		"message": "Bill generated successfully.",
	})
}
