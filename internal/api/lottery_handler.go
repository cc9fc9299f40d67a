package api

import (
	"net/http"
	"strconv"

	"rifadesk/internal/repository"
	"rifadesk/internal/service"
	"rifadesk/internal/wompi"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// LotteryHandler serves lottery creation and the storefront ticket reads.
type LotteryHandler struct {
	lotteryService *service.LotteryService
	gateways       repository.GatewayRepository
	logger         *logrus.Logger
}

// NewLotteryHandler creates a LotteryHandler.
func NewLotteryHandler(db *gorm.DB, logger *logrus.Logger, gateway *wompi.Client) *LotteryHandler {
	svc := service.NewLotteryService(
		repository.NewLotteryRepository(db),
		repository.NewTicketRepository(db),
		repository.NewPaymentRepository(db),
		repository.NewClientRepository(db),
		repository.NewReservationRepository(db),
		gateway,
		logger,
	)
	return &LotteryHandler{
		lotteryService: svc,
		gateways:       repository.NewGatewayRepository(db),
		logger:         logger,
	}
}

// CreateLottery creates a lottery and its ticket pool.
// POST /api/lotteries
func (h *LotteryHandler) CreateLottery(c *gin.Context) {
	var in service.CreateLotteryInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}
	lottery, err := h.lotteryService.CreateLottery(c.Request.Context(), in)
	if err != nil {
		h.logger.WithError(err).Error("CreateLottery failed")
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, lottery)
}

// LatestLottery returns the newest lottery, the one the storefront lands on.
// GET /api/lotteries/latest
func (h *LotteryHandler) LatestLottery(c *gin.Context) {
	lottery, err := h.lotteryService.LatestLottery(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, lottery)
}

// GetLottery returns one lottery.
// GET /api/lotteries/:lottery_id
func (h *LotteryHandler) GetLottery(c *gin.Context) {
	lotteryID, err := strconv.ParseUint(c.Param("lottery_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "lottery_id must be numeric"})
		return
	}
	lottery, err := h.lotteryService.GetLottery(c.Request.Context(), lotteryID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, lottery)
}

// GetTicketInfo returns availability and, for held tickets, the masked holder.
// GET /api/lotteries/:lottery_id/tickets/:number
func (h *LotteryHandler) GetTicketInfo(c *gin.Context) {
	lotteryID, err := strconv.ParseUint(c.Param("lottery_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "lottery_id must be numeric"})
		return
	}
	number, err := strconv.Atoi(c.Param("number"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ticket number must be numeric"})
		return
	}
	info, err := h.lotteryService.TicketInfo(c.Request.Context(), lotteryID, number)
	if err != nil {
		h.logger.WithError(err).Error("GetTicketInfo failed")
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, info)
}

// RandomTicket picks a random AVAILABLE ticket for the storefront roulette.
// GET /api/lotteries/:lottery_id/tickets/random
func (h *LotteryHandler) RandomTicket(c *gin.Context) {
	lotteryID, err := strconv.ParseUint(c.Param("lottery_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "lottery_id must be numeric"})
		return
	}
	number, err := h.lotteryService.RandomAvailableTicket(c.Request.Context(), lotteryID)
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"error": "No available tickets for this lottery"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ticket_number": number})
}

// checkoutRequest is the storefront checkout preparation payload.
type checkoutRequest struct {
	TicketNumbers []int `json:"ticket_numbers" binding:"required"`
}

// PrepareCheckout verifies availability and mints the gateway redirect data.
// POST /api/lotteries/:lottery_id/checkout
func (h *LotteryHandler) PrepareCheckout(c *gin.Context) {
	lotteryID, err := strconv.ParseUint(c.Param("lottery_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "lottery_id must be numeric"})
		return
	}
	var req checkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}
	data, err := h.lotteryService.PrepareCheckout(c.Request.Context(), lotteryID, req.TicketNumbers)
	if err != nil {
		h.logger.WithError(err).Error("PrepareCheckout failed")
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, data)
}

// SiteWhatsapp returns the storefront contact number; newest row wins, empty
// string when none is configured.
// GET /api/site/whatsapp
func (h *LotteryHandler) SiteWhatsapp(c *gin.Context) {
	w, err := h.gateways.LatestSiteWhatsapp(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"whatsapp": ""})
		return
	}
	c.JSON(http.StatusOK, gin.H{"whatsapp": w.Whatsapp})
}

// PaymentContacts lists the contacts shown on the pending-purchase page.
// GET /api/site/payment-contacts
func (h *LotteryHandler) PaymentContacts(c *gin.Context) {
	contacts, err := h.gateways.ListPaymentContacts(c.Request.Context())
	if err != nil {
		h.logger.WithError(err).Error("PaymentContacts failed")
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"payment_contacts": contacts})
}
