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

// AssignmentHandler serves ticket assignment management.
type AssignmentHandler struct {
	allocationService *service.AllocationService
	logger            *logrus.Logger
}

// NewAssignmentHandler creates an AssignmentHandler.
func NewAssignmentHandler(db *gorm.DB, logger *logrus.Logger) *AssignmentHandler {
	svc := service.NewAllocationService(
		repository.NewAssignmentRepository(db),
		repository.NewTicketRepository(db),
		logger,
	)
	return &AssignmentHandler{allocationService: svc, logger: logger}
}

// Assign gives a seller a ticket range and/or individual tickets.
// POST /api/assignments
func (h *AssignmentHandler) Assign(c *gin.Context) {
	var in service.AssignInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}
	assignment, err := h.allocationService.Assign(c.Request.Context(), in)
	if err != nil {
		h.logger.WithError(err).Error("Assign failed")
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, assignment)
}

// ListForSeller lists a seller's assignments, newest first.
// GET /api/assignments?seller_id=1
func (h *AssignmentHandler) ListForSeller(c *gin.Context) {
	sellerID, err := strconv.ParseUint(c.Query("seller_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "seller_id is required"})
		return
	}
	assignments, err := h.allocationService.AssignmentsForSeller(c.Request.Context(), sellerID)
	if err != nil {
		h.logger.WithError(err).Error("ListForSeller failed")
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"assignments": assignments})
}

// AvailableNumbers returns the ticket numbers a seller may currently offer.
// editing_ticket keeps an in-flight selection visible while a purchase is
// being edited.
// GET /api/assignments/available-numbers?seller_id=1&lottery_id=2&editing_ticket=42
func (h *AssignmentHandler) AvailableNumbers(c *gin.Context) {
	sellerID, err := strconv.ParseUint(c.Query("seller_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "seller_id is required"})
		return
	}
	lotteryID, err := strconv.ParseUint(c.Query("lottery_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "lottery_id is required"})
		return
	}
	var editing *int
	if raw := c.Query("editing_ticket"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "editing_ticket must be numeric"})
			return
		}
		editing = &n
	}
	numbers, err := h.allocationService.AvailableTicketNumbers(c.Request.Context(), sellerID, lotteryID, editing)
	if err != nil {
		h.logger.WithError(err).Error("AvailableNumbers failed")
		respondError(c, err)
		return
	}
	if numbers == nil {
		numbers = []int{}
	}
	c.JSON(http.StatusOK, gin.H{"ticket_numbers": numbers})
}
