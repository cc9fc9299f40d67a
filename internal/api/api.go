// Package api wires the HTTP surface: back-office CRUD, the storefront reads
// and the payment gateway webhook.
package api

import (
	"errors"
	"net/http"

	"rifadesk/internal/service"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// errStatus maps domain errors onto HTTP statuses: validation 400, missing
// records 404, lost reservation races 409, everything else 500.
func errStatus(err error) int {
	switch {
	case service.IsValidation(err):
		return http.StatusBadRequest
	case errors.Is(err, gorm.ErrRecordNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrTicketNotAvailable):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, err error) {
	c.JSON(errStatus(err), gin.H{"error": err.Error()})
}
