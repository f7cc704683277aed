package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"agendly/services/scheduling"
)

// respondError maps the typed service errors to HTTP responses. Anything
// unrecognized is a 500 with the detail kept out of the body.
func respondError(c *gin.Context, err error) {
	var (
		validationErr scheduling.ValidationError
		notFoundErr   scheduling.NotFoundError
		stateErr      scheduling.InvalidStateError
		slotErr       scheduling.SlotUnavailableError
	)
	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Error()})
	case errors.As(err, &notFoundErr):
		c.JSON(http.StatusNotFound, gin.H{"error": notFoundErr.Error()})
	case errors.As(err, &stateErr):
		c.JSON(http.StatusConflict, gin.H{"error": stateErr.Error()})
	case errors.As(err, &slotErr):
		c.JSON(http.StatusConflict, gin.H{"error": slotErr.Error()})
	default:
		getLogger(c).Error("request failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
