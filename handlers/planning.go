package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// PlanningHandler lists a member's upcoming bookings by access code.
func (hb *HandlerBundle) PlanningHandler(c *gin.Context) {
	bookings, err := hb.PlanningService.ListUpcoming(c.Request.Context(), c.Param("code"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": bookings})
}
