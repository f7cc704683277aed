package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"agendly/models"
	providerSvc "agendly/services/provider"
)

// agendaParams are the query parameters addressing one agenda. An absent
// memberId addresses the location-level agenda.
type agendaParams struct {
	LocationID string `form:"locationId" binding:"required"`
	MemberID   string `form:"memberId"`
}

// SetAvailabilityHandler writes one day of a weekly template.
func (hb *HandlerBundle) SetAvailabilityHandler(c *gin.Context) {
	var params agendaParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}
	var input struct {
		DayOfWeek int                `json:"dayOfWeek"`
		IsOpen    bool               `json:"isOpen"`
		Slots     []models.TimeRange `json:"slots"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}
	day := providerSvc.DayInput{DayOfWeek: input.DayOfWeek, IsOpen: input.IsOpen, Slots: input.Slots}
	if err := hb.ProviderService.SetAvailability(c.Request.Context(), c.Param("providerId"), params.MemberID, params.LocationID, day); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Availability updated"})
}

// SetWeeklyScheduleHandler replaces the whole week atomically.
func (hb *HandlerBundle) SetWeeklyScheduleHandler(c *gin.Context) {
	var params agendaParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}
	var input struct {
		Days []struct {
			DayOfWeek int                `json:"dayOfWeek"`
			IsOpen    bool               `json:"isOpen"`
			Slots     []models.TimeRange `json:"slots"`
		} `json:"days" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}
	week := providerSvc.WeekInput{Days: make([]providerSvc.DayInput, 0, len(input.Days))}
	for _, d := range input.Days {
		week.Days = append(week.Days, providerSvc.DayInput{DayOfWeek: d.DayOfWeek, IsOpen: d.IsOpen, Slots: d.Slots})
	}
	if err := hb.ProviderService.SetWeeklySchedule(c.Request.Context(), c.Param("providerId"), params.MemberID, params.LocationID, week); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Weekly schedule updated"})
}

// GetWeeklyScheduleHandler returns the stored weekly template.
func (hb *HandlerBundle) GetWeeklyScheduleHandler(c *gin.Context) {
	var params agendaParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}
	week, err := hb.ProviderService.GetWeeklySchedule(c.Request.Context(), c.Param("providerId"), params.MemberID, params.LocationID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"days": week})
}

// SetExceptionHandler overrides one calendar date.
func (hb *HandlerBundle) SetExceptionHandler(c *gin.Context) {
	var params agendaParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}
	var input struct {
		Date   string             `json:"date" binding:"required"`
		IsOpen bool               `json:"isOpen"`
		Slots  []models.TimeRange `json:"slots"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}
	exc := providerSvc.ExceptionInput{Date: input.Date, IsOpen: input.IsOpen, Slots: input.Slots}
	if err := hb.ProviderService.SetException(c.Request.Context(), c.Param("providerId"), params.MemberID, params.LocationID, exc); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Exception saved"})
}

// RemoveExceptionHandler deletes a date override.
func (hb *HandlerBundle) RemoveExceptionHandler(c *gin.Context) {
	var params agendaParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}
	if err := hb.ProviderService.RemoveException(c.Request.Context(), c.Param("providerId"), params.MemberID, params.LocationID, c.Param("date")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Exception removed"})
}

// ListExceptionsHandler returns date overrides within a range.
func (hb *HandlerBundle) ListExceptionsHandler(c *gin.Context) {
	var params struct {
		agendaParams
		From string `form:"from" binding:"required"`
		To   string `form:"to" binding:"required"`
	}
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}
	excs, err := hb.ProviderService.ListExceptions(c.Request.Context(), c.Param("providerId"), params.MemberID, params.LocationID, params.From, params.To)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"exceptions": excs})
}

// BlockPeriodHandler records an explicit closure.
func (hb *HandlerBundle) BlockPeriodHandler(c *gin.Context) {
	var input providerSvc.BlockInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}
	blocked, err := hb.ProviderService.BlockPeriod(c.Request.Context(), c.Param("providerId"), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, blocked)
}

// UnblockPeriodHandler removes a closure.
func (hb *HandlerBundle) UnblockPeriodHandler(c *gin.Context) {
	if err := hb.ProviderService.UnblockPeriod(c.Request.Context(), c.Param("providerId"), c.Param("blockedId")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Period unblocked"})
}

// GetBlockedSlotsHandler lists the provider's closures.
func (hb *HandlerBundle) GetBlockedSlotsHandler(c *gin.Context) {
	blocked, err := hb.ProviderService.GetBlockedSlots(c.Request.Context(), c.Param("providerId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"blocked": blocked})
}
