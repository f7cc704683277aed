package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"agendly/models"
	bookingSvc "agendly/services/booking"
	"agendly/services/scheduling"
	"agendly/services/tasks"
)

// GetSlotsHandler returns the open slots of one service within a date range.
func (hb *HandlerBundle) GetSlotsHandler(c *gin.Context) {
	var params struct {
		ProviderID string `form:"providerId" binding:"required"`
		ServiceID  string `form:"serviceId" binding:"required"`
		LocationID string `form:"locationId" binding:"required"`
		MemberID   string `form:"memberId"`
		StartDate  string `form:"startDate" binding:"required"`
		EndDate    string `form:"endDate" binding:"required"`
	}
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}
	scope := scheduling.ForLocationOnly()
	if params.MemberID != "" {
		scope = scheduling.ForMember(params.MemberID)
	}
	slots, err := hb.Engine.GetAvailableSlots(c.Request.Context(), scheduling.SlotQuery{
		ProviderID: params.ProviderID,
		ServiceID:  params.ServiceID,
		LocationID: params.LocationID,
		Scope:      scope,
		StartDate:  params.StartDate,
		EndDate:    params.EndDate,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"slots": slots})
}

// CreateBookingHandler books a slot. The response carries the cancel token
// exactly once; it is never readable again.
func (hb *HandlerBundle) CreateBookingHandler(c *gin.Context) {
	var input struct {
		ProviderID string             `json:"providerId" binding:"required"`
		LocationID string             `json:"locationId" binding:"required"`
		ServiceID  string             `json:"serviceId" binding:"required"`
		MemberID   string             `json:"memberId"`
		Datetime   time.Time          `json:"datetime" binding:"required"`
		ClientID   string             `json:"clientId"`
		ClientInfo *models.ClientInfo `json:"clientInfo"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}
	booking, err := hb.BookingService.CreateBooking(c.Request.Context(), bookingSvc.CreateBookingInput{
		ProviderID: input.ProviderID,
		LocationID: input.LocationID,
		ServiceID:  input.ServiceID,
		MemberID:   input.MemberID,
		Datetime:   input.Datetime,
		ClientID:   input.ClientID,
		ClientInfo: input.ClientInfo,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	if hb.Enqueuer != nil {
		hb.Enqueuer.BookingCreated(c.Request.Context(), tasks.NoticePayload(booking))
	}
	c.JSON(http.StatusCreated, gin.H{
		"booking":     booking,
		"cancelToken": booking.CancelToken,
	})
}

// GetBookingHandler returns one booking.
func (hb *HandlerBundle) GetBookingHandler(c *gin.Context) {
	booking, err := hb.BookingService.GetBooking(c.Request.Context(), c.Param("providerId"), c.Param("bookingId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, booking)
}

// ConfirmBookingHandler transitions pending -> confirmed.
func (hb *HandlerBundle) ConfirmBookingHandler(c *gin.Context) {
	booking, err := hb.BookingService.ConfirmBooking(c.Request.Context(), c.Param("providerId"), c.Param("bookingId"))
	if err != nil {
		respondError(c, err)
		return
	}
	if hb.Enqueuer != nil {
		hb.Enqueuer.BookingConfirmed(c.Request.Context(), tasks.NoticePayload(booking))
	}
	c.JSON(http.StatusOK, booking)
}

// CancelBookingHandler cancels on the provider's behalf.
func (hb *HandlerBundle) CancelBookingHandler(c *gin.Context) {
	var input struct {
		Reason string `json:"reason"`
	}
	// A body is optional for cancellation.
	_ = c.ShouldBindJSON(&input)

	booking, err := hb.BookingService.CancelBooking(c.Request.Context(),
		c.Param("providerId"), c.Param("bookingId"), bookingSvc.CancelledByProvider, input.Reason)
	if err != nil {
		respondError(c, err)
		return
	}
	if hb.Enqueuer != nil {
		hb.Enqueuer.BookingCancelled(c.Request.Context(), models.CancellationPayload{
			BookingNoticePayload: tasks.NoticePayload(booking),
			CancelledBy:          booking.CancelledBy,
			CancelReason:         booking.CancelReason,
		})
	}
	c.JSON(http.StatusOK, booking)
}

// CancelByTokenHandler is the unauthenticated client cancellation endpoint.
func (hb *HandlerBundle) CancelByTokenHandler(c *gin.Context) {
	var input struct {
		Reason string `json:"reason"`
	}
	_ = c.ShouldBindJSON(&input)

	booking, err := hb.BookingService.CancelBookingByToken(c.Request.Context(), c.Param("token"), input.Reason)
	if err != nil {
		respondError(c, err)
		return
	}
	if hb.Enqueuer != nil {
		hb.Enqueuer.BookingCancelled(c.Request.Context(), models.CancellationPayload{
			BookingNoticePayload: tasks.NoticePayload(booking),
			CancelledBy:          booking.CancelledBy,
			CancelReason:         booking.CancelReason,
		})
	}
	c.JSON(http.StatusOK, gin.H{"message": "Booking cancelled"})
}

// RescheduleBookingHandler moves a booking to a new start.
func (hb *HandlerBundle) RescheduleBookingHandler(c *gin.Context) {
	var input struct {
		Datetime time.Time `json:"datetime" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}
	result, err := hb.BookingService.RescheduleBooking(c.Request.Context(),
		c.Param("providerId"), c.Param("bookingId"), input.Datetime)
	if err != nil {
		respondError(c, err)
		return
	}
	if hb.Enqueuer != nil {
		hb.Enqueuer.BookingRescheduled(c.Request.Context(), models.ReschedulePayload{
			BookingNoticePayload: tasks.NoticePayload(result.Booking),
			OldDatetime:          result.OldDatetime,
			NewDatetime:          result.NewDatetime,
		})
	}
	c.JSON(http.StatusOK, result.Booking)
}

// CompleteBookingHandler transitions confirmed -> completed.
func (hb *HandlerBundle) CompleteBookingHandler(c *gin.Context) {
	result, err := hb.BookingService.CompleteBooking(c.Request.Context(), c.Param("providerId"), c.Param("bookingId"))
	if err != nil {
		respondError(c, err)
		return
	}
	if result.ReviewRequested && hb.Enqueuer != nil {
		hb.Enqueuer.BookingCompleted(c.Request.Context(), tasks.NoticePayload(result.Booking))
	}
	c.JSON(http.StatusOK, result.Booking)
}

// MarkNoShowHandler transitions confirmed -> noshow.
func (hb *HandlerBundle) MarkNoShowHandler(c *gin.Context) {
	booking, err := hb.BookingService.MarkNoShow(c.Request.Context(), c.Param("providerId"), c.Param("bookingId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, booking)
}

// ListBookingsHandler lists a provider's bookings with optional filters.
func (hb *HandlerBundle) ListBookingsHandler(c *gin.Context) {
	var params struct {
		Status   string    `form:"status"`
		ClientID string    `form:"clientId"`
		From     time.Time `form:"from" time_format:"2006-01-02T15:04:05Z07:00"`
		To       time.Time `form:"to" time_format:"2006-01-02T15:04:05Z07:00"`
	}
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}
	providerID := c.Param("providerId")

	if params.ClientID != "" {
		bookings, err := hb.BookingService.ListClientBookings(c.Request.Context(), providerID, params.ClientID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"bookings": bookings})
		return
	}

	from, to := params.From, params.To
	if to.IsZero() {
		to = time.Now().AddDate(1, 0, 0)
	}
	bookings, err := hb.BookingService.ListProviderBookings(c.Request.Context(), providerID, params.Status, from, to)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": bookings})
}

// BookingStatsHandler returns status counts for a date range.
func (hb *HandlerBundle) BookingStatsHandler(c *gin.Context) {
	var params struct {
		From time.Time `form:"from" time_format:"2006-01-02T15:04:05Z07:00"`
		To   time.Time `form:"to" time_format:"2006-01-02T15:04:05Z07:00"`
	}
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}
	from, to := params.From, params.To
	if to.IsZero() {
		to = time.Now().AddDate(1, 0, 0)
	}
	counts, err := hb.BookingService.GetBookingStats(c.Request.Context(), c.Param("providerId"), from, to)
	if err != nil {
		respondError(c, err)
		return
	}
	getLogger(c).Debug("booking stats served", zap.String("provider_id", c.Param("providerId")))
	c.JSON(http.StatusOK, counts)
}
