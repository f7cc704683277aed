package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"agendly/models"
	"agendly/utils"
)

// providerTokenTTL is the lifetime of the management token issued at
// registration.
const providerTokenTTL = 30 * 24 * time.Hour

// CreateProviderHandler registers a new provider tenant and issues the
// management token for the protected endpoints.
func (hb *HandlerBundle) CreateProviderHandler(c *gin.Context) {
	var provider models.Provider
	if err := c.ShouldBindJSON(&provider); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}
	created, err := hb.ProviderService.CreateProvider(c.Request.Context(), &provider)
	if err != nil {
		respondError(c, err)
		return
	}
	token, err := utils.GenerateToken(created.ID, providerTokenTTL)
	if err != nil {
		getLogger(c).Error("failed to issue provider token", zap.Error(err))
		c.JSON(http.StatusCreated, gin.H{"provider": created})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"provider": created, "token": token})
}

// GetProviderHandler returns one provider.
func (hb *HandlerBundle) GetProviderHandler(c *gin.Context) {
	provider, err := hb.ProviderService.GetProvider(c.Request.Context(), c.Param("providerId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, provider)
}

// UpdateSettingsHandler replaces the provider's scheduling settings.
func (hb *HandlerBundle) UpdateSettingsHandler(c *gin.Context) {
	var settings models.ProviderSettings
	if err := c.ShouldBindJSON(&settings); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}
	if err := hb.ProviderService.UpdateSettings(c.Request.Context(), c.Param("providerId"), settings); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Settings updated"})
}

// CreateLocationHandler adds a location.
func (hb *HandlerBundle) CreateLocationHandler(c *gin.Context) {
	var location models.Location
	if err := c.ShouldBindJSON(&location); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}
	location.ProviderID = c.Param("providerId")
	created, err := hb.ProviderService.CreateLocation(c.Request.Context(), &location)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// CreateMemberHandler adds a staff member.
func (hb *HandlerBundle) CreateMemberHandler(c *gin.Context) {
	var member models.Member
	if err := c.ShouldBindJSON(&member); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}
	member.ProviderID = c.Param("providerId")
	created, err := hb.ProviderService.CreateMember(c.Request.Context(), &member)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// CreateServiceHandler adds a bookable service.
func (hb *HandlerBundle) CreateServiceHandler(c *gin.Context) {
	var service models.Service
	if err := c.ShouldBindJSON(&service); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}
	service.ProviderID = c.Param("providerId")
	created, err := hb.ProviderService.CreateService(c.Request.Context(), &service)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// ListMembersHandler lists members at one location.
func (hb *HandlerBundle) ListMembersHandler(c *gin.Context) {
	locationID := c.Query("locationId")
	if locationID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "locationId query parameter is required"})
		return
	}
	members, err := hb.ProviderService.ListMembersByLocation(c.Request.Context(), c.Param("providerId"), locationID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"members": members})
}

// ChangeMemberLocationHandler moves a member to another location.
func (hb *HandlerBundle) ChangeMemberLocationHandler(c *gin.Context) {
	var input struct {
		LocationID string `json:"locationId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}
	providerID := c.Param("providerId")
	memberID := c.Param("memberId")
	if err := hb.ProviderService.ChangeMemberLocation(c.Request.Context(), providerID, memberID, input.LocationID); err != nil {
		respondError(c, err)
		return
	}
	getLogger(c).Info("member location changed",
		zap.String("member_id", memberID), zap.String("location_id", input.LocationID))
	c.JSON(http.StatusOK, gin.H{"message": "Member moved"})
}

// DeleteMemberHandler removes a member without future bookings.
func (hb *HandlerBundle) DeleteMemberHandler(c *gin.Context) {
	if err := hb.ProviderService.DeleteMember(c.Request.Context(), c.Param("providerId"), c.Param("memberId")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Member deleted"})
}

// IssuePlanningCodeHandler mints a planning access code for a member.
func (hb *HandlerBundle) IssuePlanningCodeHandler(c *gin.Context) {
	var input struct {
		MemberID string `json:"memberId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}
	code, err := hb.PlanningService.IssueAccessCode(c.Request.Context(), c.Param("providerId"), input.MemberID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"code": code})
}
