package v1

import (
	"net/http"

	"recruiter-platform/internal/delivery/http/middleware"
	"recruiter-platform/internal/delivery/http/response"
	"recruiter-platform/internal/domain"
	"recruiter-platform/pkg/security"

	"github.com/gin-gonic/gin"
)

type UserProfileHandler struct {
	profileUC domain.UserProfileUsecase
}

func NewUserProfileHandler(protected *gin.RouterGroup, profileUC domain.UserProfileUsecase) {
	handler := &UserProfileHandler{profileUC: profileUC}

	profiles := protected.Group("/profiles")
	{
		profiles.GET("/me", handler.GetMine)
		profiles.PUT("/me", handler.UpsertMine)
		profiles.POST("/me/consent", handler.RecordConsent)
	}

	staff := profiles.Group("", middleware.RequireRole(domain.RoleRecruiter, domain.RoleAdmin))
	{
		staff.GET("", handler.List)
		staff.GET("/:id", handler.Get)
	}
	profiles.POST("/:id/sanitize", middleware.RequireRole(domain.RoleAdmin), handler.Sanitize)
}

// GetMine godoc
// @Summary      Caller's candidate profile
// @Tags         profiles
// @Produce      json
// @Success      200  {object}  response.Response{data=domain.UserProfile}
// @Failure      404  {object}  response.Response
// @Router       /profiles/me [get]
// @Security     BearerAuth
func (h *UserProfileHandler) GetMine(c *gin.Context) {
	profile, err := h.profileUC.GetMine(c.Request.Context(), currentUserID(c))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Profile retrieved", profile)
}

// UpsertMine godoc
// @Summary      Create or update the caller's profile
// @Tags         profiles
// @Accept       json
// @Produce      json
// @Param        profile  body      domain.UpsertUserProfileInput  true  "Profile"
// @Success      200      {object}  response.Response{data=domain.UserProfile}
// @Failure      400      {object}  response.Response
// @Router       /profiles/me [put]
// @Security     BearerAuth
func (h *UserProfileHandler) UpsertMine(c *gin.Context) {
	var input domain.UpsertUserProfileInput
	if !bindJSON(c, &input) {
		return
	}
	profile, err := h.profileUC.UpsertMine(c.Request.Context(), currentUserID(c), currentTenant(c), &input)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Profile saved", profile)
}

// RecordConsent godoc
// @Summary      Consent to global sync without sanitization
// @Description  Records the caller's explicit consent so their profile may leave its region unsanitized where the policy allows it.
// @Tags         profiles
// @Produce      json
// @Success      200  {object}  response.Response{data=domain.UserProfile}
// @Router       /profiles/me/consent [post]
// @Security     BearerAuth
func (h *UserProfileHandler) RecordConsent(c *gin.Context) {
	profile, err := h.profileUC.RecordOverrideConsent(c.Request.Context(), currentUserID(c))
	if err != nil {
		c.Error(err)
		return
	}
	security.DefaultLogger().Log(c.Request.Context(), security.SecurityEvent{
		Event:       security.EventOverrideConsent,
		ActorID:     currentUserID(c),
		SubjectType: domain.EntityUserProfile,
		SubjectID:   profile.ID.String(),
		IP:          c.ClientIP(),
		RequestID:   c.GetString(middleware.RequestIDKey),
	})
	response.Success(c, http.StatusOK, "Consent recorded", profile)
}

// List godoc
// @Summary      List candidate profiles
// @Tags         profiles
// @Produce      json
// @Param        search     query     string  false  "Matches name or email"
// @Param        page       query     int     false  "Page number"
// @Param        page_size  query     int     false  "Page size"
// @Success      200        {object}  response.Response{data=domain.PaginatedResult[domain.UserProfile]}
// @Router       /profiles [get]
// @Security     BearerAuth
func (h *UserProfileHandler) List(c *gin.Context) {
	result, err := h.profileUC.List(c.Request.Context(), domain.UserProfileFilter{
		Search:     c.Query("search"),
		TenantID:   tenantScope(c),
		PageParams: pageParams(c),
	})
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Profiles retrieved", result)
}

// Get godoc
// @Summary      Get a candidate profile
// @Tags         profiles
// @Produce      json
// @Param        id   path      string  true  "Profile ID"
// @Success      200  {object}  response.Response{data=domain.UserProfile}
// @Router       /profiles/{id} [get]
// @Security     BearerAuth
func (h *UserProfileHandler) Get(c *gin.Context) {
	id, err := uuidParam(c, "id")
	if err != nil {
		c.Error(err)
		return
	}
	profile, err := h.profileUC.Get(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Profile retrieved", profile)
}

// Sanitize godoc
// @Summary      Strip personal data from a profile
// @Tags         profiles
// @Produce      json
// @Param        id   path      string  true  "Profile ID"
// @Success      200  {object}  response.Response{data=domain.UserProfile}
// @Router       /profiles/{id}/sanitize [post]
// @Security     BearerAuth
func (h *UserProfileHandler) Sanitize(c *gin.Context) {
	id, err := uuidParam(c, "id")
	if err != nil {
		c.Error(err)
		return
	}
	profile, err := h.profileUC.Sanitize(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}
	security.DefaultLogger().Log(c.Request.Context(), security.SecurityEvent{
		Event:       security.EventProfileSanitized,
		ActorID:     currentUserID(c),
		SubjectType: domain.EntityUserProfile,
		SubjectID:   id.String(),
		IP:          c.ClientIP(),
		RequestID:   c.GetString(middleware.RequestIDKey),
	})
	response.Success(c, http.StatusOK, "Profile sanitized", profile)
}
