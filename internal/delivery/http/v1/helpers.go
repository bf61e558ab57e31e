package v1

import (
	"strconv"
	"strings"

	"recruiter-platform/internal/domain"
	"recruiter-platform/pkg/apperror"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func currentUserID(c *gin.Context) string {
	return c.GetString(string(domain.KeyUserID))
}

func currentRole(c *gin.Context) string {
	return c.GetString(string(domain.KeyUserRole))
}

// currentTenant is nil for callers without a tenant claim.
func currentTenant(c *gin.Context) *string {
	t := c.GetString(string(domain.KeyTenantID))
	if t == "" {
		return nil
	}
	return &t
}

// tenantScope restricts list queries to the caller's tenant, except for admins.
func tenantScope(c *gin.Context) *string {
	if currentRole(c) == domain.RoleAdmin {
		return nil
	}
	return currentTenant(c)
}

func nameVersion(c *gin.Context) (string, int, error) {
	name := strings.TrimSpace(c.Param("name"))
	if name == "" {
		return "", 0, apperror.BadRequest("Name is required")
	}
	version, err := strconv.Atoi(c.Param("version"))
	if err != nil || version < 1 {
		return "", 0, apperror.BadRequest("Version must be a positive integer")
	}
	return name, version, nil
}

func uuidParam(c *gin.Context, param string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(param))
	if err != nil {
		return uuid.Nil, apperror.BadRequest("Invalid " + param)
	}
	return id, nil
}

func pageParams(c *gin.Context) domain.PageParams {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))
	return domain.PageParams{Page: page, PageSize: pageSize}.Normalize()
}

func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		c.Error(apperror.BadRequest("Invalid request body: " + err.Error()))
		return false
	}
	return true
}
