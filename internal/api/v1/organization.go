package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/courseforge/courseforge/internal/api/dto"
	ierr "github.com/courseforge/courseforge/internal/errors"
	"github.com/courseforge/courseforge/internal/service"
)

// OrganizationHandler serves organization provisioning and management.
type OrganizationHandler struct {
	onboarding    service.OnboardingService
	organizations service.OrganizationService
}

func NewOrganizationHandler(onboarding service.OnboardingService, organizations service.OrganizationService) *OrganizationHandler {
	return &OrganizationHandler{onboarding: onboarding, organizations: organizations}
}

// CreateOrganization handles POST /v1/organizations.
func (h *OrganizationHandler) CreateOrganization(c *gin.Context) {
	var req dto.CreateOrganizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request payload").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.onboarding.CreateOrganization(c.Request.Context(), &req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// GetOrganization handles GET /v1/organizations/:id.
func (h *OrganizationHandler) GetOrganization(c *gin.Context) {
	resp, err := h.organizations.GetOrganization(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetOrganizationBySlug handles GET /v1/organizations/slug/:slug.
func (h *OrganizationHandler) GetOrganizationBySlug(c *gin.Context) {
	resp, err := h.organizations.GetOrganizationBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// SuggestSlug handles GET /v1/organizations/slug-suggestion?slug=...
func (h *OrganizationHandler) SuggestSlug(c *gin.Context) {
	slug, err := h.onboarding.SuggestSlug(c.Request.Context(), c.Query("slug"))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"slug": slug})
}

// UpdateBranding handles PATCH /v1/organizations/:id/branding.
func (h *OrganizationHandler) UpdateBranding(c *gin.Context) {
	var req dto.UpdateBrandingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request payload").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.organizations.UpdateBranding(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
