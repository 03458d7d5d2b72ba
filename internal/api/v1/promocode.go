package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/courseforge/courseforge/internal/api/dto"
	ierr "github.com/courseforge/courseforge/internal/errors"
	"github.com/courseforge/courseforge/internal/service"
)

// PromoCodeHandler serves promo code administration and validation.
type PromoCodeHandler struct {
	promos service.PromoCodeService
}

func NewPromoCodeHandler(promos service.PromoCodeService) *PromoCodeHandler {
	return &PromoCodeHandler{promos: promos}
}

// CreatePromoCode handles POST /v1/promo-codes.
func (h *PromoCodeHandler) CreatePromoCode(c *gin.Context) {
	var req dto.CreatePromoCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request payload").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.promos.CreatePromoCode(c.Request.Context(), &req)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// ValidateCode handles GET /v1/promo-codes/validate/:code.
func (h *PromoCodeHandler) ValidateCode(c *gin.Context) {
	pc, err := h.promos.ValidateCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, dto.NewPromoCodeResponse(pc))
}

// ApplyDiscount handles POST /v1/promo-codes/apply-discount.
func (h *PromoCodeHandler) ApplyDiscount(c *gin.Context) {
	var req dto.ApplyDiscountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request payload").
			Mark(ierr.ErrValidation))
		return
	}

	result, err := h.promos.ApplyDiscount(c.Request.Context(), &req)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, result)
}
