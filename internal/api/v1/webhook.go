package v1

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v82/webhook"

	"github.com/courseforge/courseforge/internal/config"
	ierr "github.com/courseforge/courseforge/internal/errors"
	"github.com/courseforge/courseforge/internal/logger"
	"github.com/courseforge/courseforge/internal/service"
	"github.com/courseforge/courseforge/internal/types"
)

// WebhookHandler receives payment processor events. Signature verification is
// the single hard failure (400); everything past it is acknowledged with 200
// so the processor does not retry the whole batch.
type WebhookHandler struct {
	cfg       *config.Configuration
	lifecycle service.BillingLifecycleService
	logger    *logger.Logger
}

func NewWebhookHandler(cfg *config.Configuration, lifecycle service.BillingLifecycleService, logger *logger.Logger) *WebhookHandler {
	return &WebhookHandler{cfg: cfg, lifecycle: lifecycle, logger: logger}
}

// HandleStripeWebhook verifies and dispatches one event delivery.
func (h *WebhookHandler) HandleStripeWebhook(c *gin.Context) {
	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Failed to read webhook payload").
			Mark(ierr.ErrValidation))
		return
	}

	event, err := webhook.ConstructEvent(payload, c.GetHeader(types.HeaderStripeSignature), h.cfg.Stripe.WebhookSecret)
	if err != nil {
		h.logger.Warnw("webhook signature verification failed", "error", err)
		c.AbortWithStatusJSON(http.StatusBadRequest, ierr.NewErrorResponse(
			ierr.WithError(err).
				WithHint("Webhook signature verification failed").
				Mark(ierr.ErrValidation),
			false))
		return
	}

	if err := h.lifecycle.HandleEvent(c.Request.Context(), &event); err != nil {
		// Datastore failure: let the processor redeliver.
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}
