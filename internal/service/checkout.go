package service

import (
	"context"
	"strings"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/client"

	"github.com/courseforge/courseforge/internal/api/dto"
	"github.com/courseforge/courseforge/internal/config"
	ierr "github.com/courseforge/courseforge/internal/errors"
	"github.com/courseforge/courseforge/internal/logger"
	"github.com/courseforge/courseforge/internal/types"
)

// CheckoutService starts hosted checkout sessions at the payment processor.
// The session carries organization_id, plan_id and billing_cycle as metadata;
// the lifecycle handler reads them back from the completed-checkout event.
type CheckoutService interface {
	CreateCheckoutSession(ctx context.Context, req *dto.CreateCheckoutSessionRequest) (*dto.CheckoutSessionResponse, error)
}

type checkoutService struct {
	ServiceParams
	stripe *client.API
}

// NewCheckoutService creates a checkout service with its own processor client.
func NewCheckoutService(params ServiceParams) CheckoutService {
	return &checkoutService{
		ServiceParams: params,
		stripe:        newStripeClient(params.Config, params.Logger),
	}
}

// newStripeClient builds a processor client on a retrying HTTP transport.
// Transient network failures are retried at the transport level; request
// idempotency is the processor's concern via idempotency keys.
func newStripeClient(cfg *config.Configuration, log *logger.Logger) *client.API {
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = 3
	retryClient.Logger = log.GetRetryableHTTPLogger()

	sc := &client.API{}
	sc.Init(cfg.Stripe.SecretKey, &stripe.Backends{
		API: stripe.GetBackendWithConfig(stripe.APIBackend, &stripe.BackendConfig{
			HTTPClient: retryClient.StandardClient(),
		}),
	})
	return sc
}

func (s *checkoutService) CreateCheckoutSession(ctx context.Context, req *dto.CreateCheckoutSessionRequest) (*dto.CheckoutSessionResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	// Only price identifiers in the expected namespace are forwarded; anything
	// else is a tampered or mistyped request.
	if !strings.HasPrefix(req.PriceID, s.Config.Stripe.PricePrefix) {
		return nil, ierr.NewError("invalid price identifier").
			WithHint("The price identifier is not recognized").
			WithReportableDetails(map[string]any{"price_id": req.PriceID}).
			Mark(ierr.ErrValidation)
	}

	org, err := s.OrgRepo.Get(ctx, req.OrganizationID)
	if err != nil {
		return nil, err
	}
	if org.SubscriptionStatus == types.SubscriptionStatusLifetime {
		return nil, ierr.NewError("lifetime organization cannot start a checkout").
			WithHint("This organization already has lifetime access").
			Mark(ierr.ErrInvalidOperation)
	}

	if _, err := s.PlanRepo.Get(ctx, req.PlanID); err != nil {
		return nil, err
	}

	params := &stripe.CheckoutSessionParams{
		Mode:       stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		SuccessURL: stripe.String(req.SuccessURL),
		CancelURL:  stripe.String(req.CancelURL),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(req.PriceID),
				Quantity: stripe.Int64(1),
			},
		},
		SubscriptionData: &stripe.CheckoutSessionSubscriptionDataParams{
			Metadata: map[string]string{
				"organization_id": req.OrganizationID,
				"plan_id":         req.PlanID,
				"billing_cycle":   string(req.BillingCycle),
			},
		},
	}
	params.Metadata = map[string]string{
		"organization_id": req.OrganizationID,
		"plan_id":         req.PlanID,
		"billing_cycle":   string(req.BillingCycle),
	}
	params.Context = ctx

	sess, err := s.stripe.CheckoutSessions.New(params)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to create checkout session").
			WithReportableDetails(map[string]any{
				"organization_id": req.OrganizationID,
				"plan_id":         req.PlanID,
			}).
			Mark(ierr.ErrHTTPClient)
	}

	s.Logger.Infow("created checkout session",
		"session_id", sess.ID,
		"organization_id", req.OrganizationID,
		"plan_id", req.PlanID)

	return &dto.CheckoutSessionResponse{SessionID: sess.ID}, nil
}
