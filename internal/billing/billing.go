// Package billing starts Stripe Checkout sessions and applies plan changes from Stripe webhooks.
package billing

import (
	"context"
	"errors"
	"fmt"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/checkout/session"
	"github.com/stripe/stripe-go/v76/webhook"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"github.com/pinmark/pinmark-backend/config"
	"github.com/pinmark/pinmark-backend/internal/apperr"
	"github.com/pinmark/pinmark-backend/internal/logging"
	pdomain "github.com/pinmark/pinmark-backend/internal/profiles/domain"
)

// CheckoutSessions is satisfied by *session.Client.
type CheckoutSessions interface {
	New(params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error)
}

type PlanSetter interface {
	SetPlan(ctx context.Context, userID, plan, customerID string) error
}

type Service struct {
	sessions CheckoutSessions
	plans    PlanSetter
	cfg      config.BillingConfig
}

func NewService(cfg config.BillingConfig, plans PlanSetter) *Service {
	sessions := &session.Client{B: stripe.GetBackend(stripe.APIBackend), Key: cfg.StripeSecretKey}
	return &Service{sessions: sessions, plans: plans, cfg: cfg}
}

func (s *Service) priceFor(plan string) (string, error) {
	if plan != pdomain.PlanPro {
		return "", fmt.Errorf("plan %q cannot be purchased: %w", plan, apperr.ErrInvalidInput)
	}
	if s.cfg.StripeSecretKey == "" || s.cfg.PriceProID == "" {
		return "", fmt.Errorf("billing is not configured: %w", apperr.ErrInvalidInput)
	}
	return s.cfg.PriceProID, nil
}

// CreateCheckout opens a subscription Checkout session for userID and returns its URL.
func (s *Service) CreateCheckout(ctx context.Context, userID, email, plan string) (string, error) {
	price, err := s.priceFor(plan)
	if err != nil {
		return "", err
	}

	params := &stripe.CheckoutSessionParams{
		Mode: stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{Price: stripe.String(price), Quantity: stripe.Int64(1)},
		},
		SuccessURL:        stripe.String(s.cfg.SuccessURL),
		CancelURL:         stripe.String(s.cfg.CancelURL),
		ClientReferenceID: stripe.String(userID),
	}
	if email != "" {
		params.CustomerEmail = stripe.String(email)
	}
	params.Context = ctx
	params.AddMetadata("plan", plan)
	params.AddMetadata("user_id", userID)

	sess, err := s.sessions.New(params)
	if err != nil {
		return "", fmt.Errorf("create checkout session: %w", err)
	}
	return sess.URL, nil
}

// HandleWebhook verifies a Stripe event and applies completed checkouts.
// Other event types are acknowledged and ignored.
func (s *Service) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	event, err := webhook.ConstructEventWithOptions(payload, signature, s.cfg.StripeWebhookSecret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true})
	if err != nil {
		return fmt.Errorf("verify webhook: %v: %w", err, apperr.ErrInvalidInput)
	}

	log := logging.FromContext(ctx).With(zap.String("event_id", event.ID), zap.String("event_type", string(event.Type)))
	if event.Type != "checkout.session.completed" {
		log.Debug("stripe event ignored")
		return nil
	}
	if event.Data == nil {
		return fmt.Errorf("event has no data: %w", apperr.ErrInvalidInput)
	}

	obj := gjson.ParseBytes(event.Data.Raw)
	userID := obj.Get("client_reference_id").String()
	plan := obj.Get("metadata.plan").String()
	customer := obj.Get("customer")
	customerID := customer.String()
	if customer.IsObject() {
		customerID = customer.Get("id").String()
	}

	// Events that can never apply are acknowledged so Stripe stops redelivering them.
	if userID == "" {
		log.Warn("checkout session without client_reference_id, event dropped")
		return nil
	}
	if plan == "" {
		plan = pdomain.PlanPro
	}

	if err := s.plans.SetPlan(ctx, userID, plan, customerID); err != nil {
		if errors.Is(err, apperr.ErrInvalidInput) || errors.Is(err, apperr.ErrNotFound) {
			log.Warn("checkout event dropped", zap.String("user_id", userID), zap.String("plan", plan), zap.Error(err))
			return nil
		}
		return err
	}
	log.Info("plan updated from checkout", zap.String("user_id", userID), zap.String("plan", plan))
	return nil
}
