// Package payments initiates gateway transactions and applies the status the
// gateway reports back through its webhook.
package payments

import (
	"context"
	stderrors "errors"
	"strings"

	"github.com/recipe-room/recipe-room/internal/app/domain/payment"
	"github.com/recipe-room/recipe-room/internal/app/storage"
	apperrors "github.com/recipe-room/recipe-room/internal/errors"
	"github.com/recipe-room/recipe-room/internal/paygate"
	"github.com/recipe-room/recipe-room/pkg/logger"
)

// Gateway is the slice of the payment gateway the service needs.
type Gateway interface {
	CreatePayment(ctx context.Context, amount float64, currency, reference string) (paygate.Transaction, error)
	GetTransaction(ctx context.Context, transactionID string) (paygate.Transaction, error)
}

// Service records payments and drives them through the external gateway.
type Service struct {
	payments storage.PaymentStore
	gateway  Gateway
	log      *logger.Logger
}

// New creates a payment service.
func New(payments storage.PaymentStore, gateway Gateway, log *logger.Logger) *Service {
	if log == nil {
		log = logger.NewDefault("payments")
	}
	return &Service{payments: payments, gateway: gateway, log: log}
}

// InitiateResult pairs the stored payment with the gateway redirect the
// client must follow to complete it.
type InitiateResult struct {
	Payment     payment.Payment `json:"payment"`
	RedirectURL string          `json:"redirect_url,omitempty"`
}

// Initiate creates a pending payment and registers it with the gateway. The
// stored payment id is sent as the gateway reference so the webhook can be
// joined back to our record. A gateway failure marks the payment failed and
// surfaces as an upstream error.
func (s *Service) Initiate(ctx context.Context, userID string, amount float64, currency string) (InitiateResult, error) {
	if amount <= 0 {
		return InitiateResult{}, apperrors.ValidationFailed("amount must be greater than zero")
	}
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if len(currency) != 3 {
		return InitiateResult{}, apperrors.ValidationFailed("currency must be a 3-letter code")
	}

	p, err := s.payments.CreatePayment(ctx, payment.Payment{
		UserID:   userID,
		Amount:   amount,
		Currency: currency,
		Status:   payment.StatusPending,
	})
	if err != nil {
		return InitiateResult{}, apperrors.Internal("failed to record payment", err)
	}

	tx, err := s.gateway.CreatePayment(ctx, amount, currency, p.ID)
	if err != nil {
		p.Status = payment.StatusFailed
		if _, uerr := s.payments.UpdatePayment(ctx, p); uerr != nil {
			s.log.WithError(uerr).Warnf("failed to mark payment %s failed", p.ID)
		}
		return InitiateResult{}, apperrors.Upstream("payment gateway unavailable", err)
	}

	p.GatewayTransactionID = tx.ID
	p, err = s.payments.UpdatePayment(ctx, p)
	if err != nil {
		return InitiateResult{}, apperrors.Internal("failed to record gateway transaction", err)
	}

	s.log.Infof("payment %s initiated for %s (%0.2f %s)", p.ID, userID, amount, currency)
	return InitiateResult{Payment: p, RedirectURL: tx.RedirectURL}, nil
}

// WebhookEvent is the gateway's callback payload.
type WebhookEvent struct {
	Reference     string `json:"reference"`
	TransactionID string `json:"transaction_id"`
	Status        string `json:"status"`
}

// HandleWebhook applies a gateway status report. The event is matched by our
// reference first, then by gateway transaction id. Replayed events for a
// settled payment are acknowledged without rewriting it.
func (s *Service) HandleWebhook(ctx context.Context, ev WebhookEvent) error {
	p, err := s.lookup(ctx, ev)
	if err != nil {
		return err
	}

	status := mapGatewayStatus(ev.Status)
	if status == "" {
		return apperrors.ValidationFailed("unrecognized gateway status").WithDetails("status", ev.Status)
	}
	if p.Status != payment.StatusPending {
		s.log.Infof("ignoring webhook replay for payment %s (status %s)", p.ID, p.Status)
		return nil
	}

	p.Status = status
	if ev.TransactionID != "" {
		p.GatewayTransactionID = ev.TransactionID
	}
	if _, err := s.payments.UpdatePayment(ctx, p); err != nil {
		return apperrors.Internal("failed to update payment", err)
	}
	s.log.Infof("payment %s moved to %s", p.ID, status)
	return nil
}

// Get returns the payment if it belongs to userID.
func (s *Service) Get(ctx context.Context, userID, paymentID string) (payment.Payment, error) {
	p, err := s.payments.GetPayment(ctx, paymentID)
	if err != nil {
		if stderrors.Is(err, storage.ErrNotFound) {
			return payment.Payment{}, apperrors.NotFound("payment not found")
		}
		return payment.Payment{}, apperrors.Internal("failed to look up payment", err)
	}
	if p.UserID != userID {
		return payment.Payment{}, apperrors.PermissionDenied("payment belongs to another user")
	}
	return p, nil
}

// Refresh polls the gateway for the payment's current status, covering
// webhooks that never arrived. Settled payments are returned unchanged
// without a gateway call.
func (s *Service) Refresh(ctx context.Context, userID, paymentID string) (payment.Payment, error) {
	p, err := s.Get(ctx, userID, paymentID)
	if err != nil {
		return payment.Payment{}, err
	}
	if p.Status != payment.StatusPending || p.GatewayTransactionID == "" {
		return p, nil
	}

	tx, err := s.gateway.GetTransaction(ctx, p.GatewayTransactionID)
	if err != nil {
		return payment.Payment{}, apperrors.Upstream("payment gateway unavailable", err)
	}
	status := mapGatewayStatus(tx.Status)
	if status == "" || status == payment.StatusPending {
		return p, nil
	}

	p.Status = status
	p, err = s.payments.UpdatePayment(ctx, p)
	if err != nil {
		return payment.Payment{}, apperrors.Internal("failed to update payment", err)
	}
	s.log.Infof("payment %s refreshed to %s", p.ID, status)
	return p, nil
}

// List returns the user's payments, newest first.
func (s *Service) List(ctx context.Context, userID string) ([]payment.Payment, error) {
	list, err := s.payments.ListPayments(ctx, userID)
	if err != nil {
		return nil, apperrors.Internal("failed to list payments", err)
	}
	return list, nil
}

func (s *Service) lookup(ctx context.Context, ev WebhookEvent) (payment.Payment, error) {
	if ev.Reference != "" {
		p, err := s.payments.GetPayment(ctx, ev.Reference)
		if err == nil {
			return p, nil
		}
		if !stderrors.Is(err, storage.ErrNotFound) {
			return payment.Payment{}, apperrors.Internal("failed to look up payment", err)
		}
	}
	if ev.TransactionID != "" {
		p, err := s.payments.GetPaymentByGatewayID(ctx, ev.TransactionID)
		if err == nil {
			return p, nil
		}
		if !stderrors.Is(err, storage.ErrNotFound) {
			return payment.Payment{}, apperrors.Internal("failed to look up payment", err)
		}
	}
	return payment.Payment{}, apperrors.NotFound("payment not found for webhook event")
}

// mapGatewayStatus folds the gateway's vocabulary into ours.
func mapGatewayStatus(status string) string {
	switch strings.ToLower(status) {
	case "completed", "success", "succeeded", "paid":
		return payment.StatusCompleted
	case "failed", "declined", "cancelled", "expired":
		return payment.StatusFailed
	case "pending", "processing":
		return payment.StatusPending
	default:
		return ""
	}
}
