package httpserver

import (
	"errors"
	"io"
	"net/http"
	"strings"

	billingerrors "creatorhub/contexts/finance-core/billing-service/domain/errors"
	billinghttp "creatorhub/contexts/finance-core/billing-service/transport/http"
	paymentsv1 "creatorhub/contracts/gen/payments/v1"
	"creatorhub/internal/platform/auth"
)

// Stripe events stay well under this; larger bodies are not webhooks.
const maxWebhookBody = 512 << 10

func writeBillingDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, billingerrors.ErrInvalidRequest),
		errors.Is(err, billingerrors.ErrContentIDRequired),
		errors.Is(err, billingerrors.ErrInvalidPrice):
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, billingerrors.ErrUserNotFound):
		writeError(w, http.StatusNotFound, "user_not_found", err.Error())
	case errors.Is(err, billingerrors.ErrContentNotFound):
		writeError(w, http.StatusNotFound, "content_not_found", err.Error())
	case errors.Is(err, billingerrors.ErrPaymentRequired):
		writeError(w, http.StatusPaymentRequired, "payment_required", err.Error())
	case errors.Is(err, billingerrors.ErrIdempotencyConflict):
		writeError(w, http.StatusConflict, "idempotency_conflict", err.Error())
	case errors.Is(err, billingerrors.ErrPriceNotConfigured),
		errors.Is(err, paymentsv1.ErrGatewayDisabled):
		writeError(w, http.StatusServiceUnavailable, "payments_unavailable", err.Error())
	case errors.Is(err, paymentsv1.ErrWebhookNotConfigured),
		errors.Is(err, paymentsv1.ErrInvalidSignature),
		errors.Is(err, paymentsv1.ErrUnsupportedEventShape):
		writeError(w, http.StatusBadRequest, "webhook_error", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func idempotencyKey(r *http.Request) string {
	return strings.TrimSpace(r.Header.Get("Idempotency-Key"))
}

func (s *Server) handleBillingStatus(w http.ResponseWriter, r *http.Request, claims auth.Claims) {
	resp, err := s.modules.Billing.Handler.StatusHandler(r.Context(), claims.UserID)
	if err != nil {
		writeBillingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleActivatePass(w http.ResponseWriter, r *http.Request, claims auth.Claims) {
	resp, err := s.modules.Billing.Handler.ActivatePassHandler(r.Context(), claims.UserID)
	if err != nil {
		writeBillingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSubscribe(w http.ResponseWriter, r *http.Request, claims auth.Claims) {
	resp, err := s.modules.Billing.Handler.SubscribeHandler(r.Context(), claims.UserID)
	if err != nil {
		writeBillingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handlePurchase(w http.ResponseWriter, r *http.Request, claims auth.Claims) {
	var req billinghttp.PurchaseRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	resp, err := s.modules.Billing.Handler.PurchaseHandler(r.Context(), claims.UserID, req)
	if err != nil {
		writeBillingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleCheckoutPass(w http.ResponseWriter, r *http.Request, claims auth.Claims) {
	resp, err := s.modules.Billing.Handler.CheckoutPassHandler(r.Context(), claims.UserID, idempotencyKey(r))
	if err != nil {
		writeBillingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCheckoutSubscription(w http.ResponseWriter, r *http.Request, claims auth.Claims) {
	resp, err := s.modules.Billing.Handler.CheckoutSubscriptionHandler(r.Context(), claims.UserID, idempotencyKey(r))
	if err != nil {
		writeBillingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCheckoutContent(w http.ResponseWriter, r *http.Request, claims auth.Claims) {
	var req billinghttp.PurchaseRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	resp, err := s.modules.Billing.Handler.CheckoutContentHandler(r.Context(), claims.UserID, idempotencyKey(r), req)
	if err != nil {
		writeBillingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleStripeWebhook hands the unparsed body to signature verification.
func (s *Server) handleStripeWebhook(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookBody))
	if err != nil {
		writeError(w, http.StatusBadRequest, "webhook_error", "unreadable webhook body")
		return
	}
	resp, err := s.modules.Billing.Handler.WebhookHandler(r.Context(), payload, r.Header.Get("Stripe-Signature"))
	if err != nil {
		s.logger.Warn("stripe webhook rejected",
			"event", "stripe_webhook_rejected",
			"module", "internal/platform/httpserver",
			"layer", "platform",
			"error", err.Error(),
		)
		writeBillingDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
