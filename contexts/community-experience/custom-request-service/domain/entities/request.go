package entities

import (
	"strings"
	"time"

	domainerrors "creatorhub/contexts/community-experience/custom-request-service/domain/errors"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusAccepted  Status = "accepted"
	StatusDeclined  Status = "declined"
	StatusExpired   Status = "expired"
	StatusDelivered Status = "delivered"
	StatusRefunded  Status = "refunded"
)

type RefundStatus string

const (
	RefundNone      RefundStatus = "none"
	RefundPending   RefundStatus = "pending"
	RefundProcessed RefundStatus = "processed"
	RefundFailed    RefundStatus = "failed"
)

type Request struct {
	RequestID          string
	ConsumerID         string
	CreatorID          string
	Prompt             string
	PriceCents         int64
	PlatformFeeCents   int64
	CreatorAmountCents int64
	Paid               bool
	PaymentSessionID   string
	PaymentIntentID    string
	Status             Status
	ExpiresAt          time.Time
	DeliveryURL        string
	DeliveryNote       string
	DeliveredAt        *time.Time
	RefundStatus       RefundStatus
	RefundAttempts     int
	RefundedAt         *time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

type NewRequestInput struct {
	RequestID          string
	ConsumerID         string
	CreatorID          string
	Prompt             string
	PriceCents         int64
	PlatformFeeCents   int64
	CreatorAmountCents int64
	Paid               bool
	ExpiresAt          time.Time
}

func NewRequest(input NewRequestInput, now time.Time) (Request, error) {
	if strings.TrimSpace(input.RequestID) == "" ||
		strings.TrimSpace(input.ConsumerID) == "" ||
		strings.TrimSpace(input.CreatorID) == "" ||
		strings.TrimSpace(input.Prompt) == "" {
		return Request{}, domainerrors.ErrMissingFields
	}
	if input.PriceCents <= 0 {
		return Request{}, domainerrors.ErrInvalidPrice
	}
	return Request{
		RequestID:          input.RequestID,
		ConsumerID:         input.ConsumerID,
		CreatorID:          input.CreatorID,
		Prompt:             strings.TrimSpace(input.Prompt),
		PriceCents:         input.PriceCents,
		PlatformFeeCents:   input.PlatformFeeCents,
		CreatorAmountCents: input.CreatorAmountCents,
		Paid:               input.Paid,
		Status:             StatusPending,
		ExpiresAt:          input.ExpiresAt.UTC(),
		RefundStatus:       RefundNone,
		CreatedAt:          now,
		UpdatedAt:          now,
	}, nil
}

// IsOverdue reports a pending request past its response deadline.
func (r Request) IsOverdue(now time.Time) bool {
	return r.Status == StatusPending && now.After(r.ExpiresAt)
}

// Accept moves a paid pending request to accepted. A request past its
// deadline flips to expired instead and ErrRequestExpired is returned, so the
// caller must persist it either way.
func (r *Request) Accept(now time.Time) error {
	if !r.Paid || r.Status != StatusPending {
		return domainerrors.ErrInvalidTransition
	}
	if now.After(r.ExpiresAt) {
		r.Status = StatusExpired
		r.UpdatedAt = now
		return domainerrors.ErrRequestExpired
	}
	r.Status = StatusAccepted
	r.UpdatedAt = now
	return nil
}

func (r *Request) Decline(now time.Time) error {
	if !r.Paid || r.Status != StatusPending {
		return domainerrors.ErrInvalidTransition
	}
	r.Status = StatusDeclined
	r.UpdatedAt = now
	return nil
}

// Expire flips an overdue pending request and reports whether it changed.
func (r *Request) Expire(now time.Time) bool {
	if !r.IsOverdue(now) {
		return false
	}
	r.Status = StatusExpired
	r.UpdatedAt = now
	return true
}

func (r *Request) Deliver(url string, note string, now time.Time) error {
	if !r.Paid || r.Status != StatusAccepted {
		return domainerrors.ErrInvalidTransition
	}
	url = strings.TrimSpace(url)
	if url == "" {
		return domainerrors.ErrDeliveryURLRequired
	}
	delivered := now
	r.DeliveryURL = url
	r.DeliveryNote = strings.TrimSpace(note)
	r.DeliveredAt = &delivered
	r.Status = StatusDelivered
	r.UpdatedAt = now
	return nil
}

// MarkPaid records the captured payment. A request that is already paid only
// fills in a missing payment intent.
func (r *Request) MarkPaid(paymentIntentID string, now time.Time) {
	r.Paid = true
	if r.PaymentIntentID == "" {
		r.PaymentIntentID = strings.TrimSpace(paymentIntentID)
	}
	r.UpdatedAt = now
}

// AwaitsRefund is true for paid requests that ended without delivery and
// have not been refunded yet.
func (r Request) AwaitsRefund() bool {
	if !r.Paid || r.RefundStatus == RefundProcessed {
		return false
	}
	return r.Status == StatusDeclined || r.Status == StatusExpired
}

func (r *Request) MarkRefundPending(now time.Time) {
	r.RefundStatus = RefundPending
	r.UpdatedAt = now
}

func (r *Request) MarkRefunded(now time.Time) {
	refunded := now
	r.RefundStatus = RefundProcessed
	r.RefundedAt = &refunded
	r.Status = StatusRefunded
	r.UpdatedAt = now
}

func (r *Request) MarkRefundFailed(now time.Time) {
	r.RefundStatus = RefundFailed
	r.UpdatedAt = now
}
