package postgresadapter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"creatorhub/contexts/community-experience/custom-request-service/application"
	"creatorhub/contexts/community-experience/custom-request-service/domain/entities"
	domainerrors "creatorhub/contexts/community-experience/custom-request-service/domain/errors"
	"creatorhub/contexts/community-experience/custom-request-service/ports"

	requestsv1 "creatorhub/contracts/gen/requests/v1"

	"gorm.io/gorm"
)

type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

var (
	_ ports.Repository     = (*Repository)(nil)
	_ ports.CreatorReports = (*Repository)(nil)
)

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	return &Repository{
		db:     db,
		logger: application.ResolveLogger(logger),
	}
}

func (r *Repository) AutoMigrate(ctx context.Context) error {
	return r.db.WithContext(ctx).AutoMigrate(&requestModel{})
}

func (r *Repository) CreateRequest(ctx context.Context, request entities.Request) error {
	row := requestModelFromEntity(request)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("insert custom request: %w", err)
	}
	return nil
}

func (r *Repository) GetRequest(ctx context.Context, requestID string) (entities.Request, error) {
	var row requestModel
	err := r.db.WithContext(ctx).
		Where("request_id = ?", requestID).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Request{}, domainerrors.ErrRequestNotFound
		}
		return entities.Request{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) SaveRequest(ctx context.Context, request entities.Request) error {
	row := requestModelFromEntity(request)
	result := r.db.WithContext(ctx).
		Model(&requestModel{}).
		Where("request_id = ?", request.RequestID).
		Select("*").
		Omit("request_id", "created_at").
		Updates(&row)
	if result.Error != nil {
		r.logger.Error("custom request save failed",
			"event", "custom_request_save_failed",
			"module", "community-experience/custom-request-service",
			"layer", "adapter",
			"request_id", request.RequestID,
			"error", result.Error.Error(),
		)
		return fmt.Errorf("update custom request: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrRequestNotFound
	}
	return nil
}

func (r *Repository) ListPaidForConsumer(ctx context.Context, consumerID string, limit int) ([]entities.Request, error) {
	return r.find(ctx, limit, "consumer_id = ? AND paid = ?", consumerID, true)
}

func (r *Repository) ListPaidForCreator(ctx context.Context, creatorID string, limit int) ([]entities.Request, error) {
	return r.find(ctx, limit, "creator_id = ? AND paid = ?", creatorID, true)
}

func (r *Repository) ListOverduePending(ctx context.Context, now time.Time, limit int) ([]entities.Request, error) {
	return r.find(ctx, limit, "status = ? AND expires_at < ?", string(entities.StatusPending), now)
}

func (r *Repository) ListRefundCandidates(ctx context.Context, maxAttempts int, limit int) ([]entities.Request, error) {
	return r.find(ctx, limit,
		"paid = ? AND status IN ? AND refund_status IN ? AND refund_attempts < ?",
		true,
		[]string{string(entities.StatusDeclined), string(entities.StatusExpired)},
		[]string{string(entities.RefundPending), string(entities.RefundFailed)},
		maxAttempts,
	)
}

func (r *Repository) CountDelivered(ctx context.Context, creatorID string) (int, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&requestModel{}).
		Where("creator_id = ? AND status = ?", creatorID, string(entities.StatusDelivered)).
		Count(&count).
		Error
	if err != nil {
		return 0, err
	}
	return int(count), nil
}

func (r *Repository) ListCreatorRequests(ctx context.Context, creatorID string) ([]requestsv1.RequestSummary, error) {
	items, err := r.find(ctx, 0, "creator_id = ?", creatorID)
	if err != nil {
		return nil, err
	}
	out := make([]requestsv1.RequestSummary, 0, len(items))
	for _, item := range items {
		out = append(out, application.SummaryFromRequest(item))
	}
	return out, nil
}

func (r *Repository) find(ctx context.Context, limit int, where string, args ...any) ([]entities.Request, error) {
	var rows []requestModel
	query := r.db.WithContext(ctx).
		Where(where, args...).
		Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]entities.Request, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toEntity())
	}
	return out, nil
}

type requestModel struct {
	RequestID          string     `gorm:"column:request_id;primaryKey"`
	ConsumerID         string     `gorm:"column:consumer_id;index:idx_custom_requests_consumer_created,priority:1"`
	CreatorID          string     `gorm:"column:creator_id;index:idx_custom_requests_creator_created,priority:1"`
	Prompt             string     `gorm:"column:prompt"`
	PriceCents         int64      `gorm:"column:price_cents"`
	PlatformFeeCents   int64      `gorm:"column:platform_fee_cents"`
	CreatorAmountCents int64      `gorm:"column:creator_amount_cents"`
	Paid               bool       `gorm:"column:paid"`
	PaymentSessionID   string     `gorm:"column:payment_session_id"`
	PaymentIntentID    string     `gorm:"column:payment_intent_id"`
	Status             string     `gorm:"column:status;index:idx_custom_requests_status_expires,priority:1"`
	ExpiresAt          time.Time  `gorm:"column:expires_at;index:idx_custom_requests_status_expires,priority:2"`
	DeliveryURL        string     `gorm:"column:delivery_url"`
	DeliveryNote       string     `gorm:"column:delivery_note"`
	DeliveredAt        *time.Time `gorm:"column:delivered_at"`
	RefundStatus       string     `gorm:"column:refund_status"`
	RefundAttempts     int        `gorm:"column:refund_attempts"`
	RefundedAt         *time.Time `gorm:"column:refunded_at"`
	CreatedAt          time.Time  `gorm:"column:created_at;index:idx_custom_requests_consumer_created,priority:2;index:idx_custom_requests_creator_created,priority:2"`
	UpdatedAt          time.Time  `gorm:"column:updated_at"`
}

func (requestModel) TableName() string {
	return "custom_requests"
}

func (m requestModel) toEntity() entities.Request {
	return entities.Request{
		RequestID:          m.RequestID,
		ConsumerID:         m.ConsumerID,
		CreatorID:          m.CreatorID,
		Prompt:             m.Prompt,
		PriceCents:         m.PriceCents,
		PlatformFeeCents:   m.PlatformFeeCents,
		CreatorAmountCents: m.CreatorAmountCents,
		Paid:               m.Paid,
		PaymentSessionID:   m.PaymentSessionID,
		PaymentIntentID:    m.PaymentIntentID,
		Status:             entities.Status(m.Status),
		ExpiresAt:          m.ExpiresAt.UTC(),
		DeliveryURL:        m.DeliveryURL,
		DeliveryNote:       m.DeliveryNote,
		DeliveredAt:        m.DeliveredAt,
		RefundStatus:       entities.RefundStatus(m.RefundStatus),
		RefundAttempts:     m.RefundAttempts,
		RefundedAt:         m.RefundedAt,
		CreatedAt:          m.CreatedAt.UTC(),
		UpdatedAt:          m.UpdatedAt.UTC(),
	}
}

func requestModelFromEntity(request entities.Request) requestModel {
	return requestModel{
		RequestID:          request.RequestID,
		ConsumerID:         request.ConsumerID,
		CreatorID:          request.CreatorID,
		Prompt:             request.Prompt,
		PriceCents:         request.PriceCents,
		PlatformFeeCents:   request.PlatformFeeCents,
		CreatorAmountCents: request.CreatorAmountCents,
		Paid:               request.Paid,
		PaymentSessionID:   request.PaymentSessionID,
		PaymentIntentID:    request.PaymentIntentID,
		Status:             string(request.Status),
		ExpiresAt:          request.ExpiresAt,
		DeliveryURL:        request.DeliveryURL,
		DeliveryNote:       request.DeliveryNote,
		DeliveredAt:        request.DeliveredAt,
		RefundStatus:       string(request.RefundStatus),
		RefundAttempts:     request.RefundAttempts,
		RefundedAt:         request.RefundedAt,
		CreatedAt:          request.CreatedAt,
		UpdatedAt:          request.UpdatedAt,
	}
}
