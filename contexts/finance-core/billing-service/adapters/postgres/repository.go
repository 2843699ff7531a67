package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"creatorhub/contexts/finance-core/billing-service/application"
	"creatorhub/contexts/finance-core/billing-service/domain/entities"
	domainerrors "creatorhub/contexts/finance-core/billing-service/domain/errors"
	"creatorhub/contexts/finance-core/billing-service/ports"

	billingv1 "creatorhub/contracts/gen/billing/v1"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

var (
	_ ports.Repository       = (*Repository)(nil)
	_ ports.IdempotencyStore = (*Repository)(nil)
	_ ports.EventDedup       = (*Repository)(nil)
)

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	return &Repository{
		db:     db,
		logger: application.ResolveLogger(logger),
	}
}

func (r *Repository) AutoMigrate(ctx context.Context) error {
	return r.db.WithContext(ctx).AutoMigrate(&purchaseModel{}, &idempotencyModel{}, &webhookEventModel{})
}

func (r *Repository) UpsertPurchase(ctx context.Context, purchase entities.Purchase) (entities.Purchase, error) {
	if purchase.Currency == "" {
		purchase.Currency = entities.CurrencyEUR
	}
	row := purchaseModelFromEntity(purchase)
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "content_id"}},
			DoUpdates: clause.Set{
				{Column: clause.Column{Name: "amount_cents"}, Value: row.AmountCents},
				{Column: clause.Column{Name: "platform_fee_cents"}, Value: row.PlatformFeeCents},
				{Column: clause.Column{Name: "creator_amount_cents"}, Value: row.CreatorAmountCents},
				{Column: clause.Column{Name: "payment_intent_id"}, Value: gorm.Expr("COALESCE(NULLIF(EXCLUDED.payment_intent_id, ''), purchases.payment_intent_id)")},
				{Column: clause.Column{Name: "updated_at"}, Value: row.UpdatedAt},
			},
		}).
		Create(&row).
		Error
	if err != nil {
		return entities.Purchase{}, err
	}

	var stored purchaseModel
	err = r.db.WithContext(ctx).
		Where("user_id = ? AND content_id = ?", purchase.UserID, purchase.ContentID).
		First(&stored).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Purchase{}, domainerrors.ErrInvalidRequest
		}
		return entities.Purchase{}, err
	}
	return stored.toEntity(), nil
}

func (r *Repository) PurchasedContentIDs(ctx context.Context, userID string, contentIDs []string) (map[string]bool, error) {
	out := make(map[string]bool)
	if strings.TrimSpace(userID) == "" || len(contentIDs) == 0 {
		return out, nil
	}
	var ids []string
	err := r.db.WithContext(ctx).
		Model(&purchaseModel{}).
		Where("user_id = ? AND content_id IN ?", userID, contentIDs).
		Pluck("content_id", &ids).
		Error
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		out[id] = true
	}
	return out, nil
}

func (r *Repository) ListPurchasesForContent(ctx context.Context, contentIDs []string) ([]billingv1.Purchase, error) {
	if len(contentIDs) == 0 {
		return []billingv1.Purchase{}, nil
	}
	var rows []purchaseModel
	if err := r.db.WithContext(ctx).Where("content_id IN ?", contentIDs).Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]billingv1.Purchase, 0, len(rows))
	for _, row := range rows {
		item := row.toEntity()
		out = append(out, billingv1.Purchase{
			PurchaseID:         item.PurchaseID,
			UserID:             item.UserID,
			ContentID:          item.ContentID,
			AmountCents:        item.AmountCents,
			PlatformFeeCents:   item.PlatformFeeCents,
			CreatorAmountCents: item.CreatorAmountCents,
			Currency:           item.Currency,
			CreatedAt:          item.CreatedAt,
		})
	}
	return out, nil
}

func (r *Repository) GetRecord(ctx context.Context, key string, now time.Time) (ports.IdempotencyRecord, bool, error) {
	var row idempotencyModel
	err := r.db.WithContext(ctx).
		Where("idempotency_key = ? AND expires_at > ?", strings.TrimSpace(key), now.UTC()).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.IdempotencyRecord{}, false, nil
		}
		return ports.IdempotencyRecord{}, false, err
	}
	return ports.IdempotencyRecord{
		Key:             row.Key,
		RequestHash:     row.RequestHash,
		ResponsePayload: row.ResponsePayload,
		ExpiresAt:       row.ExpiresAt,
	}, true, nil
}

func (r *Repository) PutRecord(ctx context.Context, record ports.IdempotencyRecord) error {
	row := idempotencyModel{
		Key:             strings.TrimSpace(record.Key),
		RequestHash:     record.RequestHash,
		ResponsePayload: record.ResponsePayload,
		ExpiresAt:       record.ExpiresAt.UTC(),
	}
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&row)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrIdempotencyConflict
	}
	return nil
}

// Reserve claims an event id. Expired claims are cleared first so a replay
// after the dedup window is processed again.
func (r *Repository) Reserve(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	now := time.Now().UTC()
	db := r.db.WithContext(ctx)
	if err := db.Where("event_key = ? AND expires_at <= ?", key, now).Delete(&webhookEventModel{}).Error; err != nil {
		return false, err
	}
	result := db.
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&webhookEventModel{EventKey: key, ReservedAt: now, ExpiresAt: now.Add(ttl)})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (r *Repository) Release(ctx context.Context, key string) error {
	return r.db.WithContext(ctx).Where("event_key = ?", key).Delete(&webhookEventModel{}).Error
}

type purchaseModel struct {
	PurchaseID         string    `gorm:"column:purchase_id;primaryKey"`
	UserID             string    `gorm:"column:user_id;uniqueIndex:idx_purchases_user_content,priority:1"`
	ContentID          string    `gorm:"column:content_id;uniqueIndex:idx_purchases_user_content,priority:2;index"`
	AmountCents        int64     `gorm:"column:amount_cents"`
	PlatformFeeCents   int64     `gorm:"column:platform_fee_cents"`
	CreatorAmountCents int64     `gorm:"column:creator_amount_cents"`
	PaymentIntentID    string    `gorm:"column:payment_intent_id"`
	Currency           string    `gorm:"column:currency"`
	CreatedAt          time.Time `gorm:"column:created_at"`
	UpdatedAt          time.Time `gorm:"column:updated_at"`
}

func (purchaseModel) TableName() string {
	return "purchases"
}

func (m purchaseModel) toEntity() entities.Purchase {
	return entities.Purchase{
		PurchaseID:         m.PurchaseID,
		UserID:             m.UserID,
		ContentID:          m.ContentID,
		AmountCents:        m.AmountCents,
		PlatformFeeCents:   m.PlatformFeeCents,
		CreatorAmountCents: m.CreatorAmountCents,
		PaymentIntentID:    m.PaymentIntentID,
		Currency:           m.Currency,
		CreatedAt:          m.CreatedAt.UTC(),
		UpdatedAt:          m.UpdatedAt.UTC(),
	}
}

func purchaseModelFromEntity(purchase entities.Purchase) purchaseModel {
	return purchaseModel{
		PurchaseID:         purchase.PurchaseID,
		UserID:             purchase.UserID,
		ContentID:          purchase.ContentID,
		AmountCents:        purchase.AmountCents,
		PlatformFeeCents:   purchase.PlatformFeeCents,
		CreatorAmountCents: purchase.CreatorAmountCents,
		PaymentIntentID:    purchase.PaymentIntentID,
		Currency:           purchase.Currency,
		CreatedAt:          purchase.CreatedAt.UTC(),
		UpdatedAt:          purchase.UpdatedAt.UTC(),
	}
}

type idempotencyModel struct {
	Key             string    `gorm:"column:idempotency_key;primaryKey"`
	RequestHash     string    `gorm:"column:request_hash"`
	ResponsePayload []byte    `gorm:"column:response_payload"`
	ExpiresAt       time.Time `gorm:"column:expires_at;index"`
}

func (idempotencyModel) TableName() string {
	return "billing_idempotency"
}

type webhookEventModel struct {
	EventKey   string    `gorm:"column:event_key;primaryKey"`
	ReservedAt time.Time `gorm:"column:reserved_at"`
	ExpiresAt  time.Time `gorm:"column:expires_at;index"`
}

func (webhookEventModel) TableName() string {
	return "processed_webhook_events"
}
