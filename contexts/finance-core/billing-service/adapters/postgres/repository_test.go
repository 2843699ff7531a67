package postgresadapter

import (
	"context"
	"testing"
	"time"

	"creatorhub/contexts/finance-core/billing-service/domain/entities"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newMockRepository(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)
	return NewRepository(db, nil), mock
}

var purchaseColumns = []string{
	"purchase_id", "user_id", "content_id", "amount_cents", "platform_fee_cents",
	"creator_amount_cents", "payment_intent_id", "currency", "created_at", "updated_at",
}

func TestUpsertPurchaseUsesOnConflict(t *testing.T) {
	repo, mock := newMockRepository(t)
	now := time.Date(2026, time.April, 2, 0, 0, 0, 0, time.UTC)

	mock.ExpectExec(`INSERT INTO "purchases" .* ON CONFLICT \("user_id","content_id"\) DO UPDATE SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT \* FROM "purchases" WHERE user_id = \$1 AND content_id = \$2`).
		WillReturnRows(sqlmock.NewRows(purchaseColumns).AddRow(
			"p-original", "u1", "c1", 500, 100, 400, "pi_1", "EUR", now, now,
		))

	purchase, err := repo.UpsertPurchase(context.Background(), entities.Purchase{
		PurchaseID:  "p-new",
		UserID:      "u1",
		ContentID:   "c1",
		AmountCents: 500,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	require.NoError(t, err)
	assert.Equal(t, "p-original", purchase.PurchaseID)
	assert.Equal(t, "pi_1", purchase.PaymentIntentID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPurchasedContentIDs(t *testing.T) {
	repo, mock := newMockRepository(t)
	mock.ExpectQuery(`SELECT "content_id" FROM "purchases" WHERE user_id = \$1 AND content_id IN \(\$2,\$3\)`).
		WillReturnRows(sqlmock.NewRows([]string{"content_id"}).AddRow("c2"))

	ids, err := repo.PurchasedContentIDs(context.Background(), "u1", []string{"c1", "c2"})
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{"c2": true}, ids)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReserveReportsDuplicate(t *testing.T) {
	repo, mock := newMockRepository(t)
	mock.ExpectExec(`DELETE FROM "processed_webhook_events"`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`INSERT INTO "processed_webhook_events" .* ON CONFLICT DO NOTHING`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	reserved, err := repo.Reserve(context.Background(), "stripe:event:evt_1", time.Hour)
	require.NoError(t, err)
	assert.False(t, reserved)
	require.NoError(t, mock.ExpectationsWereMet())
}
