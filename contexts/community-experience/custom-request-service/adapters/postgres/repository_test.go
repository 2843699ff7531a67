package postgresadapter

import (
	"context"
	"testing"
	"time"

	"creatorhub/contexts/community-experience/custom-request-service/domain/entities"
	domainerrors "creatorhub/contexts/community-experience/custom-request-service/domain/errors"

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

var requestColumns = []string{
	"request_id", "consumer_id", "creator_id", "prompt", "price_cents", "platform_fee_cents",
	"creator_amount_cents", "paid", "payment_session_id", "payment_intent_id", "status", "expires_at",
	"delivery_url", "delivery_note", "delivered_at", "refund_status", "refund_attempts", "refunded_at",
	"created_at", "updated_at",
}

func TestGetRequestMapsRow(t *testing.T) {
	repo, mock := newMockRepository(t)
	now := time.Date(2026, time.May, 1, 9, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT \* FROM "custom_requests" WHERE request_id = \$1`).
		WillReturnRows(sqlmock.NewRows(requestColumns).AddRow(
			"r1", "consumer", "creator", "pieds", 2500, 500, 2000, true, "cs_1", "pi_1", "declined",
			now.Add(48*time.Hour), "", "", nil, "failed", 2, nil, now, now,
		))

	request, err := repo.GetRequest(context.Background(), "r1")
	require.NoError(t, err)
	assert.Equal(t, entities.StatusDeclined, request.Status)
	assert.Equal(t, entities.RefundFailed, request.RefundStatus)
	assert.Equal(t, 2, request.RefundAttempts)
	assert.Equal(t, int64(2000), request.CreatorAmountCents)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetRequestNotFound(t *testing.T) {
	repo, mock := newMockRepository(t)
	mock.ExpectQuery(`SELECT \* FROM "custom_requests"`).WillReturnRows(sqlmock.NewRows(requestColumns))

	_, err := repo.GetRequest(context.Background(), "missing")
	require.ErrorIs(t, err, domainerrors.ErrRequestNotFound)
}

func TestSaveRequestReportsMissingRow(t *testing.T) {
	repo, mock := newMockRepository(t)
	mock.ExpectExec(`UPDATE "custom_requests" SET`).WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.SaveRequest(context.Background(), entities.Request{RequestID: "missing", Status: entities.StatusAccepted})
	require.ErrorIs(t, err, domainerrors.ErrRequestNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateRequestInsertsRow(t *testing.T) {
	repo, mock := newMockRepository(t)
	mock.ExpectExec(`INSERT INTO "custom_requests"`).WillReturnResult(sqlmock.NewResult(0, 1))

	now := time.Now().UTC()
	err := repo.CreateRequest(context.Background(), entities.Request{
		RequestID:    "r1",
		ConsumerID:   "consumer",
		CreatorID:    "creator",
		Prompt:       "pieds",
		PriceCents:   2500,
		Status:       entities.StatusPending,
		RefundStatus: entities.RefundNone,
		ExpiresAt:    now.Add(48 * time.Hour),
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCountDelivered(t *testing.T) {
	repo, mock := newMockRepository(t)
	mock.ExpectQuery(`SELECT count\(\*\) FROM "custom_requests" WHERE`).
		WithArgs("creator", "delivered").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(4))

	count, err := repo.CountDelivered(context.Background(), "creator")
	require.NoError(t, err)
	assert.Equal(t, 4, count)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListRefundCandidatesFiltersByAttempts(t *testing.T) {
	repo, mock := newMockRepository(t)
	mock.ExpectQuery(`SELECT \* FROM "custom_requests" WHERE .*refund_attempts < .*ORDER BY created_at DESC LIMIT`).
		WillReturnRows(sqlmock.NewRows(requestColumns))

	items, err := repo.ListRefundCandidates(context.Background(), 5, 50)
	require.NoError(t, err)
	assert.Empty(t, items)
	require.NoError(t, mock.ExpectationsWereMet())
}
