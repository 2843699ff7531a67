package postgresadapter

import (
	"context"
	"testing"
	"time"

	"creatorhub/contexts/identity-access/account-service/domain/entities"
	domainerrors "creatorhub/contexts/identity-access/account-service/domain/errors"

	identityv1 "creatorhub/contracts/gen/identity/v1"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
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

var userColumns = []string{
	"user_id", "username", "email", "password_hash", "display_name", "bio", "avatar_url",
	"birth_date", "age_verified_at", "role", "access_pass_active", "access_pass_expires_at",
	"subscription_active", "subscription_expires_at", "stripe_customer_id", "stripe_subscription_id",
	"verified_creator", "is_suspended", "suspended_until", "created_at", "updated_at",
}

func TestGetUserMapsLegacyRole(t *testing.T) {
	repo, mock := newMockRepository(t)
	now := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT \* FROM "users" WHERE user_id = \$1`).
		WillReturnRows(sqlmock.NewRows(userColumns).AddRow(
			"u1", "lina", "lina@example.com", "hash", "Lina", "", "/default-avatar.png",
			nil, now, "user", false, nil,
			true, nil, "", "",
			false, false, nil, now, now,
		))

	user, err := repo.GetUser(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, entities.RoleConsumer, user.Role)
	assert.True(t, user.SubscriptionActive)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetUserNotFound(t *testing.T) {
	repo, mock := newMockRepository(t)
	mock.ExpectQuery(`SELECT \* FROM "users"`).WillReturnRows(sqlmock.NewRows(userColumns))

	_, err := repo.GetUser(context.Background(), "missing")
	require.ErrorIs(t, err, domainerrors.ErrUserNotFound)

	mock.ExpectQuery(`SELECT \* FROM "users"`).WillReturnRows(sqlmock.NewRows(userColumns))
	_, found, err := repo.GetAccount(context.Background(), "missing")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestCreateUserMapsUniqueViolation(t *testing.T) {
	repo, mock := newMockRepository(t)
	mock.ExpectExec(`INSERT INTO "users"`).WillReturnError(&pgconn.PgError{Code: "23505"})

	err := repo.CreateUser(context.Background(), entities.User{UserID: "u1", Username: "lina", Email: "lina@example.com"})
	require.ErrorIs(t, err, domainerrors.ErrConflict)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateAvatarReportsMissingAccount(t *testing.T) {
	repo, mock := newMockRepository(t)
	mock.ExpectExec(`UPDATE "users" SET`).WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateAvatar(context.Background(), "missing", "/uploads/a.png")
	require.ErrorIs(t, err, identityv1.ErrAccountNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestActivateAccessPassUpdatesRow(t *testing.T) {
	repo, mock := newMockRepository(t)
	mock.ExpectExec(`UPDATE "users" SET`).WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.ActivateAccessPass(context.Background(), "u1", time.Now().Add(24*time.Hour))
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}
