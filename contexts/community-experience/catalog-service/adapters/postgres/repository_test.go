package postgresadapter

import (
	"context"
	"testing"
	"time"

	"creatorhub/contexts/community-experience/catalog-service/domain/entities"
	domainerrors "creatorhub/contexts/community-experience/catalog-service/domain/errors"

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

var contentColumns = []string{
	"content_id", "creator_id", "title", "description", "files", "views", "likes", "created_at", "updated_at",
}

func TestGetContentDecodesFiles(t *testing.T) {
	repo, mock := newMockRepository(t)
	now := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT \* FROM "contents" WHERE content_id = \$1`).
		WillReturnRows(sqlmock.NewRows(contentColumns).AddRow(
			"c1", "creator-1", "Set", "",
			[]byte(`[{"url":"/uploads/a.jpg","type":"image","price_cents":250}]`),
			3, 1, now, now,
		))

	item, err := repo.GetContent(context.Background(), "c1")
	require.NoError(t, err)
	require.Len(t, item.Files, 1)
	require.NotNil(t, item.Files[0].PriceCents)
	assert.Equal(t, int64(250), *item.Files[0].PriceCents)
	assert.Equal(t, int64(3), item.Stats.Views)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetContentNotFound(t *testing.T) {
	repo, mock := newMockRepository(t)
	mock.ExpectQuery(`SELECT \* FROM "contents"`).WillReturnRows(sqlmock.NewRows(contentColumns))

	_, err := repo.GetContent(context.Background(), "missing")
	require.ErrorIs(t, err, domainerrors.ErrContentNotFound)

	mock.ExpectQuery(`SELECT \* FROM "contents"`).WillReturnRows(sqlmock.NewRows(contentColumns))
	_, found, err := repo.GetContentSummary(context.Background(), "missing")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestCreateContentInsertsRow(t *testing.T) {
	repo, mock := newMockRepository(t)
	mock.ExpectExec(`INSERT INTO "contents"`).WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.CreateContent(context.Background(), entities.Content{
		ContentID: "c1",
		CreatorID: "creator-1",
		Title:     "Set",
		Files:     []entities.File{{URL: "/uploads/a.jpg", Type: "image"}},
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListByCreatorOrdersNewestFirst(t *testing.T) {
	repo, mock := newMockRepository(t)
	now := time.Now().UTC()
	mock.ExpectQuery(`SELECT \* FROM "contents" WHERE creator_id = \$1 ORDER BY created_at DESC LIMIT \$2`).
		WillReturnRows(sqlmock.NewRows(contentColumns).
			AddRow("c2", "creator-1", "B", "", []byte(`[]`), 0, 0, now, now).
			AddRow("c1", "creator-1", "A", "", []byte(`[]`), 0, 0, now.Add(-time.Hour), now))

	items, err := repo.ListByCreator(context.Background(), "creator-1", 3)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "c2", items[0].ContentID)
	require.NoError(t, mock.ExpectationsWereMet())
}
