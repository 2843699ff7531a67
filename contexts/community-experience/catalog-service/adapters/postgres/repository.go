package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"creatorhub/contexts/community-experience/catalog-service/application"
	"creatorhub/contexts/community-experience/catalog-service/domain/entities"
	domainerrors "creatorhub/contexts/community-experience/catalog-service/domain/errors"
	"creatorhub/contexts/community-experience/catalog-service/ports"

	catalogv1 "creatorhub/contracts/gen/catalog/v1"

	"gorm.io/gorm"
)

type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

var (
	_ ports.Repository       = (*Repository)(nil)
	_ ports.ContentSummaries = (*Repository)(nil)
)

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	return &Repository{
		db:     db,
		logger: application.ResolveLogger(logger),
	}
}

func (r *Repository) AutoMigrate(ctx context.Context) error {
	return r.db.WithContext(ctx).AutoMigrate(&contentModel{})
}

func (r *Repository) CreateContent(ctx context.Context, item entities.Content) error {
	row := contentModelFromEntity(item)
	return r.db.WithContext(ctx).Create(&row).Error
}

func (r *Repository) GetContent(ctx context.Context, contentID string) (entities.Content, error) {
	var row contentModel
	err := r.db.WithContext(ctx).
		Where("content_id = ?", contentID).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Content{}, domainerrors.ErrContentNotFound
		}
		return entities.Content{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) ListRecent(ctx context.Context, limit int) ([]entities.Content, error) {
	var rows []contentModel
	query := r.db.WithContext(ctx).Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return toEntities(rows), nil
}

func (r *Repository) ListByCreator(ctx context.Context, creatorID string, limit int) ([]entities.Content, error) {
	var rows []contentModel
	query := r.db.WithContext(ctx).
		Where("creator_id = ?", creatorID).
		Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return toEntities(rows), nil
}

func (r *Repository) GetContentSummary(ctx context.Context, contentID string) (catalogv1.ContentSummary, bool, error) {
	item, err := r.GetContent(ctx, contentID)
	if err != nil {
		if errors.Is(err, domainerrors.ErrContentNotFound) {
			return catalogv1.ContentSummary{}, false, nil
		}
		return catalogv1.ContentSummary{}, false, err
	}
	return application.SummaryFromContent(item), true, nil
}

func (r *Repository) ListCreatorContentSummaries(ctx context.Context, creatorID string) ([]catalogv1.ContentSummary, error) {
	items, err := r.ListByCreator(ctx, creatorID, 0)
	if err != nil {
		return nil, err
	}
	out := make([]catalogv1.ContentSummary, 0, len(items))
	for _, item := range items {
		out = append(out, application.SummaryFromContent(item))
	}
	return out, nil
}

type fileModel struct {
	URL          string `json:"url"`
	Type         string `json:"type"`
	ThumbnailURL string `json:"thumbnail,omitempty"`
	PriceCents   *int64 `json:"price_cents,omitempty"`
}

type contentModel struct {
	ContentID   string      `gorm:"column:content_id;primaryKey"`
	CreatorID   string      `gorm:"column:creator_id;index:idx_contents_creator_created,priority:1"`
	Title       string      `gorm:"column:title"`
	Description string      `gorm:"column:description"`
	Files       []fileModel `gorm:"column:files;type:jsonb;serializer:json"`
	Views       int64       `gorm:"column:views"`
	Likes       int64       `gorm:"column:likes"`
	CreatedAt   time.Time   `gorm:"column:created_at;index;index:idx_contents_creator_created,priority:2"`
	UpdatedAt   time.Time   `gorm:"column:updated_at"`
}

func (contentModel) TableName() string {
	return "contents"
}

func (m contentModel) toEntity() entities.Content {
	files := make([]entities.File, 0, len(m.Files))
	for _, file := range m.Files {
		files = append(files, entities.File{
			URL:          file.URL,
			Type:         file.Type,
			ThumbnailURL: file.ThumbnailURL,
			PriceCents:   file.PriceCents,
		})
	}
	return entities.Content{
		ContentID:   m.ContentID,
		CreatorID:   m.CreatorID,
		Title:       m.Title,
		Description: m.Description,
		Files:       files,
		Stats:       entities.Stats{Views: m.Views, Likes: m.Likes},
		CreatedAt:   m.CreatedAt.UTC(),
		UpdatedAt:   m.UpdatedAt.UTC(),
	}
}

func contentModelFromEntity(item entities.Content) contentModel {
	files := make([]fileModel, 0, len(item.Files))
	for _, file := range item.Files {
		files = append(files, fileModel{
			URL:          file.URL,
			Type:         file.Type,
			ThumbnailURL: file.ThumbnailURL,
			PriceCents:   file.PriceCents,
		})
	}
	return contentModel{
		ContentID:   item.ContentID,
		CreatorID:   item.CreatorID,
		Title:       item.Title,
		Description: item.Description,
		Files:       files,
		Views:       item.Stats.Views,
		Likes:       item.Stats.Likes,
		CreatedAt:   item.CreatedAt.UTC(),
		UpdatedAt:   item.UpdatedAt.UTC(),
	}
}

func toEntities(rows []contentModel) []entities.Content {
	out := make([]entities.Content, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toEntity())
	}
	return out
}
