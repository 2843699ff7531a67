package postgresadapter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"creatorhub/contexts/moderation-safety/moderation-service/application"
	"creatorhub/contexts/moderation-safety/moderation-service/domain/entities"
	domainerrors "creatorhub/contexts/moderation-safety/moderation-service/domain/errors"
	"creatorhub/contexts/moderation-safety/moderation-service/ports"

	"gorm.io/gorm"
)

type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

var _ ports.Repository = (*Repository)(nil)

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	return &Repository{
		db:     db,
		logger: application.ResolveLogger(logger),
	}
}

func (r *Repository) AutoMigrate(ctx context.Context) error {
	return r.db.WithContext(ctx).AutoMigrate(&reportModel{})
}

func (r *Repository) CreateReport(ctx context.Context, report entities.Report) error {
	row := reportModel{
		ReportID:   report.ReportID,
		ReporterID: report.ReporterID,
		TargetType: string(report.TargetType),
		TargetID:   report.TargetID,
		Reason:     report.Reason,
		Details:    report.Details,
		Status:     string(report.Status),
		CreatedAt:  report.CreatedAt,
		UpdatedAt:  report.UpdatedAt,
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("insert report: %w", err)
	}
	return nil
}

func (r *Repository) GetReport(ctx context.Context, reportID string) (entities.Report, error) {
	var row reportModel
	err := r.db.WithContext(ctx).
		Where("report_id = ?", reportID).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Report{}, domainerrors.ErrReportNotFound
		}
		return entities.Report{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) UpdateReportStatus(ctx context.Context, reportID string, status entities.Status, now time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&reportModel{}).
		Where("report_id = ?", reportID).
		Updates(map[string]any{
			"status":     string(status),
			"updated_at": now,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrReportNotFound
	}
	return nil
}

func (r *Repository) ListReports(ctx context.Context, filter ports.ReportFilter) ([]entities.Report, error) {
	var rows []reportModel
	query := r.db.WithContext(ctx).Order("created_at DESC")
	if filter.ReporterID != "" {
		query = query.Where("reporter_id = ?", filter.ReporterID)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]entities.Report, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toEntity())
	}
	return out, nil
}

func (r *Repository) CountUserReportsSince(ctx context.Context, userID string, since time.Time) (int, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&reportModel{}).
		Where("target_type = ? AND target_id = ? AND created_at >= ?", string(entities.TargetUser), userID, since).
		Count(&count).
		Error
	return int(count), err
}

func (r *Repository) CountOpenUserReports(ctx context.Context, userID string) (int, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&reportModel{}).
		Where("target_type = ? AND target_id = ? AND status IN ?",
			string(entities.TargetUser),
			userID,
			[]string{string(entities.StatusOpen), string(entities.StatusReviewing)},
		).
		Count(&count).
		Error
	return int(count), err
}

type reportModel struct {
	ReportID   string    `gorm:"column:report_id;primaryKey"`
	ReporterID string    `gorm:"column:reporter_id;index"`
	TargetType string    `gorm:"column:target_type;index:idx_reports_target,priority:1"`
	TargetID   string    `gorm:"column:target_id;index:idx_reports_target,priority:2"`
	Reason     string    `gorm:"column:reason"`
	Details    string    `gorm:"column:details"`
	Status     string    `gorm:"column:status"`
	CreatedAt  time.Time `gorm:"column:created_at;index"`
	UpdatedAt  time.Time `gorm:"column:updated_at"`
}

func (reportModel) TableName() string {
	return "reports"
}

func (m reportModel) toEntity() entities.Report {
	return entities.Report{
		ReportID:   m.ReportID,
		ReporterID: m.ReporterID,
		TargetType: entities.TargetType(m.TargetType),
		TargetID:   m.TargetID,
		Reason:     m.Reason,
		Details:    m.Details,
		Status:     entities.Status(m.Status),
		CreatedAt:  m.CreatedAt.UTC(),
		UpdatedAt:  m.UpdatedAt.UTC(),
	}
}
