package ports

import (
	"context"
	"time"

	"creatorhub/contexts/moderation-safety/moderation-service/domain/entities"

	identityv1 "creatorhub/contracts/gen/identity/v1"
)

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}

type ReportFilter struct {
	// ReporterID restricts the listing to one reporter; empty lists all.
	ReporterID string
	Limit      int
}

type Repository interface {
	CreateReport(ctx context.Context, report entities.Report) error
	GetReport(ctx context.Context, reportID string) (entities.Report, error)
	UpdateReportStatus(ctx context.Context, reportID string, status entities.Status, now time.Time) error
	ListReports(ctx context.Context, filter ReportFilter) ([]entities.Report, error)
	CountUserReportsSince(ctx context.Context, userID string, since time.Time) (int, error)
	CountOpenUserReports(ctx context.Context, userID string) (int, error)
}

// AccountDirectory is served by the account context.
type AccountDirectory interface {
	GetAccount(ctx context.Context, userID string) (identityv1.Account, bool, error)
	SaveModerationStatus(ctx context.Context, userID string, status identityv1.ModerationStatus) error
	ListSuspendedCreators(ctx context.Context, endedBy time.Time) ([]identityv1.Account, error)
}

// DeliveredCounter is served by the custom request context.
type DeliveredCounter interface {
	CountDelivered(ctx context.Context, creatorID string) (int, error)
}

type TextPolicy interface {
	ContainsBlocked(texts ...string) bool
}
