package application

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"creatorhub/contexts/moderation-safety/moderation-service/domain/entities"
	domainerrors "creatorhub/contexts/moderation-safety/moderation-service/domain/errors"
	"creatorhub/contexts/moderation-safety/moderation-service/domain/services"
	"creatorhub/contexts/moderation-safety/moderation-service/ports"

	identityv1 "creatorhub/contracts/gen/identity/v1"
)

const reportListLimit = 200

type Service struct {
	Repo       ports.Repository
	Accounts   ports.AccountDirectory
	Deliveries ports.DeliveredCounter
	Policy     ports.TextPolicy
	Clock      ports.Clock
	IDGen      ports.IDGenerator
	Thresholds services.Thresholds
	Logger     *slog.Logger
}

func (s Service) CreateReport(ctx context.Context, draft entities.Draft) (entities.Report, error) {
	if s.Policy != nil && s.Policy.ContainsBlocked(draft.Reason, draft.Details) {
		return entities.Report{}, domainerrors.ErrBlockedContent
	}
	id, err := s.IDGen.NewID(ctx)
	if err != nil {
		return entities.Report{}, err
	}
	report, err := entities.NewReport(id, draft, s.now())
	if err != nil {
		return entities.Report{}, err
	}
	if err := s.Repo.CreateReport(ctx, report); err != nil {
		return entities.Report{}, err
	}
	ResolveLogger(s.Logger).Info("report created",
		"event", "moderation_report_created",
		"module", "moderation-safety/moderation-service",
		"layer", "application",
		"report_id", report.ReportID,
		"target_type", string(report.TargetType),
		"target_id", report.TargetID,
	)

	if report.TargetType == entities.TargetUser {
		if err := s.RefreshCreatorStatus(ctx, report.TargetID); err != nil {
			return entities.Report{}, err
		}
	}
	return report, nil
}

// ListReports returns the newest reports: all of them for admins, the
// caller's own otherwise.
func (s Service) ListReports(ctx context.Context, userID string) ([]entities.Report, error) {
	account, err := s.account(ctx, userID)
	if err != nil {
		return nil, err
	}
	filter := ports.ReportFilter{Limit: reportListLimit}
	if identityv1.NormalizeRole(account.Role) != identityv1.RoleAdmin {
		filter.ReporterID = account.UserID
	}
	return s.Repo.ListReports(ctx, filter)
}

func (s Service) UpdateReportStatus(ctx context.Context, userID string, reportID string, status string) error {
	account, err := s.account(ctx, userID)
	if err != nil {
		return err
	}
	if identityv1.NormalizeRole(account.Role) != identityv1.RoleAdmin {
		return domainerrors.ErrForbidden
	}
	next, ok := entities.ParseStatus(status)
	if !ok {
		return domainerrors.ErrInvalidStatus
	}
	report, err := s.Repo.GetReport(ctx, strings.TrimSpace(reportID))
	if err != nil {
		return err
	}
	if err := s.Repo.UpdateReportStatus(ctx, report.ReportID, next, s.now()); err != nil {
		return err
	}
	ResolveLogger(s.Logger).Info("report status updated",
		"event", "moderation_report_status_updated",
		"module", "moderation-safety/moderation-service",
		"layer", "application",
		"report_id", report.ReportID,
		"status", string(next),
		"moderator_id", account.UserID,
	)
	if report.TargetType == entities.TargetUser {
		return s.RefreshCreatorStatus(ctx, report.TargetID)
	}
	return nil
}

// RefreshCreatorStatus recomputes suspension and verification for a creator.
// Unknown users and non-creators are ignored.
func (s Service) RefreshCreatorStatus(ctx context.Context, userID string) error {
	account, found, err := s.Accounts.GetAccount(ctx, strings.TrimSpace(userID))
	if err != nil {
		return err
	}
	if !found || identityv1.NormalizeRole(account.Role) != identityv1.RoleCreator {
		return nil
	}

	now := s.now()
	thresholds := s.thresholds()
	recent, err := s.Repo.CountUserReportsSince(ctx, account.UserID, now.Add(-thresholds.ReportWindow))
	if err != nil {
		return err
	}
	open, err := s.Repo.CountOpenUserReports(ctx, account.UserID)
	if err != nil {
		return err
	}
	delivered := 0
	if s.Deliveries != nil {
		delivered, err = s.Deliveries.CountDelivered(ctx, account.UserID)
		if err != nil {
			return err
		}
	}

	status := services.EvaluateCreator(services.CreatorFacts{
		AgeVerified:       account.AgeVerifiedAt != nil,
		IsCreator:         true,
		CreatedAt:         account.CreatedAt,
		IsSuspended:       account.IsSuspended,
		SuspendedUntil:    account.SuspendedUntil,
		RecentReports:     recent,
		OpenReports:       open,
		DeliveredRequests: delivered,
	}, now, thresholds)

	err = s.Accounts.SaveModerationStatus(ctx, account.UserID, identityv1.ModerationStatus{
		VerifiedCreator: status.VerifiedCreator,
		IsSuspended:     status.IsSuspended,
		SuspendedUntil:  status.SuspendedUntil,
	})
	if err != nil {
		if errors.Is(err, identityv1.ErrAccountNotFound) {
			return nil
		}
		return err
	}
	if status.IsSuspended != account.IsSuspended || status.VerifiedCreator != account.VerifiedCreator {
		ResolveLogger(s.Logger).Info("creator status changed",
			"event", "moderation_creator_status_changed",
			"module", "moderation-safety/moderation-service",
			"layer", "application",
			"creator_id", account.UserID,
			"is_suspended", status.IsSuspended,
			"verified_creator", status.VerifiedCreator,
			"recent_reports", recent,
		)
	}
	return nil
}

func (s Service) account(ctx context.Context, userID string) (identityv1.Account, error) {
	account, found, err := s.Accounts.GetAccount(ctx, strings.TrimSpace(userID))
	if err != nil {
		return identityv1.Account{}, err
	}
	if !found {
		return identityv1.Account{}, domainerrors.ErrUserNotFound
	}
	return account, nil
}

func (s Service) thresholds() services.Thresholds {
	if s.Thresholds.ReportWindow <= 0 {
		return services.DefaultThresholds()
	}
	return s.Thresholds
}

func (s Service) now() time.Time {
	if s.Clock != nil {
		return s.Clock.Now().UTC()
	}
	return time.Now().UTC()
}
