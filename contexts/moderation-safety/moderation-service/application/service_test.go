package application_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"creatorhub/contexts/moderation-safety/moderation-service/adapters/memory"
	"creatorhub/contexts/moderation-safety/moderation-service/application"
	"creatorhub/contexts/moderation-safety/moderation-service/application/workers"
	"creatorhub/contexts/moderation-safety/moderation-service/domain/entities"
	domainerrors "creatorhub/contexts/moderation-safety/moderation-service/domain/errors"

	identityv1 "creatorhub/contracts/gen/identity/v1"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedClock struct{ now time.Time }

func (c *fixedClock) Now() time.Time { return c.now }

type stubAccounts struct {
	mu       sync.Mutex
	accounts map[string]identityv1.Account
}

func (s *stubAccounts) GetAccount(_ context.Context, userID string) (identityv1.Account, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	account, ok := s.accounts[userID]
	return account, ok, nil
}

func (s *stubAccounts) SaveModerationStatus(_ context.Context, userID string, status identityv1.ModerationStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	account, ok := s.accounts[userID]
	if !ok {
		return identityv1.ErrAccountNotFound
	}
	account.VerifiedCreator = status.VerifiedCreator
	account.IsSuspended = status.IsSuspended
	account.SuspendedUntil = status.SuspendedUntil
	s.accounts[userID] = account
	return nil
}

func (s *stubAccounts) ListSuspendedCreators(_ context.Context, endedBy time.Time) ([]identityv1.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []identityv1.Account
	for _, account := range s.accounts {
		if account.IsSuspended && (account.SuspendedUntil == nil || !account.SuspendedUntil.After(endedBy)) {
			out = append(out, account)
		}
	}
	return out, nil
}

type stubDeliveries map[string]int

func (d stubDeliveries) CountDelivered(_ context.Context, creatorID string) (int, error) {
	return d[creatorID], nil
}

type blockPolicy struct{}

func (blockPolicy) ContainsBlocked(texts ...string) bool {
	for _, text := range texts {
		if text == "nazi" {
			return true
		}
	}
	return false
}

func newService(t *testing.T) (application.Service, *stubAccounts, *fixedClock) {
	t.Helper()
	clock := &fixedClock{now: time.Date(2026, time.September, 1, 12, 0, 0, 0, time.UTC)}
	verifiedAt := clock.now.Add(-60 * 24 * time.Hour)
	accounts := &stubAccounts{accounts: map[string]identityv1.Account{
		"admin":   {UserID: "admin", Role: identityv1.RoleAdmin},
		"fan":     {UserID: "fan", Role: "user"},
		"creator": {UserID: "creator", Role: identityv1.RoleCreator, AgeVerifiedAt: &verifiedAt, CreatedAt: verifiedAt},
	}}
	store := memory.NewStore()
	return application.Service{
		Repo:       store,
		Accounts:   accounts,
		Deliveries: stubDeliveries{"creator": 3},
		Policy:     blockPolicy{},
		Clock:      clock,
		IDGen:      store,
	}, accounts, clock
}

func report(t *testing.T, svc application.Service, reporter string, targetType string) entities.Report {
	t.Helper()
	created, err := svc.CreateReport(context.Background(), entities.Draft{
		ReporterID: reporter,
		TargetType: targetType,
		TargetID:   "creator",
		Reason:     "spam",
	})
	require.NoError(t, err)
	return created
}

func TestCreateReportValidation(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()

	_, err := svc.CreateReport(ctx, entities.Draft{ReporterID: "fan", TargetType: "user", TargetID: "creator"})
	require.ErrorIs(t, err, domainerrors.ErrMissingFields)
	_, err = svc.CreateReport(ctx, entities.Draft{ReporterID: "fan", TargetType: "planet", TargetID: "x", Reason: "r"})
	require.ErrorIs(t, err, domainerrors.ErrInvalidTargetType)
	_, err = svc.CreateReport(ctx, entities.Draft{ReporterID: "fan", TargetType: "user", TargetID: "x", Reason: "r", Details: "nazi"})
	require.ErrorIs(t, err, domainerrors.ErrBlockedContent)
}

func TestUserReportsDropVerificationThenSuspend(t *testing.T) {
	svc, accounts, clock := newService(t)
	ctx := context.Background()

	require.NoError(t, svc.RefreshCreatorStatus(ctx, "creator"))
	assert.True(t, accounts.accounts["creator"].VerifiedCreator)

	first := report(t, svc, "fan", "user")
	assert.Equal(t, entities.StatusOpen, first.Status)
	assert.False(t, accounts.accounts["creator"].VerifiedCreator)
	assert.False(t, accounts.accounts["creator"].IsSuspended)

	report(t, svc, "fan", "content")
	report(t, svc, "fan", "user")
	assert.False(t, accounts.accounts["creator"].IsSuspended)

	report(t, svc, "fan", "user")
	creator := accounts.accounts["creator"]
	require.True(t, creator.IsSuspended)
	require.NotNil(t, creator.SuspendedUntil)
	assert.Equal(t, clock.now.Add(7*24*time.Hour), *creator.SuspendedUntil)
}

func TestReconcilerLiftsEndedSuspension(t *testing.T) {
	svc, accounts, clock := newService(t)
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		report(t, svc, "fan", "user")
	}
	require.True(t, accounts.accounts["creator"].IsSuspended)

	clock.now = clock.now.Add(8 * 24 * time.Hour)
	reconciler := workers.SuspensionReconciler{Service: svc, Clock: clock}
	require.NoError(t, reconciler.RunOnce(ctx))

	creator := accounts.accounts["creator"]
	assert.False(t, creator.IsSuspended)
	assert.Nil(t, creator.SuspendedUntil)
	assert.False(t, creator.VerifiedCreator)
}

func TestListAndUpdateReports(t *testing.T) {
	svc, accounts, _ := newService(t)
	ctx := context.Background()
	created := report(t, svc, "fan", "user")
	report(t, svc, "admin", "content")

	mine, err := svc.ListReports(ctx, "fan")
	require.NoError(t, err)
	require.Len(t, mine, 1)
	all, err := svc.ListReports(ctx, "admin")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	require.ErrorIs(t, svc.UpdateReportStatus(ctx, "fan", created.ReportID, "resolved"), domainerrors.ErrForbidden)
	require.ErrorIs(t, svc.UpdateReportStatus(ctx, "admin", created.ReportID, "closed"), domainerrors.ErrInvalidStatus)
	require.ErrorIs(t, svc.UpdateReportStatus(ctx, "admin", "missing", "resolved"), domainerrors.ErrReportNotFound)

	require.NoError(t, svc.UpdateReportStatus(ctx, "admin", created.ReportID, "resolved"))
	assert.True(t, accounts.accounts["creator"].VerifiedCreator)

	_, err = svc.ListReports(ctx, "ghost")
	require.ErrorIs(t, err, domainerrors.ErrUserNotFound)
}
