package application_test

import (
	"context"
	"testing"
	"time"

	"creatorhub/contexts/community-experience/catalog-service/adapters/memory"
	"creatorhub/contexts/community-experience/catalog-service/application"
	"creatorhub/contexts/community-experience/catalog-service/domain/entities"
	domainerrors "creatorhub/contexts/community-experience/catalog-service/domain/errors"

	identityv1 "creatorhub/contracts/gen/identity/v1"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

type stubAccounts struct {
	accounts map[string]identityv1.Account
}

func (s stubAccounts) GetAccount(_ context.Context, userID string) (identityv1.Account, bool, error) {
	account, ok := s.accounts[userID]
	return account, ok, nil
}

func (s stubAccounts) GetAccounts(_ context.Context, userIDs []string) (map[string]identityv1.Account, error) {
	out := make(map[string]identityv1.Account)
	for _, id := range userIDs {
		if account, ok := s.accounts[id]; ok {
			out[id] = account
		}
	}
	return out, nil
}

func (s stubAccounts) ListCreators(_ context.Context, _ int) ([]identityv1.Account, error) {
	out := make([]identityv1.Account, 0)
	for _, account := range s.accounts {
		if account.Role == identityv1.RoleCreator {
			out = append(out, account)
		}
	}
	return out, nil
}

type stubPurchases map[string]bool

func (s stubPurchases) PurchasedContentIDs(_ context.Context, _ string, contentIDs []string) (map[string]bool, error) {
	out := make(map[string]bool)
	for _, id := range contentIDs {
		if s[id] {
			out[id] = true
		}
	}
	return out, nil
}

var now = time.Date(2026, time.March, 10, 9, 0, 0, 0, time.UTC)

func newService(t *testing.T, purchases stubPurchases) (application.Service, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	accounts := stubAccounts{accounts: map[string]identityv1.Account{
		"creator-1":  {UserID: "creator-1", Username: "lena", Role: identityv1.RoleCreator},
		"suspended":  {UserID: "suspended", Username: "sam", Role: identityv1.RoleCreator, IsSuspended: true},
		"consumer-1": {UserID: "consumer-1", Username: "max", Role: identityv1.RoleConsumer},
		"subscriber": {UserID: "subscriber", Username: "sub", Role: identityv1.RoleConsumer, SubscriptionActive: true},
	}}
	return application.Service{
		Repo:        store,
		Accounts:    accounts,
		Purchases:   purchases,
		Clock:       fixedClock{now: now},
		IDGenerator: store,
	}, store
}

func seed(store *memory.Store, creatorID string, count int) {
	price := int64(300)
	for i := 0; i < count; i++ {
		store.PutContent(entities.Content{
			ContentID: creatorID + "-" + string(rune('a'+i)),
			CreatorID: creatorID,
			Title:     "item",
			Files: []entities.File{
				{URL: "/uploads/full.jpg", Type: "image", ThumbnailURL: "/uploads/thumb.jpg", PriceCents: &price},
				{URL: "/uploads/second.jpg", Type: "image"},
			},
			CreatedAt: now.Add(time.Duration(i) * time.Minute),
		})
	}
}

func TestListContentPreviewAndPurchases(t *testing.T) {
	service, store := newService(t, stubPurchases{"creator-1-a": true})
	seed(store, "creator-1", 5)

	items, err := service.ListContent(context.Background(), "consumer-1")
	require.NoError(t, err)
	require.Len(t, items, 5)

	// newest first: e, d, c are previews; a is purchased; b is locked.
	byID := make(map[string]bool)
	for _, item := range items {
		byID[item.Content.ContentID] = item.Access.Unlocked
	}
	assert.Equal(t, "creator-1-e", items[0].Content.ContentID)
	assert.True(t, items[0].Access.IsPreview)
	assert.True(t, byID["creator-1-a"])
	assert.False(t, byID["creator-1-b"])
	assert.Equal(t, "lena", items[0].Creator.Username)
}

func TestListContentAnonymousSeesOnlyPreviews(t *testing.T) {
	service, store := newService(t, nil)
	seed(store, "creator-1", 4)

	items, err := service.ListContent(context.Background(), "")
	require.NoError(t, err)
	unlocked := 0
	for _, item := range items {
		if item.Access.Unlocked {
			unlocked++
		}
	}
	assert.Equal(t, 3, unlocked)
}

func TestGetContentLocksFilesForNonPreview(t *testing.T) {
	service, store := newService(t, nil)
	seed(store, "creator-1", 4)

	oldest, err := service.GetContent(context.Background(), "consumer-1", "creator-1-a")
	require.NoError(t, err)
	assert.False(t, oldest.IsPreview)
	assert.Equal(t, []bool{true, true}, oldest.FileLocked)

	newest, err := service.GetContent(context.Background(), "consumer-1", "creator-1-d")
	require.NoError(t, err)
	assert.True(t, newest.IsPreview)
	assert.Equal(t, []bool{false, true}, newest.FileLocked)

	subscribed, err := service.GetContent(context.Background(), "subscriber", "creator-1-a")
	require.NoError(t, err)
	assert.True(t, subscribed.CanAccess)

	_, err = service.GetContent(context.Background(), "", "missing")
	assert.ErrorIs(t, err, domainerrors.ErrContentNotFound)
}

func TestCreateContentRules(t *testing.T) {
	service, _ := newService(t, nil)
	ctx := context.Background()

	_, err := service.CreateContent(ctx, "consumer-1", entities.Draft{Title: "x"})
	assert.ErrorIs(t, err, domainerrors.ErrForbidden)

	_, err = service.CreateContent(ctx, "suspended", entities.Draft{Title: "x"})
	assert.ErrorIs(t, err, domainerrors.ErrCreatorSuspended)

	_, err = service.CreateContent(ctx, "creator-1", entities.Draft{Title: "  "})
	assert.ErrorIs(t, err, domainerrors.ErrTitleRequired)

	_, err = service.CreateContent(ctx, "creator-1", entities.Draft{Title: "ok", Files: []entities.File{{URL: "/u/x"}}})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidFile)

	created, err := service.CreateContent(ctx, "creator-1", entities.Draft{
		Title: " New set ",
		Files: []entities.File{{URL: "/uploads/a.jpg", Type: "image"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "New set", created.Content.Title)
	assert.Equal(t, now, created.Content.CreatedAt)

	_, err = service.CreateContent(ctx, "ghost", entities.Draft{Title: "x"})
	assert.ErrorIs(t, err, domainerrors.ErrUserNotFound)
}

func TestGetCreatorProfile(t *testing.T) {
	service, store := newService(t, nil)
	seed(store, "creator-1", 4)
	ctx := context.Background()

	profile, err := service.GetCreatorProfile(ctx, "", "creator-1")
	require.NoError(t, err)
	require.Len(t, profile.Items, 4)
	assert.True(t, profile.Items[0].Access.IsPreview)
	assert.False(t, profile.Items[3].Access.Unlocked)

	_, err = service.GetCreatorProfile(ctx, "", "consumer-1")
	assert.ErrorIs(t, err, domainerrors.ErrCreatorNotFound)

	_, err = service.GetCreatorProfile(ctx, "", "suspended")
	assert.ErrorIs(t, err, domainerrors.ErrCreatorSuspended)
}
