package services

import (
	"testing"
	"time"

	"creatorhub/contexts/community-experience/catalog-service/domain/entities"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHasGlobalAccess(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	cases := []struct {
		name   string
		viewer *entities.Viewer
		want   bool
	}{
		{name: "anonymous", viewer: nil, want: false},
		{name: "creator", viewer: &entities.Viewer{Role: entities.RoleCreator}, want: true},
		{name: "admin", viewer: &entities.Viewer{Role: entities.RoleAdmin}, want: true},
		{name: "plain consumer", viewer: &entities.Viewer{Role: entities.RoleConsumer}, want: false},
		{name: "subscription without expiry", viewer: &entities.Viewer{Role: entities.RoleConsumer, SubscriptionActive: true}, want: true},
		{name: "expired subscription", viewer: &entities.Viewer{Role: entities.RoleConsumer, SubscriptionActive: true, SubscriptionExpiresAt: &past}, want: false},
		{name: "active pass", viewer: &entities.Viewer{Role: entities.RoleConsumer, AccessPassActive: true, AccessPassExpiresAt: &future}, want: true},
		{name: "inactive flag with future expiry", viewer: &entities.Viewer{Role: entities.RoleConsumer, AccessPassExpiresAt: &future}, want: false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, HasGlobalAccess(tc.viewer, now))
		})
	}
}

func TestListingEvaluatorGrantsPreviewQuotaPerCreator(t *testing.T) {
	now := time.Now().UTC()
	viewer := &entities.Viewer{UserID: "u1", Role: entities.RoleConsumer}
	evaluator := NewListingEvaluator(viewer, now, 2, map[string]bool{"a3": true})

	items := []entities.Content{
		{ContentID: "a1", CreatorID: "A"},
		{ContentID: "b1", CreatorID: "B"},
		{ContentID: "a2", CreatorID: "A"},
		{ContentID: "a3", CreatorID: "A"},
		{ContentID: "a4", CreatorID: "A"},
	}
	got := make(map[string]ItemAccess, len(items))
	for _, item := range items {
		got[item.ContentID] = evaluator.Evaluate(item)
	}

	assert.True(t, got["a1"].IsPreview)
	assert.True(t, got["a2"].IsPreview)
	assert.True(t, got["b1"].IsPreview)
	assert.False(t, got["a3"].IsPreview)
	assert.True(t, got["a3"].Unlocked, "purchased item stays unlocked")
	assert.False(t, got["a4"].Unlocked)
}

func TestListingEvaluatorGlobalAccessSkipsPreview(t *testing.T) {
	evaluator := NewListingEvaluator(&entities.Viewer{UserID: "c", Role: entities.RoleCreator}, time.Now(), 3, nil)
	access := evaluator.Evaluate(entities.Content{ContentID: "x", CreatorID: "other"})
	assert.False(t, access.IsPreview)
	assert.True(t, access.Unlocked)
}

func TestEvaluateDetailOpensOnlyFirstFileOfPreview(t *testing.T) {
	item := entities.Content{
		ContentID: "a1",
		CreatorID: "A",
		Files:     []entities.File{{URL: "one"}, {URL: "two"}},
	}
	viewer := &entities.Viewer{UserID: "u1", Role: entities.RoleConsumer}

	access := EvaluateDetail(viewer, time.Now(), item, false, map[string]bool{"a1": true})
	require.Len(t, access.FileLocked, 2)
	assert.False(t, access.CanAccess)
	assert.True(t, access.IsPreview)
	assert.False(t, access.FileLocked[0])
	assert.True(t, access.FileLocked[1])

	owner := EvaluateDetail(&entities.Viewer{UserID: "A", Role: entities.RoleConsumer}, time.Now(), item, false, nil)
	assert.True(t, owner.CanAccess)
	assert.Equal(t, []bool{false, false}, owner.FileLocked)

	bought := EvaluateDetail(viewer, time.Now(), item, true, nil)
	assert.Equal(t, []bool{false, false}, bought.FileLocked)
}

func TestPreviewSetTakesNewestItems(t *testing.T) {
	items := []entities.Content{{ContentID: "n1"}, {ContentID: "n2"}, {ContentID: "n3"}, {ContentID: "n4"}}
	assert.Equal(t, map[string]bool{"n1": true, "n2": true, "n3": true}, PreviewSet(items, 0))
}

func TestEvaluateProfileItemMarksPreviewForGlobalViewers(t *testing.T) {
	viewer := &entities.Viewer{UserID: "sub", Role: entities.RoleConsumer, SubscriptionActive: true}
	access := EvaluateProfileItem(viewer, time.Now(), entities.Content{ContentID: "n1", CreatorID: "A"}, false, map[string]bool{"n1": true})
	assert.True(t, access.IsPreview)
	assert.True(t, access.Unlocked)

	locked := EvaluateProfileItem(nil, time.Now(), entities.Content{ContentID: "n9", CreatorID: "A"}, false, map[string]bool{"n1": true})
	assert.False(t, locked.Unlocked)
}
