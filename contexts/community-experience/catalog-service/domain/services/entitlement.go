package services

import (
	"time"

	"creatorhub/contexts/community-experience/catalog-service/domain/entities"
)

// DefaultPreviewCount is how many of a creator's newest items stay free to browse.
const DefaultPreviewCount = 3

// IsActive treats a missing expiry as open-ended.
func IsActive(expiresAt *time.Time, now time.Time) bool {
	if expiresAt == nil {
		return true
	}
	return expiresAt.After(now)
}

// HasGlobalAccess reports whether the viewer can open every item.
func HasGlobalAccess(viewer *entities.Viewer, now time.Time) bool {
	if viewer == nil {
		return false
	}
	if viewer.Role == entities.RoleCreator || viewer.Role == entities.RoleAdmin {
		return true
	}
	if viewer.SubscriptionActive && IsActive(viewer.SubscriptionExpiresAt, now) {
		return true
	}
	return viewer.AccessPassActive && IsActive(viewer.AccessPassExpiresAt, now)
}

type ItemAccess struct {
	IsOwner   bool
	Purchased bool
	IsPreview bool
	Unlocked  bool
}

// ListingEvaluator walks a newest-first listing and hands out the per-creator
// preview quota. Viewers with global access never consume previews.
type ListingEvaluator struct {
	viewer       *entities.Viewer
	global       bool
	previewCount int
	purchased    map[string]bool
	seen         map[string]int
}

func NewListingEvaluator(
	viewer *entities.Viewer,
	now time.Time,
	previewCount int,
	purchased map[string]bool,
) *ListingEvaluator {
	if previewCount <= 0 {
		previewCount = DefaultPreviewCount
	}
	return &ListingEvaluator{
		viewer:       viewer,
		global:       HasGlobalAccess(viewer, now),
		previewCount: previewCount,
		purchased:    purchased,
		seen:         make(map[string]int),
	}
}

func (e *ListingEvaluator) Evaluate(item entities.Content) ItemAccess {
	preview := false
	if !e.global {
		count := e.seen[item.CreatorID]
		preview = count < e.previewCount
		e.seen[item.CreatorID] = count + 1
	}
	return evaluateItem(e.viewer, e.global, item, e.purchased[item.ContentID], preview)
}

// EvaluateProfileItem is used on a creator page, where the preview set is the
// creator's newest items regardless of the viewer's access.
func EvaluateProfileItem(
	viewer *entities.Viewer,
	now time.Time,
	item entities.Content,
	purchased bool,
	previewIDs map[string]bool,
) ItemAccess {
	return evaluateItem(viewer, HasGlobalAccess(viewer, now), item, purchased, previewIDs[item.ContentID])
}

func evaluateItem(viewer *entities.Viewer, global bool, item entities.Content, purchased bool, preview bool) ItemAccess {
	access := ItemAccess{
		IsOwner:   viewer != nil && viewer.UserID == item.CreatorID,
		Purchased: purchased,
		IsPreview: preview,
	}
	access.Unlocked = access.IsOwner || global || access.Purchased || access.IsPreview
	return access
}

type DetailAccess struct {
	IsOwner   bool
	CanAccess bool
	IsPreview bool
	// FileLocked is indexed like the item's files.
	FileLocked []bool
}

// PreviewSet returns the ids of the first previewCount items of a newest-first creator listing.
func PreviewSet(creatorItems []entities.Content, previewCount int) map[string]bool {
	if previewCount <= 0 {
		previewCount = DefaultPreviewCount
	}
	out := make(map[string]bool, previewCount)
	for i, item := range creatorItems {
		if i >= previewCount {
			break
		}
		out[item.ContentID] = true
	}
	return out
}

// EvaluateDetail decides file-level locking for a single item. Only the first
// file of a preview item is opened to viewers who cannot access the item.
func EvaluateDetail(
	viewer *entities.Viewer,
	now time.Time,
	item entities.Content,
	purchased bool,
	previewIDs map[string]bool,
) DetailAccess {
	access := DetailAccess{
		IsOwner:   viewer != nil && viewer.UserID == item.CreatorID,
		IsPreview: previewIDs[item.ContentID],
	}
	access.CanAccess = access.IsOwner || HasGlobalAccess(viewer, now) || purchased
	access.FileLocked = make([]bool, len(item.Files))
	for idx := range item.Files {
		access.FileLocked[idx] = !access.CanAccess && !(access.IsPreview && idx == 0)
	}
	return access
}
