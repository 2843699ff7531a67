package application

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"creatorhub/contexts/community-experience/catalog-service/domain/entities"
	domainerrors "creatorhub/contexts/community-experience/catalog-service/domain/errors"
	"creatorhub/contexts/community-experience/catalog-service/domain/services"
	"creatorhub/contexts/community-experience/catalog-service/ports"
)

const (
	feedLimit    = 200
	creatorLimit = 100
)

type Service struct {
	Repo         ports.Repository
	Accounts     ports.AccountReader
	Purchases    ports.PurchaseReader
	Clock        ports.Clock
	IDGenerator  ports.IDGenerator
	PreviewCount int
	Logger       *slog.Logger
}

func (s Service) ListContent(ctx context.Context, viewerID string) ([]ports.ListedItem, error) {
	viewer, err := s.loadViewer(ctx, viewerID)
	if err != nil {
		return nil, err
	}
	items, err := s.Repo.ListRecent(ctx, feedLimit)
	if err != nil {
		return nil, err
	}

	creators, err := s.creatorsFor(ctx, items)
	if err != nil {
		return nil, err
	}
	purchased, err := s.purchasedIDs(ctx, viewer, items)
	if err != nil {
		return nil, err
	}

	evaluator := services.NewListingEvaluator(viewer, s.now(), s.PreviewCount, purchased)
	out := make([]ports.ListedItem, 0, len(items))
	for _, item := range items {
		out = append(out, ports.ListedItem{
			Content: item,
			Creator: creators[item.CreatorID],
			Access:  evaluator.Evaluate(item),
		})
	}
	return out, nil
}

func (s Service) GetContent(ctx context.Context, viewerID string, contentID string) (ports.ContentDetail, error) {
	contentID = strings.TrimSpace(contentID)
	if contentID == "" {
		return ports.ContentDetail{}, domainerrors.ErrContentNotFound
	}
	item, err := s.Repo.GetContent(ctx, contentID)
	if err != nil {
		return ports.ContentDetail{}, err
	}
	viewer, err := s.loadViewer(ctx, viewerID)
	if err != nil {
		return ports.ContentDetail{}, err
	}

	newest, err := s.Repo.ListByCreator(ctx, item.CreatorID, s.previewCount())
	if err != nil {
		return ports.ContentDetail{}, err
	}
	purchased, err := s.purchasedIDs(ctx, viewer, []entities.Content{item})
	if err != nil {
		return ports.ContentDetail{}, err
	}
	creators, err := s.creatorsFor(ctx, []entities.Content{item})
	if err != nil {
		return ports.ContentDetail{}, err
	}

	access := services.EvaluateDetail(
		viewer,
		s.now(),
		item,
		purchased[item.ContentID],
		services.PreviewSet(newest, s.previewCount()),
	)
	return ports.ContentDetail{
		Content:    item,
		Creator:    creators[item.CreatorID],
		IsOwner:    access.IsOwner,
		CanAccess:  access.CanAccess,
		IsPreview:  access.IsPreview,
		FileLocked: access.FileLocked,
	}, nil
}

func (s Service) CreateContent(ctx context.Context, userID string, draft entities.Draft) (ports.ListedItem, error) {
	logger := ResolveLogger(s.Logger)

	account, ok, err := s.Accounts.GetAccount(ctx, userID)
	if err != nil {
		return ports.ListedItem{}, err
	}
	if !ok {
		return ports.ListedItem{}, domainerrors.ErrUserNotFound
	}
	creator := creatorFromAccount(account)
	if creator.Role != entities.RoleCreator && creator.Role != entities.RoleAdmin {
		return ports.ListedItem{}, domainerrors.ErrForbidden
	}
	if creator.Role == entities.RoleCreator && creator.IsSuspended {
		return ports.ListedItem{}, domainerrors.ErrCreatorSuspended
	}

	normalized, err := draft.Normalize()
	if err != nil {
		return ports.ListedItem{}, err
	}
	contentID, err := s.IDGenerator.NewID(ctx)
	if err != nil {
		return ports.ListedItem{}, err
	}
	item := entities.NewContent(contentID, userID, normalized, s.now())
	if err := s.Repo.CreateContent(ctx, item); err != nil {
		return ports.ListedItem{}, err
	}

	logger.Info("content published",
		"event", "catalog_content_published",
		"module", "community-experience/catalog-service",
		"layer", "application",
		"content_id", item.ContentID,
		"creator_id", item.CreatorID,
		"file_count", len(item.Files),
	)
	return ports.ListedItem{
		Content: item,
		Creator: creator,
		Access:  services.ItemAccess{IsOwner: true, Unlocked: true},
	}, nil
}

func (s Service) ListCreators(ctx context.Context) ([]entities.Creator, error) {
	accounts, err := s.Accounts.ListCreators(ctx, creatorLimit)
	if err != nil {
		return nil, err
	}
	out := make([]entities.Creator, 0, len(accounts))
	for _, account := range accounts {
		out = append(out, creatorFromAccount(account))
	}
	return out, nil
}

func (s Service) GetCreatorProfile(ctx context.Context, viewerID string, creatorID string) (ports.CreatorProfile, error) {
	account, ok, err := s.Accounts.GetAccount(ctx, strings.TrimSpace(creatorID))
	if err != nil {
		return ports.CreatorProfile{}, err
	}
	if !ok {
		return ports.CreatorProfile{}, domainerrors.ErrCreatorNotFound
	}
	creator := creatorFromAccount(account)
	if creator.Role != entities.RoleCreator {
		return ports.CreatorProfile{}, domainerrors.ErrCreatorNotFound
	}
	if creator.IsSuspended {
		return ports.CreatorProfile{}, domainerrors.ErrCreatorSuspended
	}

	viewer, err := s.loadViewer(ctx, viewerID)
	if err != nil {
		return ports.CreatorProfile{}, err
	}
	items, err := s.Repo.ListByCreator(ctx, creator.UserID, feedLimit)
	if err != nil {
		return ports.CreatorProfile{}, err
	}
	purchased, err := s.purchasedIDs(ctx, viewer, items)
	if err != nil {
		return ports.CreatorProfile{}, err
	}

	now := s.now()
	previewIDs := services.PreviewSet(items, s.previewCount())
	listed := make([]ports.ListedItem, 0, len(items))
	for _, item := range items {
		listed = append(listed, ports.ListedItem{
			Content: item,
			Creator: creator,
			Access:  services.EvaluateProfileItem(viewer, now, item, purchased[item.ContentID], previewIDs),
		})
	}
	return ports.CreatorProfile{Creator: creator, Items: listed}, nil
}

// loadViewer returns nil for anonymous callers and for tokens whose user no longer exists.
func (s Service) loadViewer(ctx context.Context, viewerID string) (*entities.Viewer, error) {
	viewerID = strings.TrimSpace(viewerID)
	if viewerID == "" {
		return nil, nil
	}
	account, ok, err := s.Accounts.GetAccount(ctx, viewerID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	return viewerFromAccount(account), nil
}

func (s Service) creatorsFor(ctx context.Context, items []entities.Content) (map[string]entities.Creator, error) {
	ids := make([]string, 0, len(items))
	seen := make(map[string]struct{}, len(items))
	for _, item := range items {
		if _, ok := seen[item.CreatorID]; ok {
			continue
		}
		seen[item.CreatorID] = struct{}{}
		ids = append(ids, item.CreatorID)
	}
	accounts, err := s.Accounts.GetAccounts(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make(map[string]entities.Creator, len(ids))
	for _, id := range ids {
		if account, ok := accounts[id]; ok {
			out[id] = creatorFromAccount(account)
			continue
		}
		out[id] = entities.Creator{UserID: id}
	}
	return out, nil
}

func (s Service) purchasedIDs(ctx context.Context, viewer *entities.Viewer, items []entities.Content) (map[string]bool, error) {
	if viewer == nil || s.Purchases == nil || len(items) == 0 {
		return map[string]bool{}, nil
	}
	ids := make([]string, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ContentID)
	}
	return s.Purchases.PurchasedContentIDs(ctx, viewer.UserID, ids)
}

func (s Service) previewCount() int {
	if s.PreviewCount > 0 {
		return s.PreviewCount
	}
	return services.DefaultPreviewCount
}

func (s Service) now() time.Time {
	if s.Clock == nil {
		return time.Now().UTC()
	}
	return s.Clock.Now().UTC()
}
