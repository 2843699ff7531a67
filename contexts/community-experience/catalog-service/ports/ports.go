package ports

import (
	"context"
	"time"

	"creatorhub/contexts/community-experience/catalog-service/domain/entities"
	"creatorhub/contexts/community-experience/catalog-service/domain/services"

	catalogv1 "creatorhub/contracts/gen/catalog/v1"
	identityv1 "creatorhub/contracts/gen/identity/v1"
)

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}

type Repository interface {
	CreateContent(ctx context.Context, item entities.Content) error
	GetContent(ctx context.Context, contentID string) (entities.Content, error)
	// ListRecent and ListByCreator return items newest first.
	ListRecent(ctx context.Context, limit int) ([]entities.Content, error)
	ListByCreator(ctx context.Context, creatorID string, limit int) ([]entities.Content, error)
}

// AccountReader is served by the account context.
type AccountReader interface {
	GetAccount(ctx context.Context, userID string) (identityv1.Account, bool, error)
	GetAccounts(ctx context.Context, userIDs []string) (map[string]identityv1.Account, error)
	ListCreators(ctx context.Context, limit int) ([]identityv1.Account, error)
}

// PurchaseReader is served by billing. The result holds only purchased ids.
type PurchaseReader interface {
	PurchasedContentIDs(ctx context.Context, userID string, contentIDs []string) (map[string]bool, error)
}

// ContentSummaries is the projection other contexts consume.
type ContentSummaries interface {
	GetContentSummary(ctx context.Context, contentID string) (catalogv1.ContentSummary, bool, error)
	ListCreatorContentSummaries(ctx context.Context, creatorID string) ([]catalogv1.ContentSummary, error)
}

type ListedItem struct {
	Content entities.Content
	Creator entities.Creator
	Access  services.ItemAccess
}

type ContentDetail struct {
	Content    entities.Content
	Creator    entities.Creator
	IsOwner    bool
	CanAccess  bool
	IsPreview  bool
	FileLocked []bool
}

type CreatorProfile struct {
	Creator entities.Creator
	Items   []ListedItem
}
