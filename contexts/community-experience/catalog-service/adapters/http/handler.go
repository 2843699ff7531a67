package httpadapter

import (
	"context"
	"log/slog"
	"time"

	"creatorhub/contexts/community-experience/catalog-service/application"
	"creatorhub/contexts/community-experience/catalog-service/domain/entities"
	"creatorhub/contexts/community-experience/catalog-service/ports"
	httptransport "creatorhub/contexts/community-experience/catalog-service/transport/http"
)

const (
	anonymousCreatorName = "anonymous"
	defaultAvatarURL     = "/default-avatar.png"
)

type Handler struct {
	Service application.Service
	Logger  *slog.Logger
}

func (h Handler) ListContentHandler(ctx context.Context, viewerID string) ([]httptransport.ContentListItem, error) {
	items, err := h.Service.ListContent(ctx, viewerID)
	if err != nil {
		return nil, err
	}
	out := make([]httptransport.ContentListItem, 0, len(items))
	for _, item := range items {
		out = append(out, toListItem(item))
	}
	return out, nil
}

func (h Handler) GetContentHandler(
	ctx context.Context,
	viewerID string,
	contentID string,
) (httptransport.ContentDetailResponse, error) {
	detail, err := h.Service.GetContent(ctx, viewerID, contentID)
	if err != nil {
		return httptransport.ContentDetailResponse{}, err
	}

	files := make([]httptransport.ContentFile, 0, len(detail.Content.Files))
	for idx, file := range detail.Content.Files {
		locked := detail.FileLocked[idx]
		out := httptransport.ContentFile{
			Type:       file.Type,
			Thumbnail:  file.ThumbnailURL,
			PriceCents: file.PriceCents,
			IsLocked:   locked,
		}
		if !locked {
			out.URL = file.URL
		}
		files = append(files, out)
	}
	return httptransport.ContentDetailResponse{
		ID:          detail.Content.ContentID,
		Title:       detail.Content.Title,
		Description: detail.Content.Description,
		Creator:     toCreatorSummary(detail.Creator),
		Files:       files,
		CanAccess:   detail.CanAccess,
		IsPreview:   detail.IsPreview,
		IsOwner:     detail.IsOwner,
		Stats:       httptransport.Stats{Views: detail.Content.Stats.Views, Likes: detail.Content.Stats.Likes},
		CreatedAt:   detail.Content.CreatedAt.Format(time.RFC3339),
	}, nil
}

func (h Handler) CreateContentHandler(
	ctx context.Context,
	userID string,
	req httptransport.CreateContentRequest,
) (httptransport.ContentListItem, error) {
	files := make([]entities.File, 0, len(req.Files))
	for _, file := range req.Files {
		files = append(files, entities.File{
			URL:          file.URL,
			Type:         file.Type,
			ThumbnailURL: file.Thumbnail,
			PriceCents:   file.PriceCents,
		})
	}
	item, err := h.Service.CreateContent(ctx, userID, entities.Draft{
		Title:       req.Title,
		Description: req.Description,
		Files:       files,
	})
	if err != nil {
		return httptransport.ContentListItem{}, err
	}
	return toListItem(item), nil
}

func (h Handler) ListCreatorsHandler(ctx context.Context) ([]httptransport.CreatorCard, error) {
	creators, err := h.Service.ListCreators(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]httptransport.CreatorCard, 0, len(creators))
	for _, creator := range creators {
		out = append(out, toCreatorCard(creator))
	}
	return out, nil
}

func (h Handler) GetCreatorProfileHandler(
	ctx context.Context,
	viewerID string,
	creatorID string,
) (httptransport.CreatorProfileResponse, error) {
	profile, err := h.Service.GetCreatorProfile(ctx, viewerID, creatorID)
	if err != nil {
		return httptransport.CreatorProfileResponse{}, err
	}
	contents := make([]httptransport.ContentListItem, 0, len(profile.Items))
	for _, item := range profile.Items {
		contents = append(contents, toListItem(item))
	}
	return httptransport.CreatorProfileResponse{
		CreatorCard: toCreatorCard(profile.Creator),
		Contents:    contents,
	}, nil
}

// toListItem exposes the media URL only for unlocked entries.
func toListItem(item ports.ListedItem) httptransport.ContentListItem {
	out := httptransport.ContentListItem{
		ID:          item.Content.ContentID,
		Title:       item.Content.Title,
		Description: item.Content.Description,
		Creator:     toCreatorSummary(item.Creator),
		Thumbnail:   item.Content.PreviewThumbnail(),
		PriceCents:  item.Content.PriceCents(),
		Unlocked:    item.Access.Unlocked,
		IsPreview:   item.Access.IsPreview,
		Stats:       httptransport.Stats{Views: item.Content.Stats.Views, Likes: item.Content.Stats.Likes},
		CreatedAt:   item.Content.CreatedAt.Format(time.RFC3339),
	}
	if item.Access.Unlocked {
		out.PreviewURL = item.Content.PreviewURL()
	}
	return out
}

func toCreatorSummary(creator entities.Creator) httptransport.CreatorSummary {
	username := creator.Username
	if username == "" {
		username = anonymousCreatorName
	}
	displayName := creator.DisplayName
	if displayName == "" {
		displayName = username
	}
	avatar := creator.AvatarURL
	if avatar == "" {
		avatar = defaultAvatarURL
	}
	return httptransport.CreatorSummary{
		ID:          creator.UserID,
		Username:    username,
		DisplayName: displayName,
		AvatarURL:   avatar,
	}
}

func toCreatorCard(creator entities.Creator) httptransport.CreatorCard {
	summary := toCreatorSummary(creator)
	return httptransport.CreatorCard{
		ID:          summary.ID,
		Username:    summary.Username,
		DisplayName: summary.DisplayName,
		Bio:         creator.Bio,
		AvatarURL:   summary.AvatarURL,
		Verified:    creator.VerifiedCreator,
		IsSuspended: creator.IsSuspended,
	}
}
