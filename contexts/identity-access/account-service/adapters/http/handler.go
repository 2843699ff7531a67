package httpadapter

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"creatorhub/contexts/identity-access/account-service/application"
	"creatorhub/contexts/identity-access/account-service/domain/entities"
	domainerrors "creatorhub/contexts/identity-access/account-service/domain/errors"
	"creatorhub/contexts/identity-access/account-service/ports"
	httptransport "creatorhub/contexts/identity-access/account-service/transport/http"
)

type Handler struct {
	Service application.Service
	Logger  *slog.Logger
}

func (h Handler) RegisterHandler(
	ctx context.Context,
	role entities.Role,
	req httptransport.RegisterRequest,
) (httptransport.SessionResponse, error) {
	birthDate, err := parseBirthDate(req.BirthDate)
	if err != nil {
		return httptransport.SessionResponse{}, err
	}
	session, err := h.Service.Register(ctx, entities.Registration{
		Username:    req.Username,
		Email:       req.Email,
		Password:    req.Password,
		DisplayName: req.DisplayName,
		Bio:         req.Bio,
		AvatarURL:   req.AvatarURL,
		BirthDate:   birthDate,
		Role:        role,
	})
	if err != nil {
		return httptransport.SessionResponse{}, err
	}
	return toSessionResponse(session), nil
}

func (h Handler) LoginHandler(ctx context.Context, req httptransport.LoginRequest) (httptransport.SessionResponse, error) {
	identifier := firstNonEmpty(req.Identifier, req.Email, req.Username)
	session, err := h.Service.Login(ctx, identifier, req.Password)
	if err != nil {
		return httptransport.SessionResponse{}, err
	}
	return toSessionResponse(session), nil
}

func (h Handler) GetProfileHandler(ctx context.Context, userID string) (httptransport.ProfileResponse, error) {
	user, err := h.Service.GetProfile(ctx, userID)
	if err != nil {
		return httptransport.ProfileResponse{}, err
	}
	return toProfileResponse(user), nil
}

func (h Handler) UpdateProfileHandler(
	ctx context.Context,
	userID string,
	req httptransport.UpdateProfileRequest,
) (httptransport.ProfileResponse, error) {
	user, err := h.Service.UpdateProfile(ctx, userID, entities.ProfileUpdate{
		DisplayName: req.DisplayName,
		Bio:         req.Bio,
		AvatarURL:   req.AvatarURL,
	})
	if err != nil {
		return httptransport.ProfileResponse{}, err
	}
	return toProfileResponse(user), nil
}

func parseBirthDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, nil
	}
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if parsed, err := time.Parse(layout, raw); err == nil {
			return parsed.UTC(), nil
		}
	}
	return time.Time{}, domainerrors.ErrInvalidRequest
}

func toSessionResponse(session ports.Session) httptransport.SessionResponse {
	return httptransport.SessionResponse{
		Token: session.Token,
		User: httptransport.UserSummary{
			ID:          session.User.UserID,
			Username:    session.User.Username,
			Email:       session.User.Email,
			Role:        string(session.User.Role),
			DisplayName: session.User.DisplayName,
		},
	}
}

func toProfileResponse(user entities.User) httptransport.ProfileResponse {
	return httptransport.ProfileResponse{
		ID:                    user.UserID,
		Username:              user.Username,
		Email:                 user.Email,
		Role:                  string(user.Role),
		DisplayName:           user.DisplayName,
		Bio:                   user.Bio,
		AvatarURL:             user.AvatarURL,
		BirthDate:             formatDate(user.BirthDate, "2006-01-02"),
		AgeVerifiedAt:         formatDate(user.AgeVerifiedAt, time.RFC3339),
		AccessPassActive:      user.AccessPassActive,
		AccessPassExpiresAt:   formatDate(user.AccessPassExpiresAt, time.RFC3339),
		SubscriptionActive:    user.SubscriptionActive,
		SubscriptionExpiresAt: formatDate(user.SubscriptionExpiresAt, time.RFC3339),
		VerifiedCreator:       user.VerifiedCreator,
		IsSuspended:           user.IsSuspended,
		SuspendedUntil:        formatDate(user.SuspendedUntil, time.RFC3339),
		CreatedAt:             user.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func formatDate(value *time.Time, layout string) string {
	if value == nil {
		return ""
	}
	return value.UTC().Format(layout)
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			return strings.TrimSpace(value)
		}
	}
	return ""
}
