package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"creatorhub/contexts/identity-access/account-service/application"
	"creatorhub/contexts/identity-access/account-service/domain/entities"
	domainerrors "creatorhub/contexts/identity-access/account-service/domain/errors"
	"creatorhub/contexts/identity-access/account-service/ports"

	identityv1 "creatorhub/contracts/gen/identity/v1"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

var _ ports.Repository = (*Repository)(nil)

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	return &Repository{
		db:     db,
		logger: application.ResolveLogger(logger),
	}
}

func (r *Repository) AutoMigrate(ctx context.Context) error {
	return r.db.WithContext(ctx).AutoMigrate(&userModel{})
}

func (r *Repository) CreateUser(ctx context.Context, user entities.User) error {
	row := userModelFromEntity(user)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrConflict
		}
		return err
	}
	return nil
}

func (r *Repository) GetUser(ctx context.Context, userID string) (entities.User, error) {
	var row userModel
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.User{}, domainerrors.ErrUserNotFound
		}
		return entities.User{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) FindUserByLogin(ctx context.Context, identifier string) (entities.User, error) {
	var row userModel
	err := r.db.WithContext(ctx).
		Where("email = ? OR username = ?", entities.NormalizeEmail(identifier), strings.TrimSpace(identifier)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.User{}, domainerrors.ErrUserNotFound
		}
		return entities.User{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) SaveProfile(ctx context.Context, user entities.User) error {
	result := r.db.WithContext(ctx).
		Model(&userModel{}).
		Where("user_id = ?", user.UserID).
		Updates(map[string]any{
			"display_name": user.DisplayName,
			"bio":          user.Bio,
			"avatar_url":   user.AvatarURL,
			"updated_at":   user.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrUserNotFound
	}
	return nil
}

func (r *Repository) GetAccount(ctx context.Context, userID string) (identityv1.Account, bool, error) {
	user, err := r.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, domainerrors.ErrUserNotFound) {
			return identityv1.Account{}, false, nil
		}
		return identityv1.Account{}, false, err
	}
	return application.ToAccount(user), true, nil
}

func (r *Repository) GetAccounts(ctx context.Context, userIDs []string) (map[string]identityv1.Account, error) {
	out := make(map[string]identityv1.Account, len(userIDs))
	if len(userIDs) == 0 {
		return out, nil
	}
	var rows []userModel
	if err := r.db.WithContext(ctx).Where("user_id IN ?", userIDs).Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.UserID] = application.ToAccount(row.toEntity())
	}
	return out, nil
}

func (r *Repository) ListCreators(ctx context.Context, limit int) ([]identityv1.Account, error) {
	var rows []userModel
	tx := r.db.WithContext(ctx).
		Where("role = ?", string(entities.RoleCreator)).
		Order("created_at DESC")
	if limit > 0 {
		tx = tx.Limit(limit)
	}
	if err := tx.Find(&rows).Error; err != nil {
		return nil, err
	}
	return toAccounts(rows), nil
}

func (r *Repository) ListSuspendedCreators(ctx context.Context, endedBy time.Time) ([]identityv1.Account, error) {
	var rows []userModel
	if err := r.db.WithContext(ctx).
		Where("role = ? AND is_suspended = ?", string(entities.RoleCreator), true).
		Where("(suspended_until IS NULL OR suspended_until <= ?)", endedBy.UTC()).
		Order("user_id ASC").
		Find(&rows).
		Error; err != nil {
		return nil, err
	}
	return toAccounts(rows), nil
}

func (r *Repository) FindAccountBySubscriptionID(ctx context.Context, subscriptionID string) (identityv1.Account, bool, error) {
	if strings.TrimSpace(subscriptionID) == "" {
		return identityv1.Account{}, false, nil
	}
	var row userModel
	err := r.db.WithContext(ctx).
		Where("stripe_subscription_id = ?", subscriptionID).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return identityv1.Account{}, false, nil
		}
		return identityv1.Account{}, false, err
	}
	return application.ToAccount(row.toEntity()), true, nil
}

func (r *Repository) ActivateAccessPass(ctx context.Context, userID string, expiresAt time.Time) error {
	return r.updateAccount(ctx, userID, map[string]any{
		"access_pass_active":     true,
		"access_pass_expires_at": expiresAt.UTC(),
	})
}

func (r *Repository) SetSubscription(ctx context.Context, userID string, state identityv1.SubscriptionState) error {
	values := map[string]any{
		"subscription_active":     state.Active,
		"subscription_expires_at": state.ExpiresAt,
	}
	if state.StripeSubscriptionID != "" {
		values["stripe_subscription_id"] = state.StripeSubscriptionID
	}
	return r.updateAccount(ctx, userID, values)
}

func (r *Repository) SetStripeCustomerID(ctx context.Context, userID string, customerID string) error {
	return r.updateAccount(ctx, userID, map[string]any{"stripe_customer_id": customerID})
}

func (r *Repository) SaveModerationStatus(ctx context.Context, userID string, status identityv1.ModerationStatus) error {
	return r.updateAccount(ctx, userID, map[string]any{
		"verified_creator": status.VerifiedCreator,
		"is_suspended":     status.IsSuspended,
		"suspended_until":  status.SuspendedUntil,
	})
}

func (r *Repository) UpdateAvatar(ctx context.Context, userID string, avatarURL string) error {
	return r.updateAccount(ctx, userID, map[string]any{"avatar_url": avatarURL})
}

func (r *Repository) updateAccount(ctx context.Context, userID string, values map[string]any) error {
	values["updated_at"] = time.Now().UTC()
	result := r.db.WithContext(ctx).
		Model(&userModel{}).
		Where("user_id = ?", userID).
		Updates(values)
	if result.Error != nil {
		r.logger.Error("account update failed",
			"event", "account_update_failed",
			"module", "identity-access/account-service",
			"layer", "adapter",
			"user_id", userID,
			"error", result.Error.Error(),
		)
		return result.Error
	}
	if result.RowsAffected == 0 {
		return identityv1.ErrAccountNotFound
	}
	return nil
}

type userModel struct {
	UserID                string     `gorm:"column:user_id;primaryKey"`
	Username              string     `gorm:"column:username;uniqueIndex"`
	Email                 string     `gorm:"column:email;uniqueIndex"`
	PasswordHash          string     `gorm:"column:password_hash"`
	DisplayName           string     `gorm:"column:display_name"`
	Bio                   string     `gorm:"column:bio"`
	AvatarURL             string     `gorm:"column:avatar_url"`
	BirthDate             *time.Time `gorm:"column:birth_date"`
	AgeVerifiedAt         *time.Time `gorm:"column:age_verified_at"`
	Role                  string     `gorm:"column:role;index"`
	AccessPassActive      bool       `gorm:"column:access_pass_active"`
	AccessPassExpiresAt   *time.Time `gorm:"column:access_pass_expires_at"`
	SubscriptionActive    bool       `gorm:"column:subscription_active"`
	SubscriptionExpiresAt *time.Time `gorm:"column:subscription_expires_at"`
	StripeCustomerID      string     `gorm:"column:stripe_customer_id"`
	StripeSubscriptionID  string     `gorm:"column:stripe_subscription_id;index"`
	VerifiedCreator       bool       `gorm:"column:verified_creator"`
	IsSuspended           bool       `gorm:"column:is_suspended"`
	SuspendedUntil        *time.Time `gorm:"column:suspended_until"`
	CreatedAt             time.Time  `gorm:"column:created_at"`
	UpdatedAt             time.Time  `gorm:"column:updated_at"`
}

func (userModel) TableName() string {
	return "users"
}

func userModelFromEntity(user entities.User) userModel {
	return userModel{
		UserID:                user.UserID,
		Username:              user.Username,
		Email:                 user.Email,
		PasswordHash:          user.PasswordHash,
		DisplayName:           user.DisplayName,
		Bio:                   user.Bio,
		AvatarURL:             user.AvatarURL,
		BirthDate:             user.BirthDate,
		AgeVerifiedAt:         user.AgeVerifiedAt,
		Role:                  string(user.Role),
		AccessPassActive:      user.AccessPassActive,
		AccessPassExpiresAt:   user.AccessPassExpiresAt,
		SubscriptionActive:    user.SubscriptionActive,
		SubscriptionExpiresAt: user.SubscriptionExpiresAt,
		StripeCustomerID:      user.StripeCustomerID,
		StripeSubscriptionID:  user.StripeSubscriptionID,
		VerifiedCreator:       user.VerifiedCreator,
		IsSuspended:           user.IsSuspended,
		SuspendedUntil:        user.SuspendedUntil,
		CreatedAt:             user.CreatedAt,
		UpdatedAt:             user.UpdatedAt,
	}
}

func (m userModel) toEntity() entities.User {
	return entities.User{
		UserID:                m.UserID,
		Username:              m.Username,
		Email:                 m.Email,
		PasswordHash:          m.PasswordHash,
		DisplayName:           m.DisplayName,
		Bio:                   m.Bio,
		AvatarURL:             m.AvatarURL,
		BirthDate:             m.BirthDate,
		AgeVerifiedAt:         m.AgeVerifiedAt,
		Role:                  entities.NormalizeRole(m.Role),
		AccessPassActive:      m.AccessPassActive,
		AccessPassExpiresAt:   m.AccessPassExpiresAt,
		SubscriptionActive:    m.SubscriptionActive,
		SubscriptionExpiresAt: m.SubscriptionExpiresAt,
		StripeCustomerID:      m.StripeCustomerID,
		StripeSubscriptionID:  m.StripeSubscriptionID,
		VerifiedCreator:       m.VerifiedCreator,
		IsSuspended:           m.IsSuspended,
		SuspendedUntil:        m.SuspendedUntil,
		CreatedAt:             m.CreatedAt,
		UpdatedAt:             m.UpdatedAt,
	}
}

func toAccounts(rows []userModel) []identityv1.Account {
	out := make([]identityv1.Account, 0, len(rows))
	for _, row := range rows {
		out = append(out, application.ToAccount(row.toEntity()))
	}
	return out
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
