package entities

import (
	"testing"
	"time"

	domainerrors "creatorhub/contexts/identity-access/account-service/domain/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsAdultUsesCalendarCutoff(t *testing.T) {
	now := time.Date(2026, time.March, 10, 9, 0, 0, 0, time.UTC)

	assert.True(t, IsAdult(time.Date(2008, time.March, 10, 0, 0, 0, 0, time.UTC), now))
	assert.False(t, IsAdult(time.Date(2008, time.March, 11, 0, 0, 0, 0, time.UTC), now))
	assert.False(t, IsAdult(time.Time{}, now))
}

func TestRegistrationValidate(t *testing.T) {
	now := time.Date(2026, time.March, 10, 9, 0, 0, 0, time.UTC)
	reg := Registration{
		Username:    "lina",
		Email:       "Lina@Example.com",
		Password:    "secret",
		DisplayName: "Lina",
		BirthDate:   time.Date(1995, time.January, 1, 0, 0, 0, 0, time.UTC),
		Role:        RoleCreator,
	}
	require.NoError(t, reg.Validate(now))

	missing := reg
	missing.DisplayName = " "
	require.ErrorIs(t, missing.Validate(now), domainerrors.ErrMissingFields)

	minor := reg
	minor.BirthDate = time.Date(2015, time.January, 1, 0, 0, 0, 0, time.UTC)
	require.ErrorIs(t, minor.Validate(now), domainerrors.ErrUnderage)

	admin := reg
	admin.Role = RoleAdmin
	require.ErrorIs(t, admin.Validate(now), domainerrors.ErrInvalidRequest)
}

func TestNewUserNormalizesProfile(t *testing.T) {
	now := time.Date(2026, time.March, 10, 9, 0, 0, 0, time.UTC)
	user := NewUser("u1", Registration{
		Username:    " lina ",
		Email:       " Lina@Example.com ",
		DisplayName: " Lina ",
		Bio:         " hello ",
		BirthDate:   time.Date(1995, time.January, 1, 0, 0, 0, 0, time.UTC),
		Role:        RoleConsumer,
	}, "hash", now)

	assert.Equal(t, "lina", user.Username)
	assert.Equal(t, "lina@example.com", user.Email)
	assert.Equal(t, "Lina", user.DisplayName)
	assert.Equal(t, "", user.Bio)
	assert.Equal(t, DefaultAvatarURL, user.AvatarURL)
	require.NotNil(t, user.AgeVerifiedAt)
	assert.Equal(t, now, *user.AgeVerifiedAt)
}

func TestNormalizeRole(t *testing.T) {
	assert.Equal(t, RoleConsumer, NormalizeRole("user"))
	assert.Equal(t, RoleCreator, NormalizeRole("Creator"))
	assert.Equal(t, RoleAdmin, NormalizeRole("admin"))
	assert.Equal(t, RoleConsumer, NormalizeRole(""))
}

func TestProfileUpdateIgnoresEmptyAvatar(t *testing.T) {
	now := time.Date(2026, time.March, 10, 9, 0, 0, 0, time.UTC)
	name, bio, avatar := " New ", " bio ", " "
	updated := ProfileUpdate{DisplayName: &name, Bio: &bio, AvatarURL: &avatar}.Apply(User{AvatarURL: "/a.png"}, now)

	assert.Equal(t, "New", updated.DisplayName)
	assert.Equal(t, "bio", updated.Bio)
	assert.Equal(t, "/a.png", updated.AvatarURL)
	assert.Equal(t, now, updated.UpdatedAt)
}
