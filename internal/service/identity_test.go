package service

import (
	"context"
	"testing"

	"entrelinhas/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubUserRepo serves a fixed set of users.
type stubUserRepo struct {
	users map[uint]*models.User
}

func (s *stubUserRepo) Create(ctx context.Context, user *models.User) error { return nil }
func (s *stubUserRepo) GetByID(ctx context.Context, id uint) (*models.User, error) {
	if user, ok := s.users[id]; ok {
		return user, nil
	}
	return nil, models.NewNotFoundError("user", id)
}
func (s *stubUserRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return nil, models.NewNotFoundError("user", username)
}
func (s *stubUserRepo) UpdateLastLogin(ctx context.Context, id uint) error { return nil }
func (s *stubUserRepo) IsAdmin(ctx context.Context, id uint) (bool, error) { return false, nil }

// stubProfileRepo serves a fixed set of profiles by token.
type stubProfileRepo struct {
	profiles map[string]*models.Profile
}

func (s *stubProfileRepo) Create(ctx context.Context, profile *models.Profile) error { return nil }
func (s *stubProfileRepo) GetByID(ctx context.Context, id uint) (*models.Profile, error) {
	return nil, models.NewNotFoundError("profile", id)
}
func (s *stubProfileRepo) GetByToken(ctx context.Context, token string) (*models.Profile, error) {
	if profile, ok := s.profiles[token]; ok {
		return profile, nil
	}
	return nil, models.NewNotFoundError("profile", token)
}

func newTestResolver() *IdentityResolver {
	return NewIdentityResolver(
		&stubUserRepo{users: map[uint]*models.User{
			7: {ID: 7, Username: "maria"},
		}},
		&stubProfileRepo{profiles: map[string]*models.Profile{
			"valid-token": {ID: 3, Nickname: "coruja"},
		}},
	)
}

func TestIdentityResolver_AccountWinsOverEverything(t *testing.T) {
	t.Parallel()
	resolver := newTestResolver()

	res, err := resolver.Resolve(context.Background(), ResolveInput{
		UserID:       7,
		ProfileToken: "valid-token",
		Ambient:      "device-123",
	})
	require.NoError(t, err)
	require.NotNil(t, res.Identity)
	assert.Equal(t, models.IdentityAccount, res.Identity.Kind)
	assert.Equal(t, "user:7", res.Identity.Key())
	assert.False(t, res.StaleToken)
}

func TestIdentityResolver_ProfileToken(t *testing.T) {
	t.Parallel()
	resolver := newTestResolver()

	res, err := resolver.Resolve(context.Background(), ResolveInput{
		ProfileToken: "valid-token",
		Ambient:      "device-123",
	})
	require.NoError(t, err)
	require.NotNil(t, res.Identity)
	assert.Equal(t, models.IdentityProfile, res.Identity.Kind)
	assert.Equal(t, "profile:3", res.Identity.Key())
}

func TestIdentityResolver_StaleTokenFallsThroughToAmbient(t *testing.T) {
	t.Parallel()
	resolver := newTestResolver()

	res, err := resolver.Resolve(context.Background(), ResolveInput{
		ProfileToken: "expired-token",
		Ambient:      "device-123",
	})
	require.NoError(t, err)
	require.NotNil(t, res.Identity)
	assert.Equal(t, models.IdentityAmbient, res.Identity.Kind)
	assert.Equal(t, "anon:device-123", res.Identity.Key())
	assert.True(t, res.StaleToken, "dead token must be flagged, not fatal")
}

func TestIdentityResolver_DeletedAccountFallsThrough(t *testing.T) {
	t.Parallel()
	resolver := newTestResolver()

	res, err := resolver.Resolve(context.Background(), ResolveInput{
		UserID:       99,
		ProfileToken: "valid-token",
	})
	require.NoError(t, err)
	require.NotNil(t, res.Identity)
	assert.Equal(t, models.IdentityProfile, res.Identity.Kind)
}

func TestIdentityResolver_NothingResolvesToNil(t *testing.T) {
	t.Parallel()
	resolver := newTestResolver()

	res, err := resolver.Resolve(context.Background(), ResolveInput{})
	require.NoError(t, err)
	assert.Nil(t, res.Identity)
	assert.False(t, res.StaleToken)

	// The nil identity still keys and reports safely.
	assert.Equal(t, models.AnonymousCallerKey, res.Identity.Key())
	assert.Nil(t, res.Identity.ReporterKey())
}
