// Package service contains the business logic of the application.
package service

import (
	"context"

	"entrelinhas/internal/models"
	"entrelinhas/internal/repository"
)

// ResolveInput carries every identity signal a request can present.
type ResolveInput struct {
	// UserID comes from a verified bearer token, 0 when absent.
	UserID uint
	// ProfileToken comes from the profile header or cookie.
	ProfileToken string
	// Ambient is the caller-supplied client identifier from the payload.
	Ambient string
}

// Resolution is the outcome of identity resolution. Identity is nil when the
// caller presented nothing usable; StaleToken marks a profile token that no
// longer maps to a profile.
type Resolution struct {
	Identity   *models.Identity
	StaleToken bool
}

// IdentityResolver turns request signals into a caller identity. Signals are
// tried strongest first: account, then anonymous profile, then the ambient
// client identifier. A dead profile token is noted and skipped rather than
// failing the request.
type IdentityResolver struct {
	users    repository.UserRepository
	profiles repository.ProfileRepository
}

// NewIdentityResolver creates a new IdentityResolver
func NewIdentityResolver(users repository.UserRepository, profiles repository.ProfileRepository) *IdentityResolver {
	return &IdentityResolver{users: users, profiles: profiles}
}

func (r *IdentityResolver) Resolve(ctx context.Context, in ResolveInput) (Resolution, error) {
	var res Resolution

	if in.UserID != 0 {
		user, err := r.users.GetByID(ctx, in.UserID)
		if err == nil {
			res.Identity = user.Identity()
			return res, nil
		}
		if !models.IsNotFound(err) {
			return res, err
		}
		// Token outlived the account; fall through to weaker signals.
	}

	if in.ProfileToken != "" {
		profile, err := r.profiles.GetByToken(ctx, in.ProfileToken)
		if err == nil {
			res.Identity = profile.Identity()
			return res, nil
		}
		if !models.IsNotFound(err) {
			return res, err
		}
		res.StaleToken = true
	}

	if in.Ambient != "" {
		res.Identity = &models.Identity{Kind: models.IdentityAmbient, Ambient: in.Ambient}
		return res, nil
	}

	return res, nil
}
