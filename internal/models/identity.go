package models

import "fmt"

// IdentityKind distinguishes the three ways a caller can be identified.
type IdentityKind string

const (
	// IdentityAccount is a permanent username/password account.
	IdentityAccount IdentityKind = "account"
	// IdentityProfile is an anonymous profile resolved from a session token.
	IdentityProfile IdentityKind = "profile"
	// IdentityAmbient is a caller-supplied identifier with no backing record.
	// It is trusted from the request payload without verification.
	IdentityAmbient IdentityKind = "ambient"
)

// AnonymousCallerKey is the sentinel key used when a caller carries no
// identity at all.
const AnonymousCallerKey = "anon:anonymous"

// Identity is the resolved caller identity used as the dedup key for
// reactions, karma votes, and reports. A nil *Identity means "no identity".
type Identity struct {
	Kind      IdentityKind
	UserID    uint
	ProfileID uint
	Ambient   string
}

// Key returns the canonical storage key for this identity. Safe on nil.
func (i *Identity) Key() string {
	if i == nil {
		return AnonymousCallerKey
	}
	switch i.Kind {
	case IdentityAccount:
		return fmt.Sprintf("user:%d", i.UserID)
	case IdentityProfile:
		return fmt.Sprintf("profile:%d", i.ProfileID)
	case IdentityAmbient:
		if i.Ambient == "" {
			return AnonymousCallerKey
		}
		return "anon:" + i.Ambient
	}
	return AnonymousCallerKey
}

// Known reports whether the identity is backed by a stored record (account
// or anonymous profile). Ambient identifiers are not considered known:
// reports from them are never deduplicated.
func (i *Identity) Known() bool {
	if i == nil {
		return false
	}
	return i.Kind == IdentityAccount || i.Kind == IdentityProfile
}

// ReporterKey returns the dedup key for reports, or nil for callers whose
// reports should not be deduplicated.
func (i *Identity) ReporterKey() *string {
	if !i.Known() {
		return nil
	}
	k := i.Key()
	return &k
}
