// Package auth defines the session/role collaborator contract. The
// actual identity provider is external; this package only resolves
// tokens into sessions and roles into authorization decisions.
package auth

import (
	"context"
	"errors"
)

var (
	ErrNoSession    = errors.New("no valid session")
	ErrUnauthorized = errors.New("role does not permit access")
)

const RoleAdmin = "admin"

// Session is the authenticated caller as reported by the identity
// provider. Role may be empty when the provider carries no role
// metadata; the profiles table is then the source of truth.
type Session struct {
	UserID      string
	Email       string
	Role        string
	AccessToken string
}

// Client is the hosted auth collaborator.
type Client interface {
	GetSession(ctx context.Context, accessToken string) (*Session, error)
	SignInWithPassword(ctx context.Context, email, password string) (*Session, error)
	SignOut(ctx context.Context, accessToken string) error
}

// ProfileRepo looks up the role claim stored alongside the user
// profile.
type ProfileRepo interface {
	Role(ctx context.Context, userID string) (string, error)
	List(ctx context.Context, limit int) ([]Profile, error)
}

// Profile is the persisted user record the admin back-office lists and
// moderates.
type Profile struct {
	UserID string
	Email  string
	Role   string
}
