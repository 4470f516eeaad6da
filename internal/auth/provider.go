package auth

import (
	"context"

	"github.com/medvend/portal/internal/auth/domain"
)

// Verifier turns a session token into an identity.
type Verifier interface {
	Verify(ctx context.Context, sessionToken string) (*domain.Identity, error)
}

// Provider is the external authentication service.
type Provider interface {
	Verifier
	// SignIn checks a credential pair and returns a session token.
	// Failures are *domain.AuthError.
	SignIn(ctx context.Context, email, password string) (string, error)
	// SignOut revokes the identity's sessions.
	SignOut(ctx context.Context, uid string) error
}
