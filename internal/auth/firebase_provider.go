package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	firebase "firebase.google.com/go/v4"
	fbauth "firebase.google.com/go/v4/auth"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/identitytoolkit/v3"
	"google.golang.org/api/option"

	"github.com/medvend/portal/internal/auth/domain"
)

// FirebaseProvider signs users in with Identity Toolkit and keeps them signed in
// with Firebase session cookies.
type FirebaseProvider struct {
	client     *fbauth.Client
	toolkit    *identitytoolkit.Service
	sessionTTL time.Duration
}

func NewFirebaseProvider(ctx context.Context, app *firebase.App, webAPIKey string, sessionTTL time.Duration) (*FirebaseProvider, error) {
	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get Auth client: %w", err)
	}

	toolkit, err := identitytoolkit.NewService(ctx, option.WithAPIKey(webAPIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Identity Toolkit client: %w", err)
	}

	return &FirebaseProvider{
		client:     client,
		toolkit:    toolkit,
		sessionTTL: sessionTTL,
	}, nil
}

func (p *FirebaseProvider) SignIn(ctx context.Context, email, password string) (string, error) {
	resp, err := p.toolkit.Relyingparty.VerifyPassword(&identitytoolkit.IdentitytoolkitRelyingpartyVerifyPasswordRequest{
		Email:             email,
		Password:          password,
		ReturnSecureToken: true,
	}).Context(ctx).Do()
	if err != nil {
		return "", signInError(err)
	}

	cookie, err := p.client.SessionCookie(ctx, resp.IdToken, p.sessionTTL)
	if err != nil {
		return "", &domain.AuthError{Message: "failed to create session: " + err.Error(), Err: err}
	}

	return cookie, nil
}

func (p *FirebaseProvider) Verify(ctx context.Context, sessionToken string) (*domain.Identity, error) {
	token, err := p.client.VerifySessionCookieAndCheckRevoked(ctx, sessionToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidSession, err)
	}

	id := &domain.Identity{UID: token.UID}
	if email, ok := token.Claims["email"].(string); ok {
		id.Email = email
	}
	return id, nil
}

func (p *FirebaseProvider) SignOut(ctx context.Context, uid string) error {
	if err := p.client.RevokeRefreshTokens(ctx, uid); err != nil {
		return fmt.Errorf("failed to revoke sessions: %w", err)
	}
	return nil
}

func signInError(err error) error {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) && gerr.Message != "" {
		return domain.NewProviderError(gerr.Message, err)
	}
	return &domain.AuthError{Err: err}
}
