// Package authtest provides an in-memory auth.Provider for tests.
package authtest

import (
	"context"
	"sync"

	"github.com/medvend/portal/internal/auth/domain"
)

type account struct {
	uid      string
	password string
}

// Provider signs users in against a fixed account table. Session tokens are
// "session-<uid>".
type Provider struct {
	mu       sync.Mutex
	accounts map[string]account
	revoked  map[string]bool

	// SignInErr, when set, is returned by SignIn.
	SignInErr error
}

func NewProvider() *Provider {
	return &Provider{
		accounts: make(map[string]account),
		revoked:  make(map[string]bool),
	}
}

func (p *Provider) AddAccount(uid, email, password string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.accounts[email] = account{uid: uid, password: password}
	delete(p.revoked, uid)
}

func (p *Provider) SignIn(_ context.Context, email, password string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.SignInErr != nil {
		return "", p.SignInErr
	}
	acc, ok := p.accounts[email]
	if !ok {
		return "", domain.NewProviderError("EMAIL_NOT_FOUND", nil)
	}
	if acc.password != password {
		return "", domain.NewProviderError("INVALID_PASSWORD", nil)
	}
	delete(p.revoked, acc.uid)
	return Token(acc.uid), nil
}

func (p *Provider) Verify(_ context.Context, token string) (*domain.Identity, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for email, acc := range p.accounts {
		if Token(acc.uid) == token && !p.revoked[acc.uid] {
			return &domain.Identity{UID: acc.uid, Email: email}, nil
		}
	}
	return nil, domain.ErrInvalidSession
}

func (p *Provider) SignOut(_ context.Context, uid string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.revoked[uid] = true
	return nil
}

func (p *Provider) Revoked(uid string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.revoked[uid]
}

func Token(uid string) string {
	return "session-" + uid
}
