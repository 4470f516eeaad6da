package service

import (
	"context"
	"errors"

	authdomain "github.com/medvend/portal/internal/auth/domain"
	"github.com/medvend/portal/internal/logger"
	"github.com/medvend/portal/internal/portal/present"
	profiledomain "github.com/medvend/portal/internal/profiles/domain"
)

// Page identifies one of the portal's full pages.
type Page int

const (
	PageOther Page = iota
	PageLogin
	PagePatient
	PageDoctor
)

var pagePaths = map[Page]string{
	PageOther:   "/",
	PageLogin:   "/login.html",
	PagePatient: "/dashboard.html",
	PageDoctor:  "/doctor.html",
}

func (p Page) Path() string {
	return pagePaths[p]
}

// DashboardFor returns the landing page for a role.
func DashboardFor(role profiledomain.Role) Page {
	if role == profiledomain.RoleDoctor {
		return PageDoctor
	}
	return PagePatient
}

// StateChange is one auth-state notification: the page being shown and the
// identity signed in at that moment, nil when signed out. The HTTP layer
// delivers one per page load, so a page always sees the current state at
// least once before it renders.
type StateChange struct {
	Page     Page
	Identity *authdomain.Identity
}

type Action int

const (
	// ActionNone leaves the page as it is.
	ActionNone Action = iota
	ActionRedirect
	ActionRenderPatient
	ActionRenderDoctor
	// ActionMessage keeps the page and shows Decision.Message inline.
	ActionMessage
)

type Decision struct {
	Action   Action
	Location Page
	Message  string
}

func redirect(p Page) Decision {
	return Decision{Action: ActionRedirect, Location: p}
}

// RoleSource resolves the role of a signed-in identity.
type RoleSource interface {
	Resolve(ctx context.Context, id authdomain.Identity) (profiledomain.Role, error)
}

// Gate decides, on every auth-state change, whether the current page may be
// shown and where to send the user otherwise.
type Gate struct {
	roles RoleSource
	log   *logger.Logger
}

func NewGate(roles RoleSource, log *logger.Logger) *Gate {
	return &Gate{roles: roles, log: log}
}

func (g *Gate) Observe(ctx context.Context, ch StateChange) Decision {
	signedIn := ch.Identity != nil

	switch ch.Page {
	case PageLogin:
		if !signedIn {
			return Decision{Action: ActionNone}
		}
		return g.routeByRole(ctx, *ch.Identity)
	case PagePatient:
		if !signedIn {
			return redirect(PageLogin)
		}
		return Decision{Action: ActionRenderPatient}
	case PageDoctor:
		if !signedIn {
			return redirect(PageLogin)
		}
		return Decision{Action: ActionRenderDoctor}
	default:
		return Decision{Action: ActionNone}
	}
}

// routeByRole never redirects into a dashboard when the role is unknown.
func (g *Gate) routeByRole(ctx context.Context, id authdomain.Identity) Decision {
	role, err := g.roles.Resolve(ctx, id)
	if err != nil {
		entry := g.log.WithUserID(ctx, id.UID).WithError(err)
		if errors.Is(err, profiledomain.ErrProfileMissing) {
			entry.Warn("signed-in user has no profile")
		} else {
			entry.Error("error fetching role")
		}
		return Decision{Action: ActionMessage, Message: present.Message(err)}
	}
	return redirect(DashboardFor(role))
}
