package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/medvend/portal/internal/auth"
	"github.com/medvend/portal/internal/auth/domain"
	"github.com/medvend/portal/internal/flash"
)

const (
	loginPath = "/login.html"

	fieldEmail = "email"
)

// Login signs the user in and returns to the login page, where the page gate
// routes the new session by role.
func (h *Handler) Login(c *gin.Context) {
	ctx := c.Request.Context()

	var form loginForm
	if err := c.ShouldBind(&form); err != nil {
		h.log.FromContext(ctx).WithError(err).Warn("unreadable login form")
	}
	email := strings.TrimSpace(form.Email)

	if email == "" || form.Password == "" {
		h.fail(c, email, &domain.AuthError{Code: domain.CodeMissingCredentials})
		return
	}

	token, err := h.provider.SignIn(ctx, email, form.Password)
	if err != nil {
		h.log.FromContext(ctx).WithError(err).WithField("email", email).Warn("sign-in failed")
		h.fail(c, email, err)
		return
	}

	h.cookie.Set(c, token)
	c.Redirect(http.StatusSeeOther, loginPath)
}

func (h *Handler) fail(c *gin.Context, email string, err error) {
	entry := flash.Error(flash.TargetLogin, err.Error())
	entry.Form = map[string]string{fieldEmail: email}
	h.flasher.Redirect(c, loginPath, entry)
}

// Logout revokes the provider session when there is one. The cookie is cleared
// even if revocation fails.
func (h *Handler) Logout(c *gin.Context) {
	if uid := auth.UserFirebaseUID(c); uid != "" {
		if err := h.provider.SignOut(c.Request.Context(), uid); err != nil {
			h.log.WithUserID(c.Request.Context(), uid).WithError(err).Error("logout error")
		}
	}

	h.cookie.Clear(c)
	c.Redirect(http.StatusSeeOther, loginPath)
}
