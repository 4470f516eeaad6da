package http

import (
	"github.com/medvend/portal/internal/auth"
	"github.com/medvend/portal/internal/flash"
	"github.com/medvend/portal/internal/logger"
)

type loginForm struct {
	Email    string `form:"email"`
	Password string `form:"password"`
}

type Handler struct {
	provider auth.Provider
	cookie   auth.CookieSettings
	flasher  *flash.Flasher
	log      *logger.Logger
}

func New(provider auth.Provider, cookie auth.CookieSettings, flasher *flash.Flasher, log *logger.Logger) *Handler {
	return &Handler{
		provider: provider,
		cookie:   cookie,
		flasher:  flasher,
		log:      log,
	}
}
