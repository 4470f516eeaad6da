package auth

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type CookieSettings struct {
	Name   string
	TTL    time.Duration
	Secure bool
}

func (s CookieSettings) Set(c *gin.Context, value string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(s.Name, value, int(s.TTL.Seconds()), "/", "", s.Secure, true)
}

func (s CookieSettings) Clear(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(s.Name, "", -1, "/", "", s.Secure, true)
}
