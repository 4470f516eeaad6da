package flash

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/medvend/portal/internal/logger"
)

const CookieName = "medvend_flash"

// Flasher attaches flash entries to the browser with a short-lived cookie.
type Flasher struct {
	store  *Store
	secure bool
	log    *logger.Logger
}

func NewFlasher(store *Store, secure bool, log *logger.Logger) *Flasher {
	return &Flasher{store: store, secure: secure, log: log}
}

// Redirect saves entry and sends a 303 to location. If the entry cannot be
// saved the redirect still happens without it.
func (f *Flasher) Redirect(c *gin.Context, location string, entry Entry) {
	id, err := f.store.Put(c.Request.Context(), entry)
	if err != nil {
		f.log.WithError(err).Error("flash store unavailable")
	} else {
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(CookieName, id, int(f.store.ttl.Seconds()), "/", "", f.secure, true)
	}
	c.Redirect(http.StatusSeeOther, location)
}

// Take returns and clears the pending entry for this browser, or nil.
func (f *Flasher) Take(c *gin.Context) *Entry {
	id, err := c.Cookie(CookieName)
	if err != nil || id == "" {
		return nil
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieName, "", -1, "/", "", f.secure, true)

	if _, err := uuid.Parse(id); err != nil {
		return nil
	}

	entry, err := f.store.Pop(c.Request.Context(), id)
	if err != nil {
		f.log.WithError(err).Error("flash store unavailable")
		return nil
	}
	return entry
}
