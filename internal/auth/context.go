package auth

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/medvend/portal/internal/auth/domain"
)

const (
	CtxFirebaseUID = "firebase_uid"
	CtxIdentity    = "identity"
)

// UserFirebaseUID extracts the Firebase UID from the Gin context.
// This is set by the session middleware.
func UserFirebaseUID(c *gin.Context) string {
	return strings.TrimSpace(c.GetString(CtxFirebaseUID))
}

// CurrentIdentity returns the verified identity for this request, or nil when signed out.
func CurrentIdentity(c *gin.Context) *domain.Identity {
	v, ok := c.Get(CtxIdentity)
	if !ok {
		return nil
	}
	id, _ := v.(*domain.Identity)
	return id
}

func SetIdentity(c *gin.Context, id *domain.Identity) {
	c.Set(CtxIdentity, id)
	c.Set(CtxFirebaseUID, id.UID)
}
