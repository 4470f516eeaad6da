package http

import "github.com/gin-gonic/gin"

func (h *Handler) Register(r gin.IRouter) {
	r.POST("/login.html", h.Login)
	r.POST("/logout", h.Logout)
}
