package http

import "github.com/gin-gonic/gin"

func (h *Handler) Register(r gin.IRouter) {
	r.GET("/", h.Home)
	r.GET("/index.html", h.Home)
	r.GET("/login.html", h.LoginPage)
	r.GET("/dashboard.html", h.PatientDashboard)
	r.GET("/doctor.html", h.DoctorDashboard)
	r.POST("/doctor.html/prescriptions", h.SavePrescription)
}
