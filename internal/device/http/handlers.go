package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/medvend/portal/internal/device/service"
	"github.com/medvend/portal/internal/logger"
	rxdomain "github.com/medvend/portal/internal/prescriptions/domain"
	profiledomain "github.com/medvend/portal/internal/profiles/domain"
	"github.com/medvend/portal/internal/validation"
)

type Handler struct {
	lookup *service.Lookup
	log    *logger.Logger
}

func New(lookup *service.Lookup, log *logger.Logger) *Handler {
	return &Handler{lookup: lookup, log: log}
}

// GetByPatient handles GET /prescriptions/:patientUID
func (h *Handler) GetByPatient(c *gin.Context) {
	d, err := h.lookup.ByPatient(c.Request.Context(), c.Param("patientUID"))
	h.respond(c, d, err)
}

// GetByCard handles GET /cards/:cardID/prescription
func (h *Handler) GetByCard(c *gin.Context) {
	d, err := h.lookup.ByCard(c.Request.Context(), c.Param("cardID"))
	h.respond(c, d, err)
}

func (h *Handler) respond(c *gin.Context, d *service.Dispense, err error) {
	if err == nil {
		c.JSON(http.StatusOK, gin.H{"ok": true, "prescription": toResponse(d)})
		return
	}

	var verr *validation.Error
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": verr.Message})
	case errors.Is(err, profiledomain.ErrPatientNotFound):
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "patient not found"})
	case errors.Is(err, rxdomain.ErrPrescriptionNotFound):
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "prescription not found"})
	default:
		h.log.FromContext(c.Request.Context()).WithField("component", "device").WithError(err).Error("device lookup failed")
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "lookup failed"})
	}
}
