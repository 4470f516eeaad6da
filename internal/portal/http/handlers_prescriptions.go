package http

import (
	"errors"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/medvend/portal/internal/auth"
	authdomain "github.com/medvend/portal/internal/auth/domain"
	"github.com/medvend/portal/internal/flash"
	"github.com/medvend/portal/internal/portal/present"
	"github.com/medvend/portal/internal/portal/service"
	rxsvc "github.com/medvend/portal/internal/prescriptions/service"
	"github.com/medvend/portal/internal/validation"
)

// SavePrescription handles the doctor's prescription form. The caller is the
// identity verified on this request, not the one that loaded the page, and
// must still be a doctor.
func (h *Handler) SavePrescription(c *gin.Context) {
	ctx := c.Request.Context()
	caller := auth.CurrentIdentity(c)

	var form prescriptionForm
	if err := c.ShouldBind(&form); err != nil {
		h.log.FromContext(ctx).WithError(err).Warn("unreadable prescription form")
	}

	if caller != nil {
		view, err := h.doctors.Load(ctx, *caller)
		if err != nil {
			h.log.WithUserID(ctx, caller.UID).WithError(err).Error("error checking caller role")
		}
		if view.Redirect != service.PageOther {
			h.leaveDoctorPage(c, view, err)
			return
		}
	}

	result, err := h.writer.Save(ctx, caller, form.draft())
	if err != nil {
		h.saveFailed(c, caller, form, err)
		return
	}

	text := "Prescription updated successfully!"
	if result.Created {
		text = "Prescription created successfully!"
	}
	h.log.WithUserID(ctx, caller.UID).WithField("patient_uid", result.PatientUID).Info("prescription saved")

	h.flasher.Redirect(c, service.PageDoctor.Path(), flash.Success(flash.TargetPrescripSuccess, text))
}

func (h *Handler) saveFailed(c *gin.Context, caller *authdomain.Identity, form prescriptionForm, err error) {
	var (
		authErr *authdomain.AuthError
		verr    *validation.Error
	)

	if errors.As(err, &authErr) {
		h.flasher.Redirect(c, service.PageLogin.Path(), flash.Error(flash.TargetLogin, present.Message(err)))
		return
	}

	entry := h.log.WithUserID(c.Request.Context(), caller.UID).WithError(err)
	if errors.As(err, &verr) {
		entry.WithField("fields", verr.Fields).Info("prescription form rejected")
	} else {
		entry.Error("error saving prescription")
	}

	retry := flash.Error(flash.TargetPrescripError, present.Message(err))
	retry.Form = map[string]string{
		rxsvc.FieldPatientUID:  form.PatientUID,
		rxsvc.FieldMedicines:   form.Medicines,
		rxsvc.FieldDosage:      form.Dosage,
		rxsvc.FieldRefillLimit: form.RefillLimit,
		rxsvc.FieldExpiryDate:  form.ExpiryDate,
	}
	h.flasher.Redirect(c, doctorLocation(form.SearchEmail), retry)
}

// doctorLocation keeps the searched patient on screen after a failed save.
func doctorLocation(query string) string {
	query = strings.TrimSpace(query)
	if query == "" {
		return service.PageDoctor.Path()
	}
	return service.PageDoctor.Path() + "?" + url.Values{"email": {query}}.Encode()
}
