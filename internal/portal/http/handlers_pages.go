package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/medvend/portal/internal/auth"
	authdomain "github.com/medvend/portal/internal/auth/domain"
	"github.com/medvend/portal/internal/flash"
	"github.com/medvend/portal/internal/portal/present"
	"github.com/medvend/portal/internal/portal/service"
	rxsvc "github.com/medvend/portal/internal/prescriptions/service"
)

type homePage struct {
	SignedIn bool
}

type loginPage struct {
	Error present.Notice
	Email string
}

type doctorPage struct {
	Greeting  string
	Search    service.SearchView
	TargetUID string
	Form      map[string]string
	Error     present.Notice
	Success   present.Notice
}

// observe delivers this request's auth state to the gate.
func (h *Handler) observe(c *gin.Context, page service.Page) (service.Decision, *authdomain.Identity) {
	id := auth.CurrentIdentity(c)
	return h.gate.Observe(c.Request.Context(), service.StateChange{Page: page, Identity: id}), id
}

func redirect(c *gin.Context, page service.Page) {
	c.Redirect(http.StatusSeeOther, page.Path())
}

func noticeFrom(entry *flash.Entry, target string) present.Notice {
	m, ok := entry.Message(target)
	if !ok {
		return present.Notice{}
	}
	return present.Notice{Text: m.Text, Kind: string(m.Kind)}
}

// leaveDoctorPage sends a caller without verified doctor access away. When the
// role could not be read, login shows the cause.
func (h *Handler) leaveDoctorPage(c *gin.Context, view service.DoctorView, err error) {
	if err != nil {
		h.flasher.Redirect(c, view.Redirect.Path(), flash.Error(flash.TargetLogin, present.Message(err)))
		return
	}
	redirect(c, view.Redirect)
}

func (h *Handler) Home(c *gin.Context) {
	d, id := h.observe(c, service.PageOther)
	if d.Action == service.ActionRedirect {
		redirect(c, d.Location)
		return
	}
	c.HTML(http.StatusOK, "index.html", homePage{SignedIn: id != nil})
}

func (h *Handler) LoginPage(c *gin.Context) {
	d, _ := h.observe(c, service.PageLogin)
	if d.Action == service.ActionRedirect {
		redirect(c, d.Location)
		return
	}

	entry := h.flasher.Take(c)
	page := loginPage{
		Error: noticeFrom(entry, flash.TargetLogin),
		Email: entry.FormValue("email"),
	}
	if d.Action == service.ActionMessage {
		page.Error = present.Notice{Text: d.Message, Kind: string(flash.KindError)}
	}
	c.HTML(http.StatusOK, "login.html", page)
}

func (h *Handler) PatientDashboard(c *gin.Context) {
	d, id := h.observe(c, service.PagePatient)
	if d.Action == service.ActionRedirect {
		redirect(c, d.Location)
		return
	}

	ctx := c.Request.Context()
	view, err := h.patients.Load(ctx, *id)
	if err != nil {
		h.log.WithUserID(ctx, id.UID).WithError(err).Error("error loading patient dashboard")
	}
	if view.Redirect != service.PageOther {
		redirect(c, view.Redirect)
		return
	}
	c.HTML(http.StatusOK, "dashboard.html", view)
}

// DoctorDashboard renders the doctor page. An email query runs a patient search
// whose result selects the target of the next save.
func (h *Handler) DoctorDashboard(c *gin.Context) {
	d, id := h.observe(c, service.PageDoctor)
	if d.Action == service.ActionRedirect {
		redirect(c, d.Location)
		return
	}

	ctx := c.Request.Context()
	view, err := h.doctors.Load(ctx, *id)
	if err != nil {
		h.log.WithUserID(ctx, id.UID).WithError(err).Error("error loading doctor dashboard")
	}
	if view.Redirect != service.PageOther {
		h.leaveDoctorPage(c, view, err)
		return
	}

	page := doctorPage{Greeting: view.Greeting}
	if q, ok := c.GetQuery("email"); ok {
		search, err := service.Search(ctx, h.finder, q)
		if err != nil {
			h.log.WithUserID(ctx, id.UID).WithError(err).Error("search error")
		}
		page.Search = search
		page.TargetUID = search.TargetUID
	}

	entry := h.flasher.Take(c)
	page.Error = noticeFrom(entry, flash.TargetPrescripError)
	page.Success = noticeFrom(entry, flash.TargetPrescripSuccess)
	if entry != nil && entry.Form != nil {
		page.Form = entry.Form
		page.TargetUID = entry.FormValue(rxsvc.FieldPatientUID)
	}
	c.HTML(http.StatusOK, "doctor.html", page)
}
