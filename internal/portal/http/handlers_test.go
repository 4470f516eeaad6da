package http

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medvend/portal/internal/auth"
	"github.com/medvend/portal/internal/auth/authtest"
	"github.com/medvend/portal/internal/auth/middleware"
	"github.com/medvend/portal/internal/flash"
	"github.com/medvend/portal/internal/logger"
	"github.com/medvend/portal/internal/portal/service"
	rxrepo "github.com/medvend/portal/internal/prescriptions/repository"
	rxsvc "github.com/medvend/portal/internal/prescriptions/service"
	profilerepo "github.com/medvend/portal/internal/profiles/repository"
	profilesvc "github.com/medvend/portal/internal/profiles/service"
	"github.com/medvend/portal/internal/store"
	"github.com/medvend/portal/internal/store/memory"
)

const sessionCookie = "medvend_session"

type testEnv struct {
	router   *gin.Engine
	store    *memory.Store
	flaky    *flakyStore
	provider *authtest.Provider
}

// flakyStore fails reads or writes on chosen collections while the rest of the
// store keeps working.
type flakyStore struct {
	*memory.Store
	getErr   map[string]error
	writeErr map[string]error
}

func (f *flakyStore) Get(ctx context.Context, collection, key string) (*store.Document, error) {
	if err := f.getErr[collection]; err != nil {
		return nil, err
	}
	return f.Store.Get(ctx, collection, key)
}

func (f *flakyStore) Set(ctx context.Context, collection, key string, fields store.Fields) error {
	if err := f.writeErr[collection]; err != nil {
		return err
	}
	return f.Store.Set(ctx, collection, key, fields)
}

func (f *flakyStore) Update(ctx context.Context, collection, key string, fields store.Fields) error {
	if err := f.writeErr[collection]; err != nil {
		return err
	}
	return f.Store.Update(ctx, collection, key, fields)
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	log := logger.Discard()
	s := memory.New()
	flaky := &flakyStore{Store: s, getErr: map[string]error{}, writeErr: map[string]error{}}
	provider := authtest.NewProvider()

	profiles := profilerepo.NewProfileRepository(flaky)
	prescriptions := rxrepo.NewPrescriptionRepository(flaky)
	resolver := profilesvc.NewRoleResolver(profiles)

	tmpl, err := Templates()
	require.NoError(t, err)

	r := gin.New()
	r.SetHTMLTemplate(tmpl)
	r.Use(middleware.Session(provider, auth.CookieSettings{Name: sessionCookie, TTL: time.Hour}, log))

	New(Deps{
		Gate:     service.NewGate(resolver, log),
		Patients: service.NewPatientLoader(resolver, prescriptions, time.UTC),
		Doctors:  service.NewDoctorLoader(resolver),
		Finder:   profilesvc.NewPatientSearch(profiles),
		Writer:   rxsvc.NewWriter(prescriptions),
		Flasher:  flash.NewFlasher(flash.NewStore(client, time.Minute), false, log),
		Log:      log,
	}).Register(r)

	env := &testEnv{router: r, store: s, flaky: flaky, provider: provider}
	env.user(t, "d-1", store.Fields{"name": "Rao", "email": "rao@clinic.com", "role": "doctor"})
	env.user(t, "p-1", store.Fields{"name": "Asha", "email": "x@y.com", "role": "patient", "medicalCardID": "MC-7"})
	provider.AddAccount("ghost", "ghost@y.com", "pw")
	return env
}

func (e *testEnv) user(t *testing.T, uid string, fields store.Fields) {
	t.Helper()
	email, _ := fields.String("email")
	e.provider.AddAccount(uid, email, "pw")
	require.NoError(t, e.store.Set(context.Background(), profilerepo.Collection, uid, fields))
}

// do sends a request as uid ("" for signed out) and carries any extra cookies.
func (e *testEnv) do(method, target, uid string, form url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	if uid != "" {
		req.AddCookie(&http.Cookie{Name: sessionCookie, Value: authtest.Token(uid)})
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}

	rr := httptest.NewRecorder()
	e.router.ServeHTTP(rr, req)
	return rr
}

// follow issues the GET a 303 points to, passing the flash cookie along.
func (e *testEnv) follow(t *testing.T, rr *httptest.ResponseRecorder, uid string) *httptest.ResponseRecorder {
	t.Helper()
	require.Equal(t, http.StatusSeeOther, rr.Code)

	var cookies []*http.Cookie
	for _, c := range rr.Result().Cookies() {
		if c.Name == flash.CookieName && c.Value != "" {
			cookies = append(cookies, c)
		}
	}
	return e.do(http.MethodGet, rr.Header().Get("Location"), uid, nil, cookies...)
}

func assertRedirect(t *testing.T, rr *httptest.ResponseRecorder, location string) {
	t.Helper()
	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, location, rr.Header().Get("Location"))
}

func TestHome(t *testing.T) {
	env := newTestEnv(t)

	for _, path := range []string{"/", "/index.html"} {
		rr := env.do(http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), "Sign In")
	}
}

func TestLoginPage(t *testing.T) {
	env := newTestEnv(t)

	t.Run("signed out renders the form", func(t *testing.T) {
		rr := env.do(http.MethodGet, "/login.html", "", nil)
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), `id="loginForm"`)
		assert.NotContains(t, rr.Body.String(), `id="errorMsg"`)
	})

	t.Run("doctor goes to the doctor dashboard", func(t *testing.T) {
		assertRedirect(t, env.do(http.MethodGet, "/login.html", "d-1", nil), "/doctor.html")
	})

	t.Run("patient goes to the patient dashboard", func(t *testing.T) {
		assertRedirect(t, env.do(http.MethodGet, "/login.html", "p-1", nil), "/dashboard.html")
	})

	t.Run("missing profile stays with a message", func(t *testing.T) {
		rr := env.do(http.MethodGet, "/login.html", "ghost", nil)
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), "User profile not found in database. Contact admin.")
	})
}

func TestPatientDashboard(t *testing.T) {
	env := newTestEnv(t)

	t.Run("signed out", func(t *testing.T) {
		assertRedirect(t, env.do(http.MethodGet, "/dashboard.html", "", nil), "/login.html")
	})

	t.Run("no prescription", func(t *testing.T) {
		rr := env.do(http.MethodGet, "/dashboard.html", "p-1", nil)
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), `id="noPrescrip"`)
		assert.NotContains(t, rr.Body.String(), `id="medicalCard"`)
	})

	t.Run("medical card", func(t *testing.T) {
		require.NoError(t, env.store.Set(context.Background(), rxrepo.Collection, "p-1", store.Fields{
			"patientUID":  "p-1",
			"medicines":   []interface{}{"Paracetamol", "Amoxicillin"},
			"dosage":      "1 tablet",
			"refillLimit": int64(3),
			"expiryDate":  "2024-12-31",
			"lastUpdated": time.Date(2024, 2, 17, 9, 30, 0, 0, time.UTC),
		}))

		rr := env.do(http.MethodGet, "/dashboard.html", "p-1", nil)
		body := rr.Body.String()
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, body, `id="medicalCard"`)
		assert.Contains(t, body, "Paracetamol, Amoxicillin")
		assert.Contains(t, body, "17 February 2024")
		assert.Contains(t, body, "3 refills")
		assert.Contains(t, body, "MC-7")
	})

	t.Run("doctor is sent to the doctor page", func(t *testing.T) {
		assertRedirect(t, env.do(http.MethodGet, "/dashboard.html", "d-1", nil), "/doctor.html")
	})
}

func TestDoctorDashboard(t *testing.T) {
	env := newTestEnv(t)

	t.Run("signed out", func(t *testing.T) {
		assertRedirect(t, env.do(http.MethodGet, "/doctor.html", "", nil), "/login.html")
	})

	t.Run("patient is sent to the patient page", func(t *testing.T) {
		assertRedirect(t, env.do(http.MethodGet, "/doctor.html", "p-1", nil), "/dashboard.html")
	})

	t.Run("missing profile is sent to login", func(t *testing.T) {
		assertRedirect(t, env.do(http.MethodGet, "/doctor.html", "ghost", nil), "/login.html")
	})

	t.Run("greeting", func(t *testing.T) {
		rr := env.do(http.MethodGet, "/doctor.html", "d-1", nil)
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), `<strong id="doctorName">Rao</strong>`)
		assert.NotContains(t, rr.Body.String(), `id="searchResult"`)
		assert.Contains(t, rr.Body.String(), `onsubmit="document.getElementById('saveBtn').disabled = true"`)
	})

	t.Run("search fills the target", func(t *testing.T) {
		rr := env.do(http.MethodGet, "/doctor.html?email=+X@Y.com+", "d-1", nil)
		body := rr.Body.String()
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, body, `<dd id="foundUID">p-1</dd>`)
		assert.Contains(t, body, `<dd id="foundCardID">MC-7</dd>`)
		assert.Contains(t, body, `name="patientUID" value="p-1"`)
	})

	t.Run("search finds nobody", func(t *testing.T) {
		rr := env.do(http.MethodGet, "/doctor.html?email=nobody@y.com", "d-1", nil)
		assert.Contains(t, rr.Body.String(), "No patient found with this email.")
		assert.Contains(t, rr.Body.String(), `name="patientUID" value=""`)
	})

	t.Run("empty search", func(t *testing.T) {
		rr := env.do(http.MethodGet, "/doctor.html?email=", "d-1", nil)
		assert.Contains(t, rr.Body.String(), "Please enter a patient email address.")
	})
}

func TestDoctorDashboard_UnreadableRoleFailsClosed(t *testing.T) {
	env := newTestEnv(t)
	env.user(t, "p-2", store.Fields{"name": "Other", "email": "z@y.com", "role": "patient", "medicalCardID": "MC-9"})
	env.flaky.getErr[profilerepo.Collection] = errors.New("unavailable")

	rr := env.do(http.MethodGet, "/doctor.html?email=z@y.com", "p-1", nil)
	assertRedirect(t, rr, "/login.html")
	assert.NotContains(t, rr.Body.String(), "MC-9")
	assert.NotContains(t, rr.Body.String(), `id="doctorName"`)

	page := env.follow(t, rr, "p-1")
	assert.Equal(t, http.StatusOK, page.Code)
	assert.Contains(t, page.Body.String(), "Error loading user profile: unavailable")
	assert.NotContains(t, page.Body.String(), "p-2")
}

func validForm() url.Values {
	return url.Values{
		rxsvc.FieldPatientUID:  {"p-1"},
		rxsvc.FieldMedicines:   {"Paracetamol, Amoxicillin"},
		rxsvc.FieldDosage:      {"1 tablet twice daily"},
		rxsvc.FieldRefillLimit: {"2"},
		rxsvc.FieldExpiryDate:  {"2025-01-31"},
		"searchEmail":          {"x@y.com"},
	}
}

func TestSavePrescription(t *testing.T) {
	env := newTestEnv(t)

	t.Run("create then update", func(t *testing.T) {
		rr := env.do(http.MethodPost, "/doctor.html/prescriptions", "d-1", validForm())
		assertRedirect(t, rr, "/doctor.html")

		page := env.follow(t, rr, "d-1")
		assert.Contains(t, page.Body.String(), "Prescription created successfully!")
		assert.Contains(t, page.Body.String(), `name="patientUID" value=""`, "target is cleared after a save")

		doc, err := env.store.Get(context.Background(), rxrepo.Collection, "p-1")
		require.NoError(t, err)
		assert.Equal(t, "d-1", doc.Fields["doctorUID"])
		assert.Equal(t, []string{"Paracetamol", "Amoxicillin"}, doc.Fields["medicines"])
		assert.Equal(t, int64(2), doc.Fields["refillLimit"])
		_, stamped := doc.Fields.Time("lastUpdated")
		assert.True(t, stamped)

		rr = env.do(http.MethodPost, "/doctor.html/prescriptions", "d-1", validForm())
		page = env.follow(t, rr, "d-1")
		assert.Contains(t, page.Body.String(), "Prescription updated successfully!")
		assert.Equal(t, 1, env.store.Len(rxrepo.Collection))
	})

	t.Run("missing fields keep the form", func(t *testing.T) {
		form := validForm()
		form.Set(rxsvc.FieldDosage, "  ")

		rr := env.do(http.MethodPost, "/doctor.html/prescriptions", "d-1", form)
		assertRedirect(t, rr, "/doctor.html?email=x%40y.com")

		body := env.follow(t, rr, "d-1").Body.String()
		assert.Contains(t, body, "Please fill in all prescription fields.")
		assert.Contains(t, body, `value="Paracetamol, Amoxicillin"`)
		assert.Contains(t, body, `name="patientUID" value="p-1"`)
	})

	t.Run("no target selected", func(t *testing.T) {
		form := validForm()
		form.Del(rxsvc.FieldPatientUID)
		form.Del("searchEmail")

		rr := env.do(http.MethodPost, "/doctor.html/prescriptions", "d-1", form)
		assertRedirect(t, rr, "/doctor.html")
		assert.Contains(t, env.follow(t, rr, "d-1").Body.String(), "Please search for a patient first and select them.")
	})

	t.Run("signed out", func(t *testing.T) {
		rr := env.do(http.MethodPost, "/doctor.html/prescriptions", "", validForm())
		assertRedirect(t, rr, "/login.html")
		assert.Contains(t, env.follow(t, rr, "").Body.String(), "You must be logged in to save a prescription.")
	})

	t.Run("patient cannot save", func(t *testing.T) {
		before := env.store.Len(rxrepo.Collection)
		rr := env.do(http.MethodPost, "/doctor.html/prescriptions", "p-1", validForm())
		assertRedirect(t, rr, "/dashboard.html")
		assert.Equal(t, before, env.store.Len(rxrepo.Collection))
	})

	t.Run("unreadable caller role writes nothing", func(t *testing.T) {
		before := env.store.Len(rxrepo.Collection)
		env.flaky.getErr[profilerepo.Collection] = errors.New("unavailable")
		defer delete(env.flaky.getErr, profilerepo.Collection)

		rr := env.do(http.MethodPost, "/doctor.html/prescriptions", "p-1", validForm())
		assertRedirect(t, rr, "/login.html")
		assert.Equal(t, before, env.store.Len(rxrepo.Collection))
	})

	t.Run("store failure keeps the form", func(t *testing.T) {
		env.flaky.writeErr[rxrepo.Collection] = errors.New("unavailable")
		defer delete(env.flaky.writeErr, rxrepo.Collection)

		form := validForm()
		form.Set(rxsvc.FieldPatientUID, "p-9")
		rr := env.do(http.MethodPost, "/doctor.html/prescriptions", "d-1", form)
		assertRedirect(t, rr, "/doctor.html?email=x%40y.com")

		body := env.follow(t, rr, "d-1").Body.String()
		assert.Contains(t, body, "Error saving prescription: unavailable")
		assert.Contains(t, body, `value="1 tablet twice daily"`)
		assert.Contains(t, body, `name="patientUID" value="p-9"`)
		_, err := env.store.Get(context.Background(), rxrepo.Collection, "p-9")
		assert.ErrorIs(t, err, store.ErrNotFound)
	})
}
