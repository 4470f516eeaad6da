package bootstrap

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/medvend/portal/config"
	httpapi "github.com/medvend/portal/internal/api/http"
	apimiddleware "github.com/medvend/portal/internal/api/http/middleware"
	"github.com/medvend/portal/internal/auth"
	authhttp "github.com/medvend/portal/internal/auth/http"
	"github.com/medvend/portal/internal/auth/middleware"
	devicehttp "github.com/medvend/portal/internal/device/http"
	devicesvc "github.com/medvend/portal/internal/device/service"
	"github.com/medvend/portal/internal/flash"
	"github.com/medvend/portal/internal/logger"
	portalhttp "github.com/medvend/portal/internal/portal/http"
	"github.com/medvend/portal/internal/portal/service"
	rxrepo "github.com/medvend/portal/internal/prescriptions/repository"
	rxsvc "github.com/medvend/portal/internal/prescriptions/service"
	profilerepo "github.com/medvend/portal/internal/profiles/repository"
	profilesvc "github.com/medvend/portal/internal/profiles/service"
	"github.com/medvend/portal/internal/store"
)

type RouterDeps struct {
	ServiceName string
	Config      *config.Config
	Log         *logger.Logger
	Provider    auth.Provider
	Store       store.Store
	Redis       *redis.Client
}

func BuildRouter(dep RouterDeps) (*gin.Engine, error) {
	cfg := dep.Config

	tmpl, err := portalhttp.Templates()
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(apimiddleware.RequestID(dep.Log))
	r.SetHTMLTemplate(tmpl)

	flashes := flash.NewStore(dep.Redis, cfg.Redis.FlashTTL)
	checks := map[string]httpapi.Checker{"redis": flashes, "store": nil}
	if p, ok := dep.Store.(store.Pinger); ok {
		checks["store"] = p
	}
	httpapi.NewHealthHandler(dep.ServiceName, cfg.App.Version, checks).RegisterRoutes(r)

	profiles := profilerepo.NewProfileRepository(dep.Store)
	prescriptions := rxrepo.NewPrescriptionRepository(dep.Store)
	resolver := profilesvc.NewRoleResolver(profiles)
	search := profilesvc.NewPatientSearch(profiles)

	if cfg.Device.APIKey != "" {
		lookup := devicesvc.NewLookup(search, prescriptions)
		devicehttp.New(lookup, dep.Log).Register(r.Group("/api/v1/device"), cfg.Device.APIKey, cfg.Device.AllowedOrigins)
	}

	cookie := auth.CookieSettings{
		Name:   cfg.Session.CookieName,
		TTL:    cfg.Session.TTL,
		Secure: cfg.Session.Secure,
	}
	flasher := flash.NewFlasher(flashes, cfg.Session.Secure, dep.Log)

	pages := r.Group("/")
	pages.Use(middleware.Session(dep.Provider, cookie, dep.Log))

	authhttp.New(dep.Provider, cookie, flasher, dep.Log).Register(pages)
	portalhttp.New(portalhttp.Deps{
		Gate:     service.NewGate(resolver, dep.Log),
		Patients: service.NewPatientLoader(resolver, prescriptions, cfg.Location()),
		Doctors:  service.NewDoctorLoader(resolver),
		Finder:   search,
		Writer:   rxsvc.NewWriter(prescriptions),
		Flasher:  flasher,
		Log:      dep.Log,
	}).Register(pages)

	return r, nil
}
