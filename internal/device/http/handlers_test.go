package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medvend/portal/internal/device/service"
	"github.com/medvend/portal/internal/logger"
	rxrepo "github.com/medvend/portal/internal/prescriptions/repository"
	profilerepo "github.com/medvend/portal/internal/profiles/repository"
	profilesvc "github.com/medvend/portal/internal/profiles/service"
	"github.com/medvend/portal/internal/store"
	"github.com/medvend/portal/internal/store/memory"
)

const testKey = "machine-key"

func setupRouter(t *testing.T) (*gin.Engine, *memory.Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	s := memory.New()
	ctx := context.Background()
	require.NoError(t, s.Set(ctx, profilerepo.Collection, "p-1", store.Fields{"role": "patient", "medicalCardID": "MC-7"}))
	require.NoError(t, s.Set(ctx, rxrepo.Collection, "p-1", store.Fields{
		"patientUID":  "p-1",
		"doctorUID":   "d-1",
		"medicines":   "Metformin 500mg",
		"dosage":      "1 daily",
		"refillLimit": int64(1),
		"expiryDate":  "2025-06-30",
		"lastUpdated": time.Date(2024, 2, 17, 0, 0, 0, 0, time.UTC),
	}))

	lookup := service.NewLookup(
		profilesvc.NewPatientSearch(profilerepo.NewProfileRepository(s)),
		rxrepo.NewPrescriptionRepository(s),
	)

	r := gin.New()
	New(lookup, logger.Discard()).Register(r.Group("/api/v1/device"), testKey, nil)
	return r, s
}

func get(r *gin.Engine, path, key string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if key != "" {
		req.Header.Set("X-API-Key", key)
	}
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func TestGetByCard(t *testing.T) {
	r, _ := setupRouter(t)

	rr := get(r, "/api/v1/device/cards/MC-7/prescription", testKey)
	require.Equal(t, http.StatusOK, rr.Code)

	var body struct {
		OK           bool                 `json:"ok"`
		Prescription PrescriptionResponse `json:"prescription"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.True(t, body.OK)
	assert.Equal(t, "p-1", body.Prescription.PatientUID)
	assert.Equal(t, "MC-7", body.Prescription.MedicalCardID)
	assert.Equal(t, []string{"Metformin 500mg"}, body.Prescription.Medicines)
	require.NotNil(t, body.Prescription.RefillLimit)
	assert.Equal(t, int64(1), *body.Prescription.RefillLimit)
}

func TestGetByPatient(t *testing.T) {
	r, _ := setupRouter(t)

	rr := get(r, "/api/v1/device/prescriptions/p-1", testKey)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"dosage":"1 daily"`)

	rr = get(r, "/api/v1/device/prescriptions/p-9", testKey)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Contains(t, rr.Body.String(), "prescription not found")
}

func TestDeviceErrors(t *testing.T) {
	r, s := setupRouter(t)

	t.Run("missing key", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, get(r, "/api/v1/device/prescriptions/p-1", "").Code)
	})

	t.Run("wrong key", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, get(r, "/api/v1/device/prescriptions/p-1", "other").Code)
	})

	t.Run("unknown card", func(t *testing.T) {
		rr := get(r, "/api/v1/device/cards/MC-404/prescription", testKey)
		assert.Equal(t, http.StatusNotFound, rr.Code)
		assert.Contains(t, rr.Body.String(), "patient not found")
	})

	t.Run("store failure", func(t *testing.T) {
		s.FailWith = errors.New("unavailable")
		defer func() { s.FailWith = nil }()

		rr := get(r, "/api/v1/device/cards/MC-7/prescription", testKey)
		assert.Equal(t, http.StatusInternalServerError, rr.Code)
		assert.NotContains(t, rr.Body.String(), "unavailable")
	})
}

func TestCORSPreflight(t *testing.T) {
	r, _ := setupRouter(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/device/prescriptions/p-1", nil)
	req.Header.Set("Origin", "https://kiosk.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	req.Header.Set("Access-Control-Request-Headers", "X-API-Key")
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Equal(t, "*", rr.Header().Get("Access-Control-Allow-Origin"))
}
