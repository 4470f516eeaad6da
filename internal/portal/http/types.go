package http

import (
	"context"

	authdomain "github.com/medvend/portal/internal/auth/domain"
	"github.com/medvend/portal/internal/flash"
	"github.com/medvend/portal/internal/logger"
	"github.com/medvend/portal/internal/portal/service"
	rxdomain "github.com/medvend/portal/internal/prescriptions/domain"
)

// Saver writes the doctor's prescription form.
type Saver interface {
	Save(ctx context.Context, caller *authdomain.Identity, d rxdomain.Draft) (*rxdomain.SaveResult, error)
}

// prescriptionForm is the doctor's save form. Field names match the page inputs.
type prescriptionForm struct {
	PatientUID  string `form:"patientUID"`
	Medicines   string `form:"medicineInput"`
	Dosage      string `form:"dosageInput"`
	RefillLimit string `form:"refillInput"`
	ExpiryDate  string `form:"expiryInput"`
	SearchEmail string `form:"searchEmail"`
}

func (f prescriptionForm) draft() rxdomain.Draft {
	return rxdomain.Draft{
		PatientUID:  f.PatientUID,
		Medicines:   f.Medicines,
		Dosage:      f.Dosage,
		RefillLimit: f.RefillLimit,
		ExpiryDate:  f.ExpiryDate,
	}
}

type Deps struct {
	Gate     *service.Gate
	Patients *service.PatientLoader
	Doctors  *service.DoctorLoader
	Finder   service.PatientFinder
	Writer   Saver
	Flasher  *flash.Flasher
	Log      *logger.Logger
}

// Handler serves the portal pages and the doctor's form actions.
type Handler struct {
	gate     *service.Gate
	patients *service.PatientLoader
	doctors  *service.DoctorLoader
	finder   service.PatientFinder
	writer   Saver
	flasher  *flash.Flasher
	log      *logger.Logger
}

func New(d Deps) *Handler {
	return &Handler{
		gate:     d.Gate,
		patients: d.Patients,
		doctors:  d.Doctors,
		finder:   d.Finder,
		writer:   d.Writer,
		flasher:  d.Flasher,
		log:      d.Log,
	}
}
