// Package service answers the vending machine's read-only prescription lookups.
package service

import (
	"context"
	"strings"

	rxdomain "github.com/medvend/portal/internal/prescriptions/domain"
	profiledomain "github.com/medvend/portal/internal/profiles/domain"
	"github.com/medvend/portal/internal/validation"
)

type CardFinder interface {
	FindPatientByCardID(ctx context.Context, cardID string) (*profiledomain.Profile, error)
}

type PrescriptionGetter interface {
	GetByPatientUID(ctx context.Context, patientUID string) (*rxdomain.Prescription, error)
}

// Dispense is what a machine needs to hand out a patient's medicines.
type Dispense struct {
	PatientUID    string
	MedicalCardID string
	Prescription  *rxdomain.Prescription
}

type Lookup struct {
	patients      CardFinder
	prescriptions PrescriptionGetter
}

func NewLookup(patients CardFinder, prescriptions PrescriptionGetter) *Lookup {
	return &Lookup{patients: patients, prescriptions: prescriptions}
}

// ByPatient returns rxdomain.ErrPrescriptionNotFound when the patient has none.
func (l *Lookup) ByPatient(ctx context.Context, patientUID string) (*Dispense, error) {
	patientUID = strings.TrimSpace(patientUID)
	if patientUID == "" {
		return nil, validation.New("A patient UID is required.", "patientUID")
	}

	rx, err := l.prescriptions.GetByPatientUID(ctx, patientUID)
	if err != nil {
		return nil, err
	}
	return &Dispense{PatientUID: patientUID, Prescription: rx}, nil
}

// ByCard resolves a scanned medical card to its patient, then to the
// prescription. Errors: profiledomain.ErrPatientNotFound,
// rxdomain.ErrPrescriptionNotFound, *validation.Error, *profiledomain.SearchError.
func (l *Lookup) ByCard(ctx context.Context, cardID string) (*Dispense, error) {
	p, err := l.patients.FindPatientByCardID(ctx, cardID)
	if err != nil {
		return nil, err
	}

	d, err := l.ByPatient(ctx, p.UID)
	if err != nil {
		return nil, err
	}
	d.MedicalCardID = p.MedicalCardID
	return d, nil
}
