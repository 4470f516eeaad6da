package service

import (
	"context"
	"strconv"
	"strings"

	authdomain "github.com/medvend/portal/internal/auth/domain"
	"github.com/medvend/portal/internal/prescriptions/domain"
	"github.com/medvend/portal/internal/validation"
)

// Form field names, in the order they appear on the doctor dashboard.
const (
	FieldPatientUID  = "patientUID"
	FieldMedicines   = "medicineInput"
	FieldDosage      = "dosageInput"
	FieldRefillLimit = "refillInput"
	FieldExpiryDate  = "expiryInput"
)

// PrescriptionStore is the write side of the prescription repository.
type PrescriptionStore interface {
	Exists(ctx context.Context, patientUID string) (bool, error)
	Create(ctx context.Context, p *domain.Prescription) error
	Update(ctx context.Context, p *domain.Prescription) error
}

// Writer creates or overwrites a patient's prescription.
type Writer struct {
	prescriptions PrescriptionStore
}

func NewWriter(prescriptions PrescriptionStore) *Writer {
	return &Writer{prescriptions: prescriptions}
}

// Save validates the draft and writes it under the target patient's UID.
// caller must be the identity verified on the submitting request.
//
// Errors: *authdomain.AuthError when caller is nil, *validation.Error for
// missing input (nothing is written), *domain.SaveError for store failures.
func (w *Writer) Save(ctx context.Context, caller *authdomain.Identity, d domain.Draft) (*domain.SaveResult, error) {
	if caller == nil || caller.UID == "" {
		return nil, &authdomain.AuthError{
			Code:    authdomain.CodeUnauthenticated,
			Message: "You must be logged in to save a prescription.",
		}
	}

	p, err := Validate(d)
	if err != nil {
		return nil, err
	}
	p.DoctorUID = caller.UID

	exists, err := w.prescriptions.Exists(ctx, p.PatientUID)
	if err != nil {
		return nil, &domain.SaveError{Err: err}
	}

	if exists {
		err = w.prescriptions.Update(ctx, p)
	} else {
		err = w.prescriptions.Create(ctx, p)
	}
	if err != nil {
		return nil, &domain.SaveError{Err: err}
	}

	return &domain.SaveResult{PatientUID: p.PatientUID, Created: !exists}, nil
}

// Validate checks the draft and builds the record to store, without a doctor.
func Validate(d domain.Draft) (*domain.Prescription, error) {
	patientUID := strings.TrimSpace(d.PatientUID)
	if patientUID == "" {
		return nil, validation.New("Please search for a patient first and select them.", FieldPatientUID)
	}

	missing := validation.Required(
		[]string{FieldMedicines, FieldDosage, FieldRefillLimit, FieldExpiryDate},
		map[string]string{
			FieldMedicines:   d.Medicines,
			FieldDosage:      d.Dosage,
			FieldRefillLimit: d.RefillLimit,
			FieldExpiryDate:  d.ExpiryDate,
		},
	)
	if len(missing) > 0 {
		return nil, validation.New("Please fill in all prescription fields.", missing...)
	}

	medicines := domain.SplitMedicines(d.Medicines)
	if len(medicines) == 0 {
		return nil, validation.New("Please fill in all prescription fields.", FieldMedicines)
	}

	refills, err := strconv.ParseInt(strings.TrimSpace(d.RefillLimit), 10, 64)
	if err != nil || refills < 0 {
		return nil, validation.New("Refill limit must be a whole number of 0 or more.", FieldRefillLimit)
	}

	return &domain.Prescription{
		PatientUID:  patientUID,
		Medicines:   domain.MedicineList(medicines...),
		Dosage:      strings.TrimSpace(d.Dosage),
		RefillLimit: &refills,
		ExpiryDate:  strings.TrimSpace(d.ExpiryDate),
	}, nil
}
