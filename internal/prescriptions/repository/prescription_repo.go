package repository

import (
	"context"
	"errors"

	"github.com/medvend/portal/internal/prescriptions/domain"
	"github.com/medvend/portal/internal/store"
)

const (
	Collection = "prescriptions"

	fieldPatientUID  = "patientUID"
	fieldDoctorUID   = "doctorUID"
	fieldMedicines   = "medicines"
	fieldDosage      = "dosage"
	fieldRefillLimit = "refillLimit"
	fieldExpiryDate  = "expiryDate"
	fieldLastUpdated = "lastUpdated"
)

// PrescriptionRepository reads and writes prescriptions keyed by patient UID.
type PrescriptionRepository struct {
	store store.Store
}

func NewPrescriptionRepository(s store.Store) *PrescriptionRepository {
	return &PrescriptionRepository{store: s}
}

// GetByPatientUID is a point lookup on the record key.
func (r *PrescriptionRepository) GetByPatientUID(ctx context.Context, patientUID string) (*domain.Prescription, error) {
	doc, err := r.store.Get(ctx, Collection, patientUID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, domain.ErrPrescriptionNotFound
	}
	if err != nil {
		return nil, err
	}
	return toPrescription(doc), nil
}

// FindForPatient queries by the patientUID field, limited to one result.
func (r *PrescriptionRepository) FindForPatient(ctx context.Context, patientUID string) (*domain.Prescription, error) {
	doc, err := r.store.QueryOne(ctx, Collection, store.Eq(fieldPatientUID, patientUID))
	if errors.Is(err, store.ErrNotFound) {
		return nil, domain.ErrPrescriptionNotFound
	}
	if err != nil {
		return nil, err
	}
	return toPrescription(doc), nil
}

func (r *PrescriptionRepository) Exists(ctx context.Context, patientUID string) (bool, error) {
	_, err := r.store.Get(ctx, Collection, patientUID)
	if errors.Is(err, store.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Create writes a new record at the patient's key.
func (r *PrescriptionRepository) Create(ctx context.Context, p *domain.Prescription) error {
	return r.store.Set(ctx, Collection, p.PatientUID, toFields(p))
}

// Update replaces every prescription field on the existing record. Fields the
// portal does not manage are left alone.
func (r *PrescriptionRepository) Update(ctx context.Context, p *domain.Prescription) error {
	err := r.store.Update(ctx, Collection, p.PatientUID, toFields(p))
	if errors.Is(err, store.ErrNotFound) {
		return domain.ErrPrescriptionNotFound
	}
	return err
}

// toFields always stamps lastUpdated with the store's clock.
func toFields(p *domain.Prescription) store.Fields {
	var refill int64
	if p.RefillLimit != nil {
		refill = *p.RefillLimit
	}
	return store.Fields{
		fieldPatientUID:  p.PatientUID,
		fieldDoctorUID:   p.DoctorUID,
		fieldMedicines:   p.Medicines.List,
		fieldDosage:      p.Dosage,
		fieldRefillLimit: refill,
		fieldExpiryDate:  p.ExpiryDate,
		fieldLastUpdated: store.ServerTimestamp,
	}
}

func toPrescription(doc *store.Document) *domain.Prescription {
	p := &domain.Prescription{
		Medicines: domain.MedicinesFrom(doc.Fields[fieldMedicines]),
	}
	p.PatientUID, _ = doc.Fields.String(fieldPatientUID)
	if p.PatientUID == "" {
		p.PatientUID = doc.ID
	}
	p.DoctorUID, _ = doc.Fields.String(fieldDoctorUID)
	p.Dosage, _ = doc.Fields.String(fieldDosage)
	p.ExpiryDate, _ = doc.Fields.String(fieldExpiryDate)
	if n, ok := doc.Fields.Int(fieldRefillLimit); ok {
		p.RefillLimit = &n
	}
	if ts, ok := doc.Fields.Time(fieldLastUpdated); ok {
		p.LastUpdated = &ts
	}
	return p
}
