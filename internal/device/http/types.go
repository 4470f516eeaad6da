package http

import (
	"time"

	"github.com/medvend/portal/internal/device/service"
)

type PrescriptionResponse struct {
	PatientUID    string     `json:"patient_uid"`
	MedicalCardID string     `json:"medical_card_id,omitempty"`
	DoctorUID     string     `json:"doctor_uid,omitempty"`
	Medicines     []string   `json:"medicines"`
	Dosage        string     `json:"dosage"`
	RefillLimit   *int64     `json:"refill_limit"`
	ExpiryDate    string     `json:"expiry_date"`
	LastUpdated   *time.Time `json:"last_updated"`
}

func toResponse(d *service.Dispense) PrescriptionResponse {
	rx := d.Prescription
	medicines := rx.Medicines.List
	if !rx.Medicines.IsList && rx.Medicines.Raw != "" {
		medicines = []string{rx.Medicines.Raw}
	}
	if medicines == nil {
		medicines = []string{}
	}

	return PrescriptionResponse{
		PatientUID:    d.PatientUID,
		MedicalCardID: d.MedicalCardID,
		DoctorUID:     rx.DoctorUID,
		Medicines:     medicines,
		Dosage:        rx.Dosage,
		RefillLimit:   rx.RefillLimit,
		ExpiryDate:    rx.ExpiryDate,
		LastUpdated:   rx.LastUpdated,
	}
}
