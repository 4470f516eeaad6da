package domain

import (
	"strings"
	"time"
)

// Prescription is the single active medication record for a patient.
// It is stored under the patient's UID.
type Prescription struct {
	PatientUID  string
	DoctorUID   string
	Medicines   Medicines
	Dosage      string
	RefillLimit *int64
	ExpiryDate  string
	LastUpdated *time.Time
}

// Medicines accepts both stored shapes: an ordered list of names, or a bare
// string written by older clients.
type Medicines struct {
	List   []string
	Raw    string
	IsList bool
}

func MedicineList(names ...string) Medicines {
	return Medicines{List: names, IsList: true}
}

// MedicinesFrom decodes a stored medicines value.
func MedicinesFrom(v interface{}) Medicines {
	switch t := v.(type) {
	case []string:
		return MedicineList(t...)
	case []interface{}:
		names := make([]string, 0, len(t))
		for _, item := range t {
			if s, ok := item.(string); ok {
				names = append(names, s)
			}
		}
		return MedicineList(names...)
	case string:
		return Medicines{Raw: t}
	default:
		return Medicines{}
	}
}

// String renders a list joined with ", " and a bare string verbatim.
func (m Medicines) String() string {
	if m.IsList {
		return strings.Join(m.List, ", ")
	}
	return m.Raw
}

// SplitMedicines turns "Paracetamol, Amoxicillin" into its names, dropping
// blank segments.
func SplitMedicines(raw string) []string {
	var names []string
	for _, part := range strings.Split(raw, ",") {
		if name := strings.TrimSpace(part); name != "" {
			names = append(names, name)
		}
	}
	return names
}

// Draft is the doctor's prescription form as submitted.
type Draft struct {
	PatientUID  string
	Medicines   string
	Dosage      string
	RefillLimit string
	ExpiryDate  string
}

type SaveResult struct {
	PatientUID string
	Created    bool
}
