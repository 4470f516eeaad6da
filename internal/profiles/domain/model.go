package domain

// Role decides which dashboard and which operations an identity may use.
// The zero value is RolePatient.
type Role uint8

const (
	RolePatient Role = iota
	RoleDoctor
)

const (
	rolePatientName = "patient"
	roleDoctorName  = "doctor"
)

// ParseRole maps a stored role field to a Role. Only the exact string "doctor"
// yields RoleDoctor; every other value, including a missing or non-string one,
// is treated as a patient.
func ParseRole(v interface{}) Role {
	if s, ok := v.(string); ok && s == roleDoctorName {
		return RoleDoctor
	}
	return RolePatient
}

func (r Role) String() string {
	if r == RoleDoctor {
		return roleDoctorName
	}
	return rolePatientName
}

// Profile is the application record for an identity, keyed by its UID.
// Profiles are created outside the portal and only read here.
type Profile struct {
	UID           string
	Name          string
	Email         string
	Role          Role
	MedicalCardID string
}
