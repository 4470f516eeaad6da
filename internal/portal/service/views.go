package service

import (
	"context"
	"errors"
	"time"

	authdomain "github.com/medvend/portal/internal/auth/domain"
	"github.com/medvend/portal/internal/portal/present"
	rxdomain "github.com/medvend/portal/internal/prescriptions/domain"
	profiledomain "github.com/medvend/portal/internal/profiles/domain"
	profilesvc "github.com/medvend/portal/internal/profiles/service"
)

type ProfileSource interface {
	Profile(ctx context.Context, id authdomain.Identity) (*profiledomain.Profile, error)
}

type PrescriptionFinder interface {
	FindForPatient(ctx context.Context, patientUID string) (*rxdomain.Prescription, error)
}

type PatientState int

const (
	StateNoPrescription PatientState = iota
	StateCard
)

// MedicalCard holds every field of the patient's card, already rendered.
type MedicalCard struct {
	Name        string
	CardID      string
	Email       string
	Updated     string
	Medicines   string
	Dosage      string
	RefillLimit string
	ExpiryDate  string
}

type PatientView struct {
	// Redirect, when not PageOther, sends the user away instead of rendering.
	Redirect Page
	Greeting string
	State    PatientState
	Card     *MedicalCard
}

// PatientLoader builds the patient dashboard for the signed-in patient.
type PatientLoader struct {
	profiles      ProfileSource
	prescriptions PrescriptionFinder
	loc           *time.Location
}

func NewPatientLoader(profiles ProfileSource, prescriptions PrescriptionFinder, loc *time.Location) *PatientLoader {
	return &PatientLoader{profiles: profiles, prescriptions: prescriptions, loc: loc}
}

// Load never fails the page. Any fetch failure, a missing profile included,
// renders StateNoPrescription; the cause is still returned so callers can log
// it. A missing prescription is not an error.
func (l *PatientLoader) Load(ctx context.Context, id authdomain.Identity) (PatientView, error) {
	view := PatientView{Greeting: id.Email, State: StateNoPrescription}

	profile, err := l.profiles.Profile(ctx, id)
	if err != nil {
		return view, err
	}

	if profile.Role == profiledomain.RoleDoctor {
		return PatientView{Redirect: PageDoctor}, nil
	}
	view.Greeting = id.DisplayName(profile.Name)

	rx, err := l.prescriptions.FindForPatient(ctx, id.UID)
	if errors.Is(err, rxdomain.ErrPrescriptionNotFound) {
		return view, nil
	}
	if err != nil {
		return view, err
	}

	view.State = StateCard
	view.Card = &MedicalCard{
		Name:        present.OrPlaceholder(profile.Name),
		CardID:      present.OrPlaceholder(profile.MedicalCardID),
		Email:       present.Or(profile.Email, id.Email),
		Updated:     present.FormatTimestamp(rx.LastUpdated, l.loc),
		Medicines:   present.Medicines(rx.Medicines),
		Dosage:      present.OrPlaceholder(rx.Dosage),
		RefillLimit: present.RefillText(rx.RefillLimit),
		ExpiryDate:  present.OrPlaceholder(rx.ExpiryDate),
	}
	return view, nil
}

type DoctorView struct {
	Redirect Page
	Greeting string
}

// DoctorLoader checks the doctor's role and fills the page header. It loads no
// patient data.
type DoctorLoader struct {
	profiles ProfileSource
}

func NewDoctorLoader(profiles ProfileSource) *DoctorLoader {
	return &DoctorLoader{profiles: profiles}
}

// Load fails closed: a role that cannot be read sends the caller to login and
// returns the cause.
func (l *DoctorLoader) Load(ctx context.Context, id authdomain.Identity) (DoctorView, error) {
	profile, err := l.profiles.Profile(ctx, id)
	if errors.Is(err, profiledomain.ErrProfileMissing) {
		return DoctorView{Redirect: PageLogin}, nil
	}
	if err != nil {
		return DoctorView{Redirect: PageLogin}, err
	}

	if profile.Role != profiledomain.RoleDoctor {
		return DoctorView{Redirect: PagePatient}, nil
	}
	return DoctorView{Greeting: id.DisplayName(profile.Name)}, nil
}

// FoundPatient is the patient card shown after a successful search.
type FoundPatient struct {
	UID    string
	Name   string
	Email  string
	CardID string
}

// SearchView is the outcome of a doctor's patient search. TargetUID is the
// identifier the next save will write to.
type SearchView struct {
	Query     string
	Found     *FoundPatient
	NotFound  present.Notice
	TargetUID string
}

type PatientFinder interface {
	FindPatientByEmail(ctx context.Context, raw string) (*profiledomain.Profile, error)
}

// Search runs a patient search and returns the view. Transport failures are
// also returned for logging.
func Search(ctx context.Context, finder PatientFinder, raw string) (SearchView, error) {
	view := SearchView{Query: raw}

	p, err := finder.FindPatientByEmail(ctx, raw)
	if err != nil {
		view.NotFound = present.ErrorNotice(err)
		var serr *profiledomain.SearchError
		if errors.As(err, &serr) {
			return view, err
		}
		return view, nil
	}

	view.Found = &FoundPatient{
		UID:    p.UID,
		Name:   present.OrPlaceholder(p.Name),
		Email:  present.Or(p.Email, profilesvc.NormalizeEmail(raw)),
		CardID: present.OrPlaceholder(p.MedicalCardID),
	}
	view.TargetUID = p.UID
	return view, nil
}
