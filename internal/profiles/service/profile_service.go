package service

import (
	"context"
	"errors"
	"strings"

	authdomain "github.com/medvend/portal/internal/auth/domain"
	"github.com/medvend/portal/internal/profiles/domain"
	"github.com/medvend/portal/internal/validation"
)

// ProfileReader is the read side of the profile repository.
type ProfileReader interface {
	GetByUID(ctx context.Context, uid string) (*domain.Profile, error)
	FindPatientByEmail(ctx context.Context, email string) (*domain.Profile, error)
	FindPatientByCardID(ctx context.Context, cardID string) (*domain.Profile, error)
}

// RoleResolver maps a signed-in identity to its role.
type RoleResolver struct {
	profiles ProfileReader
}

func NewRoleResolver(profiles ProfileReader) *RoleResolver {
	return &RoleResolver{profiles: profiles}
}

// Resolve returns domain.ErrProfileMissing when the identity has no profile and
// *domain.LookupError when the lookup itself fails. It never retries.
func (r *RoleResolver) Resolve(ctx context.Context, id authdomain.Identity) (domain.Role, error) {
	p, err := r.Profile(ctx, id)
	if err != nil {
		return domain.RolePatient, err
	}
	return p.Role, nil
}

// Profile is Resolve's lookup, returning the whole profile.
func (r *RoleResolver) Profile(ctx context.Context, id authdomain.Identity) (*domain.Profile, error) {
	p, err := r.profiles.GetByUID(ctx, id.UID)
	if errors.Is(err, domain.ErrProfileMissing) {
		return nil, err
	}
	if err != nil {
		return nil, &domain.LookupError{Err: err}
	}
	return p, nil
}

// PatientSearch finds patients for the doctor dashboard.
type PatientSearch struct {
	profiles ProfileReader
}

func NewPatientSearch(profiles ProfileReader) *PatientSearch {
	return &PatientSearch{profiles: profiles}
}

func NormalizeEmail(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// FindPatientByEmail returns the patient whose email equals the normalized input.
// Errors: *validation.Error for empty input, domain.ErrPatientNotFound, *domain.SearchError.
func (s *PatientSearch) FindPatientByEmail(ctx context.Context, raw string) (*domain.Profile, error) {
	email := NormalizeEmail(raw)
	if email == "" {
		return nil, validation.New("Please enter a patient email address.", "searchEmail")
	}
	return s.wrap(s.profiles.FindPatientByEmail(ctx, email))
}

// FindPatientByCardID is the device lookup by medical card.
func (s *PatientSearch) FindPatientByCardID(ctx context.Context, cardID string) (*domain.Profile, error) {
	cardID = strings.TrimSpace(cardID)
	if cardID == "" {
		return nil, validation.New("A medical card ID is required.", "cardID")
	}
	return s.wrap(s.profiles.FindPatientByCardID(ctx, cardID))
}

func (s *PatientSearch) wrap(p *domain.Profile, err error) (*domain.Profile, error) {
	if errors.Is(err, domain.ErrPatientNotFound) {
		return nil, err
	}
	if err != nil {
		return nil, &domain.SearchError{Err: err}
	}
	return p, nil
}
