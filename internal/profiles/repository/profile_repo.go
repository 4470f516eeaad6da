package repository

import (
	"context"
	"errors"

	"github.com/medvend/portal/internal/profiles/domain"
	"github.com/medvend/portal/internal/store"
)

const (
	Collection = "users"

	fieldName          = "name"
	fieldEmail         = "email"
	fieldRole          = "role"
	fieldMedicalCardID = "medicalCardID"
)

// ProfileRepository reads user profiles from the document store.
type ProfileRepository struct {
	store store.Store
}

func NewProfileRepository(s store.Store) *ProfileRepository {
	return &ProfileRepository{store: s}
}

// GetByUID returns domain.ErrProfileMissing when no profile exists.
func (r *ProfileRepository) GetByUID(ctx context.Context, uid string) (*domain.Profile, error) {
	doc, err := r.store.Get(ctx, Collection, uid)
	if errors.Is(err, store.ErrNotFound) {
		return nil, domain.ErrProfileMissing
	}
	if err != nil {
		return nil, err
	}
	return toProfile(doc), nil
}

// FindPatientByEmail matches email exactly; stored emails are expected to be lower-case.
func (r *ProfileRepository) FindPatientByEmail(ctx context.Context, email string) (*domain.Profile, error) {
	doc, err := r.store.QueryOne(ctx, Collection,
		store.Eq(fieldEmail, email),
		store.Eq(fieldRole, domain.RolePatient.String()),
	)
	if errors.Is(err, store.ErrNotFound) {
		return nil, domain.ErrPatientNotFound
	}
	if err != nil {
		return nil, err
	}
	return toProfile(doc), nil
}

// FindPatientByCardID looks a patient up by the medical card printed for them.
func (r *ProfileRepository) FindPatientByCardID(ctx context.Context, cardID string) (*domain.Profile, error) {
	doc, err := r.store.QueryOne(ctx, Collection,
		store.Eq(fieldMedicalCardID, cardID),
		store.Eq(fieldRole, domain.RolePatient.String()),
	)
	if errors.Is(err, store.ErrNotFound) {
		return nil, domain.ErrPatientNotFound
	}
	if err != nil {
		return nil, err
	}
	return toProfile(doc), nil
}

func toProfile(doc *store.Document) *domain.Profile {
	p := &domain.Profile{
		UID:  doc.ID,
		Role: domain.ParseRole(doc.Fields[fieldRole]),
	}
	p.Name, _ = doc.Fields.String(fieldName)
	p.Email, _ = doc.Fields.String(fieldEmail)
	p.MedicalCardID, _ = doc.Fields.String(fieldMedicalCardID)
	return p
}
