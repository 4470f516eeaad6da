package domain

import "errors"

var (
	ErrProfileMissing  = errors.New("user profile not found")
	ErrPatientNotFound = errors.New("no patient found with this email")
)

// LookupError is a transport failure while reading a profile.
type LookupError struct {
	Err error
}

func (e *LookupError) Error() string {
	return "error loading user profile: " + e.Err.Error()
}

func (e *LookupError) Unwrap() error { return e.Err }

// SearchError is a transport failure during patient search.
type SearchError struct {
	Err error
}

func (e *SearchError) Error() string {
	return "error searching for patient: " + e.Err.Error()
}

func (e *SearchError) Unwrap() error { return e.Err }
