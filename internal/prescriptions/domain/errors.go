package domain

import "errors"

var ErrPrescriptionNotFound = errors.New("prescription not found")

// SaveError is a transport failure while writing a prescription.
type SaveError struct {
	Err error
}

func (e *SaveError) Error() string {
	return "error saving prescription: " + e.Err.Error()
}

func (e *SaveError) Unwrap() error { return e.Err }
