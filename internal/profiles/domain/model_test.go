package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseRole(t *testing.T) {
	assert.Equal(t, RoleDoctor, ParseRole("doctor"))

	for _, v := range []interface{}{"patient", "Doctor", "doctor ", "admin", "", nil, 1, true} {
		assert.Equal(t, RolePatient, ParseRole(v), "%#v", v)
	}
}

func TestRole_String(t *testing.T) {
	assert.Equal(t, "doctor", RoleDoctor.String())
	assert.Equal(t, "patient", RolePatient.String())
	assert.Equal(t, "patient", Role(0).String())
}

func TestLookupError(t *testing.T) {
	cause := errors.New("deadline exceeded")
	err := &LookupError{Err: cause}
	assert.Equal(t, "error loading user profile: deadline exceeded", err.Error())
	assert.ErrorIs(t, err, cause)

	serr := &SearchError{Err: cause}
	assert.Equal(t, "error searching for patient: deadline exceeded", serr.Error())
}
