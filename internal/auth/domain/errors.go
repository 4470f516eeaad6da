package domain

import (
	"errors"
	"strings"
)

var ErrInvalidSession = errors.New("invalid or expired session")

// Code names an auth provider failure reason.
type Code string

const (
	CodeUserNotFound       Code = "auth/user-not-found"
	CodeWrongPassword      Code = "auth/wrong-password"
	CodeInvalidEmail       Code = "auth/invalid-email"
	CodeTooManyRequests    Code = "auth/too-many-requests"
	CodeInvalidCredential  Code = "auth/invalid-credential"
	CodeUnauthenticated    Code = "auth/unauthenticated"
	CodeMissingCredentials Code = "auth/missing-credentials"
)

var messages = map[Code]string{
	CodeUserNotFound:       "No account found with this email.",
	CodeWrongPassword:      "Incorrect password. Please try again.",
	CodeInvalidEmail:       "Invalid email address format.",
	CodeTooManyRequests:    "Too many failed attempts. Try again later.",
	CodeInvalidCredential:  "Invalid email or password.",
	CodeMissingCredentials: "Please enter both email and password.",
}

// providerCodes maps Identity Toolkit error strings to codes.
var providerCodes = map[string]Code{
	"EMAIL_NOT_FOUND":             CodeUserNotFound,
	"USER_NOT_FOUND":              CodeUserNotFound,
	"INVALID_PASSWORD":            CodeWrongPassword,
	"INVALID_EMAIL":               CodeInvalidEmail,
	"TOO_MANY_ATTEMPTS_TRY_LATER": CodeTooManyRequests,
	"INVALID_LOGIN_CREDENTIALS":   CodeInvalidCredential,
	"INVALID_ID_TOKEN":            CodeInvalidCredential,
}

// AuthError is a sign-in or session failure. Known codes render through a fixed
// message table; anything else shows the provider's raw message.
type AuthError struct {
	Code    Code
	Message string
	Err     error
}

func (e *AuthError) Error() string {
	if msg, ok := messages[e.Code]; ok {
		return msg
	}
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return string(e.Code)
}

func (e *AuthError) Unwrap() error { return e.Err }

// CodeFromProvider extracts a code from messages such as
// "TOO_MANY_ATTEMPTS_TRY_LATER : Access to this account has been temporarily disabled".
func CodeFromProvider(raw string) (Code, bool) {
	token := strings.TrimSpace(raw)
	if i := strings.IndexAny(token, " :"); i >= 0 {
		token = token[:i]
	}
	code, ok := providerCodes[token]
	return code, ok
}

// NewProviderError builds an AuthError from a provider failure message.
func NewProviderError(raw string, err error) *AuthError {
	code, _ := CodeFromProvider(raw)
	return &AuthError{Code: code, Message: raw, Err: err}
}
