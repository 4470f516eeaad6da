package domain

// Identity is a signed-in user as reported by the auth provider.
// UID is the provider's opaque identifier; Email is the fallback display label.
type Identity struct {
	UID   string `json:"uid"`
	Email string `json:"email,omitempty"`
}

// DisplayName returns name when set, otherwise the identity's email.
func (i Identity) DisplayName(name string) string {
	if name != "" {
		return name
	}
	return i.Email
}
