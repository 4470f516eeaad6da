// Package present turns domain values into the text shown on pages.
package present

import (
	"errors"
	"fmt"
	"time"

	authdomain "github.com/medvend/portal/internal/auth/domain"
	rxdomain "github.com/medvend/portal/internal/prescriptions/domain"
	profiledomain "github.com/medvend/portal/internal/profiles/domain"
	"github.com/medvend/portal/internal/validation"
)

// Placeholder stands in for any absent optional field.
const Placeholder = "—"

// DateLayout renders dates as "17 February 2024".
const DateLayout = "2 January 2006"

func OrPlaceholder(s string) string {
	if s == "" {
		return Placeholder
	}
	return s
}

// Or returns the first non-empty value, or the placeholder.
func Or(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return Placeholder
}

// FormatDate converts t to a calendar date in loc.
func FormatDate(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(DateLayout)
}

func FormatTimestamp(t *time.Time, loc *time.Location) string {
	if t == nil || t.IsZero() {
		return Placeholder
	}
	return FormatDate(*t, loc)
}

func RefillText(n *int64) string {
	if n == nil {
		return Placeholder
	}
	return fmt.Sprintf("%d refills", *n)
}

func Medicines(m rxdomain.Medicines) string {
	return OrPlaceholder(m.String())
}

// Notice is an inline message element. The zero value is hidden.
type Notice struct {
	Text string
	Kind string
}

func (n Notice) Visible() bool { return n.Text != "" }

func ErrorNotice(err error) Notice {
	return Notice{Text: Message(err), Kind: "error"}
}

// Message maps an error to the sentence shown to the user.
func Message(err error) string {
	var (
		verr    *validation.Error
		authErr *authdomain.AuthError
		lookup  *profiledomain.LookupError
		search  *profiledomain.SearchError
		save    *rxdomain.SaveError
	)

	switch {
	case err == nil:
		return ""
	case errors.As(err, &verr):
		return verr.Message
	case errors.As(err, &authErr):
		return authErr.Error()
	case errors.Is(err, profiledomain.ErrProfileMissing):
		return "User profile not found in database. Contact admin."
	case errors.As(err, &lookup):
		return "Error loading user profile: " + lookup.Err.Error()
	case errors.Is(err, profiledomain.ErrPatientNotFound):
		return "No patient found with this email."
	case errors.As(err, &search):
		return "Error searching for patient: " + search.Err.Error()
	case errors.As(err, &save):
		return "Error saving prescription: " + save.Err.Error()
	default:
		return "Something went wrong: " + err.Error()
	}
}
