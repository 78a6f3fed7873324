package auth

import (
	"regexp"
	"sort"
	"strings"

	"patient-portal/internal/model"
)

const MinPasswordLen = 6

var emailPattern = regexp.MustCompile(`\S+@\S+\.\S+`)

// FieldErrors maps a registration field to what is wrong with it.
type FieldErrors map[string]string

func (fe FieldErrors) Error() string {
	fields := make([]string, 0, len(fe))
	for f := range fe {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	parts := make([]string, len(fields))
	for i, f := range fields {
		parts[i] = f + ": " + fe[f]
	}
	return "invalid registration: " + strings.Join(parts, "; ")
}

// ValidateRegistration applies the registration form rules. It returns nil
// or a FieldErrors.
func ValidateRegistration(reg model.Registration) error {
	errs := FieldErrors{}
	if strings.TrimSpace(reg.FirstName) == "" {
		errs["firstName"] = "First name is required"
	}
	if strings.TrimSpace(reg.LastName) == "" {
		errs["lastName"] = "Last name is required"
	}
	switch {
	case reg.Email == "":
		errs["email"] = "Email is required"
	case !emailPattern.MatchString(reg.Email):
		errs["email"] = "Email is invalid"
	}
	if strings.TrimSpace(reg.Phone) == "" {
		errs["phone"] = "Phone is required"
	}
	if strings.TrimSpace(reg.DateOfBirth) == "" {
		errs["dateOfBirth"] = "Date of birth is required"
	}
	switch {
	case reg.Password == "":
		errs["password"] = "Password is required"
	case len(reg.Password) < MinPasswordLen:
		errs["password"] = "Password must be at least 6 characters"
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}
