package validate

import (
	"net/mail"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/ANIKETSHETTY47/sensor-readings-api/internal/domain"
)

const (
	FieldUsername = "username"
	FieldEmail    = "email"
	FieldPassword = "password"
	FieldRefresh  = "refresh"

	maxUsernameLen = 150
	maxEmailLen    = 254
	maxPasswordLen = 128
)

var usernamePattern = regexp.MustCompile(`^[\p{L}\p{N}_.@+-]+$`)

// Account checks registration input. The username doubles as the
// account email, so it must also be an email address; those failures
// are reported under "email". Uniqueness is left to the store.
func Account(username, password string) domain.FieldErrors {
	errs := domain.FieldErrors{}

	switch u := strings.TrimSpace(username); {
	case username == "":
		errs.Add(FieldUsername, msgRequired)
	case u == "":
		errs.Add(FieldUsername, msgBlank)
	case utf8.RuneCountInString(u) > maxUsernameLen:
		errs.Add(FieldUsername, "Ensure this field has no more than 150 characters.")
	case !usernamePattern.MatchString(u):
		errs.Add(FieldUsername, "Enter a valid username. This value may contain only letters, numbers, and @/./+/-/_ characters.")
	}

	if u := strings.TrimSpace(username); u != "" {
		switch {
		case utf8.RuneCountInString(u) > maxEmailLen:
			errs.Add(FieldEmail, "Ensure this field has no more than 254 characters.")
		case !isEmail(u):
			errs.Add(FieldEmail, "Enter a valid email address.")
		}
	}

	switch {
	case password == "":
		errs.Add(FieldPassword, msgRequired)
	case strings.TrimSpace(password) == "":
		errs.Add(FieldPassword, msgBlank)
	case utf8.RuneCountInString(password) > maxPasswordLen:
		errs.Add(FieldPassword, "Ensure this field has no more than 128 characters.")
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// isEmail accepts a bare addr-spec whose domain has at least two
// non-empty labels.
func isEmail(s string) bool {
	addr, err := mail.ParseAddress(s)
	if err != nil || addr.Name != "" || addr.Address != s {
		return false
	}
	host := s[strings.LastIndexByte(s, '@')+1:]
	labels := strings.Split(host, ".")
	if len(labels) < 2 {
		return false
	}
	for _, l := range labels {
		if l == "" {
			return false
		}
	}
	return true
}

// Credentials checks that a login request carries both fields.
func Credentials(username, password string) domain.FieldErrors {
	errs := domain.FieldErrors{}
	if strings.TrimSpace(username) == "" {
		errs.Add(FieldUsername, msgRequired)
	}
	if password == "" {
		errs.Add(FieldPassword, msgRequired)
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

func RefreshToken(token string) domain.FieldErrors {
	if strings.TrimSpace(token) == "" {
		return domain.FieldErrors{FieldRefresh: {msgRequired}}
	}
	return nil
}
