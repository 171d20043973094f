package domain

import (
	"errors"
	"sort"
	"strings"
)

var (
	ErrDuplicateUsername  = errors.New("a user with that username already exists")
	ErrAccountNotFound    = errors.New("account not found")
	ErrInvalidPeriod      = errors.New("invalid period")
	ErrInvalidCredentials = errors.New("no active account found with the given credentials")
	ErrInvalidToken       = errors.New("token is invalid or expired")
)

// MalformedError reports input that could not be decoded at all
// (bad JSON, bad CSV, wrong file type).
type MalformedError struct {
	Msg string
}

func (e *MalformedError) Error() string { return e.Msg }

func Malformed(msg string) error { return &MalformedError{Msg: msg} }

// FieldErrors maps a field name to its human readable validation messages.
type FieldErrors map[string][]string

func (fe FieldErrors) Add(field, msg string) {
	fe[field] = append(fe[field], msg)
}

// Error renders "field: msg; field: msg" with fields sorted by name.
func (fe FieldErrors) Error() string {
	fields := make([]string, 0, len(fe))
	for f := range fe {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		for _, msg := range fe[f] {
			parts = append(parts, f+": "+msg)
		}
	}
	return strings.Join(parts, "; ")
}
