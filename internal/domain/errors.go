package domain

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrOrganizationNotFound is returned when the organization does not exist
// or its identifier cannot name one.
var ErrOrganizationNotFound = errors.New("organization not found")

// ErrInvalidOrganization marks a malformed organization identifier.
// It wraps ErrOrganizationNotFound.
var ErrInvalidOrganization = fmt.Errorf("invalid organization identifier: %w", ErrOrganizationNotFound)

var loginPattern = regexp.MustCompile(`^[A-Za-z0-9](?:[A-Za-z0-9-]{0,37}[A-Za-z0-9])?$`)

// ParseOrganizationLogin accepts either a bare login or a URL such as
// https://github.com/acme/ and returns the login.
func ParseOrganizationLogin(input string) (string, error) {
	s := strings.TrimSpace(input)
	s = strings.TrimRight(s, "/")
	if i := strings.LastIndex(s, "/"); i >= 0 {
		s = s[i+1:]
	}
	if !loginPattern.MatchString(s) {
		return "", fmt.Errorf("%q: %w", input, ErrInvalidOrganization)
	}
	return s, nil
}
