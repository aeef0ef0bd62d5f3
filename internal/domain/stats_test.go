package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetric(t *testing.T) {
	resolved := Resolved(12)
	assert.True(t, resolved.IsResolved())
	assert.Equal(t, 12, resolved.OrZero())

	zero := Resolved(0)
	assert.True(t, zero.IsResolved())
	assert.Equal(t, 0, zero.OrZero())

	reason := errors.New("timeout")
	unavailable := Unavailable(reason)
	assert.False(t, unavailable.IsResolved())
	assert.Equal(t, 0, unavailable.OrZero())
	assert.ErrorIs(t, unavailable.Reason, reason)

	assert.ErrorIs(t, Unavailable(nil).Reason, ErrMetricUnavailable)
}

func TestFold(t *testing.T) {
	testCases := []struct {
		name     string
		stats    []RepositoryStats
		expected Totals
	}{
		{name: "empty", expected: Totals{}},
		{
			name: "sums resolved metrics",
			stats: []RepositoryStats{
				{Name: "a", Issues: Resolved(42), Commits: Resolved(88)},
				{Name: "b", Issues: Resolved(8), Commits: Resolved(12)},
			},
			expected: Totals{Issues: 50, Commits: 100},
		},
		{
			name: "unavailable metrics count as zero",
			stats: []RepositoryStats{
				{Name: "a", Issues: Resolved(42), Commits: Unavailable(errors.New("409"))},
				{Name: "b", Issues: Unavailable(nil), Commits: Resolved(3)},
			},
			expected: Totals{Issues: 42, Commits: 3},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, Fold(tc.stats))
		})
	}
}

func TestOrganization_Link(t *testing.T) {
	assert.Equal(t, "https://acme.dev", Organization{Blog: "https://acme.dev", HTMLURL: "https://github.com/acme"}.Link())
	assert.Equal(t, "https://github.com/acme", Organization{HTMLURL: "https://github.com/acme"}.Link())
}

func TestParseOrganizationLogin(t *testing.T) {
	testCases := []struct {
		input    string
		expected string
		valid    bool
	}{
		{input: "acme", expected: "acme", valid: true},
		{input: "  acme-labs ", expected: "acme-labs", valid: true},
		{input: "https://github.com/acme", expected: "acme", valid: true},
		{input: "https://github.com/acme/", expected: "acme", valid: true},
		{input: "github.com/Acme42", expected: "Acme42", valid: true},
		{input: ""},
		{input: "-acme"},
		{input: "acme-"},
		{input: "ac me"},
		{input: "https://github.com/"},
		{input: "a123456789012345678901234567890123456789"},
	}
	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			login, err := ParseOrganizationLogin(tc.input)
			if !tc.valid {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidOrganization)
				assert.ErrorIs(t, err, ErrOrganizationNotFound)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, login)
		})
	}
}
