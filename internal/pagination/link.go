// Package pagination infers collection sizes from the navigation metadata
// (RFC 8288 Link header) attached to paged REST responses.
package pagination

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Relation names used by paged GitHub listings.
const (
	RelFirst = "first"
	RelPrev  = "prev"
	RelNext  = "next"
	RelLast  = "last"
)

var (
	// ErrNoLastRelation is returned when the header carries no "last" relation,
	// which is the case for single-page listings and for the last page itself.
	ErrNoLastRelation = errors.New("no last relation in link header")
	// ErrInvalidPage is returned when the "last" relation has no usable page parameter.
	ErrInvalidPage = errors.New("invalid page parameter in last relation")
)

// Links maps a relation name to its target URL.
type Links map[string]string

// ParseLinkHeader parses entries of the form `<url>; rel="name"` separated by commas.
// Entries that are not well formed are skipped. A rel parameter may list several
// space-separated names, each of which is mapped to the same URL.
func ParseLinkHeader(header string) Links {
	links := make(Links)
	rest := header
	for {
		start := strings.IndexByte(rest, '<')
		if start < 0 {
			return links
		}
		end := strings.IndexByte(rest[start:], '>')
		if end < 0 {
			return links
		}
		target := rest[start+1 : start+end]
		rest = rest[start+end+1:]

		params := rest
		if next := strings.IndexByte(rest, ','); next >= 0 {
			params = rest[:next]
			rest = rest[next+1:]
		} else {
			rest = ""
		}

		for _, param := range strings.Split(params, ";") {
			key, value, ok := strings.Cut(strings.TrimSpace(param), "=")
			if !ok || !strings.EqualFold(strings.TrimSpace(key), "rel") {
				continue
			}
			value = strings.Trim(strings.TrimSpace(value), `"`)
			for _, rel := range strings.Fields(value) {
				rel = strings.ToLower(rel)
				if _, seen := links[rel]; !seen {
					links[rel] = target
				}
			}
		}
	}
}

// LastPage returns the page parameter of the "last" relation.
func LastPage(header string) (int, error) {
	target, ok := ParseLinkHeader(header)[RelLast]
	if !ok {
		return 0, ErrNoLastRelation
	}
	u, err := url.Parse(target)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidPage, err)
	}
	raw := u.Query().Get("page")
	if raw == "" {
		return 0, fmt.Errorf("%w: %q has no page parameter", ErrInvalidPage, target)
	}
	page, err := strconv.Atoi(raw)
	if err != nil || page < 1 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidPage, raw)
	}
	return page, nil
}

// ResolvePageCount returns the total page count encoded in the "last" relation,
// or 0 when it is absent or unusable. Zero means "unknown total / not multi-page",
// not "one page of zero items".
func ResolvePageCount(header string) int {
	page, err := LastPage(header)
	if err != nil {
		return 0
	}
	return page
}
