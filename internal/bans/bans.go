// Package bans holds the user's ban list and the acceptance predicate
// applied to every candidate and history selection.
package bans

import (
	"fmt"
	"slices"
	"strings"

	"github.com/lehigh-university-libraries/artexplorer/internal/models"
)

// List is an ordered set of ban terms. Order follows insertion.
type List []string

// Contains reports whether term is in the list (exact match)
func (l List) Contains(term string) bool {
	return slices.Contains(l, term)
}

// Toggle returns a new list without term if it was present, or with term
// appended if it was absent. Blank terms leave the list unchanged.
func Toggle(term string, l List) List {
	if strings.TrimSpace(term) == "" {
		return slices.Clone(l)
	}

	if l.Contains(term) {
		out := make(List, 0, len(l)-1)
		for _, t := range l {
			if t != term {
				out = append(out, t)
			}
		}
		return out
	}

	out := make(List, 0, len(l)+1)
	out = append(out, l...)
	return append(out, term)
}

// Clear returns an empty list
func Clear(List) List {
	return List{}
}

// IsBanned reports whether a record must not be displayed
func IsBanned(r *models.ArtworkRecord, l List) bool {
	return Reason(r, l) != ""
}

// Reason explains why a record is not acceptable, or returns "" when it is.
func Reason(r *models.ArtworkRecord, l List) string {
	if r == nil {
		return "no record"
	}

	if field, term, ok := Match(r, l); ok {
		return fmt.Sprintf("%s matches banned term %q", field, term)
	}

	if !r.HasImage() {
		return "no primary image"
	}

	return ""
}

// Match returns the first checked field containing a ban term,
// compared case-insensitively.
func Match(r *models.ArtworkRecord, l List) (field, term string, ok bool) {
	if r == nil || len(l) == 0 {
		return "", "", false
	}

	for _, f := range r.CheckedFields() {
		value := strings.ToLower(f.Value)
		for _, t := range l {
			// an empty term would match everything
			if t == "" {
				continue
			}
			if strings.Contains(value, strings.ToLower(t)) {
				return f.Label, t, true
			}
		}
	}

	return "", "", false
}
