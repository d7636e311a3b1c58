// Package history records the artworks accepted in a session, most recent
// first, and re-checks an entry against the ban list when it is selected again.
package history

import (
	"errors"

	"github.com/lehigh-university-libraries/artexplorer/internal/bans"
	"github.com/lehigh-university-libraries/artexplorer/internal/models"
)

// RecentSize is how many entries viewers show in the recent strip
const RecentSize = 4

// ErrRejected is returned when a selected entry is banned by the current list
var ErrRejected = errors.New("selection rejected: artwork is banned")

// History is the list of accepted artworks, most recent first
type History struct {
	entries []*models.ArtworkRecord
}

// Add records an accepted artwork at the front
func (h *History) Add(r *models.ArtworkRecord) {
	if r == nil {
		return
	}
	h.entries = append([]*models.ArtworkRecord{r}, h.entries...)
}

// Len returns the number of entries
func (h *History) Len() int {
	return len(h.entries)
}

// At returns entry i, where 0 is the most recent
func (h *History) At(i int) (*models.ArtworkRecord, bool) {
	if i < 0 || i >= len(h.entries) {
		return nil, false
	}
	return h.entries[i], true
}

// Entries returns a copy of all entries, most recent first
func (h *History) Entries() []*models.ArtworkRecord {
	out := make([]*models.ArtworkRecord, len(h.entries))
	copy(out, h.entries)
	return out
}

// Recent returns up to n most recent entries
func (h *History) Recent(n int) []*models.ArtworkRecord {
	if n > len(h.entries) {
		n = len(h.entries)
	}
	if n < 0 {
		n = 0
	}
	out := make([]*models.ArtworkRecord, n)
	copy(out, h.entries[:n])
	return out
}

// Select returns r unchanged when it passes list, or ErrRejected
func Select(r *models.ArtworkRecord, list bans.List) (*models.ArtworkRecord, error) {
	if bans.IsBanned(r, list) {
		return nil, ErrRejected
	}
	return r, nil
}
