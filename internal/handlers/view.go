package handlers

import (
	"time"

	"github.com/lehigh-university-libraries/artexplorer/internal/bans"
	"github.com/lehigh-university-libraries/artexplorer/internal/explorer"
	"github.com/lehigh-university-libraries/artexplorer/internal/history"
	"github.com/lehigh-university-libraries/artexplorer/internal/models"
)

const descriptionLength = 200

// AttributeView is one cell of the attribute grid
type AttributeView struct {
	Label  string `json:"label"`
	Value  string `json:"value"`
	Banned bool   `json:"banned"`
}

// ArtworkView is the current artwork as shown by the viewer
type ArtworkView struct {
	ObjectID    int             `json:"objectid,omitempty"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	ImageURL    string          `json:"image_url,omitempty"`
	URL         string          `json:"url,omitempty"`
	Attributes  []AttributeView `json:"attributes"`
}

// SessionView is the JSON shape of a session
type SessionView struct {
	ID           string           `json:"id"`
	CreatedAt    time.Time        `json:"created_at"`
	Current      *ArtworkView     `json:"current"`
	Recent       []explorer.Entry `json:"recent"`
	History      []explorer.Entry `json:"history"`
	HistoryCount int              `json:"history_count"`
	Bans         bans.List        `json:"bans"`
	Fetching     bool             `json:"fetching"`
}

func newArtworkView(r *models.ArtworkRecord, list bans.List) *ArtworkView {
	if r == nil {
		return nil
	}

	attrs := r.Attributes()
	views := make([]AttributeView, 0, len(attrs))
	for _, a := range attrs {
		views = append(views, AttributeView{
			Label:  a.Label,
			Value:  a.Value,
			Banned: list.Contains(a.Value),
		})
	}

	return &ArtworkView{
		ObjectID:    r.ObjectID,
		Title:       r.DisplayTitle(),
		Description: r.ShortDescription(descriptionLength),
		ImageURL:    r.PrimaryImageURL,
		URL:         r.URL,
		Attributes:  views,
	}
}

func newSessionView(s explorer.Snapshot) SessionView {
	recent := s.History
	if len(recent) > history.RecentSize {
		recent = recent[:history.RecentSize]
	}

	return SessionView{
		ID:           s.ID,
		CreatedAt:    s.CreatedAt,
		Current:      newArtworkView(s.Current, s.Bans),
		Recent:       recent,
		History:      s.History,
		HistoryCount: len(s.History),
		Bans:         s.Bans,
		Fetching:     s.Fetching,
	}
}
