package render

import (
	"strings"
	"testing"

	"github.com/lehigh-university-libraries/artexplorer/internal/bans"
	"github.com/lehigh-university-libraries/artexplorer/internal/explorer"
	"github.com/lehigh-university-libraries/artexplorer/internal/models"
	"github.com/stretchr/testify/assert"
)

var bowl = &models.ArtworkRecord{
	Title:           "Ritual Bowl",
	People:          []models.Person{{Name: "Unknown"}},
	Culture:         "Chinese",
	Technique:       "Bronze casting",
	Description:     strings.Repeat("x", 300),
	PrimaryImageURL: "https://nrs.harvard.edu/bowl",
}

func TestCard(t *testing.T) {
	out := Card(bowl, bans.List{"Chinese"})

	assert.Contains(t, out, "Ritual Bowl")
	assert.Contains(t, out, "[1] Artist")
	assert.Contains(t, out, "[3] Medium")
	assert.Contains(t, out, "Bronze casting")
	assert.Contains(t, out, "BANNED")
	assert.Contains(t, out, "https://nrs.harvard.edu/bowl")
	assert.NotContains(t, out, strings.Repeat("x", 201))
}

func TestCardWithoutBans(t *testing.T) {
	assert.NotContains(t, Card(bowl, nil), "BANNED")
}

func TestCardEmpty(t *testing.T) {
	assert.Contains(t, Card(nil, nil), "No artwork to display")
}

func TestBanList(t *testing.T) {
	assert.Contains(t, BanList(nil), "No filters active")

	out := BanList(bans.List{"Bronze", "Prints"})
	assert.Contains(t, out, "Bronze")
	assert.Contains(t, out, "Prints")
}

func TestHistory(t *testing.T) {
	assert.Contains(t, History(nil, 0), "No artworks viewed yet")

	out := History([]explorer.Entry{
		{Index: 0, Artwork: bowl, Banned: true},
		{Index: 1, Artwork: &models.ArtworkRecord{Title: "Print"}},
	}, 1)

	assert.Contains(t, out, "All Viewed Artworks (2)")
	assert.Contains(t, out, "Ritual Bowl")
	assert.Contains(t, out, "> Print")
	assert.Contains(t, out, "BANNED")
}
