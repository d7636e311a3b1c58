// Package render formats artworks, ban lists and history for the terminal.
package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lehigh-university-libraries/artexplorer/internal/bans"
	"github.com/lehigh-university-libraries/artexplorer/internal/explorer"
	"github.com/lehigh-university-libraries/artexplorer/internal/history"
	"github.com/lehigh-university-libraries/artexplorer/internal/models"
)

// DescriptionLength is how much of the description a card shows
const DescriptionLength = 200

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#E8C07D"))
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8A8F98")).Width(22)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#E6E6E6"))
	bannedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B")).Strikethrough(true)
	badgeStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FF6B6B"))
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#5C6370")).Italic(true)
	cardStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#61AFEF")).Padding(0, 1)
	headerStyle = lipgloss.NewStyle().Bold(true).Underline(true)
)

// Card renders an artwork with its numbered attribute grid. Attribute values
// present in the ban list are marked BANNED.
func Card(r *models.ArtworkRecord, list bans.List) string {
	if r == nil {
		return cardStyle.Render(mutedStyle.Render("No artwork to display"))
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(r.DisplayTitle()))
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render(r.ShortDescription(DescriptionLength)))
	b.WriteString("\n\n")

	for i, a := range r.Attributes() {
		label := labelStyle.Render(fmt.Sprintf("[%d] %s", i+1, a.Label))
		if list.Contains(a.Value) {
			b.WriteString(label + bannedStyle.Render(a.Value) + " " + badgeStyle.Render("BANNED"))
		} else {
			b.WriteString(label + valueStyle.Render(a.Value))
		}
		b.WriteString("\n")
	}

	if r.PrimaryImageURL != "" {
		b.WriteString("\n")
		b.WriteString(mutedStyle.Render(r.PrimaryImageURL))
	} else {
		b.WriteString("\n")
		b.WriteString(mutedStyle.Render("Image Not Available"))
	}

	return cardStyle.Render(b.String())
}

// BanList renders the active filters
func BanList(list bans.List) string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("Your Art Filters"))
	b.WriteString("\n")

	if len(list) == 0 {
		b.WriteString(mutedStyle.Render("No filters active - seeing all artworks"))
		return b.String()
	}

	for _, term := range list {
		b.WriteString("  × ")
		b.WriteString(valueStyle.Render(term))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// History renders history entries with a cursor marker. Banned entries are
// flagged.
func History(entries []explorer.Entry, cursor int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", headerStyle.Render(fmt.Sprintf("All Viewed Artworks (%d)", len(entries))))

	if len(entries) == 0 {
		b.WriteString(mutedStyle.Render("No artworks viewed yet"))
		return b.String()
	}

	for i, e := range entries {
		marker := "  "
		if i == cursor {
			marker = "> "
		}
		line := marker + e.Artwork.DisplayTitle()
		if creator := e.Artwork.CreatorName(); creator != "" {
			line += ", " + creator
		}
		if i < history.RecentSize {
			line += " " + mutedStyle.Render("(recent)")
		}
		if e.Banned {
			line = bannedStyle.Render(line) + " " + badgeStyle.Render("BANNED")
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
