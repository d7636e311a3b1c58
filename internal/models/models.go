package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// ArtworkRecord represents an object record from the Harvard Art Museums API
type ArtworkRecord struct {
	ObjectID        int      `json:"objectid,omitempty" yaml:"objectid,omitempty"`
	Title           string   `json:"title,omitempty" yaml:"title,omitempty"`
	People          []Person `json:"people,omitempty" yaml:"people,omitempty"`
	Culture         string   `json:"culture,omitempty" yaml:"culture,omitempty"`
	Period          string   `json:"period,omitempty" yaml:"period,omitempty"`
	Century         Century  `json:"century,omitempty" yaml:"century,omitempty"`
	Technique       string   `json:"technique,omitempty" yaml:"technique,omitempty"`
	Classification  string   `json:"classification,omitempty" yaml:"classification,omitempty"`
	Dated           string   `json:"dated,omitempty" yaml:"dated,omitempty"`
	Description     string   `json:"description,omitempty" yaml:"description,omitempty"`
	PrimaryImageURL string   `json:"primaryimageurl,omitempty" yaml:"primaryimageurl,omitempty"`
	URL             string   `json:"url,omitempty" yaml:"url,omitempty"`
}

// Person is an entry of the record's people list
type Person struct {
	Name string `json:"name" yaml:"name"`
	Role string `json:"role,omitempty" yaml:"role,omitempty"`
}

// Century holds the century field as text. The API sends it as a string
// ("19th century") but older records carry a bare number.
type Century string

func (c *Century) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*c = ""
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*c = Century(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("century must be a string or number: %w", err)
	}
	if i, err := n.Int64(); err == nil {
		*c = Century(strconv.FormatInt(i, 10))
		return nil
	}
	*c = Century(n.String())
	return nil
}

// Attribute is a labelled, user-visible attribute value
type Attribute struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// CreatorName returns the name of the first listed person
func (r *ArtworkRecord) CreatorName() string {
	if r == nil || len(r.People) == 0 {
		return ""
	}
	return r.People[0].Name
}

// HasImage reports whether the record carries a usable primary image URL
func (r *ArtworkRecord) HasImage() bool {
	return r != nil && strings.TrimSpace(r.PrimaryImageURL) != ""
}

// DisplayTitle returns the title or "Untitled"
func (r *ArtworkRecord) DisplayTitle() string {
	if r == nil || r.Title == "" {
		return "Untitled"
	}
	return r.Title
}

// Attributes returns the bannable attributes shown to the user, in display
// order, skipping empty values.
func (r *ArtworkRecord) Attributes() []Attribute {
	if r == nil {
		return nil
	}

	all := []Attribute{
		{Label: "Artist", Value: r.CreatorName()},
		{Label: "Culture", Value: r.Culture},
		{Label: "Period", Value: r.Period},
		{Label: "Medium", Value: r.Technique},
		{Label: "Date", Value: r.Dated},
		{Label: "Classification", Value: r.Classification},
	}

	attrs := make([]Attribute, 0, len(all))
	for _, a := range all {
		if a.Value != "" {
			attrs = append(attrs, a)
		}
	}
	return attrs
}

// CheckedFields returns the named fields compared against ban terms.
// Empty fields are omitted.
func (r *ArtworkRecord) CheckedFields() []Attribute {
	if r == nil {
		return nil
	}

	all := []Attribute{
		{Label: "title", Value: r.Title},
		{Label: "artist", Value: r.CreatorName()},
		{Label: "culture", Value: r.Culture},
		{Label: "period", Value: r.Period},
		{Label: "century", Value: string(r.Century)},
		{Label: "technique", Value: r.Technique},
		{Label: "classification", Value: r.Classification},
		{Label: "dated", Value: r.Dated},
	}

	fields := make([]Attribute, 0, len(all))
	for _, f := range all {
		if f.Value != "" {
			fields = append(fields, f)
		}
	}
	return fields
}

// ShortDescription returns the description cut to maxLen runes
func (r *ArtworkRecord) ShortDescription(maxLen int) string {
	if r == nil || r.Description == "" {
		return "No description available"
	}
	runes := []rune(r.Description)
	if len(runes) <= maxLen {
		return r.Description
	}
	return string(runes[:maxLen])
}
