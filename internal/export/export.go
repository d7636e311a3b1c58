package export

import (
	"bufio"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/lehigh-university-libraries/artexplorer/internal/models"
	"github.com/parquet-go/parquet-go"
	"gopkg.in/yaml.v3"
)

// Row is one exported artwork, flattened for columnar formats
type Row struct {
	ObjectID        int64  `json:"objectid" yaml:"objectid" parquet:"objectid"`
	Title           string `json:"title" yaml:"title" parquet:"title"`
	Artist          string `json:"artist,omitempty" yaml:"artist,omitempty" parquet:"artist,optional"`
	Culture         string `json:"culture,omitempty" yaml:"culture,omitempty" parquet:"culture,optional"`
	Period          string `json:"period,omitempty" yaml:"period,omitempty" parquet:"period,optional"`
	Century         string `json:"century,omitempty" yaml:"century,omitempty" parquet:"century,optional"`
	Technique       string `json:"technique,omitempty" yaml:"technique,omitempty" parquet:"technique,optional"`
	Classification  string `json:"classification,omitempty" yaml:"classification,omitempty" parquet:"classification,optional"`
	Dated           string `json:"dated,omitempty" yaml:"dated,omitempty" parquet:"dated,optional"`
	Description     string `json:"description,omitempty" yaml:"description,omitempty" parquet:"description,optional"`
	PrimaryImageURL string `json:"primaryimageurl" yaml:"primaryimageurl" parquet:"primaryimageurl"`
	URL             string `json:"url,omitempty" yaml:"url,omitempty" parquet:"url,optional"`
}

// Header describes how a YAML export was produced
type Header struct {
	SampledAt string   `yaml:"sampledat"`
	Count     int      `yaml:"count"`
	Bans      []string `yaml:"bans"`
}

// Document is the YAML export layout
type Document struct {
	Header  Header `yaml:"header"`
	Records []Row  `yaml:"records"`
}

// NewRow flattens a record
func NewRow(r *models.ArtworkRecord) Row {
	return Row{
		ObjectID:        int64(r.ObjectID),
		Title:           r.Title,
		Artist:          r.CreatorName(),
		Culture:         r.Culture,
		Period:          r.Period,
		Century:         string(r.Century),
		Technique:       r.Technique,
		Classification:  r.Classification,
		Dated:           r.Dated,
		Description:     r.Description,
		PrimaryImageURL: r.PrimaryImageURL,
		URL:             r.URL,
	}
}

// Write saves records to path in the format given by its extension:
// .parquet, .jsonl or .yaml/.yml.
func Write(path string, records []*models.ArtworkRecord, bans []string) error {
	rows := make([]Row, 0, len(records))
	for _, r := range records {
		if r != nil {
			rows = append(rows, NewRow(r))
		}
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	var err error
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".parquet":
		err = writeParquet(path, rows)
	case ".jsonl":
		err = writeJSONL(path, rows)
	case ".yaml", ".yml":
		err = writeYAML(path, rows, bans)
	default:
		return fmt.Errorf("unsupported file format: %s (supported: .parquet, .jsonl, .yaml)", ext)
	}
	if err != nil {
		return err
	}

	slog.Info("Exported artworks", "path", path, "records", len(rows))
	return nil
}

func writeParquet(path string, rows []Row) error {
	if err := parquet.WriteFile(path, rows); err != nil {
		return fmt.Errorf("failed to write parquet file: %w", err)
	}
	return nil
}

func writeJSONL(path string, rows []Row) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create JSONL file: %w", err)
	}
	defer file.Close()

	w := bufio.NewWriter(file)
	enc := json.NewEncoder(w)
	for i, row := range rows {
		if err := enc.Encode(row); err != nil {
			return fmt.Errorf("failed to encode record %d: %w", i, err)
		}
	}

	if err := w.Flush(); err != nil {
		return fmt.Errorf("failed to write JSONL file: %w", err)
	}
	return file.Close()
}

func writeYAML(path string, rows []Row, bans []string) error {
	doc := Document{
		Header: Header{
			SampledAt: time.Now().UTC().Format(time.RFC3339),
			Count:     len(rows),
			Bans:      bans,
		},
		Records: rows,
	}

	data, err := yaml.Marshal(&doc)
	if err != nil {
		return fmt.Errorf("failed to marshal YAML: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write YAML file: %w", err)
	}
	return nil
}
