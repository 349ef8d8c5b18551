// Package export renders a pipeline result into the single JSON document
// that downstream consumers read. Output is deterministic: identical inputs
// marshal to byte-identical files.
package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/rs/zerolog/log"

	"uae_edu/internal/app"
	"uae_edu/internal/domain"
)

// Document is the exported file layout.
type Document struct {
	Country      domain.CountryProfile `json:"country"`
	Universities []*domain.University  `json:"universities"`
	Courses      []*domain.Course      `json:"courses"`
	Metadata     Metadata              `json:"metadata"`
}

type Metadata struct {
	RunStartedAt     time.Time             `json:"run_started_at"`
	RunCompletedAt   time.Time             `json:"run_completed_at"`
	Sources          []*domain.RunMetadata `json:"per_source"`
	ValidationErrors []string              `json:"validation_errors"`
}

// Build assembles the document with its canonical ordering: universities by
// name, courses by owning university then course name, ties broken by ID.
func Build(res *app.Result) *Document {
	unis := make([]*domain.University, len(res.Universities))
	copy(unis, res.Universities)
	sort.Slice(unis, func(i, j int) bool {
		if unis[i].Name != unis[j].Name {
			return unis[i].Name < unis[j].Name
		}
		return unis[i].ID < unis[j].ID
	})

	courses := make([]*domain.Course, len(res.Courses))
	copy(courses, res.Courses)
	sort.Slice(courses, func(i, j int) bool {
		if courses[i].UniversityName != courses[j].UniversityName {
			return courses[i].UniversityName < courses[j].UniversityName
		}
		if courses[i].Name != courses[j].Name {
			return courses[i].Name < courses[j].Name
		}
		return courses[i].ID < courses[j].ID
	})

	violations := res.Violations
	if violations == nil {
		violations = []string{}
	}
	return &Document{
		Country:      res.Country,
		Universities: unis,
		Courses:      courses,
		Metadata: Metadata{
			RunStartedAt:     res.StartedAt,
			RunCompletedAt:   res.CompletedAt,
			Sources:          res.Sources,
			ValidationErrors: violations,
		},
	}
}

// Write marshals the document and replaces path atomically: the bytes land
// in a temp file first, so a crash mid-write never leaves a truncated
// document behind.
func Write(doc *Document, path string) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}
	data = append(data, '\n')

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".uae_edu-*.json")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write document: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace output: %w", err)
	}
	log.Info().Str("path", path).Int("bytes", len(data)).Msg("document exported")
	return nil
}
