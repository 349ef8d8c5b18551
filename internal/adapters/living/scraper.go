// Package living extracts cost-of-living reference data from a single
// static guide page. Unlike the other sources it yields one fixed-shape
// record per run, not a per-entity sequence.
package living

import (
	"bytes"
	"context"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog/log"

	"uae_edu/internal/domain"
)

var (
	rangeRe   = regexp.MustCompile(`(?i)AED\s*(\d[\d,]*)\s*[-–]\s*(?:AED\s*)?(\d[\d,]*)`)
	totalRe   = regexp.MustCompile(`(?i)AED\s*(\d[\d,]*)\s*[-–]\s*AED\s*(\d[\d,]*)\s*per\s*month`)
	tuitionRe = regexp.MustCompile(`(?i)tuition[^.]{0,200}?AED\s*(\d[\d,]*)\s*(?:[-–]|to)\s*(?:AED\s*)?(\d[\d,]*)`)
)

// Table-row labels mapped to the component they describe.
var componentLabels = map[string]string{
	"accommodation": "accommodation",
	"housing":       "accommodation",
	"rent":          "accommodation",
	"food":          "food",
	"groceries":     "food",
	"dining":        "food",
	"transport":     "transport",
	"commute":       "transport",
	"utilities":     "utilities",
	"bills":         "utilities",
}

type Scraper struct {
	fetch domain.Fetcher
	url   string
	now   func() time.Time
}

func New(fetch domain.Fetcher, url string) *Scraper {
	return &Scraper{fetch: fetch, url: url, now: time.Now}
}

func (s *Scraper) Name() string { return domain.SourceLiving }

// Extract parses the guide page into a single cost-of-living RawRecord.
// When the page cannot be fetched or yields nothing usable, the record
// carries no fields and the normalizer falls back to the published
// defaults; the source is only marked failed on a fetch error.
func (s *Scraper) Extract(ctx context.Context) ([]domain.RawRecord, *domain.RunMetadata) {
	meta := domain.NewRunMetadata(s.Name())
	meta.Start(s.now())

	rec := domain.RawRecord{
		Source: s.Name(),
		Kind:   domain.KindCostOfLiving,
		URL:    s.url,
		Fields: map[string]any{},
	}

	body, err := s.fetch.Fetch(ctx, s.url)
	if err != nil {
		if ctx.Err() != nil {
			meta.Cancel(s.now())
			return nil, meta
		}
		log.Warn().Err(err).Msg("cost-of-living fetch failed; defaults will be used")
		meta.Fail(s.now(), err, 0, 0)
		return []domain.RawRecord{rec}, meta
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		meta.Fail(s.now(), err, 0, 0)
		return []domain.RawRecord{rec}, meta
	}

	s.extractComponents(doc, rec.Fields)

	text := doc.Text()
	if m := totalRe.FindStringSubmatch(text); m != nil {
		rec.Fields["total_min"] = stripCommas(m[1])
		rec.Fields["total_max"] = stripCommas(m[2])
	}
	if m := tuitionRe.FindStringSubmatch(text); m != nil {
		rec.Fields["undergraduate_min"] = stripCommas(m[1])
		rec.Fields["undergraduate_max"] = stripCommas(m[2])
	}

	log.Info().Int("fields", len(rec.Fields)).Msg("cost-of-living page scraped")
	meta.Complete(s.now(), 0, 0)
	return []domain.RawRecord{rec}, meta
}

// extractComponents scans table rows for labelled AED ranges
// ("Accommodation | AED 3,500 – 6,000").
func (s *Scraper) extractComponents(doc *goquery.Document, fields map[string]any) {
	doc.Find("table tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td, th")
		if cells.Length() < 2 {
			return
		}
		label := strings.ToLower(strings.TrimSpace(cells.First().Text()))
		component := ""
		for marker, comp := range componentLabels {
			if strings.Contains(label, marker) {
				component = comp
				break
			}
		}
		if component == "" {
			return
		}
		rest := strings.Join(strings.Fields(row.Text()), " ")
		m := rangeRe.FindStringSubmatch(rest)
		if m == nil {
			return
		}
		// first labelled row wins per component
		if _, ok := fields[component+"_min"]; ok {
			return
		}
		fields[component+"_min"] = stripCommas(m[1])
		fields[component+"_max"] = stripCommas(m[2])
	})
}

func stripCommas(s string) float64 {
	f, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	if err != nil {
		return 0
	}
	return f
}
