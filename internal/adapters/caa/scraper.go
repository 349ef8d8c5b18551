// Package caa scrapes the Commission for Academic Accreditation directory,
// the authoritative source for licensure status and registry GUIDs.
package caa

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog/log"

	"uae_edu/internal/adapters/observability"
	"uae_edu/internal/domain"
)

var guidRe = regexp.MustCompile(`GUID=(\d+)`)

type Scraper struct {
	fetch   domain.Fetcher
	listURL string
	now     func() time.Time
}

func New(fetch domain.Fetcher, listURL string) *Scraper {
	return &Scraper{fetch: fetch, listURL: listURL, now: time.Now}
}

func (s *Scraper) Name() string { return domain.SourceCAA }

// Extract bulk-fetches the directory list page and parses every institution
// link into a RawRecord. Individual bad rows are skipped and logged; only a
// failed list fetch fails the whole source.
func (s *Scraper) Extract(ctx context.Context) ([]domain.RawRecord, *domain.RunMetadata) {
	meta := domain.NewRunMetadata(s.Name())
	meta.Start(s.now())

	body, err := s.fetch.Fetch(ctx, s.listURL)
	if err != nil {
		if ctx.Err() != nil {
			meta.Cancel(s.now())
			return nil, meta
		}
		log.Error().Err(err).Str("source", s.Name()).Msg("directory fetch failed")
		meta.Fail(s.now(), err, 0, 0)
		return nil, meta
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		meta.Fail(s.now(), fmt.Errorf("parse directory: %w", err), 0, 0)
		return nil, meta
	}

	var records []domain.RawRecord
	seen := map[string]bool{}

	doc.Find(`a[href*="Details.aspx?GUID="]`).Each(func(_ int, sel *goquery.Selection) {
		name := strings.Join(strings.Fields(sel.Text()), " ")
		href, _ := sel.Attr("href")
		if name == "" || href == "" {
			meta.AddError("directory row with empty name or href skipped")
			observability.ObserveParseSkip(s.Name())
			return
		}
		m := guidRe.FindStringSubmatch(href)
		if m == nil {
			meta.AddError(fmt.Sprintf("no GUID in link for %q", name))
			observability.ObserveParseSkip(s.Name())
			return
		}
		guid := m[1]
		if seen[guid] {
			return
		}
		seen[guid] = true

		status := string(domain.AccreditationLicensed)
		if strings.Contains(strings.ToUpper(name), "LICENSURE REVOKED") {
			status = string(domain.AccreditationRevoked)
		}
		records = append(records, domain.RawRecord{
			Source: s.Name(),
			Kind:   domain.KindUniversity,
			URL:    s.listURL,
			Fields: map[string]any{
				"name":     name,
				"caa_guid": guid,
				"status":   status,
			},
		})
	})

	log.Info().Int("universities", len(records)).Msg("caa directory scraped")
	meta.Complete(s.now(), len(records), 0)
	return records, meta
}
