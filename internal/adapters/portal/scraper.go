// Package portal scrapes the rankings/course portal. The site renders its
// listings client-side and actively blocks automation, so everything goes
// through the dynamic-rendering path and the adapter must survive losing
// the session mid-run.
package portal

import (
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

var (
	ratingRe      = regexp.MustCompile(`(\d(?:[.,]\d+)?)\s*(?:/\s*5)?\s*\(?\s*(\d[\d,]*)\s*(?:reviews?|ratings?)\)?`)
	rankTierRe    = regexp.MustCompile(`(?i)top\s*\d+\s*%`)
	bachelorsRe   = regexp.MustCompile(`(?i)(\d+)\s*bachelors?`)
	mastersRe     = regexp.MustCompile(`(?i)(\d+)\s*masters?`)
	scholarshipRe = regexp.MustCompile(`(?i)(\d+)\s*scholarships?`)
	durationRe    = regexp.MustCompile(`(?i)\d+(?:\.\d+)?(?:\s*[-–]\s*\d+(?:\.\d+)?)?\s*(?:years?|months?|semesters?)`)
	tuitionRe     = regexp.MustCompile(`(?i)(?:AED|USD|EUR|\$|€)\s*[\d,]+(?:\.\d+)?(?:\s*(?:/|per)\s*(?:year|month|semester))?`)
)

type Scraper struct {
	render        domain.Renderer
	universityURL string
	programmeURL  string
	maxPages      int
	now           func() time.Time
}

func New(render domain.Renderer, universityURL, programmeURL string, maxPages int) *Scraper {
	if maxPages <= 0 {
		maxPages = 5
	}
	return &Scraper{
		render:        render,
		universityURL: universityURL,
		programmeURL:  programmeURL,
		maxPages:      maxPages,
		now:           time.Now,
	}
}

func (s *Scraper) Name() string { return domain.SourcePortal }

// pageStatus is how a pagination walk ended.
type pageStatus int

const (
	pagesExhausted pageStatus = iota // no more pages, or parser found nothing
	pagesBlocked                     // anti-automation refusal
	pagesFailed                      // render or parse error aborted the walk
)

// Extract walks the paginated university listing and then the programme
// listing. A block or render failure stops the walk where it is, keeps
// everything collected so far, and reports the source as failed; the rest
// of the pipeline carries on with the partial set.
func (s *Scraper) Extract(ctx context.Context) ([]domain.RawRecord, *domain.RunMetadata) {
	meta := domain.NewRunMetadata(s.Name())
	meta.Start(s.now())
	defer s.render.Close()

	var records []domain.RawRecord
	uniCount := 0

	status := s.paginate(ctx, meta, s.universityURL, func(doc *goquery.Document) int {
		recs := s.parseUniversityCards(doc, meta)
		records = append(records, recs...)
		uniCount += len(recs)
		return len(recs)
	})

	courseCount := 0
	if status == pagesExhausted && ctx.Err() == nil {
		status = s.paginate(ctx, meta, s.programmeURL, func(doc *goquery.Document) int {
			recs := s.parseProgrammeCards(doc, meta)
			records = append(records, recs...)
			courseCount += len(recs)
			return len(recs)
		})
	}

	switch {
	case ctx.Err() != nil:
		meta.Cancel(s.now())
	case status == pagesBlocked:
		log.Warn().Int("universities", uniCount).Int("courses", courseCount).
			Msg("portal blocked; keeping partial records")
		meta.Fail(s.now(), nil, uniCount, courseCount)
	case status == pagesFailed:
		log.Warn().Int("universities", uniCount).Int("courses", courseCount).
			Msg("portal pagination failed; keeping partial records")
		meta.Fail(s.now(), nil, uniCount, courseCount)
	default:
		log.Info().Int("universities", uniCount).Int("courses", courseCount).Msg("portal scraped")
		meta.Complete(s.now(), uniCount, courseCount)
	}
	return records, meta
}

// paginate renders listing pages until the parser finds nothing, the page
// count runs out, or an error ends the walk.
func (s *Scraper) paginate(ctx context.Context, meta *domain.RunMetadata, base string, parse func(*goquery.Document) int) pageStatus {
	for page := 1; page <= s.maxPages; page++ {
		url := base
		if page > 1 {
			url = fmt.Sprintf("%s?page=%d", base, page)
		}
		html, err := s.render.Render(ctx, url)
		if err != nil {
			if domain.IsBlocked(err) {
				meta.AddError(err.Error())
				return pagesBlocked
			}
			if ctx.Err() != nil {
				return pagesExhausted
			}
			meta.AddError(fmt.Sprintf("page %d: %v", page, err))
			return pagesFailed
		}
		doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
		if err != nil {
			meta.AddError(fmt.Sprintf("page %d: parse: %v", page, err))
			return pagesFailed
		}
		if parse(doc) == 0 {
			return pagesExhausted
		}
		if !hasNextPage(doc) {
			return pagesExhausted
		}
	}
	return pagesExhausted
}

func cards(doc *goquery.Document) *goquery.Selection {
	sel := doc.Find(`article, div[class*="card"], div[class*="result"], li[class*="item"]`)
	return sel
}

func (s *Scraper) parseUniversityCards(doc *goquery.Document, meta *domain.RunMetadata) []domain.RawRecord {
	var out []domain.RawRecord
	cards(doc).Each(func(_ int, card *goquery.Selection) {
		if card.Find(`a[href*="/universities/"]`).Length() == 0 {
			return
		}
		name := cardTitle(card, `a[href*="/universities/"]`)
		if len(name) < 3 {
			meta.AddError("university card without usable name skipped")
			observability.ObserveParseSkip(s.Name())
			return
		}
		text := flatten(card.Text())
		fields := map[string]any{"name": name}

		if loc := firstText(card, `[class*="location"], [class*="city"]`); loc != "" {
			fields["location"] = loc
		}
		switch {
		case containsWord(text, "private"):
			fields["institution_type"] = "Private"
		case containsWord(text, "public"):
			fields["institution_type"] = "Public"
		}
		if m := ratingRe.FindStringSubmatch(text); m != nil {
			fields["rating"] = strings.ReplaceAll(m[1], ",", ".")
			fields["review_count"] = strings.ReplaceAll(m[2], ",", "")
		}
		if m := rankTierRe.FindString(text); m != "" {
			fields["ranking_tier"] = flatten(m)
		}
		if m := bachelorsRe.FindStringSubmatch(text); m != nil {
			fields["bachelor_programs"] = m[1]
		}
		if m := mastersRe.FindStringSubmatch(text); m != nil {
			fields["master_programs"] = m[1]
		}
		if m := scholarshipRe.FindStringSubmatch(text); m != nil {
			fields["scholarships"] = m[1]
		}
		if href, ok := card.Find(`a[href*="/universities/"]`).First().Attr("href"); ok {
			fields["url"] = href
		}
		out = append(out, domain.RawRecord{
			Source: s.Name(),
			Kind:   domain.KindUniversity,
			Fields: fields,
		})
	})
	return out
}

func (s *Scraper) parseProgrammeCards(doc *goquery.Document, meta *domain.RunMetadata) []domain.RawRecord {
	var out []domain.RawRecord
	cards(doc).Each(func(_ int, card *goquery.Selection) {
		if card.Find(`a[href*="/studies/"]`).Length() == 0 {
			return
		}
		name := cardTitle(card, `a[href*="/studies/"]`)
		if len(name) < 3 {
			meta.AddError("programme card without usable name skipped")
			observability.ObserveParseSkip(s.Name())
			return
		}
		text := flatten(card.Text())
		fields := map[string]any{"name": name}

		if uni := firstText(card, `[class*="university"], [class*="institution"], [class*="provider"], [class*="organisation"]`); uni != "" {
			fields["university_name"] = uni
		}
		if m := durationRe.FindString(text); m != "" {
			fields["duration"] = flatten(m)
		}
		switch {
		case containsWord(text, "full-time") || containsWord(text, "full time"):
			fields["study_mode"] = "Full-time"
		case containsWord(text, "part-time") || containsWord(text, "part time"):
			fields["study_mode"] = "Part-time"
		case containsWord(text, "online"):
			fields["study_mode"] = "Online"
		case containsWord(text, "blended") || containsWord(text, "hybrid"):
			fields["study_mode"] = "Blended"
		}
		if m := tuitionRe.FindString(text); m != "" {
			fields["tuition_fee"] = flatten(m)
		}
		if href, ok := card.Find(`a[href*="/studies/"]`).First().Attr("href"); ok {
			fields["url"] = href
		}
		out = append(out, domain.RawRecord{
			Source: s.Name(),
			Kind:   domain.KindCourse,
			Fields: fields,
		})
	})
	return out
}

func hasNextPage(doc *goquery.Document) bool {
	next := false
	doc.Find(`a`).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		t := strings.ToLower(flatten(sel.Text()))
		if t == "next" || t == "›" || t == "→" {
			next = true
			return false
		}
		if rel, _ := sel.Attr("rel"); rel == "next" {
			next = true
			return false
		}
		return true
	})
	return next
}

func cardTitle(card *goquery.Selection, linkSel string) string {
	for _, sel := range []string{`h2`, `h3`, `h4`, linkSel} {
		if t := flatten(card.Find(sel).First().Text()); t != "" {
			return t
		}
	}
	return ""
}

func firstText(card *goquery.Selection, sel string) string {
	return flatten(card.Find(sel).First().Text())
}

func flatten(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func containsWord(text, word string) bool {
	return strings.Contains(strings.ToLower(text), word)
}
