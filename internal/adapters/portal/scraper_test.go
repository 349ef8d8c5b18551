package portal_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"uae_edu/internal/adapters/portal"
	"uae_edu/internal/domain"
)

// fakeRenderer serves canned pages per URL and records lifecycle calls.
type fakeRenderer struct {
	pages  map[string]string
	errs   map[string]error
	closed bool
}

func (f *fakeRenderer) Render(ctx context.Context, url string) (string, error) {
	if err, ok := f.errs[url]; ok {
		return "", err
	}
	if html, ok := f.pages[url]; ok {
		return html, nil
	}
	return "<html><body></body></html>", nil
}

func (f *fakeRenderer) Close() { f.closed = true }

const universityPage = `
<html><body>
<article>
  <h2>American University of Sharjah</h2>
  <a href="/universities/american-university-of-sharjah">View</a>
  <span class="location">Sharjah, United Arab Emirates</span>
  <p>Private university. 4.4 (320 reviews). Top 5% worldwide.
     54 Bachelors, 31 Masters, 12 Scholarships.</p>
</article>
<article>
  <h3>Zayed University</h3>
  <a href="/universities/zayed-university">View</a>
  <p>Public. 4.1 (150 reviews)</p>
</article>
<article>
  <p>Sponsored content with no link to an institution.</p>
</article>
</body></html>`

const programmePage = `
<html><body>
<article>
  <h3>Computer Science</h3>
  <a href="/studies/computer-science">View</a>
  <span class="university">American University of Sharjah</span>
  <p>4 years &middot; Full-time &middot; AED 48,000 / year</p>
</article>
</body></html>`

func TestExtractUniversitiesAndProgrammes(t *testing.T) {
	r := &fakeRenderer{pages: map[string]string{
		"https://portal.test/universities": universityPage,
		"https://portal.test/studies":      programmePage,
	}}
	s := portal.New(r, "https://portal.test/universities", "https://portal.test/studies", 1)

	recs, meta := s.Extract(context.Background())
	if meta.Status != domain.StatusCompleted {
		t.Fatalf("status = %s (errors: %v)", meta.Status, meta.Errors)
	}
	if !r.closed {
		t.Fatal("renderer must be closed after the run")
	}

	var unis, courses []domain.RawRecord
	for _, rec := range recs {
		switch rec.Kind {
		case domain.KindUniversity:
			unis = append(unis, rec)
		case domain.KindCourse:
			courses = append(courses, rec)
		}
	}
	if len(unis) != 2 {
		t.Fatalf("universities = %d, want 2", len(unis))
	}
	if len(courses) != 1 {
		t.Fatalf("courses = %d, want 1", len(courses))
	}

	aus := unis[0].Fields
	if aus["name"] != "American University of Sharjah" {
		t.Fatalf("name = %v", aus["name"])
	}
	if aus["institution_type"] != "Private" {
		t.Fatalf("institution_type = %v", aus["institution_type"])
	}
	if aus["rating"] != "4.4" || aus["review_count"] != "320" {
		t.Fatalf("rating fields = %v / %v", aus["rating"], aus["review_count"])
	}
	if tier, _ := aus["ranking_tier"].(string); !strings.Contains(tier, "5%") {
		t.Fatalf("ranking_tier = %v", aus["ranking_tier"])
	}
	if aus["bachelor_programs"] != "54" || aus["master_programs"] != "31" || aus["scholarships"] != "12" {
		t.Fatalf("program counts = %v", aus)
	}

	cs := courses[0].Fields
	if cs["name"] != "Computer Science" {
		t.Fatalf("course name = %v", cs["name"])
	}
	if cs["university_name"] != "American University of Sharjah" {
		t.Fatalf("university_name = %v", cs["university_name"])
	}
	if cs["duration"] != "4 years" {
		t.Fatalf("duration = %v", cs["duration"])
	}
	if cs["study_mode"] != "Full-time" {
		t.Fatalf("study_mode = %v", cs["study_mode"])
	}
	if fee, _ := cs["tuition_fee"].(string); !strings.Contains(fee, "48,000") {
		t.Fatalf("tuition_fee = %v", cs["tuition_fee"])
	}
}

func TestExtractRenderFailure(t *testing.T) {
	r := &fakeRenderer{errs: map[string]error{
		"https://portal.test/universities": &domain.TransportError{
			URL: "https://portal.test/universities", Status: 503,
		},
	}}
	s := portal.New(r, "https://portal.test/universities", "https://portal.test/studies", 1)

	recs, meta := s.Extract(context.Background())
	if len(recs) != 0 {
		t.Fatalf("expected no records, got %d", len(recs))
	}
	if meta.Status != domain.StatusFailed {
		t.Fatalf("status = %s, want failed when every page render errors", meta.Status)
	}
	if len(meta.Errors) == 0 {
		t.Fatal("render failure must be recorded")
	}
	if !r.closed {
		t.Fatal("renderer must be closed on failure")
	}
}

func TestExtractFailedMidPaginationKeepsPartial(t *testing.T) {
	r := &fakeRenderer{
		pages: map[string]string{
			"https://portal.test/universities": universityPage,
		},
		errs: map[string]error{
			"https://portal.test/studies": &domain.TransportError{
				URL: "https://portal.test/studies", Status: 502,
			},
		},
	}
	s := portal.New(r, "https://portal.test/universities", "https://portal.test/studies", 1)

	recs, meta := s.Extract(context.Background())
	if meta.Status != domain.StatusFailed {
		t.Fatalf("status = %s, want failed", meta.Status)
	}
	if len(recs) != 2 || meta.Universities != 2 {
		t.Fatalf("partial records = %d (meta %d), want the 2 universities", len(recs), meta.Universities)
	}
}

// slowRenderer never produces a page; it only returns once the caller's
// context is cancelled, the way a real browser session behaves when its
// tab is torn down.
type slowRenderer struct{ closed bool }

func (s *slowRenderer) Render(ctx context.Context, url string) (string, error) {
	<-ctx.Done()
	return "", ctx.Err()
}

func (s *slowRenderer) Close() { s.closed = true }

func TestExtractCancelledMidRender(t *testing.T) {
	r := &slowRenderer{}
	s := portal.New(r, "https://portal.test/universities", "https://portal.test/studies", 3)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	recs, meta := s.Extract(ctx)
	if took := time.Since(start); took > time.Second {
		t.Fatalf("extract did not return promptly after cancellation: %v", took)
	}
	if meta.Status != domain.StatusCancelled {
		t.Fatalf("status = %s, want cancelled", meta.Status)
	}
	if len(recs) != 0 {
		t.Fatalf("expected no records, got %d", len(recs))
	}
	if !r.closed {
		t.Fatal("renderer must be closed on cancellation")
	}
}

func TestExtractBlockedKeepsPartial(t *testing.T) {
	r := &fakeRenderer{
		pages: map[string]string{
			"https://portal.test/universities": universityPage,
		},
		errs: map[string]error{
			"https://portal.test/studies": &domain.BlockedError{
				URL: "https://portal.test/studies", Reason: "captcha",
			},
		},
	}
	s := portal.New(r, "https://portal.test/universities", "https://portal.test/studies", 1)

	recs, meta := s.Extract(context.Background())
	if meta.Status != domain.StatusFailed {
		t.Fatalf("status = %s, want failed on block", meta.Status)
	}
	if len(recs) != 2 {
		t.Fatalf("partial records = %d, want the 2 universities", len(recs))
	}
	if meta.Universities != 2 {
		t.Fatalf("universities_scraped = %d, want 2", meta.Universities)
	}
	if len(meta.Errors) == 0 {
		t.Fatal("block must be recorded")
	}
	if !r.closed {
		t.Fatal("renderer must be closed even when blocked")
	}
}
