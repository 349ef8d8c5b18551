package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"uae_edu/internal/domain"
)

type fakeAdapter struct {
	name string
	recs []domain.RawRecord
	wait time.Duration
}

func (f *fakeAdapter) Name() string { return f.name }

func (f *fakeAdapter) Extract(ctx context.Context) ([]domain.RawRecord, *domain.RunMetadata) {
	meta := domain.NewRunMetadata(f.name)
	meta.Start(time.Now())
	if f.wait > 0 {
		select {
		case <-ctx.Done():
			meta.Cancel(time.Now())
			return nil, meta
		case <-time.After(f.wait):
		}
	}
	meta.Complete(time.Now(), len(f.recs), 0)
	return f.recs, meta
}

type memRepo struct {
	unis, courses, runs int
	profile             *domain.CountryProfile
}

func (m *memRepo) UpsertUniversity(context.Context, domain.University) error {
	m.unis++
	return nil
}
func (m *memRepo) UpsertCourse(context.Context, domain.Course) error {
	m.courses++
	return nil
}
func (m *memRepo) SaveCountryProfile(_ context.Context, p domain.CountryProfile) error {
	m.profile = &p
	return nil
}
func (m *memRepo) LogRun(context.Context, domain.RunMetadata) error {
	m.runs++
	return nil
}

func testAdapters() []domain.SourceAdapter {
	return []domain.SourceAdapter{
		&fakeAdapter{name: domain.SourceCAA, recs: []domain.RawRecord{
			uniRecord(domain.SourceCAA, map[string]any{"name": "University of Sharjah", "status": "Licensed", "caa_guid": "5"}),
			uniRecord(domain.SourceCAA, map[string]any{"name": "Khalifa University", "status": "Licensed", "caa_guid": "6"}),
		}},
		&fakeAdapter{name: domain.SourcePortal, recs: []domain.RawRecord{
			uniRecord(domain.SourcePortal, map[string]any{"name": "University of Sharjah", "rating": 4.1}),
			{Source: domain.SourcePortal, Kind: domain.KindCourse, Fields: map[string]any{
				"name": "Architecture", "university_name": "University of Sharjah", "duration": "5 years",
			}},
		}},
		&fakeAdapter{name: domain.SourceLiving, recs: []domain.RawRecord{
			{Source: domain.SourceLiving, Kind: domain.KindCostOfLiving, Fields: map[string]any{
				"accommodation_min": 3500.0, "accommodation_max": 6000.0,
				"food_min": 500.0, "food_max": 1200.0,
			}},
		}},
	}
}

func TestPipelineRun(t *testing.T) {
	repo := &memRepo{}
	pipe := NewPipeline(testAdapters(), 2, time.Minute).WithRepository(repo)

	res, err := pipe.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(res.Universities) != 2 {
		t.Fatalf("universities = %d, want 2 (one merged pair + one solo)", len(res.Universities))
	}
	if len(res.Courses) != 1 {
		t.Fatalf("courses = %d, want 1", len(res.Courses))
	}
	if res.Country.TotalUniversities != 2 || res.Country.TotalCourses != 1 {
		t.Fatalf("country totals = %+v", res.Country)
	}
	if res.Country.CostOfLiving.TotalMin != 4000 {
		t.Fatalf("cost total_min = %v, want 4000", res.Country.CostOfLiving.TotalMin)
	}

	// Metadata keeps adapter declaration order regardless of finish order.
	if len(res.Sources) != 3 || res.Sources[0].Source != domain.SourceCAA ||
		res.Sources[1].Source != domain.SourcePortal || res.Sources[2].Source != domain.SourceLiving {
		t.Fatalf("unexpected source order: %+v", res.Sources)
	}

	if repo.unis != 2 || repo.courses != 1 || repo.runs != 3 || repo.profile == nil {
		t.Fatalf("repo not fed: %+v", repo)
	}
}

func TestPipelineEmptyDataset(t *testing.T) {
	pipe := NewPipeline([]domain.SourceAdapter{
		&fakeAdapter{name: domain.SourceCAA},
	}, 1, time.Minute)

	_, err := pipe.Run(context.Background())
	if !errors.Is(err, domain.ErrEmptyDataset) {
		t.Fatalf("expected ErrEmptyDataset, got %v", err)
	}
}

func TestPipelineHonorsTimeout(t *testing.T) {
	pipe := NewPipeline([]domain.SourceAdapter{
		&fakeAdapter{name: domain.SourceCAA, wait: time.Second},
	}, 1, 20*time.Millisecond)

	start := time.Now()
	_, err := pipe.Run(context.Background())
	if !errors.Is(err, domain.ErrEmptyDataset) {
		t.Fatalf("expected empty-dataset failure after timeout, got %v", err)
	}
	if time.Since(start) > 500*time.Millisecond {
		t.Fatal("timeout not enforced")
	}
}

func TestPipelineSurvivesOneFailedSource(t *testing.T) {
	adapters := testAdapters()
	// Replace the portal adapter with one that produced nothing and failed.
	adapters[1] = &fakeAdapter{name: domain.SourcePortal}

	res, err := NewPipeline(adapters, 3, time.Minute).Run(context.Background())
	if err != nil {
		t.Fatalf("a single broken source must not fail the run: %v", err)
	}
	if len(res.Universities) != 2 {
		t.Fatalf("universities = %d, want 2", len(res.Universities))
	}
}
