package app

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"uae_edu/internal/domain"
)

// Result is the fully reconciled output of one pipeline run, ready for
// export and optional persistence.
type Result struct {
	Country      domain.CountryProfile
	Universities []*domain.University
	Courses      []*domain.Course
	Sources      []*domain.RunMetadata
	Violations   []string
	StartedAt    time.Time
	CompletedAt  time.Time
}

// Pipeline runs the configured source adapters concurrently, then funnels
// their records through normalize, reconcile, and validate stages into one
// Result. Broken sources degrade the dataset; only an empty final set is
// fatal.
type Pipeline struct {
	adapters []domain.SourceAdapter
	repo     domain.SnapshotRepository
	workers  int
	timeout  time.Duration
	now      func() time.Time
}

func NewPipeline(adapters []domain.SourceAdapter, workers int, timeout time.Duration) *Pipeline {
	if workers <= 0 {
		workers = len(adapters)
	}
	return &Pipeline{adapters: adapters, workers: workers, timeout: timeout, now: time.Now}
}

// WithRepository attaches the optional relational sink.
func (p *Pipeline) WithRepository(repo domain.SnapshotRepository) *Pipeline {
	p.repo = repo
	return p
}

// Run executes the whole batch. It returns domain.ErrEmptyDataset when no
// university survives extraction and validation; any other source trouble is
// reported through the per-source metadata instead of an error.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	started := p.now().UTC()
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	records, metas := p.extract(ctx)

	log.Info().Int("records", len(records)).Msg("stage: normalize")
	unis, courses, cost, tuition := p.normalize(records)

	log.Info().Int("universities", len(unis)).Msg("stage: reconcile")
	unis = Reconcile(unis)
	courses = AttachCourses(courses, unis)

	log.Info().Msg("stage: validate")
	violations := domain.NewRunMetadata("validation")
	unis = ValidateUniversities(unis, violations)
	courses = ValidateCourses(courses, unis, violations)

	if len(unis) == 0 {
		return nil, fmt.Errorf("no universities extracted from any source: %w", domain.ErrEmptyDataset)
	}

	res := &Result{
		Country: domain.CountryProfile{
			Name:              domain.CountryName,
			Code:              domain.CountryCode,
			Currency:          domain.CountryCurrency,
			CostOfLiving:      cost,
			TuitionRange:      tuition,
			TotalUniversities: len(unis),
			TotalCourses:      len(courses),
		},
		Universities: unis,
		Courses:      courses,
		Sources:      metas,
		Violations:   violations.Errors,
		StartedAt:    started,
		CompletedAt:  p.now().UTC(),
	}

	p.persist(ctx, res)
	log.Info().Int("universities", len(unis)).Int("courses", len(courses)).
		Dur("took", res.CompletedAt.Sub(res.StartedAt)).Msg("pipeline complete")
	return res, nil
}

// extract fans the adapters out over a bounded worker group. Each adapter
// writes into its own slot so the collected order is deterministic no matter
// which source finishes first.
func (p *Pipeline) extract(ctx context.Context) ([]domain.RawRecord, []*domain.RunMetadata) {
	recs := make([][]domain.RawRecord, len(p.adapters))
	metas := make([]*domain.RunMetadata, len(p.adapters))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)
	for i, a := range p.adapters {
		i, a := i, a
		g.Go(func() error {
			log.Info().Str("source", a.Name()).Msg("stage: extract")
			recs[i], metas[i] = a.Extract(gctx)
			return nil
		})
	}
	g.Wait() //nolint:errcheck // adapters never return errors

	var flat []domain.RawRecord
	for _, r := range recs {
		flat = append(flat, r...)
	}
	return flat, metas
}

func (p *Pipeline) normalize(records []domain.RawRecord) ([]*domain.University, []*domain.Course, domain.CostOfLiving, domain.TuitionRange) {
	var unis []*domain.University
	var courses []*domain.Course
	cost := domain.DefaultCostOfLiving()
	tuition := domain.DefaultTuitionRange()

	for _, rec := range records {
		switch rec.Kind {
		case domain.KindUniversity:
			if u := NormalizeUniversity(rec); u != nil {
				unis = append(unis, u)
			}
		case domain.KindCourse:
			if c := NormalizeCourse(rec); c != nil {
				courses = append(courses, c)
			}
		case domain.KindCostOfLiving:
			cost, tuition = NormalizeCostOfLiving(rec)
		}
	}
	return unis, courses, cost, tuition
}

// persist mirrors the result into the optional repository. Sink failures are
// logged and swallowed; the exported document is the system of record.
func (p *Pipeline) persist(ctx context.Context, res *Result) {
	if p.repo == nil {
		return
	}
	for _, u := range res.Universities {
		if err := p.repo.UpsertUniversity(ctx, *u); err != nil {
			log.Error().Err(err).Str("university", u.Name).Msg("sink upsert failed")
			return
		}
	}
	for _, c := range res.Courses {
		if err := p.repo.UpsertCourse(ctx, *c); err != nil {
			log.Error().Err(err).Str("course", c.Name).Msg("sink upsert failed")
			return
		}
	}
	if err := p.repo.SaveCountryProfile(ctx, res.Country); err != nil {
		log.Error().Err(err).Msg("sink country profile failed")
	}
	for _, m := range res.Sources {
		if err := p.repo.LogRun(ctx, *m); err != nil {
			log.Error().Err(err).Str("source", m.Source).Msg("sink run log failed")
		}
	}
}
