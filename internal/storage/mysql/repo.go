// Package mysql mirrors the canonical entities into a relational sink.
// The exported JSON document stays the system of record; this sink exists
// for ad-hoc querying across runs.
package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"

	"uae_edu/internal/domain"
)

func valStr(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}
func valInt(p *int) any {
	if p == nil {
		return nil
	}
	return *p
}
func valF64(p *float64) any {
	if p == nil {
		return nil
	}
	return *p
}
func valMode(p *domain.StudyMode) any {
	if p == nil {
		return nil
	}
	return string(*p)
}

type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

func (r *Repo) UpsertUniversity(ctx context.Context, u domain.University) error {
	sources, _ := json.Marshal(u.Sources)
	_, err := r.db.ExecContext(ctx, upsertUniversitySQL,
		u.ID,
		u.Name,
		valStr(u.NameArabic),
		valStr(u.Emirate),
		valStr(u.City),
		u.Country,
		string(u.InstitutionType),
		string(u.AccreditationStatus),
		valStr(u.Ranking),
		valStr(u.RankingTier),
		valF64(u.Rating),
		valInt(u.ReviewCount),
		valStr(u.Website),
		valStr(u.CAAGuid),
		u.TotalPrograms,
		u.BachelorPrograms,
		u.MasterPrograms,
		u.ScholarshipsAvailable,
		string(sources),
	)
	return err
}

func (r *Repo) UpsertCourse(ctx context.Context, c domain.Course) error {
	_, err := r.db.ExecContext(ctx, upsertCourseSQL,
		c.ID,
		c.Name,
		c.UniversityID,
		c.UniversityName,
		string(c.DegreeLevel),
		valStr(c.FieldOfStudy),
		valStr(c.Duration),
		valInt(c.DurationMonths),
		valMode(c.StudyMode),
		valStr(c.TuitionFee),
		valF64(c.TuitionFeeValue),
		c.TuitionCurrency,
		valStr(c.TuitionPeriod),
		c.Language,
		c.Accredited,
		valStr(c.StartDates),
		valStr(c.ApplicationDeadline),
		c.Source,
		valStr(c.URL),
	)
	return err
}

func (r *Repo) SaveCountryProfile(ctx context.Context, p domain.CountryProfile) error {
	cost, _ := json.Marshal(p.CostOfLiving)
	tuition, _ := json.Marshal(p.TuitionRange)
	_, err := r.db.ExecContext(ctx, upsertCountryProfileSQL,
		p.Code,
		p.Name,
		p.Currency,
		string(cost),
		string(tuition),
		p.TotalUniversities,
		p.TotalCourses,
	)
	return err
}

func (r *Repo) LogRun(ctx context.Context, m domain.RunMetadata) error {
	errs := ""
	if len(m.Errors) > 0 {
		errs = strings.Join(m.Errors, "\n")
	}
	_, err := r.db.ExecContext(ctx, insertRunLogSQL,
		m.Source,
		string(m.Status),
		m.Universities,
		m.Courses,
		errs,
		m.StartedAt,
		m.CompletedAt,
		m.DurationSeconds,
	)
	return err
}

// ListUniversities returns stored universities ordered by name, for ad-hoc
// inspection across runs.
func (r *Repo) ListUniversities(ctx context.Context, limit int) ([]domain.University, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id, name, emirate, city, institution_type, accreditation_status,
       rating, review_count, total_programs, sources
FROM universities
ORDER BY name
LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.University
	for rows.Next() {
		var u domain.University
		var emirate, city sql.NullString
		var rating sql.NullFloat64
		var reviews sql.NullInt64
		var itype, status string
		var sourcesJSON []byte
		if err := rows.Scan(&u.ID, &u.Name, &emirate, &city, &itype, &status,
			&rating, &reviews, &u.TotalPrograms, &sourcesJSON); err != nil {
			return nil, err
		}
		u.Country = domain.CountryName
		u.InstitutionType = domain.InstitutionType(itype)
		u.AccreditationStatus = domain.AccreditationStatus(status)
		if emirate.Valid {
			e := emirate.String
			u.Emirate = &e
		}
		if city.Valid {
			c := city.String
			u.City = &c
		}
		if rating.Valid {
			f := rating.Float64
			u.Rating = &f
		}
		if reviews.Valid {
			n := int(reviews.Int64)
			u.ReviewCount = &n
		}
		_ = json.Unmarshal(sourcesJSON, &u.Sources)
		out = append(out, u)
	}
	return out, rows.Err()
}
