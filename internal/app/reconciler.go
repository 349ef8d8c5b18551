package app

import (
	"sort"

	"github.com/rs/zerolog/log"

	"uae_edu/internal/domain"
)

// Source precedence when two records describe the same institution. Lower
// wins the base slot; higher-priority facts still overwrite field-by-field
// per the ownership rules below.
var sourcePriority = map[string]int{
	domain.SourceCAA:    0,
	domain.SourcePortal: 1,
	domain.SourceLiving: 2,
}

// Reconcile folds per-source universities into one record per institution.
// Matching is by the stop-word-stripped name key, so "American University of
// Sharjah" and "American University Sharjah" collapse. Inputs are sorted by
// source priority first, which makes the merge independent of adapter
// completion order.
func Reconcile(unis []*domain.University) []*domain.University {
	sorted := make([]*domain.University, len(unis))
	copy(sorted, unis)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sourcePriority[primarySource(sorted[i])] < sourcePriority[primarySource(sorted[j])]
	})

	byKey := make(map[string]*domain.University)
	var order []string
	for _, u := range sorted {
		key := matchKey(u.Name)
		if key == "" {
			continue
		}
		base, ok := byKey[key]
		if !ok {
			byKey[key] = u
			order = append(order, key)
			continue
		}
		mergeUniversity(base, u)
	}

	out := make([]*domain.University, 0, len(order))
	for _, key := range order {
		out = append(out, byKey[key])
	}
	log.Info().Int("in", len(unis)).Int("out", len(out)).Msg("universities reconciled")
	return out
}

func primarySource(u *domain.University) string {
	if len(u.Sources) == 0 {
		return ""
	}
	return u.Sources[0]
}

// mergeUniversity folds other into base. The directory owns accreditation
// facts, the portal owns popularity facts; everything else fills empty slots
// only.
func mergeUniversity(base, other *domain.University) {
	for _, s := range other.Sources {
		base.AddSource(s)
	}

	if other.FromSource(domain.SourceCAA) {
		if other.AccreditationStatus != domain.AccreditationUnknown {
			base.AccreditationStatus = other.AccreditationStatus
		}
		if other.InstitutionType != domain.InstitutionUnknown {
			base.InstitutionType = other.InstitutionType
		}
		if other.CAAGuid != nil {
			base.CAAGuid = other.CAAGuid
		}
	} else if base.InstitutionType == domain.InstitutionUnknown {
		base.InstitutionType = other.InstitutionType
	}

	if other.FromSource(domain.SourcePortal) {
		if other.Rating != nil {
			base.Rating = other.Rating
		}
		if other.ReviewCount != nil {
			base.ReviewCount = other.ReviewCount
		}
		if other.Ranking != nil {
			base.Ranking = other.Ranking
		}
		if other.RankingTier != nil {
			base.RankingTier = other.RankingTier
		}
		if other.BachelorPrograms > 0 {
			base.BachelorPrograms = other.BachelorPrograms
		}
		if other.MasterPrograms > 0 {
			base.MasterPrograms = other.MasterPrograms
		}
		if other.TotalPrograms > base.TotalPrograms {
			base.TotalPrograms = other.TotalPrograms
		}
		if other.ScholarshipsAvailable > 0 {
			base.ScholarshipsAvailable = other.ScholarshipsAvailable
		}
	}

	if base.NameArabic == nil {
		base.NameArabic = other.NameArabic
	}
	if base.Emirate == nil {
		base.Emirate = other.Emirate
	}
	if base.City == nil {
		base.City = other.City
	}
	if base.Website == nil {
		base.Website = other.Website
	}
}

// AttachCourses re-keys courses against the reconciled university set and
// drops orphans whose institution matched nothing. Course IDs are rederived
// after re-keying so they stay stable against the merged university IDs.
func AttachCourses(courses []*domain.Course, unis []*domain.University) []*domain.Course {
	byKey := make(map[string]*domain.University, len(unis))
	for _, u := range unis {
		byKey[matchKey(u.Name)] = u
	}

	out := make([]*domain.Course, 0, len(courses))
	for _, c := range courses {
		u, ok := byKey[matchKey(c.UniversityName)]
		if !ok {
			log.Warn().Str("course", c.Name).Str("university", c.UniversityName).
				Msg("course dropped: university not in accepted set")
			continue
		}
		c.UniversityID = u.ID
		c.UniversityName = u.Name
		c.Accredited = u.AccreditationStatus != domain.AccreditationRevoked
		c.ID = domain.CourseID(c.Name, c.UniversityID)
		out = append(out, c)
	}
	return out
}
