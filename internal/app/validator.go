package app

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"uae_edu/internal/adapters/observability"
	"uae_edu/internal/domain"
)

// ValidateUniversities drops records that fail structural or value checks
// and records each violation on the run metadata. Validation never aborts the
// run on its own; an empty final set is the pipeline's concern.
func ValidateUniversities(unis []*domain.University, meta *domain.RunMetadata) []*domain.University {
	out := make([]*domain.University, 0, len(unis))
	for _, u := range unis {
		if reason := checkUniversity(u); reason != "" {
			meta.AddError(fmt.Sprintf("university %q dropped: %s", u.Name, reason))
			dropped("university", u.Name, reason)
			continue
		}
		out = append(out, u)
	}
	return out
}

func checkUniversity(u *domain.University) string {
	switch {
	case len(u.Name) < 3:
		return "name shorter than 3 characters"
	case u.ID == "" || u.ID != domain.UniversityID(u.Name):
		return "id does not derive from name"
	case u.Country != domain.CountryName:
		return "country is not " + domain.CountryName
	case len(u.Sources) == 0:
		return "no contributing sources"
	case u.Rating != nil && (*u.Rating < 0 || *u.Rating > 5):
		return "rating outside 0-5"
	case u.ReviewCount != nil && *u.ReviewCount < 0:
		return "negative review count"
	case u.TotalPrograms < 0 || u.BachelorPrograms < 0 || u.MasterPrograms < 0:
		return "negative program count"
	case u.Emirate != nil && !validEmirate(*u.Emirate):
		return "unknown emirate " + *u.Emirate
	}
	return ""
}

// ValidateCourses drops structurally broken courses. The university_id
// referential check runs after AttachCourses, so every survivor points into
// the accepted university set.
func ValidateCourses(courses []*domain.Course, unis []*domain.University, meta *domain.RunMetadata) []*domain.Course {
	ids := make(map[string]bool, len(unis))
	for _, u := range unis {
		ids[u.ID] = true
	}

	out := make([]*domain.Course, 0, len(courses))
	for _, c := range courses {
		if reason := checkCourse(c, ids); reason != "" {
			meta.AddError(fmt.Sprintf("course %q dropped: %s", c.Name, reason))
			dropped("course", c.Name, reason)
			continue
		}
		out = append(out, c)
	}
	return out
}

func checkCourse(c *domain.Course, universityIDs map[string]bool) string {
	switch {
	case len(c.Name) < 3:
		return "name shorter than 3 characters"
	case c.ID == "" || c.ID != domain.CourseID(c.Name, c.UniversityID):
		return "id does not derive from name and university"
	case !universityIDs[c.UniversityID]:
		return "references unknown university"
	case c.DurationMonths != nil && (*c.DurationMonths <= 0 || *c.DurationMonths > 120):
		return "duration outside 1-120 months"
	case c.TuitionFeeValue != nil && *c.TuitionFeeValue < 0:
		return "negative tuition fee"
	}
	return ""
}

func validEmirate(name string) bool {
	for _, e := range emirates {
		if e == name {
			return true
		}
	}
	return false
}

func dropped(entity, name, reason string) {
	log.Warn().Str(entity, name).Str("reason", reason).Msg("validation drop")
	observability.ObserveValidationDrop(entity)
}
