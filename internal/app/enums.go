package app

import (
	"strings"

	"uae_edu/internal/domain"
)

// Lookup tables keep enum coercion total: unseen vocabulary maps to the
// Unknown member instead of failing a record.

var institutionTypes = map[string]domain.InstitutionType{
	"public":     domain.InstitutionPublic,
	"government": domain.InstitutionPublic,
	"federal":    domain.InstitutionPublic,
	"private":    domain.InstitutionPrivate,
}

var accreditationStatuses = map[string]domain.AccreditationStatus{
	"licensed":          domain.AccreditationLicensed,
	"accredited":        domain.AccreditationLicensed,
	"licensure revoked": domain.AccreditationRevoked,
	"revoked":           domain.AccreditationRevoked,
}

var studyModes = map[string]domain.StudyMode{
	"full-time": domain.ModeFullTime,
	"full time": domain.ModeFullTime,
	"part-time": domain.ModePartTime,
	"part time": domain.ModePartTime,
	"online":    domain.ModeOnline,
	"distance":  domain.ModeOnline,
	"blended":   domain.ModeBlended,
	"hybrid":    domain.ModeBlended,
}

func coerceInstitutionType(s string) domain.InstitutionType {
	if t, ok := institutionTypes[strings.ToLower(strings.TrimSpace(s))]; ok {
		return t
	}
	return domain.InstitutionUnknown
}

func coerceAccreditation(s string) domain.AccreditationStatus {
	low := strings.ToLower(strings.TrimSpace(s))
	if st, ok := accreditationStatuses[low]; ok {
		return st
	}
	if strings.Contains(low, "revoked") {
		return domain.AccreditationRevoked
	}
	return domain.AccreditationUnknown
}

func coerceStudyMode(s string) *domain.StudyMode {
	if m, ok := studyModes[strings.ToLower(strings.TrimSpace(s))]; ok {
		return &m
	}
	return nil
}

// degreeLevelFromName infers the level from course-name keywords,
// defaulting to Bachelor as the portal only lists undergraduate search
// results when nothing else matches. Short abbreviations (ma, mba, msc)
// match whole words only, so "Cinema Studies" stays a Bachelor.
func degreeLevelFromName(name string) domain.DegreeLevel {
	low := strings.ToLower(name)
	switch {
	case containsAny(low, "phd", "doctorate", "doctoral"):
		return domain.DegreePhD
	case containsAny(low, "master", "m.sc") || hasWord(low, "ma", "mba", "msc"):
		return domain.DegreeMaster
	case containsAny(low, "diploma"):
		return domain.DegreeDiploma
	case containsAny(low, "associate"):
		return domain.DegreeAssociate
	default:
		return domain.DegreeBachelor
	}
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// hasWord reports whether any of words appears as a whole alphanumeric
// token in s. s must already be lowercase.
func hasWord(s string, words ...string) bool {
	for _, f := range strings.FieldsFunc(s, func(r rune) bool {
		return (r < 'a' || r > 'z') && (r < '0' || r > '9')
	}) {
		for _, w := range words {
			if f == w {
				return true
			}
		}
	}
	return false
}
