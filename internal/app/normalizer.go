package app

import (
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"uae_edu/internal/domain"
)

/********** flexible field getters **********/

// getStr returns the first non-empty string among the named fields.
func getStr(fields map[string]any, keys ...string) string {
	for _, k := range keys {
		switch v := fields[k].(type) {
		case string:
			if s := strings.TrimSpace(v); s != "" {
				return s
			}
		}
	}
	return ""
}

// getFloat parses a float from float64/int/string-shaped fields.
func getFloat(fields map[string]any, keys ...string) *float64 {
	for _, k := range keys {
		switch v := fields[k].(type) {
		case float64:
			f := v
			return &f
		case int:
			f := float64(v)
			return &f
		case string:
			s := strings.TrimSpace(strings.ReplaceAll(v, ",", ""))
			if s == "" {
				continue
			}
			if f, err := strconv.ParseFloat(s, 64); err == nil {
				return &f
			}
		}
	}
	return nil
}

func getInt(fields map[string]any, keys ...string) *int {
	if f := getFloat(fields, keys...); f != nil {
		n := int(*f)
		return &n
	}
	return nil
}

func ptrStr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

/********** university normalization **********/

// NormalizeUniversity maps one source-shaped record to the canonical shape.
// Returns nil when the record carries no usable name; the caller logs and
// drops it before reconciliation.
func NormalizeUniversity(rec domain.RawRecord) *domain.University {
	rawName := getStr(rec.Fields, "name", "title", "university_name")
	name := cleanUniversityName(rawName)
	if name == "" {
		log.Debug().Str("source", rec.Source).Msg("university record without name dropped")
		return nil
	}

	u := &domain.University{
		ID:                  domain.UniversityID(name),
		Name:                name,
		Country:             domain.CountryName,
		InstitutionType:     domain.InstitutionUnknown,
		AccreditationStatus: domain.AccreditationUnknown,
	}
	u.AddSource(rec.Source)

	// Accreditation is only ever confirmed by the directory source.
	if rec.Source == domain.SourceCAA {
		u.AccreditationStatus = coerceAccreditation(getStr(rec.Fields, "status", "accreditation_status"))
	}
	if t := getStr(rec.Fields, "institution_type", "type"); t != "" {
		u.InstitutionType = coerceInstitutionType(t)
	}
	u.CAAGuid = ptrStr(getStr(rec.Fields, "caa_guid", "guid"))
	u.NameArabic = ptrStr(getStr(rec.Fields, "name_arabic"))

	// Location: explicit field first, else infer from the name itself.
	location := getStr(rec.Fields, "location", "city", "emirate")
	emirate := detectEmirate(location)
	if emirate == "" {
		emirate = detectEmirate(rawName)
	}
	if emirate == "" && rec.Source == domain.SourceCAA {
		// The directory lists federal institutions without a city; the
		// registry seat is Abu Dhabi.
		emirate = "Abu Dhabi"
	}
	u.Emirate = ptrStr(emirate)
	if location != "" {
		city := strings.TrimSpace(strings.SplitN(location, ",", 2)[0])
		u.City = ptrStr(city)
	} else {
		u.City = ptrStr(emirate)
	}

	// Rating and ranking are owned by the portal source.
	if rec.Source == domain.SourcePortal {
		u.Rating = getFloat(rec.Fields, "rating")
		u.ReviewCount = getInt(rec.Fields, "review_count", "reviews")
		u.Ranking = ptrStr(getStr(rec.Fields, "ranking"))
		u.RankingTier = ptrStr(getStr(rec.Fields, "ranking_tier"))
	}

	if n := getInt(rec.Fields, "bachelor_programs"); n != nil {
		u.BachelorPrograms = *n
	}
	if n := getInt(rec.Fields, "master_programs"); n != nil {
		u.MasterPrograms = *n
	}
	u.TotalPrograms = u.BachelorPrograms + u.MasterPrograms
	if n := getInt(rec.Fields, "total_programs"); n != nil && *n > u.TotalPrograms {
		u.TotalPrograms = *n
	}
	if n := getInt(rec.Fields, "scholarships"); n != nil {
		u.ScholarshipsAvailable = *n
	}

	if w := getStr(rec.Fields, "website", "url"); strings.HasPrefix(w, "http") {
		u.Website = ptrStr(w)
	}
	return u
}

/********** course normalization **********/

// NormalizeCourse maps one programme record to the canonical Course. The
// university reference is provisional until the reconciler re-keys it
// against the accepted University set.
func NormalizeCourse(rec domain.RawRecord) *domain.Course {
	name := strings.Join(strings.Fields(getStr(rec.Fields, "name", "title")), " ")
	if name == "" {
		log.Debug().Str("source", rec.Source).Msg("course record without name dropped")
		return nil
	}

	uniName := cleanUniversityName(getStr(rec.Fields, "university_name", "university", "institution"))
	uniID := ""
	if uniName != "" {
		uniID = domain.UniversityID(uniName)
	}

	c := &domain.Course{
		ID:             domain.CourseID(name, uniID),
		Name:           name,
		UniversityID:   uniID,
		UniversityName: uniName,
		DegreeLevel:    degreeLevelFromName(name),
		Language:       "English",
		Accredited:     true,
		Source:         rec.Source,
	}

	if d := getStr(rec.Fields, "duration"); d != "" {
		c.Duration = &d
		c.DurationMonths = parseDurationMonths(d)
	}
	c.StudyMode = coerceStudyMode(getStr(rec.Fields, "study_mode"))
	c.FieldOfStudy = ptrStr(getStr(rec.Fields, "field_of_study", "discipline"))

	f := parseFee(getStr(rec.Fields, "tuition_fee", "tuition"))
	c.TuitionCurrency = f.currency
	c.TuitionFee = ptrStr(getStr(rec.Fields, "tuition_fee", "tuition"))
	c.TuitionFeeValue = f.value
	c.TuitionPeriod = f.period

	c.StartDates = ptrStr(getStr(rec.Fields, "start_dates"))
	c.ApplicationDeadline = ptrStr(getStr(rec.Fields, "application_deadline", "deadline"))
	if u := getStr(rec.Fields, "url"); u != "" {
		c.URL = &u
	}
	return c
}

/********** cost-of-living normalization **********/

// NormalizeCostOfLiving folds the fixed-shape reference record into the
// country blocks. With no extracted components at all the published guide
// defaults are used wholesale; otherwise totals are the sums of the
// extracted component minimums and maximums.
func NormalizeCostOfLiving(rec domain.RawRecord) (domain.CostOfLiving, domain.TuitionRange) {
	cost := domain.DefaultCostOfLiving()
	tuition := domain.DefaultTuitionRange()

	components := [...]struct {
		key      string
		min, max *float64
	}{
		{"accommodation", &cost.AccommodationMin, &cost.AccommodationMax},
		{"food", &cost.FoodMin, &cost.FoodMax},
		{"transport", &cost.TransportMin, &cost.TransportMax},
		{"utilities", &cost.UtilitiesMin, &cost.UtilitiesMax},
	}

	extracted := false
	for i := range components {
		c := components[i]
		lo := getFloat(rec.Fields, c.key+"_min")
		hi := getFloat(rec.Fields, c.key+"_max")
		if lo == nil || hi == nil {
			continue
		}
		if !extracted {
			// Switch from defaults to extracted-only accounting.
			for j := range components {
				*components[j].min, *components[j].max = 0, 0
			}
			extracted = true
		}
		*c.min, *c.max = *lo, *hi
	}

	if extracted {
		cost.TotalMin = cost.AccommodationMin + cost.FoodMin + cost.TransportMin + cost.UtilitiesMin
		cost.TotalMax = cost.AccommodationMax + cost.FoodMax + cost.TransportMax + cost.UtilitiesMax
	} else if lo, hi := getFloat(rec.Fields, "total_min"), getFloat(rec.Fields, "total_max"); lo != nil && hi != nil {
		cost.TotalMin, cost.TotalMax = *lo, *hi
	}

	if lo, hi := getFloat(rec.Fields, "undergraduate_min"), getFloat(rec.Fields, "undergraduate_max"); lo != nil && hi != nil {
		tuition.UndergraduateMin, tuition.UndergraduateMax = *lo, *hi
	}
	return cost, tuition
}
