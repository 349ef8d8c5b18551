package app

import (
	"testing"

	"uae_edu/internal/domain"
)

func uniRecord(source string, fields map[string]any) domain.RawRecord {
	return domain.RawRecord{Source: source, Kind: domain.KindUniversity, Fields: fields}
}

func TestNormalizeUniversity_CAA(t *testing.T) {
	u := NormalizeUniversity(uniRecord(domain.SourceCAA, map[string]any{
		"name":     "United Arab Emirates  University",
		"caa_guid": "123",
		"status":   "Licensed",
	}))
	if u == nil {
		t.Fatal("expected a university")
	}
	if u.Name != "United Arab Emirates University" {
		t.Fatalf("name = %q", u.Name)
	}
	if u.ID != domain.UniversityID(u.Name) {
		t.Fatal("id must derive from the cleaned name")
	}
	if u.AccreditationStatus != domain.AccreditationLicensed {
		t.Fatalf("status = %s", u.AccreditationStatus)
	}
	if u.CAAGuid == nil || *u.CAAGuid != "123" {
		t.Fatalf("caa_guid = %v", u.CAAGuid)
	}
	if u.Country != domain.CountryName {
		t.Fatalf("country = %q", u.Country)
	}
	if !u.FromSource(domain.SourceCAA) {
		t.Fatal("source not recorded")
	}
}

func TestNormalizeUniversity_PortalOwnsRating(t *testing.T) {
	u := NormalizeUniversity(uniRecord(domain.SourcePortal, map[string]any{
		"name":         "American University in Dubai",
		"location":     "Dubai, United Arab Emirates",
		"rating":       "4.2",
		"review_count": "87",
		"status":       "Licensed", // must be ignored: not the directory source
	}))
	if u == nil {
		t.Fatal("expected a university")
	}
	if u.AccreditationStatus != domain.AccreditationUnknown {
		t.Fatalf("portal must not set accreditation, got %s", u.AccreditationStatus)
	}
	if u.Rating == nil || *u.Rating != 4.2 {
		t.Fatalf("rating = %v", u.Rating)
	}
	if u.ReviewCount == nil || *u.ReviewCount != 87 {
		t.Fatalf("review_count = %v", u.ReviewCount)
	}
	if u.Emirate == nil || *u.Emirate != "Dubai" {
		t.Fatalf("emirate = %v", u.Emirate)
	}
}

func TestNormalizeUniversity_NoNameDropped(t *testing.T) {
	if u := NormalizeUniversity(uniRecord(domain.SourceCAA, map[string]any{"name": "  "})); u != nil {
		t.Fatalf("expected nil, got %+v", u)
	}
}

func TestNormalizeCourse_Defaults(t *testing.T) {
	c := NormalizeCourse(domain.RawRecord{
		Source: domain.SourcePortal,
		Kind:   domain.KindCourse,
		Fields: map[string]any{
			"name":            "Computer Science",
			"university_name": "University of Sharjah",
			"duration":        "4 years",
			"tuition_fee":     "AED 48,000 per year",
		},
	})
	if c == nil {
		t.Fatal("expected a course")
	}
	if c.Language != "English" || !c.Accredited {
		t.Fatalf("defaults not applied: %+v", c)
	}
	if c.DegreeLevel != domain.DegreeBachelor {
		t.Fatalf("degree level = %s", c.DegreeLevel)
	}
	if c.DurationMonths == nil || *c.DurationMonths != 48 {
		t.Fatalf("duration_months = %v", c.DurationMonths)
	}
	if c.TuitionFeeValue == nil || *c.TuitionFeeValue != 48000 {
		t.Fatalf("tuition value = %v", c.TuitionFeeValue)
	}
	if c.TuitionCurrency != "AED" {
		t.Fatalf("currency = %q", c.TuitionCurrency)
	}
	if c.ID != domain.CourseID(c.Name, c.UniversityID) {
		t.Fatal("id must derive from name and university")
	}
}

func TestNormalizeCourse_LevelFromName(t *testing.T) {
	c := NormalizeCourse(domain.RawRecord{
		Source: domain.SourcePortal,
		Kind:   domain.KindCourse,
		Fields: map[string]any{"name": "Master of Business Administration", "university_name": "AUD"},
	})
	if c.DegreeLevel != domain.DegreeMaster {
		t.Fatalf("degree level = %s", c.DegreeLevel)
	}
}

func TestNormalizeCostOfLiving_SumsExtractedComponents(t *testing.T) {
	cost, _ := NormalizeCostOfLiving(domain.RawRecord{
		Source: domain.SourceLiving,
		Kind:   domain.KindCostOfLiving,
		Fields: map[string]any{
			"accommodation_min": 3500.0, "accommodation_max": 6000.0,
			"food_min": 500.0, "food_max": 1200.0,
		},
	})
	if cost.TotalMin != 4000 || cost.TotalMax != 7200 {
		t.Fatalf("totals = %v-%v, want 4000-7200", cost.TotalMin, cost.TotalMax)
	}
	// Components the page did not mention stay zero, not defaulted.
	if cost.TransportMin != 0 || cost.UtilitiesMax != 0 {
		t.Fatalf("missing components must be zero: %+v", cost)
	}
}

func TestNormalizeCostOfLiving_EmptyFallsBackToDefaults(t *testing.T) {
	cost, tuition := NormalizeCostOfLiving(domain.RawRecord{
		Source: domain.SourceLiving,
		Kind:   domain.KindCostOfLiving,
		Fields: map[string]any{},
	})
	def := domain.DefaultCostOfLiving()
	if cost != def {
		t.Fatalf("expected defaults, got %+v", cost)
	}
	if tuition != domain.DefaultTuitionRange() {
		t.Fatalf("expected default tuition, got %+v", tuition)
	}
}
