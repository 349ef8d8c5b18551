package app

import (
	"strings"
	"testing"

	"uae_edu/internal/domain"
)

func validUni(name string) *domain.University {
	return caaUni(name, "1")
}

func TestValidateUniversitiesDropsBrokenRecords(t *testing.T) {
	good := validUni("University of Sharjah")

	badRating := validUni("Khalifa University")
	r := 7.5
	badRating.Rating = &r

	badID := validUni("Ajman University")
	badID.ID = "ffffffffffff"

	meta := domain.NewRunMetadata("validation")
	out := ValidateUniversities([]*domain.University{good, badRating, badID}, meta)
	if len(out) != 1 || out[0].Name != "University of Sharjah" {
		t.Fatalf("expected only the good record, got %d", len(out))
	}
	if len(meta.Errors) != 2 {
		t.Fatalf("expected 2 violations recorded, got %v", meta.Errors)
	}
	for _, e := range meta.Errors {
		if !strings.Contains(e, "dropped") {
			t.Fatalf("violation should say what was dropped: %q", e)
		}
	}
}

func TestValidateCoursesReferentialCheck(t *testing.T) {
	unis := Reconcile([]*domain.University{validUni("University of Sharjah")})

	ok := NormalizeCourse(domain.RawRecord{
		Source: domain.SourcePortal,
		Kind:   domain.KindCourse,
		Fields: map[string]any{"name": "Architecture", "university_name": "University of Sharjah"},
	})
	attached := AttachCourses([]*domain.Course{ok}, unis)

	stray := NormalizeCourse(domain.RawRecord{
		Source: domain.SourcePortal,
		Kind:   domain.KindCourse,
		Fields: map[string]any{"name": "Dentistry", "university_name": "Elsewhere University"},
	})

	meta := domain.NewRunMetadata("validation")
	out := ValidateCourses(append(attached, stray), unis, meta)
	if len(out) != 1 || out[0].Name != "Architecture" {
		t.Fatalf("expected only the attached course, got %d", len(out))
	}
	if len(meta.Errors) != 1 {
		t.Fatalf("expected 1 violation, got %v", meta.Errors)
	}
}

func TestValidateCoursesDurationBounds(t *testing.T) {
	unis := Reconcile([]*domain.University{validUni("University of Sharjah")})
	c := NormalizeCourse(domain.RawRecord{
		Source: domain.SourcePortal,
		Kind:   domain.KindCourse,
		Fields: map[string]any{"name": "Eternal Studies", "university_name": "University of Sharjah"},
	})
	c = AttachCourses([]*domain.Course{c}, unis)[0]
	bad := 600
	c.DurationMonths = &bad

	meta := domain.NewRunMetadata("validation")
	if out := ValidateCourses([]*domain.Course{c}, unis, meta); len(out) != 0 {
		t.Fatalf("expected drop for absurd duration, got %d", len(out))
	}
}
