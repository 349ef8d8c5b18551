package domain

import (
	"crypto/md5"
	"encoding/hex"
	"strings"
)

// DegreeLevel is the closed set of degree classifications.
type DegreeLevel string

const (
	DegreeBachelor  DegreeLevel = "Bachelor"
	DegreeMaster    DegreeLevel = "Master"
	DegreePhD       DegreeLevel = "PhD"
	DegreeDiploma   DegreeLevel = "Diploma"
	DegreeAssociate DegreeLevel = "Associate"
)

// StudyMode is the closed set of study arrangements. Unknown is represented
// by a nil pointer on the Course rather than an enum member.
type StudyMode string

const (
	ModeFullTime StudyMode = "Full-time"
	ModePartTime StudyMode = "Part-time"
	ModeOnline   StudyMode = "Online"
	ModeBlended  StudyMode = "Blended"
)

type Course struct {
	ID                  string      `json:"id"`
	Name                string      `json:"name"`
	UniversityID        string      `json:"university_id"`
	UniversityName      string      `json:"university_name"`
	DegreeLevel         DegreeLevel `json:"degree_level"`
	FieldOfStudy        *string     `json:"field_of_study"`
	Duration            *string     `json:"duration"`
	DurationMonths      *int        `json:"duration_months"`
	StudyMode           *StudyMode  `json:"study_mode"`
	TuitionFee          *string     `json:"tuition_fee"`
	TuitionFeeValue     *float64    `json:"tuition_fee_value"`
	TuitionCurrency     string      `json:"tuition_currency"`
	TuitionPeriod       *string     `json:"tuition_period"`
	Language            string      `json:"language"`
	Accredited          bool        `json:"accredited"`
	StartDates          *string     `json:"start_dates"`
	ApplicationDeadline *string     `json:"application_deadline"`
	Source              string      `json:"source"`
	URL                 *string     `json:"url"`
}

// CourseID derives the stable identifier from course name and owning
// university ID.
func CourseID(name, universityID string) string {
	sig := strings.ToLower(strings.TrimSpace(name)) + "_" + universityID
	sum := md5.Sum([]byte(sig))
	return hex.EncodeToString(sum[:])[:12]
}
