package domain

import (
	"crypto/md5"
	"encoding/hex"
	"strings"
)

// InstitutionType is the closed set of institution classifications.
type InstitutionType string

const (
	InstitutionPublic  InstitutionType = "Public"
	InstitutionPrivate InstitutionType = "Private"
	InstitutionUnknown InstitutionType = "Unknown"
)

// AccreditationStatus is only ever confirmed by the CAA directory; every
// other source leaves it Unknown.
type AccreditationStatus string

const (
	AccreditationLicensed AccreditationStatus = "Licensed"
	AccreditationRevoked  AccreditationStatus = "Licensure Revoked"
	AccreditationUnknown  AccreditationStatus = "Unknown"
)

// Source names as they appear in records and run metadata.
const (
	SourceCAA    = "CAA"
	SourcePortal = "BachelorsPortal"
	SourceLiving = "UniversityLiving"
)

type University struct {
	ID                    string              `json:"id"`
	Name                  string              `json:"name"`
	NameArabic            *string             `json:"name_arabic"`
	Emirate               *string             `json:"emirate"`
	City                  *string             `json:"city"`
	Country               string              `json:"country"`
	InstitutionType       InstitutionType     `json:"institution_type"`
	AccreditationStatus   AccreditationStatus `json:"accreditation_status"`
	Ranking               *string             `json:"ranking"`
	RankingTier           *string             `json:"ranking_tier"`
	Rating                *float64            `json:"rating"`
	ReviewCount           *int                `json:"review_count"`
	Website               *string             `json:"website"`
	CAAGuid               *string             `json:"caa_guid"`
	TotalPrograms         int                 `json:"total_programs"`
	BachelorPrograms      int                 `json:"bachelor_programs"`
	MasterPrograms        int                 `json:"master_programs"`
	ScholarshipsAvailable int                 `json:"scholarships_available"`
	Sources               []string            `json:"sources"`
}

// UniversityID derives the stable identifier from the normalized name.
// Same scheme as course IDs: first 12 hex chars of an MD5 digest, so reruns
// over identical inputs produce identical documents.
func UniversityID(name string) string {
	sum := md5.Sum([]byte(strings.ToLower(strings.TrimSpace(name))))
	return hex.EncodeToString(sum[:])[:12]
}

// FromSource reports whether src contributed to this record.
func (u *University) FromSource(src string) bool {
	for _, s := range u.Sources {
		if s == src {
			return true
		}
	}
	return false
}

// AddSource appends src to the contributing sources, keeping the slice
// duplicate-free and ordered by first contribution.
func (u *University) AddSource(src string) {
	if src == "" || u.FromSource(src) {
		return
	}
	u.Sources = append(u.Sources, src)
}
