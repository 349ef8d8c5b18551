package app

import (
	"regexp"
	"strconv"
	"strings"
)

// Emirates of the UAE, in detection order.
var emirates = []string{
	"Abu Dhabi",
	"Dubai",
	"Sharjah",
	"Ajman",
	"Fujairah",
	"Ras Al Khaimah",
	"Umm Al Quwain",
}

// Short names and common variants mapped to the canonical institution name.
var nameAliases = map[string]string{
	"uae university": "United Arab Emirates University",
	"aud":            "American University in Dubai",
	"aus":            "American University of Sharjah",
	"nyu abu dhabi":  "New York University, Abu Dhabi",
	"bits pilani":    "Birla Institute of Technology & Science, Pilani, Dubai",
}

var nameNoisePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\s*\(formerly:.*?\)`),
	regexp.MustCompile(`(?i)\s*\(licensure revoked\)`),
	regexp.MustCompile(`(?i)\s*\(.*campus\)`),
}

// Words too generic to help match institution names across sources.
var stopWords = map[string]bool{
	"university": true, "college": true, "institute": true,
	"of": true, "the": true, "in": true, "for": true, "and": true, "&": true,
}

var numberRe = regexp.MustCompile(`\d[\d,]*\.?\d*`)

// cleanUniversityName collapses whitespace, strips decorative suffixes, and
// resolves known short aliases.
func cleanUniversityName(name string) string {
	cleaned := strings.Join(strings.Fields(name), " ")
	for _, re := range nameNoisePatterns {
		cleaned = re.ReplaceAllString(cleaned, "")
	}
	cleaned = strings.TrimSpace(cleaned)
	if canonical, ok := nameAliases[strings.ToLower(cleaned)]; ok {
		return canonical
	}
	return cleaned
}

// matchKey reduces a university name to the key used for cross-source
// matching: lowercase, stop words removed, non-alphanumerics stripped.
func matchKey(name string) string {
	var b strings.Builder
	for _, w := range strings.Fields(strings.ToLower(name)) {
		if stopWords[w] {
			continue
		}
		for _, r := range w {
			if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
				b.WriteRune(r)
			}
		}
	}
	return b.String()
}

// detectEmirate finds an emirate mentioned in text, handling the common
// abbreviations. Al Ain belongs to the Abu Dhabi emirate.
func detectEmirate(text string) string {
	low := strings.ToLower(text)
	for _, e := range emirates {
		if strings.Contains(low, strings.ToLower(e)) {
			return e
		}
	}
	switch {
	case strings.Contains(low, "rak") || strings.Contains(low, "r.a.k"):
		return "Ras Al Khaimah"
	case strings.Contains(low, "uaq"):
		return "Umm Al Quwain"
	case strings.Contains(low, "al ain"):
		return "Abu Dhabi"
	}
	return ""
}

// extractNumbers pulls every numeric token from mixed text.
func extractNumbers(text string) []float64 {
	var out []float64
	for _, m := range numberRe.FindAllString(text, -1) {
		if f, err := strconv.ParseFloat(strings.ReplaceAll(m, ",", ""), 64); err == nil {
			out = append(out, f)
		}
	}
	return out
}

// fee holds the structured parts of a free-text tuition string.
type fee struct {
	value    *float64
	currency string
	period   *string
}

// parseFee extracts value, currency, and billing period from strings like
// "AED 52,500 per year" or "$10,000 - $14,000 / year". A detected range
// collapses to its midpoint since the fee value is a single-number field.
func parseFee(text string) fee {
	f := fee{currency: "AED"}
	if strings.TrimSpace(text) == "" {
		return f
	}
	up := strings.ToUpper(text)
	switch {
	case strings.Contains(up, "USD") || strings.Contains(text, "$"):
		f.currency = "USD"
	case strings.Contains(up, "EUR") || strings.Contains(text, "€"):
		f.currency = "EUR"
	}

	nums := extractNumbers(text)
	switch {
	case len(nums) == 1:
		f.value = &nums[0]
	case len(nums) > 1:
		mid := (nums[0] + nums[1]) / 2
		f.value = &mid
	}

	low := strings.ToLower(text)
	var period string
	switch {
	case strings.Contains(low, "year") || strings.Contains(low, "annual"):
		period = "per year"
	case strings.Contains(low, "semester"):
		period = "per semester"
	case strings.Contains(low, "month"):
		period = "per month"
	case strings.Contains(low, "total"):
		period = "total"
	}
	if period != "" {
		f.period = &period
	}
	return f
}

var (
	yearsRe     = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)(?:\s*[-–]\s*\d+(?:\.\d+)?)?\s*years?`)
	monthsRe    = regexp.MustCompile(`(?i)(\d+)(?:\s*[-–]\s*\d+)?\s*months?`)
	semestersRe = regexp.MustCompile(`(?i)(\d+)(?:\s*[-–]\s*\d+)?\s*semesters?`)
)

// parseDurationMonths converts duration text to months (year=12, semester=6,
// month=1). A range like "2-4 years" collapses to its minimum.
func parseDurationMonths(text string) *int {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	months := 0
	if m := yearsRe.FindStringSubmatch(text); m != nil {
		if y, err := strconv.ParseFloat(m[1], 64); err == nil {
			months += int(y * 12)
		}
	}
	if m := semestersRe.FindStringSubmatch(text); m != nil {
		if s, err := strconv.Atoi(m[1]); err == nil {
			months += s * 6
		}
	}
	if m := monthsRe.FindStringSubmatch(text); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			months += n
		}
	}
	if months == 0 {
		return nil
	}
	return &months
}
