package app

import "testing"

func TestCleanUniversityName(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"  United   Arab Emirates  University ", "United Arab Emirates University"},
		{"AUS", "American University of Sharjah"},
		{"Some College (LICENSURE REVOKED)", "Some College"},
		{"Heriot-Watt University (Dubai Campus)", "Heriot-Watt University"},
		{"uae university", "United Arab Emirates University"},
	}
	for _, c := range cases {
		if got := cleanUniversityName(c.in); got != c.want {
			t.Errorf("cleanUniversityName(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestMatchKeyCollapsesVariants(t *testing.T) {
	a := matchKey("American University of Sharjah")
	b := matchKey("American University Sharjah")
	if a != b {
		t.Fatalf("variants should share a key: %q vs %q", a, b)
	}
	if a == "" {
		t.Fatal("key must not be empty")
	}
	if matchKey("University of Dubai") == matchKey("University of Sharjah") {
		t.Fatal("distinct institutions must not collide")
	}
}

func TestDetectEmirate(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"Dubai, UAE", "Dubai"},
		{"American University of Ras Al Khaimah", "Ras Al Khaimah"},
		{"RAK Medical College", "Ras Al Khaimah"},
		{"Al Ain Campus", "Abu Dhabi"},
		{"Somewhere else", ""},
	}
	for _, c := range cases {
		if got := detectEmirate(c.in); got != c.want {
			t.Errorf("detectEmirate(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestParseFee(t *testing.T) {
	f := parseFee("AED 52,500 per year")
	if f.value == nil || *f.value != 52500 {
		t.Fatalf("value = %v, want 52500", f.value)
	}
	if f.currency != "AED" {
		t.Fatalf("currency = %q", f.currency)
	}
	if f.period == nil || *f.period != "per year" {
		t.Fatalf("period = %v", f.period)
	}

	// A range collapses to its midpoint.
	f = parseFee("$10,000 - $14,000 / year")
	if f.value == nil || *f.value != 12000 {
		t.Fatalf("range midpoint = %v, want 12000", f.value)
	}
	if f.currency != "USD" {
		t.Fatalf("currency = %q, want USD", f.currency)
	}

	f = parseFee("")
	if f.value != nil || f.period != nil || f.currency != "AED" {
		t.Fatalf("empty input should yield AED with no value: %+v", f)
	}
}

func TestParseDurationMonths(t *testing.T) {
	cases := []struct {
		in   string
		want int
	}{
		{"4 years", 48},
		{"18 months", 18},
		{"2 semesters", 12},
		{"1 year 6 months", 18},
		{"2-4 years", 24}, // range collapses to minimum
	}
	for _, c := range cases {
		got := parseDurationMonths(c.in)
		if got == nil || *got != c.want {
			t.Errorf("parseDurationMonths(%q) = %v, want %d", c.in, got, c.want)
		}
	}
	if got := parseDurationMonths("flexible"); got != nil {
		t.Errorf("unparseable duration should be nil, got %v", got)
	}
}
