package domain

// Country constants for the UAE run.
const (
	CountryName     = "United Arab Emirates"
	CountryCode     = "UAE"
	CountryCurrency = "AED"
)

// CostOfLiving holds monthly student living cost ranges in AED.
type CostOfLiving struct {
	AccommodationMin float64 `json:"accommodation_min"`
	AccommodationMax float64 `json:"accommodation_max"`
	FoodMin          float64 `json:"food_min"`
	FoodMax          float64 `json:"food_max"`
	TransportMin     float64 `json:"transport_min"`
	TransportMax     float64 `json:"transport_max"`
	UtilitiesMin     float64 `json:"utilities_min"`
	UtilitiesMax     float64 `json:"utilities_max"`
	TotalMin         float64 `json:"total_min"`
	TotalMax         float64 `json:"total_max"`
	Period           string  `json:"period"`
	Year             int     `json:"year"`
}

// TuitionRange holds annual tuition fee ranges in AED.
type TuitionRange struct {
	UndergraduateMin float64 `json:"undergraduate_min"`
	UndergraduateMax float64 `json:"undergraduate_max"`
	PostgraduateMin  float64 `json:"postgraduate_min"`
	PostgraduateMax  float64 `json:"postgraduate_max"`
	Currency         string  `json:"currency"`
}

// DefaultCostOfLiving returns the published 2025 guide figures used when the
// cost-of-living source yields nothing usable.
func DefaultCostOfLiving() CostOfLiving {
	return CostOfLiving{
		AccommodationMin: 3500, AccommodationMax: 6000,
		FoodMin: 500, FoodMax: 1200,
		TransportMin: 350, TransportMax: 500,
		UtilitiesMin: 300, UtilitiesMax: 600,
		TotalMin: 4500, TotalMax: 6500,
		Period: "monthly", Year: 2025,
	}
}

func DefaultTuitionRange() TuitionRange {
	return TuitionRange{
		UndergraduateMin: 25000, UndergraduateMax: 75000,
		PostgraduateMin: 30000, PostgraduateMax: 120000,
		Currency: CountryCurrency,
	}
}

// CountryProfile is the singleton country block of the output document,
// assembled once from the cost-of-living source and the accepted record set.
type CountryProfile struct {
	Name              string       `json:"name"`
	Code              string       `json:"code"`
	Currency          string       `json:"currency"`
	CostOfLiving      CostOfLiving `json:"cost_of_living"`
	TuitionRange      TuitionRange `json:"tuition_range"`
	TotalUniversities int          `json:"total_universities"`
	TotalCourses      int          `json:"total_courses"`
}
