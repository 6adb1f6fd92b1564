package alert

import "strings"

// Category is a classification label assigned by the feed source.
// The set is open: labels outside the enumeration are kept as-is.
type Category string

// All is the filter sentinel matching every non-noise category.
const All Category = "All"

// Noise is the label the classifier uses for off-topic posts.
// It is never offered as a filter and never displayed.
const Noise Category = "Other"

const (
	Fire                 Category = "Fire"
	Flood                Category = "Flood"
	Earthquake           Category = "Earthquake"
	Storm                Category = "Storm"
	Cold                 Category = "Cold"
	OtherWeather         Category = "Other Weather"
	MedicalEmergency     Category = "Medical Emergency"
	DisplacedPeople      Category = "Displaced People"
	InfrastructureDamage Category = "Infrastructure Damage"
	CautionAdvice        Category = "Caution/Advice"
	Violence             Category = "Violence"
	SearchAndRescue      Category = "Search and Rescue"
	AidRelated           Category = "Aid Related"
	DeathMissing         Category = "Death/Missing People"
	RequestsForHelp      Category = "Requests for Help"
)

// Categories lists the filterable categories in display order.
// Noise is deliberately absent.
var Categories = []Category{
	Fire,
	Flood,
	Earthquake,
	Storm,
	Cold,
	OtherWeather,
	MedicalEmergency,
	DisplacedPeople,
	InfrastructureDamage,
	CautionAdvice,
	Violence,
	SearchAndRescue,
	AidRelated,
	DeathMissing,
	RequestsForHelp,
}

// FilterChoices returns All followed by every filterable category.
func FilterChoices() []Category {
	out := make([]Category, 0, len(Categories)+1)
	out = append(out, All)
	return append(out, Categories...)
}

// ParseFilter resolves a user-supplied filter name, case-insensitively.
// Empty input means All. The noise label is rejected.
func ParseFilter(s string) (Category, bool) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, string(All)) {
		return All, true
	}
	for _, c := range Categories {
		if strings.EqualFold(s, string(c)) {
			return c, true
		}
	}
	return "", false
}

// Severe reports whether c belongs to the categories highlighted in the
// critical section.
func (c Category) Severe() bool {
	switch c {
	case Fire, Earthquake, Violence:
		return true
	}
	return false
}
