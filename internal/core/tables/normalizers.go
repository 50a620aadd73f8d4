package tables

import (
	"strings"

	"github.com/JonMunkholm/talentdesk/internal/table"
)

// usStates maps US state full names to their abbreviations.
var usStates = map[string]string{
	"alabama":        "AL",
	"alaska":         "AK",
	"arizona":        "AZ",
	"arkansas":       "AR",
	"california":     "CA",
	"colorado":       "CO",
	"connecticut":    "CT",
	"delaware":       "DE",
	"florida":        "FL",
	"georgia":        "GA",
	"hawaii":         "HI",
	"idaho":          "ID",
	"illinois":       "IL",
	"indiana":        "IN",
	"iowa":           "IA",
	"kansas":         "KS",
	"kentucky":       "KY",
	"louisiana":      "LA",
	"maine":          "ME",
	"maryland":       "MD",
	"massachusetts":  "MA",
	"michigan":       "MI",
	"minnesota":      "MN",
	"mississippi":    "MS",
	"missouri":       "MO",
	"montana":        "MT",
	"nebraska":       "NE",
	"nevada":         "NV",
	"new hampshire":  "NH",
	"new jersey":     "NJ",
	"new mexico":     "NM",
	"new york":       "NY",
	"north carolina": "NC",
	"north dakota":   "ND",
	"ohio":           "OH",
	"oklahoma":       "OK",
	"oregon":         "OR",
	"pennsylvania":   "PA",
	"rhode island":   "RI",
	"south carolina": "SC",
	"south dakota":   "SD",
	"tennessee":      "TN",
	"texas":          "TX",
	"utah":           "UT",
	"vermont":        "VT",
	"virginia":       "VA",
	"washington":     "WA",
	"west virginia":  "WV",
	"wisconsin":      "WI",
	"wyoming":        "WY",
}

// stateCodes is the set of valid abbreviations.
var stateCodes = func() map[string]bool {
	codes := make(map[string]bool, len(usStates))
	for _, code := range usStates {
		codes[code] = true
	}
	return codes
}()

// normalizeState converts a US state name to its 2-letter abbreviation.
// Abbreviations are upper-cased; anything unrecognized is returned trimmed.
func normalizeState(s string) string {
	s = strings.TrimSpace(s)
	if code, ok := usStates[strings.ToLower(s)]; ok {
		return code
	}
	if upper := strings.ToUpper(s); stateCodes[upper] {
		return upper
	}
	return s
}

// normalizeLocation rewrites "City, State" so the same office always reads
// the same way: "austin, texas" and "Austin, TX" both become "Austin, TX".
// Values without a comma, such as "Remote", only get trimmed.
func normalizeLocation(s string) string {
	city, state, ok := strings.Cut(s, ",")
	if !ok {
		return strings.TrimSpace(s)
	}
	city = strings.TrimSpace(city)
	if city != "" {
		city = strings.ToUpper(city[:1]) + city[1:]
	}
	return city + ", " + normalizeState(state)
}

// locationAccessor reads field and normalizes it as a location. Missing
// values stay nil so they keep sorting last.
func locationAccessor(field string) table.Accessor {
	return func(r table.Record) any {
		v := r[field]
		if table.IsNull(v) {
			return nil
		}
		return normalizeLocation(table.Stringify(v))
	}
}
