package place

import (
	"regexp"
	"strings"
)

// cityLikeTypes are the Nominatim types accepted in city mode.
var cityLikeTypes = map[string]bool{
	"city":         true,
	"town":         true,
	"village":      true,
	"suburb":       true,
	"hamlet":       true,
	"municipality": true,
	"borough":      true,
}

var (
	countyRe = regexp.MustCompile(`(?i)\b(county|parish)\b`)
	zipRe    = regexp.MustCompile(`\b\d{5}(?:-\d{4})?\b`)
	spacesRe = regexp.MustCompile(`\s{2,}`)
)

func isCountyLike(value string) bool {
	return value == "county" || countyRe.MatchString(value)
}

// removeCountySegments drops whole comma segments naming a county or parish.
func removeCountySegments(label string) string {
	var kept []string
	for _, segment := range strings.Split(label, ",") {
		segment = strings.TrimSpace(segment)
		if segment == "" || countyRe.MatchString(segment) {
			continue
		}
		kept = append(kept, segment)
	}
	return strings.Join(kept, ", ")
}

// removeZipCodeSegments strips ZIP and ZIP+4 codes inside each segment,
// dropping segments that become empty.
func removeZipCodeSegments(label string) string {
	var kept []string
	for _, segment := range strings.Split(label, ",") {
		segment = zipRe.ReplaceAllString(segment, "")
		segment = spacesRe.ReplaceAllString(segment, " ")
		segment = strings.TrimSpace(segment)
		if segment == "" {
			continue
		}
		kept = append(kept, segment)
	}
	return strings.Join(kept, ", ")
}

func normalizeLabel(label string) string {
	return removeZipCodeSegments(removeCountySegments(label))
}
