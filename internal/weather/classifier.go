package weather

import "strings"

var keywords = []string{
	"weather", "আবহাওয়া", "তাপমাত্রা", "temperature",
	"বৃষ্টি", "rain", "গরম", "ঠান্ডা", "hot", "cold",
	"sunny", "রোদ", "মেঘ", "cloud",
}

// IsWeatherQuery reports whether the lower-cased text contains any weather
// keyword. Matching is plain substring containment, so "cloudy" matches.
func IsWeatherQuery(text string) bool {
	lower := strings.ToLower(text)
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
