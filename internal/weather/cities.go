// Package weather detects weather questions and fetches current conditions
// for Bangladeshi cities from Open-Meteo.
package weather

import "strings"

// City is an entry in the supported city table.
type City struct {
	Key       string
	Name      string
	Latitude  float64
	Longitude float64
}

// Cities lists the supported cities in match order. Dhaka is the default.
var Cities = []City{
	{Key: "dhaka", Name: "ঢাকা", Latitude: 23.8103, Longitude: 90.4125},
	{Key: "chittagong", Name: "চট্টগ্রাম", Latitude: 22.3569, Longitude: 91.7832},
	{Key: "sylhet", Name: "সিলেট", Latitude: 24.8949, Longitude: 91.8687},
	{Key: "rajshahi", Name: "রাজশাহী", Latitude: 24.3745, Longitude: 88.6042},
	{Key: "khulna", Name: "খুলনা", Latitude: 22.8456, Longitude: 89.5403},
	{Key: "rangpur", Name: "রংপুর", Latitude: 25.7439, Longitude: 89.2752},
	{Key: "barishal", Name: "বরিশাল", Latitude: 22.7010, Longitude: 90.3535},
	{Key: "comilla", Name: "কুমিল্লা", Latitude: 23.4607, Longitude: 91.1809},
}

// DefaultCity is returned when a query names no known city.
var DefaultCity = Cities[0]

// ParseCityFromQuery returns the first city, in table order, whose key or
// Bengali name occurs in the lower-cased query. Dhaka otherwise.
func ParseCityFromQuery(query string) City {
	lower := strings.ToLower(query)
	for _, c := range Cities {
		if strings.Contains(lower, c.Key) || strings.Contains(lower, c.Name) {
			return c
		}
	}
	return DefaultCity
}

// CityByKey looks up a city by its ASCII key.
func CityByKey(key string) (City, bool) {
	key = strings.ToLower(strings.TrimSpace(key))
	for _, c := range Cities {
		if c.Key == key {
			return c, true
		}
	}
	return City{}, false
}
