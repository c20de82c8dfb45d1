// Package domain holds the weather view types and WMO code texts
package domain

import "time"

// Messages returned next to or instead of the forecast
const (
	MsgLoadFailed = "Не вдалося завантажити погоду."
	MsgCached     = "Показано останній збережений прогноз."
)

// Current is the temperature right now, rounded to whole degrees
type Current struct {
	Time        string `json:"time"         example:"2026-10-16T09:00"`
	Temperature int    `json:"temperature"  example:"11"`
	WeatherCode int    `json:"weather_code" example:"3"`
	Description string `json:"description"  example:"Хмарно"`
	Icon        string `json:"icon"         example:"cloud"`
}

// Day is one forecast day
type Day struct {
	Date        string `json:"date"         example:"2026-10-16"`
	Weekday     string `json:"weekday"      example:"Пт"`
	Label       string `json:"label"        example:"16 жовтня"`
	WeatherCode int    `json:"weather_code" example:"61"`
	Description string `json:"description"  example:"Дощ"`
	Icon        string `json:"icon"         example:"rain"`
	Max         int    `json:"max"          example:"13"`
	Min         int    `json:"min"          example:"6"`
}

// Weather is GET /weather
type Weather struct {
	Latitude  float64    `json:"latitude"   example:"50.4014"`
	Longitude float64    `json:"longitude"  example:"30.3706"`
	Current   Current    `json:"current"`
	Daily     []Day      `json:"daily"`
	FetchedAt *time.Time `json:"fetched_at"`
	Stale     bool       `json:"stale"`
	Error     string     `json:"error,omitempty"`
}

var descriptions = map[int]string{
	0: "Ясно", 1: "Переважно ясно", 2: "Частково хмарно", 3: "Хмарно",
	45: "Туман", 48: "Туман",
	51: "Мряка", 53: "Мряка", 55: "Мряка",
	61: "Дощ", 63: "Дощ", 65: "Сильний дощ",
	71: "Сніг", 73: "Сніг", 75: "Сильний сніг",
	80: "Злива", 81: "Злива", 82: "Сильна злива",
	95: "Гроза",
}

// Describe returns the Ukrainian text of a WMO weather code; unknown codes read "Хмарно"
func Describe(code int) string {
	if d, ok := descriptions[code]; ok {
		return d
	}
	return "Хмарно"
}

// Icon names the pictogram family of a WMO weather code
func Icon(code int) string {
	switch {
	case code == 0, code == 1:
		return "sun"
	case code >= 51 && code <= 55:
		return "drizzle"
	case code >= 61 && code <= 65, code >= 80 && code <= 82, code == 95:
		return "rain"
	case code >= 71 && code <= 75:
		return "snow"
	default:
		return "cloud"
	}
}
