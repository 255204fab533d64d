package service

import "github.com/weatherdash/backend/internal/domain"

// DefaultIcon is shown for conditions outside the known set ("partly cloudy")
const DefaultIcon = "cloud-sun"

// conditionIcons maps OpenWeatherMap "main" conditions to Font Awesome icon names.
// Keys are case-sensitive.
var conditionIcons = map[string]string{
	"Clear":        "sun",
	"Clouds":       "cloud",
	"Rain":         "cloud-rain",
	"Drizzle":      "cloud-rain",
	"Thunderstorm": "bolt",
	"Snow":         "snowflake",
	"Mist":         "smog",
	"Smoke":        "smog",
	"Haze":         "smog",
	"Dust":         "wind",
	"Fog":          "smog",
	"Sand":         "wind",
	"Ash":          "fire",
	"Squall":       "wind",
	"Tornado":      "wind",
}

// StatusClassifier turns raw readings into display metadata. Stateless.
type StatusClassifier struct{}

// NewStatusClassifier creates a new classifier
func NewStatusClassifier() *StatusClassifier {
	return &StatusClassifier{}
}

// IconFor returns the icon key for a condition
func (c *StatusClassifier) IconFor(conditionMain string) string {
	if icon, ok := conditionIcons[conditionMain]; ok {
		return icon
	}
	return DefaultIcon
}

// ClassifyAQI returns the US EPA category for an AQI value
func (c *StatusClassifier) ClassifyAQI(aqi int) domain.AqiStatus {
	switch {
	case aqi <= 50:
		return domain.AqiStatus{
			Label:       "Good",
			Color:       "text-green-500",
			BgColor:     "bg-green-500",
			Description: "Air quality is considered satisfactory, and air pollution poses little or no risk.",
		}
	case aqi <= 100:
		return domain.AqiStatus{
			Label:       "Moderate",
			Color:       "text-yellow-500",
			BgColor:     "bg-yellow-500",
			Description: "Air quality is acceptable; however, there may be a moderate health concern for a very small number of people.",
		}
	case aqi <= 150:
		return domain.AqiStatus{
			Label:       "Unhealthy for Sensitive Groups",
			Color:       "text-orange-500",
			BgColor:     "bg-orange-500",
			Description: "Members of sensitive groups may experience health effects. The general public is not likely to be affected.",
		}
	case aqi <= 200:
		return domain.AqiStatus{
			Label:       "Unhealthy",
			Color:       "text-red-500",
			BgColor:     "bg-red-500",
			Description: "Everyone may begin to experience health effects; members of sensitive groups may experience more serious health effects.",
		}
	case aqi <= 300:
		return domain.AqiStatus{
			Label:       "Very Unhealthy",
			Color:       "text-purple-500",
			BgColor:     "bg-purple-500",
			Description: "Health alert: everyone may experience more serious health effects.",
		}
	default:
		return domain.AqiStatus{
			Label:       "Hazardous",
			Color:       "text-red-700",
			BgColor:     "bg-red-700",
			Description: "Health warnings of emergency conditions. The entire population is more likely to be affected.",
		}
	}
}
