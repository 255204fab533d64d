package domain

// Coordinates is a point reported by the weather provider
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Condition describes the dominant weather condition
type Condition struct {
	Main        string `json:"main"` // Clear, Clouds, Rain, ...
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

// WeatherReading represents current weather for a city. Never persisted.
type WeatherReading struct {
	Name        string       `json:"name"`
	Country     string       `json:"country"`
	Condition   Condition    `json:"condition"`
	Temperature float64      `json:"temperature"`
	FeelsLike   float64      `json:"feels_like"`
	Humidity    int          `json:"humidity"`
	Pressure    int          `json:"pressure"`
	WindSpeed   float64      `json:"wind_speed"`
	Coordinates *Coordinates `json:"coord,omitempty"`
}

// AirQualityReading carries the US AQI of the station nearest to a point
type AirQualityReading struct {
	AQIUS   int    `json:"aqius"`
	City    string `json:"city,omitempty"`
	Country string `json:"country,omitempty"`

	// DistanceKm from the requested point to the reporting station, when known
	DistanceKm *float64 `json:"distance_km,omitempty"`
}

// AqiStatus is the display classification of an AQI value
type AqiStatus struct {
	Label       string `json:"label"`
	Color       string `json:"color"`
	BgColor     string `json:"bg_color"`
	Description string `json:"description"`
}

// CombinedPayload is the body of the combined JSON endpoint
type CombinedPayload struct {
	Weather WeatherReading     `json:"weather"`
	AQI     *AirQualityReading `json:"aqi"`
}
