package service

import (
	"context"

	"github.com/weatherdash/backend/internal/domain"
)

// FavoriteRepository is re-exported from domain for convenience
type FavoriteRepository = domain.FavoriteRepository

// WeatherLookup fetches current weather for a city
type WeatherLookup interface {
	Enabled() bool
	FetchCurrent(ctx context.Context, city string) (domain.WeatherReading, error)
}

// AirQualityLookup fetches the AQI nearest to a coordinate
type AirQualityLookup interface {
	Enabled() bool
	FetchAQI(ctx context.Context, lat, lon float64) (domain.AirQualityReading, error)
}

// MessageKind distinguishes success from error acknowledgements
type MessageKind string

const (
	MessageSuccess MessageKind = "success"
	MessageError   MessageKind = "error"
)

// Message is a one-shot user-facing status; the HTTP layer decides how to surface it
type Message struct {
	Kind MessageKind `json:"kind"`
	Text string      `json:"text"`
}

func successMessage(text string) *Message {
	return &Message{Kind: MessageSuccess, Text: text}
}

func errorMessage(text string) *Message {
	return &Message{Kind: MessageError, Text: text}
}
