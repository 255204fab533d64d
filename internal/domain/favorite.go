package domain

import (
	"strings"
	"time"
	"unicode/utf8"
)

const (
	MaxCityLength    = 100
	MaxCountryLength = 5
)

// Favorite is a user-saved city reference
type Favorite struct {
	ID        string    `json:"id"`
	City      string    `json:"city"`
	Country   *string   `json:"country"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FavoriteInput is the normalized (city, country) key used for de-duplication
type FavoriteInput struct {
	City    string
	Country *string
}

// NewFavoriteInput trims both fields and validates lengths.
// An empty country becomes nil, so ("Paris", "") and ("Paris", nil) are the same key.
func NewFavoriteInput(city string, country *string) (FavoriteInput, error) {
	city = strings.TrimSpace(city)
	if err := ValidateCity(city); err != nil {
		return FavoriteInput{}, err
	}

	var c *string
	if country != nil {
		trimmed := strings.TrimSpace(*country)
		if utf8.RuneCountInString(trimmed) > MaxCountryLength {
			return FavoriteInput{}, &ValidationError{Field: "country", Message: "may not be greater than 5 characters"}
		}
		if trimmed != "" {
			c = &trimmed
		}
	}

	return FavoriteInput{City: city, Country: c}, nil
}

// ValidateCity enforces the required/max:100 rule shared by search and favorites
func ValidateCity(city string) error {
	if strings.TrimSpace(city) == "" {
		return &ValidationError{Field: "city", Message: "is required"}
	}
	if utf8.RuneCountInString(city) > MaxCityLength {
		return &ValidationError{Field: "city", Message: "may not be greater than 100 characters"}
	}
	return nil
}

// SameCountry reports whether two optional country codes are equal
func SameCountry(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
