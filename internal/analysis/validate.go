package analysis

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMissingField is returned when a required input is empty
	ErrMissingField = errors.New("missing required fields")

	// ErrInvalidValue is returned when a numeric input is out of range
	ErrInvalidValue = errors.New("invalid value")
)

// Limits bounds the numeric inputs of an estimate
type Limits struct {
	MinWeight   float64
	MaxWeight   float64
	MinDuration float64
	MaxDuration float64
}

// DefaultLimits match the input widgets: 80-400 lb, 5-300 minutes
var DefaultLimits = Limits{MinWeight: 80, MaxWeight: 400, MinDuration: 5, MaxDuration: 300}

// Input is an estimate request as entered by the user
type Input struct {
	Activity        string
	Custom          bool
	WeightLbs       float64
	DurationMinutes float64
}

// ValidateRequest checks that a reference activity is named and the numbers are
// within limits. Custom activities do not need a name.
func ValidateRequest(in Input, lim Limits) error {
	if !in.Custom && strings.TrimSpace(in.Activity) == "" {
		return fmt.Errorf("%w: activity", ErrMissingField)
	}
	if !within(in.WeightLbs, lim.MinWeight, lim.MaxWeight) {
		return fmt.Errorf("%w for weight: %g lb (allowed %g-%g)", ErrInvalidValue, in.WeightLbs, lim.MinWeight, lim.MaxWeight)
	}
	if !within(in.DurationMinutes, lim.MinDuration, lim.MaxDuration) {
		return fmt.Errorf("%w for duration: %g minutes (allowed %g-%g)", ErrInvalidValue, in.DurationMinutes, lim.MinDuration, lim.MaxDuration)
	}
	return nil
}

// within is false for NaN
func within(v, min, max float64) bool {
	return v >= min && v <= max
}
