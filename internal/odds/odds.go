// Package odds converts bookmaker odds into implied probabilities and removes
// the bookmaker margin.
package odds

import (
	"fmt"
	"math"

	"github.com/alanyoungcy/kalshiedge/internal/domain"
)

// Format names an odds encoding.
type Format string

const (
	FormatAmerican Format = "american"
	FormatDecimal  Format = "decimal"
)

// ParseFormat maps a config string onto a Format.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatAmerican, FormatDecimal:
		return Format(s), nil
	case "":
		return FormatAmerican, nil
	default:
		return "", fmt.Errorf("odds: unknown format %q", s)
	}
}

// ImpliedProbability converts American odds to an implied probability.
// +150 gives 0.4, -150 gives 0.6. Zero is not a valid price.
func ImpliedProbability(american float64) (float64, error) {
	switch {
	case american > 0:
		return 100 / (american + 100), nil
	case american < 0:
		a := math.Abs(american)
		return a / (a + 100), nil
	default:
		return 0, fmt.Errorf("american odds %v: %w", american, domain.ErrInvalidOdds)
	}
}

// DecimalImpliedProbability converts decimal odds (2.50) to a probability.
func DecimalImpliedProbability(dec float64) (float64, error) {
	if dec <= 1 || math.IsNaN(dec) || math.IsInf(dec, 0) {
		return 0, fmt.Errorf("decimal odds %v: %w", dec, domain.ErrInvalidOdds)
	}
	return 1 / dec, nil
}

// Convert dispatches on the odds format.
func Convert(f Format, price float64) (float64, error) {
	switch f {
	case FormatDecimal:
		return DecimalImpliedProbability(price)
	case FormatAmerican, "":
		return ImpliedProbability(price)
	default:
		return 0, fmt.Errorf("odds: unknown format %q", f)
	}
}

// Devig proportionally rescales two implied probabilities so they sum to 1.
func Devig(pa, pb float64) (float64, float64, error) {
	total := pa + pb
	if total <= 0 || math.IsNaN(total) {
		return 0, 0, fmt.Errorf("devig %v + %v: %w", pa, pb, domain.ErrDegenerateProbabilities)
	}
	return pa / total, pb / total, nil
}

// Vig is the bookmaker overround of a two-way market, e.g. 0.0476 for
// -110/-110.
func Vig(pa, pb float64) float64 {
	return pa + pb - 1
}
