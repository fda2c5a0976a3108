// Package consensus aggregates de-vigged bookmaker probabilities into one
// robust estimate per side of an event.
package consensus

import (
	"log/slog"
	"math"
	"sort"

	"github.com/alanyoungcy/kalshiedge/internal/domain"
	"github.com/alanyoungcy/kalshiedge/internal/odds"
)

// DefaultMinBookmakers is the smallest quote count that yields a consensus.
const DefaultMinBookmakers = 3

// Builder turns an event's bookmaker quotes into a domain.Consensus.
type Builder struct {
	minBookmakers int
	format        odds.Format
	logger        *slog.Logger
}

// NewBuilder creates a Builder. A non-positive minBookmakers falls back to
// DefaultMinBookmakers.
func NewBuilder(minBookmakers int, format odds.Format, logger *slog.Logger) *Builder {
	if minBookmakers <= 0 {
		minBookmakers = DefaultMinBookmakers
	}
	if format == "" {
		format = odds.FormatAmerican
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Builder{
		minBookmakers: minBookmakers,
		format:        format,
		logger:        logger.With(slog.String("component", "consensus")),
	}
}

// Build returns the consensus for ev. ok is false when fewer than the
// minimum number of bookmakers quote a usable h2h market naming both teams.
// A quote that cannot be converted or de-vigged is skipped.
func (b *Builder) Build(ev domain.RawEvent) (domain.Consensus, bool) {
	var homeProbs, awayProbs []float64

	for _, book := range ev.Bookmakers {
		market, ok := book.H2H()
		if !ok {
			continue
		}
		homePrice, okHome := market.Price(ev.HomeTeam)
		awayPrice, okAway := market.Price(ev.AwayTeam)
		if !okHome || !okAway {
			continue
		}

		home, away, err := b.fair(homePrice, awayPrice)
		if err != nil {
			b.logger.Debug("skipping quote",
				slog.String("event_id", ev.ID),
				slog.String("bookmaker", book.Key),
				slog.String("error", err.Error()),
			)
			continue
		}
		homeProbs = append(homeProbs, home)
		awayProbs = append(awayProbs, away)
	}

	if len(homeProbs) < b.minBookmakers {
		return domain.Consensus{}, false
	}

	return domain.Consensus{
		HomeProb:      Median(homeProbs),
		AwayProb:      Median(awayProbs),
		NumBookmakers: len(homeProbs),
		HomeStd:       StdDev(homeProbs),
		AwayStd:       StdDev(awayProbs),
	}, true
}

func (b *Builder) fair(homePrice, awayPrice float64) (float64, float64, error) {
	home, err := odds.Convert(b.format, homePrice)
	if err != nil {
		return 0, 0, err
	}
	away, err := odds.Convert(b.format, awayPrice)
	if err != nil {
		return 0, 0, err
	}
	return odds.Devig(home, away)
}

// BuildAll computes consensus for every event that has one, keyed by event id.
func (b *Builder) BuildAll(events []domain.RawEvent) map[string]domain.Consensus {
	out := make(map[string]domain.Consensus, len(events))
	for _, ev := range events {
		if c, ok := b.Build(ev); ok {
			out[ev.ID] = c
		}
	}
	return out
}

// Median of xs. The input is not modified. Empty input returns 0.
func Median(xs []float64) float64 {
	n := len(xs)
	if n == 0 {
		return 0
	}
	s := append([]float64(nil), xs...)
	sort.Float64s(s)
	if n%2 == 1 {
		return s[n/2]
	}
	return (s[n/2-1] + s[n/2]) / 2
}

// StdDev is the sample standard deviation (n-1 denominator). Fewer than two
// samples give 0.
func StdDev(xs []float64) float64 {
	n := len(xs)
	if n < 2 {
		return 0
	}
	var mean float64
	for _, x := range xs {
		mean += x
	}
	mean /= float64(n)

	var ss float64
	for _, x := range xs {
		d := x - mean
		ss += d * d
	}
	return math.Sqrt(ss / float64(n-1))
}
