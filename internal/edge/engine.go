// Package edge prices matched listings against the sportsbook consensus and
// ranks the resulting opportunities.
package edge

import (
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/alanyoungcy/kalshiedge/internal/domain"
	"github.com/alanyoungcy/kalshiedge/internal/fees"
)

// ReferenceContracts is the order size every opportunity is priced at. The
// fee is rounded on this many contracts and EV100 is the EV of the order.
const ReferenceContracts = 100

// Config controls which opportunities are emitted.
type Config struct {
	MinEdge float64
	Maker   bool
}

// DefaultConfig emits anything with at least two cents of net edge per
// contract, priced as a taker order.
func DefaultConfig() Config {
	return Config{MinEdge: 0.02}
}

// Engine computes edges. It holds no per-scan state.
type Engine struct {
	cfg    Config
	fees   *fees.Model
	logger *slog.Logger
	now    func() time.Time
}

// New creates an Engine. A nil fee model uses the exchange defaults.
func New(cfg Config, model *fees.Model, logger *slog.Logger) *Engine {
	if model == nil {
		model = fees.DefaultModel()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		cfg:    cfg,
		fees:   model,
		logger: logger.With(slog.String("component", "edge")),
		now:    time.Now,
	}
}

// Calculate prices buying contracts of one side. price is the listing's YES
// price and prob the consensus probability of that side; for a NO position
// both are mirrored before the fee is applied.
func (e *Engine) Calculate(price, prob float64, contracts int, pos domain.Position, maker bool) (domain.EdgeCalculation, error) {
	if pos == domain.PositionNo {
		price, prob = 1-price, 1-prob
	}

	fee, err := e.fees.Fee(price, contracts, maker)
	if err != nil {
		return domain.EdgeCalculation{}, err
	}
	feePer := fee / float64(contracts)
	eff := price + feePer
	ev := prob*(1-eff) - (1-prob)*eff

	return domain.EdgeCalculation{
		Position:       pos,
		Price:          price,
		Prob:           prob,
		Contracts:      contracts,
		FeePerContract: feePer,
		EffectiveCost:  eff,
		GrossEdge:      prob - price,
		NetEdge:        prob - eff,
		EVPerContract:  ev,
		TotalEV:        ev * float64(contracts),
	}, nil
}

// Confidence labels an opportunity from the number of books behind the
// consensus and their dispersion.
func Confidence(numBookmakers int, dispersion float64) domain.Confidence {
	switch {
	case numBookmakers >= 8 && dispersion < 0.02:
		return domain.ConfidenceHigh
	case numBookmakers >= 5 && dispersion < 0.04:
		return domain.ConfidenceMedium
	default:
		return domain.ConfidenceLow
	}
}

// Evaluate prices both sides of every matched pair that has a consensus and
// returns the opportunities clearing the minimum net edge, best first. A side
// that cannot be priced is logged and skipped.
func (e *Engine) Evaluate(scanID string, pairs []domain.MatchedPair, consensus map[string]domain.Consensus) []domain.ValueOpportunity {
	var out []domain.ValueOpportunity
	for _, pair := range pairs {
		c, ok := consensus[pair.Event.ID]
		if !ok {
			continue
		}
		out = append(out, e.evaluatePair(scanID, pair, c)...)
	}
	Rank(out)
	return out
}

func (e *Engine) evaluatePair(scanID string, pair domain.MatchedPair, c domain.Consensus) []domain.ValueOpportunity {
	base := domain.ValueOpportunity{
		ScanID:        scanID,
		Sport:         pair.Event.Sport(),
		EventID:       pair.Event.ID,
		HomeTeam:      pair.Event.HomeTeam,
		AwayTeam:      pair.Event.AwayTeam,
		HomeProb:      c.HomeProb,
		AwayProb:      c.AwayProb,
		NumBookmakers: c.NumBookmakers,
		Confidence:    Confidence(c.NumBookmakers, c.Dispersion()),
		DetectedAt:    e.now().UTC(),
	}
	if pair.Home != nil {
		base.HomePrice = pair.Home.Price()
	}
	if pair.Away != nil {
		base.AwayPrice = pair.Away.Price()
	}

	sides := []struct {
		side    domain.Side
		listing *domain.RawListing
		prob    float64
	}{
		{domain.SideHome, pair.Home, c.HomeProb},
		{domain.SideAway, pair.Away, c.AwayProb},
	}

	var out []domain.ValueOpportunity
	for _, s := range sides {
		if s.listing == nil || !s.listing.Priced() {
			continue
		}
		calc, err := e.Calculate(s.listing.Price(), s.prob, ReferenceContracts, domain.PositionYes, e.cfg.Maker)
		if err != nil {
			e.logger.Warn("skipping side",
				slog.String("event_id", pair.Event.ID),
				slog.String("ticker", s.listing.Ticker),
				slog.String("error", err.Error()),
			)
			continue
		}
		if calc.NetEdge < e.cfg.MinEdge {
			continue
		}

		opp := base
		opp.ID = uuid.NewString()
		opp.Ticker = s.listing.Ticker
		opp.Position = domain.PositionYes
		opp.Team = s.side
		opp.GrossEdge = calc.GrossEdge
		opp.NetEdge = calc.NetEdge
		opp.FeeImpact = calc.FeePerContract
		opp.EVPerContract = calc.EVPerContract
		opp.EV100 = calc.TotalEV
		out = append(out, opp)

		e.logger.Debug("opportunity",
			slog.String("ticker", opp.Ticker),
			slog.Float64("net_edge", opp.NetEdge),
			slog.String("confidence", string(opp.Confidence)),
		)
	}
	return out
}

// Rank sorts opportunities by net edge, highest first. Equal edges keep
// their input order.
func Rank(opps []domain.ValueOpportunity) {
	sort.SliceStable(opps, func(i, j int) bool {
		return opps[i].NetEdge > opps[j].NetEdge
	})
}
