package domain

import (
	"math"
	"time"
)

// Consensus is the de-vigged median probability of each side across the
// qualifying bookmakers. HomeProb and AwayProb need not sum to 1.
type Consensus struct {
	HomeProb      float64 `json:"home_prob"`
	AwayProb      float64 `json:"away_prob"`
	NumBookmakers int     `json:"num_bookmakers"`
	HomeStd       float64 `json:"home_std"`
	AwayStd       float64 `json:"away_std"`
}

// Dispersion is the larger of the two per-side standard deviations.
func (c Consensus) Dispersion() float64 {
	return math.Max(c.HomeStd, c.AwayStd)
}

// Position is the contract side being bought.
type Position string

const (
	PositionYes Position = "yes"
	PositionNo  Position = "no"
)

// EdgeCalculation holds the per-contract economics of buying one side.
type EdgeCalculation struct {
	Position       Position `json:"position"`
	Price          float64  `json:"price"`
	Prob           float64  `json:"prob"`
	Contracts      int      `json:"contracts"`
	FeePerContract float64  `json:"fee_per_contract"`
	EffectiveCost  float64  `json:"effective_cost"`
	GrossEdge      float64  `json:"gross_edge"`
	NetEdge        float64  `json:"net_edge"`
	EVPerContract  float64  `json:"ev_per_contract"`
	TotalEV        float64  `json:"total_ev"`
}

// Confidence buckets an opportunity by book count and dispersion.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// Rank orders confidences low < medium < high.
func (c Confidence) Rank() int {
	switch c {
	case ConfidenceHigh:
		return 2
	case ConfidenceMedium:
		return 1
	default:
		return 0
	}
}

// ParseConfidence maps a label onto a Confidence, defaulting to low.
func ParseConfidence(s string) Confidence {
	switch Confidence(s) {
	case ConfidenceHigh, ConfidenceMedium:
		return Confidence(s)
	default:
		return ConfidenceLow
	}
}

// Side is which team of the event the opportunity backs.
type Side string

const (
	SideHome Side = "home"
	SideAway Side = "away"
)

// ValueOpportunity is an emitted, read-only recommendation.
type ValueOpportunity struct {
	ID            string     `json:"id"`
	ScanID        string     `json:"scan_id"`
	Sport         string     `json:"sport"`
	EventID       string     `json:"event_id"`
	Ticker        string     `json:"ticker"`
	HomeTeam      string     `json:"home_team"`
	AwayTeam      string     `json:"away_team"`
	HomeProb      float64    `json:"home_prob"`
	AwayProb      float64    `json:"away_prob"`
	HomePrice     float64    `json:"home_price"`
	AwayPrice     float64    `json:"away_price"`
	Position      Position   `json:"position"`
	Team          Side       `json:"team"`
	GrossEdge     float64    `json:"gross_edge"`
	NetEdge       float64    `json:"net_edge"`
	FeeImpact     float64    `json:"fee_impact"`
	EVPerContract float64    `json:"ev_per_contract"`
	EV100         float64    `json:"ev_100"`
	NumBookmakers int        `json:"num_bookmakers"`
	Confidence    Confidence `json:"confidence"`
	DetectedAt    time.Time  `json:"detected_at"`
}

// BetTeam is the name of the team being backed.
func (o ValueOpportunity) BetTeam() string {
	if o.Team == SideHome {
		return o.HomeTeam
	}
	return o.AwayTeam
}

// BetPrice is the contract price of the backed side.
func (o ValueOpportunity) BetPrice() float64 {
	if o.Team == SideHome {
		return o.HomePrice
	}
	return o.AwayPrice
}

// BetProb is the consensus probability of the backed side.
func (o ValueOpportunity) BetProb() float64 {
	if o.Team == SideHome {
		return o.HomeProb
	}
	return o.AwayProb
}

// DisplayPosition renders e.g. "BUY YES on Boston Celtics".
func (o ValueOpportunity) DisplayPosition() string {
	pos := "YES"
	if o.Position == PositionNo {
		pos = "NO"
	}
	return "BUY " + pos + " on " + o.BetTeam()
}

// ScanSummary describes one completed scan.
type ScanSummary struct {
	ScanID        string             `json:"scan_id"`
	StartedAt     time.Time          `json:"started_at"`
	Sports        []string           `json:"sports"`
	EventCount    int                `json:"event_count"`
	ListingCount  int                `json:"listing_count"`
	MatchedCount  int                `json:"matched_count"`
	Opportunities []ValueOpportunity `json:"opportunities"`
}
