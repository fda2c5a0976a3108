package domain

import "strings"

// RawListing is one YES contract on a prediction-market game-winner series.
// YesAsk is in integer cents (1-99).
type RawListing struct {
	Ticker      string `json:"ticker"`
	EventTicker string `json:"event_ticker"`
	Title       string `json:"title"`
	Sport       string `json:"sport"`
	GameID      string `json:"game_id"`
	TeamCode    string `json:"team_code"`
	YesAsk      int64  `json:"yes_ask"`
	YesBid      int64  `json:"yes_bid"`
	Volume      int64  `json:"volume"`
}

// Price returns the YES ask as a probability-scale price.
func (l RawListing) Price() float64 {
	return float64(l.YesAsk) / 100.0
}

// Priced reports whether the ask is strictly inside (0, 1).
func (l RawListing) Priced() bool {
	return l.YesAsk > 0 && l.YesAsk < 100
}

// ParseTicker splits a ticker of the form SERIES-GAMEID-SIDE. At least three
// hyphen-delimited segments are required; the second is the game id and the
// last is the side code. ok is false when the ticker is malformed.
func ParseTicker(ticker string) (series, gameID, side string, ok bool) {
	parts := strings.Split(ticker, "-")
	if len(parts) < 3 {
		return "", "", "", false
	}
	series, gameID, side = parts[0], parts[1], parts[len(parts)-1]
	if gameID == "" || side == "" {
		return "", "", "", false
	}
	return series, gameID, side, true
}

// CandidateGame is the set of listings sharing one game id.
type CandidateGame struct {
	GameID   string
	Title    string
	Sport    string
	Listings []RawListing
}

// MatchedPair links a sportsbook event to one prediction-market game. At
// least one of Home and Away is set.
type MatchedPair struct {
	Event  RawEvent
	GameID string
	Title  string
	Home   *RawListing
	Away   *RawListing
	Score  float64
}
