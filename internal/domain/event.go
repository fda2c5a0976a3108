package domain

import (
	"sort"
	"strings"
	"time"
)

// MarketH2H is the only sportsbook market key the scanner consults.
const MarketH2H = "h2h"

// Outcome is one priced side of a bookmaker market.
type Outcome struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

// Market is a bookmaker market (e.g. "h2h") with its outcomes.
type Market struct {
	Key      string    `json:"key"`
	Outcomes []Outcome `json:"outcomes"`
}

// BookmakerQuote is everything one sportsbook offers on an event.
type BookmakerQuote struct {
	Key     string   `json:"key"`
	Title   string   `json:"title"`
	Markets []Market `json:"markets"`
}

// H2H returns the head-to-head market of the bookmaker, if present.
func (b BookmakerQuote) H2H() (Market, bool) {
	for _, m := range b.Markets {
		if m.Key == MarketH2H {
			return m, true
		}
	}
	return Market{}, false
}

// Price looks up the outcome price for an exact team name.
func (m Market) Price(name string) (float64, bool) {
	for _, o := range m.Outcomes {
		if o.Name == name {
			return o.Price, true
		}
	}
	return 0, false
}

// RawEvent is a sportsbook event as fetched from the odds source. It is never
// mutated after the fetch.
type RawEvent struct {
	ID           string           `json:"id"`
	SportKey     string           `json:"sport_key"`
	SportTitle   string           `json:"sport_title"`
	CommenceTime time.Time        `json:"commence_time"`
	HomeTeam     string           `json:"home_team"`
	AwayTeam     string           `json:"away_team"`
	Bookmakers   []BookmakerQuote `json:"bookmakers"`
}

// Sport maps the odds-source sport key onto the prediction-market sport code.
// Unknown keys are returned unchanged.
func (e RawEvent) Sport() string {
	if s, ok := SportKeyToSport[e.SportKey]; ok {
		return s
	}
	return e.SportKey
}

// SportKeyToSport maps odds-source sport keys onto prediction-market sports.
var SportKeyToSport = map[string]string{
	"americanfootball_nfl": "nfl",
	"basketball_nba":       "nba",
	"icehockey_nhl":        "nhl",
	"baseball_mlb":         "mlb",
	"basketball_ncaab":     "ncaab",
	"basketball_wncaab":    "ncaaw",
}

// SportDisplayNames are the short labels printed next to each sport code.
var SportDisplayNames = map[string]string{
	"nfl":   "NFL",
	"nba":   "NBA",
	"ncaab": "NCAAB",
	"ncaaw": "WNCAAB",
	"nhl":   "NHL",
	"mlb":   "MLB",
}

// DisplaySport returns the display label for a sport code.
func DisplaySport(sport string) string {
	if s, ok := SportDisplayNames[sport]; ok {
		return s
	}
	return sport
}

// SportKeysFor returns the odds-source keys that map onto the given sport
// codes, in sorted order.
func SportKeysFor(sports []string) []string {
	want := make(map[string]bool, len(sports))
	for _, s := range sports {
		want[strings.ToLower(s)] = true
	}
	var keys []string
	for key, sport := range SportKeyToSport {
		if want[sport] {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys
}

// SportsFor maps odds-source keys onto sport codes, dropping unknown keys and
// duplicates while keeping the input order.
func SportsFor(sportKeys []string) []string {
	seen := make(map[string]bool, len(sportKeys))
	var sports []string
	for _, key := range sportKeys {
		s, ok := SportKeyToSport[key]
		if !ok || seen[s] {
			continue
		}
		seen[s] = true
		sports = append(sports, s)
	}
	return sports
}
