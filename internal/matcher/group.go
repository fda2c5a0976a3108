package matcher

import (
	"strings"

	"github.com/alanyoungcy/kalshiedge/internal/domain"
)

// GroupListings buckets listings by the game id embedded in their ticker.
// Groups keep the order in which each game id first appears, and take their
// title and sport from that first listing. Listings with malformed tickers
// are dropped. The team code of every grouped listing is set from the ticker
// when the source left it empty.
func GroupListings(listings []domain.RawListing) []domain.CandidateGame {
	index := make(map[string]int)
	var games []domain.CandidateGame

	for _, l := range listings {
		_, gameID, side, ok := domain.ParseTicker(l.Ticker)
		if !ok {
			continue
		}
		if l.GameID == "" {
			l.GameID = gameID
		}
		if l.TeamCode == "" {
			l.TeamCode = side
		}

		i, seen := index[l.GameID]
		if !seen {
			i = len(games)
			index[l.GameID] = i
			games = append(games, domain.CandidateGame{
				GameID: l.GameID,
				Title:  l.Title,
				Sport:  strings.ToLower(l.Sport),
			})
		}
		games[i].Listings = append(games[i].Listings, l)
	}
	return games
}
