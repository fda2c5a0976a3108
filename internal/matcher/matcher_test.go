package matcher

import (
	"io"
	"log/slog"
	"math"
	"reflect"
	"testing"

	"github.com/alanyoungcy/kalshiedge/internal/domain"
)

func newTestMatcher() *Matcher {
	return New(DefaultConfig(), slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func listing(ticker, title, sport string) domain.RawListing {
	return domain.RawListing{Ticker: ticker, Title: title, Sport: sport, YesAsk: 50}
}

func nbaEvent(id, home, away string) domain.RawEvent {
	return domain.RawEvent{ID: id, SportKey: "basketball_nba", HomeTeam: home, AwayTeam: away}
}

func TestGroupListings(t *testing.T) {
	listings := []domain.RawListing{
		listing("KXNBAGAME-25JAN15LALBOS-LAL", "LAL @ BOS", "nba"),
		listing("BROKEN", "bad", "nba"),
		listing("KXNBAGAME-25JAN15NYKBKN-NYK", "NYK @ BKN", "nba"),
		listing("KXNBAGAME-25JAN15LALBOS-BOS", "ignored title", "nba"),
		listing("KXNBAGAME--BOS", "empty game id", "nba"),
	}

	games := GroupListings(listings)
	if len(games) != 2 {
		t.Fatalf("len(games) = %d, want 2", len(games))
	}
	if games[0].GameID != "25JAN15LALBOS" || games[1].GameID != "25JAN15NYKBKN" {
		t.Errorf("game order = [%s %s], want first-appearance order", games[0].GameID, games[1].GameID)
	}
	if games[0].Title != "LAL @ BOS" {
		t.Errorf("title = %q, want title of first listing", games[0].Title)
	}
	if len(games[0].Listings) != 2 {
		t.Errorf("len(listings) = %d, want 2", len(games[0].Listings))
	}
	if games[0].Listings[1].TeamCode != "BOS" {
		t.Errorf("team code = %q, want %q", games[0].Listings[1].TeamCode, "BOS")
	}
}

func TestMatchProByCode(t *testing.T) {
	m := newTestMatcher()
	events := []domain.RawEvent{nbaEvent("ev1", "Boston Celtics", "Los Angeles Lakers")}
	listings := []domain.RawListing{
		listing("KXNBAGAME-25JAN15LALBOS-LAL", "LAL @ BOS", "nba"),
		listing("KXNBAGAME-25JAN15LALBOS-BOS", "LAL @ BOS", "nba"),
	}

	pairs := m.Match(events, listings)
	if len(pairs) != 1 {
		t.Fatalf("len(pairs) = %d, want 1", len(pairs))
	}
	p := pairs[0]
	if p.GameID != "25JAN15LALBOS" {
		t.Errorf("GameID = %q, want %q", p.GameID, "25JAN15LALBOS")
	}
	if p.Home == nil || p.Home.TeamCode != "BOS" {
		t.Errorf("Home = %+v, want BOS listing", p.Home)
	}
	if p.Away == nil || p.Away.TeamCode != "LAL" {
		t.Errorf("Away = %+v, want LAL listing", p.Away)
	}
}

func TestMatchProByNickname(t *testing.T) {
	m := newTestMatcher()
	events := []domain.RawEvent{nbaEvent("ev1", "New York Knicks", "Miami Heat")}
	listings := []domain.RawListing{
		listing("KXNBAGAME-25JAN15LALBOS-LAL", "Lakers at Celtics Winner?", "nba"),
		listing("KXNBAGAME-25JAN15MIANYK-NYK", "Heat at Knicks Winner?", "nba"),
		listing("KXNBAGAME-25JAN15MIANYK-MIA", "Heat at Knicks Winner?", "nba"),
	}

	pairs := m.Match(events, listings)
	if len(pairs) != 1 {
		t.Fatalf("len(pairs) = %d, want 1", len(pairs))
	}
	if pairs[0].GameID != "25JAN15MIANYK" {
		t.Errorf("GameID = %q, want %q", pairs[0].GameID, "25JAN15MIANYK")
	}
	if pairs[0].Home == nil || pairs[0].Home.TeamCode != "NYK" {
		t.Errorf("Home = %+v, want NYK", pairs[0].Home)
	}
}

func TestMatchProFuzzyOnly(t *testing.T) {
	m := newTestMatcher()
	// "celtcs" is not in the title but scores 83.33 against "celtic".
	events := []domain.RawEvent{nbaEvent("ev1", "Boston Celtcs", "Los Angeles Lakers")}
	listings := []domain.RawListing{
		listing("KXNBAGAME-25JAN15LALBOS-LAL", "Lakers at Celtics Winner?", "nba"),
		listing("KXNBAGAME-25JAN15LALBOS-BOS", "Lakers at Celtics Winner?", "nba"),
	}

	pairs := m.Match(events, listings)
	if len(pairs) != 1 {
		t.Fatalf("len(pairs) = %d, want 1", len(pairs))
	}
	p := pairs[0]
	if math.Abs(p.Score-233.33) > 0.01 {
		t.Errorf("Score = %v, want 233.33 (83.33 + 100 + one bonus)", p.Score)
	}
	if p.Home != nil {
		t.Errorf("Home = %+v, want nil for an unresolved team code", p.Home)
	}
	if p.Away == nil || p.Away.TeamCode != "LAL" {
		t.Errorf("Away = %+v, want LAL", p.Away)
	}
}

func TestMatchInTitleBonusOutranksFuzzy(t *testing.T) {
	m := newTestMatcher()
	events := []domain.RawEvent{nbaEvent("ev1", "Boston Celtics", "Los Angeles Lakers")}
	listings := []domain.RawListing{
		// Fuzzy only: 85.71 + 83.33.
		listing("KXNBAGAME-25JAN14LALBOS-LAL", "Lakrs at Celtcs Winner?", "nba"),
		listing("KXNBAGAME-25JAN14LALBOS-BOS", "Lakrs at Celtcs Winner?", "nba"),
		// Codes only: 28.57 + 50 fuzzy, plus two bonuses.
		listing("KXNBAGAME-25JAN15LALBOS-LAL", "LAL @ BOS", "nba"),
		listing("KXNBAGAME-25JAN15LALBOS-BOS", "LAL @ BOS", "nba"),
	}

	pairs := m.Match(events, listings)
	if len(pairs) != 1 {
		t.Fatalf("len(pairs) = %d, want 1", len(pairs))
	}
	p := pairs[0]
	if p.GameID != "25JAN15LALBOS" {
		t.Errorf("GameID = %q, want the game whose codes are in the title", p.GameID)
	}
	if math.Abs(p.Score-178.57) > 0.01 {
		t.Errorf("Score = %v, want 178.57", p.Score)
	}
}

func TestMatchOneSidedListing(t *testing.T) {
	m := newTestMatcher()
	events := []domain.RawEvent{nbaEvent("ev1", "Boston Celtics", "Los Angeles Lakers")}
	listings := []domain.RawListing{
		listing("KXNBAGAME-25JAN15LALBOS-BOS", "LAL @ BOS", "nba"),
	}

	pairs := m.Match(events, listings)
	if len(pairs) != 1 {
		t.Fatalf("len(pairs) = %d, want 1", len(pairs))
	}
	if pairs[0].Home == nil || pairs[0].Away != nil {
		t.Errorf("got home=%v away=%v, want only home", pairs[0].Home, pairs[0].Away)
	}
}

func TestMatchDropsUnassignableGame(t *testing.T) {
	m := newTestMatcher()
	events := []domain.RawEvent{nbaEvent("ev1", "Boston Celtics", "Los Angeles Lakers")}
	listings := []domain.RawListing{
		listing("KXNBAGAME-25JAN15LALBOS-XXX", "LAL @ BOS", "nba"),
		listing("KXNBAGAME-25JAN15LALBOS-YYY", "LAL @ BOS", "nba"),
	}

	if pairs := m.Match(events, listings); len(pairs) != 0 {
		t.Errorf("len(pairs) = %d, want 0", len(pairs))
	}
}

func TestMatchNoQualifyingGame(t *testing.T) {
	m := newTestMatcher()
	events := []domain.RawEvent{nbaEvent("ev1", "Boston Celtics", "Los Angeles Lakers")}
	listings := []domain.RawListing{
		listing("KXNBAGAME-25JAN15DENPHX-DEN", "Nuggets at Suns Winner?", "nba"),
		listing("KXNBAGAME-25JAN15DENPHX-PHX", "Nuggets at Suns Winner?", "nba"),
	}

	if pairs := m.Match(events, listings); len(pairs) != 0 {
		t.Errorf("len(pairs) = %d, want 0", len(pairs))
	}
}

func TestMatchSkipsOtherSport(t *testing.T) {
	m := newTestMatcher()
	events := []domain.RawEvent{nbaEvent("ev1", "Boston Celtics", "Los Angeles Lakers")}
	listings := []domain.RawListing{
		listing("KXNHLGAME-25JAN15LALBOS-BOS", "LAL @ BOS", "nhl"),
	}

	if pairs := m.Match(events, listings); len(pairs) != 0 {
		t.Errorf("len(pairs) = %d, want 0 for a listing of another sport", len(pairs))
	}
}

func TestMatchTieBreaksOnSmallestGameID(t *testing.T) {
	m := newTestMatcher()
	events := []domain.RawEvent{nbaEvent("ev1", "Boston Celtics", "Los Angeles Lakers")}
	later := []domain.RawListing{
		listing("KXNBAGAME-25JAN15LALBOS-BOS", "LAL @ BOS", "nba"),
		listing("KXNBAGAME-25JAN14LALBOS-BOS", "LAL @ BOS", "nba"),
	}
	earlier := []domain.RawListing{later[1], later[0]}

	for name, listings := range map[string][]domain.RawListing{"larger first": later, "smaller first": earlier} {
		t.Run(name, func(t *testing.T) {
			pairs := m.Match(events, listings)
			if len(pairs) != 1 {
				t.Fatalf("len(pairs) = %d, want 1", len(pairs))
			}
			if pairs[0].GameID != "25JAN14LALBOS" {
				t.Errorf("GameID = %q, want %q", pairs[0].GameID, "25JAN14LALBOS")
			}
		})
	}
}

func TestMatchCollege(t *testing.T) {
	m := newTestMatcher()
	events := []domain.RawEvent{{
		ID:       "ev-college",
		SportKey: "basketball_ncaab",
		HomeTeam: "Michigan Wolverines",
		AwayTeam: "Ohio State Buckeyes",
	}}
	listings := []domain.RawListing{
		listing("KXNCAAMBGAME-25JAN15OSUMICH-OSU", "Ohio State at Michigan Winner?", "ncaab"),
		listing("KXNCAAMBGAME-25JAN15OSUMICH-MICH", "Ohio State at Michigan Winner?", "ncaab"),
	}

	pairs := m.Match(events, listings)
	if len(pairs) != 1 {
		t.Fatalf("len(pairs) = %d, want 1", len(pairs))
	}
	p := pairs[0]
	if p.Score != 200 {
		t.Errorf("Score = %v, want 200 for containment on both sides", p.Score)
	}
	if p.Home == nil || p.Home.TeamCode != "MICH" {
		t.Errorf("Home = %+v, want MICH", p.Home)
	}
	if p.Away == nil || p.Away.TeamCode != "OSU" {
		t.Errorf("Away = %+v, want OSU", p.Away)
	}
}

func TestMatchCollegeFuzzy(t *testing.T) {
	events := []domain.RawEvent{{
		ID:       "ev-college",
		SportKey: "basketball_ncaab",
		HomeTeam: "Gonzaga Bulldogs",
		AwayTeam: "Saint Mary's Gaels",
	}}
	tests := []struct {
		name  string
		title string
		want  float64
	}{
		// "saint marys" scores 84.21 against "st marys": both sides clear
		// 80, so the confidence is the average of 100 and 84.21.
		{"average of two close scores", "St. Mary's at Gonzaga Winner?", 184.21},
		// Gonzaga is found by its "zags" alias but scores under 80; the
		// 95.24 on "saint mary" clears 85 and becomes the confidence.
		{"strongest score with one side contained", "Saint Mary at Zags Winner?", 190.48},
	}

	m := newTestMatcher()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			listings := []domain.RawListing{
				listing("KXNCAAMBGAME-25JAN15SMCGONZ-GONZ", tt.title, "ncaab"),
				listing("KXNCAAMBGAME-25JAN15SMCGONZ-SMC", tt.title, "ncaab"),
			}
			pairs := m.Match(events, listings)
			if len(pairs) != 1 {
				t.Fatalf("len(pairs) = %d, want 1", len(pairs))
			}
			p := pairs[0]
			if math.Abs(p.Score-tt.want) > 0.01 {
				t.Errorf("Score = %v, want %v", p.Score, tt.want)
			}
			if p.Home == nil || p.Home.TeamCode != "GONZ" {
				t.Errorf("Home = %+v, want GONZ", p.Home)
			}
			if p.Away == nil || p.Away.TeamCode != "SMC" {
				t.Errorf("Away = %+v, want SMC", p.Away)
			}
		})
	}
}

func TestMatchCollegeFallbackCode(t *testing.T) {
	m := newTestMatcher()
	events := []domain.RawEvent{{
		ID:       "ev-college",
		SportKey: "basketball_ncaab",
		HomeTeam: "Gonzaga Bulldogs",
		AwayTeam: "Belmont Bruins",
	}}
	listings := []domain.RawListing{
		listing("KXNCAAMBGAME-25JAN15BELGONZ-GONZ", "Belmont at Gonzaga Winner?", "ncaab"),
		listing("KXNCAAMBGAME-25JAN15BELGONZ-BELM", "Belmont at Gonzaga Winner?", "ncaab"),
	}

	pairs := m.Match(events, listings)
	if len(pairs) != 1 {
		t.Fatalf("len(pairs) = %d, want 1", len(pairs))
	}
	if pairs[0].Away == nil || pairs[0].Away.TeamCode != "BELM" {
		t.Errorf("Away = %+v, want BELM via the close-code fallback", pairs[0].Away)
	}
}

func TestMatchIsIdempotent(t *testing.T) {
	m := newTestMatcher()
	events := []domain.RawEvent{
		nbaEvent("ev1", "Boston Celtics", "Los Angeles Lakers"),
		nbaEvent("ev2", "New York Knicks", "Miami Heat"),
	}
	listings := []domain.RawListing{
		listing("KXNBAGAME-25JAN15LALBOS-LAL", "LAL @ BOS", "nba"),
		listing("KXNBAGAME-25JAN15LALBOS-BOS", "LAL @ BOS", "nba"),
		listing("KXNBAGAME-25JAN15MIANYK-NYK", "MIA @ NYK", "nba"),
	}

	first := m.Match(events, listings)
	second := m.Match(events, listings)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("Match not idempotent:\n%+v\n%+v", first, second)
	}
	if len(first) != 2 || first[0].Event.ID != "ev1" || first[1].Event.ID != "ev2" {
		t.Errorf("pairs should follow event order, got %+v", first)
	}
}
