// Package matcher pairs sportsbook events with prediction-market game-winner
// listings whose titles and tickers name the same two teams.
package matcher

import (
	"log/slog"
	"strings"

	"github.com/alanyoungcy/kalshiedge/internal/domain"
	"github.com/alanyoungcy/kalshiedge/internal/fuzzy"
	"github.com/alanyoungcy/kalshiedge/internal/teams"
)

// Config holds the matching thresholds.
type Config struct {
	ProFuzzyThreshold      float64 `toml:"pro_fuzzy_threshold"`
	InTitleBonus           float64 `toml:"in_title_bonus"`
	CollegeFuzzyThreshold  float64 `toml:"college_fuzzy_threshold"`
	CollegeStrongThreshold float64 `toml:"college_strong_threshold"`
	CodeRatioThreshold     float64 `toml:"code_ratio_threshold"`
	// RequireSameSport skips listing groups whose sport differs from the
	// event's. Groups with no sport are always considered.
	RequireSameSport bool `toml:"require_same_sport"`
}

// DefaultConfig returns the production thresholds.
func DefaultConfig() Config {
	return Config{
		ProFuzzyThreshold:      60,
		InTitleBonus:           50,
		CollegeFuzzyThreshold:  80,
		CollegeStrongThreshold: 85,
		CodeRatioThreshold:     80,
		RequireSameSport:       true,
	}
}

// Matcher is stateless between calls; Match may be called concurrently.
type Matcher struct {
	cfg    Config
	logger *slog.Logger
}

// New creates a Matcher.
func New(cfg Config, logger *slog.Logger) *Matcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Matcher{cfg: cfg, logger: logger.With(slog.String("component", "matcher"))}
}

// team is one side of a sportsbook event reduced to the forms used for
// comparison.
type team struct {
	name    string
	code    string
	key     string
	aliases []string
}

func proTeam(sport, name string) team {
	return team{
		name: name,
		code: teams.NormalizeProFor(sport, name),
		key:  teams.StripCity(name),
	}
}

func collegeTeam(name string) team {
	code := teams.NormalizeCollege(name)
	return team{
		name:    name,
		code:    code,
		key:     teams.SchoolKey(name),
		aliases: teams.CollegeAliases(code),
	}
}

// Match returns at most one MatchedPair per event, in event order. Events
// with no qualifying game, or whose best game has no listing assignable to
// either side, are dropped.
func (m *Matcher) Match(events []domain.RawEvent, listings []domain.RawListing) []domain.MatchedPair {
	games := GroupListings(listings)
	pairs := make([]domain.MatchedPair, 0, len(events))

	for _, ev := range events {
		pair, ok := m.matchEvent(ev, games)
		if !ok {
			m.logger.Debug("no game matched",
				slog.String("event_id", ev.ID),
				slog.String("home", ev.HomeTeam),
				slog.String("away", ev.AwayTeam),
			)
			continue
		}
		m.logger.Debug("event matched",
			slog.String("event_id", ev.ID),
			slog.String("game_id", pair.GameID),
			slog.Float64("score", pair.Score),
			slog.Bool("home_listing", pair.Home != nil),
			slog.Bool("away_listing", pair.Away != nil),
		)
		pairs = append(pairs, pair)
	}
	return pairs
}

func (m *Matcher) matchEvent(ev domain.RawEvent, games []domain.CandidateGame) (domain.MatchedPair, bool) {
	college := teams.IsCollegeSport(ev.SportKey)
	sport := ev.Sport()

	var home, away team
	if college {
		home, away = collegeTeam(ev.HomeTeam), collegeTeam(ev.AwayTeam)
	} else {
		home, away = proTeam(sport, ev.HomeTeam), proTeam(sport, ev.AwayTeam)
	}

	var best domain.MatchedPair
	found := false

	for _, g := range games {
		if m.cfg.RequireSameSport && g.Sport != "" && g.Sport != sport {
			continue
		}

		var score float64
		var ok bool
		if college {
			score, ok = m.scoreCollege(home, away, g.Title)
		} else {
			score, ok = m.scorePro(home, away, g.Title)
		}
		if !ok {
			continue
		}
		if found && (score < best.Score || (score == best.Score && g.GameID >= best.GameID)) {
			continue
		}

		h, a := m.assign(g, home, away, college)
		if h == nil && a == nil {
			continue
		}
		best = domain.MatchedPair{
			Event:  ev,
			GameID: g.GameID,
			Title:  g.Title,
			Home:   h,
			Away:   a,
			Score:  score,
		}
		found = true
	}
	return best, found
}

// scorePro qualifies a game when both teams are found in the title, or when
// both fuzzy scores clear the threshold. Each contained side earns a flat
// bonus on top of the summed fuzzy scores.
func (m *Matcher) scorePro(home, away team, title string) (float64, bool) {
	t := strings.ToLower(title)
	homeIn, awayIn := proInTitle(home, t), proInTitle(away, t)
	homeScore, awayScore := fuzzy.PartialRatio(home.key, t), fuzzy.PartialRatio(away.key, t)

	bothIn := homeIn && awayIn
	bothFuzzy := homeScore >= m.cfg.ProFuzzyThreshold && awayScore >= m.cfg.ProFuzzyThreshold
	if !bothIn && !bothFuzzy {
		return 0, false
	}

	score := homeScore + awayScore
	if homeIn {
		score += m.cfg.InTitleBonus
	}
	if awayIn {
		score += m.cfg.InTitleBonus
	}
	return score, true
}

func proInTitle(tm team, title string) bool {
	return fuzzy.Contains(tm.key, title) ||
		fuzzy.ContainsCompact(tm.code, title) ||
		fuzzy.Contains(lastWord(tm.key), title)
}

// scoreCollege returns twice the match confidence so containment (100) always
// outranks a fuzzy-only match.
func (m *Matcher) scoreCollege(home, away team, title string) (float64, bool) {
	t := collegeTitle(title)
	homeIn, awayIn := collegeInTitle(home, t), collegeInTitle(away, t)
	homeScore, awayScore := fuzzy.PartialRatio(home.key, t), fuzzy.PartialRatio(away.key, t)

	var confidence float64
	switch {
	case homeIn && awayIn:
		confidence = 100
	case homeScore >= m.cfg.CollegeFuzzyThreshold && awayScore >= m.cfg.CollegeFuzzyThreshold:
		confidence = (homeScore + awayScore) / 2
	case (homeIn || homeScore >= m.cfg.CollegeStrongThreshold) && (awayIn || awayScore >= m.cfg.CollegeStrongThreshold):
		confidence = max(homeScore, awayScore)
	default:
		return 0, false
	}
	return confidence * 2, true
}

func collegeTitle(title string) string {
	t := strings.ToLower(title)
	t = strings.ReplaceAll(t, "st.", "st")
	t = strings.ReplaceAll(t, "'s", "s")
	return strings.ReplaceAll(t, "'", "")
}

func collegeInTitle(tm team, title string) bool {
	if fuzzy.Contains(tm.key, title) {
		return true
	}
	for _, alias := range tm.aliases {
		if fuzzy.Contains(alias, title) {
			return true
		}
	}
	return false
}

// assign maps listings to sides. Exact code matches are placed first; for
// college games a second pass accepts a close code or a school-key prefix.
// A side keeps the first listing assigned to it and a listing is used once.
func (m *Matcher) assign(g domain.CandidateGame, home, away team, college bool) (h, a *domain.RawListing) {
	used := make([]bool, len(g.Listings))
	take := func(i int) *domain.RawListing {
		used[i] = true
		l := g.Listings[i]
		return &l
	}

	for i, l := range g.Listings {
		code := strings.ToLower(l.TeamCode)
		switch {
		case h == nil && code == home.code:
			h = take(i)
		case a == nil && code == away.code:
			a = take(i)
		}
	}
	if !college {
		return h, a
	}

	for i, l := range g.Listings {
		if used[i] {
			continue
		}
		code := strings.ToLower(l.TeamCode)
		switch {
		case h == nil && m.closeCode(code, home):
			h = take(i)
		case a == nil && m.closeCode(code, away):
			a = take(i)
		}
	}
	return h, a
}

func (m *Matcher) closeCode(code string, tm team) bool {
	if code == "" {
		return false
	}
	return fuzzy.Ratio(code, tm.code) >= m.cfg.CodeRatioThreshold || strings.HasPrefix(tm.key, code)
}

func lastWord(s string) string {
	f := strings.Fields(s)
	if len(f) == 0 {
		return ""
	}
	return f[len(f)-1]
}
