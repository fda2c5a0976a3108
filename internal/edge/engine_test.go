package edge

import (
	"errors"
	"io"
	"log/slog"
	"math"
	"testing"

	"github.com/alanyoungcy/kalshiedge/internal/consensus"
	"github.com/alanyoungcy/kalshiedge/internal/domain"
	"github.com/alanyoungcy/kalshiedge/internal/fees"
	"github.com/alanyoungcy/kalshiedge/internal/odds"
)

const eps = 1e-9

func newTestEngine(cfg Config) *Engine {
	return New(cfg, fees.DefaultModel(), slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestCalculateYes(t *testing.T) {
	e := newTestEngine(DefaultConfig())
	calc, err := e.Calculate(0.45, 0.55, 100, domain.PositionYes, false)
	if err != nil {
		t.Fatal(err)
	}

	checks := []struct {
		name      string
		got, want float64
	}{
		{"FeePerContract", calc.FeePerContract, 0.0174},
		{"EffectiveCost", calc.EffectiveCost, 0.4674},
		{"GrossEdge", calc.GrossEdge, 0.10},
		{"NetEdge", calc.NetEdge, 0.0826},
		{"EVPerContract", calc.EVPerContract, 0.55*(1-0.4674) - 0.45*0.4674},
		{"TotalEV", calc.TotalEV, (0.55*(1-0.4674) - 0.45*0.4674) * 100},
	}
	for _, c := range checks {
		if math.Abs(c.got-c.want) > eps {
			t.Errorf("%s = %v, want %v", c.name, c.got, c.want)
		}
	}
}

func TestCalculateNo(t *testing.T) {
	e := newTestEngine(DefaultConfig())
	calc, err := e.Calculate(0.60, 0.30, 100, domain.PositionNo, false)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(calc.Price-0.40) > eps || math.Abs(calc.Prob-0.70) > eps {
		t.Errorf("mirrored price/prob = %v/%v, want 0.40/0.70", calc.Price, calc.Prob)
	}
	if math.Abs(calc.GrossEdge-0.30) > eps {
		t.Errorf("GrossEdge = %v, want 0.30", calc.GrossEdge)
	}
}

func TestCalculateInvalid(t *testing.T) {
	e := newTestEngine(DefaultConfig())
	if _, err := e.Calculate(1.0, 0.5, 100, domain.PositionYes, false); !errors.Is(err, domain.ErrInvalidPrice) {
		t.Errorf("error = %v, want ErrInvalidPrice", err)
	}
	if _, err := e.Calculate(0.5, 0.5, 0, domain.PositionYes, false); !errors.Is(err, domain.ErrInvalidContracts) {
		t.Errorf("error = %v, want ErrInvalidContracts", err)
	}
}

func TestNetEdgeNeverExceedsGross(t *testing.T) {
	e := newTestEngine(DefaultConfig())
	for c := 1; c <= 99; c++ {
		for _, prob := range []float64{0.05, 0.3, 0.5, 0.7, 0.95} {
			for _, maker := range []bool{false, true} {
				calc, err := e.Calculate(float64(c)/100, prob, 100, domain.PositionYes, maker)
				if err != nil {
					t.Fatal(err)
				}
				if calc.NetEdge > calc.GrossEdge+eps {
					t.Fatalf("net %v > gross %v at price %d prob %v", calc.NetEdge, calc.GrossEdge, c, prob)
				}
			}
		}
	}
}

func TestConfidence(t *testing.T) {
	tests := []struct {
		books      int
		dispersion float64
		want       domain.Confidence
	}{
		{8, 0.01, domain.ConfidenceHigh},
		{12, 0.0199, domain.ConfidenceHigh},
		{8, 0.02, domain.ConfidenceMedium},
		{5, 0.039, domain.ConfidenceMedium},
		{7, 0.01, domain.ConfidenceMedium},
		{5, 0.04, domain.ConfidenceLow},
		{4, 0.0, domain.ConfidenceLow},
		{3, 0.1, domain.ConfidenceLow},
	}
	for _, tt := range tests {
		if got := Confidence(tt.books, tt.dispersion); got != tt.want {
			t.Errorf("Confidence(%d, %v) = %s, want %s", tt.books, tt.dispersion, got, tt.want)
		}
	}
}

func pairWith(eventID string, homeAsk, awayAsk int64) domain.MatchedPair {
	p := domain.MatchedPair{
		Event: domain.RawEvent{
			ID:       eventID,
			SportKey: "basketball_nba",
			HomeTeam: "Boston Celtics",
			AwayTeam: "Los Angeles Lakers",
		},
		GameID: "25JAN15LALBOS",
	}
	if homeAsk >= 0 {
		p.Home = &domain.RawListing{Ticker: "KXNBAGAME-25JAN15LALBOS-BOS", TeamCode: "BOS", YesAsk: homeAsk}
	}
	if awayAsk >= 0 {
		p.Away = &domain.RawListing{Ticker: "KXNBAGAME-25JAN15LALBOS-LAL", TeamCode: "LAL", YesAsk: awayAsk}
	}
	return p
}

func TestEvaluate(t *testing.T) {
	e := newTestEngine(DefaultConfig())
	pairs := []domain.MatchedPair{
		pairWith("small", 55, 40),
		pairWith("big", 50, 45),
		pairWith("no-consensus", 10, 10),
		pairWith("unpriced", 0, -1),
	}
	cons := map[string]domain.Consensus{
		"small":    {HomeProb: 0.60, AwayProb: 0.40, NumBookmakers: 9, HomeStd: 0.01, AwayStd: 0.01},
		"big":      {HomeProb: 0.62, AwayProb: 0.38, NumBookmakers: 5, HomeStd: 0.03},
		"unpriced": {HomeProb: 0.99, AwayProb: 0.01, NumBookmakers: 9},
	}

	opps := e.Evaluate("scan-1", pairs, cons)
	if len(opps) != 2 {
		t.Fatalf("len(opps) = %d, want 2: %+v", len(opps), opps)
	}
	if opps[0].EventID != "big" || opps[1].EventID != "small" {
		t.Errorf("order = [%s %s], want [big small]", opps[0].EventID, opps[1].EventID)
	}
	for _, o := range opps {
		if o.Team != domain.SideHome || o.Position != domain.PositionYes {
			t.Errorf("unexpected side %s/%s", o.Team, o.Position)
		}
		if o.ScanID != "scan-1" || o.ID == "" {
			t.Errorf("missing ids: %+v", o)
		}
		if o.NetEdge < 0.02 {
			t.Errorf("emitted net edge %v below minimum", o.NetEdge)
		}
		calc, err := e.Calculate(o.BetPrice(), o.HomeProb, ReferenceContracts, domain.PositionYes, false)
		if err != nil {
			t.Fatal(err)
		}
		if math.Abs(o.EV100-calc.TotalEV) > eps {
			t.Errorf("EV100 = %v, want TotalEV %v", o.EV100, calc.TotalEV)
		}
	}
	if opps[0].Confidence != domain.ConfidenceMedium || opps[1].Confidence != domain.ConfidenceHigh {
		t.Errorf("confidence = [%s %s], want [medium high]", opps[0].Confidence, opps[1].Confidence)
	}
	if opps[1].BetPrice() != 0.55 || opps[1].AwayPrice != 0.40 {
		t.Errorf("prices = %v/%v, want 0.55/0.40", opps[1].BetPrice(), opps[1].AwayPrice)
	}
}

func TestEV100PricesTheFullOrder(t *testing.T) {
	e := newTestEngine(DefaultConfig())
	// At 0.45 the fee on one contract rounds up to 0.02, on 100 contracts
	// it is 1.74. EV100 must use the 100-contract fee.
	pairs := []domain.MatchedPair{pairWith("ev", 45, -1)}
	cons := map[string]domain.Consensus{"ev": {HomeProb: 0.55, AwayProb: 0.45, NumBookmakers: 3}}

	opps := e.Evaluate("s", pairs, cons)
	if len(opps) != 1 {
		t.Fatalf("len(opps) = %d, want 1", len(opps))
	}
	want := (0.55*(1-0.4674) - 0.45*0.4674) * ReferenceContracts
	if math.Abs(opps[0].EV100-want) > eps {
		t.Errorf("EV100 = %v, want %v", opps[0].EV100, want)
	}
	if math.Abs(opps[0].FeeImpact-0.0174) > eps {
		t.Errorf("FeeImpact = %v, want 0.0174", opps[0].FeeImpact)
	}
}

func TestEvaluateRespectsMinEdge(t *testing.T) {
	e := newTestEngine(Config{MinEdge: 0.10})
	pairs := []domain.MatchedPair{pairWith("ev", 50, -1)}
	cons := map[string]domain.Consensus{"ev": {HomeProb: 0.60, AwayProb: 0.40, NumBookmakers: 3}}
	if opps := e.Evaluate("s", pairs, cons); len(opps) != 0 {
		t.Errorf("net edge 0.0825 should not clear 0.10, got %d opps", len(opps))
	}
}

func TestThinEventProducesNothing(t *testing.T) {
	b := consensus.NewBuilder(3, odds.FormatAmerican, slog.New(slog.NewTextHandler(io.Discard, nil)))
	pair := pairWith("ev1", 10, 10)
	pair.Event.Bookmakers = []domain.BookmakerQuote{
		{Key: "a", Markets: []domain.Market{{Key: domain.MarketH2H, Outcomes: []domain.Outcome{
			{Name: "Boston Celtics", Price: -400}, {Name: "Los Angeles Lakers", Price: 300},
		}}}},
		{Key: "b", Markets: []domain.Market{{Key: domain.MarketH2H, Outcomes: []domain.Outcome{
			{Name: "Boston Celtics", Price: -400}, {Name: "Los Angeles Lakers", Price: 300},
		}}}},
	}

	cons := b.BuildAll([]domain.RawEvent{pair.Event})
	opps := newTestEngine(DefaultConfig()).Evaluate("s", []domain.MatchedPair{pair}, cons)
	if len(opps) != 0 {
		t.Errorf("len(opps) = %d, want 0 with only two bookmakers", len(opps))
	}
}

func TestRankIsStable(t *testing.T) {
	opps := []domain.ValueOpportunity{
		{ID: "a", NetEdge: 0.03},
		{ID: "b", NetEdge: 0.05},
		{ID: "c", NetEdge: 0.03},
	}
	Rank(opps)
	got := []string{opps[0].ID, opps[1].ID, opps[2].ID}
	want := []string{"b", "a", "c"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Rank order = %v, want %v", got, want)
		}
	}
}
