// Package report renders scan results for the terminal.
package report

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/alanyoungcy/kalshiedge/internal/domain"
	"github.com/alanyoungcy/kalshiedge/internal/fees"
)

const (
	wideRule   = 80
	boxWidth   = 56
	dryRunRows = 20
)

// SizingContracts are the position sizes shown under each opportunity.
var SizingContracts = []int{1, 10, 50, 100}

// Printer writes human-readable reports. It never mutates its inputs.
type Printer struct {
	w    io.Writer
	fees *fees.Model
}

// NewPrinter creates a Printer. A nil fee model uses the exchange defaults.
func NewPrinter(w io.Writer, model *fees.Model) *Printer {
	if model == nil {
		model = fees.DefaultModel()
	}
	return &Printer{w: w, fees: model}
}

func pct(v float64, decimals int) string {
	return fmt.Sprintf("%.*f%%", decimals, v*100)
}

func dollars(v float64, decimals int) string {
	return fmt.Sprintf("$%.*f", decimals, v)
}

func cents(price float64) int {
	return int(math.Round(price * 100))
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

// PrintOpportunities prints the detailed view of every opportunity.
func (p *Printer) PrintOpportunities(opps []domain.ValueOpportunity) {
	fmt.Fprintln(p.w)
	fmt.Fprintln(p.w, strings.Repeat("=", wideRule))
	fmt.Fprintln(p.w, "VEGAS-KALSHI VALUE BET OPPORTUNITIES")
	fmt.Fprintln(p.w, strings.Repeat("=", wideRule))
	fmt.Fprintln(p.w)

	if len(opps) == 0 {
		fmt.Fprintln(p.w, "No value opportunities found meeting criteria.")
		fmt.Fprintln(p.w)
		return
	}
	for i, o := range opps {
		p.printOpportunity(o, i+1)
		fmt.Fprintln(p.w)
	}
}

func (p *Printer) printOpportunity(o domain.ValueOpportunity, index int) {
	price := o.BetPrice()
	c := cents(price)
	action := "BUY YES"
	if o.Position == domain.PositionNo {
		action = "BUY NO"
	}

	fmt.Fprintf(p.w, "#%d | %s\n", index, domain.DisplaySport(o.Sport))
	fmt.Fprintf(p.w, "   Matchup: %s @ %s\n\n", o.AwayTeam, o.HomeTeam)

	border := "   +" + strings.Repeat("-", boxWidth) + "+"
	row := func(s string) {
		fmt.Fprintf(p.w, "   |%-*s|\n", boxWidth, truncate(s, boxWidth))
	}
	fmt.Fprintln(p.w, border)
	title := " KALSHI BET ACTION "
	pad := (boxWidth - len(title)) / 2
	row(strings.Repeat(" ", pad) + title)
	fmt.Fprintln(p.w, border)
	row("  Ticker: " + o.Ticker)
	row(fmt.Sprintf("  Action: %s on %s", action, o.BetTeam()))
	row(fmt.Sprintf("  Price:  %dc per contract", c))
	fmt.Fprintln(p.w, border)
	fmt.Fprintln(p.w)

	fmt.Fprintln(p.w, "   Edge Analysis:")
	fmt.Fprintf(p.w, "     Vegas True Prob:  %s\n", pct(o.BetProb(), 1))
	fmt.Fprintf(p.w, "     Kalshi Price:     %s (%dc)\n", pct(price, 1), c)
	fmt.Fprintf(p.w, "     Gross Edge:       %s\n", pct(o.GrossEdge, 2))
	fmt.Fprintf(p.w, "     Fee/Contract:     %s\n", dollars(o.FeeImpact, 4))
	fmt.Fprintf(p.w, "     NET EDGE:         %s\n\n", pct(o.NetEdge, 2))

	fmt.Fprintln(p.w, "   Position Sizing (Kalshi min = 1 contract):")
	p.printSizing(o)
	fmt.Fprintln(p.w)

	fmt.Fprintf(p.w, "   Confidence: %s (%d bookmakers)\n", strings.ToUpper(string(o.Confidence)), o.NumBookmakers)
	fmt.Fprintln(p.w, strings.Repeat("-", wideRule))
}

// SizingRow is one line of the position-sizing table.
type SizingRow struct {
	Contracts int
	Cost      float64
	Profit    float64
	EV        float64
}

// Sizing prices the backed side at each of SizingContracts, fees included.
// An unpriceable side falls back to price × contracts.
func (p *Printer) Sizing(o domain.ValueOpportunity) []SizingRow {
	price := o.BetPrice()
	if o.Position == domain.PositionNo {
		price = 1 - price
	}
	rows := make([]SizingRow, 0, len(SizingContracts))
	for _, n := range SizingContracts {
		cost, err := p.fees.EffectiveCost(price, n, false)
		if err != nil {
			cost = price * float64(n)
		}
		rows = append(rows, SizingRow{
			Contracts: n,
			Cost:      cost,
			Profit:    float64(n) - cost,
			EV:        o.EVPerContract * float64(n),
		})
	}
	return rows
}

func (p *Printer) printSizing(o domain.ValueOpportunity) {
	tw := tabwriter.NewWriter(p.w, 0, 0, 3, ' ', 0)
	fmt.Fprintln(tw, "     Contracts\tCost\tProfit if Win\tEV")
	fmt.Fprintln(tw, "     ---------\t----------\t-------------\t--------")
	for _, r := range p.Sizing(o) {
		label := fmt.Sprintf("%d", r.Contracts)
		if r.Contracts == 1 {
			label = "1 (min)"
		}
		fmt.Fprintf(tw, "     %s\t%s\t%s\t%s\n", label, dollars(r.Cost, 2), dollars(r.Profit, 2), dollars(r.EV, 2))
	}
	_ = tw.Flush()
}

// PrintCompactTable prints one row per opportunity.
func (p *Printer) PrintCompactTable(opps []domain.ValueOpportunity) {
	if len(opps) == 0 {
		fmt.Fprintln(p.w, "No opportunities found.")
		return
	}

	fmt.Fprintln(p.w)
	tw := tabwriter.NewWriter(p.w, 0, 0, 1, ' ', 0)
	fmt.Fprintln(tw, "Sport\tBUY ON\tTicker\tPrice\tEdge\tEV\tConf")
	fmt.Fprintln(tw, "-----\t------\t------\t-----\t----\t--\t----")
	for _, o := range opps {
		team := o.BetTeam()
		if o.Position == domain.PositionNo {
			team = "NO " + team
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%dc\t%s\t%s\t%s\n",
			truncate(domain.DisplaySport(o.Sport), 6),
			truncate(team, 24),
			truncate(o.Ticker, 29),
			cents(o.BetPrice()),
			pct(o.NetEdge, 1),
			dollars(o.EV100, 2),
			o.Confidence,
		)
	}
	_ = tw.Flush()
	fmt.Fprintln(p.w)
}

// Summary aggregates a scan for PrintSummary.
type Summary struct {
	Events        int
	Listings      int
	Opportunities int
	AvgNetEdge    float64
	TotalEV100    float64
	ByConfidence  map[domain.Confidence]int
	BySport       map[string]int
}

// Summarize computes the aggregates printed by PrintSummary. BySport is keyed
// by display name.
func Summarize(events, listings int, opps []domain.ValueOpportunity) Summary {
	s := Summary{
		Events:        events,
		Listings:      listings,
		Opportunities: len(opps),
		ByConfidence:  make(map[domain.Confidence]int),
		BySport:       make(map[string]int),
	}
	if len(opps) == 0 {
		return s
	}
	var edge float64
	for _, o := range opps {
		edge += o.NetEdge
		s.TotalEV100 += o.EV100
		s.ByConfidence[o.Confidence]++
		s.BySport[domain.DisplaySport(o.Sport)]++
	}
	s.AvgNetEdge = edge / float64(len(opps))
	return s
}

// PrintSummary prints scan totals.
func (p *Printer) PrintSummary(events, listings int, opps []domain.ValueOpportunity) {
	s := Summarize(events, listings, opps)

	fmt.Fprintf(p.w, "\n%s\n", strings.Repeat("=", 60))
	fmt.Fprintln(p.w, "SUMMARY")
	fmt.Fprintln(p.w, strings.Repeat("=", 60))
	fmt.Fprintf(p.w, "Total Vegas events analyzed: %d\n", s.Events)
	fmt.Fprintf(p.w, "Kalshi markets checked: %d\n", s.Listings)
	fmt.Fprintf(p.w, "Value opportunities found: %d\n", s.Opportunities)

	if s.Opportunities > 0 {
		fmt.Fprintf(p.w, "Average net edge: %s\n", pct(s.AvgNetEdge, 2))
		fmt.Fprintf(p.w, "Total EV (100 contracts each): %s\n", dollars(s.TotalEV100, 2))
		fmt.Fprintf(p.w, "\nBy confidence: High: %d, Medium: %d, Low: %d\n",
			s.ByConfidence[domain.ConfidenceHigh],
			s.ByConfidence[domain.ConfidenceMedium],
			s.ByConfidence[domain.ConfidenceLow],
		)

		names := make([]string, 0, len(s.BySport))
		for name := range s.BySport {
			names = append(names, name)
		}
		sort.Strings(names)
		parts := make([]string, len(names))
		for i, name := range names {
			parts[i] = fmt.Sprintf("%s: %d", name, s.BySport[name])
		}
		fmt.Fprintf(p.w, "By sport: %s\n", strings.Join(parts, ", "))
	}
	fmt.Fprintln(p.w)
}

// PrintListings prints the first listings of a dry run.
func (p *Printer) PrintListings(listings []domain.RawListing) {
	fmt.Fprintf(p.w, "\nFetched %d Kalshi game-winner markets\n\n", len(listings))
	if len(listings) == 0 {
		return
	}
	tw := tabwriter.NewWriter(p.w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "Sport\tTicker\tTitle\tYes Ask")
	for i, l := range listings {
		if i == dryRunRows {
			break
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%dc\n", domain.DisplaySport(l.Sport), l.Ticker, truncate(l.Title, 40), l.YesAsk)
	}
	_ = tw.Flush()
	if len(listings) > dryRunRows {
		fmt.Fprintf(p.w, "... and %d more\n", len(listings)-dryRunRows)
	}
}

// PrintHeader prints the run banner.
func (p *Printer) PrintHeader(now time.Time, sportKeys []string, minEdge float64) {
	fmt.Fprintf(p.w, "\n%s\n", strings.Repeat("=", 60))
	fmt.Fprintln(p.w, "Vegas-Kalshi Value Bet Finder")
	fmt.Fprintf(p.w, "Run Time: %s\n", now.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(p.w, "%s\n\n", strings.Repeat("=", 60))
	fmt.Fprintf(p.w, "Analyzing sports: %s\n", strings.Join(sportKeys, ", "))
	fmt.Fprintf(p.w, "Minimum edge threshold: %s\n\n", pct(minEdge, 1))
}

// PrintQuota prints the odds-feed request allowance, if known.
func (p *Printer) PrintQuota(remaining, used int) {
	if remaining < 0 {
		return
	}
	fmt.Fprintf(p.w, "Odds API quota: %d remaining, %d used\n", remaining, used)
}
