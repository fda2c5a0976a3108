// Package export writes scan results to CSV files and optionally mirrors
// them to object storage.
package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/alanyoungcy/kalshiedge/internal/domain"
)

// HistoryFile is the append-only tracking file name.
const HistoryFile = "opportunity_history.csv"

const csvContentType = "text/csv"

// Columns of each export.
var (
	CSVColumns = []string{
		"sport", "home_team", "away_team", "kalshi_ticker",
		"vegas_home_prob", "vegas_away_prob", "kalshi_home_price", "kalshi_away_price",
		"recommended_position", "recommended_team", "gross_edge", "net_edge",
		"fee_impact", "ev_per_contract", "ev_100_contracts", "num_bookmakers", "confidence",
	}
	DetailedColumns = []string{
		"timestamp", "sport", "matchup", "kalshi_ticker", "recommendation",
		"net_edge_pct", "ev_100_contracts", "num_bookmakers", "confidence",
	}
	HistoryColumns = []string{
		"scan_timestamp", "sport", "home_team", "away_team", "kalshi_ticker",
		"recommended_position", "net_edge", "ev_100_contracts", "confidence",
	}
)

// Exporter writes CSV files under Dir. When an uploader is configured every
// written file is also uploaded under "exports/"; upload failures are logged
// and do not fail the export.
type Exporter struct {
	dir      string
	uploader domain.BlobWriter
	logger   *slog.Logger
	now      func() time.Time
}

// Option configures an Exporter.
type Option func(*Exporter)

// WithUploader mirrors written files to object storage.
func WithUploader(w domain.BlobWriter) Option {
	return func(e *Exporter) { e.uploader = w }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Exporter) { e.logger = l }
}

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(e *Exporter) { e.now = now }
}

// New creates an Exporter rooted at dir.
func New(dir string, opts ...Option) *Exporter {
	e := &Exporter{dir: dir, logger: slog.Default(), now: time.Now}
	for _, opt := range opts {
		opt(e)
	}
	e.logger = e.logger.With(slog.String("component", "export"))
	return e
}

func f4(v float64) string { return strconv.FormatFloat(v, 'f', 4, 64) }
func f2(v float64) string { return strconv.FormatFloat(v, 'f', 2, 64) }

// ExportCSV writes every field of every opportunity to a timestamped file and
// returns its path.
func (e *Exporter) ExportCSV(ctx context.Context, opps []domain.ValueOpportunity) (string, error) {
	rows := make([][]string, 0, len(opps))
	for _, o := range opps {
		rows = append(rows, []string{
			o.Sport, o.HomeTeam, o.AwayTeam, o.Ticker,
			f4(o.HomeProb), f4(o.AwayProb), f2(o.HomePrice), f2(o.AwayPrice),
			string(o.Position), string(o.Team), f4(o.GrossEdge), f4(o.NetEdge),
			f4(o.FeeImpact), f4(o.EVPerContract), f2(o.EV100),
			strconv.Itoa(o.NumBookmakers), string(o.Confidence),
		})
	}
	name := "value_bets_" + e.now().Format("20060102_150405") + ".csv"
	return e.writeFile(ctx, name, CSVColumns, rows)
}

// ExportDetailedCSV writes the human-oriented report and returns its path.
func (e *Exporter) ExportDetailedCSV(ctx context.Context, opps []domain.ValueOpportunity) (string, error) {
	now := e.now()
	ts := now.Format(time.RFC3339)
	rows := make([][]string, 0, len(opps))
	for _, o := range opps {
		rows = append(rows, []string{
			ts, o.Sport, o.AwayTeam + " @ " + o.HomeTeam, o.Ticker, o.DisplayPosition(),
			fmt.Sprintf("%.2f%%", o.NetEdge*100), "$" + f2(o.EV100),
			strconv.Itoa(o.NumBookmakers), strings.ToUpper(string(o.Confidence)),
		})
	}
	name := "value_bets_detailed_" + now.Format("20060102_150405") + ".csv"
	return e.writeFile(ctx, name, DetailedColumns, rows)
}

// AppendHistory appends one row per opportunity to HistoryFile, writing the
// header only when the file is created. Existing rows are never rewritten.
func (e *Exporter) AppendHistory(ctx context.Context, opps []domain.ValueOpportunity) (string, error) {
	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		return "", fmt.Errorf("export: create dir: %w", err)
	}
	path := filepath.Join(e.dir, HistoryFile)

	_, statErr := os.Stat(path)
	isNew := errors.Is(statErr, fs.ErrNotExist)

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return "", fmt.Errorf("export: open history: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if isNew {
		if err := w.Write(HistoryColumns); err != nil {
			return "", fmt.Errorf("export: write history header: %w", err)
		}
	}
	ts := e.now().Format(time.RFC3339)
	for _, o := range opps {
		if err := w.Write([]string{
			ts, o.Sport, o.HomeTeam, o.AwayTeam, o.Ticker,
			string(o.Position), f4(o.NetEdge), f2(o.EV100), string(o.Confidence),
		}); err != nil {
			return "", fmt.Errorf("export: write history row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("export: flush history: %w", err)
	}

	e.logger.InfoContext(ctx, "appended history",
		slog.String("path", path),
		slog.Int("rows", len(opps)),
	)
	e.upload(ctx, path, HistoryFile)
	return path, nil
}

func (e *Exporter) writeFile(ctx context.Context, name string, header []string, rows [][]string) (string, error) {
	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		return "", fmt.Errorf("export: create dir: %w", err)
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(header); err != nil {
		return "", fmt.Errorf("export: write header: %w", err)
	}
	if err := w.WriteAll(rows); err != nil {
		return "", fmt.Errorf("export: write rows: %w", err)
	}

	path := filepath.Join(e.dir, name)
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("export: write %s: %w", name, err)
	}

	e.logger.InfoContext(ctx, "exported",
		slog.String("path", path),
		slog.Int("rows", len(rows)),
	)
	e.upload(ctx, path, name)
	return path, nil
}

func (e *Exporter) upload(ctx context.Context, path, name string) {
	if e.uploader == nil {
		return
	}
	data, err := os.ReadFile(path)
	if err != nil {
		e.logger.WarnContext(ctx, "upload skipped", slog.String("path", path), slog.String("error", err.Error()))
		return
	}
	key := "exports/" + name
	if err := e.uploader.Put(ctx, key, bytes.NewReader(data), csvContentType); err != nil {
		e.logger.WarnContext(ctx, "upload failed", slog.String("key", key), slog.String("error", err.Error()))
	}
}
