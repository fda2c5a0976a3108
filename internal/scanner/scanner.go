// Package scanner runs one end-to-end scan: fetch listings and sportsbook
// odds, match them, build consensus, price edges and fan the results out to
// the configured sinks.
package scanner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/alanyoungcy/kalshiedge/internal/domain"
)

// DefaultConcurrency bounds the number of in-flight odds requests.
const DefaultConcurrency = 4

// Matcher pairs events with listings.
type Matcher interface {
	Match(events []domain.RawEvent, listings []domain.RawListing) []domain.MatchedPair
}

// ConsensusBuilder produces one consensus per event id.
type ConsensusBuilder interface {
	BuildAll(events []domain.RawEvent) map[string]domain.Consensus
}

// Evaluator turns matched pairs into ranked opportunities.
type Evaluator interface {
	Evaluate(scanID string, pairs []domain.MatchedPair, consensus map[string]domain.Consensus) []domain.ValueOpportunity
}

// Notifier delivers a single opportunity alert.
type Notifier interface {
	NotifyOpportunity(ctx context.Context, opp domain.ValueOpportunity) (bool, error)
}

// Archiver stores a completed scan and returns where it was written.
type Archiver interface {
	Archive(ctx context.Context, sum domain.ScanSummary) (string, error)
}

// Config selects what a scan covers.
type Config struct {
	// SportKeys are odds-source keys; the listing sports are derived from
	// them.
	SportKeys   []string
	Concurrency int
	// LockKey and LockTTL guard a scan when a lock manager is configured.
	LockKey string
	LockTTL time.Duration
}

// Scanner wires the scan stages together. Sinks are optional; a failing sink
// is logged and never fails the scan.
type Scanner struct {
	cfg       Config
	events    domain.EventSource
	listings  domain.ListingSource
	matcher   Matcher
	consensus ConsensusBuilder
	engine    Evaluator

	opps     domain.OpportunityStore
	scans    domain.ScanStore
	audit    domain.AuditStore
	bus      domain.OpportunityBus
	notifier Notifier
	archiver Archiver
	lock     domain.LockManager

	logger *slog.Logger
	now    func() time.Time
}

// Option configures optional Scanner sinks.
type Option func(*Scanner)

// WithOpportunityStore persists every emitted opportunity.
func WithOpportunityStore(s domain.OpportunityStore) Option {
	return func(sc *Scanner) { sc.opps = s }
}

// WithScanStore records one row per scan.
func WithScanStore(s domain.ScanStore) Option {
	return func(sc *Scanner) { sc.scans = s }
}

// WithAuditStore logs scan lifecycle events.
func WithAuditStore(s domain.AuditStore) Option {
	return func(sc *Scanner) { sc.audit = s }
}

// WithBus publishes every emitted opportunity.
func WithBus(b domain.OpportunityBus) Option {
	return func(sc *Scanner) { sc.bus = b }
}

// WithNotifier alerts on emitted opportunities.
func WithNotifier(n Notifier) Option {
	return func(sc *Scanner) { sc.notifier = n }
}

// WithArchiver archives every completed scan.
func WithArchiver(a Archiver) Option {
	return func(sc *Scanner) { sc.archiver = a }
}

// WithLock makes Scan hold cfg.LockKey for its duration.
func WithLock(l domain.LockManager) Option {
	return func(sc *Scanner) { sc.lock = l }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(sc *Scanner) { sc.logger = l }
}

// WithClock overrides the scan start timestamp source.
func WithClock(now func() time.Time) Option {
	return func(sc *Scanner) { sc.now = now }
}

// New creates a Scanner.
func New(
	cfg Config,
	events domain.EventSource,
	listings domain.ListingSource,
	m Matcher,
	cb ConsensusBuilder,
	ev Evaluator,
	opts ...Option,
) *Scanner {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = DefaultConcurrency
	}
	if cfg.LockKey == "" {
		cfg.LockKey = "scan"
	}
	if cfg.LockTTL <= 0 {
		cfg.LockTTL = 5 * time.Minute
	}
	sc := &Scanner{
		cfg:       cfg,
		events:    events,
		listings:  listings,
		matcher:   m,
		consensus: cb,
		engine:    ev,
		logger:    slog.Default(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(sc)
	}
	sc.logger = sc.logger.With(slog.String("component", "scanner"))
	return sc
}

// Sports returns the listing sports covered by the configured sport keys.
func (s *Scanner) Sports() []string {
	return domain.SportsFor(s.cfg.SportKeys)
}

// FetchListings returns the open game-winner listings without scanning.
func (s *Scanner) FetchListings(ctx context.Context) ([]domain.RawListing, error) {
	listings, err := s.listings.FetchGameWinnerListings(ctx, s.Sports())
	if err != nil {
		return nil, fmt.Errorf("scanner: fetch listings: %w", err)
	}
	return listings, nil
}

// Scan runs one scan. Only a listing fetch failure, a held lock or context
// cancellation fail it; an odds failure for one sport contributes no events.
func (s *Scanner) Scan(ctx context.Context) (domain.ScanSummary, error) {
	if s.lock != nil {
		unlock, err := s.lock.Acquire(ctx, s.cfg.LockKey, s.cfg.LockTTL)
		if err != nil {
			return domain.ScanSummary{}, fmt.Errorf("scanner: acquire lock: %w", err)
		}
		defer unlock()
	}

	sum := domain.ScanSummary{
		ScanID:    uuid.NewString(),
		StartedAt: s.now().UTC(),
		Sports:    append([]string(nil), s.cfg.SportKeys...),
	}
	log := s.logger.With(slog.String("scan_id", sum.ScanID))

	events, listings, err := s.fetch(ctx, log)
	if err != nil {
		s.auditLog(ctx, log, "scan_failed", map[string]any{"scan_id": sum.ScanID, "error": err.Error()})
		return sum, err
	}
	sum.EventCount = len(events)
	sum.ListingCount = len(listings)

	pairs := s.matcher.Match(events, listings)
	sum.MatchedCount = len(pairs)
	cons := s.consensus.BuildAll(events)
	sum.Opportunities = s.engine.Evaluate(sum.ScanID, pairs, cons)

	log.InfoContext(ctx, "scan complete",
		slog.Int("events", sum.EventCount),
		slog.Int("listings", sum.ListingCount),
		slog.Int("matched", sum.MatchedCount),
		slog.Int("consensus", len(cons)),
		slog.Int("opportunities", len(sum.Opportunities)),
	)

	s.sink(ctx, log, sum)
	return sum, nil
}

// fetch loads listings and every sport's odds concurrently. Events keep the
// configured sport order.
func (s *Scanner) fetch(ctx context.Context, log *slog.Logger) ([]domain.RawEvent, []domain.RawListing, error) {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.Concurrency + 1)

	var listings []domain.RawListing
	g.Go(func() error {
		var err error
		listings, err = s.listings.FetchGameWinnerListings(gctx, s.Sports())
		if err != nil {
			return fmt.Errorf("scanner: fetch listings: %w", err)
		}
		return nil
	})

	perSport := make([][]domain.RawEvent, len(s.cfg.SportKeys))
	for i, key := range s.cfg.SportKeys {
		g.Go(func() error {
			evs, err := s.events.FetchH2H(gctx, key)
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				log.WarnContext(gctx, "odds fetch failed",
					slog.String("sport_key", key),
					slog.String("error", err.Error()),
				)
				return nil
			}
			perSport[i] = evs
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	var events []domain.RawEvent
	for _, evs := range perSport {
		events = append(events, evs...)
	}
	return events, listings, nil
}

func (s *Scanner) sink(ctx context.Context, log *slog.Logger, sum domain.ScanSummary) {
	opps := sum.Opportunities

	if s.opps != nil && len(opps) > 0 {
		if err := s.opps.InsertBatch(ctx, opps); err != nil {
			log.ErrorContext(ctx, "persist opportunities failed", slog.String("error", err.Error()))
		}
	}
	if s.scans != nil {
		if err := s.scans.RecordScan(ctx, sum); err != nil {
			log.ErrorContext(ctx, "record scan failed", slog.String("error", err.Error()))
		}
	}
	s.auditLog(ctx, log, "scan_completed", map[string]any{
		"scan_id":       sum.ScanID,
		"events":        sum.EventCount,
		"listings":      sum.ListingCount,
		"matched":       sum.MatchedCount,
		"opportunities": len(opps),
	})

	var published, notified int
	for _, o := range opps {
		if s.bus != nil {
			if err := s.bus.PublishOpportunity(ctx, o); err != nil {
				log.WarnContext(ctx, "publish failed",
					slog.String("ticker", o.Ticker),
					slog.String("error", err.Error()),
				)
			} else {
				published++
			}
		}
		if s.notifier != nil {
			sent, err := s.notifier.NotifyOpportunity(ctx, o)
			if err != nil {
				log.WarnContext(ctx, "notify failed",
					slog.String("ticker", o.Ticker),
					slog.String("error", err.Error()),
				)
			}
			if sent {
				notified++
			}
		}
	}
	if published > 0 || notified > 0 {
		log.InfoContext(ctx, "opportunities fanned out",
			slog.Int("published", published),
			slog.Int("notified", notified),
		)
	}

	if s.archiver != nil {
		key, err := s.archiver.Archive(ctx, sum)
		if err != nil {
			log.ErrorContext(ctx, "archive failed", slog.String("error", err.Error()))
		} else {
			log.DebugContext(ctx, "scan archived", slog.String("key", key))
		}
	}
}

func (s *Scanner) auditLog(ctx context.Context, log *slog.Logger, event string, detail map[string]any) {
	if s.audit == nil {
		return
	}
	if err := s.audit.Log(ctx, event, detail); err != nil {
		log.WarnContext(ctx, "audit log failed", slog.String("event", event), slog.String("error", err.Error()))
	}
}

// IsLockHeld reports whether err means another scan holds the lock.
func IsLockHeld(err error) bool {
	return errors.Is(err, domain.ErrLockHeld)
}
