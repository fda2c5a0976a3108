package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/alanyoungcy/kalshiedge/internal/domain"
	"github.com/alanyoungcy/kalshiedge/internal/notify"
	"github.com/alanyoungcy/kalshiedge/internal/platform/oddsapi"
	"github.com/alanyoungcy/kalshiedge/internal/scanner"
)

// quotaAlertWindow suppresses a repeat quota_low alert from any process
// while an earlier one is still in the audit log window.
const quotaAlertWindow = 24 * time.Hour

// DryRunMode fetches and prints the open listings without touching the odds
// feed.
func (a *App) DryRunMode(ctx context.Context, deps *Dependencies) (bool, error) {
	a.logger.InfoContext(ctx, "starting dry run")

	listings, err := deps.Scanner.FetchListings(ctx)
	if err != nil {
		return false, err
	}
	deps.Printer.PrintListings(listings)
	return true, nil
}

// ScanMode runs one scan, prints the results and writes the configured
// exports.
func (a *App) ScanMode(ctx context.Context, deps *Dependencies) (bool, error) {
	a.logger.InfoContext(ctx, "starting scan")

	sum, err := a.scanOnce(ctx, deps)
	if err != nil {
		return false, err
	}
	return len(sum.Opportunities) > 0, nil
}

// WatchMode scans immediately and then on every watch interval until ctx is
// cancelled. A failed scan is logged and retried on the next tick; a scan
// skipped because another process holds the lock is not an error.
func (a *App) WatchMode(ctx context.Context, deps *Dependencies) (bool, error) {
	interval := a.cfg.WatchInterval.Duration
	a.logger.InfoContext(ctx, "starting watch", slog.Duration("interval", interval))

	var found bool
	tick := func() {
		sum, err := a.scanOnce(ctx, deps)
		switch {
		case err == nil:
			found = found || len(sum.Opportunities) > 0
		case scanner.IsLockHeld(err):
			a.logger.InfoContext(ctx, "scan skipped, another scanner holds the lock", slog.String("reason", err.Error()))
		case ctx.Err() != nil:
		default:
			a.logger.ErrorContext(ctx, "scan failed", slog.String("error", err.Error()))
		}
	}

	tick()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			a.logger.InfoContext(ctx, "watch stopped")
			return found, nil
		case <-ticker.C:
			tick()
		}
	}
}

// scanOnce runs a scan and renders it. Export failures are logged.
func (a *App) scanOnce(ctx context.Context, deps *Dependencies) (domain.ScanSummary, error) {
	sum, err := deps.Scanner.Scan(ctx)
	if err != nil {
		if !scanner.IsLockHeld(err) && ctx.Err() == nil {
			a.notify(ctx, deps, notify.EventScanFailed, "Scan failed", err.Error())
		}
		return sum, err
	}

	a.reportQuota(ctx, deps)

	if a.cfg.Output.Compact {
		deps.Printer.PrintCompactTable(sum.Opportunities)
	} else {
		deps.Printer.PrintOpportunities(sum.Opportunities)
	}
	deps.Printer.PrintSummary(sum.EventCount, sum.ListingCount, sum.Opportunities)

	if len(sum.Opportunities) > 0 {
		a.export(ctx, deps, sum.Opportunities)
	}
	return sum, nil
}

func (a *App) export(ctx context.Context, deps *Dependencies, opps []domain.ValueOpportunity) {
	type step struct {
		enabled bool
		name    string
		run     func(context.Context, []domain.ValueOpportunity) (string, error)
	}
	steps := []step{
		{a.cfg.Output.ExportCSV, "csv", deps.Exporter.ExportCSV},
		{a.cfg.Output.DetailedExport, "detailed csv", deps.Exporter.ExportDetailedCSV},
		{a.cfg.Output.TrackHistory, "history", deps.Exporter.AppendHistory},
	}
	for _, s := range steps {
		if !s.enabled {
			continue
		}
		path, err := s.run(ctx, opps)
		if err != nil {
			a.logger.ErrorContext(ctx, "export failed", slog.String("export", s.name), slog.String("error", err.Error()))
			continue
		}
		fmt.Fprintf(a.out, "Exported %s to %s\n", s.name, path)
	}
}

// reportQuota prints the odds-feed allowance and alerts when it falls to the
// configured threshold.
func (a *App) reportQuota(ctx context.Context, deps *Dependencies) {
	if deps.Odds == nil {
		return
	}
	q := deps.Odds.Quota()
	if !q.Known() {
		return
	}
	deps.Printer.PrintQuota(q.Remaining, q.Used)
	a.alertQuota(ctx, deps, q)
}

// alertQuota raises quota_low at most once per process, and not at all while
// the audit log holds one from the last quotaAlertWindow. Sent alerts are
// written to the audit log.
func (a *App) alertQuota(ctx context.Context, deps *Dependencies, q oddsapi.Quota) {
	threshold := a.cfg.OddsAPI.QuotaLowThreshold
	if threshold <= 0 || q.Remaining > threshold || a.quotaAlerted {
		return
	}
	a.quotaAlerted = true
	if a.quotaAlertedRecently(ctx, deps) {
		a.logger.DebugContext(ctx, "quota alert already sent", slog.Int("remaining", q.Remaining))
		return
	}

	a.logger.WarnContext(ctx, "odds api quota low",
		slog.Int("remaining", q.Remaining),
		slog.Int("threshold", threshold),
	)
	a.notify(ctx, deps, notify.EventQuotaLow, "Odds API quota low",
		fmt.Sprintf("%d requests remaining (%d used)", q.Remaining, q.Used))

	if deps.AuditStore == nil {
		return
	}
	err := deps.AuditStore.Log(ctx, notify.EventQuotaLow, map[string]any{
		"remaining": q.Remaining,
		"used":      q.Used,
		"threshold": threshold,
	})
	if err != nil {
		a.logger.WarnContext(ctx, "audit log failed", slog.String("event", notify.EventQuotaLow), slog.String("error", err.Error()))
	}
}

func (a *App) quotaAlertedRecently(ctx context.Context, deps *Dependencies) bool {
	if deps.AuditStore == nil {
		return false
	}
	since := time.Now().Add(-quotaAlertWindow)
	entries, err := deps.AuditStore.List(ctx, domain.ListOpts{Event: notify.EventQuotaLow, Since: &since, Limit: 1})
	if err != nil {
		a.logger.WarnContext(ctx, "audit lookup failed", slog.String("error", err.Error()))
		return false
	}
	return len(entries) > 0
}

// refreshOdds drops the cached odds of every configured sport. Failures are
// logged; the scan then reads whatever the cache still holds.
func (a *App) refreshOdds(ctx context.Context, deps *Dependencies) {
	if deps.OddsCache == nil {
		return
	}
	keys := a.cfg.SportKeys()
	for _, key := range keys {
		if err := deps.OddsCache.Invalidate(ctx, key); err != nil {
			a.logger.WarnContext(ctx, "odds cache invalidate failed",
				slog.String("sport_key", key),
				slog.String("error", err.Error()),
			)
		}
	}
	a.logger.InfoContext(ctx, "odds cache refreshed", slog.Int("sports", len(keys)))
}

func (a *App) notify(ctx context.Context, deps *Dependencies, event, title, msg string) {
	if !deps.Notifier.Enabled() {
		return
	}
	if err := deps.Notifier.Notify(ctx, event, title, msg); err != nil && !errors.Is(err, context.Canceled) {
		a.logger.WarnContext(ctx, "notification failed", slog.String("event", event), slog.String("error", err.Error()))
	}
}
