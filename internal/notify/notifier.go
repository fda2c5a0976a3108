// Package notify fans alerts out to chat channels. Opportunity alerts are
// filtered by a minimum confidence; other events by an allow-list.
package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/alanyoungcy/kalshiedge/internal/domain"
)

// Event types accepted by Notify.
const (
	EventOpportunity = "opportunity"
	EventScanFailed  = "scan_failed"
	EventQuotaLow    = "quota_low"
)

// Sender is the interface that each notification channel must implement.
type Sender interface {
	// Send delivers a notification with the given title and message body.
	Send(ctx context.Context, title, message string) error
	// Name returns a human-readable identifier for the sender (e.g. "telegram").
	Name() string
}

// Notifier dispatches notifications to one or more Senders.
type Notifier struct {
	senders       []Sender
	events        map[string]bool
	minConfidence domain.Confidence
	logger        *slog.Logger
}

// NewNotifier creates a Notifier. Only events listed in events are forwarded
// by Notify; an empty list allows all. Opportunities below minConfidence are
// dropped.
func NewNotifier(senders []Sender, events []string, minConfidence domain.Confidence, logger *slog.Logger) *Notifier {
	allowed := make(map[string]bool, len(events))
	for _, e := range events {
		if e = strings.TrimSpace(e); e != "" {
			allowed[e] = true
		}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Notifier{
		senders:       senders,
		events:        allowed,
		minConfidence: minConfidence,
		logger:        logger.With(slog.String("component", "notifier")),
	}
}

// Enabled reports whether any sender is registered.
func (n *Notifier) Enabled() bool { return n != nil && len(n.senders) > 0 }

// Notify sends to all senders if event is allowed.
func (n *Notifier) Notify(ctx context.Context, event, title, message string) error {
	if len(n.events) > 0 && !n.events[event] {
		n.logger.DebugContext(ctx, "event filtered out", slog.String("event", event))
		return nil
	}
	return n.dispatch(ctx, title, message)
}

// NotifyOpportunity alerts on opp when its confidence is at least the
// configured minimum. It reports whether an alert was attempted.
func (n *Notifier) NotifyOpportunity(ctx context.Context, opp domain.ValueOpportunity) (bool, error) {
	if opp.Confidence.Rank() < n.minConfidence.Rank() {
		return false, nil
	}
	title, message := FormatOpportunity(opp)
	return true, n.Notify(ctx, EventOpportunity, title, message)
}

// FormatOpportunity renders the alert title and body.
func FormatOpportunity(opp domain.ValueOpportunity) (string, string) {
	title := fmt.Sprintf("%s edge %.1f%%: %s", domain.DisplaySport(opp.Sport), opp.NetEdge*100, opp.BetTeam())
	var b strings.Builder
	fmt.Fprintf(&b, "%s @ %s\n", opp.AwayTeam, opp.HomeTeam)
	fmt.Fprintf(&b, "%s at %.0f¢ (fair %.1f%%)\n", opp.DisplayPosition(), opp.BetPrice()*100, opp.BetProb()*100)
	fmt.Fprintf(&b, "EV per 100: $%.2f | %d books | %s confidence\n", opp.EV100, opp.NumBookmakers, opp.Confidence)
	fmt.Fprintf(&b, "%s", opp.Ticker)
	return title, b.String()
}

// dispatch sends to every sender. One sender failing does not stop the rest;
// failures are joined into the returned error.
func (n *Notifier) dispatch(ctx context.Context, title, message string) error {
	var errs []error
	for _, s := range n.senders {
		if err := s.Send(ctx, title, message); err != nil {
			n.logger.ErrorContext(ctx, "sender failed",
				slog.String("sender", s.Name()),
				slog.String("error", err.Error()),
			)
			errs = append(errs, fmt.Errorf("%s: %w", s.Name(), err))
			continue
		}
		n.logger.DebugContext(ctx, "notification sent",
			slog.String("sender", s.Name()),
			slog.String("title", title),
		)
	}
	if len(errs) > 0 {
		return fmt.Errorf("notify: %d sender(s) failed: %w", len(errs), errors.Join(errs...))
	}
	return nil
}
