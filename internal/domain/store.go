package domain

import (
	"context"
	"time"
)

// ListOpts provides pagination and filtering for list queries. Event and
// ScanID only apply to audit queries.
type ListOpts struct {
	Limit  int
	Offset int
	Since  *time.Time
	Until  *time.Time
	Event  string
	ScanID string
}

// AuditEntry is a single audit log row. ScanID is empty for entries not tied
// to a scan.
type AuditEntry struct {
	ID        int64
	Event     string
	ScanID    string
	Detail    map[string]any
	CreatedAt time.Time
}

// AuditStore persists an append-only audit log.
type AuditStore interface {
	Log(ctx context.Context, event string, detail map[string]any) error
	List(ctx context.Context, opts ListOpts) ([]AuditEntry, error)
}

// OpportunityStore persists emitted opportunities. Rows are only ever
// appended.
type OpportunityStore interface {
	InsertBatch(ctx context.Context, opps []ValueOpportunity) error
	ListRecent(ctx context.Context, opts ListOpts) ([]ValueOpportunity, error)
}

// ScanStore records one row per completed scan.
type ScanStore interface {
	RecordScan(ctx context.Context, summary ScanSummary) error
}
