package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/alanyoungcy/kalshiedge/internal/domain"
)

// ScanStore implements domain.ScanStore using PostgreSQL.
type ScanStore struct {
	pool *pgxpool.Pool
}

// NewScanStore creates a new ScanStore backed by the given pool.
func NewScanStore(pool *pgxpool.Pool) *ScanStore {
	return &ScanStore{pool: pool}
}

// RecordScan stores the counters of a finished scan.
func (s *ScanStore) RecordScan(ctx context.Context, sum domain.ScanSummary) error {
	const query = `
		INSERT INTO scans (
			scan_id, started_at, sports,
			event_count, listing_count, matched_count, opportunity_count
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (scan_id) DO NOTHING`

	sports := sum.Sports
	if sports == nil {
		sports = []string{}
	}
	_, err := s.pool.Exec(ctx, query,
		sum.ScanID, sum.StartedAt, sports,
		sum.EventCount, sum.ListingCount, sum.MatchedCount, len(sum.Opportunities),
	)
	if err != nil {
		return fmt.Errorf("postgres: record scan %s: %w", sum.ScanID, err)
	}
	return nil
}

// Compile-time interface checks.
var (
	_ domain.ScanStore  = (*ScanStore)(nil)
	_ domain.AuditStore = (*AuditStore)(nil)
)
