package s3blob

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/alanyoungcy/kalshiedge/internal/domain"
)

// ScanArchiver uploads each finished scan as a JSONL file: one summary line
// followed by one line per opportunity. It works against any
// domain.BlobWriter, so it does not depend on S3 directly.
type ScanArchiver struct {
	writer domain.BlobWriter
	audit  domain.AuditStore
}

// NewScanArchiver creates a ScanArchiver. audit may be nil.
func NewScanArchiver(writer domain.BlobWriter, audit domain.AuditStore) *ScanArchiver {
	return &ScanArchiver{writer: writer, audit: audit}
}

type scanHeader struct {
	Type         string    `json:"type"`
	ScanID       string    `json:"scan_id"`
	StartedAt    time.Time `json:"started_at"`
	Sports       []string  `json:"sports"`
	EventCount   int       `json:"event_count"`
	ListingCount int       `json:"listing_count"`
	MatchedCount int       `json:"matched_count"`
	Count        int       `json:"opportunity_count"`
}

type scanLine struct {
	Type string `json:"type"`
	domain.ValueOpportunity
}

// Archive uploads the scan and returns the object path.
func (a *ScanArchiver) Archive(ctx context.Context, sum domain.ScanSummary) (string, error) {
	records := make([]any, 0, len(sum.Opportunities)+1)
	records = append(records, scanHeader{
		Type:         "scan",
		ScanID:       sum.ScanID,
		StartedAt:    sum.StartedAt,
		Sports:       sum.Sports,
		EventCount:   sum.EventCount,
		ListingCount: sum.ListingCount,
		MatchedCount: sum.MatchedCount,
		Count:        len(sum.Opportunities),
	})
	for _, o := range sum.Opportunities {
		records = append(records, scanLine{Type: "opportunity", ValueOpportunity: o})
	}

	buf, err := marshalJSONL(records)
	if err != nil {
		return "", fmt.Errorf("s3blob: archive scan marshal: %w", err)
	}

	path := archivePath(sum.ScanID, sum.StartedAt)
	if err := a.writer.Put(ctx, path, bytes.NewReader(buf), "application/x-ndjson"); err != nil {
		return "", fmt.Errorf("s3blob: archive scan upload: %w", err)
	}

	if a.audit != nil {
		if err := a.audit.Log(ctx, "archive.scan", map[string]any{
			"path":    path,
			"scan_id": sum.ScanID,
			"count":   len(sum.Opportunities),
		}); err != nil {
			return path, fmt.Errorf("s3blob: archive scan audit log: %w", err)
		}
	}
	return path, nil
}

// archivePath partitions archives by UTC day of the scan start.
//
//	scans/2025/01/15/{scan_id}.jsonl
func archivePath(scanID string, started time.Time) string {
	return fmt.Sprintf("scans/%s/%s.jsonl", started.UTC().Format("2006/01/02"), scanID)
}

// marshalJSONL serialises a slice of values as newline-delimited JSON (JSONL).
// Each element is marshalled as a single compact JSON line followed by '\n'.
func marshalJSONL[T any](records []T) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)

	for i, rec := range records {
		if err := enc.Encode(rec); err != nil {
			return nil, fmt.Errorf("jsonl encode record %d: %w", i, err)
		}
	}
	return buf.Bytes(), nil
}
