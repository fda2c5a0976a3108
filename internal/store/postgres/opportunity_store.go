package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/alanyoungcy/kalshiedge/internal/domain"
)

// OpportunityStore implements domain.OpportunityStore using PostgreSQL.
type OpportunityStore struct {
	pool *pgxpool.Pool
}

// NewOpportunityStore creates a new OpportunityStore backed by the given pool.
func NewOpportunityStore(pool *pgxpool.Pool) *OpportunityStore {
	return &OpportunityStore{pool: pool}
}

const opportunitySelectCols = `id, scan_id, sport, event_id, ticker,
	home_team, away_team, home_prob, away_prob, home_price, away_price,
	position, team, gross_edge, net_edge, fee_impact,
	ev_per_contract, ev_100, num_bookmakers, confidence, detected_at`

func scanOpportunityRows(rows pgx.Rows) ([]domain.ValueOpportunity, error) {
	var opps []domain.ValueOpportunity
	for rows.Next() {
		var (
			o                      domain.ValueOpportunity
			position, team, confid string
		)
		if err := rows.Scan(
			&o.ID, &o.ScanID, &o.Sport, &o.EventID, &o.Ticker,
			&o.HomeTeam, &o.AwayTeam, &o.HomeProb, &o.AwayProb, &o.HomePrice, &o.AwayPrice,
			&position, &team, &o.GrossEdge, &o.NetEdge, &o.FeeImpact,
			&o.EVPerContract, &o.EV100, &o.NumBookmakers, &confid, &o.DetectedAt,
		); err != nil {
			return nil, err
		}
		o.Position = domain.Position(position)
		o.Team = domain.Side(team)
		o.Confidence = domain.ParseConfidence(confid)
		opps = append(opps, o)
	}
	return opps, rows.Err()
}

// InsertBatch appends opportunities in one round trip. Re-inserting an id is
// a no-op, so a retried scan never duplicates history.
func (s *OpportunityStore) InsertBatch(ctx context.Context, opps []domain.ValueOpportunity) error {
	if len(opps) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	const query = `
		INSERT INTO opportunities (
			id, scan_id, sport, event_id, ticker,
			home_team, away_team, home_prob, away_prob, home_price, away_price,
			position, team, gross_edge, net_edge, fee_impact,
			ev_per_contract, ev_100, num_bookmakers, confidence, detected_at
		) VALUES (
			$1, $2, $3, $4, $5,
			$6, $7, $8, $9, $10, $11,
			$12, $13, $14, $15, $16,
			$17, $18, $19, $20, $21
		) ON CONFLICT (id) DO NOTHING`

	for _, o := range opps {
		batch.Queue(query,
			o.ID, o.ScanID, o.Sport, o.EventID, o.Ticker,
			o.HomeTeam, o.AwayTeam, o.HomeProb, o.AwayProb, o.HomePrice, o.AwayPrice,
			string(o.Position), string(o.Team), o.GrossEdge, o.NetEdge, o.FeeImpact,
			o.EVPerContract, o.EV100, o.NumBookmakers, string(o.Confidence), o.DetectedAt,
		)
	}

	br := s.pool.SendBatch(ctx, batch)
	defer br.Close()

	for i := range opps {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("postgres: insert opportunity %d (%s): %w", i, opps[i].Ticker, err)
		}
	}
	return nil
}

// ListRecent returns opportunities newest first, filtered by opts.
func (s *OpportunityStore) ListRecent(ctx context.Context, opts domain.ListOpts) ([]domain.ValueOpportunity, error) {
	query := `SELECT ` + opportunitySelectCols + ` FROM opportunities WHERE 1=1`
	args := []any{}
	argIdx := 1

	if opts.Since != nil {
		query += fmt.Sprintf(" AND detected_at >= $%d", argIdx)
		args = append(args, *opts.Since)
		argIdx++
	}
	if opts.Until != nil {
		query += fmt.Sprintf(" AND detected_at <= $%d", argIdx)
		args = append(args, *opts.Until)
		argIdx++
	}

	query += " ORDER BY detected_at DESC, net_edge DESC"

	if opts.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argIdx)
		args = append(args, opts.Limit)
		argIdx++
	}
	if opts.Offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", argIdx)
		args = append(args, opts.Offset)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("postgres: list opportunities: %w", err)
	}
	defer rows.Close()

	opps, err := scanOpportunityRows(rows)
	if err != nil {
		return nil, fmt.Errorf("postgres: scan opportunities: %w", err)
	}
	return opps, nil
}

// Compile-time interface check.
var _ domain.OpportunityStore = (*OpportunityStore)(nil)
