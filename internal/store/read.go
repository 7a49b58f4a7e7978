package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/roach88/roommates/internal/ir"
)

// ReadBatches returns every batch ordered by id.
// UUIDv7 ids sort by creation time, so this is also creation order.
//
// Returns an empty slice (not nil) if no batches exist.
func (s *Store) ReadBatches(ctx context.Context) ([]ir.Batch, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, source, size, seed, solver_version, format_version
		FROM batches
		ORDER BY id COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query batches: %w", err)
	}
	defer rows.Close()

	batches := []ir.Batch{}
	for rows.Next() {
		var b ir.Batch
		var seed int64
		if err := rows.Scan(&b.ID, &b.Source, &b.Size, &seed, &b.SolverVersion, &b.FormatVersion); err != nil {
			return nil, fmt.Errorf("scan batch: %w", err)
		}
		b.Seed = uint64(seed)
		batches = append(batches, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate batches: %w", err)
	}
	return batches, nil
}

// ReadBatch returns one batch. Returns sql.ErrNoRows (wrapped) if absent.
func (s *Store) ReadBatch(ctx context.Context, id string) (ir.Batch, error) {
	var b ir.Batch
	var seed int64
	err := s.db.QueryRowContext(ctx, `
		SELECT id, source, size, seed, solver_version, format_version
		FROM batches
		WHERE id = ?
	`, id).Scan(&b.ID, &b.Source, &b.Size, &seed, &b.SolverVersion, &b.FormatVersion)
	if err != nil {
		return ir.Batch{}, fmt.Errorf("read batch %s: %w", id, err)
	}
	b.Seed = uint64(seed)
	return b, nil
}

// ReadRuns returns all runs of a batch ordered by seq.
//
// Returns an empty slice (not nil) if the batch has no runs.
func (s *Store) ReadRuns(ctx context.Context, batchID string) ([]ir.Run, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT batch_id, seq, instance_id, instance, outcome, reason, matching, rotations
		FROM runs
		WHERE batch_id = ?
		ORDER BY seq ASC
	`, batchID)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	runs := []ir.Run{}
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// ReadRunsByInstance returns every recorded run of an instance across batches.
func (s *Store) ReadRunsByInstance(ctx context.Context, instanceID string) ([]ir.Run, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT batch_id, seq, instance_id, instance, outcome, reason, matching, rotations
		FROM runs
		WHERE instance_id = ?
		ORDER BY batch_id COLLATE BINARY ASC, seq ASC
	`, instanceID)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	runs := []ir.Run{}
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// Tally counts the runs of a batch by outcome key: "success" for successful
// runs, the failure reason otherwise.
func (s *Store) Tally(ctx context.Context, batchID string) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT outcome, reason, COUNT(*)
		FROM runs
		WHERE batch_id = ?
		GROUP BY outcome, reason
		ORDER BY outcome ASC, reason ASC
	`, batchID)
	if err != nil {
		return nil, fmt.Errorf("query tally: %w", err)
	}
	defer rows.Close()

	tally := map[string]int{}
	for rows.Next() {
		var outcome, reason string
		var count int
		if err := rows.Scan(&outcome, &reason, &count); err != nil {
			return nil, fmt.Errorf("scan tally: %w", err)
		}
		key := outcome
		if outcome == ir.OutcomeFailure && reason != "" {
			key = reason
		}
		tally[key] += count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tally: %w", err)
	}
	return tally, nil
}

// rowScanner is implemented by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (ir.Run, error) {
	var r ir.Run
	var instanceJSON, matchingJSON string
	if err := row.Scan(&r.BatchID, &r.Seq, &r.InstanceID, &instanceJSON, &r.Outcome, &r.Reason, &matchingJSON, &r.Rotations); err != nil {
		return ir.Run{}, fmt.Errorf("scan run: %w", err)
	}

	if err := json.Unmarshal([]byte(instanceJSON), &r.Instance); err != nil {
		return ir.Run{}, fmt.Errorf("decode instance of run %d: %w", r.Seq, err)
	}

	var matching map[string]string
	if err := json.Unmarshal([]byte(matchingJSON), &matching); err != nil {
		return ir.Run{}, fmt.Errorf("decode matching of run %d: %w", r.Seq, err)
	}
	if len(matching) > 0 {
		r.Matching = matching
	}
	return r, nil
}

var _ rowScanner = (*sql.Row)(nil)
