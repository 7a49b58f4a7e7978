package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/roach88/roommates/internal/ir"
)

// WriteBatch inserts a batch record.
// Uses ON CONFLICT(id) DO NOTHING for idempotency - duplicate IDs are silently ignored.
func (s *Store) WriteBatch(ctx context.Context, b ir.Batch) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO batches
		(id, source, size, seed, solver_version, format_version)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		b.ID,
		b.Source,
		b.Size,
		int64(b.Seed), // sqlite3 rejects uint64 with the high bit set
		b.SolverVersion,
		b.FormatVersion,
	)
	if err != nil {
		return fmt.Errorf("write batch: %w", err)
	}
	return nil
}

// WriteRun inserts a run record.
// Uses ON CONFLICT(batch_id, seq) DO NOTHING for idempotency.
//
// The referenced batch must exist (foreign key constraint).
func (s *Store) WriteRun(ctx context.Context, r ir.Run) error {
	instanceJSON, err := json.Marshal(r.Instance)
	if err != nil {
		return fmt.Errorf("write run: marshal instance: %w", err)
	}
	matchingJSON, err := marshalMatching(r.Matching)
	if err != nil {
		return fmt.Errorf("write run: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO runs
		(batch_id, seq, instance_id, instance, outcome, reason, matching, rotations)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(batch_id, seq) DO NOTHING
	`,
		r.BatchID,
		r.Seq,
		r.InstanceID,
		string(instanceJSON),
		r.Outcome,
		r.Reason,
		matchingJSON,
		r.Rotations,
	)
	if err != nil {
		return fmt.Errorf("write run: %w", err)
	}
	return nil
}

// marshalMatching serializes a matching to canonical JSON.
func marshalMatching(m map[string]string) (string, error) {
	if m == nil {
		m = map[string]string{}
	}
	data, err := ir.MarshalCanonical(m)
	if err != nil {
		return "", fmt.Errorf("marshal matching: %w", err)
	}
	return string(data), nil
}
