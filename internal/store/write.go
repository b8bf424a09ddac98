package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/roach88/hlsdecl/internal/ir"
	"github.com/roach88/hlsdecl/internal/manifest"
)

// Run is one stored manifest build.
type Run struct {
	ID             string             `json:"id"`
	Seq            int64              `json:"seq"`
	BackendVersion string             `json:"backend_version"`
	IRVersion      string             `json:"ir_version"`
	Manifest       *manifest.Manifest `json:"manifest"`
}

// NewRunID returns a fresh UUIDv7 run ID.
func NewRunID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("new run id: %w", err)
	}
	return id.String(), nil
}

// NewRun wraps m in a Run with a fresh ID and the current versions.
func NewRun(m *manifest.Manifest) (Run, error) {
	id, err := NewRunID()
	if err != nil {
		return Run{}, err
	}
	return Run{
		ID:             id,
		BackendVersion: ir.BackendVersion,
		IRVersion:      ir.IRVersion,
		Manifest:       m,
	}, nil
}

// WriteRun inserts a run with its typedefs and declarations in one
// transaction and returns the seq it was assigned.
// Uses ON CONFLICT(id) DO NOTHING for idempotency: writing the same run ID
// again leaves the stored run untouched and returns its existing seq.
func (s *Store) WriteRun(ctx context.Context, run Run) (int64, error) {
	if run.ID == "" {
		return 0, fmt.Errorf("write run: id is required")
	}
	if run.Manifest == nil {
		return 0, fmt.Errorf("write run %s: manifest is required", run.ID)
	}
	m := run.Manifest

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("write run: begin: %w", err)
	}
	defer tx.Rollback()

	var existing int64
	err = tx.QueryRowContext(ctx, `SELECT seq FROM runs WHERE id = ?`, run.ID).Scan(&existing)
	switch {
	case err == nil:
		return existing, nil
	case !errors.Is(err, sql.ErrNoRows):
		return 0, fmt.Errorf("write run: %w", err)
	}

	var seq int64
	if err := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(seq), 0) + 1 FROM runs`).Scan(&seq); err != nil {
		return 0, fmt.Errorf("write run: next seq: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs
		(id, seq, model, dialect, port, io_type, manifest_hash, backend_version, ir_version)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		run.ID,
		seq,
		m.Model,
		string(m.Dialect),
		m.Port,
		m.IOType,
		m.Hash,
		run.BackendVersion,
		run.IRVersion,
	)
	if err != nil {
		return 0, fmt.Errorf("write run: %w", err)
	}

	for i, td := range m.Typedefs {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO typedefs (run_id, position, name, form, text)
			VALUES (?, ?, ?, ?, ?)
		`, run.ID, i, td.Name, td.Form, td.Text)
		if err != nil {
			return 0, fmt.Errorf("write typedef %s: %w", td.Name, err)
		}
	}

	for i, d := range m.Declarations {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO declarations (run_id, position, role, kind, name, type, declaration, reference)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`, run.ID, i, d.Role, string(d.Kind), d.Name, d.Type, d.Declaration, d.Reference)
		if err != nil {
			return 0, fmt.Errorf("write declaration %s: %w", d.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("write run: commit: %w", err)
	}
	return seq, nil
}
