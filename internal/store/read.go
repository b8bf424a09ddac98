package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/hlsdecl/internal/hls"
	"github.com/roach88/hlsdecl/internal/manifest"
	"github.com/roach88/hlsdecl/internal/variable"
)

// ErrRunNotFound is returned by ReadRun for an unknown run ID.
var ErrRunNotFound = errors.New("run not found")

// RunSummary is a run without its typedefs and declarations.
type RunSummary struct {
	ID             string      `json:"id"`
	Seq            int64       `json:"seq"`
	Model          string      `json:"model"`
	Dialect        hls.Dialect `json:"dialect"`
	Port           string      `json:"port"`
	IOType         string      `json:"io_type"`
	Hash           string      `json:"hash"`
	BackendVersion string      `json:"backend_version"`
	IRVersion      string      `json:"ir_version"`
	Declarations   int         `json:"declarations"`
}

const summaryColumns = `
	r.id, r.seq, r.model, r.dialect, r.port, r.io_type, r.manifest_hash,
	r.backend_version, r.ir_version,
	(SELECT COUNT(*) FROM declarations d WHERE d.run_id = r.id)
`

// ListRuns returns every run ordered by seq ASC, id ASC COLLATE BINARY.
//
// Returns an empty slice (not nil) if there are no runs.
func (s *Store) ListRuns(ctx context.Context) ([]RunSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+summaryColumns+`
		FROM runs r
		ORDER BY r.seq ASC, r.id COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	return scanSummaries(rows)
}

// FindRunsByHash returns the runs whose manifest hash equals hash, in the
// same order as ListRuns.
func (s *Store) FindRunsByHash(ctx context.Context, hash string) ([]RunSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+summaryColumns+`
		FROM runs r
		WHERE r.manifest_hash = ?
		ORDER BY r.seq ASC, r.id COLLATE BINARY ASC
	`, hash)
	if err != nil {
		return nil, fmt.Errorf("query runs by hash: %w", err)
	}
	return scanSummaries(rows)
}

func scanSummaries(rows *sql.Rows) ([]RunSummary, error) {
	defer rows.Close()

	runs := []RunSummary{}
	for rows.Next() {
		var r RunSummary
		var dialect string
		if err := rows.Scan(&r.ID, &r.Seq, &r.Model, &dialect, &r.Port, &r.IOType, &r.Hash,
			&r.BackendVersion, &r.IRVersion, &r.Declarations); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		r.Dialect = hls.Dialect(dialect)
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// ReadRun returns the run with the given ID, including its manifest.
// Returns an error wrapping ErrRunNotFound for an unknown ID.
func (s *Store) ReadRun(ctx context.Context, id string) (*Run, error) {
	run := &Run{ID: id, Manifest: &manifest.Manifest{}}
	m := run.Manifest

	var dialect string
	err := s.db.QueryRowContext(ctx, `
		SELECT seq, model, dialect, port, io_type, manifest_hash, backend_version, ir_version
		FROM runs
		WHERE id = ?
	`, id).Scan(&run.Seq, &m.Model, &dialect, &m.Port, &m.IOType, &m.Hash, &run.BackendVersion, &run.IRVersion)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("read run: %w", err)
	}
	m.Dialect = hls.Dialect(dialect)

	if m.Typedefs, err = s.readTypedefs(ctx, id); err != nil {
		return nil, err
	}
	if m.Declarations, err = s.readDeclarations(ctx, id); err != nil {
		return nil, err
	}
	return run, nil
}

func (s *Store) readTypedefs(ctx context.Context, runID string) ([]manifest.Typedef, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT name, form, text
		FROM typedefs
		WHERE run_id = ?
		ORDER BY position ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("query typedefs: %w", err)
	}
	defer rows.Close()

	typedefs := []manifest.Typedef{}
	for rows.Next() {
		var td manifest.Typedef
		if err := rows.Scan(&td.Name, &td.Form, &td.Text); err != nil {
			return nil, fmt.Errorf("scan typedef: %w", err)
		}
		typedefs = append(typedefs, td)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate typedefs: %w", err)
	}
	return typedefs, nil
}

func (s *Store) readDeclarations(ctx context.Context, runID string) ([]manifest.Declaration, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT role, kind, name, type, declaration, reference
		FROM declarations
		WHERE run_id = ?
		ORDER BY position ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("query declarations: %w", err)
	}
	defer rows.Close()

	decls := []manifest.Declaration{}
	for rows.Next() {
		var d manifest.Declaration
		var kind string
		if err := rows.Scan(&d.Role, &kind, &d.Name, &d.Type, &d.Declaration, &d.Reference); err != nil {
			return nil, fmt.Errorf("scan declaration: %w", err)
		}
		d.Kind = variable.Kind(kind)
		decls = append(decls, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate declarations: %w", err)
	}
	return decls, nil
}
