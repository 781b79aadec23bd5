package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ayusman/nvar/internal/nvar"
	"github.com/ayusman/nvar/internal/probe"
)

// ErrNotFound is returned when a requested resource does not exist.
var ErrNotFound = errors.New("not found")

// ProbeRepository provides storage for probe reports.
type ProbeRepository struct {
	db *sql.DB
}

// Probes returns the probe repository for this store.
func (s *Store) Probes() *ProbeRepository {
	return &ProbeRepository{db: s.db}
}

// Create inserts a report and its feature outcomes.
func (r *ProbeRepository) Create(rep *probe.Report) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT INTO probes (id, version, library_path, model_dir, started_at, duration_ns)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		rep.ID, rep.Version, rep.LibraryPath, rep.ModelDir, rep.StartedAt.UTC(), int64(rep.Duration),
	)
	if err != nil {
		return fmt.Errorf("failed to insert probe: %w", err)
	}

	for i, f := range rep.Features {
		_, err := tx.Exec(
			`INSERT INTO probe_features (probe_id, position, feature, available, stage, result, error)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			rep.ID, i, string(f.Feature), f.Available, f.Stage, int32(f.Result), f.Error,
		)
		if err != nil {
			return fmt.Errorf("failed to insert feature %s: %w", f.Feature, err)
		}
	}

	return tx.Commit()
}

// GetByID retrieves a report by its ID.
func (r *ProbeRepository) GetByID(id string) (*probe.Report, error) {
	row := r.db.QueryRow(
		`SELECT id, version, library_path, model_dir, started_at, duration_ns
		 FROM probes WHERE id = ?`,
		id,
	)
	return r.load(row)
}

// Latest retrieves the most recent report.
func (r *ProbeRepository) Latest() (*probe.Report, error) {
	row := r.db.QueryRow(
		`SELECT id, version, library_path, model_dir, started_at, duration_ns
		 FROM probes ORDER BY started_at DESC LIMIT 1`,
	)
	return r.load(row)
}

// List retrieves reports newest first. A limit of 0 returns all of them.
func (r *ProbeRepository) List(limit int) ([]*probe.Report, error) {
	query := `SELECT id, version, library_path, model_dir, started_at, duration_ns
		 FROM probes ORDER BY started_at DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}

	var reports []*probe.Report
	for rows.Next() {
		rep, err := scanProbe(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		reports = append(reports, rep)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	for _, rep := range reports {
		if rep.Features, err = r.features(rep.ID); err != nil {
			return nil, err
		}
	}

	return reports, nil
}

// Delete removes a report and its feature outcomes.
func (r *ProbeRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM probes WHERE id = ?`, id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotFound
	}

	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanProbe(s scanner) (*probe.Report, error) {
	rep := &probe.Report{}
	var duration int64
	var startedAt time.Time

	err := s.Scan(&rep.ID, &rep.Version, &rep.LibraryPath, &rep.ModelDir, &startedAt, &duration)
	if err != nil {
		return nil, err
	}

	rep.StartedAt = startedAt.UTC()
	rep.Duration = time.Duration(duration)
	return rep, nil
}

func (r *ProbeRepository) load(row *sql.Row) (*probe.Report, error) {
	rep, err := scanProbe(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if rep.Features, err = r.features(rep.ID); err != nil {
		return nil, err
	}
	return rep, nil
}

func (r *ProbeRepository) features(id string) ([]probe.FeatureStatus, error) {
	rows, err := r.db.Query(
		`SELECT feature, available, stage, result, error
		 FROM probe_features WHERE probe_id = ? ORDER BY position`,
		id,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var features []probe.FeatureStatus
	for rows.Next() {
		var f probe.FeatureStatus
		var feature string
		var result int32

		if err := rows.Scan(&feature, &f.Available, &f.Stage, &result, &f.Error); err != nil {
			return nil, err
		}

		f.Feature = nvar.Feature(feature)
		f.Result = nvar.Result(result)
		features = append(features, f)
	}

	return features, rows.Err()
}
