// Package draftstore is the enumerator-local system of record: every
// captured survey lives here, keyed by survey id, until the reconciler
// confirms it stored remotely.
package draftstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"

	"github.com/mawuli/field-survey/model"
)

var ErrNotFound = errors.New("draft not found")

type Store struct {
	db *sql.DB
}

// Open opens (or creates) the local store. A failure here is fatal to the
// caller: there is no migration path between local schema versions, the
// recovery is Wipe.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, errors.Wrap(err, "draft store: open")
	}

	if err := migrateDB(db); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "draft store: schema")
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Put upserts a record by survey id.
func (s *Store) Put(ctx context.Context, survey model.Survey) error {
	record, err := json.Marshal(survey)
	if err != nil {
		return errors.Wrap(err, "draft store: encode record")
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO draft (survey_id, record, timestamp, sync_status, synced_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (survey_id) DO UPDATE SET
			record = excluded.record,
			timestamp = excluded.timestamp,
			sync_status = excluded.sync_status,
			synced_at = excluded.synced_at`,
		survey.SurveyID,
		string(record),
		survey.Timestamp,
		string(survey.SyncStatus),
		survey.SyncedAt,
	)
	return errors.Wrap(err, "draft store: put")
}

// GetAll returns every stored record; order is unspecified.
func (s *Store) GetAll(ctx context.Context) ([]model.Survey, error) {
	return s.query(ctx, `SELECT record FROM draft`)
}

// Pending returns the reconciler's retry set: records never synced plus
// records whose last sync attempt failed.
func (s *Store) Pending(ctx context.Context) ([]model.Survey, error) {
	return s.query(ctx, `
		SELECT record FROM draft
		WHERE sync_status IN ('pending', 'failed')`)
}

func (s *Store) query(ctx context.Context, q string, args ...any) ([]model.Survey, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, errors.Wrap(err, "draft store: query")
	}
	defer rows.Close()

	surveys := []model.Survey{}
	for rows.Next() {
		var record string
		if err := rows.Scan(&record); err != nil {
			return nil, errors.Wrap(err, "draft store: scan")
		}

		var survey model.Survey
		if err := json.Unmarshal([]byte(record), &survey); err != nil {
			return nil, errors.Wrapf(err, "draft store: decode record")
		}
		surveys = append(surveys, survey)
	}
	return surveys, rows.Err()
}

// GetByID returns the record and whether it exists; a missing id is not an
// error.
func (s *Store) GetByID(ctx context.Context, id string) (model.Survey, bool, error) {
	var record string
	err := s.db.QueryRowContext(ctx,
		`SELECT record FROM draft WHERE survey_id = ?`, id,
	).Scan(&record)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Survey{}, false, nil
	}
	if err != nil {
		return model.Survey{}, false, errors.Wrap(err, "draft store: get")
	}

	var survey model.Survey
	if err := json.Unmarshal([]byte(record), &survey); err != nil {
		return model.Survey{}, false, errors.Wrap(err, "draft store: decode record")
	}
	return survey, true, nil
}

// Delete removes a record, reporting ErrNotFound on a missing id.
func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM draft WHERE survey_id = ?`, id)
	if err != nil {
		return errors.Wrap(err, "draft store: delete")
	}

	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "draft store: delete verify")
	}
	if n < 1 {
		return ErrNotFound
	}
	return nil
}

// MarkSynced flips the given records to synced, both in the indexed column
// and inside the stored document.
func (s *Store) MarkSynced(ctx context.Context, ids []string, at time.Time) error {
	return s.markStatus(ctx, ids, model.StatusSynced, at.UTC().Format(time.RFC3339))
}

// MarkFailed flips the given records to failed; they stay in the retry set.
func (s *Store) MarkFailed(ctx context.Context, ids []string) error {
	return s.markStatus(ctx, ids, model.StatusFailed, "")
}

func (s *Store) markStatus(ctx context.Context, ids []string, status model.SyncStatus, syncedAt string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "draft store: begin tx")
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		UPDATE draft
		SET
			sync_status = ?,
			synced_at = ?,
			record = json_set(record, '$.syncStatus', ?, '$.syncedAt', ?)
		WHERE survey_id = ?`)
	if err != nil {
		return errors.Wrap(err, "draft store: mark prepare")
	}
	defer stmt.Close()

	for _, id := range ids {
		if _, err := stmt.ExecContext(ctx, string(status), syncedAt, string(status), syncedAt, id); err != nil {
			return errors.Wrapf(err, "draft store: mark %s", id)
		}
	}

	return errors.Wrap(tx.Commit(), "draft store: mark commit")
}

// CountsByStatus tallies records per sync status.
func (s *Store) CountsByStatus(ctx context.Context) (model.Counts, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT sync_status, COUNT(*)
		FROM draft
		GROUP BY sync_status`)
	if err != nil {
		return model.Counts{}, errors.Wrap(err, "draft store: counts")
	}
	defer rows.Close()

	counts := model.Counts{}
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return model.Counts{}, errors.Wrap(err, "draft store: counts scan")
		}

		counts.Total += n
		switch model.SyncStatus(status) {
		case model.StatusPending:
			counts.Pending = n
		case model.StatusSynced:
			counts.Synced = n
		case model.StatusFailed:
			counts.Failed = n
		}
	}
	return counts, rows.Err()
}

// Wipe is the destructive recovery path: drop everything and recreate the
// schema. Unsynced drafts are lost.
func (s *Store) Wipe(ctx context.Context) error {
	migrator, err := newMigrator(s.db)
	if err != nil {
		return errors.Wrap(err, "draft store: wipe")
	}
	if err := migrator.Drop(); err != nil {
		return errors.Wrap(err, "draft store: wipe drop")
	}
	return errors.Wrap(migrateDB(s.db), "draft store: wipe recreate")
}
