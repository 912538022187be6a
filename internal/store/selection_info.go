package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"enddate-cli/internal/options"
	"enddate-cli/internal/selection"
)

const (
	keyStart  = "start"
	keyPast   = "past"
	keyLatest = "latest"
	keyEnd    = "end"
)

// SelectionInfo is the state the end-date selector reads its bounds and its
// initial selection from.
type SelectionInfo struct {
	Start  string `json:"start,omitempty" yaml:"start,omitempty"`
	Past   string `json:"past" yaml:"past"`
	Latest string `json:"latest" yaml:"latest"`
	End    string `json:"end" yaml:"end"`
}

// Bounds returns the bound strings.
func (si SelectionInfo) Bounds() options.Inputs {
	return options.Inputs{Start: si.Start, Past: si.Past, Latest: si.Latest}
}

// PickerInputs returns the bounds plus the initial end date.
func (si SelectionInfo) PickerInputs() selection.Inputs {
	return selection.Inputs{Inputs: si.Bounds(), End: si.End}
}

func (si SelectionInfo) missing() []string {
	var out []string
	if strings.TrimSpace(si.Start) == "" && strings.TrimSpace(si.Past) == "" {
		out = append(out, keyPast)
	}
	if strings.TrimSpace(si.Latest) == "" {
		out = append(out, keyLatest)
	}
	if strings.TrimSpace(si.End) == "" {
		out = append(out, keyEnd)
	}
	return out
}

// Emission is one end date applied through ApplyEnd.
type Emission struct {
	ID        int64     `json:"id"`
	End       string    `json:"end"`
	Source    string    `json:"source"`
	AppliedAt time.Time `json:"appliedAt"`
}

// LoadSelectionInfo reads the stored selection info. It fails with an error
// matching ErrNotInitialized when a lower bound, latest or end is missing.
func (s Store) LoadSelectionInfo(ctx context.Context) (*SelectionInfo, error) {
	si, err := s.ReadSelectionInfo(ctx)
	if err != nil {
		return nil, err
	}
	if keys := si.missing(); len(keys) > 0 {
		return nil, missingKeysError{dir: s.Dir, keys: keys}
	}
	return si, nil
}

// ReadSelectionInfo returns whatever values are stored, blank ones included.
func (s Store) ReadSelectionInfo(ctx context.Context) (*SelectionInfo, error) {
	db, err := s.openSQLite(ctx)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, `SELECT k, v FROM selection_info`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	si := &SelectionInfo{}
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, err
		}
		switch k {
		case keyStart:
			si.Start = v
		case keyPast:
			si.Past = v
		case keyLatest:
			si.Latest = v
		case keyEnd:
			si.End = v
		}
	}
	return si, rows.Err()
}

// SaveSelectionInfo replaces all four values.
func (s Store) SaveSelectionInfo(ctx context.Context, si SelectionInfo) error {
	return s.putKeys(ctx, map[string]string{
		keyStart:  si.Start,
		keyPast:   si.Past,
		keyLatest: si.Latest,
		keyEnd:    si.End,
	})
}

// SaveBounds replaces start, past and latest, leaving end alone.
func (s Store) SaveBounds(ctx context.Context, in options.Inputs) error {
	return s.putKeys(ctx, map[string]string{
		keyStart:  in.Start,
		keyPast:   in.Past,
		keyLatest: in.Latest,
	})
}

// ReplaceBounds replaces start, past and latest and, when end is not blank,
// applies end in the same transaction. Either everything is stored or nothing.
func (s Store) ReplaceBounds(ctx context.Context, in options.Inputs, end, source string) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if err := putKeysTx(ctx, tx, map[string]string{
			keyStart:  in.Start,
			keyPast:   in.Past,
			keyLatest: in.Latest,
		}); err != nil {
			return err
		}
		if strings.TrimSpace(end) == "" {
			return nil
		}
		return applyEndTx(ctx, tx, end, source)
	})
}

func (s Store) putKeys(ctx context.Context, kv map[string]string) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		return putKeysTx(ctx, tx, kv)
	})
}

// ApplyEnd stores end as the current end date and records it in the history.
// source names what produced the value (e.g. "tui", "cli").
func (s Store) ApplyEnd(ctx context.Context, end, source string) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		return applyEndTx(ctx, tx, end, source)
	})
}

func (s Store) withTx(ctx context.Context, fn func(*sql.Tx) error) error {
	db, err := s.openSQLite(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

func putKeysTx(ctx context.Context, tx *sql.Tx, kv map[string]string) error {
	for k, v := range kv {
		if _, err := tx.ExecContext(ctx, `INSERT OR REPLACE INTO selection_info(k, v) VALUES(?, ?)`, k, strings.TrimSpace(v)); err != nil {
			return fmt.Errorf("save %s: %w", k, err)
		}
	}
	return nil
}

func applyEndTx(ctx context.Context, tx *sql.Tx, end, source string) error {
	end = strings.TrimSpace(end)
	if end == "" {
		return errors.New("apply end: empty date")
	}
	if _, err := tx.ExecContext(ctx, `INSERT OR REPLACE INTO selection_info(k, v) VALUES(?, ?)`, keyEnd, end); err != nil {
		return fmt.Errorf("apply end: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO end_history(end_date, source, applied_at_unixms) VALUES(?, ?, ?)`,
		end, strings.TrimSpace(source), time.Now().UTC().UnixMilli(),
	); err != nil {
		return fmt.Errorf("apply end: record history: %w", err)
	}
	return nil
}

// History returns applied end dates, newest first. limit <= 0 means all.
func (s Store) History(ctx context.Context, limit int) ([]Emission, error) {
	db, err := s.openSQLite(ctx)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	q := `SELECT id, end_date, source, applied_at_unixms FROM end_history ORDER BY id DESC`
	args := []any{}
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Emission{}
	for rows.Next() {
		var (
			e  Emission
			ms int64
		)
		if err := rows.Scan(&e.ID, &e.End, &e.Source, &ms); err != nil {
			return nil, err
		}
		e.AppliedAt = time.UnixMilli(ms).UTC()
		out = append(out, e)
	}
	return out, rows.Err()
}
