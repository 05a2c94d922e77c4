package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/fieldworks/backoffice/internal/core/domain"
	"github.com/fieldworks/backoffice/internal/core/listing"
)

// RecordRepository stores the records of one resource in the shared records table.
type RecordRepository[T domain.Record] struct {
	db     *DB
	schema listing.Schema[T]
}

func NewRecordRepository[T domain.Record](db *DB, schema listing.Schema[T]) *RecordRepository[T] {
	return &RecordRepository[T]{db: db, schema: schema}
}

func (r *RecordRepository[T]) List(ctx context.Context, q listing.Query) (listing.Page[T], error) {
	tx, err := r.db.BeginTx(ctx, &sql.TxOptions{ReadOnly: true})
	if err != nil {
		return listing.Page[T]{}, fmt.Errorf("begin read: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	rows, err := tx.QueryContext(ctx, `SELECT doc FROM records WHERE resource = ? ORDER BY seq`, r.schema.Resource)
	if err != nil {
		return listing.Page[T]{}, fmt.Errorf("select %s: %w", r.schema.Resource, err)
	}
	defer func() { _ = rows.Close() }()

	var all []T
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return listing.Page[T]{}, fmt.Errorf("scan: %w", err)
		}
		rec, err := r.decode(doc)
		if err != nil {
			return listing.Page[T]{}, err
		}
		all = append(all, rec)
	}
	if err := rows.Err(); err != nil {
		return listing.Page[T]{}, err
	}

	return listing.Paginate(r.schema.Filter(all, q), q.PageSize, q.Page), nil
}

func (r *RecordRepository[T]) Get(ctx context.Context, id string) (T, error) {
	var zero T
	var doc []byte
	err := r.db.QueryRowContext(ctx,
		`SELECT doc FROM records WHERE resource = ? AND id = ?`, r.schema.Resource, id,
	).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return zero, domain.ErrNotFound
	}
	if err != nil {
		return zero, fmt.Errorf("get %s: %w", r.schema.Resource, err)
	}
	return r.decode(doc)
}

func (r *RecordRepository[T]) Insert(ctx context.Context, rec T) error {
	doc, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode %s: %w", r.schema.Resource, err)
	}
	m := rec.Base()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var exists int
	err = tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM records WHERE resource = ? AND (id = ? OR display_id = ?)`,
		r.schema.Resource, m.ID, m.DisplayID,
	).Scan(&exists)
	if err != nil {
		return err
	}
	if exists > 0 {
		return fmt.Errorf("%w: %s or %s", domain.ErrDuplicateID, m.ID, m.DisplayID)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO records (resource, id, display_id, version, doc) VALUES (?, ?, ?, ?, ?)`,
		r.schema.Resource, m.ID, m.DisplayID, m.Version, string(doc),
	)
	if err != nil {
		return fmt.Errorf("insert %s: %w", r.schema.Resource, err)
	}
	return tx.Commit()
}

// Replace updates the document in place, keeping its insertion position.
func (r *RecordRepository[T]) Replace(ctx context.Context, rec T, expectedVersion int64) error {
	doc, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode %s: %w", r.schema.Resource, err)
	}
	m := rec.Base()

	res, err := r.db.ExecContext(ctx,
		`UPDATE records SET doc = ?, version = ? WHERE resource = ? AND id = ? AND version = ?`,
		string(doc), m.Version, r.schema.Resource, m.ID, expectedVersion,
	)
	if err != nil {
		return fmt.Errorf("update %s: %w", r.schema.Resource, err)
	}
	if n, _ := res.RowsAffected(); n > 0 {
		return nil
	}
	if _, err := r.Get(ctx, m.ID); err != nil {
		return err
	}
	return domain.ErrVersionConflict
}

func (r *RecordRepository[T]) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM records WHERE resource = ? AND id = ?`, r.schema.Resource, id,
	)
	if err != nil {
		return fmt.Errorf("delete %s: %w", r.schema.Resource, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *RecordRepository[T]) decode(doc []byte) (T, error) {
	rec := r.schema.New()
	if err := json.Unmarshal(doc, rec); err != nil {
		var zero T
		return zero, fmt.Errorf("decode %s: %w", r.schema.Resource, err)
	}
	return rec, nil
}
