package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/edu-registry-api/internal/models"
)

// RecordRepository persists entity records as field-maps. Queries are built
// from the entity schema; column names never come from request input, only
// from the schema allowlists validated upstream.
type RecordRepository struct {
	db *sqlx.DB
}

// NewRecordRepository constructs a RecordRepository.
func NewRecordRepository(db *sqlx.DB) *RecordRepository {
	return &RecordRepository{db: db}
}

// Search returns records matching the search term under the given order and
// window. An empty search imposes no filter.
func (r *RecordRepository) Search(ctx context.Context, e models.Entity, search string, order []models.OrderTerm, limit, offset int) ([]models.Record, error) {
	query := fmt.Sprintf("SELECT %s FROM %s", strings.Join(e.Columns, ", "), e.Table)
	var args []interface{}
	if cond := searchCondition(e, search, &args); cond != "" {
		query += " WHERE " + cond
	}
	query += fmt.Sprintf(" ORDER BY %s LIMIT %d OFFSET %d", orderSQL(order), limit, offset)

	records, err := r.queryRecords(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("search %s: %w", e.Table, err)
	}
	return records, nil
}

// Count returns the number of records matching the search term, independent
// of pagination.
func (r *RecordRepository) Count(ctx context.Context, e models.Entity, search string) (int, error) {
	query := fmt.Sprintf("SELECT COUNT(*) FROM %s", e.Table)
	var args []interface{}
	if cond := searchCondition(e, search, &args); cond != "" {
		query += " WHERE " + cond
	}
	var total int
	if err := r.db.GetContext(ctx, &total, query, args...); err != nil {
		return 0, fmt.Errorf("count %s: %w", e.Table, err)
	}
	return total, nil
}

// Browse fetches records by id, preserving the order of the id list. Missing
// ids are silently absent.
func (r *RecordRepository) Browse(ctx context.Context, e models.Entity, ids []int64) ([]models.Record, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query := fmt.Sprintf("SELECT %s FROM %s WHERE id = ANY($1)", strings.Join(e.Columns, ", "), e.Table)
	records, err := r.queryRecords(ctx, query, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("browse %s: %w", e.Table, err)
	}

	byID := make(map[int64]models.Record, len(records))
	for _, rec := range records {
		byID[rec.ID()] = rec
	}
	ordered := make([]models.Record, 0, len(records))
	for _, id := range ids {
		if rec, ok := byID[id]; ok {
			ordered = append(ordered, rec)
		}
	}
	return ordered, nil
}

// FindByID fetches a single record, returning sql.ErrNoRows when absent.
func (r *RecordRepository) FindByID(ctx context.Context, e models.Entity, id int64) (models.Record, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE id = $1 LIMIT 1", strings.Join(e.Columns, ", "), e.Table)
	records, err := r.queryRecords(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("find %s by id: %w", e.Name, err)
	}
	if len(records) == 0 {
		return nil, sql.ErrNoRows
	}
	return records[0], nil
}

// FindByCode fetches a single record by its code, returning sql.ErrNoRows
// when absent.
func (r *RecordRepository) FindByCode(ctx context.Context, e models.Entity, code string) (models.Record, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE code = $1 LIMIT 1", strings.Join(e.Columns, ", "), e.Table)
	records, err := r.queryRecords(ctx, query, code)
	if err != nil {
		return nil, fmt.Errorf("find %s by code: %w", e.Name, err)
	}
	if len(records) == 0 {
		return nil, sql.ErrNoRows
	}
	return records[0], nil
}

// ExistsByCode checks code uniqueness, optionally excluding an id. The match
// is case-sensitive and exact.
func (r *RecordRepository) ExistsByCode(ctx context.Context, e models.Entity, code string, excludeID int64) (bool, error) {
	query := fmt.Sprintf("SELECT 1 FROM %s WHERE code = $1", e.Table)
	args := []interface{}{code}
	if excludeID != 0 {
		query += " AND id <> $2"
		args = append(args, excludeID)
	}
	var exists int
	if err := r.db.GetContext(ctx, &exists, query+" LIMIT 1", args...); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check %s code: %w", e.Name, err)
	}
	return true, nil
}

// All returns every record with the given projection, ordered by id.
func (r *RecordRepository) All(ctx context.Context, e models.Entity, columns []string) ([]models.Record, error) {
	if len(columns) == 0 {
		columns = e.Columns
	}
	query := fmt.Sprintf("SELECT %s FROM %s ORDER BY id ASC", strings.Join(columns, ", "), e.Table)
	records, err := r.queryRecords(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", e.Table, err)
	}
	return records, nil
}

// Insert creates a record from the supplied fields and returns the
// store-assigned id.
func (r *RecordRepository) Insert(ctx context.Context, e models.Entity, fields models.Record) (int64, error) {
	var (
		cols         []string
		placeholders []string
		args         []interface{}
	)
	for _, col := range e.Columns {
		if col == "id" {
			continue
		}
		v, ok := fields[col]
		if !ok {
			continue
		}
		cols = append(cols, col)
		args = append(args, v)
		placeholders = append(placeholders, fmt.Sprintf("$%d", len(args)))
	}
	if len(cols) == 0 {
		return 0, fmt.Errorf("insert %s: no columns", e.Name)
	}
	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) RETURNING id",
		e.Table, strings.Join(cols, ", "), strings.Join(placeholders, ", "))
	var id int64
	if err := r.db.GetContext(ctx, &id, query, args...); err != nil {
		return 0, fmt.Errorf("insert %s: %w", e.Name, err)
	}
	return id, nil
}

// Update writes only the supplied columns of an existing record.
func (r *RecordRepository) Update(ctx context.Context, e models.Entity, id int64, fields models.Record) error {
	var (
		sets []string
		args []interface{}
	)
	for _, col := range e.Columns {
		if col == "id" {
			continue
		}
		v, ok := fields[col]
		if !ok {
			continue
		}
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	if len(sets) == 0 {
		return nil
	}
	args = append(args, id)
	query := fmt.Sprintf("UPDATE %s SET %s WHERE id = $%d", e.Table, strings.Join(sets, ", "), len(args))
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update %s: %w", e.Name, err)
	}
	return nil
}

// Delete hard-deletes the given ids and returns the ids that existed.
func (r *RecordRepository) Delete(ctx context.Context, e models.Entity, ids []int64) ([]int64, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query := fmt.Sprintf("DELETE FROM %s WHERE id = ANY($1) RETURNING id", e.Table)
	var deleted []int64
	if err := r.db.SelectContext(ctx, &deleted, query, pq.Array(ids)); err != nil {
		return nil, fmt.Errorf("delete %s: %w", e.Table, err)
	}
	return deleted, nil
}

func (r *RecordRepository) queryRecords(ctx context.Context, query string, args ...interface{}) ([]models.Record, error) {
	rows, err := r.db.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []models.Record
	for rows.Next() {
		row := map[string]interface{}{}
		if err := rows.MapScan(row); err != nil {
			return nil, err
		}
		records = append(records, normalizeRow(row))
	}
	return records, rows.Err()
}

// normalizeRow converts driver types into the JSON-friendly values the rest
// of the system works with.
func normalizeRow(row map[string]interface{}) models.Record {
	rec := make(models.Record, len(row))
	for col, v := range row {
		switch t := v.(type) {
		case []byte:
			rec[col] = string(t)
		case time.Time:
			rec[col] = t.Format("2006-01-02")
		default:
			rec[col] = v
		}
	}
	return rec
}

func searchCondition(e models.Entity, search string, args *[]interface{}) string {
	if search == "" {
		return ""
	}
	*args = append(*args, "%"+strings.ToLower(search)+"%")
	n := len(*args)
	parts := make([]string, 0, len(e.Searchable))
	for _, col := range e.Searchable {
		parts = append(parts, fmt.Sprintf("LOWER(%s::text) LIKE $%d", col, n))
	}
	return "(" + strings.Join(parts, " OR ") + ")"
}

func orderSQL(order []models.OrderTerm) string {
	if len(order) == 0 {
		return "id ASC"
	}
	parts := make([]string, 0, len(order))
	for _, term := range order {
		dir := "ASC"
		if term.Desc {
			dir = "DESC"
		}
		parts = append(parts, fmt.Sprintf("%s %s", term.Column, dir))
	}
	return strings.Join(parts, ", ")
}
