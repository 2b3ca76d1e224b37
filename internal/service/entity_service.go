package service

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/edu-registry-api/internal/models"
	"github.com/noah-isme/edu-registry-api/internal/query"
	"github.com/noah-isme/edu-registry-api/pkg/codec"
	appErrors "github.com/noah-isme/edu-registry-api/pkg/errors"
)

type recordStore interface {
	Search(ctx context.Context, e models.Entity, search string, order []models.OrderTerm, limit, offset int) ([]models.Record, error)
	Count(ctx context.Context, e models.Entity, search string) (int, error)
	Browse(ctx context.Context, e models.Entity, ids []int64) ([]models.Record, error)
	FindByID(ctx context.Context, e models.Entity, id int64) (models.Record, error)
	FindByCode(ctx context.Context, e models.Entity, code string) (models.Record, error)
	ExistsByCode(ctx context.Context, e models.Entity, code string, excludeID int64) (bool, error)
	All(ctx context.Context, e models.Entity, columns []string) ([]models.Record, error)
	Insert(ctx context.Context, e models.Entity, fields models.Record) (int64, error)
	Update(ctx context.Context, e models.Entity, id int64, fields models.Record) error
	Delete(ctx context.Context, e models.Entity, ids []int64) ([]int64, error)
}

type pager interface {
	Paginate(ctx context.Context, ent models.Entity, req query.Request) (*query.Result, error)
}

// ImportRow is one rejected import row with its reason.
type ImportRow struct {
	Row    map[string]string `json:"row"`
	Reason string            `json:"reason"`
}

// ImportSummary aggregates the outcome of one import batch.
type ImportSummary struct {
	BatchID string          `json:"batch_id"`
	Created []models.Record `json:"created"`
	Updated []models.Record `json:"updated"`
	Skipped []ImportRow     `json:"skipped"`
}

// Message renders the aggregate counts for the response envelope.
func (s *ImportSummary) Message() string {
	return fmt.Sprintf("Import completed: %d created, %d updated, %d skipped",
		len(s.Created), len(s.Updated), len(s.Skipped))
}

// EntityService implements every business operation for one entity schema.
// Class and Student are instances of this service with different descriptors;
// there is no per-entity control flow.
type EntityService struct {
	entity    models.Entity
	store     recordStore
	pager     pager
	validator *validator.Validate
	logger    *zap.Logger
}

// NewEntityService constructs an EntityService for the given schema.
func NewEntityService(entity models.Entity, store recordStore, pager pager, validate *validator.Validate, logger *zap.Logger) *EntityService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EntityService{entity: entity, store: store, pager: pager, validator: validate, logger: logger}
}

// Entity returns the schema this service operates on.
func (s *EntityService) Entity() models.Entity {
	return s.entity
}

// Get returns a single record by id.
func (s *EntityService) Get(ctx context.Context, id int64) (models.Record, error) {
	rec, err := s.store.FindByID(ctx, s.entity, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("%s not found", s.entity.Name))
		}
		return nil, s.storage(err)
	}
	return rec, nil
}

// GetAll returns every record with the full projection. This is deliberately
// unpaginated; large datasets are the caller's problem.
func (s *EntityService) GetAll(ctx context.Context) ([]models.Record, error) {
	records, err := s.store.All(ctx, s.entity, s.entity.Columns)
	if err != nil {
		return nil, s.storage(err)
	}
	return records, nil
}

// Paginate delegates to the listing engine after applying defaults.
func (s *EntityService) Paginate(ctx context.Context, req query.Request) (*query.Result, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "page and size must be at least 1")
	}
	if len(req.Columns) == 0 {
		req.Columns = s.entity.ListColumns
	}
	return s.pager.Paginate(ctx, s.entity, req)
}

// Create validates and inserts a new record, enforcing code uniqueness.
func (s *EntityService) Create(ctx context.Context, payload models.Record) (models.Record, error) {
	for _, col := range s.entity.Required {
		if _, ok := payload[col]; !ok {
			return nil, appErrors.Clone(appErrors.ErrValidation, "missing required fields")
		}
	}
	fields := s.schemaFields(payload)
	code := toString(fields["code"])
	if code == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "missing required fields")
	}

	exists, err := s.store.ExistsByCode(ctx, s.entity, code, 0)
	if err != nil {
		return nil, s.storage(err)
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrDuplicateCode, fmt.Sprintf("record with code %s already exists", code))
	}

	s.normalizeReferences(fields)

	id, err := s.store.Insert(ctx, s.entity, fields)
	if err != nil {
		return nil, s.storage(err)
	}
	created, err := s.store.FindByID(ctx, s.entity, id)
	if err != nil {
		return nil, s.storage(err)
	}
	return created, nil
}

// Update merges only the supplied fields into an existing record, re-checking
// code uniqueness when the code changes.
func (s *EntityService) Update(ctx context.Context, id int64, payload models.Record) (models.Record, error) {
	current, err := s.store.FindByID(ctx, s.entity, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("record with id %d not found", id))
		}
		return nil, s.storage(err)
	}

	fields := s.schemaFields(payload)
	if raw, ok := fields["code"]; ok {
		newCode := toString(raw)
		if newCode != toString(current["code"]) {
			exists, err := s.store.ExistsByCode(ctx, s.entity, newCode, id)
			if err != nil {
				return nil, s.storage(err)
			}
			if exists {
				return nil, appErrors.Clone(appErrors.ErrDuplicateCode, fmt.Sprintf("record with code %s already exists", newCode))
			}
		}
	}

	s.normalizeReferences(fields)

	if err := s.store.Update(ctx, s.entity, id, fields); err != nil {
		return nil, s.storage(err)
	}
	return models.Record{"id": id}, nil
}

// Delete removes a single record.
func (s *EntityService) Delete(ctx context.Context, id int64) error {
	if _, err := s.store.FindByID(ctx, s.entity, id); err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("record with id %d not found", id))
		}
		return s.storage(err)
	}
	if _, err := s.store.Delete(ctx, s.entity, []int64{id}); err != nil {
		return s.storage(err)
	}
	return nil
}

// MassDelete removes every record in the id list that exists. Partial matches
// succeed for the found subset; only an empty intersection is an error.
func (s *EntityService) MassDelete(ctx context.Context, rawIDs []interface{}) ([]int64, error) {
	ids, err := coerceIDs(rawIDs)
	if err != nil {
		return nil, err
	}
	deleted, err := s.store.Delete(ctx, s.entity, ids)
	if err != nil {
		return nil, s.storage(err)
	}
	if len(deleted) == 0 {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "no records found with the provided ids")
	}
	return deleted, nil
}

// Copy clones a record under a fresh code: "-copy", then "-copy1", "-copy2",
// until the first free suffix.
func (s *EntityService) Copy(ctx context.Context, id int64) (models.Record, error) {
	rec, err := s.store.FindByID(ctx, s.entity, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("record with id %d not found", id))
		}
		return nil, s.storage(err)
	}

	base := toString(rec["code"])
	newCode := base + "-copy"
	for i := 1; ; i++ {
		exists, err := s.store.ExistsByCode(ctx, s.entity, newCode, 0)
		if err != nil {
			return nil, s.storage(err)
		}
		if !exists {
			break
		}
		newCode = fmt.Sprintf("%s-copy%d", base, i)
	}

	fields := make(models.Record, len(s.entity.Columns))
	for _, col := range s.entity.Columns {
		if col == "id" {
			continue
		}
		fields[col] = rec[col]
	}
	fields["code"] = newCode
	if s.entity.CopyLabelField != "" {
		fields[s.entity.CopyLabelField] = toString(rec[s.entity.CopyLabelField]) + " (Copy)"
	}
	for _, col := range s.entity.CopySuffixFields {
		fields[col] = toString(rec[col]) + "-copy"
	}
	s.normalizeReferences(fields)

	newID, err := s.store.Insert(ctx, s.entity, fields)
	if err != nil {
		return nil, s.storage(err)
	}
	created, err := s.store.FindByID(ctx, s.entity, newID)
	if err != nil {
		return nil, s.storage(err)
	}
	return created, nil
}

// ExportAll encodes every record. An empty collection yields an empty payload
// with a sentinel filename instead of an error.
func (s *EntityService) ExportAll(ctx context.Context, format string, columns []string) ([]byte, string, error) {
	enc, err := codec.NewEncoder(format)
	if err != nil {
		return nil, "", err
	}
	if len(columns) == 0 {
		columns = s.entity.ExportColumns
	}
	records, err := s.store.All(ctx, s.entity, nil)
	if err != nil {
		return nil, "", s.storage(err)
	}
	if len(records) == 0 {
		return []byte{}, "empty_export.txt", nil
	}
	payload, ext, err := s.encode(enc, records, columns)
	if err != nil {
		return nil, "", err
	}
	return payload, fmt.Sprintf("%s_export.%s", s.entity.Plural, ext), nil
}

// ExportByID encodes one record; a missing id yields a not-found sentinel
// filename with an empty payload.
func (s *EntityService) ExportByID(ctx context.Context, id int64, format string, columns []string) ([]byte, string, error) {
	enc, err := codec.NewEncoder(format)
	if err != nil {
		return nil, "", err
	}
	if len(columns) == 0 {
		columns = s.entity.ExportColumns
	}
	rec, err := s.store.FindByID(ctx, s.entity, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return []byte{}, fmt.Sprintf("%s_%d_not_found.txt", s.entity.Name, id), nil
		}
		return nil, "", s.storage(err)
	}
	payload, ext, err := s.encode(enc, []models.Record{rec}, columns)
	if err != nil {
		return nil, "", err
	}
	return payload, fmt.Sprintf("%s_%d_export.%s", s.entity.Name, id, ext), nil
}

// MassExport encodes the records selected by id.
func (s *EntityService) MassExport(ctx context.Context, rawIDs []interface{}, format string, columns []string) ([]byte, string, error) {
	enc, err := codec.NewEncoder(format)
	if err != nil {
		return nil, "", err
	}
	if len(columns) == 0 {
		columns = s.entity.ExportColumns
	}
	ids, err := coerceIDs(rawIDs)
	if err != nil {
		return nil, "", err
	}
	records, err := s.store.Browse(ctx, s.entity, ids)
	if err != nil {
		return nil, "", s.storage(err)
	}
	if len(records) == 0 {
		return []byte{}, "empty_export.txt", nil
	}
	payload, ext, err := s.encode(enc, records, columns)
	if err != nil {
		return nil, "", err
	}
	return payload, fmt.Sprintf("%s_selected_export.%s", s.entity.Plural, ext), nil
}

// Import decodes the uploaded file and upserts row by row: an existing code
// updates, a fresh code creates, a missing code skips the row. One bad row
// never aborts the batch.
func (s *EntityService) Import(ctx context.Context, filename string, payload []byte) (*ImportSummary, error) {
	parts := strings.Split(filename, ".")
	ext := strings.ToLower(parts[len(parts)-1])
	dec, err := codec.NewDecoder(ext)
	if err != nil {
		return nil, err
	}
	rows, err := dec.Decode(payload)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "could not parse the file")
	}
	if len(rows) == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "no data found in the file")
	}

	summary := &ImportSummary{
		BatchID: uuid.NewString(),
		Created: []models.Record{},
		Updated: []models.Record{},
		Skipped: []ImportRow{},
	}

	for _, row := range rows {
		code := strings.TrimSpace(row["code"])
		if code == "" {
			summary.Skipped = append(summary.Skipped, ImportRow{Row: row, Reason: "Missing code"})
			continue
		}

		fields := s.rowFields(row)
		fields["code"] = code
		s.normalizeReferences(fields)

		existing, err := s.store.FindByCode(ctx, s.entity, code)
		switch {
		case err == nil:
			if err := s.store.Update(ctx, s.entity, existing.ID(), fields); err != nil {
				summary.Skipped = append(summary.Skipped, ImportRow{Row: row, Reason: err.Error()})
				continue
			}
			summary.Updated = append(summary.Updated, models.Record{"id": existing.ID(), "code": code})
		case err == sql.ErrNoRows:
			id, err := s.store.Insert(ctx, s.entity, fields)
			if err != nil {
				summary.Skipped = append(summary.Skipped, ImportRow{Row: row, Reason: err.Error()})
				continue
			}
			summary.Created = append(summary.Created, models.Record{"id": id, "code": code})
		default:
			summary.Skipped = append(summary.Skipped, ImportRow{Row: row, Reason: err.Error()})
		}
	}

	s.logger.Info("import completed",
		zap.String("entity", s.entity.Name),
		zap.String("batch_id", summary.BatchID),
		zap.Int("created", len(summary.Created)),
		zap.Int("updated", len(summary.Updated)),
		zap.Int("skipped", len(summary.Skipped)),
	)
	return summary, nil
}

func (s *EntityService) encode(enc codec.Encoder, records []models.Record, columns []string) ([]byte, string, error) {
	rows := make([]map[string]string, 0, len(records))
	for _, rec := range records {
		rows = append(rows, rec.Strings(columns))
	}
	payload, ext, err := enc.Encode(rows, columns)
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, err.Error())
	}
	return payload, ext, nil
}

// schemaFields filters a payload down to the schema's writable columns.
func (s *EntityService) schemaFields(payload models.Record) models.Record {
	fields := make(models.Record, len(payload))
	for _, col := range s.entity.Columns {
		if col == "id" {
			continue
		}
		if v, ok := payload[col]; ok {
			fields[col] = v
		}
	}
	return fields
}

// rowFields maps an import row onto schema columns present in that row.
func (s *EntityService) rowFields(row map[string]string) models.Record {
	fields := make(models.Record, len(row))
	for _, col := range s.entity.Columns {
		if col == "id" {
			continue
		}
		if v, ok := row[col]; ok {
			fields[col] = v
		}
	}
	return fields
}

func (s *EntityService) normalizeReferences(fields models.Record) {
	for _, col := range s.entity.ReferenceColumns {
		if v, ok := fields[col]; ok {
			fields[col] = models.NormalizeReference(v)
		}
	}
}

func (s *EntityService) storage(err error) error {
	s.logger.Error("store failure", zap.String("entity", s.entity.Name), zap.Error(err))
	return appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, err.Error())
}

func coerceIDs(raw []interface{}) ([]int64, error) {
	ids := make([]int64, 0, len(raw))
	for _, v := range raw {
		id, err := models.CoerceID(v)
		if err != nil {
			return nil, appErrors.Clone(appErrors.ErrValidation, err.Error())
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func toString(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	default:
		return fmt.Sprint(t)
	}
}
