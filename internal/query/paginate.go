// Package query implements the paginated listing engine shared by every
// entity: compact order specs, contains-search, page-bounds validation, and
// pinned-record injection ahead of the page body.
package query

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/edu-registry-api/internal/models"
	appErrors "github.com/noah-isme/edu-registry-api/pkg/errors"
)

// Store is the slice of the record store the engine needs.
type Store interface {
	Search(ctx context.Context, e models.Entity, search string, order []models.OrderTerm, limit, offset int) ([]models.Record, error)
	Count(ctx context.Context, e models.Entity, search string) (int, error)
	Browse(ctx context.Context, e models.Entity, ids []int64) ([]models.Record, error)
}

// Request carries one paginated listing call.
type Request struct {
	Page      int    `validate:"min=1"`
	Size      int    `validate:"min=1"`
	Search    string
	Order     string
	Columns   []string
	PinnedIDs []int64
}

// PageInfo summarises the page window.
type PageInfo struct {
	TotalItems int `json:"total_items"`
	TotalPages int `json:"total_pages"`
	Current    int `json:"current"`
	Size       int `json:"size"`
}

// Result is one page of projected records, pinned rows first.
type Result struct {
	PageInfo PageInfo        `json:"page_info"`
	Records  []models.Record `json:"records"`
}

// Engine executes paginated listings against a record store.
type Engine struct {
	store  Store
	logger *zap.Logger
}

// NewEngine constructs an Engine.
func NewEngine(store Store, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{store: store, logger: logger}
}

// ParseOrder parses a compact order spec: `field:direction` pairs joined by
// "-", optionally wrapped in brackets. Direction "1" sorts descending, any
// other value ascending. A malformed pair or a field outside the entity
// schema rejects the whole spec; nothing is partially applied. An empty spec
// yields the default ascending-by-id order.
func ParseOrder(raw string, e models.Entity) ([]models.OrderTerm, error) {
	raw = strings.Trim(strings.TrimSpace(raw), "[]")
	if raw == "" {
		return nil, nil
	}
	items := strings.Split(raw, "-")
	terms := make([]models.OrderTerm, 0, len(items))
	for _, item := range items {
		parts := strings.Split(item, ":")
		if len(parts) != 2 {
			return nil, appErrors.Clone(appErrors.ErrInvalidOrder, fmt.Sprintf("invalid order format: %s", item))
		}
		field := strings.TrimSpace(parts[0])
		if !e.HasColumn(field) {
			return nil, appErrors.Clone(appErrors.ErrInvalidOrder, fmt.Sprintf("unknown order field: %s", field))
		}
		terms = append(terms, models.OrderTerm{Column: field, Desc: parts[1] == "1"})
	}
	return terms, nil
}

// Paginate computes the page described by req. Pinned records are injected
// ahead of the page body in pinned order and deduplicated against it, so the
// effective page size can exceed req.Size; that is the contract, not a bug.
func (e *Engine) Paginate(ctx context.Context, ent models.Entity, req Request) (*Result, error) {
	order, err := ParseOrder(req.Order, ent)
	if err != nil {
		return nil, err
	}

	search := strings.TrimSpace(req.Search)

	total, err := e.store.Count(ctx, ent, search)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, err.Error())
	}
	totalPages := (total + req.Size - 1) / req.Size

	if total > 0 && req.Page > totalPages {
		return nil, appErrors.Clone(appErrors.ErrPageOutOfRange,
			fmt.Sprintf("page number %d exceeds total pages %d", req.Page, totalPages))
	}

	offset := (req.Page - 1) * req.Size
	records, err := e.store.Search(ctx, ent, search, order, req.Size, offset)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, err.Error())
	}

	var pinned []models.Record
	if len(req.PinnedIDs) > 0 {
		pinned, err = e.store.Browse(ctx, ent, req.PinnedIDs)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, err.Error())
		}
	}

	columns := req.Columns
	if len(columns) == 0 {
		columns = ent.ListColumns
	}

	seen := make(map[int64]struct{}, len(pinned))
	merged := make([]models.Record, 0, len(pinned)+len(records))
	for _, rec := range pinned {
		seen[rec.ID()] = struct{}{}
		merged = append(merged, rec.Project(columns))
	}
	for _, rec := range records {
		if _, ok := seen[rec.ID()]; ok {
			continue
		}
		merged = append(merged, rec.Project(columns))
	}

	e.logger.Debug("paginate",
		zap.String("entity", ent.Name),
		zap.Int("page", req.Page),
		zap.Int("total_items", total),
		zap.Int("pinned", len(pinned)),
	)

	return &Result{
		PageInfo: PageInfo{TotalItems: total, TotalPages: totalPages, Current: req.Page, Size: req.Size},
		Records:  merged,
	}, nil
}
