package handler

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/edu-registry-api/internal/models"
	"github.com/noah-isme/edu-registry-api/internal/query"
	"github.com/noah-isme/edu-registry-api/internal/service"
	appErrors "github.com/noah-isme/edu-registry-api/pkg/errors"
	"github.com/noah-isme/edu-registry-api/pkg/response"
)

// entityService is the service surface the handler consumes.
type entityService interface {
	Entity() models.Entity
	Get(ctx context.Context, id int64) (models.Record, error)
	GetAll(ctx context.Context) ([]models.Record, error)
	Paginate(ctx context.Context, req query.Request) (*query.Result, error)
	Create(ctx context.Context, payload models.Record) (models.Record, error)
	Update(ctx context.Context, id int64, payload models.Record) (models.Record, error)
	Delete(ctx context.Context, id int64) error
	MassDelete(ctx context.Context, rawIDs []interface{}) ([]int64, error)
	Copy(ctx context.Context, id int64) (models.Record, error)
	ExportAll(ctx context.Context, format string, columns []string) ([]byte, string, error)
	ExportByID(ctx context.Context, id int64, format string, columns []string) ([]byte, string, error)
	MassExport(ctx context.Context, rawIDs []interface{}, format string, columns []string) ([]byte, string, error)
	Import(ctx context.Context, filename string, payload []byte) (*service.ImportSummary, error)
}

// idListRequest is the body shared by the bulk endpoints.
type idListRequest struct {
	IDList []interface{} `json:"idlist" binding:"required"`
}

// EntityHandler exposes the REST endpoints of one entity schema. Class and
// Student handlers are two instances of this type.
type EntityHandler struct {
	svc            entityService
	maxImportBytes int64
}

// NewEntityHandler constructs an EntityHandler.
func NewEntityHandler(svc entityService, maxImportBytes int64) *EntityHandler {
	return &EntityHandler{svc: svc, maxImportBytes: maxImportBytes}
}

// Register mounts the entity routes under its plural segment.
func (h *EntityHandler) Register(rg *gin.RouterGroup) {
	g := rg.Group("/" + h.svc.Entity().Plural)
	g.GET("", h.GetAll)
	g.GET("/page/:page", h.Paginate)
	g.GET("/export", h.ExportAll)
	g.GET("/export/:id", h.ExportByID)
	g.GET("/:id", h.Get)
	g.POST("", h.Create)
	g.POST("/import", h.Import)
	g.POST("/export", h.MassExport)
	g.POST("/:id/copy", h.Copy)
	g.PUT("/:id", h.Update)
	g.DELETE("/delete", h.MassDelete)
	g.DELETE("/:id", h.Delete)
}

// Get returns a single record by id.
func (h *EntityHandler) Get(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	rec, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Record retrieved successfully", rec)
}

// GetAll returns the unpaginated full collection.
func (h *EntityHandler) GetAll(c *gin.Context) {
	records, err := h.svc.GetAll(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Records retrieved successfully", records)
}

// Paginate returns one page with search, ordering and pinned-record
// injection. Query parameters: size, order, search, columnlist, toplist.
func (h *EntityHandler) Paginate(c *gin.Context) {
	page, err := strconv.Atoi(c.Param("page"))
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "page must be an integer"))
		return
	}
	size, err := strconv.Atoi(c.DefaultQuery("size", "10"))
	if err != nil || size < 1 {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "size must be at least 1"))
		return
	}

	req := query.Request{
		Page:    page,
		Size:    size,
		Search:  strings.TrimSpace(c.Query("search")),
		Order:   c.Query("order"),
		Columns: splitList(c.Query("columnlist")),
	}
	for _, raw := range splitList(c.Query("toplist")) {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "toplist must contain integer ids"))
			return
		}
		req.PinnedIDs = append(req.PinnedIDs, id)
	}

	result, err := h.svc.Paginate(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Records retrieved successfully", result)
}

// Create inserts a new record from a JSON field-map.
func (h *EntityHandler) Create(c *gin.Context) {
	var payload models.Record
	if err := c.ShouldBindJSON(&payload); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid JSON in request body"))
		return
	}
	rec, err := h.svc.Create(c.Request.Context(), payload)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Record created successfully", rec)
}

// Update merges the supplied fields into an existing record.
func (h *EntityHandler) Update(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	var payload models.Record
	if err := c.ShouldBindJSON(&payload); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid JSON in request body"))
		return
	}
	rec, err := h.svc.Update(c.Request.Context(), id, payload)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Record updated successfully", rec)
}

// Delete removes one record.
func (h *EntityHandler) Delete(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Record deleted successfully", models.Record{"id": id})
}

// MassDelete removes every existing record in the posted id list.
func (h *EntityHandler) MassDelete(c *gin.Context) {
	var req idListRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "idlist must be an array"))
		return
	}
	deleted, err := h.svc.MassDelete(c.Request.Context(), req.IDList)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, fmt.Sprintf("Successfully deleted %d records", len(deleted)), models.Record{"ids": deleted})
}

// Copy clones a record under a fresh code.
func (h *EntityHandler) Copy(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	rec, err := h.svc.Copy(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Record copied successfully", rec)
}

// ExportAll streams the whole collection in the requested format.
func (h *EntityHandler) ExportAll(c *gin.Context) {
	payload, filename, err := h.svc.ExportAll(c.Request.Context(), exportType(c), splitList(c.Query("columnlist")))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.File(c, filename, payload)
}

// ExportByID streams a single record in the requested format.
func (h *EntityHandler) ExportByID(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	payload, filename, err := h.svc.ExportByID(c.Request.Context(), id, exportType(c), splitList(c.Query("columnlist")))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.File(c, filename, payload)
}

// MassExport streams the selected records in the requested format.
func (h *EntityHandler) MassExport(c *gin.Context) {
	var req idListRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "idlist must be an array"))
		return
	}
	payload, filename, err := h.svc.MassExport(c.Request.Context(), req.IDList, exportType(c), splitList(c.Query("columnlist")))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.File(c, filename, payload)
}

// Import upserts records from an uploaded CSV or XLSX file.
func (h *EntityHandler) Import(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "missing file attachment"))
		return
	}
	if h.maxImportBytes > 0 && fileHeader.Size > h.maxImportBytes {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "file exceeds the maximum import size"))
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "could not read file attachment"))
		return
	}
	defer file.Close()
	payload, err := io.ReadAll(file)
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "could not read file attachment"))
		return
	}

	summary, err := h.svc.Import(c.Request.Context(), fileHeader.Filename, payload)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, summary.Message(), summary)
}

func (h *EntityHandler) pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "id must be an integer"))
		return 0, false
	}
	return id, true
}

func exportType(c *gin.Context) string {
	return strings.ToLower(c.DefaultQuery("type", "csv"))
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
