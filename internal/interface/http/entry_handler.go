package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-finance/internal/application"
	"github.com/oksasatya/go-ddd-finance/internal/domain/entity"
	"github.com/oksasatya/go-ddd-finance/pkg/response"
	"github.com/oksasatya/go-ddd-finance/pkg/validation"
)

const msgInvalidStatusUpdate = "Não foi possível atualizar o status do lançamento, envie um status válido."

type EntryService interface {
	Create(ctx context.Context, e *entity.Entry) (*entity.Entry, error)
	Update(ctx context.Context, e *entity.Entry) (*entity.Entry, error)
	Delete(ctx context.Context, e *entity.Entry) error
	FindMatching(ctx context.Context, template *entity.Entry) ([]entity.Entry, error)
	UpdateStatus(ctx context.Context, e *entity.Entry, status entity.EntryStatus) (*entity.Entry, error)
	FindByID(ctx context.Context, id int64) (*entity.Entry, bool, error)
	Search(ctx context.Context, userID int64, q string, size int) ([]application.EntrySearchHit, error)
}

type StatementExporter interface {
	Export(ctx context.Context, userID int64, year int) (string, error)
}

type EntryHandler struct {
	Svc        EntryService
	Statements StatementExporter
	Logger     *logrus.Logger
}

func NewEntryHandler(svc EntryService, statements StatementExporter, logger *logrus.Logger) *EntryHandler {
	return &EntryHandler{Svc: svc, Statements: statements, Logger: logger}
}

// Field checks live in the entry service so that its messages reach the client.
type entryRequest struct {
	Description      string          `json:"description"`
	Month            int             `json:"month"`
	Year             int             `json:"year"`
	Amount           decimal.Decimal `json:"amount"`
	Type             string          `json:"type"`
	Status           string          `json:"status"`
	RegistrationDate string          `json:"registration_date"`
}

func (r entryRequest) toEntry(userID int64) (*entity.Entry, error) {
	e := &entity.Entry{
		Description: r.Description,
		Month:       r.Month,
		Year:        r.Year,
		User:        &entity.User{ID: userID},
		Amount:      r.Amount,
		Type:        entity.EntryType(r.Type),
		Status:      entity.EntryStatus(r.Status),
	}
	if r.RegistrationDate != "" {
		d, err := time.Parse("2006-01-02", r.RegistrationDate)
		if err != nil {
			return nil, err
		}
		e.RegisteredAt = d
	}
	return e, nil
}

type statusRequest struct {
	Status string `json:"status" binding:"required"`
}

type listQuery struct {
	Description string `form:"description"`
	Month       int    `form:"month" binding:"omitempty,min=1,max=12"`
	Year        int    `form:"year"`
	Type        string `form:"type" binding:"omitempty,entrytype"`
	Status      string `form:"status" binding:"omitempty,entrystatus"`
}

// Create POST /api/entries
func (h *EntryHandler) Create(c *gin.Context) {
	uid, _ := authUserID(c)
	var req entryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	e, err := req.toEntry(uid)
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", map[string]string{"registration_date": "must be YYYY-MM-DD"})
		return
	}
	saved, err := h.Svc.Create(c.Request.Context(), e)
	if err != nil {
		writeServiceError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, saved, "entry created", nil)
}

// Get GET /api/entries/:id
func (h *EntryHandler) Get(c *gin.Context) {
	e, ok := h.loadOwned(c)
	if !ok {
		return
	}
	response.Success(c, http.StatusOK, e, "entry", nil)
}

// Update PUT /api/entries/:id
func (h *EntryHandler) Update(c *gin.Context) {
	current, ok := h.loadOwned(c)
	if !ok {
		return
	}
	var req entryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	e, err := req.toEntry(current.UserID())
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", map[string]string{"registration_date": "must be YYYY-MM-DD"})
		return
	}
	e.ID = current.ID
	if e.Status == "" {
		e.Status = current.Status
	}
	if e.RegisteredAt.IsZero() {
		e.RegisteredAt = current.RegisteredAt
	}
	updated, err := h.Svc.Update(c.Request.Context(), e)
	if err != nil {
		writeServiceError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, updated, "entry updated", nil)
}

// UpdateStatus PUT /api/entries/:id/status
func (h *EntryHandler) UpdateStatus(c *gin.Context) {
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, msgInvalidStatusUpdate, validation.ToDetails(err))
		return
	}
	status := entity.EntryStatus(req.Status)
	if !status.Valid() {
		response.Error[any](c, http.StatusBadRequest, msgInvalidStatusUpdate, nil)
		return
	}
	current, ok := h.loadOwned(c)
	if !ok {
		return
	}
	updated, err := h.Svc.UpdateStatus(c.Request.Context(), current, status)
	if err != nil {
		writeServiceError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, updated, "status updated", nil)
}

// Delete DELETE /api/entries/:id
func (h *EntryHandler) Delete(c *gin.Context) {
	current, ok := h.loadOwned(c)
	if !ok {
		return
	}
	if err := h.Svc.Delete(c.Request.Context(), current); err != nil {
		writeServiceError(c, h.Logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// List GET /api/entries
func (h *EntryHandler) List(c *gin.Context) {
	uid, _ := authUserID(c)
	var q listQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid query", validation.ToDetails(err))
		return
	}
	template := &entity.Entry{
		Description: q.Description,
		Month:       q.Month,
		Year:        q.Year,
		User:        &entity.User{ID: uid},
		Type:        entity.EntryType(q.Type),
		Status:      entity.EntryStatus(q.Status),
	}
	entries, err := h.Svc.FindMatching(c.Request.Context(), template)
	if err != nil {
		writeServiceError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, entries, "entries", map[string]any{"count": len(entries)})
}

// Search GET /api/entries/search?q=
func (h *EntryHandler) Search(c *gin.Context) {
	uid, _ := authUserID(c)
	q := c.Query("q")
	if q == "" {
		response.Error[any](c, http.StatusBadRequest, "missing query", map[string]string{"q": "is required"})
		return
	}
	size, _ := strconv.Atoi(c.DefaultQuery("size", "10"))
	hits, err := h.Svc.Search(c.Request.Context(), uid, q, size)
	if err != nil {
		writeServiceError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, hits, "search results", nil)
}

// ExportStatement POST /api/entries/statements?year=
func (h *EntryHandler) ExportStatement(c *gin.Context) {
	uid, _ := authUserID(c)
	year, err := strconv.Atoi(c.Query("year"))
	if err != nil || year < 1000 || year > 9999 {
		response.Error[any](c, http.StatusBadRequest, "Informe um Ano válido.", nil)
		return
	}
	url, err := h.Statements.Export(c.Request.Context(), uid, year)
	if err != nil {
		writeServiceError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"url": url}, "statement exported", nil)
}

// loadOwned resolves :id to an entry of the caller, writing 400/404 otherwise.
func (h *EntryHandler) loadOwned(c *gin.Context) (*entity.Entry, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error[any](c, http.StatusBadRequest, "invalid entry id", nil)
		return nil, false
	}
	e, found, err := h.Svc.FindByID(c.Request.Context(), id)
	if err != nil {
		writeServiceError(c, h.Logger, err)
		return nil, false
	}
	uid, _ := authUserID(c)
	if !found || e.UserID() != uid {
		writeServiceError(c, h.Logger, application.ErrEntryNotFound)
		return nil, false
	}
	return e, true
}
