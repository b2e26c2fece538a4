package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/oksasatya/go-ddd-finance/internal/domain/entity"
)

// EntryRepository defines the entry store operations.
type EntryRepository interface {
	Create(ctx context.Context, e *entity.Entry) error
	Update(ctx context.Context, e *entity.Entry) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*entity.Entry, error)
	Find(ctx context.Context, f EntryFilter) ([]entity.Entry, error)
	// SumAmount totals the amounts of a user's entries with the given type and status.
	// It returns zero when nothing matches.
	SumAmount(ctx context.Context, userID int64, typ entity.EntryType, status entity.EntryStatus) (decimal.Decimal, error)
}

// EntryFilter is an exact-match predicate over entry columns.
// Nil fields match anything.
type EntryFilter struct {
	ID           *int64
	Description  *string
	Month        *int
	Year         *int
	UserID       *int64
	Amount       *decimal.Decimal
	RegisteredAt *time.Time
	Type         *entity.EntryType
	Status       *entity.EntryStatus
}

// FilterFromTemplate turns the informed fields of template into a filter.
func FilterFromTemplate(template *entity.Entry) EntryFilter {
	var f EntryFilter
	if template == nil {
		return f
	}
	if template.ID != 0 {
		f.ID = &template.ID
	}
	if template.Description != "" {
		f.Description = &template.Description
	}
	if template.Month != 0 {
		f.Month = &template.Month
	}
	if template.Year != 0 {
		f.Year = &template.Year
	}
	if uid := template.UserID(); uid != 0 {
		f.UserID = &uid
	}
	if !template.Amount.IsZero() {
		f.Amount = &template.Amount
	}
	if !template.RegisteredAt.IsZero() {
		f.RegisteredAt = &template.RegisteredAt
	}
	if template.Type != "" {
		f.Type = &template.Type
	}
	if template.Status != "" {
		f.Status = &template.Status
	}
	return f
}

// Empty reports whether the filter matches every entry.
func (f EntryFilter) Empty() bool {
	return f == EntryFilter{}
}
