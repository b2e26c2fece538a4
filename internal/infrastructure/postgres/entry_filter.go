package postgres

import (
	"strconv"
	"strings"

	"github.com/oksasatya/go-ddd-finance/internal/domain/repository"
)

// buildEntryWhere renders f as a WHERE clause with positional args.
// An empty filter yields an empty clause.
func buildEntryWhere(f repository.EntryFilter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	add := func(column string, v any) {
		args = append(args, v)
		conds = append(conds, column+" = $"+strconv.Itoa(len(args)))
	}

	if f.ID != nil {
		add("id", *f.ID)
	}
	if f.Description != nil {
		add("description", *f.Description)
	}
	if f.Month != nil {
		add("month", *f.Month)
	}
	if f.Year != nil {
		add("year", *f.Year)
	}
	if f.UserID != nil {
		add("user_id", *f.UserID)
	}
	if f.Amount != nil {
		add("amount", f.Amount.String())
	}
	if f.RegisteredAt != nil {
		add("registration_date", f.RegisteredAt.Format("2006-01-02"))
	}
	if f.Type != nil {
		add("type", string(*f.Type))
	}
	if f.Status != nil {
		add("status", string(*f.Status))
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}
