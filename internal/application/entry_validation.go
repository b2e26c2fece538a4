package application

import (
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/oksasatya/go-ddd-finance/internal/domain/entity"
)

// Column limits of entries.description VARCHAR(100) and entries.amount NUMERIC(16, 2).
const (
	maxDescriptionLen = 100
	amountScale       = 2
)

var maxAmount = decimal.New(1, 14)

// ValidateEntry checks the entry fields in a fixed order and returns the
// first violation found as a *BusinessRuleError.
func ValidateEntry(e *entity.Entry) error {
	switch {
	case e == nil || strings.TrimSpace(e.Description) == "" || utf8.RuneCountInString(e.Description) > maxDescriptionLen:
		return ruleError(ViolationDescription)
	case e.Month < 1 || e.Month > 12:
		return ruleError(ViolationMonth)
	case e.Year < 1000 || e.Year > 9999:
		return ruleError(ViolationYear)
	case !e.User.Persisted():
		return ruleError(ViolationUser)
	case !validAmount(e.Amount):
		return ruleError(ViolationAmount)
	case !e.Type.Valid():
		return ruleError(ViolationType)
	case e.Status != "" && !e.Status.Valid():
		return ruleError(ViolationStatus)
	}
	return nil
}

// validAmount accepts positive amounts that the store keeps without rounding.
func validAmount(a decimal.Decimal) bool {
	return a.IsPositive() && a.LessThan(maxAmount) && a.Equal(a.Round(amountScale))
}
