package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

type EntryType string

const (
	EntryTypeIncome  EntryType = "INCOME"
	EntryTypeExpense EntryType = "EXPENSE"
)

func (t EntryType) Valid() bool {
	return t == EntryTypeIncome || t == EntryTypeExpense
}

type EntryStatus string

const (
	EntryStatusPending   EntryStatus = "PENDING"
	EntryStatusSettled   EntryStatus = "SETTLED"
	EntryStatusCancelled EntryStatus = "CANCELLED"
)

func (s EntryStatus) Valid() bool {
	switch s {
	case EntryStatusPending, EntryStatusSettled, EntryStatusCancelled:
		return true
	}
	return false
}

// Entry is a single income or expense record tied to one user.
// Zero-valued fields stand for "not informed"; ID is zero until persisted.
type Entry struct {
	ID           int64           `json:"id"`
	Description  string          `json:"description"`
	Month        int             `json:"month"`
	Year         int             `json:"year"`
	User         *User           `json:"user,omitempty"`
	Amount       decimal.Decimal `json:"amount"`
	RegisteredAt time.Time       `json:"registration_date"`
	Type         EntryType       `json:"type"`
	Status       EntryStatus     `json:"status"`
}

// NewEntry builds an unpersisted entry owned by userID.
func NewEntry(description string, month, year int, userID int64, amount decimal.Decimal, typ EntryType) *Entry {
	return &Entry{
		Description: description,
		Month:       month,
		Year:        year,
		User:        &User{ID: userID},
		Amount:      amount,
		Type:        typ,
	}
}

func (e *Entry) Persisted() bool {
	return e != nil && e.ID != 0
}

// UserID returns the owning user's id, or zero when no user is set.
func (e *Entry) UserID() int64 {
	if e == nil || e.User == nil {
		return 0
	}
	return e.User.ID
}
