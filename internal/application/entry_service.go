package application

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-finance/internal/domain/entity"
	repo "github.com/oksasatya/go-ddd-finance/internal/domain/repository"
)

// EntrySearchHit is one full-text match over entry descriptions.
type EntrySearchHit struct {
	ID          int64   `json:"id"`
	Description string  `json:"description"`
	Month       int     `json:"month"`
	Year        int     `json:"year"`
	Amount      string  `json:"amount"`
	Type        string  `json:"type"`
	Status      string  `json:"status"`
	Score       float64 `json:"score"`
}

// EntryIndexer keeps a searchable copy of entries.
type EntryIndexer interface {
	Index(ctx context.Context, e *entity.Entry) error
	Remove(ctx context.Context, id int64) error
	Search(ctx context.Context, userID int64, q string, size int) ([]EntrySearchHit, error)
}

type EntryService struct {
	Repo    repo.EntryRepository
	Indexer EntryIndexer
	Logger  *logrus.Logger
	Now     func() time.Time
}

func NewEntryService(repo repo.EntryRepository, indexer EntryIndexer, logger *logrus.Logger) *EntryService {
	return &EntryService{Repo: repo, Indexer: indexer, Logger: logger, Now: time.Now}
}

// Create validates e, defaults it to PENDING and persists it.
func (s *EntryService) Create(ctx context.Context, e *entity.Entry) (*entity.Entry, error) {
	if err := ValidateEntry(e); err != nil {
		return nil, err
	}
	e.Status = entity.EntryStatusPending
	if e.RegisteredAt.IsZero() {
		now := s.Now()
		e.RegisteredAt = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	}
	if err := s.Repo.Create(ctx, e); err != nil {
		return nil, err
	}
	s.index(ctx, e)
	return e, nil
}

// Update re-validates and stores e. Calling it on an entry without an id is a
// programming error and panics.
func (s *EntryService) Update(ctx context.Context, e *entity.Entry) (*entity.Entry, error) {
	mustBePersisted(e)
	if err := ValidateEntry(e); err != nil {
		return nil, err
	}
	if err := s.Repo.Update(ctx, e); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrEntryNotFound
		}
		return nil, err
	}
	s.index(ctx, e)
	return e, nil
}

// Delete removes e and clears its id. Same precondition as Update.
func (s *EntryService) Delete(ctx context.Context, e *entity.Entry) error {
	mustBePersisted(e)
	if err := s.Repo.Delete(ctx, e.ID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrEntryNotFound
		}
		return err
	}
	if s.Indexer != nil {
		if err := s.Indexer.Remove(ctx, e.ID); err != nil && s.Logger != nil {
			s.Logger.WithError(err).WithField("entry_id", e.ID).Warn("entry index remove failed")
		}
	}
	e.ID = 0
	return nil
}

// FindMatching returns the entries equal to template on every informed field.
func (s *EntryService) FindMatching(ctx context.Context, template *entity.Entry) ([]entity.Entry, error) {
	return s.Repo.Find(ctx, repo.FilterFromTemplate(template))
}

// UpdateStatus sets the status and stores the entry through Update.
func (s *EntryService) UpdateStatus(ctx context.Context, e *entity.Entry, status entity.EntryStatus) (*entity.Entry, error) {
	e.Status = status
	return s.Update(ctx, e)
}

// FindByID reports false when no entry has the id.
func (s *EntryService) FindByID(ctx context.Context, id int64) (*entity.Entry, bool, error) {
	e, err := s.Repo.GetByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return e, e != nil, nil
}

// ComputeUserBalance is settled income minus settled expense.
func (s *EntryService) ComputeUserBalance(ctx context.Context, userID int64) (decimal.Decimal, error) {
	income, err := s.Repo.SumAmount(ctx, userID, entity.EntryTypeIncome, entity.EntryStatusSettled)
	if err != nil {
		return decimal.Zero, err
	}
	expense, err := s.Repo.SumAmount(ctx, userID, entity.EntryTypeExpense, entity.EntryStatusSettled)
	if err != nil {
		return decimal.Zero, err
	}
	return income.Sub(expense), nil
}

// Search queries the entry index; without one it finds nothing.
func (s *EntryService) Search(ctx context.Context, userID int64, q string, size int) ([]EntrySearchHit, error) {
	if s.Indexer == nil {
		return []EntrySearchHit{}, nil
	}
	if size <= 0 || size > 50 {
		size = 10
	}
	return s.Indexer.Search(ctx, userID, q, size)
}

func (s *EntryService) index(ctx context.Context, e *entity.Entry) {
	if s.Indexer == nil {
		return
	}
	if err := s.Indexer.Index(ctx, e); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("entry_id", e.ID).Warn("entry index failed")
	}
}

func mustBePersisted(e *entity.Entry) {
	if !e.Persisted() {
		panic(errEntryNotPersisted)
	}
}
