package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-ddd-finance/internal/domain/entity"
	repo "github.com/oksasatya/go-ddd-finance/internal/domain/repository"
)

func newEntryService(r *mockEntryRepo, idx EntryIndexer) *EntryService {
	s := NewEntryService(r, idx, nil)
	s.Now = func() time.Time { return time.Date(2020, 5, 17, 13, 45, 0, 0, time.UTC) }
	return s
}

func TestEntryService_CreateDefaultsToPendingAndAssignsID(t *testing.T) {
	r := &mockEntryRepo{}
	idx := &recordingIndexer{}
	ctx := context.Background()
	e := sampleEntry()
	e.Status = entity.EntryStatusSettled

	r.On("Create", ctx, e).Run(func(args mock.Arguments) {
		args.Get(1).(*entity.Entry).ID = 1
	}).Return(nil).Once()

	saved, err := newEntryService(r, idx).Create(ctx, e)

	require.NoError(t, err)
	assert.Equal(t, int64(1), saved.ID)
	assert.Equal(t, entity.EntryStatusPending, saved.Status)
	assert.Equal(t, time.Date(2020, 5, 17, 0, 0, 0, 0, time.UTC), saved.RegisteredAt)
	assert.Equal(t, []int64{1}, idx.indexed)
	r.AssertExpectations(t)
}

func TestEntryService_CreateDoesNotPersistInvalidEntry(t *testing.T) {
	r := &mockEntryRepo{}
	e := sampleEntry()
	e.Description = ""

	_, err := newEntryService(r, nil).Create(context.Background(), e)

	requireViolation(t, err, ViolationDescription)
	r.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestEntryService_Update(t *testing.T) {
	r := &mockEntryRepo{}
	ctx := context.Background()
	e := sampleEntry()
	e.ID = 1
	r.On("Update", ctx, e).Return(nil).Once()

	got, err := newEntryService(r, nil).Update(ctx, e)

	require.NoError(t, err)
	assert.Same(t, e, got)
	r.AssertNumberOfCalls(t, "Update", 1)
}

func TestEntryService_UpdateMissingRowIsNotFound(t *testing.T) {
	r := &mockEntryRepo{}
	e := sampleEntry()
	e.ID = 42
	r.On("Update", mock.Anything, e).Return(repo.ErrNotFound)

	_, err := newEntryService(r, nil).Update(context.Background(), e)

	assert.ErrorIs(t, err, ErrEntryNotFound)
}

func TestEntryService_UpdateUnpersistedPanics(t *testing.T) {
	r := &mockEntryRepo{}
	s := newEntryService(r, nil)

	assert.PanicsWithValue(t, errEntryNotPersisted, func() {
		_, _ = s.Update(context.Background(), sampleEntry())
	})
	r.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestEntryService_Delete(t *testing.T) {
	r := &mockEntryRepo{}
	idx := &recordingIndexer{}
	e := sampleEntry()
	e.ID = 1
	r.On("Delete", mock.Anything, int64(1)).Return(nil).Once()

	err := newEntryService(r, idx).Delete(context.Background(), e)

	require.NoError(t, err)
	assert.Zero(t, e.ID)
	assert.Equal(t, []int64{1}, idx.removed)
	r.AssertExpectations(t)
}

func TestEntryService_DeleteUnpersistedPanics(t *testing.T) {
	r := &mockEntryRepo{}
	s := newEntryService(r, nil)

	assert.Panics(t, func() { _ = s.Delete(context.Background(), sampleEntry()) })
	r.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestEntryService_FindMatchingUsesTemplateFields(t *testing.T) {
	r := &mockEntryRepo{}
	e := sampleEntry()
	e.ID = 1
	want := repo.FilterFromTemplate(e)
	r.On("Find", mock.Anything, want).Return([]entity.Entry{*e}, nil).Once()

	got, err := newEntryService(r, nil).FindMatching(context.Background(), e)

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, *e, got[0])
}

func TestEntryService_UpdateStatusCallsUpdateOnce(t *testing.T) {
	r := &mockEntryRepo{}
	e := sampleEntry()
	e.ID = 1
	r.On("Update", mock.Anything, e).Return(nil)

	got, err := newEntryService(r, nil).UpdateStatus(context.Background(), e, entity.EntryStatusSettled)

	require.NoError(t, err)
	assert.Equal(t, entity.EntryStatusSettled, e.Status)
	assert.Equal(t, entity.EntryStatusSettled, got.Status)
	r.AssertNumberOfCalls(t, "Update", 1)
}

func TestEntryService_FindByID(t *testing.T) {
	r := &mockEntryRepo{}
	e := sampleEntry()
	e.ID = 1
	r.On("GetByID", mock.Anything, int64(1)).Return(e, nil)
	r.On("GetByID", mock.Anything, int64(2)).Return(nil, repo.ErrNotFound)
	s := newEntryService(r, nil)

	got, ok, err := s.FindByID(context.Background(), 1)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Same(t, e, got)

	got, ok, err = s.FindByID(context.Background(), 2)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, got)
}

func TestEntryService_ComputeUserBalance(t *testing.T) {
	r := &mockEntryRepo{}
	r.On("SumAmount", mock.Anything, int64(1), entity.EntryTypeIncome, entity.EntryStatusSettled).Return(decimal.NewFromInt(100), nil)
	r.On("SumAmount", mock.Anything, int64(1), entity.EntryTypeExpense, entity.EntryStatusSettled).Return(decimal.NewFromInt(50), nil)

	balance, err := newEntryService(r, nil).ComputeUserBalance(context.Background(), 1)

	require.NoError(t, err)
	assert.True(t, balance.Equal(decimal.NewFromInt(50)), "got %s", balance)
	r.AssertNotCalled(t, "SumAmount", mock.Anything, mock.Anything, mock.Anything, entity.EntryStatusPending)
}

func TestEntryService_ComputeUserBalanceWithoutEntriesIsZero(t *testing.T) {
	r := &mockEntryRepo{}
	r.On("SumAmount", mock.Anything, int64(3), mock.Anything, entity.EntryStatusSettled).Return(decimal.Zero, nil)

	balance, err := newEntryService(r, nil).ComputeUserBalance(context.Background(), 3)

	require.NoError(t, err)
	assert.True(t, balance.IsZero())
}

func TestEntryService_ComputeUserBalancePropagatesStoreError(t *testing.T) {
	r := &mockEntryRepo{}
	boom := errors.New("boom")
	r.On("SumAmount", mock.Anything, int64(1), entity.EntryTypeIncome, entity.EntryStatusSettled).Return(decimal.Zero, boom)

	_, err := newEntryService(r, nil).ComputeUserBalance(context.Background(), 1)

	assert.ErrorIs(t, err, boom)
}

func TestEntryService_SearchWithoutIndexIsEmpty(t *testing.T) {
	hits, err := newEntryService(&mockEntryRepo{}, nil).Search(context.Background(), 1, "rent", 5)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestEntryService_SearchDelegatesToIndex(t *testing.T) {
	idx := &recordingIndexer{hits: []EntrySearchHit{{ID: 3, Description: "Rent"}}}
	hits, err := newEntryService(&mockEntryRepo{}, idx).Search(context.Background(), 1, "rent", 0)
	require.NoError(t, err)
	assert.Equal(t, idx.hits, hits)
}
