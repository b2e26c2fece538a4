package application

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/oksasatya/go-ddd-finance/internal/domain/entity"
	repo "github.com/oksasatya/go-ddd-finance/internal/domain/repository"
)

type mockUserRepo struct {
	mock.Mock
}

func (m *mockUserRepo) Create(ctx context.Context, u *entity.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *mockUserRepo) GetByID(ctx context.Context, id int64) (*entity.User, error) {
	args := m.Called(ctx, id)
	u, _ := args.Get(0).(*entity.User)
	return u, args.Error(1)
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	args := m.Called(ctx, email)
	u, _ := args.Get(0).(*entity.User)
	return u, args.Error(1)
}

func (m *mockUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

type mockEntryRepo struct {
	mock.Mock
}

func (m *mockEntryRepo) Create(ctx context.Context, e *entity.Entry) error {
	return m.Called(ctx, e).Error(0)
}

func (m *mockEntryRepo) Update(ctx context.Context, e *entity.Entry) error {
	return m.Called(ctx, e).Error(0)
}

func (m *mockEntryRepo) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockEntryRepo) GetByID(ctx context.Context, id int64) (*entity.Entry, error) {
	args := m.Called(ctx, id)
	e, _ := args.Get(0).(*entity.Entry)
	return e, args.Error(1)
}

func (m *mockEntryRepo) Find(ctx context.Context, f repo.EntryFilter) ([]entity.Entry, error) {
	args := m.Called(ctx, f)
	out, _ := args.Get(0).([]entity.Entry)
	return out, args.Error(1)
}

func (m *mockEntryRepo) SumAmount(ctx context.Context, userID int64, typ entity.EntryType, status entity.EntryStatus) (decimal.Decimal, error) {
	args := m.Called(ctx, userID, typ, status)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

type recordingPublisher struct {
	jobs []any
	err  error
}

func (p *recordingPublisher) PublishJSON(_ context.Context, body any) error {
	p.jobs = append(p.jobs, body)
	return p.err
}

type recordingIndexer struct {
	indexed []int64
	removed []int64
	hits    []EntrySearchHit
}

func (i *recordingIndexer) Index(_ context.Context, e *entity.Entry) error {
	i.indexed = append(i.indexed, e.ID)
	return nil
}

func (i *recordingIndexer) Remove(_ context.Context, id int64) error {
	i.removed = append(i.removed, id)
	return nil
}

func (i *recordingIndexer) Search(_ context.Context, _ int64, _ string, _ int) ([]EntrySearchHit, error) {
	return i.hits, nil
}

// sampleEntry is a valid, unpersisted entry.
func sampleEntry() *entity.Entry {
	return &entity.Entry{
		Description: "Lançamento qualquer",
		Month:       1,
		Year:        2019,
		User:        &entity.User{ID: 1},
		Amount:      decimal.NewFromInt(10),
		Type:        entity.EntryTypeIncome,
		Status:      entity.EntryStatusPending,
	}
}
