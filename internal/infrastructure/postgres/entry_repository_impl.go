package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/oksasatya/go-ddd-finance/internal/domain/entity"
	"github.com/oksasatya/go-ddd-finance/internal/domain/repository"
)

const entryColumns = `id, description, month, year, user_id, amount, registration_date, type, status`

type EntryRepository struct {
	pool *pgxpool.Pool
}

func NewEntryRepository(pool *pgxpool.Pool) *EntryRepository {
	return &EntryRepository{pool: pool}
}

func (r *EntryRepository) Create(ctx context.Context, e *entity.Entry) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO entries (description, month, year, user_id, amount, registration_date, type, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`, e.Description, e.Month, e.Year, e.UserID(), e.Amount, e.RegisteredAt, string(e.Type), string(e.Status))

	if err := row.Scan(&e.ID); err != nil {
		return fmt.Errorf("insert entry: %w", err)
	}
	return nil
}

func (r *EntryRepository) Update(ctx context.Context, e *entity.Entry) error {
	res, err := r.pool.Exec(ctx, `
		UPDATE entries
		SET description = $1, month = $2, year = $3, user_id = $4, amount = $5,
		    registration_date = $6, type = $7, status = $8
		WHERE id = $9
	`, e.Description, e.Month, e.Year, e.UserID(), e.Amount, e.RegisteredAt, string(e.Type), string(e.Status), e.ID)
	if err != nil {
		return fmt.Errorf("update entry %d: %w", e.ID, err)
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *EntryRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.pool.Exec(ctx, `DELETE FROM entries WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete entry %d: %w", id, err)
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *EntryRepository) GetByID(ctx context.Context, id int64) (*entity.Entry, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+entryColumns+` FROM entries WHERE id = $1`, id)
	e, err := scanEntry(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return e, nil
}

func (r *EntryRepository) Find(ctx context.Context, f repository.EntryFilter) ([]entity.Entry, error) {
	where, args := buildEntryWhere(f)
	rows, err := r.pool.Query(ctx, `SELECT `+entryColumns+` FROM entries`+where+` ORDER BY year, month, id`, args...)
	if err != nil {
		return nil, fmt.Errorf("query entries: %w", err)
	}
	defer rows.Close()

	out := make([]entity.Entry, 0)
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *e)
	}
	return out, rows.Err()
}

func (r *EntryRepository) SumAmount(ctx context.Context, userID int64, typ entity.EntryType, status entity.EntryStatus) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(amount), 0)
		FROM entries
		WHERE user_id = $1 AND type = $2 AND status = $3
	`, userID, string(typ), string(status)).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("sum entries: %w", err)
	}
	return total, nil
}

func scanEntry(row pgx.Row) (*entity.Entry, error) {
	var (
		e      entity.Entry
		userID int64
		typ    string
		status string
	)
	if err := row.Scan(&e.ID, &e.Description, &e.Month, &e.Year, &userID, &e.Amount, &e.RegisteredAt, &typ, &status); err != nil {
		return nil, err
	}
	e.User = &entity.User{ID: userID}
	e.Type = entity.EntryType(typ)
	e.Status = entity.EntryStatus(status)
	return &e, nil
}

var _ repository.EntryRepository = (*EntryRepository)(nil)
