package repository

import (
	"context"
	"errors"

	"github.com/oksasatya/go-ddd-finance/internal/domain/entity"
)

// ErrNotFound is returned by stores when no row matches.
var ErrNotFound = errors.New("not found")

// UserRepository defines the credential store operations.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id int64) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}
