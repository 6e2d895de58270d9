package ports

import (
	"context"
	"mime/multipart"

	"github.com/melodia/music-catalog-api/internal/core/domain"
)

// UserRepository defines the persistence contract for user accounts.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindAll(ctx context.Context) ([]domain.User, error)
	CountByRole(ctx context.Context, role string) (int64, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	Update(ctx context.Context, user *domain.User) error
}

// RegisterInput carries the fields required to create an account.
type RegisterInput struct {
	Name     string
	Surname  string
	Email    string
	Password string
	Role     string
}

// UpdateUserInput carries a partial update; empty fields are unchanged.
type UpdateUserInput struct {
	Name     string
	Surname  string
	Email    string
	Password string
}

// Empty reports whether the update carries no field at all.
func (in UpdateUserInput) Empty() bool {
	return in == UpdateUserInput{}
}

type UserService interface {
	Register(ctx context.Context, in RegisterInput) (*domain.User, error)
	GetAll(ctx context.Context) ([]domain.User, error)
	Get(ctx context.Context, id string) (*domain.User, error)
	Update(ctx context.Context, id string, in UpdateUserInput, image *multipart.FileHeader) (*domain.User, error)
}
