package service

import (
	"context"
	"fmt"
	"mime/multipart"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/melodia/music-catalog-api/internal/core/domain"
	"github.com/melodia/music-catalog-api/internal/core/ports"
)

// UserService implements account registration and profile management.
// Credential verification and the session lifecycle live in SessionManager.
type UserService struct {
	repo   ports.UserRepository
	assets ports.AssetStorage
	logger zerolog.Logger
}

func NewUserService(repo ports.UserRepository, assets ports.AssetStorage, logger zerolog.Logger) *UserService {
	return &UserService{repo: repo, assets: assets, logger: logger}
}

// Register creates a new account. At most one ADMIN account may exist.
func (s *UserService) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	if in.Role != domain.RoleAdmin && in.Role != domain.RoleUser {
		return nil, domain.ErrInvalidRole
	}

	if in.Role == domain.RoleAdmin {
		n, err := s.repo.CountByRole(ctx, domain.RoleAdmin)
		if err != nil {
			return nil, err
		}
		if n > 0 {
			return nil, domain.ErrAdminExists
		}
	}

	exists, err := s.repo.EmailExists(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrEmailExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	user := &domain.User{
		Name:         in.Name,
		Surname:      in.Surname,
		Email:        in.Email,
		PasswordHash: string(hash),
		Role:         in.Role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("user_id", created.ID).Str("role", created.Role).Msg("user registered")
	return created, nil
}

func (s *UserService) GetAll(ctx context.Context) ([]domain.User, error) {
	return s.repo.FindAll(ctx)
}

func (s *UserService) Get(ctx context.Context, id string) (*domain.User, error) {
	return s.repo.FindByID(ctx, id)
}

// Update applies a partial profile update. A new avatar replaces the old
// one in the asset store; the stale object is removed after the write.
func (s *UserService) Update(ctx context.Context, id string, in ports.UpdateUserInput, image *multipart.FileHeader) (*domain.User, error) {
	if in.Empty() && image == nil {
		return nil, domain.ErrNothingToUpdate
	}

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Email != "" && in.Email != user.Email {
		exists, err := s.repo.EmailExists(ctx, in.Email)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, domain.ErrEmailExists
		}
		user.Email = in.Email
	}
	if in.Name != "" {
		user.Name = in.Name
	}
	if in.Surname != "" {
		user.Surname = in.Surname
	}
	if in.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		user.PasswordHash = string(hash)
	}

	oldImage := user.Image
	if image != nil {
		asset, err := s.assets.Save(ctx, image, "users/"+user.ID)
		if err != nil {
			return nil, err
		}
		user.Image = *asset
	}

	user.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}

	if image != nil && !oldImage.Empty() {
		if err := s.assets.Delete(ctx, oldImage.ID); err != nil {
			s.logger.Warn().Err(err).Str("asset_id", oldImage.ID).Msg("failed to remove replaced avatar")
		}
	}

	return user, nil
}
