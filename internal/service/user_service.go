package service

import (
	"context"
	"fmt"
	"strings"

	"portal-backend/internal/domain"
	"portal-backend/internal/repository"
)

// UserService describes user lifecycle operations.
type UserService interface {
	Create(ctx context.Context, username, email string) (*domain.User, error)
	Get(ctx context.Context, id int64) (*domain.User, error)
	List(ctx context.Context, page Page) ([]domain.User, error)
	Update(ctx context.Context, id int64, patch domain.UserPatch) (*domain.User, error)
	Delete(ctx context.Context, id int64) error
}

type userService struct {
	users repository.UserRepository
	items repository.ItemRepository
}

func NewUserService(users repository.UserRepository, items repository.ItemRepository) UserService {
	return &userService{
		users: users,
		items: items,
	}
}

func (s *userService) Create(ctx context.Context, username, email string) (*domain.User, error) {
	user := &domain.User{
		Username: strings.TrimSpace(username),
		Email:    strings.TrimSpace(email),
		IsActive: true,
	}
	if err := validateUser(user); err != nil {
		return nil, err
	}

	if _, err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *userService) Get(ctx context.Context, id int64) (*domain.User, error) {
	return s.users.GetByID(ctx, id)
}

func (s *userService) List(ctx context.Context, page Page) ([]domain.User, error) {
	return s.users.List(ctx, page.Skip, page.Limit)
}

func (s *userService) Update(ctx context.Context, id int64, patch domain.UserPatch) (*domain.User, error) {
	if err := patch.Validate(); err != nil {
		return nil, err
	}

	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	patch.Apply(user)
	user.Username = strings.TrimSpace(user.Username)
	user.Email = strings.TrimSpace(user.Email)
	if err := validateUser(user); err != nil {
		return nil, err
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Delete removes a user. Users that still own items cannot be deleted.
func (s *userService) Delete(ctx context.Context, id int64) error {
	owned, err := s.items.CountByOwner(ctx, id)
	if err != nil {
		return err
	}
	if owned > 0 {
		return fmt.Errorf("user %d still owns %d items: %w", id, owned, domain.ErrConflict)
	}
	return s.users.Delete(ctx, id)
}

func validateUser(user *domain.User) error {
	return check(user)
}
