package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"portal-backend/internal/domain"
	"portal-backend/internal/repository"
)

// DefaultOwner identifies the user that owns items created without an explicit owner.
type DefaultOwner struct {
	Username string
	Email    string
}

// ItemInput is the payload for creating an item. OwnerID is optional.
type ItemInput struct {
	Title       string
	Description *string
	OwnerID     *int64
}

// ItemService coordinates item operations backed by repositories.
type ItemService interface {
	Create(ctx context.Context, input ItemInput) (*domain.Item, error)
	Get(ctx context.Context, id int64) (*domain.Item, error)
	List(ctx context.Context, page Page) ([]domain.Item, error)
	Update(ctx context.Context, id int64, patch domain.ItemPatch) (*domain.Item, error)
	Delete(ctx context.Context, id int64) error
}

type itemService struct {
	items  repository.ItemRepository
	users  repository.UserRepository
	owner  DefaultOwner
	logger *logrus.Logger
}

func NewItemService(items repository.ItemRepository, users repository.UserRepository, owner DefaultOwner, logger *logrus.Logger) ItemService {
	if logger == nil {
		logger = logrus.New()
	}
	return &itemService{
		items:  items,
		users:  users,
		owner:  owner,
		logger: logger,
	}
}

func (s *itemService) Create(ctx context.Context, input ItemInput) (*domain.Item, error) {
	item := &domain.Item{
		Title:       strings.TrimSpace(input.Title),
		Description: input.Description,
	}
	if err := validateItem(item); err != nil {
		return nil, err
	}

	if input.OwnerID != nil {
		owner, err := s.users.GetByID(ctx, *input.OwnerID)
		if err != nil {
			return nil, fmt.Errorf("owner %d: %w", *input.OwnerID, err)
		}
		item.OwnerID = owner.ID
	} else {
		owner, err := s.defaultOwner(ctx)
		if err != nil {
			return nil, err
		}
		item.OwnerID = owner.ID
	}

	if _, err := s.items.Create(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// defaultOwner returns the configured default user, creating it on first use.
// Lookup and creation are not atomic: two concurrent first requests can both miss
// the lookup. The UNIQUE constraints make the loser fail with a conflict, after which
// the row created by the winner is read back.
func (s *itemService) defaultOwner(ctx context.Context) (*domain.User, error) {
	user, err := s.users.GetByUsername(ctx, s.owner.Username)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	user = &domain.User{
		Username: s.owner.Username,
		Email:    s.owner.Email,
		IsActive: true,
	}
	if _, err := s.users.Create(ctx, user); err != nil {
		if !errors.Is(err, domain.ErrConflict) {
			return nil, fmt.Errorf("create default owner: %w", err)
		}
		winner, lookupErr := s.users.GetByUsername(ctx, s.owner.Username)
		if errors.Is(lookupErr, domain.ErrNotFound) {
			// The conflict came from another account holding the owner's email.
			return nil, fmt.Errorf("default owner %q: email %q belongs to another user: %w",
				s.owner.Username, s.owner.Email, domain.ErrConflict)
		}
		return winner, lookupErr
	}
	s.logger.WithField("user_id", user.ID).Infof("created default owner %q", user.Username)
	return user, nil
}

func (s *itemService) Get(ctx context.Context, id int64) (*domain.Item, error) {
	return s.items.Get(ctx, id)
}

func (s *itemService) List(ctx context.Context, page Page) ([]domain.Item, error) {
	return s.items.List(ctx, page.Skip, page.Limit)
}

func (s *itemService) Update(ctx context.Context, id int64, patch domain.ItemPatch) (*domain.Item, error) {
	if err := patch.Validate(); err != nil {
		return nil, err
	}

	item, err := s.items.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	patch.Apply(item)
	item.Title = strings.TrimSpace(item.Title)
	if err := validateItem(item); err != nil {
		return nil, err
	}

	if err := s.items.Update(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *itemService) Delete(ctx context.Context, id int64) error {
	return s.items.Delete(ctx, id)
}

func validateItem(item *domain.Item) error {
	return check(item)
}
