package service

import (
	"context"
	"strings"

	"portal-backend/internal/domain"
	"portal-backend/internal/repository"
)

// ContactInput is the payload of a contact form submission.
type ContactInput struct {
	Name    string
	Email   string
	Subject string
	Message string
}

type ContactService interface {
	Create(ctx context.Context, input ContactInput) (*domain.Contact, error)
	Get(ctx context.Context, id int64) (*domain.Contact, error)
	List(ctx context.Context, page Page) ([]domain.Contact, error)
	Update(ctx context.Context, id int64, patch domain.ContactPatch) (*domain.Contact, error)
	Delete(ctx context.Context, id int64) error
}

type contactService struct {
	contacts repository.ContactRepository
}

func NewContactService(contacts repository.ContactRepository) ContactService {
	return &contactService{contacts: contacts}
}

func (s *contactService) Create(ctx context.Context, input ContactInput) (*domain.Contact, error) {
	contact := &domain.Contact{
		Name:    strings.TrimSpace(input.Name),
		Email:   strings.TrimSpace(input.Email),
		Subject: strings.TrimSpace(input.Subject),
		Message: input.Message,
	}
	if err := validateContact(contact); err != nil {
		return nil, err
	}
	if _, err := s.contacts.Create(ctx, contact); err != nil {
		return nil, err
	}
	return contact, nil
}

func (s *contactService) Get(ctx context.Context, id int64) (*domain.Contact, error) {
	return s.contacts.Get(ctx, id)
}

func (s *contactService) List(ctx context.Context, page Page) ([]domain.Contact, error) {
	return s.contacts.List(ctx, page.Skip, page.Limit)
}

func (s *contactService) Update(ctx context.Context, id int64, patch domain.ContactPatch) (*domain.Contact, error) {
	if err := patch.Validate(); err != nil {
		return nil, err
	}
	contact, err := s.contacts.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	patch.Apply(contact)
	if err := validateContact(contact); err != nil {
		return nil, err
	}
	if err := s.contacts.Update(ctx, contact); err != nil {
		return nil, err
	}
	return contact, nil
}

func (s *contactService) Delete(ctx context.Context, id int64) error {
	return s.contacts.Delete(ctx, id)
}

func validateContact(contact *domain.Contact) error {
	return check(contact)
}
