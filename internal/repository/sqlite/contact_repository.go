package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"portal-backend/internal/domain"
	"portal-backend/internal/repository"
)

const createContactsTable = `
CREATE TABLE IF NOT EXISTS contacts (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL,
	email TEXT NOT NULL,
	subject TEXT NOT NULL,
	message TEXT NOT NULL,
	is_resolved BOOLEAN NOT NULL DEFAULT 0,
	created_at DATETIME NOT NULL
);
`

const selectContact = `SELECT id, name, email, subject, message, is_resolved, created_at FROM contacts`

type ContactRepository struct {
	db *sql.DB
}

func NewContactRepository(db *sql.DB) repository.ContactRepository {
	return &ContactRepository{db: db}
}

func (r *ContactRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createContactsTable); err != nil {
		return fmt.Errorf("create contacts table: %w", err)
	}
	return nil
}

func (r *ContactRepository) Create(ctx context.Context, contact *domain.Contact) (int64, error) {
	contact.CreatedAt = time.Now().UTC()

	res, err := r.db.ExecContext(ctx, `
INSERT INTO contacts (name, email, subject, message, is_resolved, created_at)
VALUES (?, ?, ?, ?, ?, ?)`,
		contact.Name,
		contact.Email,
		contact.Subject,
		contact.Message,
		contact.IsResolved,
		contact.CreatedAt,
	)
	if err != nil {
		return 0, fmt.Errorf("insert contact: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("contact last insert id: %w", err)
	}
	contact.ID = id
	return id, nil
}

func (r *ContactRepository) Update(ctx context.Context, contact *domain.Contact) error {
	res, err := r.db.ExecContext(ctx, `
UPDATE contacts
SET name=?, email=?, subject=?, message=?, is_resolved=?
WHERE id=?`,
		contact.Name,
		contact.Email,
		contact.Subject,
		contact.Message,
		contact.IsResolved,
		contact.ID,
	)
	if err != nil {
		return fmt.Errorf("update contact: %w", err)
	}
	return expectAffected(res, "contact", contact.ID)
}

func (r *ContactRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM contacts WHERE id=?`, id)
	if err != nil {
		return fmt.Errorf("delete contact: %w", err)
	}
	return expectAffected(res, "contact", id)
}

func (r *ContactRepository) Get(ctx context.Context, id int64) (*domain.Contact, error) {
	return scanContact(r.db.QueryRowContext(ctx, selectContact+` WHERE id = ?`, id))
}

func (r *ContactRepository) List(ctx context.Context, skip, limit int) ([]domain.Contact, error) {
	rows, err := r.db.QueryContext(ctx, selectContact+` ORDER BY id LIMIT ? OFFSET ?`, limit, skip)
	if err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}
	defer rows.Close()

	contacts := []domain.Contact{}
	for rows.Next() {
		contact, err := scanContact(rows)
		if err != nil {
			return nil, err
		}
		contacts = append(contacts, *contact)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate contacts: %w", err)
	}
	return contacts, nil
}

func (r *ContactRepository) Count(ctx context.Context) (int64, error) {
	return count(r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM contacts`), "contacts")
}

func (r *ContactRepository) CountUnresolved(ctx context.Context) (int64, error) {
	return count(r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM contacts WHERE is_resolved = 0`), "unresolved contacts")
}

func scanContact(row scanner) (*domain.Contact, error) {
	var contact domain.Contact
	if err := row.Scan(
		&contact.ID,
		&contact.Name,
		&contact.Email,
		&contact.Subject,
		&contact.Message,
		&contact.IsResolved,
		&contact.CreatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("contact: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("scan contact: %w", err)
	}
	return &contact, nil
}
