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

const createItemsTable = `
CREATE TABLE IF NOT EXISTS items (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	title TEXT NOT NULL,
	description TEXT NULL,
	completed BOOLEAN NOT NULL DEFAULT 0,
	owner_id INTEGER NOT NULL REFERENCES users(id),
	created_at DATETIME NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_items_owner_id ON items(owner_id);
`

const selectItem = `SELECT id, title, description, completed, owner_id, created_at FROM items`

type ItemRepository struct {
	db *sql.DB
}

func NewItemRepository(db *sql.DB) repository.ItemRepository {
	return &ItemRepository{db: db}
}

func (r *ItemRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createItemsTable); err != nil {
		return fmt.Errorf("create items table: %w", err)
	}
	return nil
}

func (r *ItemRepository) Create(ctx context.Context, item *domain.Item) (int64, error) {
	item.CreatedAt = time.Now().UTC()

	res, err := r.db.ExecContext(ctx, `
INSERT INTO items (title, description, completed, owner_id, created_at)
VALUES (?, ?, ?, ?, ?)`,
		item.Title,
		nullString(item.Description),
		item.Completed,
		item.OwnerID,
		item.CreatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return 0, fmt.Errorf("owner %d: %w", item.OwnerID, domain.ErrNotFound)
		}
		return 0, fmt.Errorf("insert item: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("item last insert id: %w", err)
	}
	item.ID = id
	return id, nil
}

func (r *ItemRepository) Update(ctx context.Context, item *domain.Item) error {
	res, err := r.db.ExecContext(ctx, `
UPDATE items
SET title=?, description=?, completed=?
WHERE id=?`,
		item.Title,
		nullString(item.Description),
		item.Completed,
		item.ID,
	)
	if err != nil {
		return fmt.Errorf("update item: %w", err)
	}
	return expectAffected(res, "item", item.ID)
}

func (r *ItemRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM items WHERE id=?`, id)
	if err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	return expectAffected(res, "item", id)
}

func (r *ItemRepository) Get(ctx context.Context, id int64) (*domain.Item, error) {
	return scanItem(r.db.QueryRowContext(ctx, selectItem+` WHERE id = ?`, id))
}

func (r *ItemRepository) List(ctx context.Context, skip, limit int) ([]domain.Item, error) {
	rows, err := r.db.QueryContext(ctx, selectItem+` ORDER BY id LIMIT ? OFFSET ?`, limit, skip)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	return collectItems(rows)
}

func (r *ItemRepository) ListAll(ctx context.Context) ([]domain.Item, error) {
	rows, err := r.db.QueryContext(ctx, selectItem+` ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	return collectItems(rows)
}

func (r *ItemRepository) Count(ctx context.Context) (int64, error) {
	return count(r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM items`), "items")
}

func (r *ItemRepository) CountByOwner(ctx context.Context, ownerID int64) (int64, error) {
	return count(r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM items WHERE owner_id = ?`, ownerID), "owned items")
}

func collectItems(rows *sql.Rows) ([]domain.Item, error) {
	defer rows.Close()

	items := []domain.Item{}
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate items: %w", err)
	}
	return items, nil
}

func scanItem(row scanner) (*domain.Item, error) {
	var (
		item        domain.Item
		description sql.NullString
	)
	if err := row.Scan(
		&item.ID,
		&item.Title,
		&description,
		&item.Completed,
		&item.OwnerID,
		&item.CreatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("item: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("scan item: %w", err)
	}
	item.Description = stringPtr(description)
	return &item, nil
}
