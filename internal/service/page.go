package service

import (
	"fmt"

	"portal-backend/internal/domain"
)

// MaxPageLimit caps the number of rows a single list call may return.
const MaxPageLimit = 1000

// Page is a simple offset/limit window.
type Page struct {
	Skip  int
	Limit int
}

// NewPage validates skip and limit.
func NewPage(skip, limit int) (Page, error) {
	if skip < 0 {
		return Page{}, fmt.Errorf("skip must not be negative: %w", domain.ErrInvalid)
	}
	if limit < 0 {
		return Page{}, fmt.Errorf("limit must not be negative: %w", domain.ErrInvalid)
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}
	return Page{Skip: skip, Limit: limit}, nil
}
