package domain

import "time"

// Item is a todo-like entry owned by a user.
type Item struct {
	ID          int64
	Title       string  `validate:"required,max=100"`
	Description *string `validate:"omitempty,max=500"`
	Completed   bool
	OwnerID     int64
	CreatedAt   time.Time
}

// ItemPatch carries the optional fields of a partial item update.
// Description is nullable: an explicit null clears it.
type ItemPatch struct {
	Title       Optional[string] `json:"title"`
	Description Optional[string] `json:"description"`
	Completed   Optional[bool]   `json:"completed"`
}

func (p ItemPatch) Validate() error {
	return firstError(
		p.Title.requireValue("title"),
		p.Completed.requireValue("completed"),
	)
}

func (p ItemPatch) Apply(item *Item) {
	if p.Title.Set {
		item.Title = p.Title.Value
	}
	if p.Description.Set {
		item.Description = p.Description.Ptr()
	}
	if p.Completed.Set {
		item.Completed = p.Completed.Value
	}
}
