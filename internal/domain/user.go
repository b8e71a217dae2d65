package domain

import "time"

// User represents a registered account. Users own items.
type User struct {
	ID        int64
	Username  string `validate:"required,max=50"`
	Email     string `validate:"required,max=100,email"`
	IsActive  bool
	CreatedAt time.Time
}

// UserPatch carries the optional fields of a partial user update.
type UserPatch struct {
	Username Optional[string] `json:"username"`
	Email    Optional[string] `json:"email"`
	IsActive Optional[bool]   `json:"is_active"`
}

// Validate rejects explicit nulls for non-nullable columns.
func (p UserPatch) Validate() error {
	return firstError(
		p.Username.requireValue("username"),
		p.Email.requireValue("email"),
		p.IsActive.requireValue("is_active"),
	)
}

// Apply merges the set fields into user.
func (p UserPatch) Apply(user *User) {
	if p.Username.Set {
		user.Username = p.Username.Value
	}
	if p.Email.Set {
		user.Email = p.Email.Value
	}
	if p.IsActive.Set {
		user.IsActive = p.IsActive.Value
	}
}
