package domain

import "time"

// Contact is a message submitted through the contact form.
type Contact struct {
	ID         int64
	Name       string `validate:"required"`
	Email      string `validate:"required,email"`
	Subject    string `validate:"required"`
	Message    string `validate:"notblank"`
	IsResolved bool
	CreatedAt  time.Time
}

type ContactPatch struct {
	Name       Optional[string] `json:"name"`
	Email      Optional[string] `json:"email"`
	Subject    Optional[string] `json:"subject"`
	Message    Optional[string] `json:"message"`
	IsResolved Optional[bool]   `json:"is_resolved"`
}

func (p ContactPatch) Validate() error {
	return firstError(
		p.Name.requireValue("name"),
		p.Email.requireValue("email"),
		p.Subject.requireValue("subject"),
		p.Message.requireValue("message"),
		p.IsResolved.requireValue("is_resolved"),
	)
}

func (p ContactPatch) Apply(contact *Contact) {
	if p.Name.Set {
		contact.Name = p.Name.Value
	}
	if p.Email.Set {
		contact.Email = p.Email.Value
	}
	if p.Subject.Set {
		contact.Subject = p.Subject.Value
	}
	if p.Message.Set {
		contact.Message = p.Message.Value
	}
	if p.IsResolved.Set {
		contact.IsResolved = p.IsResolved.Value
	}
}
