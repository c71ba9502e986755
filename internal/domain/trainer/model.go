package trainer

import (
	"errors"
	"net/mail"
	"strings"
)

// Domain errors
var (
	ErrEmptyID        = errors.New("trainer ID cannot be empty")
	ErrEmptyLastName  = errors.New("trainer last name cannot be empty")
	ErrEmptyFirstName = errors.New("trainer first name cannot be empty")
	ErrInvalidEmail   = errors.New("trainer email is not a valid address")
	ErrNotFound       = errors.New("trainer not found")
)

// Trainer is a member of the teaching staff whose week gets arbitrated.
type Trainer struct {
	ID        string
	FirstName string
	LastName  string
	Email     string // optional, used for absence notifications
	Active    bool
}

// Validate checks if the Trainer has valid data.
// PRE: Trainer struct is populated
// POST: Returns nil if valid, error otherwise
func (t *Trainer) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return ErrEmptyID
	}
	if strings.TrimSpace(t.FirstName) == "" {
		return ErrEmptyFirstName
	}
	if strings.TrimSpace(t.LastName) == "" {
		return ErrEmptyLastName
	}
	if t.Email != "" {
		if _, err := mail.ParseAddress(t.Email); err != nil {
			return ErrInvalidEmail
		}
	}
	return nil
}

// DisplayName returns "First LAST".
func (t Trainer) DisplayName() string {
	return strings.TrimSpace(t.FirstName + " " + strings.ToUpper(t.LastName))
}
