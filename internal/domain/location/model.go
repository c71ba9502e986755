package location

import (
	"errors"
	"regexp"
	"strings"
)

// Domain errors
var (
	ErrEmptyID      = errors.New("location ID cannot be empty")
	ErrEmptyName    = errors.New("location name cannot be empty")
	ErrInvalidColor = errors.New("location color must be a #RRGGBB hex value")
	ErrNotFound     = errors.New("location not found")
)

// DefaultColor is used when a location has no colour of its own.
const DefaultColor = "#9CA3AF"

var hexColor = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// Location is a training site a trainer can be placed at.
type Location struct {
	ID       string
	Name     string
	Initials string // short code shown in grid cells
	Color    string // #RRGGBB
}

// Validate checks if the Location has valid data.
// PRE: Location struct is populated
// POST: Returns nil if valid, error otherwise
func (l *Location) Validate() error {
	if strings.TrimSpace(l.ID) == "" {
		return ErrEmptyID
	}
	if strings.TrimSpace(l.Name) == "" {
		return ErrEmptyName
	}
	if l.Color != "" && !hexColor.MatchString(l.Color) {
		return ErrInvalidColor
	}
	return nil
}

// ShortName returns the initials, falling back to the name.
func (l Location) ShortName() string {
	if l.Initials != "" {
		return l.Initials
	}
	return l.Name
}

// ColorOrDefault returns the location colour or DefaultColor.
func (l Location) ColorOrDefault() string {
	if l.Color == "" {
		return DefaultColor
	}
	return l.Color
}
