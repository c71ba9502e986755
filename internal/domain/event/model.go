package event

import (
	"encoding/json"
	"errors"
	"time"

	"planning/internal/domain/week"
)

// Actions carried by planning commands. Values match the labels the
// trainer-facing pages already react to.
const (
	ActionRemoveTrainer = "retirer_formateur"
	ActionAddTrainer    = "ajouter_formateur"
	ActionRefresh       = "actualiser_planning"
)

// Domain errors
var (
	ErrEmptyAction   = errors.New("command action is required")
	ErrUnknownAction = errors.New("unknown command action")
)

// Command tells subscribers that planning inputs changed. An empty TrainerID
// addresses every trainer (closures, bulk edits).
type Command struct {
	Action    string    `json:"action"`
	TrainerID string    `json:"trainer_id,omitempty"`
	Date      week.Date `json:"date"`
	Details   string    `json:"details,omitempty"`
	IssuedAt  time.Time `json:"issued_at"`
}

// Validate checks if the Command has valid data.
// PRE: Command struct is populated
// POST: Returns nil if valid, error otherwise
func (c *Command) Validate() error {
	switch c.Action {
	case "":
		return ErrEmptyAction
	case ActionRemoveTrainer, ActionAddTrainer, ActionRefresh:
		return nil
	default:
		return ErrUnknownAction
	}
}

// Concerns reports whether the command is relevant to trainerID.
func (c Command) Concerns(trainerID string) bool {
	return c.TrainerID == "" || c.TrainerID == trainerID
}

// Encode serializes the command for the outbox and the broker.
func (c Command) Encode() (string, error) {
	b, err := json.Marshal(c)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Decode parses a serialized command and validates it.
func Decode(payload string) (Command, error) {
	var c Command
	if err := json.Unmarshal([]byte(payload), &c); err != nil {
		return Command{}, err
	}
	if err := c.Validate(); err != nil {
		return Command{}, err
	}
	return c, nil
}
