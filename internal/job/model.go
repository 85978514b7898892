package job

import (
	"time"

	"github.com/google/uuid"
)

// Status is the lifecycle state of a job posting.
type Status string

const (
	StatusOpen    Status = "open"
	StatusClaimed Status = "claimed"
	StatusDone    Status = "done"
)

// Job is a turn/repair posting a client raises against one of their
// properties. A tech claims it, works it, and marks it done. There is no
// matching or dispatch logic; techs browse the open list themselves.
type Job struct {
	ID           uuid.UUID  `json:"id"`
	PropertyID   uuid.UUID  `json:"property_id"`
	ClientID     uuid.UUID  `json:"client_id"`
	TechID       *uuid.UUID `json:"tech_id,omitempty"`
	Title        string     `json:"title"`
	Description  string     `json:"description,omitempty"`
	Status       Status     `json:"status"`
	ScheduledFor *time.Time `json:"scheduled_for,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}
