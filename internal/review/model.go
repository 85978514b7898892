package review

import (
	"time"

	"github.com/google/uuid"
)

// Review is a client's rating of the tech who worked a completed job.
type Review struct {
	ID        uuid.UUID `json:"id"`
	JobID     uuid.UUID `json:"job_id"`
	AuthorID  uuid.UUID `json:"author_id"`
	TechID    uuid.UUID `json:"tech_id"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
