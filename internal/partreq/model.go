package partreq

import (
	"time"

	"github.com/google/uuid"
)

// Status is the approval state of a part request.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// PartRequest is a tech's request for a part needed on a claimed job.
// The client who owns the job approves or rejects it.
type PartRequest struct {
	ID          uuid.UUID `json:"id"`
	JobID       uuid.UUID `json:"job_id"`
	TechID      uuid.UUID `json:"tech_id"`
	Description string    `json:"description"`
	Status      Status    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
