package submission

import (
	"time"

	"github.com/google/uuid"
)

type State string

const (
	StateDraft     State = "draft"
	StateSubmitted State = "submitted"
)

type Submission struct {
	ID          uuid.UUID      `json:"id"`
	FormID      uuid.UUID      `json:"form_id"`
	Data        map[string]any `json:"data"`
	State       State          `json:"state"`
	CreatedBy   string         `json:"created_by"`
	SubmittedAt *time.Time     `json:"submitted_at,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

func (s *Submission) IsDraft() bool {
	return s.State == StateDraft
}

type CreateSubmissionInput struct {
	FormID    uuid.UUID
	Data      map[string]any
	State     State
	CreatedBy string
}

type ListSubmissionsFilter struct {
	FormID uuid.UUID
	Limit  int
	Offset int
}
