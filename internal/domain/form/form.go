package form

import (
	"time"

	"github.com/google/uuid"
)

type Form struct {
	ID        uuid.UUID      `json:"id"`
	Name      string         `json:"name"`
	Path      string         `json:"path"`
	Public    bool           `json:"public"`
	Schema    map[string]any `json:"schema,omitempty"`
	CreatedBy string         `json:"created_by"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

type CreateFormInput struct {
	Name      string
	Path      string
	Public    bool
	Schema    map[string]any
	CreatedBy string
}

type ListFormsFilter struct {
	CreatedBy string
	Limit     int
	Offset    int
}
