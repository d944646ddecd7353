package file

import (
	"time"

	"github.com/google/uuid"
)

// File is the descriptor for an uploaded attachment. A file starts life as
// a draft (no submission yet) and becomes submitted when its owning
// submission is finalized.
type File struct {
	ID           uuid.UUID  `json:"id"`
	FormID       uuid.UUID  `json:"form_id"`
	SubmissionID *uuid.UUID `json:"submission_id,omitempty"`
	Name         string     `json:"name"`
	StorageKey   string     `json:"storage_key"`
	SizeBytes    int64      `json:"size_bytes"`
	MimeType     string     `json:"mime_type"`
	CreatedBy    string     `json:"created_by"`
	CreatedAt    time.Time  `json:"created_at"`
}

// IsDraft reports whether the file has not yet been attached to a
// finalized submission.
func (f *File) IsDraft() bool {
	return f.SubmissionID == nil
}

type CreateFileInput struct {
	FormID       uuid.UUID
	SubmissionID *uuid.UUID
	Name         string
	StorageKey   string
	SizeBytes    int64
	MimeType     string
	CreatedBy    string
}
