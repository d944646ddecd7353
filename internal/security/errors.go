package security

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNoCredentials is returned by an authentication strategy when the
// request carries no credential the strategy recognizes. The registry falls
// through to the next allowed strategy; any other error aborts
// authentication immediately.
var ErrNoCredentials = errors.New("no credentials presented")

// Error is the pipeline's error shape. Status and Detail are echoed to the
// caller; the diagnostic fields are populated for permission failures so
// API consumers and the audit trail see exactly which check failed.
type Error struct {
	Status int    `json:"status"`
	Detail string `json:"detail"`

	Required  []Permission `json:"required,omitempty"`
	Granted   []Permission `json:"granted,omitempty"`
	Missing   []Permission `json:"missing,omitempty"`
	Mode      Mode         `json:"mode,omitempty"`
	Decisions []Decision   `json:"decisions,omitempty"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("security: %d %s", e.Status, e.Detail)
}

// NewConfigError reports that the security context is absent where it must
// exist. Always a 500: it means the orchestrator middleware was skipped,
// which is a wiring defect, never a caller fault.
func NewConfigError(detail string) *Error {
	return &Error{Status: http.StatusInternalServerError, Detail: detail}
}

func NewPolicyNotFound() *Error {
	return &Error{Status: http.StatusNotFound, Detail: "policy not found"}
}

func NewResourceNotFound() *Error {
	return &Error{Status: http.StatusNotFound, Detail: "resource not found"}
}

func NewFileNotFound() *Error {
	return &Error{Status: http.StatusNotFound, Detail: "file not found"}
}

func NewAuthError(status int, detail string) *Error {
	return &Error{Status: status, Detail: detail}
}

func NewUnauthorized(detail string) *Error {
	return &Error{Status: http.StatusUnauthorized, Detail: detail}
}

func NewForbidden(detail string) *Error {
	return &Error{Status: http.StatusForbidden, Detail: detail}
}

// NewPermissionDenied builds the 403 returned when a required permission
// set is not covered by the granted set. It carries the full evidence used
// by the check so the failure is diagnosable without re-running it.
func NewPermissionDenied(required, granted, missing []Permission, mode Mode, decisions []Decision) *Error {
	return &Error{
		Status:    http.StatusForbidden,
		Detail:    "missing permissions",
		Required:  required,
		Granted:   granted,
		Missing:   missing,
		Mode:      mode,
		Decisions: decisions,
	}
}

// NewUploaderForbidden is the file-specific 403: the caller is
// authenticated but is not the file's original uploader and no override
// applies.
func NewUploaderForbidden(decisions []Decision) *Error {
	return &Error{
		Status:    http.StatusForbidden,
		Detail:    "unauthorized file uploader",
		Decisions: decisions,
	}
}

// AsError unwraps a *security.Error from err, if present.
func AsError(err error) (*Error, bool) {
	var se *Error
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}
