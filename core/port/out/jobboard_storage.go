package out

import (
	"context"
	"time"

	"jobboard_server/core/domain"
)

// FileStorage keeps uploaded files and returns the public URL they are
// served from.
type FileStorage interface {
	Save(ctx context.Context, kind domain.UploadKind, owner string, file *domain.UploadedFile) (string, error)
}

// AuditEvent records one mutating request.
type AuditEvent struct {
	ID         string    `json:"id"`
	Timestamp  time.Time `json:"timestamp"`
	UserID     string    `json:"user_id,omitempty"`
	Role       string    `json:"role,omitempty"`
	Action     string    `json:"action"`
	Resource   string    `json:"resource"`
	ResourceID string    `json:"resource_id,omitempty"`
	Method     string    `json:"method"`
	Path       string    `json:"path"`
	IP         string    `json:"ip"`
	UserAgent  string    `json:"user_agent"`
	StatusCode int       `json:"status_code"`
	Duration   int64     `json:"duration_ms"`
	RequestID  string    `json:"request_id"`
	Success    bool      `json:"success"`
}

// AuditSink receives audit events. Implementations must not block the
// request for long.
type AuditSink interface {
	Record(ctx context.Context, event *AuditEvent) error
}
