package fake

import (
	"context"
	"fmt"
	"io"
	"sync"

	"jobboard_server/core/domain"
	"jobboard_server/core/port/out"
)

// Storage records saved uploads in memory.
type Storage struct {
	mu    sync.Mutex
	Files map[string][]byte
	Err   error
}

func NewStorage() *Storage {
	return &Storage{Files: map[string][]byte{}}
}

var _ out.FileStorage = (*Storage)(nil)

func (s *Storage) Save(ctx context.Context, kind domain.UploadKind, owner string, file *domain.UploadedFile) (string, error) {
	if s.Err != nil {
		return "", s.Err
	}
	body, err := io.ReadAll(file.Body)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	url := fmt.Sprintf("/uploads/%s/%s-%d%s", kind, owner, len(s.Files)+1, file.Ext())
	s.Files[url] = body
	return url, nil
}

// Audit collects audit events.
type Audit struct {
	mu     sync.Mutex
	Events []*out.AuditEvent
}

var _ out.AuditSink = (*Audit)(nil)

func (a *Audit) Record(ctx context.Context, event *out.AuditEvent) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.Events = append(a.Events, event)
	return nil
}

func (a *Audit) Len() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.Events)
}
