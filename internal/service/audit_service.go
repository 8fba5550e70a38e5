package service

import (
	"context"

	"tasklist/internal/domain"
	"tasklist/internal/logger"
)

type AuditStore interface {
	Create(ctx context.Context, log *domain.AuditLog) error
}

type requestMetaKey struct{}

type requestMeta struct {
	ip        string
	userAgent string
}

// WithRequestMeta attaches client address and user agent for audit entries.
func WithRequestMeta(ctx context.Context, ip, userAgent string) context.Context {
	return context.WithValue(ctx, requestMetaKey{}, requestMeta{ip: ip, userAgent: userAgent})
}

// AuditService handles audit logging
type AuditService struct {
	repo AuditStore
}

func NewAuditService(repo AuditStore) *AuditService {
	return &AuditService{repo: repo}
}

// Log creates a new audit log entry. Failures are logged, never returned.
func (s *AuditService) Log(ctx context.Context, userID int64, action, category string, details map[string]interface{}) {
	entry := &domain.AuditLog{
		UserID:   userID,
		Action:   action,
		Category: category,
		Details:  details,
	}
	if meta, ok := ctx.Value(requestMetaKey{}).(requestMeta); ok {
		entry.IP = meta.ip
		entry.UserAgent = meta.userAgent
	}

	if err := s.repo.Create(ctx, entry); err != nil {
		logger.WithContext(ctx).Error("failed to create audit log", "error", err, "action", action, "user_id", userID)
	}
}

// TaskChanged records a committed task mutation.
func (s *AuditService) TaskChanged(ctx context.Context, ev domain.TaskEvent) {
	s.Log(ctx, ev.OwnerID, ev.AuditAction(), domain.AuditCategoryTask, map[string]interface{}{
		"task_id":   ev.Task.ID,
		"completed": ev.Task.Completed,
	})
}
