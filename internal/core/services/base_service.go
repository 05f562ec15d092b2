package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/incentive_wallet_app/internal/apperrors"
	"github.com/SscSPs/incentive_wallet_app/internal/middleware"
	"github.com/SscSPs/incentive_wallet_app/internal/platform/metrics"
)

// BaseService provides common functionality for all services
type BaseService struct{}

// GetLogger gets the logger from context or returns a default one
func (s *BaseService) GetLogger(ctx context.Context) *slog.Logger {
	logger := middleware.GetLoggerFromCtx(ctx)
	if logger == nil {
		return slog.Default()
	}
	return logger
}

// LogError logs an error with consistent formatting
func (s *BaseService) LogError(ctx context.Context, err error, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	args := make([]any, 0, len(keyvals)+1)
	args = append(args, slog.String("error", err.Error()))
	args = append(args, keyvals...)
	logger.Error(msg, args...)
}

// LogInfo logs an info message with consistent formatting
func (s *BaseService) LogInfo(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Info(msg, keyvals...)
}

// LogWarn logs a warning with consistent formatting
func (s *BaseService) LogWarn(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Warn(msg, keyvals...)
}

// LogDebug logs a debug message with consistent formatting
func (s *BaseService) LogDebug(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Debug(msg, keyvals...)
}

// RecordDependencyFailure logs a best-effort collaborator failure and counts it.
// The error is returned wrapped in ErrDependency but callers are expected to drop it.
func (s *BaseService) RecordDependencyFailure(ctx context.Context, collaborator string, err error, keyvals ...any) error {
	wrapped := fmt.Errorf("%w: %s: %v", apperrors.ErrDependency, collaborator, err)
	metrics.CollaboratorFailures.WithLabelValues(collaborator).Inc()
	s.LogError(ctx, wrapped, "Best-effort collaborator failed", append([]any{slog.String("collaborator", collaborator)}, keyvals...)...)
	return wrapped
}

// errorKind is the metrics label for a failed operation.
func errorKind(err error) string {
	switch {
	case errors.Is(err, apperrors.ErrValidation):
		return "validation"
	case errors.Is(err, apperrors.ErrForbidden):
		return "forbidden"
	case errors.Is(err, apperrors.ErrNotFound):
		return "not_found"
	case errors.Is(err, apperrors.ErrPrecondition):
		return "precondition"
	case errors.Is(err, apperrors.ErrDuplicate):
		return "duplicate"
	default:
		return "internal"
	}
}

func nowUTC() time.Time {
	return time.Now().UTC()
}

func stringPtr(s string) *string {
	return &s
}
