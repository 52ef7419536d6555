package audit

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Logger records security-relevant events.
type Logger interface {
	// Log records an action with the given result.
	Log(ctx context.Context, actor, action string, result Result, opts ...EventOption) error

	// LogError records a failed action together with its error.
	LogError(ctx context.Context, actor, action string, err error, opts ...EventOption) error
}

// Storage persists audit events.
type Storage interface {
	Store(ctx context.Context, event Event) error
}

type logger struct {
	storage Storage
	now     func() time.Time
}

// Option configures the audit logger.
type Option func(*logger)

// WithClock overrides the event timestamp source, used in tests.
func WithClock(now func() time.Time) Option {
	return func(l *logger) {
		if now != nil {
			l.now = now
		}
	}
}

// NewLogger creates an audit logger writing to the given storage.
func NewLogger(storage Storage, opts ...Option) Logger {
	if storage == nil {
		panic("audit: storage cannot be nil")
	}

	l := &logger{
		storage: storage,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *logger) Log(ctx context.Context, actor, action string, result Result, opts ...EventOption) error {
	event := Event{
		ID:        uuid.New().String(),
		Actor:     actor,
		Action:    action,
		Result:    result,
		CreatedAt: l.now(),
	}
	for _, opt := range opts {
		opt(&event)
	}

	if err := event.Validate(); err != nil {
		return err
	}
	return l.storage.Store(ctx, event)
}

func (l *logger) LogError(ctx context.Context, actor, action string, actionErr error, opts ...EventOption) error {
	event := Event{
		ID:        uuid.New().String(),
		Actor:     actor,
		Action:    action,
		Result:    ResultError,
		CreatedAt: l.now(),
	}
	if actionErr != nil {
		event.Error = actionErr.Error()
	}
	for _, opt := range opts {
		opt(&event)
	}

	if err := event.Validate(); err != nil {
		return err
	}
	return l.storage.Store(ctx, event)
}
