package mediavault

import (
	"context"
	"log/slog"
)

// NoopEventSink is a no-operation implementation of EventSink
// Useful for production when you don't need event handling or for testing
type NoopEventSink struct{}

// NewNoopEventSink creates a new no-operation event sink
func NewNoopEventSink() EventSink {
	return &NoopEventSink{}
}

// MediaAdded does nothing and returns nil
func (n *NoopEventSink) MediaAdded(ctx context.Context, media *Media) error {
	return nil
}

// MediaTrashed does nothing and returns nil
func (n *NoopEventSink) MediaTrashed(ctx context.Context, media *Media) error {
	return nil
}

// MediaRestored does nothing and returns nil
func (n *NoopEventSink) MediaRestored(ctx context.Context, media *Media) error {
	return nil
}

// MediaDeleted does nothing and returns nil
func (n *NoopEventSink) MediaDeleted(ctx context.Context, id int64) error {
	return nil
}

// LoggingEventSink is an event sink that logs events but takes no other action
// Useful for development and debugging
type LoggingEventSink struct {
	logger *slog.Logger
}

// NewLoggingEventSink creates a new logging event sink. A nil logger uses
// slog.Default.
func NewLoggingEventSink(logger *slog.Logger) EventSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &LoggingEventSink{logger: logger}
}

// MediaAdded logs the media creation event
func (l *LoggingEventSink) MediaAdded(ctx context.Context, media *Media) error {
	l.logger.Info("media added", "id", media.ID, "name", media.Name, "kind", media.Kind)
	return nil
}

// MediaTrashed logs the soft-delete event
func (l *LoggingEventSink) MediaTrashed(ctx context.Context, media *Media) error {
	l.logger.Info("media trashed", "id", media.ID, "name", media.Name, "location", media.Location)
	return nil
}

// MediaRestored logs the restore event
func (l *LoggingEventSink) MediaRestored(ctx context.Context, media *Media) error {
	l.logger.Info("media restored", "id", media.ID, "name", media.Name, "location", media.Location)
	return nil
}

// MediaDeleted logs the permanent delete event
func (l *LoggingEventSink) MediaDeleted(ctx context.Context, id int64) error {
	l.logger.Info("media deleted", "id", id)
	return nil
}
