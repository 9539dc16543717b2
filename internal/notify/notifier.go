// Package notify delivers run results to external channels. Notifications are
// dispatched to all registered senders; a single sender failure never aborts
// a run, since the export file is already on disk by the time we get here.
package notify

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// Sender is the interface that each notification channel must implement.
type Sender interface {
	// Send delivers a plain text notification.
	Send(ctx context.Context, title, message string) error
	// SendFile delivers a notification with the given file attached.
	SendFile(ctx context.Context, title, message, filePath string) error
	// Name returns a human-readable identifier for the sender (e.g. "discord").
	Name() string
}

// Notifier dispatches notifications to one or more Senders.
type Notifier struct {
	senders []Sender
	logger  *slog.Logger
}

// NewNotifier creates a Notifier that will deliver to the given senders. A
// Notifier with no senders is valid and silently drops everything.
func NewNotifier(senders []Sender, logger *slog.Logger) *Notifier {
	return &Notifier{
		senders: senders,
		logger:  logger.With(slog.String("component", "notifier")),
	}
}

// Enabled reports whether at least one sender is registered.
func (n *Notifier) Enabled() bool {
	return len(n.senders) > 0
}

// Notify sends a plain text notification to all senders.
func (n *Notifier) Notify(ctx context.Context, title, message string) error {
	return n.dispatch(ctx, func(s Sender) error {
		return s.Send(ctx, title, message)
	})
}

// NotifyFile sends a notification with a file attachment to all senders.
func (n *Notifier) NotifyFile(ctx context.Context, title, message, filePath string) error {
	return n.dispatch(ctx, func(s Sender) error {
		return s.SendFile(ctx, title, message, filePath)
	})
}

// dispatch iterates over all senders and applies fn. Errors from individual
// senders are collected and returned as a combined error; a single sender
// failure does not prevent delivery to the remaining senders.
func (n *Notifier) dispatch(ctx context.Context, fn func(Sender) error) error {
	if len(n.senders) == 0 {
		return nil
	}

	var errs []string
	for _, s := range n.senders {
		if err := fn(s); err != nil {
			n.logger.ErrorContext(ctx, "sender failed",
				slog.String("sender", s.Name()),
				slog.String("error", err.Error()),
			)
			errs = append(errs, fmt.Sprintf("%s: %v", s.Name(), err))
		} else {
			n.logger.DebugContext(ctx, "notification sent",
				slog.String("sender", s.Name()),
			)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("notify: %d sender(s) failed: %s", len(errs), strings.Join(errs, "; "))
	}
	return nil
}
