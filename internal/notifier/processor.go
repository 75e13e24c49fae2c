package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
)

// process turns one event into a notification row. The insert may fail
// transiently (connection loss), in which case the event is requeued; a
// delivery failure is terminal and recorded on the row instead.
func (n *Notifier) process(ctx context.Context, msg *eventMessage) error {
	event := msg.Event

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedEvent, err)
	}

	notificationID := uuid.New().String()
	if err := n.storage.CreateNotification(ctx, notificationID, event.RecipientUserID, event.Kind, payload); err != nil {
		return NewRetryableError(fmt.Errorf("failed to store notification: %w", err))
	}

	sendCtx, cancel := context.WithTimeout(ctx, n.sendTimeout)
	defer cancel()

	if err := n.deliver(sendCtx, notificationID, event.Kind, event.RecipientUserID); err != nil {
		if markErr := n.storage.MarkFailed(ctx, notificationID, err.Error()); markErr != nil {
			n.logger.Error("Failed to mark notification failed",
				slog.String("notification_id", notificationID),
				slog.String("error", markErr.Error()),
			)
		}
		// The failure is recorded; ack so the event does not loop
		return nil
	}

	if err := n.storage.MarkSent(ctx, notificationID); err != nil {
		n.logger.Error("Failed to mark notification sent",
			slog.String("notification_id", notificationID),
			slog.String("error", err.Error()),
		)
		// Delivery happened; still ack
		return nil
	}

	n.logger.Info("Notification delivered",
		slog.String("notification_id", notificationID),
		slog.String("kind", event.Kind),
		slog.String("recipient", event.RecipientUserID),
	)

	return nil
}

// deliver pushes the notification to the user-facing channel. The in-app feed
// reads straight from the notifications table, so delivery is a checkpoint
// here; an email or push integration would slot in behind this call.
func (n *Notifier) deliver(ctx context.Context, notificationID, kind, recipient string) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("delivery canceled: %w", ctx.Err())
	default:
	}

	n.logger.Debug("Delivering notification",
		slog.String("notification_id", notificationID),
		slog.String("kind", kind),
		slog.String("recipient", recipient),
	)

	return nil
}
