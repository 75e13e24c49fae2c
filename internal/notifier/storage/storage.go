package storage

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"
)

// Notification statuses.
const (
	StatusPending = "PENDING"
	StatusSent    = "SENT"
	StatusFailed  = "FAILED"
)

// Storage handles all database operations for the notifier
type Storage struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// NewStorage creates a new Storage instance
func NewStorage(db *sqlx.DB, logger *slog.Logger) *Storage {
	return &Storage{
		db:     db,
		logger: logger,
	}
}

// CreateNotification inserts a PENDING notification row for the event.
func (s *Storage) CreateNotification(ctx context.Context, notificationID, recipientUserID, kind string, payload []byte) error {
	query := `
		INSERT INTO notifications (
			notification_id, recipient_user_id, kind, payload, status, created_at
		) VALUES (
			$1, $2, $3, $4, $5, NOW()
		)
	`

	_, err := s.db.ExecContext(ctx, query, notificationID, recipientUserID, kind, payload, StatusPending)
	if err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}

	return nil
}

// MarkSent records a successful delivery.
func (s *Storage) MarkSent(ctx context.Context, notificationID string) error {
	query := `
		UPDATE notifications
		SET status = $1,
		    sent_at = NOW()
		WHERE notification_id = $2
	`

	_, err := s.db.ExecContext(ctx, query, StatusSent, notificationID)
	if err != nil {
		return fmt.Errorf("failed to mark notification sent: %w", err)
	}

	s.logger.Debug("Notification marked sent",
		slog.String("notification_id", notificationID),
	)

	return nil
}

// MarkFailed records a failed delivery with the error detail.
func (s *Storage) MarkFailed(ctx context.Context, notificationID, errorMsg string) error {
	query := `
		UPDATE notifications
		SET status = $1,
		    error_message = $2
		WHERE notification_id = $3
	`

	_, err := s.db.ExecContext(ctx, query, StatusFailed, errorMsg, notificationID)
	if err != nil {
		return fmt.Errorf("failed to mark notification failed: %w", err)
	}

	return nil
}
