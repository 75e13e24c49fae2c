package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/hireloop/hireloop-be/internal/api/domain"
	"github.com/hireloop/hireloop-be/internal/api/model"
)

// PaymentExists reports whether a ledger row for the gateway payment id is
// already present. Called before the publish transaction so replayed
// confirmations fail fast; the unique constraint on transaction_id closes
// the race two concurrent confirmations would otherwise win together.
func (s *Storage) PaymentExists(ctx context.Context, transactionID string) (bool, error) {
	var exists bool
	query := `
		SELECT EXISTS (
			SELECT 1 FROM payment_transactions WHERE transaction_id = $1
		)
	`

	if err := s.db.GetContext(ctx, &exists, query, transactionID); err != nil {
		return false, fmt.Errorf("failed to check payment: %w", err)
	}

	return exists, nil
}

const insertPaymentQuery = `
	INSERT INTO payment_transactions (
		payment_id, company_id, job_seeker_id, job_posting_id, application_id,
		payment_type, gateway, order_id, transaction_id, amount,
		currency, status, created_at
	) VALUES (
		$1, $2, $3, $4, $5,
		$6, $7, $8, $9, $10,
		$11, $12, $13
	)
`

// PublishJobWithPayment atomically creates a published posting and its
// ledger entry. Both rows commit together or neither does.
func (s *Storage) PublishJobWithPayment(ctx context.Context, job *model.JobPosting, payment *model.PaymentTransaction) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	insertJob := `
		INSERT INTO job_postings (
			job_id, company_id, title, description, requirements,
			location, job_type, salary_range, status, expires_at,
			created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5,
			$6, $7, $8, $9, $10,
			$11, $12
		)
	`

	_, err = tx.ExecContext(
		ctx,
		insertJob,
		job.JobID,
		job.CompanyID,
		job.Title,
		job.Description,
		job.Requirements,
		job.Location,
		job.JobType,
		job.SalaryRange,
		job.Status,
		job.ExpiresAt,
		job.CreatedAt,
		job.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create job: %w", err)
	}

	if err := execInsertPayment(ctx, tx, payment); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// CreateApplicationWithPayment atomically creates an application and its
// ledger entry. The (job_id, job_seeker_id) unique constraint turns a lost
// race into ErrAlreadyApplied instead of a duplicate application.
func (s *Storage) CreateApplicationWithPayment(ctx context.Context, app *model.JobApplication, payment *model.PaymentTransaction) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	insertApp := `
		INSERT INTO job_applications (
			application_id, job_id, job_seeker_id, cover_letter, resume_url,
			status, applied_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5,
			$6, $7, $8
		)
	`

	_, err = tx.ExecContext(
		ctx,
		insertApp,
		app.ApplicationID,
		app.JobID,
		app.JobSeekerID,
		app.CoverLetter,
		app.ResumeURL,
		app.Status,
		app.AppliedAt,
		app.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err, "uq_job_applications_job_seeker") {
			return domain.ErrAlreadyApplied
		}
		return fmt.Errorf("failed to create application: %w", err)
	}

	if err := execInsertPayment(ctx, tx, payment); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func execInsertPayment(ctx context.Context, tx *sqlx.Tx, payment *model.PaymentTransaction) error {
	_, err := tx.ExecContext(
		ctx,
		insertPaymentQuery,
		payment.PaymentID,
		payment.CompanyID,
		payment.JobSeekerID,
		payment.JobPostingID,
		payment.ApplicationID,
		payment.PaymentType,
		payment.Gateway,
		payment.OrderID,
		payment.TransactionID,
		payment.Amount,
		payment.Currency,
		payment.Status,
		payment.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err, "uq_payment_transactions_transaction_id") {
			return domain.ErrPaymentAlreadyProcessed
		}
		return fmt.Errorf("failed to record payment: %w", err)
	}

	return nil
}

// GetPaymentByTransactionID looks up a ledger row by the gateway payment id.
func (s *Storage) GetPaymentByTransactionID(ctx context.Context, transactionID string) (*model.PaymentTransaction, error) {
	var pt model.PaymentTransaction
	query := `
		SELECT payment_id, company_id, job_seeker_id, job_posting_id, application_id,
		       payment_type, gateway, order_id, transaction_id, amount,
		       currency, status, created_at
		FROM payment_transactions
		WHERE transaction_id = $1
	`

	err := s.db.GetContext(ctx, &pt, query, transactionID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrPaymentNotFound
		}
		return nil, fmt.Errorf("failed to get payment: %w", err)
	}

	return &pt, nil
}

// ListPayments returns ledger rows newest first, optionally filtered by
// payment type. Used by the admin surface.
func (s *Storage) ListPayments(ctx context.Context, paymentType string, limit, offset int) ([]model.PaymentTransaction, error) {
	query := `
		SELECT payment_id, company_id, job_seeker_id, job_posting_id, application_id,
		       payment_type, gateway, order_id, transaction_id, amount,
		       currency, status, created_at
		FROM payment_transactions
		WHERE ($1 = '' OR payment_type = $1)
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	var payments []model.PaymentTransaction
	if err := s.db.SelectContext(ctx, &payments, query, paymentType, limit, offset); err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}

	return payments, nil
}
