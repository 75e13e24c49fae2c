package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hireloop/hireloop-be/internal/api/domain"
	"github.com/hireloop/hireloop-be/internal/api/model"
)

func newMockStorage(t *testing.T) (*Storage, sqlmock.Sqlmock) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })

	return &Storage{db: sqlx.NewDb(mockDB, "sqlmock")}, mock
}

func publishFixture() (*model.JobPosting, *model.PaymentTransaction) {
	now := time.Now()
	companyID := "7c9e6679-7425-40de-944b-e07fc1f90ae7"
	jobID := "0c6f9f3a-2f4f-4d16-9f6e-6f2a9d1c8b11"

	job := &model.JobPosting{
		JobID:        jobID,
		CompanyID:    companyID,
		Title:        "Engineer",
		Description:  "Build and run our hiring platform",
		Requirements: pq.StringArray{"Go", "PostgreSQL"},
		Location:     "Bengaluru",
		JobType:      domain.JobTypeFullTime,
		Status:       domain.JobStatusPublished,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	payment := &model.PaymentTransaction{
		PaymentID:     "f4b8c0d2-5a1e-4c3b-9d7f-2e6a8b0c4d1e",
		CompanyID:     &companyID,
		JobPostingID:  &jobID,
		PaymentType:   domain.PaymentTypeJobPosting,
		Gateway:       "razorpay",
		OrderID:       "order_abc",
		TransactionID: "pay_xyz",
		Amount:        59900,
		Currency:      "INR",
		Status:        domain.PaymentStatusSuccess,
		CreatedAt:     now,
	}
	return job, payment
}

func applicationFixture() (*model.JobApplication, *model.PaymentTransaction) {
	now := time.Now()
	jobID := "0c6f9f3a-2f4f-4d16-9f6e-6f2a9d1c8b11"
	seekerID := "e902893a-9d22-4eb4-b417-a957b58e2afe"
	appID := "1b4e28ba-2fa1-11d2-883f-0016d3cca427"

	app := &model.JobApplication{
		ApplicationID: appID,
		JobID:         jobID,
		JobSeekerID:   seekerID,
		CoverLetter:   "I would love to work on this.",
		ResumeURL:     "https://cdn.hireloop.example/resumes/abc.pdf",
		Status:        domain.ApplicationStatusApplied,
		AppliedAt:     now,
		UpdatedAt:     now,
	}
	payment := &model.PaymentTransaction{
		PaymentID:     "a2c4e6f8-1b3d-4e5f-8a9b-0c1d2e3f4a5b",
		JobSeekerID:   &seekerID,
		JobPostingID:  &jobID,
		ApplicationID: &appID,
		PaymentType:   domain.PaymentTypeApplicationFee,
		Gateway:       "razorpay",
		OrderID:       "order_app1",
		TransactionID: "pay_app1",
		Amount:        9900,
		Currency:      "INR",
		Status:        domain.PaymentStatusSuccess,
		CreatedAt:     now,
	}
	return app, payment
}

func TestPublishJobWithPayment_Commit(t *testing.T) {
	store, mock := newMockStorage(t)
	job, payment := publishFixture()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO job_postings").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO payment_transactions").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := store.PublishJobWithPayment(context.Background(), job, payment)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// A replayed transaction id trips the ledger unique constraint after the job
// row is already written inside the transaction. The job insert must be
// rolled back, not committed alone.
func TestPublishJobWithPayment_LedgerFailureRollsBack(t *testing.T) {
	store, mock := newMockStorage(t)
	job, payment := publishFixture()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO job_postings").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO payment_transactions").WillReturnError(&pq.Error{
		Code:       "23505",
		Constraint: "uq_payment_transactions_transaction_id",
	})
	mock.ExpectRollback()

	err := store.PublishJobWithPayment(context.Background(), job, payment)
	require.ErrorIs(t, err, domain.ErrPaymentAlreadyProcessed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateApplicationWithPayment_LedgerFailureRollsBack(t *testing.T) {
	store, mock := newMockStorage(t)
	app, payment := applicationFixture()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO job_applications").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO payment_transactions").WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	err := store.CreateApplicationWithPayment(context.Background(), app, payment)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to record payment")
	assert.NoError(t, mock.ExpectationsWereMet())
}

// A lost race on (job_id, job_seeker_id) surfaces as ErrAlreadyApplied and
// never reaches the ledger insert.
func TestCreateApplicationWithPayment_DuplicateSeekerRollsBack(t *testing.T) {
	store, mock := newMockStorage(t)
	app, payment := applicationFixture()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO job_applications").WillReturnError(&pq.Error{
		Code:       "23505",
		Constraint: "uq_job_applications_job_seeker",
	})
	mock.ExpectRollback()

	err := store.CreateApplicationWithPayment(context.Background(), app, payment)
	require.ErrorIs(t, err, domain.ErrAlreadyApplied)
	assert.NoError(t, mock.ExpectationsWereMet())
}
