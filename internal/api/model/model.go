package model

import (
	"time"

	"github.com/lib/pq"
)

type User struct {
	UserID      string    `db:"user_id"`
	AuthSubject string    `db:"auth_subject"`
	Email       string    `db:"email"`
	Name        string    `db:"name"`
	Role        string    `db:"role"`
	Active      bool      `db:"active"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

type Company struct {
	CompanyID   string    `db:"company_id"`
	OwnerUserID string    `db:"owner_user_id"`
	Name        string    `db:"name"`
	Description string    `db:"description"`
	Website     string    `db:"website"`
	Location    string    `db:"location"`
	LogoURL     string    `db:"logo_url"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

type JobPosting struct {
	JobID        string         `db:"job_id"`
	CompanyID    string         `db:"company_id"`
	Title        string         `db:"title"`
	Description  string         `db:"description"`
	Requirements pq.StringArray `db:"requirements"`
	Location     string         `db:"location"`
	JobType      string         `db:"job_type"`
	SalaryRange  string         `db:"salary_range"`
	Status       string         `db:"status"`
	ExpiresAt    *time.Time     `db:"expires_at"`
	CreatedAt    time.Time      `db:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at"`
}

type JobApplication struct {
	ApplicationID string    `db:"application_id"`
	JobID         string    `db:"job_id"`
	JobSeekerID   string    `db:"job_seeker_id"`
	CoverLetter   string    `db:"cover_letter"`
	ResumeURL     string    `db:"resume_url"`
	Status        string    `db:"status"`
	AppliedAt     time.Time `db:"applied_at"`
	UpdatedAt     time.Time `db:"updated_at"`
}

type SavedJob struct {
	UserID    string    `db:"user_id"`
	JobID     string    `db:"job_id"`
	CreatedAt time.Time `db:"created_at"`
}

// PaymentTransaction is an append-only ledger row. A SUCCESS row is only ever
// written in the same transaction as the record it funded.
type PaymentTransaction struct {
	PaymentID     string    `db:"payment_id"`
	CompanyID     *string   `db:"company_id"`
	JobSeekerID   *string   `db:"job_seeker_id"`
	JobPostingID  *string   `db:"job_posting_id"`
	ApplicationID *string   `db:"application_id"`
	PaymentType   string    `db:"payment_type"`
	Gateway       string    `db:"gateway"`
	OrderID       string    `db:"order_id"`
	TransactionID string    `db:"transaction_id"`
	Amount        int64     `db:"amount"`
	Currency      string    `db:"currency"`
	Status        string    `db:"status"`
	CreatedAt     time.Time `db:"created_at"`
}

type Notification struct {
	NotificationID  string     `db:"notification_id"`
	RecipientUserID string     `db:"recipient_user_id"`
	Kind            string     `db:"kind"`
	Payload         []byte     `db:"payload"`
	Status          string     `db:"status"`
	ErrorMessage    string     `db:"error_message"`
	CreatedAt       time.Time  `db:"created_at"`
	SentAt          *time.Time `db:"sent_at"`
}
