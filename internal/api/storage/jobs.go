package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/hireloop/hireloop-be/internal/api/domain"
	"github.com/hireloop/hireloop-be/internal/api/model"
)

// JobCursor is the keyset pagination position: jobs are ordered by
// (created_at DESC, job_id DESC).
type JobCursor struct {
	CreatedAt time.Time
	JobID     string
}

// JobFilter narrows ListJobs. Status is set by the handler: public listings
// only ever see PUBLISHED.
type JobFilter struct {
	CompanyID string
	JobType   string
	Location  string
	Status    string
	Search    string
	PageSize  int
	Cursor    *JobCursor
}

func (s *Storage) CreateJob(ctx context.Context, job *model.JobPosting) error {
	query := `
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

	_, err := s.db.ExecContext(
		ctx,
		query,
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

	return nil
}

func (s *Storage) GetJobByID(ctx context.Context, jobID string) (*model.JobPosting, error) {
	var job model.JobPosting
	query := `
		SELECT job_id, company_id, title, description, requirements,
		       location, job_type, salary_range, status, expires_at,
		       created_at, updated_at
		FROM job_postings
		WHERE job_id = $1
	`

	err := s.db.GetContext(ctx, &job, query, jobID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrJobNotFound
		}
		return nil, fmt.Errorf("failed to get job: %w", err)
	}

	return &job, nil
}

// UpdateJob rewrites the mutable fields of a posting. company_id is fixed at
// creation and never touched here.
func (s *Storage) UpdateJob(ctx context.Context, job *model.JobPosting) error {
	query := `
		UPDATE job_postings
		SET title = $1,
		    description = $2,
		    requirements = $3,
		    location = $4,
		    job_type = $5,
		    salary_range = $6,
		    expires_at = $7,
		    updated_at = NOW()
		WHERE job_id = $8
	`

	result, err := s.db.ExecContext(
		ctx,
		query,
		job.Title,
		job.Description,
		job.Requirements,
		job.Location,
		job.JobType,
		job.SalaryRange,
		job.ExpiresAt,
		job.JobID,
	)
	if err != nil {
		return fmt.Errorf("failed to update job: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return domain.ErrJobNotFound
	}

	return nil
}

func (s *Storage) UpdateJobStatus(ctx context.Context, jobID, status string) error {
	query := `UPDATE job_postings SET status = $1, updated_at = NOW() WHERE job_id = $2`

	result, err := s.db.ExecContext(ctx, query, status, jobID)
	if err != nil {
		return fmt.Errorf("failed to update job status: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return domain.ErrJobNotFound
	}

	return nil
}

func (s *Storage) ListJobs(ctx context.Context, filter JobFilter) ([]model.JobPosting, error) {
	query := `
		SELECT job_id, company_id, title, description, requirements,
		       location, job_type, salary_range, status, expires_at,
		       created_at, updated_at
		FROM job_postings
		WHERE 1=1
	`
	args := []interface{}{}
	argIdx := 1

	if filter.Status != "" {
		query += fmt.Sprintf(" AND status = $%d", argIdx)
		args = append(args, filter.Status)
		argIdx++
	}

	if filter.CompanyID != "" {
		query += fmt.Sprintf(" AND company_id = $%d", argIdx)
		args = append(args, filter.CompanyID)
		argIdx++
	}

	if filter.JobType != "" {
		query += fmt.Sprintf(" AND job_type = $%d", argIdx)
		args = append(args, filter.JobType)
		argIdx++
	}

	if filter.Location != "" {
		query += fmt.Sprintf(" AND location ILIKE $%d", argIdx)
		args = append(args, "%"+filter.Location+"%")
		argIdx++
	}

	if filter.Search != "" {
		query += fmt.Sprintf(" AND (title ILIKE $%d OR description ILIKE $%d)", argIdx, argIdx)
		args = append(args, "%"+filter.Search+"%")
		argIdx++
	}

	if filter.Cursor != nil {
		query += fmt.Sprintf(" AND (created_at, job_id) < ($%d, $%d)", argIdx, argIdx+1)
		args = append(args, filter.Cursor.CreatedAt, filter.Cursor.JobID)
		argIdx += 2
	}

	// Order matches the cursor so pagination stays consistent
	query += " ORDER BY created_at DESC, job_id DESC"

	// Fetch one extra to determine if there are more results
	query += fmt.Sprintf(" LIMIT $%d", argIdx)
	args = append(args, filter.PageSize+1)

	var jobs []model.JobPosting
	if err := s.db.SelectContext(ctx, &jobs, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}

	return jobs, nil
}

// --- saved jobs ---

func (s *Storage) SaveJob(ctx context.Context, userID, jobID string) error {
	query := `INSERT INTO saved_jobs (user_id, job_id, created_at) VALUES ($1, $2, NOW())`

	_, err := s.db.ExecContext(ctx, query, userID, jobID)
	if err != nil {
		if isUniqueViolation(err, "uq_saved_jobs_user_job") {
			return domain.ErrAlreadySaved
		}
		return fmt.Errorf("failed to save job: %w", err)
	}

	return nil
}

func (s *Storage) UnsaveJob(ctx context.Context, userID, jobID string) error {
	query := `DELETE FROM saved_jobs WHERE user_id = $1 AND job_id = $2`

	if _, err := s.db.ExecContext(ctx, query, userID, jobID); err != nil {
		return fmt.Errorf("failed to unsave job: %w", err)
	}

	return nil
}

// ListSavedJobs returns the caller's saved postings, newest saved first.
func (s *Storage) ListSavedJobs(ctx context.Context, userID string) ([]model.JobPosting, error) {
	query := `
		SELECT j.job_id, j.company_id, j.title, j.description, j.requirements,
		       j.location, j.job_type, j.salary_range, j.status, j.expires_at,
		       j.created_at, j.updated_at
		FROM saved_jobs s
		JOIN job_postings j ON j.job_id = s.job_id
		WHERE s.user_id = $1
		ORDER BY s.created_at DESC
	`

	var jobs []model.JobPosting
	if err := s.db.SelectContext(ctx, &jobs, query, userID); err != nil {
		return nil, fmt.Errorf("failed to list saved jobs: %w", err)
	}

	return jobs, nil
}
