package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/hireloop/hireloop-be/internal/api/domain"
	"github.com/hireloop/hireloop-be/internal/api/model"
)

func (s *Storage) GetApplicationByID(ctx context.Context, applicationID string) (*model.JobApplication, error) {
	var app model.JobApplication
	query := `
		SELECT application_id, job_id, job_seeker_id, cover_letter, resume_url,
		       status, applied_at, updated_at
		FROM job_applications
		WHERE application_id = $1
	`

	err := s.db.GetContext(ctx, &app, query, applicationID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrApplicationNotFound
		}
		return nil, fmt.Errorf("failed to get application: %w", err)
	}

	return &app, nil
}

// HasApplied reports whether the job seeker already has an application row
// for the job. The unique constraint is the backstop; this pre-check gives
// the caller a clean error before any payment work happens.
func (s *Storage) HasApplied(ctx context.Context, jobID, jobSeekerID string) (bool, error) {
	var exists bool
	query := `
		SELECT EXISTS (
			SELECT 1 FROM job_applications WHERE job_id = $1 AND job_seeker_id = $2
		)
	`

	if err := s.db.GetContext(ctx, &exists, query, jobID, jobSeekerID); err != nil {
		return false, fmt.Errorf("failed to check application: %w", err)
	}

	return exists, nil
}

func (s *Storage) ListApplicationsBySeeker(ctx context.Context, jobSeekerID string) ([]model.JobApplication, error) {
	query := `
		SELECT application_id, job_id, job_seeker_id, cover_letter, resume_url,
		       status, applied_at, updated_at
		FROM job_applications
		WHERE job_seeker_id = $1
		ORDER BY applied_at DESC
	`

	var apps []model.JobApplication
	if err := s.db.SelectContext(ctx, &apps, query, jobSeekerID); err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}

	return apps, nil
}

func (s *Storage) ListApplicationsByJob(ctx context.Context, jobID string) ([]model.JobApplication, error) {
	query := `
		SELECT application_id, job_id, job_seeker_id, cover_letter, resume_url,
		       status, applied_at, updated_at
		FROM job_applications
		WHERE job_id = $1
		ORDER BY applied_at DESC
	`

	var apps []model.JobApplication
	if err := s.db.SelectContext(ctx, &apps, query, jobID); err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}

	return apps, nil
}

func (s *Storage) UpdateApplicationStatus(ctx context.Context, applicationID, status string) error {
	query := `UPDATE job_applications SET status = $1, updated_at = NOW() WHERE application_id = $2`

	result, err := s.db.ExecContext(ctx, query, status, applicationID)
	if err != nil {
		return fmt.Errorf("failed to update application status: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return domain.ErrApplicationNotFound
	}

	return nil
}
