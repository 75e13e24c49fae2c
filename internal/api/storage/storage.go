package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/hireloop/hireloop-be/internal/api/domain"
	"github.com/hireloop/hireloop-be/internal/api/model"
	"github.com/hireloop/hireloop-be/shared/postgresql"
)

type Storage struct {
	db *sqlx.DB
}

func NewStorage(pg *postgresql.Client) *Storage {
	return &Storage{
		db: pg.GetDB(),
	}
}

// isUniqueViolation reports whether err is a violation of the named unique
// constraint. An empty constraint matches any unique violation.
func isUniqueViolation(err error, constraint string) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	if pqErr.Code != "23505" {
		return false
	}
	return constraint == "" || pqErr.Constraint == constraint
}

// --- users ---

func (s *Storage) UpsertUser(ctx context.Context, user *model.User) error {
	query := `
		INSERT INTO users (
			user_id, auth_subject, email, name, role, active, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8
		)
		ON CONFLICT (auth_subject) DO UPDATE
		SET email = EXCLUDED.email,
		    name = EXCLUDED.name,
		    role = EXCLUDED.role,
		    updated_at = EXCLUDED.updated_at
	`

	_, err := s.db.ExecContext(
		ctx,
		query,
		user.UserID,
		user.AuthSubject,
		user.Email,
		user.Name,
		user.Role,
		user.Active,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert user: %w", err)
	}

	return nil
}

func (s *Storage) GetUserBySubject(ctx context.Context, subject string) (*model.User, error) {
	var user model.User
	query := `
		SELECT user_id, auth_subject, email, name, role, active, created_at, updated_at
		FROM users
		WHERE auth_subject = $1
	`

	err := s.db.GetContext(ctx, &user, query, subject)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return &user, nil
}

func (s *Storage) GetUserByID(ctx context.Context, userID string) (*model.User, error) {
	var user model.User
	query := `
		SELECT user_id, auth_subject, email, name, role, active, created_at, updated_at
		FROM users
		WHERE user_id = $1
	`

	err := s.db.GetContext(ctx, &user, query, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return &user, nil
}

func (s *Storage) SetUserActive(ctx context.Context, userID string, active bool) error {
	query := `UPDATE users SET active = $1, updated_at = NOW() WHERE user_id = $2`

	result, err := s.db.ExecContext(ctx, query, active, userID)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return domain.ErrUserNotFound
	}

	return nil
}

func (s *Storage) ListUsers(ctx context.Context, role string, limit, offset int) ([]model.User, error) {
	query := `
		SELECT user_id, auth_subject, email, name, role, active, created_at, updated_at
		FROM users
		WHERE ($1 = '' OR role = $1)
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	var users []model.User
	if err := s.db.SelectContext(ctx, &users, query, role, limit, offset); err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	return users, nil
}

// --- companies ---

func (s *Storage) CreateCompany(ctx context.Context, company *model.Company) error {
	query := `
		INSERT INTO companies (
			company_id, owner_user_id, name, description, website,
			location, logo_url, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5,
			$6, $7, $8, $9
		)
	`

	_, err := s.db.ExecContext(
		ctx,
		query,
		company.CompanyID,
		company.OwnerUserID,
		company.Name,
		company.Description,
		company.Website,
		company.Location,
		company.LogoURL,
		company.CreatedAt,
		company.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create company: %w", err)
	}

	return nil
}

func (s *Storage) GetCompanyByID(ctx context.Context, companyID string) (*model.Company, error) {
	var company model.Company
	query := `
		SELECT company_id, owner_user_id, name, description, website,
		       location, logo_url, created_at, updated_at
		FROM companies
		WHERE company_id = $1
	`

	err := s.db.GetContext(ctx, &company, query, companyID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrCompanyNotFound
		}
		return nil, fmt.Errorf("failed to get company: %w", err)
	}

	return &company, nil
}

// GetCompanyByOwner returns the company owned by the given user.
func (s *Storage) GetCompanyByOwner(ctx context.Context, ownerUserID string) (*model.Company, error) {
	var company model.Company
	query := `
		SELECT company_id, owner_user_id, name, description, website,
		       location, logo_url, created_at, updated_at
		FROM companies
		WHERE owner_user_id = $1
	`

	err := s.db.GetContext(ctx, &company, query, ownerUserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrCompanyNotFound
		}
		return nil, fmt.Errorf("failed to get company: %w", err)
	}

	return &company, nil
}

func (s *Storage) UpdateCompany(ctx context.Context, company *model.Company) error {
	query := `
		UPDATE companies
		SET name = $1,
		    description = $2,
		    website = $3,
		    location = $4,
		    logo_url = $5,
		    updated_at = NOW()
		WHERE company_id = $6
	`

	result, err := s.db.ExecContext(
		ctx,
		query,
		company.Name,
		company.Description,
		company.Website,
		company.Location,
		company.LogoURL,
		company.CompanyID,
	)
	if err != nil {
		return fmt.Errorf("failed to update company: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return domain.ErrCompanyNotFound
	}

	return nil
}

func (s *Storage) ListCompanies(ctx context.Context, limit, offset int) ([]model.Company, error) {
	query := `
		SELECT company_id, owner_user_id, name, description, website,
		       location, logo_url, created_at, updated_at
		FROM companies
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`

	var companies []model.Company
	if err := s.db.SelectContext(ctx, &companies, query, limit, offset); err != nil {
		return nil, fmt.Errorf("failed to list companies: %w", err)
	}

	return companies, nil
}
