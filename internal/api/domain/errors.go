package domain

import "errors"

var (
	// ErrUserNotFound is returned when no local user row exists for a principal.
	ErrUserNotFound = errors.New("user not found")

	// ErrCompanyNotFound is returned when a company cannot be found.
	ErrCompanyNotFound = errors.New("company not found")

	// ErrJobNotFound is returned when a job posting cannot be found.
	ErrJobNotFound = errors.New("job not found")

	// ErrApplicationNotFound is returned when an application cannot be found.
	ErrApplicationNotFound = errors.New("application not found")

	// ErrAlreadyApplied is returned when a job seeker already has an
	// application for the job.
	ErrAlreadyApplied = errors.New("already applied for this job")

	// ErrPaymentAlreadyProcessed is returned when a gateway payment id has
	// already funded a record. Confirmation replays hit this.
	ErrPaymentAlreadyProcessed = errors.New("payment already processed")

	// ErrPaymentNotFound is returned when no ledger row matches.
	ErrPaymentNotFound = errors.New("payment not found")

	// ErrNotOwner is returned when the caller does not own the target record.
	ErrNotOwner = errors.New("caller does not own this resource")

	// ErrAlreadySaved is returned when a job is already on the caller's
	// saved list.
	ErrAlreadySaved = errors.New("job already saved")
)
