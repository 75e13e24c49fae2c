package domain

// User roles, issued by the identity provider as a namespaced claim.
const (
	RoleCompany   = "COMPANY"
	RoleJobSeeker = "JOB_SEEKER"
	RoleAdmin     = "ADMIN"
)

// Job posting lifecycle.
const (
	JobStatusDraft     = "DRAFT"
	JobStatusPublished = "PUBLISHED"
	JobStatusClosed    = "CLOSED"
)

// Job types accepted on posting creation.
const (
	JobTypeFullTime   = "FULL_TIME"
	JobTypePartTime   = "PART_TIME"
	JobTypeContract   = "CONTRACT"
	JobTypeInternship = "INTERNSHIP"
)

// Application lifecycle.
const (
	ApplicationStatusApplied   = "APPLIED"
	ApplicationStatusInterview = "INTERVIEW"
	ApplicationStatusHired     = "HIRED"
	ApplicationStatusRejected  = "REJECTED"
)

// Payment ledger entries.
const (
	PaymentTypeJobPosting     = "JOB_POSTING"
	PaymentTypeApplicationFee = "APPLICATION_FEE"

	PaymentStatusSuccess = "SUCCESS"
	PaymentStatusFailed  = "FAILED"
)

// ValidJobType reports whether t is an accepted job type.
func ValidJobType(t string) bool {
	switch t {
	case JobTypeFullTime, JobTypePartTime, JobTypeContract, JobTypeInternship:
		return true
	}
	return false
}

// ValidApplicationTransition reports whether an application may move from one
// status to another. HIRED and REJECTED are terminal.
func ValidApplicationTransition(from, to string) bool {
	switch from {
	case ApplicationStatusApplied:
		return to == ApplicationStatusInterview || to == ApplicationStatusRejected
	case ApplicationStatusInterview:
		return to == ApplicationStatusHired || to == ApplicationStatusRejected
	}
	return false
}
