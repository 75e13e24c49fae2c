package dto

// JobInput carries the posting fields. Drafts take it directly; the
// confirm-and-publish payload embeds it next to the payment block.
type JobInput struct {
	Title        string   `json:"title" binding:"required"`
	Description  string   `json:"description" binding:"required"`
	Requirements []string `json:"requirements"`
	Location     string   `json:"location" binding:"required"`
	JobType      string   `json:"job_type" binding:"required"`
	SalaryRange  string   `json:"salary_range"`
	ExpiresAt    string   `json:"expires_at"`
}

type ListJobsRequest struct {
	CompanyID string `form:"company_id"`
	JobType   string `form:"job_type"`
	Location  string `form:"location"`
	Search    string `form:"search"`
	PageSize  int    `form:"page_size"`
	Cursor    string `form:"cursor"`
}

type ListJobsResponse struct {
	Jobs       []JobDTO `json:"jobs"`
	NextCursor string   `json:"next_cursor,omitempty"`
}

type JobDTO struct {
	JobID        string   `json:"job_id"`
	CompanyID    string   `json:"company_id"`
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Requirements []string `json:"requirements"`
	Location     string   `json:"location"`
	JobType      string   `json:"job_type"`
	SalaryRange  string   `json:"salary_range"`
	Status       string   `json:"status"`
	ExpiresAt    string   `json:"expires_at,omitempty"`
	CreatedAt    string   `json:"created_at"`
	UpdatedAt    string   `json:"updated_at"`
}
