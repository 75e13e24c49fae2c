package dto

type UpdateApplicationStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type ApplicationDTO struct {
	ApplicationID string `json:"application_id"`
	JobID         string `json:"job_id"`
	JobSeekerID   string `json:"job_seeker_id"`
	CoverLetter   string `json:"cover_letter"`
	ResumeURL     string `json:"resume_url"`
	Status        string `json:"status"`
	AppliedAt     string `json:"applied_at"`
	UpdatedAt     string `json:"updated_at"`
}

type ListApplicationsResponse struct {
	Applications []ApplicationDTO `json:"applications"`
}
