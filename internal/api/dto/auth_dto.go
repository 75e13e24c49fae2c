package dto

type RegisterRequest struct {
	Role string `json:"role" binding:"required"`
	Name string `json:"name" binding:"required"`
}

type UserDTO struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Name   string `json:"name"`
	Role   string `json:"role"`
	Active bool   `json:"active"`
}
