package dto

type ListUsersRequest struct {
	Role   string `form:"role"`
	Limit  int    `form:"limit"`
	Offset int    `form:"offset"`
}

type ListUsersResponse struct {
	Users []UserDTO `json:"users"`
}

type SetUserActiveRequest struct {
	Active *bool `json:"active" binding:"required"`
}

type ListPaymentsRequest struct {
	PaymentType string `form:"payment_type"`
	Limit       int    `form:"limit"`
	Offset      int    `form:"offset"`
}
