package dto

type CreateOrderRequest struct {
	Purpose string `json:"purpose" binding:"required"`
	JobID   string `json:"job_id"`
}

type OrderResponse struct {
	OrderID  string `json:"order_id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	KeyID    string `json:"key_id"`
}

// PaymentProof is the gateway confirmation block. All three fields must be
// present before the signature is even checked.
type PaymentProof struct {
	OrderID   string `json:"order_id"`
	PaymentID string `json:"payment_id"`
	Signature string `json:"signature"`
}

type ConfirmAndPublishRequest struct {
	Payment  PaymentProof `json:"payment" binding:"required"`
	Job      JobInput     `json:"job" binding:"required"`
	Amount   int64        `json:"amount" binding:"required"`
	Currency string       `json:"currency" binding:"required"`
}

type ConfirmApplicationRequest struct {
	Payment     PaymentProof `json:"payment" binding:"required"`
	JobID       string       `json:"job_id" binding:"required"`
	CoverLetter string       `json:"cover_letter"`
	ResumeURL   string       `json:"resume_url"`
	Amount      int64        `json:"amount" binding:"required"`
	Currency    string       `json:"currency" binding:"required"`
}

type PaymentDTO struct {
	PaymentID     string `json:"payment_id"`
	PaymentType   string `json:"payment_type"`
	Gateway       string `json:"gateway"`
	OrderID       string `json:"order_id"`
	TransactionID string `json:"transaction_id"`
	Amount        int64  `json:"amount"`
	Currency      string `json:"currency"`
	Status        string `json:"status"`
	CreatedAt     string `json:"created_at"`
}

type ListPaymentsResponse struct {
	Payments []PaymentDTO `json:"payments"`
}
