package dto

type UploadResponse struct {
	URL string `json:"url"`
	Key string `json:"key"`
}
