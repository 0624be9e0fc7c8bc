package dto

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Envelope wraps every JSON response.
type Envelope struct {
	Status  string            `json:"status"`
	Message string            `json:"message,omitempty"`
	Data    interface{}       `json:"data"`
	Error   string            `json:"error,omitempty"`
	Details map[string]string `json:"details,omitempty"`
}

type SuccessResponse struct {
	Success bool `json:"success"`
}
