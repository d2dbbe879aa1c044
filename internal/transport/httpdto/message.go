package httpdto

// SendMessageRequest is used for POST /messages
type SendMessageRequest struct {
	ToUsername string `json:"to_username"`
	Body       string `json:"body"`
}

// MessageResponse wraps a created message, a message detail or a read receipt.
type MessageResponse[T any] struct {
	Message T `json:"message"`
}
