package httpdto

// ErrorBody is the payload of every failed request.
type ErrorBody struct {
	Message string `json:"message"`
	Status  int    `json:"status"`
	Code    string `json:"code"`
}

type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

func NewErrorResponse(message string, status int, code string) ErrorResponse {
	return ErrorResponse{
		Error: ErrorBody{
			Message: message,
			Status:  status,
			Code:    code,
		},
	}
}

// PingResponse is returned by GET /ping and GET /health
type PingResponse struct {
	Status string `json:"status"`
}
