package dto

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Response: общий конверт всех ответов API
type Response struct {
	Status  string              `json:"status"`
	Data    interface{}         `json:"data,omitempty"`
	Message string              `json:"message,omitempty"`
	Errors  map[string][]string `json:"errors,omitempty"`
}

func Success(data interface{}, message string) Response {
	return Response{Status: StatusSuccess, Data: data, Message: message}
}

func Failure(message string, errs map[string][]string) Response {
	return Response{Status: StatusError, Message: message, Errors: errs}
}
