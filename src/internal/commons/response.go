package commons

import "github.com/pr-poehali-dev/bank-brill-design/src/internal/domain"

type Response[T any] struct {
	Success bool     `json:"success"`
	Message string   `json:"message"`
	Data    *T       `json:"data,omitempty"`
	Errors  []string `json:"errors,omitempty"`
}

func SuccessResponse[T any](message string, data T) Response[T] {
	return Response[T]{
		Success: true,
		Message: message,
		Data:    &data,
	}
}

func ErrorResponse[T any](message string, errors ...string) Response[T] {
	return Response[T]{
		Success: false,
		Message: message,
		Errors:  errors,
	}
}

// RejectionResponse builds an error envelope from a core error. Only the
// user-facing reason is exposed; storage details stay in the logs.
func RejectionResponse[T any](message string, err error) Response[T] {
	return ErrorResponse[T](message, domain.ReasonOf(err, "request could not be completed"))
}
