package events

// ResultSuccess is the terminal event of a successful turn.
type ResultSuccess struct {
	Base
}

func NewResultSuccess() ResultSuccess {
	return ResultSuccess{Base: NewBase(KindResultSuccess)}
}

// ErrorDetail describes one failure reported by the backend.
type ErrorDetail struct {
	Message string
}

// ResultError is the terminal event of a failed turn.
type ResultError struct {
	Base
	Errors []ErrorDetail
}

func NewResultError(messages ...string) ResultError {
	details := make([]ErrorDetail, 0, len(messages))
	for _, message := range messages {
		details = append(details, ErrorDetail{Message: message})
	}
	return ResultError{Base: NewBase(KindResultError), Errors: details}
}
