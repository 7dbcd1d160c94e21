package agents

import "fmt"

// StatusError is a backend failure that carries the upstream status code, so
// retry policies can distinguish rate limiting and unavailability from
// permanent failures.
type StatusError struct {
	Status  int
	Message string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("backend returned status %d: %s", e.Status, e.Message)
}

func (e *StatusError) StatusCode() int {
	return e.Status
}
