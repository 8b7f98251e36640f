package engine

import "fmt"

// UpstreamError is a non-2xx reply from the query engine API.
type UpstreamError struct {
	Status  int
	Message string
}

func (e *UpstreamError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("query engine error: status=%d message=%s", e.Status, e.Message)
	}
	return fmt.Sprintf("query engine error: status=%d", e.Status)
}
