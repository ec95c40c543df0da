package ipqs

import "fmt"

// APIError is returned for transport faults and non-2xx provider replies.
// A 2xx reply with an unparseable body is NOT an APIError: that is a defect
// surfaced as a plain error so callers cannot fail-open over it.
type APIError struct {
	Status  int
	Op      string
	Message string
	// Body holds the provider's structured error when the failure body
	// parsed as one.
	Body *Response
}

func (e *APIError) Error() string {
	msg := fmt.Sprintf("ipqs: error calling %s: HTTP status %d. %s", e.Op, e.Status, e.Message)
	if e.Body != nil {
		msg += fmt.Sprintf(" (success=%t, message=%q, request_id=%q)", e.Body.Success, e.Body.Message, e.Body.RequestID)
	}
	return msg
}
