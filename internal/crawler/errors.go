package crawler

import "errors"

// Fetch errors.
// HTTP error statuses are not errors: they are recorded on the page and
// classified during traversal.
var (
	// ErrTransport is returned when a request could not be completed:
	// DNS, connection, TLS, timeout or cancellation failures.
	ErrTransport = errors.New("transport failure")

	// ErrContentType is returned when a response declares a content type
	// other than text/html.
	ErrContentType = errors.New("unexpected content type")
)
