package client

import "fmt"

// TransportError reports a request that never produced an HTTP response.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: transport: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// BackendError reports a failure envelope or an error status.
type BackendError struct {
	Op      string
	Status  int
	Message string
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("%s: backend returned %d: %s", e.Op, e.Status, e.Message)
}

// MalformedError reports a response that could not be decoded.
type MalformedError struct {
	Op  string
	Err error
}

func (e *MalformedError) Error() string {
	return fmt.Sprintf("%s: malformed response: %v", e.Op, e.Err)
}

func (e *MalformedError) Unwrap() error {
	return e.Err
}
