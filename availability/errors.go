package availability

import "fmt"

// ValidationError reports a malformed or semantically invalid search query.
// It is returned synchronously and never retried internally.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ResolutionError reports an underlying store failure while resolving a
// search. Distinct from an empty result, which is a valid success.
type ResolutionError struct {
	Op  string
	Err error
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *ResolutionError) Unwrap() error {
	return e.Err
}
