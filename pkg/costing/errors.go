package costing

import (
	"errors"
	"fmt"
)

// ErrNilRequest signals that a calculation was invoked without a request.
var ErrNilRequest = errors.New("costing: nil batch request")

// ErrInvalidRequest signals that a request failed structural validation
// before any aggregation ran. The wrapping error names the offending field.
var ErrInvalidRequest = errors.New("costing: invalid batch request")

// UnresolvableOutputError is the fatal domain error raised when output
// resolution produces zero sellable units. It records which resolution
// path failed so the caller can diagnose the request.
type UnresolvableOutputError struct {
	WeightBased bool
	Detail      string
}

func (e *UnresolvableOutputError) Error() string {
	path := "waste-based"
	if e.WeightBased {
		path = "weight-based"
	}
	return fmt.Sprintf("costing: unresolvable output (%s): %s", path, e.Detail)
}
