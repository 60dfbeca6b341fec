package ldlt

import "errors"

// Errors returned by Factorization methods to report a numerically
// invalid pivot or a violated calling contract. Callers that hit
// ErrNonPositivePivot are expected to treat the solve as failed (the
// qp package surfaces this as qp.StatusNumericFailure), not to retry
// the same factorization.
var (
	// ErrNonPositivePivot is returned when a diagonal pivot produced
	// during Factorize, a rank-r update, an insertion or a deletion is
	// non-finite or smaller in magnitude than the factorization's pivot
	// tolerance.
	ErrNonPositivePivot = errors.New("ldlt: non-positive or non-finite pivot")

	// ErrUnsortedIndices is returned by DeleteAt when the supplied
	// indices are not in strictly increasing order.
	ErrUnsortedIndices = errors.New("ldlt: deletion indices must be sorted and unique")

	// ErrIndexRange is returned when an index passed to DeleteAt,
	// DiagonalUpdate or InsertBlockAt falls outside the valid range.
	ErrIndexRange = errors.New("ldlt: index out of range")
)
