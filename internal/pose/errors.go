package pose

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedRecord is matched by every *MalformedRecordError.
	ErrMalformedRecord = errors.New("malformed pose record")
	// ErrDegenerateQuaternion indicates a zero-length or non-finite quaternion.
	ErrDegenerateQuaternion = errors.New("degenerate quaternion")
	// ErrNonUnitQuaternion is returned under PolicyStrict for quaternions
	// whose norm is not within UnitNormTolerance of 1.
	ErrNonUnitQuaternion = errors.New("quaternion is not unit length")
)

// MalformedRecordError reports a pose-log line that could not be turned into
// a transform. Line is 1-based and counts every physical line of the input,
// including blanks and comments.
type MalformedRecordError struct {
	Line   int
	Reason string
	Err    error
}

func (e *MalformedRecordError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("line %d: %s: %s: %v", e.Line, ErrMalformedRecord, e.Reason, e.Err)
	}
	return fmt.Sprintf("line %d: %s: %s", e.Line, ErrMalformedRecord, e.Reason)
}

// Is reports whether target is ErrMalformedRecord.
func (e *MalformedRecordError) Is(target error) bool {
	return target == ErrMalformedRecord
}

func (e *MalformedRecordError) Unwrap() error {
	return e.Err
}
