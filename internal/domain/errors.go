package domain

import "errors"

var (
	// ErrNotFound the row does not exist or is outside the caller's scope
	ErrNotFound = errors.New("record not found")
	// ErrDuplicateKey a unique constraint rejected the write
	ErrDuplicateKey = errors.New("duplicate key")
)

// DuplicateKeyError names the column whose unique constraint was violated
// DuplicateKeyError 唯一约束冲突，Field 为冲突字段
type DuplicateKeyError struct {
	Field string
	Err   error
}

func (e *DuplicateKeyError) Error() string {
	if e.Err == nil {
		return "duplicate key: " + e.Field
	}
	return "duplicate key: " + e.Field + ": " + e.Err.Error()
}

// Is makes errors.Is(err, ErrDuplicateKey) match
func (e *DuplicateKeyError) Is(target error) bool {
	return target == ErrDuplicateKey
}

func (e *DuplicateKeyError) Unwrap() error {
	return e.Err
}
