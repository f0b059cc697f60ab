package cache

import (
	"fmt"
)

// CacheError wraps a failed cache backend operation.
type CacheError struct {
	Operation string
	Key       string
	Err       error
}

func NewCacheError(operation, key string, err error) *CacheError {
	return &CacheError{
		Operation: operation,
		Key:       key,
		Err:       err,
	}
}

func (e *CacheError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("cache operation %s failed for key %s: %v", e.Operation, e.Key, e.Err)
	}
	return fmt.Sprintf("cache operation %s failed: %v", e.Operation, e.Err)
}

func (e *CacheError) Unwrap() error {
	return e.Err
}
