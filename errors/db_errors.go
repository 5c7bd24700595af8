// api/errors/db_errors.go
package errors

import "errors"

var (
	ErrDatabaseOperation = errors.New("database operation failed")
	ErrCacheOperation    = errors.New("cache operation failed")
	ErrCacheMiss         = errors.New("cache miss")
)
