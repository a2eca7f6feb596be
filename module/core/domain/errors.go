package domain

import "errors"

var (
	ErrInvalidCoordinate = errors.New("invalid coordinate")
	ErrStorageRead       = errors.New("storage read failure")
	ErrStorageParse      = errors.New("storage parse failure")
	ErrUnknownLabel      = errors.New("unknown reference label")
	ErrHandleNotFound    = errors.New("tracking handle not found")
)
