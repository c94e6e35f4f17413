package errors

import "errors"

var (
	ErrRegionNotFound      = errors.New("region not found")
	ErrAutoServiceNotFound = errors.New("auto service not found")
	ErrMasterNotFound      = errors.New("master not found")
	ErrInvalidID           = errors.New("invalid registry ID format")
)
