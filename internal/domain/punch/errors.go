package punch

import "errors"

var (
	ErrPunchRequestNotFound = errors.New("punch request not found")
	ErrNotPending           = errors.New("punch request has already been reviewed")
	ErrUnauthorized         = errors.New("unauthorized to access this punch request")
	ErrFutureDate           = errors.New("punch requests cannot target a future date")
)
