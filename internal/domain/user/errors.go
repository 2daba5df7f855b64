package user

import "errors"

var (
	ErrCompanyIDRequired       = errors.New("company ID is required")
	ErrInvalidClaims           = errors.New("invalid token claims")
	ErrManagerAccessRequired   = errors.New("manager access required")
	ErrInsufficientPermissions = errors.New("insufficient permissions")
)
