package adjustment

import "errors"

var (
	ErrAdjustmentNotFound = errors.New("adjustment not found")
	ErrInvalidKind        = errors.New("adjustment kind must be one of: incentive, arrears, fine")
	ErrNotPending         = errors.New("adjustment has already been reviewed")
	ErrAlreadyProcessed   = errors.New("adjustment already consumed by payroll")
)
