package errors

import (
	"fmt"
)

var (
	ErrNotFound        = fmt.Errorf("not found")
	ErrDuplicateEmail  = fmt.Errorf("duplicate email")
	ErrDuplicateStage  = fmt.Errorf("duplicate stage")
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrNoIntakeStage   = fmt.Errorf("no intake stage configured")
	ErrStageHasMembers = fmt.Errorf("stage has members")
	ErrUnauthorized    = fmt.Errorf("unauthorized")
)
