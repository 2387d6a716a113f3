package vaultadd

import (
	"errors"
	"fmt"
)

// Stage names a step of a vault add.
type Stage string

const (
	StageResolve     Stage = "resolve"
	StageClassify    Stage = "classify"
	StageMaterialize Stage = "materialize"
	StageReconcile   Stage = "reconcile"
	StagePatchIgnore Stage = "patch-ignore"
	StageReload      Stage = "reload"
)

// StageError reports the step at which a vault add stopped.
type StageError struct {
	Stage Stage
	Cause error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("vault add failed during %s: %v", e.Stage, e.Cause)
}
func (e *StageError) Unwrap() error { return e.Cause }

// StageOf returns the stage a failed Run stopped at, or "" when err did not
// come from Run.
func StageOf(err error) Stage {
	var se *StageError
	if errors.As(err, &se) {
		return se.Stage
	}
	return ""
}
