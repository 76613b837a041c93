package deploy

import "fmt"

// StepError reports the step a push stopped at. Steps after it were not attempted
// and nothing before it was undone.
type StepError struct {
	Index int
	Step  StepName
	Err   error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %d (%s) failed: %v", e.Index, e.Step, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}
