package ml

import "fmt"

// StartupError reports a model artifact that could not be loaded. The
// service must not become ready when it occurs.
type StartupError struct {
	ModelType string
	Path      string
	Err       error
}

func (e *StartupError) Error() string {
	return fmt.Sprintf("load %s model from %s: %v", e.ModelType, e.Path, e.Err)
}

func (e *StartupError) Unwrap() error {
	return e.Err
}

// PredictionError reports a failed prediction for one submission. Its message
// is the underlying cause.
type PredictionError struct {
	Err error
}

func (e *PredictionError) Error() string {
	return e.Err.Error()
}

func (e *PredictionError) Unwrap() error {
	return e.Err
}
