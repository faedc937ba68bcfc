package ml

import (
	"context"
	"errors"
	"fmt"
	"math"

	"concretepredictor/mix"
)

// Predict runs the model on a single-row input built from req. Every failure,
// including a panic inside the model, is returned as a *PredictionError.
func Predict(ctx context.Context, model Regressor, req mix.Request) (result Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			result, err = Result{}, &PredictionError{Err: fmt.Errorf("model panicked: %v", r)}
		}
	}()

	if model == nil {
		return Result{}, &PredictionError{Err: errors.New("model not loaded")}
	}
	if !req.Valid() {
		return Result{}, &PredictionError{Err: errors.New("mix request has out-of-range fields")}
	}
	if err := ctx.Err(); err != nil {
		return Result{}, &PredictionError{Err: err}
	}

	out, err := model.Predict(ctx, []map[string]float64{req.Features()})
	if err != nil {
		return Result{}, &PredictionError{Err: err}
	}
	if len(out) != 1 {
		return Result{}, &PredictionError{Err: fmt.Errorf("model returned %d rows for 1 input row", len(out))}
	}
	values := out[0]
	if len(values) != OutputCount {
		return Result{}, &PredictionError{Err: fmt.Errorf("model returned %d values, want %d", len(values), OutputCount)}
	}
	for i, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return Result{}, &PredictionError{Err: fmt.Errorf("model returned non-finite %s", PropertyLabels[i])}
		}
	}
	return resultFromValues(values), nil
}
