package ml

import (
	"context"
	"errors"
	"fmt"
)

// LinearModel is a multi-output linear regression: one intercept and one
// coefficient row per output.
type LinearModel struct {
	Features     []string    `json:"features"`
	Intercepts   []float64   `json:"intercepts"`
	Coefficients [][]float64 `json:"coefficients"`
}

func (lm *LinearModel) Predict(ctx context.Context, rows []map[string]float64) ([][]float64, error) {
	if len(lm.Coefficients) == 0 {
		return nil, errors.New("model not loaded")
	}
	out := make([][]float64, len(rows))
	for i, row := range rows {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		x, err := rowVector(lm.Features, row)
		if err != nil {
			return nil, err
		}
		y := make([]float64, len(lm.Coefficients))
		for k, coef := range lm.Coefficients {
			sum := lm.Intercepts[k]
			for j, c := range coef {
				sum += c * x[j]
			}
			y[k] = sum
		}
		out[i] = y
	}
	return out, nil
}

func (lm *LinearModel) Load(path string) error {
	var model LinearModel
	if err := readArtifact(path, &model); err != nil {
		return err
	}
	if err := model.validate(); err != nil {
		return err
	}
	*lm = model
	return nil
}

func (lm *LinearModel) validate() error {
	if err := validateFeatures(lm.Features); err != nil {
		return err
	}
	if len(lm.Coefficients) == 0 {
		return errors.New("artifact has no outputs")
	}
	if len(lm.Intercepts) != len(lm.Coefficients) {
		return fmt.Errorf("%d intercepts for %d outputs", len(lm.Intercepts), len(lm.Coefficients))
	}
	for k, coef := range lm.Coefficients {
		if len(coef) != len(lm.Features) {
			return fmt.Errorf("output %d has %d coefficients, want %d", k, len(coef), len(lm.Features))
		}
	}
	return nil
}
