package ml

import (
	"context"

	"concretepredictor/mix"
)

// Regressor is a loaded, read-only regression model. Predict returns one
// output vector per input row and must be safe for concurrent use.
type Regressor interface {
	Predict(ctx context.Context, rows []map[string]float64) ([][]float64, error)
}

// Predictor turns a mix request into a prediction result.
type Predictor interface {
	Predict(ctx context.Context, req mix.Request) (Result, error)
}

// OutputCount is the number of values a model must produce per row.
const OutputCount = 4

// Property labels, in model output order.
var PropertyLabels = [OutputCount]string{
	"Compressive Strength (MPa)",
	"Flexural Strength (MPa)",
	"Tensile Strength (MPa)",
	"Modulus of Elasticity (GPa)",
}

// Result holds the predicted properties of one mix.
type Result struct {
	CompressiveMPa float64 `json:"compressive_strength_mpa"`
	FlexuralMPa    float64 `json:"flexural_strength_mpa"`
	TensileMPa     float64 `json:"tensile_strength_mpa"`
	ModulusGPa     float64 `json:"modulus_of_elasticity_gpa"`
}

// Property is one labelled row of the results table.
type Property struct {
	Label string  `json:"property"`
	Value float64 `json:"value"`
}

func resultFromValues(values []float64) Result {
	return Result{
		CompressiveMPa: values[0],
		FlexuralMPa:    values[1],
		TensileMPa:     values[2],
		ModulusGPa:     values[3],
	}
}

// Values returns the result in model output order.
func (r Result) Values() [OutputCount]float64 {
	return [OutputCount]float64{r.CompressiveMPa, r.FlexuralMPa, r.TensileMPa, r.ModulusGPa}
}

// Rows returns the labelled table rows.
func (r Result) Rows() []Property {
	values := r.Values()
	rows := make([]Property, OutputCount)
	for i, label := range PropertyLabels {
		rows[i] = Property{Label: label, Value: values[i]}
	}
	return rows
}
