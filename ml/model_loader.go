package ml

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// Supported model types.
const (
	LinearModelType       = "linear"
	RandomForestModelType = "random_forest"
)

// LoadModel reads the artifact at path. Any failure is a *StartupError.
func LoadModel(modelType, path string) (Regressor, error) {
	var (
		model Regressor
		err   error
	)
	switch modelType {
	case LinearModelType:
		lm := &LinearModel{}
		err = lm.Load(path)
		model = lm
	case RandomForestModelType:
		rf := &RandomForest{}
		err = rf.Load(path)
		model = rf
	default:
		err = errors.New("unsupported model type")
	}
	if err != nil {
		return nil, &StartupError{ModelType: modelType, Path: path, Err: err}
	}
	return model, nil
}

func readArtifact(path string, v any) error {
	payload, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(payload, v)
}

func validateFeatures(features []string) error {
	if len(features) == 0 {
		return errors.New("artifact lists no features")
	}
	seen := make(map[string]struct{}, len(features))
	for _, name := range features {
		if _, dup := seen[name]; dup {
			return fmt.Errorf("duplicate feature %q", name)
		}
		seen[name] = struct{}{}
	}
	return nil
}

// rowVector orders a row by the artifact's feature list. A missing column
// means the model was trained on a different input schema.
func rowVector(features []string, row map[string]float64) ([]float64, error) {
	vector := make([]float64, len(features))
	for i, name := range features {
		v, ok := row[name]
		if !ok {
			return nil, fmt.Errorf("model expects feature %q which the input does not provide", name)
		}
		vector[i] = v
	}
	return vector, nil
}
