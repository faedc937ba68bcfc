// Package mix describes a concrete mix design submitted for prediction.
package mix

import (
	"math"
	"net/url"
	"strconv"
	"strings"
)

// Rubber shape options, in form order.
const (
	ShapeSpherical = "spherical"
	ShapeIrregular = "irregular"
	ShapeAngular   = "angular"
)

// Rubber size options, in form order.
const (
	SizeFine   = "<1mm"
	SizeMedium = "1-2mm"
	SizeCoarse = ">2mm"
)

var (
	ShapeOptions = []string{ShapeSpherical, ShapeIrregular, ShapeAngular}
	SizeOptions  = []string{SizeFine, SizeMedium, SizeCoarse}
)

// Request is one row of mix parameters. Values built through this package are
// always inside their declared ranges.
type Request struct {
	Cement           float64 `json:"cement"`
	FineAggregate    float64 `json:"fine_aggregate"`
	CoarseAggregate  float64 `json:"coarse_aggregate"`
	RubberPct        float64 `json:"rubber_pct"`
	WaterPct         float64 `json:"water_pct"`
	WaterCementRatio float64 `json:"water_cement_ratio"`
	RubberShape      string  `json:"rubber_shape"`
	RubberSize       string  `json:"rubber_size"`
	CuringDays       int     `json:"curing_days"`
}

// Defaults returns the record the form starts from.
func Defaults() Request {
	return Request{
		Cement:           400,
		FineAggregate:    700,
		CoarseAggregate:  900,
		RubberPct:        10,
		WaterPct:         40,
		WaterCementRatio: 0.5,
		RubberShape:      ShapeSpherical,
		RubberSize:       SizeFine,
		CuringDays:       28,
	}
}

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Clamped returns a copy with every field forced into its domain. Non-finite
// numbers take the field default and unknown options take the first option.
func (r Request) Clamped() Request {
	out := r
	for _, f := range fields {
		if f.Kind == KindEnum {
			if !contains(f.Options, f.get(&out).(string)) {
				f.set(&out, f.Options[0])
			}
			continue
		}
		v := f.number(&out)
		if math.IsNaN(v) || math.IsInf(v, 0) {
			v = f.Default
		}
		f.setNumber(&out, Clamp(v, f.Min, f.Max))
	}
	return out
}

// Valid reports whether every field is inside its domain.
func (r Request) Valid() bool {
	return r == r.Clamped()
}

// FromValues builds a record from submitted form values. Missing or
// unparsable entries take the field default.
func FromValues(values url.Values) Request {
	req := Defaults()
	for _, f := range fields {
		raw := strings.TrimSpace(values.Get(f.Key))
		if raw == "" {
			continue
		}
		if f.Kind == KindEnum {
			f.set(&req, raw)
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			continue
		}
		f.setNumber(&req, v)
	}
	return req.Clamped()
}

// Values encodes the record back into form values.
func (r Request) Values() url.Values {
	values := url.Values{}
	for _, f := range fields {
		values.Set(f.Key, f.format(&r))
	}
	return values
}

// Features encodes the record as named model inputs. Enum fields are one-hot
// encoded as "<column>=<option>".
func (r Request) Features() map[string]float64 {
	features := make(map[string]float64, 13)
	for _, f := range fields {
		if f.Kind != KindEnum {
			features[f.Column] = f.number(&r)
			continue
		}
		selected := f.get(&r).(string)
		for _, opt := range f.Options {
			v := 0.0
			if opt == selected {
				v = 1
			}
			features[f.Column+"="+opt] = v
		}
	}
	return features
}

func contains(options []string, v string) bool {
	for _, opt := range options {
		if opt == v {
			return true
		}
	}
	return false
}
