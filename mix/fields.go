package mix

import (
	"math"
	"strconv"
)

// Kind is the input control type of a field.
type Kind string

const (
	KindFloat Kind = "float"
	KindInt   Kind = "int"
	KindEnum  Kind = "enum"
)

// Field describes one form control and the model column it feeds.
type Field struct {
	Key     string   `json:"key"`
	Column  string   `json:"column"`
	Label   string   `json:"label"`
	Kind    Kind     `json:"kind"`
	Min     float64  `json:"min"`
	Max     float64  `json:"max"`
	Step    float64  `json:"step"`
	Default float64  `json:"default"`
	Options []string `json:"options,omitempty"`

	get func(*Request) any
	set func(*Request, any)
}

var fields = []Field{
	{
		Key: "cement", Column: "cement_kg_m3", Label: "Cement Content (kg/m³)",
		Kind: KindFloat, Min: 300, Max: 500, Step: 0.1, Default: 400,
		get: func(r *Request) any { return r.Cement },
		set: func(r *Request, v any) { r.Cement = v.(float64) },
	},
	{
		Key: "fine_aggregate", Column: "fine_aggregate_kg_m3", Label: "Fine Aggregate (kg/m³)",
		Kind: KindFloat, Min: 600, Max: 800, Step: 0.1, Default: 700,
		get: func(r *Request) any { return r.FineAggregate },
		set: func(r *Request, v any) { r.FineAggregate = v.(float64) },
	},
	{
		Key: "coarse_aggregate", Column: "coarse_aggregate_kg_m3", Label: "Coarse Aggregate (kg/m³)",
		Kind: KindFloat, Min: 800, Max: 1000, Step: 0.1, Default: 900,
		get: func(r *Request) any { return r.CoarseAggregate },
		set: func(r *Request, v any) { r.CoarseAggregate = v.(float64) },
	},
	{
		Key: "rubber_pct", Column: "rubber_pct", Label: "Rubber Percentage (%)",
		Kind: KindFloat, Min: 0, Max: 20, Step: 0.01, Default: 10,
		get: func(r *Request) any { return r.RubberPct },
		set: func(r *Request, v any) { r.RubberPct = v.(float64) },
	},
	{
		Key: "water_pct", Column: "water_pct", Label: "Water Percentage (%)",
		Kind: KindFloat, Min: 30, Max: 60, Step: 0.01, Default: 40,
		get: func(r *Request) any { return r.WaterPct },
		set: func(r *Request, v any) { r.WaterPct = v.(float64) },
	},
	{
		Key: "water_cement_ratio", Column: "w_c_ratio", Label: "Water-to-Cement Ratio",
		Kind: KindFloat, Min: 0.4, Max: 0.7, Step: 0.01, Default: 0.5,
		get: func(r *Request) any { return r.WaterCementRatio },
		set: func(r *Request, v any) { r.WaterCementRatio = v.(float64) },
	},
	{
		Key: "rubber_shape", Column: "rubber_shape", Label: "Rubber Shape",
		Kind: KindEnum, Options: ShapeOptions,
		get: func(r *Request) any { return r.RubberShape },
		set: func(r *Request, v any) { r.RubberShape = v.(string) },
	},
	{
		Key: "rubber_size", Column: "rubber_size", Label: "Rubber Size",
		Kind: KindEnum, Options: SizeOptions,
		get: func(r *Request) any { return r.RubberSize },
		set: func(r *Request, v any) { r.RubberSize = v.(string) },
	},
	{
		Key: "curing_days", Column: "curing_days", Label: "Curing Days",
		Kind: KindInt, Min: 7, Max: 90, Step: 1, Default: 28,
		get: func(r *Request) any { return r.CuringDays },
		set: func(r *Request, v any) { r.CuringDays = v.(int) },
	},
}

// Fields returns the form fields in display order.
func Fields() []Field {
	out := make([]Field, len(fields))
	copy(out, fields)
	return out
}

// Value returns the field's current value in r as display text.
func (f Field) Value(r Request) string {
	return f.format(&r)
}

func (f Field) format(r *Request) string {
	switch f.Kind {
	case KindEnum:
		return f.get(r).(string)
	case KindInt:
		return strconv.Itoa(f.get(r).(int))
	default:
		return strconv.FormatFloat(f.get(r).(float64), 'f', -1, 64)
	}
}

func (f Field) number(r *Request) float64 {
	if f.Kind == KindInt {
		return float64(f.get(r).(int))
	}
	return f.get(r).(float64)
}

// setNumber stores v, clamping integer fields before conversion so the
// conversion never overflows.
func (f Field) setNumber(r *Request, v float64) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		v = f.Default
	}
	if f.Kind == KindInt {
		f.set(r, int(math.Round(Clamp(v, f.Min, f.Max))))
		return
	}
	f.set(r, v)
}
