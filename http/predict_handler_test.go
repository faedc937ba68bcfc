package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"go.uber.org/zap"

	"concretepredictor/mix"
	"concretepredictor/ml"
)

type fakePredictor struct {
	results []ml.Result
	errs    []error
	calls   int
	last    mix.Request
}

func (f *fakePredictor) Predict(ctx context.Context, req mix.Request) (ml.Result, error) {
	i := f.calls
	f.calls++
	f.last = req
	if i < len(f.errs) && f.errs[i] != nil {
		return ml.Result{}, f.errs[i]
	}
	if i < len(f.results) {
		return f.results[i], nil
	}
	return ml.Result{CompressiveMPa: 40, FlexuralMPa: 5, TensileMPa: 4, ModulusGPa: 30}, nil
}

type panickingRegressor struct{}

func (panickingRegressor) Predict(ctx context.Context, rows []map[string]float64) ([][]float64, error) {
	panic("estimator is not fitted")
}

func newTestHandler(predictor ml.Predictor) http.Handler {
	return NewHandler(DefaultServerConfig(), predictor, zap.NewNop())
}

func postForm(handler http.Handler, values url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/predict", strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	return w
}

func TestHandleFormPage(t *testing.T) {
	predictor := &fakePredictor{}
	handler := newTestHandler(predictor)

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, `<form method="post" action="/predict"`) {
		t.Fatal("expected form")
	}
	if strings.Contains(body, "Prediction Results") {
		t.Fatal("unexpected results without submission")
	}
	if predictor.calls != 0 {
		t.Fatalf("expected no prediction without submission, got %d", predictor.calls)
	}
}

func TestHandlePredictFormDefaults(t *testing.T) {
	predictor := &fakePredictor{results: []ml.Result{{CompressiveMPa: 38.123, FlexuralMPa: 4.5, TensileMPa: 3.333, ModulusGPa: 27}}}
	handler := newTestHandler(predictor)

	w := postForm(handler, mix.Defaults().Values())

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if predictor.last != mix.Defaults() {
		t.Fatalf("unexpected request: %+v", predictor.last)
	}
	body := w.Body.String()
	for _, want := range []string{
		"<td>Compressive Strength (MPa)</td>",
		"<td>38.12</td>",
		"<td>Flexural Strength (MPa)</td>",
		"<td>4.50</td>",
		"<td>Tensile Strength (MPa)</td>",
		"<td>3.33</td>",
		"<td>Modulus of Elasticity (GPa)</td>",
		"<td>27.00</td>",
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("expected body to contain %q", want)
		}
	}
}

func TestHandlePredictFormClampsInput(t *testing.T) {
	predictor := &fakePredictor{}
	handler := newTestHandler(predictor)

	values := mix.Defaults().Values()
	values.Set("cement", "9999")
	values.Set("curing_days", "1")
	values.Set("water_cement_ratio", "0.55")
	postForm(handler, values)

	if predictor.last.Cement != 500 {
		t.Fatalf("expected cement clamped to 500, got %v", predictor.last.Cement)
	}
	if predictor.last.CuringDays != 7 {
		t.Fatalf("expected curing days clamped to 7, got %v", predictor.last.CuringDays)
	}
	if predictor.last.WaterCementRatio != 0.55 {
		t.Fatalf("expected in-range value unchanged, got %v", predictor.last.WaterCementRatio)
	}
}

func TestHandlePredictFormErrorThenRecovers(t *testing.T) {
	predictor := &fakePredictor{errs: []error{&ml.PredictionError{Err: errors.New("could not convert string to float")}}}
	handler := newTestHandler(predictor)

	w := postForm(handler, mix.Defaults().Values())
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, "Prediction error: could not convert string to float") {
		t.Fatal("expected error notice")
	}
	if strings.Contains(body, "Prediction Results") {
		t.Fatal("unexpected partial results")
	}
	if !strings.Contains(body, `<form method="post" action="/predict"`) {
		t.Fatal("expected form to remain")
	}

	w = postForm(handler, mix.Defaults().Values())
	if !strings.Contains(w.Body.String(), "Prediction Results") {
		t.Fatal("expected results on the next submission")
	}
}

func TestHandlePredictFormModelPanics(t *testing.T) {
	predictor, err := ml.NewCachedPredictor(panickingRegressor{}, 4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	handler := newTestHandler(predictor)

	w := postForm(handler, mix.Defaults().Values())
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "estimator is not fitted") {
		t.Fatal("expected underlying panic message in the error notice")
	}
}

func TestHandlePredictJSON(t *testing.T) {
	predictor := &fakePredictor{}
	handler := newTestHandler(predictor)

	req := httptest.NewRequest(http.MethodPost, "/api/predict", strings.NewReader(`{"cement": 250, "rubber_size": "1-2mm"}`))
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var payload predictResponse
	if err := json.Unmarshal(w.Body.Bytes(), &payload); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if payload.Request.Cement != 300 {
		t.Fatalf("expected clamped cement, got %v", payload.Request.Cement)
	}
	if payload.Request.RubberSize != mix.SizeMedium || payload.Request.CuringDays != 28 {
		t.Fatalf("unexpected request: %+v", payload.Request)
	}
	if len(payload.Result) != 4 || payload.Result[3].Label != "Modulus of Elasticity (GPa)" {
		t.Fatalf("unexpected result: %+v", payload.Result)
	}
}

func TestHandlePredictJSONErrors(t *testing.T) {
	handler := newTestHandler(&fakePredictor{errs: []error{&ml.PredictionError{Err: errors.New("model returned 3 values, want 4")}}})

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/predict", strings.NewReader(`{}`)))
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Prediction error: model returned 3 values") {
		t.Fatalf("unexpected body: %s", w.Body.String())
	}

	w = httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/predict", strings.NewReader(`{"cement": "lots"}`)))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestHandleSchema(t *testing.T) {
	w := httptest.NewRecorder()
	newTestHandler(&fakePredictor{}).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/schema", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var payload struct {
		Fields     []mix.Field `json:"fields"`
		Properties []string    `json:"properties"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &payload); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(payload.Fields) != 9 {
		t.Fatalf("expected 9 fields, got %d", len(payload.Fields))
	}
	if payload.Fields[5].Column != "w_c_ratio" || payload.Fields[5].Max != 0.7 {
		t.Fatalf("unexpected field: %+v", payload.Fields[5])
	}
	if len(payload.Properties) != 4 {
		t.Fatalf("expected 4 properties, got %d", len(payload.Properties))
	}
}
