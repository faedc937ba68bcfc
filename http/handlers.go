package http

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"concretepredictor/mix"
	"concretepredictor/ml"
	"concretepredictor/ui"
)

type handlers struct {
	predictor ml.Predictor
	logger    *zap.Logger
}

func RegisterHandlers(mux *http.ServeMux, predictor ml.Predictor, logger *zap.Logger) {
	h := &handlers{predictor: predictor, logger: logger}

	mux.HandleFunc("GET /{$}", h.handleForm)
	mux.HandleFunc("POST /predict", h.handlePredictForm)
	mux.HandleFunc("GET /api/health", handleHealth)
	mux.HandleFunc("GET /api/schema", handleSchema)
	mux.HandleFunc("POST /api/predict", h.handlePredictJSON)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func handleSchema(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"fields":     mix.Fields(),
		"properties": ml.PropertyLabels,
	})
}

func (h *handlers) handleForm(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := ui.RenderForm(w, mix.Defaults()); err != nil {
		h.logger.Error("render form", zap.Error(err))
	}
}

// handlePredictForm handles an explicit form submission. Prediction failures
// are shown on the page; the form stays usable for the next submission.
func (h *handlers) handlePredictForm(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form submission", http.StatusBadRequest)
		return
	}
	req := mix.FromValues(r.PostForm)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	result, err := h.predictor.Predict(r.Context(), req)
	if err != nil {
		h.logPredictionFailure(r, req, err)
		if err := ui.RenderError(w, req, err.Error()); err != nil {
			h.logger.Error("render error", zap.Error(err))
		}
		return
	}
	if err := ui.RenderResult(w, req, result); err != nil {
		h.logger.Error("render result", zap.Error(err))
	}
}

type predictResponse struct {
	Request mix.Request   `json:"request"`
	Result  []ml.Property `json:"result"`
}

// handlePredictJSON accepts the nine fields as JSON. Missing fields take
// their defaults and out-of-range values are clamped, as in the form.
func (h *handlers) handlePredictJSON(w http.ResponseWriter, r *http.Request) {
	req := mix.Defaults()
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body: " + err.Error()})
		return
	}
	req = req.Clamped()

	result, err := h.predictor.Predict(r.Context(), req)
	if err != nil {
		h.logPredictionFailure(r, req, err)
		respondJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": "Prediction error: " + err.Error()})
		return
	}
	respondJSON(w, http.StatusOK, predictResponse{Request: req, Result: result.Rows()})
}

func (h *handlers) logPredictionFailure(r *http.Request, req mix.Request, err error) {
	h.logger.Warn("prediction failed",
		zap.String("request_id", GetRequestID(r.Context())),
		zap.Any("mix", req),
		zap.Error(err),
	)
}

func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
