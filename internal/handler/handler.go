package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/aguerrero22/model-elector/internal/elector"
	"github.com/aguerrero22/model-elector/internal/metrics"
)

// Predictor resolves one prediction request to a single elected decision.
type Predictor interface {
	Predict(ctx context.Context, body []byte) (elector.Decision, error)
}

type PredictHandler struct {
	logger    *slog.Logger
	predictor Predictor
	collector *metrics.Collector
}

// featuresRequest is the inbound payload: the four iris measurements.
// Pointers distinguish missing fields from zero values.
type featuresRequest struct {
	SepalLength *float64 `json:"s_l"`
	SepalWidth  *float64 `json:"s_w"`
	PetalLength *float64 `json:"p_l"`
	PetalWidth  *float64 `json:"p_w"`
}

func (f *featuresRequest) complete() bool {
	return f.SepalLength != nil && f.SepalWidth != nil && f.PetalLength != nil && f.PetalWidth != nil
}

func (h *PredictHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	requestID := uuid.NewString()
	clientIP := extractClientIP(r)
	log := h.logger.With(slog.String("request_id", requestID))

	log.Info("Received prediction request",
		slog.String("from", clientIP),
		slog.String("user_agent", r.UserAgent()))

	h.collector.Emit(metrics.MetricEvent{
		Type:      metrics.EventRequestReceived,
		Timestamp: time.Now(),
	})

	var features featuresRequest
	if err := json.NewDecoder(r.Body).Decode(&features); err != nil {
		log.Warn("Malformed request body", slog.String("error", err.Error()))
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if !features.complete() {
		log.Warn("Incomplete feature vector")
		http.Error(w, "all four features (s_l, s_w, p_l, p_w) are required", http.StatusBadRequest)
		return
	}

	body, err := json.Marshal(features)
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	start := time.Now()
	decision, err := h.predictor.Predict(r.Context(), body)
	if err != nil {
		if errors.Is(err, elector.ErrNoBackendAvailable) {
			log.Warn("No backend available", slog.Duration("elapsed", time.Since(start)))
			http.Error(w, "no prediction backend available", http.StatusServiceUnavailable)
			return
		}

		log.Error("Prediction failed", slog.String("error", err.Error()))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	// Decode failure after selection is its own error condition, distinct
	// from any call failure.
	if !json.Valid(decision.Payload) {
		log.Error("Selected payload is not valid JSON",
			slog.String("backend", decision.Source.Name()))
		http.Error(w, "backend returned an invalid payload", http.StatusInternalServerError)
		return
	}

	log.Info("Returning prediction",
		slog.String("backend", decision.Source.Name()),
		slog.Duration("elapsed", time.Since(start)))

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Model-Backend", decision.Source.Name())
	w.Write(decision.Payload)
}

func extractClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		return strings.TrimSpace(strings.Split(xff, ",")[0])
	}

	host, _, _ := net.SplitHostPort(r.RemoteAddr)
	return host
}

func NewPredictHandler(logger *slog.Logger, predictor Predictor, collector *metrics.Collector) *PredictHandler {
	return &PredictHandler{
		logger:    logger,
		predictor: predictor,
		collector: collector,
	}
}

// Health answers liveness probes with a static payload.
func Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
