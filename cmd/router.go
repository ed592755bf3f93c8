package main

import (
	"net/http"

	"github.com/aguerrero22/model-elector/internal/handler"
	"github.com/aguerrero22/model-elector/internal/metrics"
)

func setupRouter(predictHandler *handler.PredictHandler, metricsCollector *metrics.Collector) *http.ServeMux {
	mux := http.NewServeMux()

	mux.Handle("/predict", predictHandler)
	mux.HandleFunc("/health", handler.Health)
	mux.HandleFunc("/metrics", metricsCollector.Handler())

	return mux
}
