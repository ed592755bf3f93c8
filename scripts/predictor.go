// Predictor is a mock prediction backend used for elector testing.
// It provides /predict and /health endpoints.
//
// Usage:
//
//	go run predictor.go -port 5000 -name model -latency 100ms -fail-rate 0.2
//
// The server logs all requests and returns an iris-style prediction payload.
// Latency and fail-rate simulate a slow or flaky backend.
package main

import (
	"encoding/json"
	"flag"
	"log"
	"math/rand"
	"net/http"
	"time"
)

// Features is the inbound payload: the four iris measurements.
type Features struct {
	SepalLength float64 `json:"s_l"`
	SepalWidth  float64 `json:"s_w"`
	PetalLength float64 `json:"p_l"`
	PetalWidth  float64 `json:"p_w"`
}

// Prediction mimics the payload of a real model backend.
type Prediction struct {
	ModelType         string    `json:"model_type"`
	ProbabilityScores []float64 `json:"probability_scores"`
	PredictedClass    int       `json:"predicted_class"`
	PredictedSpecies  string    `json:"predicted_species"`
}

var species = []string{"setosa", "versicolor", "virginica"}

func main() {
	port := flag.String("port", "5000", "port to listen on")
	name := flag.String("name", "model", "backend name reported in the payload")
	latency := flag.Duration("latency", 0, "artificial delay before answering")
	failRate := flag.Float64("fail-rate", 0, "fraction of requests answered with 500")
	flag.Parse()

	mux := http.NewServeMux()

	mux.HandleFunc("/predict", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		var features Features
		if err := json.NewDecoder(r.Body).Decode(&features); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}

		if *latency > 0 {
			time.Sleep(*latency)
		}

		if *failRate > 0 && rand.Float64() < *failRate {
			log.Printf("[%s] simulated failure for %+v", *name, features)
			http.Error(w, "model not ready", http.StatusInternalServerError)
			return
		}

		// A crude classifier: small petals look like setosa.
		class := 0
		if features.PetalLength > 2.5 {
			class = 1
		}
		if features.PetalLength > 4.9 {
			class = 2
		}

		scores := []float64{0.05, 0.05, 0.05}
		scores[class] = 0.9

		prediction := Prediction{
			ModelType:         *name,
			ProbabilityScores: scores,
			PredictedClass:    class,
			PredictedSpecies:  species[class],
		}

		log.Printf("[%s] predicting %s for %+v", *name, prediction.PredictedSpecies, features)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(prediction)
	})

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})

	addr := ":" + *port
	log.Printf("[%s] mock predictor listening on %s (latency=%s fail-rate=%.2f)", *name, addr, *latency, *failRate)
	log.Fatal(http.ListenAndServe(addr, mux))
}
