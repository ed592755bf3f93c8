package elector_test

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/aguerrero22/model-elector/internal/breaker"
	"github.com/aguerrero22/model-elector/internal/elector"
	"github.com/aguerrero22/model-elector/internal/registry"
)

var _ = Describe("Executor", func() {
	var (
		log  *slog.Logger
		exec *elector.Executor
		body []byte
	)

	BeforeEach(func() {
		log = slog.Default()
		exec = elector.NewExecutor(200*time.Millisecond, nil, nil, log)
		body = []byte(`{"s_l":5.1,"s_w":3.5,"p_l":1.4,"p_w":0.2}`)
	})

	target := func(server *httptest.Server) *registry.Target {
		return registry.New("model", mustParseURL(server.URL), true)
	}

	It("should tag a 2xx response as success and keep the payload", func() {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			Expect(r.Method).To(Equal(http.MethodPost))
			Expect(r.URL.Path).To(Equal("/predict"))
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"predicted_species":"setosa"}`))
		}))
		defer server.Close()

		result := exec.Do(context.Background(), target(server), body)

		Expect(result.Kind).To(Equal(elector.KindSuccess))
		Expect(string(result.Payload)).To(Equal(`{"predicted_species":"setosa"}`))
		Expect(result.Err).NotTo(HaveOccurred())
	})

	It("should tag a non-2xx response as error", func() {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "model not ready", http.StatusInternalServerError)
		}))
		defer server.Close()

		result := exec.Do(context.Background(), target(server), body)

		Expect(result.Kind).To(Equal(elector.KindError))
		Expect(result.Err).To(HaveOccurred())
		Expect(result.Payload).To(BeNil())
	})

	It("should tag a refused connection as error", func() {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		server.Close()

		result := exec.Do(context.Background(), target(server), body)

		Expect(result.Kind).To(Equal(elector.KindError))
		Expect(result.Err).To(HaveOccurred())
	})

	It("should tag a call exceeding the per-call timeout as timeout", func() {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(time.Second)
		}))
		defer server.Close()

		start := time.Now()
		result := exec.Do(context.Background(), target(server), body)

		Expect(result.Kind).To(Equal(elector.KindTimeout))
		Expect(result.Err).To(HaveOccurred())
		Expect(time.Since(start)).To(BeNumerically("<", 900*time.Millisecond))
	})

	It("should record the elapsed duration", func() {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(30 * time.Millisecond)
			w.Write([]byte(`{}`))
		}))
		defer server.Close()

		result := exec.Do(context.Background(), target(server), body)
		Expect(result.Elapsed).To(BeNumerically(">=", 30*time.Millisecond))
	})

	Context("with a circuit breaker", func() {
		It("should fail fast once the breaker opens", func() {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "boom", http.StatusBadGateway)
			}))
			defer server.Close()

			breakers := breaker.NewRegistry(2, 30*time.Second, log)
			exec = elector.NewExecutor(200*time.Millisecond, breakers, nil, log)
			t := target(server)

			for i := 0; i < 2; i++ {
				Expect(exec.Do(context.Background(), t, body).Kind).To(Equal(elector.KindError))
			}

			// Breaker is now open; the backend is no longer reached.
			server.Close()
			result := exec.Do(context.Background(), t, body)
			Expect(result.Kind).To(Equal(elector.KindError))
		})

		It("should pass successful calls through a closed breaker", func() {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"ok":true}`))
			}))
			defer server.Close()

			breakers := breaker.NewRegistry(2, 30*time.Second, log)
			exec = elector.NewExecutor(200*time.Millisecond, breakers, nil, log)

			result := exec.Do(context.Background(), target(server), body)
			Expect(result.Kind).To(Equal(elector.KindSuccess))
			Expect(string(result.Payload)).To(Equal(`{"ok":true}`))
		})
	})
})
