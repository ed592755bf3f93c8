package elector_test

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/aguerrero22/model-elector/internal/elector"
	"github.com/aguerrero22/model-elector/internal/registry"
)

var _ = Describe("Elector", func() {
	var (
		log  *slog.Logger
		body []byte
	)

	const (
		callTimeout  = 150 * time.Millisecond
		totalTimeout = 400 * time.Millisecond
	)

	BeforeEach(func() {
		log = slog.Default()
		body = []byte(`{"s_l":5.1,"s_w":3.5,"p_l":1.4,"p_w":0.2}`)
	})

	newElector := func(targets []*registry.Target) *elector.Elector {
		exec := elector.NewExecutor(callTimeout, nil, nil, log)
		return elector.New(exec, targets, totalTimeout, nil, log)
	}

	backend := func(delay time.Duration, payload string) *httptest.Server {
		return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(delay)
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(payload))
		}))
	}

	It("should prefer the primary when both backends succeed", func() {
		primary := backend(10*time.Millisecond, `{"who":"model"}`)
		defer primary.Close()
		canary := backend(30*time.Millisecond, `{"who":"canary"}`)
		defer canary.Close()

		targets := []*registry.Target{
			registry.New("model", mustParseURL(primary.URL), true),
			registry.New("canary", mustParseURL(canary.URL), false),
		}

		decision, err := newElector(targets).Predict(context.Background(), body)
		Expect(err).NotTo(HaveOccurred())
		Expect(decision.Source.Name()).To(Equal("model"))
		Expect(string(decision.Payload)).To(Equal(`{"who":"model"}`))
	})

	It("should prefer the primary even when the canary answered first", func() {
		primary := backend(80*time.Millisecond, `{"who":"model"}`)
		defer primary.Close()
		canary := backend(10*time.Millisecond, `{"who":"canary"}`)
		defer canary.Close()

		targets := []*registry.Target{
			registry.New("model", mustParseURL(primary.URL), true),
			registry.New("canary", mustParseURL(canary.URL), false),
		}

		decision, err := newElector(targets).Predict(context.Background(), body)
		Expect(err).NotTo(HaveOccurred())
		Expect(decision.Source.Name()).To(Equal("model"))
	})

	It("should fall back to the canary when the primary times out", func() {
		primary := backend(time.Second, `{"who":"model"}`)
		defer primary.Close()
		canary := backend(10*time.Millisecond, `{"who":"canary"}`)
		defer canary.Close()

		targets := []*registry.Target{
			registry.New("model", mustParseURL(primary.URL), true),
			registry.New("canary", mustParseURL(canary.URL), false),
		}

		decision, err := newElector(targets).Predict(context.Background(), body)
		Expect(err).NotTo(HaveOccurred())
		Expect(decision.Source.Name()).To(Equal("canary"))
		Expect(string(decision.Payload)).To(Equal(`{"who":"canary"}`))
	})

	It("should fall back to the canary when the primary refuses connections", func() {
		primary := backend(0, `{"who":"model"}`)
		primary.Close()
		canary := backend(10*time.Millisecond, `{"who":"canary"}`)
		defer canary.Close()

		targets := []*registry.Target{
			registry.New("model", mustParseURL(primary.URL), true),
			registry.New("canary", mustParseURL(canary.URL), false),
		}

		decision, err := newElector(targets).Predict(context.Background(), body)
		Expect(err).NotTo(HaveOccurred())
		Expect(decision.Source.Name()).To(Equal("canary"))
	})

	It("should report no backend available when every call fails", func() {
		primary := backend(time.Second, `{"who":"model"}`)
		defer primary.Close()
		canary := backend(time.Second, `{"who":"canary"}`)
		defer canary.Close()

		targets := []*registry.Target{
			registry.New("model", mustParseURL(primary.URL), true),
			registry.New("canary", mustParseURL(canary.URL), false),
		}

		start := time.Now()
		_, err := newElector(targets).Predict(context.Background(), body)

		Expect(err).To(MatchError(elector.ErrNoBackendAvailable))
		Expect(time.Since(start)).To(BeNumerically("<", totalTimeout+200*time.Millisecond))
	})
})
