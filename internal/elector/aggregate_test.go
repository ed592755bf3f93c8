package elector_test

import (
	"context"
	"log/slog"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/aguerrero22/model-elector/internal/elector"
	"github.com/aguerrero22/model-elector/internal/registry"
)

var _ = Describe("Collect", func() {
	var (
		log     *slog.Logger
		primary *registry.Target
		canary  *registry.Target
	)

	BeforeEach(func() {
		log = slog.Default()
		primary = registry.New("model", mustParseURL("http://localhost:5000"), true)
		canary = registry.New("canary", mustParseURL("http://localhost:5001"), false)
	})

	It("should return once every expected result arrived", func() {
		results := make(chan elector.Result, 2)
		results <- elector.Result{Target: canary, Kind: elector.KindSuccess}
		results <- elector.Result{Target: primary, Kind: elector.KindSuccess}

		collected := elector.Collect(context.Background(), results, 2, time.Second, log)
		Expect(collected).To(HaveLen(2))
	})

	It("should preserve completion order", func() {
		results := make(chan elector.Result, 2)
		results <- elector.Result{Target: canary, Kind: elector.KindSuccess}
		results <- elector.Result{Target: primary, Kind: elector.KindTimeout}

		collected := elector.Collect(context.Background(), results, 2, time.Second, log)
		Expect(collected[0].Target).To(Equal(canary))
		Expect(collected[1].Target).To(Equal(primary))
	})

	It("should never collect more results than expected", func() {
		results := make(chan elector.Result, 3)
		for i := 0; i < 3; i++ {
			results <- elector.Result{Target: canary, Kind: elector.KindSuccess}
		}

		collected := elector.Collect(context.Background(), results, 2, time.Second, log)
		Expect(collected).To(HaveLen(2))
	})

	It("should stop at the deadline and keep what was collected", func() {
		results := make(chan elector.Result, 2)
		results <- elector.Result{Target: canary, Kind: elector.KindSuccess}
		// second result never arrives

		start := time.Now()
		collected := elector.Collect(context.Background(), results, 2, 50*time.Millisecond, log)

		Expect(collected).To(HaveLen(1))
		Expect(time.Since(start)).To(BeNumerically("<", 500*time.Millisecond))
	})

	It("should collect stragglers that finish just before the deadline", func() {
		results := make(chan elector.Result, 1)
		go func() {
			time.Sleep(20 * time.Millisecond)
			results <- elector.Result{Target: primary, Kind: elector.KindSuccess}
		}()

		collected := elector.Collect(context.Background(), results, 1, 200*time.Millisecond, log)
		Expect(collected).To(HaveLen(1))
		Expect(collected[0].Target).To(Equal(primary))
	})

	It("should stop when the context is cancelled", func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		results := make(chan elector.Result)
		collected := elector.Collect(ctx, results, 2, time.Second, log)
		Expect(collected).To(BeEmpty())
	})
})
