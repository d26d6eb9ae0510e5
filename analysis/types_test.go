// Copyright 2024-2025
// SPDX-License-Identifier: Apache-2.0
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package analysis_test

import (
	"context"
	"math"

	"github.com/goccy/go-json"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/omegalytics/omega-api/analysis"
	"github.com/omegalytics/omega-api/metrics"
)

var _ = Describe("Params", func() {
	Describe("DefaultParams", func() {
		It("uses the documented defaults", func() {
			params := analysis.DefaultParams()
			Expect(params.Threshold).To(Equal(0.0))
			Expect(params.RiskFreeRate).To(Equal(0.02))
			Expect(params.Timeframes).To(Equal([]int{90, 180, 365, 990, 2000}))
			Expect(params.Normalization).To(Equal(metrics.MethodMinMax))
			Expect(params.Validate()).To(BeNil())
		})
	})

	Describe("Fingerprint", func() {
		It("is stable across token id ordering", func() {
			params := analysis.DefaultParams()
			a := params.Fingerprint([]string{"bitcoin", "ethereum", "solana"})
			b := params.Fingerprint([]string{"solana", "bitcoin", "ethereum"})
			Expect(a).To(Equal(b))
			Expect(a).To(HaveLen(32))
		})

		It("changes when any parameter changes", func() {
			ids := []string{"bitcoin", "ethereum"}
			base := analysis.DefaultParams()

			shifted := base
			shifted.Threshold = 0.001
			Expect(shifted.Fingerprint(ids)).ToNot(Equal(base.Fingerprint(ids)))

			shifted = base
			shifted.RiskFreeRate = 0.03
			Expect(shifted.Fingerprint(ids)).ToNot(Equal(base.Fingerprint(ids)))

			shifted = base
			shifted.Timeframes = []int{90, 180}
			Expect(shifted.Fingerprint(ids)).ToNot(Equal(base.Fingerprint(ids)))

			shifted = base
			shifted.Normalization = metrics.MethodZScore
			Expect(shifted.Fingerprint(ids)).ToNot(Equal(base.Fingerprint(ids)))
		})

		It("changes when the universe changes", func() {
			params := analysis.DefaultParams()
			a := params.Fingerprint([]string{"bitcoin"})
			b := params.Fingerprint([]string{"bitcoin", "ethereum"})
			Expect(a).ToNot(Equal(b))
		})
	})
})

var _ = Describe("TokenMetrics JSON encoding", func() {
	It("maps non-finite sentinel values to null", func() {
		record := &analysis.TokenMetrics{
			Token:               analysis.Token{ID: "doubler", Symbol: "DBL-USD"},
			Omega:               map[int]float64{7: metrics.OmegaCap},
			Sharpe:              map[int]float64{7: math.Inf(1)},
			NormalizedOmega:     map[int]float64{7: 0},
			NormalizedSharpe:    map[int]float64{7: 0},
			AverageOmegaScore:   metrics.OmegaCap,
			AverageSharpeScore:  math.Inf(1),
			OverallAverageScore: math.Inf(1),
		}

		raw, err := json.Marshal(record)
		Expect(err).To(BeNil())

		body := string(raw)
		Expect(body).To(ContainSubstring(`"sharpe":{"7":null}`))
		Expect(body).To(ContainSubstring(`"omega":{"7":100}`))
		Expect(body).To(ContainSubstring(`"averageOmegaScore":100`))
		Expect(body).To(ContainSubstring(`"averageSharpeScore":null`))
		Expect(body).To(ContainSubstring(`"overallAverageScore":null`))
	})

	It("encodes a snapshot containing a zero-volatility token", func() {
		analyzer, err := analysis.New(weekParams())
		Expect(err).To(BeNil())

		// doubling daily prices give identical returns, so the sample
		// standard deviation is exactly zero and Sharpe is +Inf
		snap := analyzer.Run(context.Background(), []analysis.TokenSeries{
			{Token: analysis.Token{ID: "doubler", Symbol: "DBL-USD"}, Prices: []float64{1, 2, 4, 8, 16, 32, 64}},
		})
		Expect(math.IsInf(snap.Tokens[0].Sharpe[7], 1)).To(BeTrue())

		raw, err := json.Marshal(snap)
		Expect(err).To(BeNil())
		Expect(string(raw)).To(ContainSubstring(`"sharpe":{"7":null}`))
	})
})

var _ = Describe("Published", func() {
	It("returns ErrNoSnapshot before the first run completes", func() {
		published := &analysis.Published{}
		_, err := published.Latest()
		Expect(err).To(MatchError(analysis.ErrNoSnapshot))
	})

	It("returns the snapshot after it is set", func() {
		published := &analysis.Published{}
		snap := &analysis.Snapshot{}
		published.Set(snap)

		got, err := published.Latest()
		Expect(err).To(BeNil())
		Expect(got).To(BeIdenticalTo(snap))
	})
})

var _ = Describe("SnapshotCache", func() {
	It("memoizes snapshots by fingerprint", func() {
		cache, err := analysis.NewSnapshotCache(4)
		Expect(err).To(BeNil())

		_, ok := cache.Get("abc")
		Expect(ok).To(BeFalse())

		snap := &analysis.Snapshot{}
		cache.Add("abc", snap)

		got, ok := cache.Get("abc")
		Expect(ok).To(BeTrue())
		Expect(got).To(BeIdenticalTo(snap))
	})
})
