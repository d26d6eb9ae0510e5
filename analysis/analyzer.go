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

package analysis

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/omegalytics/omega-api/metrics"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
)

const tracerName = "github.com/omegalytics/omega-api"

// Analyzer runs the metrics pipeline over a token universe: trailing window
// slice, returns, Omega/Sharpe, cross-sectional display scores, aggregate
// ranking. It is stateless and idempotent: each Run builds a fresh Snapshot
// from its inputs, so concurrent runs never share mutable state.
type Analyzer struct {
	params Params
}

// New validates the parameters and constructs an Analyzer.
func New(params Params) (*Analyzer, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return &Analyzer{params: params}, nil
}

// Params returns the run configuration the analyzer was built with.
func (a *Analyzer) Params() Params {
	return a.params
}

// Run computes a complete analysis snapshot for the given token series. The
// pipeline is three pure passes (raw ratio fill, cross-sectional score fill,
// aggregate fill), each producing new records, composed in sequence. A
// malformed token or an insufficient timeframe affects only its own entries;
// the batch always completes.
func (a *Analyzer) Run(ctx context.Context, series []TokenSeries) *Snapshot {
	_, span := otel.Tracer(tracerName).Start(ctx, "analysis.Run")
	defer span.End()

	records := a.computeRaw(series)
	records = a.applyScores(records)
	records = a.fillAggregates(records)

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].OverallAverageScore > records[j].OverallAverageScore
	})

	snap := &Snapshot{
		ID:         uuid.New(),
		ComputedAt: time.Now(),
		Params:     a.params,
		Tokens:     records,
	}

	log.Info().
		Str("RunID", snap.ID.String()).
		Int("NumTokens", len(records)).
		Ints("Timeframes", a.params.Timeframes).
		Msg("analysis run complete")

	return snap
}

// computeRaw fills the per-token raw Omega and Sharpe maps. A timeframe key
// is written only when the token has at least that many valid prices; a
// calculator failure on one (token, timeframe) pair skips that pair and
// leaves the rest of the batch untouched.
func (a *Analyzer) computeRaw(series []TokenSeries) []*TokenMetrics {
	records := make([]*TokenMetrics, 0, len(series))

	for _, ts := range series {
		prices := cleanPrices(ts.Prices)
		if len(prices) < 2 {
			log.Warn().Str("Token", ts.ID).Int("ValidPrices", len(prices)).Msg("skipping token with too little price history")
			continue
		}

		record := newTokenMetrics(ts.Token)
		for _, tf := range a.params.Timeframes {
			if len(prices) < tf {
				continue
			}

			window := prices[len(prices)-tf:]
			perf, err := metrics.ComputePerformance(window, a.params.Threshold, a.params.RiskFreeRate)
			if err != nil {
				log.Warn().Err(err).Str("Token", ts.ID).Int("Timeframe", tf).Msg("skipping timeframe after calculator failure")
				continue
			}

			record.Omega[tf] = perf.OmegaRatio
			record.Sharpe[tf] = perf.SharpeRatio
		}

		records = append(records, record)
	}

	return records
}

// applyScores fills the normalized maps with display scores. Each timeframe
// is scaled independently across the tokens that have an entry for it: raw
// values are min-max mapped to [0, 1] and then remapped to [-3, +3]. This is
// deliberately not the generic metrics.Normalize engine: display coloring
// always uses min-max regardless of the configured method, and a degenerate
// cross-section pins every token to the midpoint score of 0.
func (a *Analyzer) applyScores(records []*TokenMetrics) []*TokenMetrics {
	out := make([]*TokenMetrics, len(records))
	for ii, record := range records {
		out[ii] = record.clone()
	}

	for _, tf := range a.params.Timeframes {
		scoreTimeframe(out, tf,
			func(tm *TokenMetrics) (float64, bool) { v, ok := tm.Omega[tf]; return v, ok },
			func(tm *TokenMetrics, s float64) { tm.NormalizedOmega[tf] = s })
		scoreTimeframe(out, tf,
			func(tm *TokenMetrics) (float64, bool) { v, ok := tm.Sharpe[tf]; return v, ok },
			func(tm *TokenMetrics, s float64) { tm.NormalizedSharpe[tf] = s })
	}

	return out
}

func scoreTimeframe(records []*TokenMetrics, _ int, get func(*TokenMetrics) (float64, bool), set func(*TokenMetrics, float64)) {
	var present []*TokenMetrics
	minVal := math.Inf(1)
	maxVal := math.Inf(-1)

	for _, record := range records {
		v, ok := get(record)
		if !ok {
			continue
		}
		present = append(present, record)
		if isFiniteValue(v) {
			if v < minVal {
				minVal = v
			}
			if v > maxVal {
				maxVal = v
			}
		}
	}

	if len(present) == 0 {
		return
	}

	for _, record := range present {
		v, _ := get(record)
		normalized := 0.5 // row midpoint when the cross-section has no spread
		if maxVal > minVal {
			switch {
			case !isFiniteValue(v):
				normalized = 0
			default:
				normalized = (v - minVal) / (maxVal - minVal)
			}
		}
		set(record, (normalized-0.5)*6)
	}
}

// fillAggregates computes per-token averages over the raw (not normalized)
// values. averageOmegaScore and averageSharpeScore each average the token's
// entries for their metric; overallAverageScore averages the concatenation of
// both. A token with no entries scores 0.
func (a *Analyzer) fillAggregates(records []*TokenMetrics) []*TokenMetrics {
	out := make([]*TokenMetrics, len(records))

	for ii, record := range records {
		dup := record.clone()

		var omegaSum, sharpeSum float64
		for _, tf := range a.params.Timeframes {
			if v, ok := dup.Omega[tf]; ok {
				omegaSum += v
			}
			if v, ok := dup.Sharpe[tf]; ok {
				sharpeSum += v
			}
		}

		nOmega := len(dup.Omega)
		nSharpe := len(dup.Sharpe)

		if nOmega > 0 {
			dup.AverageOmegaScore = omegaSum / float64(nOmega)
		}
		if nSharpe > 0 {
			dup.AverageSharpeScore = sharpeSum / float64(nSharpe)
		}
		if nOmega+nSharpe > 0 {
			dup.OverallAverageScore = (omegaSum + sharpeSum) / float64(nOmega+nSharpe)
		}

		out[ii] = dup
	}

	return out
}

// cleanPrices drops non-finite and non-positive entries, preserving order.
// The calculators are stricter when called directly; the orchestrator
// tolerates dirty input from data providers by filtering it up front.
func cleanPrices(prices []float64) []float64 {
	out := make([]float64, 0, len(prices))
	for _, p := range prices {
		if isFiniteValue(p) && p > 0 {
			out = append(out, p)
		}
	}
	return out
}

func isFiniteValue(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
