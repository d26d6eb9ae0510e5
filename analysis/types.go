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
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/omegalytics/omega-api/metrics"
	"github.com/rs/zerolog/log"
	"github.com/zeebo/blake3"
)

// Timeframes must fall within this range, in days. Anything shorter than a
// week is noise; anything past ~8 years exceeds the history of most tokens.
const (
	MinTimeframe = 7
	MaxTimeframe = 3000
)

// DefaultTimeframes are the trailing windows, in days, analyzed when the
// caller does not override them.
var DefaultTimeframes = []int{90, 180, 365, 990, 2000}

// Token identifies a tradable asset in the analysis universe.
type Token struct {
	ID     string `json:"id"`
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
}

// TokenSeries pairs a token with its cleaned-or-raw daily price history.
// The analyzer only ever reads a trailing suffix of Prices.
type TokenSeries struct {
	Token
	Prices []float64
}

// TokenMetrics is the per-token analysis record. A timeframe key is present
// in the maps only when the token had enough history for that window;
// insufficient data is modeled as absence, never as zero.
type TokenMetrics struct {
	Token
	Omega            map[int]float64 `json:"omega"`
	Sharpe           map[int]float64 `json:"sharpe"`
	NormalizedOmega  map[int]float64 `json:"normalizedOmega"`
	NormalizedSharpe map[int]float64 `json:"normalizedSharpe"`

	AverageOmegaScore   float64 `json:"averageOmegaScore"`
	AverageSharpeScore  float64 `json:"averageSharpeScore"`
	OverallAverageScore float64 `json:"overallAverageScore"`
}

func newTokenMetrics(token Token) *TokenMetrics {
	return &TokenMetrics{
		Token:            token,
		Omega:            make(map[int]float64),
		Sharpe:           make(map[int]float64),
		NormalizedOmega:  make(map[int]float64),
		NormalizedSharpe: make(map[int]float64),
	}
}

// clone produces a deep copy so each analyzer pass can fill in its fields
// without mutating the records the previous pass returned.
func (tm *TokenMetrics) clone() *TokenMetrics {
	dup := newTokenMetrics(tm.Token)
	for k, v := range tm.Omega {
		dup.Omega[k] = v
	}
	for k, v := range tm.Sharpe {
		dup.Sharpe[k] = v
	}
	for k, v := range tm.NormalizedOmega {
		dup.NormalizedOmega[k] = v
	}
	for k, v := range tm.NormalizedSharpe {
		dup.NormalizedSharpe[k] = v
	}
	dup.AverageOmegaScore = tm.AverageOmegaScore
	dup.AverageSharpeScore = tm.AverageSharpeScore
	dup.OverallAverageScore = tm.OverallAverageScore
	return dup
}

// tokenMetricsJSON mirrors TokenMetrics with nullable values. The raw Sharpe
// map can legitimately hold the +Inf zero-volatility sentinel, which JSON has
// no encoding for; at the wire boundary a non-finite value becomes null so one
// degenerate token never aborts encoding the whole snapshot.
type tokenMetricsJSON struct {
	Token
	Omega            map[int]*float64 `json:"omega"`
	Sharpe           map[int]*float64 `json:"sharpe"`
	NormalizedOmega  map[int]*float64 `json:"normalizedOmega"`
	NormalizedSharpe map[int]*float64 `json:"normalizedSharpe"`

	AverageOmegaScore   *float64 `json:"averageOmegaScore"`
	AverageSharpeScore  *float64 `json:"averageSharpeScore"`
	OverallAverageScore *float64 `json:"overallAverageScore"`
}

// MarshalJSON encodes the record with non-finite values mapped to null. The
// in-memory sentinel is untouched; only the serialized form is made finite.
func (tm *TokenMetrics) MarshalJSON() ([]byte, error) {
	return json.Marshal(&tokenMetricsJSON{
		Token:               tm.Token,
		Omega:               nullableScores(tm.Omega),
		Sharpe:              nullableScores(tm.Sharpe),
		NormalizedOmega:     nullableScores(tm.NormalizedOmega),
		NormalizedSharpe:    nullableScores(tm.NormalizedSharpe),
		AverageOmegaScore:   finiteOrNull(tm.AverageOmegaScore),
		AverageSharpeScore:  finiteOrNull(tm.AverageSharpeScore),
		OverallAverageScore: finiteOrNull(tm.OverallAverageScore),
	})
}

func nullableScores(m map[int]float64) map[int]*float64 {
	out := make(map[int]*float64, len(m))
	for k, v := range m {
		out[k] = finiteOrNull(v)
	}
	return out
}

func finiteOrNull(v float64) *float64 {
	if !isFiniteValue(v) {
		return nil
	}
	vv := v
	return &vv
}

// Params is the full configuration surface of an analysis run.
type Params struct {
	Threshold     float64        `json:"threshold"`
	RiskFreeRate  float64        `json:"riskFreeRate"`
	Timeframes    []int          `json:"timeframes"`
	Normalization metrics.Method `json:"normalizationMethod"`
}

// DefaultParams returns the parameters used when nothing is configured:
// a zero Omega threshold, a 2% annual risk-free rate, the default timeframe
// set, and min-max normalization.
func DefaultParams() Params {
	timeframes := make([]int, len(DefaultTimeframes))
	copy(timeframes, DefaultTimeframes)
	return Params{
		Threshold:     0,
		RiskFreeRate:  0.02,
		Timeframes:    timeframes,
		Normalization: metrics.MethodMinMax,
	}
}

// Validate checks the timeframe set and normalization method.
func (p Params) Validate() error {
	if len(p.Timeframes) == 0 {
		return ErrNoTimeframes
	}
	for _, tf := range p.Timeframes {
		if tf < MinTimeframe || tf > MaxTimeframe {
			return fmt.Errorf("timeframe %d must be between %d and %d days: %w", tf, MinTimeframe, MaxTimeframe, ErrInvalidTimeframe)
		}
	}
	if _, err := metrics.ParseMethod(string(p.Normalization)); err != nil {
		return err
	}
	return nil
}

// Fingerprint calculates a 16-byte blake3 hash over the token universe and
// every run parameter. Two runs with the same fingerprint are guaranteed to
// produce identical results, which makes the fingerprint a safe cache key.
func (p Params) Fingerprint(tokenIDs []string) string {
	ids := make([]string, len(tokenIDs))
	copy(ids, tokenIDs)
	sort.Strings(ids)

	h := blake3.New()
	buf := make([]byte, 8)

	binary.BigEndian.PutUint64(buf, math.Float64bits(p.Threshold))
	if _, err := h.Write(buf); err != nil {
		log.Error().Stack().Err(err).Msg("could not write threshold to blake3 hasher")
	}
	binary.BigEndian.PutUint64(buf, math.Float64bits(p.RiskFreeRate))
	if _, err := h.Write(buf); err != nil {
		log.Error().Stack().Err(err).Msg("could not write risk-free rate to blake3 hasher")
	}
	for _, tf := range p.Timeframes {
		binary.BigEndian.PutUint64(buf, uint64(tf))
		if _, err := h.Write(buf); err != nil {
			log.Error().Stack().Err(err).Msg("could not write timeframe to blake3 hasher")
		}
	}
	if _, err := h.Write([]byte(p.Normalization)); err != nil {
		log.Error().Stack().Err(err).Msg("could not write method to blake3 hasher")
	}
	for _, id := range ids {
		if _, err := h.Write([]byte(id)); err != nil {
			log.Error().Stack().Err(err).Msg("could not write token id to blake3 hasher")
		}
	}

	digest := h.Sum(nil)
	return hex.EncodeToString(digest[:16])
}

// Snapshot is the immutable result of one analysis run. Tokens are sorted
// descending by overall score; ties keep their insertion order.
type Snapshot struct {
	ID         uuid.UUID       `json:"id"`
	ComputedAt time.Time       `json:"computedAt"`
	Params     Params          `json:"params"`
	Tokens     []*TokenMetrics `json:"tokens"`
}
