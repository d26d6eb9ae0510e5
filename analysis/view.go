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
	"github.com/goccy/go-json"

	"github.com/omegalytics/omega-api/metrics"
)

// NormalizedView re-expresses a snapshot's raw ratios through the generic
// normalization engine with a caller-chosen method. Unlike the display scores
// baked into the snapshot, which always use min-max, a view honors zscore and
// robust scaling too. Tokens absent from a timeframe stay absent in the view.
type NormalizedView struct {
	Method metrics.Method             `json:"method"`
	Omega  map[int]map[string]float64 `json:"omega"`
	Sharpe map[int]map[string]float64 `json:"sharpe"`
}

// NewNormalizedView normalizes each timeframe's cross-section of raw values
// independently. The only error is an unknown method.
func NewNormalizedView(snap *Snapshot, method metrics.Method) (*NormalizedView, error) {
	if _, err := metrics.ParseMethod(string(method)); err != nil {
		return nil, err
	}

	view := &NormalizedView{
		Method: method,
		Omega:  make(map[int]map[string]float64),
		Sharpe: make(map[int]map[string]float64),
	}

	for _, tf := range snap.Params.Timeframes {
		view.Omega[tf] = normalizeCrossSection(snap.Tokens, tf, method,
			func(tm *TokenMetrics) (float64, bool) { v, ok := tm.Omega[tf]; return v, ok })
		view.Sharpe[tf] = normalizeCrossSection(snap.Tokens, tf, method,
			func(tm *TokenMetrics) (float64, bool) { v, ok := tm.Sharpe[tf]; return v, ok })
	}

	return view, nil
}

// normalizedViewJSON mirrors NormalizedView with nullable values. Every
// method except none zeroes non-finite positions before they reach the view,
// but an identity view echoes the raw +Inf Sharpe sentinel and must not break
// encoding.
type normalizedViewJSON struct {
	Method metrics.Method              `json:"method"`
	Omega  map[int]map[string]*float64 `json:"omega"`
	Sharpe map[int]map[string]*float64 `json:"sharpe"`
}

// MarshalJSON encodes the view with non-finite values mapped to null.
func (v *NormalizedView) MarshalJSON() ([]byte, error) {
	return json.Marshal(&normalizedViewJSON{
		Method: v.Method,
		Omega:  nullableView(v.Omega),
		Sharpe: nullableView(v.Sharpe),
	})
}

func nullableView(m map[int]map[string]float64) map[int]map[string]*float64 {
	out := make(map[int]map[string]*float64, len(m))
	for tf, row := range m {
		inner := make(map[string]*float64, len(row))
		for id, v := range row {
			inner[id] = finiteOrNull(v)
		}
		out[tf] = inner
	}
	return out
}

func normalizeCrossSection(records []*TokenMetrics, _ int, method metrics.Method, get func(*TokenMetrics) (float64, bool)) map[string]float64 {
	ids := make([]string, 0, len(records))
	values := make([]float64, 0, len(records))
	for _, record := range records {
		if v, ok := get(record); ok {
			ids = append(ids, record.ID)
			values = append(values, v)
		}
	}

	out := make(map[string]float64, len(ids))
	if len(ids) == 0 {
		return out
	}

	normalized, err := metrics.Normalize(values, method)
	if err != nil {
		// method was validated by the caller; this cannot happen
		return out
	}
	for ii, id := range ids {
		out[id] = normalized[ii]
	}
	return out
}
