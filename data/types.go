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

package data

import (
	"fmt"
	"time"

	"github.com/goccy/go-json"
)

// Point is one observation in a daily series. On the wire it is the two
// element array `[timestamp_ms, value]` used by the JSON store.
type Point struct {
	Timestamp int64
	Value     float64
}

// MarshalJSON encodes the point as [timestamp_ms, value].
func (p Point) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]float64{float64(p.Timestamp), p.Value})
}

// UnmarshalJSON decodes a [timestamp_ms, value] pair.
func (p *Point) UnmarshalJSON(b []byte) error {
	var pair []float64
	if err := json.Unmarshal(b, &pair); err != nil {
		return err
	}
	if len(pair) != 2 {
		return fmt.Errorf("expected [timestamp, value] pair, got %d elements: %w", len(pair), ErrCorruptData)
	}
	p.Timestamp = int64(pair[0])
	p.Value = pair[1]
	return nil
}

// Time converts the millisecond timestamp to a time.Time.
func (p Point) Time() time.Time {
	return time.UnixMilli(p.Timestamp)
}

// TokenHistory is the on-disk record for one token: identity, freshness
// metadata, and the parallel price/volume series.
type TokenHistory struct {
	Symbol      string    `json:"symbol"`
	CryptoID    string    `json:"crypto_id"`
	Name        string    `json:"name"`
	LastUpdated time.Time `json:"last_updated"`
	DataPoints  int       `json:"data_points"`
	Earliest    time.Time `json:"earliest_date"`
	Latest      time.Time `json:"latest_date"`
	Prices      []Point   `json:"prices"`
	Volumes     []Point   `json:"total_volumes"`
}

// PriceValues extracts just the price component for the calculation engine.
func (h *TokenHistory) PriceValues() []float64 {
	out := make([]float64, len(h.Prices))
	for ii, p := range h.Prices {
		out[ii] = p.Value
	}
	return out
}

// Append adds new price/volume observations and refreshes the metadata
// fields the index and the delta updater rely on.
func (h *TokenHistory) Append(prices, volumes []Point) {
	h.Prices = append(h.Prices, prices...)
	h.Volumes = append(h.Volumes, volumes...)
	h.DataPoints = len(h.Prices)
	h.LastUpdated = time.Now()
	if len(h.Prices) > 0 {
		h.Earliest = h.Prices[0].Time()
		h.Latest = h.Prices[len(h.Prices)-1].Time()
	}
}

// Index is the store's table of contents.
type Index struct {
	LastUpdated     time.Time `json:"last_updated"`
	TotalTokens     int       `json:"total_tokens"`
	AvailableTokens []string  `json:"available_tokens"`
	DataSource      string    `json:"data_source"`
}

// TokenInfo identifies a token in the built-in universe.
type TokenInfo struct {
	ID     string `json:"id"`
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
}
