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

package metrics

// Performance bundles the risk-adjusted metrics computed for one price window.
// It is immutable after creation; one instance is produced per token and
// timeframe combination.
type Performance struct {
	OmegaRatio  float64   `json:"omegaRatio"`
	SharpeRatio float64   `json:"sharpeRatio"`
	Returns     []float64 `json:"returns"`
	Volatility  float64   `json:"volatility"`
	MaxDrawDown float64   `json:"maxDrawDown"`
}

// ComputePerformance derives the full metric set for a price window. The
// returns conversion and the ratio calculators share the strict input
// contract (positive finite prices); volatility and drawdown never fail.
func ComputePerformance(prices []float64, threshold float64, riskFreeRate float64) (*Performance, error) {
	rets, err := Returns(prices)
	if err != nil {
		return nil, err
	}

	omega, err := OmegaRatio(rets, threshold)
	if err != nil {
		return nil, err
	}

	sharpe, err := SharpeRatio(rets, riskFreeRate)
	if err != nil {
		return nil, err
	}

	return &Performance{
		OmegaRatio:  omega,
		SharpeRatio: sharpe,
		Returns:     rets,
		Volatility:  Volatility(rets),
		MaxDrawDown: MaxDrawDown(prices),
	}, nil
}
