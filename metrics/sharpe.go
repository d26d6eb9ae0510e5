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

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
)

// TradingDaysPerYear is the annualization factor used by the Sharpe and
// volatility calculators. Returns are assumed daily.
const TradingDaysPerYear = 252

// SharpeRatio computes the annualized Sharpe ratio of a daily return series:
// excess annualized return over the risk-free rate per unit of annualized
// volatility. riskFreeRate is an annual rate (0.02 = 2%).
//
// A single return yields 0 because the sample standard deviation is
// undefined. Zero volatility with returns beating the risk-free rate yields
// +Inf, unlike Omega, whose zero-loss case is capped at a finite value.
// Callers that display Sharpe values must handle the infinity explicitly.
func SharpeRatio(returns []float64, riskFreeRate float64) (float64, error) {
	if len(returns) == 0 {
		return 0, fmt.Errorf("return series is empty: %w", ErrInvalidInput)
	}
	for ii, r := range returns {
		if math.IsNaN(r) || math.IsInf(r, 0) {
			return 0, fmt.Errorf("return at index %d is not finite: %w", ii, ErrInvalidInput)
		}
	}

	// sample standard deviation is undefined for a single observation
	if len(returns) == 1 {
		return 0, nil
	}

	meanReturn := stat.Mean(returns, nil)
	annualizedReturn := meanReturn * TradingDaysPerYear

	// stat.StdDev applies Bessel's correction (divides by N-1)
	annualizedVolatility := stat.StdDev(returns, nil) * math.Sqrt(TradingDaysPerYear)

	if annualizedVolatility == 0 {
		if annualizedReturn > riskFreeRate {
			return math.Inf(1), nil
		}
		return 0, nil
	}

	sharpe := (annualizedReturn - riskFreeRate) / annualizedVolatility
	if !isFinite(sharpe) {
		return 0, nil
	}
	return sharpe, nil
}
