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
)

// Returns converts a chronological price series into simple period-over-period
// returns: returns[i] = (prices[i+1] - prices[i]) / prices[i]. The output is
// always one element shorter than the input.
//
// Prices must be positive finite reals; a zero or negative price is not a
// valid financial price and fails with ErrInvalidInput rather than producing
// a garbage return.
func Returns(prices []float64) ([]float64, error) {
	if len(prices) < 2 {
		return nil, fmt.Errorf("need at least 2 prices to compute returns, got %d: %w", len(prices), ErrInvalidInput)
	}

	for ii, p := range prices {
		if math.IsNaN(p) || math.IsInf(p, 0) {
			return nil, fmt.Errorf("price at index %d is not finite: %w", ii, ErrInvalidInput)
		}
		if p <= 0 {
			return nil, fmt.Errorf("price at index %d is not positive: %w", ii, ErrInvalidInput)
		}
	}

	rets := make([]float64, len(prices)-1)
	for ii := 0; ii < len(prices)-1; ii++ {
		// positivity already excludes a zero divisor; keep the explicit guard
		// so a relaxed pre-check can never divide by zero
		if prices[ii] == 0 {
			return nil, fmt.Errorf("price at index %d would divide by zero: %w", ii, ErrInvalidInput)
		}
		rets[ii] = (prices[ii+1] - prices[ii]) / prices[ii]
	}

	return rets, nil
}
