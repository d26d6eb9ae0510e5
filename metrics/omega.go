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

// OmegaCap is returned in place of an infinite Omega ratio when a sample has
// gains but no losses below the threshold. The cap keeps the cross-sectional
// normalization finite; it is a sentinel, not a statistically derived value.
const OmegaCap = 100.0

// OmegaRatio computes the Omega ratio of a return series against a threshold:
// the mean excess above the threshold divided by the mean shortfall below it.
// Both expectations are taken over the full sample size N, not conditional on
// the gain/loss subsets. This matches the common spreadsheet formulation and
// keeps Omega on its usual scale.
//
// Edge cases collapse to sentinels: no losses yields OmegaCap when there are
// gains and 1 when the sample sits exactly on the threshold; no gains yields
// 0. A non-finite quotient also yields 0 as a final safety net.
func OmegaRatio(returns []float64, threshold float64) (float64, error) {
	if len(returns) == 0 {
		return 0, fmt.Errorf("return series is empty: %w", ErrInvalidInput)
	}

	var gains, losses float64
	for ii, r := range returns {
		if math.IsNaN(r) || math.IsInf(r, 0) {
			return 0, fmt.Errorf("return at index %d is not finite: %w", ii, ErrInvalidInput)
		}
		switch {
		case r > threshold:
			gains += r - threshold
		case r < threshold:
			losses += threshold - r
		}
	}

	n := float64(len(returns))
	expectedGain := gains / n
	expectedLoss := losses / n

	if expectedLoss == 0 {
		if expectedGain > 0 {
			return OmegaCap, nil
		}
		return 1, nil
	}

	if expectedGain == 0 {
		return 0, nil
	}

	omega := expectedGain / expectedLoss
	if !isFinite(omega) {
		return 0, nil
	}
	return omega, nil
}
