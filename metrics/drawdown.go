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

// MaxDrawDown computes the largest peak-to-trough relative decline in a price
// series as a negative fraction (-0.35 = a 35% decline from the running
// peak). It tracks a single running peak over the whole series rather than a
// windowed set of drawdowns. Fewer than 2 usable prices yields 0; non-finite
// and non-positive entries are skipped so the result is always well-defined.
func MaxDrawDown(prices []float64) float64 {
	valid := make([]float64, 0, len(prices))
	for _, p := range prices {
		if isFinite(p) && p > 0 {
			valid = append(valid, p)
		}
	}
	if len(valid) < 2 {
		return 0
	}

	peak := valid[0]
	maxDD := 0.0
	for _, p := range valid[1:] {
		if p > peak {
			peak = p
			continue
		}
		dd := (p - peak) / peak
		if dd < maxDD {
			maxDD = dd
		}
	}

	return maxDD
}
