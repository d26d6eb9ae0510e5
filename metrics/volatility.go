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
	"math"

	"gonum.org/v1/gonum/stat"
)

// Volatility computes the annualized sample standard deviation of a daily
// return series. Non-finite entries are dropped; fewer than 2 valid returns
// degrades silently to 0. Volatility never fails; it is used in contexts
// where a zero is preferable to aborting a batch.
func Volatility(returns []float64) float64 {
	valid := finiteValues(returns)
	if len(valid) < 2 {
		return 0
	}

	vol := stat.StdDev(valid, nil) * math.Sqrt(TradingDaysPerYear)
	if !isFinite(vol) {
		return 0
	}
	return vol
}
