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
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Method selects how a cross-section of raw metric values is normalized.
type Method string

const (
	MethodZScore Method = "zscore"
	MethodMinMax Method = "minmax"
	MethodRobust Method = "robust"
	MethodNone   Method = "none"
)

// ParseMethod validates a method token from configuration or a query
// parameter.
func ParseMethod(s string) (Method, error) {
	switch Method(s) {
	case MethodZScore, MethodMinMax, MethodRobust, MethodNone:
		return Method(s), nil
	}
	return "", fmt.Errorf("unknown normalization method %q: %w", s, ErrInvalidInput)
}

// Normalize maps a cross-sectional set of raw values onto a comparable scale.
// The output is element-wise aligned with the input; positions holding
// non-finite values map to 0 for every method except MethodNone, which is an
// identity copy.
//
// Statistics (mean, min/max, quartiles) are computed over the finite subset
// only. Degenerate cross-sections collapse to documented constants rather
// than failing: a zero-variance zscore or zero-IQR robust input yields all
// zeros, and a zero-range minmax input yields all 0.5, distinguished from
// the no-valid-values case, which yields all zeros.
func Normalize(values []float64, method Method) ([]float64, error) {
	switch method {
	case MethodNone:
		out := make([]float64, len(values))
		copy(out, values)
		return out, nil
	case MethodZScore:
		return normalizeZScore(values), nil
	case MethodMinMax:
		return normalizeMinMax(values), nil
	case MethodRobust:
		return normalizeRobust(values), nil
	}
	return nil, fmt.Errorf("unknown normalization method %q: %w", method, ErrInvalidInput)
}

func normalizeZScore(values []float64) []float64 {
	out := make([]float64, len(values))

	valid := finiteValues(values)
	if len(valid) < 2 {
		return out
	}

	mean, stdDev := stat.MeanStdDev(valid, nil)
	if stdDev == 0 {
		return out
	}

	for ii, v := range values {
		if isFinite(v) {
			out[ii] = (v - mean) / stdDev
		}
	}
	return out
}

func normalizeMinMax(values []float64) []float64 {
	out := make([]float64, len(values))

	valid := finiteValues(values)
	if len(valid) == 0 {
		return out
	}

	minVal := floats.Min(valid)
	maxVal := floats.Max(valid)
	if maxVal == minVal {
		// degenerate but valid range: every value sits at the midpoint
		for ii := range out {
			out[ii] = 0.5
		}
		return out
	}

	for ii, v := range values {
		if isFinite(v) {
			out[ii] = (v - minVal) / (maxVal - minVal)
		}
	}
	return out
}

func normalizeRobust(values []float64) []float64 {
	out := make([]float64, len(values))

	valid := finiteValues(values)
	if len(valid) < 2 {
		return out
	}

	sorted := make([]float64, len(valid))
	copy(sorted, valid)
	sort.Float64s(sorted)

	// index-based percentiles on the sorted subset, matching the display
	// layer's historical behavior; stat.Quantile interpolates differently
	median := sorted[len(sorted)/2]
	q1 := sorted[len(sorted)/4]
	q3 := sorted[len(sorted)*3/4]

	iqr := q3 - q1
	if iqr == 0 {
		return out
	}

	for ii, v := range values {
		if isFinite(v) {
			out[ii] = (v - median) / iqr
		}
	}
	return out
}
