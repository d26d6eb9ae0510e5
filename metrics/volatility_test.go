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

package metrics_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/omegalytics/omega-api/metrics"
)

var _ = Describe("Volatility", func() {
	It("annualizes the sample standard deviation", func() {
		vol := metrics.Volatility([]float64{0.01, -0.01})
		Expect(vol).Should(BeNumerically("~", 0.2244994, 1e-6))
	})

	It("ignores non-finite entries", func() {
		clean := metrics.Volatility([]float64{0.01, -0.01})
		dirty := metrics.Volatility([]float64{0.01, math.NaN(), -0.01, math.Inf(1)})
		Expect(dirty).To(Equal(clean))
	})

	It("returns 0 when fewer than two finite returns remain", func() {
		Expect(metrics.Volatility(nil)).To(Equal(0.0))
		Expect(metrics.Volatility([]float64{0.01})).To(Equal(0.0))
		Expect(metrics.Volatility([]float64{math.NaN(), 0.01})).To(Equal(0.0))
	})

	It("returns 0 for a constant return series", func() {
		Expect(metrics.Volatility([]float64{0.004, 0.004, 0.004})).To(Equal(0.0))
	})
})

var _ = Describe("MaxDrawDown", func() {
	It("finds the deepest peak-to-trough decline", func() {
		dd := metrics.MaxDrawDown([]float64{100, 120, 60, 90})
		Expect(dd).Should(BeNumerically("~", -0.5, 1e-9))
	})

	It("returns 0 for a monotonically increasing series", func() {
		Expect(metrics.MaxDrawDown([]float64{100, 105, 111, 130})).To(Equal(0.0))
	})

	It("skips non-finite and non-positive prices", func() {
		dd := metrics.MaxDrawDown([]float64{100, math.NaN(), -5, 0, 50})
		Expect(dd).Should(BeNumerically("~", -0.5, 1e-9))
	})

	It("returns 0 when fewer than two valid prices remain", func() {
		Expect(metrics.MaxDrawDown(nil)).To(Equal(0.0))
		Expect(metrics.MaxDrawDown([]float64{100})).To(Equal(0.0))
		Expect(metrics.MaxDrawDown([]float64{math.NaN(), 100})).To(Equal(0.0))
	})
})
