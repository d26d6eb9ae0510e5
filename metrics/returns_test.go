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

var _ = Describe("Returns", func() {
	Context("with a well-formed price series", func() {
		It("computes simple period-over-period returns", func() {
			rets, err := metrics.Returns([]float64{100, 110, 105, 115, 120})
			Expect(err).To(BeNil())
			Expect(rets).To(HaveLen(4))
			Expect(rets[0]).Should(BeNumerically("~", 0.10, 1e-6))
			Expect(rets[1]).Should(BeNumerically("~", -0.045454545, 1e-6))
			Expect(rets[2]).Should(BeNumerically("~", 0.095238095, 1e-6))
			Expect(rets[3]).Should(BeNumerically("~", 0.043478261, 1e-6))
		})

		It("returns a zero return for a flat series", func() {
			rets, err := metrics.Returns([]float64{50, 50})
			Expect(err).To(BeNil())
			Expect(rets).To(Equal([]float64{0}))
		})
	})

	Context("with malformed input", func() {
		It("rejects a series with fewer than two prices", func() {
			_, err := metrics.Returns([]float64{100})
			Expect(err).To(MatchError(metrics.ErrInvalidInput))

			_, err = metrics.Returns(nil)
			Expect(err).To(MatchError(metrics.ErrInvalidInput))
		})

		It("rejects non-finite prices", func() {
			_, err := metrics.Returns([]float64{100, math.NaN(), 110})
			Expect(err).To(MatchError(metrics.ErrInvalidInput))

			_, err = metrics.Returns([]float64{100, math.Inf(1)})
			Expect(err).To(MatchError(metrics.ErrInvalidInput))
		})

		It("rejects zero and negative prices", func() {
			_, err := metrics.Returns([]float64{100, 0, 110})
			Expect(err).To(MatchError(metrics.ErrInvalidInput))

			_, err = metrics.Returns([]float64{100, -4})
			Expect(err).To(MatchError(metrics.ErrInvalidInput))
		})
	})
})
