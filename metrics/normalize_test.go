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

var _ = Describe("ParseMethod", func() {
	It("accepts the four known methods", func() {
		for _, s := range []string{"zscore", "minmax", "robust", "none"} {
			method, err := metrics.ParseMethod(s)
			Expect(err).To(BeNil())
			Expect(string(method)).To(Equal(s))
		}
	})

	It("rejects anything else", func() {
		_, err := metrics.ParseMethod("quantile")
		Expect(err).To(MatchError(metrics.ErrInvalidInput))

		_, err = metrics.ParseMethod("")
		Expect(err).To(MatchError(metrics.ErrInvalidInput))
	})
})

var _ = Describe("Normalize", func() {
	Context("with method none", func() {
		It("copies the input unchanged", func() {
			in := []float64{3, 1, 2}
			out, err := metrics.Normalize(in, metrics.MethodNone)
			Expect(err).To(BeNil())
			Expect(out).To(Equal(in))

			out[0] = 99
			Expect(in[0]).To(Equal(3.0))
		})
	})

	Context("with zscore", func() {
		It("centers on the mean and scales by the sample standard deviation", func() {
			out, err := metrics.Normalize([]float64{1, 2, 3}, metrics.MethodZScore)
			Expect(err).To(BeNil())
			Expect(out[0]).Should(BeNumerically("~", -1, 1e-9))
			Expect(out[1]).Should(BeNumerically("~", 0, 1e-9))
			Expect(out[2]).Should(BeNumerically("~", 1, 1e-9))
		})

		It("collapses a zero-variance cross-section to zeros", func() {
			out, err := metrics.Normalize([]float64{5, 5, 5}, metrics.MethodZScore)
			Expect(err).To(BeNil())
			Expect(out).To(Equal([]float64{0, 0, 0}))
		})

		It("collapses a single finite value to zeros", func() {
			out, err := metrics.Normalize([]float64{7}, metrics.MethodZScore)
			Expect(err).To(BeNil())
			Expect(out).To(Equal([]float64{0}))
		})
	})

	Context("with minmax", func() {
		It("scales the finite range onto [0, 1]", func() {
			out, err := metrics.Normalize([]float64{2, 4, 6}, metrics.MethodMinMax)
			Expect(err).To(BeNil())
			Expect(out).To(Equal([]float64{0, 0.5, 1}))
		})

		It("pins a zero-range cross-section to the 0.5 midpoint", func() {
			out, err := metrics.Normalize([]float64{3, 3}, metrics.MethodMinMax)
			Expect(err).To(BeNil())
			Expect(out).To(Equal([]float64{0.5, 0.5}))
		})

		It("maps non-finite positions to 0", func() {
			out, err := metrics.Normalize([]float64{1, math.NaN(), 3}, metrics.MethodMinMax)
			Expect(err).To(BeNil())
			Expect(out).To(Equal([]float64{0, 0, 1}))
		})

		It("yields zeros when no finite values exist", func() {
			out, err := metrics.Normalize([]float64{math.NaN(), math.Inf(1)}, metrics.MethodMinMax)
			Expect(err).To(BeNil())
			Expect(out).To(Equal([]float64{0, 0}))
		})
	})

	Context("with robust", func() {
		It("centers on the median and scales by the IQR", func() {
			out, err := metrics.Normalize([]float64{1, 2, 3, 4, 5}, metrics.MethodRobust)
			Expect(err).To(BeNil())
			Expect(out[0]).Should(BeNumerically("~", -1, 1e-9))
			Expect(out[1]).Should(BeNumerically("~", -0.5, 1e-9))
			Expect(out[2]).Should(BeNumerically("~", 0, 1e-9))
			Expect(out[3]).Should(BeNumerically("~", 0.5, 1e-9))
			Expect(out[4]).Should(BeNumerically("~", 1, 1e-9))
		})

		It("collapses a zero-IQR cross-section to zeros", func() {
			out, err := metrics.Normalize([]float64{4, 4, 4, 4}, metrics.MethodRobust)
			Expect(err).To(BeNil())
			Expect(out).To(Equal([]float64{0, 0, 0, 0}))
		})
	})

	Context("with an unknown method", func() {
		It("fails with an invalid input error", func() {
			_, err := metrics.Normalize([]float64{1, 2}, metrics.Method("median"))
			Expect(err).To(MatchError(metrics.ErrInvalidInput))
		})
	})
})
