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
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/omegalytics/omega-api/metrics"
)

var _ = Describe("ComputePerformance", func() {
	It("bundles every calculator's result for one price window", func() {
		perf, err := metrics.ComputePerformance([]float64{100, 110, 105, 115, 120}, 0, 0.02)
		Expect(err).To(BeNil())

		Expect(perf.OmegaRatio).Should(BeNumerically("~", 5.25, 1e-2))
		Expect(perf.Returns).To(HaveLen(4))
		Expect(perf.Volatility).Should(BeNumerically(">", 0))
		Expect(perf.MaxDrawDown).Should(BeNumerically("~", -0.045454545, 1e-6))
	})

	It("propagates calculator failures", func() {
		_, err := metrics.ComputePerformance([]float64{100}, 0, 0.02)
		Expect(err).To(MatchError(metrics.ErrInvalidInput))
	})
})
