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

package data_test

import (
	"context"
	"time"

	"github.com/jarcoal/httpmock"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/omegalytics/omega-api/data"
)

var _ = Describe("Yahoo", func() {
	var (
		ctx      context.Context
		provider data.Provider
		begin    time.Time
		end      time.Time
	)

	BeforeEach(func() {
		ctx = context.Background()
		provider = data.NewYahoo()
		begin = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
		end = time.Date(2024, 1, 4, 0, 0, 0, 0, time.UTC)

		httpmock.Activate()
	})

	AfterEach(func() {
		httpmock.DeactivateAndReset()
	})

	It("parses the chart response into parallel price and volume series", func() {
		httpmock.RegisterResponder("GET", `=~^https://query1\.finance\.yahoo\.com/v8/finance/chart/BTC-USD`,
			httpmock.NewStringResponder(200, `{
				"chart": {
					"result": [{
						"timestamp": [1704067200, 1704153600, 1704240000],
						"indicators": {"quote": [{
							"close": [42000.5, 43012.25, 42750.0],
							"volume": [1000, 2000, 3000]
						}]}
					}],
					"error": null
				}
			}`))

		prices, volumes, err := provider.History(ctx, "BTC-USD", begin, end)
		Expect(err).To(BeNil())
		Expect(prices).To(HaveLen(3))
		Expect(volumes).To(HaveLen(3))

		// second timestamps become millisecond timestamps
		Expect(prices[0].Timestamp).To(Equal(int64(1704067200000)))
		Expect(prices[1].Value).To(Equal(43012.25))
		Expect(volumes[2].Value).To(Equal(3000.0))
	})

	It("drops days the provider reports without a close", func() {
		httpmock.RegisterResponder("GET", `=~^https://query1\.finance\.yahoo\.com/v8/finance/chart/BTC-USD`,
			httpmock.NewStringResponder(200, `{
				"chart": {
					"result": [{
						"timestamp": [1704067200, 1704153600],
						"indicators": {"quote": [{
							"close": [42000.5, 0],
							"volume": [1000, 0]
						}]}
					}],
					"error": null
				}
			}`))

		prices, _, err := provider.History(ctx, "BTC-USD", begin, end)
		Expect(err).To(BeNil())
		Expect(prices).To(HaveLen(1))
	})

	It("maps a chart-level error to ErrProviderError", func() {
		httpmock.RegisterResponder("GET", `=~^https://query1\.finance\.yahoo\.com/v8/finance/chart/NOPE-USD`,
			httpmock.NewStringResponder(200, `{
				"chart": {
					"result": null,
					"error": {"code": "Not Found", "description": "No data found, symbol may be delisted"}
				}
			}`))

		_, _, err := provider.History(ctx, "NOPE-USD", begin, end)
		Expect(err).To(MatchError(data.ErrProviderError))
	})

	It("maps an HTTP error status to ErrProviderError", func() {
		httpmock.RegisterResponder("GET", `=~^https://query1\.finance\.yahoo\.com/v8/finance/chart/BTC-USD`,
			httpmock.NewStringResponder(429, "Too Many Requests"))

		_, _, err := provider.History(ctx, "BTC-USD", begin, end)
		Expect(err).To(MatchError(data.ErrProviderError))
	})

	It("maps an empty result set to ErrNoData", func() {
		httpmock.RegisterResponder("GET", `=~^https://query1\.finance\.yahoo\.com/v8/finance/chart/BTC-USD`,
			httpmock.NewStringResponder(200, `{"chart": {"result": [], "error": null}}`))

		_, _, err := provider.History(ctx, "BTC-USD", begin, end)
		Expect(err).To(MatchError(data.ErrNoData))
	})
})
