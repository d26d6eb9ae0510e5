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
	"os"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/omegalytics/omega-api/data"
)

var _ = Describe("Store", func() {
	var (
		dir   string
		store *data.Store
	)

	BeforeEach(func() {
		var err error
		dir = GinkgoT().TempDir()
		store, err = data.NewStore(dir)
		Expect(err).To(BeNil())
	})

	It("round-trips a token history", func() {
		history := &data.TokenHistory{
			Symbol:   "BTC-USD",
			CryptoID: "bitcoin",
			Name:     "BTC",
		}
		history.Append(
			[]data.Point{{Timestamp: 1700000000000, Value: 35000}, {Timestamp: 1700086400000, Value: 35500}},
			[]data.Point{{Timestamp: 1700000000000, Value: 1e9}, {Timestamp: 1700086400000, Value: 1.1e9}},
		)
		Expect(store.SaveHistory(history)).To(BeNil())

		got, err := store.History("bitcoin")
		Expect(err).To(BeNil())
		Expect(got.Symbol).To(Equal("BTC-USD"))
		Expect(got.DataPoints).To(Equal(2))
		Expect(got.Prices).To(Equal(history.Prices))
		Expect(got.Volumes).To(Equal(history.Volumes))
		Expect(got.Latest.UnixMilli()).To(Equal(int64(1700086400000)))
	})

	It("stores price points as [timestamp, value] pairs on disk", func() {
		history := &data.TokenHistory{CryptoID: "bitcoin"}
		history.Append([]data.Point{{Timestamp: 1700000000000, Value: 35000}}, nil)
		Expect(store.SaveHistory(history)).To(BeNil())

		raw, err := os.ReadFile(filepath.Join(dir, "bitcoin.json"))
		Expect(err).To(BeNil())
		Expect(string(raw)).To(ContainSubstring("[1700000000000,35000]"))
	})

	It("maps a missing history file to ErrNotFound", func() {
		_, err := store.History("dogecoin")
		Expect(err).To(MatchError(data.ErrNotFound))
	})

	It("maps an unparseable history file to ErrCorruptData", func() {
		Expect(os.WriteFile(filepath.Join(dir, "bitcoin.json"), []byte("{not json"), 0o644)).To(BeNil())

		_, err := store.History("bitcoin")
		Expect(err).To(MatchError(data.ErrCorruptData))
	})

	It("round-trips the index document", func() {
		_, err := store.Index()
		Expect(err).To(MatchError(data.ErrNotFound))

		idx := &data.Index{
			LastUpdated:     time.Now().Truncate(time.Second),
			TotalTokens:     26,
			AvailableTokens: []string{"bitcoin", "ethereum"},
			DataSource:      "Yahoo Finance",
		}
		Expect(store.SaveIndex(idx)).To(BeNil())

		got, err := store.Index()
		Expect(err).To(BeNil())
		Expect(got.TotalTokens).To(Equal(26))
		Expect(got.AvailableTokens).To(Equal([]string{"bitcoin", "ethereum"}))
		Expect(got.DataSource).To(Equal("Yahoo Finance"))
	})
})

var _ = Describe("Universe", func() {
	It("contains the 26 token default universe", func() {
		Expect(data.Universe()).To(HaveLen(26))
	})

	It("derives display names from the trading pair symbol", func() {
		info, ok := data.LookupToken("bitcoin")
		Expect(ok).To(BeTrue())
		Expect(info.Symbol).To(Equal("BTC-USD"))
		Expect(info.Name).To(Equal("BTC"))
	})

	It("reports unknown tokens", func() {
		_, ok := data.LookupToken("pets-dot-com")
		Expect(ok).To(BeFalse())
	})
})
