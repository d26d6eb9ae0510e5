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

package data

import "strings"

// defaultUniverse is the built-in token set, used whenever the store's index
// is missing or empty. Symbols follow the quote-provider convention of
// <ticker>-USD pairs.
var defaultUniverse = []TokenInfo{
	{ID: "bitcoin", Symbol: "BTC-USD"},
	{ID: "ethereum", Symbol: "ETH-USD"},
	{ID: "binancecoin", Symbol: "BNB-USD"},
	{ID: "xrp", Symbol: "XRP-USD"},
	{ID: "solana", Symbol: "SOL-USD"},
	{ID: "cardano", Symbol: "ADA-USD"},
	{ID: "dogecoin", Symbol: "DOGE-USD"},
	{ID: "tron", Symbol: "TRX-USD"},
	{ID: "chainlink", Symbol: "LINK-USD"},
	{ID: "polkadot", Symbol: "DOT-USD"},
	{ID: "litecoin", Symbol: "LTC-USD"},
	{ID: "bitcoin-cash", Symbol: "BCH-USD"},
	{ID: "stellar", Symbol: "XLM-USD"},
	{ID: "ethereum-classic", Symbol: "ETC-USD"},
	{ID: "monero", Symbol: "XMR-USD"},
	{ID: "avalanche", Symbol: "AVAX-USD"},
	{ID: "shiba-inu", Symbol: "SHIB-USD"},
	{ID: "cosmos", Symbol: "ATOM-USD"},
	{ID: "near", Symbol: "NEAR-USD"},
	{ID: "algorand", Symbol: "ALGO-USD"},
	{ID: "vechain", Symbol: "VET-USD"},
	{ID: "internet-computer", Symbol: "ICP-USD"},
	{ID: "hedera", Symbol: "HBAR-USD"},
	{ID: "quant", Symbol: "QNT-USD"},
	{ID: "filecoin", Symbol: "FIL-USD"},
	{ID: "aave", Symbol: "AAVE-USD"},
}

// Universe returns the built-in token set with display names filled in.
func Universe() []TokenInfo {
	out := make([]TokenInfo, len(defaultUniverse))
	copy(out, defaultUniverse)
	for ii := range out {
		out[ii].Name = strings.TrimSuffix(out[ii].Symbol, "-USD")
	}
	return out
}

// LookupToken finds a universe entry by its id.
func LookupToken(id string) (TokenInfo, bool) {
	for _, info := range Universe() {
		if info.ID == id {
			return info, true
		}
	}
	return TokenInfo{}, false
}
