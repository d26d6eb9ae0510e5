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

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"

	"github.com/omegalytics/omega-api/common"
)

// Manager coordinates the JSON store, the quote provider and the cache. It
// owns the delta-update cycle: only dates after a token's latest stored
// observation are fetched, tokens with no local file get a full download.
type Manager struct {
	store    *Store
	provider Provider
	cache    *common.Cache
}

// UpdateReport summarizes one update cycle.
type UpdateReport struct {
	Updated   []string `json:"updated"`
	Skipped   []string `json:"skipped"`
	Failed    []string `json:"failed"`
	NewPoints int      `json:"new_points"`
}

// NewManager wires a store, a provider and an optional cache together.
func NewManager(store *Store, provider Provider, cache *common.Cache) *Manager {
	return &Manager{
		store:    store,
		provider: provider,
		cache:    cache,
	}
}

func historyCacheKey(id string) string {
	return fmt.Sprintf("history:%s", id)
}

// History returns the token's stored history, consulting the cache first.
func (m *Manager) History(ctx context.Context, id string) (*TokenHistory, error) {
	if m.cache != nil {
		if raw, ok := m.cache.Get(ctx, historyCacheKey(id)); ok {
			var history TokenHistory
			if err := json.Unmarshal(raw, &history); err == nil {
				return &history, nil
			}
			m.cache.Remove(ctx, historyCacheKey(id))
		}
	}

	history, err := m.store.History(id)
	if err != nil {
		return nil, err
	}

	if m.cache != nil {
		if raw, err := json.Marshal(history); err == nil {
			if err := m.cache.Set(ctx, historyCacheKey(id), raw); err != nil {
				log.Warn().Err(err).Str("Token", id).Msg("could not cache token history")
			}
		}
	}

	return history, nil
}

// Tokens lists the tokens available locally, per the store's index. When no
// index has been written yet the built-in universe is returned so callers can
// still see what an update cycle would fetch.
func (m *Manager) Tokens() ([]TokenInfo, error) {
	idx, err := m.store.Index()
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Universe(), nil
		}
		return nil, err
	}

	tokens := make([]TokenInfo, 0, len(idx.AvailableTokens))
	for _, id := range idx.AvailableTokens {
		if info, ok := LookupToken(id); ok {
			tokens = append(tokens, info)
		} else {
			tokens = append(tokens, TokenInfo{ID: id, Symbol: id, Name: id})
		}
	}
	return tokens, nil
}

// Update runs one delta-update cycle over the requested token ids (all
// universe tokens when none are given). A failing token is recorded in the
// report and does not abort the cycle. The store's index is rewritten at the
// end of every cycle.
func (m *Manager) Update(ctx context.Context, ids ...string) (*UpdateReport, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "data.Update")
	defer span.End()

	if len(ids) == 0 {
		for _, info := range Universe() {
			ids = append(ids, info.ID)
		}
	}

	report := &UpdateReport{}
	now := time.Now()

	for _, id := range ids {
		info, ok := LookupToken(id)
		if !ok {
			log.Warn().Str("Token", id).Msg("token is not in the universe")
			report.Failed = append(report.Failed, id)
			continue
		}

		added, err := m.updateToken(ctx, info, now)
		switch {
		case err != nil:
			log.Warn().Err(err).Str("Token", id).Msg("could not update token")
			report.Failed = append(report.Failed, id)
		case added == 0:
			report.Skipped = append(report.Skipped, id)
		default:
			report.Updated = append(report.Updated, id)
			report.NewPoints += added
		}
	}

	if err := m.rewriteIndex(ids, now); err != nil {
		log.Error().Err(err).Msg("could not rewrite store index")
		return report, err
	}

	log.Info().
		Int("Updated", len(report.Updated)).
		Int("Skipped", len(report.Skipped)).
		Int("Failed", len(report.Failed)).
		Int("NewPoints", report.NewPoints).
		Msg("update cycle finished")

	return report, nil
}

// updateToken fetches and persists missing observations for one token,
// returning how many points were added.
func (m *Manager) updateToken(ctx context.Context, info TokenInfo, now time.Time) (int, error) {
	history, err := m.store.History(info.ID)
	if err != nil {
		if !errors.Is(err, ErrNotFound) && !errors.Is(err, ErrCorruptData) {
			return 0, err
		}
		// no usable local file; download everything
		history = &TokenHistory{
			Symbol:   info.Symbol,
			CryptoID: info.ID,
			Name:     info.Name,
		}
	}

	begin := time.Unix(0, 0)
	if len(history.Prices) > 0 {
		// already current through yesterday's close
		if history.Latest.AddDate(0, 0, 1).After(now) {
			return 0, nil
		}
		begin = history.Latest.AddDate(0, 0, 1)
	}

	prices, volumes, err := m.provider.History(ctx, info.Symbol, begin, now)
	if err != nil {
		if errors.Is(err, ErrNoData) && len(history.Prices) > 0 {
			return 0, nil
		}
		return 0, err
	}

	// the provider may echo back the boundary day; keep strictly new points
	newPrices := make([]Point, 0, len(prices))
	newVolumes := make([]Point, 0, len(volumes))
	latest := history.Latest.UnixMilli()
	for ii := range prices {
		if len(history.Prices) > 0 && prices[ii].Timestamp <= latest {
			continue
		}
		newPrices = append(newPrices, prices[ii])
		if ii < len(volumes) {
			newVolumes = append(newVolumes, volumes[ii])
		}
	}

	if len(newPrices) == 0 {
		return 0, nil
	}

	history.Append(newPrices, newVolumes)
	if err := m.store.SaveHistory(history); err != nil {
		return 0, err
	}

	if m.cache != nil {
		m.cache.Remove(ctx, historyCacheKey(info.ID))
	}

	log.Debug().Str("Token", info.ID).Int("NewPoints", len(newPrices)).Msg("token updated")
	return len(newPrices), nil
}

// rewriteIndex scans the store and rebuilds the index document.
func (m *Manager) rewriteIndex(candidates []string, now time.Time) error {
	available := make([]string, 0, len(candidates))
	for _, id := range candidates {
		if _, err := m.store.History(id); err == nil {
			available = append(available, id)
		}
	}
	sort.Strings(available)

	idx := &Index{
		LastUpdated:     now,
		TotalTokens:     len(Universe()),
		AvailableTokens: available,
		DataSource:      m.provider.Name(),
	}
	return m.store.SaveIndex(idx)
}
