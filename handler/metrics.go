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

package handler

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/omegalytics/omega-api/analysis"
	"github.com/omegalytics/omega-api/data"
	"github.com/omegalytics/omega-api/metrics"
)

// Metrics owns the analysis request surface: the published snapshot readers
// and the recalculate entry point. All collaborators are injected; the handler
// keeps no global state of its own.
type Metrics struct {
	manager   *data.Manager
	published *analysis.Published
	snapCache *analysis.SnapshotCache
	defaults  analysis.Params
}

// NewMetrics wires the metrics handlers together.
func NewMetrics(manager *data.Manager, published *analysis.Published, snapCache *analysis.SnapshotCache, defaults analysis.Params) *Metrics {
	return &Metrics{
		manager:   manager,
		published: published,
		snapCache: snapCache,
		defaults:  defaults,
	}
}

// Latest returns the handler for GET /v1/metrics.
func (m *Metrics) Latest() fiber.Handler {
	return func(c *fiber.Ctx) error {
		snap, err := m.published.Latest()
		if err != nil {
			if errors.Is(err, analysis.ErrNoSnapshot) {
				return fiber.NewError(fiber.StatusServiceUnavailable, "no analysis has completed yet")
			}
			return fiber.ErrInternalServerError
		}
		return c.JSON(snap)
	}
}

// Normalized returns the handler for GET /v1/metrics/normalized. The method
// query parameter selects the normalization engine method; it defaults to the
// configured one.
func (m *Metrics) Normalized() fiber.Handler {
	return func(c *fiber.Ctx) error {
		snap, err := m.published.Latest()
		if err != nil {
			if errors.Is(err, analysis.ErrNoSnapshot) {
				return fiber.NewError(fiber.StatusServiceUnavailable, "no analysis has completed yet")
			}
			return fiber.ErrInternalServerError
		}

		method := metrics.Method(c.Query("method", string(m.defaults.Normalization)))
		view, err := analysis.NewNormalizedView(snap, method)
		if err != nil {
			log.Warn().Err(err).Str("Method", string(method)).Msg("invalid normalization method requested")
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		return c.JSON(view)
	}
}

// Recalculate returns the handler for POST /v1/metrics/recalculate. Query
// parameters override the configured defaults; an identical (universe, params)
// request is served from the snapshot cache without recomputing.
func (m *Metrics) Recalculate() fiber.Handler {
	return func(c *fiber.Ctx) error {
		params, err := m.paramsFromQuery(c)
		if err != nil {
			log.Warn().Err(err).Str("Query", c.Request().URI().QueryArgs().String()).Msg("recalculate called with invalid parameters")
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		snap, err := m.Recompute(c.Context(), params)
		if err != nil {
			if errors.Is(err, metrics.ErrInvalidInput) || errors.Is(err, analysis.ErrNoTimeframes) || errors.Is(err, analysis.ErrInvalidTimeframe) {
				return fiber.NewError(fiber.StatusBadRequest, err.Error())
			}
			log.Error().Err(err).Msg("recalculate failed")
			return fiber.ErrInternalServerError
		}

		return c.JSON(snap)
	}
}

// Recompute loads the available tokens' histories (all of them, or only the
// given ids), runs the analyzer, and publishes the resulting snapshot. The
// scheduler and the analyze command reuse it.
func (m *Metrics) Recompute(ctx context.Context, params analysis.Params, only ...string) (*analysis.Snapshot, error) {
	analyzer, err := analysis.New(params)
	if err != nil {
		return nil, err
	}

	tokens, err := m.manager.Tokens()
	if err != nil {
		return nil, err
	}
	if len(only) > 0 {
		keep := make(map[string]bool, len(only))
		for _, id := range only {
			keep[id] = true
		}
		filtered := tokens[:0]
		for _, info := range tokens {
			if keep[info.ID] {
				filtered = append(filtered, info)
			}
		}
		tokens = filtered
	}

	series := make([]analysis.TokenSeries, 0, len(tokens))
	ids := make([]string, 0, len(tokens))
	for _, info := range tokens {
		history, err := m.manager.History(ctx, info.ID)
		if err != nil {
			log.Warn().Err(err).Str("Token", info.ID).Msg("skipping token without usable history")
			continue
		}
		series = append(series, analysis.TokenSeries{
			Token:  analysis.Token{ID: info.ID, Symbol: info.Symbol, Name: info.Name},
			Prices: history.PriceValues(),
		})
		ids = append(ids, info.ID)
	}

	fingerprint := params.Fingerprint(ids)
	if m.snapCache != nil {
		if snap, ok := m.snapCache.Get(fingerprint); ok {
			log.Debug().Str("Fingerprint", fingerprint).Msg("serving snapshot from cache")
			m.published.Set(snap)
			return snap, nil
		}
	}

	snap := analyzer.Run(ctx, series)
	if m.snapCache != nil {
		m.snapCache.Add(fingerprint, snap)
	}
	m.published.Set(snap)
	return snap, nil
}

// paramsFromQuery merges query parameter overrides into the configured
// default parameters.
func (m *Metrics) paramsFromQuery(c *fiber.Ctx) (analysis.Params, error) {
	params := m.defaults
	params.Timeframes = make([]int, len(m.defaults.Timeframes))
	copy(params.Timeframes, m.defaults.Timeframes)

	if raw := c.Query("threshold"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return params, fmt.Errorf("could not parse threshold %q: %w", raw, metrics.ErrInvalidInput)
		}
		params.Threshold = v
	}

	if raw := c.Query("riskFreeRate"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return params, fmt.Errorf("could not parse riskFreeRate %q: %w", raw, metrics.ErrInvalidInput)
		}
		params.RiskFreeRate = v
	}

	if raw := c.Query("timeframes"); raw != "" {
		var timeframes []int
		for _, part := range strings.Split(raw, ",") {
			tf, err := strconv.Atoi(strings.TrimSpace(part))
			if err != nil {
				return params, fmt.Errorf("could not parse timeframe %q: %w", part, metrics.ErrInvalidInput)
			}
			timeframes = append(timeframes, tf)
		}
		params.Timeframes = timeframes
	}

	if raw := c.Query("method"); raw != "" {
		method, err := metrics.ParseMethod(raw)
		if err != nil {
			return params, err
		}
		params.Normalization = method
	}

	return params, params.Validate()
}
