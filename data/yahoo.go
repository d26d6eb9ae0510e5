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
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// Provider fetches daily observations for a symbol over a date range. The
// two returned series are parallel: prices and traded volumes.
type Provider interface {
	Name() string
	History(ctx context.Context, symbol string, begin, end time.Time) (prices []Point, volumes []Point, err error)
}

var yahooAPI = "https://query1.finance.yahoo.com"

const tracerName = "github.com/omegalytics/omega-api"

type yahoo struct{}

type yahooChartResponse struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Close  []float64 `json:"close"`
					Volume []float64 `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// NewYahoo creates a provider backed by the Yahoo Finance v8 chart API.
// No API key is required for daily candles.
func NewYahoo() Provider {
	return &yahoo{}
}

func (y *yahoo) Name() string {
	return "Yahoo Finance"
}

// History downloads daily closes and volumes for the symbol. Days where the
// provider reports a null close are dropped rather than surfaced as zeros.
func (y *yahoo) History(ctx context.Context, symbol string, begin, end time.Time) ([]Point, []Point, error) {
	_, span := otel.Tracer(tracerName).Start(ctx, "yahoo.History")
	defer span.End()

	subLog := log.With().Str("Symbol", symbol).Time("Begin", begin).Time("End", end).Logger()

	url := fmt.Sprintf("%s/v8/finance/chart/%s?period1=%d&period2=%d&interval=1d", yahooAPI, symbol, begin.Unix(), end.Unix())

	span.SetAttributes(
		attribute.KeyValue{
			Key:   "Url",
			Value: attribute.StringValue(url),
		},
		attribute.KeyValue{
			Key:   "Symbol",
			Value: attribute.StringValue(symbol),
		},
	)

	resp, err := http.Get(url)
	if err != nil {
		span.RecordError(err)
		msg := "yahoo http request failed"
		span.SetStatus(codes.Error, msg)
		subLog.Error().Err(err).Msg(msg)
		return nil, nil, fmt.Errorf("%s: %w", symbol, ErrProviderError)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		span.SetAttributes(attribute.KeyValue{
			Key:   "StatusCode",
			Value: attribute.IntValue(resp.StatusCode),
		})
		msg := "yahoo returned invalid response code"
		span.SetStatus(codes.Error, msg)
		subLog.Error().Int("HTTPResponseStatusCode", resp.StatusCode).Msg(msg)
		return nil, nil, fmt.Errorf("HTTP status %d for %s: %w", resp.StatusCode, symbol, ErrProviderError)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		span.RecordError(err)
		subLog.Error().Err(err).Msg("could not read yahoo response body")
		return nil, nil, fmt.Errorf("%s: %w", symbol, ErrProviderError)
	}

	var chart yahooChartResponse
	if err := json.Unmarshal(body, &chart); err != nil {
		span.RecordError(err)
		subLog.Error().Err(err).Msg("could not parse yahoo response")
		return nil, nil, fmt.Errorf("%s: %w", symbol, ErrProviderError)
	}

	if chart.Chart.Error != nil {
		subLog.Error().Str("Code", chart.Chart.Error.Code).Str("Description", chart.Chart.Error.Description).Msg("yahoo chart error")
		return nil, nil, fmt.Errorf("%s: %s: %w", symbol, chart.Chart.Error.Code, ErrProviderError)
	}

	if len(chart.Chart.Result) == 0 || len(chart.Chart.Result[0].Indicators.Quote) == 0 {
		return nil, nil, fmt.Errorf("%s: %w", symbol, ErrNoData)
	}

	result := chart.Chart.Result[0]
	quote := result.Indicators.Quote[0]

	prices := make([]Point, 0, len(result.Timestamp))
	volumes := make([]Point, 0, len(result.Timestamp))
	for ii, ts := range result.Timestamp {
		if ii >= len(quote.Close) {
			break
		}
		if quote.Close[ii] <= 0 {
			// null or missing close for this day
			continue
		}
		millis := ts * 1000
		prices = append(prices, Point{Timestamp: millis, Value: quote.Close[ii]})
		var vol float64
		if ii < len(quote.Volume) {
			vol = quote.Volume[ii]
		}
		volumes = append(volumes, Point{Timestamp: millis, Value: vol})
	}

	if len(prices) == 0 {
		return nil, nil, fmt.Errorf("%s: %w", symbol, ErrNoData)
	}

	return prices, volumes, nil
}
