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

package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/omegalytics/omega-api/data"
	"github.com/omegalytics/omega-api/handler"
)

// SetupRoutes setup router api
func SetupRoutes(app *fiber.App, manager *data.Manager, metricsHandler *handler.Metrics) {
	api := app.Group("/v1")
	api.Get("/", handler.Ping)

	// Tokens
	tokens := api.Group("/tokens")
	tokens.Get("/", handler.NewListTokens(manager))
	tokens.Get("/:id/history", handler.NewTokenHistory(manager))

	// Metrics
	metrics := api.Group("/metrics")
	metrics.Get("/", metricsHandler.Latest())
	metrics.Get("/normalized", metricsHandler.Normalized())
	metrics.Post("/recalculate", metricsHandler.Recalculate())
}
