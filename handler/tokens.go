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
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/omegalytics/omega-api/data"
)

// NewListTokens returns the handler for GET /v1/tokens.
func NewListTokens(manager *data.Manager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokens, err := manager.Tokens()
		if err != nil {
			log.Error().Err(err).Msg("could not list tokens")
			return fiber.ErrInternalServerError
		}
		return c.JSON(tokens)
	}
}

// NewTokenHistory returns the handler for GET /v1/tokens/:id/history.
func NewTokenHistory(manager *data.Manager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		history, err := manager.History(c.Context(), id)
		if err != nil {
			if errors.Is(err, data.ErrNotFound) {
				return fiber.ErrNotFound
			}
			log.Error().Err(err).Str("Token", id).Msg("could not load token history")
			return fiber.ErrInternalServerError
		}
		return c.JSON(history)
	}
}
