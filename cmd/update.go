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

package cmd

import (
	"context"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/omegalytics/omega-api/common"
	"github.com/omegalytics/omega-api/data"
)

func init() {
	rootCmd.AddCommand(updateCmd)
}

var updateCmd = &cobra.Command{
	Use:   "update [token id ...]",
	Short: "Download missing price history for the token universe",
	Long:  `Fetch daily prices from the quote provider for every token in the universe (or just the listed token ids) and merge the new observations into the JSON store.`,
	Run: func(cmd *cobra.Command, args []string) {
		common.SetupLogging()

		store, err := data.NewStore(viper.GetString("data.dir"))
		if err != nil {
			log.Fatal().Err(err).Msg("could not open data store")
		}
		manager := data.NewManager(store, data.NewYahoo(), nil)

		report, err := manager.Update(context.Background(), args...)
		if err != nil {
			log.Fatal().Err(err).Msg("update cycle failed")
		}

		if len(report.Failed) > 0 {
			log.Warn().Strs("Failed", report.Failed).Msg("some tokens could not be updated")
		}
	},
}
