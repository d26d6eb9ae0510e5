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
	"fmt"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/omegalytics/omega-api/analysis"
	"github.com/omegalytics/omega-api/common"
	"github.com/omegalytics/omega-api/data"
	"github.com/omegalytics/omega-api/handler"
)

var normalizedOutput bool

func init() {
	analyzeCmd.Flags().BoolVar(&normalizedOutput, "normalized", false, "also print the normalized view for the configured method")
	rootCmd.AddCommand(analyzeCmd)
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze [token id ...]",
	Short: "Run one analysis pass over the local token store and print the snapshot",
	Run: func(cmd *cobra.Command, args []string) {
		common.SetupLogging()

		store, err := data.NewStore(viper.GetString("data.dir"))
		if err != nil {
			log.Fatal().Err(err).Msg("could not open data store")
		}
		manager := data.NewManager(store, data.NewYahoo(), nil)

		published := &analysis.Published{}
		metricsHandler := handler.NewMetrics(manager, published, nil, analysisParams())

		snap, err := metricsHandler.Recompute(context.Background(), analysisParams(), args...)
		if err != nil {
			log.Fatal().Err(err).Msg("analysis run failed")
		}

		raw, err := json.MarshalIndent(snap, "", "  ")
		if err != nil {
			log.Fatal().Err(err).Msg("could not serialize snapshot")
		}
		fmt.Println(string(raw))

		if normalizedOutput {
			view, err := analysis.NewNormalizedView(snap, snap.Params.Normalization)
			if err != nil {
				log.Fatal().Err(err).Msg("could not build normalized view")
			}
			raw, err := json.MarshalIndent(view, "", "  ")
			if err != nil {
				log.Fatal().Err(err).Msg("could not serialize normalized view")
			}
			fmt.Println(string(raw))
		}
	},
}
