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
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/omegalytics/omega-api/analysis"
	"github.com/omegalytics/omega-api/common"
	"github.com/omegalytics/omega-api/metrics"
)

var Profile bool
var Trace bool

func init() {
	// Data store
	viper.BindEnv("data.dir", "OMEGA_DATA_DIR")
	rootCmd.PersistentFlags().String("data-dir", "data", "Directory holding the JSON token store")
	viper.BindPFlag("data.dir", rootCmd.PersistentFlags().Lookup("data-dir"))

	// Cache
	viper.BindEnv("cache.redis_url", "REDIS_URL")
	rootCmd.PersistentFlags().String("cache-redis-url", "redis://localhost:6379", "Redis connection string")
	viper.BindPFlag("cache.redis_url", rootCmd.PersistentFlags().Lookup("cache-redis-url"))

	rootCmd.PersistentFlags().Bool("cache-redis", false, "Enable the shared redis cache tier")
	viper.BindPFlag("cache.redis", rootCmd.PersistentFlags().Lookup("cache-redis"))

	rootCmd.PersistentFlags().Int("cache-local-size", 1000, "Maximum number of entries in the in-process cache")
	viper.BindPFlag("cache.local_size", rootCmd.PersistentFlags().Lookup("cache-local-size"))

	rootCmd.PersistentFlags().Int("cache-ttl", 3600, "Cache entry time-to-live in seconds")
	viper.BindPFlag("cache.ttl", rootCmd.PersistentFlags().Lookup("cache-ttl"))

	// Analysis
	rootCmd.PersistentFlags().Float64("threshold", 0, "Omega ratio threshold (per-period return)")
	viper.BindPFlag("analysis.threshold", rootCmd.PersistentFlags().Lookup("threshold"))

	rootCmd.PersistentFlags().Float64("risk-free-rate", 0.02, "Annualized risk-free rate used by the Sharpe ratio")
	viper.BindPFlag("analysis.risk_free_rate", rootCmd.PersistentFlags().Lookup("risk-free-rate"))

	rootCmd.PersistentFlags().IntSlice("timeframes", analysis.DefaultTimeframes, "Trailing windows in days")
	viper.BindPFlag("analysis.timeframes", rootCmd.PersistentFlags().Lookup("timeframes"))

	rootCmd.PersistentFlags().String("normalization", string(metrics.MethodMinMax), "Normalization method: zscore, minmax, robust or none")
	viper.BindPFlag("analysis.normalization", rootCmd.PersistentFlags().Lookup("normalization"))

	// OTLP tracing
	viper.BindEnv("otlp.endpoint", "OTLP_ENDPOINT")
	rootCmd.PersistentFlags().String("otlp-endpoint", "", "OTLP collector endpoint; tracing is disabled when blank")
	viper.BindPFlag("otlp.endpoint", rootCmd.PersistentFlags().Lookup("otlp-endpoint"))

	// Logging configuration
	viper.BindEnv("log.level", "OMEGA_LOG_LEVEL")
	rootCmd.PersistentFlags().String("log-level", "info", "Logging level")
	viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))

	viper.BindEnv("log.report_caller", "OMEGA_LOG_REPORT_CALLER")
	rootCmd.PersistentFlags().Bool("log-report-caller", false, "Log function name that called log statement")
	viper.BindPFlag("log.report_caller", rootCmd.PersistentFlags().Lookup("log-report-caller"))

	viper.BindEnv("log.output", "OMEGA_LOG_OUTPUT")
	rootCmd.PersistentFlags().String("log-output", "stderr", "Write logs to specified output one of: file path, `stdout`, or `stderr`")
	viper.BindPFlag("log.output", rootCmd.PersistentFlags().Lookup("log-output"))

	rootCmd.PersistentFlags().Bool("log-pretty", false, "Use the colorized console log format")
	viper.BindPFlag("log.pretty", rootCmd.PersistentFlags().Lookup("log-pretty"))

	rootCmd.PersistentFlags().BoolVar(&Profile, "cpu-profile", false, "Run pprof and save in profile.out")
	rootCmd.PersistentFlags().BoolVar(&Trace, "trace", false, "Trace program execution and save in trace.out")
}

var rootCmd = &cobra.Command{
	Use:     "omega-api",
	Version: common.CurrentVersion.String(),
	Short:   "Omega API ranks crypto tokens by risk-adjusted performance",
	Long:    `A service that computes Omega and Sharpe ratios for a crypto token universe over multiple trailing timeframes and serves ranked results over HTTP.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// analysisParams builds run parameters from the analysis.* configuration keys.
func analysisParams() analysis.Params {
	params := analysis.DefaultParams()
	params.Threshold = viper.GetFloat64("analysis.threshold")
	params.RiskFreeRate = viper.GetFloat64("analysis.risk_free_rate")
	if timeframes := viper.GetIntSlice("analysis.timeframes"); len(timeframes) > 0 {
		params.Timeframes = timeframes
	}

	method, err := metrics.ParseMethod(viper.GetString("analysis.normalization"))
	if err != nil {
		log.Fatal().Err(err).Str("Method", viper.GetString("analysis.normalization")).Msg("invalid normalization method configured")
	}
	params.Normalization = method

	if err := params.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid analysis parameters configured")
	}
	return params
}
