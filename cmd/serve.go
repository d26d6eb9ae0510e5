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
	"os"
	"os/signal"
	"runtime/pprof"
	"runtime/trace"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/omegalytics/omega-api/analysis"
	"github.com/omegalytics/omega-api/common"
	"github.com/omegalytics/omega-api/data"
	"github.com/omegalytics/omega-api/handler"
	"github.com/omegalytics/omega-api/middleware"
	"github.com/omegalytics/omega-api/observability/opentelemetry"
	"github.com/omegalytics/omega-api/router"
)

const snapshotCacheSize = 64

func init() {
	viper.BindEnv("server.port", "PORT")
	serveCmd.Flags().IntP("port", "p", 3000, "Port to run application server on")
	viper.BindPFlag("server.port", serveCmd.Flags().Lookup("port"))

	serveCmd.Flags().String("update-at", "03:00", "Time of day (HH:MM) to run the daily data update")
	viper.BindPFlag("server.update_at", serveCmd.Flags().Lookup("update-at"))

	serveCmd.Flags().String("cors-origins", "http://localhost:8080", "Comma separated list of allowed CORS origins")
	viper.BindPFlag("server.cors_origins", serveCmd.Flags().Lookup("cors-origins"))

	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the omega-api server",
	Long:  `Run HTTP server that serves token metrics and rankings`,
	Run: func(cmd *cobra.Command, args []string) {
		if Profile {
			f, err := os.Create("profile.out")
			if err != nil {
				log.Fatal().Err(err).Msg("could not create profile.out")
			}
			pprof.StartCPUProfile(f)
			defer pprof.StopCPUProfile()
		}

		if Trace {
			f, err := os.Create("trace.out")
			if err != nil {
				log.Fatal().Err(err).Msg("failed to create trace output file")
			}
			defer func() {
				if err := f.Close(); err != nil {
					log.Fatal().Err(err).Msg("failed to close trace file")
				}
			}()

			if err := trace.Start(f); err != nil {
				log.Fatal().Err(err).Msg("failed to start trace")
			}
			defer trace.Stop()
		}

		common.SetupLogging()
		log.Info().Msg("initialized logging")

		if viper.GetString("otlp.endpoint") != "" {
			shutdownTracing, err := opentelemetry.Setup()
			if err != nil {
				log.Fatal().Err(err).Msg("could not initialize tracing")
			}
			defer func() {
				if err := shutdownTracing(context.Background()); err != nil {
					log.Error().Err(err).Msg("could not shut down tracing")
				}
			}()
		}

		// data layer
		store, err := data.NewStore(viper.GetString("data.dir"))
		if err != nil {
			log.Fatal().Err(err).Msg("could not open data store")
		}

		cache, err := common.NewCache()
		if err != nil {
			log.Fatal().Err(err).Msg("could not initialize cache")
		}

		manager := data.NewManager(store, data.NewYahoo(), cache)
		log.Info().Msg("initialized data framework")

		// analysis surface
		published := &analysis.Published{}
		snapCache, err := analysis.NewSnapshotCache(snapshotCacheSize)
		if err != nil {
			log.Fatal().Err(err).Msg("could not initialize snapshot cache")
		}
		metricsHandler := handler.NewMetrics(manager, published, snapCache, analysisParams())

		// Create new Fiber instance
		app := fiber.New(fiber.Config{
			JSONEncoder: json.Marshal,
			JSONDecoder: json.Unmarshal,
		})

		// shutdown cleanly on interrupt
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt)
		go func() {
			sig := <-c // block until signal is read
			fmt.Printf("Received signal: '%s'; shutting down...\n", sig.String())
			if err := app.Shutdown(); err != nil {
				log.Fatal().Err(err).Msg("could not shutdown app")
			}
		}()

		// Configure CORS
		corsConfig := cors.Config{
			AllowOrigins: viper.GetString("server.cors_origins"),
			AllowHeaders: "*",
			AllowMethods: "GET,POST,HEAD",
		}
		app.Use(cors.New(corsConfig))

		// Setup logging middleware
		app.Use(middleware.NewLogger())

		// Setup routes
		router.SetupRoutes(app, manager, metricsHandler)

		// compute an initial snapshot so /v1/metrics has something to serve
		go func() {
			if _, err := metricsHandler.Recompute(context.Background(), analysisParams()); err != nil {
				log.Warn().Err(err).Msg("initial analysis run failed")
			}
		}()

		// refresh data and metrics once a day
		scheduler := gocron.NewScheduler(time.UTC)
		scheduler.Every(1).Day().At(viper.GetString("server.update_at")).Do(func() {
			ctx := context.Background()
			if _, err := manager.Update(ctx); err != nil {
				log.Error().Err(err).Msg("scheduled data update failed")
			}
			if _, err := metricsHandler.Recompute(ctx, analysisParams()); err != nil {
				log.Error().Err(err).Msg("scheduled analysis run failed")
			}
		})
		scheduler.StartAsync()

		// Start server
		if err := app.Listen(":" + viper.GetString("server.port")); err != nil {
			log.Fatal().Err(err).Msg("server stopped")
		}
	},
}
