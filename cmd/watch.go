// Copyright 2025-2026
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
	"time"

	"github.com/go-co-op/gocron"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/seed-sandbox/ss-client/actions"
	"github.com/seed-sandbox/ss-client/api"
	"github.com/seed-sandbox/ss-client/common"
	"github.com/seed-sandbox/ss-client/identity"
	"github.com/seed-sandbox/ss-client/localdata"
	"github.com/seed-sandbox/ss-client/observability/opentelemetry"
	"github.com/seed-sandbox/ss-client/session"
	"github.com/seed-sandbox/ss-client/store"
)

func init() {
	viper.BindEnv("watch.interval", "SSC_WATCH_INTERVAL")
	watchCmd.Flags().IntP("interval", "i", 300, "Seconds between dashboard refreshes")
	viper.BindPFlag("watch.interval", watchCmd.Flags().Lookup("interval"))

	rootCmd.AddCommand(watchCmd)
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Sign in and keep portfolio state synchronized",
	Long:  `Sign in with the configured credentials, restore the persisted portfolio selection, and refresh the dashboard on a schedule until interrupted.`,
	Run: func(cmd *cobra.Command, args []string) {
		common.SetupLogging()
		log.Info().Msg("initialized logging")

		ctx := context.Background()

		shutdownTracing, err := opentelemetry.Setup()
		if err != nil {
			log.Fatal().Err(err).Msg("could not initialize tracing")
		}
		defer func() {
			if err := shutdownTracing(ctx); err != nil {
				log.Error().Err(err).Msg("tracer shutdown failed")
			}
		}()

		local, err := openLocalData()
		if err != nil {
			log.Fatal().Err(err).Msg("could not open local state store")
		}

		provider := identity.NewFirebase()
		s := store.New()
		apiClient := api.New(viper.GetString("server.url"), session.NewTokenSource(s))

		coordinator := session.NewCoordinator(s, apiClient, local)
		coordinator.OnRedirect(func() {
			log.Warn().Msg("session expired; sign in again")
		})
		detach, err := coordinator.Attach()
		if err != nil {
			log.Fatal().Err(err).Msg("could not attach auth failure handler")
		}
		defer detach()

		manager := session.NewManager(provider, s)
		manager.Start(ctx)
		defer manager.Stop()

		auth := actions.NewAuth(provider, apiClient, s, coordinator)
		portfolios := actions.NewPortfolios(apiClient, s, local)
		dashboard := actions.NewDashboard(apiClient, s, local)

		email := viper.GetString("identity.email")
		password := viper.GetString("identity.password")
		if err := auth.SignIn(ctx, email, password); err != nil {
			log.Fatal().Err(err).Str("Email", email).Msg("sign-in failed")
		}
		if err := portfolios.RestoreSelection(ctx); err != nil {
			log.Fatal().Err(err).Msg("could not restore portfolio selection")
		}

		refresh := func() {
			if err := dashboard.RefreshSummary(ctx); err != nil {
				log.Error().Err(err).Msg("summary refresh failed")
				return
			}
			if err := dashboard.RefreshRisk(ctx); err != nil {
				log.Error().Err(err).Msg("risk refresh failed")
			}
			if totals := s.Totals.Get(); totals != nil {
				log.Info().
					Str("Portfolio", s.SelectedPortfolio.Get()).
					Str("Value", totals.Value.String()).
					Str("ProfitLoss", totals.ProfitLoss.String()).
					Str("Currency", totals.BaseCurrency).
					Msg("portfolio refreshed")
			}
		}
		refresh()

		scheduler := gocron.NewScheduler(time.UTC)
		scheduler.Every(viper.GetInt("watch.interval")).Seconds().Do(refresh)
		scheduler.StartAsync()
		defer scheduler.Stop()

		// run until interrupt
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt)
		sig := <-c
		fmt.Printf("Received signal: '%s'; shutting down...\n", sig.String())
	},
}

func openLocalData() (localdata.Store, error) {
	if viper.GetString("localdata.redis_url") == "" {
		log.Info().Msg("no redis url configured; using in-memory local state")
		return localdata.NewMemoryStore(), nil
	}
	return localdata.NewRedisStore("watch")
}
