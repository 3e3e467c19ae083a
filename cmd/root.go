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
	"fmt"
	"os"

	"github.com/seed-sandbox/ss-client/common"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Server
	viper.BindEnv("server.url", "SSC_SERVER_URL")
	rootCmd.PersistentFlags().String("server-url", "http://localhost:8000/api", "Base URL of the portfolio API server")
	viper.BindPFlag("server.url", rootCmd.PersistentFlags().Lookup("server-url"))

	// Identity provider
	viper.BindEnv("identity.api_key", "SSC_IDENTITY_API_KEY")
	rootCmd.PersistentFlags().String("identity-api-key", "", "Identity provider API key")
	viper.BindPFlag("identity.api_key", rootCmd.PersistentFlags().Lookup("identity-api-key"))

	viper.BindEnv("identity.email", "SSC_IDENTITY_EMAIL")
	viper.BindEnv("identity.password", "SSC_IDENTITY_PASSWORD")

	// Local state
	viper.BindEnv("localdata.redis_url", "SSC_REDIS_URL")
	rootCmd.PersistentFlags().String("redis-url", "", "Redis connection string for persisted client state; in-memory when blank")
	viper.BindPFlag("localdata.redis_url", rootCmd.PersistentFlags().Lookup("redis-url"))

	// Logging configuration
	viper.BindEnv("log.level", "SSC_LOG_LEVEL")
	rootCmd.PersistentFlags().String("log-level", "warning", "Logging level")
	viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))

	viper.BindEnv("log.report_caller", "SSC_LOG_REPORT_CALLER")
	rootCmd.PersistentFlags().Bool("log-report-caller", false, "Log function name that called log statement")
	viper.BindPFlag("log.report_caller", rootCmd.PersistentFlags().Lookup("log-report-caller"))

	viper.BindEnv("log.output", "SSC_LOG_OUTPUT")
	rootCmd.PersistentFlags().String("log-output", "stdout", "Write logs to specified output one of: file path, `stdout`, or `stderr`")
	viper.BindPFlag("log.output", rootCmd.PersistentFlags().Lookup("log-output"))

	viper.BindEnv("log.pretty", "SSC_LOG_PRETTY")
	rootCmd.PersistentFlags().Bool("log-pretty", false, "Print logs in human readable format")
	viper.BindPFlag("log.pretty", rootCmd.PersistentFlags().Lookup("log-pretty"))

	// Tracing
	viper.BindEnv("otlp.endpoint", "SSC_OTLP_ENDPOINT")
	rootCmd.PersistentFlags().String("otlp-endpoint", "", "OTLP trace collector endpoint, if blank don't send traces")
	viper.BindPFlag("otlp.endpoint", rootCmd.PersistentFlags().Lookup("otlp-endpoint"))
}

var rootCmd = &cobra.Command{
	Use:     "ssc",
	Version: common.CurrentVersion.String(),
	Short:   "ssc is a portfolio client session daemon",
	Long:    `A client session layer that keeps authentication, portfolio selection and derived analytics in sync with the portfolio API server.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
