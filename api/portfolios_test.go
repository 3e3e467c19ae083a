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

package api_test

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/jarcoal/httpmock"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/seed-sandbox/ss-client/api"
)

var _ = Describe("Portfolio endpoints", func() {
	var (
		ctx        context.Context
		client     *api.Client
		mockClient *http.Client
	)

	BeforeEach(func() {
		ctx = context.Background()

		mockClient = &http.Client{}
		httpmock.ActivateNonDefault(mockClient)

		client = api.New("https://backend.test/api", &staticTokens{token: "test-token", ok: true})
		client.SetHTTPClient(mockClient)
	})

	AfterEach(func() {
		httpmock.DeactivateAndReset()
	})

	Context("when listing portfolios", func() {
		It("decodes the underscore id field", func() {
			httpmock.RegisterResponder("GET", "https://backend.test/api/portfolios",
				httpmock.NewStringResponder(200, `[
					{"_id": "pf-1", "name": "Growth", "baseCurrency": "KRW", "createdAt": "2026-01-15T09:00:00Z"},
					{"_id": "pf-2", "name": "Income", "baseCurrency": "USD"}
				]`))

			portfolios, err := client.Portfolios(ctx)
			Expect(err).To(BeNil())
			Expect(portfolios).To(HaveLen(2))
			Expect(portfolios[0].ID).To(Equal("pf-1"))
			Expect(portfolios[0].Name).To(Equal("Growth"))
			Expect(portfolios[0].CreatedAt).To(Equal(time.Date(2026, 1, 15, 9, 0, 0, 0, time.UTC)))
			Expect(portfolios[1].ID).To(Equal("pf-2"))
			Expect(portfolios[1].CreatedAt.IsZero()).To(BeTrue())
		})

		It("rejects an entry without an id", func() {
			httpmock.RegisterResponder("GET", "https://backend.test/api/portfolios",
				httpmock.NewStringResponder(200, `[{"name": "Nameless"}]`))

			_, err := client.Portfolios(ctx)
			Expect(errors.Is(err, api.ErrInvalidPayload)).To(BeTrue())
		})
	})

	Context("when fetching a summary", func() {
		It("splits the payload into holdings and the dashboard snapshot", func() {
			httpmock.RegisterResponder("GET", "https://backend.test/api/portfolios/pf-1/summary",
				httpmock.NewStringResponder(200, `{
					"portfolioId": "pf-1",
					"name": "Growth",
					"baseCurrency": "KRW",
					"exchangeRate": 1450,
					"totalPortfolioValue": 1450000,
					"totalPortfolioCostBasis": 1305000,
					"totalPortfolioProfitLoss": 145000,
					"totalPortfolioReturnPercentage": 11.11,
					"assets": [
						{"ticker": "AAPL", "name": "Apple", "quantity": 10, "averagePrice": 90, "currentPrice": 100, "currency": "USD"}
					]
				}`))

			summary, err := client.PortfolioSummary(ctx, "pf-1")
			Expect(err).To(BeNil())
			Expect(summary.Items).To(HaveLen(1))
			Expect(summary.Items[0].Ticker).To(Equal("AAPL"))
			Expect(summary.Snapshot.BaseCurrency).To(Equal("KRW"))
			Expect(summary.Snapshot.TotalValue).To(BeNumerically("==", 1450000))
			Expect(summary.Snapshot.TotalReturnPercent).To(BeNumerically("~", 11.11, 1e-9))
		})

		It("falls back to the requested id when the payload omits it", func() {
			httpmock.RegisterResponder("GET", "https://backend.test/api/portfolios/pf-1/summary",
				httpmock.NewStringResponder(200, `{"baseCurrency": "KRW", "assets": []}`))

			summary, err := client.PortfolioSummary(ctx, "pf-1")
			Expect(err).To(BeNil())
			Expect(summary.Snapshot.PortfolioID).To(Equal("pf-1"))
		})
	})

	Context("when fetching the value chart", func() {
		It("sends range and interval and decodes the series", func() {
			httpmock.RegisterResponder("GET", "https://backend.test/api/portfolios/pf-1/chart?interval=daily&range=7d",
				httpmock.NewStringResponder(200, `{
					"historicalChartData": [
						{"date": "2026-08-20", "value": 1400000},
						{"date": "2026-08-21", "value": 1450000}
					]
				}`))

			chart, err := client.PortfolioChart(ctx, "pf-1", "7d", "daily")
			Expect(err).To(BeNil())
			Expect(chart.PortfolioID).To(Equal("pf-1"))
			Expect(chart.Range).To(Equal("7d"))
			Expect(chart.Points).To(HaveLen(2))
			Expect(chart.Points[1].Value).To(BeNumerically("==", 1450000))
			Expect(chart.Points[0].Date).To(Equal(time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC)))
		})
	})

	Context("when fetching risk", func() {
		It("decodes metrics, benchmark and exclusions", func() {
			httpmock.RegisterResponder("GET", "https://backend.test/api/analytics/risk/pf-1?benchmark=sp500",
				httpmock.NewStringResponder(200, `{
					"metrics": {
						"volatility": 0.25,
						"beta": 1.1,
						"maxDrawdown": -0.3,
						"sharpeRatio": 1.2,
						"correlationMatrix": {"AAPL": {"MSFT": 0.8}}
					},
					"benchmark": {"symbol": "SPY", "name": "S&P 500", "volatility": 0.18, "maxDrawdown": -0.2, "sharpeRatio": 0.9},
					"excluded": ["PRIVATE-1"]
				}`))

			report, err := client.RiskReport(ctx, "pf-1", "sp500")
			Expect(err).To(BeNil())
			Expect(report.Metrics.Beta).To(BeNumerically("~", 1.1, 1e-9))
			Expect(report.Benchmark.Symbol).To(Equal("SPY"))
			Expect(report.Correlations["AAPL"]["MSFT"]).To(BeNumerically("~", 0.8, 1e-9))
			Expect(report.Excluded).To(Equal([]string{"PRIVATE-1"}))
		})
	})

	Context("when fetching a market index", func() {
		It("keeps the requested index name when the payload omits it", func() {
			httpmock.RegisterResponder("GET", "https://backend.test/api/market-index/sp500?interval=daily&portfolioId=pf-1&range=7d",
				httpmock.NewStringResponder(200, `{"symbol": "SPY", "data": [{"date": "2026-08-21", "value": 5600}]}`))

			chart, err := client.MarketIndex(ctx, "sp500", "pf-1", "7d", "daily")
			Expect(err).To(BeNil())
			Expect(chart.Index).To(Equal("sp500"))
			Expect(chart.Symbol).To(Equal("SPY"))
			Expect(chart.Points).To(HaveLen(1))
		})
	})

	Context("when fetching the narrative review", func() {
		It("unwraps the summary field", func() {
			httpmock.RegisterResponder("GET", "https://backend.test/api/ai/summary/pf-1",
				httpmock.NewStringResponder(200, `{"summary": "The portfolio is concentrated in tech."}`))

			summary, err := client.AISummary(ctx, "pf-1")
			Expect(err).To(BeNil())
			Expect(summary).To(Equal("The portfolio is concentrated in tech."))
		})
	})
})
