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

package actions_test

import (
	"context"
	"errors"
	"net/http"

	"github.com/jarcoal/httpmock"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/seed-sandbox/ss-client/actions"
	"github.com/seed-sandbox/ss-client/api"
	"github.com/seed-sandbox/ss-client/localdata"
	"github.com/seed-sandbox/ss-client/session"
	"github.com/seed-sandbox/ss-client/store"
)

var _ = Describe("Dashboard", func() {
	var (
		ctx        context.Context
		s          *store.Store
		client     *api.Client
		local      *localdata.MemoryStore
		dashboard  *actions.Dashboard
		mockClient *http.Client
	)

	BeforeEach(func() {
		ctx = context.Background()

		mockClient = &http.Client{}
		httpmock.ActivateNonDefault(mockClient)

		s = store.New()
		client = api.New("https://backend.test/api", session.NewTokenSource(s))
		client.SetHTTPClient(mockClient)
		local = localdata.NewMemoryStore()
		dashboard = actions.NewDashboard(client, s, local)

		signIn(s, "live-token")
		s.Portfolios.Set([]store.Portfolio{{ID: "pf-1", Name: "Growth", BaseCurrency: "KRW"}})
		s.SelectedPortfolio.Set("pf-1")
	})

	AfterEach(func() {
		httpmock.DeactivateAndReset()
	})

	Context("preferences", func() {
		It("defaults the market index and range", func() {
			Expect(dashboard.MarketIndex(ctx)).To(Equal("sp500"))
			Expect(dashboard.Range(ctx)).To(Equal("7d"))
		})

		It("persists the range preference", func() {
			Expect(dashboard.SetRange(ctx, "30d")).To(BeNil())
			Expect(dashboard.Range(ctx)).To(Equal("30d"))

			v, ok, _ := local.Get(ctx, localdata.KeyDashboardRange)
			Expect(ok).To(BeTrue())
			Expect(v).To(Equal("30d"))
		})

		It("persists the market index and refetches risk against it", func() {
			httpmock.RegisterResponder("GET", "https://backend.test/api/analytics/risk/pf-1?benchmark=nasdaq",
				httpmock.NewStringResponder(200, `{
					"metrics": {"volatility": 0.25},
					"benchmark": {"symbol": "QQQ", "volatility": 0.2}
				}`))

			Expect(dashboard.SetMarketIndex(ctx, "nasdaq")).To(BeNil())
			Expect(dashboard.MarketIndex(ctx)).To(Equal("nasdaq"))
			Expect(s.Risk.Get().Benchmark.Symbol).To(Equal("QQQ"))
		})
	})

	Context("refreshing without a selection", func() {
		It("returns ErrNoSelection", func() {
			s.SelectedPortfolio.Set("")
			Expect(errors.Is(dashboard.RefreshSummary(ctx), actions.ErrNoSelection)).To(BeTrue())
			Expect(errors.Is(dashboard.RefreshRisk(ctx), actions.ErrNoSelection)).To(BeTrue())
			Expect(errors.Is(dashboard.RefreshChart(ctx, "daily"), actions.ErrNoSelection)).To(BeTrue())
			Expect(errors.Is(dashboard.RefreshAIReview(ctx), actions.ErrNoSelection)).To(BeTrue())
		})
	})

	Context("refreshing the summary", func() {
		It("replaces the holdings and snapshot together", func() {
			httpmock.RegisterResponder("GET", "https://backend.test/api/portfolios/pf-1/summary",
				httpmock.NewStringResponder(200, `{
					"portfolioId": "pf-1",
					"baseCurrency": "KRW",
					"totalPortfolioValue": 1450000,
					"assets": [{"ticker": "AAPL", "quantity": 10, "averagePrice": 90, "currentPrice": 100, "currency": "USD"}]
				}`))

			Expect(dashboard.RefreshSummary(ctx)).To(BeNil())
			Expect(s.Items.Get()).To(HaveLen(1))
			Expect(s.Dashboard.Get().TotalValue).To(BeNumerically("==", 1450000))
		})

		It("discards a response for a superseded selection", func() {
			httpmock.RegisterResponder("GET", "https://backend.test/api/portfolios/pf-1/summary",
				func(req *http.Request) (*http.Response, error) {
					s.BumpSelectionGeneration()
					return httpmock.NewStringResponse(200, `{"portfolioId": "pf-1", "assets": [{"ticker": "STALE"}]}`), nil
				})

			Expect(dashboard.RefreshSummary(ctx)).To(BeNil())
			Expect(s.Items.Get()).To(BeNil())
			Expect(s.Dashboard.Get()).To(BeNil())
		})
	})

	Context("refreshing the chart", func() {
		It("uses the persisted range preference", func() {
			Expect(dashboard.SetRange(ctx, "30d")).To(BeNil())

			httpmock.RegisterResponder("GET", "https://backend.test/api/portfolios/pf-1/chart?interval=daily&range=30d",
				httpmock.NewStringResponder(200, `{"historicalChartData": [{"date": "2026-08-21", "value": 1450000}]}`))

			Expect(dashboard.RefreshChart(ctx, "daily")).To(BeNil())
			Expect(s.Chart.Get().Range).To(Equal("30d"))
			Expect(s.Chart.Get().Points).To(HaveLen(1))
		})
	})

	Context("refreshing the benchmark series", func() {
		It("aligns the index with the portfolio range", func() {
			httpmock.RegisterResponder("GET", "https://backend.test/api/market-index/sp500?interval=daily&portfolioId=pf-1&range=7d",
				httpmock.NewStringResponder(200, `{"symbol": "SPY", "range": "7d", "interval": "daily", "data": [{"date": "2026-08-21", "value": 5600}]}`))

			Expect(dashboard.RefreshIndexChart(ctx, "daily")).To(BeNil())
			Expect(s.IndexChart.Get().Symbol).To(Equal("SPY"))
			Expect(s.IndexChart.Get().PortfolioID).To(Equal("pf-1"))
		})
	})

	Context("refreshing the narrative review", func() {
		It("caches the summary text", func() {
			httpmock.RegisterResponder("GET", "https://backend.test/api/ai/summary/pf-1",
				httpmock.NewStringResponder(200, `{"summary": "Heavy tech concentration."}`))

			Expect(dashboard.RefreshAIReview(ctx)).To(BeNil())
			Expect(s.AIReview.Get()).To(Equal("Heavy tech concentration."))
		})
	})
})
