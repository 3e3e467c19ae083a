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
	"fmt"
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

var _ = Describe("Portfolios", func() {
	var (
		ctx        context.Context
		s          *store.Store
		client     *api.Client
		local      *localdata.MemoryStore
		portfolios *actions.Portfolios
		mockClient *http.Client
	)

	listResponder := func(ids ...string) {
		body := "["
		for i, id := range ids {
			if i > 0 {
				body += ","
			}
			body += fmt.Sprintf(`{"_id": %q, "name": "Portfolio %s", "baseCurrency": "KRW"}`, id, id)
		}
		body += "]"
		httpmock.RegisterResponder("GET", "https://backend.test/api/portfolios",
			httpmock.NewStringResponder(200, body))
	}

	dependentResponders := func(id string, totalValue float64) {
		httpmock.RegisterResponder("GET", "https://backend.test/api/portfolios/"+id+"/summary",
			httpmock.NewStringResponder(200, fmt.Sprintf(`{
				"portfolioId": %q,
				"baseCurrency": "KRW",
				"totalPortfolioValue": %f,
				"totalPortfolioCostBasis": 1000000,
				"totalPortfolioProfitLoss": 450000,
				"totalPortfolioReturnPercentage": 45,
				"assets": [{"ticker": "AAPL", "quantity": 10, "averagePrice": 90, "currentPrice": 100, "currency": "USD"}]
			}`, id, totalValue)))
		httpmock.RegisterResponder("GET", "https://backend.test/api/portfolios/"+id+"/transactions",
			httpmock.NewStringResponder(200, fmt.Sprintf(`[
				{"_id": "tx-%s", "portfolio": %q, "asset": {"ticker": "AAPL"}, "transactionType": "BUY", "quantity": 10, "price": 100, "currency": "USD"}
			]`, id, id)))
	}

	BeforeEach(func() {
		ctx = context.Background()

		mockClient = &http.Client{}
		httpmock.ActivateNonDefault(mockClient)

		s = store.New()
		client = api.New("https://backend.test/api", session.NewTokenSource(s))
		client.SetHTTPClient(mockClient)
		local = localdata.NewMemoryStore()
		portfolios = actions.NewPortfolios(client, s, local)

		signIn(s, "live-token")
	})

	AfterEach(func() {
		httpmock.DeactivateAndReset()
	})

	Context("when refreshing with no prior selection", func() {
		It("selects the first portfolio and fetches its dependents", func() {
			listResponder("pf-1", "pf-2")
			dependentResponders("pf-1", 1450000)

			Expect(portfolios.Refresh(ctx)).To(BeNil())

			Expect(s.Portfolios.Get()).To(HaveLen(2))
			Expect(s.SelectedPortfolio.Get()).To(Equal("pf-1"))
			Expect(s.Items.Get()).To(HaveLen(1))
			Expect(s.Transactions.Get()).To(HaveLen(1))

			persisted, ok, _ := local.Get(ctx, localdata.KeySelectedPortfolio)
			Expect(ok).To(BeTrue())
			Expect(persisted).To(Equal("pf-1"))

			// the derived totals follow the backend snapshot
			Expect(s.Totals.Get().Value.InexactFloat64()).To(BeNumerically("==", 1450000))
		})
	})

	Context("when the current selection survives a refresh", func() {
		It("keeps it without refetching dependents", func() {
			listResponder("pf-1", "pf-2")
			dependentResponders("pf-2", 900000)
			Expect(portfolios.Refresh(ctx)).ToNot(BeNil()) // pf-1 dependents not mocked yet

			dependentResponders("pf-1", 1450000)
			Expect(portfolios.Refresh(ctx)).To(BeNil())
			Expect(s.SelectedPortfolio.Get()).To(Equal("pf-1"))

			before := httpmock.GetCallCountInfo()["GET https://backend.test/api/portfolios/pf-1/summary"]
			Expect(portfolios.Refresh(ctx)).To(BeNil())
			after := httpmock.GetCallCountInfo()["GET https://backend.test/api/portfolios/pf-1/summary"]
			Expect(after).To(Equal(before))
		})
	})

	Context("when the selected portfolio disappears from the list", func() {
		It("falls back to the first entry", func() {
			listResponder("pf-1", "pf-2")
			dependentResponders("pf-1", 1450000)
			Expect(portfolios.Refresh(ctx)).To(BeNil())
			Expect(s.SelectedPortfolio.Get()).To(Equal("pf-1"))

			listResponder("pf-2")
			dependentResponders("pf-2", 900000)
			Expect(portfolios.Refresh(ctx)).To(BeNil())

			Expect(s.SelectedPortfolio.Get()).To(Equal("pf-2"))
			Expect(s.Dashboard.Get().PortfolioID).To(Equal("pf-2"))
		})
	})

	Context("when the list comes back empty", func() {
		It("clears the selection and every dependent cache", func() {
			listResponder("pf-1")
			dependentResponders("pf-1", 1450000)
			Expect(portfolios.Refresh(ctx)).To(BeNil())

			listResponder()
			Expect(portfolios.Refresh(ctx)).To(BeNil())

			Expect(s.SelectedPortfolio.Get()).To(BeEmpty())
			Expect(s.Items.Get()).To(BeNil())
			Expect(s.Dashboard.Get()).To(BeNil())
			Expect(s.Transactions.Get()).To(BeNil())

			_, ok, _ := local.Get(ctx, localdata.KeySelectedPortfolio)
			Expect(ok).To(BeFalse())
		})
	})

	Context("when the list fetch fails", func() {
		It("keeps the cached list and selection", func() {
			listResponder("pf-1")
			dependentResponders("pf-1", 1450000)
			Expect(portfolios.Refresh(ctx)).To(BeNil())

			httpmock.RegisterResponder("GET", "https://backend.test/api/portfolios",
				httpmock.NewStringResponder(500, `{"message": "boom"}`))

			Expect(portfolios.Refresh(ctx)).ToNot(BeNil())
			Expect(s.Portfolios.Get()).To(HaveLen(1))
			Expect(s.SelectedPortfolio.Get()).To(Equal("pf-1"))
		})
	})

	Context("when restoring the persisted selection", func() {
		It("refuses before the session resolves", func() {
			s.Authenticated.Set(store.AuthUnknown)
			err := portfolios.RestoreSelection(ctx)
			Expect(errors.Is(err, actions.ErrNotSignedIn)).To(BeTrue())
		})

		It("applies a persisted selection that is still valid", func() {
			Expect(local.Set(ctx, localdata.KeySelectedPortfolio, "pf-2")).To(BeNil())
			listResponder("pf-1", "pf-2")
			dependentResponders("pf-2", 900000)

			Expect(portfolios.RestoreSelection(ctx)).To(BeNil())
			Expect(s.SelectedPortfolio.Get()).To(Equal("pf-2"))
		})

		It("falls back to the first portfolio when the persisted id is gone", func() {
			Expect(local.Set(ctx, localdata.KeySelectedPortfolio, "pf-gone")).To(BeNil())
			listResponder("pf-1", "pf-2")
			dependentResponders("pf-1", 1450000)

			Expect(portfolios.RestoreSelection(ctx)).To(BeNil())
			Expect(s.SelectedPortfolio.Get()).To(Equal("pf-1"))
		})

		It("clears the selection when no portfolios exist", func() {
			Expect(local.Set(ctx, localdata.KeySelectedPortfolio, "pf-gone")).To(BeNil())
			listResponder()

			Expect(portfolios.RestoreSelection(ctx)).To(BeNil())
			Expect(s.SelectedPortfolio.Get()).To(BeEmpty())

			_, ok, _ := local.Get(ctx, localdata.KeySelectedPortfolio)
			Expect(ok).To(BeFalse())
		})
	})

	Context("when selecting", func() {
		BeforeEach(func() {
			listResponder("pf-1", "pf-2")
			dependentResponders("pf-1", 1450000)
			Expect(portfolios.Refresh(ctx)).To(BeNil())
		})

		It("rejects an id absent from the cached list", func() {
			err := portfolios.Select(ctx, "pf-unknown")
			Expect(errors.Is(err, actions.ErrUnknownPortfolio)).To(BeTrue())
			Expect(s.SelectedPortfolio.Get()).To(Equal("pf-1"))
		})

		It("is a no-op for the already selected id", func() {
			before := httpmock.GetTotalCallCount()
			Expect(portfolios.Select(ctx, "pf-1")).To(BeNil())
			Expect(httpmock.GetTotalCallCount()).To(Equal(before))
		})

		It("switches and refetches the dependents", func() {
			dependentResponders("pf-2", 900000)

			Expect(portfolios.Select(ctx, "pf-2")).To(BeNil())
			Expect(s.SelectedPortfolio.Get()).To(Equal("pf-2"))
			Expect(s.Dashboard.Get().PortfolioID).To(Equal("pf-2"))
			Expect(s.Transactions.Get()[0].PortfolioID).To(Equal("pf-2"))
		})
	})

	Context("when a response arrives for a superseded selection", func() {
		It("discards it instead of overwriting the live state", func() {
			listResponder("pf-1", "pf-2")

			// the selection moves on while pf-1's summary is in flight
			httpmock.RegisterResponder("GET", "https://backend.test/api/portfolios/pf-1/summary",
				func(req *http.Request) (*http.Response, error) {
					s.BumpSelectionGeneration()
					return httpmock.NewStringResponse(200, `{
						"portfolioId": "pf-1",
						"baseCurrency": "KRW",
						"totalPortfolioValue": 111111,
						"assets": [{"ticker": "STALE"}]
					}`), nil
				})

			Expect(portfolios.Refresh(ctx)).To(BeNil())

			// the stale payload never landed
			Expect(s.Items.Get()).To(BeNil())
			Expect(s.Dashboard.Get()).To(BeNil())
		})
	})

	Context("when deleting the selected portfolio", func() {
		It("heals onto the next portfolio", func() {
			listResponder("pf-1", "pf-2")
			dependentResponders("pf-1", 1450000)
			Expect(portfolios.Refresh(ctx)).To(BeNil())

			httpmock.RegisterResponder("DELETE", "https://backend.test/api/portfolios/pf-1",
				httpmock.NewStringResponder(204, ""))
			listResponder("pf-2")
			dependentResponders("pf-2", 900000)

			Expect(portfolios.DeleteCurrent(ctx)).To(BeNil())
			Expect(s.SelectedPortfolio.Get()).To(Equal("pf-2"))
		})

		It("clears everything when the last portfolio is deleted", func() {
			listResponder("pf-1")
			dependentResponders("pf-1", 1450000)
			Expect(portfolios.Refresh(ctx)).To(BeNil())

			httpmock.RegisterResponder("DELETE", "https://backend.test/api/portfolios/pf-1",
				httpmock.NewStringResponder(204, ""))
			listResponder()

			Expect(portfolios.DeleteCurrent(ctx)).To(BeNil())
			Expect(s.SelectedPortfolio.Get()).To(BeEmpty())
			Expect(s.Dashboard.Get()).To(BeNil())
			Expect(s.Totals.Get()).To(BeNil())
		})

		It("is a no-op without a selection", func() {
			Expect(portfolios.DeleteCurrent(ctx)).To(BeNil())
			Expect(httpmock.GetTotalCallCount()).To(Equal(0))
		})
	})

	Context("when creating a portfolio", func() {
		It("registers it and refreshes the list", func() {
			httpmock.RegisterResponder("POST", "https://backend.test/api/portfolios",
				httpmock.NewStringResponder(201, `{}`))
			listResponder("pf-new")
			dependentResponders("pf-new", 0)

			Expect(portfolios.Create(ctx, "Retirement", "KRW")).To(BeNil())
			Expect(s.SelectedPortfolio.Get()).To(Equal("pf-new"))
		})
	})
})
