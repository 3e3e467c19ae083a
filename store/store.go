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

package store

import (
	"sync"
	"sync/atomic"

	"github.com/seed-sandbox/ss-client/analytics"
)

// Store owns every piece of session-scoped client state. It is created with
// New and passed by reference to the components that need it; there are no
// package-level singletons. Primitive cells are populated by fetch actions,
// derived cells recompute lazily when read after any write.
type Store struct {
	// clock increments on every cell write; derived cells memoize against it
	clock uint64

	// session
	Token         *Cell[string]
	Authenticated *Cell[AuthState]
	Profile       *Cell[*UserProfile]

	// domain caches, all bounded by the session lifetime
	Portfolios        *Cell[[]Portfolio]
	SelectedPortfolio *Cell[string]
	Items             *Cell[[]PortfolioItem]
	Transactions      *Cell[[]Transaction]
	Dashboard         *Cell[*DashboardSnapshot]
	Risk              *Cell[*RiskReport]
	Chart             *Cell[*HistoricalChart]
	IndexChart        *Cell[*IndexChart]
	AIReview          *Cell[string]

	// derived
	Totals         *Derived[*analytics.Totals]
	Valuations     *Derived[[]analytics.Valuation]
	RiskComparison *Derived[*analytics.RiskComparison]

	// selectionGen increments on every selection change so in-flight fetches
	// issued for a prior selection can be recognized and discarded
	selectionGen uint64

	batchMu    sync.Mutex
	batchDepth int
	pending    []func()
}

// New returns a store in the cold-start state: authentication unknown, every
// domain cache empty, no selection.
func New() *Store {
	s := &Store{}

	s.Token = NewCell(s, "session.token", "")
	s.Authenticated = NewCell(s, "session.authenticated", AuthUnknown)
	s.Profile = NewCell[*UserProfile](s, "session.profile", nil)

	s.Portfolios = NewCell[[]Portfolio](s, "portfolios.all", nil)
	s.SelectedPortfolio = NewCell(s, "portfolios.selected", "")
	s.Items = NewCell[[]PortfolioItem](s, "portfolios.items", nil)
	s.Transactions = NewCell[[]Transaction](s, "transactions.all", nil)
	s.Dashboard = NewCell[*DashboardSnapshot](s, "dashboard.snapshot", nil)
	s.Risk = NewCell[*RiskReport](s, "dashboard.risk", nil)
	s.Chart = NewCell[*HistoricalChart](s, "dashboard.chart", nil)
	s.IndexChart = NewCell[*IndexChart](s, "dashboard.indexChart", nil)
	s.AIReview = NewCell(s, "dashboard.aiReview", "")

	// Totals trust the backend-computed snapshot as the single source of
	// truth; the client never re-derives the aggregate from raw items.
	s.Totals = Derive(s, "dashboard.totals", func() *analytics.Totals {
		return analytics.TotalsFromSnapshot(snapshotView(s.Dashboard.Get()))
	})

	// Per-item conversions into the portfolio base currency, for display only
	s.Valuations = Derive(s, "portfolios.valuations", func() []analytics.Valuation {
		snap := s.Dashboard.Get()
		if snap == nil {
			return nil
		}
		items := s.Items.Get()
		holdings := make([]analytics.Holding, 0, len(items))
		for _, item := range items {
			holdings = append(holdings, analytics.Holding{
				Ticker:       item.Ticker,
				Quantity:     item.Quantity,
				AveragePrice: item.AveragePrice,
				CurrentPrice: item.CurrentPrice,
				Currency:     item.Currency,
			})
		}
		return analytics.ValueHoldings(holdings, snap.BaseCurrency)
	})

	s.RiskComparison = Derive(s, "dashboard.riskComparison", func() *analytics.RiskComparison {
		report := s.Risk.Get()
		if report == nil {
			return nil
		}
		return analytics.CompareRisk(
			analytics.RiskSide{
				Volatility:  report.Metrics.Volatility,
				MaxDrawdown: report.Metrics.MaxDrawdown,
				SharpeRatio: report.Metrics.SharpeRatio,
			},
			analytics.RiskSide{
				Volatility:  report.Benchmark.Volatility,
				MaxDrawdown: report.Benchmark.MaxDrawdown,
				SharpeRatio: report.Benchmark.SharpeRatio,
			},
		)
	})

	return s
}

func snapshotView(snap *DashboardSnapshot) *analytics.Snapshot {
	if snap == nil {
		return nil
	}
	return &analytics.Snapshot{
		BaseCurrency:       snap.BaseCurrency,
		TotalValue:         snap.TotalValue,
		TotalCostBasis:     snap.TotalCostBasis,
		TotalProfitLoss:    snap.TotalProfitLoss,
		TotalReturnPercent: snap.TotalReturnPercent,
	}
}

// Batch applies fn as one logical unit: watcher notifications raised by cell
// writes inside fn are held back and delivered only after fn returns. Nested
// batches flush once the outermost one completes.
func (s *Store) Batch(fn func()) {
	s.batchMu.Lock()
	s.batchDepth++
	s.batchMu.Unlock()

	fn()

	s.batchMu.Lock()
	s.batchDepth--
	var queued []func()
	if s.batchDepth == 0 {
		queued = s.pending
		s.pending = nil
	}
	s.batchMu.Unlock()

	for _, notify := range queued {
		notify()
	}
}

func (s *Store) dispatch(notify func()) {
	s.batchMu.Lock()
	if s.batchDepth > 0 {
		s.pending = append(s.pending, notify)
		s.batchMu.Unlock()
		return
	}
	s.batchMu.Unlock()
	notify()
}

// SelectionGeneration returns the tag for the currently live selection
func (s *Store) SelectionGeneration() uint64 {
	return atomic.LoadUint64(&s.selectionGen)
}

// BumpSelectionGeneration invalidates all in-flight selection-scoped fetches
// and returns the new generation
func (s *Store) BumpSelectionGeneration() uint64 {
	return atomic.AddUint64(&s.selectionGen, 1)
}

// SelectionCurrent reports whether a fetch issued at generation gen may still
// write its result
func (s *Store) SelectionCurrent(gen uint64) bool {
	return atomic.LoadUint64(&s.selectionGen) == gen
}
