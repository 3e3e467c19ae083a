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

package actions

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/seed-sandbox/ss-client/api"
	"github.com/seed-sandbox/ss-client/localdata"
	"github.com/seed-sandbox/ss-client/store"
)

// Portfolios owns the portfolio list and the persisted selection. The
// selection is never trusted blindly: after every successful list fetch it
// is healed against the server-reported list.
type Portfolios struct {
	api   *api.Client
	store *store.Store
	local localdata.Store
}

func NewPortfolios(apiClient *api.Client, s *store.Store, local localdata.Store) *Portfolios {
	return &Portfolios{api: apiClient, store: s, local: local}
}

// Refresh fetches the portfolio list and self-heals the selection: a
// selection still present in the new list is kept; a missing one falls back
// to the first entry; an empty list clears selection and every dependent
// cache.
func (p *Portfolios) Refresh(ctx context.Context) error {
	portfolios, err := p.api.Portfolios(ctx)
	if err != nil {
		// the cached list keeps its previous value on failure
		return err
	}
	p.store.Portfolios.Set(portfolios)
	return p.selfHeal(ctx, portfolios)
}

// RestoreSelection runs once after the session resolves to authenticated:
// it loads the persisted selection, fetches the list and applies whichever
// selection survives healing. The persisted key is deliberately not read
// before authentication so a prior user's selection cannot leak into a
// fresh load.
func (p *Portfolios) RestoreSelection(ctx context.Context) error {
	if p.store.Authenticated.Get() != store.AuthSignedIn {
		return ErrNotSignedIn
	}

	persisted, ok, err := p.local.Get(ctx, localdata.KeySelectedPortfolio)
	if err != nil {
		log.Warn().Err(err).Msg("could not read persisted selection")
		ok = false
	}

	portfolios, err := p.api.Portfolios(ctx)
	if err != nil {
		return err
	}
	p.store.Portfolios.Set(portfolios)

	target := ""
	if ok && containsPortfolio(portfolios, persisted) {
		target = persisted
	} else if len(portfolios) > 0 {
		target = portfolios[0].ID
	}

	if target == "" {
		p.clearSelection(ctx)
		return nil
	}
	return p.apply(ctx, target)
}

// Select switches to a portfolio from the cached list and refetches its
// dependent state
func (p *Portfolios) Select(ctx context.Context, id string) error {
	if !containsPortfolio(p.store.Portfolios.Get(), id) {
		return ErrUnknownPortfolio
	}
	if p.store.SelectedPortfolio.Get() == id {
		return nil
	}
	return p.apply(ctx, id)
}

// Create registers a new portfolio and refreshes the list
func (p *Portfolios) Create(ctx context.Context, name, baseCurrency string) error {
	if err := p.api.CreatePortfolio(ctx, name, baseCurrency); err != nil {
		return err
	}
	return p.Refresh(ctx)
}

// DeleteCurrent removes the selected portfolio. The follow-up Refresh heals
// the selection onto the next portfolio, or — when the last one is gone —
// clears selection and every dependent cache rather than leaving them stale.
func (p *Portfolios) DeleteCurrent(ctx context.Context) error {
	id := p.store.SelectedPortfolio.Get()
	if id == "" {
		return nil
	}
	if err := p.api.DeletePortfolio(ctx, id); err != nil {
		return err
	}
	return p.Refresh(ctx)
}

func (p *Portfolios) selfHeal(ctx context.Context, portfolios []store.Portfolio) error {
	current := p.store.SelectedPortfolio.Get()

	if len(portfolios) == 0 {
		p.clearSelection(ctx)
		return nil
	}
	if current != "" && containsPortfolio(portfolios, current) {
		return nil
	}
	return p.apply(ctx, portfolios[0].ID)
}

// apply commits a selection change: the cell, the persisted backing value,
// a new generation, and the dependent refetches tagged with it
func (p *Portfolios) apply(ctx context.Context, id string) error {
	p.store.SelectedPortfolio.Set(id)
	if err := p.local.Set(ctx, localdata.KeySelectedPortfolio, id); err != nil {
		log.Warn().Err(err).Msg("could not persist selection")
	}
	gen := p.store.BumpSelectionGeneration()
	return p.refetchDependents(ctx, id, gen)
}

func (p *Portfolios) clearSelection(ctx context.Context) {
	p.store.BumpSelectionGeneration()
	s := p.store
	s.Batch(func() {
		s.SelectedPortfolio.Set("")
		s.Items.Set(nil)
		s.Dashboard.Set(nil)
		s.Risk.Set(nil)
		s.Chart.Set(nil)
		s.IndexChart.Set(nil)
		s.AIReview.Set("")
		s.Transactions.Set(nil)
	})
	if err := p.local.Delete(ctx, localdata.KeySelectedPortfolio); err != nil {
		log.Warn().Err(err).Msg("could not clear persisted selection")
	}
}

// refetchDependents pulls the summary (holdings plus dashboard aggregates)
// and the trade log for the newly selected portfolio. Each write is guarded
// by the generation the fetch was issued for.
func (p *Portfolios) refetchDependents(ctx context.Context, id string, gen uint64) error {
	summary, err := p.api.PortfolioSummary(ctx, id)
	if err != nil {
		return err
	}
	if p.store.SelectionCurrent(gen) {
		s := p.store
		s.Batch(func() {
			s.Items.Set(summary.Items)
			s.Dashboard.Set(summary.Snapshot)
		})
	} else {
		log.Debug().Str("PortfolioID", id).Msg("discarding stale summary response")
		return nil
	}

	transactions, err := p.api.Transactions(ctx, id)
	if err != nil {
		return err
	}
	if p.store.SelectionCurrent(gen) {
		p.store.Transactions.Set(transactions)
	} else {
		log.Debug().Str("PortfolioID", id).Msg("discarding stale transaction response")
	}
	return nil
}

func containsPortfolio(portfolios []store.Portfolio, id string) bool {
	if id == "" {
		return false
	}
	for _, pf := range portfolios {
		if pf.ID == id {
			return true
		}
	}
	return false
}
