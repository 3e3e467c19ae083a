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

const (
	defaultMarketIndex = "sp500"
	defaultRange       = "7d"
)

// Dashboard refreshes the analytics views for the selected portfolio and
// manages the persisted dashboard preferences
type Dashboard struct {
	api   *api.Client
	store *store.Store
	local localdata.Store
}

func NewDashboard(apiClient *api.Client, s *store.Store, local localdata.Store) *Dashboard {
	return &Dashboard{api: apiClient, store: s, local: local}
}

// selection returns the live selection id and generation for a
// selection-scoped fetch
func (d *Dashboard) selection() (string, uint64, error) {
	id := d.store.SelectedPortfolio.Get()
	if id == "" {
		return "", 0, ErrNoSelection
	}
	return id, d.store.SelectionGeneration(), nil
}

// RefreshSummary refetches the holdings and backend aggregates for the
// selected portfolio
func (d *Dashboard) RefreshSummary(ctx context.Context) error {
	id, gen, err := d.selection()
	if err != nil {
		return err
	}
	summary, err := d.api.PortfolioSummary(ctx, id)
	if err != nil {
		return err
	}
	if !d.store.SelectionCurrent(gen) {
		log.Debug().Str("PortfolioID", id).Msg("discarding stale summary response")
		return nil
	}
	s := d.store
	s.Batch(func() {
		s.Items.Set(summary.Items)
		s.Dashboard.Set(summary.Snapshot)
	})
	return nil
}

// RefreshRisk refetches risk metrics against the persisted benchmark index
func (d *Dashboard) RefreshRisk(ctx context.Context) error {
	id, gen, err := d.selection()
	if err != nil {
		return err
	}
	report, err := d.api.RiskReport(ctx, id, d.MarketIndex(ctx))
	if err != nil {
		return err
	}
	if !d.store.SelectionCurrent(gen) {
		log.Debug().Str("PortfolioID", id).Msg("discarding stale risk response")
		return nil
	}
	d.store.Risk.Set(report)
	return nil
}

// RefreshChart refetches the portfolio value series for the persisted range
func (d *Dashboard) RefreshChart(ctx context.Context, interval string) error {
	id, gen, err := d.selection()
	if err != nil {
		return err
	}
	chart, err := d.api.PortfolioChart(ctx, id, d.Range(ctx), interval)
	if err != nil {
		return err
	}
	if !d.store.SelectionCurrent(gen) {
		log.Debug().Str("PortfolioID", id).Msg("discarding stale chart response")
		return nil
	}
	d.store.Chart.Set(chart)
	return nil
}

// RefreshIndexChart refetches the benchmark series aligned with the
// portfolio chart
func (d *Dashboard) RefreshIndexChart(ctx context.Context, interval string) error {
	id, gen, err := d.selection()
	if err != nil {
		return err
	}
	chart, err := d.api.MarketIndex(ctx, d.MarketIndex(ctx), id, d.Range(ctx), interval)
	if err != nil {
		return err
	}
	if !d.store.SelectionCurrent(gen) {
		log.Debug().Str("PortfolioID", id).Msg("discarding stale index response")
		return nil
	}
	d.store.IndexChart.Set(chart)
	return nil
}

// RefreshAIReview refetches the narrative summary
func (d *Dashboard) RefreshAIReview(ctx context.Context) error {
	id, gen, err := d.selection()
	if err != nil {
		return err
	}
	summary, err := d.api.AISummary(ctx, id)
	if err != nil {
		return err
	}
	if !d.store.SelectionCurrent(gen) {
		log.Debug().Str("PortfolioID", id).Msg("discarding stale review response")
		return nil
	}
	d.store.AIReview.Set(summary)
	return nil
}

// MarketIndex returns the persisted benchmark preference
func (d *Dashboard) MarketIndex(ctx context.Context) string {
	if v, ok, err := d.local.Get(ctx, localdata.KeyDashboardMarketIndex); err == nil && ok {
		return v
	}
	return defaultMarketIndex
}

// SetMarketIndex persists the benchmark preference and refetches the views
// that depend on it
func (d *Dashboard) SetMarketIndex(ctx context.Context, name string) error {
	if err := d.local.Set(ctx, localdata.KeyDashboardMarketIndex, name); err != nil {
		return err
	}
	return d.RefreshRisk(ctx)
}

// Range returns the persisted chart range preference
func (d *Dashboard) Range(ctx context.Context) string {
	if v, ok, err := d.local.Get(ctx, localdata.KeyDashboardRange); err == nil && ok {
		return v
	}
	return defaultRange
}

// SetRange persists the chart range preference
func (d *Dashboard) SetRange(ctx context.Context, chartRange string) error {
	return d.local.Set(ctx, localdata.KeyDashboardRange, chartRange)
}
