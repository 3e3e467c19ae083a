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

package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/seed-sandbox/ss-client/store"
)

// Wire types mirror the backend's duck-typed payloads; each is validated and
// coerced into a store type before anything is written into client state.

type portfolioJSON struct {
	ID           string `json:"_id"`
	Name         string `json:"name"`
	BaseCurrency string `json:"baseCurrency"`
	CreatedAt    string `json:"createdAt"`
}

func (p portfolioJSON) coerce() (store.Portfolio, error) {
	if p.ID == "" {
		return store.Portfolio{}, fmt.Errorf("%w: portfolio without id", ErrInvalidPayload)
	}
	createdAt, _ := time.Parse(time.RFC3339, p.CreatedAt)
	return store.Portfolio{
		ID:           p.ID,
		Name:         p.Name,
		BaseCurrency: p.BaseCurrency,
		CreatedAt:    createdAt,
	}, nil
}

type portfolioItemJSON struct {
	Ticker       string  `json:"ticker"`
	Name         string  `json:"name"`
	Sector       string  `json:"sector"`
	Quantity     float64 `json:"quantity"`
	AveragePrice float64 `json:"averagePrice"`
	CurrentPrice float64 `json:"currentPrice"`
	Currency     string  `json:"currency"`
	TotalValue   float64 `json:"totalValue"`
	ReturnRate   float64 `json:"returnRate"`
}

type summaryJSON struct {
	PortfolioID        string              `json:"portfolioId"`
	Name               string              `json:"name"`
	BaseCurrency       string              `json:"baseCurrency"`
	ExchangeRate       float64             `json:"exchangeRate"`
	TotalValue         float64             `json:"totalPortfolioValue"`
	TotalCostBasis     float64             `json:"totalPortfolioCostBasis"`
	TotalProfitLoss    float64             `json:"totalPortfolioProfitLoss"`
	TotalReturnPercent float64             `json:"totalPortfolioReturnPercentage"`
	Assets             []portfolioItemJSON `json:"assets"`
}

// Summary is the combined per-portfolio payload: the raw holdings plus the
// backend-computed dashboard aggregates
type Summary struct {
	Items    []store.PortfolioItem
	Snapshot *store.DashboardSnapshot
}

type seriesPointJSON struct {
	Date  string  `json:"date"`
	Value float64 `json:"value"`
}

func coercePoints(points []seriesPointJSON) []store.SeriesPoint {
	out := make([]store.SeriesPoint, 0, len(points))
	for _, p := range points {
		date, err := time.Parse("2006-01-02", p.Date)
		if err != nil {
			date, _ = time.Parse(time.RFC3339, p.Date)
		}
		out = append(out, store.SeriesPoint{Date: date, Value: p.Value})
	}
	return out
}

// Portfolios fetches the server-reported portfolio list
func (c *Client) Portfolios(ctx context.Context) ([]store.Portfolio, error) {
	var raw []portfolioJSON
	if err := c.call(ctx, "api.Portfolios", http.MethodGet, "/portfolios", nil, nil, &raw, callOptions{}); err != nil {
		return nil, err
	}

	portfolios := make([]store.Portfolio, 0, len(raw))
	for _, p := range raw {
		coerced, err := p.coerce()
		if err != nil {
			return nil, err
		}
		portfolios = append(portfolios, coerced)
	}
	return portfolios, nil
}

// CreatePortfolio registers a new portfolio with the backend
func (c *Client) CreatePortfolio(ctx context.Context, name, baseCurrency string) error {
	payload := map[string]string{
		"name":         name,
		"baseCurrency": baseCurrency,
	}
	return c.call(ctx, "api.CreatePortfolio", http.MethodPost, "/portfolios", nil, payload, nil, callOptions{})
}

// DeletePortfolio removes the portfolio with the given id
func (c *Client) DeletePortfolio(ctx context.Context, id string) error {
	return c.call(ctx, "api.DeletePortfolio", http.MethodDelete, "/portfolios/"+url.PathEscape(id), nil, nil, nil, callOptions{})
}

// PortfolioSummary fetches the holdings and dashboard aggregates for one
// portfolio
func (c *Client) PortfolioSummary(ctx context.Context, id string) (*Summary, error) {
	var raw summaryJSON
	if err := c.call(ctx, "api.PortfolioSummary", http.MethodGet, "/portfolios/"+url.PathEscape(id)+"/summary", nil, nil, &raw, callOptions{}); err != nil {
		return nil, err
	}

	items := make([]store.PortfolioItem, 0, len(raw.Assets))
	for _, a := range raw.Assets {
		items = append(items, store.PortfolioItem{
			Ticker:       a.Ticker,
			Name:         a.Name,
			Sector:       a.Sector,
			Quantity:     a.Quantity,
			AveragePrice: a.AveragePrice,
			CurrentPrice: a.CurrentPrice,
			Currency:     a.Currency,
			TotalValue:   a.TotalValue,
			ReturnRate:   a.ReturnRate,
		})
	}

	snap := &store.DashboardSnapshot{
		PortfolioID:        raw.PortfolioID,
		Name:               raw.Name,
		BaseCurrency:       raw.BaseCurrency,
		ExchangeRate:       raw.ExchangeRate,
		TotalValue:         raw.TotalValue,
		TotalCostBasis:     raw.TotalCostBasis,
		TotalProfitLoss:    raw.TotalProfitLoss,
		TotalReturnPercent: raw.TotalReturnPercent,
	}
	if snap.PortfolioID == "" {
		snap.PortfolioID = id
	}
	return &Summary{Items: items, Snapshot: snap}, nil
}

// PortfolioChart fetches the historical value series for one portfolio
func (c *Client) PortfolioChart(ctx context.Context, id, chartRange, interval string) (*store.HistoricalChart, error) {
	query := url.Values{}
	query.Set("range", chartRange)
	query.Set("interval", interval)

	var raw struct {
		Points []seriesPointJSON `json:"historicalChartData"`
	}
	if err := c.call(ctx, "api.PortfolioChart", http.MethodGet, "/portfolios/"+url.PathEscape(id)+"/chart", query, nil, &raw, callOptions{}); err != nil {
		return nil, err
	}

	return &store.HistoricalChart{
		PortfolioID: id,
		Range:       chartRange,
		Interval:    interval,
		Points:      coercePoints(raw.Points),
	}, nil
}
