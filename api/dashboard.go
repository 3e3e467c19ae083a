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
	"net/http"
	"net/url"

	"github.com/seed-sandbox/ss-client/store"
)

type riskJSON struct {
	Metrics struct {
		Volatility        float64                       `json:"volatility"`
		Beta              float64                       `json:"beta"`
		MaxDrawdown       float64                       `json:"maxDrawdown"`
		SharpeRatio       float64                       `json:"sharpeRatio"`
		CorrelationMatrix map[string]map[string]float64 `json:"correlationMatrix"`
	} `json:"metrics"`
	Benchmark struct {
		Symbol      string  `json:"symbol"`
		Name        string  `json:"name"`
		Volatility  float64 `json:"volatility"`
		MaxDrawdown float64 `json:"maxDrawdown"`
		SharpeRatio float64 `json:"sharpeRatio"`
	} `json:"benchmark"`
	Excluded []string `json:"excluded"`
}

// RiskReport fetches server-computed risk metrics for one portfolio against
// the named benchmark
func (c *Client) RiskReport(ctx context.Context, portfolioID, benchmark string) (*store.RiskReport, error) {
	query := url.Values{}
	query.Set("benchmark", benchmark)

	var raw riskJSON
	if err := c.call(ctx, "api.RiskReport", http.MethodGet, "/analytics/risk/"+url.PathEscape(portfolioID), query, nil, &raw, callOptions{}); err != nil {
		return nil, err
	}

	return &store.RiskReport{
		Metrics: store.RiskMetrics{
			Volatility:  raw.Metrics.Volatility,
			Beta:        raw.Metrics.Beta,
			MaxDrawdown: raw.Metrics.MaxDrawdown,
			SharpeRatio: raw.Metrics.SharpeRatio,
		},
		Benchmark: store.BenchmarkRisk{
			Symbol:      raw.Benchmark.Symbol,
			Name:        raw.Benchmark.Name,
			Volatility:  raw.Benchmark.Volatility,
			MaxDrawdown: raw.Benchmark.MaxDrawdown,
			SharpeRatio: raw.Benchmark.SharpeRatio,
		},
		Correlations: raw.Metrics.CorrelationMatrix,
		Excluded:     raw.Excluded,
	}, nil
}

// MarketIndex fetches a benchmark index series aligned with one portfolio's
// range and interval
func (c *Client) MarketIndex(ctx context.Context, indexName, portfolioID, chartRange, interval string) (*store.IndexChart, error) {
	query := url.Values{}
	query.Set("portfolioId", portfolioID)
	query.Set("range", chartRange)
	query.Set("interval", interval)

	var raw struct {
		Index    string            `json:"index"`
		Symbol   string            `json:"symbol"`
		Interval string            `json:"interval"`
		Range    string            `json:"range"`
		Points   []seriesPointJSON `json:"data"`
	}
	if err := c.call(ctx, "api.MarketIndex", http.MethodGet, "/market-index/"+url.PathEscape(indexName), query, nil, &raw, callOptions{}); err != nil {
		return nil, err
	}

	chart := &store.IndexChart{
		Index:       raw.Index,
		Symbol:      raw.Symbol,
		PortfolioID: portfolioID,
		Range:       raw.Range,
		Interval:    raw.Interval,
		Points:      coercePoints(raw.Points),
	}
	if chart.Index == "" {
		chart.Index = indexName
	}
	return chart, nil
}

// AISummary fetches the narrative review for one portfolio
func (c *Client) AISummary(ctx context.Context, portfolioID string) (string, error) {
	var raw struct {
		Summary string `json:"summary"`
	}
	if err := c.call(ctx, "api.AISummary", http.MethodGet, "/ai/summary/"+url.PathEscape(portfolioID), nil, nil, &raw, callOptions{}); err != nil {
		return "", err
	}
	return raw.Summary, nil
}
