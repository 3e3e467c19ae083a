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

import "time"

// AuthState tracks what the client currently believes about the session.
// AuthUnknown means the identity listener has not fired yet; callers gating
// protected behavior on the session must treat it as "still resolving",
// not as signed out.
type AuthState int

const (
	AuthUnknown AuthState = iota
	AuthSignedIn
	AuthSignedOut
)

func (a AuthState) String() string {
	switch a {
	case AuthSignedIn:
		return "signed-in"
	case AuthSignedOut:
		return "signed-out"
	default:
		return "unknown"
	}
}

// UserProfile is the backend's record for the signed-in user
type UserProfile struct {
	ID        string
	Email     string
	Nickname  string
	CreatedAt time.Time
}

// Portfolio is a server-owned entity; the client only caches the list
type Portfolio struct {
	ID           string
	Name         string
	BaseCurrency string
	CreatedAt    time.Time
}

// PortfolioItem is a per-holding snapshot scoped to one portfolio. The whole
// list is replaced on every summary fetch; entries are never merged.
type PortfolioItem struct {
	Ticker       string
	Name         string
	Sector       string
	Quantity     float64
	AveragePrice float64
	CurrentPrice float64
	Currency     string
	TotalValue   float64
	ReturnRate   float64
}

type TransactionType string

const (
	TransactionBuy  TransactionType = "BUY"
	TransactionSell TransactionType = "SELL"
)

// Transaction is an immutable log entry scoped to one portfolio
type Transaction struct {
	ID          string
	PortfolioID string
	AssetTicker string
	AssetName   string
	Type        TransactionType
	Quantity    float64
	Price       float64
	Currency    string
	Date        time.Time
}

// DashboardSnapshot carries the backend-computed aggregates for one
// portfolio. It is replaced wholesale on refetch and never partially patched.
type DashboardSnapshot struct {
	PortfolioID        string
	Name               string
	BaseCurrency       string
	ExchangeRate       float64
	TotalValue         float64
	TotalCostBasis     float64
	TotalProfitLoss    float64
	TotalReturnPercent float64
}

// RiskMetrics are computed server-side; the client only renders them
type RiskMetrics struct {
	Volatility  float64
	Beta        float64
	MaxDrawdown float64
	SharpeRatio float64
}

type BenchmarkRisk struct {
	Symbol      string
	Name        string
	Volatility  float64
	MaxDrawdown float64
	SharpeRatio float64
}

// RiskReport pairs portfolio risk metrics with the chosen benchmark
type RiskReport struct {
	Metrics      RiskMetrics
	Benchmark    BenchmarkRisk
	Correlations map[string]map[string]float64
	Excluded     []string
}

type SeriesPoint struct {
	Date  time.Time
	Value float64
}

// HistoricalChart is the portfolio value series for one range/interval pair
type HistoricalChart struct {
	PortfolioID string
	Range       string
	Interval    string
	Points      []SeriesPoint
}

// IndexChart is a market-index series fetched for benchmark comparison
type IndexChart struct {
	Index       string
	Symbol      string
	PortfolioID string
	Range       string
	Interval    string
	Points      []SeriesPoint
}
