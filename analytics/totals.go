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

package analytics

import "github.com/shopspring/decimal"

// Snapshot is the slice of the backend dashboard payload the totals
// derivation consumes
type Snapshot struct {
	BaseCurrency       string
	TotalValue         float64
	TotalCostBasis     float64
	TotalProfitLoss    float64
	TotalReturnPercent float64
}

// Totals is the normalized aggregate view of one portfolio. The backend
// figures are authoritative: the client projects them without re-deriving
// the aggregate from raw items, so the client's fixed rate table can never
// diverge from the rate the backend actually used.
type Totals struct {
	BaseCurrency  string
	Value         decimal.Decimal
	CostBasis     decimal.Decimal
	ProfitLoss    decimal.Decimal
	ReturnPercent decimal.Decimal
}

// TotalsFromSnapshot projects the backend-computed aggregates. Returns nil
// when no snapshot has been fetched yet.
func TotalsFromSnapshot(snap *Snapshot) *Totals {
	if snap == nil {
		return nil
	}
	return &Totals{
		BaseCurrency:  snap.BaseCurrency,
		Value:         decimal.NewFromFloat(snap.TotalValue),
		CostBasis:     decimal.NewFromFloat(snap.TotalCostBasis),
		ProfitLoss:    decimal.NewFromFloat(snap.TotalProfitLoss),
		ReturnPercent: decimal.NewFromFloat(snap.TotalReturnPercent),
	}
}

// Holding is the raw per-position input for client-side valuation
type Holding struct {
	Ticker       string
	Quantity     float64
	AveragePrice float64
	CurrentPrice float64
	Currency     string
}

// Valuation is one holding converted into the portfolio base currency.
// Normalized is false when no rate exists for the holding's currency, in
// which case the figures remain in the original currency.
type Valuation struct {
	Ticker        string
	Currency      string
	Normalized    bool
	MarketValue   decimal.Decimal
	CostBasis     decimal.Decimal
	ProfitLoss    decimal.Decimal
	ReturnPercent decimal.Decimal
}

// ValueHoldings converts each holding into baseCurrency. Holdings whose
// currency has no supported rate keep their native figures and are flagged,
// never dropped.
func ValueHoldings(holdings []Holding, baseCurrency string) []Valuation {
	if len(holdings) == 0 {
		return nil
	}

	vals := make([]Valuation, 0, len(holdings))
	for _, h := range holdings {
		qty := decimal.NewFromFloat(h.Quantity)
		market := decimal.NewFromFloat(h.CurrentPrice).Mul(qty)
		cost := decimal.NewFromFloat(h.AveragePrice).Mul(qty)

		currency := h.Currency
		normalized := Supported(h.Currency, baseCurrency)
		if normalized {
			market, _ = Convert(market, h.Currency, baseCurrency)
			cost, _ = Convert(cost, h.Currency, baseCurrency)
			currency = baseCurrency
		}

		v := Valuation{
			Ticker:      h.Ticker,
			Currency:    currency,
			Normalized:  normalized,
			MarketValue: market,
			CostBasis:   cost,
			ProfitLoss:  market.Sub(cost),
		}
		if !cost.IsZero() {
			v.ReturnPercent = v.ProfitLoss.Div(cost).Mul(decimal.NewFromInt(100))
		}
		vals = append(vals, v)
	}
	return vals
}
