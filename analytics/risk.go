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

// RiskSide holds the subset of risk figures both the portfolio and its
// benchmark report, so the two can be compared like for like.
type RiskSide struct {
	Volatility  float64
	MaxDrawdown float64
	SharpeRatio float64
}

// RiskComparison expresses the portfolio's risk figures relative to the
// benchmark. Deltas are portfolio minus benchmark; the risk metrics
// themselves come from the backend and are never recomputed here.
type RiskComparison struct {
	Portfolio        RiskSide
	Benchmark        RiskSide
	VolatilityDelta  float64
	MaxDrawdownDelta float64
	SharpeRatioDelta float64
}

// CompareRisk derives the relative view of portfolio vs benchmark risk
func CompareRisk(portfolio, benchmark RiskSide) *RiskComparison {
	return &RiskComparison{
		Portfolio:        portfolio,
		Benchmark:        benchmark,
		VolatilityDelta:  portfolio.Volatility - benchmark.Volatility,
		MaxDrawdownDelta: portfolio.MaxDrawdown - benchmark.MaxDrawdown,
		SharpeRatioDelta: portfolio.SharpeRatio - benchmark.SharpeRatio,
	}
}
