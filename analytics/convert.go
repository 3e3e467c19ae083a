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

// Package analytics normalizes raw holdings data into single-currency
// figures. Every function here is pure: no I/O, no shared state, full
// decimal precision. Rounding for humans happens in Format* helpers and the
// rounded values must never feed back into further computation.
package analytics

import (
	"fmt"

	"github.com/shopspring/decimal"
)

type currencyPair struct {
	from string
	to   string
}

// rates holds the client's fixed bilateral exchange rates. Pairs are stored
// one-way; the inverse is derived by division so a round trip is exact.
var rates = map[currencyPair]decimal.Decimal{
	{from: "USD", to: "KRW"}: decimal.NewFromInt(1450),
}

// Convert translates value from one currency into another. Identity when the
// currencies match. For an unsupported pair the original value is returned
// unchanged with normalized=false; it is never silently dropped or zeroed.
func Convert(value decimal.Decimal, from, to string) (converted decimal.Decimal, normalized bool) {
	if from == to {
		return value, true
	}
	if rate, ok := rates[currencyPair{from: from, to: to}]; ok {
		return value.Mul(rate), true
	}
	if rate, ok := rates[currencyPair{from: to, to: from}]; ok {
		return value.Div(rate), true
	}
	return value, false
}

// ConvertFloat is a convenience wrapper for callers holding float64 amounts
func ConvertFloat(value float64, from, to string) (decimal.Decimal, bool) {
	return Convert(decimal.NewFromFloat(value), from, to)
}

// Supported reports whether a bilateral rate exists for the pair
func Supported(from, to string) bool {
	if from == to {
		return true
	}
	if _, ok := rates[currencyPair{from: from, to: to}]; ok {
		return true
	}
	_, ok := rates[currencyPair{from: to, to: from}]
	return ok
}

// FormatAmount renders a value for display, rounded to two fractional digits.
// Display-only; keep computation on the unrounded decimal.
func FormatAmount(value decimal.Decimal, currency string) string {
	return fmt.Sprintf("%s %s", value.StringFixed(2), currency)
}
