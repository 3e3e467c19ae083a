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

type transactionJSON struct {
	ID        string `json:"_id"`
	Portfolio string `json:"portfolio"`
	Asset     struct {
		Ticker string `json:"ticker"`
		Name   string `json:"name"`
	} `json:"asset"`
	Type     string  `json:"transactionType"`
	Quantity float64 `json:"quantity"`
	Price    float64 `json:"price"`
	Currency string  `json:"currency"`
	Date     string  `json:"transactionDate"`
}

func (t transactionJSON) coerce() (store.Transaction, error) {
	if t.ID == "" {
		return store.Transaction{}, fmt.Errorf("%w: transaction without id", ErrInvalidPayload)
	}
	txType := store.TransactionType(t.Type)
	if txType != store.TransactionBuy && txType != store.TransactionSell {
		return store.Transaction{}, fmt.Errorf("%w: unknown transaction type %q", ErrInvalidPayload, t.Type)
	}
	date, _ := time.Parse(time.RFC3339, t.Date)
	return store.Transaction{
		ID:          t.ID,
		PortfolioID: t.Portfolio,
		AssetTicker: t.Asset.Ticker,
		AssetName:   t.Asset.Name,
		Type:        txType,
		Quantity:    t.Quantity,
		Price:       t.Price,
		Currency:    t.Currency,
		Date:        date,
	}, nil
}

// NewTransaction is the payload for recording a trade
type NewTransaction struct {
	AssetTicker string    `json:"assetTicker"`
	Type        string    `json:"transactionType"`
	Quantity    float64   `json:"quantity"`
	Price       float64   `json:"price"`
	Currency    string    `json:"currency"`
	Date        time.Time `json:"transactionDate"`
}

// Transactions fetches the trade log for one portfolio
func (c *Client) Transactions(ctx context.Context, portfolioID string) ([]store.Transaction, error) {
	var raw []transactionJSON
	if err := c.call(ctx, "api.Transactions", http.MethodGet, "/portfolios/"+url.PathEscape(portfolioID)+"/transactions", nil, nil, &raw, callOptions{}); err != nil {
		return nil, err
	}

	transactions := make([]store.Transaction, 0, len(raw))
	for _, t := range raw {
		coerced, err := t.coerce()
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, coerced)
	}
	return transactions, nil
}

// CreateTransaction appends a trade to one portfolio's log
func (c *Client) CreateTransaction(ctx context.Context, portfolioID string, tx NewTransaction) error {
	return c.call(ctx, "api.CreateTransaction", http.MethodPost, "/portfolios/"+url.PathEscape(portfolioID)+"/transactions", nil, tx, nil, callOptions{})
}

// DeleteTransaction removes one trade by id
func (c *Client) DeleteTransaction(ctx context.Context, id string) error {
	return c.call(ctx, "api.DeleteTransaction", http.MethodDelete, "/transactions/"+url.PathEscape(id), nil, nil, nil, callOptions{})
}
