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
	"github.com/seed-sandbox/ss-client/store"
)

// Transactions maintains the trade log cache for the selected portfolio
type Transactions struct {
	api   *api.Client
	store *store.Store
}

func NewTransactions(apiClient *api.Client, s *store.Store) *Transactions {
	return &Transactions{api: apiClient, store: s}
}

// Refresh replaces the cached trade log for the selected portfolio
func (t *Transactions) Refresh(ctx context.Context) error {
	id := t.store.SelectedPortfolio.Get()
	if id == "" {
		return ErrNoSelection
	}
	gen := t.store.SelectionGeneration()

	transactions, err := t.api.Transactions(ctx, id)
	if err != nil {
		return err
	}
	if !t.store.SelectionCurrent(gen) {
		log.Debug().Str("PortfolioID", id).Msg("discarding stale transaction response")
		return nil
	}
	t.store.Transactions.Set(transactions)
	return nil
}

// Create appends a trade to the selected portfolio and refreshes the log
func (t *Transactions) Create(ctx context.Context, tx api.NewTransaction) error {
	id := t.store.SelectedPortfolio.Get()
	if id == "" {
		return ErrNoSelection
	}
	if err := t.api.CreateTransaction(ctx, id, tx); err != nil {
		return err
	}
	return t.Refresh(ctx)
}

// Delete removes a trade by id and refreshes the log
func (t *Transactions) Delete(ctx context.Context, transactionID string) error {
	if err := t.api.DeleteTransaction(ctx, transactionID); err != nil {
		return err
	}
	return t.Refresh(ctx)
}
