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

package session

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/seed-sandbox/ss-client/api"
	"github.com/seed-sandbox/ss-client/localdata"
	"github.com/seed-sandbox/ss-client/store"
)

// Coordinator tears down all session-scoped client state as one logical
// unit. Three callers reach it: explicit logout, account deletion, and the
// gateway's forced-logout path on an authorization failure.
type Coordinator struct {
	store    *store.Store
	api      *api.Client
	local    localdata.Store
	redirect func()
}

func NewCoordinator(s *store.Store, apiClient *api.Client, local localdata.Store) *Coordinator {
	return &Coordinator{store: s, api: apiClient, local: local}
}

// OnRedirect registers the UI hook run after a forced logout (navigate to
// the sign-in entry point)
func (c *Coordinator) OnRedirect(fn func()) {
	c.redirect = fn
}

// Attach mounts the coordinator as the gateway's auth-failure interceptor.
// The returned uninstall detaches it exactly once.
func (c *Coordinator) Attach() (func(), error) {
	return c.api.InstallAuthInterceptor(func() {
		c.HandleAuthFailure(context.Background())
	})
}

// Reset is the voluntary teardown path (logout, account deletion). A
// best-effort server-side logout is attempted first; its failure never
// blocks or skips local invalidation. Reset is idempotent: running it twice
// leaves the same final state.
func (c *Coordinator) Reset(ctx context.Context) {
	if err := c.api.Logout(ctx); err != nil {
		log.Warn().Err(err).Msg("server logout failed; local invalidation proceeds")
	}
	c.teardown(ctx)
}

// HandleAuthFailure is the forced-logout path the gateway interceptor
// invokes. The token is already dead, so no server logout is attempted; the
// UI redirect hook runs after teardown.
func (c *Coordinator) HandleAuthFailure(ctx context.Context) {
	log.Warn().Msg("session expired; forcing logout")
	c.teardown(ctx)
	if c.redirect != nil {
		c.redirect()
	}
}

// teardown clears everything a session may have populated, batched so no
// watcher can observe "unauthenticated but still holding the prior user's
// portfolio". Ordering inside the batch mirrors ownership: session first,
// then portfolios and selection, then dashboard state, then transactions.
func (c *Coordinator) teardown(ctx context.Context) {
	s := c.store
	s.Batch(func() {
		// session
		s.Token.Set("")
		s.Authenticated.Set(store.AuthSignedOut)
		s.Profile.Set(nil)

		// portfolio list and selection
		s.Portfolios.Set(nil)
		s.SelectedPortfolio.Set("")

		// holdings and dashboard
		s.Items.Set(nil)
		s.Dashboard.Set(nil)
		s.Risk.Set(nil)
		s.Chart.Set(nil)
		s.IndexChart.Set(nil)
		s.AIReview.Set("")

		// trade log
		s.Transactions.Set(nil)
	})

	// in-flight selection-scoped fetches must not land after the wipe
	s.BumpSelectionGeneration()

	if err := localdata.EraseSession(ctx, c.local); err != nil {
		log.Warn().Err(err).Msg("could not erase persisted session keys")
	}
}
