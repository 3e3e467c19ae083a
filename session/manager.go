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

// Package session owns the authentication lifecycle: the manager that turns
// identity-provider events into session state, and the coordinator that
// tears all session-scoped state down again.
package session

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/seed-sandbox/ss-client/identity"
	"github.com/seed-sandbox/ss-client/store"
)

// Manager subscribes to the identity provider's session-change stream and
// publishes the resulting token/authenticated state. It writes exactly those
// two cells: clearing the profile and domain caches on de-authentication is
// the reset coordinator's job.
//
// Interactive sign-in/sign-up flows may write the same two cells directly
// before the listener's own round trip completes; both paths set the same
// final values so the writes converge regardless of order.
type Manager struct {
	provider identity.Provider
	store    *store.Store

	mu     sync.Mutex
	cancel func()
}

func NewManager(provider identity.Provider, s *store.Store) *Manager {
	return &Manager{provider: provider, store: s}
}

// Start subscribes to the provider. Calling Start on a running manager is a
// no-op; a stopped manager may be started again with a fresh subscription.
func (m *Manager) Start(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cancel != nil {
		log.Warn().Msg("session manager already started")
		return
	}
	m.cancel = m.provider.Subscribe(func(p *identity.Principal) {
		m.handleEvent(ctx, p)
	})
}

// Stop detaches the subscription exactly once
func (m *Manager) Stop() {
	m.mu.Lock()
	cancel := m.cancel
	m.cancel = nil
	m.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

func (m *Manager) handleEvent(ctx context.Context, p *identity.Principal) {
	if p == nil {
		m.publishUnauthenticated()
		return
	}

	token, err := m.provider.FetchToken(ctx, p)
	if err != nil {
		// a principal without a usable token is logged out, never "unknown"
		log.Warn().Err(err).Str("UID", p.UID).Msg("token fetch failed; treating session as signed out")
		m.publishUnauthenticated()
		return
	}

	m.store.Batch(func() {
		m.store.Token.Set(token)
		m.store.Authenticated.Set(store.AuthSignedIn)
	})
}

func (m *Manager) publishUnauthenticated() {
	m.store.Batch(func() {
		m.store.Token.Set("")
		m.store.Authenticated.Set(store.AuthSignedOut)
	})
}
