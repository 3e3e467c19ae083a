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
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/seed-sandbox/ss-client/api"
	"github.com/seed-sandbox/ss-client/identity"
	"github.com/seed-sandbox/ss-client/session"
	"github.com/seed-sandbox/ss-client/store"
)

// Auth drives the interactive sign-in, sign-up, logout and account-deletion
// flows. Validation failures surface to the caller without touching session
// state or any domain cache.
type Auth struct {
	provider    identity.Provider
	api         *api.Client
	store       *store.Store
	coordinator *session.Coordinator
}

func NewAuth(provider identity.Provider, apiClient *api.Client, s *store.Store, coordinator *session.Coordinator) *Auth {
	return &Auth{provider: provider, api: apiClient, store: s, coordinator: coordinator}
}

// SignIn exchanges credentials for a session. The token/authenticated cells
// are written directly rather than waiting for the provider listener's round
// trip; the listener writes the same values when it fires, so the two paths
// converge.
func (a *Auth) SignIn(ctx context.Context, email, password string) error {
	principal, err := a.provider.SignIn(ctx, email, password)
	if err != nil {
		return err
	}

	token, err := a.provider.FetchToken(ctx, principal)
	if err != nil {
		log.Warn().Err(err).Msg("token fetch failed after sign-in")
		return err
	}

	s := a.store
	s.Batch(func() {
		s.Token.Set(token)
		s.Authenticated.Set(store.AuthSignedIn)
	})

	if profile, err := a.api.Profile(ctx); err == nil {
		s.Profile.Set(profile)
	} else {
		log.Warn().Err(err).Msg("could not fetch profile after sign-in")
	}
	return nil
}

// SignUp creates an identity and its backend profile as one logical unit.
// The backend is asked about duplicates before any identity exists; if
// backend registration still fails after the identity was created, the
// identity is deleted again (signed out when the delete itself fails) so the
// client never ends up authenticated with no matching profile.
func (a *Auth) SignUp(ctx context.Context, email, password, nickname string) error {
	if err := a.api.CheckAvailability(ctx, email, nickname); err != nil {
		return err
	}

	principal, err := a.provider.SignUp(ctx, email, password, nickname)
	if err != nil {
		return err
	}

	token, err := a.provider.FetchToken(ctx, principal)
	if err == nil {
		err = a.api.Register(ctx, api.RegisterRequest{
			IdentityUID: principal.UID,
			Email:       email,
			Nickname:    nickname,
		})
	}
	if err != nil {
		a.rollbackSignUp(ctx, principal)
		return fmt.Errorf("backend registration failed: %w", err)
	}

	s := a.store
	s.Batch(func() {
		s.Token.Set(token)
		s.Authenticated.Set(store.AuthSignedIn)
	})

	if profile, err := a.api.Profile(ctx); err == nil {
		s.Profile.Set(profile)
	}
	return nil
}

func (a *Auth) rollbackSignUp(ctx context.Context, principal *identity.Principal) {
	if err := a.provider.Delete(ctx, principal); err != nil {
		log.Warn().Err(err).Str("UID", principal.UID).Msg("could not delete orphaned identity; signing it out instead")
		if err := a.provider.SignOut(ctx); err != nil {
			log.Warn().Err(err).Msg("sign-out fallback failed")
		}
	}

	s := a.store
	s.Batch(func() {
		s.Token.Set("")
		s.Authenticated.Set(store.AuthSignedOut)
	})
}

// SignOut runs the voluntary teardown, then drops the provider session. The
// provider's own signed-out event converges on the already-cleared state.
func (a *Auth) SignOut(ctx context.Context) error {
	a.coordinator.Reset(ctx)
	if err := a.provider.SignOut(ctx); err != nil {
		log.Warn().Err(err).Msg("identity provider sign-out failed")
	}
	return nil
}

// DeleteAccount removes the backend profile, then tears the session down
// the same way logout does
func (a *Auth) DeleteAccount(ctx context.Context) error {
	if err := a.api.DeleteProfile(ctx); err != nil {
		return err
	}
	return a.SignOut(ctx)
}

// RefreshProfile refetches the backend profile for the signed-in user
func (a *Auth) RefreshProfile(ctx context.Context) error {
	if a.store.Authenticated.Get() != store.AuthSignedIn {
		return ErrNotSignedIn
	}
	profile, err := a.api.Profile(ctx)
	if err != nil {
		return err
	}
	a.store.Profile.Set(profile)
	return nil
}
