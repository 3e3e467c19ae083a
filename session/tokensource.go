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

import "github.com/seed-sandbox/ss-client/store"

// TokenSource adapts the store's session cells to the gateway's bearer
// credential lookup. ok is true only while the session has resolved to
// authenticated and a token is present.
type TokenSource struct {
	store *store.Store
}

func NewTokenSource(s *store.Store) *TokenSource {
	return &TokenSource{store: s}
}

func (t *TokenSource) Token() (string, bool) {
	if t.store.Authenticated.Get() != store.AuthSignedIn {
		return "", false
	}
	token := t.store.Token.Get()
	return token, token != ""
}
