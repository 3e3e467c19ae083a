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

// Package localdata is the durable key-value surface the client persists
// small preferences into. It is a capability, not a database: values are
// short strings keyed per user, and every key is erased on session teardown.
// Nothing may read these keys until the session has resolved to
// authenticated, so a stale selection can never leak into a fresh
// unauthenticated load.
package localdata

import "context"

const (
	KeySelectedPortfolio    = "selectedPortfolioId"
	KeyDashboardMarketIndex = "dashboardMarketIndex"
	KeyDashboardRange       = "dashboardRange"
)

// sessionKeys lists every key bound to the session lifetime
var sessionKeys = []string{
	KeySelectedPortfolio,
	KeyDashboardMarketIndex,
	KeyDashboardRange,
}

// Store is the persistence capability. Get returns ok=false for a missing
// key; that is not an error.
type Store interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, keys ...string) error
}

// EraseSession removes every session-scoped key. Part of the reset
// coordinator's teardown.
func EraseSession(ctx context.Context, s Store) error {
	return s.Delete(ctx, sessionKeys...)
}
