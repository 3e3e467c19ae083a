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

// Package actions holds every operation that performs I/O and writes the
// result into the store. Derived cells stay pure; anything that fetches,
// persists or rolls back lives here.
//
// Fetches scoped to the selected portfolio carry the selection generation
// they were issued for. A response whose generation no longer matches the
// live selection is discarded, so slow responses for a previous selection
// can never overwrite the current one.
package actions

import "errors"

var (
	// ErrNotSignedIn guards operations that require a resolved,
	// authenticated session
	ErrNotSignedIn = errors.New("session is not authenticated")

	// ErrNoSelection is returned by selection-scoped fetches when no
	// portfolio is selected
	ErrNoSelection = errors.New("no portfolio selected")

	// ErrUnknownPortfolio rejects selecting an id absent from the cached list
	ErrUnknownPortfolio = errors.New("portfolio id not in the cached list")
)
