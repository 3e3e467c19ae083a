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
	"time"

	"github.com/seed-sandbox/ss-client/store"
)

// RegisterRequest creates the backend profile matching a freshly created
// identity
type RegisterRequest struct {
	IdentityUID string `json:"firebaseUid"`
	Email       string `json:"email"`
	Nickname    string `json:"nickname"`
}

type profileJSON struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Nickname  string `json:"nickname"`
	CreatedAt string `json:"createdAt"`
}

// CheckAvailability asks the backend whether the email and nickname are both
// free before any identity is created. A 409 surfaces as a StatusError.
func (c *Client) CheckAvailability(ctx context.Context, email, nickname string) error {
	payload := map[string]string{
		"email":    email,
		"nickname": nickname,
	}
	return c.call(ctx, "api.CheckAvailability", http.MethodPost, "/users/check", nil, payload, nil, callOptions{noAuth: true})
}

// Register creates the backend profile for a new identity. Unauthenticated:
// the identity uid in the payload links the two.
func (c *Client) Register(ctx context.Context, req RegisterRequest) error {
	return c.call(ctx, "api.Register", http.MethodPost, "/users/register", nil, req, nil, callOptions{noAuth: true})
}

// Profile fetches the signed-in user's backend profile
func (c *Client) Profile(ctx context.Context) (*store.UserProfile, error) {
	var raw profileJSON
	if err := c.call(ctx, "api.Profile", http.MethodGet, "/users/profile", nil, nil, &raw, callOptions{}); err != nil {
		return nil, err
	}
	if raw.ID == "" {
		return nil, fmt.Errorf("%w: profile without id", ErrInvalidPayload)
	}
	createdAt, _ := time.Parse(time.RFC3339, raw.CreatedAt)
	return &store.UserProfile{
		ID:        raw.ID,
		Email:     raw.Email,
		Nickname:  raw.Nickname,
		CreatedAt: createdAt,
	}, nil
}

// DeleteProfile removes the signed-in user's backend profile
func (c *Client) DeleteProfile(ctx context.Context) error {
	return c.call(ctx, "api.DeleteProfile", http.MethodDelete, "/users/profile", nil, nil, nil, callOptions{})
}

// Logout notifies the backend that the session is ending. Best effort: a
// failure here never blocks local teardown, and a 401 from this call must
// not recursively re-trigger forced logout.
func (c *Client) Logout(ctx context.Context) error {
	return c.call(ctx, "api.Logout", http.MethodPost, "/users/logout", nil, nil, nil, callOptions{optional: true, noAuthRetrigger: true})
}
