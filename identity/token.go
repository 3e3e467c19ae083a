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

package identity

import (
	"time"

	"github.com/lestrrat-go/jwx/jwt"
)

// TokenInfo is what the client can read out of an ID token without the
// provider's signing keys. Verification is the backend's job; the client
// only introspects claims to know who the token is for and when it lapses.
type TokenInfo struct {
	Subject string
	Email   string
	Expires time.Time
}

// ParseIDToken extracts claims from a provider ID token. The signature is
// not verified.
func ParseIDToken(raw string) (*TokenInfo, error) {
	tok, err := jwt.Parse([]byte(raw))
	if err != nil {
		return nil, err
	}

	info := &TokenInfo{
		Subject: tok.Subject(),
		Expires: tok.Expiration(),
	}
	if email, ok := tok.Get("email"); ok {
		if s, ok := email.(string); ok {
			info.Email = s
		}
	}
	return info, nil
}
