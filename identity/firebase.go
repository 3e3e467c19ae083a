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
	"context"
	"fmt"
	"io/ioutil"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

// Firebase talks to the Firebase Auth REST surface. It keeps one identity
// session at a time and emits a session-change event whenever it changes.
type Firebase struct {
	emitter

	apiKey   string
	baseURL  string
	tokenURL string
	http     *http.Client

	mu      sync.Mutex
	current *Principal
	idToken string
	refresh string
	expires time.Time
}

// NewFirebase builds a provider from viper configuration
// (identity.api_key, identity.base_url, identity.token_url)
func NewFirebase() *Firebase {
	baseURL := viper.GetString("identity.base_url")
	if baseURL == "" {
		baseURL = "https://identitytoolkit.googleapis.com/v1"
	}
	tokenURL := viper.GetString("identity.token_url")
	if tokenURL == "" {
		tokenURL = "https://securetoken.googleapis.com/v1/token"
	}
	return &Firebase{
		apiKey:   viper.GetString("identity.api_key"),
		baseURL:  strings.TrimRight(baseURL, "/"),
		tokenURL: tokenURL,
		http:     http.DefaultClient,
	}
}

// SetHTTPClient overrides the transport; mainly for tests
func (f *Firebase) SetHTTPClient(httpClient *http.Client) {
	f.http = httpClient
}

type firebaseSessionJSON struct {
	LocalID      string `json:"localId"`
	Email        string `json:"email"`
	DisplayName  string `json:"displayName"`
	IDToken      string `json:"idToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    string `json:"expiresIn"`
}

type firebaseErrorJSON struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

func mapFirebaseError(message string) error {
	switch {
	case strings.HasPrefix(message, "EMAIL_EXISTS"):
		return ErrEmailInUse
	case strings.HasPrefix(message, "WEAK_PASSWORD"):
		return ErrWeakPassword
	case strings.HasPrefix(message, "EMAIL_NOT_FOUND"),
		strings.HasPrefix(message, "INVALID_PASSWORD"),
		strings.HasPrefix(message, "INVALID_LOGIN_CREDENTIALS"),
		strings.HasPrefix(message, "USER_DISABLED"):
		return ErrInvalidCredentials
	default:
		return fmt.Errorf("identity provider rejected request: %s", message)
	}
}

func (f *Firebase) post(ctx context.Context, endpoint string, payload, out interface{}) error {
	subLog := log.With().Str("Endpoint", endpoint).Logger()

	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	reqURL := fmt.Sprintf("%s/%s?key=%s", f.baseURL, endpoint, url.QueryEscape(f.apiKey))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, strings.NewReader(string(raw)))
	if err != nil {
		subLog.Error().Err(err).Msg("could not build identity request")
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := f.http.Do(req)
	if err != nil {
		subLog.Error().Err(err).Msg("identity request failed")
		return err
	}
	defer resp.Body.Close()

	respBody, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		subLog.Error().Err(err).Msg("could not read identity response")
		return err
	}

	if resp.StatusCode >= 400 {
		var parsed firebaseErrorJSON
		if err := json.Unmarshal(respBody, &parsed); err != nil {
			subLog.Error().Int("StatusCode", resp.StatusCode).Msg("identity provider returned an error")
			return fmt.Errorf("identity provider returned status %d", resp.StatusCode)
		}
		subLog.Warn().Int("StatusCode", resp.StatusCode).Str("Message", parsed.Error.Message).Msg("identity provider rejected request")
		return mapFirebaseError(parsed.Error.Message)
	}

	if out == nil {
		return nil
	}
	return json.Unmarshal(respBody, out)
}

func (f *Firebase) storeSession(session firebaseSessionJSON, displayName string) *Principal {
	ttl, err := time.ParseDuration(session.ExpiresIn + "s")
	if err != nil {
		ttl = time.Hour
	}

	principal := &Principal{
		UID:         session.LocalID,
		Email:       session.Email,
		DisplayName: displayName,
	}
	if principal.DisplayName == "" {
		principal.DisplayName = session.DisplayName
	}

	f.mu.Lock()
	f.current = principal
	f.idToken = session.IDToken
	f.refresh = session.RefreshToken
	f.expires = time.Now().Add(ttl)
	f.mu.Unlock()

	return principal
}

// SignIn exchanges credentials for an identity session and emits the new
// principal to subscribers
func (f *Firebase) SignIn(ctx context.Context, email, password string) (*Principal, error) {
	payload := map[string]interface{}{
		"email":             email,
		"password":          password,
		"returnSecureToken": true,
	}
	var session firebaseSessionJSON
	if err := f.post(ctx, "accounts:signInWithPassword", payload, &session); err != nil {
		return nil, err
	}

	principal := f.storeSession(session, "")
	f.emit(principal)
	return principal, nil
}

// SignUp creates a new identity, records the display name against it and
// emits the new principal
func (f *Firebase) SignUp(ctx context.Context, email, password, displayName string) (*Principal, error) {
	payload := map[string]interface{}{
		"email":             email,
		"password":          password,
		"returnSecureToken": true,
	}
	var session firebaseSessionJSON
	if err := f.post(ctx, "accounts:signUp", payload, &session); err != nil {
		return nil, err
	}

	principal := f.storeSession(session, displayName)

	if displayName != "" {
		update := map[string]interface{}{
			"idToken":           session.IDToken,
			"displayName":       displayName,
			"returnSecureToken": false,
		}
		if err := f.post(ctx, "accounts:update", update, nil); err != nil {
			// the identity exists either way; profile polish is best effort
			log.Warn().Err(err).Msg("could not set display name on new identity")
		}
	}

	f.emit(principal)
	return principal, nil
}

// FetchToken returns the cached ID token while fresh, refreshing it through
// the secure-token endpoint when it is about to lapse
func (f *Firebase) FetchToken(ctx context.Context, p *Principal) (string, error) {
	f.mu.Lock()
	current := f.current
	idToken := f.idToken
	refresh := f.refresh
	expires := f.expires
	f.mu.Unlock()

	if current == nil || p == nil || current.UID != p.UID {
		return "", ErrNoSession
	}
	if idToken != "" && time.Until(expires) > time.Minute {
		return idToken, nil
	}

	subLog := log.With().Str("UID", p.UID).Logger()
	body := fmt.Sprintf("grant_type=refresh_token&refresh_token=%s", url.QueryEscape(refresh))
	reqURL := fmt.Sprintf("%s?key=%s", f.tokenURL, url.QueryEscape(f.apiKey))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, strings.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := f.http.Do(req)
	if err != nil {
		subLog.Error().Err(err).Msg("token refresh failed")
		return "", err
	}
	defer resp.Body.Close()

	respBody, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode >= 400 {
		subLog.Warn().Int("StatusCode", resp.StatusCode).Msg("token refresh rejected")
		return "", fmt.Errorf("token refresh rejected with status %d", resp.StatusCode)
	}

	var refreshed struct {
		IDToken      string `json:"id_token"`
		RefreshToken string `json:"refresh_token"`
		ExpiresIn    string `json:"expires_in"`
	}
	if err := json.Unmarshal(respBody, &refreshed); err != nil {
		return "", err
	}

	ttl, err := time.ParseDuration(refreshed.ExpiresIn + "s")
	if err != nil {
		ttl = time.Hour
	}

	f.mu.Lock()
	f.idToken = refreshed.IDToken
	if refreshed.RefreshToken != "" {
		f.refresh = refreshed.RefreshToken
	}
	f.expires = time.Now().Add(ttl)
	f.mu.Unlock()

	return refreshed.IDToken, nil
}

// SignOut drops the identity session and emits nil to subscribers
func (f *Firebase) SignOut(ctx context.Context) error {
	f.mu.Lock()
	f.current = nil
	f.idToken = ""
	f.refresh = ""
	f.expires = time.Time{}
	f.mu.Unlock()

	f.emit(nil)
	return nil
}

// Delete permanently removes the identity at the provider, then signs out
// locally
func (f *Firebase) Delete(ctx context.Context, p *Principal) error {
	f.mu.Lock()
	idToken := f.idToken
	f.mu.Unlock()

	if idToken == "" {
		return ErrNoSession
	}

	payload := map[string]interface{}{"idToken": idToken}
	if err := f.post(ctx, "accounts:delete", payload, nil); err != nil {
		return err
	}
	return f.SignOut(ctx)
}
