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

// Package api is the typed gateway to the SeedSandbox backend. Every
// outbound call attaches the current bearer token from the TokenSource;
// a single response interceptor reacts to authorization failures.
package api

import (
	"bytes"
	"context"
	"fmt"
	"io/ioutil"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/seed-sandbox/ss-client/observability/opentelemetry"
)

// TokenSource supplies the bearer credential for outbound calls. ok is false
// while the session is not authenticated.
type TokenSource interface {
	Token() (token string, ok bool)
}

// Client talks to the backend REST surface rooted at baseURL
type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource

	interceptMu   sync.Mutex
	onAuthFailure func()
}

// New creates a gateway for the backend at baseURL
func New(baseURL string, tokens TokenSource) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    http.DefaultClient,
		tokens:  tokens,
	}
}

// SetHTTPClient overrides the transport; mainly for tests
func (c *Client) SetHTTPClient(httpClient *http.Client) {
	c.http = httpClient
}

// InstallAuthInterceptor mounts the authorization-failure handler. Exactly
// one may be active at a time; the returned uninstall detaches it and is
// safe to call more than once. fn runs on any 401 response except those the
// call itself opts out of (the logout request must not re-enter it).
func (c *Client) InstallAuthInterceptor(fn func()) (func(), error) {
	c.interceptMu.Lock()
	defer c.interceptMu.Unlock()
	if c.onAuthFailure != nil {
		return nil, ErrInterceptorInstalled
	}
	c.onAuthFailure = fn

	var once sync.Once
	uninstall := func() {
		once.Do(func() {
			c.interceptMu.Lock()
			c.onAuthFailure = nil
			c.interceptMu.Unlock()
		})
	}
	return uninstall, nil
}

func (c *Client) fireAuthFailure() {
	c.interceptMu.Lock()
	fn := c.onAuthFailure
	c.interceptMu.Unlock()
	if fn != nil {
		fn()
	}
}

type callOptions struct {
	// unauthenticated endpoint; never attach a token
	noAuth bool
	// skip silently when no session exists instead of letting the server reject
	optional bool
	// suppress the auth-failure interceptor for this call (logout itself)
	noAuthRetrigger bool
}

type errorResponse struct {
	Message string `json:"message"`
}

// call performs one HTTP exchange and decodes the JSON response into out
// when out is non-nil
func (c *Client) call(ctx context.Context, name, method, path string, query url.Values, payload, out interface{}, opt callOptions) error {
	ctx, span := otel.Tracer(opentelemetry.Name).Start(ctx, name)
	defer span.End()

	requestID := uuid.NewString()
	subLog := log.With().Str("Method", method).Str("Path", path).Str("RequestID", requestID).Logger()

	fullURL := c.baseURL + path
	if len(query) > 0 {
		fullURL = fullURL + "?" + query.Encode()
	}
	span.SetAttributes(
		attribute.KeyValue{Key: "Url", Value: attribute.StringValue(fullURL)},
		attribute.KeyValue{Key: "RequestID", Value: attribute.StringValue(requestID)},
	)

	var body *bytes.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			subLog.Error().Err(err).Msg("could not marshal request payload")
			return err
		}
		body = bytes.NewReader(raw)
	} else {
		body = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, body)
	if err != nil {
		subLog.Error().Err(err).Msg("could not build request")
		return err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-Id", requestID)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if !opt.noAuth {
		token, ok := c.tokens.Token()
		switch {
		case ok:
			req.Header.Set("Authorization", "Bearer "+token)
		case opt.optional:
			subLog.Debug().Msg("skipping optional call; not authenticated")
			return ErrNotAuthenticated
		}
		// otherwise send without a header and let the server reject
	}

	resp, err := c.http.Do(req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "transport failure")
		subLog.Error().Err(err).Msg("backend request failed")
		return fmt.Errorf("backend request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		span.SetStatus(codes.Error, "authorization failure")
		subLog.Warn().Int("StatusCode", resp.StatusCode).Msg("authorization failure")
		if !opt.noAuthRetrigger {
			c.fireAuthFailure()
		}
		return fmt.Errorf("%s %s: %w", method, path, ErrAuthExpired)
	}

	if resp.StatusCode >= 400 {
		respBody, _ := ioutil.ReadAll(resp.Body)
		var parsed errorResponse
		if err := json.Unmarshal(respBody, &parsed); err != nil {
			parsed.Message = strings.TrimSpace(string(respBody))
		}
		span.SetStatus(codes.Error, "backend rejected request")
		subLog.Warn().Int("StatusCode", resp.StatusCode).Str("Message", parsed.Message).Msg("backend rejected request")
		return &StatusError{Code: resp.StatusCode, Message: parsed.Message}
	}

	if out == nil {
		return nil
	}

	respBody, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		span.RecordError(err)
		subLog.Error().Err(err).Msg("could not read response body")
		return err
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		span.RecordError(err)
		subLog.Error().Err(err).Bytes("Body", respBody).Msg("could not unmarshal response")
		return fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	return nil
}
