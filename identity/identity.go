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

// Package identity wraps the external identity provider behind an explicit
// event-source object. Session lifecycle components subscribe to it; nothing
// else in the client talks to the provider directly.
package identity

import (
	"context"
	"errors"
	"sync"
)

var (
	ErrInvalidCredentials = errors.New("email or password rejected")
	ErrEmailInUse         = errors.New("email already registered with the identity provider")
	ErrWeakPassword       = errors.New("password does not meet provider requirements")
	ErrNoSession          = errors.New("no identity session")
)

// Principal identifies the signed-in identity at the provider
type Principal struct {
	UID         string
	Email       string
	DisplayName string
}

// Listener receives the current principal on every session change, or nil
// when the provider reports signed out
type Listener func(p *Principal)

// Provider is the identity provider surface the session layer consumes
type Provider interface {
	// Subscribe registers fn for session-change events. The returned cancel
	// detaches it; calling cancel more than once is harmless.
	Subscribe(fn Listener) (cancel func())

	// FetchToken returns a bearer token for p, refreshing it when stale
	FetchToken(ctx context.Context, p *Principal) (string, error)

	SignIn(ctx context.Context, email, password string) (*Principal, error)
	SignUp(ctx context.Context, email, password, displayName string) (*Principal, error)
	SignOut(ctx context.Context) error

	// Delete permanently removes the identity; used to roll back a signup
	// whose backend registration failed
	Delete(ctx context.Context, p *Principal) error
}

// emitter is the shared listener registry provider implementations embed
type emitter struct {
	mu        sync.Mutex
	nextID    int
	listeners map[int]Listener
}

// Subscribe registers fn for session-change events
func (e *emitter) Subscribe(fn Listener) func() {
	e.mu.Lock()
	if e.listeners == nil {
		e.listeners = make(map[int]Listener)
	}
	id := e.nextID
	e.nextID++
	e.listeners[id] = fn
	e.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			e.mu.Lock()
			delete(e.listeners, id)
			e.mu.Unlock()
		})
	}
}

func (e *emitter) emit(p *Principal) {
	e.mu.Lock()
	fns := make([]Listener, 0, len(e.listeners))
	for _, fn := range e.listeners {
		fns = append(fns, fn)
	}
	e.mu.Unlock()

	for _, fn := range fns {
		fn(p)
	}
}
