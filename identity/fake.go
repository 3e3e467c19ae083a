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
	"sync"
)

type fakeAccount struct {
	uid         string
	password    string
	displayName string
}

// Fake is an in-memory Provider for tests and local demos. Test helpers can
// force token-fetch failures and emit provider-side session changes.
type Fake struct {
	emitter

	mu         sync.Mutex
	accounts   map[string]*fakeAccount
	current    *Principal
	nextUID    int
	tokenSeq   int
	failTokens bool
}

func NewFake() *Fake {
	return &Fake{accounts: make(map[string]*fakeAccount)}
}

// Seed registers an account without emitting any event
func (f *Fake) Seed(email, password, displayName string) *Principal {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextUID++
	acct := &fakeAccount{
		uid:         fmt.Sprintf("fake-uid-%d", f.nextUID),
		password:    password,
		displayName: displayName,
	}
	f.accounts[email] = acct
	return &Principal{UID: acct.uid, Email: email, DisplayName: displayName}
}

func (f *Fake) SignIn(ctx context.Context, email, password string) (*Principal, error) {
	f.mu.Lock()
	acct, ok := f.accounts[email]
	if !ok || acct.password != password {
		f.mu.Unlock()
		return nil, ErrInvalidCredentials
	}
	principal := &Principal{UID: acct.uid, Email: email, DisplayName: acct.displayName}
	f.current = principal
	f.mu.Unlock()

	f.emit(principal)
	return principal, nil
}

func (f *Fake) SignUp(ctx context.Context, email, password, displayName string) (*Principal, error) {
	f.mu.Lock()
	if _, exists := f.accounts[email]; exists {
		f.mu.Unlock()
		return nil, ErrEmailInUse
	}
	if len(password) < 6 {
		f.mu.Unlock()
		return nil, ErrWeakPassword
	}
	f.nextUID++
	acct := &fakeAccount{
		uid:         fmt.Sprintf("fake-uid-%d", f.nextUID),
		password:    password,
		displayName: displayName,
	}
	f.accounts[email] = acct
	principal := &Principal{UID: acct.uid, Email: email, DisplayName: displayName}
	f.current = principal
	f.mu.Unlock()

	f.emit(principal)
	return principal, nil
}

func (f *Fake) FetchToken(ctx context.Context, p *Principal) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failTokens {
		return "", fmt.Errorf("token fetch forced to fail")
	}
	if f.current == nil || p == nil || f.current.UID != p.UID {
		return "", ErrNoSession
	}
	return fmt.Sprintf("fake-token-%s-%d", p.UID, f.tokenSeq), nil
}

func (f *Fake) SignOut(ctx context.Context) error {
	f.mu.Lock()
	f.current = nil
	f.mu.Unlock()
	f.emit(nil)
	return nil
}

func (f *Fake) Delete(ctx context.Context, p *Principal) error {
	f.mu.Lock()
	for email, acct := range f.accounts {
		if p != nil && acct.uid == p.UID {
			delete(f.accounts, email)
		}
	}
	f.current = nil
	f.mu.Unlock()
	f.emit(nil)
	return nil
}

// Test helpers

// FailTokenFetches makes every FetchToken return an error
func (f *Fake) FailTokenFetches(fail bool) {
	f.mu.Lock()
	f.failTokens = fail
	f.mu.Unlock()
}

// RotateToken changes the token FetchToken hands out
func (f *Fake) RotateToken() {
	f.mu.Lock()
	f.tokenSeq++
	f.mu.Unlock()
}

// EmitSessionExpired simulates the provider dropping the session
func (f *Fake) EmitSessionExpired() {
	f.mu.Lock()
	f.current = nil
	f.mu.Unlock()
	f.emit(nil)
}

// Exists reports whether an identity is still registered; lets tests verify
// the signup rollback actually deleted it
func (f *Fake) Exists(email string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.accounts[email]
	return ok
}
