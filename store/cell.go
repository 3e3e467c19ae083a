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

package store

import (
	"sync"
	"sync/atomic"
)

// Cell is a directly writable unit of state. Watchers are notified after the
// write completes; inside Store.Batch notifications are queued and delivered
// only once the whole batch has been applied, so a watcher can never observe
// a half-torn-down session.
type Cell[T any] struct {
	store   *Store
	name    string
	mu      sync.RWMutex
	val     T
	nextID  int
	watches map[int]func(T)
}

// NewCell registers a primitive cell with the store
func NewCell[T any](s *Store, name string, initial T) *Cell[T] {
	return &Cell[T]{
		store:   s,
		name:    name,
		val:     initial,
		watches: make(map[int]func(T)),
	}
}

// Get returns the current value
func (c *Cell[T]) Get() T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.val
}

// Set replaces the value, bumps the store clock and notifies watchers
func (c *Cell[T]) Set(v T) {
	c.mu.Lock()
	c.val = v
	fns := make([]func(T), 0, len(c.watches))
	for _, fn := range c.watches {
		fns = append(fns, fn)
	}
	c.mu.Unlock()

	atomic.AddUint64(&c.store.clock, 1)

	c.store.dispatch(func() {
		for _, fn := range fns {
			fn(v)
		}
	})
}

// Watch registers fn to run after every Set. The returned cancel func detaches
// it; cancel is safe to call more than once.
func (c *Cell[T]) Watch(fn func(T)) func() {
	c.mu.Lock()
	id := c.nextID
	c.nextID++
	c.watches[id] = fn
	c.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			delete(c.watches, id)
			c.mu.Unlock()
		})
	}
}

// Derived is a read-only cell computed purely from other cells. The compute
// function must not perform I/O or mutate state; anything with side effects
// belongs in an action. Recomputation is lazy: the cached value is reused
// until some cell in the store has changed since it was produced.
type Derived[T any] struct {
	store   *Store
	name    string
	mu      sync.Mutex
	compute func() T
	val     T
	seen    uint64
	valid   bool
}

// Derive registers a derived cell computed by fn
func Derive[T any](s *Store, name string, fn func() T) *Derived[T] {
	return &Derived[T]{store: s, name: name, compute: fn}
}

// Get returns the memoized value, recomputing it if any cell changed since
// the last read
func (d *Derived[T]) Get() T {
	clock := atomic.LoadUint64(&d.store.clock)

	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.valid || d.seen != clock {
		d.val = d.compute()
		d.seen = clock
		d.valid = true
	}
	return d.val
}
