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

package store_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/seed-sandbox/ss-client/store"
)

var _ = Describe("Cell", func() {
	var s *store.Store

	BeforeEach(func() {
		s = store.New()
	})

	Context("when reading and writing", func() {
		It("starts with the registered initial value", func() {
			Expect(s.Token.Get()).To(Equal(""))
			Expect(s.Authenticated.Get()).To(Equal(store.AuthUnknown))
			Expect(s.Portfolios.Get()).To(BeNil())
		})

		It("returns the last written value", func() {
			s.Token.Set("token-1")
			Expect(s.Token.Get()).To(Equal("token-1"))

			s.Token.Set("token-2")
			Expect(s.Token.Get()).To(Equal("token-2"))
		})
	})

	Context("when watching", func() {
		It("notifies watchers on every write", func() {
			var seen []string
			s.Token.Watch(func(v string) {
				seen = append(seen, v)
			})

			s.Token.Set("a")
			s.Token.Set("b")
			Expect(seen).To(Equal([]string{"a", "b"}))
		})

		It("stops notifying after cancel", func() {
			count := 0
			cancel := s.Token.Watch(func(string) {
				count++
			})

			s.Token.Set("a")
			cancel()
			s.Token.Set("b")
			Expect(count).To(Equal(1))
		})

		It("tolerates cancel being called more than once", func() {
			cancel := s.Token.Watch(func(string) {})
			cancel()
			Expect(cancel).ToNot(Panic())
		})

		It("keeps independent watchers independent", func() {
			first := 0
			second := 0
			cancelFirst := s.Token.Watch(func(string) { first++ })
			s.Token.Watch(func(string) { second++ })

			s.Token.Set("a")
			cancelFirst()
			s.Token.Set("b")

			Expect(first).To(Equal(1))
			Expect(second).To(Equal(2))
		})
	})

	Context("when writes happen inside a batch", func() {
		It("delivers notifications only after the batch completes", func() {
			var observedAuth []store.AuthState
			s.Token.Watch(func(string) {
				// the companion write must already be visible
				observedAuth = append(observedAuth, s.Authenticated.Get())
			})

			s.Batch(func() {
				s.Token.Set("token-1")
				s.Authenticated.Set(store.AuthSignedIn)
			})

			Expect(observedAuth).To(Equal([]store.AuthState{store.AuthSignedIn}))
		})

		It("flushes nested batches once at the outermost level", func() {
			count := 0
			s.Token.Watch(func(string) { count++ })

			s.Batch(func() {
				s.Token.Set("outer")
				s.Batch(func() {
					s.Token.Set("inner")
				})
				Expect(count).To(Equal(0))
			})

			Expect(count).To(Equal(2))
		})
	})
})

var _ = Describe("Derived", func() {
	var s *store.Store

	BeforeEach(func() {
		s = store.New()
	})

	It("returns nil totals before any snapshot is fetched", func() {
		Expect(s.Totals.Get()).To(BeNil())
	})

	It("recomputes after a relevant cell changes", func() {
		s.Dashboard.Set(&store.DashboardSnapshot{
			BaseCurrency: "KRW",
			TotalValue:   1000,
		})
		totals := s.Totals.Get()
		Expect(totals).ToNot(BeNil())
		Expect(totals.Value.InexactFloat64()).To(BeNumerically("==", 1000))

		s.Dashboard.Set(&store.DashboardSnapshot{
			BaseCurrency: "KRW",
			TotalValue:   2500,
		})
		Expect(s.Totals.Get().Value.InexactFloat64()).To(BeNumerically("==", 2500))
	})

	It("memoizes between writes", func() {
		s.Dashboard.Set(&store.DashboardSnapshot{BaseCurrency: "KRW", TotalValue: 1000})

		first := s.Totals.Get()
		second := s.Totals.Get()
		Expect(second).To(BeIdenticalTo(first))
	})
})

var _ = Describe("Selection generation", func() {
	var s *store.Store

	BeforeEach(func() {
		s = store.New()
	})

	It("invalidates fetches issued before a bump", func() {
		gen := s.SelectionGeneration()
		Expect(s.SelectionCurrent(gen)).To(BeTrue())

		s.BumpSelectionGeneration()
		Expect(s.SelectionCurrent(gen)).To(BeFalse())
	})

	It("returns the new generation from a bump", func() {
		gen := s.BumpSelectionGeneration()
		Expect(s.SelectionCurrent(gen)).To(BeTrue())
		Expect(s.SelectionGeneration()).To(Equal(gen))
	})
})
