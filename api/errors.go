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
	"errors"
	"fmt"
)

var (
	// ErrAuthExpired marks an authorization-failure response. The interceptor
	// has already fired by the time a caller sees it; the error still
	// propagates so the caller can abandon its own work.
	ErrAuthExpired = errors.New("session expired or token rejected")

	// ErrNotAuthenticated is returned when an optional call is skipped
	// because no authenticated session exists
	ErrNotAuthenticated = errors.New("no authenticated session")

	// ErrInterceptorInstalled guards against duplicate interceptor mounts
	ErrInterceptorInstalled = errors.New("auth interceptor already installed")

	ErrInvalidPayload = errors.New("response payload failed validation")
)

// StatusError carries a non-auth HTTP failure back to the initiating action.
// Validation failures (duplicate account, bad input) surface this way and
// must not cascade into cache clears.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("request failed with status %d", e.Code)
	}
	return fmt.Sprintf("request failed with status %d: %s", e.Code, e.Message)
}

// IsValidation reports whether err is a client-input rejection (4xx other
// than the authorization failure handled by the interceptor)
func IsValidation(err error) bool {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Code >= 400 && statusErr.Code < 500
	}
	return false
}
