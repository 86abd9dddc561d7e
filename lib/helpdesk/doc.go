// Copyright 2026 The Fixflow Authors
// SPDX-License-Identifier: Apache-2.0

// Package helpdesk is a typed client for the fix-flow-api REST
// service. It covers the full surface the terminal client needs:
// authentication (sign-in, sign-up), ticket listing scoped by role,
// single-ticket fetch, ticket creation, status updates, feedback
// submission, categories, and comment threads.
//
// The client holds at most one bearer token. Authentication calls
// (SignIn, SignUp) work on an unauthenticated client; every other call
// requires a token and fails fast locally without one. Non-2xx
// responses surface as *APIError with the HTTP status code; use the
// IsUnauthorized / IsForbidden / IsNotFound predicates to classify.
// Transport failures surface as wrapped errors from net/http.
//
// There are no automatic retries anywhere: every failure is returned
// to the caller, and the user re-triggers the action. This mirrors the
// UI contract: a failed load leaves the previous snapshot untouched.
package helpdesk
