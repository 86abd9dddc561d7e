// Copyright 2026 The Fixflow Authors
// SPDX-License-Identifier: Apache-2.0

// Package ticketlist maintains the client-side ticket snapshot and
// derives display lists from it.
//
// The Store holds the most recently fetched tickets for the signed-in
// user's role. The derived display list is always a pure function of
// (snapshot, FilterState), recomputed in full by Apply on every change
// to either, never patched incrementally, so it cannot diverge from
// its inputs. Filtering composes by AND: each unset filter field is
// vacuously true. Sorting is stable, so tickets with equal keys keep
// their snapshot order.
//
// Mutations never touch the snapshot directly. After a confirmed
// server mutation the caller either replaces one ticket wholesale
// (Replace, from a fresh fetch) or reloads the full list (Load). A
// failed Load leaves the previous snapshot untouched.
package ticketlist
