// Copyright 2026 The Fixflow Authors
// SPDX-License-Identifier: Apache-2.0

// Package tui provides shared terminal user interface components for
// the fixflow client. Built on bubbletea (Elm architecture), these
// components handle common patterns like dropdown overlays, modal
// text editors, scrollbars, fuzzy matching, and ANSI-aware overlay
// splicing.
//
// The ticket viewer in lib/ticketui imports this package for
// consistent look and behavior: same theme, same keyboard
// conventions, same overlay mechanics. Domain-specific layout and
// rendering stay out of this package.
package tui
