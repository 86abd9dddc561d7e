// Copyright 2026 The Fixflow Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"sort"
	"strings"
	"unicode"

	"github.com/junegunn/fzf/src/algo"
	"github.com/junegunn/fzf/src/util"
)

// FuzzyResult holds the outcome of a fuzzy match: a relevance score
// and the rune positions in the text that matched the pattern. A zero
// score means no match.
type FuzzyResult struct {
	Score     int
	Positions []int
}

// FuzzyMatch runs fzf's FuzzyMatchV2 algorithm against a single text.
// Matching is case-insensitive: both the text and the pattern are
// lowercased before matching (fzf's caseSensitive=false mode expects
// a pre-lowercased pattern). The returned positions are rune indices
// into the original text, sorted ascending, suitable for highlight
// rendering.
//
// The slab parameter is fzf's scratch allocation arena. Callers that
// match many texts in a loop should allocate one with util.MakeSlab
// and reuse it across calls; nil is accepted and allocates per call.
func FuzzyMatch(text string, pattern []rune, slab *util.Slab) FuzzyResult {
	if len(pattern) == 0 {
		return FuzzyResult{}
	}

	lowered := make([]rune, len(pattern))
	for index, character := range pattern {
		lowered[index] = unicode.ToLower(character)
	}

	chars := util.ToChars([]byte(strings.ToLower(text)))
	result, positions := algo.FuzzyMatchV2(false, true, true, &chars, lowered, true, slab)
	if result.Score <= 0 {
		return FuzzyResult{}
	}

	var matched []int
	if positions != nil {
		matched = make([]int, len(*positions))
		copy(matched, *positions)
		sort.Ints(matched)
	}
	return FuzzyResult{Score: result.Score, Positions: matched}
}
