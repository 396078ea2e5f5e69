// Copyright (c) 2026 PortfolioHub. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package slug generates ASCII URL slugs from arbitrary Unicode strings.
//
// PortfolioHub derives account usernames (and therefore public portfolio
// URLs) from full names with it, e.g. "Zoë O'Brien" becomes "zoe-o-brien".
package slug

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	// nonAlphanumeric matches any sequence of characters outside [a-z0-9].
	nonAlphanumeric = regexp.MustCompile(`[^a-z0-9]+`)
)

// From converts an arbitrary Unicode string into a URL-safe ASCII slug.
//
// # Transformation Pipeline
//
//  1. Normalizes to NFD and removes combining marks (é → e).
//  2. Converts to lowercase.
//  3. Replaces every run of non [a-z0-9] characters with a single hyphen.
//  4. Trims leading/trailing hyphens.
//
// The result may be empty when the input has no ASCII letters or digits.
func From(s string) string {
	// Chained transformers are stateful, so one is built per call.
	stripMarks := transform.Chain(norm.NFD, transform.RemoveFunc(isMn), norm.NFC)
	result, _, err := transform.String(stripMarks, s)
	if err != nil {
		result = s
	}

	result = strings.ToLower(result)
	result = nonAlphanumeric.ReplaceAllString(result, "-")

	return strings.Trim(result, "-")
}

// WithSuffix appends a numeric collision suffix: ("jane-doe", 2) → "jane-doe-2".
// A counter of zero returns base unchanged.
func WithSuffix(base string, counter int) string {
	if counter <= 0 {
		return base
	}
	return base + "-" + strconv.Itoa(counter)
}

// isMn reports whether r is a Unicode non-spacing mark (e.g., accents).
func isMn(r rune) bool {
	return unicode.Is(unicode.Mn, r)
}
