// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package slug derives URL-friendly post identifiers from titles.
package slug

import (
	"regexp"
	"strings"
)

// nonAlphanumericRun matches every run of characters outside [a-z0-9].
var nonAlphanumericRun = regexp.MustCompile(`[^a-z0-9]+`)

// Generate lowercases s and replaces each run of non-alphanumeric characters
// with a single hyphen. Leading and trailing runs become hyphens too, so
// slugs stay stable for titles that only differ in trailing punctuation.
// Example: "Hello, World! 2026" → "hello-world-2026"
func Generate(s string) string {
	return nonAlphanumericRun.ReplaceAllString(strings.ToLower(s), "-")
}
