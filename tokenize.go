// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package wordcount

import "strings"

// isDelimiter reports whether r separates tokens: comma, semicolon,
// exclamation mark, period, or space. Tabs and other whitespace are not
// delimiters.
func isDelimiter(r rune) bool {
	switch r {
	case ',', ';', '!', '.', ' ':
		return true
	}
	return false
}

// Tokenize splits line into tokens separated by runs of one or more delimiter
// characters (see [CountTokens]). Leading and trailing delimiters never
// produce empty tokens, so an empty or delimiter-only line has no tokens.
func Tokenize(line string) []string {
	return strings.FieldsFunc(line, isDelimiter)
}

// CountTokens returns len(Tokenize(line)) without allocating. Tokens are
// separated by runs of ',', ';', '!', '.' and ' '.
func CountTokens(line string) int {
	n := 0
	inToken := false
	for _, r := range line {
		if isDelimiter(r) {
			inToken = false
		} else if !inToken {
			inToken = true
			n++
		}
	}
	return n
}
