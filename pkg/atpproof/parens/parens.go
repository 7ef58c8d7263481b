// Package parens finds the boundaries of nested terms in prover output.
//
// All scanners treat quoted atoms ('...' and "...") as opaque, so brackets
// inside quotes never count toward nesting.
package parens

import "strings"

// Match returns the index of the bracket closing the one at open, or -1 when
// s[open] is not an opening bracket or the input ends before it is balanced.
// Round and square brackets may be mixed but must nest properly.
func Match(s string, open int) int {
	if open < 0 || open >= len(s) {
		return -1
	}
	if s[open] != '(' && s[open] != '[' {
		return -1
	}

	var stack []byte
	for i := open; i < len(s); i++ {
		switch c := s[i]; c {
		case '\'', '"':
			end := skipQuoted(s, i)
			if end < 0 {
				return -1
			}
			i = end
		case '(':
			stack = append(stack, ')')
		case '[':
			stack = append(stack, ']')
		case ')', ']':
			if len(stack) == 0 || stack[len(stack)-1] != c {
				return -1
			}
			stack = stack[:len(stack)-1]
			if len(stack) == 0 {
				return i
			}
		}
	}
	return -1
}

// Split cuts s at every sep that is not nested inside brackets or quotes.
// Parts are trimmed of surrounding whitespace. An empty s yields nil.
func Split(s string, sep byte) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}

	var parts []string
	depth, start := 0, 0
	for i := 0; i < len(s); i++ {
		switch c := s[i]; {
		case c == '\'' || c == '"':
			if end := skipQuoted(s, i); end >= 0 {
				i = end
			}
		case c == '(' || c == '[':
			depth++
		case c == ')' || c == ']':
			if depth > 0 {
				depth--
			}
		case c == sep && depth == 0:
			parts = append(parts, strings.TrimSpace(s[start:i]))
			start = i + 1
		}
	}
	return append(parts, strings.TrimSpace(s[start:]))
}

// Enclosing returns the smallest round-bracket group that strictly contains
// position pos. Quotes are not tracked here; it is meant for KIF text.
func Enclosing(s string, pos int) (start, end int, ok bool) {
	if pos <= 0 || pos > len(s) {
		return 0, 0, false
	}
	depth := 0
	for i := pos - 1; i >= 0; i-- {
		switch s[i] {
		case ')':
			depth++
		case '(':
			if depth == 0 {
				end = Match(s, i)
				if end < pos {
					return 0, 0, false
				}
				return i, end, true
			}
			depth--
		}
	}
	return 0, 0, false
}

// Inner returns the text between the first opening bracket of s and its
// match, with the functor name that precedes it.
func Inner(s string) (functor, args string, ok bool) {
	open := strings.IndexAny(s, "([")
	if open < 0 {
		return "", "", false
	}
	end := Match(s, open)
	if end < 0 {
		return "", "", false
	}
	return strings.TrimSpace(s[:open]), s[open+1 : end], true
}

// skipQuoted returns the index of the quote closing the one at i, honouring
// backslash escapes, or -1 if the quote never closes.
func skipQuoted(s string, i int) int {
	q := s[i]
	for j := i + 1; j < len(s); j++ {
		switch s[j] {
		case '\\':
			j++
		case q:
			return j
		}
	}
	return -1
}
