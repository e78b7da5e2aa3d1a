package llm

import "strings"

// ExtractJSONObject returns the first balanced {...} span in s, and
// whether one was found. Braces inside JSON string literals (including
// escaped quotes) are skipped, so `{"k": "a } b"}` extracts correctly.
//
// This is a deliberate explicit scanner: a regex for nested braces either
// doesn't exist or has pathological backtracking on adversarial input,
// and provider output is adversarial by accident. No balanced span means
// the caller treats the response as a failure.
func ExtractJSONObject(s string) (string, bool) {
	start := strings.IndexByte(s, '{')
	if start == -1 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false

	for i := start; i < len(s); i++ {
		c := s[i]

		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return strings.TrimSpace(s[start : i+1]), true
			}
		}
	}

	// Ran off the end with braces still open: truncated output, no span.
	return "", false
}
