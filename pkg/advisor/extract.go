package advisor

import "fmt"

// ExtractJSONArray returns the first balanced top-level JSON array in s.
// Chat models routinely wrap their JSON in prose or markdown fences, so the
// caller cannot unmarshal the reply directly. Bracket depth is tracked with
// awareness of string literals and escapes; brackets inside quoted values do
// not count.
func ExtractJSONArray(s string) (string, error) {
	start := -1
	depth := 0
	inString := false
	escaped := false

	for i := 0; i < len(s); i++ {
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
			if start >= 0 {
				inString = true
			}
		case '[':
			if start < 0 {
				start = i
			}
			depth++
		case ']':
			if start < 0 {
				continue
			}
			depth--
			if depth == 0 {
				return s[start : i+1], nil
			}
		}
	}

	if start >= 0 {
		return "", fmt.Errorf("reply contains an unterminated JSON array")
	}
	return "", fmt.Errorf("reply contains no JSON array")
}
