package services

import (
	"regexp"
	"strings"
)

// JSONRepairer makes a best-effort structural repair of malformed or
// token-limit-truncated JSON. The transform order matters and is fixed:
// fences, trailing commas, unterminated string, dangling fragments, bracket
// balance, trailing commas again. The result is not guaranteed to parse;
// callers must re-attempt the parse and treat failure as terminal for the
// attempt.
type JSONRepairer struct {
	fragmentExprs []*regexp.Regexp
}

// conservativeFragmentExprs strips only unambiguous trailing fragments:
// a dangling ",", a dangling key, or a dangling "key": with no value.
var conservativeFragmentExprs = []*regexp.Regexp{
	regexp.MustCompile(`,\s*"[^"]*"?\s*:?\s*$`),
	regexp.MustCompile(`([{\[])\s*"[^"]*"?\s*:?\s*$`),
}

// aggressiveFragmentExprs additionally drops a trailing "key": value pair
// whose value was cut off mid-scalar. Chunk responses are small enough that
// losing the last field beats losing the whole chunk.
var aggressiveFragmentExprs = append([]*regexp.Regexp{
	regexp.MustCompile(`,\s*"[^"]*"\s*:\s*[0-9eE+.\-]+\s*$`),
	regexp.MustCompile(`,\s*"[^"]*"\s*:\s*[a-z]*\s*$`),
}, conservativeFragmentExprs...)

// NewSingleShotRepairer repairs full-document responses and is conservative
// about which trailing fragments it removes.
func NewSingleShotRepairer() *JSONRepairer {
	return &JSONRepairer{fragmentExprs: conservativeFragmentExprs}
}

// NewChunkRepairer repairs the smaller chunked responses and strips trailing
// fragments more aggressively.
func NewChunkRepairer() *JSONRepairer {
	return &JSONRepairer{fragmentExprs: aggressiveFragmentExprs}
}

func (r *JSONRepairer) Repair(text string) string {
	text = stripFences(text)
	text = stripTrailingCommas(text)
	text = closeUnterminatedString(text)
	text = r.stripDanglingFragments(text)
	text = balanceStructure(text)
	text = stripTrailingCommas(text)
	return text
}

func stripFences(text string) string {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "```json") {
		text = strings.TrimPrefix(text, "```json")
	} else if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
	}
	text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	return strings.TrimSpace(text)
}

// stripTrailingCommas removes commas immediately before a closing brace or
// bracket. String-aware so commas inside literals survive untouched.
func stripTrailingCommas(text string) string {
	out := make([]byte, 0, len(text))
	inString, escaped := false, false

	for i := 0; i < len(text); i++ {
		ch := text[i]

		if inString {
			out = append(out, ch)
			if escaped {
				escaped = false
				continue
			}
			if ch == '\\' {
				escaped = true
				continue
			}
			if ch == '"' {
				inString = false
			}
			continue
		}

		if ch == '"' {
			inString = true
			out = append(out, ch)
			continue
		}

		if ch == '}' || ch == ']' {
			j := len(out)
			for j > 0 && isSpaceByte(out[j-1]) {
				j--
			}
			if j > 0 && out[j-1] == ',' {
				out = append(out[:j-1], out[j:]...)
			}
		}
		out = append(out, ch)
	}

	return string(out)
}

// closeUnterminatedString detects text that ends inside a string literal
// (odd count of unescaped quotes), truncates at the last quote and strips a
// trailing "," or ":" left behind.
func closeUnterminatedString(text string) string {
	count := 0
	last := -1
	escaped := false
	for i := 0; i < len(text); i++ {
		if escaped {
			escaped = false
			continue
		}
		if text[i] == '\\' {
			escaped = true
			continue
		}
		if text[i] == '"' {
			count++
			last = i
		}
	}
	if count%2 == 0 || last < 0 {
		return text
	}

	text = strings.TrimRight(text[:last], " \t\r\n")
	text = strings.TrimSuffix(text, ",")
	text = strings.TrimSuffix(text, ":")
	return strings.TrimRight(text, " \t\r\n")
}

func (r *JSONRepairer) stripDanglingFragments(text string) string {
	for changed := true; changed; {
		changed = false
		for _, expr := range r.fragmentExprs {
			repaired := expr.ReplaceAllString(text, "$1")
			if repaired != text {
				text = repaired
				changed = true
			}
		}
	}
	return text
}

// balanceStructure appends whatever closing brackets and braces the text is
// missing, in proper nesting order. Unmatched closers are skipped rather
// than guessed at.
func balanceStructure(text string) string {
	var stack []byte
	inString, escaped := false, false

	for i := 0; i < len(text); i++ {
		ch := text[i]
		if inString {
			if escaped {
				escaped = false
				continue
			}
			if ch == '\\' {
				escaped = true
				continue
			}
			if ch == '"' {
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case '{', '[':
			stack = append(stack, ch)
		case '}':
			if len(stack) > 0 && stack[len(stack)-1] == '{' {
				stack = stack[:len(stack)-1]
			}
		case ']':
			if len(stack) > 0 && stack[len(stack)-1] == '[' {
				stack = stack[:len(stack)-1]
			}
		}
	}

	var closers strings.Builder
	for i := len(stack) - 1; i >= 0; i-- {
		if stack[i] == '{' {
			closers.WriteByte('}')
		} else {
			closers.WriteByte(']')
		}
	}
	return text + closers.String()
}

func isSpaceByte(b byte) bool {
	return b == ' ' || b == '\t' || b == '\r' || b == '\n'
}
