package argdown

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// parseInlineData decodes a brace-delimited inline data block, e.g.
// {annotation_ids: ['i1'], from: ["1","2"]}, into a map. Argdown sources
// commonly omit the space after the colon; the input is normalized so the
// YAML flow parser accepts both forms.
func parseInlineData(s string) (map[string]any, error) {
	out := map[string]any{}
	if strings.TrimSpace(s) == "" {
		return out, nil
	}
	if err := yaml.Unmarshal([]byte(normalizeFlowYAML(s)), &out); err != nil {
		return nil, fmt.Errorf("invalid inline data %q: %w", s, err)
	}
	return out, nil
}

// normalizeFlowYAML inserts a space after colons that directly precede a
// flow collection or quoted scalar outside of quotes. Those positions are
// always key-value boundaries, so the rewrite never alters scalar content.
func normalizeFlowYAML(s string) string {
	var sb strings.Builder
	sb.Grow(len(s) + 8)

	var inSingle, inDouble bool
	runes := []rune(s)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		sb.WriteRune(r)
		switch {
		case inDouble:
			if r == '\\' && i+1 < len(runes) {
				sb.WriteRune(runes[i+1])
				i++
			} else if r == '"' {
				inDouble = false
			}
		case inSingle:
			if r == '\'' {
				if i+1 < len(runes) && runes[i+1] == '\'' {
					sb.WriteRune('\'')
					i++
				} else {
					inSingle = false
				}
			}
		case r == '"':
			inDouble = true
		case r == '\'':
			inSingle = true
		case r == ':' && i+1 < len(runes):
			switch runes[i+1] {
			case '[', '{', '\'', '"':
				sb.WriteRune(' ')
			}
		}
	}
	return sb.String()
}

// splitTrailingData separates a line into its text and a trailing
// brace-delimited inline data block. Lines without a trailing block return
// the whole line and an empty data string. An opening brace without a
// matching close before the line end is an error.
func splitTrailingData(line string) (text, data string, err error) {
	trimmed := strings.TrimRight(line, " \t")
	if !strings.HasSuffix(trimmed, "}") {
		if opensUnbalancedBrace(trimmed) {
			return "", "", fmt.Errorf("unbalanced '{' in %q", line)
		}
		return line, "", nil
	}

	var inSingle, inDouble bool
	depth := 0
	start := -1
	lastStart := -1
	runes := []rune(trimmed)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch {
		case inDouble:
			if r == '\\' {
				i++
			} else if r == '"' {
				inDouble = false
			}
		case inSingle:
			if r == '\'' {
				inSingle = false
			}
		case r == '"':
			inDouble = true
		case r == '\'':
			inSingle = true
		case r == '{':
			if depth == 0 {
				start = i
			}
			depth++
		case r == '}':
			if depth > 0 {
				depth--
				if depth == 0 && i == len(runes)-1 {
					lastStart = start
				}
			}
		}
	}
	if depth != 0 {
		return "", "", fmt.Errorf("unbalanced '{' in %q", line)
	}
	if lastStart < 0 {
		return line, "", nil
	}
	return strings.TrimRight(string(runes[:lastStart]), " \t"), string(runes[lastStart:]), nil
}

func opensUnbalancedBrace(s string) bool {
	var inSingle, inDouble bool
	depth := 0
	runes := []rune(s)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch {
		case inDouble:
			if r == '\\' {
				i++
			} else if r == '"' {
				inDouble = false
			}
		case inSingle:
			if r == '\'' {
				inSingle = false
			}
		case r == '"':
			inDouble = true
		case r == '\'':
			inSingle = true
		case r == '{':
			depth++
		case r == '}':
			if depth > 0 {
				depth--
			}
		}
	}
	return depth != 0
}

// mergeData copies src entries into dst, overwriting existing keys, and
// returns dst (allocating it when nil).
func mergeData(dst, src map[string]any) map[string]any {
	if len(src) == 0 {
		return dst
	}
	if dst == nil {
		dst = make(map[string]any, len(src))
	}
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
