package selector

import (
	"fmt"
	"strings"

	"action_recorder/domain/entities"
	"action_recorder/domain/interfaces"
)

// hasTextPseudo is a text-containment predicate appended to a CSS selector.
// The document query engine cannot evaluate it, so Resolve does.
const hasTextPseudo = ":has-text("

// HasText builds base:has-text("text")
func HasText(base, text string) string {
	return base + hasTextPseudo + quote(text) + ")"
}

// SplitHasText splits a text selector into its CSS base and target text.
// ok is false for plain CSS selectors.
func SplitHasText(selector string) (base, text string, ok bool) {
	if !strings.HasSuffix(selector, `")`) {
		return selector, "", false
	}
	idx := strings.Index(selector, hasTextPseudo+`"`)
	if idx < 0 {
		return selector, "", false
	}
	quoted := selector[idx+len(hasTextPseudo) : len(selector)-1]
	text, err := unquote(quoted)
	if err != nil {
		return selector, "", false
	}
	base = selector[:idx]
	if base == "" {
		base = "*"
	}
	return base, text, true
}

// Resolve returns the elements a selector matches, including text selectors
func Resolve(doc interfaces.Document, selector string) ([]interfaces.Element, error) {
	base, text, ok := SplitHasText(selector)
	if !ok {
		return doc.QueryAll(selector)
	}

	candidates, err := doc.QueryAll(base)
	if err != nil {
		return nil, err
	}
	needle := strings.ToLower(entities.NormalizeText(text))
	var matched []interfaces.Element
	for _, el := range candidates {
		if strings.Contains(strings.ToLower(el.TextContent()), needle) {
			matched = append(matched, el)
		}
	}
	return matched, nil
}

// Count returns the number of elements a selector matches
func Count(doc interfaces.Document, selector string) (int, error) {
	els, err := Resolve(doc, selector)
	if err != nil {
		return 0, err
	}
	return len(els), nil
}

// IsUnique reports whether a selector matches exactly one element.
// Malformed selectors are never unique.
func IsUnique(doc interfaces.Document, selector string) bool {
	n, err := Count(doc, selector)
	return err == nil && n == 1
}

// identifies reports whether selector matches el and nothing else
func identifies(doc interfaces.Document, selector string, el interfaces.Element) bool {
	els, err := Resolve(doc, selector)
	if err != nil || len(els) != 1 {
		return false
	}
	return els[0].Same(el)
}

// quote returns s as a double-quoted CSS string
func quote(s string) string {
	var sb strings.Builder
	sb.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"', '\\':
			sb.WriteByte('\\')
			sb.WriteRune(r)
		case '\n':
			sb.WriteString(`\a `)
		default:
			sb.WriteRune(r)
		}
	}
	sb.WriteByte('"')
	return sb.String()
}

func unquote(s string) (string, error) {
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return "", fmt.Errorf("not a quoted string: %s", s)
	}
	s = s[1 : len(s)-1]
	var sb strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '"' {
			return "", fmt.Errorf("unescaped quote in %s", s)
		}
		if c == '\\' {
			i++
			if i >= len(s) {
				return "", fmt.Errorf("dangling escape in %s", s)
			}
			if s[i] == 'a' && i+1 < len(s) && s[i+1] == ' ' {
				sb.WriteByte('\n')
				i++
				continue
			}
			c = s[i]
		}
		sb.WriteByte(c)
	}
	return sb.String(), nil
}

// attrSelector builds [name="value"]
func attrSelector(name, value string) string {
	return "[" + name + "=" + quote(value) + "]"
}

// escapeIdent escapes a class name or id for use as a CSS identifier
func escapeIdent(s string) string {
	var sb strings.Builder
	for i, r := range s {
		switch {
		case r == 0:
			sb.WriteRune('�')
		case r >= '0' && r <= '9' && (i == 0 || (i == 1 && s[0] == '-')):
			fmt.Fprintf(&sb, "\\%x ", r)
		case r == '-' && i == 0 && len(s) == 1:
			sb.WriteString(`\-`)
		case r >= 0x80, r == '-', r == '_',
			r >= '0' && r <= '9', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
			sb.WriteRune(r)
		case r < 0x20 || r == 0x7f:
			fmt.Fprintf(&sb, "\\%x ", r)
		default:
			sb.WriteByte('\\')
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
