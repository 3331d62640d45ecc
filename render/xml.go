package render

import (
	"fmt"
	"strings"
)

// xmlEscaper covers the characters that need escaping in attribute values
// and element text. Attribute values are always single-quoted.
var xmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	"'", "&apos;",
	`"`, "&quot;",
)

// attr is one candidate attribute for an element. Attributes with empty
// values are skipped at render time; absence is not an error.
type attr struct {
	name  string
	value string
}

func a(name, value string) attr {
	return attr{name: name, value: value}
}

// an formats an optional numeric attribute; nil means absent.
func an(name string, v *int) attr {
	if v == nil {
		return attr{name: name}
	}
	return attr{name: name, value: fmt.Sprintf("%d", *v)}
}

// attrs renders the attribute list in the order given, skipping entries
// whose value is absent. The result starts with a space when non-empty.
func attrs(list ...attr) string {
	var b strings.Builder
	for _, it := range list {
		if it.value == "" {
			continue
		}
		b.WriteString(" ")
		b.WriteString(it.name)
		b.WriteString("='")
		b.WriteString(xmlEscaper.Replace(it.value))
		b.WriteString("'")
	}
	return b.String()
}

// elem renders an element with pre-rendered attribute text and body.
// Empty bodies collapse to a self-closing element.
func elem(name, attrText, body string) string {
	if body == "" {
		return "<" + name + attrText + "/>"
	}
	return "<" + name + attrText + ">" + body + "</" + name + ">"
}

// textElem renders an element whose body is escaped text.
func textElem(name, attrText, text string) string {
	return elem(name, attrText, xmlEscaper.Replace(text))
}

// joinLines joins the non-empty parts with newlines.
func joinLines(parts ...string) string {
	out := parts[:0:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, "\n")
}

// indent prefixes every non-empty line of s with n levels of two-space
// indentation.
func indent(s string, n int) string {
	if s == "" {
		return ""
	}
	pad := strings.Repeat("  ", n)
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		if line != "" {
			lines[i] = pad + line
		}
	}
	return strings.Join(lines, "\n")
}
