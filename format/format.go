// Package format re-indents Hexza source code.
//
// Formatting is line based: every line is indented by four spaces per open
// brace, and a line that starts with closing braces is dedented by them.
// Braces inside strings and comments are ignored. Lines inside a
// triple-quoted string are copied unchanged, and so are lines inside a block
// comment apart from trailing whitespace. Nothing else about a line changes.
package format

import (
	"strings"
)

// Indent is the indentation written per nesting level.
const Indent = "    "

type state struct {
	depth   int
	comment bool   // inside /* */
	triple  string // closing delimiter of the open triple-quoted string
}

// Source returns src re-indented. Source is idempotent.
func Source(src string) string {
	if strings.TrimSpace(src) == "" {
		return ""
	}
	lines := strings.Split(src, "\n")
	out := make([]string, 0, len(lines))
	var st state
	for _, line := range lines {
		switch {
		case st.triple != "":
			out = append(out, line)
			st.scan(line)
		case st.comment:
			out = append(out, strings.TrimRight(line, " \t\r"))
			st.scan(line)
		default:
			trimmed := strings.TrimSpace(line)
			if trimmed == "" {
				out = append(out, "")
				continue
			}
			level := st.depth - leadingClosers(trimmed)
			if level < 0 {
				level = 0
			}
			st.scan(trimmed)
			text := strings.Repeat(Indent, level) + trimmed
			if st.triple != "" {
				// Whitespace at the end of this line belongs to the string.
				text = strings.Repeat(Indent, level) + strings.TrimLeft(line, " \t")
			}
			out = append(out, text)
		}
	}
	for len(out) > 0 && out[len(out)-1] == "" {
		out = out[:len(out)-1]
	}
	return strings.Join(out, "\n") + "\n"
}

// Check reports whether src is already formatted.
func Check(src string) bool {
	return Source(src) == src
}

func leadingClosers(line string) int {
	n := 0
	for _, c := range line {
		switch c {
		case '}':
			n++
		case ' ', '\t':
		default:
			return n
		}
	}
	return n
}

// scan updates the brace depth and the string and comment state for one
// line of text.
func (st *state) scan(line string) {
	for i := 0; i < len(line); i++ {
		if st.triple != "" {
			if strings.HasPrefix(line[i:], st.triple) {
				i += len(st.triple) - 1
				st.triple = ""
			}
			continue
		}
		if st.comment {
			if strings.HasPrefix(line[i:], "*/") {
				i++
				st.comment = false
			}
			continue
		}
		rest := line[i:]
		switch {
		case strings.HasPrefix(rest, "//"):
			return
		case strings.HasPrefix(rest, "/*"):
			st.comment = true
			i++
		case strings.HasPrefix(rest, `"""`), strings.HasPrefix(rest, "'''"):
			st.triple = rest[:3]
			i += 2
		case line[i] == '"' || line[i] == '\'':
			i = skipString(line, i)
		case line[i] == '{':
			st.depth++
		case line[i] == '}':
			if st.depth > 0 {
				st.depth--
			}
		}
	}
}

// skipString returns the index of the closing quote of the string starting
// at i, or the last index of the line for an unterminated string.
func skipString(line string, i int) int {
	quote := line[i]
	for j := i + 1; j < len(line); j++ {
		switch line[j] {
		case '\\':
			j++
		case quote:
			return j
		}
	}
	return len(line) - 1
}
