/*
Package document implements a restricted-grammar scanner for map documents
exported by the Tiled map editor.

It is not a JSON parser. Values are located by searching for the literal
quoted key and measuring the value that follows it, which only works for the
formatting produced by the editor's exporter:

  - keys are found by their first occurrence anywhere in the text, so a key
    nested in an earlier object shadows a later one;
  - arrays and objects are measured by counting same-kind brackets, ignoring
    any bracket characters inside strings;
  - strings end at the next double quote, escapes are not understood;
  - named objects are matched on the exact text "name":"X" with no space
    after the colon.

Documents re-serialized with a different whitespace convention are expected
to be rejected.
*/
package document

import "strings"

// Span is a half-open byte range into a document.
type Span struct {
	Start, End int
}

// Text returns the part of doc covered by s.
func (s Span) Text(doc string) string {
	return doc[s.Start:s.End]
}

// Len returns the length of the span in bytes.
func (s Span) Len() int {
	return s.End - s.Start
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n'
}

// balanced returns the offset just past the bracket closing the one at
// doc[start]. An unterminated run ends at the end of doc.
func balanced(doc string, start int, open, close byte) int {
	depth := 1
	i := start + 1
	for i < len(doc) && depth > 0 {
		switch doc[i] {
		case open:
			depth++
		case close:
			depth--
		}
		i++
	}
	return i
}

// valueAt measures the value starting at doc[start].
func valueAt(doc string, start int) Span {
	if start >= len(doc) {
		return Span{start, start}
	}

	end := start
	switch doc[start] {
	case '"':
		if i := strings.IndexByte(doc[start+1:], '"'); i >= 0 {
			end = start + 1 + i + 1
		} else {
			end = len(doc)
		}
	case '[':
		end = balanced(doc, start, '[', ']')
	case '{':
		end = balanced(doc, start, '{', '}')
	default:
		for end < len(doc) {
			c := doc[end]
			if c == ',' || c == '}' || c == ']' || c == '\n' {
				break
			}
			end++
		}
	}
	return Span{start, end}
}

// LocateValue finds the first "key" followed by a colon and returns the span
// of the value after it.
func LocateValue(doc, key string) (Span, bool) {
	needle := `"` + key + `"`
	offset := 0
	for {
		i := strings.Index(doc[offset:], needle)
		if i < 0 {
			return Span{}, false
		}
		p := offset + i + len(needle)
		for p < len(doc) && isSpace(doc[p]) {
			p++
		}
		if p < len(doc) && doc[p] == ':' {
			p++
			for p < len(doc) && isSpace(doc[p]) {
				p++
			}
			return valueAt(doc, p), true
		}
		// Quoted text that isn't a key, keep looking
		offset += i + 1
	}
}

// LocateNamedObject finds the object inside the array stored under arrayKey
// whose name field is exactly name, and returns the span of the whole object.
func LocateNamedObject(doc, arrayKey, name string) (Span, bool) {
	key := strings.Index(doc, `"`+arrayKey+`"`)
	if key < 0 {
		return Span{}, false
	}

	open := strings.IndexByte(doc[key:], '[')
	if open < 0 {
		return Span{}, false
	}
	open += key

	match := strings.Index(doc[open:], `"name":"`+name+`"`)
	if match < 0 {
		return Span{}, false
	}
	match += open

	start := match
	for start > open && doc[start] != '{' {
		start--
	}
	if doc[start] != '{' {
		return Span{}, false
	}

	return Span{start, balanced(doc, start, '{', '}')}, true
}

// Int returns the integer stored under key, or 0 if the key is missing or the
// value doesn't start with a number.
func Int(doc, key string) int {
	s, ok := LocateValue(doc, key)
	if !ok {
		return 0
	}
	return atoi(s.Text(doc))
}

func atoi(s string) int {
	i := 0
	for i < len(s) && (isSpace(s[i]) || s[i] == '\r' || s[i] == '\v' || s[i] == '\f') {
		i++
	}
	neg := false
	if i < len(s) && (s[i] == '-' || s[i] == '+') {
		neg = s[i] == '-'
		i++
	}
	n := 0
	for ; i < len(s) && s[i] >= '0' && s[i] <= '9'; i++ {
		n = n*10 + int(s[i]-'0')
	}
	if neg {
		return -n
	}
	return n
}
