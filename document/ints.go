package document

import "strings"

// maxToken is the longest numeric token kept, further characters are dropped.
const maxToken = 31

// DecodeInts decodes a bracketed, comma separated list of integers such as
// "[1, -2, 3]". Digits and minus signs accumulate into a token which is
// flushed on a comma; every other character is ignored. Scanning stops at the
// first closing bracket and a trailing token is flushed at the end.
func DecodeInts(s string) []int {
	if i := strings.IndexByte(s, '['); i >= 0 {
		s = s[i+1:]
	}

	out := make([]int, 0, strings.Count(s, ",")+1)

	var tok [maxToken]byte
	n := 0
	inNumber := false

	for i := 0; i < len(s) && s[i] != ']'; i++ {
		c := s[i]
		switch {
		case c >= '0' && c <= '9', c == '-':
			if n < maxToken {
				tok[n] = c
				n++
				inNumber = true
			}
		case c == ',':
			if inNumber {
				out = append(out, parseToken(tok[:n]))
				n = 0
				inNumber = false
			}
		}
	}

	if inNumber {
		out = append(out, parseToken(tok[:n]))
	}

	return out
}

// parseToken reads an optional leading minus followed by base 10 digits,
// stopping at the first character that doesn't fit. No digits yields 0.
func parseToken(b []byte) int {
	i := 0
	neg := false
	if i < len(b) && b[i] == '-' {
		neg = true
		i++
	}
	n := 0
	for ; i < len(b) && b[i] >= '0' && b[i] <= '9'; i++ {
		n = n*10 + int(b[i]-'0')
	}
	if neg {
		return -n
	}
	return n
}

// FieldInts locates the array stored under key and decodes it. Values that
// are not arrays, such as base64 encoded layer data, are reported as missing.
func FieldInts(doc, key string) ([]int, bool) {
	s, ok := LocateValue(doc, key)
	if !ok || s.Len() == 0 || doc[s.Start] != '[' {
		return nil, false
	}
	return DecodeInts(s.Text(doc)), true
}
