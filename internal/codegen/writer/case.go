package writer

import (
	"strings"
	"unicode"
)

// CamelCase converts an underscore-delimited identifier to camel case.
// Each underscore is dropped and the character after it is upper-cased.
// When firstUpper is set the very first character is upper-cased as well.
// All other characters are kept as they are, so the conversion is
// idempotent on its own output.
//
//	CamelCase("get_lines", false) == "getLines"
//	CamelCase("get_lines", true)  == "GetLines"
func CamelCase(src string, firstUpper bool) string {
	var sb strings.Builder
	sb.Grow(len(src))
	nextUpper := firstUpper
	for _, r := range src {
		switch {
		case r == '_':
			nextUpper = true
		case nextUpper:
			sb.WriteRune(unicode.ToUpper(r))
			nextUpper = false
		default:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
