package entity

import (
	"strconv"
	"strings"
)

// StripMarkup removes HTML/XML tags from s and resolves character
// references (named, decimal, and hex) in the remaining text. Tags that
// carry line structure (<br>, </p>, </tr>) become a newline; every other
// tag is dropped. It is a best-effort plain-text extraction, not a
// validating parser: malformed markup is never rejected, but a '<' with no
// closing '>' drops everything from the '<' to the end of s.
func StripMarkup(s string) string {
	var out strings.Builder
	out.Grow(len(s))

	tagStart := -1
	for i := 0; i < len(s); i++ {
		switch {
		case tagStart >= 0:
			if s[i] == '>' {
				switch strings.ToLower(s[tagStart : i+1]) {
				case "<br>", "</p>", "</tr>":
					out.WriteByte('\n')
				}
				tagStart = -1
			}
		case s[i] == '<':
			tagStart = i
		case s[i] == '&':
			if end := strings.IndexByte(s[i:], ';'); end > 0 && end < 32 {
				ref := s[i+1 : i+end]
				if r, ok := resolveRef(ref); ok {
					out.WriteRune(r)
				}
				// An unresolved reference still consumes the whole "&...;"
				// span and contributes nothing to the output, rather than
				// echoing the literal text back out.
				i += end
				continue
			}
			out.WriteByte(s[i])
		default:
			out.WriteByte(s[i])
		}
	}

	return out.String()
}

func resolveRef(ref string) (rune, bool) {
	if strings.HasPrefix(ref, "#x") || strings.HasPrefix(ref, "#X") {
		v, err := strconv.ParseInt(ref[2:], 16, 32)
		if err != nil {
			return 0, false
		}

		return rune(v), true
	}
	if strings.HasPrefix(ref, "#") {
		v, err := strconv.ParseInt(ref[1:], 10, 32)
		if err != nil {
			return 0, false
		}

		return rune(v), true
	}

	return Lookup(ref)
}
