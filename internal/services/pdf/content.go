package pdf

import (
	"strings"
	"unicode"
	"unicode/utf16"
)

// textItems scans a decoded page content stream and returns the strings
// painted by the text-showing operators (Tj, TJ, ' and "), one item per
// operator. It is deliberately tolerant: unknown operators and malformed
// tokens are skipped, never reported.
func textItems(content []byte) []string {
	var items []string
	var operands []string

	for i := 0; i < len(content); {
		c := content[i]
		switch {
		case isPDFSpace(c):
			i++

		case c == '%':
			for i < len(content) && content[i] != '\n' && content[i] != '\r' {
				i++
			}

		case c == '(':
			s, n := readLiteral(content[i:])
			operands = append(operands, s)
			i += n

		case c == '<' && i+1 < len(content) && content[i+1] == '<':
			i += 2
		case c == '>' && i+1 < len(content) && content[i+1] == '>':
			i += 2
		case c == '<':
			s, n := readHex(content[i:])
			operands = append(operands, s)
			i += n

		case c == '[' || c == ']' || c == '{' || c == '}' || c == ')' || c == '>':
			i++

		default:
			start := i
			if c == '/' {
				i++
			}
			for i < len(content) && !isPDFSpace(content[i]) && !isPDFDelimiter(content[i]) {
				i++
			}
			if i == start {
				i++
				continue
			}
			tok := string(content[start:i])
			if !isOperator(tok) {
				continue
			}

			switch tok {
			case "Tj", "TJ", "'", "\"":
				if text := cleanItem(strings.Join(operands, "")); text != "" {
					items = append(items, text)
				}
			case "ID":
				i = skipInlineImage(content, i)
			}
			operands = operands[:0]
		}
	}
	return items
}

// isOperator reports whether tok is a content stream operator rather than a
// number or a name operand.
func isOperator(tok string) bool {
	c := tok[0]
	return c != '/' && c != '+' && c != '-' && c != '.' && (c < '0' || c > '9')
}

// skipInlineImage moves past the binary payload of an inline image
// (BI ... ID <data> EI) so its bytes are not mistaken for operators.
func skipInlineImage(content []byte, i int) int {
	for j := i; j+2 < len(content); j++ {
		if isPDFSpace(content[j]) && content[j+1] == 'E' && content[j+2] == 'I' &&
			(j+3 == len(content) || isPDFSpace(content[j+3])) {
			return j + 3
		}
	}
	return len(content)
}

// readLiteral decodes a (literal string) starting at b[0] == '('.
// It returns the decoded text and the number of bytes consumed.
func readLiteral(b []byte) (string, int) {
	var out []byte
	depth := 0
	i := 0
	for i < len(b) {
		c := b[i]
		switch {
		case c == '(':
			if depth > 0 {
				out = append(out, c)
			}
			depth++
			i++
		case c == ')':
			depth--
			i++
			if depth == 0 {
				return decodeText(out), i
			}
			out = append(out, c)
		case c == '\\' && i+1 < len(b):
			i++
			switch e := b[i]; e {
			case 'n':
				out = append(out, '\n')
				i++
			case 'r':
				out = append(out, '\r')
				i++
			case 't':
				out = append(out, '\t')
				i++
			case 'b', 'f':
				i++
			case '\r':
				// Line continuation.
				i++
				if i < len(b) && b[i] == '\n' {
					i++
				}
			case '\n':
				i++
			default:
				if e >= '0' && e <= '7' {
					val := 0
					for k := 0; k < 3 && i < len(b) && b[i] >= '0' && b[i] <= '7'; k++ {
						val = val*8 + int(b[i]-'0')
						i++
					}
					out = append(out, byte(val))
				} else {
					out = append(out, e)
					i++
				}
			}
		default:
			out = append(out, c)
			i++
		}
	}
	return decodeText(out), i
}

// readHex decodes a <hex string> starting at b[0] == '<'.
func readHex(b []byte) (string, int) {
	var out []byte
	var hi byte
	half := false
	i := 1
	for ; i < len(b) && b[i] != '>'; i++ {
		v, ok := hexValue(b[i])
		if !ok {
			continue
		}
		if !half {
			hi = v
			half = true
		} else {
			out = append(out, hi<<4|v)
			half = false
		}
	}
	if half {
		out = append(out, hi<<4)
	}
	if i < len(b) {
		i++ // closing '>'
	}
	return decodeText(out), i
}

func hexValue(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}

// decodeText interprets raw string bytes: UTF-16BE when the byte order
// mark is present, otherwise one byte per character (PDFDocEncoding is a
// superset of Latin-1 for printable text).
func decodeText(raw []byte) string {
	if len(raw) >= 2 && raw[0] == 0xFE && raw[1] == 0xFF {
		units := make([]uint16, 0, (len(raw)-2)/2)
		for i := 2; i+1 < len(raw); i += 2 {
			units = append(units, uint16(raw[i])<<8|uint16(raw[i+1]))
		}
		return string(utf16.Decode(units))
	}
	runes := make([]rune, len(raw))
	for i, c := range raw {
		runes[i] = rune(c)
	}
	return string(runes)
}

// cleanItem drops control characters (glyph ids from CID fonts decode to
// these) and collapses runs of whitespace.
func cleanItem(s string) string {
	var sb strings.Builder
	space := false
	for _, r := range s {
		switch {
		case unicode.IsSpace(r):
			space = true
		case unicode.IsPrint(r):
			if space && sb.Len() > 0 {
				sb.WriteByte(' ')
			}
			space = false
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

func isPDFSpace(c byte) bool {
	return c == ' ' || c == '\n' || c == '\r' || c == '\t' || c == '\f' || c == 0
}

func isPDFDelimiter(c byte) bool {
	switch c {
	case '(', ')', '<', '>', '[', ']', '{', '}', '/', '%':
		return true
	}
	return false
}
