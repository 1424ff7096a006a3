package flex

import (
	"bytes"
	"strconv"
	"unicode/utf16"
	"unicode/utf8"
)

// Lexer is a pull-based tokenizer over a single in-memory JSON buffer.
// No token buffer is materialized: the consumer asks for one token at a
// time via Next.
type Lexer struct {
	source []byte
	pos    int
}

func NewLexer(source []byte) *Lexer {
	return &Lexer{
		source: source,
	}
}

// Source returns the underlying buffer, so that a consumer can capture
// the verbatim text between two token offsets.
func (r *Lexer) Source() []byte {
	return r.source
}

func (r *Lexer) Next() (Token, error) {
	for r.pos < len(r.source) {
		b := r.source[r.pos]
		if b == ' ' || b == '\t' || b == '\n' || b == '\r' {
			r.pos++
			continue
		}
		break
	}
	if r.pos >= len(r.source) {
		return Token{Kind: TokenEOF, Start: r.pos}, nil
	}

	start := r.pos
	b := r.source[r.pos]
	switch b {
	case '{':
		r.pos++
		return Token{Kind: TokenCurlyOpen, Start: start}, nil
	case '}':
		r.pos++
		return Token{Kind: TokenCurlyClose, Start: start}, nil
	case '[':
		r.pos++
		return Token{Kind: TokenSquareOpen, Start: start}, nil
	case ']':
		r.pos++
		return Token{Kind: TokenSquareClose, Start: start}, nil
	case ':':
		r.pos++
		return Token{Kind: TokenColon, Start: start}, nil
	case ',':
		r.pos++
		return Token{Kind: TokenComma, Start: start}, nil
	case '"':
		return r.lexString()
	case 't':
		return r.lexKeyword("true", TokenBoolean, true)
	case 'f':
		return r.lexKeyword("false", TokenBoolean, false)
	case 'n':
		return r.lexKeyword("null", TokenNull, false)
	}
	if b == '-' || ('0' <= b && b <= '9') {
		return r.lexNumber()
	}
	return Token{}, ErrUnexpectedByte{Offset: start, Byte: b}
}

func (r *Lexer) lexKeyword(word string, kind TokenKind, value bool) (Token, error) {
	start := r.pos
	if !bytes.HasPrefix(r.source[r.pos:], []byte(word)) {
		return Token{}, ErrUnexpectedByte{Offset: start, Byte: r.source[start]}
	}
	r.pos += len(word)
	return Token{
		Kind:    kind,
		Literal: r.source[start:r.pos],
		Bool:    value,
		Start:   start,
	}, nil
}

func (r *Lexer) lexString() (Token, error) {
	start := r.pos
	i := r.pos + 1
	for i < len(r.source) {
		b := r.source[i]
		switch {
		case b == '"':
			literal := r.source[r.pos+1 : i]
			r.pos = i + 1
			return Token{Kind: TokenString, Literal: literal, Start: start}, nil
		case b == '\\':
			return r.lexEscapedString(start, i)
		case b < 0x20:
			return Token{}, ErrUnexpectedByte{Offset: i, Byte: b}
		}
		i++
	}
	return Token{}, ErrUnterminatedString{Offset: start}
}

// lexEscapedString resumes string scanning at the first backslash; only
// this path copies the lexeme out of the source buffer.
func (r *Lexer) lexEscapedString(start int, escapeAt int) (Token, error) {
	buf := make([]byte, 0, 2*(escapeAt-start))
	buf = append(buf, r.source[start+1:escapeAt]...)
	i := escapeAt
	for i < len(r.source) {
		b := r.source[i]
		switch {
		case b == '"':
			r.pos = i + 1
			return Token{Kind: TokenString, Literal: buf, Start: start}, nil
		case b == '\\':
			if i+1 >= len(r.source) {
				return Token{}, ErrUnterminatedString{Offset: start}
			}
			escape := r.source[i+1]
			switch escape {
			case '"', '\\', '/':
				buf = append(buf, escape)
			case 'b':
				buf = append(buf, '\b')
			case 'f':
				buf = append(buf, '\f')
			case 'n':
				buf = append(buf, '\n')
			case 'r':
				buf = append(buf, '\r')
			case 't':
				buf = append(buf, '\t')
			case 'u':
				decoded, width, err := r.decodeUnicodeEscape(i)
				if err != nil {
					return Token{}, err
				}
				buf = utf8.AppendRune(buf, decoded)
				i += width
				continue
			default:
				return Token{}, ErrInvalidEscape{Offset: i + 1, Byte: escape}
			}
			i += 2
		case b < 0x20:
			return Token{}, ErrUnexpectedByte{Offset: i, Byte: b}
		default:
			buf = append(buf, b)
			i++
		}
	}
	return Token{}, ErrUnterminatedString{Offset: start}
}

// decodeUnicodeEscape decodes a \uXXXX sequence starting at the backslash,
// pairing UTF-16 surrogates when a second \uXXXX follows. It returns the
// rune and the number of source bytes consumed.
func (r *Lexer) decodeUnicodeEscape(at int) (rune, int, error) {
	if at+6 > len(r.source) {
		return 0, 0, ErrUnterminatedString{Offset: at}
	}
	value, err := strconv.ParseUint(string(r.source[at+2:at+6]), 16, 32)
	if err != nil {
		return 0, 0, ErrInvalidEscape{Offset: at + 1, Byte: 'u'}
	}
	first := rune(value)
	if !utf16.IsSurrogate(first) {
		return first, 6, nil
	}
	if at+12 <= len(r.source) && r.source[at+6] == '\\' && r.source[at+7] == 'u' {
		value2, err := strconv.ParseUint(string(r.source[at+8:at+12]), 16, 32)
		if err != nil {
			return 0, 0, ErrInvalidEscape{Offset: at + 7, Byte: 'u'}
		}
		if decoded := utf16.DecodeRune(first, rune(value2)); decoded != utf8.RuneError {
			return decoded, 12, nil
		}
	}
	return utf8.RuneError, 6, nil
}

func (r *Lexer) lexNumber() (Token, error) {
	start := r.pos
	i := r.pos
	if r.source[i] == '-' {
		i++
	}
	digits := 0
	for i < len(r.source) && '0' <= r.source[i] && r.source[i] <= '9' {
		i++
		digits++
	}
	if digits == 0 {
		return Token{}, ErrMalformedNumber{Offset: start, Literal: string(r.source[start:i])}
	}
	if i < len(r.source) && r.source[i] == '.' {
		i++
		digits = 0
		for i < len(r.source) && '0' <= r.source[i] && r.source[i] <= '9' {
			i++
			digits++
		}
		if digits == 0 {
			return Token{}, ErrMalformedNumber{Offset: start, Literal: string(r.source[start:i])}
		}
	}
	if i < len(r.source) && (r.source[i] == 'e' || r.source[i] == 'E') {
		i++
		if i < len(r.source) && (r.source[i] == '+' || r.source[i] == '-') {
			i++
		}
		digits = 0
		for i < len(r.source) && '0' <= r.source[i] && r.source[i] <= '9' {
			i++
			digits++
		}
		if digits == 0 {
			return Token{}, ErrMalformedNumber{Offset: start, Literal: string(r.source[start:i])}
		}
	}
	literal := r.source[start:i]
	r.pos = i
	return Token{Kind: TokenNumber, Literal: literal, Start: start}, nil
}
