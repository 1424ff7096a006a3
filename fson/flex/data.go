package flex

type (
	TokenKind uint8
	// Token is one lexeme of the input buffer. Literal is a sub-slice of the
	// source for strings without escape sequences and for numbers; escaped
	// strings are decoded into a fresh buffer.
	Token struct {
		Kind    TokenKind
		Literal []byte
		Bool    bool
		Start   int
	}
)

const (
	TokenCurlyOpen TokenKind = iota
	TokenCurlyClose
	TokenSquareOpen
	TokenSquareClose
	TokenColon
	TokenComma
	TokenString
	TokenNumber
	TokenBoolean
	TokenNull
	TokenEOF
)

func (r TokenKind) String() string {
	switch r {
	case TokenCurlyOpen:
		return "'{'"
	case TokenCurlyClose:
		return "'}'"
	case TokenSquareOpen:
		return "'['"
	case TokenSquareClose:
		return "']'"
	case TokenColon:
		return "':'"
	case TokenComma:
		return "','"
	case TokenString:
		return "string"
	case TokenNumber:
		return "number"
	case TokenBoolean:
		return "boolean"
	case TokenNull:
		return "null"
	case TokenEOF:
		return "end of input"
	}
	return "unknown"
}
