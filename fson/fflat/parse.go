package fflat

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/samber/lo"
	"jsonflat/ds"
	"jsonflat/fson/fhash"
	"jsonflat/fson/flex"
)

// Parser is the recursive-descent consumer of the token stream. It keeps
// the path, depth and position bookkeeping of one parse; a Parser runs one
// parse at a time and holds no state between parses.
type Parser struct {
	lexer        *flex.Lexer
	options      ParseOptions
	current      flex.Token
	entries      []FlatJsonValue
	position     int
	maxJsonDepth int
	columnIDs    map[string]int32
}

func NewParser(lexer *flex.Lexer) *Parser {
	return &Parser{
		lexer: lexer,
	}
}

// Parse flattens the document held by the lexer. depthOffset is the depth
// assigned to the direct children of the parsed root (1 for a top-level
// parse), and startedAt is the path prefix under which entries are emitted.
// Both differ from their defaults only when a previously opaque value is
// being re-expanded as a sub-document.
//
// Parsing is all-or-nothing: on failure no partial result is returned.
func (p *Parser) Parse(options ParseOptions, depthOffset int, startedAt string) (*ParseResult, error) {
	p.options = options
	p.entries = make([]FlatJsonValue, 0, 64)
	p.position = 0
	p.maxJsonDepth = 0
	p.columnIDs = map[string]int32{}

	if err := p.advance(); err != nil {
		return nil, err
	}
	prefix := startedAt
	seeked := false
	if options.StartParseAt != "" && startedAt == "" {
		if err := p.seek(options.StartParseAt); err != nil {
			return nil, err
		}
		prefix = options.StartParseAt
		seeked = true
	}

	result := ParseResult{
		ParsingMaxDepth:  options.MaxDepth,
		StartedParsingAt: prefix,
	}
	switch p.current.Kind {
	case flex.TokenCurlyOpen:
		result.RootValueType = ValueTypeObject
		if err := p.parseObject(prefix, depthOffset-1, -1); err != nil {
			return nil, err
		}
	case flex.TokenSquareOpen:
		result.RootValueType = ValueTypeArray
		if options.ParseArray {
			length, err := p.parseArray(prefix, depthOffset-1, -1, false)
			if err != nil {
				return nil, err
			}
			result.RootArrayLen = length
		} else {
			raw, nesting, length, err := p.skipValue()
			if err != nil {
				return nil, err
			}
			p.emit(prefix, ValueTypeArray, depthOffset, -1, length, &raw)
			p.noteDepth(depthOffset + nesting - 1)
			result.RootArrayLen = length
		}
	case flex.TokenString, flex.TokenNumber, flex.TokenBoolean, flex.TokenNull:
		if err := p.parseValue(prefix, depthOffset, -1); err != nil {
			return nil, err
		}
		result.RootValueType = p.entries[len(p.entries)-1].Pointer.ValueType
	default:
		return nil, ErrUnexpectedToken{
			Offset:   p.current.Start,
			Token:    p.current.Kind.String(),
			Expected: "a JSON value",
		}
	}
	// a parse that sought into a sub-path stops at the end of that value;
	// the sibling content that follows is not part of the result
	if !seeked && p.current.Kind != flex.TokenEOF {
		return nil, ErrTrailingContent{Offset: p.current.Start}
	}

	result.Json = p.entries
	result.MaxJsonDepth = p.maxJsonDepth
	return &result, nil
}

// parseValue flattens the value the parser currently looks at. depth is the
// nesting level of the value's own entry; children land at depth+1.
func (p *Parser) parseValue(pointer string, depth int, index int) error {
	switch p.current.Kind {
	case flex.TokenString:
		value := string(p.current.Literal)
		p.emit(pointer, ValueTypeString, depth, index, -1, &value)
		return p.advance()
	case flex.TokenNumber:
		value := string(p.current.Literal)
		p.emit(pointer, ValueTypeNumber, depth, index, -1, &value)
		return p.advance()
	case flex.TokenBoolean:
		value := string(p.current.Literal)
		p.emit(pointer, ValueTypeBool, depth, index, -1, &value)
		return p.advance()
	case flex.TokenNull:
		p.emit(pointer, ValueTypeNull, depth, index, -1, nil)
		return p.advance()
	case flex.TokenCurlyOpen:
		if depth < p.options.MaxDepth {
			return p.parseObject(pointer, depth, index)
		}
		raw, nesting, _, err := p.skipValue()
		if err != nil {
			return err
		}
		p.emit(pointer, ValueTypeObject, depth, index, -1, &raw)
		p.noteDepth(depth + nesting)
		return nil
	case flex.TokenSquareOpen:
		if p.options.ParseArray {
			_, err := p.parseArray(pointer, depth, index, true)
			return err
		}
		raw, nesting, length, err := p.skipValue()
		if err != nil {
			return err
		}
		p.emit(pointer, ValueTypeArray, depth, index, length, &raw)
		p.noteDepth(depth + nesting)
		return nil
	}
	return ErrUnexpectedToken{
		Offset:   p.current.Start,
		Token:    p.current.Kind.String(),
		Expected: "a JSON value",
	}
}

// parseObject expands an object. An expanded object emits no entry of its
// own; an object with zero keys is stored opaque so that it survives
// serialization round-trips.
func (p *Parser) parseObject(pointer string, depth int, index int) error {
	start := p.current.Start
	if err := p.advance(); err != nil {
		return err
	}
	if p.current.Kind == flex.TokenCurlyClose {
		raw := string(p.lexer.Source()[start : p.current.Start+1])
		p.emit(pointer, ValueTypeObject, depth, index, -1, &raw)
		return p.advance()
	}
	for {
		if p.current.Kind != flex.TokenString {
			return ErrUnexpectedToken{
				Offset:   p.current.Start,
				Token:    p.current.Kind.String(),
				Expected: "an object key",
			}
		}
		key := string(p.current.Literal)
		if err := p.advance(); err != nil {
			return err
		}
		if p.current.Kind != flex.TokenColon {
			return ErrUnexpectedToken{
				Offset:   p.current.Start,
				Token:    p.current.Kind.String(),
				Expected: "':'",
			}
		}
		if err := p.advance(); err != nil {
			return err
		}
		if err := p.parseValue(ds.ConcatStrings(pointer, "/", key), depth+1, index); err != nil {
			return err
		}
		switch p.current.Kind {
		case flex.TokenComma:
			if err := p.advance(); err != nil {
				return err
			}
		case flex.TokenCurlyClose:
			return p.advance()
		default:
			return ErrUnexpectedToken{
				Offset:   p.current.Start,
				Token:    p.current.Kind.String(),
				Expected: "',' or '}'",
			}
		}
	}
}

// parseArray expands an array. Non-root arrays emit a structural marker
// entry (nil value, ArrayLen backpatched once the element count is known)
// ahead of their element entries; the document root array does not, its
// length is recorded on the ParseResult instead.
func (p *Parser) parseArray(pointer string, depth int, index int, emitMarker bool) (int, error) {
	markerAt := -1
	if emitMarker {
		markerAt = len(p.entries)
		p.emit(pointer, ValueTypeArray, depth, index, 0, nil)
	}
	if err := p.advance(); err != nil {
		return 0, err
	}
	count := 0
	if p.current.Kind == flex.TokenSquareClose {
		return count, p.advance()
	}
	for {
		if err := p.parseValue(ds.ConcatStrings(pointer, "/", strconv.Itoa(count)), depth+1, count); err != nil {
			return 0, err
		}
		count++
		switch p.current.Kind {
		case flex.TokenComma:
			if err := p.advance(); err != nil {
				return 0, err
			}
		case flex.TokenSquareClose:
			if markerAt >= 0 {
				p.entries[markerAt].Pointer.ArrayLen = count
			}
			return count, p.advance()
		default:
			return 0, ErrUnexpectedToken{
				Offset:   p.current.Start,
				Token:    p.current.Kind.String(),
				Expected: "',' or ']'",
			}
		}
	}
}

// skipValue consumes a container without expanding it and captures its
// verbatim source text. It returns the raw text, the maximum container
// nesting seen inside (the skipped container counts as 1), and the element
// count of the skipped container. Bracket kinds are matched while skipping,
// so a structural violation inside an opaque span still fails the parse.
func (p *Parser) skipValue() (string, int, int, error) {
	start := p.current.Start
	brackets := ds.NewStack[flex.TokenKind]()
	nesting := 0
	maxNesting := 0
	commas := 0
	sawElement := false
	for {
		token := p.current
		switch token.Kind {
		case flex.TokenCurlyOpen, flex.TokenSquareOpen:
			if nesting == 1 {
				sawElement = true
			}
			brackets.Push(token.Kind)
			nesting++
			if nesting > maxNesting {
				maxNesting = nesting
			}
		case flex.TokenCurlyClose, flex.TokenSquareClose:
			open := brackets.Pop()
			if (token.Kind == flex.TokenCurlyClose && open != flex.TokenCurlyOpen) ||
				(token.Kind == flex.TokenSquareClose && open != flex.TokenSquareOpen) {
				return "", 0, 0, ErrUnexpectedToken{
					Offset:   token.Start,
					Token:    token.Kind.String(),
					Expected: closingOf(open),
				}
			}
			nesting--
			if nesting == 0 {
				end := token.Start + 1
				if err := p.advance(); err != nil {
					return "", 0, 0, err
				}
				raw := string(p.lexer.Source()[start:end])
				count := 0
				if sawElement {
					count = commas + 1
				}
				return raw, maxNesting, count, nil
			}
		case flex.TokenComma:
			if nesting == 1 {
				commas++
			}
		case flex.TokenColon:
			// key separator, nothing to track
		case flex.TokenEOF:
			return "", 0, 0, ErrUnexpectedToken{
				Offset:   token.Start,
				Token:    token.Kind.String(),
				Expected: "'}' or ']'",
			}
		default:
			if nesting == 1 {
				sawElement = true
			}
		}
		if err := p.advance(); err != nil {
			return "", 0, 0, err
		}
	}
}

func closingOf(open flex.TokenKind) string {
	if open == flex.TokenCurlyOpen {
		return "'}'"
	}
	return "']'"
}

// seek walks the token stream to the value addressed by pointer, skipping
// sibling values structurally along the way.
func (p *Parser) seek(pointer string) error {
	segments := strings.Split(strings.TrimPrefix(pointer, "/"), "/")
	for _, segment := range segments {
		switch p.current.Kind {
		case flex.TokenCurlyOpen:
			if err := p.advance(); err != nil {
				return err
			}
			found := false
			for !found {
				if p.current.Kind == flex.TokenCurlyClose {
					return ErrPointerNotFound{Pointer: pointer}
				}
				if p.current.Kind != flex.TokenString {
					return ErrUnexpectedToken{
						Offset:   p.current.Start,
						Token:    p.current.Kind.String(),
						Expected: "an object key",
					}
				}
				key := string(p.current.Literal)
				if err := p.advance(); err != nil {
					return err
				}
				if p.current.Kind != flex.TokenColon {
					return ErrUnexpectedToken{
						Offset:   p.current.Start,
						Token:    p.current.Kind.String(),
						Expected: "':'",
					}
				}
				if err := p.advance(); err != nil {
					return err
				}
				if key == segment {
					found = true
					break
				}
				if err := p.skipAny(); err != nil {
					return err
				}
				switch p.current.Kind {
				case flex.TokenComma:
					if err := p.advance(); err != nil {
						return err
					}
				case flex.TokenCurlyClose:
					return ErrPointerNotFound{Pointer: pointer}
				default:
					return ErrUnexpectedToken{
						Offset:   p.current.Start,
						Token:    p.current.Kind.String(),
						Expected: "',' or '}'",
					}
				}
			}
		case flex.TokenSquareOpen:
			target, err := strconv.Atoi(segment)
			if err != nil || target < 0 {
				return ErrPointerNotFound{Pointer: pointer}
			}
			if err := p.advance(); err != nil {
				return err
			}
			for k := 0; k < target; k++ {
				if p.current.Kind == flex.TokenSquareClose {
					return ErrPointerNotFound{Pointer: pointer}
				}
				if err := p.skipAny(); err != nil {
					return err
				}
				switch p.current.Kind {
				case flex.TokenComma:
					if err := p.advance(); err != nil {
						return err
					}
				case flex.TokenSquareClose:
					return ErrPointerNotFound{Pointer: pointer}
				default:
					return ErrUnexpectedToken{
						Offset:   p.current.Start,
						Token:    p.current.Kind.String(),
						Expected: "',' or ']'",
					}
				}
			}
			if p.current.Kind == flex.TokenSquareClose {
				return ErrPointerNotFound{Pointer: pointer}
			}
		default:
			return ErrPointerNotFound{Pointer: pointer}
		}
	}
	return nil
}

// skipAny consumes one value of any kind without emitting entries.
func (p *Parser) skipAny() error {
	if p.current.Kind == flex.TokenCurlyOpen || p.current.Kind == flex.TokenSquareOpen {
		_, _, _, err := p.skipValue()
		return err
	}
	return p.advance()
}

func (p *Parser) advance() error {
	token, err := p.lexer.Next()
	if err != nil {
		return errors.Wrap(err, "Parser error: next token")
	}
	p.current = token
	return nil
}

func (p *Parser) emit(pointer string, valueType ValueType, depth int, index int, arrayLen int, value *string) {
	p.noteDepth(depth)
	p.entries = append(p.entries, FlatJsonValue{
		Pointer: PointerKey{
			Pointer:   pointer,
			ValueType: valueType,
			Depth:     depth,
			Position:  p.position,
			ColumnID:  p.columnID(pointer),
			Index:     index,
			ArrayLen:  arrayLen,
		},
		Value: value,
	})
	p.position++
}

func (p *Parser) noteDepth(depth int) {
	if depth > p.maxJsonDepth {
		p.maxJsonDepth = depth
	}
}

func (p *Parser) columnID(pointer string) int32 {
	if id, ok := p.columnIDs[pointer]; ok {
		return id
	}
	id := ColumnIDFor(pointer)
	p.columnIDs[pointer] = id
	return id
}

// ColumnIDFor hashes the pointer with its array-index segments dropped, so
// the same field of different sibling array elements shares one identifier.
func ColumnIDFor(pointer string) int32 {
	segments := strings.Split(pointer, "/")
	kept := lo.Filter(segments, func(segment string, _ int) bool {
		return !IsArrayIndex(segment)
	})
	return fhash.HashKey(strings.Join(kept, "/"))
}

// IsArrayIndex reports whether a path segment is a decimal array index.
func IsArrayIndex(segment string) bool {
	if segment == "" {
		return false
	}
	for i := 0; i < len(segment); i++ {
		if segment[i] < '0' || segment[i] > '9' {
			return false
		}
	}
	return true
}
