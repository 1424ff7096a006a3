package fflat

type (
	ValueType string

	// PointerKey identifies one flattened value by its JSON-Pointer-style
	// path plus the structural metadata recorded while parsing.
	PointerKey struct {
		Pointer   string
		ValueType ValueType
		// Depth is the nesting level at which the value was produced;
		// the direct children of the document root sit at depth 1.
		Depth    int
		Position int
		// ColumnID is equal for the same field across sibling array
		// elements, see ColumnIDFor.
		ColumnID int32
		// Index is the enclosing array element's index, -1 outside arrays.
		Index int
		// ArrayLen is the element count of an array value, -1 otherwise.
		ArrayLen int
	}

	// FlatJsonValue pairs a PointerKey with the value's literal text.
	// A nil value means null, or a container whose children follow as
	// separate entries; a container kept opaque stores its verbatim
	// source text instead.
	FlatJsonValue struct {
		Pointer PointerKey
		Value   *string
	}

	// ParseResult is the outcome of one parse. Transformations consume
	// their input result; a consumed result must not be reused.
	ParseResult struct {
		Json             []FlatJsonValue
		MaxJsonDepth     int
		ParsingMaxDepth  int
		RootValueType    ValueType
		RootArrayLen     int
		StartedParsingAt string
	}

	ParseOptions struct {
		// ParseArray controls whether array elements are individually
		// flattened or every array is kept opaque.
		ParseArray bool
		// MaxDepth is the deepest nesting level that still gets expanded.
		MaxDepth int
		// StartParseAt makes the parse begin at the given sub-path, as
		// though its value were the document root.
		StartParseAt string
	}
)

const (
	ValueTypeNull   = ValueType("null")
	ValueTypeBool   = ValueType("bool")
	ValueTypeNumber = ValueType("number")
	ValueTypeString = ValueType("string")
	ValueTypeArray  = ValueType("array")
	ValueTypeObject = ValueType("object")
)

func DefaultParseOptions() ParseOptions {
	return ParseOptions{
		ParseArray: true,
		MaxDepth:   10,
	}
}
