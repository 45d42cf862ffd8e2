package schema

import (
	"github.com/syssam/crate"
)

// Kind is a logical column type.
type Kind int

const (
	// Bool is a boolean column.
	Bool Kind = iota
	// Byte is an 8-bit integer column.
	Byte
	// Short is a 16-bit integer column.
	Short
	// Int is a 32-bit integer column.
	Int
	// Long is a 64-bit integer column.
	Long
	// BigInt is an alias logical type rendered as LONG.
	BigInt
	// Numeric is an arbitrary-precision numeric logical type. CrateDB has
	// no native numeric storage; it renders as LONG, widening precision.
	Numeric
	// Float is a 32-bit floating point column.
	Float
	// Double is a 64-bit floating point column.
	Double
	// Decimal is a fixed-precision logical type. It renders as DOUBLE,
	// widening precision.
	Decimal
	// String is a textual column. Unicode and Text render identically.
	String
	// Unicode is a textual logical type rendered as STRING.
	Unicode
	// Text is a textual logical type rendered as STRING.
	Text
	// Timestamp is a date-time column.
	Timestamp
	// Date is a date logical type. CrateDB stores dates as TIMESTAMP.
	Date
	// IP is an IP address column.
	IP
	// Object is a nested document column.
	Object
	// GeoPoint is a geographic point column.
	GeoPoint
	// GeoShape is a geographic shape column.
	GeoShape
	// Array is an array column; ColumnType.Elem carries the item type.
	Array
)

// ColumnType is a logical column type, possibly an array of another type.
type ColumnType struct {
	Kind Kind
	// Elem is the item type of an Array.
	Elem *ColumnType
	// Dims is the array dimension. Zero means one for arrays; values
	// above one are rejected, CrateDB has no multidimensional arrays.
	Dims int
}

// ArrayOf returns the array type of elem.
func ArrayOf(elem ColumnType) ColumnType {
	e := elem
	return ColumnType{Kind: Array, Elem: &e, Dims: 1}
}

// keywords maps scalar kinds to their CrateDB type keyword. Textual kinds
// collapse to STRING, DECIMAL widens to DOUBLE and NUMERIC and BIGINT
// widen to LONG, dates store as TIMESTAMP.
var keywords = map[Kind]string{
	Bool:      "BOOLEAN",
	Byte:      "BYTE",
	Short:     "SHORT",
	Int:       "INT",
	Long:      "LONG",
	BigInt:    "LONG",
	Numeric:   "LONG",
	Float:     "FLOAT",
	Double:    "DOUBLE",
	Decimal:   "DOUBLE",
	String:    "STRING",
	Unicode:   "STRING",
	Text:      "STRING",
	Timestamp: "TIMESTAMP",
	Date:      "TIMESTAMP",
	IP:        "IP",
	Object:    "OBJECT",
	GeoPoint:  "GEO_POINT",
	GeoShape:  "GEO_SHAPE",
}

// FormatType renders a column type as its CrateDB keyword. Arrays render
// as ARRAY(<item>); arrays of dimension greater than one fail, they are
// never flattened.
func FormatType(t ColumnType) (string, error) {
	if t.Kind != Array {
		kw, ok := keywords[t.Kind]
		if !ok {
			return "", crate.NewConfigurationError("unknown column type")
		}
		return kw, nil
	}
	if t.Dims > 1 {
		return "", crate.NewUnsupportedFeatureError("multidimensional arrays")
	}
	if t.Elem == nil {
		return "", crate.NewConfigurationError("array type has no item type")
	}
	if t.Elem.Kind == Array {
		return "", crate.NewUnsupportedFeatureError("multidimensional arrays")
	}
	item, err := FormatType(*t.Elem)
	if err != nil {
		return "", err
	}
	return "ARRAY(" + item + ")", nil
}
