// Package tensor provides the dense numeric buffer type and the Backend
// interface that the symmetry bookkeeping layer is built on.
package tensor

// DataType represents runtime type information for tensor elements.
type DataType int

// Supported element types. Float64 is the default throughout the library.
const (
	Float64 DataType = iota
	Float32
)

// Size returns the byte size of the data type.
func (dt DataType) Size() int {
	switch dt {
	case Float64:
		return 8
	case Float32:
		return 4
	default:
		panic("unknown data type")
	}
}

// String returns a human-readable name for the data type.
func (dt DataType) String() string {
	switch dt {
	case Float64:
		return "float64"
	case Float32:
		return "float32"
	default:
		return "unknown"
	}
}

// ParseDataType converts the serialized name back to a DataType.
func ParseDataType(s string) (DataType, bool) {
	switch s {
	case "float64":
		return Float64, true
	case "float32":
		return Float32, true
	default:
		return 0, false
	}
}
