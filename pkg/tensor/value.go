package tensor

// Value is a node of nested tensor data: either a [Scalar] or a [Nested]
// array of further values. A nil Value stands for a leaf that carries no
// number (JSON null, strings, booleans, objects).
type Value interface {
	isValue()
}

// Scalar is a numeric leaf.
type Scalar float64

// Nested is an ordered array of child values.
type Nested []Value

func (Scalar) isValue() {}
func (Nested) isValue() {}

// Lookup walks data along path, using each index to step into a [Nested]
// node. It reports ok only when every step is in bounds and the final node
// is a [Scalar]. An empty path looks up data itself.
func Lookup(data Value, path []int) (float64, bool) {
	cur := data
	for _, idx := range path {
		arr, isArr := cur.(Nested)
		if !isArr || idx < 0 || idx >= len(arr) {
			return 0, false
		}
		cur = arr[idx]
	}
	s, ok := cur.(Scalar)
	return float64(s), ok
}

// fromJSON converts a value decoded by encoding/json into a Value.
func fromJSON(v any) Value {
	switch t := v.(type) {
	case float64:
		return Scalar(t)
	case []any:
		out := make(Nested, len(t))
		for i, child := range t {
			out[i] = fromJSON(child)
		}
		return out
	default:
		return nil
	}
}
