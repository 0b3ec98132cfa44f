package tensor

import "encoding/json"

// Tensor is a parsed tensor literal: its inferred shape and its raw data.
type Tensor struct {
	Shape Shape
	Data  Value
}

// ParseTensor parses text as a JSON array literal.
//
// It returns ok == false when text is not valid JSON or its top level is not
// an array. The shape is read along the first element of every level and
// stops at the first non-array node or empty array; sibling lengths are not
// checked, so ragged input describes only its first path. Shapes deeper than
// MaxRank are truncated.
func ParseTensor(text string) (*Tensor, bool) {
	var raw any
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		return nil, false
	}
	if _, ok := raw.([]any); !ok {
		return nil, false
	}
	data := fromJSON(raw)
	return &Tensor{Shape: InferShape(data), Data: data}, true
}

// InferShape returns the shape described by the first path through data.
func InferShape(data Value) Shape {
	shape := Shape{}
	cur := data
	for len(shape) < MaxRank {
		arr, ok := cur.(Nested)
		if !ok || len(arr) == 0 {
			break
		}
		shape = append(shape, len(arr))
		cur = arr[0]
	}
	return shape
}
