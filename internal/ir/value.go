package ir

import "strconv"

// Value represents a compile-time constant value (int, bool, string, null).
type Value interface {
	isValue()
	String() string
	Equal(other Value) bool
}

// IntValue represents an integer constant.
type IntValue struct {
	Val int64
}

func (IntValue) isValue() {}
func (v IntValue) String() string {
	return strconv.FormatInt(v.Val, 10)
}

func (v IntValue) Equal(other Value) bool {
	o, ok := other.(IntValue)
	return ok && v.Val == o.Val
}

// BoolValue represents a boolean constant.
type BoolValue struct {
	Val bool
}

func (BoolValue) isValue() {}
func (v BoolValue) String() string {
	if v.Val {
		return "true"
	}
	return "false"
}

func (v BoolValue) Equal(other Value) bool {
	o, ok := other.(BoolValue)
	return ok && v.Val == o.Val
}

// StringValue represents a string constant.
type StringValue struct {
	Val string
}

func (StringValue) isValue() {}
func (v StringValue) String() string {
	return strconv.Quote(v.Val)
}

func (v StringValue) Equal(other Value) bool {
	o, ok := other.(StringValue)
	return ok && v.Val == o.Val
}

// NullValue represents the null constant.
type NullValue struct{}

func (NullValue) isValue() {}
func (NullValue) String() string {
	return "null"
}

func (NullValue) Equal(other Value) bool {
	_, ok := other.(NullValue)
	return ok
}

// True and False are the shared boolean constants used as classification
// targets for bare boolean expressions and negations.
var (
	True  Value = BoolValue{Val: true}
	False Value = BoolValue{Val: false}
)
