// Package frame provides the columnar table used by every pipeline stage.
// Columns are typed Series backed by Apache Arrow arrays; tables are
// immutable DataFrames that new stages derive rather than mutate.
package frame

import (
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
)

// ISeries provides a type-erased interface for Series of any type.
type ISeries interface {
	Name() string
	Len() int
	DataType() arrow.DataType
	IsNull(index int) bool
	String() string
	Array() arrow.Array
	Release()
}

// Series represents a typed data column with an Apache Arrow backend.
type Series[T any] struct {
	name  string
	array arrow.Array
}

// New creates a new Series from a slice of values.
func New[T any](name string, values []T, mem memory.Allocator) *Series[T] {
	return NewNullable(name, values, nil, mem)
}

// NewNullable creates a new Series where valid[i] == false marks a null.
// A nil valid slice means every value is present.
func NewNullable[T any](name string, values []T, valid []bool, mem memory.Allocator) *Series[T] {
	if mem == nil {
		mem = memory.NewGoAllocator()
	}

	present := func(i int) bool { return valid == nil || valid[i] }

	var arr arrow.Array
	switch v := any(values).(type) {
	case []string:
		builder := array.NewStringBuilder(mem)
		defer builder.Release()
		for i, val := range v {
			if present(i) {
				builder.Append(val)
			} else {
				builder.AppendNull()
			}
		}
		arr = builder.NewArray()
	case []int64:
		builder := array.NewInt64Builder(mem)
		defer builder.Release()
		for i, val := range v {
			if present(i) {
				builder.Append(val)
			} else {
				builder.AppendNull()
			}
		}
		arr = builder.NewArray()
	case []float64:
		builder := array.NewFloat64Builder(mem)
		defer builder.Release()
		for i, val := range v {
			if present(i) {
				builder.Append(val)
			} else {
				builder.AppendNull()
			}
		}
		arr = builder.NewArray()
	case []bool:
		builder := array.NewBooleanBuilder(mem)
		defer builder.Release()
		for i, val := range v {
			if present(i) {
				builder.Append(val)
			} else {
				builder.AppendNull()
			}
		}
		arr = builder.NewArray()
	default:
		panic(fmt.Sprintf("frame: unsupported series type %T", values))
	}

	return &Series[T]{name: name, array: arr}
}

// Name returns the column name.
func (s *Series[T]) Name() string {
	return s.name
}

// Len returns the length of the series.
func (s *Series[T]) Len() int {
	return s.array.Len()
}

// Values returns the data as a Go slice. Null slots carry the zero value.
func (s *Series[T]) Values() []T {
	result := make([]T, s.array.Len())

	switch arr := s.array.(type) {
	case *array.String:
		values := any(result).([]string)
		for i := range arr.Len() {
			if !arr.IsNull(i) {
				values[i] = arr.Value(i)
			}
		}
	case *array.Int64:
		values := any(result).([]int64)
		for i := range arr.Len() {
			if !arr.IsNull(i) {
				values[i] = arr.Value(i)
			}
		}
	case *array.Float64:
		values := any(result).([]float64)
		for i := range arr.Len() {
			if !arr.IsNull(i) {
				values[i] = arr.Value(i)
			}
		}
	case *array.Boolean:
		values := any(result).([]bool)
		for i := range arr.Len() {
			if !arr.IsNull(i) {
				values[i] = arr.Value(i)
			}
		}
	default:
		panic(fmt.Sprintf("frame: unsupported array type %T", arr))
	}

	return result
}

// Value returns the value at the given index.
func (s *Series[T]) Value(index int) T {
	var result T
	if index < 0 || index >= s.array.Len() {
		return result
	}

	switch arr := s.array.(type) {
	case *array.String:
		if v, ok := any(&result).(*string); ok && !arr.IsNull(index) {
			*v = arr.Value(index)
		}
	case *array.Int64:
		if v, ok := any(&result).(*int64); ok && !arr.IsNull(index) {
			*v = arr.Value(index)
		}
	case *array.Float64:
		if v, ok := any(&result).(*float64); ok && !arr.IsNull(index) {
			*v = arr.Value(index)
		}
	case *array.Boolean:
		if v, ok := any(&result).(*bool); ok && !arr.IsNull(index) {
			*v = arr.Value(index)
		}
	}

	return result
}

// DataType returns the Arrow data type.
func (s *Series[T]) DataType() arrow.DataType {
	return s.array.DataType()
}

// IsNull checks if the value at index is null.
func (s *Series[T]) IsNull(index int) bool {
	return s.array.IsNull(index)
}

// NullCount returns the number of null slots.
func (s *Series[T]) NullCount() int {
	return s.array.NullN()
}

// String returns a string representation of the series.
func (s *Series[T]) String() string {
	return fmt.Sprintf("Series[%s]: %s (len=%d)", s.array.DataType(), s.name, s.Len())
}

// Array returns the underlying Arrow array (retains a reference).
func (s *Series[T]) Array() arrow.Array {
	if s.array != nil {
		s.array.Retain()
		return s.array
	}
	return nil
}

// Release releases the underlying Arrow memory.
func (s *Series[T]) Release() {
	if s.array != nil {
		s.array.Release()
	}
}
