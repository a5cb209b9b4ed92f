package frame

import (
	"fmt"
	"sort"
	"strings"

	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
)

// DataFrame represents a table of data with typed columns.
type DataFrame struct {
	columns map[string]ISeries
	order   []string // Maintains column order
}

// NewDataFrame creates a new DataFrame from a slice of ISeries.
func NewDataFrame(series ...ISeries) *DataFrame {
	columns := make(map[string]ISeries)
	order := make([]string, 0, len(series))

	for _, s := range series {
		columns[s.Name()] = s
		order = append(order, s.Name())
	}

	return &DataFrame{columns: columns, order: order}
}

// Columns returns the names of all columns in order.
func (df *DataFrame) Columns() []string {
	return append([]string(nil), df.order...)
}

// Len returns the number of rows.
func (df *DataFrame) Len() int {
	if len(df.order) == 0 {
		return 0
	}
	return df.columns[df.order[0]].Len()
}

// Width returns the number of columns.
func (df *DataFrame) Width() int {
	return len(df.columns)
}

// Column returns the series for the given column name.
func (df *DataFrame) Column(name string) (ISeries, bool) {
	s, ok := df.columns[name]
	return s, ok
}

// HasColumn checks if a column exists.
func (df *DataFrame) HasColumn(name string) bool {
	_, ok := df.columns[name]
	return ok
}

// Select returns a new DataFrame with only the specified columns.
func (df *DataFrame) Select(names ...string) *DataFrame {
	newColumns := make(map[string]ISeries)
	newOrder := make([]string, 0, len(names))

	for _, name := range names {
		if s, ok := df.columns[name]; ok {
			newColumns[name] = s
			newOrder = append(newOrder, name)
		}
	}

	return &DataFrame{columns: newColumns, order: newOrder}
}

// WithColumn returns a new DataFrame with the series appended (or replacing
// an existing column of the same name, keeping its position).
func (df *DataFrame) WithColumn(s ISeries) *DataFrame {
	newColumns := make(map[string]ISeries, len(df.columns)+1)
	for name, col := range df.columns {
		newColumns[name] = col
	}

	newOrder := df.Columns()
	if _, exists := df.columns[s.Name()]; !exists {
		newOrder = append(newOrder, s.Name())
	}
	newColumns[s.Name()] = s

	return &DataFrame{columns: newColumns, order: newOrder}
}

// Strings returns the values of a string column.
func (df *DataFrame) Strings(name string) ([]string, error) {
	s, ok := df.columns[name]
	if !ok {
		return nil, fmt.Errorf("frame: column %q does not exist", name)
	}
	typed, ok := s.(*Series[string])
	if !ok {
		return nil, fmt.Errorf("frame: column %q is not a string column", name)
	}
	return typed.Values(), nil
}

// Ints returns the values of an int64 column. Null slots read as 0.
func (df *DataFrame) Ints(name string) ([]int64, error) {
	s, ok := df.columns[name]
	if !ok {
		return nil, fmt.Errorf("frame: column %q does not exist", name)
	}
	typed, ok := s.(*Series[int64])
	if !ok {
		return nil, fmt.Errorf("frame: column %q is not an int64 column", name)
	}
	return typed.Values(), nil
}

// Floats returns the values of a float64 column.
func (df *DataFrame) Floats(name string) ([]float64, error) {
	s, ok := df.columns[name]
	if !ok {
		return nil, fmt.Errorf("frame: column %q does not exist", name)
	}
	typed, ok := s.(*Series[float64])
	if !ok {
		return nil, fmt.Errorf("frame: column %q is not a float64 column", name)
	}
	return typed.Values(), nil
}

// Take returns a new DataFrame containing the rows at the given indices,
// in the given order.
func (df *DataFrame) Take(indices []int, mem memory.Allocator) *DataFrame {
	if mem == nil {
		mem = memory.NewGoAllocator()
	}

	taken := make([]ISeries, 0, len(df.order))
	for _, name := range df.order {
		taken = append(taken, takeSeries(df.columns[name], indices, mem))
	}
	return NewDataFrame(taken...)
}

// FilterMask returns a new DataFrame with the rows where mask[i] is true.
func (df *DataFrame) FilterMask(mask []bool, mem memory.Allocator) *DataFrame {
	indices := make([]int, 0, len(mask))
	for i, keep := range mask {
		if keep {
			indices = append(indices, i)
		}
	}
	return df.Take(indices, mem)
}

// Head returns the first n rows (fewer if the frame is shorter).
func (df *DataFrame) Head(n int, mem memory.Allocator) *DataFrame {
	if n > df.Len() {
		n = df.Len()
	}
	indices := make([]int, n)
	for i := range indices {
		indices[i] = i
	}
	return df.Take(indices, mem)
}

// SortByInt returns a new DataFrame stably sorted by an int64 column.
func (df *DataFrame) SortByInt(name string, ascending bool, mem memory.Allocator) (*DataFrame, error) {
	keys, err := df.Ints(name)
	if err != nil {
		return nil, err
	}

	indices := make([]int, len(keys))
	for i := range indices {
		indices[i] = i
	}
	sort.SliceStable(indices, func(a, b int) bool {
		if ascending {
			return keys[indices[a]] < keys[indices[b]]
		}
		return keys[indices[a]] > keys[indices[b]]
	})
	return df.Take(indices, mem), nil
}

// takeSeries rebuilds a series from the rows at indices. Null slots are
// carried over.
func takeSeries(s ISeries, indices []int, mem memory.Allocator) ISeries {
	arr := s.Array()
	defer arr.Release()

	switch typed := arr.(type) {
	case *array.String:
		values := make([]string, len(indices))
		valid := make([]bool, len(indices))
		for i, idx := range indices {
			valid[i] = !typed.IsNull(idx)
			if valid[i] {
				values[i] = typed.Value(idx)
			}
		}
		return NewNullable(s.Name(), values, valid, mem)
	case *array.Int64:
		values := make([]int64, len(indices))
		valid := make([]bool, len(indices))
		for i, idx := range indices {
			valid[i] = !typed.IsNull(idx)
			if valid[i] {
				values[i] = typed.Value(idx)
			}
		}
		return NewNullable(s.Name(), values, valid, mem)
	case *array.Float64:
		values := make([]float64, len(indices))
		valid := make([]bool, len(indices))
		for i, idx := range indices {
			valid[i] = !typed.IsNull(idx)
			if valid[i] {
				values[i] = typed.Value(idx)
			}
		}
		return NewNullable(s.Name(), values, valid, mem)
	case *array.Boolean:
		values := make([]bool, len(indices))
		valid := make([]bool, len(indices))
		for i, idx := range indices {
			valid[i] = !typed.IsNull(idx)
			if valid[i] {
				values[i] = typed.Value(idx)
			}
		}
		return NewNullable(s.Name(), values, valid, mem)
	default:
		panic(fmt.Sprintf("frame: unsupported array type %T", arr))
	}
}

// String renders the frame header and up to ten rows, for previews.
func (df *DataFrame) String() string {
	var sb strings.Builder
	sb.WriteString(strings.Join(df.order, "\t"))
	sb.WriteByte('\n')

	rows := df.Len()
	if rows > 10 {
		rows = 10
	}
	for i := range rows {
		cells := make([]string, 0, len(df.order))
		for _, name := range df.order {
			cells = append(cells, cellString(df.columns[name], i))
		}
		sb.WriteString(strings.Join(cells, "\t"))
		sb.WriteByte('\n')
	}
	if df.Len() > rows {
		fmt.Fprintf(&sb, "... (%d rows)\n", df.Len())
	}
	return sb.String()
}

func cellString(s ISeries, i int) string {
	if s.IsNull(i) {
		return "<null>"
	}
	arr := s.Array()
	defer arr.Release()

	switch typed := arr.(type) {
	case *array.String:
		return typed.Value(i)
	case *array.Int64:
		return fmt.Sprintf("%d", typed.Value(i))
	case *array.Float64:
		return fmt.Sprintf("%g", typed.Value(i))
	case *array.Boolean:
		return fmt.Sprintf("%t", typed.Value(i))
	default:
		return "?"
	}
}

// Release releases every column's Arrow memory.
func (df *DataFrame) Release() {
	for _, s := range df.columns {
		s.Release()
	}
}
