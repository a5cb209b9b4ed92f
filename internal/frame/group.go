package frame

import (
	"sort"

	"github.com/apache/arrow-go/v18/arrow/memory"
	xxhash "github.com/cespare/xxhash/v2"
	"golang.org/x/exp/constraints"
)

// stringGroups buckets row indices by a string key. Buckets are keyed by
// xxhash of the value with an equality check on collision, and reported
// in first-encounter order.
type stringGroups struct {
	buckets map[uint64][]*groupBucket
	order   []*groupBucket
}

type groupBucket struct {
	key     string
	indices []int
}

func groupStrings(values []string) *stringGroups {
	g := &stringGroups{buckets: make(map[uint64][]*groupBucket)}
	for i, v := range values {
		g.add(v, i)
	}
	return g
}

func (g *stringGroups) add(key string, index int) {
	hash := xxhash.Sum64String(key)
	for _, b := range g.buckets[hash] {
		if b.key == key {
			b.indices = append(b.indices, index)
			return
		}
	}
	b := &groupBucket{key: key, indices: []int{index}}
	g.buckets[hash] = append(g.buckets[hash], b)
	g.order = append(g.order, b)
}

// GroupSumByString groups rows by a string column and sums the named int64
// columns per group. Output columns are the key followed by "sum_<col>"
// for each value column, with groups in first-encounter order.
func (df *DataFrame) GroupSumByString(key string, valueCols []string, mem memory.Allocator) (*DataFrame, error) {
	keys, err := df.Strings(key)
	if err != nil {
		return nil, err
	}
	groups := groupStrings(keys)

	outKeys := make([]string, len(groups.order))
	for i, b := range groups.order {
		outKeys[i] = b.key
	}

	out := []ISeries{New(key, outKeys, mem)}
	for _, col := range valueCols {
		values, err := df.Ints(col)
		if err != nil {
			return nil, err
		}
		sums := make([]int64, len(groups.order))
		for i, b := range groups.order {
			for _, idx := range b.indices {
				sums[i] += values[idx]
			}
		}
		out = append(out, New("sum_"+col, sums, mem))
	}
	return NewDataFrame(out...), nil
}

// GroupSumByInt groups rows by an int64 column and sums the named int64
// columns per group, in first-encounter order.
func (df *DataFrame) GroupSumByInt(key string, valueCols []string, mem memory.Allocator) (*DataFrame, error) {
	keys, err := df.Ints(key)
	if err != nil {
		return nil, err
	}

	positions := make(map[int64]int)
	var order []int64
	groups := make([][]int, 0)
	for i, k := range keys {
		pos, ok := positions[k]
		if !ok {
			pos = len(order)
			positions[k] = pos
			order = append(order, k)
			groups = append(groups, nil)
		}
		groups[pos] = append(groups[pos], i)
	}

	out := []ISeries{New(key, order, mem)}
	for _, col := range valueCols {
		values, err := df.Ints(col)
		if err != nil {
			return nil, err
		}
		sums := make([]int64, len(order))
		for i, indices := range groups {
			for _, idx := range indices {
				sums[i] += values[idx]
			}
		}
		out = append(out, New("sum_"+col, sums, mem))
	}
	return NewDataFrame(out...), nil
}

// ValueCounts counts occurrences of each distinct value of a string
// column. The result has columns [<name>, "count"] ordered by count
// descending, ties broken by value ascending.
func (df *DataFrame) ValueCounts(name string, mem memory.Allocator) (*DataFrame, error) {
	values, err := df.Strings(name)
	if err != nil {
		return nil, err
	}
	groups := groupStrings(values)

	order := append([]*groupBucket(nil), groups.order...)
	sort.SliceStable(order, func(a, b int) bool {
		if len(order[a].indices) != len(order[b].indices) {
			return len(order[a].indices) > len(order[b].indices)
		}
		return order[a].key < order[b].key
	})

	outKeys := make([]string, len(order))
	counts := make([]int64, len(order))
	for i, b := range order {
		outKeys[i] = b.key
		counts[i] = int64(len(b.indices))
	}

	return NewDataFrame(New(name, outKeys, mem), New("count", counts, mem)), nil
}

// Sum totals a numeric slice.
func Sum[T constraints.Integer | constraints.Float](values []T) T {
	var total T
	for _, v := range values {
		total += v
	}
	return total
}

// Column extraction helpers used by the modeling stages.

// IntColumnAsFloats returns an int64 column converted to float64.
func (df *DataFrame) IntColumnAsFloats(name string) ([]float64, error) {
	values, err := df.Ints(name)
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = float64(v)
	}
	return out, nil
}
