// Package analytics computes the descriptive aggregates of the cleaned
// outbreak table. All functions are pure reads; rendering is left to the
// viz package.
package analytics

import (
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/epiforge/outbreaks/internal/dataset"
	"github.com/epiforge/outbreaks/internal/frame"
)

// TrendPoint is one year's illness and hospitalization totals.
type TrendPoint struct {
	Year             int64
	Illnesses        int64
	Hospitalizations int64
}

// RankEntry is one label with its occurrence count.
type RankEntry struct {
	Label string
	Count int64
}

// StateEntry is one state with its summed illness count.
type StateEntry struct {
	State     string
	Illnesses int64
}

// YearlyTrend sums Illnesses and Hospitalizations per year, ordered by
// year ascending.
func YearlyTrend(cleaned *frame.DataFrame, mem memory.Allocator) ([]TrendPoint, error) {
	grouped, err := cleaned.GroupSumByInt(dataset.ColYear,
		[]string{dataset.ColIllnesses, dataset.ColHospitalizations}, mem)
	if err != nil {
		return nil, err
	}
	defer grouped.Release()

	sorted, err := grouped.SortByInt(dataset.ColYear, true, mem)
	if err != nil {
		return nil, err
	}
	defer sorted.Release()

	years, err := sorted.Ints(dataset.ColYear)
	if err != nil {
		return nil, err
	}
	illnesses, err := sorted.Ints("sum_" + dataset.ColIllnesses)
	if err != nil {
		return nil, err
	}
	hospitalizations, err := sorted.Ints("sum_" + dataset.ColHospitalizations)
	if err != nil {
		return nil, err
	}

	points := make([]TrendPoint, len(years))
	for i := range years {
		points[i] = TrendPoint{
			Year:             years[i],
			Illnesses:        illnesses[i],
			Hospitalizations: hospitalizations[i],
		}
	}
	return points, nil
}

// TopFoods ranks food values by occurrence count among rows where a
// hospitalization occurred. Ties break by label ascending.
func TopFoods(cleaned *frame.DataFrame, n int, mem memory.Allocator) ([]RankEntry, error) {
	return topValues(cleaned, dataset.ColFood, n, mem)
}

// TopLocations ranks location values the same way as TopFoods.
func TopLocations(cleaned *frame.DataFrame, n int, mem memory.Allocator) ([]RankEntry, error) {
	return topValues(cleaned, dataset.ColLocation, n, mem)
}

func topValues(cleaned *frame.DataFrame, column string, n int, mem memory.Allocator) ([]RankEntry, error) {
	labels, err := cleaned.Ints(dataset.ColHospitalized)
	if err != nil {
		return nil, err
	}
	mask := make([]bool, len(labels))
	for i, v := range labels {
		mask[i] = v == 1
	}

	hospitalized := cleaned.FilterMask(mask, mem)
	defer hospitalized.Release()

	counts, err := hospitalized.ValueCounts(column, mem)
	if err != nil {
		return nil, err
	}
	defer counts.Release()

	values, err := counts.Strings(column)
	if err != nil {
		return nil, err
	}
	occurrences, err := counts.Ints("count")
	if err != nil {
		return nil, err
	}

	if n > len(values) {
		n = len(values)
	}
	entries := make([]RankEntry, n)
	for i := range n {
		entries[i] = RankEntry{Label: values[i], Count: occurrences[i]}
	}
	return entries, nil
}

// TopStates ranks states by summed illness count across all rows,
// descending.
func TopStates(cleaned *frame.DataFrame, n int, mem memory.Allocator) ([]StateEntry, error) {
	grouped, err := cleaned.GroupSumByString(dataset.ColState,
		[]string{dataset.ColIllnesses}, mem)
	if err != nil {
		return nil, err
	}
	defer grouped.Release()

	sorted, err := grouped.SortByInt("sum_"+dataset.ColIllnesses, false, mem)
	if err != nil {
		return nil, err
	}
	defer sorted.Release()

	states, err := sorted.Strings(dataset.ColState)
	if err != nil {
		return nil, err
	}
	sums, err := sorted.Ints("sum_" + dataset.ColIllnesses)
	if err != nil {
		return nil, err
	}

	if n > len(states) {
		n = len(states)
	}
	entries := make([]StateEntry, n)
	for i := range n {
		entries[i] = StateEntry{State: states[i], Illnesses: sums[i]}
	}
	return entries, nil
}
