// Package testutil provides common testing utilities shared across the
// pipeline's test files: allocator setup and canned outbreak frames.
package testutil

import (
	"testing"

	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/epiforge/outbreaks/internal/dataset"
	"github.com/epiforge/outbreaks/internal/frame"
)

// Allocator returns the memory allocator used by tests.
func Allocator(tb testing.TB) memory.Allocator {
	tb.Helper()
	return memory.NewGoAllocator()
}

// RawFrame builds a three-row raw outbreak frame matching the ingestion
// schema, with one missing Food cell and one missing Hospitalizations
// cell.
func RawFrame(tb testing.TB, mem memory.Allocator) *frame.DataFrame {
	tb.Helper()

	return frame.NewDataFrame(
		frame.New(dataset.ColYear, []int64{2010, 2011, 2012}, mem),
		frame.New(dataset.ColMonth, []string{"May", "June", "July"}, mem),
		frame.New(dataset.ColState, []string{"CA", "TX", "CA"}, mem),
		frame.New(dataset.ColLocation, []string{"Restaurant", "Home", "Restaurant"}, mem),
		frame.New(dataset.ColFood, []string{"Chicken", "", "Chicken"}, mem),
		frame.New(dataset.ColIngredient, []string{"", "", ""}, mem),
		frame.New(dataset.ColSpecies, []string{"Salmonella", "", "Salmonella"}, mem),
		frame.New(dataset.ColSerotype, []string{"", "", ""}, mem),
		frame.New(dataset.ColStatus, []string{"Confirmed", "", "Confirmed"}, mem),
		frame.New(dataset.ColIllnesses, []int64{20, 5, 12}, mem),
		frame.NewNullable(dataset.ColHospitalizations, []int64{2, 0, 1}, []bool{true, false, true}, mem),
		frame.NewNullable(dataset.ColFatalities, []int64{0, 0, 0}, []bool{true, false, true}, mem),
	)
}

// CleanedFrame builds the cleaned version of RawFrame.
func CleanedFrame(tb testing.TB, mem memory.Allocator) *frame.DataFrame {
	tb.Helper()

	raw := RawFrame(tb, mem)
	cleaned, err := dataset.Clean(raw, mem)
	if err != nil {
		tb.Fatalf("cleaning canned frame: %v", err)
	}
	return cleaned
}
