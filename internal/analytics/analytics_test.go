package analytics_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/epiforge/outbreaks/internal/analytics"
	"github.com/epiforge/outbreaks/internal/testutil"
)

func TestYearlyTrend(t *testing.T) {
	mem := testutil.Allocator(t)
	cleaned := testutil.CleanedFrame(t, mem)

	points, err := analytics.YearlyTrend(cleaned, mem)
	require.NoError(t, err)

	assert.Equal(t, []analytics.TrendPoint{
		{Year: 2010, Illnesses: 20, Hospitalizations: 2},
		{Year: 2011, Illnesses: 5, Hospitalizations: 0},
		{Year: 2012, Illnesses: 12, Hospitalizations: 1},
	}, points)
}

func TestTopFoods(t *testing.T) {
	mem := testutil.Allocator(t)
	cleaned := testutil.CleanedFrame(t, mem)

	// Only the two hospitalization rows count; both report Chicken.
	entries, err := analytics.TopFoods(cleaned, 10, mem)
	require.NoError(t, err)
	assert.Equal(t, []analytics.RankEntry{{Label: "Chicken", Count: 2}}, entries)
}

func TestTopLocations(t *testing.T) {
	mem := testutil.Allocator(t)
	cleaned := testutil.CleanedFrame(t, mem)

	entries, err := analytics.TopLocations(cleaned, 10, mem)
	require.NoError(t, err)
	assert.Equal(t, []analytics.RankEntry{{Label: "Restaurant", Count: 2}}, entries)
}

func TestTopFoodsTruncates(t *testing.T) {
	mem := testutil.Allocator(t)
	cleaned := testutil.CleanedFrame(t, mem)

	entries, err := analytics.TopFoods(cleaned, 0, mem)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestTopStates(t *testing.T) {
	mem := testutil.Allocator(t)
	cleaned := testutil.CleanedFrame(t, mem)

	entries, err := analytics.TopStates(cleaned, 10, mem)
	require.NoError(t, err)

	// Summed over every row, descending.
	assert.Equal(t, []analytics.StateEntry{
		{State: "CA", Illnesses: 32},
		{State: "TX", Illnesses: 5},
	}, entries)
}
