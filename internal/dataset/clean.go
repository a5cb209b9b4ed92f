package dataset

import (
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/epiforge/outbreaks/internal/frame"
)

// Clean derives the analysis table from a raw frame. It is a pure
// transformation: the input frame is left untouched and the row count is
// preserved exactly.
//
// Policy:
//   - Location, Food, Ingredient, Species, Serotype/Genotype, Status:
//     missing (empty) values become the "Unknown" sentinel.
//   - Hospitalizations, Fatalities: missing values become 0.
//   - Hospitalized is derived for every row: 1 iff Hospitalizations > 0.
func Clean(raw *frame.DataFrame, mem memory.Allocator) (*frame.DataFrame, error) {
	n := raw.Len()
	columns := make([]frame.ISeries, 0, len(RawColumns)+1)

	for _, name := range RawColumns {
		switch {
		case contains(imputedCategoricals, name):
			values, err := raw.Strings(name)
			if err != nil {
				return nil, err
			}
			filled := make([]string, n)
			for i, v := range values {
				if v == "" {
					filled[i] = Unknown
				} else {
					filled[i] = v
				}
			}
			columns = append(columns, frame.New(name, filled, mem))

		case contains(imputedCounts, name):
			// Null slots already read back as 0; rebuilding without a
			// validity mask makes the imputation explicit.
			values, err := raw.Ints(name)
			if err != nil {
				return nil, err
			}
			columns = append(columns, frame.New(name, values, mem))

		default:
			col, _ := raw.Column(name)
			columns = append(columns, col)
		}
	}

	hospitalizations, err := raw.Ints(ColHospitalizations)
	if err != nil {
		return nil, err
	}
	hospitalized := make([]int64, n)
	for i, h := range hospitalizations {
		if h > 0 {
			hospitalized[i] = 1
		}
	}
	columns = append(columns, frame.New(ColHospitalized, hospitalized, mem))

	return frame.NewDataFrame(columns...), nil
}

// MissingCount pairs a column name with its missing-cell count.
type MissingCount struct {
	Column  string
	Missing int
}

// MissingCounts censuses missing cells per raw column: empty strings in
// categorical columns and null slots in the count columns.
func MissingCounts(raw *frame.DataFrame) ([]MissingCount, error) {
	out := make([]MissingCount, 0, len(RawColumns))

	for _, name := range RawColumns {
		var missing int
		if contains(categoricalColumns, name) {
			values, err := raw.Strings(name)
			if err != nil {
				return nil, err
			}
			for _, v := range values {
				if v == "" {
					missing++
				}
			}
		} else {
			col, ok := raw.Column(name)
			if !ok {
				continue
			}
			for i := range col.Len() {
				if col.IsNull(i) {
					missing++
				}
			}
		}
		out = append(out, MissingCount{Column: name, Missing: missing})
	}
	return out, nil
}
