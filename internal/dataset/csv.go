package dataset

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/epiforge/outbreaks/internal/frame"
	"github.com/epiforge/outbreaks/internal/oberrors"
)

// CSVOptions configures ingestion.
type CSVOptions struct {
	// Delimiter is the field delimiter (default: comma).
	Delimiter rune
	// Comment is the comment character (default: 0 = disabled).
	Comment rune
}

// DefaultCSVOptions returns default CSV options.
func DefaultCSVOptions() CSVOptions {
	return CSVOptions{Delimiter: ','}
}

// LoadCSV reads an outbreak report file into a DataFrame. Count columns
// become int64 series (Hospitalizations and Fatalities nullable);
// categorical columns become string series with empty cells kept empty
// until Clean imputes them.
//
// It fails with an io-kind error when the path is unreadable and a
// schema-kind error naming the first absent column.
func LoadCSV(path string, opts CSVOptions, mem memory.Allocator) (*frame.DataFrame, error) {
	const op = "LoadCSV"

	file, err := os.Open(path)
	if err != nil {
		return nil, oberrors.NewIO(op, path, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	if opts.Delimiter != 0 {
		reader.Comma = opts.Delimiter
	}
	reader.Comment = opts.Comment

	records, err := reader.ReadAll()
	if err != nil {
		return nil, oberrors.NewIO(op, path, err)
	}
	if len(records) == 0 {
		return nil, oberrors.NewSchema(op, "", "file has no header row")
	}

	header := records[0]
	rows := records[1:]

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.TrimSpace(name)] = i
	}
	for _, name := range RawColumns {
		if _, ok := index[name]; !ok {
			return nil, oberrors.NewSchema(op, name, "expected column is absent")
		}
	}

	cell := func(row []string, col string) string {
		i := index[col]
		if i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	columns := make([]frame.ISeries, 0, len(RawColumns))
	for _, name := range RawColumns {
		switch {
		case contains(requiredCounts, name):
			values := make([]int64, len(rows))
			for r, row := range rows {
				v, err := parseCount(cell(row, name))
				if err != nil {
					return nil, oberrors.NewSchema(op, name,
						fmt.Sprintf("row %d: %v", r+1, err))
				}
				values[r] = v
			}
			columns = append(columns, frame.New(name, values, mem))

		case contains(imputedCounts, name):
			values := make([]int64, len(rows))
			valid := make([]bool, len(rows))
			for r, row := range rows {
				raw := cell(row, name)
				if raw == "" {
					continue
				}
				v, err := parseCount(raw)
				if err != nil {
					return nil, oberrors.NewSchema(op, name,
						fmt.Sprintf("row %d: %v", r+1, err))
				}
				values[r] = v
				valid[r] = true
			}
			columns = append(columns, frame.NewNullable(name, values, valid, mem))

		default:
			values := make([]string, len(rows))
			for r, row := range rows {
				values[r] = cell(row, name)
			}
			columns = append(columns, frame.New(name, values, mem))
		}
	}

	return frame.NewDataFrame(columns...), nil
}

// parseCount parses a non-negative integer count. Surveillance exports
// sometimes render counts as floats ("2.0"); those are accepted when
// integral.
func parseCount(raw string) (int64, error) {
	if v, err := strconv.ParseInt(raw, 10, 64); err == nil {
		if v < 0 {
			return 0, fmt.Errorf("negative count %d", v)
		}
		return v, nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("value %q is not a count", raw)
	}
	v := int64(f)
	if float64(v) != f || v < 0 {
		return 0, fmt.Errorf("value %q is not a non-negative integer", raw)
	}
	return v, nil
}

func contains(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}
