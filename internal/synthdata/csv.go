package synthdata

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

// WriteCSV renders one dataset as CSV with a header row. Feature
// values appear in the kind's stable column order.
func WriteCSV(w io.Writer, ds Dataset) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(ds.Header()); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for _, rec := range ds.Records {
		row := make([]string, 0, len(rec.Identity)+len(rec.Features.Columns())+3)
		row = append(row, string(ds.Kind))
		row = append(row, rec.Identity...)
		for _, v := range rec.Features.Vector() {
			row = append(row, strconv.FormatFloat(v, 'f', -1, 64))
		}
		row = append(row, string(rec.Status), strconv.FormatFloat(round2(rec.Score), 'f', 2, 64))

		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}
