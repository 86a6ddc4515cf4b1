package render

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/nhle/saturday-roster/internal/model"
	"github.com/nhle/saturday-roster/internal/summary"
)

// utf8BOM makes spreadsheet software read the file as UTF-8.
const utf8BOM = "\ufeff"

// MemberHeader labels the member column of summary output.
const MemberHeader = "Colaborador"

// SummaryCSV writes the summary rows with a BOM and a header of the member
// column followed by every status in display order.
func SummaryCSV(w io.Writer, rows []summary.Row, statuses model.StatusSet) error {
	if _, err := io.WriteString(w, utf8BOM); err != nil {
		return fmt.Errorf("writing csv: %w", err)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(append([]string{MemberHeader}, statuses.Labels()...)); err != nil {
		return fmt.Errorf("writing csv header: %w", err)
	}

	for _, r := range rows {
		record := make([]string, 0, statuses.Len()+1)
		record = append(record, r.Member)
		for _, st := range statuses.All() {
			record = append(record, strconv.Itoa(r.Count(st)))
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("writing csv row for %s: %w", r.Member, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flushing csv: %w", err)
	}
	return nil
}
