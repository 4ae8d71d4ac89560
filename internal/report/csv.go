package report

import (
	"bufio"
	"io"
	"strings"
	"time"

	"github.com/polkiloo/membership/internal/domain/model"
)

// ContentTypeCSV is the media type of CSV exports.
const ContentTypeCSV = "text/csv; charset=utf-8"

// WriteCSV writes customers as spreadsheet-safe CSV. Every field is emitted
// as a text formula so that numbers and dates keep their literal form.
// Creation times are shown in loc.
func WriteCSV(w io.Writer, customers []model.Customer, loc *time.Location) error {
	bw := bufio.NewWriter(w)

	writeRecord(bw, Headers)
	for _, c := range customers {
		bw.WriteByte('\n')
		writeRecord(bw, row(c, loc))
	}

	return bw.Flush()
}

func writeRecord(w *bufio.Writer, fields []string) {
	for i, f := range fields {
		if i > 0 {
			w.WriteByte(',')
		}
		w.WriteString(quote(f))
	}
}

func quote(v string) string {
	return `="` + strings.ReplaceAll(v, `"`, `""`) + `"`
}
