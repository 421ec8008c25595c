package service

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/folio/signupd/internal/model"
)

// CSVHeader is the first line of every export.
const CSVHeader = "ID,First Name,Last Name,Email,Subscribed Date"

// WriteCSV writes signups in the export format: the header row, then one
// row per signup in the given order. Every text column is wrapped in double
// quotes with embedded quotes doubled; the numeric ID is left bare.
func WriteCSV(w io.Writer, signups []*model.Signup) error {
	bw := bufio.NewWriter(w)

	if _, err := bw.WriteString(CSVHeader); err != nil {
		return err
	}

	for _, s := range signups {
		row := strings.Join([]string{
			strconv.FormatInt(s.ID, 10),
			quoteCSV(s.FirstName),
			quoteCSV(s.LastName),
			quoteCSV(s.Email),
			quoteCSV(s.CreatedAt.UTC().Format(time.RFC3339)),
		}, ",")
		if _, err := bw.WriteString("\n" + row); err != nil {
			return err
		}
	}

	return bw.Flush()
}

// ExportFilename returns the attachment name for an export made at now.
func ExportFilename(now time.Time) string {
	return fmt.Sprintf("signups-%s.csv", now.UTC().Format("2006-01-02"))
}

func quoteCSV(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
