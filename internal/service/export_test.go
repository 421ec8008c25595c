package service

import (
	"bytes"
	"testing"
	"time"

	"github.com/folio/signupd/internal/model"
)

func TestWriteCSV(t *testing.T) {
	t.Parallel()

	newer := time.Date(2024, 5, 2, 9, 30, 0, 0, time.UTC)
	older := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)

	signups := []*model.Signup{
		{ID: 2, FirstName: `Dwayne "The Rock"`, LastName: "Johnson", Email: "rock@example.com", CreatedAt: newer},
		{ID: 1, FirstName: "Ada", LastName: "Lovelace, Countess", Email: "ada@example.com", CreatedAt: older},
	}

	var buf bytes.Buffer
	if err := WriteCSV(&buf, signups); err != nil {
		t.Fatalf("WriteCSV failed: %v", err)
	}

	want := "ID,First Name,Last Name,Email,Subscribed Date\n" +
		`2,"Dwayne ""The Rock""","Johnson","rock@example.com","2024-05-02T09:30:00Z"` + "\n" +
		`1,"Ada","Lovelace, Countess","ada@example.com","2024-05-01T08:00:00Z"`

	if got := buf.String(); got != want {
		t.Errorf("WriteCSV output mismatch\n got: %q\nwant: %q", got, want)
	}
}

func TestWriteCSV_Empty(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := WriteCSV(&buf, nil); err != nil {
		t.Fatalf("WriteCSV failed: %v", err)
	}
	if buf.String() != CSVHeader {
		t.Errorf("empty export = %q, want header only", buf.String())
	}
}

func TestExportFilename(t *testing.T) {
	t.Parallel()

	got := ExportFilename(time.Date(2024, 12, 31, 23, 0, 0, 0, time.UTC))
	if got != "signups-2024-12-31.csv" {
		t.Errorf("ExportFilename = %q", got)
	}
}
