package spreadsheet

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestXLSXRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "postings.xlsx")

	table := &Table{
		Columns: []string{"Job Title", "Job Description"},
		Rows: [][]string{
			{"Backend Engineer", "Build services"},
			{"Data Analyst", "Analyze data"},
		},
	}

	if err := Write(path, table); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	got, err := Read(path)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}

	if !reflect.DeepEqual(got.Columns, table.Columns) {
		t.Fatalf("unexpected columns: %v", got.Columns)
	}
	if !reflect.DeepEqual(got.Rows, table.Rows) {
		t.Fatalf("unexpected rows: %v", got.Rows)
	}
}

func TestCSVReadDecodesLegacyEncoding(t *testing.T) {
	path := filepath.Join(t.TempDir(), "postings.csv")

	// "Résumé" with é encoded as ISO-8859-1 byte 0xE9.
	data := []byte("Job Title,Job Description\nR\xe9sum\xe9 Reviewer,Review r\xe9sum\xe9s\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	table, err := Read(path)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}

	if table.Rows[0][0] != "Résumé Reviewer" {
		t.Fatalf("expected decoded title, got %q", table.Rows[0][0])
	}
}

func TestCSVRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")

	table := &Table{
		Columns: []string{"a", "b"},
		Rows:    [][]string{{"1", "2"}},
	}

	if err := Write(path, table); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	got, err := Read(path)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if !reflect.DeepEqual(got.Rows, table.Rows) {
		t.Fatalf("unexpected rows: %v", got.Rows)
	}
}

func TestReadRejectsUnknownExtension(t *testing.T) {
	if _, err := Read("postings.ods"); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestDropUnnamed(t *testing.T) {
	table := &Table{
		Columns: []string{"Unnamed: 0", "Job Title", "", "Job Description"},
		Rows: [][]string{
			{"0", "Backend Engineer", "x", "Build services"},
		},
	}

	table.DropUnnamed()

	if !reflect.DeepEqual(table.Columns, []string{"Job Title", "Job Description"}) {
		t.Fatalf("unexpected columns: %v", table.Columns)
	}
	if !reflect.DeepEqual(table.Rows[0], []string{"Backend Engineer", "Build services"}) {
		t.Fatalf("unexpected row: %v", table.Rows[0])
	}
}

func TestAppendColumn(t *testing.T) {
	table := &Table{
		Columns: []string{"Job Title"},
		Rows:    [][]string{{"Backend Engineer"}},
	}

	if err := table.AppendColumn("JD Summary", []string{"summary text"}); err != nil {
		t.Fatalf("append failed: %v", err)
	}
	if table.Cell(0, "JD Summary") != "summary text" {
		t.Fatalf("unexpected cell value: %q", table.Cell(0, "JD Summary"))
	}

	if err := table.AppendColumn("broken", []string{"a", "b"}); err == nil {
		t.Fatal("expected length-mismatch error")
	}
}

func TestColumnIndexMissing(t *testing.T) {
	table := &Table{Columns: []string{"Job Title"}}
	if idx := table.ColumnIndex("JD Summary"); idx != -1 {
		t.Fatalf("expected -1, got %d", idx)
	}
}
