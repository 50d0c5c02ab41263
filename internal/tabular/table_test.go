package tabular_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/data-analyzer-api/internal/tabular"
)

func sampleTable() *tabular.Table {
	return &tabular.Table{
		Columns: []string{"name", "city", "score"},
		Rows: [][]string{
			{"Alice", "Berlin", "10"},
			{"Bob", "Boston", "20"},
			{"Carol", "berlin", "30"},
			{"Dave", "Madrid", "40"},
			{"Eve", "Lisbon", "50"},
		},
	}
}

func TestParseCSV(t *testing.T) {
	input := "a,b\n1,2\n3,4\n"
	table, err := tabular.ParseCSV(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ParseCSV failed: %v", err)
	}
	if table.NumColumns() != 2 {
		t.Errorf("Expected 2 columns, got %d", table.NumColumns())
	}
	if table.NumRows() != 2 {
		t.Errorf("Expected 2 rows, got %d", table.NumRows())
	}
	if table.Rows[1][1] != "4" {
		t.Errorf("Expected cell '4', got %q", table.Rows[1][1])
	}
}

func TestParseCSV_Empty(t *testing.T) {
	_, err := tabular.ParseCSV(strings.NewReader(""))
	if err == nil {
		t.Error("Expected error for empty input")
	}
}

func TestParseCSV_RaggedRows(t *testing.T) {
	input := "a,b,c\n1,2\n3,4,5,6\n"
	table, err := tabular.ParseCSV(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ParseCSV failed: %v", err)
	}
	if table.NumRows() != 2 {
		t.Errorf("Expected 2 rows, got %d", table.NumRows())
	}
}

func TestFilterContains(t *testing.T) {
	table := sampleTable()

	tests := []struct {
		name      string
		column    string
		substring string
		wantRows  int
	}{
		{"case insensitive match", "city", "BERLIN", 2},
		{"partial match", "name", "a", 4},
		{"no match", "city", "tokyo", 0},
		{"empty substring keeps all rows", "city", "", 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			filtered, err := table.FilterContains(tt.column, tt.substring)
			if err != nil {
				t.Fatalf("FilterContains failed: %v", err)
			}
			if filtered.NumRows() != tt.wantRows {
				t.Errorf("Expected %d rows, got %d", tt.wantRows, filtered.NumRows())
			}
		})
	}
}

func TestFilterContains_UnknownColumn(t *testing.T) {
	table := sampleTable()
	_, err := table.FilterContains("missing", "x")
	if err == nil {
		t.Error("Expected error for unknown column")
	}
}

func TestWindow(t *testing.T) {
	table := sampleTable()

	tests := []struct {
		name      string
		offset    int
		n         int
		wantRows  int
		wantFirst string
	}{
		{"first window", 0, 2, 2, "Alice"},
		{"middle window", 2, 2, 2, "Carol"},
		{"offset clamped high", 100, 2, 2, "Dave"},
		{"offset clamped low", -5, 2, 2, "Alice"},
		{"window larger than table is empty", 0, 10, 0, ""},
		{"zero rows", 0, 0, 0, ""},
		{"exact size", 0, 5, 5, "Alice"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := table.Window(tt.offset, tt.n)
			if w.NumRows() != tt.wantRows {
				t.Fatalf("Expected %d rows, got %d", tt.wantRows, w.NumRows())
			}
			if tt.wantFirst != "" && w.Rows[0][0] != tt.wantFirst {
				t.Errorf("Expected first row %q, got %q", tt.wantFirst, w.Rows[0][0])
			}
		})
	}
}

func TestSelectColumns(t *testing.T) {
	table := sampleTable()

	selected, err := table.SelectColumns([]string{"score", "name"})
	if err != nil {
		t.Fatalf("SelectColumns failed: %v", err)
	}
	if selected.NumColumns() != 2 {
		t.Fatalf("Expected 2 columns, got %d", selected.NumColumns())
	}
	// selection order wins over source order
	if selected.Columns[0] != "score" || selected.Columns[1] != "name" {
		t.Errorf("Expected [score name], got %v", selected.Columns)
	}
	if selected.Rows[0][0] != "10" || selected.Rows[0][1] != "Alice" {
		t.Errorf("Row values not reordered: %v", selected.Rows[0])
	}
}

func TestSelectColumns_EmptyKeepsAll(t *testing.T) {
	table := sampleTable()
	selected, err := table.SelectColumns(nil)
	if err != nil {
		t.Fatalf("SelectColumns failed: %v", err)
	}
	if selected.NumColumns() != 3 {
		t.Errorf("Expected all 3 columns, got %d", selected.NumColumns())
	}
}

func TestSelectColumns_Unknown(t *testing.T) {
	table := sampleTable()
	_, err := table.SelectColumns([]string{"name", "missing"})
	if err == nil {
		t.Error("Expected error for unknown column")
	}
}

func TestNumericColumn(t *testing.T) {
	table := &tabular.Table{
		Columns: []string{"v"},
		Rows:    [][]string{{"1.5"}, {""}, {" 2 "}, {"3"}},
	}
	values, err := table.NumericColumn("v")
	if err != nil {
		t.Fatalf("NumericColumn failed: %v", err)
	}
	// empty cells are skipped
	if len(values) != 3 {
		t.Fatalf("Expected 3 values, got %d", len(values))
	}
	if values[0] != 1.5 || values[1] != 2 || values[2] != 3 {
		t.Errorf("Unexpected values: %v", values)
	}
}

func TestNumericColumn_NotNumeric(t *testing.T) {
	table := &tabular.Table{
		Columns: []string{"v"},
		Rows:    [][]string{{"1"}, {"abc"}},
	}
	_, err := table.NumericColumn("v")
	if err == nil {
		t.Error("Expected error for non-numeric cell")
	}
}

func TestWriteCSV(t *testing.T) {
	table := &tabular.Table{
		Columns: []string{"a", "b"},
		Rows:    [][]string{{"1", "2"}, {"3"}},
	}

	var buf bytes.Buffer
	if err := table.WriteCSV(&buf); err != nil {
		t.Fatalf("WriteCSV failed: %v", err)
	}

	want := "a,b\n1,2\n3,\n"
	if buf.String() != want {
		t.Errorf("Expected %q, got %q", want, buf.String())
	}
}
